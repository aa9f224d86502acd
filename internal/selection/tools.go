package selection

import (
	"image"

	"rasterpad/pkg/geometry"
)

// Kind identifies a selection tool variant.
type Kind int

const (
	KindRect Kind = iota
	KindEllipse
	KindFreehand
	KindMagicWand
)

func (k Kind) String() string {
	switch k {
	case KindRect:
		return "Rectangle"
	case KindEllipse:
		return "Ellipse"
	case KindFreehand:
		return "Freehand"
	case KindMagicWand:
		return "Magic Wand"
	default:
		return "Unknown"
	}
}

// State is the tool's gesture state.
type State int

const (
	StateIdle State = iota
	StateActive
)

// Tool is one selection tool. The marquee kinds accumulate drag
// geometry between Begin and Finish; the magic wand kind carries the
// wand parameters and selects on click via Wand.
type Tool struct {
	Kind       Kind
	Mode       Mode
	Tolerance  int
	Contiguous bool
	Feather    int

	state  State
	points []geometry.Point2D
}

// NewTool creates an idle tool of the given kind with wand defaults.
func NewTool(kind Kind) *Tool {
	return &Tool{
		Kind:       kind,
		Tolerance:  32,
		Contiguous: true,
	}
}

// State returns the current gesture state.
func (t *Tool) State() State {
	return t.state
}

// Begin starts a drag gesture at the given canvas point.
func (t *Tool) Begin(p geometry.Point2D) {
	t.state = StateActive
	t.points = t.points[:0]
	t.points = append(t.points, p)
}

// Update extends the drag gesture.
func (t *Tool) Update(p geometry.Point2D) {
	if t.state != StateActive {
		return
	}
	t.points = append(t.points, p)
}

// Finish ends the gesture and rasterizes the selection over a canvas
// of the given bounds. Degenerate drags yield an empty selection. The
// magic wand does not select by drag; Finish returns empty for it.
func (t *Tool) Finish(canvas image.Rectangle) *Selection {
	if t.state != StateActive {
		return &Selection{}
	}
	t.state = StateIdle

	if t.Kind == KindMagicWand || len(t.points) < 2 {
		return &Selection{}
	}

	mask := newMask(canvas)
	switch t.Kind {
	case KindRect:
		fillRect(mask, t.points[0], t.points[len(t.points)-1])
	case KindEllipse:
		fillEllipse(mask, t.points[0], t.points[len(t.points)-1])
	case KindFreehand:
		fillPolygon(mask, t.points)
	}

	sel := &Selection{
		Mask:    mask,
		Bounds:  maskBounds(mask),
		Feather: t.Feather,
	}
	if sel.Bounds.Dx() < MinSize || sel.Bounds.Dy() < MinSize {
		return &Selection{}
	}
	sel.ApplyFeather()
	return sel
}

func fillRect(mask *image.Alpha, a, b geometry.Point2D) {
	r := geometry.BoundingBox([]geometry.Point2D{a, b}).ToImageRect().Intersect(mask.Bounds())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		o := mask.PixOffset(r.Min.X, y)
		for x := r.Min.X; x < r.Max.X; x++ {
			mask.Pix[o] = 255
			o++
		}
	}
}

func fillEllipse(mask *image.Alpha, a, b geometry.Point2D) {
	box := geometry.BoundingBox([]geometry.Point2D{a, b})
	rx, ry := box.Width/2, box.Height/2
	if rx <= 0 || ry <= 0 {
		return
	}
	c := box.Center()
	r := box.ToImageRect().Intersect(mask.Bounds())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		dy := (float64(y) + 0.5 - c.Y) / ry
		o := mask.PixOffset(r.Min.X, y)
		for x := r.Min.X; x < r.Max.X; x++ {
			dx := (float64(x) + 0.5 - c.X) / rx
			if dx*dx+dy*dy <= 1 {
				mask.Pix[o] = 255
			}
			o++
		}
	}
}

func fillPolygon(mask *image.Alpha, poly []geometry.Point2D) {
	r := geometry.BoundingBox(poly).ToImageRect().Intersect(mask.Bounds())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		o := mask.PixOffset(r.Min.X, y)
		for x := r.Min.X; x < r.Max.X; x++ {
			p := geometry.Point2D{X: float64(x) + 0.5, Y: float64(y) + 0.5}
			if geometry.PointInPolygon(p, poly) {
				mask.Pix[o] = 255
			}
			o++
		}
	}
}
