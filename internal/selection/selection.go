// Package selection implements region selection over a surface: the
// marquee tools, the freehand lasso, and the magic wand flood fill.
package selection

import (
	"image"
)

// MinSize is the smallest mask extent, per axis, that counts as a real
// selection. Anything smaller is reported as empty.
const MinSize = 3

// Mode controls how a new selection combines with the existing one.
type Mode int

const (
	ModeReplace Mode = iota
	ModeAdd
	ModeSubtract
	ModeIntersect
)

func (m Mode) String() string {
	switch m {
	case ModeAdd:
		return "Add"
	case ModeSubtract:
		return "Subtract"
	case ModeIntersect:
		return "Intersect"
	default:
		return "Replace"
	}
}

// Selection is a coverage mask over the canvas. Mask alpha is 255 for
// fully selected pixels; feathering produces intermediate coverage.
type Selection struct {
	Mask      *image.Alpha
	Bounds    image.Rectangle
	Tolerance int
	Feather   int
}

// Empty reports whether the selection selects nothing usable.
func (s *Selection) Empty() bool {
	return s == nil || s.Mask == nil ||
		s.Bounds.Dx() < MinSize || s.Bounds.Dy() < MinSize
}

// Contains reports whether the pixel at (x, y) has any coverage.
func (s *Selection) Contains(x, y int) bool {
	if s.Empty() || !(image.Point{X: x, Y: y}.In(s.Mask.Bounds())) {
		return false
	}
	return s.Mask.AlphaAt(x, y).A > 0
}

// Coverage returns the selection coverage at (x, y) in 0-255.
func (s *Selection) Coverage(x, y int) uint8 {
	if s == nil || s.Mask == nil || !(image.Point{X: x, Y: y}.In(s.Mask.Bounds())) {
		return 0
	}
	return s.Mask.AlphaAt(x, y).A
}

// newMask allocates an empty mask covering the given canvas bounds.
func newMask(bounds image.Rectangle) *image.Alpha {
	return image.NewAlpha(bounds)
}

// maskAt reads mask coverage at (x, y), zero outside the mask.
func maskAt(mask *image.Alpha, x, y int) uint8 {
	if !(image.Point{X: x, Y: y}.In(mask.Bounds())) {
		return 0
	}
	return mask.Pix[mask.PixOffset(x, y)]
}

// maskBounds scans a mask for its covered bounding rectangle.
func maskBounds(mask *image.Alpha) image.Rectangle {
	b := mask.Bounds()
	minX, minY := b.Max.X, b.Max.Y
	maxX, maxY := b.Min.X-1, b.Min.Y-1
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := mask.Pix[mask.PixOffset(b.Min.X, y) : mask.PixOffset(b.Min.X, y)+b.Dx()]
		for x, a := range row {
			if a == 0 {
				continue
			}
			px := b.Min.X + x
			if px < minX {
				minX = px
			}
			if px > maxX {
				maxX = px
			}
			if y < minY {
				minY = y
			}
			if y > maxY {
				maxY = y
			}
		}
	}
	if maxX < minX || maxY < minY {
		return image.Rectangle{}
	}
	return image.Rect(minX, minY, maxX+1, maxY+1)
}

// Combine merges other into s according to mode and returns the result.
// Replace returns other unchanged; the remaining modes operate
// pixel-wise over the union of both masks.
func (s *Selection) Combine(other *Selection, mode Mode) *Selection {
	if mode == ModeReplace || s == nil || s.Mask == nil {
		return other
	}
	if other == nil || other.Mask == nil {
		if mode == ModeIntersect {
			return &Selection{Mask: newMask(s.Mask.Bounds())}
		}
		return s
	}

	// Masks may differ in extent: the wand sizes its mask to the active
	// layer's surface while the marquee tools cover the whole canvas.
	// Work over the union, reading zero coverage outside either mask.
	union := s.Mask.Bounds().Union(other.Mask.Bounds())
	out := newMask(union)
	for y := union.Min.Y; y < union.Max.Y; y++ {
		for x := union.Min.X; x < union.Max.X; x++ {
			a := maskAt(s.Mask, x, y)
			b := maskAt(other.Mask, x, y)
			var v uint8
			switch mode {
			case ModeAdd:
				if int(a)+int(b) > 255 {
					v = 255
				} else {
					v = a + b
				}
			case ModeSubtract:
				if b >= a {
					v = 0
				} else {
					v = a - b
				}
			case ModeIntersect:
				if a < b {
					v = a
				} else {
					v = b
				}
			}
			out.Pix[out.PixOffset(x, y)] = v
		}
	}

	return &Selection{
		Mask:      out,
		Bounds:    maskBounds(out),
		Tolerance: other.Tolerance,
		Feather:   s.Feather,
	}
}

// ApplyFeather softens the mask edge with a box blur of the selection's
// feather radius. A radius of zero is a no-op.
func (s *Selection) ApplyFeather() {
	if s == nil || s.Mask == nil || s.Feather <= 0 {
		return
	}
	s.Mask = boxBlur(s.Mask, s.Feather)
	s.Bounds = maskBounds(s.Mask)
}

// boxBlur runs one separable box blur pass of the given radius.
func boxBlur(mask *image.Alpha, radius int) *image.Alpha {
	b := mask.Bounds()
	w, h := b.Dx(), b.Dy()
	tmp := image.NewAlpha(b)
	out := image.NewAlpha(b)
	win := 2*radius + 1

	// Horizontal pass
	for y := 0; y < h; y++ {
		row := mask.Pix[y*mask.Stride : y*mask.Stride+w]
		sum := 0
		for x := -radius; x <= radius; x++ {
			sum += int(rowAt(row, x, w))
		}
		for x := 0; x < w; x++ {
			tmp.Pix[y*tmp.Stride+x] = uint8(sum / win)
			sum += int(rowAt(row, x+radius+1, w)) - int(rowAt(row, x-radius, w))
		}
	}

	// Vertical pass
	for x := 0; x < w; x++ {
		sum := 0
		for y := -radius; y <= radius; y++ {
			sum += int(colAt(tmp, x, y, h))
		}
		for y := 0; y < h; y++ {
			out.Pix[y*out.Stride+x] = uint8(sum / win)
			sum += int(colAt(tmp, x, y+radius+1, h)) - int(colAt(tmp, x, y-radius, h))
		}
	}

	return out
}

func rowAt(row []uint8, x, w int) uint8 {
	if x < 0 || x >= w {
		return 0
	}
	return row[x]
}

func colAt(img *image.Alpha, x, y, h int) uint8 {
	if y < 0 || y >= h {
		return 0
	}
	return img.Pix[y*img.Stride+x]
}
