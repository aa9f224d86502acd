package command

import (
	"fmt"
	"image"

	"rasterpad/internal/stroke"
	"rasterpad/internal/surface"
	"rasterpad/pkg/geometry"
)

// perPointOverhead is added to a stroke's memory estimate for each
// path point it retains.
const perPointOverhead = 24

// Stroke paints a brush path onto one surface. The affected region is
// the path's bounding box padded by half the stroke width plus a
// safety margin, clamped to the surface; its pre-stroke pixels are
// captured on first apply and restored on revert.
type Stroke struct {
	store  *surface.Store
	surf   surface.ID
	path   []geometry.Point2D
	style  stroke.Style
	region image.Rectangle
	before *image.RGBA
}

// NewStroke builds a stroke command. The path is owned by the command
// after the call.
func NewStroke(store *surface.Store, surf surface.ID, path []geometry.Point2D, style stroke.Style) *Stroke {
	region := style.Footprint(path)
	if s := store.Get(surf); s != nil {
		region = region.Intersect(s.Bounds())
	}
	return &Stroke{
		store:  store,
		surf:   surf,
		path:   path,
		style:  style,
		region: region,
	}
}

func (c *Stroke) Name() string {
	if c.style.Eraser {
		return "Eraser Stroke"
	}
	return "Brush Stroke"
}

func (c *Stroke) Apply() error {
	s := c.store.Get(c.surf)
	if s == nil {
		return fmt.Errorf("stroke target surface %d was freed", c.surf)
	}
	if c.before == nil {
		c.before = s.ReadRegion(c.region)
	}
	stroke.Rasterize(s, c.path, c.style)
	return nil
}

func (c *Stroke) Revert() error {
	s := c.store.Get(c.surf)
	if s == nil {
		return fmt.Errorf("stroke target surface %d was freed", c.surf)
	}
	s.WriteRegion(c.before)
	return nil
}

func (c *Stroke) MemoryBytes() int64 {
	px := int64(c.region.Dx()) * int64(c.region.Dy()) * 4
	return px + int64(len(c.path))*perPointOverhead
}

func (c *Stroke) Bounds() image.Rectangle {
	return c.region
}

// CanMerge accepts a directly preceding stroke (or run of strokes) on
// the same surface with the same style, so rapid dabs collapse into
// one undo entry. The Manager enforces the time and distance windows.
func (c *Stroke) CanMerge(prev Command) bool {
	switch p := prev.(type) {
	case *Stroke:
		return p.surf == c.surf && p.style == c.style
	case *strokeRun:
		return c.CanMerge(p.last())
	}
	return false
}

func (c *Stroke) Merge(prev Command) Command {
	switch p := prev.(type) {
	case *Stroke:
		return &strokeRun{parts: []*Stroke{p, c}}
	case *strokeRun:
		p.parts = append(p.parts, c)
		return p
	}
	return c
}

// strokeRun is several merged strokes acting as one history entry.
type strokeRun struct {
	parts []*Stroke
}

func (r *strokeRun) last() *Stroke {
	return r.parts[len(r.parts)-1]
}

func (r *strokeRun) Name() string {
	return r.parts[0].Name()
}

func (r *strokeRun) Apply() error {
	for _, p := range r.parts {
		if err := p.Apply(); err != nil {
			return err
		}
	}
	return nil
}

func (r *strokeRun) Revert() error {
	for i := len(r.parts) - 1; i >= 0; i-- {
		if err := r.parts[i].Revert(); err != nil {
			return err
		}
	}
	return nil
}

func (r *strokeRun) MemoryBytes() int64 {
	var total int64
	for _, p := range r.parts {
		total += p.MemoryBytes()
	}
	return total
}

func (r *strokeRun) Bounds() image.Rectangle {
	var b image.Rectangle
	for _, p := range r.parts {
		b = b.Union(p.region)
	}
	return b
}

func (r *strokeRun) CanMerge(Command) bool {
	return false
}

func (r *strokeRun) Merge(Command) Command {
	return r
}
