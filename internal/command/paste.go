package command

import (
	"fmt"
	"image"
	"image/draw"

	"rasterpad/internal/surface"
)

// Paste writes a block of source pixels onto a surface at an offset.
// Pastes never merge: each one is a deliberate, discrete edit, unlike
// the rapid-fire property changes the merge window exists for.
type Paste struct {
	store  *surface.Store
	surf   surface.ID
	src    *image.RGBA
	at     image.Point
	region image.Rectangle
	before *image.RGBA
}

// NewPaste builds a paste command placing src with its top-left corner
// at the given surface position. The pasted region is clipped to the
// surface.
func NewPaste(store *surface.Store, surf surface.ID, src *image.RGBA, at image.Point) *Paste {
	region := image.Rectangle{Min: at, Max: at.Add(src.Bounds().Size())}
	if s := store.Get(surf); s != nil {
		region = region.Intersect(s.Bounds())
	}
	return &Paste{store: store, surf: surf, src: src, at: at, region: region}
}

func (c *Paste) Name() string {
	return "Paste"
}

func (c *Paste) Apply() error {
	s := c.store.Get(c.surf)
	if s == nil {
		return fmt.Errorf("paste target surface %d was freed", c.surf)
	}
	if c.region.Empty() {
		return nil
	}
	if c.before == nil {
		c.before = s.ReadRegion(c.region)
	}

	// Clipping may have trimmed the region; advance the source point
	// by the same amount so the surviving pixels stay aligned.
	sp := c.src.Bounds().Min.Add(c.region.Min.Sub(c.at))
	draw.Draw(s.RGBA(), c.region, c.src, sp, draw.Over)
	return nil
}

func (c *Paste) Revert() error {
	s := c.store.Get(c.surf)
	if s == nil {
		return fmt.Errorf("paste target surface %d was freed", c.surf)
	}
	s.WriteRegion(c.before)
	return nil
}

func (c *Paste) MemoryBytes() int64 {
	return int64(c.region.Dx())*int64(c.region.Dy())*4 + int64(len(c.src.Pix))
}

func (c *Paste) Bounds() image.Rectangle {
	return c.region
}

func (c *Paste) CanMerge(Command) bool {
	return false
}

func (c *Paste) Merge(Command) Command {
	return c
}
