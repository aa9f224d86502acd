package command

import (
	"fmt"
	"image"
	"image/color"

	"rasterpad/internal/surface"
)

// Clear wipes an entire surface to a single color. It captures the
// whole surface and never merges with anything.
type Clear struct {
	store  *surface.Store
	surf   surface.ID
	fill   color.RGBA
	before *image.RGBA
}

// NewClear builds a clear-canvas command for the given surface.
func NewClear(store *surface.Store, surf surface.ID, fill color.RGBA) *Clear {
	return &Clear{store: store, surf: surf, fill: fill}
}

func (c *Clear) Name() string {
	return "Clear"
}

func (c *Clear) Apply() error {
	s := c.store.Get(c.surf)
	if s == nil {
		return fmt.Errorf("clear target surface %d was freed", c.surf)
	}
	if c.before == nil {
		c.before = s.ReadRegion(s.Bounds())
	}
	s.Fill(c.fill)
	return nil
}

func (c *Clear) Revert() error {
	s := c.store.Get(c.surf)
	if s == nil {
		return fmt.Errorf("clear target surface %d was freed", c.surf)
	}
	s.WriteRegion(c.before)
	return nil
}

func (c *Clear) MemoryBytes() int64 {
	if c.before == nil {
		return 0
	}
	return int64(len(c.before.Pix))
}

func (c *Clear) Bounds() image.Rectangle {
	if s := c.store.Get(c.surf); s != nil {
		return s.Bounds()
	}
	return image.Rectangle{}
}

func (c *Clear) CanMerge(Command) bool {
	return false
}

func (c *Clear) Merge(Command) Command {
	return c
}
