package command

import (
	"fmt"
	"image"
	"image/color"

	"rasterpad/internal/selection"
	"rasterpad/internal/surface"
)

// Fill paints a color into every pixel a selection covers, weighted by
// the selection's coverage so feathered edges blend smoothly.
type Fill struct {
	store  *surface.Store
	surf   surface.ID
	sel    *selection.Selection
	col    color.NRGBA
	region image.Rectangle
	before *image.RGBA
}

// NewFill builds a selection-fill command.
func NewFill(store *surface.Store, surf surface.ID, sel *selection.Selection, col color.NRGBA) *Fill {
	region := sel.Bounds
	if s := store.Get(surf); s != nil {
		region = region.Intersect(s.Bounds())
	}
	return &Fill{store: store, surf: surf, sel: sel, col: col, region: region}
}

func (c *Fill) Name() string {
	return "Fill Selection"
}

func (c *Fill) Apply() error {
	s := c.store.Get(c.surf)
	if s == nil {
		return fmt.Errorf("fill target surface %d was freed", c.surf)
	}
	if c.before == nil {
		c.before = s.ReadRegion(c.region)
	}

	img := s.RGBA()
	for y := c.region.Min.Y; y < c.region.Max.Y; y++ {
		for x := c.region.Min.X; x < c.region.Max.X; x++ {
			cov := c.sel.Coverage(x, y)
			if cov == 0 {
				continue
			}
			alpha := float64(c.col.A) / 255.0 * float64(cov) / 255.0
			inv := 1 - alpha
			o := img.PixOffset(x, y)
			img.Pix[o+0] = uint8(float64(c.col.R)*alpha + float64(img.Pix[o+0])*inv + 0.5)
			img.Pix[o+1] = uint8(float64(c.col.G)*alpha + float64(img.Pix[o+1])*inv + 0.5)
			img.Pix[o+2] = uint8(float64(c.col.B)*alpha + float64(img.Pix[o+2])*inv + 0.5)
			img.Pix[o+3] = uint8(255*alpha + float64(img.Pix[o+3])*inv + 0.5)
		}
	}
	return nil
}

func (c *Fill) Revert() error {
	s := c.store.Get(c.surf)
	if s == nil {
		return fmt.Errorf("fill target surface %d was freed", c.surf)
	}
	s.WriteRegion(c.before)
	return nil
}

func (c *Fill) MemoryBytes() int64 {
	return int64(c.region.Dx()) * int64(c.region.Dy()) * 4
}

func (c *Fill) Bounds() image.Rectangle {
	return c.region
}

func (c *Fill) CanMerge(Command) bool {
	return false
}

func (c *Fill) Merge(Command) Command {
	return c
}
