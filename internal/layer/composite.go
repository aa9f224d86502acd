package layer

import (
	"image"
	"image/color"
	"math"

	"rasterpad/internal/surface"
)

// Compositor flattens a layer stack into one surface. It reads layer
// pixels through the surface store and never mutates them; output is a
// pure function of the stack, so compositing the same stack twice
// yields byte-identical results.
type Compositor struct {
	store *surface.Store
}

// NewCompositor creates a compositor over the given store.
func NewCompositor(store *surface.Store) *Compositor {
	return &Compositor{store: store}
}

// Composite renders the stack bottom-to-top into a new surface of the
// given size. Invisible layers are skipped; locked layers composite
// normally.
func (c *Compositor) Composite(stack *Stack, width, height int) (*surface.Surface, error) {
	return c.CompositeLayers(stack.Layers(), width, height)
}

// CompositeLayers renders an explicit bottom-to-top layer list. The
// engine uses it to substitute preview surfaces during a live stroke.
func (c *Compositor) CompositeLayers(layers []*Layer, width, height int) (*surface.Surface, error) {
	out, err := surface.New(width, height, color.RGBA{})
	if err != nil {
		return nil, err
	}
	for _, l := range layers {
		if !l.Visible {
			continue
		}
		c.drawLayer(out.RGBA(), l)
	}
	return out, nil
}

// CompositePair renders exactly {lower, upper} in isolation. This is
// the merge-down mechanism; the command engine wraps its reversibility.
func (c *Compositor) CompositePair(lower, upper *Layer, width, height int) (*surface.Surface, error) {
	out, err := surface.New(width, height, color.RGBA{})
	if err != nil {
		return nil, err
	}
	for _, l := range []*Layer{lower, upper} {
		if l != nil && l.Visible {
			c.drawLayer(out.RGBA(), l)
		}
	}
	return out, nil
}

// drawLayer blends a single layer onto dst with its opacity and mode.
func (c *Compositor) drawLayer(dst *image.RGBA, l *Layer) {
	src := c.store.Get(l.Surface)
	if src == nil {
		return
	}
	sp := src.RGBA()
	bounds := sp.Bounds().Intersect(dst.Bounds())

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		so := sp.PixOffset(bounds.Min.X, y)
		do := dst.PixOffset(bounds.Min.X, y)
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			blendPixel(dst.Pix[do:do+4], sp.Pix[so:so+4], l.Mode, l.Opacity)
			so += 4
			do += 4
		}
	}
}

// blendPixel composites one premultiplied source pixel over one
// premultiplied destination pixel in place.
func blendPixel(dst, src []byte, mode BlendMode, opacity float64) {
	sa := float64(src[3]) / 255.0 * opacity
	if sa <= 0 {
		return
	}
	da := float64(dst[3]) / 255.0

	// Straight-alpha channel values in 0-1
	var cs, cb [3]float64
	if src[3] > 0 {
		for i := 0; i < 3; i++ {
			cs[i] = float64(src[i]) / float64(src[3])
		}
	}
	if dst[3] > 0 {
		for i := 0; i < 3; i++ {
			cb[i] = float64(dst[i]) / float64(dst[3])
		}
	}

	var mixed [3]float64
	for i := 0; i < 3; i++ {
		mixed[i] = mix(cb[i], cs[i], mode)
	}

	outA := sa + da*(1-sa)
	for i := 0; i < 3; i++ {
		// Backdrop shows the raw source color where it is transparent,
		// the mixed color where it is opaque (W3C compositing model).
		eff := cs[i]*(1-da) + mixed[i]*da
		// Source-over in premultiplied space.
		out := eff*sa + (float64(dst[i])/255.0)*(1-sa)
		dst[i] = uint8(clamp(out, 0, 1)*255 + 0.5)
	}
	dst[3] = uint8(clamp(outA, 0, 1)*255 + 0.5)
}

// mix applies the separable blend function for one channel, with both
// inputs and the result in 0-1. Definitions follow the standard
// compositing spec: Multiply is the product, Screen the complement of
// the product of complements, Overlay the Multiply/Screen split at 0.5
// on the backdrop, Darken/Lighten per-channel min/max.
func mix(cb, cs float64, mode BlendMode) float64 {
	switch mode {
	case BlendMultiply:
		return cb * cs

	case BlendScreen:
		return 1 - (1-cb)*(1-cs)

	case BlendOverlay:
		if cb <= 0.5 {
			return 2 * cb * cs
		}
		return 1 - 2*(1-cb)*(1-cs)

	case BlendHardLight:
		// Overlay with source and backdrop swapped.
		if cs <= 0.5 {
			return 2 * cb * cs
		}
		return 1 - 2*(1-cb)*(1-cs)

	case BlendSoftLight:
		if cs <= 0.5 {
			return cb - (1-2*cs)*cb*(1-cb)
		}
		var d float64
		if cb <= 0.25 {
			d = ((16*cb-12)*cb + 4) * cb
		} else {
			d = math.Sqrt(cb)
		}
		return cb + (2*cs-1)*(d-cb)

	case BlendColorDodge:
		if cb == 0 {
			return 0
		}
		if cs >= 1 {
			return 1
		}
		return math.Min(1, cb/(1-cs))

	case BlendColorBurn:
		if cb >= 1 {
			return 1
		}
		if cs == 0 {
			return 0
		}
		return 1 - math.Min(1, (1-cb)/cs)

	case BlendDarken:
		return math.Min(cb, cs)

	case BlendLighten:
		return math.Max(cb, cs)

	default: // BlendNormal
		return cs
	}
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
