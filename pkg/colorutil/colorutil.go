// Package colorutil provides shared color utilities for the raster editor.
package colorutil

import (
	"image/color"
)

// Common colors used throughout the application.
var (
	Black       = color.RGBA{R: 0, G: 0, B: 0, A: 255}
	White       = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	Transparent = color.RGBA{}
)

// ChannelDistance returns the largest per-channel difference between two
// RGBA colors, in the 0-255 range. This is the metric the magic wand
// compares against its tolerance.
func ChannelDistance(a, b color.RGBA) int {
	d := absDiff(a.R, b.R)
	if g := absDiff(a.G, b.G); g > d {
		d = g
	}
	if bl := absDiff(a.B, b.B); bl > d {
		d = bl
	}
	if al := absDiff(a.A, b.A); al > d {
		d = al
	}
	return d
}

// Premultiply converts a straight-alpha color to premultiplied form.
func Premultiply(c color.NRGBA) color.RGBA {
	a := uint32(c.A)
	return color.RGBA{
		R: uint8(uint32(c.R) * a / 255),
		G: uint8(uint32(c.G) * a / 255),
		B: uint8(uint32(c.B) * a / 255),
		A: c.A,
	}
}

// Unpremultiply converts a premultiplied color back to straight alpha.
func Unpremultiply(c color.RGBA) color.NRGBA {
	if c.A == 0 {
		return color.NRGBA{}
	}
	a := uint32(c.A)
	return color.NRGBA{
		R: uint8(uint32(c.R) * 255 / a),
		G: uint8(uint32(c.G) * 255 / a),
		B: uint8(uint32(c.B) * 255 / a),
		A: c.A,
	}
}

// Scale multiplies every channel of a premultiplied color by alpha/255.
func Scale(c color.RGBA, alpha uint8) color.RGBA {
	a := uint32(alpha)
	return color.RGBA{
		R: uint8(uint32(c.R) * a / 255),
		G: uint8(uint32(c.G) * a / 255),
		B: uint8(uint32(c.B) * a / 255),
		A: uint8(uint32(c.A) * a / 255),
	}
}

func absDiff(a, b uint8) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}
