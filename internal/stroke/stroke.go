// Package stroke defines the brush collaborator contract: an immutable
// stroke style plus a rasterizer that stamps a point path onto a
// surface. Brush texture and pressure curves are supplied by the tool
// layer; the engine only consumes the resulting style and geometry.
package stroke

import (
	"image"
	"image/color"
	"math"

	"rasterpad/internal/surface"
	"rasterpad/pkg/geometry"
)

// safetyMargin pads a stroke's affected region so anti-aliased edges
// are always captured by undo snapshots.
const safetyMargin = 4

// Style is an immutable description of how a stroke paints. Tools build
// one per gesture; the rasterizer reads it and never mutates it.
type Style struct {
	Width  float64
	Color  color.NRGBA
	Eraser bool
}

// Footprint returns the integer region a stroke with this style touches
// for the given path: the path's bounding box padded by half the stroke
// width plus a safety margin.
func (s Style) Footprint(path []geometry.Point2D) image.Rectangle {
	if len(path) == 0 {
		return image.Rectangle{}
	}
	return geometry.BoundingBox(path).Inset(s.Width/2 + safetyMargin).ToImageRect()
}

// Rasterize paints the path onto dst: filled circular stamps along each
// segment, spaced at a quarter of the stroke width. Eraser styles clear
// coverage instead of painting.
func Rasterize(dst *surface.Surface, path []geometry.Point2D, style Style) {
	if dst == nil || len(path) == 0 || style.Width <= 0 {
		return
	}

	radius := style.Width / 2
	spacing := math.Max(radius/2, 0.5)

	stamp(dst, path[0], radius, style)
	for i := 1; i < len(path); i++ {
		a, b := path[i-1], path[i]
		dist := a.Distance(b)
		steps := int(dist/spacing) + 1
		for s := 1; s <= steps; s++ {
			t := float64(s) / float64(steps)
			stamp(dst, geometry.Point2D{
				X: a.X + (b.X-a.X)*t,
				Y: a.Y + (b.Y-a.Y)*t,
			}, radius, style)
		}
	}
}

// stamp draws one anti-aliased filled circle.
func stamp(dst *surface.Surface, center geometry.Point2D, radius float64, style Style) {
	minX := int(math.Floor(center.X - radius - 1))
	maxX := int(math.Ceil(center.X + radius + 1))
	minY := int(math.Floor(center.Y - radius - 1))
	maxY := int(math.Ceil(center.Y + radius + 1))

	img := dst.RGBA()
	bounds := img.Bounds()
	if minX < bounds.Min.X {
		minX = bounds.Min.X
	}
	if minY < bounds.Min.Y {
		minY = bounds.Min.Y
	}
	if maxX > bounds.Max.X-1 {
		maxX = bounds.Max.X - 1
	}
	if maxY > bounds.Max.Y-1 {
		maxY = bounds.Max.Y - 1
	}

	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			d := math.Hypot(float64(x)+0.5-center.X, float64(y)+0.5-center.Y)
			coverage := radius - d + 0.5
			if coverage <= 0 {
				continue
			}
			if coverage > 1 {
				coverage = 1
			}
			if style.Eraser {
				erasePixel(img, x, y, coverage)
			} else {
				paintPixel(img, x, y, style.Color, coverage)
			}
		}
	}
}

// paintPixel source-over composites the stroke color at the given
// coverage onto a premultiplied pixel.
func paintPixel(img *image.RGBA, x, y int, c color.NRGBA, coverage float64) {
	alpha := float64(c.A) / 255.0 * coverage
	if alpha <= 0 {
		return
	}
	o := img.PixOffset(x, y)
	inv := 1 - alpha
	img.Pix[o+0] = uint8(float64(c.R)*alpha + float64(img.Pix[o+0])*inv + 0.5)
	img.Pix[o+1] = uint8(float64(c.G)*alpha + float64(img.Pix[o+1])*inv + 0.5)
	img.Pix[o+2] = uint8(float64(c.B)*alpha + float64(img.Pix[o+2])*inv + 0.5)
	img.Pix[o+3] = uint8(255*alpha + float64(img.Pix[o+3])*inv + 0.5)
}

// erasePixel removes coverage from every channel (destination-out).
func erasePixel(img *image.RGBA, x, y int, coverage float64) {
	o := img.PixOffset(x, y)
	inv := 1 - coverage
	for i := 0; i < 4; i++ {
		img.Pix[o+i] = uint8(float64(img.Pix[o+i])*inv + 0.5)
	}
}
