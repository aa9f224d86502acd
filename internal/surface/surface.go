// Package surface owns the raster pixel buffers the editor mutates.
// A Surface is a fixed-size premultiplied RGBA grid; it never changes
// dimensions in place. The Store hands out surfaces by id and provides
// clipped region reads and writes for the rest of the engine.
package surface

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
)

// MaxPixels caps a single allocation at 64 megapixels. Larger requests
// fail with an AllocError before any buffer is allocated.
const MaxPixels = 64 * 1024 * 1024

// AllocError reports a surface allocation that was rejected or failed.
type AllocError struct {
	Width  int
	Height int
	Reason string
}

func (e *AllocError) Error() string {
	return fmt.Sprintf("cannot allocate %dx%d surface: %s", e.Width, e.Height, e.Reason)
}

// Surface is a fixed-size premultiplied RGBA raster.
type Surface struct {
	img *image.RGBA
}

// New allocates a surface of the given size filled with the given color.
func New(width, height int, fill color.RGBA) (*Surface, error) {
	if width <= 0 || height <= 0 {
		return nil, &AllocError{Width: width, Height: height, Reason: "dimensions must be positive"}
	}
	if width*height > MaxPixels {
		return nil, &AllocError{Width: width, Height: height, Reason: "exceeds pixel ceiling"}
	}

	s := &Surface{img: image.NewRGBA(image.Rect(0, 0, width, height))}
	if fill != (color.RGBA{}) {
		s.Fill(fill)
	}
	return s, nil
}

// FromImage copies an arbitrary image into a new surface.
func FromImage(src image.Image) (*Surface, error) {
	b := src.Bounds()
	s, err := New(b.Dx(), b.Dy(), color.RGBA{})
	if err != nil {
		return nil, err
	}
	draw.Draw(s.img, s.img.Bounds(), src, b.Min, draw.Src)
	return s, nil
}

// Width returns the surface width in pixels.
func (s *Surface) Width() int {
	return s.img.Bounds().Dx()
}

// Height returns the surface height in pixels.
func (s *Surface) Height() int {
	return s.img.Bounds().Dy()
}

// Bounds returns the surface rectangle, anchored at the origin.
func (s *Surface) Bounds() image.Rectangle {
	return s.img.Bounds()
}

// RGBA exposes the live pixel buffer. Callers that must not observe
// concurrent mutation should use ReadRegion instead.
func (s *Surface) RGBA() *image.RGBA {
	return s.img
}

// At returns the pixel at (x, y), or zero outside the bounds.
func (s *Surface) At(x, y int) color.RGBA {
	if !(image.Point{X: x, Y: y}.In(s.img.Bounds())) {
		return color.RGBA{}
	}
	return s.img.RGBAAt(x, y)
}

// Set writes the pixel at (x, y); writes outside the bounds are dropped.
func (s *Surface) Set(x, y int, c color.RGBA) {
	if !(image.Point{X: x, Y: y}.In(s.img.Bounds())) {
		return
	}
	s.img.SetRGBA(x, y, c)
}

// Fill overwrites every pixel with the given color.
func (s *Surface) Fill(c color.RGBA) {
	draw.Draw(s.img, s.img.Bounds(), &image.Uniform{C: c}, image.Point{}, draw.Src)
}

// Clone returns an independent copy of the surface.
func (s *Surface) Clone() *Surface {
	dst := image.NewRGBA(s.img.Bounds())
	copy(dst.Pix, s.img.Pix)
	return &Surface{img: dst}
}

// ReadRegion returns an owned copy of the pixels inside rect, clipped to
// the surface bounds. The returned image's bounds record where the copy
// came from. Returns nil when the clipped rect is empty.
func (s *Surface) ReadRegion(rect image.Rectangle) *image.RGBA {
	clipped := rect.Intersect(s.img.Bounds())
	if clipped.Empty() {
		return nil
	}
	dst := image.NewRGBA(clipped)
	draw.Draw(dst, clipped, s.img, clipped.Min, draw.Src)
	return dst
}

// WriteRegion copies pix back into the surface at the positions recorded
// in its bounds, clipped silently to the surface.
func (s *Surface) WriteRegion(pix *image.RGBA) {
	if pix == nil {
		return
	}
	clipped := pix.Bounds().Intersect(s.img.Bounds())
	if clipped.Empty() {
		return
	}
	draw.Draw(s.img, clipped, pix, clipped.Min, draw.Src)
}

// SizeBytes returns the pixel buffer size in bytes.
func (s *Surface) SizeBytes() int64 {
	return int64(len(s.img.Pix))
}
