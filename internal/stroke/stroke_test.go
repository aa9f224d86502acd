package stroke

import (
	"image"
	"image/color"
	"testing"

	"rasterpad/internal/surface"
	"rasterpad/pkg/geometry"
)

func newWhiteSurface(t *testing.T, w, h int) *surface.Surface {
	t.Helper()
	s, err := surface.New(w, h, color.RGBA{R: 255, G: 255, B: 255, A: 255})
	if err != nil {
		t.Fatal(err)
	}
	return s
}

// TestFootprint verifies the affected region pads the path box by half
// the width plus the safety margin.
func TestFootprint(t *testing.T) {
	style := Style{Width: 10}
	path := []geometry.Point2D{{X: 20, Y: 30}, {X: 40, Y: 35}}

	got := style.Footprint(path)
	want := image.Rect(20-9, 30-9, 40+9, 35+9)
	if got != want {
		t.Errorf("Footprint = %v, want %v", got, want)
	}

	if style.Footprint(nil) != (image.Rectangle{}) {
		t.Error("empty path did not yield zero footprint")
	}
}

// TestRasterizePaintsWithinFootprint verifies every painted pixel lies
// inside the declared footprint and the stamp center is solid.
func TestRasterizePaintsWithinFootprint(t *testing.T) {
	surf := newWhiteSurface(t, 100, 100)
	style := Style{Width: 8, Color: color.NRGBA{R: 255, A: 255}}
	path := []geometry.Point2D{{X: 30, Y: 30}, {X: 60, Y: 50}}

	Rasterize(surf, path, style)

	if c := surf.At(30, 30); c.R != 255 || c.G != 0 {
		t.Errorf("stamp center = %v, want solid red", c)
	}
	if c := surf.At(60, 50); c.G != 0 {
		t.Errorf("path end = %v, want painted", c)
	}
	if c := surf.At(45, 37); c.G == 255 {
		t.Error("segment midpoint left unpainted")
	}

	fp := style.Footprint(path)
	white := color.RGBA{R: 255, G: 255, B: 255, A: 255}
	for y := 0; y < 100; y++ {
		for x := 0; x < 100; x++ {
			if (image.Point{X: x, Y: y}.In(fp)) {
				continue
			}
			if surf.At(x, y) != white {
				t.Fatalf("pixel (%d,%d) outside footprint was painted", x, y)
			}
		}
	}
}

// TestRasterizeDegenerate verifies nil, empty, and zero-width inputs
// leave the surface untouched.
func TestRasterizeDegenerate(t *testing.T) {
	style := Style{Width: 8, Color: color.NRGBA{A: 255}}
	path := []geometry.Point2D{{X: 10, Y: 10}}

	Rasterize(nil, path, style)

	surf := newWhiteSurface(t, 20, 20)
	Rasterize(surf, nil, style)
	Rasterize(surf, path, Style{Width: 0, Color: style.Color})

	white := color.RGBA{R: 255, G: 255, B: 255, A: 255}
	if surf.At(10, 10) != white {
		t.Error("degenerate input painted the surface")
	}
}

// TestRasterizeAntialiasedEdge verifies the stamp edge has partial
// coverage between solid interior and untouched exterior.
func TestRasterizeAntialiasedEdge(t *testing.T) {
	surf := newWhiteSurface(t, 40, 40)
	style := Style{Width: 10, Color: color.NRGBA{A: 255}} // black
	Rasterize(surf, []geometry.Point2D{{X: 20, Y: 20}}, style)

	if c := surf.At(20, 20); c.R != 0 {
		t.Errorf("center = %v, want black", c)
	}
	// Radius 5: the pixel centered around distance 5.1 gets partial
	// coverage.
	edge := surf.At(24, 22)
	if edge.R == 0 || edge.R == 255 {
		t.Errorf("edge red = %d, want partial", edge.R)
	}
	if c := surf.At(28, 20); c.R != 255 {
		t.Errorf("exterior = %v, want untouched", c)
	}
}

// TestEraserRemovesCoverage verifies eraser styles punch alpha out of
// painted pixels instead of depositing color.
func TestEraserRemovesCoverage(t *testing.T) {
	surf := newWhiteSurface(t, 40, 40)
	center := []geometry.Point2D{{X: 20, Y: 20}}

	Rasterize(surf, center, Style{Width: 10, Eraser: true})

	if c := surf.At(20, 20); c.A != 0 {
		t.Errorf("erased center alpha = %d, want 0", c.A)
	}
	if c := surf.At(24, 22); c.A == 0 || c.A == 255 {
		t.Errorf("erased edge alpha = %d, want partial", c.A)
	}
	if c := surf.At(28, 20); c.A != 255 {
		t.Errorf("exterior alpha = %d, want untouched", c.A)
	}
}

// TestRasterizeClipsToSurface verifies stamps straddling the surface
// edge write only the in-bounds pixels.
func TestRasterizeClipsToSurface(t *testing.T) {
	surf := newWhiteSurface(t, 20, 20)
	style := Style{Width: 12, Color: color.NRGBA{B: 255, A: 255}}

	Rasterize(surf, []geometry.Point2D{{X: 0, Y: 0}, {X: -4, Y: -4}}, style)

	if c := surf.At(0, 0); c.B != 255 {
		t.Errorf("corner = %v, want painted", c)
	}
	if c := surf.At(10, 10); c.B != 255 || c.R != 255 {
		t.Errorf("far pixel = %v, want untouched white", c)
	}
}
