package colorutil

import (
	"image/color"
	"testing"
)

// TestChannelDistance verifies the max-channel metric the wand uses.
func TestChannelDistance(t *testing.T) {
	tests := []struct {
		name string
		a, b color.RGBA
		want int
	}{
		{"identical", color.RGBA{R: 10, G: 20, B: 30, A: 255}, color.RGBA{R: 10, G: 20, B: 30, A: 255}, 0},
		{"red dominates", color.RGBA{R: 200, G: 100, B: 100, A: 255}, color.RGBA{R: 100, G: 110, B: 95, A: 255}, 100},
		{"alpha counts", color.RGBA{A: 255}, color.RGBA{A: 200}, 55},
		{"order independent", color.RGBA{R: 5}, color.RGBA{R: 50}, 45},
		{"extremes", White, color.RGBA{A: 255}, 255},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ChannelDistance(tt.a, tt.b); got != tt.want {
				t.Errorf("ChannelDistance = %d, want %d", got, tt.want)
			}
			if got := ChannelDistance(tt.b, tt.a); got != tt.want {
				t.Errorf("ChannelDistance reversed = %d, want %d", got, tt.want)
			}
		})
	}
}

// TestPremultiplyRoundTrip verifies premultiply and its inverse agree
// for fully opaque and half-transparent colors.
func TestPremultiplyRoundTrip(t *testing.T) {
	opaque := color.NRGBA{R: 120, G: 60, B: 200, A: 255}
	if got := Premultiply(opaque); got != (color.RGBA{R: 120, G: 60, B: 200, A: 255}) {
		t.Errorf("opaque premultiply = %v", got)
	}

	half := color.NRGBA{R: 200, G: 100, B: 50, A: 128}
	pm := Premultiply(half)
	if pm.R != 100 || pm.A != 128 {
		t.Errorf("half premultiply = %v, want R=100 A=128", pm)
	}
	back := Unpremultiply(pm)
	if absInt(int(back.R)-int(half.R)) > 1 || absInt(int(back.G)-int(half.G)) > 1 {
		t.Errorf("round trip = %v, want near %v", back, half)
	}

	if got := Unpremultiply(color.RGBA{}); got != (color.NRGBA{}) {
		t.Errorf("zero-alpha unpremultiply = %v, want zero", got)
	}
}

// TestScale verifies uniform alpha scaling of a premultiplied color.
func TestScale(t *testing.T) {
	c := color.RGBA{R: 200, G: 100, B: 40, A: 255}
	got := Scale(c, 128)
	want := color.RGBA{R: 100, G: 50, B: 20, A: 128}
	if got != want {
		t.Errorf("Scale = %v, want %v", got, want)
	}
	if got := Scale(c, 0); got != (color.RGBA{}) {
		t.Errorf("Scale to zero = %v, want zero", got)
	}
	if got := Scale(c, 255); got != c {
		t.Errorf("Scale by 255 = %v, want unchanged", got)
	}
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
