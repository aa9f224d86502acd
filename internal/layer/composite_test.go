package layer

import (
	"bytes"
	"image/color"
	"testing"

	"rasterpad/internal/surface"
)

// buildStack makes a store and a stack with one solid-color layer per
// entry, all sized w x h.
func buildStack(t *testing.T, w, h int, colors []color.RGBA) (*surface.Store, *Stack) {
	t.Helper()
	store := surface.NewStore()
	stack := NewStack()
	for i, c := range colors {
		id, err := store.Allocate(w, h, c)
		if err != nil {
			t.Fatal(err)
		}
		stack.Push(New(int64(i+1), "layer", id))
	}
	return store, stack
}

// TestCompositeNormalOpaque verifies the top opaque layer wins under
// Normal blending.
func TestCompositeNormalOpaque(t *testing.T) {
	store, stack := buildStack(t, 4, 4, []color.RGBA{
		{R: 255, A: 255},
		{G: 255, A: 255},
	})

	out, err := NewCompositor(store).Composite(stack, 4, 4)
	if err != nil {
		t.Fatal(err)
	}
	if got := out.At(2, 2); got != (color.RGBA{G: 255, A: 255}) {
		t.Errorf("composite = %v, want green on top", got)
	}
}

// TestCompositeSkipsInvisible verifies hidden layers do not render.
func TestCompositeSkipsInvisible(t *testing.T) {
	store, stack := buildStack(t, 4, 4, []color.RGBA{
		{R: 255, A: 255},
		{G: 255, A: 255},
	})
	stack.At(1).Visible = false

	out, err := NewCompositor(store).Composite(stack, 4, 4)
	if err != nil {
		t.Fatal(err)
	}
	if got := out.At(0, 0); got != (color.RGBA{R: 255, A: 255}) {
		t.Errorf("composite = %v, want red (green hidden)", got)
	}
}

// TestCompositeOpacity verifies 50% opacity blends halfway.
func TestCompositeOpacity(t *testing.T) {
	store, stack := buildStack(t, 4, 4, []color.RGBA{
		{A: 255},                         // black
		{R: 255, G: 255, B: 255, A: 255}, // white
	})
	stack.At(1).Opacity = 0.5

	out, err := NewCompositor(store).Composite(stack, 4, 4)
	if err != nil {
		t.Fatal(err)
	}
	got := out.At(1, 1)
	if got.A != 255 {
		t.Fatalf("alpha = %d, want 255", got.A)
	}
	// Halfway between black and white, allowing for rounding.
	for _, ch := range []uint8{got.R, got.G, got.B} {
		if ch < 126 || ch > 129 {
			t.Errorf("channel = %d, want ~127", ch)
		}
	}
}

// TestBlendModeMath spot-checks the separable blend functions on
// opaque mid-tone inputs.
func TestBlendModeMath(t *testing.T) {
	const eps = 2.0 / 255.0

	tests := []struct {
		mode BlendMode
		cb   float64 // backdrop
		cs   float64 // source
		want float64
	}{
		{BlendNormal, 0.25, 0.75, 0.75},
		{BlendMultiply, 0.5, 0.5, 0.25},
		{BlendScreen, 0.5, 0.5, 0.75},
		{BlendOverlay, 0.25, 0.5, 0.25},  // cb<=0.5: 2*cb*cs
		{BlendOverlay, 0.75, 0.5, 0.75},  // cb>0.5: screen side
		{BlendHardLight, 0.5, 0.25, 0.25},
		{BlendDarken, 0.3, 0.6, 0.3},
		{BlendLighten, 0.3, 0.6, 0.6},
		{BlendColorDodge, 0.5, 0.5, 1.0},
		{BlendColorDodge, 0.25, 0.5, 0.5},
		{BlendColorBurn, 0.5, 0.5, 0.0},
		{BlendColorBurn, 0.75, 0.5, 0.5},
		{BlendSoftLight, 0.5, 0.5, 0.5}, // cs=0.5 is identity
	}

	for _, tt := range tests {
		got := mix(tt.cb, tt.cs, tt.mode)
		if diff := got - tt.want; diff > eps || diff < -eps {
			t.Errorf("mix(%.2f, %.2f, %v) = %.4f, want %.4f",
				tt.cb, tt.cs, tt.mode, got, tt.want)
		}
	}
}

// TestBlendOverTransparentBackdrop verifies that blending over a fully
// transparent backdrop shows the raw source color regardless of mode.
func TestBlendOverTransparentBackdrop(t *testing.T) {
	store, stack := buildStack(t, 2, 2, []color.RGBA{
		{}, // transparent
		{R: 200, G: 100, B: 50, A: 255},
	})
	stack.At(1).Mode = BlendMultiply

	out, err := NewCompositor(store).Composite(stack, 2, 2)
	if err != nil {
		t.Fatal(err)
	}
	if got := out.At(0, 0); got != (color.RGBA{R: 200, G: 100, B: 50, A: 255}) {
		t.Errorf("composite = %v, want raw source color", got)
	}
}

// TestCompositeDeterministic verifies identical stacks produce
// byte-identical output.
func TestCompositeDeterministic(t *testing.T) {
	store, stack := buildStack(t, 16, 16, []color.RGBA{
		{R: 40, G: 80, B: 120, A: 255},
		{R: 200, G: 10, B: 10, A: 128},
	})
	stack.At(1).Mode = BlendOverlay
	stack.At(1).Opacity = 0.7

	comp := NewCompositor(store)
	a, err := comp.Composite(stack, 16, 16)
	if err != nil {
		t.Fatal(err)
	}
	b, err := comp.Composite(stack, 16, 16)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(a.RGBA().Pix, b.RGBA().Pix) {
		t.Error("two composites of the same stack differ")
	}
}

// TestCompositePair verifies merge-down rendering covers exactly two
// layers.
func TestCompositePair(t *testing.T) {
	store, stack := buildStack(t, 4, 4, []color.RGBA{
		{R: 255, A: 255},
		{G: 255, A: 255},
		{B: 255, A: 255},
	})

	out, err := NewCompositor(store).CompositePair(stack.At(0), stack.At(1), 4, 4)
	if err != nil {
		t.Fatal(err)
	}
	// The top (blue) layer is not part of the pair.
	if got := out.At(0, 0); got != (color.RGBA{G: 255, A: 255}) {
		t.Errorf("pair composite = %v, want green", got)
	}
}

// TestStackMoveAndActive verifies reorder bookkeeping.
func TestStackMoveAndActive(t *testing.T) {
	_, stack := buildStack(t, 2, 2, []color.RGBA{
		{R: 1, A: 255}, {R: 2, A: 255}, {R: 3, A: 255},
	})

	if err := stack.Move(0, 2); err != nil {
		t.Fatal(err)
	}
	if stack.At(2).ID != 1 {
		t.Errorf("top layer ID = %d, want 1", stack.At(2).ID)
	}
	if err := stack.Move(5, 0); err == nil {
		t.Error("Move out of range did not error")
	}

	stack.SetActive(1)
	if stack.Active() == nil || stack.ActiveIndex() != 1 {
		t.Errorf("active index = %d, want 1", stack.ActiveIndex())
	}
}
