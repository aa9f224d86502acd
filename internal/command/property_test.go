package command

import (
	"image/color"
	"testing"

	"rasterpad/internal/layer"
	"rasterpad/internal/surface"
)

func newTestStack(t *testing.T, layers int) (*surface.Store, *layer.Stack) {
	t.Helper()
	store := surface.NewStore()
	stack := layer.NewStack()
	for i := 0; i < layers; i++ {
		id, err := store.Allocate(32, 32, color.RGBA{A: 255})
		if err != nil {
			t.Fatal(err)
		}
		stack.Push(layer.New(stack.NextID(), "Layer", id))
	}
	return store, stack
}

// TestSetOpacityRoundTrip verifies opacity apply and revert.
func TestSetOpacityRoundTrip(t *testing.T) {
	_, stack := newTestStack(t, 1)
	l := stack.At(0)

	c := NewSetOpacity(stack, l.ID, 0.4)
	if err := c.Apply(); err != nil {
		t.Fatal(err)
	}
	if l.Opacity != 0.4 {
		t.Fatalf("opacity = %v, want 0.4", l.Opacity)
	}
	if err := c.Revert(); err != nil {
		t.Fatal(err)
	}
	if l.Opacity != 1.0 {
		t.Errorf("opacity = %v, want 1.0 restored", l.Opacity)
	}
}

// TestPropertyMergeCollapsesSliderDrag verifies successive opacity
// changes to the same layer merge, and one undo restores the original
// value.
func TestPropertyMergeCollapsesSliderDrag(t *testing.T) {
	_, stack := newTestStack(t, 2)
	l := stack.At(0)

	m := NewManager(DefaultConfig())
	for _, v := range []float64{0.9, 0.7, 0.5, 0.3} {
		if err := m.Execute(NewSetOpacity(stack, l.ID, v)); err != nil {
			t.Fatal(err)
		}
	}

	if m.Depth() != 1 {
		t.Fatalf("depth = %d, want 1 (drag collapsed)", m.Depth())
	}
	if l.Opacity != 0.3 {
		t.Fatalf("opacity = %v, want 0.3", l.Opacity)
	}
	if err := m.Undo(); err != nil {
		t.Fatal(err)
	}
	if l.Opacity != 1.0 {
		t.Errorf("opacity after undo = %v, want original 1.0", l.Opacity)
	}
}

// TestPropertyNoMergeAcrossLayersOrProps verifies the merge gate.
func TestPropertyNoMergeAcrossLayersOrProps(t *testing.T) {
	_, stack := newTestStack(t, 2)
	a, b := stack.At(0), stack.At(1)

	m := NewManager(DefaultConfig())
	if err := m.Execute(NewSetOpacity(stack, a.ID, 0.5)); err != nil {
		t.Fatal(err)
	}
	if err := m.Execute(NewSetOpacity(stack, b.ID, 0.5)); err != nil {
		t.Fatal(err)
	}
	if err := m.Execute(NewSetVisible(stack, b.ID, false)); err != nil {
		t.Fatal(err)
	}
	if m.Depth() != 3 {
		t.Errorf("depth = %d, want 3 (no cross merging)", m.Depth())
	}
}

// TestSetModeAndLocked verifies the remaining property commands.
func TestSetModeAndLocked(t *testing.T) {
	_, stack := newTestStack(t, 1)
	l := stack.At(0)

	mode := NewSetMode(stack, l.ID, layer.BlendMultiply)
	if err := mode.Apply(); err != nil {
		t.Fatal(err)
	}
	if l.Mode != layer.BlendMultiply {
		t.Errorf("mode = %v, want Multiply", l.Mode)
	}

	lock := NewSetLocked(stack, l.ID, true)
	if err := lock.Apply(); err != nil {
		t.Fatal(err)
	}
	if !l.Locked {
		t.Error("layer not locked")
	}
	if err := lock.Revert(); err != nil {
		t.Fatal(err)
	}
	if l.Locked {
		t.Error("lock revert failed")
	}
}

// TestRenameLayer verifies name changes revert.
func TestRenameLayer(t *testing.T) {
	_, stack := newTestStack(t, 1)
	l := stack.At(0)

	c := NewSetName(stack, l.ID, "Sketch")
	if err := c.Apply(); err != nil {
		t.Fatal(err)
	}
	if l.Name != "Sketch" {
		t.Fatalf("name = %q, want Sketch", l.Name)
	}
	if err := c.Revert(); err != nil {
		t.Fatal(err)
	}
	if l.Name != "Layer" {
		t.Errorf("name = %q, want Layer restored", l.Name)
	}
}

// TestPropertyMissingLayer verifies commands on a deleted layer fail
// cleanly.
func TestPropertyMissingLayer(t *testing.T) {
	_, stack := newTestStack(t, 1)
	c := NewSetOpacity(stack, 999, 0.5)
	if err := c.Apply(); err == nil {
		t.Error("expected error for unknown layer id")
	}
}
