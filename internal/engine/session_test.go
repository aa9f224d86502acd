package engine

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"testing"

	"rasterpad/internal/selection"
	"rasterpad/internal/stroke"
	"rasterpad/pkg/colorutil"
	"rasterpad/pkg/geometry"
)

func newTestSession(t *testing.T) *Session {
	t.Helper()
	s, err := NewSession(DefaultConfig(64, 64))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(s.Close)
	return s
}

func blackBrush(width float64) stroke.Style {
	return stroke.Style{Width: width, Color: color.NRGBA{A: 255}}
}

// drain empties an event channel and returns the kinds seen.
func drain(ch <-chan Event) map[EventKind]int {
	seen := make(map[EventKind]int)
	for {
		select {
		case ev := <-ch:
			seen[ev.Kind]++
		default:
			return seen
		}
	}
}

// TestNewSessionDefaults verifies a fresh session has one white
// background layer and an empty history.
func TestNewSessionDefaults(t *testing.T) {
	s := newTestSession(t)

	if s.Width() != 64 || s.Height() != 64 {
		t.Errorf("size = %dx%d, want 64x64", s.Width(), s.Height())
	}
	layers := s.Layers()
	if len(layers) != 1 || layers[0].Name != "Background" {
		t.Fatalf("layers = %v, want one background layer", layers)
	}
	if s.CanUndo() || s.CanRedo() {
		t.Error("fresh session has history")
	}

	comp := s.Composite()
	if comp == nil {
		t.Fatal("composite is nil")
	}
	if got := comp.At(32, 32); got != colorutil.White {
		t.Errorf("composite pixel = %v, want white", got)
	}
}

// TestStrokeCommitsOneUndoEntry verifies a begin/move/end gesture paints
// the layer through a single undoable entry.
func TestStrokeCommitsOneUndoEntry(t *testing.T) {
	s := newTestSession(t)

	if err := s.StrokeBegin(blackBrush(8), geometry.Point2D{X: 20, Y: 20}); err != nil {
		t.Fatal(err)
	}
	s.StrokeMove(geometry.Point2D{X: 30, Y: 25})
	s.StrokeMove(geometry.Point2D{X: 40, Y: 30})
	if err := s.StrokeEnd(); err != nil {
		t.Fatal(err)
	}

	if got := s.Composite().At(20, 20); got.R != 0 {
		t.Errorf("stroke start = %v, want black", got)
	}
	if !s.CanUndo() {
		t.Fatal("stroke did not record an undo entry")
	}

	if err := s.Undo(); err != nil {
		t.Fatal(err)
	}
	if got := s.Composite().At(20, 20); got != colorutil.White {
		t.Errorf("after undo = %v, want white", got)
	}
	if s.CanUndo() {
		t.Error("more than one undo entry for one gesture")
	}

	if err := s.Redo(); err != nil {
		t.Fatal(err)
	}
	if got := s.Composite().At(20, 20); got.R != 0 {
		t.Errorf("after redo = %v, want black", got)
	}
}

// TestStrokePreviewDoesNotTouchLayer verifies the live stroke shows in
// the composite but the layer itself only changes on commit.
func TestStrokePreviewDoesNotTouchLayer(t *testing.T) {
	s := newTestSession(t)

	if err := s.StrokeBegin(blackBrush(8), geometry.Point2D{X: 20, Y: 20}); err != nil {
		t.Fatal(err)
	}
	if got := s.Composite().At(20, 20); got.R != 0 {
		t.Errorf("preview composite = %v, want black", got)
	}

	s.StrokeCancel()
	if got := s.Composite().At(20, 20); got != colorutil.White {
		t.Errorf("after cancel = %v, want white", got)
	}
	if s.CanUndo() {
		t.Error("cancelled stroke recorded history")
	}
}

// TestStrokeOnLockedLayer verifies locked and hidden layers refuse
// strokes.
func TestStrokeOnLockedLayer(t *testing.T) {
	s := newTestSession(t)
	id := s.Layers()[0].ID

	if err := s.SetLayerLocked(id, true); err != nil {
		t.Fatal(err)
	}
	if err := s.StrokeBegin(blackBrush(8), geometry.Point2D{X: 20, Y: 20}); err != ErrLayerLocked {
		t.Errorf("stroke on locked layer: err = %v, want ErrLayerLocked", err)
	}
	if err := s.ClearActive(colorutil.Black); err != ErrLayerLocked {
		t.Errorf("clear on locked layer: err = %v, want ErrLayerLocked", err)
	}

	if err := s.SetLayerLocked(id, false); err != nil {
		t.Fatal(err)
	}
	if err := s.SetLayerVisible(id, false); err != nil {
		t.Fatal(err)
	}
	if err := s.StrokeBegin(blackBrush(8), geometry.Point2D{X: 20, Y: 20}); err != ErrLayerLocked {
		t.Errorf("stroke on hidden layer: err = %v, want ErrLayerLocked", err)
	}
}

// TestPasteRegionUndo verifies a paste lands on the active layer as one
// undoable entry and respects the layer lock.
func TestPasteRegionUndo(t *testing.T) {
	s := newTestSession(t)
	before := append([]byte(nil), s.Composite().RGBA().Pix...)

	src := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for i := 0; i < len(src.Pix); i += 4 {
		src.Pix[i+2] = 255 // blue, opaque
		src.Pix[i+3] = 255
	}

	if err := s.PasteRegion(src, image.Pt(10, 10)); err != nil {
		t.Fatal(err)
	}
	if got := s.Composite().At(12, 12); got != (color.RGBA{B: 255, A: 255}) {
		t.Fatalf("pasted pixel = %v, want blue", got)
	}
	if !s.CanUndo() {
		t.Fatal("paste did not push a history entry")
	}
	if err := s.Undo(); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(s.Composite().RGBA().Pix, before) {
		t.Error("undo did not restore the pre-paste composite")
	}

	id := s.Layers()[0].ID
	if err := s.SetLayerLocked(id, true); err != nil {
		t.Fatal(err)
	}
	if err := s.PasteRegion(src, image.Pt(10, 10)); err != ErrLayerLocked {
		t.Errorf("paste on locked layer: err = %v, want ErrLayerLocked", err)
	}
}

// TestWandSelectAndFill verifies the wand-select-then-fill flow and its
// undo.
func TestWandSelectAndFill(t *testing.T) {
	s := newTestSession(t)

	sel, err := s.SelectWand(context.Background(), 32, 32)
	if err != nil {
		t.Fatal(err)
	}
	if sel.Empty() {
		t.Fatal("wand on flat canvas selected nothing")
	}
	if got := s.Selection(); got.Empty() {
		t.Fatal("selection was not installed")
	}

	if err := s.FillSelection(color.NRGBA{R: 255, A: 255}); err != nil {
		t.Fatal(err)
	}
	if got := s.Composite().At(32, 32); got.R != 255 || got.G != 0 {
		t.Errorf("filled pixel = %v, want red", got)
	}

	if err := s.Undo(); err != nil {
		t.Fatal(err)
	}
	if got := s.Composite().At(32, 32); got != colorutil.White {
		t.Errorf("after undo = %v, want white", got)
	}

	s.ClearSelection()
	if s.Selection() != nil {
		t.Error("selection survived ClearSelection")
	}
	if err := s.FillSelection(color.NRGBA{A: 255}); err != nil {
		t.Errorf("fill with no selection: err = %v, want nil no-op", err)
	}
}

// TestMarqueeSelection verifies a rectangle drag installs a selection
// through the session.
func TestMarqueeSelection(t *testing.T) {
	s := newTestSession(t)
	s.SetSelectionTool(selection.KindRect)

	s.SelectBegin(geometry.Point2D{X: 10, Y: 10})
	s.SelectMove(geometry.Point2D{X: 40, Y: 30})
	s.SelectEnd()

	sel := s.Selection()
	if sel.Empty() {
		t.Fatal("marquee selected nothing")
	}
	if !sel.Contains(20, 20) || sel.Contains(50, 50) {
		t.Error("selection does not match the dragged box")
	}
}

// TestSerializeLoadRoundTrip verifies layers survive a serialize/load
// cycle and the history does not.
func TestSerializeLoadRoundTrip(t *testing.T) {
	src := newTestSession(t)
	if err := src.StrokeBegin(blackBrush(10), geometry.Point2D{X: 32, Y: 32}); err != nil {
		t.Fatal(err)
	}
	if err := src.StrokeEnd(); err != nil {
		t.Fatal(err)
	}
	if err := src.AddLayer("Ink"); err != nil {
		t.Fatal(err)
	}

	data, active := src.SerializeLayers()
	if len(data) != 2 || active != 1 {
		t.Fatalf("serialized %d layers active %d, want 2/1", len(data), active)
	}

	dst := newTestSession(t)
	if err := dst.LoadLayers(data, active); err != nil {
		t.Fatal(err)
	}

	layers := dst.Layers()
	if len(layers) != 2 || layers[0].Name != "Background" || layers[1].Name != "Ink" {
		t.Fatalf("loaded layers = %v", layers)
	}
	if dst.ActiveIndex() != 1 {
		t.Errorf("active = %d, want 1", dst.ActiveIndex())
	}
	if dst.CanUndo() {
		t.Error("history survived the load")
	}

	want := src.Composite().RGBA().Pix
	got := dst.Composite().RGBA().Pix
	if !bytes.Equal(want, got) {
		t.Error("loaded composite differs from the source")
	}

	if err := dst.LoadLayers(nil, 0); err == nil {
		t.Error("empty layer set loaded without error")
	}
}

// TestEventsEmitted verifies subscribers observe layer and history
// changes without blocking the session.
func TestEventsEmitted(t *testing.T) {
	s := newTestSession(t)
	ch := s.Subscribe()

	if err := s.AddLayer("Sketch"); err != nil {
		t.Fatal(err)
	}
	seen := drain(ch)
	if seen[EventLayersChanged] == 0 {
		t.Error("AddLayer emitted no layers-changed event")
	}
	if seen[EventHistoryChanged] == 0 {
		t.Error("AddLayer emitted no history-changed event")
	}

	s.OnPan(5, 5)
	if seen := drain(ch); seen[EventViewChanged] == 0 {
		t.Error("pan emitted no view-changed event")
	}

	s.ClearSelection()
	if seen := drain(ch); seen[EventSelectionChanged] == 0 {
		t.Error("clear emitted no selection-changed event")
	}

	s.Unsubscribe(ch)
	if _, open := <-ch; open {
		t.Error("unsubscribed channel still open")
	}
}

// TestBatchGroupsSessionEdits verifies batched property edits undo as
// one step.
func TestBatchGroupsSessionEdits(t *testing.T) {
	s := newTestSession(t)
	id := s.Layers()[0].ID

	s.StartBatch()
	if err := s.RenameLayer(id, "Base"); err != nil {
		t.Fatal(err)
	}
	if err := s.SetLayerOpacity(id, 0.5); err != nil {
		t.Fatal(err)
	}
	if err := s.EndBatch("Layer setup"); err != nil {
		t.Fatal(err)
	}

	if err := s.Undo(); err != nil {
		t.Fatal(err)
	}
	l := s.Layers()[0]
	if l.Name != "Background" || l.Opacity != 1.0 {
		t.Errorf("after undo name=%q opacity=%v, want original", l.Name, l.Opacity)
	}
	if s.CanUndo() {
		t.Error("batch left more than one undo entry")
	}
}
