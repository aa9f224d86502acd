package engine

import (
	"context"
	"image"

	"rasterpad/internal/selection"
	"rasterpad/internal/surface"
	"rasterpad/pkg/geometry"
)

// WandResult delivers an asynchronous magic wand selection.
type WandResult struct {
	Sel *selection.Selection
	Err error
}

// Selection returns the current selection, which may be nil.
func (s *Session) Selection() *selection.Selection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sel
}

// SetSelection installs a selection, combining it with the existing
// one per the active tool's mode.
func (s *Session) SetSelection(sel *selection.Selection) {
	s.mu.Lock()
	s.sel = s.sel.Combine(sel, s.tool.Mode)
	s.mu.Unlock()
	s.bus.emit(Event{Kind: EventSelectionChanged})
}

// ClearSelection drops the current selection.
func (s *Session) ClearSelection() {
	s.mu.Lock()
	s.sel = nil
	s.mu.Unlock()
	s.bus.emit(Event{Kind: EventSelectionChanged})
}

// SelectionTool returns the active selection tool.
func (s *Session) SelectionTool() *selection.Tool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tool
}

// SetSelectionTool switches the selection tool kind, keeping the
// current combine mode and wand settings.
func (s *Session) SetSelectionTool(kind selection.Kind) {
	s.mu.Lock()
	t := selection.NewTool(kind)
	t.Mode = s.tool.Mode
	t.Tolerance = s.tool.Tolerance
	t.Contiguous = s.tool.Contiguous
	t.Feather = s.tool.Feather
	s.tool = t
	s.mu.Unlock()
}

// activeSnapshot copies the active layer's pixels so selection can run
// off the editing goroutine without seeing later mutations.
func (s *Session) activeSnapshot() *surface.Surface {
	s.mu.Lock()
	defer s.mu.Unlock()
	active := s.stack.Active()
	if active == nil {
		return nil
	}
	src := s.store.Get(active.Surface)
	if src == nil {
		return nil
	}
	return src.Clone()
}

// SelectBegin starts a marquee drag at a canvas point. Wand tools
// select on click via SelectWand instead.
func (s *Session) SelectBegin(p geometry.Point2D) {
	s.mu.Lock()
	s.tool.Begin(p)
	s.mu.Unlock()
}

// SelectMove extends an active marquee drag.
func (s *Session) SelectMove(p geometry.Point2D) {
	s.mu.Lock()
	s.tool.Update(p)
	s.mu.Unlock()
}

// SelectEnd finishes the drag, rasterizes the marquee and installs it.
func (s *Session) SelectEnd() {
	s.mu.Lock()
	canvas := image.Rect(0, 0, s.cfg.Width, s.cfg.Height)
	sel := s.tool.Finish(canvas)
	s.mu.Unlock()
	if sel == nil || sel.Empty() {
		return
	}
	s.SetSelection(sel)
}

// SelectWand runs the magic wand at a canvas point on the editing
// goroutine and installs the result.
func (s *Session) SelectWand(ctx context.Context, x, y int) (*selection.Selection, error) {
	snap := s.activeSnapshot()

	s.mu.Lock()
	tolerance := s.tool.Tolerance
	contiguous := s.tool.Contiguous
	feather := s.tool.Feather
	s.mu.Unlock()

	sel, err := selection.Wand(ctx, snap, x, y, tolerance, contiguous)
	if err != nil {
		return sel, err
	}
	sel.Feather = feather
	sel.ApplyFeather()
	s.SetSelection(sel)
	return sel, nil
}

// SelectWandAsync runs the magic wand on a worker goroutine over a
// snapshot of the active layer. The result channel receives exactly
// one value; cancel ctx to abandon the scan.
func (s *Session) SelectWandAsync(ctx context.Context, x, y int) <-chan WandResult {
	out := make(chan WandResult, 1)
	go func() {
		sel, err := s.SelectWand(ctx, x, y)
		out <- WandResult{Sel: sel, Err: err}
	}()
	return out
}
