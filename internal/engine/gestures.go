package engine

import (
	"fmt"

	"rasterpad/internal/command"
	"rasterpad/internal/layer"
	"rasterpad/internal/stroke"
	"rasterpad/pkg/geometry"
)

// OnPan shifts the view by a screen-space drag delta.
func (s *Session) OnPan(dx, dy float64) {
	s.viewport.ApplyPan(dx, dy)
	s.bus.emit(Event{Kind: EventViewChanged})
}

// OnZoom zooms around the given focal screen point.
func (s *Session) OnZoom(factor float64, focal geometry.Point2D) {
	s.viewport.ApplyZoom(factor, focal)
	s.bus.emit(Event{Kind: EventViewChanged})
}

// OnFling starts pan momentum from a released drag.
func (s *Session) OnFling(vx, vy float64) {
	s.viewport.Fling(vx, vy)
	s.bus.emit(Event{Kind: EventViewChanged})
}

// IntegrateMomentum advances fling coasting by one tick; the UI frame
// callback drives it and stops calling once it returns false.
func (s *Session) IntegrateMomentum() bool {
	moving := s.viewport.IntegrateMomentum()
	if moving {
		s.bus.emit(Event{Kind: EventViewChanged})
	}
	return moving
}

// StrokeBegin opens a stroke gesture on the active layer. While the
// stroke is live, a scratch copy of the layer previews it; the layer
// itself is only touched by the committed command. Fails on locked or
// hidden layers.
func (s *Session) StrokeBegin(style stroke.Style, start geometry.Point2D) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	active := s.stack.Active()
	if active == nil {
		return fmt.Errorf("no active layer")
	}
	if !active.Editable() {
		return ErrLayerLocked
	}
	if s.stroking {
		return fmt.Errorf("stroke already in progress")
	}

	src := s.store.Get(active.Surface)
	if src == nil {
		return fmt.Errorf("active surface %d was freed", active.Surface)
	}

	s.scratch = s.store.Adopt(src.Clone())
	s.stroking = true
	s.strokeStyle = style
	s.strokePath = s.strokePath[:0]
	s.strokePath = append(s.strokePath, start)

	stroke.Rasterize(s.store.Get(s.scratch), s.strokePath, style)
	s.dirty = true

	s.bus.emit(Event{Kind: EventStrokeStarted, LayerID: active.ID})
	return nil
}

// StrokeMove extends the live stroke to a new canvas point.
func (s *Session) StrokeMove(p geometry.Point2D) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.stroking {
		return
	}
	last := s.strokePath[len(s.strokePath)-1]
	s.strokePath = append(s.strokePath, p)
	stroke.Rasterize(s.store.Get(s.scratch), []geometry.Point2D{last, p}, s.strokeStyle)
	s.dirty = true
}

// StrokeEnd commits the gesture as one undoable stroke command and
// drops the preview scratch surface.
func (s *Session) StrokeEnd() error {
	s.mu.Lock()

	if !s.stroking {
		s.mu.Unlock()
		return fmt.Errorf("no stroke in progress")
	}
	s.stroking = false
	s.store.Free(s.scratch)
	s.scratch = 0

	active := s.stack.Active()
	path := make([]geometry.Point2D, len(s.strokePath))
	copy(path, s.strokePath)

	cmd := command.NewStroke(s.store, active.Surface, path, s.strokeStyle)
	err := s.history.Execute(cmd)
	if err == nil {
		active.Touch()
		s.dirty = true
	}
	s.mu.Unlock()

	s.bus.emit(Event{Kind: EventStrokeFinished, LayerID: active.ID})
	return err
}

// StrokeCancel abandons the live stroke without touching the layer.
func (s *Session) StrokeCancel() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.stroking {
		return
	}
	s.stroking = false
	s.store.Free(s.scratch)
	s.scratch = 0
	s.dirty = true
}

// previewLayers returns the stack layers with the active layer's
// surface swapped for the live stroke scratch. Caller holds the lock.
func (s *Session) previewLayers() []*layer.Layer {
	layers := s.stack.Snapshot()
	if s.stroking {
		if i := s.stack.ActiveIndex(); i >= 0 && i < len(layers) {
			layers[i].Surface = s.scratch
		}
	}
	return layers
}
