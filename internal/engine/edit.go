package engine

import (
	"fmt"
	"image"
	"image/color"

	"rasterpad/internal/command"
	"rasterpad/internal/layer"
)

// AddLayer creates a new transparent layer above the current top and
// makes it active. Undoable.
func (s *Session) AddLayer(name string) error {
	s.mu.Lock()
	cmd, err := command.NewAddLayer(s.stack, s.store, name, s.cfg.Width, s.cfg.Height)
	s.mu.Unlock()
	if err != nil {
		return err
	}
	return s.Execute(cmd)
}

// DeleteLayer removes the layer at the given stack position. The last
// remaining layer cannot be deleted. Undoable.
func (s *Session) DeleteLayer(index int) error {
	s.mu.Lock()
	cmd := command.NewDeleteLayer(s.stack, s.store, index)
	s.mu.Unlock()
	return s.Execute(cmd)
}

// MoveLayer reorders the stack. Undoable.
func (s *Session) MoveLayer(from, to int) error {
	s.mu.Lock()
	cmd := command.NewMoveLayer(s.stack, from, to)
	s.mu.Unlock()
	return s.Execute(cmd)
}

// MergeDown composites the layer at upperIndex into the layer below it
// and removes it. Undoable.
func (s *Session) MergeDown(upperIndex int) error {
	s.mu.Lock()
	cmd := command.NewMergeDown(s.stack, s.store, s.comp, upperIndex, s.cfg.Width, s.cfg.Height)
	s.mu.Unlock()
	return s.Execute(cmd)
}

// Flatten composites every visible layer into the background and
// removes the rest. One undo entry restores the whole layer list.
func (s *Session) Flatten() error {
	s.mu.Lock()
	cmd := command.NewFlatten(s.stack, s.store, s.comp, s.cfg.Width, s.cfg.Height)
	s.mu.Unlock()
	return s.Execute(cmd)
}

// ClearActive wipes the active layer to the given color. Undoable;
// never merges with other history entries.
func (s *Session) ClearActive(fill color.RGBA) error {
	s.mu.Lock()
	active := s.stack.Active()
	if active == nil {
		s.mu.Unlock()
		return fmt.Errorf("no active layer")
	}
	if !active.Editable() {
		s.mu.Unlock()
		return ErrLayerLocked
	}
	cmd := command.NewClear(s.store, active.Surface, fill)
	s.mu.Unlock()
	return s.Execute(cmd)
}

// FillSelection paints the current selection on the active layer with
// the given color. A missing or degenerate selection is a no-op.
func (s *Session) FillSelection(col color.NRGBA) error {
	s.mu.Lock()
	sel := s.sel
	active := s.stack.Active()
	if active == nil || sel.Empty() {
		s.mu.Unlock()
		return nil
	}
	if !active.Editable() {
		s.mu.Unlock()
		return ErrLayerLocked
	}
	cmd := command.NewFill(s.store, active.Surface, sel, col)
	s.mu.Unlock()
	return s.Execute(cmd)
}

// PasteRegion composites src onto the active layer with its top-left
// corner at the given position, clipped to the layer. Undoable; never
// merges with other history entries.
func (s *Session) PasteRegion(src *image.RGBA, at image.Point) error {
	if src == nil || src.Bounds().Empty() {
		return nil
	}
	s.mu.Lock()
	active := s.stack.Active()
	if active == nil {
		s.mu.Unlock()
		return fmt.Errorf("no active layer")
	}
	if !active.Editable() {
		s.mu.Unlock()
		return ErrLayerLocked
	}
	cmd := command.NewPaste(s.store, active.Surface, src, at)
	s.mu.Unlock()
	return s.Execute(cmd)
}

// SetLayerOpacity changes a layer's opacity. Consecutive changes merge
// into one undo entry.
func (s *Session) SetLayerOpacity(layerID int64, opacity float64) error {
	s.mu.Lock()
	cmd := command.NewSetOpacity(s.stack, layerID, opacity)
	s.mu.Unlock()
	return s.Execute(cmd)
}

// SetLayerMode changes a layer's blend mode. Undoable.
func (s *Session) SetLayerMode(layerID int64, mode layer.BlendMode) error {
	s.mu.Lock()
	cmd := command.NewSetMode(s.stack, layerID, mode)
	s.mu.Unlock()
	return s.Execute(cmd)
}

// SetLayerVisible toggles a layer's visibility. Undoable.
func (s *Session) SetLayerVisible(layerID int64, visible bool) error {
	s.mu.Lock()
	cmd := command.NewSetVisible(s.stack, layerID, visible)
	s.mu.Unlock()
	return s.Execute(cmd)
}

// SetLayerLocked toggles a layer's edit lock. Undoable.
func (s *Session) SetLayerLocked(layerID int64, locked bool) error {
	s.mu.Lock()
	cmd := command.NewSetLocked(s.stack, layerID, locked)
	s.mu.Unlock()
	return s.Execute(cmd)
}

// RenameLayer changes a layer's name. Undoable.
func (s *Session) RenameLayer(layerID int64, name string) error {
	s.mu.Lock()
	cmd := command.NewSetName(s.stack, layerID, name)
	s.mu.Unlock()
	return s.Execute(cmd)
}
