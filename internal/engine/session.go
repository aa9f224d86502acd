// Package engine ties the editing core together: one Session owns the
// surface store, the layer stack, the undo history, the viewport, and
// the current selection. Everything that mutates the document goes
// through the Session, which serializes it; there is no global engine
// instance.
package engine

import (
	"errors"
	"fmt"
	"image/color"
	"sync"

	"rasterpad/internal/command"
	"rasterpad/internal/layer"
	"rasterpad/internal/selection"
	"rasterpad/internal/stroke"
	"rasterpad/internal/surface"
	"rasterpad/internal/view"
	"rasterpad/pkg/colorutil"
	"rasterpad/pkg/geometry"
)

// ErrLayerLocked is returned when an edit targets a locked or hidden
// layer.
var ErrLayerLocked = errors.New("layer is locked or hidden")

// Config configures a new editing session.
type Config struct {
	Width      int
	Height     int
	Background color.RGBA
	History    command.Config
	View       view.Config
}

// DefaultConfig returns a session config for a canvas of the given
// size with a white background and standard policies.
func DefaultConfig(width, height int) Config {
	return Config{
		Width:      width,
		Height:     height,
		Background: colorutil.White,
		History:    command.DefaultConfig(),
		View:       view.DefaultConfig(),
	}
}

// Session is one open document plus its editing state.
type Session struct {
	mu  sync.Mutex
	cfg Config

	store    *surface.Store
	stack    *layer.Stack
	comp     *layer.Compositor
	history  *command.Manager
	viewport *view.Viewport
	bus      *eventBus

	sel  *selection.Selection
	tool *selection.Tool

	// In-progress stroke state. While a stroke is active the scratch
	// surface holds a preview copy of the active layer with the stroke
	// painted in; the real layer is only mutated by the committed
	// command.
	stroking    bool
	strokeStyle stroke.Style
	strokePath  []geometry.Point2D
	scratch     surface.ID

	composite *surface.Surface
	dirty     bool
}

// NewSession creates a session with a single background layer filled
// with the configured background color.
func NewSession(cfg Config) (*Session, error) {
	s := &Session{
		cfg:      cfg,
		store:    surface.NewStore(),
		stack:    layer.NewStack(),
		history:  command.NewManager(cfg.History),
		viewport: view.New(cfg.View),
		bus:      newEventBus(),
		tool:     selection.NewTool(selection.KindMagicWand),
		dirty:    true,
	}
	s.comp = layer.NewCompositor(s.store)

	bg, err := s.store.Allocate(cfg.Width, cfg.Height, cfg.Background)
	if err != nil {
		return nil, fmt.Errorf("create background: %w", err)
	}
	s.stack.Push(layer.New(s.stack.NextID(), "Background", bg))

	s.history.OnChange(func() {
		s.bus.emit(Event{Kind: EventHistoryChanged})
	})
	return s, nil
}

// Close releases event subscribers and drops the undo history. The
// history is never persisted.
func (s *Session) Close() {
	s.mu.Lock()
	s.history.Clear()
	s.mu.Unlock()
	s.bus.close()
}

// Width returns the canvas width in pixels.
func (s *Session) Width() int { return s.cfg.Width }

// Height returns the canvas height in pixels.
func (s *Session) Height() int { return s.cfg.Height }

// BackgroundColor returns the configured background color.
func (s *Session) BackgroundColor() color.RGBA { return s.cfg.Background }

// Subscribe returns a channel of engine events. Slow consumers drop
// events rather than blocking the editor.
func (s *Session) Subscribe() <-chan Event {
	return s.bus.subscribe()
}

// Unsubscribe closes a previously subscribed channel.
func (s *Session) Unsubscribe(ch <-chan Event) {
	s.bus.unsubscribe(ch)
}

// Viewport returns the session's coordinate transform.
func (s *Session) Viewport() *view.Viewport {
	return s.viewport
}

// Layers returns a copy of the layer metadata, bottom to top.
func (s *Session) Layers() []*layer.Layer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stack.Snapshot()
}

// ActiveIndex returns the active layer's stack position.
func (s *Session) ActiveIndex() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stack.ActiveIndex()
}

// SetActive changes the active layer.
func (s *Session) SetActive(index int) {
	s.mu.Lock()
	s.stack.SetActive(index)
	s.mu.Unlock()
	s.bus.emit(Event{Kind: EventLayersChanged})
}

// Execute applies one command through the undo history. All document
// mutation is serialized here.
func (s *Session) Execute(cmd command.Command) error {
	s.mu.Lock()
	err := s.history.Execute(cmd)
	if err == nil {
		s.dirty = true
	}
	s.mu.Unlock()
	if err == nil {
		s.bus.emit(Event{Kind: EventLayersChanged})
	}
	return err
}

// Undo reverts the most recent command.
func (s *Session) Undo() error {
	s.mu.Lock()
	err := s.history.Undo()
	if err == nil {
		s.dirty = true
	}
	s.mu.Unlock()
	if err == nil {
		s.bus.emit(Event{Kind: EventLayersChanged})
	}
	return err
}

// Redo re-applies the most recently undone command.
func (s *Session) Redo() error {
	s.mu.Lock()
	err := s.history.Redo()
	if err == nil {
		s.dirty = true
	}
	s.mu.Unlock()
	if err == nil {
		s.bus.emit(Event{Kind: EventLayersChanged})
	}
	return err
}

// CanUndo reports whether an undo step is available.
func (s *Session) CanUndo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.CanUndo()
}

// CanRedo reports whether a redo step is available.
func (s *Session) CanRedo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.CanRedo()
}

// HistoryMemory returns the bytes held by undo snapshots.
func (s *Session) HistoryMemory() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.MemoryUsage()
}

// StartBatch groups subsequent commands into one undo entry.
func (s *Session) StartBatch() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history.StartBatch()
}

// EndBatch closes the open batch under the given description.
func (s *Session) EndBatch(description string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.EndBatch(description)
}

// CancelBatch reverts and discards the open batch.
func (s *Session) CancelBatch() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	err := s.history.CancelBatch()
	s.dirty = true
	return err
}
