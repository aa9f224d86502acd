// Package app provides application lifecycle management and document
// state shared by the UI.
package app

import (
	"fmt"
	"path/filepath"
	"sync"

	"rasterpad/internal/engine"
	"rasterpad/internal/project"
)

// Default canvas size for a fresh document.
const (
	DefaultWidth  = 1024
	DefaultHeight = 768
)

// State holds the application state: the open session, its document
// path, and the modified flag.
type State struct {
	mu sync.RWMutex

	session      *engine.Session
	DocumentPath string
	Modified     bool

	// Event listeners
	listeners map[EventType][]EventListener
}

// EventType identifies different application events.
type EventType int

const (
	EventDocumentOpened EventType = iota
	EventDocumentSaved
	EventDocumentClosed
	EventModified
)

// EventListener is called when an event occurs.
type EventListener func(data interface{})

// NewState creates a new application state with no open document.
func NewState() *State {
	return &State{
		listeners: make(map[EventType][]EventListener),
	}
}

// On registers an event listener for the specified event type.
func (s *State) On(event EventType, listener EventListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners[event] = append(s.listeners[event], listener)
}

// Emit notifies all listeners of an event.
func (s *State) Emit(event EventType, data interface{}) {
	s.mu.RLock()
	listeners := s.listeners[event]
	s.mu.RUnlock()

	for _, l := range listeners {
		l(data)
	}
}

// Session returns the open editing session, or nil.
func (s *State) Session() *engine.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session
}

// SetModified marks the document as having unsaved changes.
func (s *State) SetModified(modified bool) {
	s.mu.Lock()
	changed := s.Modified != modified
	s.Modified = modified
	s.mu.Unlock()

	if changed {
		s.Emit(EventModified, modified)
	}
}

// NewDocument closes any open session and starts a fresh one.
func (s *State) NewDocument(width, height int) error {
	sess, err := engine.NewSession(engine.DefaultConfig(width, height))
	if err != nil {
		return fmt.Errorf("new document: %w", err)
	}
	s.replaceSession(sess, "")
	s.Emit(EventDocumentOpened, "")
	return nil
}

// OpenDocument loads a document sidecar, or imports a plain image if
// the path isn't a sidecar.
func (s *State) OpenDocument(path string) error {
	if filepath.Ext(path) != project.Extension {
		return s.importImage(path)
	}

	sess, err := engine.NewSession(engine.DefaultConfig(DefaultWidth, DefaultHeight))
	if err != nil {
		return err
	}
	if err := project.LoadDocument(sess, path); err != nil {
		sess.Close()
		return fmt.Errorf("open %s: %w", filepath.Base(path), err)
	}
	s.replaceSession(sess, path)
	s.Emit(EventDocumentOpened, path)
	return nil
}

// importImage opens an image file as a new single-layer document.
func (s *State) importImage(path string) error {
	if !project.IsSupportedFormat(path) {
		return fmt.Errorf("open %s: unsupported format", filepath.Base(path))
	}
	sess, err := project.ImportImage(path)
	if err != nil {
		return fmt.Errorf("import %s: %w", filepath.Base(path), err)
	}
	// Imported images have no sidecar yet; a save will create one.
	s.replaceSession(sess, "")
	s.Emit(EventDocumentOpened, path)
	return nil
}

// SaveDocument writes the open session to the given sidecar path.
func (s *State) SaveDocument(path string) error {
	sess := s.Session()
	if sess == nil {
		return fmt.Errorf("save: no open document")
	}
	if err := project.SaveDocument(sess, path); err != nil {
		return err
	}

	s.mu.Lock()
	s.DocumentPath = path
	s.Modified = false
	s.mu.Unlock()

	s.Emit(EventDocumentSaved, path)
	return nil
}

// ExportPNG writes the flattened composite to a PNG file.
func (s *State) ExportPNG(path string) error {
	sess := s.Session()
	if sess == nil {
		return fmt.Errorf("export: no open document")
	}
	return project.ExportPNG(sess, path)
}

// CloseDocument closes the open session.
func (s *State) CloseDocument() {
	s.replaceSession(nil, "")
	s.Emit(EventDocumentClosed, nil)
}

func (s *State) replaceSession(sess *engine.Session, path string) {
	s.mu.Lock()
	old := s.session
	s.session = sess
	s.DocumentPath = path
	s.Modified = false
	s.mu.Unlock()

	if old != nil {
		old.Close()
	}
}
