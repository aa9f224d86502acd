package surface

import (
	"image"
	"image/color"
	"image/draw"
	"sync"
)

// ID identifies a surface owned by a Store.
type ID int64

// Store owns a set of surfaces keyed by id: one per layer plus whatever
// scratch buffers the tools allocate. It carries no undo semantics; it
// is the substrate other components snapshot and mutate.
type Store struct {
	mu       sync.RWMutex
	next     ID
	surfaces map[ID]*Surface
}

// NewStore creates an empty surface store.
func NewStore() *Store {
	return &Store{surfaces: make(map[ID]*Surface)}
}

// Allocate creates a new surface and returns its id.
func (st *Store) Allocate(width, height int, fill color.RGBA) (ID, error) {
	s, err := New(width, height, fill)
	if err != nil {
		return 0, err
	}

	st.mu.Lock()
	defer st.mu.Unlock()
	st.next++
	id := st.next
	st.surfaces[id] = s
	return id, nil
}

// Adopt registers an existing surface with the store and returns its id.
func (st *Store) Adopt(s *Surface) ID {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.next++
	id := st.next
	st.surfaces[id] = s
	return id
}

// Get returns the surface for id, or nil if it was freed.
func (st *Store) Get(id ID) *Surface {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.surfaces[id]
}

// Read returns an owned copy of rect from the surface, clipped to its
// bounds. Returns nil for freed surfaces or empty clips.
func (st *Store) Read(id ID, rect image.Rectangle) *image.RGBA {
	s := st.Get(id)
	if s == nil {
		return nil
	}
	return s.ReadRegion(rect)
}

// Write copies pix into the surface at the positions recorded in its
// bounds, clipping silently.
func (st *Store) Write(id ID, pix *image.RGBA) {
	s := st.Get(id)
	if s == nil {
		return
	}
	s.WriteRegion(pix)
}

// Resize replaces the surface with a new one of the given size,
// blitting the old content centered. Content outside the new bounds is
// discarded. The old buffer is released.
func (st *Store) Resize(id ID, width, height int) error {
	st.mu.Lock()
	defer st.mu.Unlock()

	old, ok := st.surfaces[id]
	if !ok {
		return &AllocError{Width: width, Height: height, Reason: "surface was freed"}
	}

	next, err := New(width, height, color.RGBA{})
	if err != nil {
		return err
	}

	// Center the old content in the new bounds.
	dx := (width - old.Width()) / 2
	dy := (height - old.Height()) / 2
	target := old.Bounds().Add(image.Point{X: dx, Y: dy})
	draw.Draw(next.img, target, old.img, old.Bounds().Min, draw.Src)

	st.surfaces[id] = next
	return nil
}

// Free releases the surface. Further operations on the id are no-ops.
func (st *Store) Free(id ID) {
	st.mu.Lock()
	defer st.mu.Unlock()
	delete(st.surfaces, id)
}

// Count returns the number of live surfaces.
func (st *Store) Count() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.surfaces)
}
