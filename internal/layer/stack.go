package layer

import "fmt"

// Stack is the ordered layer list, bottom to top. Index 0 is the
// background layer. One layer is active at a time; editing commands
// target the active layer.
type Stack struct {
	layers []*Layer
	active int
	nextID int64
}

// NewStack creates an empty stack.
func NewStack() *Stack {
	return &Stack{}
}

// NextID reserves and returns a fresh layer id.
func (s *Stack) NextID() int64 {
	s.nextID++
	return s.nextID
}

// Len returns the number of layers.
func (s *Stack) Len() int {
	return len(s.layers)
}

// At returns the layer at stack position i (0 = bottom), or nil.
func (s *Stack) At(i int) *Layer {
	if i < 0 || i >= len(s.layers) {
		return nil
	}
	return s.layers[i]
}

// Layers returns the backing slice, bottom to top. Callers must not
// reorder it; use Move.
func (s *Stack) Layers() []*Layer {
	return s.layers
}

// IndexOf returns the stack position of the layer with the given id,
// or -1 if absent.
func (s *Stack) IndexOf(id int64) int {
	for i, l := range s.layers {
		if l.ID == id {
			return i
		}
	}
	return -1
}

// Push appends a layer at the top of the stack and makes it active.
func (s *Stack) Push(l *Layer) {
	s.layers = append(s.layers, l)
	s.active = len(s.layers) - 1
	if l.ID > s.nextID {
		s.nextID = l.ID
	}
}

// Insert places a layer at stack position i.
func (s *Stack) Insert(i int, l *Layer) error {
	if i < 0 || i > len(s.layers) {
		return fmt.Errorf("insert position %d out of range", i)
	}
	s.layers = append(s.layers, nil)
	copy(s.layers[i+1:], s.layers[i:])
	s.layers[i] = l
	if s.active >= i {
		s.active++
	}
	if l.ID > s.nextID {
		s.nextID = l.ID
	}
	return nil
}

// Remove detaches the layer at position i and returns it. The active
// layer is clamped to remain valid.
func (s *Stack) Remove(i int) *Layer {
	if i < 0 || i >= len(s.layers) {
		return nil
	}
	l := s.layers[i]
	s.layers = append(s.layers[:i], s.layers[i+1:]...)
	if s.active >= len(s.layers) {
		s.active = len(s.layers) - 1
	}
	return l
}

// Move shifts a layer from position from to position to.
func (s *Stack) Move(from, to int) error {
	if from < 0 || from >= len(s.layers) || to < 0 || to >= len(s.layers) {
		return fmt.Errorf("move %d -> %d out of range", from, to)
	}
	if from == to {
		return nil
	}
	l := s.layers[from]
	s.layers = append(s.layers[:from], s.layers[from+1:]...)
	s.layers = append(s.layers, nil)
	copy(s.layers[to+1:], s.layers[to:])
	s.layers[to] = l
	s.active = to
	return nil
}

// Active returns the active layer, or nil for an empty stack.
func (s *Stack) Active() *Layer {
	return s.At(s.active)
}

// ActiveIndex returns the active stack position.
func (s *Stack) ActiveIndex() int {
	return s.active
}

// SetActive changes the active layer position.
func (s *Stack) SetActive(i int) {
	if i >= 0 && i < len(s.layers) {
		s.active = i
	}
}

// Snapshot copies the stack's ordering and per-layer metadata. Surface
// ids are shared with the live stack.
func (s *Stack) Snapshot() []*Layer {
	out := make([]*Layer, len(s.layers))
	for i, l := range s.layers {
		out[i] = l.Clone()
	}
	return out
}

// Restore replaces the stack contents with a previously taken snapshot.
func (s *Stack) Restore(layers []*Layer, active int) {
	s.layers = make([]*Layer, len(layers))
	for i, l := range layers {
		s.layers[i] = l.Clone()
		if l.ID > s.nextID {
			s.nextID = l.ID
		}
	}
	s.active = active
	if s.active >= len(s.layers) {
		s.active = len(s.layers) - 1
	}
	if s.active < 0 {
		s.active = 0
	}
}
