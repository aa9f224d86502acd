package command

import (
	"fmt"
	"image"
	"image/color"

	"rasterpad/internal/layer"
	"rasterpad/internal/surface"
)

// AddLayer inserts a new empty layer at the top of the stack.
type AddLayer struct {
	stack   *layer.Stack
	store   *surface.Store
	l       *layer.Layer
	index   int
	applied bool
}

// NewAddLayer allocates a transparent surface of the canvas size and
// builds the command that installs it as a new top layer.
func NewAddLayer(stack *layer.Stack, store *surface.Store, name string, width, height int) (*AddLayer, error) {
	surf, err := store.Allocate(width, height, color.RGBA{})
	if err != nil {
		return nil, err
	}
	l := layer.New(stack.NextID(), name, surf)
	return &AddLayer{stack: stack, store: store, l: l, index: stack.Len()}, nil
}

func (c *AddLayer) Name() string { return "Add Layer" }

func (c *AddLayer) Apply() error {
	if c.index > c.stack.Len() {
		c.index = c.stack.Len()
	}
	if err := c.stack.Insert(c.index, c.l); err != nil {
		return err
	}
	c.stack.SetActive(c.index)
	c.applied = true
	return nil
}

func (c *AddLayer) Revert() error {
	i := c.stack.IndexOf(c.l.ID)
	if i < 0 {
		return fmt.Errorf("layer %d not on stack", c.l.ID)
	}
	c.stack.Remove(i)
	c.applied = false
	return nil
}

func (c *AddLayer) MemoryBytes() int64 {
	// The layer surface is owned by the document while applied; the
	// command itself retains nothing.
	return 0
}

func (c *AddLayer) Bounds() image.Rectangle { return image.Rectangle{} }
func (c *AddLayer) CanMerge(Command) bool   { return false }
func (c *AddLayer) Merge(Command) Command   { return c }

// Release frees the layer surface if the layer is not part of the live
// document (the command was undone and its redo entry destroyed).
func (c *AddLayer) Release() {
	if !c.applied {
		c.store.Free(c.l.Surface)
	}
}

// DeleteLayer removes a layer from the stack. Its surface stays alive,
// held by the command, until the history entry is destroyed.
type DeleteLayer struct {
	stack   *layer.Stack
	store   *surface.Store
	index   int
	l       *layer.Layer
	applied bool
}

// NewDeleteLayer builds a command deleting the layer at stack position
// index.
func NewDeleteLayer(stack *layer.Stack, store *surface.Store, index int) *DeleteLayer {
	return &DeleteLayer{stack: stack, store: store, index: index}
}

func (c *DeleteLayer) Name() string { return "Delete Layer" }

func (c *DeleteLayer) Apply() error {
	if c.stack.Len() <= 1 {
		return fmt.Errorf("cannot delete the last layer")
	}
	l := c.stack.Remove(c.index)
	if l == nil {
		return fmt.Errorf("no layer at position %d", c.index)
	}
	c.l = l
	c.applied = true
	return nil
}

func (c *DeleteLayer) Revert() error {
	if err := c.stack.Insert(c.index, c.l); err != nil {
		return err
	}
	c.stack.SetActive(c.index)
	c.applied = false
	return nil
}

func (c *DeleteLayer) MemoryBytes() int64 {
	if !c.applied || c.l == nil {
		return 0
	}
	if s := c.store.Get(c.l.Surface); s != nil {
		return s.SizeBytes()
	}
	return 0
}

func (c *DeleteLayer) Bounds() image.Rectangle { return image.Rectangle{} }
func (c *DeleteLayer) CanMerge(Command) bool   { return false }
func (c *DeleteLayer) Merge(Command) Command   { return c }

func (c *DeleteLayer) Release() {
	if c.applied && c.l != nil {
		c.store.Free(c.l.Surface)
	}
}

// MoveLayer reorders the stack.
type MoveLayer struct {
	stack    *layer.Stack
	from, to int
}

// NewMoveLayer builds a command moving a layer between stack positions.
func NewMoveLayer(stack *layer.Stack, from, to int) *MoveLayer {
	return &MoveLayer{stack: stack, from: from, to: to}
}

func (c *MoveLayer) Name() string { return "Move Layer" }

func (c *MoveLayer) Apply() error {
	return c.stack.Move(c.from, c.to)
}

func (c *MoveLayer) Revert() error {
	return c.stack.Move(c.to, c.from)
}

func (c *MoveLayer) MemoryBytes() int64      { return 0 }
func (c *MoveLayer) Bounds() image.Rectangle { return image.Rectangle{} }
func (c *MoveLayer) CanMerge(Command) bool   { return false }
func (c *MoveLayer) Merge(Command) Command   { return c }

// MergeDown composites a layer into the one below it and removes it.
type MergeDown struct {
	stack      *layer.Stack
	store      *surface.Store
	comp       *layer.Compositor
	upperIndex int
	width      int
	height     int

	upper       *layer.Layer
	lowerPixels *image.RGBA
	prevActive  int
	applied     bool
}

// NewMergeDown builds a command merging the layer at upperIndex into
// the layer directly below it.
func NewMergeDown(stack *layer.Stack, store *surface.Store, comp *layer.Compositor, upperIndex, width, height int) *MergeDown {
	return &MergeDown{
		stack:      stack,
		store:      store,
		comp:       comp,
		upperIndex: upperIndex,
		width:      width,
		height:     height,
	}
}

func (c *MergeDown) Name() string { return "Merge Down" }

func (c *MergeDown) Apply() error {
	if c.upperIndex <= 0 || c.upperIndex >= c.stack.Len() {
		return fmt.Errorf("no layer below position %d to merge into", c.upperIndex)
	}
	lower := c.stack.At(c.upperIndex - 1)
	upper := c.stack.At(c.upperIndex)
	lowerSurf := c.store.Get(lower.Surface)
	if lowerSurf == nil {
		return fmt.Errorf("lower surface %d was freed", lower.Surface)
	}

	merged, err := c.comp.CompositePair(lower, upper, c.width, c.height)
	if err != nil {
		return err
	}

	if c.lowerPixels == nil {
		c.lowerPixels = lowerSurf.ReadRegion(lowerSurf.Bounds())
	}
	c.prevActive = c.stack.ActiveIndex()

	lowerSurf.WriteRegion(merged.RGBA())
	lower.Touch()

	c.upper = c.stack.Remove(c.upperIndex)
	if c.prevActive >= c.upperIndex {
		c.stack.SetActive(c.upperIndex - 1)
	}
	c.applied = true
	return nil
}

func (c *MergeDown) Revert() error {
	lower := c.stack.At(c.upperIndex - 1)
	if lower == nil {
		return fmt.Errorf("merge target missing at position %d", c.upperIndex-1)
	}
	if s := c.store.Get(lower.Surface); s != nil {
		s.WriteRegion(c.lowerPixels)
	}
	if err := c.stack.Insert(c.upperIndex, c.upper); err != nil {
		return err
	}
	c.stack.SetActive(c.prevActive)
	c.applied = false
	return nil
}

func (c *MergeDown) MemoryBytes() int64 {
	var total int64
	if c.lowerPixels != nil {
		total += int64(len(c.lowerPixels.Pix))
	}
	if c.applied && c.upper != nil {
		if s := c.store.Get(c.upper.Surface); s != nil {
			total += s.SizeBytes()
		}
	}
	return total
}

func (c *MergeDown) Bounds() image.Rectangle {
	return image.Rect(0, 0, c.width, c.height)
}

func (c *MergeDown) CanMerge(Command) bool { return false }
func (c *MergeDown) Merge(Command) Command { return c }

func (c *MergeDown) Release() {
	if c.applied && c.upper != nil {
		c.store.Free(c.upper.Surface)
	}
}

// Flatten composites every visible layer into the background layer and
// removes the rest. Revert restores the full pre-flatten layer list.
type Flatten struct {
	stack  *layer.Stack
	store  *surface.Store
	comp   *layer.Compositor
	width  int
	height int

	prevLayers []*layer.Layer
	prevActive int
	bgPixels   *image.RGBA
	applied    bool
}

// NewFlatten builds the flatten-image command.
func NewFlatten(stack *layer.Stack, store *surface.Store, comp *layer.Compositor, width, height int) *Flatten {
	return &Flatten{stack: stack, store: store, comp: comp, width: width, height: height}
}

func (c *Flatten) Name() string { return "Flatten Image" }

func (c *Flatten) Apply() error {
	bg := c.stack.At(0)
	if bg == nil {
		return fmt.Errorf("no layers to flatten")
	}
	bgSurf := c.store.Get(bg.Surface)
	if bgSurf == nil {
		return fmt.Errorf("background surface %d was freed", bg.Surface)
	}

	flat, err := c.comp.Composite(c.stack, c.width, c.height)
	if err != nil {
		return err
	}

	if c.prevLayers == nil {
		c.prevLayers = c.stack.Snapshot()
		c.prevActive = c.stack.ActiveIndex()
		c.bgPixels = bgSurf.ReadRegion(bgSurf.Bounds())
	}

	bgSurf.WriteRegion(flat.RGBA())
	bg.Visible = true
	bg.Touch()

	for c.stack.Len() > 1 {
		c.stack.Remove(1)
	}
	c.stack.SetActive(0)
	c.applied = true
	return nil
}

func (c *Flatten) Revert() error {
	bg := c.stack.At(0)
	if bg == nil {
		return fmt.Errorf("background layer missing")
	}
	if s := c.store.Get(bg.Surface); s != nil {
		s.WriteRegion(c.bgPixels)
	}
	c.stack.Restore(c.prevLayers, c.prevActive)
	c.applied = false
	return nil
}

func (c *Flatten) MemoryBytes() int64 {
	var total int64
	if c.bgPixels != nil {
		total += int64(len(c.bgPixels.Pix))
	}
	if c.applied {
		for _, l := range c.prevLayers[1:] {
			if s := c.store.Get(l.Surface); s != nil {
				total += s.SizeBytes()
			}
		}
	}
	return total
}

func (c *Flatten) Bounds() image.Rectangle {
	return image.Rect(0, 0, c.width, c.height)
}

func (c *Flatten) CanMerge(Command) bool { return false }
func (c *Flatten) Merge(Command) Command { return c }

func (c *Flatten) Release() {
	if !c.applied || len(c.prevLayers) == 0 {
		return
	}
	for _, l := range c.prevLayers[1:] {
		c.store.Free(l.Surface)
	}
}
