package command

import (
	"fmt"
	"image"

	"rasterpad/internal/layer"
)

// Prop identifies a layer property a SetProperty command changes.
type Prop int

const (
	PropOpacity Prop = iota
	PropMode
	PropVisible
	PropLocked
	PropName
)

func (p Prop) String() string {
	switch p {
	case PropOpacity:
		return "Opacity"
	case PropMode:
		return "Blend Mode"
	case PropVisible:
		return "Visibility"
	case PropLocked:
		return "Lock"
	case PropName:
		return "Name"
	default:
		return "Property"
	}
}

// propValue holds one value of any settable property.
type propValue struct {
	opacity float64
	mode    layer.BlendMode
	flag    bool
	name    string
}

// SetProperty changes one metadata field of one layer. Consecutive
// changes to the same field of the same layer merge, so an opacity
// slider drag becomes a single undo entry.
type SetProperty struct {
	stack   *layer.Stack
	layerID int64
	prop    Prop
	oldV    propValue
	newV    propValue
}

// NewSetOpacity builds an opacity change command.
func NewSetOpacity(stack *layer.Stack, layerID int64, opacity float64) *SetProperty {
	if opacity < 0 {
		opacity = 0
	}
	if opacity > 1 {
		opacity = 1
	}
	return &SetProperty{stack: stack, layerID: layerID, prop: PropOpacity,
		newV: propValue{opacity: opacity}}
}

// NewSetMode builds a blend mode change command.
func NewSetMode(stack *layer.Stack, layerID int64, mode layer.BlendMode) *SetProperty {
	return &SetProperty{stack: stack, layerID: layerID, prop: PropMode,
		newV: propValue{mode: mode}}
}

// NewSetVisible builds a visibility toggle command.
func NewSetVisible(stack *layer.Stack, layerID int64, visible bool) *SetProperty {
	return &SetProperty{stack: stack, layerID: layerID, prop: PropVisible,
		newV: propValue{flag: visible}}
}

// NewSetLocked builds a lock toggle command.
func NewSetLocked(stack *layer.Stack, layerID int64, locked bool) *SetProperty {
	return &SetProperty{stack: stack, layerID: layerID, prop: PropLocked,
		newV: propValue{flag: locked}}
}

// NewSetName builds a rename command.
func NewSetName(stack *layer.Stack, layerID int64, name string) *SetProperty {
	return &SetProperty{stack: stack, layerID: layerID, prop: PropName,
		newV: propValue{name: name}}
}

func (c *SetProperty) Name() string {
	return "Change " + c.prop.String()
}

func (c *SetProperty) target() (*layer.Layer, error) {
	i := c.stack.IndexOf(c.layerID)
	if i < 0 {
		return nil, fmt.Errorf("layer %d not on stack", c.layerID)
	}
	return c.stack.At(i), nil
}

func (c *SetProperty) Apply() error {
	l, err := c.target()
	if err != nil {
		return err
	}
	c.oldV = read(l, c.prop)
	write(l, c.prop, c.newV)
	l.Touch()
	return nil
}

func (c *SetProperty) Revert() error {
	l, err := c.target()
	if err != nil {
		return err
	}
	write(l, c.prop, c.oldV)
	l.Touch()
	return nil
}

func (c *SetProperty) MemoryBytes() int64      { return 0 }
func (c *SetProperty) Bounds() image.Rectangle { return image.Rectangle{} }

func (c *SetProperty) CanMerge(prev Command) bool {
	p, ok := prev.(*SetProperty)
	return ok && p.layerID == c.layerID && p.prop == c.prop
}

func (c *SetProperty) Merge(prev Command) Command {
	p := prev.(*SetProperty)
	c.oldV = p.oldV
	return c
}

func read(l *layer.Layer, p Prop) propValue {
	switch p {
	case PropOpacity:
		return propValue{opacity: l.Opacity}
	case PropMode:
		return propValue{mode: l.Mode}
	case PropVisible:
		return propValue{flag: l.Visible}
	case PropLocked:
		return propValue{flag: l.Locked}
	default:
		return propValue{name: l.Name}
	}
}

func write(l *layer.Layer, p Prop, v propValue) {
	switch p {
	case PropOpacity:
		l.Opacity = v.opacity
	case PropMode:
		l.Mode = v.mode
	case PropVisible:
		l.Visible = v.flag
	case PropLocked:
		l.Locked = v.flag
	default:
		l.Name = v.name
	}
}
