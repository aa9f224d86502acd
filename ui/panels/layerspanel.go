// Package panels provides UI panels for the application.
package panels

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"rasterpad/internal/engine"
	"rasterpad/internal/layer"
)

var blendModeNames = []string{
	"Normal", "Multiply", "Screen", "Overlay", "Soft Light",
	"Hard Light", "Color Dodge", "Color Burn", "Darken", "Lighten",
}

// LayersPanel lists the document's layers top to bottom and exposes
// per-layer controls: visibility, lock, opacity, and blend mode.
type LayersPanel struct {
	session *engine.Session

	list      *widget.List
	opacity   *widget.Slider
	blendMode *widget.Select
	lockCheck *widget.Check
	container fyne.CanvasObject

	// Guards against slider feedback while syncing from the model.
	syncing bool
}

// NewLayersPanel creates the layers panel for a session.
func NewLayersPanel(session *engine.Session) *LayersPanel {
	lp := &LayersPanel{session: session}

	lp.list = widget.NewList(
		func() int { return len(session.Layers()) },
		func() fyne.CanvasObject {
			return container.NewHBox(
				widget.NewCheck("", nil),
				widget.NewLabel("layer name placeholder"),
			)
		},
		lp.updateRow,
	)
	lp.list.OnSelected = func(id widget.ListItemID) {
		session.SetActive(lp.stackIndex(id))
		lp.syncControls()
	}

	lp.opacity = widget.NewSlider(0, 1)
	lp.opacity.Step = 0.01
	lp.opacity.OnChanged = func(v float64) {
		if lp.syncing {
			return
		}
		if l := lp.activeLayer(); l != nil {
			_ = session.SetLayerOpacity(l.ID, v)
		}
	}

	lp.blendMode = widget.NewSelect(blendModeNames, func(name string) {
		if lp.syncing {
			return
		}
		if l := lp.activeLayer(); l != nil {
			_ = session.SetLayerMode(l.ID, blendModeFromName(name))
		}
	})

	lp.lockCheck = widget.NewCheck("Locked", func(locked bool) {
		if lp.syncing {
			return
		}
		if l := lp.activeLayer(); l != nil {
			_ = session.SetLayerLocked(l.ID, locked)
		}
	})

	buttons := container.NewHBox(
		widget.NewButton("Add", lp.onAdd),
		widget.NewButton("Delete", lp.onDelete),
		widget.NewButton("Up", func() { lp.onMove(1) }),
		widget.NewButton("Down", func() { lp.onMove(-1) }),
	)
	mergeButtons := container.NewHBox(
		widget.NewButton("Merge Down", lp.onMergeDown),
		widget.NewButton("Flatten", lp.onFlatten),
	)

	controls := container.NewVBox(
		buttons,
		mergeButtons,
		widget.NewLabel("Opacity"),
		lp.opacity,
		widget.NewLabel("Blend Mode"),
		lp.blendMode,
		lp.lockCheck,
	)

	lp.container = container.NewBorder(nil, controls, nil, nil, lp.list)
	lp.Sync()
	return lp
}

// Container returns the panel container.
func (lp *LayersPanel) Container() fyne.CanvasObject {
	return lp.container
}

// Sync refreshes the panel from the session.
func (lp *LayersPanel) Sync() {
	lp.list.Refresh()
	if idx := lp.session.ActiveIndex(); idx >= 0 {
		lp.list.Select(lp.listIndex(idx))
	}
	lp.syncControls()
}

// The list shows layers top to bottom; the stack stores bottom to top.
func (lp *LayersPanel) stackIndex(listID int) int {
	return len(lp.session.Layers()) - 1 - listID
}

func (lp *LayersPanel) listIndex(stackIdx int) int {
	return len(lp.session.Layers()) - 1 - stackIdx
}

func (lp *LayersPanel) activeLayer() *layer.Layer {
	layers := lp.session.Layers()
	idx := lp.session.ActiveIndex()
	if idx < 0 || idx >= len(layers) {
		return nil
	}
	return layers[idx]
}

func (lp *LayersPanel) updateRow(id widget.ListItemID, obj fyne.CanvasObject) {
	layers := lp.session.Layers()
	idx := lp.stackIndex(id)
	if idx < 0 || idx >= len(layers) {
		return
	}
	l := layers[idx]

	row := obj.(*fyne.Container)
	check := row.Objects[0].(*widget.Check)
	label := row.Objects[1].(*widget.Label)

	check.OnChanged = nil
	check.SetChecked(l.Visible)
	check.OnChanged = func(visible bool) {
		_ = lp.session.SetLayerVisible(l.ID, visible)
	}

	name := l.Name
	if l.Locked {
		name += " 🔒"
	}
	label.SetText(name)
}

func (lp *LayersPanel) syncControls() {
	l := lp.activeLayer()
	if l == nil {
		return
	}
	lp.syncing = true
	lp.opacity.SetValue(l.Opacity)
	lp.blendMode.SetSelected(l.Mode.String())
	lp.lockCheck.SetChecked(l.Locked)
	lp.syncing = false
}

func (lp *LayersPanel) onAdd() {
	name := fmt.Sprintf("Layer %d", len(lp.session.Layers())+1)
	_ = lp.session.AddLayer(name)
	lp.Sync()
}

func (lp *LayersPanel) onDelete() {
	_ = lp.session.DeleteLayer(lp.session.ActiveIndex())
	lp.Sync()
}

func (lp *LayersPanel) onMove(delta int) {
	from := lp.session.ActiveIndex()
	_ = lp.session.MoveLayer(from, from+delta)
	lp.Sync()
}

func (lp *LayersPanel) onMergeDown() {
	_ = lp.session.MergeDown(lp.session.ActiveIndex())
	lp.Sync()
}

func (lp *LayersPanel) onFlatten() {
	_ = lp.session.Flatten()
	lp.Sync()
}

func blendModeFromName(name string) layer.BlendMode {
	for i, n := range blendModeNames {
		if n == name {
			return layer.BlendMode(i)
		}
	}
	return layer.BlendNormal
}
