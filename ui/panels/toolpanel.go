package panels

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"rasterpad/internal/engine"
	"rasterpad/internal/selection"
	"rasterpad/ui/canvas"
)

var toolNames = []string{"Pan", "Brush", "Eraser", "Magic Wand", "Marquee"}

var combineModeNames = []string{"Replace", "Add", "Subtract", "Intersect"}

// Brush color swatches.
var swatches = []color.NRGBA{
	{A: 255},                               // black
	{R: 255, G: 255, B: 255, A: 255},       // white
	{R: 220, G: 50, B: 47, A: 255},         // red
	{R: 38, G: 139, B: 210, A: 255},        // blue
	{R: 133, G: 153, B: 0, A: 255},         // green
	{R: 181, G: 137, B: 0, A: 255},         // yellow
}

// ToolPanel exposes the tool picker plus per-tool settings: brush
// width and color, wand tolerance, and selection combine mode.
type ToolPanel struct {
	session *engine.Session
	editor  *canvas.EditorCanvas

	tools      *widget.RadioGroup
	brushWidth *widget.Slider
	tolerance  *widget.Slider
	contiguous *widget.Check
	feather    *widget.Slider
	combine    *widget.Select
	container  fyne.CanvasObject
}

// NewToolPanel creates the tool panel bound to an editor canvas.
func NewToolPanel(session *engine.Session, editor *canvas.EditorCanvas) *ToolPanel {
	tp := &ToolPanel{session: session, editor: editor}

	tp.tools = widget.NewRadioGroup(toolNames, func(name string) {
		for i, n := range toolNames {
			if n == name {
				editor.SetTool(canvas.Tool(i))
				return
			}
		}
	})
	tp.tools.SetSelected("Pan")

	tp.brushWidth = widget.NewSlider(1, 128)
	tp.brushWidth.Value = 8
	tp.brushWidth.OnChanged = func(v float64) {
		editor.SetBrush(int(v), editor.BrushColor())
	}

	swatchRow := container.NewHBox()
	for _, col := range swatches {
		col := col
		swatchRow.Add(newSwatchButton(col, func() {
			editor.SetBrush(int(tp.brushWidth.Value), col)
		}))
	}

	tp.tolerance = widget.NewSlider(0, 255)
	tp.tolerance.Value = float64(session.SelectionTool().Tolerance)
	tp.tolerance.OnChanged = func(v float64) {
		session.SelectionTool().Tolerance = int(v)
	}

	tp.contiguous = widget.NewCheck("Contiguous", func(v bool) {
		session.SelectionTool().Contiguous = v
	})
	tp.contiguous.SetChecked(session.SelectionTool().Contiguous)

	tp.feather = widget.NewSlider(0, 32)
	tp.feather.OnChanged = func(v float64) {
		session.SelectionTool().Feather = int(v)
	}

	tp.combine = widget.NewSelect(combineModeNames, func(name string) {
		for i, n := range combineModeNames {
			if n == name {
				session.SelectionTool().Mode = selection.Mode(i)
				return
			}
		}
	})
	tp.combine.SetSelected("Replace")

	tp.container = container.NewVBox(
		widget.NewLabel("Tool"),
		tp.tools,
		widget.NewSeparator(),
		widget.NewLabel("Brush Width"),
		tp.brushWidth,
		widget.NewLabel("Color"),
		swatchRow,
		widget.NewSeparator(),
		widget.NewLabel("Wand Tolerance"),
		tp.tolerance,
		tp.contiguous,
		widget.NewLabel("Feather"),
		tp.feather,
		widget.NewLabel("Combine"),
		tp.combine,
		widget.NewSeparator(),
		widget.NewButton("Fill Selection", tp.onFill),
		widget.NewButton("Deselect", tp.onDeselect),
	)
	return tp
}

// Container returns the panel container.
func (tp *ToolPanel) Container() fyne.CanvasObject {
	return tp.container
}

// BrushWidth returns the current brush width setting.
func (tp *ToolPanel) BrushWidth() int {
	return int(tp.brushWidth.Value)
}

func (tp *ToolPanel) onFill() {
	_ = tp.session.FillSelection(tp.editor.BrushColor())
	tp.editor.Refresh()
}

func (tp *ToolPanel) onDeselect() {
	tp.session.ClearSelection()
	tp.editor.Refresh()
}
