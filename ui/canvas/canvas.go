// Package canvas provides the editing canvas widget: it renders the
// session's composite through the viewport transform and routes mouse
// gestures to the active tool.
package canvas

import (
	"context"
	"image/color"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"

	"rasterpad/internal/engine"
	"rasterpad/internal/selection"
	"rasterpad/internal/stroke"
	"rasterpad/pkg/geometry"
)

const (
	zoomStep         = 1.25
	momentumInterval = 16 * time.Millisecond
)

// Tool represents the current interaction tool.
type Tool int

const (
	ToolPan Tool = iota
	ToolBrush
	ToolEraser
	ToolWand
	ToolMarquee
)

func (t Tool) String() string {
	switch t {
	case ToolPan:
		return "Pan"
	case ToolBrush:
		return "Brush"
	case ToolEraser:
		return "Eraser"
	case ToolWand:
		return "Magic Wand"
	case ToolMarquee:
		return "Marquee"
	default:
		return "Unknown"
	}
}

// EditorCanvas displays a session's document and drives it with mouse
// gestures. Wheel zooms at the cursor, drag pans or paints depending
// on the tool, and releasing a pan drag with speed starts momentum.
type EditorCanvas struct {
	widget.BaseWidget

	session *engine.Session
	raster  *fynecanvas.Raster

	tool       Tool
	brushWidth int
	brushColor color.NRGBA

	dragging bool
	lastDrag time.Time
	velX     float64
	velY     float64

	// One wand scan at a time; starting a new one cancels the last.
	wandMu     sync.Mutex
	wandCancel context.CancelFunc

	momentumOnce sync.Once
	done         chan struct{}
	closeOnce    sync.Once

	onZoomChange func(zoom float64)
	onToolDone   func()
}

// NewEditorCanvas creates a canvas bound to a session.
func NewEditorCanvas(s *engine.Session) *EditorCanvas {
	ec := &EditorCanvas{
		session:    s,
		tool:       ToolPan,
		brushWidth: 8,
		brushColor: color.NRGBA{A: 255},
		done:       make(chan struct{}),
	}
	ec.raster = fynecanvas.NewRaster(ec.draw)
	ec.raster.ScaleMode = fynecanvas.ImageScalePixels
	ec.ExtendBaseWidget(ec)
	return ec
}

// SetTool sets the current interaction tool, cancelling any gesture
// the previous tool left unfinished.
func (ec *EditorCanvas) SetTool(tool Tool) {
	if ec.dragging {
		ec.session.StrokeCancel()
		ec.dragging = false
	}
	ec.tool = tool
	switch tool {
	case ToolWand:
		ec.session.SetSelectionTool(selection.KindMagicWand)
	case ToolMarquee:
		ec.session.SetSelectionTool(selection.KindRect)
	}
}

// Tool returns the current interaction tool.
func (ec *EditorCanvas) Tool() Tool {
	return ec.tool
}

// SetBrush sets the brush width and color used by the brush tool.
func (ec *EditorCanvas) SetBrush(width int, col color.NRGBA) {
	ec.brushWidth = width
	ec.brushColor = col
}

// BrushColor returns the current brush color.
func (ec *EditorCanvas) BrushColor() color.NRGBA {
	return ec.brushColor
}

// OnZoomChange sets a callback for zoom changes.
func (ec *EditorCanvas) OnZoomChange(callback func(zoom float64)) {
	ec.onZoomChange = callback
}

// OnToolDone sets a callback invoked after a gesture commits an edit.
func (ec *EditorCanvas) OnToolDone(callback func()) {
	ec.onToolDone = callback
}

func (ec *EditorCanvas) style() stroke.Style {
	return stroke.Style{
		Width:  float64(ec.brushWidth),
		Color:  ec.brushColor,
		Eraser: ec.tool == ToolEraser,
	}
}

func (ec *EditorCanvas) toCanvas(pos fyne.Position) geometry.Point2D {
	return ec.session.Viewport().ToCanvas(geometry.Point2D{
		X: float64(pos.X),
		Y: float64(pos.Y),
	})
}

// Dragged routes a drag step to the active tool.
func (ec *EditorCanvas) Dragged(ev *fyne.DragEvent) {
	dx, dy := float64(ev.Dragged.DX), float64(ev.Dragged.DY)

	switch ec.tool {
	case ToolPan:
		ec.session.OnPan(dx, dy)
		now := time.Now()
		if ec.dragging && !ec.lastDrag.IsZero() {
			dt := now.Sub(ec.lastDrag).Seconds()
			if dt > 0 {
				// Velocity in px per momentum tick.
				scale := momentumInterval.Seconds() / dt
				ec.velX = dx * scale
				ec.velY = dy * scale
			}
		}
		ec.lastDrag = now
		ec.dragging = true

	case ToolBrush, ToolEraser:
		p := ec.toCanvas(ev.Position)
		if !ec.dragging {
			if err := ec.session.StrokeBegin(ec.style(), p); err != nil {
				return
			}
			ec.dragging = true
		} else {
			ec.session.StrokeMove(p)
		}

	case ToolMarquee:
		p := ec.toCanvas(ev.Position)
		if !ec.dragging {
			ec.session.SelectBegin(p)
			ec.dragging = true
		} else {
			ec.session.SelectMove(p)
		}
	}

	ec.Refresh()
}

// DragEnd finishes the active gesture.
func (ec *EditorCanvas) DragEnd() {
	if !ec.dragging {
		return
	}
	ec.dragging = false

	switch ec.tool {
	case ToolPan:
		ec.session.OnFling(ec.velX, ec.velY)
		ec.velX, ec.velY = 0, 0
		ec.startMomentumLoop()

	case ToolBrush, ToolEraser:
		if err := ec.session.StrokeEnd(); err == nil && ec.onToolDone != nil {
			ec.onToolDone()
		}

	case ToolMarquee:
		ec.session.SelectEnd()
		if ec.onToolDone != nil {
			ec.onToolDone()
		}
	}

	ec.Refresh()
}

// Scrolled zooms at the cursor position.
func (ec *EditorCanvas) Scrolled(ev *fyne.ScrollEvent) {
	factor := zoomStep
	if ev.Scrolled.DY < 0 {
		factor = 1 / zoomStep
	}
	focal := geometry.Point2D{X: float64(ev.Position.X), Y: float64(ev.Position.Y)}
	ec.session.OnZoom(factor, focal)

	if ec.onZoomChange != nil {
		ec.onZoomChange(ec.session.Viewport().Zoom())
	}
	ec.Refresh()
}

// Tapped handles clicks: the wand selects, the brush dabs a single
// point.
func (ec *EditorCanvas) Tapped(ev *fyne.PointEvent) {
	p := ec.toCanvas(ev.Position)

	switch ec.tool {
	case ToolWand:
		ec.runWand(int(p.X+0.5), int(p.Y+0.5))

	case ToolBrush, ToolEraser:
		if err := ec.session.StrokeBegin(ec.style(), p); err != nil {
			return
		}
		if err := ec.session.StrokeEnd(); err == nil && ec.onToolDone != nil {
			ec.onToolDone()
		}
		ec.Refresh()
	}
}

// runWand starts an asynchronous wand scan, cancelling any scan still
// in flight.
func (ec *EditorCanvas) runWand(x, y int) {
	ec.wandMu.Lock()
	if ec.wandCancel != nil {
		ec.wandCancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	ec.wandCancel = cancel
	ec.wandMu.Unlock()

	results := ec.session.SelectWandAsync(ctx, x, y)
	go func() {
		defer cancel()
		res := <-results
		if res.Err != nil {
			return
		}
		ec.Refresh()
		if ec.onToolDone != nil {
			ec.onToolDone()
		}
	}()
}

// startMomentumLoop drives fling deceleration. A single loop serves
// the canvas for its lifetime; it idles while the viewport is at rest
// and exits when the widget is destroyed.
func (ec *EditorCanvas) startMomentumLoop() {
	ec.momentumOnce.Do(func() {
		go func() {
			ticker := time.NewTicker(momentumInterval)
			defer ticker.Stop()
			for {
				select {
				case <-ec.done:
					return
				case <-ticker.C:
					if !ec.session.IntegrateMomentum() {
						continue
					}
					ec.Refresh()
				}
			}
		}()
	})
}

// Close ends the momentum loop and any wand scan still in flight.
// Safe to call more than once; the renderer's Destroy also calls it.
func (ec *EditorCanvas) Close() {
	ec.closeOnce.Do(func() { close(ec.done) })
	ec.wandMu.Lock()
	if ec.wandCancel != nil {
		ec.wandCancel()
		ec.wandCancel = nil
	}
	ec.wandMu.Unlock()
}

// Refresh redraws the canvas.
func (ec *EditorCanvas) Refresh() {
	ec.raster.Refresh()
	ec.BaseWidget.Refresh()
}

// CreateRenderer implements fyne.Widget.
func (ec *EditorCanvas) CreateRenderer() fyne.WidgetRenderer {
	return &editorCanvasRenderer{canvas: ec}
}

type editorCanvasRenderer struct {
	canvas *EditorCanvas
}

func (r *editorCanvasRenderer) Layout(size fyne.Size) {
	r.canvas.raster.Resize(size)
}

func (r *editorCanvasRenderer) MinSize() fyne.Size {
	return fyne.NewSize(200, 200)
}

func (r *editorCanvasRenderer) Refresh() {
	r.canvas.raster.Refresh()
}

func (r *editorCanvasRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.canvas.raster}
}

func (r *editorCanvasRenderer) Destroy() {
	r.canvas.Close()
}
