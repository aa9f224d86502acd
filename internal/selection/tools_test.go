package selection

import (
	"image"
	"testing"

	"rasterpad/pkg/geometry"
)

// TestToolRectFinish verifies a rectangle drag rasterizes the dragged
// box exactly.
func TestToolRectFinish(t *testing.T) {
	canvas := image.Rect(0, 0, 100, 100)
	tool := NewTool(KindRect)

	tool.Begin(geometry.Point2D{X: 10, Y: 20})
	tool.Update(geometry.Point2D{X: 35, Y: 40})
	tool.Update(geometry.Point2D{X: 60, Y: 50})
	sel := tool.Finish(canvas)

	if sel.Empty() {
		t.Fatal("selection is empty")
	}
	if sel.Bounds != image.Rect(10, 20, 60, 50) {
		t.Errorf("bounds = %v, want (10,20)-(60,50)", sel.Bounds)
	}
	if !sel.Contains(30, 30) || sel.Contains(5, 30) || sel.Contains(30, 55) {
		t.Error("coverage does not match the dragged box")
	}
	if tool.State() != StateIdle {
		t.Error("tool still active after Finish")
	}
}

// TestToolEllipseFinish verifies the ellipse covers its center and
// axis extremes but not the box corners.
func TestToolEllipseFinish(t *testing.T) {
	canvas := image.Rect(0, 0, 100, 100)
	tool := NewTool(KindEllipse)

	tool.Begin(geometry.Point2D{X: 20, Y: 20})
	tool.Update(geometry.Point2D{X: 60, Y: 40})
	sel := tool.Finish(canvas)

	if sel.Empty() {
		t.Fatal("selection is empty")
	}
	if !sel.Contains(40, 30) {
		t.Error("center not selected")
	}
	if !sel.Contains(21, 30) || !sel.Contains(58, 30) {
		t.Error("axis extremes not selected")
	}
	if sel.Contains(21, 21) || sel.Contains(58, 38) {
		t.Error("box corners selected, want outside the ellipse")
	}
}

// TestToolFreehandFinish verifies a closed triangular drag selects the
// polygon interior only.
func TestToolFreehandFinish(t *testing.T) {
	canvas := image.Rect(0, 0, 100, 100)
	tool := NewTool(KindFreehand)

	tool.Begin(geometry.Point2D{X: 50, Y: 10})
	tool.Update(geometry.Point2D{X: 90, Y: 80})
	tool.Update(geometry.Point2D{X: 10, Y: 80})
	sel := tool.Finish(canvas)

	if sel.Empty() {
		t.Fatal("selection is empty")
	}
	if !sel.Contains(50, 50) {
		t.Error("triangle interior not selected")
	}
	if sel.Contains(15, 20) || sel.Contains(85, 20) {
		t.Error("points outside the triangle selected")
	}
}

// TestToolFinishDegenerate verifies zero-drag gestures and the magic
// wand kind rasterize nothing.
func TestToolFinishDegenerate(t *testing.T) {
	canvas := image.Rect(0, 0, 100, 100)

	tests := []struct {
		name string
		run  func() *Selection
	}{
		{"finish without begin", func() *Selection {
			return NewTool(KindRect).Finish(canvas)
		}},
		{"single point drag", func() *Selection {
			tool := NewTool(KindRect)
			tool.Begin(geometry.Point2D{X: 10, Y: 10})
			return tool.Finish(canvas)
		}},
		{"sub-minimum drag", func() *Selection {
			tool := NewTool(KindRect)
			tool.Begin(geometry.Point2D{X: 10, Y: 10})
			tool.Update(geometry.Point2D{X: 11, Y: 11})
			return tool.Finish(canvas)
		}},
		{"magic wand drag", func() *Selection {
			tool := NewTool(KindMagicWand)
			tool.Begin(geometry.Point2D{X: 10, Y: 10})
			tool.Update(geometry.Point2D{X: 60, Y: 60})
			return tool.Finish(canvas)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if sel := tt.run(); !sel.Empty() {
				t.Errorf("selection not empty, bounds %v", sel.Bounds)
			}
		})
	}
}

// TestToolFinishFeathers verifies Finish applies the tool's feather.
func TestToolFinishFeathers(t *testing.T) {
	canvas := image.Rect(0, 0, 100, 100)
	tool := NewTool(KindRect)
	tool.Feather = 2

	tool.Begin(geometry.Point2D{X: 20, Y: 20})
	tool.Update(geometry.Point2D{X: 60, Y: 60})
	sel := tool.Finish(canvas)

	if edge := sel.Coverage(20, 40); edge == 0 || edge == 255 {
		t.Errorf("edge coverage = %d, want partial", edge)
	}
	if c := sel.Coverage(40, 40); c != 255 {
		t.Errorf("interior coverage = %d, want 255", c)
	}
}
