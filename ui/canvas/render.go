package canvas

import (
	"image"
	"image/color"

	"rasterpad/pkg/geometry"
)

// Workspace color shown around the document.
var workspaceGray = color.RGBA{R: 46, G: 46, B: 46, A: 255}

// Checkerboard squares shown through transparent document regions.
const checkerSize = 8

var (
	checkerLight = color.RGBA{R: 200, G: 200, B: 200, A: 255}
	checkerDark  = color.RGBA{R: 150, G: 150, B: 150, A: 255}
)

// Selection tint drawn over selected pixels.
var selectionTint = color.RGBA{R: 60, G: 120, B: 255, A: 255}

// draw renders the composited document through the viewport transform.
// Sampling is nearest-neighbor; each output pixel is mapped back to
// canvas space with the inverse transform.
func (ec *EditorCanvas) draw(w, h int) image.Image {
	output := image.NewRGBA(image.Rect(0, 0, w, h))

	flat := ec.session.Composite()
	sel := ec.session.Selection()

	// The inverse transform is affine; one basis snapshot replaces a
	// matrix multiply per pixel and cannot tear against the momentum
	// goroutine.
	origin, stepX, stepY := ec.session.Viewport().Basis()

	var src *image.RGBA
	var bounds image.Rectangle
	if flat != nil {
		src = flat.RGBA()
		bounds = src.Bounds()
	}

	for y := 0; y < h; y++ {
		rowX := origin.X + stepY.X*float64(y)
		rowY := origin.Y + stepY.Y*float64(y)
		for x := 0; x < w; x++ {
			cx := int(rowX + stepX.X*float64(x))
			cy := int(rowY + stepX.Y*float64(x))

			i := output.PixOffset(x, y)
			if src == nil || cx < bounds.Min.X || cx >= bounds.Max.X ||
				cy < bounds.Min.Y || cy >= bounds.Max.Y {
				putRGBA(output.Pix[i:i+4], workspaceGray)
				continue
			}

			j := src.PixOffset(cx, cy)
			pr, pg, pb, pa := src.Pix[j], src.Pix[j+1], src.Pix[j+2], src.Pix[j+3]

			// Composite over the transparency checkerboard.
			if pa < 255 {
				bg := checkerAt(cx, cy)
				inv := uint32(255 - pa)
				pr = uint8(uint32(pr) + uint32(bg.R)*inv/255)
				pg = uint8(uint32(pg) + uint32(bg.G)*inv/255)
				pb = uint8(uint32(pb) + uint32(bg.B)*inv/255)
			}

			if sel != nil {
				if cov := sel.Coverage(cx, cy); cov > 0 {
					t := uint32(cov) / 3
					pr = uint8((uint32(pr)*(255-t) + uint32(selectionTint.R)*t) / 255)
					pg = uint8((uint32(pg)*(255-t) + uint32(selectionTint.G)*t) / 255)
					pb = uint8((uint32(pb)*(255-t) + uint32(selectionTint.B)*t) / 255)
				}
			}

			output.Pix[i] = pr
			output.Pix[i+1] = pg
			output.Pix[i+2] = pb
			output.Pix[i+3] = 255
		}
	}

	if sel != nil && !sel.Empty() {
		ec.outlineSelection(output, sel.Bounds)
	}

	return output
}

func putRGBA(pix []byte, c color.RGBA) {
	pix[0] = c.R
	pix[1] = c.G
	pix[2] = c.B
	pix[3] = c.A
}

func checkerAt(x, y int) color.RGBA {
	if (x/checkerSize+y/checkerSize)%2 == 0 {
		return checkerLight
	}
	return checkerDark
}

// outlineSelection strokes the selection's bounding box in screen
// space.
func (ec *EditorCanvas) outlineSelection(output *image.RGBA, bounds image.Rectangle) {
	vp := ec.session.Viewport()
	corners := [4]geometry.Point2D{
		{X: float64(bounds.Min.X), Y: float64(bounds.Min.Y)},
		{X: float64(bounds.Max.X), Y: float64(bounds.Min.Y)},
		{X: float64(bounds.Max.X), Y: float64(bounds.Max.Y)},
		{X: float64(bounds.Min.X), Y: float64(bounds.Max.Y)},
	}
	for i := range corners {
		a := vp.ToScreen(corners[i])
		b := vp.ToScreen(corners[(i+1)%4])
		drawLine(output, a, b, selectionTint)
	}
}

// drawLine draws a 1px line clipped to the output bounds.
func drawLine(output *image.RGBA, a, b geometry.Point2D, c color.RGBA) {
	dx := b.X - a.X
	dy := b.Y - a.Y
	steps := int(max64(abs64(dx), abs64(dy)))
	if steps == 0 {
		steps = 1
	}
	bounds := output.Bounds()
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		x := int(a.X + dx*t)
		y := int(a.Y + dy*t)
		if (image.Point{X: x, Y: y}).In(bounds) {
			j := output.PixOffset(x, y)
			putRGBA(output.Pix[j:j+4], c)
		}
	}
}

func abs64(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

func max64(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
