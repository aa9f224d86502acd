package panels

import (
	"image/color"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"
)

// swatchButton is a small tappable color square.
type swatchButton struct {
	widget.BaseWidget
	rect     *fynecanvas.Rectangle
	onTapped func()
}

func newSwatchButton(col color.NRGBA, onTapped func()) *swatchButton {
	sb := &swatchButton{
		rect:     fynecanvas.NewRectangle(col),
		onTapped: onTapped,
	}
	sb.rect.SetMinSize(fyne.NewSize(24, 24))
	sb.ExtendBaseWidget(sb)
	return sb
}

func (sb *swatchButton) Tapped(*fyne.PointEvent) {
	if sb.onTapped != nil {
		sb.onTapped()
	}
}

func (sb *swatchButton) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(sb.rect)
}
