// Package layer provides the layer stack and the compositor that
// flattens it into a single frame.
package layer

import (
	"time"

	"rasterpad/internal/surface"
)

// BlendMode specifies how a layer is composited onto the stack below it.
type BlendMode int

const (
	BlendNormal BlendMode = iota
	BlendMultiply
	BlendScreen
	BlendOverlay
	BlendSoftLight
	BlendHardLight
	BlendColorDodge
	BlendColorBurn
	BlendDarken
	BlendLighten
)

func (m BlendMode) String() string {
	switch m {
	case BlendNormal:
		return "Normal"
	case BlendMultiply:
		return "Multiply"
	case BlendScreen:
		return "Screen"
	case BlendOverlay:
		return "Overlay"
	case BlendSoftLight:
		return "Soft Light"
	case BlendHardLight:
		return "Hard Light"
	case BlendColorDodge:
		return "Color Dodge"
	case BlendColorBurn:
		return "Color Burn"
	case BlendDarken:
		return "Darken"
	case BlendLighten:
		return "Lighten"
	default:
		return "Unknown"
	}
}

// Layer is a named raster surface with compositing metadata. Its pixel
// data lives in the surface store under Surface.
type Layer struct {
	ID         int64      `json:"id"`
	Name       string     `json:"name"`
	Visible    bool       `json:"visible"`
	Locked     bool       `json:"locked"`
	Opacity    float64    `json:"opacity"` // 0.0 - 1.0
	Mode       BlendMode  `json:"blend_mode"`
	Surface    surface.ID `json:"-"`
	ModifiedAt time.Time  `json:"modified_at"`
}

// New creates a layer with default settings over the given surface.
func New(id int64, name string, surf surface.ID) *Layer {
	return &Layer{
		ID:         id,
		Name:       name,
		Visible:    true,
		Opacity:    1.0,
		Mode:       BlendNormal,
		Surface:    surf,
		ModifiedAt: time.Now(),
	}
}

// Editable reports whether editing operations may touch the layer.
// Locked and hidden layers are read-only; they still composite.
func (l *Layer) Editable() bool {
	return !l.Locked && l.Visible
}

// Touch updates the modification timestamp.
func (l *Layer) Touch() {
	l.ModifiedAt = time.Now()
}

// Clone returns a copy of the layer metadata. The surface id is shared;
// callers that need independent pixels must copy the surface too.
func (l *Layer) Clone() *Layer {
	c := *l
	return &c
}
