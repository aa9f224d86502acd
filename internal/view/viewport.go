// Package view maps screen coordinates to canvas coordinates under
// pan, zoom, and rotation, and integrates fling momentum.
package view

import (
	"math"
	"sync"

	"gonum.org/v1/gonum/mat"

	"rasterpad/pkg/geometry"
)

// Config bounds the viewport and tunes momentum behaviour.
type Config struct {
	MinZoom       float64
	MaxZoom       float64
	VelocityScale float64 // pan delta to momentum multiplier
	Friction      float64 // per-tick momentum decay factor
	MinVelocity   float64 // below this, both axes, the view is at rest
}

// DefaultConfig returns the standard viewport tuning.
func DefaultConfig() Config {
	return Config{
		MinZoom:       0.1,
		MaxZoom:       10.0,
		VelocityScale: 1.0,
		Friction:      0.9,
		MinVelocity:   0.5,
	}
}

// Viewport is the canvas-to-screen transform state. Screen = T(pan) ·
// R(rotation) · S(zoom) · canvas. The forward and inverse matrices are
// rebuilt on every mutation, so the mapping functions are cheap.
//
// All methods are safe for concurrent use; the momentum ticker mutates
// the transform from its own goroutine while the UI thread reads it.
type Viewport struct {
	mu       sync.Mutex
	cfg      Config
	panX     float64
	panY     float64
	zoom     float64
	rotation float64

	vx, vy      float64
	hasMomentum bool

	fwd *mat.Dense
	inv *mat.Dense
}

// New creates a viewport at zoom 1 with no pan or rotation.
func New(cfg Config) *Viewport {
	if cfg.MinZoom <= 0 || cfg.MaxZoom <= cfg.MinZoom {
		cfg = DefaultConfig()
	}
	v := &Viewport{
		cfg:  cfg,
		zoom: 1.0,
		fwd:  mat.NewDense(3, 3, nil),
		inv:  mat.NewDense(3, 3, nil),
	}
	v.updateMatrices()
	return v
}

// Zoom returns the current zoom level.
func (v *Viewport) Zoom() float64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.zoom
}

// Pan returns the current pan offset in screen units.
func (v *Viewport) Pan() geometry.Point2D {
	v.mu.Lock()
	defer v.mu.Unlock()
	return geometry.Point2D{X: v.panX, Y: v.panY}
}

// Rotation returns the view rotation in radians.
func (v *Viewport) Rotation() float64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.rotation
}

// ToCanvas maps a screen point into canvas coordinates.
func (v *Viewport) ToCanvas(p geometry.Point2D) geometry.Point2D {
	v.mu.Lock()
	defer v.mu.Unlock()
	return applyMat(v.inv, p)
}

// ToScreen maps a canvas point into screen coordinates.
func (v *Viewport) ToScreen(p geometry.Point2D) geometry.Point2D {
	v.mu.Lock()
	defer v.mu.Unlock()
	return applyMat(v.fwd, p)
}

// Basis samples the screen-to-canvas transform: the canvas point under
// screen (0,0) and the canvas deltas of one screen step along each
// axis. A single snapshot keeps a per-pixel render loop off the lock.
func (v *Viewport) Basis() (origin, stepX, stepY geometry.Point2D) {
	v.mu.Lock()
	defer v.mu.Unlock()
	origin = applyMat(v.inv, geometry.Point2D{})
	stepX = applyMat(v.inv, geometry.Point2D{X: 1}).Sub(origin)
	stepY = applyMat(v.inv, geometry.Point2D{Y: 1}).Sub(origin)
	return origin, stepX, stepY
}

// ApplyZoom multiplies the zoom by factor, keeping the canvas point
// under the focal screen point stationary. The zoom is clamped to the
// configured bounds and the pan compensation uses the clamped value.
// Zero and negative factors are rejected.
func (v *Viewport) ApplyZoom(factor float64, focal geometry.Point2D) {
	if factor <= 0 {
		return
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	v.stopMomentumLocked()

	anchor := applyMat(v.inv, focal)
	v.zoom = clamp(v.zoom*factor, v.cfg.MinZoom, v.cfg.MaxZoom)

	// Solve pan so the anchor maps back to the focal point:
	// pan = focal - R·S·anchor.
	cos, sin := math.Cos(v.rotation), math.Sin(v.rotation)
	sx := v.zoom * (cos*anchor.X - sin*anchor.Y)
	sy := v.zoom * (sin*anchor.X + cos*anchor.Y)
	v.panX = focal.X - sx
	v.panY = focal.Y - sy
	v.updateMatrices()
}

// ApplyPan shifts the view by a screen-space delta and records the
// delta as momentum for a possible fling.
func (v *Viewport) ApplyPan(dx, dy float64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.stopMomentumLocked()
	v.panX += dx
	v.panY += dy
	v.vx = dx * v.cfg.VelocityScale
	v.vy = dy * v.cfg.VelocityScale
	v.updateMatrices()
}

// SetRotation sets the view rotation in radians.
func (v *Viewport) SetRotation(radians float64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.stopMomentumLocked()
	v.rotation = radians
	v.updateMatrices()
}

// Fling starts momentum with the given screen-space velocity.
func (v *Viewport) Fling(vx, vy float64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.vx = vx * v.cfg.VelocityScale
	v.vy = vy * v.cfg.VelocityScale
	v.hasMomentum = math.Abs(v.vx) >= v.cfg.MinVelocity || math.Abs(v.vy) >= v.cfg.MinVelocity
}

// HasMomentum reports whether the view is still coasting.
func (v *Viewport) HasMomentum() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.hasMomentum
}

// StopMomentum halts any active coasting.
func (v *Viewport) StopMomentum() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.stopMomentumLocked()
}

func (v *Viewport) stopMomentumLocked() {
	v.vx, v.vy = 0, 0
	v.hasMomentum = false
}

// IntegrateMomentum advances the pan by the current momentum and
// decays the momentum by the friction factor. It returns true while
// the view is still moving and false once at rest; calling it after
// rest is a no-op.
func (v *Viewport) IntegrateMomentum() bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	if !v.hasMomentum {
		return false
	}
	v.panX += v.vx
	v.panY += v.vy
	v.vx *= v.cfg.Friction
	v.vy *= v.cfg.Friction
	v.updateMatrices()

	if math.Abs(v.vx) < v.cfg.MinVelocity && math.Abs(v.vy) < v.cfg.MinVelocity {
		v.stopMomentumLocked()
		return false
	}
	return true
}

// updateMatrices rebuilds the forward matrix from the current state
// and caches its inverse. Caller holds the lock.
func (v *Viewport) updateMatrices() {
	cos, sin := math.Cos(v.rotation), math.Sin(v.rotation)
	v.fwd.SetRow(0, []float64{v.zoom * cos, -v.zoom * sin, v.panX})
	v.fwd.SetRow(1, []float64{v.zoom * sin, v.zoom * cos, v.panY})
	v.fwd.SetRow(2, []float64{0, 0, 1})

	// Zoom is always positive, so the matrix is invertible.
	if err := v.inv.Inverse(v.fwd); err != nil {
		v.inv.SetRow(0, []float64{1, 0, 0})
		v.inv.SetRow(1, []float64{0, 1, 0})
		v.inv.SetRow(2, []float64{0, 0, 1})
	}
}

func applyMat(m *mat.Dense, p geometry.Point2D) geometry.Point2D {
	return geometry.Point2D{
		X: m.At(0, 0)*p.X + m.At(0, 1)*p.Y + m.At(0, 2),
		Y: m.At(1, 0)*p.X + m.At(1, 1)*p.Y + m.At(1, 2),
	}
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
