package view

import (
	"math"
	"sync"
	"testing"

	"rasterpad/pkg/geometry"
)

const eps = 1e-3

func near(a, b geometry.Point2D) bool {
	return math.Abs(a.X-b.X) < eps && math.Abs(a.Y-b.Y) < eps
}

// TestRoundTripMapping verifies ToCanvas and ToScreen invert each
// other under combined pan, zoom, and rotation.
func TestRoundTripMapping(t *testing.T) {
	tests := []struct {
		name  string
		setup func(*Viewport)
	}{
		{"identity", func(*Viewport) {}},
		{"pan only", func(v *Viewport) { v.ApplyPan(120, -45) }},
		{"zoom only", func(v *Viewport) { v.ApplyZoom(2.5, geometry.Point2D{X: 60, Y: 80}) }},
		{"rotated", func(v *Viewport) { v.SetRotation(math.Pi / 6) }},
		{"combined", func(v *Viewport) {
			v.ApplyPan(30, 40)
			v.SetRotation(-math.Pi / 4)
			v.ApplyZoom(0.5, geometry.Point2D{X: 10, Y: 10})
		}},
	}

	points := []geometry.Point2D{
		{X: 0, Y: 0}, {X: 100, Y: 50}, {X: -33.5, Y: 712.25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := New(DefaultConfig())
			tt.setup(v)
			for _, p := range points {
				back := v.ToScreen(v.ToCanvas(p))
				if !near(back, p) {
					t.Errorf("round trip of %v = %v", p, back)
				}
			}
		})
	}
}

// TestZoomKeepsFocalPointStationary verifies the canvas point under
// the cursor stays put across zoom steps.
func TestZoomKeepsFocalPointStationary(t *testing.T) {
	v := New(DefaultConfig())
	v.ApplyPan(75, -20)
	v.SetRotation(0.3)

	focal := geometry.Point2D{X: 240, Y: 180}
	before := v.ToCanvas(focal)

	for _, factor := range []float64{1.25, 1.25, 0.5, 3.0} {
		v.ApplyZoom(factor, focal)
		after := v.ToCanvas(focal)
		if !near(before, after) {
			t.Fatalf("after factor %v focal maps to %v, want %v", factor, after, before)
		}
	}
}

// TestZoomClamping verifies zoom never leaves the configured range and
// the focal anchor holds even when the zoom saturates.
func TestZoomClamping(t *testing.T) {
	v := New(DefaultConfig())
	focal := geometry.Point2D{X: 50, Y: 50}
	before := v.ToCanvas(focal)

	for i := 0; i < 20; i++ {
		v.ApplyZoom(2.0, focal)
	}
	if v.Zoom() != 10.0 {
		t.Errorf("zoom = %v, want clamped to 10", v.Zoom())
	}
	if !near(v.ToCanvas(focal), before) {
		t.Error("focal anchor drifted while clamped")
	}

	for i := 0; i < 40; i++ {
		v.ApplyZoom(0.5, focal)
	}
	if v.Zoom() != 0.1 {
		t.Errorf("zoom = %v, want clamped to 0.1", v.Zoom())
	}

	v.ApplyZoom(0, focal)
	v.ApplyZoom(-2, focal)
	if v.Zoom() != 0.1 {
		t.Error("non-positive factor changed the zoom")
	}
}

// TestMomentumDecay verifies fling coasting decays under friction,
// comes to rest, and stays at rest.
func TestMomentumDecay(t *testing.T) {
	v := New(DefaultConfig())
	v.Fling(40, -20)
	if !v.HasMomentum() {
		t.Fatal("fling did not start momentum")
	}

	start := v.Pan()
	steps := 0
	for v.IntegrateMomentum() {
		steps++
		if steps > 1000 {
			t.Fatal("momentum never settled")
		}
	}
	if v.HasMomentum() {
		t.Error("still reporting momentum after settling")
	}

	end := v.Pan()
	if end.X <= start.X || end.Y >= start.Y {
		t.Errorf("pan moved %v -> %v, want +x -y drift", start, end)
	}
	// Geometric series bound: total travel < v0 / (1 - friction).
	if end.X-start.X >= 40/(1-0.9)+1 {
		t.Errorf("x travel %v exceeds the friction bound", end.X-start.X)
	}

	if v.IntegrateMomentum() {
		t.Error("integrate after rest reported motion")
	}
	if v.Pan() != end {
		t.Error("integrate after rest moved the view")
	}
}

// TestMomentumBelowThreshold verifies a weak fling never starts
// coasting.
func TestMomentumBelowThreshold(t *testing.T) {
	v := New(DefaultConfig())
	v.Fling(0.2, 0.3)
	if v.HasMomentum() {
		t.Error("sub-threshold fling started momentum")
	}
	if v.IntegrateMomentum() {
		t.Error("sub-threshold fling reported motion")
	}
}

// TestGestureStopsMomentum verifies pan and zoom input cancels an
// active fling.
func TestGestureStopsMomentum(t *testing.T) {
	v := New(DefaultConfig())

	v.Fling(40, 0)
	v.ApplyZoom(1.5, geometry.Point2D{X: 10, Y: 10})
	if v.HasMomentum() {
		t.Error("zoom did not stop momentum")
	}

	v.Fling(40, 0)
	v.StopMomentum()
	if v.IntegrateMomentum() {
		t.Error("stopped fling still integrates")
	}
}

// TestConcurrentMomentumAndMapping verifies the transform stays
// consistent while a ticker goroutine integrates momentum and other
// goroutines read and mutate the view, as the editor canvas does.
// Run with the race detector to cover the synchronization.
func TestConcurrentMomentumAndMapping(t *testing.T) {
	v := New(DefaultConfig())
	v.Fling(200, -100)

	const iterations = 500
	var wg sync.WaitGroup
	wg.Add(3)

	go func() {
		defer wg.Done()
		for i := 0; i < iterations; i++ {
			v.IntegrateMomentum()
			v.Fling(200, -100)
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < iterations; i++ {
			p := v.ToScreen(v.ToCanvas(geometry.Point2D{X: 50, Y: 50}))
			if math.IsNaN(p.X) || math.IsNaN(p.Y) {
				t.Error("mapping produced NaN under concurrency")
				return
			}
			v.Basis()
			v.Pan()
			v.Zoom()
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < iterations; i++ {
			v.ApplyPan(1, 1)
			v.ApplyZoom(1.01, geometry.Point2D{X: 10, Y: 10})
			v.ApplyZoom(1/1.01, geometry.Point2D{X: 10, Y: 10})
		}
	}()

	wg.Wait()

	back := v.ToScreen(v.ToCanvas(geometry.Point2D{X: 7, Y: 9}))
	if !near(back, geometry.Point2D{X: 7, Y: 9}) {
		t.Errorf("transform inconsistent after concurrent use: %v", back)
	}
}

// TestBadConfigFallsBack verifies invalid tuning falls back to the
// defaults.
func TestBadConfigFallsBack(t *testing.T) {
	v := New(Config{MinZoom: -1, MaxZoom: 0})
	focal := geometry.Point2D{}
	for i := 0; i < 20; i++ {
		v.ApplyZoom(2.0, focal)
	}
	if v.Zoom() != 10.0 {
		t.Errorf("zoom = %v, want default max 10", v.Zoom())
	}
}
