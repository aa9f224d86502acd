package canvas

import (
	"testing"
	"time"

	"rasterpad/internal/engine"
)

func newTestEditor(t *testing.T) *EditorCanvas {
	t.Helper()
	s, err := engine.NewSession(engine.DefaultConfig(32, 32))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(s.Close)
	return NewEditorCanvas(s)
}

// TestCloseStopsMomentumLoop verifies destroying the widget releases
// its momentum goroutine and that closing twice is harmless.
func TestCloseStopsMomentumLoop(t *testing.T) {
	ec := newTestEditor(t)
	ec.startMomentumLoop()

	renderer := ec.CreateRenderer()
	renderer.Destroy()

	select {
	case <-ec.done:
	case <-time.After(time.Second):
		t.Fatal("done channel not closed by Destroy")
	}

	ec.Close() // second close must not panic
}

// TestCloseCancelsWandScan verifies an in-flight wand scan is cancelled
// on close rather than left running.
func TestCloseCancelsWandScan(t *testing.T) {
	ec := newTestEditor(t)
	ec.runWand(16, 16)

	ec.Close()

	ec.wandMu.Lock()
	cancelled := ec.wandCancel == nil
	ec.wandMu.Unlock()
	if !cancelled {
		t.Error("wand cancel func still armed after Close")
	}
}
