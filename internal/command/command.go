// Package command implements the reversible mutation engine: every
// edit is a Command that knows how to apply and revert itself, and the
// Manager owns the undo/redo stacks, stroke merging, and the history
// memory budget.
package command

import (
	"errors"
	"image"
	"time"
)

// Command is one reversible mutation. A command is constructed
// immediately before its first Apply; Revert must restore the exact
// prior pixel and layer state.
type Command interface {
	// Name is a short human-readable description ("Brush Stroke").
	Name() string

	// Apply performs (or re-performs, on redo) the mutation.
	Apply() error

	// Revert undoes the mutation. Called only after a successful Apply.
	Revert() error

	// MemoryBytes estimates the bytes held alive by this command's
	// snapshots, for the history budget.
	MemoryBytes() int64

	// Bounds is the affected canvas region, used for merge proximity.
	Bounds() image.Rectangle

	// CanMerge reports whether this command can fold the previous
	// command of the history into itself. Kind compatibility only; the
	// Manager checks the time and distance thresholds.
	CanMerge(prev Command) bool

	// Merge returns a single command equivalent to prev followed by
	// this one. Only called when CanMerge(prev) is true.
	Merge(prev Command) Command
}

// Releaser is implemented by commands that retain resources (detached
// layer surfaces) beyond their snapshots. Release is called when the
// command's history entry is destroyed by eviction or redo-clearing;
// the command frees whatever the live document no longer references.
type Releaser interface {
	Release()
}

// Config is the history policy. The defaults mirror the merge and
// budget thresholds the editor has always shipped with.
type Config struct {
	MaxEntries    int           // undo depth cap
	MaxBytes      int64         // snapshot memory ceiling
	MergeWindow   time.Duration // max time between mergeable commands
	MergeDistance float64       // max px between bounding-box centers
}

// DefaultConfig returns the standard history policy: 50 entries,
// 50 MiB, 500ms merge window, 50px merge distance.
func DefaultConfig() Config {
	return Config{
		MaxEntries:    50,
		MaxBytes:      50 * 1024 * 1024,
		MergeWindow:   500 * time.Millisecond,
		MergeDistance: 50,
	}
}

var (
	// ErrNothingToUndo is returned by Undo on an empty undo stack.
	ErrNothingToUndo = errors.New("nothing to undo")

	// ErrNothingToRedo is returned by Redo on an empty redo stack.
	ErrNothingToRedo = errors.New("nothing to redo")

	// ErrNoBatch is returned when ending or cancelling a batch that
	// was never started.
	ErrNoBatch = errors.New("no batch in progress")
)

// centerDistanceSq returns the squared distance between two rectangle
// centers.
func centerDistanceSq(a, b image.Rectangle) float64 {
	ax := float64(a.Min.X+a.Max.X) / 2
	ay := float64(a.Min.Y+a.Max.Y) / 2
	bx := float64(b.Min.X+b.Max.X) / 2
	by := float64(b.Min.Y+b.Max.Y) / 2
	dx, dy := ax-bx, ay-by
	return dx*dx + dy*dy
}
