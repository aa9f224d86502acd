package command

import (
	"fmt"
	"time"
)

// entry is a command on one of the history stacks together with the
// bookkeeping the Manager needs for merging and eviction.
type entry struct {
	cmd       Command
	appliedAt time.Time
	bytes     int64
}

// Manager owns the undo and redo stacks. All calls happen on the
// editing goroutine; the Manager itself is not goroutine-safe.
type Manager struct {
	cfg  Config
	undo []*entry
	redo []*entry

	batch     []Command
	batching  bool
	usedBytes int64

	// onChange, if set, fires after any history mutation.
	onChange func()
}

// NewManager creates a history manager with the given policy.
func NewManager(cfg Config) *Manager {
	if cfg.MaxEntries <= 0 {
		cfg.MaxEntries = DefaultConfig().MaxEntries
	}
	if cfg.MaxBytes <= 0 {
		cfg.MaxBytes = DefaultConfig().MaxBytes
	}
	return &Manager{cfg: cfg}
}

// OnChange registers a callback fired after every history mutation.
func (m *Manager) OnChange(fn func()) {
	m.onChange = fn
}

// Execute applies the command and records it. On apply failure nothing
// is pushed and the document state is untouched. A successful execute
// clears the redo stack. Inside a batch the command is applied and
// accumulated without touching the stacks.
func (m *Manager) Execute(cmd Command) error {
	if err := cmd.Apply(); err != nil {
		return fmt.Errorf("apply %s: %w", cmd.Name(), err)
	}

	if m.batching {
		m.batch = append(m.batch, cmd)
		return nil
	}

	m.releaseRedo()
	m.push(cmd)
	m.notify()
	return nil
}

// push records an applied command, merging with the previous history
// entry when the command kind, the time window, and the spatial
// proximity all allow it, then enforces the memory budget.
func (m *Manager) push(cmd Command) {
	now := time.Now()

	if top := m.top(); top != nil {
		maxD := m.cfg.MergeDistance
		if now.Sub(top.appliedAt) < m.cfg.MergeWindow &&
			centerDistanceSq(top.cmd.Bounds(), cmd.Bounds()) < maxD*maxD &&
			cmd.CanMerge(top.cmd) {
			merged := cmd.Merge(top.cmd)
			m.usedBytes -= top.bytes
			top.cmd = merged
			top.appliedAt = now
			top.bytes = merged.MemoryBytes()
			m.usedBytes += top.bytes
			m.evict()
			return
		}
	}

	e := &entry{cmd: cmd, appliedAt: now, bytes: cmd.MemoryBytes()}
	m.undo = append(m.undo, e)
	m.usedBytes += e.bytes
	m.evict()
}

// Undo reverts the most recent command. On revert failure the command
// is restored to the undo stack unchanged, leaving the document state
// consistent.
func (m *Manager) Undo() error {
	n := len(m.undo)
	if n == 0 {
		return ErrNothingToUndo
	}
	e := m.undo[n-1]
	m.undo = m.undo[:n-1]

	if err := e.cmd.Revert(); err != nil {
		m.undo = append(m.undo, e)
		return fmt.Errorf("revert %s: %w", e.cmd.Name(), err)
	}

	m.usedBytes -= e.bytes
	m.redo = append(m.redo, e)
	m.notify()
	return nil
}

// Redo re-applies the most recently undone command. On failure the
// command stays on the redo stack.
func (m *Manager) Redo() error {
	n := len(m.redo)
	if n == 0 {
		return ErrNothingToRedo
	}
	e := m.redo[n-1]

	if err := e.cmd.Apply(); err != nil {
		return fmt.Errorf("redo %s: %w", e.cmd.Name(), err)
	}

	m.redo = m.redo[:n-1]
	e.appliedAt = time.Now()
	e.bytes = e.cmd.MemoryBytes()
	m.undo = append(m.undo, e)
	m.usedBytes += e.bytes
	m.evict()
	m.notify()
	return nil
}

// CanUndo reports whether the undo stack is non-empty.
func (m *Manager) CanUndo() bool {
	return len(m.undo) > 0
}

// CanRedo reports whether the redo stack is non-empty.
func (m *Manager) CanRedo() bool {
	return len(m.redo) > 0
}

// UndoName returns the description of the next undoable command.
func (m *Manager) UndoName() string {
	if e := m.top(); e != nil {
		return e.cmd.Name()
	}
	return ""
}

// MemoryUsage returns the bytes currently held by undo snapshots.
// Always at or below the configured ceiling.
func (m *Manager) MemoryUsage() int64 {
	return m.usedBytes
}

// Depth returns the undo stack length.
func (m *Manager) Depth() int {
	return len(m.undo)
}

// StartBatch begins accumulating commands into one composite history
// entry. Commands executed inside the batch apply immediately but do
// not touch the stacks until EndBatch.
func (m *Manager) StartBatch() {
	m.batching = true
	m.batch = nil
}

// EndBatch wraps the accumulated commands into a single composite
// entry. An empty batch records nothing.
func (m *Manager) EndBatch(description string) error {
	if !m.batching {
		return ErrNoBatch
	}
	m.batching = false
	cmds := m.batch
	m.batch = nil

	if len(cmds) == 0 {
		return nil
	}

	m.releaseRedo()
	m.push(&compositeCommand{name: description, cmds: cmds})
	m.notify()
	return nil
}

// CancelBatch reverts every accumulated command in reverse order and
// discards them.
func (m *Manager) CancelBatch() error {
	if !m.batching {
		return ErrNoBatch
	}
	m.batching = false
	cmds := m.batch
	m.batch = nil

	var firstErr error
	for i := len(cmds) - 1; i >= 0; i-- {
		if err := cmds[i].Revert(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("cancel %s: %w", cmds[i].Name(), err)
		}
	}
	return firstErr
}

// Clear drops both stacks. Used on document close; history is never
// persisted across sessions.
func (m *Manager) Clear() {
	for _, e := range m.undo {
		release(e.cmd)
	}
	m.undo = nil
	m.releaseRedo()
	m.usedBytes = 0
	m.notify()
}

// evict removes the oldest undo entries until the history is within
// both the entry cap and the byte ceiling. Evicted commands are gone;
// their edits can no longer be undone.
func (m *Manager) evict() {
	for len(m.undo) > 0 &&
		(len(m.undo) > m.cfg.MaxEntries || m.usedBytes > m.cfg.MaxBytes) {
		m.usedBytes -= m.undo[0].bytes
		release(m.undo[0].cmd)
		m.undo = m.undo[1:]
	}
}

// releaseRedo frees the redo stack. A newly executed command makes the
// undone future unreachable.
func (m *Manager) releaseRedo() {
	for _, e := range m.redo {
		release(e.cmd)
	}
	m.redo = nil
}

func release(cmd Command) {
	if r, ok := cmd.(Releaser); ok {
		r.Release()
	}
}

func (m *Manager) top() *entry {
	if len(m.undo) == 0 {
		return nil
	}
	return m.undo[len(m.undo)-1]
}

func (m *Manager) notify() {
	if m.onChange != nil {
		m.onChange()
	}
}
