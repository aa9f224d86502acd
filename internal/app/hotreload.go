package app

import (
	"os"
	"path/filepath"
	"syscall"
	"time"
)

// BinaryWatcher polls the running executable's modification time and
// reports when a newer build appears on disk. Useful during
// development to prompt for a restart after recompilation.
type BinaryWatcher struct {
	path     string
	baseline time.Time
	interval time.Duration
	updated  chan struct{}
	stop     chan struct{}
}

// WatchBinary starts watching the current executable. It returns the
// watcher and a channel that receives a value each time a newer binary
// is detected, or nil if the executable path cannot be determined.
// After a detection the watcher idles until Rearm is called.
func WatchBinary(interval time.Duration) (*BinaryWatcher, <-chan struct{}) {
	path, err := os.Executable()
	if err != nil {
		return nil, nil
	}
	// go build may replace the file the symlink points at.
	if real, err := filepath.EvalSymlinks(path); err == nil {
		path = real
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, nil
	}

	w := &BinaryWatcher{
		path:     path,
		baseline: info.ModTime(),
		interval: interval,
		updated:  make(chan struct{}, 1),
		stop:     make(chan struct{}),
	}
	go w.poll()
	return w, w.updated
}

// Path returns the watched executable path.
func (w *BinaryWatcher) Path() string {
	return w.path
}

// Stop ends the watch.
func (w *BinaryWatcher) Stop() {
	close(w.stop)
}

// Rearm resets the baseline to the binary currently on disk and
// resumes watching. Call it when the user declines a restart.
func (w *BinaryWatcher) Rearm() {
	if info, err := os.Stat(w.path); err == nil {
		w.baseline = info.ModTime()
	}
	go w.poll()
}

func (w *BinaryWatcher) poll() {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stop:
			return
		case <-ticker.C:
			info, err := os.Stat(w.path)
			if err != nil {
				continue
			}
			if info.ModTime().After(w.baseline) {
				w.baseline = info.ModTime()
				select {
				case w.updated <- struct{}{}:
				default:
				}
				return
			}
		}
	}
}

// Restart replaces the current process with a new instance of the
// watched binary, preserving arguments and environment. It does not
// return on success.
func (w *BinaryWatcher) Restart() error {
	return syscall.Exec(w.path, os.Args, os.Environ())
}
