// Package watcher fires a debounced callback when watched files change.
// The preview command uses it to rebuild the deck while the renderer is
// running, and the TUI uses it to reload the registry.
package watcher

import (
	"context"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounceDelay coalesces event bursts into a single callback. Editors
// and atomic saves produce several events per logical change.
const debounceDelay = 100 * time.Millisecond

// meaningfulOps are the operations that trigger the callback. Chmod is
// excluded.
const meaningfulOps = fsnotify.Create | fsnotify.Write | fsnotify.Remove | fsnotify.Rename

// Watcher invokes a callback when any watched path changes.
type Watcher struct {
	fsw      *fsnotify.Watcher
	callback func()
}

// New creates a watcher for the given paths. If any path cannot be
// watched the watcher is cleaned up and the error returned.
func New(paths []string, callback func()) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	for _, p := range paths {
		if err := fsw.Add(p); err != nil {
			fsw.Close()
			return nil, err
		}
	}
	return &Watcher{fsw: fsw, callback: callback}, nil
}

// Close stops the watcher. Run returns once the event channels close.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

// Run processes events until ctx is canceled or the watcher is closed.
// Watch errors are reported through errFn when non-nil.
func (w *Watcher) Run(ctx context.Context, errFn func(error)) {
	var timer *time.Timer
	var fire <-chan time.Time

	stopTimer := func() {
		if timer != nil {
			timer.Stop()
		}
	}
	defer stopTimer()

	for {
		select {
		case <-ctx.Done():
			return

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if ev.Op&meaningfulOps == 0 {
				continue
			}
			stopTimer()
			timer = time.NewTimer(debounceDelay)
			fire = timer.C

		case <-fire:
			fire = nil
			w.callback()

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			if errFn != nil {
				errFn(err)
			}
		}
	}
}
