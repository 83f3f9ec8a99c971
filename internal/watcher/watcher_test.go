package watcher_test

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/avolkov/slidedeck/internal/watcher"
)

// TestWatcherFiresOnWrite exercises the real fsnotify path end to end.
func TestWatcherFiresOnWrite(t *testing.T) {
	dir := t.TempDir()

	var called atomic.Int32
	w, err := watcher.New([]string{dir}, func() {
		called.Add(1)
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	go func() {
		w.Run(ctx, nil)
		close(done)
	}()

	time.Sleep(50 * time.Millisecond)
	if err := os.WriteFile(filepath.Join(dir, "slides.yaml"), []byte("title: x\n"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	deadline := time.After(2 * time.Second)
	for called.Load() == 0 {
		select {
		case <-deadline:
			t.Fatal("callback not invoked after file write")
		case <-time.After(20 * time.Millisecond):
		}
	}

	cancel()
	<-done
}

// TestWatcherCancelWithPendingDebounce verifies context cancel with a
// pending debounce timer doesn't hang or panic.
func TestWatcherCancelWithPendingDebounce(t *testing.T) {
	dir := t.TempDir()

	var called atomic.Int32
	w, err := watcher.New([]string{dir}, func() {
		called.Add(1)
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		w.Run(ctx, nil)
		close(done)
	}()

	// Give watcher time to start, then trigger a change and cancel while
	// the debounce timer is still pending.
	time.Sleep(50 * time.Millisecond)
	if err := os.WriteFile(filepath.Join(dir, "slides.yaml"), []byte("title: x\n"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel with pending debounce")
	}
}

// TestWatcherNewWithInvalidPath verifies that New fails if any path is
// invalid, and the watcher is cleaned up.
func TestWatcherNewWithInvalidPath(t *testing.T) {
	validDir := t.TempDir()
	_, err := watcher.New([]string{validDir, "/nonexistent/path"}, func() {})
	if err == nil {
		t.Fatal("expected error when one path is invalid")
	}
}

// TestWatcherCloseStopsWatching verifies Close terminates the watcher.
func TestWatcherCloseStopsWatching(t *testing.T) {
	dir := t.TempDir()

	w, err := watcher.New([]string{dir}, func() {})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	done := make(chan struct{})
	go func() {
		w.Run(context.Background(), nil)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after Close")
	}
}
