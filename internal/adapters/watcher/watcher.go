// Package watcher implements descriptor file watching for re-validation on change.
package watcher

import (
	"context"
	"iter"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.trai.ch/fnspec/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Watcher = (*Watcher)(nil)

const eventChannelBuffer = 16

// Watcher watches a single descriptor file using fsnotify.
// The parent directory is watched so that editors replacing the file via rename are still seen.
// The fsnotify handle is opened by Start, so constructing a Watcher holds no OS resources.
type Watcher struct {
	logger ports.Logger
	events chan ports.WatchEvent

	mu        sync.Mutex
	fsWatcher *fsnotify.Watcher
	target    string
	stopped   bool
}

// NewWatcher creates a new file watcher. Watcher errors are reported through logger.
func NewWatcher(logger ports.Logger) *Watcher {
	return &Watcher{
		logger: logger,
		events: make(chan ports.WatchEvent, eventChannelBuffer),
	}
}

// Start begins watching the file at path. A Watcher can be started once.
func (w *Watcher) Start(ctx context.Context, path string) error {
	target, err := filepath.Abs(path)
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to resolve path"), "path", path)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	switch {
	case w.stopped:
		return zerr.With(zerr.New("watcher is stopped"), "path", target)
	case w.fsWatcher != nil:
		return zerr.With(zerr.New("watcher is already started"), "path", w.target)
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return zerr.Wrap(err, "failed to create file watcher")
	}
	if err := fsWatcher.Add(filepath.Dir(target)); err != nil {
		_ = fsWatcher.Close()
		return zerr.With(zerr.Wrap(err, "failed to watch directory"), "path", filepath.Dir(target))
	}

	w.fsWatcher = fsWatcher
	w.target = target
	go w.processEvents(ctx, fsWatcher, target)

	return nil
}

// Stop stops the watcher and releases all resources. It is safe to call before Start and more than once.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.stopped {
		return nil
	}
	w.stopped = true

	if w.fsWatcher == nil {
		close(w.events)
		return nil
	}
	return w.fsWatcher.Close()
}

// Events returns an iterator of changes to the watched file.
// The iterator ends when the watcher is stopped or its context is cancelled.
func (w *Watcher) Events() iter.Seq[ports.WatchEvent] {
	return func(yield func(ports.WatchEvent) bool) {
		for event := range w.events {
			if !yield(event) {
				return
			}
		}
	}
}

func (w *Watcher) processEvents(ctx context.Context, fsWatcher *fsnotify.Watcher, target string) {
	defer close(w.events)

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-fsWatcher.Events:
			if !ok {
				return
			}

			if filepath.Clean(event.Name) != target {
				continue
			}

			watchEvent, ok := convertEvent(event)
			if !ok {
				continue
			}

			select {
			case w.events <- watchEvent:
			case <-ctx.Done():
				return
			}

		case err, ok := <-fsWatcher.Errors:
			if !ok {
				return
			}
			w.logger.Error(zerr.Wrap(err, "file watcher error"))
		}
	}
}

// convertEvent maps an fsnotify event to a ports.WatchEvent. Chmod-only events are dropped.
func convertEvent(event fsnotify.Event) (ports.WatchEvent, bool) {
	var op ports.WatchOp
	switch {
	case event.Has(fsnotify.Write):
		op = ports.OpWrite
	case event.Has(fsnotify.Create):
		op = ports.OpCreate
	case event.Has(fsnotify.Remove):
		op = ports.OpRemove
	case event.Has(fsnotify.Rename):
		op = ports.OpRename
	default:
		return ports.WatchEvent{}, false
	}
	return ports.WatchEvent{Path: event.Name, Operation: op}, true
}
