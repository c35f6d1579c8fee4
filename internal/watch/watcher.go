// Package watch notifies when watched directories change, coalescing
// bursts of filesystem events per directory.
package watch

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/benju66/fileexplorer/internal/debug"
)

// Watcher watches directories for changes and delivers the path of each
// changed directory on its notify channel after a debounce interval.
type Watcher struct {
	watcher  *fsnotify.Watcher
	mu       sync.Mutex
	watching map[string]bool
	notify   chan string
	done     chan struct{}
	debounce time.Duration
}

// New creates a watcher. debounce <= 0 selects a 200ms default.
func New(debounce time.Duration) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if debounce <= 0 {
		debounce = 200 * time.Millisecond
	}

	w := &Watcher{
		watcher:  fsw,
		watching: make(map[string]bool),
		notify:   make(chan string, 10),
		done:     make(chan struct{}),
		debounce: debounce,
	}

	go w.run()
	return w, nil
}

// run processes filesystem events with debouncing
func (w *Watcher) run() {
	lastEvent := make(map[string]time.Time)
	pending := make(map[string]bool)
	ticker := time.NewTicker(w.debounce)
	defer ticker.Stop()

	for {
		select {
		case <-w.done:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Remove) &&
				!event.Has(fsnotify.Rename) && !event.Has(fsnotify.Write) {
				continue
			}

			// fsnotify reports the changed file; map it back to the
			// watched directory containing it
			parentDir := filepath.Dir(event.Name)

			w.mu.Lock()
			if w.watching[parentDir] {
				lastEvent[parentDir] = time.Now()
				pending[parentDir] = true
				debug.Log(debug.WATCH, "Event %s on %s (parent %s)", event.Op, event.Name, parentDir)
			} else if w.watching[event.Name] {
				// The watched directory itself was modified
				lastEvent[event.Name] = time.Now()
				pending[event.Name] = true
				debug.Log(debug.WATCH, "Event %s on watched dir %s", event.Op, event.Name)
			}
			w.mu.Unlock()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			debug.Log(debug.WATCH, "Watcher error: %v", err)

		case <-ticker.C:
			now := time.Now()
			for dir, isPending := range pending {
				if isPending && now.Sub(lastEvent[dir]) >= w.debounce {
					select {
					case w.notify <- dir:
						debug.Log(debug.WATCH, "Change notification: %s", dir)
					default:
						// Channel full, skip
					}
					delete(pending, dir)
					delete(lastEvent, dir)
				}
			}
		}
	}
}

// Watch adds a directory to the watch list. Watching an already-watched
// directory is a no-op.
func (w *Watcher) Watch(path string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.watching[path] {
		return nil
	}
	if err := w.watcher.Add(path); err != nil {
		return err
	}
	w.watching[path] = true
	debug.Log(debug.WATCH, "Watching: %s", path)
	return nil
}

// Unwatch removes a directory from the watch list. Removal errors are
// ignored since the path may already be gone.
func (w *Watcher) Unwatch(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.watching[path] {
		return
	}
	if err := w.watcher.Remove(path); err != nil {
		debug.Log(debug.WATCH, "Error unwatching %s: %v", path, err)
	}
	delete(w.watching, path)
}

// UnwatchAll removes every watched directory.
func (w *Watcher) UnwatchAll() {
	w.mu.Lock()
	defer w.mu.Unlock()

	for path := range w.watching {
		w.watcher.Remove(path)
	}
	w.watching = make(map[string]bool)
}

// IsWatching reports whether path is currently watched.
func (w *Watcher) IsWatching(path string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.watching[path]
}

// Notify returns the channel delivering changed-directory notifications.
func (w *Watcher) Notify() <-chan string {
	return w.notify
}

// Close shuts down the watcher.
func (w *Watcher) Close() error {
	close(w.done)
	return w.watcher.Close()
}
