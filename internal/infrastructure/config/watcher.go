package config

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ReloadEvent signals that the watched configuration file changed on disk.
type ReloadEvent struct {
	Path      string
	Timestamp time.Time
}

// WatcherConfig holds configuration for the config file watcher.
type WatcherConfig struct {
	DebounceDuration time.Duration
	BufferSize       int
}

// DefaultWatcherConfig returns sensible default configuration.
func DefaultWatcherConfig() WatcherConfig {
	return WatcherConfig{
		DebounceDuration: 200 * time.Millisecond,
		BufferSize:       16,
	}
}

// Watcher monitors a configuration file for changes.
// It wraps fsnotify with debouncing so editors that write in multiple
// steps (truncate, write, rename) produce a single reload event.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	config    WatcherConfig
	path      string
	events    chan ReloadEvent
	errors    chan error

	// Debouncing state
	pendingAt time.Time
	pendingMu sync.Mutex

	// Lifecycle
	done   chan struct{}
	wg     sync.WaitGroup
	closed bool
	mu     sync.Mutex
}

// NewWatcher creates a watcher for the given configuration file path.
// The parent directory must exist; the file itself may not yet.
func NewWatcher(path string, cfg WatcherConfig) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if cfg.BufferSize <= 0 {
		cfg.BufferSize = 16
	}
	if cfg.DebounceDuration <= 0 {
		cfg.DebounceDuration = 200 * time.Millisecond
	}

	// Watch the directory rather than the file so rename-based saves
	// keep delivering events.
	if err := fsWatcher.Add(filepath.Dir(path)); err != nil {
		fsWatcher.Close()
		return nil, err
	}

	w := &Watcher{
		fsWatcher: fsWatcher,
		config:    cfg,
		path:      path,
		events:    make(chan ReloadEvent, cfg.BufferSize),
		errors:    make(chan error, cfg.BufferSize),
		done:      make(chan struct{}),
	}

	w.wg.Add(2)
	go w.processEvents()
	go w.debounceProcessor()

	return w, nil
}

// Events returns the channel for receiving reload events.
func (w *Watcher) Events() <-chan ReloadEvent {
	return w.events
}

// Errors returns the channel for receiving watcher errors.
func (w *Watcher) Errors() <-chan error {
	return w.errors
}

// Close stops the watcher and releases resources.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	w.mu.Unlock()

	close(w.done)
	err := w.fsWatcher.Close()
	w.wg.Wait()

	close(w.events)
	close(w.errors)

	return err
}

// processEvents reads from fsnotify and queues events for debouncing.
func (w *Watcher) processEvents() {
	defer w.wg.Done()

	for {
		select {
		case <-w.done:
			return

		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}

			if !w.matchesConfigFile(event.Name) {
				continue
			}

			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
				continue
			}

			w.pendingMu.Lock()
			w.pendingAt = time.Now()
			w.pendingMu.Unlock()

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			select {
			case w.errors <- err:
			default:
				// Drop error if channel is full
			}
		}
	}
}

// debounceProcessor periodically checks for a stable pending change and emits it.
func (w *Watcher) debounceProcessor() {
	defer w.wg.Done()

	ticker := time.NewTicker(w.config.DebounceDuration / 2)
	defer ticker.Stop()

	for {
		select {
		case <-w.done:
			return

		case <-ticker.C:
			w.emitStableEvent()
		}
	}
}

// emitStableEvent emits a reload event once the last change has settled.
func (w *Watcher) emitStableEvent() {
	w.pendingMu.Lock()
	defer w.pendingMu.Unlock()

	if w.pendingAt.IsZero() {
		return
	}
	if time.Since(w.pendingAt) < w.config.DebounceDuration {
		return
	}

	event := ReloadEvent{
		Path:      w.path,
		Timestamp: w.pendingAt,
	}
	w.pendingAt = time.Time{}

	select {
	case w.events <- event:
	default:
		// Drop event if channel is full
	}
}

// matchesConfigFile reports whether an fsnotify event path refers to the
// watched configuration file. Rename-based saves deliver the final path,
// so a name comparison is sufficient.
func (w *Watcher) matchesConfigFile(name string) bool {
	abs, err := filepath.Abs(name)
	if err != nil {
		return false
	}
	want, err := filepath.Abs(w.path)
	if err != nil {
		return false
	}
	return abs == want
}
