package watch

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watcher reports changes to a single file. It watches the parent
// directory, so rename-based rewrites and recreation after deletion
// keep working, and it coalesces event bursts behind a debounce
// window.
type Watcher struct {
	mu          sync.Mutex
	fsw         *fsnotify.Watcher
	path        string // absolute path of the watched file
	dir         string
	debounceMap map[string]time.Time
	debounceDur time.Duration
	changes     chan struct{}
	stopCh      chan struct{}
	doneCh      chan struct{}
	running     bool
	logger      *zap.Logger

	stats Stats
}

// Stats tracks watcher activity for debugging.
type Stats struct {
	Writes    int
	Creates   int
	Removes   int
	Renames   int
	Errors    int
	LastEvent time.Time
}

// New builds a watcher for the given file. Call Start to begin
// delivering notifications.
func New(path string, logger *zap.Logger) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		fsw:         fsw,
		path:        abs,
		dir:         filepath.Dir(abs),
		debounceMap: make(map[string]time.Time),
		debounceDur: 500 * time.Millisecond, // settle rapid saves
		changes:     make(chan struct{}, 1),
		stopCh:      make(chan struct{}),
		doneCh:      make(chan struct{}),
		logger:      logger,
	}, nil
}

// Changes carries at most one pending notification; bursts coalesce
// into it. The channel closes when the watcher stops.
func (w *Watcher) Changes() <-chan struct{} { return w.changes }

// Start begins watching. Non-blocking; the event loop runs in its own
// goroutine until Stop or context cancellation. Stop must still be
// called after cancellation to release the OS watch handle.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return nil
	}
	if err := w.fsw.Add(w.dir); err != nil {
		return err
	}
	w.logger.Debug("watching directory", zap.String("dir", w.dir), zap.String("file", w.path))

	w.running = true
	go w.run(ctx)
	return nil
}

// Stop halts the watcher, waits for the event loop to finish and
// closes the Changes channel. Stopping a watcher that never started
// still releases the OS watch handle.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		_ = w.fsw.Close()
		return
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopCh)
	<-w.doneCh
	close(w.changes)

	if err := w.fsw.Close(); err != nil {
		w.logger.Warn("close watcher", zap.Error(err))
	}
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case <-w.stopCh:
			return

		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handleEvent(event)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watch error", zap.Error(err))
			w.mu.Lock()
			w.stats.Errors++
			w.mu.Unlock()

		case <-ticker.C:
			w.flushDebounced()
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	// The directory watch sees sibling files too, including our own
	// temp files mid-rename; only the target file counts.
	if filepath.Clean(event.Name) != w.path {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	switch {
	case event.Op&fsnotify.Write != 0:
		w.stats.Writes++
	case event.Op&fsnotify.Create != 0:
		w.stats.Creates++
	case event.Op&fsnotify.Remove != 0:
		w.stats.Removes++
	case event.Op&fsnotify.Rename != 0:
		w.stats.Renames++
	default:
		return // chmod and friends
	}
	w.stats.LastEvent = time.Now()
	w.debounceMap[event.Name] = time.Now()
}

func (w *Watcher) flushDebounced() {
	w.mu.Lock()
	now := time.Now()
	fire := false
	for path, eventTime := range w.debounceMap {
		if now.Sub(eventTime) >= w.debounceDur {
			delete(w.debounceMap, path)
			fire = true
		}
	}
	w.mu.Unlock()

	if !fire {
		return
	}
	select {
	case w.changes <- struct{}{}:
	default: // one is already pending
	}
}

// GetStats returns a snapshot of the watcher counters.
func (w *Watcher) GetStats() Stats {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stats
}

// IsWatching reports whether the event loop is running.
func (w *Watcher) IsWatching() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}
