// Package watcher reloads datasets when their files change on disk.
package watcher

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher reports changes to a set of files, coalescing bursts of writes
// into a single callback per file.
type Watcher struct {
	watcher  *fsnotify.Watcher
	log      *slog.Logger
	debounce time.Duration
	onChange func(path string)

	mu     sync.Mutex
	files  map[string]bool
	timers map[string]*time.Timer
}

// New creates a watcher that calls onChange once a file has been quiet for debounce
func New(debounce time.Duration, logger *slog.Logger, onChange func(path string)) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{
		watcher:  w,
		log:      logger,
		debounce: debounce,
		onChange: onChange,
		files:    make(map[string]bool),
		timers:   make(map[string]*time.Timer),
	}, nil
}

// Add starts watching a file.
//
// The parent directory is watched rather than the file so editors that
// replace the file on save keep triggering events.
func (w *Watcher) Add(file string) error {
	absPath, err := filepath.Abs(file)
	if err != nil {
		return fmt.Errorf("failed to resolve path %s: %w", file, err)
	}
	if err := w.watcher.Add(filepath.Dir(absPath)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", absPath, err)
	}

	w.mu.Lock()
	w.files[absPath] = true
	w.mu.Unlock()
	return nil
}

// Run dispatches events until the context is done, then closes the watcher
func (w *Watcher) Run(ctx context.Context) error {
	defer w.close()
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				w.schedule(event.Name)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("watcher error", "error", err)
		}
	}
}

func (w *Watcher) schedule(name string) {
	path, err := filepath.Abs(name)
	if err != nil {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.files[path] {
		return
	}
	if timer, ok := w.timers[path]; ok {
		timer.Stop()
	}
	w.timers[path] = time.AfterFunc(w.debounce, func() {
		w.log.Debug("file changed", "path", path)
		w.onChange(path)
	})
}

func (w *Watcher) close() {
	w.mu.Lock()
	for _, timer := range w.timers {
		timer.Stop()
	}
	w.timers = make(map[string]*time.Timer)
	w.mu.Unlock()

	if err := w.watcher.Close(); err != nil {
		w.log.Warn("failed to close watcher", "error", err)
	}
}
