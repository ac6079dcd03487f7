package theme

import (
	"log/slog"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Watcher watches the user themes directory and reports which theme
// changed. The callback runs on the watcher goroutine; callers that own
// single-threaded state must hand the name off to their own loop.
type Watcher struct {
	watcher *fsnotify.Watcher
	logger  *slog.Logger
	dir     string
	done    chan struct{}

	mu       sync.Mutex
	running  bool
	onChange func(name string)
}

// NewWatcher creates a new watcher for dir.
func NewWatcher(dir string, logger *slog.Logger) (*Watcher, error) {
	if logger == nil {
		logger = slog.Default()
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &Watcher{
		watcher: watcher,
		logger:  logger,
		dir:     dir,
		done:    make(chan struct{}),
	}, nil
}

// SetChangeCallback sets the callback invoked with the changed theme name.
func (w *Watcher) SetChangeCallback(callback func(name string)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onChange = callback
}

// Start begins watching the directory.
func (w *Watcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return nil
	}

	if err := w.watcher.Add(w.dir); err != nil {
		return err
	}
	w.running = true

	go w.watch()
	w.logger.Debug("theme watcher started", "dir", w.dir)
	return nil
}

// watch is the main watch loop.
func (w *Watcher) watch() {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}

			base := filepath.Base(event.Name)
			if strings.HasPrefix(base, ".") {
				continue
			}

			// Partials are reported with their leading underscore
			name, ok := themeNameFromFile(base)
			if !ok {
				continue
			}

			w.mu.Lock()
			callback := w.onChange
			w.mu.Unlock()

			w.logger.Debug("theme file changed", "theme", name, "op", event.Op.String())
			if callback != nil {
				callback(name)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("theme watcher error", "error", err)

		case <-w.done:
			return
		}
	}
}

// Stop stops the watcher.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.running {
		return w.watcher.Close()
	}
	w.running = false
	close(w.done)
	return w.watcher.Close()
}

// IsRunning returns whether the watcher is currently running.
func (w *Watcher) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}
