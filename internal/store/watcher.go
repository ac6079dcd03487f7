package store

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Watcher watches the state file for changes written by other processes.
type Watcher struct {
	watcher *fsnotify.Watcher
	file    *StateFile
	logger  *slog.Logger
	done    chan struct{}

	mu       sync.Mutex
	running  bool
	onChange func(*State)
}

// NewWatcher creates a new watcher for file.
func NewWatcher(file *StateFile, logger *slog.Logger) (*Watcher, error) {
	if logger == nil {
		logger = slog.Default()
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &Watcher{
		watcher: watcher,
		file:    file,
		logger:  logger,
		done:    make(chan struct{}),
	}, nil
}

// SetChangeCallback sets the callback invoked with each external change.
// It runs on the watcher goroutine.
func (w *Watcher) SetChangeCallback(callback func(*State)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onChange = callback
}

// Start begins watching. The parent directory is created if needed.
func (w *Watcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return nil
	}

	// Watch the directory containing the file (atomic renames replace the inode)
	dir := filepath.Dir(w.file.Path())
	if err := os.MkdirAll(dir, 0700); err != nil {
		return err
	}
	if err := w.watcher.Add(dir); err != nil {
		return err
	}
	w.running = true

	go w.watch()
	w.logger.Debug("state watcher started", "path", w.file.Path())
	return nil
}

// watch is the main watch loop.
func (w *Watcher) watch() {
	filename := filepath.Base(w.file.Path())

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != filename {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			w.handleChange()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("state watcher error", "error", err)

		case <-w.done:
			return
		}
	}
}

func (w *Watcher) handleChange() {
	state, err := w.file.Read()
	if err != nil {
		if !errors.Is(err, ErrCorruptState) {
			w.logger.Warn("failed to read state file", "error", err)
		}
		// Partially written or corrupt; the next event will retry
		return
	}
	if state == nil || w.file.IsOwnChange(state) {
		return
	}

	w.mu.Lock()
	callback := w.onChange
	w.mu.Unlock()

	w.logger.Debug("state changed externally", "theme", state.ThemeName, "by", state.ChangedBy)
	if callback != nil {
		callback(state)
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
