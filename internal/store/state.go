// Package store persists the current theme name between sessions.
package store

import (
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// CurrentSchemaVersion is the current version of the state schema.
const CurrentSchemaVersion = 1

// NamePersistence stores the current theme name under one fixed key.
// Implementations absorb their own failures: a failed Load reports no
// prior session and a failed Save is logged.
type NamePersistence interface {
	Load() (name string, ok bool)
	Save(name string)
}

// DataDir returns the path to the themecast data directory.
// Uses XDG_DATA_HOME or defaults to ~/.local/share/themecast.
func DataDir() (string, error) {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "themecast"), nil
}

// StateFilePath returns the default path to the state file.
func StateFilePath() (string, error) {
	dataDir, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dataDir, "state.json"), nil
}

// State is the persisted shared state. It is written by every themecast
// process, so running instances can pick up changes made elsewhere.
type State struct {
	ThemeName     string `json:"theme_name"`
	ChangedAt     int64  `json:"theme_changed_at,omitempty"` // Unix timestamp
	ChangedBy     string `json:"changed_by,omitempty"`       // Source identifier, e.g. "cli", "preview"
	ChangeID      string `json:"change_id,omitempty"`        // ULID of the write
	SchemaVersion int    `json:"schema_version"`
}

// ErrCorruptState is returned when the state file cannot be decoded.
var ErrCorruptState = errors.New("corrupt state file")

// StateFile is a NamePersistence backed by a JSON file.
type StateFile struct {
	mu     sync.Mutex
	logger *slog.Logger
	path   string
	source string

	// Change ID of the last write made through this StateFile
	lastWrite string
}

// NewStateFile creates a StateFile at path. source identifies this process
// in the ChangedBy field.
func NewStateFile(path, source string, logger *slog.Logger) *StateFile {
	if logger == nil {
		logger = slog.Default()
	}
	return &StateFile{
		logger: logger,
		path:   path,
		source: source,
	}
}

// Path returns the state file path.
func (f *StateFile) Path() string {
	return f.path
}

// Read loads the state from disk. A missing file yields (nil, nil).
func (f *StateFile) Read() (*State, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.read()
}

func (f *StateFile) read() (*State, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorruptState, f.path, err)
	}
	if state.SchemaVersion == 0 {
		state.SchemaVersion = CurrentSchemaVersion
	}
	return &state, nil
}

// Write saves state to disk atomically via a temp file. ChangeID,
// ChangedAt, ChangedBy and SchemaVersion are filled in when empty.
func (f *StateFile) Write(state *State) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if state.ChangeID == "" {
		id, err := ulid.New(ulid.Timestamp(time.Now()), rand.Reader)
		if err != nil {
			return fmt.Errorf("generate change id: %w", err)
		}
		state.ChangeID = id.String()
	}
	if state.ChangedAt == 0 {
		state.ChangedAt = time.Now().Unix()
	}
	if state.ChangedBy == "" {
		state.ChangedBy = f.source
	}
	if state.SchemaVersion == 0 {
		state.SchemaVersion = CurrentSchemaVersion
	}

	if err := os.MkdirAll(filepath.Dir(f.path), 0700); err != nil {
		return err
	}

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}

	tmpPath := f.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return err
	}
	if err := os.Rename(tmpPath, f.path); err != nil {
		return err
	}

	f.lastWrite = state.ChangeID
	return nil
}

// Load returns the persisted theme name.
func (f *StateFile) Load() (string, bool) {
	state, err := f.Read()
	if err != nil {
		f.logger.Warn("failed to read state file", "path", f.path, "error", err)
		return "", false
	}
	if state == nil || state.ThemeName == "" {
		return "", false
	}
	return state.ThemeName, true
}

// Save persists name as the current theme.
func (f *StateFile) Save(name string) {
	if err := f.Write(&State{ThemeName: name}); err != nil {
		f.logger.Warn("failed to save state file", "path", f.path, "theme", name, "error", err)
	}
}

// IsOwnChange reports whether state was the last write made through f.
func (f *StateFile) IsOwnChange(state *State) bool {
	if state == nil || state.ChangeID == "" {
		return false
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return state.ChangeID == f.lastWrite
}

// ChangedTime returns ChangedAt as a time.
func (s *State) ChangedTime() time.Time {
	if s.ChangedAt == 0 {
		return time.Time{}
	}
	return time.Unix(s.ChangedAt, 0)
}

// Memory is an in-process NamePersistence.
type Memory struct {
	name  string
	saved bool
	saves int
}

// NewMemory creates an empty Memory store.
func NewMemory() *Memory {
	return &Memory{}
}

// Load returns the last saved name.
func (m *Memory) Load() (string, bool) {
	return m.name, m.saved
}

// Save records name.
func (m *Memory) Save(name string) {
	m.name = name
	m.saved = true
	m.saves++
}

// Saves returns how many times Save was called.
func (m *Memory) Saves() int {
	return m.saves
}
