package store

import (
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcher_ReportsExternalChanges(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "state.json")
	mine := NewStateFile(path, "preview", nil)
	other := NewStateFile(path, "cli", nil)

	w, err := NewWatcher(mine, nil)
	require.NoError(t, err)

	var mu sync.Mutex
	var seen []State
	w.SetChangeCallback(func(s *State) {
		mu.Lock()
		seen = append(seen, *s)
		mu.Unlock()
	})

	require.NoError(t, w.Start())
	defer w.Stop()

	mine.Save("dark")
	other.Save("light")

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		for _, s := range seen {
			if s.ThemeName == "light" {
				return true
			}
		}
		return false
	}, 2*time.Second, 10*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	for _, s := range seen {
		assert.Equal(t, "cli", s.ChangedBy, "own writes are not reported")
	}
}

func TestWatcher_StopWithoutStart(t *testing.T) {
	w, err := NewWatcher(NewStateFile(filepath.Join(t.TempDir(), "state.json"), "x", nil), nil)
	require.NoError(t, err)
	assert.NoError(t, w.Stop())
}
