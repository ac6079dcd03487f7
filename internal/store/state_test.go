package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStateFile_LoadMissing(t *testing.T) {
	f := NewStateFile(filepath.Join(t.TempDir(), "state.json"), "test", nil)

	name, ok := f.Load()
	assert.False(t, ok)
	assert.Empty(t, name)

	state, err := f.Read()
	require.NoError(t, err)
	assert.Nil(t, state)
}

func TestStateFile_SaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "state.json")
	f := NewStateFile(path, "cli", nil)

	f.Save("Dark")

	name, ok := f.Load()
	require.True(t, ok)
	assert.Equal(t, "Dark", name)

	// A fresh instance sees the same name
	restarted := NewStateFile(path, "cli", nil)
	name, ok = restarted.Load()
	require.True(t, ok)
	assert.Equal(t, "Dark", name)

	_, err := os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err), "temp file is renamed away")
}

func TestStateFile_WriteFillsMetadata(t *testing.T) {
	f := NewStateFile(filepath.Join(t.TempDir(), "state.json"), "preview", nil)

	state := &State{ThemeName: "light"}
	require.NoError(t, f.Write(state))

	got, err := f.Read()
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "light", got.ThemeName)
	assert.Equal(t, "preview", got.ChangedBy)
	assert.Equal(t, CurrentSchemaVersion, got.SchemaVersion)
	assert.NotZero(t, got.ChangedAt)
	assert.False(t, got.ChangedTime().IsZero())

	_, err = ulid.Parse(got.ChangeID)
	assert.NoError(t, err, "change id is a ULID")
}

func TestStateFile_FilePermissions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	f := NewStateFile(path, "cli", nil)
	f.Save("dark")

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestStateFile_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0600))
	f := NewStateFile(path, "cli", nil)

	_, err := f.Read()
	assert.ErrorIs(t, err, ErrCorruptState)

	name, ok := f.Load()
	assert.False(t, ok, "corrupt state is treated as no prior session")
	assert.Empty(t, name)

	f.Save("dark")
	name, ok = f.Load()
	assert.True(t, ok)
	assert.Equal(t, "dark", name)
}

func TestStateFile_LegacyWithoutSchemaVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"theme_name":"old"}`), 0600))

	state, err := NewStateFile(path, "cli", nil).Read()
	require.NoError(t, err)
	assert.Equal(t, CurrentSchemaVersion, state.SchemaVersion)
	assert.Equal(t, "old", state.ThemeName)
}

func TestStateFile_SaveFailureAbsorbed(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0600))

	// Parent "directory" is a regular file, so every write fails
	f := NewStateFile(filepath.Join(blocker, "state.json"), "cli", nil)
	assert.NotPanics(t, func() { f.Save("dark") })

	_, ok := f.Load()
	assert.False(t, ok)
}

func TestStateFile_IsOwnChange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	mine := NewStateFile(path, "preview", nil)
	other := NewStateFile(path, "cli", nil)

	mine.Save("dark")
	state, err := mine.Read()
	require.NoError(t, err)
	assert.True(t, mine.IsOwnChange(state))
	assert.False(t, other.IsOwnChange(state))

	other.Save("light")
	state, err = mine.Read()
	require.NoError(t, err)
	assert.False(t, mine.IsOwnChange(state))
	assert.False(t, mine.IsOwnChange(nil))
}

func TestDataDir_UsesXDG(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/tmp/xdg-data")

	dir, err := DataDir()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/xdg-data/themecast", dir)

	path, err := StateFilePath()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/xdg-data/themecast/state.json", path)
}

func TestMemory(t *testing.T) {
	m := NewMemory()

	_, ok := m.Load()
	assert.False(t, ok)

	m.Save("dark")
	m.Save("light")

	name, ok := m.Load()
	assert.True(t, ok)
	assert.Equal(t, "light", name)
	assert.Equal(t, 2, m.Saves())
}
