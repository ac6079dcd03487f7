package theme

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// Catalog resolves theme names to themes.
// Resolution order:
//  1. User themes directory (~/.config/themecast/themes/)
//  2. Bundled themes
//
// This allows users to override bundled themes by placing a file with the
// same name in their themes directory.
type Catalog struct {
	logger      *slog.Logger
	dir         string
	defaultName string
}

// NewCatalog creates a catalog over dir. An empty dir disables user themes.
// defaultName is the theme returned by Default; empty means DefaultThemeName.
func NewCatalog(dir, defaultName string, logger *slog.Logger) *Catalog {
	if logger == nil {
		logger = slog.Default()
	}
	if defaultName == "" {
		defaultName = DefaultThemeName
	}
	return &Catalog{
		logger:      logger,
		dir:         dir,
		defaultName: defaultName,
	}
}

// ThemesDir returns the path to the user's themes directory.
func ThemesDir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "themecast", "themes"), nil
}

// Dir returns the user themes directory.
func (c *Catalog) Dir() string {
	return c.dir
}

// DefaultName returns the configured default theme name.
func (c *Catalog) DefaultName() string {
	return c.defaultName
}

// Load loads a theme by name.
func (c *Catalog) Load(name string) (Theme, error) {
	name = strings.TrimSpace(name)
	if name == "" || strings.ContainsAny(name, `/\`) {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
	}

	if c.dir != "" {
		for _, ext := range Extensions {
			path := filepath.Join(c.dir, name+ext)
			if _, err := os.Stat(path); err != nil {
				continue
			}
			t, err := LoadFile(name, path)
			if err != nil {
				c.logger.Warn("failed to load user theme, trying bundled", "theme", name, "path", path, "error", err)
				break
			}
			c.logger.Debug("loaded user theme", "name", name, "path", path)
			return t, nil
		}
	}

	t, err := LoadBundled(name)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
		}
		return nil, err
	}
	c.logger.Debug("loaded bundled theme", "name", name)
	return t, nil
}

// Resolve returns the theme for name, or false if it cannot be loaded.
func (c *Catalog) Resolve(name string) (Theme, bool) {
	t, err := c.Load(name)
	if err != nil {
		c.logger.Debug("theme resolution failed", "theme", name, "error", err)
		return nil, false
	}
	return t, true
}

// Default returns the configured default theme, falling back to the bundled
// default and finally to Empty.
func (c *Catalog) Default() Theme {
	if t, ok := c.Resolve(c.defaultName); ok {
		return t
	}
	if c.defaultName != DefaultThemeName {
		c.logger.Warn("default theme not found, using bundled default", "theme", c.defaultName)
		if t, err := LoadBundled(DefaultThemeName); err == nil {
			return t
		}
	}
	return Empty
}

// LoadFile loads a theme file, choosing the decoder by extension.
func LoadFile(name, path string) (Theme, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".css" {
		return NewStylesheet(name, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	p, err := ParsePalette(name, data, strings.TrimPrefix(ext, "."))
	if err != nil {
		return nil, err
	}
	p.Path = path
	p.ModTime = info.ModTime()
	return p, nil
}

// Info provides basic theme information for listing.
type Info struct {
	Name      string    `json:"name" yaml:"name"`
	Path      string    `json:"path,omitempty" yaml:"path,omitempty"`
	ModTime   time.Time `json:"mod_time,omitempty" yaml:"mod_time,omitempty"`
	Size      int64     `json:"size,omitempty" yaml:"size,omitempty"`
	IsDefault bool      `json:"is_default" yaml:"is_default"`
	IsBundled bool      `json:"is_bundled" yaml:"is_bundled"`
}

// List lists all available themes (bundled + user), sorted by name.
// A user theme shadowing a bundled one is listed once, as a user theme.
func (c *Catalog) List() ([]Info, error) {
	byName := make(map[string]Info)
	for _, name := range ListBundled() {
		byName[name] = Info{
			Name:      name,
			IsDefault: name == c.defaultName,
			IsBundled: true,
		}
	}

	var readErr error
	if c.dir != "" {
		entries, err := os.ReadDir(c.dir)
		switch {
		case err == nil:
			for _, entry := range entries {
				if entry.IsDir() || strings.HasPrefix(entry.Name(), "_") {
					continue
				}
				name, ok := themeNameFromFile(entry.Name())
				if !ok {
					continue
				}
				if existing, seen := byName[name]; seen && !existing.IsBundled {
					continue
				}
				info := Info{
					Name:      name,
					Path:      filepath.Join(c.dir, entry.Name()),
					IsDefault: name == c.defaultName,
				}
				if fi, err := entry.Info(); err == nil {
					info.ModTime = fi.ModTime()
					info.Size = fi.Size()
				}
				byName[name] = info
			}
		case !os.IsNotExist(err):
			readErr = err
		}
	}

	themes := make([]Info, 0, len(byName))
	for _, info := range byName {
		themes = append(themes, info)
	}
	sort.Slice(themes, func(i, j int) bool {
		return themes[i].Name < themes[j].Name
	})
	return themes, readErr
}

// Names returns the names of all available themes, sorted.
func (c *Catalog) Names() []string {
	themes, err := c.List()
	if err != nil {
		c.logger.Debug("failed to read themes directory", "error", err)
	}
	names := make([]string, len(themes))
	for i, info := range themes {
		names[i] = info.Name
	}
	return names
}

// Next returns the name step places after current in Names, wrapping
// around. An unknown current starts from the first theme.
func (c *Catalog) Next(current string, step int) string {
	names := c.Names()
	if len(names) == 0 {
		return current
	}
	idx := sort.SearchStrings(names, current)
	if idx >= len(names) || names[idx] != current {
		return names[0]
	}
	n := len(names)
	return names[((idx+step)%n+n)%n]
}

// CreateThemesDir creates the themes directory if it doesn't exist.
func (c *Catalog) CreateThemesDir() error {
	if c.dir == "" {
		return errors.New("no themes directory configured")
	}
	return os.MkdirAll(c.dir, 0755)
}
