// Package config handles configuration file loading and parsing.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Default configuration values.
const (
	DefaultThemeName     = "default"
	DefaultDarkTheme     = "dark"
	DefaultLightTheme    = "light"
	DefaultAnimationTime = 250 * time.Millisecond
)

// Config represents the themecast configuration.
type Config struct {
	Theme     ThemeConfig     `toml:"theme"`
	Animation AnimationConfig `toml:"animation"`
	State     StateConfig     `toml:"state"`
}

// ThemeConfig selects themes.
type ThemeConfig struct {
	Name         string `toml:"name"`          // Initial theme when no state file exists
	Default      string `toml:"default"`       // Fallback when a saved theme is missing
	ThemesDir    string `toml:"themes_dir"`    // User themes, empty = ~/.config/themecast/themes
	FollowSystem bool   `toml:"follow_system"` // Track the desktop colour scheme
	Dark         string `toml:"dark"`          // Theme used when the desktop prefers dark
	Light        string `toml:"light"`         // Theme used when the desktop prefers light
}

// AnimationConfig holds transition settings.
type AnimationConfig struct {
	Enabled  bool     `toml:"enabled"`
	Duration Duration `toml:"duration"`
}

// StateConfig holds state file settings.
type StateConfig struct {
	Path string `toml:"path"` // Empty = $XDG_DATA_HOME/themecast/state.json
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Theme: ThemeConfig{
			Default: DefaultThemeName,
			Dark:    DefaultDarkTheme,
			Light:   DefaultLightTheme,
		},
		Animation: AnimationConfig{
			Enabled:  true,
			Duration: Duration(DefaultAnimationTime),
		},
	}
}

// ConfigDir returns the themecast config directory.
// Uses XDG_CONFIG_HOME if set, otherwise ~/.config.
func ConfigDir() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "themecast")
}

// ConfigPath returns the path to the config file.
func ConfigPath() string {
	dir := ConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.toml")
}

// ThemesDir returns the user themes directory, honouring themes_dir.
func (c *Config) ThemesDir() string {
	if c.Theme.ThemesDir != "" {
		return expandPath(c.Theme.ThemesDir)
	}
	dir := ConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "themes")
}

// StatePath returns the configured state file path, or empty for the default.
func (c *Config) StatePath() string {
	return expandPath(c.State.Path)
}

// AnimationDuration returns the transition duration. Zero when animation
// is disabled.
func (c *Config) AnimationDuration() time.Duration {
	if !c.Animation.Enabled {
		return 0
	}
	return c.Animation.Duration.Duration()
}

// SystemTheme returns the theme name configured for a dark or light
// desktop preference.
func (c *Config) SystemTheme(dark bool) string {
	if dark {
		return c.Theme.Dark
	}
	return c.Theme.Light
}

// LoadConfig loads configuration from the specified path.
// If path is empty, uses the default config path.
// Returns default config if file doesn't exist.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		path = ConfigPath()
	}

	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, err
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	return cfg, nil
}

// Save writes the configuration to the specified path.
// Creates parent directories if needed.
func (c *Config) Save(path string) error {
	if path == "" {
		path = ConfigPath()
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Animation.Duration < 0 {
		return fmt.Errorf("animation duration must not be negative, got %s", c.Animation.Duration.Duration())
	}
	if c.Theme.FollowSystem && (c.Theme.Dark == "" || c.Theme.Light == "") {
		return errors.New("follow_system requires both dark and light theme names")
	}
	return nil
}

// expandPath expands ~ to the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}
