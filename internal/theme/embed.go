package theme

import (
	"embed"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

// EmbeddedThemes contains all bundled theme files.
//
//go:embed themes/*.toml themes/*.yaml themes/*.css
var EmbeddedThemes embed.FS

// DefaultThemeName is the name of the built-in default theme.
const DefaultThemeName = "default"

// Extensions lists the recognised theme file extensions in lookup order.
var Extensions = []string{".toml", ".yaml", ".yml", ".css"}

// embeddedFile retrieves a bundled file by its file name.
func embeddedFile(fileName string) (string, bool) {
	data, err := EmbeddedThemes.ReadFile("themes/" + fileName)
	if err != nil {
		return "", false
	}
	return string(data), true
}

// embeddedPartial retrieves a bundled CSS partial (files starting with _).
func embeddedPartial(name string) (string, bool) {
	if !strings.HasPrefix(name, "_") {
		name = "_" + name
	}
	if !strings.HasSuffix(name, ".css") {
		name = name + ".css"
	}
	return embeddedFile(name)
}

// LoadBundled decodes the bundled theme with the given name.
func LoadBundled(name string) (Theme, error) {
	if name == "" || strings.HasPrefix(name, "_") {
		return nil, ErrNotFound
	}
	for _, ext := range Extensions {
		data, found := embeddedFile(name + ext)
		if !found {
			continue
		}
		if ext == ".css" {
			return newBundledStylesheet(name, data), nil
		}
		p, err := ParsePalette(name, []byte(data), strings.TrimPrefix(ext, "."))
		if err != nil {
			return nil, err
		}
		p.Bundled = true
		return p, nil
	}
	return nil, ErrNotFound
}

// ListBundled returns the names of all bundled themes, sorted.
// Partial files (starting with _) are excluded.
func ListBundled() []string {
	entries, err := fs.ReadDir(EmbeddedThemes, "themes")
	if err != nil {
		return nil
	}

	seen := make(map[string]bool)
	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		fileName := entry.Name()
		if strings.HasPrefix(fileName, "_") {
			continue
		}
		name, ok := themeNameFromFile(fileName)
		if ok && !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// IsBundled checks if a theme name is bundled.
func IsBundled(name string) bool {
	_, err := LoadBundled(name)
	return err == nil
}

// themeNameFromFile strips a recognised theme extension from fileName.
func themeNameFromFile(fileName string) (string, bool) {
	ext := filepath.Ext(fileName)
	for _, known := range Extensions {
		if ext == known {
			return strings.TrimSuffix(fileName, ext), true
		}
	}
	return "", false
}
