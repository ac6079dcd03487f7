package theme

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

// importRegex matches @import "file.css"; or @import 'file.css'; or @import url("file.css");
var importRegex = regexp.MustCompile(`@import\s+(?:url\s*\(\s*)?["']([^"']+)["']\s*\)?;?`)

// Stylesheet is a CSS theme for hosts that style with CSS.
type Stylesheet struct {
	name    string
	Path    string    // Full path to the CSS file (empty if bundled)
	CSS     string    // The CSS content with imports inlined
	ModTime time.Time // Last modification time
	Bundled bool      // True if loaded from the embedded bundle
}

// Name returns the stylesheet name.
func (s *Stylesheet) Name() string { return s.name }

// NewStylesheet creates a Stylesheet by loading a CSS file.
// CSS @import statements are resolved and inlined.
func NewStylesheet(name, path string) (*Stylesheet, error) {
	css, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	return &Stylesheet{
		name:    name,
		Path:    path,
		CSS:     ProcessImports(string(css), filepath.Dir(path), nil),
		ModTime: info.ModTime(),
	}, nil
}

// newBundledStylesheet creates a Stylesheet from embedded CSS.
func newBundledStylesheet(name, css string) *Stylesheet {
	return &Stylesheet{
		name:    name,
		CSS:     ProcessImports(css, "", nil),
		Bundled: true,
	}
}

// ProcessImports resolves and inlines @import statements in CSS.
// Imports are resolved relative to baseDir.
// The seen map prevents circular imports.
func ProcessImports(css string, baseDir string, seen map[string]bool) string {
	if seen == nil {
		seen = make(map[string]bool)
	}

	return importRegex.ReplaceAllStringFunc(css, func(match string) string {
		submatch := importRegex.FindStringSubmatch(match)
		if len(submatch) < 2 {
			return match
		}

		importPath := submatch[1]

		var fullPath string
		if filepath.IsAbs(importPath) {
			fullPath = importPath
		} else {
			fullPath = filepath.Join(baseDir, importPath)
		}

		if seen[fullPath] {
			return "/* circular import prevented: " + importPath + " */"
		}
		seen[fullPath] = true

		importedCSS, err := os.ReadFile(fullPath)
		if err != nil {
			// Partials and whole stylesheets may come from the bundle
			baseName := filepath.Base(importPath)
			if strings.HasPrefix(baseName, "_") {
				if embeddedCSS, found := embeddedPartial(baseName); found {
					return "/* imported (embedded): " + importPath + " */\n" + embeddedCSS
				}
			}
			if embeddedCSS, found := embeddedFile(baseName); found {
				return "/* imported (embedded): " + importPath + " */\n" + embeddedCSS
			}
			return "/* import failed: " + importPath + " - " + err.Error() + " */"
		}

		processed := ProcessImports(string(importedCSS), filepath.Dir(fullPath), seen)
		return "/* imported: " + importPath + " */\n" + processed
	})
}
