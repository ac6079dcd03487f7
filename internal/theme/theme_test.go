package theme

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testColors() Colors {
	return Colors{
		Background: "#000000",
		Foreground: "#ffffff",
		Accent:     "#ff0000",
		Muted:      "#808080",
		Border:     "#333333",
		Success:    "#00ff00",
		Warning:    "#ffff00",
		Error:      "#ff00ff",
	}
}

func TestEmpty(t *testing.T) {
	assert.Equal(t, EmptyName, Empty.Name())
	assert.True(t, IsEmpty(Empty))
	assert.True(t, IsEmpty(nil))
	assert.False(t, IsEmpty(NewPalette("dark", true, testColors())))
}

func TestSameName(t *testing.T) {
	a := NewPalette("dark", true, testColors())
	b := NewPalette("dark", false, Colors{})
	c := &Stylesheet{name: "dark"}
	d := NewPalette("light", false, testColors())

	assert.True(t, SameName(a, b), "same name, different content")
	assert.True(t, SameName(a, c), "same name, different kind")
	assert.False(t, SameName(a, d))
	assert.False(t, SameName(a, nil))
	assert.True(t, SameName(nil, nil))
}

func TestKind(t *testing.T) {
	assert.Equal(t, "palette", Kind(NewPalette("p", false, testColors())))
	assert.Equal(t, "stylesheet", Kind(&Stylesheet{name: "s"}))
	assert.Equal(t, "empty", Kind(Empty))
	assert.Equal(t, "none", Kind(nil))
}

func TestParsePalette_TOML(t *testing.T) {
	data := []byte(`
dark = true

[colors]
background = "#1e1e2e"
foreground = "#cdd6f4"
accent     = "#cba6f7"
muted      = "#7f849c"
border     = "#45475a"
success    = "#a6e3a1"
warning    = "#f9e2af"
error      = "#f38ba8"
`)
	p, err := ParsePalette("mocha", data, "toml")
	require.NoError(t, err)
	assert.Equal(t, "mocha", p.Name())
	assert.True(t, p.Dark)
	assert.Equal(t, "#cba6f7", p.Colors.Accent)
	assert.Equal(t, "#f38ba8", p.Colors.Get(RoleError))
}

func TestParsePalette_YAML(t *testing.T) {
	data := []byte(`
dark: false
colors:
  background: "#ffffff"
  foreground: "#000000"
  accent: "#0969da"
  muted: "#656d76"
  border: "#d0d7de"
  success: "#1a7f37"
  warning: "#9a6700"
  error: "#cf222e"
`)
	p, err := ParsePalette("paper", data, "yaml")
	require.NoError(t, err)
	assert.False(t, p.Dark)
	assert.Equal(t, "#0969da", p.Colors.Accent)
}

func TestParsePalette_InvalidColor(t *testing.T) {
	data := []byte(`
[colors]
background = "not-a-colour"
`)
	_, err := ParsePalette("broken", data, "toml")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidColor)
}

func TestParsePalette_UnsupportedFormat(t *testing.T) {
	_, err := ParsePalette("x", []byte("{}"), "json")
	assert.Error(t, err)
}

func TestColors_GetUnknownRole(t *testing.T) {
	assert.Empty(t, testColors().Get(Role("nope")))
}

func TestBlend(t *testing.T) {
	from := NewPalette("from", true, testColors())
	toColors := testColors()
	toColors.Background = "#ffffff"
	to := NewPalette("to", false, toColors)

	t.Run("end returns target", func(t *testing.T) {
		assert.Same(t, to, Blend(from, to, 1))
		assert.Same(t, to, Blend(from, to, 2))
	})

	t.Run("nil source returns target", func(t *testing.T) {
		assert.Same(t, to, Blend(nil, to, 0.5))
	})

	t.Run("nil target returns source", func(t *testing.T) {
		assert.Same(t, from, Blend(from, nil, 0.5))
	})

	t.Run("midpoint", func(t *testing.T) {
		mid := Blend(from, to, 0.5)
		assert.Equal(t, "to", mid.Name())
		assert.NotEqual(t, from.Colors.Background, mid.Colors.Background)
		assert.NotEqual(t, to.Colors.Background, mid.Colors.Background)
		assert.NoError(t, mid.Validate())
	})
}

func TestPalette_Styles(t *testing.T) {
	p := NewPalette("p", true, testColors())
	assert.Equal(t, "#ff0000", string(p.Color(RoleAccent)))
	assert.NotEmpty(t, p.Style(RoleAccent).Render("x"))
	assert.NotEmpty(t, p.Panel().Render("x"))
}

func TestProcessImports_NoImports(t *testing.T) {
	css := `.panel { color: red; }`
	result := ProcessImports(css, "", nil)
	assert.Equal(t, css, result)
}

func TestProcessImports_FileImport(t *testing.T) {
	tmpDir := t.TempDir()

	partialContent := `:root { --custom: #ff0000; }`
	err := os.WriteFile(filepath.Join(tmpDir, "_custom.css"), []byte(partialContent), 0644)
	require.NoError(t, err)

	mainCSS := `@import "_custom.css";
.panel { color: var(--custom); }`

	result := ProcessImports(mainCSS, tmpDir, nil)

	assert.Contains(t, result, "/* imported: _custom.css */")
	assert.Contains(t, result, "--custom: #ff0000")
	assert.Contains(t, result, ".panel")
}

func TestProcessImports_NestedImports(t *testing.T) {
	tmpDir := t.TempDir()

	err := os.WriteFile(filepath.Join(tmpDir, "_grandchild.css"), []byte(`.grandchild { color: blue; }`), 0644)
	require.NoError(t, err)

	childContent := `@import "_grandchild.css";
.child { color: green; }`
	err = os.WriteFile(filepath.Join(tmpDir, "_child.css"), []byte(childContent), 0644)
	require.NoError(t, err)

	mainCSS := `@import "_child.css";
.main { color: red; }`

	result := ProcessImports(mainCSS, tmpDir, nil)

	assert.Contains(t, result, "/* imported: _child.css */")
	assert.Contains(t, result, "/* imported: _grandchild.css */")
	assert.Contains(t, result, ".grandchild")
	assert.Contains(t, result, ".child")
	assert.Contains(t, result, ".main")
}

func TestProcessImports_CircularPrevention(t *testing.T) {
	tmpDir := t.TempDir()

	err := os.WriteFile(filepath.Join(tmpDir, "_a.css"), []byte("@import \"_b.css\";\n.a { color: red; }"), 0644)
	require.NoError(t, err)
	err = os.WriteFile(filepath.Join(tmpDir, "_b.css"), []byte("@import \"_a.css\";\n.b { color: blue; }"), 0644)
	require.NoError(t, err)

	result := ProcessImports(`@import "_a.css";`, tmpDir, nil)

	assert.Contains(t, result, "/* imported: _a.css */")
	assert.Contains(t, result, "/* imported: _b.css */")
	assert.Contains(t, result, "/* circular import prevented: _a.css */")
}

func TestProcessImports_MissingFile(t *testing.T) {
	result := ProcessImports(`@import "nonexistent.css";`, t.TempDir(), nil)
	assert.Contains(t, result, "/* import failed: nonexistent.css")
}

func TestProcessImports_FallbackToEmbedded(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "missing")

	t.Run("partial", func(t *testing.T) {
		result := ProcessImports(`@import "_base.css";`, dir, nil)
		assert.Contains(t, result, "/* imported (embedded): _base.css */")
		assert.Contains(t, result, "--radius")
	})

	t.Run("stylesheet", func(t *testing.T) {
		result := ProcessImports(`@import "minimal.css";`, dir, nil)
		assert.Contains(t, result, "/* imported (embedded): minimal.css */")
		assert.Contains(t, result, ".panel")
	})
}

func TestImportRegex(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{`@import "file.css";`, "file.css"},
		{`@import 'file.css';`, "file.css"},
		{`@import url("file.css");`, "file.css"},
		{`@import url('file.css');`, "file.css"},
		{`@import url( "file.css" );`, "file.css"},
		{`@import "_partial.css"`, "_partial.css"},
		{`@import   "spaced.css"  ;`, "spaced.css"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			matches := importRegex.FindStringSubmatch(tt.input)
			require.Len(t, matches, 2, "should match import statement")
			assert.Equal(t, tt.expected, matches[1])
		})
	}
}

func TestNewStylesheet_ProcessesImports(t *testing.T) {
	tmpDir := t.TempDir()

	err := os.WriteFile(filepath.Join(tmpDir, "_colors.css"), []byte(`:root { --custom: #ff0000; }`), 0644)
	require.NoError(t, err)

	themePath := filepath.Join(tmpDir, "custom.css")
	err = os.WriteFile(themePath, []byte("@import \"_colors.css\";\n.panel { color: var(--custom); }"), 0644)
	require.NoError(t, err)

	s, err := NewStylesheet("custom", themePath)
	require.NoError(t, err)

	assert.Equal(t, "custom", s.Name())
	assert.Equal(t, themePath, s.Path)
	assert.False(t, s.Bundled)
	assert.Contains(t, s.CSS, "/* imported: _colors.css */")
	assert.Contains(t, s.CSS, "--custom: #ff0000")
}
