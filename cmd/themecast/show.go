package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/jmylchreest/themecast/internal/theme"
	"github.com/jmylchreest/themecast/internal/transition"
)

var showOpts struct {
	format string
}

var showCmd = &cobra.Command{
	Use:   "show [name]",
	Short: "Show a theme",
	Long: `Show a theme's colours or stylesheet. Without a name, shows the current
theme.

Palettes can be exported in the same formats the themes directory reads,
which makes a bundled palette a starting point for a user theme:

  themecast show dark --format toml > ~/.config/themecast/themes/mine.toml

Formats: text (default), toml, yaml, json. Stylesheets print their CSS with
imports inlined regardless of format.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)

	showCmd.Flags().StringVarP(&showOpts.format, "format", "f", "text",
		"Output format (text, toml, yaml, json)")
}

// paletteDocument is the exported shape of a palette, matching theme files.
type paletteDocument struct {
	Dark   bool         `toml:"dark" yaml:"dark" json:"dark"`
	Colors theme.Colors `toml:"colors" yaml:"colors" json:"colors"`
}

func runShow(cmd *cobra.Command, args []string) error {
	var th theme.Theme
	if len(args) == 1 {
		var err error
		th, err = catalog.Load(args[0])
		if err != nil {
			return err
		}
	} else {
		th = newManager(transition.Immediate).Current()
	}

	switch t := th.(type) {
	case *theme.Palette:
		return writePalette(os.Stdout, t, strings.ToLower(showOpts.format))
	case *theme.Stylesheet:
		_, err := io.WriteString(os.Stdout, t.CSS)
		return err
	default:
		fmt.Printf("%s (%s)\n", th.Name(), theme.Kind(th))
		return nil
	}
}

func writePalette(w io.Writer, p *theme.Palette, format string) error {
	doc := paletteDocument{Dark: p.Dark, Colors: p.Colors}

	switch format {
	case "toml":
		return toml.NewEncoder(w).Encode(doc)
	case "yaml", "yml":
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		if err := encoder.Encode(doc); err != nil {
			return err
		}
		return encoder.Close()
	case "json":
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(doc)
	case "text", "":
		return writeSwatches(w, p)
	default:
		return fmt.Errorf("unknown format %q (want text, toml, yaml or json)", format)
	}
}

// writeSwatches renders each role as a coloured block.
func writeSwatches(w io.Writer, p *theme.Palette) error {
	mode := "light"
	if p.Dark {
		mode = "dark"
	}

	lines := []string{p.Style(theme.RoleAccent).Bold(true).Render(p.Name()) + " (" + mode + ")"}
	for _, role := range theme.Roles {
		block := lipgloss.NewStyle().Background(p.Color(role)).Render("    ")
		lines = append(lines, fmt.Sprintf("%s %-10s %s", block, role, p.Colors.Get(role)))
	}
	lines = append(lines, p.Panel().Render("Sample text on "+p.Name()))

	_, err := fmt.Fprintln(w, strings.Join(lines, "\n"))
	return err
}
