package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/themecast/internal/adapter/output"
	"github.com/jmylchreest/themecast/internal/core"
	"github.com/jmylchreest/themecast/internal/theme"
)

var listOpts struct {
	format   string
	template string
	noPath   bool
	filter   string
	kind     string
	source   string
	sort     string
	order    string
	limit    int
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List available themes",
	Long: `List bundled and user themes.

The current theme is marked with "*" and the configured default with "d".
User themes shadow bundled themes of the same name.

Examples:
  # Human-readable listing
  themecast list

  # Pick a theme with a dmenu-style launcher
  themecast list --format names | fuzzel --dmenu | themecast set --stdin

  # Machine-readable
  themecast list --format json

  # Custom line format
  themecast list --template '{{.Name}} ({{.Kind}})'

  # User palettes changed in the last week, newest first
  themecast list --filter 'source=user,kind=palette,modified>1w' --sort modified --order desc`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().StringVarP(&listOpts.format, "format", "f", "plain",
		"Output format ("+strings.Join(output.Formats(), ", ")+")")
	listCmd.Flags().StringVar(&listOpts.template, "template", "",
		"Go template executed per theme (plain format only)")
	listCmd.Flags().BoolVar(&listOpts.noPath, "no-path", false,
		"Hide user theme paths")
	listCmd.Flags().StringVar(&listOpts.filter, "filter", "",
		"Filter expression (e.g. 'kind=palette,name~cat')")
	listCmd.Flags().StringVar(&listOpts.kind, "kind", "",
		"Only list themes of this kind (palette, stylesheet, invalid)")
	listCmd.Flags().StringVar(&listOpts.source, "source", "",
		"Only list bundled or user themes")
	listCmd.Flags().StringVar(&listOpts.sort, "sort", "name",
		"Sort by field (name, kind, modified, size)")
	listCmd.Flags().StringVar(&listOpts.order, "order", "asc",
		"Sort order (asc, desc)")
	listCmd.Flags().IntVarP(&listOpts.limit, "limit", "n", 0,
		"Maximum number of themes (0 = all)")
}

func runList(cmd *cobra.Command, args []string) error {
	format := output.FormatType(strings.ToLower(listOpts.format))
	if !validFormat(format) {
		return fmt.Errorf("unknown format %q (want one of: %s)", listOpts.format, strings.Join(output.Formats(), ", "))
	}

	expr, err := core.ParseFilter(listOpts.filter)
	if err != nil {
		return err
	}
	field, err := core.ParseSortField(listOpts.sort)
	if err != nil {
		return err
	}
	order, err := core.ParseSortOrder(listOpts.order)
	if err != nil {
		return err
	}

	entries := loadEntries()
	entries = core.FilterWithExpr(entries, expr)
	core.Sort(entries, core.SortOptions{Field: field, Order: order})
	entries = core.Filter(entries, core.FilterOptions{
		Kind:   listOpts.kind,
		Source: listOpts.source,
		Limit:  listOpts.limit,
	})

	opts := output.DefaultFormatterOptions()
	opts.Template = listOpts.template
	opts.ShowPath = !listOpts.noPath

	return output.NewFormatter(format, opts).Format(os.Stdout, entries)
}

func validFormat(format output.FormatType) bool {
	for _, f := range output.Formats() {
		if string(format) == f {
			return true
		}
	}
	return false
}

// loadEntries lists every theme with its kind and current marker.
// Themes that fail to load are kept with kind "invalid".
func loadEntries() []output.Entry {
	infos, err := catalog.List()
	if err != nil {
		// Bundled themes are still listed
		logger.Warn("failed to read themes directory", "dir", catalog.Dir(), "error", err)
	}

	current, _ := stateFile.Load()
	if current == "" {
		current = newResolver(catalog, cfg.Theme.Name).Default().Name()
	}

	entries := make([]output.Entry, 0, len(infos))
	for _, info := range infos {
		entry := output.Entry{Info: info, IsCurrent: info.Name == current}
		if th, err := catalog.Load(info.Name); err == nil {
			entry.Kind = theme.Kind(th)
		} else {
			logger.Debug("failed to load theme", "theme", info.Name, "error", err)
			entry.Kind = "invalid"
		}
		entries = append(entries, entry)
	}
	return entries
}
