package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/themecast/internal/core"
	"github.com/jmylchreest/themecast/internal/theme"
	"github.com/jmylchreest/themecast/internal/transition"
)

var setOpts struct {
	stdin bool
	next  bool
	prev  bool
}

var setCmd = &cobra.Command{
	Use:   "set [name]",
	Short: "Set the current theme",
	Long: `Set and save the current theme.

A running preview picks the change up immediately.

Examples:
  # Switch to a named theme
  themecast set catppuccin

  # By unambiguous prefix, or by position in "themecast list"
  themecast set cat
  themecast set 3

  # Cycle through themes
  themecast set --next

  # From a picker
  themecast list --format names | fuzzel --dmenu | themecast set --stdin`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSet,
}

func init() {
	rootCmd.AddCommand(setCmd)

	setCmd.Flags().BoolVar(&setOpts.stdin, "stdin", false,
		"Read the theme name from stdin (first non-empty line)")
	setCmd.Flags().BoolVar(&setOpts.next, "next", false,
		"Switch to the next theme")
	setCmd.Flags().BoolVar(&setOpts.prev, "prev", false,
		"Switch to the previous theme")
}

func runSet(cmd *cobra.Command, args []string) error {
	sources := 0
	for _, set := range []bool{len(args) == 1, setOpts.stdin, setOpts.next, setOpts.prev} {
		if set {
			sources++
		}
	}
	if sources == 0 {
		return fmt.Errorf("must specify a theme name, --stdin, --next or --prev")
	}
	if sources > 1 {
		return fmt.Errorf("only one of name, --stdin, --next or --prev can be given")
	}

	m := newManager(transition.Immediate)

	var name string
	switch {
	case len(args) == 1:
		name = args[0]
	case setOpts.stdin:
		var err error
		name, err = readNameFromStdin(os.Stdin)
		if err != nil {
			return fmt.Errorf("failed to read from stdin: %w", err)
		}
	case setOpts.next:
		name = catalog.Next(m.Current().Name(), 1)
	case setOpts.prev:
		name = catalog.Next(m.Current().Name(), -1)
	}

	if !setOpts.next && !setOpts.prev {
		entry, err := core.Resolve(loadEntries(), name)
		if err != nil {
			return fmt.Errorf("%w: %w", theme.ErrNotFound, err)
		}
		name = entry.Name
	}

	if !m.SetByName(name) {
		return fmt.Errorf("%w: %s", theme.ErrNotFound, name)
	}

	logger.Debug("theme set", "theme", name, "state", stateFile.Path())
	fmt.Println(name)
	return nil
}

// readNameFromStdin returns the first non-empty line of r.
func readNameFromStdin(r io.Reader) (string, error) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		// Accept lines from `list` plain output like "* dark  palette  bundled"
		line = strings.TrimSpace(strings.TrimLeft(line, "*"))
		if fields := strings.Fields(line); len(fields) > 0 {
			if fields[0] == "d" && len(fields) > 1 {
				return fields[1], nil
			}
			return fields[0], nil
		}
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	return "", fmt.Errorf("no theme name on stdin")
}
