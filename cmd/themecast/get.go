package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/jmylchreest/themecast/internal/theme"
	"github.com/jmylchreest/themecast/internal/transition"
)

var getOpts struct {
	details bool
	json    bool
}

// currentInfo describes the current theme for `get --json`.
type currentInfo struct {
	Name      string `json:"name"`
	Kind      string `json:"kind"`
	Saved     bool   `json:"saved"`
	ChangedAt int64  `json:"changed_at,omitempty"`
	ChangedBy string `json:"changed_by,omitempty"`
	ChangeID  string `json:"change_id,omitempty"`
}

var getCmd = &cobra.Command{
	Use:   "get",
	Short: "Print the current theme",
	Long: `Print the current theme name.

The theme is restored the same way the preview restores it: the saved name
if it still resolves, otherwise the configured theme, otherwise the default.

Examples:
  themecast get
  themecast get --details
  themecast get --json | jq .name`,
	Args: cobra.NoArgs,
	RunE: runGet,
}

func init() {
	rootCmd.AddCommand(getCmd)

	getCmd.Flags().BoolVarP(&getOpts.details, "details", "d", false,
		"Show kind and last change")
	getCmd.Flags().BoolVar(&getOpts.json, "json", false,
		"Output as JSON")
}

func runGet(cmd *cobra.Command, args []string) error {
	m := newManager(transition.Immediate)
	current := m.Current()

	info := currentInfo{
		Name: current.Name(),
		Kind: theme.Kind(current),
	}

	state, err := stateFile.Read()
	if err != nil {
		logger.Warn("failed to read state file", "path", stateFile.Path(), "error", err)
	}
	if state != nil && state.ThemeName == current.Name() {
		info.Saved = true
		info.ChangedAt = state.ChangedAt
		info.ChangedBy = state.ChangedBy
		info.ChangeID = state.ChangeID
	}

	if getOpts.json {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(info)
	}

	if !getOpts.details {
		fmt.Println(info.Name)
		return nil
	}

	fmt.Printf("Theme:   %s\n", info.Name)
	fmt.Printf("Kind:    %s\n", info.Kind)
	if !info.Saved {
		fmt.Println("Changed: never (not saved)")
		return nil
	}
	changed := "unknown"
	if t := state.ChangedTime(); !t.IsZero() {
		changed = humanize.Time(t)
	}
	fmt.Printf("Changed: %s by %s\n", changed, info.ChangedBy)
	fmt.Printf("ID:      %s\n", info.ChangeID)
	return nil
}
