package main

import (
	"github.com/spf13/cobra"

	"github.com/jmylchreest/themecast/internal/transition"
	"github.com/jmylchreest/themecast/internal/tui"
)

var previewOpts struct {
	follow bool
}

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Launch the interactive theme preview",
	Long: `Launch the interactive preview. Every panel subscribes to the current
theme and repaints when it changes, with an animated transition when enabled.

The preview follows changes from other themecast processes, edits to the
current theme's file, and (with --follow) the desktop colour scheme.

Key bindings:
  →/n, ←/p    Next / previous theme
  0           Default theme
  r           Reload the current theme from disk
  a           Toggle animation
  s           Detach / attach the swatch panel
  f           Toggle following the system colour scheme
  ?           Show help
  q           Quit`,
	Args: cobra.NoArgs,
	RunE: runPreview,
}

func init() {
	rootCmd.AddCommand(previewCmd)

	previewCmd.Flags().BoolVar(&previewOpts.follow, "follow", false,
		"Follow the desktop colour scheme (overrides theme.follow_system)")
}

func runPreview(cmd *cobra.Command, args []string) error {
	if previewOpts.follow {
		cfg.Theme.FollowSystem = true
	}

	tracker := transition.NewTracker(nil)
	m := newManager(tracker)

	return tui.Run(tui.RunOptions{
		Options: tui.Options{
			Config:  cfg,
			Manager: m,
			Catalog: catalog,
			Tracker: tracker,
			Logger:  logger,
		},
		StateFile: stateFile,
	})
}
