package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/themecast/internal/config"
	"github.com/jmylchreest/themecast/internal/manager"
	"github.com/jmylchreest/themecast/internal/store"
	"github.com/jmylchreest/themecast/internal/theme"
	"github.com/jmylchreest/themecast/internal/transition"
)

// Build-time variables (set via ldflags)
var (
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"
)

// Global configuration and state
var (
	cfg        *config.Config
	globalOpts struct {
		verbose    bool
		configPath string
		stateFile  string
		themesDir  string
	}
	logger *slog.Logger

	catalog   *theme.Catalog
	stateFile *store.StateFile
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "themecast",
	Short: "Shared terminal theme switcher with live preview",
	Long: `themecast keeps one current theme shared by every component that
subscribes to it, and remembers it between sessions.

Themes are palettes (.toml, .yaml) or stylesheets (.css). Bundled themes can
be overridden by files in ~/.config/themecast/themes.

Running themecast without a subcommand launches the interactive preview.`,
	Version:      fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildTime),
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		setupLogger()

		var err error
		cfg, err = config.LoadConfig(globalOpts.configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}

		themesDir := globalOpts.themesDir
		if themesDir == "" {
			themesDir = cfg.ThemesDir()
		}
		catalog = theme.NewCatalog(themesDir, cfg.Theme.Default, logger)

		statePath := globalOpts.stateFile
		if statePath == "" {
			statePath = cfg.StatePath()
		}
		if statePath == "" {
			statePath, err = store.StateFilePath()
			if err != nil {
				return fmt.Errorf("failed to determine state file path: %w", err)
			}
		}
		stateFile = store.NewStateFile(statePath, cmd.Name(), logger)

		return nil
	},
	// Default to the preview when no subcommand is provided
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPreview(cmd, args)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&globalOpts.verbose, "verbose", "v", false,
		"Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&globalOpts.configPath, "config", "",
		"Path to config file (default: ~/.config/themecast/config.toml)")
	rootCmd.PersistentFlags().StringVar(&globalOpts.stateFile, "state-file", "",
		"Path to state file (default: ~/.local/share/themecast/state.json)")
	rootCmd.PersistentFlags().StringVar(&globalOpts.themesDir, "themes-dir", "",
		"Path to user themes (default: ~/.config/themecast/themes)")
}

// setupLogger configures the global slog logger.
func setupLogger() {
	level := slog.LevelWarn
	if globalOpts.verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	// Log to stderr so stdout is clean for output
	handler := slog.NewTextHandler(os.Stderr, opts)
	logger = slog.New(handler)
	slog.SetDefault(logger)
}

// newResolver resolves through the catalog. The configured initial theme
// takes precedence over the catalog default when nothing was saved.
func newResolver(c *theme.Catalog, initial string) manager.Resolver {
	return manager.ResolverFuncs{
		ResolveFunc: c.Resolve,
		DefaultFunc: func() theme.Theme {
			if initial != "" {
				if th, ok := c.Resolve(initial); ok {
					return th
				}
			}
			return c.Default()
		},
	}
}

// newManager creates the theme manager backed by the state file.
func newManager(runner transition.Runner) *manager.Manager {
	return manager.New(manager.Options{
		Persistence: stateFile,
		Resolver:    newResolver(catalog, cfg.Theme.Name),
		Runner:      runner,
		Animation: transition.Settings{
			Enabled:  cfg.Animation.Enabled,
			Duration: cfg.AnimationDuration(),
		},
		Logger: logger,
	})
}
