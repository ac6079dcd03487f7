// Package tui provides the BubbleTea-based theme preview.
//
// Every visible component is a theme subscriber. Key presses and
// background watchers change the theme through the manager, and the manager
// broadcasts to the components; the model never styles them directly.
package tui

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jmylchreest/themecast/internal/config"
	"github.com/jmylchreest/themecast/internal/manager"
	"github.com/jmylchreest/themecast/internal/portal"
	"github.com/jmylchreest/themecast/internal/registry"
	"github.com/jmylchreest/themecast/internal/store"
	"github.com/jmylchreest/themecast/internal/theme"
	"github.com/jmylchreest/themecast/internal/transition"
)

// ThemeFileChangedMsg reports that a file in the themes directory changed.
type ThemeFileChangedMsg struct {
	Name string
}

// StateChangedMsg reports a theme change written by another process.
type StateChangedMsg struct {
	Name      string
	ChangedBy string
}

// ColorSchemeMsg reports the desktop colour scheme preference.
type ColorSchemeMsg struct {
	Scheme portal.ColorScheme
}

type clearStatusMsg struct{}

// Options configures the TUI model. Manager must have been created with
// Tracker as its transition runner for animations to render.
type Options struct {
	Config  *config.Config
	Manager *manager.Manager
	Catalog *theme.Catalog
	Tracker *transition.Tracker
	Logger  *slog.Logger
}

// Model is the main TUI model.
type Model struct {
	cfg     *config.Config
	manager *manager.Manager
	catalog *theme.Catalog
	tracker *transition.Tracker
	logger  *slog.Logger

	// Subscribers
	header   *header
	swatches *swatches
	status   *statusBar
	sheet    *sheetView

	keys     KeyMap
	help     help.Model
	showHelp bool

	follow bool
	scheme portal.ColorScheme

	width   int
	height  int
	ticking bool

	// Status message
	statusMsg string
	statusErr bool
}

// New creates a new TUI model and subscribes its components.
func New(opts Options) Model {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Config == nil {
		opts.Config = config.DefaultConfig()
	}
	if opts.Tracker == nil {
		opts.Tracker = transition.NewTracker(nil)
	}

	m := Model{
		cfg:      opts.Config,
		manager:  opts.Manager,
		catalog:  opts.Catalog,
		tracker:  opts.Tracker,
		logger:   opts.Logger,
		header:   newHeader(opts.Tracker),
		swatches: newSwatches(opts.Tracker),
		status:   newStatusBar(opts.Tracker),
		sheet:    &sheetView{},
		keys:     DefaultKeyMap(),
		help:     help.New(),
		follow:   opts.Config.Theme.FollowSystem,
	}

	manager.Subscribe[*theme.Palette](m.manager, m.header)
	manager.Subscribe[*theme.Palette](m.manager, m.swatches)
	manager.Subscribe[*theme.Palette](m.manager, m.status)
	manager.Subscribe[*theme.Stylesheet](m.manager, m.sheet)

	// Paint with the restored theme
	m.header.RequestImmediateUpdate()
	m.swatches.RequestImmediateUpdate()
	m.status.RequestImmediateUpdate()
	m.sheet.RequestImmediateUpdate()

	return m
}

// Init initializes the TUI.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width

	case transition.FrameMsg:
		cmd := m.tracker.Frame()
		m.ticking = cmd != nil
		return m, cmd

	case ThemeFileChangedMsg:
		return m.handleThemeFile(msg.Name)

	case StateChangedMsg:
		if msg.Name == "" || msg.Name == m.manager.Current().Name() {
			return m, nil
		}
		m.logger.Debug("applying external theme change", "theme", msg.Name, "by", msg.ChangedBy)
		return m.setTheme(msg.Name, fmt.Sprintf("theme set to %s by %s", msg.Name, msg.ChangedBy))

	case ColorSchemeMsg:
		m.scheme = msg.Scheme
		return m.applyScheme()

	case clearStatusMsg:
		m.statusMsg = ""
		m.statusErr = false
	}

	return m, nil
}

// handleKey handles key presses.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		m.help.ShowAll = m.showHelp
		return m, nil

	case key.Matches(msg, m.keys.Next):
		return m.step(1)

	case key.Matches(msg, m.keys.Prev):
		return m.step(-1)

	case key.Matches(msg, m.keys.Default):
		if m.catalog == nil {
			return m, nil
		}
		return m.setTheme(m.catalog.DefaultName(), "")

	case key.Matches(msg, m.keys.Reload):
		name := m.manager.Current().Name()
		if !m.manager.Refresh() {
			return m.setStatus(fmt.Sprintf("theme %s is no longer available", name), true)
		}
		return m.withFrames(m.setStatus("reloaded "+name, false))

	case key.Matches(msg, m.keys.ToggleAnimation):
		s := m.manager.Animation()
		s.Enabled = !s.Enabled
		if s.Duration <= 0 {
			s.Duration = transition.DefaultDuration
		}
		m.manager.SetAnimation(s)
		return m.setStatus("animation "+onOff(s.Enabled), false)

	case key.Matches(msg, m.keys.ToggleSwatches):
		if m.swatches.SubscriberTag().Registered() {
			m.swatches.Unsubscribe()
			return m.setStatus("swatches detached", false)
		}
		id := manager.Subscribe[*theme.Palette](m.manager, m.swatches)
		m.swatches.RequestImmediateUpdate()
		return m.setStatus(fmt.Sprintf("swatches attached as #%d", id), false)

	case key.Matches(msg, m.keys.Follow):
		m.follow = !m.follow
		if m.follow {
			return m.applyScheme()
		}
		return m.setStatus("follow system off", false)
	}

	return m, nil
}

// step moves through the catalog.
func (m Model) step(delta int) (tea.Model, tea.Cmd) {
	if m.catalog == nil {
		return m, nil
	}
	return m.setTheme(m.catalog.Next(m.manager.Current().Name(), delta), "")
}

// setTheme switches to name and starts the frame loop.
func (m Model) setTheme(name, status string) (tea.Model, tea.Cmd) {
	if !m.manager.SetByName(name) {
		return m.setStatus(fmt.Sprintf("theme %s not found", name), true)
	}
	if status == "" {
		status = "theme " + name
	}
	return m.withFrames(m.setStatus(status, false))
}

// applyScheme switches to the configured dark or light theme.
func (m Model) applyScheme() (tea.Model, tea.Cmd) {
	if !m.follow || m.scheme == portal.NoPreference {
		return m, nil
	}
	name := m.cfg.SystemTheme(m.scheme.Dark())
	if name == "" || name == m.manager.Current().Name() {
		return m, nil
	}
	return m.setTheme(name, fmt.Sprintf("system prefers %s: %s", m.scheme, name))
}

// handleThemeFile refreshes the current theme when its file changed.
func (m Model) handleThemeFile(name string) (tea.Model, tea.Cmd) {
	current := m.manager.Current()
	_, isSheet := current.(*theme.Stylesheet)

	// Partials may be imported by the current stylesheet
	partial := strings.HasPrefix(name, "_") && isSheet
	if name != current.Name() && !partial {
		return m.setStatus(fmt.Sprintf("theme %s changed on disk", name), false)
	}

	if !m.manager.Refresh() {
		return m.setStatus(fmt.Sprintf("theme %s is no longer available", current.Name()), true)
	}
	return m.withFrames(m.setStatus("reloaded "+current.Name(), false))
}

func (m Model) setStatus(text string, isErr bool) (Model, tea.Cmd) {
	m.statusMsg = text
	m.statusErr = isErr
	return m, tea.Tick(3*time.Second, func(time.Time) tea.Msg {
		return clearStatusMsg{}
	})
}

// withFrames starts the transition frame loop unless it is already running.
func (m Model) withFrames(next Model, cmd tea.Cmd) (tea.Model, tea.Cmd) {
	if next.ticking {
		return next, cmd
	}
	frame := next.tracker.Frame()
	next.ticking = frame != nil
	return next, tea.Batch(cmd, frame)
}

// View renders the TUI.
func (m Model) View() string {
	current := m.manager.Current()

	sections := []string{
		m.header.View(m.width, current),
		m.swatches.View(),
		m.sheet.View(m.header.palette()),
		m.status.View(m.width, m.statusText(), m.statusErr),
		m.help.View(m.keys),
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) statusText() string {
	if m.statusMsg != "" {
		return m.statusMsg
	}

	anim := m.manager.Animation()
	parts := []string{
		"subscribers " + formatIDs(m.manager.Registry().IDs()),
		fmt.Sprintf("animation %s (%s)", onOff(anim.Enabled), anim.Duration),
		"follow " + onOff(m.follow),
	}
	if m.scheme != portal.NoPreference {
		parts = append(parts, "system "+m.scheme.String())
	}
	return strings.Join(parts, "  ")
}

func formatIDs(ids []registry.ID) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = fmt.Sprintf("#%d", id)
	}
	return "[" + strings.Join(parts, " ") + "]"
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

// RunOptions configures the TUI.
type RunOptions struct {
	Options

	// StateFile is watched for changes made by other processes (nil = no watching)
	StateFile *store.StateFile
}

// Run starts the TUI with the given options.
func Run(opts RunOptions) error {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	m := New(opts.Options)
	p := tea.NewProgram(m, tea.WithAltScreen())

	// Watchers run on their own goroutines and hand events to the UI loop
	if opts.Catalog != nil && opts.Catalog.Dir() != "" {
		w, err := theme.NewWatcher(opts.Catalog.Dir(), logger)
		if err != nil {
			logger.Warn("failed to create theme watcher", "error", err)
		} else {
			w.SetChangeCallback(func(name string) {
				p.Send(ThemeFileChangedMsg{Name: name})
			})
			if err := w.Start(); err != nil {
				logger.Debug("themes directory not watched", "dir", opts.Catalog.Dir(), "error", err)
			}
			defer w.Stop()
		}
	}

	if opts.StateFile != nil {
		w, err := store.NewWatcher(opts.StateFile, logger)
		if err != nil {
			logger.Warn("failed to create state watcher", "error", err)
		} else {
			w.SetChangeCallback(func(s *store.State) {
				p.Send(StateChangedMsg{Name: s.ThemeName, ChangedBy: s.ChangedBy})
			})
			if err := w.Start(); err != nil {
				logger.Warn("failed to start state watcher", "error", err)
			}
			defer w.Stop()
		}
	}

	monitor := portal.NewMonitor(logger)
	monitor.SetChangeHandler(func(s portal.ColorScheme) {
		p.Send(ColorSchemeMsg{Scheme: s})
	})
	if err := monitor.Start(); err != nil {
		logger.Debug("colour scheme monitor unavailable", "error", err)
	} else {
		defer monitor.Stop()
		go func() {
			scheme, err := monitor.ColorScheme()
			if err != nil {
				logger.Debug("failed to read colour scheme", "error", err)
				return
			}
			p.Send(ColorSchemeMsg{Scheme: scheme})
		}()
	}

	_, err := p.Run()
	return err
}
