// Package manager owns the current theme. It restores the theme saved by
// the previous session, broadcasts every change to the subscriber registry
// and persists the new theme's name.
package manager

import (
	"log/slog"

	"github.com/jmylchreest/themecast/internal/registry"
	"github.com/jmylchreest/themecast/internal/store"
	"github.com/jmylchreest/themecast/internal/theme"
	"github.com/jmylchreest/themecast/internal/transition"
)

// Resolver maps theme names to themes and supplies the default theme.
// The embedding application provides it; the manager never hard-codes
// theme identities.
type Resolver interface {
	Resolve(name string) (theme.Theme, bool)
	Default() theme.Theme
}

// ResolverFuncs adapts a pair of functions to Resolver. Nil functions
// resolve nothing.
type ResolverFuncs struct {
	ResolveFunc func(name string) (theme.Theme, bool)
	DefaultFunc func() theme.Theme
}

// Resolve calls ResolveFunc.
func (f ResolverFuncs) Resolve(name string) (theme.Theme, bool) {
	if f.ResolveFunc == nil {
		return nil, false
	}
	return f.ResolveFunc(name)
}

// Default calls DefaultFunc.
func (f ResolverFuncs) Default() theme.Theme {
	if f.DefaultFunc == nil {
		return nil
	}
	return f.DefaultFunc()
}

// Options configures a Manager.
type Options struct {
	Persistence store.NamePersistence
	Resolver    Resolver
	// Registry receives broadcasts. A new one is created when nil, using
	// Runner and Animation.
	Registry  *registry.Registry
	Runner    transition.Runner
	Animation transition.Settings
	Logger    *slog.Logger
}

// Manager holds the process-wide current theme. Like the registry it is
// confined to the UI goroutine. SetCurrent called from inside a
// subscriber's update hook is allowed; the innermost theme wins.
type Manager struct {
	logger      *slog.Logger
	persistence store.NamePersistence
	resolver    Resolver
	registry    *registry.Registry

	current theme.Theme
	depth   int    // nested SetCurrent calls in progress
	changes uint64 // bumped on every SetCurrent
}

// New creates a manager and restores the current theme: the persisted name
// if it still resolves, otherwise the resolver's default, otherwise
// theme.Empty.
func New(opts Options) *Manager {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Persistence == nil {
		opts.Persistence = store.NewMemory()
	}
	if opts.Resolver == nil {
		opts.Resolver = ResolverFuncs{}
	}

	m := &Manager{
		logger:      opts.Logger,
		persistence: opts.Persistence,
		resolver:    opts.Resolver,
	}

	if opts.Registry != nil {
		m.registry = opts.Registry
		m.registry.SetSource(m.Current)
	} else {
		m.registry = registry.New(registry.Options{
			Runner:    opts.Runner,
			Animation: opts.Animation,
			Source:    m.Current,
			Logger:    opts.Logger,
		})
	}

	m.current = m.restore()
	return m
}

func (m *Manager) restore() theme.Theme {
	if name, ok := m.persistence.Load(); ok && name != "" {
		if th, ok := m.resolver.Resolve(name); ok && th != nil {
			m.logger.Debug("restored theme", "theme", th.Name())
			return th
		}
		m.logger.Info("persisted theme not available, using default", "theme", name)
	}

	if th := m.resolver.Default(); th != nil {
		return th
	}
	m.logger.Debug("no default theme, using empty theme")
	return theme.Empty
}

// Current returns the current theme. It is never nil.
func (m *Manager) Current() theme.Theme {
	return m.current
}

// SetCurrent replaces the current theme, broadcasts it to every live
// subscriber and persists its name before returning. A nil theme is
// treated as theme.Empty.
func (m *Manager) SetCurrent(th theme.Theme) {
	if th == nil {
		th = theme.Empty
	}
	if m.depth > 0 {
		m.logger.Warn("theme changed from inside a theme update", "theme", th.Name(), "previous", m.current.Name())
	}
	m.depth++
	defer func() { m.depth-- }()

	previous := m.current
	m.current = th
	m.changes++
	change := m.changes
	m.registry.Broadcast(th)

	// A hook that changed the theme again has already saved the newer name
	if change != m.changes {
		m.logger.Debug("theme superseded during broadcast", "theme", th.Name(), "current", m.current.Name())
		return
	}
	m.persistence.Save(th.Name())

	m.logger.Debug("theme changed", "theme", th.Name(), "previous", previous.Name(), "kind", theme.Kind(th))
}

// SetByName resolves name and makes it current. It returns false, leaving
// the current theme untouched, when name does not resolve.
func (m *Manager) SetByName(name string) bool {
	th, ok := m.resolver.Resolve(name)
	if !ok || th == nil {
		m.logger.Warn("theme not found", "theme", name)
		return false
	}
	m.SetCurrent(th)
	return true
}

// Refresh re-resolves the current theme's name and broadcasts the fresh
// value, e.g. after its file changed on disk. It returns false when the
// name no longer resolves.
func (m *Manager) Refresh() bool {
	return m.SetByName(m.current.Name())
}

// SetAnimation changes the transition settings for future broadcasts.
func (m *Manager) SetAnimation(s transition.Settings) {
	m.registry.SetAnimation(s)
}

// Animation returns the current transition settings.
func (m *Manager) Animation() transition.Settings {
	return m.registry.Animation()
}

// Registry returns the subscriber registry.
func (m *Manager) Registry() *registry.Registry {
	return m.registry
}

// Subscribe registers s with the manager's registry.
func Subscribe[T theme.Theme](m *Manager, s registry.Subscriber[T]) registry.ID {
	return registry.Register(m.registry, s)
}
