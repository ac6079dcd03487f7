package portal

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/godbus/dbus/v5"
)

// ChangeHandler is called when the desktop colour scheme changes.
type ChangeHandler func(scheme ColorScheme)

// Monitor watches the portal's SettingChanged signal for colour scheme
// changes.
type Monitor struct {
	conn   *dbus.Conn
	logger *slog.Logger

	mu       sync.Mutex
	onChange ChangeHandler
	signals  chan *dbus.Signal
	running  bool
}

// NewMonitor creates a new colour scheme monitor.
func NewMonitor(logger *slog.Logger) *Monitor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Monitor{
		logger: logger,
	}
}

// SetChangeHandler sets the callback for colour scheme changes. It runs on
// the monitor goroutine.
func (m *Monitor) SetChangeHandler(handler ChangeHandler) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onChange = handler
}

// Start connects to the session bus and subscribes to setting changes.
func (m *Monitor) Start() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.running {
		return nil
	}

	if m.conn == nil {
		conn, err := dbus.ConnectSessionBus()
		if err != nil {
			return fmt.Errorf("%w: failed to connect to session bus: %v", ErrUnavailable, err)
		}
		m.conn = conn
	}

	err := m.conn.AddMatchSignal(
		dbus.WithMatchObjectPath(ObjectPath),
		dbus.WithMatchInterface(SettingsInterface),
		dbus.WithMatchMember("SettingChanged"),
		dbus.WithMatchArg(0, AppearanceNamespace),
	)
	if err != nil {
		return fmt.Errorf("failed to add match rule: %w", err)
	}

	m.signals = make(chan *dbus.Signal, 16)
	m.conn.Signal(m.signals)
	m.running = true

	go m.processSignals(m.signals)

	m.logger.Debug("started portal colour scheme monitor")
	return nil
}

// ColorScheme reads the current colour scheme. It connects on demand, so
// it can be used without Start.
func (m *Monitor) ColorScheme() (ColorScheme, error) {
	m.mu.Lock()
	if m.conn == nil {
		conn, err := dbus.ConnectSessionBus()
		if err != nil {
			m.mu.Unlock()
			return NoPreference, fmt.Errorf("%w: failed to connect to session bus: %v", ErrUnavailable, err)
		}
		m.conn = conn
	}
	conn := m.conn
	m.mu.Unlock()

	obj := conn.Object(BusName, ObjectPath)

	var value dbus.Variant
	err := obj.Call(SettingsInterface+".ReadOne", 0, AppearanceNamespace, ColorSchemeKey).Store(&value)
	if err != nil {
		// ReadOne arrived in version 2 of the interface; fall back to Read
		m.logger.Debug("ReadOne not available, trying Read", "error", err)
		if err := obj.Call(SettingsInterface+".Read", 0, AppearanceNamespace, ColorSchemeKey).Store(&value); err != nil {
			return NoPreference, fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
	}

	return ParseColorScheme(value)
}

// processSignals reads signals until the channel is closed.
func (m *Monitor) processSignals(ch <-chan *dbus.Signal) {
	for sig := range ch {
		scheme, ok := m.parseSignal(sig)
		if !ok {
			continue
		}

		m.mu.Lock()
		handler := m.onChange
		m.mu.Unlock()

		m.logger.Debug("colour scheme changed", "scheme", scheme.String())
		if handler != nil {
			handler(scheme)
		}
	}
}

// parseSignal extracts a colour scheme from a SettingChanged signal.
// SettingChanged(namespace string, key string, value variant)
func (m *Monitor) parseSignal(sig *dbus.Signal) (ColorScheme, bool) {
	if sig == nil || sig.Name != SettingsInterface+".SettingChanged" {
		return NoPreference, false
	}
	if len(sig.Body) < 3 {
		m.logger.Warn("malformed SettingChanged signal", "body_len", len(sig.Body))
		return NoPreference, false
	}

	namespace, ok := sig.Body[0].(string)
	if !ok || namespace != AppearanceNamespace {
		return NoPreference, false
	}
	key, ok := sig.Body[1].(string)
	if !ok || key != ColorSchemeKey {
		return NoPreference, false
	}

	scheme, err := ParseColorScheme(sig.Body[2])
	if err != nil {
		m.logger.Warn("invalid color-scheme value", "error", err)
		return NoPreference, false
	}
	return scheme, true
}

// Stop stops the monitor and closes its bus connection.
func (m *Monitor) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.conn == nil {
		return nil
	}
	if m.running {
		m.conn.RemoveSignal(m.signals)
		close(m.signals)
		m.running = false
	}

	err := m.conn.Close()
	m.conn = nil
	if err != nil && !errors.Is(err, dbus.ErrClosed) {
		return err
	}
	return nil
}
