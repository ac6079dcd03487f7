package portal

import (
	"errors"
	"fmt"

	"github.com/godbus/dbus/v5"
)

const (
	// BusName is the desktop portal bus name.
	BusName = "org.freedesktop.portal.Desktop"
	// ObjectPath is the desktop portal object path.
	ObjectPath = "/org/freedesktop/portal/desktop"
	// SettingsInterface is the portal settings interface.
	SettingsInterface = "org.freedesktop.portal.Settings"

	// AppearanceNamespace is the settings namespace holding the colour scheme.
	AppearanceNamespace = "org.freedesktop.appearance"
	// ColorSchemeKey is the colour scheme setting.
	ColorSchemeKey = "color-scheme"
)

// ErrUnavailable is returned when no session bus or settings portal is reachable.
var ErrUnavailable = errors.New("settings portal unavailable")

// ColorScheme is the desktop's preferred colour scheme.
// These values are defined by the XDG desktop portal.
type ColorScheme uint32

const (
	// NoPreference means the user has not chosen a scheme.
	NoPreference ColorScheme = 0
	// PreferDark means the user prefers dark appearance.
	PreferDark ColorScheme = 1
	// PreferLight means the user prefers light appearance.
	PreferLight ColorScheme = 2
)

// String returns the string representation of the scheme.
func (c ColorScheme) String() string {
	switch c {
	case NoPreference:
		return "no-preference"
	case PreferDark:
		return "dark"
	case PreferLight:
		return "light"
	default:
		return "unknown"
	}
}

// Dark reports whether the scheme asks for dark appearance.
func (c ColorScheme) Dark() bool {
	return c == PreferDark
}

// ParseColorScheme converts a settings value to a ColorScheme. The
// deprecated Read method nests the value in a second variant, so variants
// are unwrapped until a number is found. Unknown values map to NoPreference.
func ParseColorScheme(value any) (ColorScheme, error) {
	for {
		v, ok := value.(dbus.Variant)
		if !ok {
			break
		}
		value = v.Value()
	}

	var n uint64
	switch v := value.(type) {
	case uint32:
		n = uint64(v)
	case uint8:
		n = uint64(v)
	case uint16:
		n = uint64(v)
	case uint64:
		n = v
	case int32:
		if v < 0 {
			return NoPreference, fmt.Errorf("invalid color-scheme value %d", v)
		}
		n = uint64(v)
	default:
		return NoPreference, fmt.Errorf("invalid color-scheme type %T", value)
	}

	switch n {
	case uint64(PreferDark):
		return PreferDark, nil
	case uint64(PreferLight):
		return PreferLight, nil
	default:
		return NoPreference, nil
	}
}
