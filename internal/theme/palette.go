package theme

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Role names a colour slot in a palette.
type Role string

const (
	RoleBackground Role = "background"
	RoleForeground Role = "foreground"
	RoleAccent     Role = "accent"
	RoleMuted      Role = "muted"
	RoleBorder     Role = "border"
	RoleSuccess    Role = "success"
	RoleWarning    Role = "warning"
	RoleError      Role = "error"
)

// Roles lists every palette role in display order.
var Roles = []Role{
	RoleBackground, RoleForeground, RoleAccent, RoleMuted,
	RoleBorder, RoleSuccess, RoleWarning, RoleError,
}

// ErrInvalidColor is returned when a palette colour is not a hex triplet.
var ErrInvalidColor = errors.New("invalid color")

// Colors holds the hex colour for every role.
type Colors struct {
	Background string `toml:"background" yaml:"background" json:"background"`
	Foreground string `toml:"foreground" yaml:"foreground" json:"foreground"`
	Accent     string `toml:"accent" yaml:"accent" json:"accent"`
	Muted      string `toml:"muted" yaml:"muted" json:"muted"`
	Border     string `toml:"border" yaml:"border" json:"border"`
	Success    string `toml:"success" yaml:"success" json:"success"`
	Warning    string `toml:"warning" yaml:"warning" json:"warning"`
	Error      string `toml:"error" yaml:"error" json:"error"`
}

// Get returns the colour for role, or "" for an unknown role.
func (c Colors) Get(role Role) string {
	switch role {
	case RoleBackground:
		return c.Background
	case RoleForeground:
		return c.Foreground
	case RoleAccent:
		return c.Accent
	case RoleMuted:
		return c.Muted
	case RoleBorder:
		return c.Border
	case RoleSuccess:
		return c.Success
	case RoleWarning:
		return c.Warning
	case RoleError:
		return c.Error
	default:
		return ""
	}
}

func (c *Colors) set(role Role, hex string) {
	switch role {
	case RoleBackground:
		c.Background = hex
	case RoleForeground:
		c.Foreground = hex
	case RoleAccent:
		c.Accent = hex
	case RoleMuted:
		c.Muted = hex
	case RoleBorder:
		c.Border = hex
	case RoleSuccess:
		c.Success = hex
	case RoleWarning:
		c.Warning = hex
	case RoleError:
		c.Error = hex
	}
}

// Palette is a terminal colour theme.
type Palette struct {
	name    string
	Path    string    // Source file (empty for bundled palettes)
	ModTime time.Time // Source file modification time
	Bundled bool      // True if loaded from the embedded bundle
	Dark    bool      // True if designed for dark backgrounds
	Colors  Colors
}

// paletteFile is the on-disk shape of a palette, shared by TOML and YAML.
type paletteFile struct {
	Dark   bool   `toml:"dark" yaml:"dark"`
	Colors Colors `toml:"colors" yaml:"colors"`
}

// NewPalette creates a palette with the given name and colours.
func NewPalette(name string, dark bool, colors Colors) *Palette {
	return &Palette{name: name, Dark: dark, Colors: colors}
}

// Name returns the palette name.
func (p *Palette) Name() string { return p.name }

// ParsePalette decodes a palette document. format is "toml" or "yaml".
// Every role must be a valid hex colour.
func ParsePalette(name string, data []byte, format string) (*Palette, error) {
	var pf paletteFile
	switch strings.ToLower(format) {
	case "toml":
		if err := toml.Unmarshal(data, &pf); err != nil {
			return nil, fmt.Errorf("parse palette %s: %w", name, err)
		}
	case "yaml", "yml":
		if err := yaml.Unmarshal(data, &pf); err != nil {
			return nil, fmt.Errorf("parse palette %s: %w", name, err)
		}
	default:
		return nil, fmt.Errorf("parse palette %s: unsupported format %q", name, format)
	}

	p := NewPalette(name, pf.Dark, pf.Colors)
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Validate checks that every role holds a parseable hex colour.
func (p *Palette) Validate() error {
	for _, role := range Roles {
		hex := p.Colors.Get(role)
		if _, err := colorful.Hex(hex); err != nil {
			return fmt.Errorf("%w: palette %s role %s = %q", ErrInvalidColor, p.name, role, hex)
		}
	}
	return nil
}

// Color returns the lipgloss colour for role.
func (p *Palette) Color(role Role) lipgloss.Color {
	return lipgloss.Color(p.Colors.Get(role))
}

// Base returns the body text style.
func (p *Palette) Base() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(p.Color(RoleForeground)).
		Background(p.Color(RoleBackground))
}

// Style returns a foreground style for role on the palette background.
func (p *Palette) Style(role Role) lipgloss.Style {
	return p.Base().Foreground(p.Color(role))
}

// Panel returns a bordered container style.
func (p *Palette) Panel() lipgloss.Style {
	return p.Base().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.Color(RoleBorder)).
		BorderBackground(p.Color(RoleBackground)).
		Padding(0, 1)
}

// Blend interpolates between two palettes in CIE L*a*b* space.
// t is clamped to [0,1]; t=0 yields from, t=1 yields to. The result
// carries the name of to so it can stand in for it while animating.
func Blend(from, to *Palette, t float64) *Palette {
	switch {
	case to == nil:
		return from
	case from == nil || t >= 1:
		return to
	case t <= 0:
		t = 0
	}

	out := NewPalette(to.name, to.Dark, Colors{})
	for _, role := range Roles {
		a, errA := colorful.Hex(from.Colors.Get(role))
		b, errB := colorful.Hex(to.Colors.Get(role))
		if errA != nil || errB != nil {
			out.Colors.set(role, to.Colors.Get(role))
			continue
		}
		out.Colors.set(role, a.BlendLab(b, t).Clamped().Hex())
	}
	return out
}
