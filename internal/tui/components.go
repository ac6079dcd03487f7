package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jmylchreest/themecast/internal/registry"
	"github.com/jmylchreest/themecast/internal/theme"
	"github.com/jmylchreest/themecast/internal/transition"
)

// fallbackPalette is rendered until a component receives its first palette.
func fallbackPalette() *theme.Palette {
	if th, err := theme.LoadBundled(theme.DefaultThemeName); err == nil {
		if p, ok := th.(*theme.Palette); ok {
			return p
		}
	}
	return theme.NewPalette(theme.DefaultThemeName, false, theme.Colors{
		Background: "#000000",
		Foreground: "#ffffff",
		Accent:     "#5f87ff",
		Muted:      "#808080",
		Border:     "#808080",
		Success:    "#00af00",
		Warning:    "#d7af00",
		Error:      "#d70000",
	})
}

// paletteState tracks the palette a component renders and the transition
// it is moving through.
type paletteState struct {
	tracker  *transition.Tracker
	from     *theme.Palette
	to       *theme.Palette
	window   transition.Transition
	animated bool
	updates  int
}

func newPaletteState(tracker *transition.Tracker) paletteState {
	p := fallbackPalette()
	return paletteState{tracker: tracker, from: p, to: p}
}

// apply starts moving towards p. A delivery that lands mid-transition
// continues from the colours currently on screen.
func (s *paletteState) apply(p *theme.Palette) {
	s.from = s.palette()
	s.to = p
	s.window, s.animated = s.tracker.Running()
	s.updates++
}

func (s *paletteState) progress() float64 {
	if !s.animated {
		return 1
	}
	return s.window.Progress(s.tracker.Now())
}

// palette returns the colours to draw this frame.
func (s *paletteState) palette() *theme.Palette {
	return theme.Blend(s.from, s.to, s.progress())
}

// header shows the current theme name.
type header struct {
	registry.Base
	paletteState
}

func newHeader(tracker *transition.Tracker) *header {
	return &header{paletteState: newPaletteState(tracker)}
}

func (h *header) UpdateAppearance(p *theme.Palette) {
	h.apply(p)
}

func (h *header) View(width int, current theme.Theme) string {
	p := h.palette()
	title := p.Style(theme.RoleAccent).Bold(true).Render("themecast")
	name := p.Base().Render("  " + current.Name() + "  ")
	kind := p.Style(theme.RoleMuted).Render(theme.Kind(current))

	style := p.Base().Padding(0, 1)
	if width > 2 {
		style = style.Width(width - 2)
	}
	return style.Render(lipgloss.JoinHorizontal(lipgloss.Top, title, name, kind))
}

// swatches shows one colour block per palette role. It can be detached
// from the registry and attached again.
type swatches struct {
	registry.Base
	paletteState
}

func newSwatches(tracker *transition.Tracker) *swatches {
	return &swatches{paletteState: newPaletteState(tracker)}
}

func (s *swatches) UpdateAppearance(p *theme.Palette) {
	s.apply(p)
}

func (s *swatches) View() string {
	p := s.palette()
	lines := make([]string, 0, len(theme.Roles))
	for _, role := range theme.Roles {
		block := lipgloss.NewStyle().Background(p.Color(role)).Render("    ")
		label := fmt.Sprintf(" %-10s %s", role, p.Colors.Get(role))
		lines = append(lines, block+p.Base().Render(label))
	}

	body := strings.Join(lines, "\n")
	if !s.SubscriberTag().Registered() {
		body += "\n" + p.Style(theme.RoleWarning).Render("detached")
	}
	return p.Panel().Render(body)
}

// statusBar reports subscriber state. It opts out of animation so status
// text is always legible.
type statusBar struct {
	registry.Base
	paletteState
}

func newStatusBar(tracker *transition.Tracker) *statusBar {
	return &statusBar{paletteState: newPaletteState(tracker)}
}

func (b *statusBar) AnimationPreference() bool {
	return false
}

func (b *statusBar) UpdateAppearance(p *theme.Palette) {
	b.apply(p)
}

func (b *statusBar) View(width int, text string, isErr bool) string {
	p := b.palette()
	style := p.Style(theme.RoleMuted).Padding(0, 1)
	if isErr {
		style = p.Style(theme.RoleError).Padding(0, 1)
	}
	if width > 2 {
		style = style.Width(width - 2)
	}
	return style.Render(text)
}

// sheetView summarises the current stylesheet. Palette broadcasts skip it.
type sheetView struct {
	registry.Base
	sheet   *theme.Stylesheet
	updates int
}

func (v *sheetView) UpdateAppearance(s *theme.Stylesheet) {
	v.sheet = s
	v.updates++
}

func (v *sheetView) View(p *theme.Palette) string {
	if v.sheet == nil {
		return p.Style(theme.RoleMuted).Render("no stylesheet received")
	}
	rules := strings.Count(v.sheet.CSS, "{")
	lines := strings.Count(v.sheet.CSS, "\n") + 1
	source := "bundled"
	if !v.sheet.Bundled {
		source = v.sheet.Path
	}
	return p.Base().Render(fmt.Sprintf("stylesheet %s: %d rules, %d lines (%s)", v.sheet.Name(), rules, lines, source))
}
