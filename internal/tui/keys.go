package tui

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap defines the key bindings for the TUI.
type KeyMap struct {
	// Themes
	Next    key.Binding
	Prev    key.Binding
	Default key.Binding
	Reload  key.Binding

	// Subscribers
	ToggleAnimation key.Binding
	ToggleSwatches  key.Binding
	Follow          key.Binding

	// Global
	Quit key.Binding
	Help key.Binding
}

// ShortHelp returns a short help message.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Prev, k.Help, k.Quit}
}

// FullHelp returns a full help message.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Next, k.Prev, k.Default, k.Reload},
		{k.ToggleAnimation, k.ToggleSwatches, k.Follow},
		{k.Help, k.Quit},
	}
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Next: key.NewBinding(
			key.WithKeys("right", "l", "n"),
			key.WithHelp("→/n", "next theme"),
		),
		Prev: key.NewBinding(
			key.WithKeys("left", "h", "p"),
			key.WithHelp("←/p", "previous theme"),
		),
		Default: key.NewBinding(
			key.WithKeys("0"),
			key.WithHelp("0", "default theme"),
		),
		Reload: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reload theme"),
		),
		ToggleAnimation: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "toggle animation"),
		),
		ToggleSwatches: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "detach/attach swatches"),
		),
		Follow: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "follow system scheme"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
	}
}
