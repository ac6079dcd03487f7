// Package theme defines the theme values broadcast to subscribers and the
// catalog that resolves theme names to values.
//
// Themes are loaded from ~/.config/themecast/themes/ first and fall back to
// the bundled set embedded in the binary. A theme is opaque to the rest of
// themecast: only its name is ever inspected, and two themes are the same
// theme when their names match.
package theme
