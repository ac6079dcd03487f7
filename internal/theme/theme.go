package theme

import "errors"

// EmptyName is the name carried by the Empty theme.
const EmptyName = "none"

// ErrNotFound is returned when no theme with the requested name exists.
var ErrNotFound = errors.New("theme not found")

// Theme is an opaque, named bundle of appearance attributes.
// Concrete kinds (Palette, Stylesheet) are unrelated types; subscribers
// declare which kind they understand.
type Theme interface {
	Name() string
}

// emptyTheme is the explicit no-op theme.
type emptyTheme struct{}

func (emptyTheme) Name() string { return EmptyName }

// Empty is used when neither a persisted nor a default theme is available.
var Empty Theme = emptyTheme{}

// IsEmpty reports whether t is nil or the Empty theme.
func IsEmpty(t Theme) bool {
	if t == nil {
		return true
	}
	_, ok := t.(emptyTheme)
	return ok
}

// SameName reports whether a and b are the same theme by name.
// A nil theme only matches another nil theme.
func SameName(a, b Theme) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Name() == b.Name()
}

// Kind returns a short label for the concrete kind of t.
func Kind(t Theme) string {
	switch t.(type) {
	case *Palette:
		return "palette"
	case *Stylesheet:
		return "stylesheet"
	case emptyTheme:
		return "empty"
	case nil:
		return "none"
	default:
		return "custom"
	}
}
