// Package output provides output formatters for theme listings.
package output

import (
	"io"

	"github.com/jmylchreest/themecast/internal/theme"
)

// Entry is one listed theme.
type Entry struct {
	theme.Info `yaml:",inline"`
	Kind       string `json:"kind" yaml:"kind"`
	IsCurrent  bool   `json:"is_current" yaml:"is_current"`
}

// Formatter formats theme listings for output.
type Formatter interface {
	// Format writes formatted entries to the writer.
	Format(w io.Writer, entries []Entry) error
}

// FormatType represents an output format type.
type FormatType string

const (
	FormatPlain FormatType = "plain"
	FormatNames FormatType = "names"
	FormatJSON  FormatType = "json"
	FormatYAML  FormatType = "yaml"
)

// Formats lists the supported format names.
func Formats() []string {
	return []string{string(FormatPlain), string(FormatNames), string(FormatJSON), string(FormatYAML)}
}

// NewFormatter creates a formatter for the specified format type.
func NewFormatter(format FormatType, opts FormatterOptions) Formatter {
	switch format {
	case FormatJSON:
		return NewJSONFormatter()
	case FormatYAML:
		return NewYAMLFormatter()
	case FormatNames:
		return NewNamesFormatter()
	case FormatPlain:
		fallthrough
	default:
		return NewPlainFormatter(opts)
	}
}

// FormatterOptions configures formatter behavior.
type FormatterOptions struct {
	Template string // Custom template for plain format, executed per entry
	ShowPath bool   // Show file path for user themes
}

// DefaultFormatterOptions returns defaults for plain output.
func DefaultFormatterOptions() FormatterOptions {
	return FormatterOptions{
		ShowPath: true,
	}
}
