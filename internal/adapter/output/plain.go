package output

import (
	"fmt"
	"io"
	"strings"
	"text/template"
	"time"

	"github.com/dustin/go-humanize"
)

// PlainFormatter formats entries as aligned text lines.
type PlainFormatter struct {
	opts     FormatterOptions
	template *template.Template
}

// NewPlainFormatter creates a new plain text formatter.
func NewPlainFormatter(opts FormatterOptions) *PlainFormatter {
	f := &PlainFormatter{opts: opts}

	// Parse custom template if provided
	if opts.Template != "" {
		tmpl, err := template.New("plain").Funcs(templateFuncs()).Parse(opts.Template)
		if err == nil {
			f.template = tmpl
		}
	}

	return f
}

// Format writes entries as plain text, one per line.
func (f *PlainFormatter) Format(w io.Writer, entries []Entry) error {
	width := 0
	for _, e := range entries {
		width = max(width, len(e.Name))
	}

	for i := range entries {
		if err := f.formatEntry(w, width, &entries[i]); err != nil {
			return err
		}
	}
	return nil
}

// formatEntry formats a single entry.
func (f *PlainFormatter) formatEntry(w io.Writer, width int, e *Entry) error {
	if f.template != nil {
		if err := f.template.Execute(w, e); err != nil {
			return err
		}
		_, err := fmt.Fprintln(w)
		return err
	}

	var sb strings.Builder

	// "*" marks the current theme, "d" the configured default
	switch {
	case e.IsCurrent:
		sb.WriteString("* ")
	case e.IsDefault:
		sb.WriteString("d ")
	default:
		sb.WriteString("  ")
	}

	sb.WriteString(fmt.Sprintf("%-*s  %-10s", width, e.Name, e.Kind))

	if e.IsBundled {
		sb.WriteString("  bundled")
	} else {
		sb.WriteString(fmt.Sprintf("  %s, %s", humanize.Bytes(uint64(max(e.Size, 0))), relativeTime(e.ModTime)))
		if f.opts.ShowPath && e.Path != "" {
			sb.WriteString("  " + e.Path)
		}
	}

	sb.WriteString("\n")
	_, err := io.WriteString(w, sb.String())
	return err
}

// templateFuncs returns template helper functions.
func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"reltime": relativeTime,
		"bytes": func(n int64) string {
			return humanize.Bytes(uint64(max(n, 0)))
		},
		"upper": strings.ToUpper,
	}
}

// relativeTime returns a human-readable relative time string.
func relativeTime(t time.Time) string {
	if t.IsZero() {
		return "unknown"
	}
	return humanize.Time(t)
}
