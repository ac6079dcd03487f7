// Package core provides filtering, sorting, and lookup logic for theme listings.
package core

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/jmylchreest/themecast/internal/adapter/output"
)

var (
	// ErrNoMatch is returned when a query matches no theme.
	ErrNoMatch = errors.New("no matching theme")
	// ErrAmbiguous is returned when a prefix matches more than one theme.
	ErrAmbiguous = errors.New("ambiguous theme")
)

// LookupByName finds an entry by name. An exact match wins over a
// case-insensitive one. Returns nil if not found.
func LookupByName(entries []output.Entry, name string) *output.Entry {
	for i := range entries {
		if entries[i].Name == name {
			return &entries[i]
		}
	}
	for i := range entries {
		if strings.EqualFold(entries[i].Name, name) {
			return &entries[i]
		}
	}
	return nil
}

// LookupByIndex finds an entry by its index (1-based, as shown by list).
// Returns nil if index is out of bounds.
func LookupByIndex(entries []output.Entry, index int) *output.Entry {
	idx := index - 1
	if idx < 0 || idx >= len(entries) {
		return nil
	}
	return &entries[idx]
}

// Resolve finds the entry a user means by query: a 1-based index, a name,
// or an unambiguous name prefix. Names take precedence over indexes so a
// theme called "1" stays reachable.
func Resolve(entries []output.Entry, query string) (*output.Entry, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrNoMatch
	}

	if e := LookupByName(entries, query); e != nil {
		return e, nil
	}

	if n, err := strconv.Atoi(query); err == nil {
		if e := LookupByIndex(entries, n); e != nil {
			return e, nil
		}
		return nil, fmt.Errorf("%w: index %d out of range 1-%d", ErrNoMatch, n, len(entries))
	}

	prefix := strings.ToLower(query)
	var matches []int
	for i := range entries {
		if strings.HasPrefix(strings.ToLower(entries[i].Name), prefix) {
			matches = append(matches, i)
		}
	}

	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("%w: %s", ErrNoMatch, query)
	case 1:
		return &entries[matches[0]], nil
	default:
		names := make([]string, len(matches))
		for i, idx := range matches {
			names[i] = entries[idx].Name
		}
		return nil, fmt.Errorf("%w: %q matches %s", ErrAmbiguous, query, strings.Join(names, ", "))
	}
}

// Search finds entries whose name or path contains term.
// Case-insensitive substring match.
func Search(entries []output.Entry, term string) []output.Entry {
	if term == "" {
		return entries
	}

	term = strings.ToLower(term)
	var result []output.Entry

	for _, e := range entries {
		if strings.Contains(strings.ToLower(e.Name), term) ||
			strings.Contains(strings.ToLower(e.Path), term) {
			result = append(result, e)
		}
	}

	return result
}

// UniqueKinds returns the sorted set of kinds present in entries.
func UniqueKinds(entries []output.Entry) []string {
	seen := make(map[string]bool)
	var kinds []string

	for _, e := range entries {
		if e.Kind != "" && !seen[e.Kind] {
			seen[e.Kind] = true
			kinds = append(kinds, e.Kind)
		}
	}

	slices.Sort(kinds)
	return kinds
}

// Source reports where an entry comes from: "bundled" or "user".
func Source(e output.Entry) string {
	if e.IsBundled {
		return "bundled"
	}
	return "user"
}
