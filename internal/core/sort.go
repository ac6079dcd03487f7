package core

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jmylchreest/themecast/internal/adapter/output"
)

// SortField represents a field to sort by.
type SortField string

const (
	SortByName     SortField = "name"
	SortByKind     SortField = "kind"
	SortByModified SortField = "modified"
	SortBySize     SortField = "size"
)

// SortOrder represents ascending or descending order.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// SortOptions specifies sorting criteria.
type SortOptions struct {
	Field SortField
	Order SortOrder
}

// DefaultSortOptions returns default sort options (by name, A to Z).
func DefaultSortOptions() SortOptions {
	return SortOptions{
		Field: SortByName,
		Order: SortAsc,
	}
}

// Sort sorts entries in place. Ties are broken by name so the order is
// stable across runs.
func Sort(entries []output.Entry, opts SortOptions) {
	if len(entries) == 0 {
		return
	}

	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		var cmp int

		switch opts.Field {
		case SortByKind:
			cmp = strings.Compare(a.Kind, b.Kind)
		case SortByModified:
			cmp = a.ModTime.Compare(b.ModTime)
		case SortBySize:
			cmp = compareInt64(a.Size, b.Size)
		}
		if cmp == 0 {
			cmp = strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
		}

		if opts.Order == SortDesc {
			return cmp > 0
		}
		return cmp < 0
	})
}

func compareInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// ParseSortField parses a sort field string.
func ParseSortField(s string) (SortField, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "name", "n":
		return SortByName, nil
	case "kind", "k":
		return SortByKind, nil
	case "modified", "mtime", "time", "m":
		return SortByModified, nil
	case "size", "s":
		return SortBySize, nil
	default:
		return "", fmt.Errorf("invalid sort field: %s (use name, kind, modified, or size)", s)
	}
}

// ParseSortOrder parses a sort order string.
func ParseSortOrder(s string) (SortOrder, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "asc", "ascending", "a":
		return SortAsc, nil
	case "desc", "descending", "d":
		return SortDesc, nil
	default:
		return "", fmt.Errorf("invalid sort order: %s (use asc or desc)", s)
	}
}
