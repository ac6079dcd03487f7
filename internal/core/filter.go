package core

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/jmylchreest/themecast/internal/adapter/output"
)

// FilterOp represents a comparison operator.
type FilterOp string

const (
	FilterOpEqual     FilterOp = "="  // Exact match
	FilterOpNotEqual  FilterOp = "!=" // Not equal
	FilterOpContains  FilterOp = "~"  // Contains substring
	FilterOpRegex     FilterOp = "~=" // Regex match
	FilterOpGreater   FilterOp = ">"  // Greater than
	FilterOpLess      FilterOp = "<"  // Less than
	FilterOpGreaterEq FilterOp = ">=" // Greater than or equal
	FilterOpLessEq    FilterOp = "<=" // Less than or equal
)

// FilterCondition represents a single filter condition.
type FilterCondition struct {
	Field    string   // name, kind, source, path, current, default, modified, size
	Operator FilterOp // Comparison operator
	Value    string   // Value to compare against

	regex   *regexp.Regexp
	sizeVal int64
	timeVal time.Time
	boolVal bool
}

// FilterExpr represents a compound filter expression.
// Multiple conditions are ANDed together.
type FilterExpr struct {
	Conditions []FilterCondition
}

// FilterOptions specifies criteria for filtering entries.
type FilterOptions struct {
	Kind   string // Exact match on kind (palette, stylesheet, invalid)
	Source string // bundled or user
	Limit  int    // Maximum results (0=unlimited)
}

// Filter filters entries based on the provided options.
func Filter(entries []output.Entry, opts FilterOptions) []output.Entry {
	result := make([]output.Entry, 0, len(entries))

	for _, e := range entries {
		if opts.Kind != "" && !strings.EqualFold(e.Kind, opts.Kind) {
			continue
		}
		if opts.Source != "" && !strings.EqualFold(Source(e), opts.Source) {
			continue
		}
		result = append(result, e)
	}

	if opts.Limit > 0 && len(result) > opts.Limit {
		result = result[:opts.Limit]
	}

	return result
}

// ParseDuration parses a duration string with extended formats.
// Supports: 48h, 7d, 1w, 0 (all time)
func ParseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)

	if s == "0" || s == "" {
		return 0, nil
	}

	if daysStr, found := strings.CutSuffix(s, "d"); found {
		days, err := strconv.Atoi(daysStr)
		if err != nil {
			return 0, fmt.Errorf("invalid duration: %s", s)
		}
		return time.Duration(days) * 24 * time.Hour, nil
	}

	if weeksStr, found := strings.CutSuffix(s, "w"); found {
		weeks, err := strconv.Atoi(weeksStr)
		if err != nil {
			return 0, fmt.Errorf("invalid duration: %s", s)
		}
		return time.Duration(weeks) * 7 * 24 * time.Hour, nil
	}

	return time.ParseDuration(s)
}

// ParseFilter parses a filter expression string into a FilterExpr.
// Format: "field=value,field2~value2,field3>value3"
// Multiple conditions are comma-separated and ANDed together.
//
// Supported fields: name, kind, source, path, current, default, modified, size
// Supported operators: = (equal), != (not equal), ~ (contains), ~= (regex), >, <, >=, <=
//
// Examples:
//   - "kind=palette" - palettes only
//   - "source=user,modified>1d" - user themes edited in the last day
//   - "name~=^cat" - names starting with "cat"
//   - "size>=2KB" - files of at least 2 kB
func ParseFilter(expr string) (*FilterExpr, error) {
	if expr == "" {
		return &FilterExpr{}, nil
	}

	filter := &FilterExpr{
		Conditions: make([]FilterCondition, 0),
	}

	for part := range strings.SplitSeq(expr, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		cond, err := parseCondition(part)
		if err != nil {
			return nil, err
		}
		filter.Conditions = append(filter.Conditions, cond)
	}

	return filter, nil
}

// parseCondition parses a single condition like "kind=palette".
func parseCondition(s string) (FilterCondition, error) {
	// Longest operators first so "!=" is not read as "="
	operators := []FilterOp{
		FilterOpNotEqual,
		FilterOpGreaterEq,
		FilterOpLessEq,
		FilterOpRegex,
		FilterOpEqual,
		FilterOpContains,
		FilterOpGreater,
		FilterOpLess,
	}

	for _, op := range operators {
		idx := strings.Index(s, string(op))
		if idx > 0 {
			cond := FilterCondition{
				Field:    strings.ToLower(strings.TrimSpace(s[:idx])),
				Operator: op,
				Value:    strings.TrimSpace(s[idx+len(op):]),
			}

			if err := cond.init(time.Now()); err != nil {
				return FilterCondition{}, err
			}

			return cond, nil
		}
	}

	return FilterCondition{}, fmt.Errorf("invalid filter condition: %s (missing operator)", s)
}

// init normalises the field and pre-parses the value.
func (c *FilterCondition) init(now time.Time) error {
	switch c.Field {
	case "name", "n":
		c.Field = "name"
	case "kind", "type":
		c.Field = "kind"
	case "source", "src":
		c.Field = "source"
	case "path", "file":
		c.Field = "path"
	case "current":
		c.boolVal = parseBool(c.Value)
	case "default":
		c.boolVal = parseBool(c.Value)
	case "modified", "mtime", "time":
		c.Field = "modified"
		dur, err := ParseDuration(c.Value)
		if err != nil {
			return fmt.Errorf("invalid modified value: %w", err)
		}
		c.timeVal = now.Add(-dur)
	case "size":
		n, err := humanize.ParseBytes(c.Value)
		if err != nil {
			return fmt.Errorf("invalid size value: %w", err)
		}
		c.sizeVal = int64(n)
	default:
		return fmt.Errorf("unknown filter field: %s", c.Field)
	}

	if c.Operator == FilterOpRegex {
		re, err := regexp.Compile(c.Value)
		if err != nil {
			return fmt.Errorf("invalid regex: %w", err)
		}
		c.regex = re
	}

	return nil
}

// parseBool parses various boolean representations.
func parseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "yes", "1", "y", "t":
		return true
	default:
		return false
	}
}

// Match tests if an entry matches the filter expression.
// All conditions must match (AND logic).
func (f *FilterExpr) Match(e output.Entry) bool {
	for _, cond := range f.Conditions {
		if !cond.Match(e) {
			return false
		}
	}
	return true
}

// Match tests if an entry matches this single condition.
func (c *FilterCondition) Match(e output.Entry) bool {
	switch c.Field {
	case "name":
		return c.matchString(e.Name)
	case "kind":
		return c.matchString(e.Kind)
	case "source":
		return c.matchString(Source(e))
	case "path":
		return c.matchString(e.Path)
	case "current":
		return c.matchBool(e.IsCurrent)
	case "default":
		return c.matchBool(e.IsDefault)
	case "modified":
		// Bundled themes have no modification time
		if e.ModTime.IsZero() {
			return false
		}
		return c.matchTime(e.ModTime)
	case "size":
		return c.matchInt(e.Size, c.sizeVal)
	default:
		return false
	}
}

func (c *FilterCondition) matchString(fieldValue string) bool {
	switch c.Operator {
	case FilterOpEqual:
		return fieldValue == c.Value
	case FilterOpNotEqual:
		return fieldValue != c.Value
	case FilterOpContains:
		return strings.Contains(strings.ToLower(fieldValue), strings.ToLower(c.Value))
	case FilterOpRegex:
		return c.regex != nil && c.regex.MatchString(fieldValue)
	default:
		return false
	}
}

func (c *FilterCondition) matchInt(fieldValue, condValue int64) bool {
	switch c.Operator {
	case FilterOpEqual:
		return fieldValue == condValue
	case FilterOpNotEqual:
		return fieldValue != condValue
	case FilterOpGreater:
		return fieldValue > condValue
	case FilterOpLess:
		return fieldValue < condValue
	case FilterOpGreaterEq:
		return fieldValue >= condValue
	case FilterOpLessEq:
		return fieldValue <= condValue
	default:
		return false
	}
}

func (c *FilterCondition) matchBool(fieldValue bool) bool {
	switch c.Operator {
	case FilterOpEqual:
		return fieldValue == c.boolVal
	case FilterOpNotEqual:
		return fieldValue != c.boolVal
	default:
		return false
	}
}

// matchTime compares against now minus the parsed duration, so
// "modified>1h" means changed within the last hour.
func (c *FilterCondition) matchTime(fieldValue time.Time) bool {
	switch c.Operator {
	case FilterOpGreater:
		return fieldValue.After(c.timeVal)
	case FilterOpLess:
		return fieldValue.Before(c.timeVal)
	case FilterOpGreaterEq:
		return !fieldValue.Before(c.timeVal)
	case FilterOpLessEq:
		return !fieldValue.After(c.timeVal)
	default:
		return false
	}
}

// FilterWithExpr filters entries using a filter expression.
func FilterWithExpr(entries []output.Entry, expr *FilterExpr) []output.Entry {
	if expr == nil || len(expr.Conditions) == 0 {
		return entries
	}

	result := make([]output.Entry, 0, len(entries))
	for _, e := range entries {
		if expr.Match(e) {
			result = append(result, e)
		}
	}
	return result
}
