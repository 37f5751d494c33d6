package discovery

import (
	"path"
	"strings"

	"wct/internal/domain"
)

// Filter filters fixtures by name pattern
type Filter struct{}

// NewFilter creates a new Filter
func NewFilter() *Filter {
	return &Filter{}
}

// FilterByName filters fixture ids by name pattern using wildcard matching
// Supports patterns like "exit*.wacc", "*Overflow*" or "while/*"
func (f *Filter) FilterByName(ids []domain.FixtureID, pattern string) []domain.FixtureID {
	if pattern == "" {
		return ids
	}

	var filtered []domain.FixtureID
	for _, id := range ids {
		if f.Match(id, pattern) {
			filtered = append(filtered, id)
		}
	}
	return filtered
}

// Match reports whether a fixture id matches pattern.
// An empty pattern matches everything.
func (f *Filter) Match(id domain.FixtureID, pattern string) bool {
	if pattern == "" {
		return true
	}

	full := string(id)
	name := path.Base(full)

	// Patterns with a slash are matched against the whole id, others against the file name
	target := name
	if strings.Contains(pattern, "/") {
		target = full
	}

	// Try to match using path.Match (supports * and ? wildcards)
	if matched, err := path.Match(pattern, target); err == nil && matched {
		return true
	}

	if strings.Contains(pattern, "*") {
		// Flexible substring match for patterns like "*Overflow*": every
		// non-empty part must appear in the target
		hasNonEmptyPart := false
		for _, part := range strings.Split(pattern, "*") {
			if part == "" {
				continue
			}
			hasNonEmptyPart = true
			if !strings.Contains(target, part) {
				return false
			}
		}
		return hasNonEmptyPart
	}

	// If no wildcards, do a simple contains check
	if !strings.Contains(pattern, "?") {
		return strings.Contains(target, pattern)
	}
	return false
}
