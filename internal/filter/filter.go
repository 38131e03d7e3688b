package filter

import (
	"fmt"
	"regexp"
)

// matchNone cannot match any input, including the empty string.
var matchNone = regexp.MustCompile(`^[^\s\S]$`)

// Set holds the compiled filename patterns for one repository.
type Set struct {
	exprs    []string
	patterns []*regexp.Regexp
}

// Compile anchors every expression at both ends so a pattern has to match
// the entire filename, not a substring. The empty expression compiles to a
// matcher that matches nothing; it is used to intentionally exclude all
// assets of a repository.
func Compile(exprs []string) (*Set, error) {
	s := &Set{exprs: exprs}
	for _, expr := range exprs {
		if expr == "" {
			s.patterns = append(s.patterns, matchNone)
			continue
		}
		pattern, err := regexp.Compile(fmt.Sprintf("^(?:%s)$", expr))
		if err != nil {
			return nil, fmt.Errorf("invalid filter %q: %w", expr, err)
		}
		s.patterns = append(s.patterns, pattern)
	}
	return s, nil
}

// Empty reports whether the set has no patterns.
func (s *Set) Empty() bool {
	return len(s.patterns) == 0
}

// Selects reports whether an asset with the given name should be downloaded:
// an empty set selects everything, otherwise at least one pattern must fully
// match.
func (s *Set) Selects(name string) bool {
	if s.Empty() {
		return true
	}
	return s.Matches(name)
}

// Matches reports whether some pattern fully matches the name. Unlike
// Selects, an empty set matches nothing; clear-matches deletion relies on
// this so a repository without filters never touches existing files.
func (s *Set) Matches(name string) bool {
	for _, pattern := range s.patterns {
		if pattern.MatchString(name) {
			return true
		}
	}
	return false
}

// Exprs returns the expressions the set was compiled from.
func (s *Set) Exprs() []string {
	return s.exprs
}
