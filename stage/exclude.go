package stage

import (
	"sort"
	"strings"
)

// ExcludeSet is a read-only set of model names to leave out of extraction.
// It is safe to share between concurrent extractors.
type ExcludeSet map[string]struct{}

// NewExcludeSet builds a set from names, trimming whitespace and ignoring
// empty entries.
func NewExcludeSet(names ...string) ExcludeSet {
	set := make(ExcludeSet, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n != "" {
			set[n] = struct{}{}
		}
	}
	return set
}

// ParseExcludeList parses a comma separated list such as "Rock01, Tree02".
func ParseExcludeList(s string) ExcludeSet {
	return NewExcludeSet(strings.Split(s, ",")...)
}

// Contains reports whether name is excluded.
func (s ExcludeSet) Contains(name string) bool {
	_, ok := s[name]
	return ok
}

// Names returns the excluded names in sorted order.
func (s ExcludeSet) Names() []string {
	names := make([]string, 0, len(s))
	for n := range s {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
