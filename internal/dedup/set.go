package dedup

import "sort"

// Set is a set of signatures.
type Set map[string]struct{}

// NewSet returns a set holding sigs.
func NewSet(sigs ...string) Set {
	s := make(Set, len(sigs))
	for _, sig := range sigs {
		s[sig] = struct{}{}
	}
	return s
}

// Has reports whether sig is in the set.
func (s Set) Has(sig string) bool {
	_, ok := s[sig]
	return ok
}

// Add inserts sig.
func (s Set) Add(sig string) { s[sig] = struct{}{} }

// Sorted returns the members in lexical order.
func (s Set) Sorted() []string {
	out := make([]string, 0, len(s))
	for sig := range s {
		out = append(out, sig)
	}
	sort.Strings(out)
	return out
}
