package scope

import (
	"strings"

	"github.com/matzehuels/themescope/pkg/errors"
)

// Set is the set of predicates active on a rendering context.
// The zero value is the default context.
type Set uint8

const (
	darkBit Set = 1 << iota
	portalBit
)

// NewSet builds a set from predicates. Default contributes nothing and
// DarkPortal contributes both dark and portal.
func NewSet(ps ...Predicate) Set {
	var s Set
	for _, p := range ps {
		s |= p.Set()
	}
	return s
}

// ParseSet parses a comma or space separated list of predicates, e.g.
// "dark,portal". An empty string is the default set.
func ParseSet(s string) (Set, error) {
	var set Set
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' })
	for _, f := range fields {
		p, err := ParsePredicate(f)
		if err != nil {
			return 0, err
		}
		set |= p.Set()
	}
	return set, nil
}

// AllSets returns the four distinct predicate sets in rank order of their
// most specific layer.
func AllSets() []Set {
	return []Set{0, darkBit, portalBit, darkBit | portalBit}
}

// Has reports whether p is active in s. Default is always active.
func (s Set) Has(p Predicate) bool {
	switch p {
	case Default:
		return true
	case Dark:
		return s&darkBit != 0
	case Portal:
		return s&portalBit != 0
	case DarkPortal:
		return s&(darkBit|portalBit) == darkBit|portalBit
	}
	return false
}

// Layers returns the predicates whose layers apply to s, lowest rank first.
func (s Set) Layers() []Predicate {
	out := make([]Predicate, 0, len(predicates))
	for _, p := range predicates {
		if s.Has(p) {
			out = append(out, p)
		}
	}
	return out
}

// Top returns the most specific predicate applying to s.
func (s Set) Top() Predicate {
	l := s.Layers()
	return l[len(l)-1]
}

// String renders the set the way ParseSet reads it: "default", "dark",
// "portal" or "dark,portal".
func (s Set) String() string {
	switch s & (darkBit | portalBit) {
	case darkBit:
		return "dark"
	case portalBit:
		return "portal"
	case darkBit | portalBit:
		return "dark,portal"
	}
	return "default"
}

// MarshalText implements encoding.TextMarshaler so sets can key JSON maps.
func (s Set) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Set) UnmarshalText(b []byte) error {
	v, err := ParseSet(string(b))
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidScope, err, "decode scope set")
	}
	*s = v
	return nil
}
