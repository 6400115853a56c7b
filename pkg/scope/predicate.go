package scope

import (
	"slices"
	"strings"

	"github.com/matzehuels/themescope/pkg/errors"
)

// Predicate names a rendering context that activates a layer of overrides.
type Predicate string

const (
	Default    Predicate = "default"
	Dark       Predicate = "dark"
	Portal     Predicate = "portal"
	DarkPortal Predicate = "dark+portal"
)

// predicates lists every predicate in ascending specificity.
var predicates = []Predicate{Default, Dark, Portal, DarkPortal}

// Predicates returns all predicates ordered by rank, lowest first.
func Predicates() []Predicate {
	return slices.Clone(predicates)
}

// Rank returns the specificity of p. Higher ranks win.
// Unknown predicates rank -1.
func (p Predicate) Rank() int {
	return slices.Index(predicates, p)
}

// Valid reports whether p is one of the four known predicates.
func (p Predicate) Valid() bool {
	return p.Rank() >= 0
}

// String returns the predicate name.
func (p Predicate) String() string {
	return string(p)
}

// Set returns the predicate set whose most specific layer is p.
func (p Predicate) Set() Set {
	switch p {
	case Dark:
		return darkBit
	case Portal:
		return portalBit
	case DarkPortal:
		return darkBit | portalBit
	}
	return 0
}

// aliases maps accepted spellings to canonical predicates.
var aliases = map[string]Predicate{
	"default":     Default,
	"light":       Default,
	"root":        Default,
	"dark":        Dark,
	"portal":      Portal,
	"dark+portal": DarkPortal,
	"portal+dark": DarkPortal,
}

// ParsePredicate parses a predicate name. Matching is case-insensitive and
// accepts "light" and "root" for the default scope and "portal+dark" for the
// combined scope.
//
// Unknown names return an ErrCodeInvalidScope error; configuration loading
// relies on this to reject unrecognized scopes before any resolution happens.
func ParsePredicate(s string) (Predicate, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if p, ok := aliases[name]; ok {
		return p, nil
	}
	return "", errors.New(errors.ErrCodeInvalidScope,
		"unknown scope predicate %q (must be one of: default, dark, portal, dark+portal)", s)
}
