package scope

import (
	"maps"
	"slices"

	"github.com/matzehuels/themescope/pkg/errors"
)

// Table holds the variable layers of a theme, one partial mapping per
// predicate. A Table is immutable once built and safe for concurrent use.
type Table struct {
	layers map[Predicate]map[string]string
	keys   []string
}

// NewTable builds a table from per-predicate layers. The input maps are
// copied. Every predicate, key and value is validated; the first problem is
// returned as a coded error (ErrCodeInvalidScope, ErrCodeInvalidKey,
// ErrCodeInvalidValue or ErrCodeInvalidColor).
func NewTable(layers map[Predicate]map[string]string) (*Table, error) {
	t := &Table{layers: make(map[Predicate]map[string]string, len(predicates))}
	seen := make(map[string]bool)

	for _, p := range slices.Sorted(maps.Keys(layers)) {
		if !p.Valid() {
			return nil, errors.New(errors.ErrCodeInvalidScope,
				"unknown scope predicate %q (must be one of: default, dark, portal, dark+portal)", p)
		}
		src := layers[p]
		if len(src) == 0 {
			continue
		}
		layer := make(map[string]string, len(src))
		for _, k := range slices.Sorted(maps.Keys(src)) {
			if err := errors.ValidateVariableKey(k); err != nil {
				return nil, errors.New(errors.GetCode(err), "scope %s: %s", p, errors.UserMessage(err))
			}
			if err := errors.ValidateValue(k, src[k]); err != nil {
				return nil, errors.New(errors.GetCode(err), "scope %s: %s", p, errors.UserMessage(err))
			}
			layer[k] = src[k]
			seen[k] = true
		}
		t.layers[p] = layer
	}

	t.keys = slices.Sorted(maps.Keys(seen))
	return t, nil
}

// MustTable is like NewTable but panics on invalid input.
// It is intended for statically known tables.
func MustTable(layers map[Predicate]map[string]string) *Table {
	t, err := NewTable(layers)
	if err != nil {
		panic(err)
	}
	return t
}

// Keys returns every key declared by any layer, sorted.
func (t *Table) Keys() []string {
	return slices.Clone(t.keys)
}

// Layer returns a copy of the partial mapping declared for p.
func (t *Table) Layer(p Predicate) map[string]string {
	return maps.Clone(t.layers[p])
}

// Layers returns a copy of every non-empty layer.
func (t *Table) Layers() map[Predicate]map[string]string {
	out := make(map[Predicate]map[string]string, len(t.layers))
	for p, l := range t.layers {
		out[p] = maps.Clone(l)
	}
	return out
}

// Declared reports whether p declares key directly.
func (t *Table) Declared(p Predicate, key string) bool {
	_, ok := t.layers[p][key]
	return ok
}

// Len returns the number of keys declared by p.
func (t *Table) Len(p Predicate) int {
	return len(t.layers[p])
}

// Resolve returns the merged key/value mapping for the active set.
//
// Layers are folded in ascending rank: default, dark, portal, dark+portal,
// skipping layers that do not apply. The output covers every key declared by
// an applied layer.
func (t *Table) Resolve(active Set) map[string]string {
	out := make(map[string]string, len(t.keys))
	for _, p := range active.Layers() {
		for k, v := range t.layers[p] {
			out[k] = v
		}
	}
	return out
}

// Lookup resolves a single key and reports which layer supplied the value.
func (t *Table) Lookup(active Set, key string) (value string, from Predicate, ok bool) {
	layers := active.Layers()
	for i := len(layers) - 1; i >= 0; i-- {
		if v, found := t.layers[layers[i]][key]; found {
			return v, layers[i], true
		}
	}
	return "", "", false
}

// Matrix resolves every predicate set at once.
func (t *Table) Matrix() map[Set]map[string]string {
	out := make(map[Set]map[string]string, 4)
	for _, s := range AllSets() {
		out[s] = t.Resolve(s)
	}
	return out
}
