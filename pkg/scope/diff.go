package scope

import (
	"maps"
	"slices"
)

// ChangeKind classifies a difference between two resolved tables.
type ChangeKind string

const (
	Added   ChangeKind = "added"
	Removed ChangeKind = "removed"
	Changed ChangeKind = "changed"
)

// Change is one key whose resolved value differs between two tables for a
// given predicate set.
type Change struct {
	Set  Set        `json:"scope"`
	Key  string     `json:"key"`
	Kind ChangeKind `json:"kind"`
	Old  string     `json:"old,omitempty"`
	New  string     `json:"new,omitempty"`
}

// Diff compares the resolved output of two tables for every predicate set.
// Changes are ordered by set (default, dark, portal, dark+portal) and then by
// key. A nil table is treated as empty.
func Diff(a, b *Table) []Change {
	var changes []Change
	for _, s := range AllSets() {
		before := resolveOrEmpty(a, s)
		after := resolveOrEmpty(b, s)

		keys := make(map[string]bool, len(before)+len(after))
		for k := range before {
			keys[k] = true
		}
		for k := range after {
			keys[k] = true
		}

		for _, k := range slices.Sorted(maps.Keys(keys)) {
			oldV, inOld := before[k]
			newV, inNew := after[k]
			switch {
			case !inOld:
				changes = append(changes, Change{Set: s, Key: k, Kind: Added, New: newV})
			case !inNew:
				changes = append(changes, Change{Set: s, Key: k, Kind: Removed, Old: oldV})
			case oldV != newV:
				changes = append(changes, Change{Set: s, Key: k, Kind: Changed, Old: oldV, New: newV})
			}
		}
	}
	return changes
}

func resolveOrEmpty(t *Table, s Set) map[string]string {
	if t == nil {
		return nil
	}
	return t.Resolve(s)
}
