// Package scope resolves CSS custom-property overrides across rendering scopes.
//
// A theme declares its variables in up to four layers, one per scope
// predicate:
//
//	default      rank 0   :root
//	dark         rank 1   [data-theme="dark"]
//	portal       rank 2   [data-portal]
//	dark+portal  rank 3   both of the above
//
// A layer is a partial mapping from variable key to literal value. Resolving
// a set of active predicates folds the applicable layers in ascending rank,
// last write wins per key. The result is therefore a pure function of the
// active set: it never depends on declaration order or on previous calls.
//
// # Usage
//
//	t := scope.MustTable(map[scope.Predicate]map[string]string{
//	    scope.Default: {"background-color": "#f9fafb"},
//	    scope.Dark:    {"background-color": "#111827"},
//	})
//	vals := t.Resolve(scope.NewSet(scope.Dark))
//	// vals["background-color"] == "#111827"
//
// Keys a layer does not declare are inherited from the next lower applicable
// layer. A key declared only in a narrow layer is absent whenever that layer
// is not applicable.
package scope
