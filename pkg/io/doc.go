// Package io provides JSON import and export for scope tables.
//
// # Overview
//
// The JSON form of a table carries both the declared layers and the resolved
// value set for every combination of active predicates. Tools that only need
// lookups read "scopes"; [ReadJSON] rebuilds the table from "layers".
//
// # JSON Format
//
//	{
//	  "layers": {
//	    "default": {"background-color": "#f9fafb"},
//	    "dark":    {"background-color": "#111827"}
//	  },
//	  "scopes": [
//	    {"scope": "default", "values": {"background-color": "#f9fafb"}},
//	    {"scope": "dark", "values": {"background-color": "#111827"}},
//	    {"scope": "portal", "values": {"background-color": "#f9fafb"}},
//	    {"scope": "dark,portal", "values": {"background-color": "#111827"}}
//	  ]
//	}
//
// Layer names are scope predicates ("default", "dark", "portal",
// "dark+portal"). Scope names are predicate sets as printed by
// [scope.Set.String].
//
// # Import
//
// [ReadJSON] validates layer names, keys and values exactly like the theme
// document loader does. When "scopes" is present, each entry must match what
// the rebuilt table resolves to; a mismatch means the file was edited by hand
// and is rejected with INVALID_INPUT.
//
// [scope.Set.String]: github.com/matzehuels/themescope/pkg/scope.Set.String
package io
