// Package render holds what the artifact renderers share.
//
// # Overview
//
// A theme document produces three kinds of artifacts, one subpackage each:
//
//   - [css]: the base stylesheet with one custom-property block per scope
//   - [jsconfig]: the style engine's configuration module
//   - [lattice]: the scope precedence diagram (DOT and SVG)
//
// Every text artifact starts with [Banner], which names the generator and
// the document hash so a stale file is easy to spot.
//
// [css]: github.com/matzehuels/themescope/pkg/render/css
// [jsconfig]: github.com/matzehuels/themescope/pkg/render/jsconfig
// [lattice]: github.com/matzehuels/themescope/pkg/render/lattice
package render
