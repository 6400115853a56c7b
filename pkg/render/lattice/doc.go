// Package lattice renders the scope precedence lattice as a diagram.
//
// # Overview
//
// The four scope predicates form a small lattice: default at the bottom,
// dark and portal above it, dark+portal on top. An edge points from a layer
// to every layer that overrides it; a dashed edge records that portal wins
// over dark when both single layers declare a key.
//
// Each node is labeled with its predicate and the number of keys it declares,
// so the diagram doubles as a quick audit of where overrides live.
//
// # Usage
//
//	dot := lattice.ToDOT(doc.Variables(), lattice.Options{Selectors: sel})
//	svg, err := lattice.RenderSVG(ctx, dot)
//
// # Options
//
//   - Detailed: list the declared keys in each node
//   - Selectors: show the CSS selector scoping each layer
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering.
package lattice
