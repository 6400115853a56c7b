// Package pkg provides the core libraries for themescope.
//
// # Overview
//
// Themescope compiles a theme document into the files a utility-first style
// engine needs: a base stylesheet that declares CSS custom properties in four
// scopes (default, dark, portal, dark+portal) and the engine's configuration
// module whose color tokens refer to those properties. An element's colors
// follow whichever scopes are active around it, with dark+portal beating
// portal, portal beating dark, and dark beating the default layer.
//
// # Architecture
//
// The typical data flow:
//
//	themescope.toml
//	       ↓
//	  [config] package (decode + validate)
//	       ↓
//	  [scope] package (layered variable table)  +  [theme] package (tokens, variants)
//	       ↓
//	  [render] packages (css, jsconfig, lattice)
//	       ↓
//	  theme.css / tailwind.config.js / scopes.json / scopes.dot / scopes.svg
//
// # Quick Start
//
//	doc, _ := config.Load("themescope.toml")
//
//	// What does an element inside a dark portal see?
//	vals := doc.Variables().Resolve(scope.NewSet(scope.Dark, scope.Portal))
//	fmt.Println(vals["background-color"])
//
//	// Render both artifacts
//	sheet := css.Render(doc, css.Options{})
//	module := jsconfig.Render(doc, jsconfig.Options{})
//
// # Main Packages
//
// ## Domain
//
// [scope] - Predicates, predicate sets and the layered variable table.
// Resolution, provenance lookup and diffing between tables.
//
// [theme] - Color tokens with var() indirection and custom variants.
//
// [config] - The theme document: TOML decoding, defaults, validation and
// the built-in starter.
//
// ## Rendering
//
// [render] - Banner and helpers shared by the renderers, with one
// subpackage per artifact: css, jsconfig and lattice.
//
// [io] - JSON export and import of resolved scope tables.
//
// ## Infrastructure
//
// [pipeline] - Load, render and cache artifacts. Used by the CLI and the
// HTTP server so both behave the same.
//
// [cache] - Artifact cache backends (file, Redis, null) and key generation.
//
// [store] - Revision history of theme documents (file or MongoDB).
//
// [observability] - Hook registry for pipeline, cache and HTTP events.
//
// [errors] - Coded errors shared by every package.
//
// # Testing
//
//	go test ./pkg/...          # All tests
//	go test ./pkg/scope/...    # Specific package
//
// [scope]: https://pkg.go.dev/github.com/matzehuels/themescope/pkg/scope
// [theme]: https://pkg.go.dev/github.com/matzehuels/themescope/pkg/theme
// [config]: https://pkg.go.dev/github.com/matzehuels/themescope/pkg/config
// [render]: https://pkg.go.dev/github.com/matzehuels/themescope/pkg/render
// [io]: https://pkg.go.dev/github.com/matzehuels/themescope/pkg/io
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/themescope/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/themescope/pkg/cache
// [store]: https://pkg.go.dev/github.com/matzehuels/themescope/pkg/store
// [observability]: https://pkg.go.dev/github.com/matzehuels/themescope/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/themescope/pkg/errors
package pkg
