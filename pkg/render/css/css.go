// Package css renders the base stylesheet of a theme.
//
// The stylesheet declares every scope layer as a block of custom properties
// under its selector, in ascending precedence:
//
//	:root { --background-color: #f9fafb; ... }
//	[data-theme="dark"] { --background-color: #111827; ... }
//	[data-portal] { --background-color: #f1f5f9; ... }
//	[data-theme="dark"] [data-portal], [data-portal][data-theme="dark"] { ... }
//
// Custom properties inherit, so a layer only needs the keys it overrides.
// The combined selector has higher specificity than either single one, which
// makes dark+portal win inside a portal nested in a dark document.
//
// Under the media dark-mode strategy the dark and dark+portal blocks are
// wrapped in "@media (prefers-color-scheme: dark)".
package css

import (
	"maps"
	"slices"
	"strings"

	"github.com/matzehuels/themescope/pkg/config"
	"github.com/matzehuels/themescope/pkg/render"
	"github.com/matzehuels/themescope/pkg/scope"
)

// Options controls which sections are emitted.
type Options struct {
	// OmitHeader drops the generated-file banner.
	OmitHeader bool

	// OmitVariants drops the @custom-variant rules. Engines configured
	// through the JS module register variants there instead.
	OmitVariants bool

	// OmitKeyframes drops the @keyframes blocks.
	OmitKeyframes bool
}

const mediaDark = "@media (prefers-color-scheme: dark)"

// Render produces the stylesheet for doc.
func Render(doc *config.Document, opts Options) []byte {
	var b strings.Builder

	if !opts.OmitHeader {
		b.WriteString("/* " + render.Banner(doc) + " */\n\n")
	}

	if !opts.OmitVariants && len(doc.Variants) > 0 {
		for _, v := range doc.Variants {
			b.WriteString(v.CSSAtRule())
			b.WriteByte('\n')
		}
		b.WriteByte('\n')
	}

	vars := doc.Variables()
	first := true
	for _, p := range scope.Predicates() {
		layer := vars.Layer(p)
		if len(layer) == 0 {
			continue
		}
		if !first {
			b.WriteByte('\n')
		}
		first = false

		sel := doc.Selectors.For(p)
		if doc.MediaDark() && p.Set().Has(scope.Dark) {
			b.WriteString(mediaDark + " {\n")
			writeBlock(&b, "  ", sel, layer, true)
			b.WriteString("}\n")
			continue
		}
		writeBlock(&b, "", sel, layer, true)
	}

	if !opts.OmitKeyframes {
		for _, name := range slices.Sorted(maps.Keys(doc.Theme.Keyframes)) {
			b.WriteString("\n@keyframes " + name + " {\n")
			frames := doc.Theme.Keyframes[name]
			for _, step := range render.SortSteps(slices.Collect(maps.Keys(frames))) {
				writeBlock(&b, "  ", step, frames[step], false)
			}
			b.WriteString("}\n")
		}
	}

	return []byte(b.String())
}

// writeBlock writes "selector { decl; ... }" with sorted declarations.
// Custom properties get their "--" prefix when custom is set.
func writeBlock(b *strings.Builder, indent, selector string, decls map[string]string, custom bool) {
	b.WriteString(indent + formatSelector(selector, indent) + " {\n")
	for _, k := range slices.Sorted(maps.Keys(decls)) {
		name := k
		if custom {
			name = "--" + k
		}
		b.WriteString(indent + "  " + name + ": " + decls[k] + ";\n")
	}
	b.WriteString(indent + "}\n")
}

// formatSelector puts each member of a selector list on its own line.
func formatSelector(sel, indent string) string {
	parts := strings.Split(sel, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return strings.Join(parts, ",\n"+indent)
}
