package lattice

import (
	"bytes"
	"context"
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/themescope/pkg/scope"
)

// Options configures lattice rendering.
type Options struct {
	// Detailed lists each layer's declared keys in its node label.
	Detailed bool

	// Selectors, when set, adds the scoping selector under each predicate.
	Selectors func(scope.Predicate) string
}

// overrides lists the lattice edges: lower layer -> overriding layer.
var overrides = [][2]scope.Predicate{
	{scope.Default, scope.Dark},
	{scope.Default, scope.Portal},
	{scope.Dark, scope.DarkPortal},
	{scope.Portal, scope.DarkPortal},
}

// ToDOT converts a scope table to Graphviz DOT. Layers that declare no keys
// are drawn dashed and grey.
func ToDOT(t *scope.Table, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph scopes {\n")
	buf.WriteString("  rankdir=BT;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=20, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.6;\n")
	buf.WriteString("  nodesep=0.5;\n")
	buf.WriteString("\n")

	for _, p := range scope.Predicates() {
		label := fmtLabel(t, p, opts)
		attrs := fmtAttrs(t, p, label)
		fmt.Fprintf(&buf, "  %q [%s];\n", p.String(), strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range overrides {
		fmt.Fprintf(&buf, "  %q -> %q;\n", e[0].String(), e[1].String())
	}
	fmt.Fprintf(&buf, "  %q -> %q [style=dashed, constraint=false, label=\"wins\"];\n",
		scope.Portal.String(), scope.Dark.String())
	buf.WriteString("  { rank=same; \"dark\"; \"portal\"; }\n")

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(t *scope.Table, p scope.Predicate, opts Options) string {
	lines := []string{p.String()}
	if opts.Selectors != nil {
		if sel := opts.Selectors(p); sel != "" {
			lines = append(lines, sel)
		}
	}

	n := t.Len(p)
	noun := "keys"
	if n == 1 {
		noun = "key"
	}
	lines = append(lines, fmt.Sprintf("%d %s", n, noun))

	if opts.Detailed {
		layer := t.Layer(p)
		for _, k := range slices.Sorted(maps.Keys(layer)) {
			lines = append(lines, fmt.Sprintf("--%s: %s", k, layer[k]))
		}
	}
	return strings.Join(lines, "\n")
}

func fmtAttrs(t *scope.Table, p scope.Predicate, label string) []string {
	attrs := []string{fmt.Sprintf("label=%q", label)}
	if t.Len(p) == 0 {
		attrs = append(attrs, "style=\"rounded,filled,dashed\"", "fillcolor=lightgrey", "fontcolor=black")
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the root element so the diagram scales to its
// container instead of using Graphviz's point-based width and height.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}
