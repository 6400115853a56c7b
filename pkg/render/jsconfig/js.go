package jsconfig

import (
	"regexp"
	"strings"
)

// object is a JS object literal with ordered keys.
type object struct {
	fields []field
}

type field struct {
	key string
	val any
}

func (o *object) set(key string, val any) {
	o.fields = append(o.fields, field{key, val})
}

func (o *object) empty() bool { return o == nil || len(o.fields) == 0 }

// raw is emitted verbatim, e.g. "colors.green" or a require() call.
type raw string

// list is a JS array literal.
type list []any

// pluginFn is the inline plugin that injects the scope blocks and variants.
type pluginFn struct {
	base     *object
	variants [][2]any // name, selectors list
}

var identRegex = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)

// quote renders s as a single-quoted JS string literal.
func quote(s string) string {
	var b strings.Builder
	b.WriteByte('\'')
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '\'':
			b.WriteString(`\'`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\u2028':
			b.WriteString(`\u2028`)
		case '\u2029':
			b.WriteString(`\u2029`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('\'')
	return b.String()
}

func key(k string) string {
	if identRegex.MatchString(k) {
		return k
	}
	return quote(k)
}

type writer struct {
	b strings.Builder
}

func indent(depth int) string { return strings.Repeat("  ", depth) }

// value writes v at the given nesting depth. The caller has already written
// the indentation of the current line.
func (w *writer) value(v any, depth int) {
	switch v := v.(type) {
	case string:
		w.b.WriteString(quote(v))
	case raw:
		w.b.WriteString(string(v))
	case *object:
		w.object(v, depth)
	case list:
		w.list(v, depth)
	case pluginFn:
		w.plugin(v, depth)
	}
}

func (w *writer) object(o *object, depth int) {
	if o.empty() {
		w.b.WriteString("{}")
		return
	}
	w.b.WriteString("{\n")
	for _, f := range o.fields {
		w.b.WriteString(indent(depth+1) + key(f.key) + ": ")
		w.value(f.val, depth+1)
		w.b.WriteString(",\n")
	}
	w.b.WriteString(indent(depth) + "}")
}

func (w *writer) list(l list, depth int) {
	inline := true
	for _, v := range l {
		if _, ok := v.(string); !ok {
			inline = false
		}
	}
	if inline {
		parts := make([]string, len(l))
		for i, v := range l {
			parts[i] = quote(v.(string))
		}
		w.b.WriteString("[" + strings.Join(parts, ", ") + "]")
		return
	}
	w.b.WriteString("[\n")
	for _, v := range l {
		w.b.WriteString(indent(depth + 1))
		w.value(v, depth+1)
		w.b.WriteString(",\n")
	}
	w.b.WriteString(indent(depth) + "]")
}

func (w *writer) plugin(p pluginFn, depth int) {
	w.b.WriteString("plugin(function ({ addBase, addVariant }) {\n")
	if !p.base.empty() {
		w.b.WriteString(indent(depth+1) + "addBase(")
		w.object(p.base, depth+1)
		w.b.WriteString(");\n")
	}
	for _, v := range p.variants {
		w.b.WriteString(indent(depth+1) + "addVariant(")
		w.value(v[0], depth+1)
		w.b.WriteString(", ")
		w.value(v[1], depth+1)
		w.b.WriteString(");\n")
	}
	w.b.WriteString(indent(depth) + "})")
}

// inline renders a flat string map as a one-line object literal.
func inline(o *object) string {
	if o.empty() {
		return "{}"
	}
	parts := make([]string, len(o.fields))
	for i, f := range o.fields {
		parts[i] = key(f.key) + ": " + quote(f.val.(string))
	}
	return "{ " + strings.Join(parts, ", ") + " }"
}
