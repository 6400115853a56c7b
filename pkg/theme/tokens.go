// Package theme maps semantic color names to custom-property indirections.
//
// Theme colors never carry literal values for theme-aware roles. Instead a
// name such as "background" points at "var(--background-color)" and the
// scope table decides, per rendering context, what the property holds:
//
//	primary          rgb(var(--primary-color-rgb) / <alpha-value>)
//	primary.darker   var(--primary-color-darker)
//	text.muted       var(--text-muted)
//	success          palette:green
//
// Values of the form "palette:<name>" reference one of the style engine's
// built-in palettes and are passed through untouched.
package theme

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/matzehuels/themescope/pkg/errors"
	"github.com/matzehuels/themescope/pkg/scope"
)

// PalettePrefix marks a reference to one of the engine's built-in palettes.
const PalettePrefix = "palette:"

// defaultLeaf is the nested key that collapses onto its parent name.
const defaultLeaf = "DEFAULT"

// alphaPlaceholder is substituted by the engine with the utility's opacity.
const alphaPlaceholder = "<alpha-value>"

// Token is one flattened color entry.
type Token struct {
	Name  string // dotted path, e.g. "tag.location.bg"
	Value string // indirection or literal
}

// IsPalette reports whether the token references a built-in palette.
func (t Token) IsPalette() bool {
	return strings.HasPrefix(t.Value, PalettePrefix)
}

// Palette returns the referenced palette name, or "" when the token is not a
// palette reference.
func (t Token) Palette() string {
	if !t.IsPalette() {
		return ""
	}
	return strings.TrimPrefix(t.Value, PalettePrefix)
}

// TokenTable is the flattened, immutable set of semantic color tokens.
type TokenTable struct {
	tokens map[string]Token
	names  []string
}

// NewTokenTable flattens a nested color mapping as decoded from the theme
// document. Leaves must be strings; a "DEFAULT" leaf is addressed by its
// parent's name.
func NewTokenTable(colors map[string]any) (*TokenTable, error) {
	t := &TokenTable{tokens: make(map[string]Token)}
	if err := t.flatten("", colors); err != nil {
		return nil, err
	}
	t.names = slices.Sorted(maps.Keys(t.tokens))
	return t, nil
}

func (t *TokenTable) flatten(prefix string, m map[string]any) error {
	for _, k := range slices.Sorted(maps.Keys(m)) {
		name := k
		if prefix != "" {
			name = prefix + "." + k
			if k == defaultLeaf {
				name = prefix
			}
		}

		switch v := m[k].(type) {
		case string:
			if strings.TrimSpace(v) == "" {
				return errors.New(errors.ErrCodeInvalidValue, "color %q has an empty value", name)
			}
			if strings.ContainsAny(v, ";{}") {
				return errors.New(errors.ErrCodeInvalidValue, "color %q contains invalid characters: %q", name, v)
			}
			if _, dup := t.tokens[name]; dup {
				return errors.New(errors.ErrCodeInvalidConfig, "color %q is defined twice", name)
			}
			t.tokens[name] = Token{Name: name, Value: v}
		case map[string]any:
			if err := t.flatten(name, v); err != nil {
				return err
			}
		default:
			return errors.New(errors.ErrCodeInvalidValue, "color %q must be a string or a table, got %T", name, v)
		}
	}
	return nil
}

// Names returns every token name, sorted.
func (t *TokenTable) Names() []string {
	return slices.Clone(t.names)
}

// Tokens returns every token ordered by name.
func (t *TokenTable) Tokens() []Token {
	out := make([]Token, len(t.names))
	for i, n := range t.names {
		out[i] = t.tokens[n]
	}
	return out
}

// Len returns the number of tokens.
func (t *TokenTable) Len() int {
	return len(t.names)
}

// Lookup returns the indirection bound to name.
func (t *TokenTable) Lookup(name string) (Token, error) {
	tok, ok := t.tokens[name]
	if !ok {
		return Token{}, errors.New(errors.ErrCodeTokenNotFound, "unknown color token %q", name)
	}
	return tok, nil
}

// varRef is one var() call found in a value. Fallback holds the raw text
// after the first comma, which may itself contain var() calls.
type varRef struct {
	start, end  int // byte offsets of "var(" and one past the matching ")"
	name        string
	fallback    string
	hasFallback bool
}

// scanVarRefs returns the top-level var() calls in value. Calls nested inside
// a fallback are left in that fallback's text. Text that does not form a
// well-formed var(--name ...) call is skipped.
func scanVarRefs(value string) []varRef {
	var refs []varRef
	for i := 0; i < len(value); {
		j := strings.Index(value[i:], "var(")
		if j < 0 {
			break
		}
		at := i + j
		if ref, ok := parseVarRef(value, at); ok && (at == 0 || !isIdentByte(value[at-1])) {
			refs = append(refs, ref)
			i = ref.end
			continue
		}
		i = at + len("var(")
	}
	return refs
}

func parseVarRef(s string, at int) (varRef, bool) {
	i := skipSpace(s, at+len("var("))
	if !strings.HasPrefix(s[i:], "--") {
		return varRef{}, false
	}
	i += 2
	n := i
	for n < len(s) && isNameByte(s[n]) {
		n++
	}
	if n == i {
		return varRef{}, false
	}
	ref := varRef{start: at, name: s[i:n]}
	i = skipSpace(s, n)
	if i >= len(s) {
		return varRef{}, false
	}
	switch s[i] {
	case ')':
		ref.end = i + 1
		return ref, true
	case ',':
		depth := 0
		for k := i + 1; k < len(s); k++ {
			switch s[k] {
			case '(':
				depth++
			case ')':
				if depth == 0 {
					ref.fallback = strings.TrimSpace(s[i+1 : k])
					ref.hasFallback = true
					ref.end = k + 1
					return ref, true
				}
				depth--
			}
		}
	}
	return varRef{}, false
}

func skipSpace(s string, i int) int {
	for i < len(s) && (s[i] == ' ' || s[i] == '\t' || s[i] == '\n') {
		i++
	}
	return i
}

func isNameByte(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= '0' && c <= '9' || c == '-'
}

func isIdentByte(c byte) bool {
	return isNameByte(c) || c >= 'A' && c <= 'Z' || c == '_'
}

// References returns the variable keys a value refers to, in order of
// appearance and without duplicates. Keys referenced inside var() fallbacks
// are included.
func References(value string) []string {
	var out []string
	collectReferences(value, &out)
	return out
}

func collectReferences(value string, out *[]string) {
	for _, ref := range scanVarRefs(value) {
		if !slices.Contains(*out, ref.name) {
			*out = append(*out, ref.name)
		}
		if ref.hasFallback {
			collectReferences(ref.fallback, out)
		}
	}
}

// Check verifies that every variable referenced by a token is declared by
// at least one layer of vars.
func (t *TokenTable) Check(vars *scope.Table) error {
	declared := make(map[string]bool)
	for _, k := range vars.Keys() {
		declared[k] = true
	}
	for _, n := range t.names {
		for _, ref := range References(t.tokens[n].Value) {
			if !declared[ref] {
				return errors.New(errors.ErrCodeUndeclaredVariable,
					"color %q references undeclared variable --%s", n, ref)
			}
		}
	}
	return nil
}

// Resolve returns the literal a token takes in the given scope set: every
// var(--x) is replaced by x's resolved value and the alpha placeholder by 1.
// Palette references resolve to themselves.
func (t *TokenTable) Resolve(name string, active scope.Set, vars *scope.Table) (string, error) {
	tok, err := t.Lookup(name)
	if err != nil {
		return "", err
	}
	return Substitute(tok.Value, active, vars)
}

// Substitute expands custom-property references in value for the active set.
// A reference whose key is not resolvable in that set is replaced by its
// expanded var() fallback argument when present, else it is an
// ErrCodeUndeclaredVariable error.
func Substitute(value string, active scope.Set, vars *scope.Table) (string, error) {
	out, err := expand(value, active, vars.Resolve(active))
	if err != nil {
		return "", err
	}
	return strings.ReplaceAll(out, alphaPlaceholder, "1"), nil
}

func expand(value string, active scope.Set, resolved map[string]string) (string, error) {
	refs := scanVarRefs(value)
	if len(refs) == 0 {
		return value, nil
	}
	var b strings.Builder
	last := 0
	for _, ref := range refs {
		b.WriteString(value[last:ref.start])
		last = ref.end
		if v, ok := resolved[ref.name]; ok {
			b.WriteString(v)
			continue
		}
		if !ref.hasFallback {
			return "", errors.New(errors.ErrCodeUndeclaredVariable,
				"variable --%s has no value in scope %s", ref.name, active)
		}
		fb, err := expand(ref.fallback, active, resolved)
		if err != nil {
			return "", err
		}
		b.WriteString(fb)
	}
	b.WriteString(value[last:])
	return b.String(), nil
}

// String implements fmt.Stringer for debugging output.
func (t Token) String() string {
	return fmt.Sprintf("%s = %s", t.Name, t.Value)
}
