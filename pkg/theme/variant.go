package theme

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/matzehuels/themescope/pkg/errors"
)

// Variant is a named pseudo-class combinator. A class prefixed with the
// variant name applies when any of its states matches, e.g. "hocus:" applies
// on hover or focus.
type Variant struct {
	Name   string   `toml:"name" json:"name"`
	States []string `toml:"states" json:"states"`
}

// Hocus is the built-in hover-or-focus variant.
var Hocus = Variant{Name: "hocus", States: []string{"hover", "focus"}}

var (
	variantNameRegex = regexp.MustCompile(`^[a-z][a-z0-9-]*$`)
	stateRegex       = regexp.MustCompile(`^[a-z][a-z-]*(\([^(){};]*\))?$`)
)

// Validate checks the variant name and its pseudo-class states.
func (v Variant) Validate() error {
	if !variantNameRegex.MatchString(v.Name) {
		return errors.New(errors.ErrCodeInvalidConfig, "invalid variant name %q", v.Name)
	}
	if len(v.States) == 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "variant %q has no states", v.Name)
	}
	for _, s := range v.States {
		if !stateRegex.MatchString(s) {
			return errors.New(errors.ErrCodeInvalidConfig, "variant %q has invalid state %q", v.Name, s)
		}
	}
	return nil
}

// EngineSelectors returns the "&:state" selector list handed to the style
// engine's addVariant.
func (v Variant) EngineSelectors() []string {
	out := make([]string, len(v.States))
	for i, s := range v.States {
		out[i] = "&:" + s
	}
	return out
}

// CSSAtRule returns the stylesheet-level declaration of the variant, e.g.
// "@custom-variant hocus (&:hover, &:focus);".
func (v Variant) CSSAtRule() string {
	return fmt.Sprintf("@custom-variant %s (%s);", v.Name, strings.Join(v.EngineSelectors(), ", "))
}

// Selectors returns the concrete selectors a variant-prefixed utility class
// expands to. For "bg-primary" and hocus:
//
//	.hocus\:bg-primary:hover
//	.hocus\:bg-primary:focus
func (v Variant) Selectors(class string) []string {
	escaped := EscapeClass(v.Name + ":" + class)
	out := make([]string, len(v.States))
	for i, s := range v.States {
		out[i] = "." + escaped + ":" + s
	}
	return out
}

// EscapeClass escapes characters that are not valid in a bare CSS class
// selector.
func EscapeClass(class string) string {
	var b strings.Builder
	for _, r := range class {
		switch {
		case r == '-' || r == '_' ||
			(r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9'):
			b.WriteRune(r)
		default:
			b.WriteByte('\\')
			b.WriteRune(r)
		}
	}
	return b.String()
}
