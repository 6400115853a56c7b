package config

import (
	"maps"
	"slices"
	"strings"

	"github.com/matzehuels/themescope/pkg/errors"
	"github.com/matzehuels/themescope/pkg/scope"
	"github.com/matzehuels/themescope/pkg/theme"
)

// Validate checks the whole document and builds the variable and token
// tables. It is idempotent; call SetDefaults first.
func (d *Document) Validate() error {
	for _, c := range d.Content {
		if err := errors.ValidatePath(c); err != nil {
			return err
		}
	}

	if err := d.validateDarkMode(); err != nil {
		return err
	}
	if err := d.validateSelectors(); err != nil {
		return err
	}

	vars, err := d.buildVariables()
	if err != nil {
		return err
	}

	tokens, err := theme.NewTokenTable(d.Theme.Colors)
	if err != nil {
		return err
	}
	if err := tokens.Check(vars); err != nil {
		return err
	}
	if err := d.validateTheme(vars); err != nil {
		return err
	}

	if err := validatePlugins(d.Plugins); err != nil {
		return err
	}
	if err := d.validateVariants(); err != nil {
		return err
	}

	d.vars = vars
	d.tokens = tokens
	return nil
}

func (d *Document) validateDarkMode() error {
	switch d.DarkMode.Strategy {
	case StrategySelector, StrategyClass:
		return errors.ValidateSelector("dark_mode", d.DarkMode.Selector)
	case StrategyMedia:
		return nil
	}
	return errors.New(errors.ErrCodeInvalidConfig,
		"unknown dark_mode strategy %q (must be one of: selector, class, media)", d.DarkMode.Strategy)
}

func (d *Document) validateSelectors() error {
	for _, p := range scope.Predicates() {
		sel := d.Selectors.For(p)
		if p == scope.DarkPortal && sel == "" {
			return errors.New(errors.ErrCodeInvalidSelector,
				"selectors.dark_portal is required when the dark or portal selector is a list")
		}
		if err := errors.ValidateSelector(p.String(), sel); err != nil {
			return err
		}
	}
	return nil
}

// buildVariables parses the layer names and builds the scope table. Unknown
// layer names are rejected here, at load time.
func (d *Document) buildVariables() (*scope.Table, error) {
	if len(d.Variables) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "no [variables] declared")
	}

	layers := make(map[scope.Predicate]map[string]string, len(d.Variables))
	for _, name := range slices.Sorted(maps.Keys(d.Variables)) {
		p, err := scope.ParsePredicate(name)
		if err != nil {
			return nil, err
		}
		if _, dup := layers[p]; dup {
			return nil, errors.New(errors.ErrCodeInvalidScope, "scope %s declared twice (as %q)", p, name)
		}
		layers[p] = d.Variables[name]
	}
	if len(layers[scope.Default]) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "[variables.default] must declare at least one key")
	}
	return scope.NewTable(layers)
}

func (d *Document) validateTheme(vars *scope.Table) error {
	declared := make(map[string]bool)
	for _, k := range vars.Keys() {
		declared[k] = true
	}
	check := func(where, v string) error {
		if err := checkLiteral(where, v); err != nil {
			return err
		}
		for _, ref := range theme.References(v) {
			if !declared[ref] {
				return errors.New(errors.ErrCodeUndeclaredVariable, "%s references undeclared variable --%s", where, ref)
			}
		}
		return nil
	}

	for name, stack := range d.Theme.FontFamily {
		if len(stack) == 0 {
			return errors.New(errors.ErrCodeInvalidValue, "font_family.%s is empty", name)
		}
		for _, f := range stack {
			if err := check("font_family."+name, f); err != nil {
				return err
			}
		}
	}
	for _, group := range []struct {
		name   string
		values map[string]string
	}{
		{"box_shadow", d.Theme.BoxShadow},
		{"gradient_color_stops", d.Theme.GradientColorStops},
		{"background_image", d.Theme.BackgroundImage},
		{"animation", d.Theme.Animation},
	} {
		for k, v := range group.values {
			if err := check(group.name+"."+k, v); err != nil {
				return err
			}
		}
	}

	for name, frames := range d.Theme.Keyframes {
		if len(frames) == 0 {
			return errors.New(errors.ErrCodeInvalidValue, "keyframes.%s has no steps", name)
		}
		for step, decls := range frames {
			for prop, v := range decls {
				if err := check("keyframes."+name+"."+step+"."+prop, v); err != nil {
					return err
				}
			}
		}
	}
	for name, anim := range d.Theme.Animation {
		if fields := strings.Fields(anim); len(fields) > 0 && len(d.Theme.Keyframes) > 0 {
			if _, ok := d.Theme.Keyframes[fields[0]]; !ok && !strings.HasPrefix(fields[0], "var(") {
				return errors.New(errors.ErrCodeInvalidConfig, "animation.%s uses unknown keyframes %q", name, fields[0])
			}
		}
	}

	for modifier, decls := range d.Theme.Typography {
		for prop, v := range decls {
			if err := check("typography."+modifier+"."+prop, v); err != nil {
				return err
			}
		}
	}
	return nil
}

func (d *Document) validateVariants() error {
	seen := make(map[string]bool, len(d.Variants))
	for _, v := range d.Variants {
		if err := v.Validate(); err != nil {
			return err
		}
		if seen[v.Name] {
			return errors.New(errors.ErrCodeInvalidConfig, "variant %q declared twice", v.Name)
		}
		seen[v.Name] = true
	}
	return nil
}

// checkLiteral rejects empty values and characters that would break out of
// a declaration or a string literal in generated output.
func checkLiteral(where, v string) error {
	if strings.TrimSpace(v) == "" {
		return errors.New(errors.ErrCodeInvalidValue, "%s is empty", where)
	}
	if strings.ContainsAny(v, ";{}\n\r`") {
		return errors.New(errors.ErrCodeInvalidValue, "%s contains invalid characters: %q", where, v)
	}
	return nil
}
