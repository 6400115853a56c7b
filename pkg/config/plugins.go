package config

import (
	"maps"
	"regexp"
	"slices"

	"github.com/matzehuels/themescope/pkg/errors"
)

// KnownPlugins maps plugin identifiers to the package the style engine
// requires for them.
var KnownPlugins = map[string]string{
	"forms":             "@tailwindcss/forms",
	"typography":        "@tailwindcss/typography",
	"aspect-ratio":      "@tailwindcss/aspect-ratio",
	"container-queries": "@tailwindcss/container-queries",
	"animate":           "tailwindcss-animate",
	"headlessui":        "@headlessui/tailwindcss",
}

// PluginNames returns the known plugin identifiers, sorted.
func PluginNames() []string {
	return slices.Sorted(maps.Keys(KnownPlugins))
}

// Package returns the package the engine loads for this plugin.
func (p Plugin) Package() string {
	return KnownPlugins[p.Name]
}

var optionKeyRegex = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_]*$`)

func validatePlugins(plugins []Plugin) error {
	seen := make(map[string]bool, len(plugins))
	for _, p := range plugins {
		if err := errors.ValidatePluginName(p.Name); err != nil {
			return err
		}
		if _, ok := KnownPlugins[p.Name]; !ok {
			return errors.New(errors.ErrCodeUnknownPlugin, "unknown plugin %q (known: %v)", p.Name, PluginNames())
		}
		if seen[p.Name] {
			return errors.New(errors.ErrCodeInvalidConfig, "plugin %q listed twice", p.Name)
		}
		seen[p.Name] = true

		for k, v := range p.Options {
			if !optionKeyRegex.MatchString(k) {
				return errors.New(errors.ErrCodeInvalidConfig, "plugin %q has invalid option name %q", p.Name, k)
			}
			if err := checkLiteral("plugin "+p.Name+" option "+k, v); err != nil {
				return err
			}
		}
	}
	return nil
}
