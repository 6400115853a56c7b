// Package jsconfig renders the style engine's configuration module.
//
// The output is a CommonJS module (tailwind.config.js) carrying everything
// the engine needs: the dark-mode strategy, content globs, the theme
// extension, the ordered plugin list, and an inline plugin that injects the
// per-scope custom properties with addBase and registers each variant with
// addVariant.
//
// Semantic colors keep their nesting; "palette:<name>" references become
// "colors.<name>" from the engine's own palette module. Every other value is
// emitted as a string literal exactly as the document declares it.
package jsconfig

import (
	"maps"
	"slices"

	"github.com/matzehuels/themescope/pkg/config"
	"github.com/matzehuels/themescope/pkg/render"
	"github.com/matzehuels/themescope/pkg/scope"
	"github.com/matzehuels/themescope/pkg/theme"
)

// Options controls the generated module.
type Options struct {
	// OmitHeader drops the generated-file banner.
	OmitHeader bool

	// OmitBase leaves the custom-property blocks out of the inline plugin,
	// for projects that load the stylesheet from the css renderer instead.
	OmitBase bool
}

const mediaDark = "@media (prefers-color-scheme: dark)"

// Render produces the configuration module for doc.
func Render(doc *config.Document, opts Options) []byte {
	var w writer

	if !opts.OmitHeader {
		w.b.WriteString("// " + render.Banner(doc) + "\n")
	}
	if usesPalette(doc.Tokens()) {
		w.b.WriteString("const colors = require('tailwindcss/colors');\n")
	}
	w.b.WriteString("const plugin = require('tailwindcss/plugin');\n\n")
	w.b.WriteString("/** @type {import('tailwindcss').Config} */\n")
	w.b.WriteString("module.exports = ")

	root := &object{}
	root.set("darkMode", darkMode(doc))
	content := list{}
	for _, c := range doc.Content {
		content = append(content, c)
	}
	root.set("content", content)

	themeObj := &object{}
	themeObj.set("extend", extend(doc))
	root.set("theme", themeObj)

	plugins := list{}
	for _, p := range doc.Plugins {
		call := "require(" + quote(p.Package()) + ")"
		if len(p.Options) > 0 {
			call += "(" + inline(stringObject(p.Options)) + ")"
		}
		plugins = append(plugins, raw(call))
	}
	plugins = append(plugins, inlinePlugin(doc, opts))
	root.set("plugins", plugins)

	w.object(root, 0)
	w.b.WriteString(";\n")
	return []byte(w.b.String())
}

func darkMode(doc *config.Document) any {
	switch {
	case doc.MediaDark():
		return "media"
	case doc.DarkMode.Selector == ".dark":
		return "class"
	}
	return list{"selector", doc.DarkMode.Selector}
}

func extend(doc *config.Document) *object {
	t := doc.Theme
	ext := &object{}

	if len(t.Colors) > 0 {
		ext.set("colors", colorObject(t.Colors))
	}
	if len(t.FontFamily) > 0 {
		fonts := &object{}
		for _, name := range slices.Sorted(maps.Keys(t.FontFamily)) {
			stack := list{}
			for _, f := range t.FontFamily[name] {
				stack = append(stack, f)
			}
			fonts.set(name, stack)
		}
		ext.set("fontFamily", fonts)
	}
	for _, g := range []struct {
		name   string
		values map[string]string
	}{
		{"boxShadow", t.BoxShadow},
		{"gradientColorStops", t.GradientColorStops},
		{"backgroundImage", t.BackgroundImage},
	} {
		if len(g.values) > 0 {
			ext.set(g.name, stringObject(g.values))
		}
	}
	if len(t.Keyframes) > 0 {
		kf := &object{}
		for _, name := range slices.Sorted(maps.Keys(t.Keyframes)) {
			frames := t.Keyframes[name]
			steps := &object{}
			for _, step := range render.SortSteps(slices.Collect(maps.Keys(frames))) {
				steps.set(step, stringObject(frames[step]))
			}
			kf.set(name, steps)
		}
		ext.set("keyframes", kf)
	}
	if len(t.Animation) > 0 {
		ext.set("animation", stringObject(t.Animation))
	}
	if len(t.Typography) > 0 {
		typo := &object{}
		for _, modifier := range slices.Sorted(maps.Keys(t.Typography)) {
			wrapper := &object{}
			wrapper.set("css", stringObject(t.Typography[modifier]))
			typo.set(modifier, wrapper)
		}
		ext.set("typography", typo)
	}
	return ext
}

// colorObject rebuilds the nested color mapping, translating palette refs.
// DEFAULT leaves are listed first.
func colorObject(m map[string]any) *object {
	o := &object{}
	keys := slices.Sorted(maps.Keys(m))
	if i := slices.Index(keys, "DEFAULT"); i > 0 {
		keys = append([]string{"DEFAULT"}, slices.Delete(keys, i, i+1)...)
	}
	for _, k := range keys {
		switch v := m[k].(type) {
		case string:
			tok := theme.Token{Name: k, Value: v}
			if tok.IsPalette() {
				o.set(k, raw(paletteExpr(tok.Palette())))
			} else {
				o.set(k, v)
			}
		case map[string]any:
			o.set(k, colorObject(v))
		}
	}
	return o
}

func paletteExpr(name string) string {
	if identRegex.MatchString(name) {
		return "colors." + name
	}
	return "colors[" + quote(name) + "]"
}

func stringObject(m map[string]string) *object {
	o := &object{}
	for _, k := range slices.Sorted(maps.Keys(m)) {
		o.set(k, m[k])
	}
	return o
}

func usesPalette(t *theme.TokenTable) bool {
	for _, tok := range t.Tokens() {
		if tok.IsPalette() {
			return true
		}
	}
	return false
}

func inlinePlugin(doc *config.Document, opts Options) pluginFn {
	p := pluginFn{base: &object{}}
	if !opts.OmitBase {
		vars := doc.Variables()
		media := &object{}
		for _, pred := range scope.Predicates() {
			layer := vars.Layer(pred)
			if len(layer) == 0 {
				continue
			}
			decls := &object{}
			for _, k := range slices.Sorted(maps.Keys(layer)) {
				decls.set("--"+k, layer[k])
			}
			sel := doc.Selectors.For(pred)
			if doc.MediaDark() && pred.Set().Has(scope.Dark) {
				media.set(sel, decls)
				continue
			}
			p.base.set(sel, decls)
		}
		if !media.empty() {
			p.base.set(mediaDark, media)
		}
	}
	for _, v := range doc.Variants {
		sels := list{}
		for _, s := range v.EngineSelectors() {
			sels = append(sels, s)
		}
		p.variants = append(p.variants, [2]any{v.Name, sels})
	}
	return p
}
