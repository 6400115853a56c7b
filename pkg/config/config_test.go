package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/themescope/pkg/errors"
	"github.com/matzehuels/themescope/pkg/scope"
)

const minimal = `
[variables.default]
background-color = "#f9fafb"

[variables.dark]
background-color = "#111827"

[theme.colors]
background = "var(--background-color)"
`

func TestParseStarter(t *testing.T) {
	doc, err := Parse(Starter())
	if err != nil {
		t.Fatalf("Parse(Starter()) error: %v", err)
	}

	vars := doc.Variables()
	tests := []struct {
		set  scope.Set
		key  string
		want string
	}{
		{scope.NewSet(), "background-color", "#f9fafb"},
		{scope.NewSet(scope.Dark), "background-color", "#111827"},
		{scope.NewSet(scope.Portal), "background-color", "#f1f5f9"},
		{scope.NewSet(scope.Dark, scope.Portal), "background-color", "#0f172a"},
		{scope.NewSet(scope.Portal), "primary-color-darker", "#4338ca"},
		{scope.NewSet(scope.Dark, scope.Portal), "primary-color-darker", "#a5b4fc"},
		{scope.NewSet(scope.Dark, scope.Portal), "secondary-color-rgb", "2 132 199"},
	}
	for _, tt := range tests {
		if got := vars.Resolve(tt.set)[tt.key]; got != tt.want {
			t.Errorf("Resolve(%s)[%s] = %q, want %q", tt.set, tt.key, got, tt.want)
		}
	}

	if len(doc.Plugins) != 6 {
		t.Errorf("plugins = %d, want 6", len(doc.Plugins))
	}
	if doc.Plugins[5].Options["prefix"] != "ui" {
		t.Errorf("headlessui prefix = %q, want ui", doc.Plugins[5].Options["prefix"])
	}
	if _, err := doc.Tokens().Lookup("tag.location.bg"); err != nil {
		t.Errorf("Lookup(tag.location.bg): %v", err)
	}
}

func TestSetDefaults(t *testing.T) {
	doc, err := Parse([]byte(minimal))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if doc.DarkMode.Strategy != StrategySelector {
		t.Errorf("strategy = %q, want selector", doc.DarkMode.Strategy)
	}
	if doc.Selectors.Default != ":root" {
		t.Errorf("default selector = %q", doc.Selectors.Default)
	}
	if doc.Selectors.Dark != `[data-theme="dark"]` {
		t.Errorf("dark selector = %q", doc.Selectors.Dark)
	}
	if doc.Selectors.Portal != "[data-portal]" {
		t.Errorf("portal selector = %q", doc.Selectors.Portal)
	}
	want := `[data-theme="dark"] [data-portal], [data-portal][data-theme="dark"]`
	if doc.Selectors.DarkPortal != want {
		t.Errorf("dark+portal selector = %q, want %q", doc.Selectors.DarkPortal, want)
	}
	if len(doc.Variants) != 1 || doc.Variants[0].Name != "hocus" {
		t.Errorf("variants = %+v, want hocus", doc.Variants)
	}

	before := doc.Selectors
	doc.SetDefaults()
	if doc.Selectors != before {
		t.Error("SetDefaults is not idempotent")
	}
}

func TestDarkModeStrategies(t *testing.T) {
	tests := []struct {
		name      string
		darkMode  string
		wantDark  string
		wantDP    string
		wantErr   bool
		wantMedia bool
	}{
		{"class", `strategy = "class"`, ".dark", ".dark [data-portal], [data-portal].dark", false, false},
		{"media", `strategy = "media"`, ":root", "[data-portal]", false, true},
		{"custom selector", `selector = "[data-mode=night]"`, "[data-mode=night]", "[data-mode=night] [data-portal], [data-portal][data-mode=night]", false, false},
		{"unknown", `strategy = "auto"`, "", "", true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := "[dark_mode]\n" + tt.darkMode + "\n" + minimal
			doc, err := Parse([]byte(src))
			if (err != nil) != tt.wantErr {
				t.Fatalf("Parse error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if doc.Selectors.Dark != tt.wantDark {
				t.Errorf("dark selector = %q, want %q", doc.Selectors.Dark, tt.wantDark)
			}
			if doc.Selectors.DarkPortal != tt.wantDP {
				t.Errorf("dark+portal selector = %q, want %q", doc.Selectors.DarkPortal, tt.wantDP)
			}
			if doc.MediaDark() != tt.wantMedia {
				t.Errorf("MediaDark() = %v, want %v", doc.MediaDark(), tt.wantMedia)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		code errors.Code
	}{
		{
			name: "malformed toml",
			src:  "[variables.default\n",
			code: errors.ErrCodeInvalidConfig,
		},
		{
			name: "unknown top-level key",
			src:  "colour = 1\n" + minimal,
			code: errors.ErrCodeInvalidConfig,
		},
		{
			name: "unknown scope",
			src:  minimal + "\n[variables.sepia]\nbackground-color = \"#704214\"\n",
			code: errors.ErrCodeInvalidScope,
		},
		{
			name: "duplicate scope alias",
			src:  minimal + "\n[variables.light]\nbackground-color = \"#ffffff\"\n",
			code: errors.ErrCodeInvalidScope,
		},
		{
			name: "malformed color",
			src:  "[variables.default]\nbackground-color = \"#f9fafbx\"\n",
			code: errors.ErrCodeInvalidColor,
		},
		{
			name: "malformed triple",
			src:  "[variables.default]\nprimary-color-rgb = \"79 70\"\n",
			code: errors.ErrCodeInvalidColor,
		},
		{
			name: "bad key",
			src:  "[variables.default]\nBackground = \"#ffffff\"\n",
			code: errors.ErrCodeInvalidKey,
		},
		{
			name: "no default layer",
			src:  "[variables.dark]\nbackground-color = \"#111827\"\n",
			code: errors.ErrCodeInvalidConfig,
		},
		{
			name: "no variables",
			src:  "content = [\"./templates/**/*.html\"]\n",
			code: errors.ErrCodeInvalidConfig,
		},
		{
			name: "unknown plugin",
			src:  minimal + "\n[[plugins]]\nname = \"line-clamp\"\n",
			code: errors.ErrCodeUnknownPlugin,
		},
		{
			name: "duplicate plugin",
			src:  minimal + "\n[[plugins]]\nname = \"forms\"\n[[plugins]]\nname = \"forms\"\n",
			code: errors.ErrCodeInvalidConfig,
		},
		{
			name: "undeclared color reference",
			src:  minimal + "card = \"var(--card-bg)\"\n",
			code: errors.ErrCodeUndeclaredVariable,
		},
		{
			name: "undeclared reference in fallback",
			src:  minimal + "card = \"var(--background-color, var(--card-bg))\"\n",
			code: errors.ErrCodeUndeclaredVariable,
		},
		{
			name: "undeclared shadow reference",
			src:  minimal + "\n[theme.box_shadow]\nDEFAULT = \"var(--card-shadow)\"\n",
			code: errors.ErrCodeUndeclaredVariable,
		},
		{
			name: "absolute content path",
			src:  "content = [\"/etc/*.html\"]\n" + minimal,
			code: errors.ErrCodeInvalidInput,
		},
		{
			name: "bad selector",
			src:  "[selectors]\nportal = \".portal {\"\n" + minimal,
			code: errors.ErrCodeInvalidSelector,
		},
		{
			name: "list selector without combined",
			src:  "[selectors]\nportal = \".portal, .admin\"\n" + minimal,
			code: errors.ErrCodeInvalidSelector,
		},
		{
			name: "unknown keyframes",
			src:  minimal + "\n[theme.keyframes.spin]\n\"100%\" = { transform = \"rotate(360deg)\" }\n[theme.animation]\nwiggle = \"wiggle 1s\"\n",
			code: errors.ErrCodeInvalidConfig,
		},
		{
			name: "bad variant",
			src:  "[[variants]]\nname = \"hocus\"\nstates = []\n" + minimal,
			code: errors.ErrCodeInvalidConfig,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.src))
			if !errors.Is(err, tt.code) {
				t.Errorf("Parse() error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestListSelectorWithExplicitCombined(t *testing.T) {
	src := "[selectors]\nportal = \".portal, .admin\"\ndark_portal = \".dark .portal, .dark .admin\"\n" + minimal
	doc, err := Parse([]byte(src))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if doc.Selectors.For(scope.DarkPortal) != ".dark .portal, .dark .admin" {
		t.Errorf("dark+portal selector = %q", doc.Selectors.DarkPortal)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, DefaultFilename)
	if err := os.WriteFile(path, []byte(minimal), 0644); err != nil {
		t.Fatal(err)
	}

	doc, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if doc.Path() != path {
		t.Errorf("Path() = %q, want %q", doc.Path(), path)
	}
	if len(doc.Hash()) != 64 {
		t.Errorf("Hash() length = %d, want 64", len(doc.Hash()))
	}
	if string(doc.Source()) != minimal {
		t.Error("Source() does not match file contents")
	}
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("Load(missing) error = %v, want FILE_NOT_FOUND", err)
	}
}

func TestHashChangesWithSource(t *testing.T) {
	a, _ := Parse([]byte(minimal))
	b, _ := Parse([]byte(strings.Replace(minimal, "#111827", "#0b0f19", 1)))
	if a.Hash() == b.Hash() {
		t.Error("different sources should hash differently")
	}
}

func TestResolvePath(t *testing.T) {
	t.Setenv(EnvConfig, "")
	if got := Resolve(""); got != DefaultFilename {
		t.Errorf("Resolve(\"\") = %q, want %q", got, DefaultFilename)
	}

	t.Setenv(EnvConfig, "/etc/themescope/theme.toml")
	if got := Resolve(""); got != "/etc/themescope/theme.toml" {
		t.Errorf("Resolve with env = %q", got)
	}
	if got := Resolve("local.toml"); got != "local.toml" {
		t.Errorf("flag should win, got %q", got)
	}
}

func TestPluginPackage(t *testing.T) {
	if got := (Plugin{Name: "animate"}).Package(); got != "tailwindcss-animate" {
		t.Errorf("animate package = %q", got)
	}
	names := PluginNames()
	if len(names) != len(KnownPlugins) || names[0] != "animate" {
		t.Errorf("PluginNames() = %v", names)
	}
}
