// Package config loads and validates themescope theme documents.
//
// A theme document is a TOML file describing everything the style engine
// needs: content globs, the dark-mode strategy, the theme extension (colors,
// fonts, shadows, gradients, keyframes, typography), the ordered plugin list,
// pseudo-class variants and the per-scope custom-property layers.
//
// # Loading
//
//	doc, err := config.Load("themescope.toml")
//	if err != nil {
//	    // errors carry codes from pkg/errors: INVALID_CONFIG, INVALID_SCOPE,
//	    // INVALID_COLOR, UNKNOWN_PLUGIN, UNDECLARED_VARIABLE, ...
//	}
//	vars := doc.Variables()   // *scope.Table
//	tokens := doc.Tokens()    // *theme.TokenTable
//
// Everything is validated at load time. A Document that loaded successfully
// never produces a configuration error later.
package config

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/themescope/pkg/errors"
	"github.com/matzehuels/themescope/pkg/scope"
	"github.com/matzehuels/themescope/pkg/theme"
)

// DefaultFilename is the document name looked up in the working directory.
const DefaultFilename = "themescope.toml"

// EnvConfig names the environment variable that overrides the document path.
const EnvConfig = "THEMESCOPE_CONFIG"

// Dark-mode strategies.
const (
	StrategySelector = "selector" // dark layer scoped by an attribute or class selector
	StrategyClass    = "class"    // shorthand for selector ".dark"
	StrategyMedia    = "media"    // dark layer scoped by prefers-color-scheme
)

// Default selectors for each scope predicate.
const (
	DefaultRootSelector   = ":root"
	DefaultDarkSelector   = `[data-theme="dark"]`
	DefaultPortalSelector = "[data-portal]"
	classDarkSelector     = ".dark"
)

// Document is a decoded theme document.
type Document struct {
	DarkMode  DarkMode                     `toml:"dark_mode"`
	Content   []string                     `toml:"content"`
	Selectors Selectors                    `toml:"selectors"`
	Variables map[string]map[string]string `toml:"variables"`
	Theme     Theme                        `toml:"theme"`
	Plugins   []Plugin                     `toml:"plugins"`
	Variants  []theme.Variant              `toml:"variants"`

	source []byte
	path   string
	vars   *scope.Table
	tokens *theme.TokenTable
}

// DarkMode selects how the dark layer is activated.
type DarkMode struct {
	Strategy string `toml:"strategy"`
	Selector string `toml:"selector"`
}

// Selectors are the CSS selectors that scope each variable layer.
type Selectors struct {
	Default    string `toml:"default"`
	Dark       string `toml:"dark"`
	Portal     string `toml:"portal"`
	DarkPortal string `toml:"dark_portal"`
}

// For returns the selector configured for p.
func (s Selectors) For(p scope.Predicate) string {
	switch p {
	case scope.Dark:
		return s.Dark
	case scope.Portal:
		return s.Portal
	case scope.DarkPortal:
		return s.DarkPortal
	}
	return s.Default
}

// Theme is the theme extension handed to the style engine.
type Theme struct {
	Colors             map[string]any                          `toml:"colors"`
	FontFamily         map[string][]string                     `toml:"font_family"`
	BoxShadow          map[string]string                       `toml:"box_shadow"`
	GradientColorStops map[string]string                       `toml:"gradient_color_stops"`
	BackgroundImage    map[string]string                       `toml:"background_image"`
	Keyframes          map[string]map[string]map[string]string `toml:"keyframes"`
	Animation          map[string]string                       `toml:"animation"`
	Typography         map[string]map[string]string            `toml:"typography"`
}

// Plugin is one entry of the ordered plugin list.
type Plugin struct {
	Name    string            `toml:"name"`
	Options map[string]string `toml:"options,omitempty"`
}

// Load reads and validates the document at path.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New(errors.ErrCodeFileNotFound, "theme document not found: %s", path)
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, err
	}
	doc.path = path
	return doc, nil
}

// Parse decodes and validates a document from raw TOML.
func Parse(data []byte) (*Document, error) {
	var doc Document
	md, err := toml.Decode(string(data), &doc)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode theme document")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown configuration key(s): %s", strings.Join(keys, ", "))
	}

	doc.source = data
	doc.SetDefaults()
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Resolve returns the document path to use: explicit flag value, then
// $THEMESCOPE_CONFIG, then DefaultFilename.
func Resolve(flag string) string {
	if flag != "" {
		return flag
	}
	if env := os.Getenv(EnvConfig); env != "" {
		return env
	}
	return DefaultFilename
}

// SetDefaults fills in the dark-mode strategy, selectors and variants.
// It is idempotent.
func (d *Document) SetDefaults() {
	if d.DarkMode.Strategy == "" {
		d.DarkMode.Strategy = StrategySelector
	}
	if d.DarkMode.Selector == "" {
		switch d.DarkMode.Strategy {
		case StrategyClass:
			d.DarkMode.Selector = classDarkSelector
		case StrategySelector:
			d.DarkMode.Selector = DefaultDarkSelector
		}
	}

	if d.Selectors.Default == "" {
		d.Selectors.Default = DefaultRootSelector
	}
	if d.Selectors.Dark == "" {
		if d.DarkMode.Strategy == StrategyMedia {
			d.Selectors.Dark = d.Selectors.Default
		} else {
			d.Selectors.Dark = d.DarkMode.Selector
		}
	}
	if d.Selectors.Portal == "" {
		d.Selectors.Portal = DefaultPortalSelector
	}
	if d.Selectors.DarkPortal == "" && !strings.Contains(d.Selectors.Dark+d.Selectors.Portal, ",") {
		d.Selectors.DarkPortal = combineSelectors(d.DarkMode.Strategy, d.Selectors.Dark, d.Selectors.Portal)
	}

	if len(d.Variants) == 0 {
		d.Variants = []theme.Variant{theme.Hocus}
	}
}

// combineSelectors derives the dark+portal selector: the portal nested inside
// a dark document, or the portal element itself carrying the dark marker.
// Under the media strategy dark is ambient, so the portal selector suffices.
func combineSelectors(strategy, dark, portal string) string {
	if strategy == StrategyMedia {
		return portal
	}
	return fmt.Sprintf("%s %s, %s%s", dark, portal, portal, dark)
}

// Path returns the file the document was loaded from, if any.
func (d *Document) Path() string {
	return d.path
}

// Source returns the raw bytes the document was decoded from.
func (d *Document) Source() []byte {
	return d.source
}

// Hash returns the SHA-256 of the document source as 64 hex characters.
func (d *Document) Hash() string {
	sum := sha256.Sum256(d.source)
	return hex.EncodeToString(sum[:])
}

// Variables returns the validated scope table.
func (d *Document) Variables() *scope.Table {
	return d.vars
}

// Tokens returns the validated color token table.
func (d *Document) Tokens() *theme.TokenTable {
	return d.tokens
}

// MediaDark reports whether the dark layer is driven by prefers-color-scheme.
func (d *Document) MediaDark() bool {
	return d.DarkMode.Strategy == StrategyMedia
}
