// Package pipeline provides the load → render pipeline for themescope.
//
// This package implements the path from a theme document to the artifacts
// the style engine consumes. The CLI, the artifact server and tests all use
// it, so every entry point validates and renders the same way.
//
// # Architecture
//
// The pipeline has two stages:
//
//  1. Load: decode the TOML document, apply defaults, validate everything
//     and build the scope and token tables
//  2. Render: generate the requested formats (css, js, json, dot, svg)
//
// Rendering is concurrent across formats. Each artifact is cached under a
// key derived from the document's content hash, so an unchanged document is
// never re-rendered.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    ConfigPath: "themescope.toml",
//	    Formats:    []string{"css", "js"},
//	})
//	if err != nil {
//	    return err
//	}
//	css := result.Artifacts["css"]
package pipeline

import (
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/themescope/pkg/cache"
	"github.com/matzehuels/themescope/pkg/config"
	"github.com/matzehuels/themescope/pkg/errors"
	"github.com/matzehuels/themescope/pkg/scope"
	"github.com/matzehuels/themescope/pkg/theme"
)

// =============================================================================
// Formats
// =============================================================================

// Format constants for output formats.
const (
	FormatCSS  = "css"  // base stylesheet
	FormatJS   = "js"   // engine configuration module
	FormatJSON = "json" // resolved scope matrix
	FormatDOT  = "dot"  // precedence lattice, Graphviz source
	FormatSVG  = "svg"  // precedence lattice, rendered
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatCSS:  true,
	FormatJS:   true,
	FormatJSON: true,
	FormatDOT:  true,
	FormatSVG:  true,
}

// DefaultFormats are rendered when no format is requested.
var DefaultFormats = []string{FormatCSS, FormatJS}

// Filenames maps each format to the file name the CLI writes it to.
var Filenames = map[string]string{
	FormatCSS:  "theme.css",
	FormatJS:   "tailwind.config.js",
	FormatJSON: "scopes.json",
	FormatDOT:  "scopes.dot",
	FormatSVG:  "scopes.svg",
}

// ContentTypes maps each format to its HTTP media type.
var ContentTypes = map[string]string{
	FormatCSS:  "text/css; charset=utf-8",
	FormatJS:   "text/javascript; charset=utf-8",
	FormatJSON: "application/json",
	FormatDOT:  "text/vnd.graphviz; charset=utf-8",
	FormatSVG:  "image/svg+xml",
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat,
			"invalid format: %q (must be one of: css, js, json, dot, svg)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ParseFormats splits a comma-separated format list. Empty input yields
// DefaultFormats; "all" yields every format.
func ParseFormats(s string) []string {
	s = strings.TrimSpace(s)
	switch s {
	case "":
		return slices.Clone(DefaultFormats)
	case "all":
		return []string{FormatCSS, FormatJS, FormatJSON, FormatDOT, FormatSVG}
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.ToLower(strings.TrimSpace(f)); f != "" && !slices.Contains(out, f) {
			out = append(out, f)
		}
	}
	return out
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for one pipeline run.
type Options struct {
	// ConfigPath is the theme document to load. Ignored when Source is set.
	ConfigPath string `json:"config_path,omitempty"`

	// Source is an in-memory theme document.
	Source []byte `json:"-"`

	// Formats lists the artifacts to render.
	Formats []string `json:"formats,omitempty"`

	// Detailed lists declarations inside lattice nodes (dot and svg).
	Detailed bool `json:"detailed,omitempty"`

	// OmitBase leaves the scope blocks out of the js module.
	OmitBase bool `json:"omit_base,omitempty"`

	// Refresh bypasses cached artifacts (they are still rewritten).
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Document is the validated theme document.
	Document *config.Document

	// Table and Tokens are the document's scope and color tables.
	Table  *scope.Table
	Tokens *theme.TokenTable

	// ConfigHash is the SHA-256 of the document source.
	ConfigHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which artifacts came from the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	KeyCount   int
	TokenCount int
	Bytes      int
	LoadTime   time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for the render stage.
type CacheInfo struct {
	Hits      []string // formats served from cache
	RenderHit bool     // whether all artifacts came from cache
}

// ValidateAndSetDefaults checks the options and applies defaults.
// This method is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if len(o.Source) == 0 {
		o.ConfigPath = config.Resolve(o.ConfigPath)
	}
	if len(o.Formats) == 0 {
		o.Formats = slices.Clone(DefaultFormats)
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// ArtifactKeyOpts returns cache key options for one format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{Format: format}
	switch format {
	case FormatDOT, FormatSVG:
		k.Detailed = o.Detailed
	case FormatJS:
		k.OmitBase = o.OmitBase
	}
	return k
}
