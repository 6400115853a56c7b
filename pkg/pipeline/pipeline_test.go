package pipeline

import (
	"context"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/themescope/pkg/cache"
	"github.com/matzehuels/themescope/pkg/config"
	"github.com/matzehuels/themescope/pkg/errors"
	"github.com/matzehuels/themescope/pkg/observability"
)

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"css", false},
		{"js", false},
		{"json", false},
		{"dot", false},
		{"svg", false},
		{"png", true},
		{"CSS", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, errors.ErrCodeInvalidFormat) {
			t.Errorf("ValidateFormat(%q) code = %s, want INVALID_FORMAT", tt.format, errors.GetCode(err))
		}
	}
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", DefaultFormats},
		{"css", []string{"css"}},
		{"CSS, js,css", []string{"css", "js"}},
		{"all", []string{"css", "js", "json", "dot", "svg"}},
	}
	for _, tt := range tests {
		if got := ParseFormats(tt.in); !slices.Equal(got, tt.want) {
			t.Errorf("ParseFormats(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestOptionsDefaults(t *testing.T) {
	t.Setenv(config.EnvConfig, "")

	opts := Options{}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults: %v", err)
	}
	if opts.ConfigPath != config.DefaultFilename {
		t.Errorf("ConfigPath = %q, want %q", opts.ConfigPath, config.DefaultFilename)
	}
	if !slices.Equal(opts.Formats, DefaultFormats) {
		t.Errorf("Formats = %v, want %v", opts.Formats, DefaultFormats)
	}
	if opts.Logger == nil {
		t.Error("Logger should default to a discard logger")
	}

	bad := Options{Formats: []string{"pdf"}}
	if err := bad.ValidateAndSetDefaults(); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("invalid format error = %v", err)
	}
}

func TestArtifactKeyOpts(t *testing.T) {
	opts := Options{Detailed: true, OmitBase: true}
	if k := opts.ArtifactKeyOpts(FormatCSS); k.Detailed || k.OmitBase {
		t.Errorf("css key should ignore lattice and js options: %+v", k)
	}
	if k := opts.ArtifactKeyOpts(FormatSVG); !k.Detailed {
		t.Errorf("svg key should carry Detailed: %+v", k)
	}
	if k := opts.ArtifactKeyOpts(FormatJS); !k.OmitBase {
		t.Errorf("js key should carry OmitBase: %+v", k)
	}
}

func TestExecute(t *testing.T) {
	runner := NewRunner(nil, nil, nil)
	result, err := runner.Execute(context.Background(), Options{
		Source:  config.Starter(),
		Formats: []string{FormatCSS, FormatJS, FormatJSON, FormatDOT},
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if len(result.Artifacts) != 4 {
		t.Fatalf("artifacts = %d, want 4", len(result.Artifacts))
	}
	if !strings.Contains(string(result.Artifacts[FormatCSS]), "--background-color: #0f172a;") {
		t.Error("css missing dark+portal background")
	}
	if !strings.Contains(string(result.Artifacts[FormatJS]), "module.exports = {") {
		t.Error("js missing module export")
	}
	if !strings.Contains(string(result.Artifacts[FormatJSON]), `"scope": "dark,portal"`) {
		t.Error("json missing combined scope")
	}
	if !strings.Contains(string(result.Artifacts[FormatDOT]), "digraph scopes") {
		t.Error("dot missing graph")
	}

	if result.ConfigHash != result.Document.Hash() {
		t.Error("ConfigHash should match the document hash")
	}
	if result.Stats.KeyCount == 0 || result.Stats.TokenCount == 0 || result.Stats.Bytes == 0 {
		t.Errorf("stats not populated: %+v", result.Stats)
	}
	if result.CacheInfo.RenderHit {
		t.Error("null cache should never hit")
	}
}

func TestExecuteCaching(t *testing.T) {
	ctx := context.Background()
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	runner := NewRunner(c, nil, nil)
	opts := Options{Source: config.Starter(), Formats: []string{FormatCSS, FormatJSON}}

	first, err := runner.Execute(ctx, opts)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if len(first.CacheInfo.Hits) != 0 {
		t.Errorf("first run hits = %v, want none", first.CacheInfo.Hits)
	}

	second, err := runner.Execute(ctx, opts)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !second.CacheInfo.RenderHit {
		t.Errorf("second run should be served from cache, hits = %v", second.CacheInfo.Hits)
	}
	if string(second.Artifacts[FormatCSS]) != string(first.Artifacts[FormatCSS]) {
		t.Error("cached css differs from rendered css")
	}

	// A new format renders only the miss.
	opts.Formats = []string{FormatCSS, FormatDOT}
	third, err := runner.Execute(ctx, opts)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !slices.Equal(third.CacheInfo.Hits, []string{FormatCSS}) {
		t.Errorf("third run hits = %v, want [css]", third.CacheInfo.Hits)
	}

	opts.Refresh = true
	fourth, err := runner.Execute(ctx, opts)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if len(fourth.CacheInfo.Hits) != 0 {
		t.Errorf("refresh should bypass the cache, hits = %v", fourth.CacheInfo.Hits)
	}
}

func TestExecuteErrors(t *testing.T) {
	runner := NewRunner(nil, nil, nil)
	ctx := context.Background()

	_, err := runner.Execute(ctx, Options{ConfigPath: filepath.Join(t.TempDir(), "missing.toml")})
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("missing document error = %v", err)
	}

	_, err = runner.Execute(ctx, Options{Source: []byte("[variables.sepia]\nx = \"1\"\n")})
	if !errors.Is(err, errors.ErrCodeInvalidScope) {
		t.Errorf("bad document error = %v", err)
	}
}

func TestExecuteFiresHooks(t *testing.T) {
	defer observability.Reset()
	hooks := &countingHooks{}
	observability.SetPipelineHooks(hooks)

	runner := NewRunner(nil, nil, nil)
	if _, err := runner.Execute(context.Background(), Options{Source: config.Starter()}); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if hooks.loads != 1 || hooks.renders != 1 {
		t.Errorf("hooks loads=%d renders=%d, want 1 and 1", hooks.loads, hooks.renders)
	}
	if hooks.keys == 0 {
		t.Error("OnLoadComplete should report the key count")
	}
}

type countingHooks struct {
	observability.NoopPipelineHooks
	loads, renders, keys int
}

func (h *countingHooks) OnLoadComplete(_ context.Context, _ string, keys int, _ time.Duration, _ error) {
	h.loads++
	h.keys = keys
}

func (h *countingHooks) OnRenderComplete(context.Context, []string, time.Duration, error) {
	h.renders++
}
