package pipeline

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/themescope/pkg/cache"
	"github.com/matzehuels/themescope/pkg/config"
	"github.com/matzehuels/themescope/pkg/observability"
)

// Runner encapsulates pipeline execution with caching.
// Both the CLI and the artifact server use it.
//
// The Runner is stateless except for the cache and logger; it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete load → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	// Stage 1: Load
	loadStart := time.Now()
	doc, err := Load(ctx, opts)
	if err != nil {
		return nil, err
	}
	result := &Result{
		Document:   doc,
		Table:      doc.Variables(),
		Tokens:     doc.Tokens(),
		ConfigHash: doc.Hash(),
	}
	result.Stats.LoadTime = time.Since(loadStart)
	result.Stats.KeyCount = len(result.Table.Keys())
	result.Stats.TokenCount = result.Tokens.Len()

	r.Logger.Info("loaded theme",
		"keys", result.Stats.KeyCount,
		"tokens", result.Stats.TokenCount,
		"duration", result.Stats.LoadTime)

	// Stage 2: Render
	renderStart := time.Now()
	artifacts, hits, err := r.RenderWithCacheInfo(ctx, doc, opts)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	for _, data := range artifacts {
		result.Stats.Bytes += len(data)
	}
	result.CacheInfo.Hits = hits
	result.CacheInfo.RenderHit = len(hits) == len(opts.Formats)

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", len(hits),
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Load is the runner's entry to the load stage; it applies the runner's
// logger to opts.
func (r *Runner) Load(ctx context.Context, opts Options) (*config.Document, error) {
	r.applyLogger(&opts)
	return Load(ctx, opts)
}

// RenderWithCacheInfo generates artifacts with caching and returns the
// formats that were served from the cache.
//
// Each format is looked up separately; only the misses are rendered.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, doc *config.Document, opts Options) (map[string][]byte, []string, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, nil, err
	}

	hooks := observability.Cache()
	hash := doc.Hash()
	artifacts := make(map[string][]byte, len(opts.Formats))
	var hits, misses []string

	for _, format := range opts.Formats {
		if !opts.Refresh {
			key := r.Keyer.ArtifactKey(hash, opts.ArtifactKeyOpts(format))
			if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
				hooks.OnCacheHit(ctx, "artifact")
				artifacts[format] = data
				hits = append(hits, format)
				continue
			} else if err != nil {
				r.Logger.Warn("cache read failed", "format", format, "error", err)
			}
			hooks.OnCacheMiss(ctx, "artifact")
		}
		misses = append(misses, format)
	}

	if len(misses) == 0 {
		return artifacts, hits, nil
	}

	pipeHooks := observability.Pipeline()
	pipeHooks.OnRenderStart(ctx, misses)
	start := time.Now()
	rendered, err := renderFormats(ctx, doc, misses, opts)
	pipeHooks.OnRenderComplete(ctx, misses, time.Since(start), err)
	if err != nil {
		return nil, nil, err
	}

	for _, format := range slices.Sorted(maps.Keys(rendered)) {
		data := rendered[format]
		artifacts[format] = data
		key := r.Keyer.ArtifactKey(hash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, key, data, cache.DefaultTTL); err != nil {
			r.Logger.Warn("cache write failed", "format", format, "error", err)
			continue
		}
		hooks.OnCacheSet(ctx, "artifact", len(data))
	}

	return artifacts, hits, nil
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and
// discards the cache hit info.
func (r *Runner) Render(ctx context.Context, doc *config.Document, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, doc, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return artifacts, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
