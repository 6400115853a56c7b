package pipeline

import (
	"context"
	"time"

	"github.com/matzehuels/themescope/pkg/config"
	"github.com/matzehuels/themescope/pkg/observability"
)

// Load decodes and validates the theme document named by opts.
func Load(ctx context.Context, opts Options) (*config.Document, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	name := opts.ConfigPath
	if len(opts.Source) > 0 {
		name = "<inline>"
	}

	hooks := observability.Pipeline()
	hooks.OnLoadStart(ctx, name)
	start := time.Now()

	var (
		doc *config.Document
		err error
	)
	if len(opts.Source) > 0 {
		doc, err = config.Parse(opts.Source)
	} else {
		doc, err = config.Load(opts.ConfigPath)
	}

	keys := 0
	if err == nil {
		keys = len(doc.Variables().Keys())
	}
	hooks.OnLoadComplete(ctx, name, keys, time.Since(start), err)
	if err != nil {
		return nil, err
	}

	opts.Logger.Debug("loaded theme document",
		"source", name,
		"keys", keys,
		"tokens", doc.Tokens().Len(),
		"plugins", len(doc.Plugins))
	return doc, nil
}
