package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/themescope/pkg/config"
	"github.com/matzehuels/themescope/pkg/io"
	"github.com/matzehuels/themescope/pkg/render/css"
	"github.com/matzehuels/themescope/pkg/render/jsconfig"
	"github.com/matzehuels/themescope/pkg/render/lattice"
)

// Render generates every requested format concurrently.
func Render(ctx context.Context, doc *config.Document, opts Options) (map[string][]byte, error) {
	return renderFormats(ctx, doc, opts.Formats, opts)
}

func renderFormats(ctx context.Context, doc *config.Document, formats []string, opts Options) (map[string][]byte, error) {
	var mu sync.Mutex
	artifacts := make(map[string][]byte, len(formats))

	g, gctx := errgroup.WithContext(ctx)
	for _, format := range formats {
		g.Go(func() error {
			data, err := RenderFormat(gctx, doc, format, opts)
			if err != nil {
				return fmt.Errorf("render %s: %w", format, err)
			}
			mu.Lock()
			artifacts[format] = data
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return artifacts, nil
}

// RenderFormat generates a single artifact.
func RenderFormat(ctx context.Context, doc *config.Document, format string, opts Options) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	switch format {
	case FormatCSS:
		return css.Render(doc, css.Options{}), nil
	case FormatJS:
		return jsconfig.Render(doc, jsconfig.Options{OmitBase: opts.OmitBase}), nil
	case FormatJSON:
		var buf bytes.Buffer
		if err := io.WriteJSON(doc.Variables(), &buf); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case FormatDOT:
		return []byte(latticeDOT(doc, opts)), nil
	case FormatSVG:
		return lattice.RenderSVG(ctx, latticeDOT(doc, opts))
	}
	return nil, ValidateFormat(format)
}

func latticeDOT(doc *config.Document, opts Options) string {
	return lattice.ToDOT(doc.Variables(), lattice.Options{
		Detailed:  opts.Detailed,
		Selectors: doc.Selectors.For,
	})
}
