package cache

import (
	"context"
	"time"
)

// NullCache discards every artifact and resolution written to it. It backs
// THEMESCOPE_CACHE=none and runners constructed without a cache, so every
// build re-renders from the theme document.
type NullCache struct{}

// NewNullCache returns a cache that never hits.
func NewNullCache() Cache {
	return NullCache{}
}

func (NullCache) Get(context.Context, string) ([]byte, bool, error)         { return nil, false, nil }
func (NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (NullCache) Delete(context.Context, string) error                     { return nil }
func (NullCache) Close() error                                             { return nil }

var _ Cache = NullCache{}
