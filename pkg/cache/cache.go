// Package cache provides artifact caching for the themescope pipeline.
//
// Generated artifacts (stylesheets, engine configuration modules, resolved
// scope tables, precedence diagrams) are pure functions of the theme document
// source and the output options, so they are cached under keys derived from
// the document's content hash.
//
// # Backends
//
//   - [FileCache]: one JSON file per entry under $XDG_CACHE_HOME/themescope
//   - [RedisCache]: shared cache for multi-instance servers
//   - [NullCache]: disables caching
//
// # Keys
//
// A [Keyer] generates keys. [ScopedKeyer] prefixes every key, e.g. with a
// project name, so several projects can share one Redis database:
//
//	keyer := cache.NewScopedKeyer(cache.NewDefaultKeyer(), "shop:")
//	key := keyer.ArtifactKey(doc.Hash(), cache.ArtifactKeyOpts{Format: "css"})
package cache

import (
	"context"
	"time"

	"github.com/matzehuels/themescope/pkg/buildinfo"
)

// Cache is a byte-oriented key/value store with optional expiry.
type Cache interface {
	// Get returns the cached value and whether it was found.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the cache.
	Close() error
}

// Clearer is implemented by caches that can drop all of their entries.
type Clearer interface {
	Clear(ctx context.Context) (int, error)
}

// DefaultTTL bounds how long artifacts stay cached.
const DefaultTTL = 7 * 24 * time.Hour

// Keyer generates cache keys.
type Keyer interface {
	// ArtifactKey returns the key for a rendered artifact.
	ArtifactKey(configHash string, opts ArtifactKeyOpts) string

	// ResolveKey returns the key for a resolved scope table.
	ResolveKey(configHash, scopeSet string) string
}

// ArtifactKeyOpts are the output options that change an artifact's bytes.
type ArtifactKeyOpts struct {
	Format   string `json:"format"`
	Detailed bool   `json:"detailed,omitempty"`
	OmitBase bool   `json:"omit_base,omitempty"`
}

// DefaultKeyer generates keys of the form "<kind>:<sha256>". The binary
// version is mixed in so upgrades never serve artifacts from older renderers.
type DefaultKeyer struct {
	version string
}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{version: buildinfo.Version}
}

// ArtifactKey implements Keyer.
func (k *DefaultKeyer) ArtifactKey(configHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", k.version, configHash, opts)
}

// ResolveKey implements Keyer.
func (k *DefaultKeyer) ResolveKey(configHash, scopeSet string) string {
	return hashKey("resolve", k.version, configHash, scopeSet)
}

var _ Keyer = (*DefaultKeyer)(nil)
