// Package cli implements the themescope command-line interface.
//
// Commands load a theme document (themescope.toml), resolve its scope layers
// and render artifacts through [pipeline.Runner]. Rendered artifacts are
// cached by document hash in a file cache, a shared Redis cache, or not at
// all; revision history lives in a file store or MongoDB.
//
// # Commands
//
//   - init: write a starter document
//   - check: validate a document and summarize it
//   - build: render css, js, json, dot and svg artifacts
//   - resolve, explain, token: inspect resolved values
//   - graph: render the scope lattice
//   - preview: interactive scope explorer
//   - serve: serve artifacts over HTTP
//   - revision: save, list, show and diff document revisions
//   - cache: manage the artifact cache
//
// All commands support --verbose (-v) for debug-level logging.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/themescope/pkg/cache"
	"github.com/matzehuels/themescope/pkg/pipeline"
	"github.com/matzehuels/themescope/pkg/store"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "themescope"

	envCache     = "THEMESCOPE_CACHE"
	envRedisAddr = "THEMESCOPE_REDIS_ADDR"
	envStore     = "THEMESCOPE_STORE"
	envMongoURI  = "THEMESCOPE_MONGO_URI"
	envMongoDB   = "THEMESCOPE_MONGO_DB"
	envPrefix    = "THEMESCOPE_CACHE_PREFIX"
)

// Cache and store backends.
const (
	backendFile  = "file"
	backendRedis = "redis"
	backendNone  = "none"
	backendMongo = "mongo"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath   string // --config, resolved through config.Resolve
	cacheBackend string // --cache-backend
	storeBackend string // --store
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	backend := c.cacheBackend
	if noCache {
		backend = backendNone
	}
	ch, err := newCache(ctx, backend)
	if err != nil {
		return nil, err
	}
	var keyer cache.Keyer
	if prefix := os.Getenv(envPrefix); prefix != "" {
		keyer = cache.NewScopedKeyer(nil, prefix)
	}
	return pipeline.NewRunner(ch, keyer, c.Logger), nil
}

// options returns pipeline options for the selected document.
func (c *CLI) options() pipeline.Options {
	return pipeline.Options{ConfigPath: c.configPath, Logger: c.Logger}
}

// newCache opens the artifact cache for backend. An empty backend falls back
// to $THEMESCOPE_CACHE and then to the file cache.
func newCache(ctx context.Context, backend string) (cache.Cache, error) {
	if backend == "" {
		backend = os.Getenv(envCache)
	}
	switch backend {
	case "", backendFile:
		dir, err := cacheDir()
		if err != nil {
			return cache.NewNullCache(), nil
		}
		return cache.NewFileCache(dir)
	case backendRedis:
		return cache.NewRedisCache(ctx, cache.RedisConfig{Addr: os.Getenv(envRedisAddr)})
	case backendNone:
		return cache.NewNullCache(), nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q (must be file, redis or none)", backend)
	}
}

// newStore opens the revision store for the selected backend.
func (c *CLI) newStore(ctx context.Context) (store.Store, error) {
	backend := c.storeBackend
	if backend == "" {
		backend = os.Getenv(envStore)
	}
	switch backend {
	case "", backendFile:
		return store.NewFileStore("")
	case backendMongo:
		return store.NewMongoStore(ctx, store.MongoConfig{
			URI:      os.Getenv(envMongoURI),
			Database: os.Getenv(envMongoDB),
		})
	default:
		return nil, fmt.Errorf("unknown store backend %q (must be file or mongo)", backend)
	}
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/themescope/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
