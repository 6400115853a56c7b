// Package server serves theme artifacts over HTTP.
//
// The server re-reads the theme document on every request and hands it to a
// [pipeline.Runner], so edits show up immediately while unchanged documents
// are answered from the artifact cache. Artifacts carry an ETag derived from
// the document hash.
//
// Routes:
//
//	GET /healthz               build information
//	GET /theme.css             base stylesheet
//	GET /tailwind.config.js    engine configuration module
//	GET /scopes                scope lattice as DOT
//	GET /scopes.svg            scope lattice as SVG
//	GET /scopes.json           resolved scope matrix
//	GET /resolve?scope=dark    resolved variables for one scope set
//	GET /tokens/{name}?scope=  one color token, resolved
package server

import (
	"context"
	stderrors "errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/themescope/pkg/pipeline"
)

// DefaultAddr is the listen address used when none is configured.
const DefaultAddr = "127.0.0.1:7070"

// shutdownTimeout bounds how long in-flight requests may take after the
// context is cancelled.
const shutdownTimeout = 5 * time.Second

// Config configures a Server.
type Config struct {
	// Options selects the theme document and rendering options. Formats is
	// ignored; each route renders its own format.
	Options pipeline.Options

	// Runner renders artifacts. A runner without cache is used when nil.
	Runner *pipeline.Runner

	// Logger receives startup and shutdown messages.
	Logger *log.Logger
}

// Server is the artifact HTTP server.
type Server struct {
	runner *pipeline.Runner
	opts   pipeline.Options
	logger *log.Logger
	router chi.Router
}

// New creates a server and registers its routes.
func New(cfg Config) (*Server, error) {
	if cfg.Runner == nil {
		cfg.Runner = pipeline.NewRunner(nil, nil, cfg.Logger)
	}
	if cfg.Logger == nil {
		cfg.Logger = cfg.Runner.Logger
	}
	opts := cfg.Options
	if opts.Logger == nil {
		opts.Logger = cfg.Logger
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	s := &Server{
		runner: cfg.Runner,
		opts:   opts,
		logger: cfg.Logger,
	}
	s.router = s.routes()
	return s, nil
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(observe)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Get("/theme.css", s.handleArtifact(pipeline.FormatCSS))
	r.Get("/tailwind.config.js", s.handleArtifact(pipeline.FormatJS))
	r.Get("/scopes", s.handleArtifact(pipeline.FormatDOT))
	r.Get("/scopes.svg", s.handleArtifact(pipeline.FormatSVG))
	r.Get("/scopes.json", s.handleArtifact(pipeline.FormatJSON))
	r.Get("/resolve", s.handleResolve)
	r.Get("/tokens/{name}", s.handleToken)
	return r
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run listens on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	if addr == "" {
		addr = DefaultAddr
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	s.logger.Info("serving theme artifacts", "addr", "http://"+addr, "config", s.source())

	select {
	case err := <-errCh:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func (s *Server) source() string {
	if len(s.opts.Source) > 0 {
		return "<inline>"
	}
	return s.opts.ConfigPath
}
