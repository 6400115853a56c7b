package server

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/themescope/pkg/buildinfo"
	"github.com/matzehuels/themescope/pkg/cache"
	"github.com/matzehuels/themescope/pkg/config"
	"github.com/matzehuels/themescope/pkg/errors"
	"github.com/matzehuels/themescope/pkg/observability"
	"github.com/matzehuels/themescope/pkg/pipeline"
	"github.com/matzehuels/themescope/pkg/scope"
)

// HealthResponse is returned by GET /healthz.
type HealthResponse struct {
	Status string `json:"status"`
	buildinfo.Info
}

// ResolveResponse is returned by GET /resolve.
type ResolveResponse struct {
	Scope  string            `json:"scope"`
	Values map[string]string `json:"values"`
}

// TokenResponse is returned by GET /tokens/{name}.
type TokenResponse struct {
	Name        string `json:"name"`
	Scope       string `json:"scope"`
	Indirection string `json:"indirection"`
	Value       string `json:"value"`
}

// Problem is an RFC 7807 error body.
type Problem struct {
	Title     string `json:"title"`
	Status    int    `json:"status"`
	Detail    string `json:"detail"`
	Code      string `json:"code,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok", Info: buildinfo.Get()})
}

// handleArtifact serves one rendered format, honoring If-None-Match.
func (s *Server) handleArtifact(format string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doc, err := s.load(r)
		if err != nil {
			s.writeError(w, r, err)
			return
		}

		etag := `"` + doc.Hash()[:16] + "-" + format + `"`
		w.Header().Set("ETag", etag)
		w.Header().Set("Cache-Control", "no-cache")
		if r.Header.Get("If-None-Match") == etag {
			w.WriteHeader(http.StatusNotModified)
			return
		}

		opts := s.opts
		opts.Formats = []string{format}
		artifacts, err := s.runner.Render(r.Context(), doc, opts)
		if err != nil {
			s.writeError(w, r, err)
			return
		}

		w.Header().Set("Content-Type", pipeline.ContentTypes[format])
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(artifacts[format])
	}
}

// handleResolve returns the resolved variables of one scope set. Results are
// cached per document hash and set.
func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request) {
	set, err := scope.ParseSet(r.URL.Query().Get("scope"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	doc, err := s.load(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	ctx := r.Context()
	hooks := observability.Cache()
	key := s.runner.Keyer.ResolveKey(doc.Hash(), set.String())
	if data, hit, err := s.runner.Cache.Get(ctx, key); err == nil && hit {
		hooks.OnCacheHit(ctx, "resolve")
		writeRawJSON(w, http.StatusOK, data)
		return
	}
	hooks.OnCacheMiss(ctx, "resolve")

	data, err := json.Marshal(ResolveResponse{Scope: set.String(), Values: doc.Variables().Resolve(set)})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.runner.Cache.Set(ctx, key, data, cache.DefaultTTL); err != nil {
		s.logger.Warn("cache write failed", "key", "resolve", "error", err)
	} else {
		hooks.OnCacheSet(ctx, "resolve", len(data))
	}
	writeRawJSON(w, http.StatusOK, data)
}

// handleToken resolves one color token to a literal in the requested scope.
func (s *Server) handleToken(w http.ResponseWriter, r *http.Request) {
	set, err := scope.ParseSet(r.URL.Query().Get("scope"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	doc, err := s.load(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	name := chi.URLParam(r, "name")
	tokens := doc.Tokens()
	tok, err := tokens.Lookup(name)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	value, err := tokens.Resolve(name, set, doc.Variables())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, TokenResponse{
		Name:        tok.Name,
		Scope:       set.String(),
		Indirection: tok.Value,
		Value:       value,
	})
}

func (s *Server) load(r *http.Request) (*config.Document, error) {
	return s.runner.Load(r.Context(), s.opts)
}

// =============================================================================
// Responses
// =============================================================================

// statusFor maps error codes to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.IsConfigError(err):
		return http.StatusBadRequest
	case errors.IsNotFound(err):
		return http.StatusNotFound
	case errors.Is(err, errors.ErrCodeNetwork):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// writeError writes an RFC 7807 problem response for err.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		observability.HTTP().OnError(r.Context(), r.Method, routePattern(r), err)
	}

	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(Problem{
		Title:     http.StatusText(status),
		Status:    status,
		Detail:    errors.UserMessage(err),
		Code:      string(errors.GetCode(err)),
		RequestID: middleware.GetReqID(r.Context()),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeRawJSON(w http.ResponseWriter, status int, data []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}
