package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/matzehuels/themescope/pkg/cache"
	"github.com/matzehuels/themescope/pkg/config"
	"github.com/matzehuels/themescope/pkg/observability"
	"github.com/matzehuels/themescope/pkg/pipeline"
)

func newTestServer(t *testing.T, c cache.Cache) *httptest.Server {
	t.Helper()
	s, err := New(Config{
		Options: pipeline.Options{Source: config.Starter()},
		Runner:  pipeline.NewRunner(c, nil, nil),
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func get(t *testing.T, ts *httptest.Server, path string, header ...string) (*http.Response, string) {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, ts.URL+path, nil)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	resp, err := ts.Client().Do(req)
	if err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	return resp, string(body)
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t, nil)
	resp, body := get(t, ts, "/healthz")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var h HealthResponse
	if err := json.Unmarshal([]byte(body), &h); err != nil {
		t.Fatal(err)
	}
	if h.Status != "ok" || h.Version == "" {
		t.Errorf("health = %+v", h)
	}
	if resp.Header.Get(requestIDHeader) == "" {
		t.Error("missing request ID header")
	}
}

func TestArtifacts(t *testing.T) {
	ts := newTestServer(t, nil)
	tests := []struct {
		path        string
		contentType string
		contains    string
	}{
		{"/theme.css", "text/css", "[data-portal] {"},
		{"/tailwind.config.js", "text/javascript", "module.exports = {"},
		{"/scopes", "text/vnd.graphviz", "digraph scopes"},
		{"/scopes.json", "application/json", `"layers"`},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp, body := get(t, ts, tt.path)
			if resp.StatusCode != http.StatusOK {
				t.Fatalf("status = %d: %s", resp.StatusCode, body)
			}
			if !strings.HasPrefix(resp.Header.Get("Content-Type"), tt.contentType) {
				t.Errorf("Content-Type = %q", resp.Header.Get("Content-Type"))
			}
			if !strings.Contains(body, tt.contains) {
				t.Errorf("body missing %q", tt.contains)
			}
			if resp.Header.Get("ETag") == "" {
				t.Error("missing ETag")
			}
		})
	}
}

func TestArtifactNotModified(t *testing.T) {
	ts := newTestServer(t, nil)
	resp, _ := get(t, ts, "/theme.css")
	etag := resp.Header.Get("ETag")

	resp, body := get(t, ts, "/theme.css", "If-None-Match", etag)
	if resp.StatusCode != http.StatusNotModified {
		t.Errorf("status = %d, want 304", resp.StatusCode)
	}
	if body != "" {
		t.Errorf("304 should have no body, got %q", body)
	}
}

func TestResolve(t *testing.T) {
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	ts := newTestServer(t, c)

	for i := 0; i < 2; i++ { // second request is served from cache
		resp, body := get(t, ts, "/resolve?scope=dark,portal")
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status = %d: %s", resp.StatusCode, body)
		}
		var got ResolveResponse
		if err := json.Unmarshal([]byte(body), &got); err != nil {
			t.Fatal(err)
		}
		if got.Scope != "dark,portal" {
			t.Errorf("scope = %q", got.Scope)
		}
		if got.Values["background-color"] != "#0f172a" {
			t.Errorf("background-color = %q, want #0f172a", got.Values["background-color"])
		}
		if got.Values["header-bg"] != "linear-gradient(135deg, #4338ca 0%, #6366f1 100%)" {
			t.Errorf("header-bg should come from the portal layer, got %q", got.Values["header-bg"])
		}
	}

	resp, body := get(t, ts, "/resolve")
	if resp.StatusCode != http.StatusOK || !strings.Contains(body, `"scope":"default"`) {
		t.Errorf("default resolve = %d %s", resp.StatusCode, body)
	}
}

func TestToken(t *testing.T) {
	ts := newTestServer(t, nil)

	resp, body := get(t, ts, "/tokens/primary?scope=dark")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d: %s", resp.StatusCode, body)
	}
	var got TokenResponse
	if err := json.Unmarshal([]byte(body), &got); err != nil {
		t.Fatal(err)
	}
	want := TokenResponse{
		Name:        "primary",
		Scope:       "dark",
		Indirection: "rgb(var(--primary-color-rgb) / <alpha-value>)",
		Value:       "rgb(129 140 248 / 1)",
	}
	if got != want {
		t.Errorf("token = %+v, want %+v", got, want)
	}
}

func TestErrors(t *testing.T) {
	ts := newTestServer(t, nil)
	tests := []struct {
		path   string
		status int
		code   string
	}{
		{"/tokens/nope", http.StatusNotFound, "TOKEN_NOT_FOUND"},
		{"/resolve?scope=sepia", http.StatusBadRequest, "INVALID_SCOPE"},
		{"/tokens/primary?scope=sepia", http.StatusBadRequest, "INVALID_SCOPE"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp, body := get(t, ts, tt.path, requestIDHeader, "req-42")
			if resp.StatusCode != tt.status {
				t.Fatalf("status = %d, want %d", resp.StatusCode, tt.status)
			}
			if ct := resp.Header.Get("Content-Type"); ct != "application/problem+json" {
				t.Errorf("Content-Type = %q", ct)
			}
			var p Problem
			if err := json.Unmarshal([]byte(body), &p); err != nil {
				t.Fatal(err)
			}
			if p.Code != tt.code || p.RequestID != "req-42" {
				t.Errorf("problem = %+v", p)
			}
		})
	}
}

func TestMissingDocument(t *testing.T) {
	s, err := New(Config{Options: pipeline.Options{ConfigPath: t.TempDir() + "/missing.toml"}})
	if err != nil {
		t.Fatal(err)
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/theme.css", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestObserveReportsRoutePattern(t *testing.T) {
	defer observability.Reset()
	hooks := &recordingHooks{}
	observability.SetHTTPHooks(hooks)

	ts := newTestServer(t, nil)
	get(t, ts, "/tokens/primary")

	hooks.mu.Lock()
	defer hooks.mu.Unlock()
	if hooks.route != "/tokens/{name}" || hooks.status != http.StatusOK {
		t.Errorf("hooks saw route=%q status=%d", hooks.route, hooks.status)
	}
}

func TestRunShutsDown(t *testing.T) {
	s, err := New(Config{Options: pipeline.Options{Source: config.Starter()}})
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx, "127.0.0.1:0") }()

	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run() = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

type recordingHooks struct {
	observability.NoopHTTPHooks
	mu     sync.Mutex
	route  string
	status int
}

func (h *recordingHooks) OnResponse(_ context.Context, _, route string, status int, _ time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.route = route
	h.status = status
}
