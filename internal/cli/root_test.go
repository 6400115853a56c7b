package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/themescope/pkg/cache"
	"github.com/matzehuels/themescope/pkg/errors"
	"github.com/matzehuels/themescope/pkg/observability"
	"github.com/matzehuels/themescope/pkg/store"
)

// execute runs the root command with args and isolated XDG directories.
func execute(t *testing.T, args ...string) error {
	t.Helper()
	t.Cleanup(observability.Reset)

	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	root.SetArgs(args)
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	return root.ExecuteContext(context.Background())
}

// isolate points cache and data directories into the test's temp dir.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", filepath.Join(dir, "cache"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	t.Setenv(envCache, "")
	t.Setenv(envStore, "")
	t.Setenv("THEMESCOPE_CONFIG", "")
	return dir
}

func TestRootCommandRegistersSubcommands(t *testing.T) {
	root := New(io.Discard, LogInfo).RootCommand()
	for _, name := range []string{
		"init", "check", "build", "resolve", "explain", "token",
		"graph", "preview", "serve", "revision", "cache", "completion",
	} {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Errorf("subcommand %q not registered", name)
		}
	}
}

func TestInitCheckBuild(t *testing.T) {
	dir := isolate(t)
	cfg := filepath.Join(dir, "themescope.toml")
	out := filepath.Join(dir, "dist")

	if err := execute(t, "init", cfg); err != nil {
		t.Fatalf("init: %v", err)
	}
	if err := execute(t, "init", cfg); err == nil {
		t.Error("init should refuse to overwrite without --force")
	}
	if err := execute(t, "check", "-c", cfg); err != nil {
		t.Fatalf("check: %v", err)
	}
	if err := execute(t, "build", "-c", cfg, "-o", out, "-f", "css,js,json"); err != nil {
		t.Fatalf("build: %v", err)
	}

	for _, name := range []string{"theme.css", "tailwind.config.js", "scopes.json"} {
		data, err := os.ReadFile(filepath.Join(out, name))
		if err != nil {
			t.Errorf("missing %s: %v", name, err)
			continue
		}
		if len(data) == 0 {
			t.Errorf("%s is empty", name)
		}
	}

	// Re-import the exported matrix as a variables-only document.
	imported := filepath.Join(dir, "imported.toml")
	if err := execute(t, "init", imported, "--from", filepath.Join(out, "scopes.json")); err != nil {
		t.Fatalf("init --from: %v", err)
	}
	data, _ := os.ReadFile(imported)
	if !strings.Contains(string(data), `[variables."dark+portal"]`) {
		t.Errorf("imported document missing dark+portal layer:\n%s", data)
	}
	if err := execute(t, "check", "-c", imported); err != nil {
		t.Errorf("check imported: %v", err)
	}
}

func TestBuildInvalidFormat(t *testing.T) {
	isolate(t)
	err := execute(t, "build", "-f", "pdf")
	if !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("build -f pdf = %v, want INVALID_FORMAT", err)
	}
}

func TestCheckInvalidDocument(t *testing.T) {
	dir := isolate(t)
	cfg := filepath.Join(dir, "bad.toml")
	os.WriteFile(cfg, []byte("[variables.sepia]\nbackground-color = \"#704214\"\n"), 0644)

	err := execute(t, "check", "-c", cfg)
	if !errors.Is(err, errors.ErrCodeInvalidScope) {
		t.Errorf("check = %v, want INVALID_SCOPE", err)
	}
}

func TestInspectCommands(t *testing.T) {
	dir := isolate(t)
	cfg := filepath.Join(dir, "themescope.toml")
	if err := execute(t, "init", cfg); err != nil {
		t.Fatal(err)
	}

	ok := [][]string{
		{"resolve", "-c", cfg, "--scope", "dark,portal"},
		{"resolve", "-c", cfg, "--all"},
		{"explain", "-c", cfg, "background-color"},
		{"token", "-c", cfg, "primary", "--scope", "dark"},
		{"token", "-c", cfg, "--list"},
		{"graph", "-c", cfg, "-o", filepath.Join(dir, "scopes.dot")},
	}
	for _, args := range ok {
		if err := execute(t, args...); err != nil {
			t.Errorf("%v: %v", args, err)
		}
	}

	fail := []struct {
		args []string
		code errors.Code
	}{
		{[]string{"resolve", "-c", cfg, "--scope", "sepia"}, errors.ErrCodeInvalidScope},
		{[]string{"explain", "-c", cfg, "no-such-key"}, errors.ErrCodeNotFound},
		{[]string{"token", "-c", cfg, "no.such.token"}, errors.ErrCodeTokenNotFound},
		{[]string{"graph", "-c", cfg, "-f", "png"}, errors.ErrCodeInvalidFormat},
	}
	for _, tt := range fail {
		if err := execute(t, tt.args...); !errors.Is(err, tt.code) {
			t.Errorf("%v = %v, want %s", tt.args, err, tt.code)
		}
	}
}

func TestRevisionWorkflow(t *testing.T) {
	dir := isolate(t)
	cfg := filepath.Join(dir, "themescope.toml")
	if err := execute(t, "init", cfg); err != nil {
		t.Fatal(err)
	}

	if err := execute(t, "revision", "save", "-c", cfg, "-m", "starter"); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := execute(t, "revision", "save", "-c", cfg, "-m", "again"); err != nil {
		t.Fatalf("save unchanged: %v", err)
	}

	data, _ := os.ReadFile(cfg)
	edited := strings.Replace(string(data), `background-color = "#0f172a"`, `background-color = "#020617"`, 1)
	os.WriteFile(cfg, []byte(edited), 0644)
	if err := execute(t, "revision", "save", "-c", cfg, "-m", "darker portal"); err != nil {
		t.Fatalf("save edited: %v", err)
	}

	st, err := store.NewFileStore("")
	if err != nil {
		t.Fatal(err)
	}
	revs, err := st.List(context.Background(), 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(revs) != 2 {
		t.Fatalf("revisions = %d, want 2 (unchanged save is a no-op)", len(revs))
	}

	for _, args := range [][]string{
		{"revision", "list"},
		{"revision", "show", revs[1].ShortID()},
		{"revision", "diff", revs[1].ID, revs[0].ID},
		{"revision", "diff", revs[1].ID, "-c", cfg},
	} {
		if err := execute(t, args...); err != nil {
			t.Errorf("%v: %v", args, err)
		}
	}

	if err := execute(t, "revision", "show", "ffffffff"); !errors.Is(err, errors.ErrCodeRevisionNotFound) {
		t.Errorf("show unknown = %v, want REVISION_NOT_FOUND", err)
	}
}

func TestCacheBackends(t *testing.T) {
	dir := isolate(t)
	ctx := context.Background()

	c, err := newCache(ctx, backendNone)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := c.(cache.Clearer); ok {
		t.Error("null cache should not be clearable")
	}

	c, err = newCache(ctx, "")
	if err != nil {
		t.Fatal(err)
	}
	fc, ok := c.(*cache.FileCache)
	if !ok {
		t.Fatalf("default backend = %T, want *cache.FileCache", c)
	}
	if fc.Dir() != filepath.Join(dir, "cache", appName) {
		t.Errorf("file cache dir = %q", fc.Dir())
	}

	t.Setenv(envCache, backendNone)
	if c, _ := newCache(ctx, ""); c == nil {
		t.Error("env backend none returned nil cache")
	} else if _, ok := c.(*cache.FileCache); ok {
		t.Error("THEMESCOPE_CACHE=none should disable the file cache")
	}

	if _, err := newCache(ctx, "memcached"); err == nil {
		t.Error("unknown backend should fail")
	}

	if err := execute(t, "cache", "clear"); err != nil {
		t.Errorf("cache clear: %v", err)
	}
}
