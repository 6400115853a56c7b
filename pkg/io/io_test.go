package io

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/themescope/pkg/errors"
	"github.com/matzehuels/themescope/pkg/scope"
)

func sample() *scope.Table {
	return scope.MustTable(map[scope.Predicate]map[string]string{
		scope.Default:    {"background-color": "#f9fafb", "primary-color-darker": "#3730a3"},
		scope.Dark:       {"background-color": "#111827"},
		scope.Portal:     {"primary-color-darker": "#4338ca", "portal-accent": "#6366f1"},
		scope.DarkPortal: {"primary-color-darker": "#a5b4fc"},
	})
}

func TestWriteReadJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(sample(), &buf); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}

	got, err := ReadJSON(&buf)
	if err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	if len(scope.Diff(sample(), got)) != 0 {
		t.Errorf("table changed across JSON: %v", scope.Diff(sample(), got))
	}
}

func TestWriteJSONScopes(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(sample(), &buf); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}

	var doc document
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(doc.Scopes) != 4 {
		t.Fatalf("scopes = %d, want 4", len(doc.Scopes))
	}
	last := doc.Scopes[3]
	if last.Scope != "dark,portal" {
		t.Errorf("last scope = %q, want dark,portal", last.Scope)
	}
	if last.Values["primary-color-darker"] != "#a5b4fc" {
		t.Errorf("dark,portal primary-color-darker = %q", last.Values["primary-color-darker"])
	}
	if last.Values["background-color"] != "#111827" {
		t.Errorf("dark,portal background-color = %q", last.Values["background-color"])
	}
	if _, ok := doc.Scopes[1].Values["portal-accent"]; ok {
		t.Error("portal-only key leaked into the dark scope")
	}
	if _, ok := doc.Layers["dark+portal"]; !ok {
		t.Error("layers should be keyed by predicate name")
	}
}

func TestReadJSONErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
		code errors.Code
	}{
		{"malformed", `{"layers":`, errors.ErrCodeInvalidInput},
		{"empty", `{}`, errors.ErrCodeInvalidInput},
		{"unknown layer", `{"layers":{"sepia":{"a":"1"}}}`, errors.ErrCodeInvalidScope},
		{"duplicate layer", `{"layers":{"default":{"a":"1"},"light":{"a":"2"}}}`, errors.ErrCodeInvalidScope},
		{"bad color", `{"layers":{"default":{"background-color":"#zzz"}}}`, errors.ErrCodeInvalidColor},
		{"tampered scope", `{"layers":{"default":{"a":"1"}},"scopes":[{"scope":"dark","values":{"a":"2"}}]}`, errors.ErrCodeInvalidInput},
		{"unknown scope", `{"layers":{"default":{"a":"1"}},"scopes":[{"scope":"night","values":{"a":"1"}}]}`, errors.ErrCodeInvalidScope},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadJSON(strings.NewReader(tt.in))
			if !errors.Is(err, tt.code) {
				t.Errorf("ReadJSON() error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestExportImportJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scopes.json")
	if err := ExportJSON(sample(), path); err != nil {
		t.Fatalf("ExportJSON: %v", err)
	}
	got, err := ImportJSON(path)
	if err != nil {
		t.Fatalf("ImportJSON: %v", err)
	}
	if v, _, _ := got.Lookup(scope.NewSet(scope.Portal), "portal-accent"); v != "#6366f1" {
		t.Errorf("portal-accent = %q", v)
	}
}
