package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/themescope/pkg/scope"
)

type document struct {
	Layers map[string]map[string]string `json:"layers"`
	Scopes []resolved                   `json:"scopes,omitempty"`
}

type resolved struct {
	Scope  string            `json:"scope"`
	Values map[string]string `json:"values"`
}

// WriteJSON encodes a table's layers and its resolved values for every
// predicate set and writes them to w.
func WriteJSON(t *scope.Table, w io.Writer) error {
	out := document{Layers: make(map[string]map[string]string)}
	for p, layer := range t.Layers() {
		out.Layers[p.String()] = layer
	}
	for _, s := range scope.AllSets() {
		out.Scopes = append(out.Scopes, resolved{Scope: s.String(), Values: t.Resolve(s)})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes a table to a JSON file at path.
func ExportJSON(t *scope.Table, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(t, f)
}
