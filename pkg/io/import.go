package io

import (
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"os"

	"github.com/matzehuels/themescope/pkg/errors"
	"github.com/matzehuels/themescope/pkg/scope"
)

// ReadJSON decodes a table from r.
//
// The table is rebuilt from "layers". Each "scopes" entry, when present, is
// checked against the rebuilt table. ReadJSON does not close r.
func ReadJSON(r io.Reader) (*scope.Table, error) {
	var data document
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode scope table")
	}
	if len(data.Layers) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "scope table has no layers")
	}

	layers := make(map[scope.Predicate]map[string]string, len(data.Layers))
	for name, values := range data.Layers {
		p, err := scope.ParsePredicate(name)
		if err != nil {
			return nil, err
		}
		if _, dup := layers[p]; dup {
			return nil, errors.New(errors.ErrCodeInvalidScope, "layer %s appears twice", p)
		}
		layers[p] = values
	}
	t, err := scope.NewTable(layers)
	if err != nil {
		return nil, err
	}

	for _, entry := range data.Scopes {
		set, err := scope.ParseSet(entry.Scope)
		if err != nil {
			return nil, err
		}
		if !maps.Equal(t.Resolve(set), entry.Values) {
			return nil, errors.New(errors.ErrCodeInvalidInput,
				"resolved values for scope %q do not match its layers", entry.Scope)
		}
	}
	return t, nil
}

// ImportJSON reads a JSON file at path and returns the decoded table.
func ImportJSON(path string) (*scope.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f)
}
