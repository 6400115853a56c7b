package config

import (
	_ "embed"
)

//go:embed starter.toml
var starter []byte

// Starter returns the built-in starter document source.
func Starter() []byte {
	out := make([]byte, len(starter))
	copy(out, starter)
	return out
}
