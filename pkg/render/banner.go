package render

import (
	"fmt"
	"path/filepath"

	"github.com/matzehuels/themescope/pkg/buildinfo"
	"github.com/matzehuels/themescope/pkg/config"
)

// Banner returns the one-line generated-file notice, without comment markers.
func Banner(doc *config.Document) string {
	src := "<inline>"
	if doc.Path() != "" {
		src = filepath.Base(doc.Path())
	}
	hash := doc.Hash()
	if len(hash) > 12 {
		hash = hash[:12]
	}
	return fmt.Sprintf("Generated by themescope %s from %s (sha256 %s). Do not edit.", buildinfo.Version, src, hash)
}
