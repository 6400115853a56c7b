package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// FileStore keeps revisions as JSON files in a data directory.
type FileStore struct {
	mu      sync.RWMutex
	baseDir string
}

// NewFileStore creates a file-based revision store.
// If baseDir is empty, defaults to $XDG_DATA_HOME/themescope/revisions
// (~/.local/share/themescope/revisions).
func NewFileStore(baseDir string) (*FileStore, error) {
	if baseDir == "" {
		dir, err := DefaultDir()
		if err != nil {
			return nil, err
		}
		baseDir = dir
	}
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("create revision dir: %w", err)
	}
	return &FileStore{baseDir: baseDir}, nil
}

// DefaultDir returns the XDG data location for revisions.
func DefaultDir() (string, error) {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "themescope", "revisions"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(home, ".local", "share", "themescope", "revisions"), nil
}

func (s *FileStore) revisionPath(id string) string {
	return filepath.Join(s.baseDir, id+".json")
}

func (s *FileStore) Save(ctx context.Context, rev *Revision) (*Revision, error) {
	if err := prepare(rev); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.readAll()
	if err != nil {
		return nil, err
	}
	if len(all) > 0 && all[0].Hash == rev.Hash {
		return all[0], nil
	}

	data, err := json.MarshalIndent(rev, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal revision: %w", err)
	}
	if err := os.WriteFile(s.revisionPath(rev.ID), data, 0644); err != nil {
		return nil, fmt.Errorf("write revision file: %w", err)
	}
	return rev, nil
}

func (s *FileStore) Get(ctx context.Context, id string) (*Revision, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if id == "" {
		return nil, notFound(id)
	}
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, fmt.Errorf("read revision dir: %w", err)
	}

	var matches []string
	for _, e := range entries {
		name, ok := strings.CutSuffix(e.Name(), ".json")
		if !ok || e.IsDir() {
			continue
		}
		if name == id {
			matches = []string{name}
			break
		}
		if strings.HasPrefix(name, id) {
			matches = append(matches, name)
		}
	}

	switch len(matches) {
	case 0:
		return nil, notFound(id)
	case 1:
		return s.read(s.revisionPath(matches[0]))
	default:
		return nil, ambiguous(id, matches)
	}
}

func (s *FileStore) List(ctx context.Context, limit int) ([]*Revision, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all, err := s.readAll()
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (s *FileStore) Latest(ctx context.Context) (*Revision, error) {
	revs, err := s.List(ctx, 1)
	if err != nil {
		return nil, err
	}
	if len(revs) == 0 {
		return nil, ErrNotFound
	}
	return revs[0], nil
}

func (s *FileStore) Close() error { return nil }

// Path returns the directory holding revision files.
func (s *FileStore) Path() string {
	return s.baseDir
}

// readAll loads every revision, newest first. Unreadable files are skipped.
func (s *FileStore) readAll() ([]*Revision, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, fmt.Errorf("read revision dir: %w", err)
	}
	var revs []*Revision
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".json" {
			continue
		}
		rev, err := s.read(filepath.Join(s.baseDir, e.Name()))
		if err != nil {
			continue
		}
		revs = append(revs, rev)
	}
	sortNewest(revs)
	return revs, nil
}

func (s *FileStore) read(path string) (*Revision, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read revision file: %w", err)
	}
	var rev Revision
	if err := json.Unmarshal(data, &rev); err != nil {
		return nil, fmt.Errorf("parse revision: %w", err)
	}
	return &rev, nil
}

var _ Store = (*FileStore)(nil)
