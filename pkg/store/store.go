// Package store keeps a history of theme document revisions.
//
// A revision is a snapshot of the document source together with its content
// hash and a short message, much like a commit. The CLI saves revisions with
// "themescope revision save" and diffs them by resolving both snapshots.
//
// Two backends are provided:
//   - [FileStore]: JSON files under $XDG_DATA_HOME/themescope/revisions
//   - [MongoStore]: a "revisions" collection for teams sharing one history
//
// # Usage
//
//	st, err := store.NewFileStore("")
//	if err != nil {
//	    return err
//	}
//	defer st.Close()
//
//	rev, err := st.Save(ctx, store.NewRevision(doc.Hash(), doc.Source(), "darker portal"))
//
// Revisions are addressed by ID or by any unambiguous ID prefix.
package store

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/themescope/pkg/errors"
)

// ErrNotFound is returned when no revision matches an ID.
var ErrNotFound = errors.New(errors.ErrCodeRevisionNotFound, "revision not found")

// DefaultListLimit bounds List when the caller passes zero.
const DefaultListLimit = 20

// Revision is one saved version of a theme document.
type Revision struct {
	ID        string    `json:"id" bson:"_id"`
	Hash      string    `json:"hash" bson:"hash"`
	Message   string    `json:"message,omitempty" bson:"message,omitempty"`
	Source    string    `json:"source" bson:"source"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

// NewRevision returns an unsaved revision with a fresh ID.
func NewRevision(hash string, source []byte, message string) *Revision {
	return &Revision{
		ID:      uuid.NewString(),
		Hash:    hash,
		Message: message,
		Source:  string(source),
	}
}

// ShortID returns the first eight characters of the ID.
func (r *Revision) ShortID() string {
	if len(r.ID) <= 8 {
		return r.ID
	}
	return r.ID[:8]
}

// ShortHash returns the first twelve characters of the content hash.
func (r *Revision) ShortHash() string {
	if len(r.Hash) <= 12 {
		return r.Hash
	}
	return r.Hash[:12]
}

// Store is the interface for revision history backends.
type Store interface {
	// Save stores rev. When the latest revision has the same hash, nothing
	// is written and the latest revision is returned instead.
	Save(ctx context.Context, rev *Revision) (*Revision, error)

	// Get returns the revision whose ID equals or starts with id.
	// An ambiguous prefix is an INVALID_INPUT error.
	Get(ctx context.Context, id string) (*Revision, error)

	// List returns up to limit revisions, newest first.
	List(ctx context.Context, limit int) ([]*Revision, error)

	// Latest returns the newest revision, or ErrNotFound for an empty history.
	Latest(ctx context.Context) (*Revision, error)

	// Close releases the backend's resources.
	Close() error
}

func prepare(rev *Revision) error {
	if rev == nil || rev.Hash == "" {
		return errors.New(errors.ErrCodeInvalidInput, "revision has no content hash")
	}
	if rev.ID == "" {
		rev.ID = uuid.NewString()
	}
	if rev.CreatedAt.IsZero() {
		rev.CreatedAt = time.Now().UTC()
	}
	return nil
}

func notFound(id string) error {
	return errors.Wrap(errors.ErrCodeRevisionNotFound, ErrNotFound, "no revision matches %q", id)
}

func ambiguous(id string, matches []string) error {
	return errors.New(errors.ErrCodeInvalidInput, "revision prefix %q is ambiguous (%s)", id, strings.Join(matches, ", "))
}

// sortNewest orders revisions by creation time, newest first.
func sortNewest(revs []*Revision) {
	slices.SortFunc(revs, func(a, b *Revision) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
}
