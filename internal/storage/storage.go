// Package storage holds the document store contract and its file and
// in-memory backends. SQL backends live under internal/repository.
package storage

import (
	"context"
	"fmt"
	"regexp"
)

// Document is a JSON payload stored under a key. Revision 0 means the key
// has never been written (or was deleted).
type Document struct {
	Key      string
	Data     []byte
	Revision int64
}

// DocumentStore is a keyed JSON store with per-key compare-and-swap.
type DocumentStore interface {
	// Get returns the document for key. A missing key yields an empty
	// document with Revision 0, not an error.
	Get(ctx context.Context, key string) (*Document, error)

	// Put writes data if the stored revision still equals expected and
	// returns the new revision. A mismatch returns domain.ErrRevisionConflict.
	Put(ctx context.Context, key string, data []byte, expected int64) (int64, error)

	// Delete removes key. Deleting a missing key is not an error.
	// No tombstone is kept: the key's revision goes back to 0, so a writer
	// that read the key before it ever existed can still create it after a
	// delete. Writers holding any revision above 0 get ErrRevisionConflict.
	// Only recommendation documents are deleted, when their share is.
	Delete(ctx context.Context, key string) error

	Close() error
}

var validKey = regexp.MustCompile(`^[A-Za-z0-9_-]{1,128}$`)

// ValidateKey rejects keys that could escape a directory or table row.
func ValidateKey(key string) error {
	if !validKey.MatchString(key) {
		return fmt.Errorf("invalid document key %q", key)
	}
	return nil
}
