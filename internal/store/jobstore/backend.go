// internal/store/jobstore/backend.go
package jobstore

import "context"

// Backend persists the requisition collection as one opaque snapshot under a
// single key. There are no per-record writes; every mutation rewrites the
// whole blob, which keeps the original last-writer-wins semantics.
type Backend interface {
	// Load returns the raw snapshot and whether one exists yet.
	Load(ctx context.Context) ([]byte, bool, error)
	// Save replaces the snapshot.
	Save(ctx context.Context, data []byte) error
}
