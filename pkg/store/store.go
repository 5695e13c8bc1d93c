// Package store persists display document snapshots so a restarted
// sink server can restore its registry. Backends: in-memory (single
// server) and Redis (shared).
package store

import (
	"context"
	"errors"
	"time"
)

// ErrStoreClosed is returned when operations are attempted on a closed
// store.
var ErrStoreClosed = errors.New("store: closed")

// SnapshotStore persists serialized display documents.
// Implementations must be safe for concurrent use.
type SnapshotStore interface {
	// Save persists a document snapshot. An existing snapshot for the
	// same id is overwritten. The snapshot expires at expiresAt.
	Save(ctx context.Context, id string, doc []byte, expiresAt time.Time) error

	// Load retrieves a snapshot by display id.
	// Returns (nil, nil) if the snapshot doesn't exist or has expired.
	Load(ctx context.Context, id string) ([]byte, error)

	// Delete removes a snapshot. Deleting a missing id is not an error.
	Delete(ctx context.Context, id string) error

	// Close releases any resources held by the store.
	Close() error
}
