// Package persist defines the durable document store the live stores are
// views over. Implementations are document-oriented get/put/query keyed by
// user ID and entry ID, covering the three entity collections: traits,
// memory entries, and transcript entries.
//
// Durable storage may retain a superset of what the live working set keeps;
// the bounded containers in memory and transcript govern only what is held
// in process. Nothing in this package evicts.
package persist

import (
	"context"
	"errors"

	"github.com/havenlabs/aria-go-sdk/core"
)

// ErrNotFound is returned by point lookups for absent documents.
var ErrNotFound = errors.New("persist: not found")

// Store is the persistence capability. Implementations apply their own
// internal concurrency control per user.
type Store interface {
	// PutTraits upserts a user's trait vector.
	PutTraits(ctx context.Context, userID string, tv core.TraitVector) error

	// GetTraits returns a user's trait vector, or ErrNotFound.
	GetTraits(ctx context.Context, userID string) (core.TraitVector, error)

	// PutMemory upserts a memory entry keyed by (UserID, ID).
	PutMemory(ctx context.Context, entry core.MemoryEntry) error

	// QueryMemories returns up to limit entries of the given class for a
	// user. Short-term entries come back newest-first, long-term entries
	// highest-importance-first, so a bounded working set can be rebuilt
	// with a single call per class.
	QueryMemories(ctx context.Context, userID string, class core.MemoryClass, limit int) ([]core.MemoryEntry, error)

	// AppendTranscript durably appends a transcript entry.
	AppendTranscript(ctx context.Context, entry core.TranscriptEntry) error

	// RecentTranscript returns up to limit transcript entries for a user
	// in chronological order, oldest first.
	RecentTranscript(ctx context.Context, userID string, limit int) ([]core.TranscriptEntry, error)

	// Close releases resources.
	Close() error
}
