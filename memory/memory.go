package memory

import (
	"context"
	"time"
)

// Embedder converts text to vector embeddings for the relevance index.
// Implementations: hash.Embedder (deterministic, offline), or any
// API-backed embedder satisfying the same contract.
type Embedder interface {
	// Embed converts a single text to an embedding vector.
	Embed(ctx context.Context, text string) ([]float32, error)

	// Dimensions returns the embedding vector size.
	Dimensions() int
}

// Index is the vector index over a user's long-term entries. It only ever
// holds entry IDs and embeddings; the store remains the source of truth
// for entry contents and scores.
type Index interface {
	// Add indexes an entry's embedding under its user and ID.
	Add(ctx context.Context, userID, entryID, content string, embedding []float32) error

	// Similarities returns entry ID -> cosine similarity for up to limit
	// entries closest to the query embedding. Empty index yields an empty
	// map, not an error.
	Similarities(ctx context.Context, userID string, embedding []float32, limit int) (map[string]float32, error)

	// Remove drops an entry from the index.
	Remove(ctx context.Context, userID, entryID string) error
}

// Config holds the memory store's tunable parameters. The retrieval
// weights and promotion thresholds are deliberately configuration rather
// than contract.
type Config struct {
	// ShortTermCeiling caps short-term entries per user. Exceeding it
	// evicts the oldest entry, irrespective of score. Default: 15.
	ShortTermCeiling int

	// LongTermCeiling caps long-term entries per user. Exceeding it
	// evicts the lowest-composite-score entry, ties broken by
	// least-recent access. Default: 100.
	LongTermCeiling int

	// LongTermThreshold is the importance score at or above which a
	// recorded candidate is classed long-term. Default: 0.7.
	LongTermThreshold float64

	// PromoteAccessCount is the sustained-use signal for promotion: a
	// short-term entry accessed at least this many times is eligible.
	// Default: 3.
	PromoteAccessCount int

	// RecencyHalfLife controls the exponential decay of the recency term.
	// Default: 24h.
	RecencyHalfLife time.Duration

	// Composite score weights. Defaults follow the 0.5/0.3/0.1/0.1 split
	// between relevance, importance, recency, and access frequency.
	WeightRelevance  float64
	WeightImportance float64
	WeightRecency    float64
	WeightAccess     float64
}

// DefaultConfig returns sensible defaults.
var DefaultConfig = &Config{
	ShortTermCeiling:   15,
	LongTermCeiling:    100,
	LongTermThreshold:  0.7,
	PromoteAccessCount: 3,
	RecencyHalfLife:    24 * time.Hour,
	WeightRelevance:    0.5,
	WeightImportance:   0.3,
	WeightRecency:      0.1,
	WeightAccess:       0.1,
}
