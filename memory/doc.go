// Package memory implements the bounded, importance-scored memory store.
//
// Each user owns two independent containers with fundamentally different
// eviction policies:
//
//   - Short-term: a recency-bounded FIFO window. Once the ceiling is
//     exceeded the oldest entry is evicted regardless of its score, so the
//     assistant never loses the immediate thread.
//   - Long-term: a score-bounded set. Entries enter by importance and are
//     evicted lowest-composite-score first (ties by least-recent access),
//     so salient facts persist regardless of turn count.
//
// Retrieval ranks entries from both containers by a composite score
// combining relevance, importance, recency, and access frequency, and bumps
// access metadata on everything it returns.
//
// The live containers are views over a durable persist.Store; eviction
// drops entries from the working set only, never from durable storage.
//
// Architecture:
//   - Store: the memory store itself (retrieve, record, promote)
//   - Index: vector index over long-term entries for the relevance term
//   - Embedder: text-to-vector conversion feeding the index
package memory
