package core

import "time"

// MemoryClass separates the two bounded memory containers. Short-term
// memory is recency-bounded (FIFO), long-term memory is score-bounded.
type MemoryClass string

const (
	ShortTerm MemoryClass = "short_term"
	LongTerm  MemoryClass = "long_term"
)

// ImportanceTag is the coarse importance bucket attached to transcript
// entries and derived from a memory's numeric score.
type ImportanceTag string

const (
	ImportanceHigh   ImportanceTag = "high"
	ImportanceMedium ImportanceTag = "medium"
	ImportanceLow    ImportanceTag = "low"
)

// TagForScore buckets a numeric importance score into an ImportanceTag.
func TagForScore(score float64) ImportanceTag {
	switch {
	case score >= 0.7:
		return ImportanceHigh
	case score >= 0.4:
		return ImportanceMedium
	default:
		return ImportanceLow
	}
}

// MemoryEntry is one remembered fact or exchange belonging to exactly one
// user. IDs are ULIDs, so lexicographic order is creation order.
type MemoryEntry struct {
	ID           string      `json:"id"`
	UserID       string      `json:"user_id"`
	Content      string      `json:"content"`
	Class        MemoryClass `json:"class"`
	Importance   float64     `json:"importance"`
	CreatedAt    time.Time   `json:"created_at"`
	LastAccessed time.Time   `json:"last_accessed"`
	AccessCount  int         `json:"access_count"`
}

// MemoryCandidate is a not-yet-classified memory extracted from a turn.
// Importance is optional; when nil the store scores the content itself.
type MemoryCandidate struct {
	Content    string   `json:"content"`
	Importance *float64 `json:"importance,omitempty"`
	Emotion    Emotion  `json:"emotion,omitempty"`
}
