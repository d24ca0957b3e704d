package core

import "time"

// Role identifies the author of a transcript entry.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// TranscriptEntry is one message in a user's append-only conversation log.
// The live buffer keeps a bounded window of these; durable storage may keep
// a superset. Transcript entries are context, never scored or evicted by
// the memory store.
type TranscriptEntry struct {
	ID         string        `json:"id"`
	UserID     string        `json:"user_id"`
	Role       Role          `json:"role"`
	Content    string        `json:"content"`
	Timestamp  time.Time     `json:"timestamp"`
	Emotion    Emotion       `json:"emotion,omitempty"`
	Importance ImportanceTag `json:"importance"`
}
