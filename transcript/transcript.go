// Package transcript implements the bounded conversation buffer: an
// append-only per-user log whose live window keeps only the most recent
// entries, write-through to durable storage.
package transcript

import (
	"context"
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/havenlabs/aria-go-sdk/core"
	"github.com/havenlabs/aria-go-sdk/persist"
)

// Config holds the buffer's bounds.
type Config struct {
	// WindowSize is how many recent entries the live window retains per
	// user. Older entries fall out of the window but stay in durable
	// storage. Default: 15.
	WindowSize int
}

// DefaultConfig returns the default bounds.
var DefaultConfig = &Config{WindowSize: 15}

// Buffer keeps the live conversation window per user, backed by the
// durable store for history beyond the window.
type Buffer struct {
	docs persist.Store
	cfg  *Config
	now  func() time.Time

	mu      sync.Mutex
	windows map[string]*window
	entropy *ulid.MonotonicEntropy
}

type window struct {
	entries []core.TranscriptEntry // chronological, oldest first
	loaded  bool
}

// New creates a buffer over the given durable store. A nil config uses
// DefaultConfig.
func New(docs persist.Store, cfg *Config) *Buffer {
	if cfg == nil {
		cfg = DefaultConfig
	}
	return &Buffer{
		docs:    docs,
		cfg:     cfg,
		now:     time.Now,
		windows: make(map[string]*window),
		entropy: ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0),
	}
}

// Append records a message at the tail of the user's log. The entry is
// written through to durable storage before the live window is updated;
// a storage failure leaves the window untouched.
func (b *Buffer) Append(ctx context.Context, userID string, role core.Role, content string, emotion core.Emotion, importance core.ImportanceTag) (core.TranscriptEntry, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	w, err := b.windowLocked(ctx, userID)
	if err != nil {
		return core.TranscriptEntry{}, err
	}

	now := b.now()
	entry := core.TranscriptEntry{
		ID:         ulid.MustNew(ulid.Timestamp(now), b.entropy).String(),
		UserID:     userID,
		Role:       role,
		Content:    content,
		Timestamp:  now,
		Emotion:    emotion,
		Importance: importance,
	}

	if err := b.docs.AppendTranscript(ctx, entry); err != nil {
		return core.TranscriptEntry{}, err
	}

	w.entries = append(w.entries, entry)
	if excess := len(w.entries) - b.cfg.WindowSize; excess > 0 {
		w.entries = w.entries[excess:]
	}
	return entry, nil
}

// Window returns the user's live window in chronological order, oldest
// first. The returned slice is a copy.
func (b *Buffer) Window(ctx context.Context, userID string) ([]core.TranscriptEntry, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	w, err := b.windowLocked(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]core.TranscriptEntry, len(w.entries))
	copy(out, w.entries)
	return out, nil
}

// windowLocked returns the user's window, rebuilding it from durable
// storage on first access.
func (b *Buffer) windowLocked(ctx context.Context, userID string) (*window, error) {
	w, ok := b.windows[userID]
	if !ok {
		w = &window{}
		b.windows[userID] = w
	}
	if w.loaded {
		return w, nil
	}

	entries, err := b.docs.RecentTranscript(ctx, userID, b.cfg.WindowSize)
	if err != nil {
		return nil, err
	}
	w.entries = entries
	w.loaded = true
	if len(entries) > 0 {
		log.Printf("[TRANSCRIPT] rebuilt window for user=%s (%d entries)", userID, len(entries))
	}
	return w, nil
}
