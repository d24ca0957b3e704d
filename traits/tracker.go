// Package traits implements the trait tracker: one evolving personality
// vector per user, mutated only through bounded per-turn deltas.
package traits

import (
	"context"
	"errors"
	"log"
	"sync"

	"github.com/havenlabs/aria-go-sdk/core"
	"github.com/havenlabs/aria-go-sdk/persist"
)

// Config holds the tracker's bounds.
type Config struct {
	// MaxDeltaPerTurn caps the magnitude of every continuous component of
	// a single delta. A requested component beyond the cap is applied at
	// the cap, never in full; this is the documented clamp rule, not a
	// tuning suggestion. Default: 0.1.
	MaxDeltaPerTurn float64
}

// DefaultConfig returns the default bounds.
var DefaultConfig = &Config{MaxDeltaPerTurn: 0.1}

// Tracker owns the per-user trait vectors, write-through to durable
// storage.
type Tracker struct {
	docs persist.Store
	cfg  *Config

	mu      sync.Mutex
	vectors map[string]core.TraitVector
}

// New creates a tracker over the given durable store. A nil config uses
// DefaultConfig.
func New(docs persist.Store, cfg *Config) *Tracker {
	if cfg == nil {
		cfg = DefaultConfig
	}
	return &Tracker{
		docs:    docs,
		cfg:     cfg,
		vectors: make(map[string]core.TraitVector),
	}
}

// Current returns a read-only snapshot of the user's trait vector. A user
// without one gets neutral defaults; reading never creates state.
func (t *Tracker) Current(ctx context.Context, userID string) (core.TraitVector, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.currentLocked(ctx, userID)
}

func (t *Tracker) currentLocked(ctx context.Context, userID string) (core.TraitVector, error) {
	if tv, ok := t.vectors[userID]; ok {
		return tv, nil
	}
	tv, err := t.docs.GetTraits(ctx, userID)
	if errors.Is(err, persist.ErrNotFound) {
		return core.NeutralTraits(), nil
	}
	if err != nil {
		return core.TraitVector{}, err
	}
	t.vectors[userID] = tv
	return tv, nil
}

// ApplyDelta applies a bounded delta: each continuous component is capped
// at MaxDeltaPerTurn, added, and clamped to [0,1]; categorical fields are
// replaced only when the delta names a new value. A user without a vector
// gets one initialized to neutral defaults first — this is the only
// implicit creation path.
func (t *Tracker) ApplyDelta(ctx context.Context, userID string, delta *core.TraitDelta) (core.TraitVector, error) {
	if err := validateDelta(delta); err != nil {
		return core.TraitVector{}, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	tv, err := t.currentLocked(ctx, userID)
	if err != nil {
		return core.TraitVector{}, err
	}

	if delta != nil {
		limit := t.cfg.MaxDeltaPerTurn
		tv.Openness = core.Clamp01(tv.Openness + capped(delta.Openness, limit))
		tv.Conscientiousness = core.Clamp01(tv.Conscientiousness + capped(delta.Conscientiousness, limit))
		tv.Extraversion = core.Clamp01(tv.Extraversion + capped(delta.Extraversion, limit))
		tv.Agreeableness = core.Clamp01(tv.Agreeableness + capped(delta.Agreeableness, limit))
		tv.Neuroticism = core.Clamp01(tv.Neuroticism + capped(delta.Neuroticism, limit))

		if delta.Style != "" {
			tv.Style = delta.Style
		}
		if delta.State != "" {
			tv.State = delta.State
		}
		if delta.Approach != "" {
			tv.Approach = delta.Approach
		}
	}

	if err := t.docs.PutTraits(ctx, userID, tv); err != nil {
		return core.TraitVector{}, err
	}
	t.vectors[userID] = tv

	log.Printf("[TRAITS] applied delta for user=%s (state=%s)", userID, tv.State)
	return tv, nil
}

// validateDelta rejects categorical values outside the fixed enums.
// Unknown categories are a programming error, not something to absorb.
func validateDelta(d *core.TraitDelta) error {
	if d == nil {
		return nil
	}
	if d.Style != "" && !d.Style.Valid() {
		return core.Invariantf("unknown communication style %q", d.Style)
	}
	if d.State != "" && !d.State.Valid() {
		return core.Invariantf("unknown emotional state %q", d.State)
	}
	if d.Approach != "" && !d.Approach.Valid() {
		return core.Invariantf("unknown approach %q", d.Approach)
	}
	return nil
}

func capped(v, limit float64) float64 {
	if v > limit {
		return limit
	}
	if v < -limit {
		return -limit
	}
	return v
}
