package memory

import (
	"context"
	"errors"
	"log"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/havenlabs/aria-go-sdk/core"
	"github.com/havenlabs/aria-go-sdk/metrics"
	"github.com/havenlabs/aria-go-sdk/persist"
)

// ErrNotFound is returned by Promote for an entry ID absent from the
// user's working set.
var ErrNotFound = errors.New("memory: entry not found")

// Store owns the per-user memory working sets. It is safe for concurrent
// use; the orchestrator additionally serializes turns per user.
type Store struct {
	docs     persist.Store
	index    Index
	embedder Embedder
	cfg      *Config

	now func() time.Time

	mu      sync.Mutex
	users   map[string]*userMemory
	entropy *ulid.MonotonicEntropy
}

// userMemory is one user's live working set. shortTerm is kept oldest
// first so FIFO eviction is a slice pop.
type userMemory struct {
	shortTerm []*core.MemoryEntry
	longTerm  map[string]*core.MemoryEntry
	loaded    bool
}

// New creates a memory store over the given durable store. index and
// embedder may be nil together, in which case retrieval ranks without the
// relevance term. A nil config uses DefaultConfig.
func New(docs persist.Store, index Index, embedder Embedder, cfg *Config) *Store {
	if cfg == nil {
		cfg = DefaultConfig
	}
	return &Store{
		docs:     docs,
		index:    index,
		embedder: embedder,
		cfg:      cfg,
		now:      time.Now,
		users:    make(map[string]*userMemory),
		entropy:  ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0),
	}
}

// Retrieve returns up to k entries ranked by non-increasing composite
// score, ties broken by most recent access. Every returned entry has its
// access count and last-access time bumped. Empty memory yields an empty
// slice, never an error.
func (s *Store) Retrieve(ctx context.Context, userID, queryContext string, k int) ([]core.MemoryEntry, error) {
	if k <= 0 {
		return nil, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	um, err := s.loadLocked(ctx, userID)
	if err != nil {
		return nil, err
	}

	relevance, err := s.relevanceLocked(ctx, userID, queryContext, k)
	if err != nil {
		return nil, err
	}

	now := s.now()
	type scored struct {
		entry *core.MemoryEntry
		score float64
	}
	var candidates []scored
	for _, e := range um.shortTerm {
		candidates = append(candidates, scored{e, s.cfg.composite(e, float64(relevance[e.ID]), now)})
	}
	for _, e := range um.longTerm {
		candidates = append(candidates, scored{e, s.cfg.composite(e, float64(relevance[e.ID]), now)})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		return candidates[i].entry.LastAccessed.After(candidates[j].entry.LastAccessed)
	})

	if len(candidates) > k {
		candidates = candidates[:k]
	}

	out := make([]core.MemoryEntry, 0, len(candidates))
	for _, c := range candidates {
		c.entry.AccessCount++
		c.entry.LastAccessed = now
		if err := s.docs.PutMemory(ctx, *c.entry); err != nil {
			// Access metadata is best-effort durable; the retrieval
			// itself still succeeds.
			log.Printf("[MEMORY] persist access bump for %s failed: %v", c.entry.ID, err)
		}
		out = append(out, *c.entry)
	}

	log.Printf("[MEMORY] retrieved %d/%d entries for user=%s", len(out), len(um.shortTerm)+len(um.longTerm), userID)
	return out, nil
}

// Record scores and inserts a candidate, deciding its class from the
// importance signal: at or above the long-term threshold it lands in
// long-term memory, otherwise short-term. Ceiling overflow evicts per the
// class policy.
func (s *Store) Record(ctx context.Context, userID string, cand core.MemoryCandidate) (*core.MemoryEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	um, err := s.loadLocked(ctx, userID)
	if err != nil {
		return nil, err
	}

	importance := ScoreContent(cand.Content, cand.Emotion)
	if cand.Importance != nil {
		importance = core.Clamp01(*cand.Importance)
	}

	now := s.now()
	entry := &core.MemoryEntry{
		ID:           ulid.MustNew(ulid.Timestamp(now), s.entropy).String(),
		UserID:       userID,
		Content:      cand.Content,
		Class:        core.ShortTerm,
		Importance:   importance,
		CreatedAt:    now,
		LastAccessed: now,
	}
	if importance >= s.cfg.LongTermThreshold {
		entry.Class = core.LongTerm
	}

	if err := s.docs.PutMemory(ctx, *entry); err != nil {
		return nil, err
	}

	switch entry.Class {
	case core.ShortTerm:
		um.shortTerm = append(um.shortTerm, entry)
		s.enforceShortCeilingLocked(userID, um)
	case core.LongTerm:
		um.longTerm[entry.ID] = entry
		s.indexAddLocked(ctx, entry)
		if err := s.enforceLongCeilingLocked(ctx, userID, um); err != nil {
			return nil, err
		}
	}

	log.Printf("[MEMORY] recorded %s entry %s for user=%s (importance=%.2f)", entry.Class, entry.ID, userID, importance)
	cp := *entry
	return &cp, nil
}

// Promote reclassifies a short-term entry to long-term once it shows
// sustained use: accessed at least PromoteAccessCount times, or already
// scoring at the long-term threshold. Promoting an entry that is already
// long-term is a no-op.
func (s *Store) Promote(ctx context.Context, userID, entryID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	um, err := s.loadLocked(ctx, userID)
	if err != nil {
		return false, err
	}

	if _, ok := um.longTerm[entryID]; ok {
		return false, nil
	}

	idx := -1
	for i, e := range um.shortTerm {
		if e.ID == entryID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false, ErrNotFound
	}

	entry := um.shortTerm[idx]
	if entry.AccessCount < s.cfg.PromoteAccessCount &&
		s.cfg.composite(entry, 0, s.now()) < s.cfg.LongTermThreshold {
		return false, nil
	}

	entry.Class = core.LongTerm
	if err := s.docs.PutMemory(ctx, *entry); err != nil {
		entry.Class = core.ShortTerm
		return false, err
	}

	um.shortTerm = append(um.shortTerm[:idx], um.shortTerm[idx+1:]...)
	um.longTerm[entry.ID] = entry
	s.indexAddLocked(ctx, entry)
	if err := s.enforceLongCeilingLocked(ctx, userID, um); err != nil {
		return true, err
	}

	metrics.MemoryPromotions.Inc()
	log.Printf("[MEMORY] promoted entry %s for user=%s", entryID, userID)
	return true, nil
}

// Counts returns the live short-term and long-term sizes for a user.
func (s *Store) Counts(ctx context.Context, userID string) (short, long int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	um, err := s.loadLocked(ctx, userID)
	if err != nil {
		return 0, 0, err
	}
	return len(um.shortTerm), len(um.longTerm), nil
}

// loadLocked rebuilds the working set from durable storage on first touch.
func (s *Store) loadLocked(ctx context.Context, userID string) (*userMemory, error) {
	um, ok := s.users[userID]
	if !ok {
		um = &userMemory{longTerm: make(map[string]*core.MemoryEntry)}
		s.users[userID] = um
	}
	if um.loaded {
		return um, nil
	}

	recent, err := s.docs.QueryMemories(ctx, userID, core.ShortTerm, s.cfg.ShortTermCeiling)
	if err != nil {
		return nil, err
	}
	// QueryMemories returns newest first; the ring keeps oldest first.
	for i := len(recent) - 1; i >= 0; i-- {
		e := recent[i]
		um.shortTerm = append(um.shortTerm, &e)
	}

	salient, err := s.docs.QueryMemories(ctx, userID, core.LongTerm, s.cfg.LongTermCeiling)
	if err != nil {
		return nil, err
	}
	for i := range salient {
		e := salient[i]
		um.longTerm[e.ID] = &e
		s.indexAddLocked(ctx, &e)
	}

	um.loaded = true
	return um, nil
}

// relevanceLocked embeds the query and asks the index for similarities.
// Without an index the relevance term is zero for every entry.
func (s *Store) relevanceLocked(ctx context.Context, userID, queryContext string, k int) (map[string]float32, error) {
	if s.index == nil || s.embedder == nil || queryContext == "" {
		return nil, nil
	}
	emb, err := s.embedder.Embed(ctx, queryContext)
	if err != nil {
		return nil, err
	}
	return s.index.Similarities(ctx, userID, emb, k)
}

func (s *Store) indexAddLocked(ctx context.Context, e *core.MemoryEntry) {
	if s.index == nil || s.embedder == nil {
		return
	}
	emb, err := s.embedder.Embed(ctx, e.Content)
	if err != nil {
		log.Printf("[MEMORY] embed entry %s failed: %v", e.ID, err)
		return
	}
	if err := s.index.Add(ctx, e.UserID, e.ID, e.Content, emb); err != nil {
		log.Printf("[MEMORY] index entry %s failed: %v", e.ID, err)
	}
}

// enforceShortCeilingLocked evicts the oldest short-term entries, FIFO and
// score-blind, until the ceiling holds. Eviction drops entries from the
// working set only; durable storage keeps them.
func (s *Store) enforceShortCeilingLocked(userID string, um *userMemory) {
	for len(um.shortTerm) > s.cfg.ShortTermCeiling {
		evicted := um.shortTerm[0]
		um.shortTerm = um.shortTerm[1:]
		metrics.MemoryEvictions.WithLabelValues(string(core.ShortTerm)).Inc()
		log.Printf("[MEMORY] evicted short-term entry %s for user=%s (FIFO)", evicted.ID, userID)
	}
}

// enforceLongCeilingLocked evicts the lowest-composite-score long-term
// entries, ties broken by least-recent access.
func (s *Store) enforceLongCeilingLocked(ctx context.Context, userID string, um *userMemory) error {
	now := s.now()
	for len(um.longTerm) > s.cfg.LongTermCeiling {
		var victim *core.MemoryEntry
		var victimScore float64
		for _, e := range um.longTerm {
			score := s.cfg.composite(e, 0, now)
			switch {
			case victim == nil:
				victim, victimScore = e, score
			case score < victimScore:
				victim, victimScore = e, score
			case score == victimScore && e.LastAccessed.Before(victim.LastAccessed):
				victim = e
			}
		}
		if victim == nil {
			return core.Invariantf("long-term eviction on empty container for user %s", userID)
		}
		delete(um.longTerm, victim.ID)
		if s.index != nil {
			if err := s.index.Remove(ctx, userID, victim.ID); err != nil {
				log.Printf("[MEMORY] index remove %s failed: %v", victim.ID, err)
			}
		}
		metrics.MemoryEvictions.WithLabelValues(string(core.LongTerm)).Inc()
		log.Printf("[MEMORY] evicted long-term entry %s for user=%s (score=%.3f)", victim.ID, userID, victimScore)
	}
	return nil
}
