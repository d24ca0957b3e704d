// Package memstore is an in-memory persist.Store for tests and examples.
package memstore

import (
	"context"
	"sort"
	"sync"

	"github.com/havenlabs/aria-go-sdk/core"
	"github.com/havenlabs/aria-go-sdk/persist"
)

// Store keeps all three collections in process memory.
type Store struct {
	mu          sync.RWMutex
	traits      map[string]core.TraitVector
	memories    map[string]map[string]core.MemoryEntry
	transcripts map[string][]core.TranscriptEntry
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{
		traits:      make(map[string]core.TraitVector),
		memories:    make(map[string]map[string]core.MemoryEntry),
		transcripts: make(map[string][]core.TranscriptEntry),
	}
}

func (s *Store) PutTraits(ctx context.Context, userID string, tv core.TraitVector) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.traits[userID] = tv
	return nil
}

func (s *Store) GetTraits(ctx context.Context, userID string) (core.TraitVector, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	tv, ok := s.traits[userID]
	if !ok {
		return core.TraitVector{}, persist.ErrNotFound
	}
	return tv, nil
}

func (s *Store) PutMemory(ctx context.Context, entry core.MemoryEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	byID, ok := s.memories[entry.UserID]
	if !ok {
		byID = make(map[string]core.MemoryEntry)
		s.memories[entry.UserID] = byID
	}
	byID[entry.ID] = entry
	return nil
}

func (s *Store) QueryMemories(ctx context.Context, userID string, class core.MemoryClass, limit int) ([]core.MemoryEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []core.MemoryEntry
	for _, e := range s.memories[userID] {
		if e.Class == class {
			out = append(out, e)
		}
	}
	if class == core.ShortTerm {
		// Newest first; ULIDs sort by creation time.
		sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	} else {
		sort.Slice(out, func(i, j int) bool { return out[i].Importance > out[j].Importance })
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *Store) AppendTranscript(ctx context.Context, entry core.TranscriptEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transcripts[entry.UserID] = append(s.transcripts[entry.UserID], entry)
	return nil
}

func (s *Store) RecentTranscript(ctx context.Context, userID string, limit int) ([]core.TranscriptEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	all := s.transcripts[userID]
	if limit > 0 && len(all) > limit {
		all = all[len(all)-limit:]
	}
	out := make([]core.TranscriptEntry, len(all))
	copy(out, all)
	return out, nil
}

func (s *Store) Close() error { return nil }
