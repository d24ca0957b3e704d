package memory

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/havenlabs/aria-go-sdk/core"
	"github.com/havenlabs/aria-go-sdk/persist/memstore"
)

func ptr(v float64) *float64 { return &v }

// newTestStore pins the clock so recency and tie-break behavior is
// deterministic.
func newTestStore(t *testing.T, cfg *Config) (*Store, *time.Time) {
	t.Helper()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	st := New(memstore.New(), nil, nil, cfg)
	st.now = func() time.Time { return now }
	return st, &now
}

func TestRecord_ClassFollowsImportanceThreshold(t *testing.T) {
	ctx := context.Background()
	st, _ := newTestStore(t, nil)

	low, err := st.Record(ctx, "u1", core.MemoryCandidate{Content: "likes tea", Importance: ptr(0.3)})
	require.NoError(t, err)
	assert.Equal(t, core.ShortTerm, low.Class)

	high, err := st.Record(ctx, "u1", core.MemoryCandidate{Content: "father passed away last year", Importance: ptr(0.7)})
	require.NoError(t, err)
	assert.Equal(t, core.LongTerm, high.Class)
}

func TestRecord_ShortTermCeilingEvictsOldestFIFO(t *testing.T) {
	ctx := context.Background()
	st, _ := newTestStore(t, nil)

	var first, second *core.MemoryEntry
	for i := 0; i < 16; i++ {
		e, err := st.Record(ctx, "u1", core.MemoryCandidate{
			Content:    fmt.Sprintf("note %d", i),
			Importance: ptr(0.2),
		})
		require.NoError(t, err)
		switch i {
		case 0:
			first = e
		case 1:
			second = e
		}
	}

	short, long, err := st.Counts(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 15, short, "ceiling holds after the 16th record")
	assert.Equal(t, 0, long)

	um := st.users["u1"]
	require.Len(t, um.shortTerm, 15)
	assert.Equal(t, second.ID, um.shortTerm[0].ID, "oldest entry evicted first")
	for _, e := range um.shortTerm {
		assert.NotEqual(t, first.ID, e.ID)
	}

	// A 17th record evicts again, still score-blind.
	_, err = st.Record(ctx, "u1", core.MemoryCandidate{Content: "note 16", Importance: ptr(0.2)})
	require.NoError(t, err)
	short, _, err = st.Counts(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 15, short)
	assert.Equal(t, "note 2", st.users["u1"].shortTerm[0].Content)
}

func TestRecord_LongTermCeilingEvictsLowestScore(t *testing.T) {
	ctx := context.Background()
	cfg := &Config{
		ShortTermCeiling:   15,
		LongTermCeiling:    3,
		LongTermThreshold:  0.7,
		PromoteAccessCount: 3,
		RecencyHalfLife:    24 * time.Hour,
		WeightImportance:   1, // isolate the importance term
	}
	st, _ := newTestStore(t, cfg)

	importances := []float64{0.9, 0.8, 0.75, 0.95}
	ids := make([]string, len(importances))
	for i, imp := range importances {
		e, err := st.Record(ctx, "u1", core.MemoryCandidate{
			Content:    fmt.Sprintf("fact %d", i),
			Importance: ptr(imp),
		})
		require.NoError(t, err)
		ids[i] = e.ID
	}

	um := st.users["u1"]
	require.Len(t, um.longTerm, 3)
	assert.NotContains(t, um.longTerm, ids[2], "lowest-scoring entry evicted")
	assert.Contains(t, um.longTerm, ids[0])
	assert.Contains(t, um.longTerm, ids[1])
	assert.Contains(t, um.longTerm, ids[3])
}

func TestRecord_LongTermScoreTieEvictsLeastRecentlyAccessed(t *testing.T) {
	ctx := context.Background()
	cfg := &Config{
		ShortTermCeiling:   15,
		LongTermCeiling:    2,
		LongTermThreshold:  0.7,
		PromoteAccessCount: 3,
		RecencyHalfLife:    24 * time.Hour,
		// All weights zero: every composite score is 0, forcing the tie
		// path.
	}
	st, now := newTestStore(t, cfg)

	e1, err := st.Record(ctx, "u1", core.MemoryCandidate{Content: "first", Importance: ptr(0.8)})
	require.NoError(t, err)
	*now = now.Add(time.Minute)
	e2, err := st.Record(ctx, "u1", core.MemoryCandidate{Content: "second", Importance: ptr(0.8)})
	require.NoError(t, err)
	*now = now.Add(time.Minute)
	_, err = st.Record(ctx, "u1", core.MemoryCandidate{Content: "third", Importance: ptr(0.8)})
	require.NoError(t, err)

	um := st.users["u1"]
	require.Len(t, um.longTerm, 2)
	assert.NotContains(t, um.longTerm, e1.ID, "least-recently-accessed entry loses the tie")
	assert.Contains(t, um.longTerm, e2.ID)
}

func TestRetrieve_EmptyMemoryReturnsEmpty(t *testing.T) {
	ctx := context.Background()
	st, _ := newTestStore(t, nil)

	got, err := st.Retrieve(ctx, "nobody", "anything", 5)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestRetrieve_ZeroKReturnsNothing(t *testing.T) {
	ctx := context.Background()
	st, _ := newTestStore(t, nil)
	_, err := st.Record(ctx, "u1", core.MemoryCandidate{Content: "a fact", Importance: ptr(0.5)})
	require.NoError(t, err)

	got, err := st.Retrieve(ctx, "u1", "fact", 0)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestRetrieve_RanksByScoreAndBumpsAccess(t *testing.T) {
	ctx := context.Background()
	cfg := &Config{
		ShortTermCeiling:   15,
		LongTermCeiling:    100,
		LongTermThreshold:  0.7,
		PromoteAccessCount: 3,
		RecencyHalfLife:    24 * time.Hour,
		WeightImportance:   1,
	}
	st, _ := newTestStore(t, cfg)

	for i, imp := range []float64{0.2, 0.6, 0.4} {
		_, err := st.Record(ctx, "u1", core.MemoryCandidate{
			Content:    fmt.Sprintf("fact %d", i),
			Importance: ptr(imp),
		})
		require.NoError(t, err)
	}

	got, err := st.Retrieve(ctx, "u1", "facts", 2)
	require.NoError(t, err)
	require.Len(t, got, 2, "k bounds the result")
	assert.Equal(t, "fact 1", got[0].Content)
	assert.Equal(t, "fact 2", got[1].Content)
	for _, e := range got {
		assert.Equal(t, 1, e.AccessCount, "every returned entry is bumped")
	}

	got, err = st.Retrieve(ctx, "u1", "facts", 2)
	require.NoError(t, err)
	assert.Equal(t, 2, got[0].AccessCount)
}

func TestPromote_RequiresSustainedUse(t *testing.T) {
	ctx := context.Background()
	cfg := &Config{
		ShortTermCeiling:   15,
		LongTermCeiling:    100,
		LongTermThreshold:  0.7,
		PromoteAccessCount: 3,
		RecencyHalfLife:    24 * time.Hour,
		WeightImportance:   1,
	}
	st, _ := newTestStore(t, cfg)

	e, err := st.Record(ctx, "u1", core.MemoryCandidate{Content: "a growing thread", Importance: ptr(0.3)})
	require.NoError(t, err)

	promoted, err := st.Promote(ctx, "u1", e.ID)
	require.NoError(t, err)
	assert.False(t, promoted, "one access is not sustained use")

	for i := 0; i < 3; i++ {
		_, err := st.Retrieve(ctx, "u1", "thread", 1)
		require.NoError(t, err)
	}

	promoted, err = st.Promote(ctx, "u1", e.ID)
	require.NoError(t, err)
	assert.True(t, promoted)

	short, long, err := st.Counts(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 0, short)
	assert.Equal(t, 1, long)

	// Idempotent: promoting a long-term entry is a quiet no-op.
	promoted, err = st.Promote(ctx, "u1", e.ID)
	require.NoError(t, err)
	assert.False(t, promoted)
}

func TestPromote_UnknownEntry(t *testing.T) {
	ctx := context.Background()
	st, _ := newTestStore(t, nil)

	_, err := st.Promote(ctx, "u1", "01ARZ3NDEKTSV4RRFFQ69G5FAV")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_ReloadsWorkingSetFromDurableStorage(t *testing.T) {
	ctx := context.Background()
	docs := memstore.New()

	st1 := New(docs, nil, nil, nil)
	_, err := st1.Record(ctx, "u1", core.MemoryCandidate{Content: "short fact", Importance: ptr(0.3)})
	require.NoError(t, err)
	_, err = st1.Record(ctx, "u1", core.MemoryCandidate{Content: "salient fact", Importance: ptr(0.9)})
	require.NoError(t, err)

	// Fresh store over the same durable documents sees both entries.
	st2 := New(docs, nil, nil, nil)
	short, long, err := st2.Counts(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 1, short)
	assert.Equal(t, 1, long)
}

func TestUsersAreIsolated(t *testing.T) {
	ctx := context.Background()
	st, _ := newTestStore(t, nil)

	_, err := st.Record(ctx, "alice", core.MemoryCandidate{Content: "alice's fact", Importance: ptr(0.5)})
	require.NoError(t, err)

	got, err := st.Retrieve(ctx, "bob", "fact", 5)
	require.NoError(t, err)
	assert.Empty(t, got)
}
