package memstore_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/havenlabs/aria-go-sdk/core"
	"github.com/havenlabs/aria-go-sdk/persist"
	"github.com/havenlabs/aria-go-sdk/persist/memstore"
)

func TestTraits_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s := memstore.New()

	_, err := s.GetTraits(ctx, "u1")
	assert.ErrorIs(t, err, persist.ErrNotFound)

	tv := core.NeutralTraits()
	tv.Agreeableness = 0.7
	require.NoError(t, s.PutTraits(ctx, "u1", tv))

	got, err := s.GetTraits(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, tv, got)
}

func TestQueryMemories_OrderMatchesClassPolicy(t *testing.T) {
	ctx := context.Background()
	s := memstore.New()
	now := time.Now()

	for i, imp := range []float64{0.3, 0.2} {
		require.NoError(t, s.PutMemory(ctx, core.MemoryEntry{
			ID: fmt.Sprintf("01S%02d", i), UserID: "u1", Content: fmt.Sprintf("short %d", i),
			Class: core.ShortTerm, Importance: imp, CreatedAt: now, LastAccessed: now,
		}))
	}
	for i, imp := range []float64{0.7, 0.9} {
		require.NoError(t, s.PutMemory(ctx, core.MemoryEntry{
			ID: fmt.Sprintf("01L%02d", i), UserID: "u1", Content: fmt.Sprintf("long %d", i),
			Class: core.LongTerm, Importance: imp, CreatedAt: now, LastAccessed: now,
		}))
	}

	short, err := s.QueryMemories(ctx, "u1", core.ShortTerm, 10)
	require.NoError(t, err)
	require.Len(t, short, 2)
	assert.Equal(t, "short 1", short[0].Content, "newest first")

	long, err := s.QueryMemories(ctx, "u1", core.LongTerm, 10)
	require.NoError(t, err)
	require.Len(t, long, 2)
	assert.Equal(t, "long 1", long[0].Content, "highest importance first")
}

func TestRecentTranscript_TailInChronologicalOrder(t *testing.T) {
	ctx := context.Background()
	s := memstore.New()
	base := time.Now()

	for i := 0; i < 5; i++ {
		require.NoError(t, s.AppendTranscript(ctx, core.TranscriptEntry{
			ID: fmt.Sprintf("01T%02d", i), UserID: "u1", Role: core.RoleUser,
			Content: fmt.Sprintf("message %d", i), Timestamp: base.Add(time.Duration(i) * time.Second),
		}))
	}

	recent, err := s.RecentTranscript(ctx, "u1", 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "message 3", recent[0].Content)
	assert.Equal(t, "message 4", recent[1].Content)
}
