package chromem_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/havenlabs/aria-go-sdk/memory/embedder/hash"
	"github.com/havenlabs/aria-go-sdk/memory/index/chromem"
)

func embed(t *testing.T, text string) []float32 {
	t.Helper()
	v, err := hash.New().Embed(context.Background(), text)
	require.NoError(t, err)
	return v
}

func TestIndex_AddAndQuery(t *testing.T) {
	ctx := context.Background()
	idx, err := chromem.New()
	require.NoError(t, err)

	require.NoError(t, idx.Add(ctx, "u1", "e1", "sister lives in Lisbon", embed(t, "sister lives in Lisbon")))
	require.NoError(t, idx.Add(ctx, "u1", "e2", "allergic to peanuts", embed(t, "allergic to peanuts")))

	sims, err := idx.Similarities(ctx, "u1", embed(t, "where does your sister live"), 5)
	require.NoError(t, err)
	require.Contains(t, sims, "e1")
	require.Contains(t, sims, "e2")
	assert.Greater(t, sims["e1"], sims["e2"], "vocabulary overlap wins")
}

func TestIndex_EmptyCollectionYieldsNothing(t *testing.T) {
	ctx := context.Background()
	idx, err := chromem.New()
	require.NoError(t, err)

	sims, err := idx.Similarities(ctx, "nobody", embed(t, "anything"), 5)
	require.NoError(t, err)
	assert.Empty(t, sims)
}

func TestIndex_RemoveDropsEntry(t *testing.T) {
	ctx := context.Background()
	idx, err := chromem.New()
	require.NoError(t, err)

	require.NoError(t, idx.Add(ctx, "u1", "e1", "old fact", embed(t, "old fact")))
	require.NoError(t, idx.Add(ctx, "u1", "e2", "newer fact", embed(t, "newer fact")))
	require.NoError(t, idx.Remove(ctx, "u1", "e1"))

	sims, err := idx.Similarities(ctx, "u1", embed(t, "fact"), 5)
	require.NoError(t, err)
	assert.NotContains(t, sims, "e1")
	assert.Contains(t, sims, "e2")
}

func TestIndex_UsersAreIsolated(t *testing.T) {
	ctx := context.Background()
	idx, err := chromem.New()
	require.NoError(t, err)

	require.NoError(t, idx.Add(ctx, "alice", "e1", "alice's fact", embed(t, "alice's fact")))

	sims, err := idx.Similarities(ctx, "bob", embed(t, "fact"), 5)
	require.NoError(t, err)
	assert.Empty(t, sims)
}
