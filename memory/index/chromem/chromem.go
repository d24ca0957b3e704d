// Package chromem implements memory.Index on chromem-go, a pure Go
// embedded vector database. Each user gets their own collection for
// namespace isolation.
package chromem

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"

	chromem "github.com/philippgille/chromem-go"
)

// Index wraps a chromem-go database.
type Index struct {
	db          *chromem.DB
	mu          sync.RWMutex
	collections map[string]*chromem.Collection
}

// New creates an in-memory chromem index.
func New() (*Index, error) {
	return &Index{
		db:          chromem.NewDB(),
		collections: make(map[string]*chromem.Collection),
	}, nil
}

// getOrCreateCollection returns the collection for a user.
func (x *Index) getOrCreateCollection(userID string) (*chromem.Collection, error) {
	x.mu.RLock()
	col, exists := x.collections[userID]
	x.mu.RUnlock()
	if exists {
		return col, nil
	}

	x.mu.Lock()
	defer x.mu.Unlock()
	if col, exists := x.collections[userID]; exists {
		return col, nil
	}

	name := fmt.Sprintf("user_%s", userID)
	// No custom embedding func (embeddings are provided) and default
	// cosine distance.
	col, err := x.db.CreateCollection(name, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("create collection: %w", err)
	}
	x.collections[userID] = col
	return col, nil
}

// Add indexes an entry's embedding.
func (x *Index) Add(ctx context.Context, userID, entryID, content string, embedding []float32) error {
	col, err := x.getOrCreateCollection(userID)
	if err != nil {
		return err
	}

	doc := chromem.Document{
		ID:        entryID,
		Content:   content,
		Embedding: embedding,
		Metadata:  map[string]string{"user_id": userID},
	}
	if err := col.AddDocument(ctx, doc); err != nil {
		return fmt.Errorf("add document: %w", err)
	}
	return nil
}

// Similarities returns entry ID -> cosine similarity for the closest
// entries. chromem requires nResults <= collection size, so the limit is
// walked down until the query fits.
func (x *Index) Similarities(ctx context.Context, userID string, embedding []float32, limit int) (map[string]float32, error) {
	col, err := x.getOrCreateCollection(userID)
	if err != nil {
		return nil, err
	}

	var results []chromem.Result
	for n := limit; n >= 1; n-- {
		results, err = col.QueryEmbedding(ctx, embedding, n, nil, nil)
		if err == nil {
			break
		}
		if isInsufficientDocsError(err) {
			if n == 1 {
				log.Printf("[CHROMEM] collection for user=%s is empty", userID)
				return nil, nil
			}
			continue
		}
		return nil, fmt.Errorf("chromem query: %w", err)
	}

	out := make(map[string]float32, len(results))
	for _, r := range results {
		out[r.ID] = r.Similarity
	}
	return out, nil
}

// Remove drops an entry from the index.
func (x *Index) Remove(ctx context.Context, userID, entryID string) error {
	col, err := x.getOrCreateCollection(userID)
	if err != nil {
		return err
	}
	if err := col.Delete(ctx, nil, nil, entryID); err != nil {
		return fmt.Errorf("chromem delete: %w", err)
	}
	return nil
}

// isInsufficientDocsError checks if the error is chromem rejecting an
// nResults larger than the collection.
func isInsufficientDocsError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "nResults must be") || strings.Contains(msg, "number of documents")
}
