// Package hash provides a deterministic, offline embedder. Tokens are
// hashed into a fixed number of buckets, so texts sharing vocabulary
// produce vectors with nonzero cosine similarity. It is no substitute for
// a semantic model, but it is dependency-free, stable across runs, and
// good enough to drive the relevance term locally and in tests.
package hash

import (
	"context"
	"hash/fnv"
	"math"
	"strings"
	"unicode"
)

const defaultDimensions = 256

// Embedder is a bag-of-hashed-tokens embedder.
type Embedder struct {
	dimensions int
}

// New creates a hash embedder with the default dimensionality.
func New() *Embedder {
	return &Embedder{dimensions: defaultDimensions}
}

// Embed maps text to a normalized token-bucket vector.
func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	vec := make([]float32, e.dimensions)

	for _, token := range tokenize(text) {
		h := fnv.New64a()
		h.Write([]byte(token))
		sum := h.Sum64()

		bucket := int(sum % uint64(e.dimensions))
		// Sign from a separate hash bit reduces bucket collisions
		// inflating similarity.
		if sum&(1<<63) != 0 {
			vec[bucket] -= 1
		} else {
			vec[bucket] += 1
		}
	}

	return normalize(vec), nil
}

// Dimensions returns the embedding size.
func (e *Embedder) Dimensions() int {
	return e.dimensions
}

var stopWords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "and": {}, "or": {}, "but": {},
	"is": {}, "are": {}, "was": {}, "to": {}, "of": {}, "in": {},
	"on": {}, "at": {}, "for": {}, "with": {}, "it": {}, "this": {},
	"that": {}, "be": {}, "have": {}, "has": {}, "do": {}, "so": {},
}

func tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
	tokens := fields[:0]
	for _, f := range fields {
		if len(f) < 2 {
			continue
		}
		if _, skip := stopWords[f]; skip {
			continue
		}
		tokens = append(tokens, f)
	}
	return tokens
}

func normalize(vec []float32) []float32 {
	var norm float32
	for _, v := range vec {
		norm += v * v
	}
	if norm == 0 {
		return vec
	}
	norm = float32(math.Sqrt(float64(norm)))
	for i, v := range vec {
		vec[i] = v / norm
	}
	return vec
}
