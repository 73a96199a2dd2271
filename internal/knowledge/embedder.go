package knowledge

import (
	"context"
	"errors"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheSize is the number of embeddings kept when no size is configured.
const DefaultCacheSize = 10000

// BatchEmbedder turns texts into vectors, one per input in input order.
type BatchEmbedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// CachedEmbedder memoizes embeddings by text in an LRU cache.
type CachedEmbedder struct {
	next  BatchEmbedder
	cache *lru.Cache[string, []float32]
}

// NewCachedEmbedder wraps next with an LRU cache of size entries.
func NewCachedEmbedder(next BatchEmbedder, size int) (*CachedEmbedder, error) {
	if next == nil {
		return nil, errors.New("embedder cannot be nil")
	}
	if size <= 0 {
		size = DefaultCacheSize
	}
	cache, err := lru.New[string, []float32](size)
	if err != nil {
		return nil, fmt.Errorf("create embedding cache: %w", err)
	}
	return &CachedEmbedder{next: next, cache: cache}, nil
}

// Embed returns cached vectors where present and embeds the rest in one call.
func (e *CachedEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	var missing []string
	var missingIdx []int

	for i, text := range texts {
		if v, ok := e.cache.Get(text); ok {
			out[i] = v
			continue
		}
		missing = append(missing, text)
		missingIdx = append(missingIdx, i)
	}
	if len(missing) == 0 {
		return out, nil
	}

	vectors, err := e.next.Embed(ctx, missing)
	if err != nil {
		return nil, err
	}
	if len(vectors) != len(missing) {
		return nil, fmt.Errorf("embedder returned %d vectors for %d texts", len(vectors), len(missing))
	}
	for j, v := range vectors {
		e.cache.Add(missing[j], v)
		out[missingIdx[j]] = v
	}
	return out, nil
}

// EmbedOne embeds a single text. It has the shape of chromem.EmbeddingFunc.
func (e *CachedEmbedder) EmbedOne(ctx context.Context, text string) ([]float32, error) {
	vectors, err := e.Embed(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// Len reports the number of cached embeddings.
func (e *CachedEmbedder) Len() int {
	return e.cache.Len()
}
