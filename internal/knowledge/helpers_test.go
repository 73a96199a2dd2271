package knowledge

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// keywordEmbedder maps text to a small vector of keyword counts. The leading
// constant keeps every vector non-zero.
type keywordEmbedder struct {
	mu    sync.Mutex
	calls int
	texts int
	err   error
}

var keywords = []string{"康复", "针刺", "中药"}

func (e *keywordEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.calls++
	e.texts += len(texts)
	if e.err != nil {
		return nil, e.err
	}

	out := make([][]float32, len(texts))
	for i, text := range texts {
		v := []float32{0.1}
		for _, kw := range keywords {
			v = append(v, float32(strings.Count(text, kw)))
		}
		out[i] = v
	}
	return out, nil
}

func (e *keywordEmbedder) stats() (calls, texts int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.calls, e.texts
}

var errEmbedding = errors.New("embedding service unavailable")
