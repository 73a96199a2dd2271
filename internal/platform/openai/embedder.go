package openai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/rehabdesk/rehabdesk-api/internal/config"
	"github.com/rehabdesk/rehabdesk-api/internal/generation"
	oai "github.com/sashabaranov/go-openai"
)

// maxEmbeddingBatch caps the inputs sent in one embeddings request.
const maxEmbeddingBatch = 64

// Embedder turns text into vectors through an OpenAI-compatible embeddings
// endpoint.
type Embedder struct {
	client *oai.Client
	model  oai.EmbeddingModel
	logger *slog.Logger
}

// NewEmbedder creates an Embedder from the embedding configuration.
func NewEmbedder(log *slog.Logger, cfg config.EmbeddingConfig) (*Embedder, error) {
	if log == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: embedding API key cannot be empty", generation.ErrInvalidConfig)
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("%w: embedding model cannot be empty", generation.ErrInvalidConfig)
	}

	clientConfig := oai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	}

	return &Embedder{
		client: oai.NewClientWithConfig(clientConfig),
		model:  oai.EmbeddingModel(cfg.Model),
		logger: log.With(slog.String("component", "openai_embedder")),
	}, nil
}

// Embed returns one vector per input, in input order.
func (e *Embedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += maxEmbeddingBatch {
		end := min(start+maxEmbeddingBatch, len(texts))
		batch, err := e.embedBatch(ctx, texts[start:end])
		if err != nil {
			return nil, err
		}
		vectors = append(vectors, batch...)
	}
	return vectors, nil
}

// EmbedOne embeds a single text. Its signature matches the embedding function
// expected by the vector store.
func (e *Embedder) EmbedOne(ctx context.Context, text string) ([]float32, error) {
	vectors, err := e.Embed(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

func (e *Embedder) embedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	resp, err := e.client.CreateEmbeddings(ctx, oai.EmbeddingRequest{
		Input: texts,
		Model: e.model,
	})
	if err != nil {
		e.logger.ErrorContext(ctx, "embedding request failed",
			slog.Int("batch_size", len(texts)),
			slog.String("error", err.Error()))
		return nil, classifyError(err)
	}
	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("%w: expected %d embeddings, got %d",
			generation.ErrInvalidResponse, len(texts), len(resp.Data))
	}

	out := make([][]float32, len(texts))
	for _, d := range resp.Data {
		if d.Index < 0 || d.Index >= len(out) || len(d.Embedding) == 0 {
			return nil, fmt.Errorf("%w: malformed embedding at index %d", generation.ErrInvalidResponse, d.Index)
		}
		out[d.Index] = d.Embedding
	}
	for i, v := range out {
		if v == nil {
			return nil, fmt.Errorf("%w: missing embedding for input %d", generation.ErrInvalidResponse, i)
		}
	}
	return out, nil
}
