package knowledge

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/google/uuid"
	chromem "github.com/philippgille/chromem-go"
	"golang.org/x/sync/errgroup"
)

// Chunk metadata keys.
const (
	metaSource = "source"
	metaFileID = "file_id"
	metaChunk  = "chunk"
)

// embedBatchSize is the number of chunks sent to the embedder at once.
const embedBatchSize = 16

// ErrEmptyQuery is returned when a search query is blank.
var ErrEmptyQuery = errors.New("search query cannot be empty")

// Hit is one search result.
type Hit struct {
	Text       string    `json:"text"`
	Source     string    `json:"source"`
	FileID     uuid.UUID `json:"file_id"`
	Similarity float32   `json:"similarity"`
}

// BaseConfig configures a Base.
type BaseConfig struct {
	// PersistPath is the chromem directory; empty keeps the base in memory.
	PersistPath string
	Collection  string
	// Concurrency bounds the parallel embedding and insert calls.
	Concurrency int
}

// Base is the vector index over knowledge chunks.
type Base struct {
	collection  *chromem.Collection
	embedder    *CachedEmbedder
	concurrency int
	logger      *slog.Logger
}

// NewBase opens or creates the chunk collection.
func NewBase(cfg BaseConfig, embedder *CachedEmbedder, logger *slog.Logger) (*Base, error) {
	if embedder == nil {
		return nil, errors.New("embedder cannot be nil")
	}
	if cfg.Collection == "" {
		cfg.Collection = "medical_knowledge"
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 4
	}
	if logger == nil {
		logger = slog.Default()
	}

	var db *chromem.DB
	if cfg.PersistPath != "" {
		var err error
		db, err = chromem.NewPersistentDB(cfg.PersistPath, false)
		if err != nil {
			return nil, fmt.Errorf("open vector store at %s: %w", cfg.PersistPath, err)
		}
	} else {
		db = chromem.NewDB()
	}

	collection, err := db.GetOrCreateCollection(cfg.Collection, nil, embedder.EmbedOne)
	if err != nil {
		return nil, fmt.Errorf("open collection %s: %w", cfg.Collection, err)
	}

	return &Base{
		collection:  collection,
		embedder:    embedder,
		concurrency: cfg.Concurrency,
		logger:      logger.With(slog.String("component", "knowledge_base")),
	}, nil
}

// AddChunks embeds chunks in bounded parallel batches and stores them under
// fileID. Chunk ids are "{fileID}_{index}", so re-adding a file overwrites
// its chunks.
func (b *Base) AddChunks(ctx context.Context, fileID uuid.UUID, source string, chunks []string) error {
	if len(chunks) == 0 {
		return nil
	}

	vectors := make([][]float32, len(chunks))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.concurrency)
	for start := 0; start < len(chunks); start += embedBatchSize {
		start, end := start, min(start+embedBatchSize, len(chunks))
		g.Go(func() error {
			batch, err := b.embedder.Embed(gctx, chunks[start:end])
			if err != nil {
				return fmt.Errorf("embed chunks %d-%d: %w", start, end-1, err)
			}
			copy(vectors[start:end], batch)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	docs := make([]chromem.Document, len(chunks))
	for i, chunk := range chunks {
		docs[i] = chromem.Document{
			ID:        fileID.String() + "_" + strconv.Itoa(i),
			Content:   chunk,
			Embedding: vectors[i],
			Metadata: map[string]string{
				metaSource: source,
				metaFileID: fileID.String(),
				metaChunk:  strconv.Itoa(i),
			},
		}
	}
	if err := b.collection.AddDocuments(ctx, docs, b.concurrency); err != nil {
		return fmt.Errorf("store chunks: %w", err)
	}

	b.logger.InfoContext(ctx, "chunks indexed",
		slog.String("file_id", fileID.String()),
		slog.Int("chunks", len(chunks)))
	return nil
}

// DeleteFile removes every chunk stored under fileID.
func (b *Base) DeleteFile(ctx context.Context, fileID uuid.UUID) error {
	if err := b.collection.Delete(ctx, map[string]string{metaFileID: fileID.String()}, nil); err != nil {
		return fmt.Errorf("delete chunks of %s: %w", fileID, err)
	}
	return nil
}

// Search returns up to topK chunks closest to query, most similar first.
// topK is clamped to the number of stored chunks.
func (b *Base) Search(ctx context.Context, query string, topK int) ([]Hit, error) {
	if query == "" {
		return nil, ErrEmptyQuery
	}
	n := min(max(topK, 1), b.collection.Count())
	if n == 0 {
		return []Hit{}, nil
	}

	results, err := b.collection.Query(ctx, query, n, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("query knowledge base: %w", err)
	}

	hits := make([]Hit, 0, len(results))
	for _, r := range results {
		fileID, _ := uuid.Parse(r.Metadata[metaFileID])
		hits = append(hits, Hit{
			Text:       r.Content,
			Source:     r.Metadata[metaSource],
			FileID:     fileID,
			Similarity: r.Similarity,
		})
	}
	return hits, nil
}

// Count reports the number of stored chunks.
func (b *Base) Count() int {
	return b.collection.Count()
}
