package knowledge

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/rehabdesk/rehabdesk-api/internal/domain"
	"github.com/rehabdesk/rehabdesk-api/internal/platform/logger"
	"github.com/rehabdesk/rehabdesk-api/internal/store"
	"github.com/rehabdesk/rehabdesk-api/internal/task"
)

// ChunkObserver is told how many chunks each ingestion indexed.
type ChunkObserver interface {
	ObserveChunksIngested(n int)
}

// Index is the part of Base the ingester writes to.
type Index interface {
	AddChunks(ctx context.Context, fileID uuid.UUID, source string, chunks []string) error
	DeleteFile(ctx context.Context, fileID uuid.UUID) error
}

// Ingester chunks a stored document and indexes it, recording the outcome on
// the document row.
type Ingester struct {
	docs     store.KnowledgeDocumentStore
	index    Index
	chunker  Chunker
	observer ChunkObserver
	logger   *slog.Logger
}

var _ task.DocumentIngester = (*Ingester)(nil)

// NewIngester creates an Ingester. observer may be nil.
func NewIngester(
	docs store.KnowledgeDocumentStore,
	index Index,
	chunker Chunker,
	observer ChunkObserver,
	log *slog.Logger,
) (*Ingester, error) {
	if docs == nil {
		return nil, errors.New("document store cannot be nil")
	}
	if index == nil {
		return nil, errors.New("index cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}
	return &Ingester{
		docs:     docs,
		index:    index,
		chunker:  chunker,
		observer: observer,
		logger:   log.With(slog.String("component", "knowledge_ingester")),
	}, nil
}

// IngestDocument implements task.DocumentIngester. Existing chunks of the
// document are replaced.
func (i *Ingester) IngestDocument(ctx context.Context, documentID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, i.logger).With(slog.String("document_id", documentID.String()))

	doc, err := i.docs.GetByID(ctx, documentID)
	if err != nil {
		return fmt.Errorf("load document: %w", err)
	}

	if err := doc.UpdateStatus(domain.DocumentStatusProcessing); err != nil {
		return err
	}
	doc.Error = ""
	if err := i.docs.UpdateStatus(ctx, doc); err != nil {
		return fmt.Errorf("mark document processing: %w", err)
	}

	chunks := i.chunker.Split(doc.Text)
	log.InfoContext(ctx, "ingesting document",
		slog.Int("text_runes", len([]rune(doc.Text))),
		slog.Int("chunks", len(chunks)))

	if err := i.index.DeleteFile(ctx, doc.ID); err != nil {
		return i.fail(ctx, log, doc, err)
	}
	if err := i.index.AddChunks(ctx, doc.ID, doc.Filename, chunks); err != nil {
		return i.fail(ctx, log, doc, err)
	}

	doc.ChunkCount = len(chunks)
	if err := doc.UpdateStatus(domain.DocumentStatusCompleted); err != nil {
		return err
	}
	if err := i.docs.UpdateStatus(ctx, doc); err != nil {
		return fmt.Errorf("mark document completed: %w", err)
	}
	if i.observer != nil {
		i.observer.ObserveChunksIngested(len(chunks))
	}

	log.InfoContext(ctx, "document ingested", slog.Int("chunks", len(chunks)))
	return nil
}

func (i *Ingester) fail(ctx context.Context, log *slog.Logger, doc *domain.KnowledgeDocument, cause error) error {
	log.ErrorContext(ctx, "document ingestion failed", slog.String("error", cause.Error()))

	doc.ChunkCount = 0
	doc.Error = cause.Error()
	if err := doc.UpdateStatus(domain.DocumentStatusFailed); err != nil {
		return errors.Join(cause, err)
	}
	if err := i.docs.UpdateStatus(ctx, doc); err != nil {
		return errors.Join(cause, fmt.Errorf("mark document failed: %w", err))
	}
	return cause
}
