package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/rehabdesk/rehabdesk-api/internal/domain"
	"github.com/rehabdesk/rehabdesk-api/internal/events"
	"github.com/rehabdesk/rehabdesk-api/internal/knowledge"
	"github.com/rehabdesk/rehabdesk-api/internal/platform/logger"
	"github.com/rehabdesk/rehabdesk-api/internal/store"
	"github.com/rehabdesk/rehabdesk-api/internal/task"
)

// KnowledgeIndex is the vector index behind the knowledge base.
type KnowledgeIndex interface {
	KnowledgeSearcher
	DeleteFile(ctx context.Context, fileID uuid.UUID) error
}

// KnowledgeService manages reference documents. Every method returns
// ErrKnowledgeDisabled when no index is configured.
type KnowledgeService interface {
	// Upload extracts the text of a document, stores it and requests its
	// ingestion in the background.
	Upload(ctx context.Context, filename string, data []byte) (*domain.KnowledgeDocument, error)
	ListFiles(ctx context.Context) ([]*domain.KnowledgeDocument, error)
	// DeleteFile removes the document and its chunks.
	DeleteFile(ctx context.Context, id uuid.UUID) error
	// Search returns the passages closest to query; topK <= 0 takes the default.
	Search(ctx context.Context, query string, topK int) ([]knowledge.Hit, error)
}

type knowledgeServiceImpl struct {
	docs    store.KnowledgeDocumentStore
	index   KnowledgeIndex
	emitter events.EventEmitter
	topK    int
	logger  *slog.Logger
}

// NewKnowledgeService creates a KnowledgeService. index may be nil.
func NewKnowledgeService(
	docs store.KnowledgeDocumentStore,
	index KnowledgeIndex,
	emitter events.EventEmitter,
	topK int,
	logger *slog.Logger,
) (KnowledgeService, error) {
	if docs == nil {
		return nil, errors.New("docs cannot be nil")
	}
	if emitter == nil {
		return nil, errors.New("emitter cannot be nil")
	}
	if topK <= 0 {
		topK = DefaultNoteTopK
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &knowledgeServiceImpl{
		docs:    docs,
		index:   index,
		emitter: emitter,
		topK:    topK,
		logger:  logger.With(slog.String("component", "knowledge_service")),
	}, nil
}

func (s *knowledgeServiceImpl) Upload(ctx context.Context, filename string, data []byte) (*domain.KnowledgeDocument, error) {
	if s.index == nil {
		return nil, ErrKnowledgeDisabled
	}
	log := logger.FromContextOrDefault(ctx, s.logger)

	text, contentType, err := knowledge.ExtractText(filename, data)
	if err != nil {
		return nil, &ServiceError{Operation: "upload_document", Message: err.Error(), Err: ErrInvalidInput}
	}
	doc, err := domain.NewKnowledgeDocument(filename, contentType, text)
	if err != nil {
		return nil, NewServiceError("upload_document", "invalid document", err)
	}
	if err := s.docs.Create(ctx, doc); err != nil {
		return nil, NewServiceError("upload_document", "failed to save document", err)
	}

	event, err := events.NewTaskRequestEvent(task.TaskTypeKnowledgeIngest,
		task.KnowledgeIngestPayload{DocumentID: doc.ID})
	if err != nil {
		return nil, NewServiceError("upload_document", "failed to create event", err)
	}
	if err := s.emitter.EmitEvent(ctx, event); err != nil {
		log.ErrorContext(ctx, "failed to request ingestion",
			slog.String("error", err.Error()),
			slog.String("document_id", doc.ID.String()))
		return nil, NewServiceError("upload_document", "failed to request ingestion", err)
	}

	log.InfoContext(ctx, "knowledge document uploaded",
		slog.String("document_id", doc.ID.String()),
		slog.String("content_type", contentType),
		slog.Int("text_bytes", doc.Size))
	return doc, nil
}

func (s *knowledgeServiceImpl) ListFiles(ctx context.Context) ([]*domain.KnowledgeDocument, error) {
	if s.index == nil {
		return nil, ErrKnowledgeDisabled
	}
	docs, err := s.docs.List(ctx)
	if err != nil {
		return nil, NewServiceError("list_documents", "failed to list documents", err)
	}
	return docs, nil
}

func (s *knowledgeServiceImpl) DeleteFile(ctx context.Context, id uuid.UUID) error {
	if s.index == nil {
		return ErrKnowledgeDisabled
	}
	if _, err := s.docs.GetByID(ctx, id); err != nil {
		return NewServiceError("delete_document", "failed to load document", err)
	}
	if err := s.index.DeleteFile(ctx, id); err != nil {
		return NewServiceError("delete_document", "failed to remove chunks", err)
	}
	if err := s.docs.Delete(ctx, id); err != nil {
		return NewServiceError("delete_document", "failed to delete document", err)
	}
	logger.FromContextOrDefault(ctx, s.logger).InfoContext(ctx, "knowledge document deleted",
		slog.String("document_id", id.String()))
	return nil
}

func (s *knowledgeServiceImpl) Search(ctx context.Context, query string, topK int) ([]knowledge.Hit, error) {
	if s.index == nil {
		return nil, ErrKnowledgeDisabled
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, invalidInput("search_knowledge", "query", "cannot be empty")
	}
	if topK <= 0 {
		topK = s.topK
	}
	hits, err := s.index.Search(ctx, query, topK)
	if err != nil {
		return nil, NewServiceError("search_knowledge", "search failed", err)
	}
	return hits, nil
}
