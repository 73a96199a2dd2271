package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/rehabdesk/rehabdesk-api/internal/domain"
)

// KnowledgeDocumentStore defines the interface for knowledge document
// persistence. The embedded chunks live in the vector store, not here.
type KnowledgeDocumentStore interface {
	Create(ctx context.Context, doc *domain.KnowledgeDocument) error

	// GetByID returns ErrDocumentNotFound if the document does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.KnowledgeDocument, error)

	// List returns documents, newest first, without their text.
	List(ctx context.Context) ([]*domain.KnowledgeDocument, error)

	// UpdateStatus records the ingestion outcome.
	// Returns ErrDocumentNotFound if the document does not exist.
	UpdateStatus(ctx context.Context, doc *domain.KnowledgeDocument) error

	// Delete returns ErrDocumentNotFound if the document does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	WithTx(tx *sql.Tx) KnowledgeDocumentStore
}
