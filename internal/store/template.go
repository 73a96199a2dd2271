package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/rehabdesk/rehabdesk-api/internal/domain"
)

// TemplateStore defines the interface for phrase template persistence.
type TemplateStore interface {
	Create(ctx context.Context, template *domain.Template) error

	// CreateMultiple saves templates in one batch; run it inside a transaction.
	CreateMultiple(ctx context.Context, templates []*domain.Template) error

	// GetByID returns ErrTemplateNotFound if the template does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Template, error)

	// List returns templates ordered by usage count, most used first.
	// An empty category returns every category.
	List(ctx context.Context, category string) ([]*domain.Template, error)

	// Update returns ErrTemplateNotFound if the template does not exist.
	Update(ctx context.Context, template *domain.Template) error

	// Delete returns ErrTemplateNotFound if the template does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// IncrementUsage adds one to the usage count and returns the new count.
	IncrementUsage(ctx context.Context, id uuid.UUID) (int, error)

	WithTx(tx *sql.Tx) TemplateStore
}
