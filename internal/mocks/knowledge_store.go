package mocks

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/rehabdesk/rehabdesk-api/internal/domain"
	"github.com/rehabdesk/rehabdesk-api/internal/store"
	"github.com/stretchr/testify/mock"
)

// KnowledgeDocumentStore mocks store.KnowledgeDocumentStore.
type KnowledgeDocumentStore struct {
	mock.Mock
}

var _ store.KnowledgeDocumentStore = (*KnowledgeDocumentStore)(nil)

func (m *KnowledgeDocumentStore) Create(ctx context.Context, doc *domain.KnowledgeDocument) error {
	return m.Called(ctx, doc).Error(0)
}

func (m *KnowledgeDocumentStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.KnowledgeDocument, error) {
	args := m.Called(ctx, id)
	if d, ok := args.Get(0).(*domain.KnowledgeDocument); ok {
		return d, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *KnowledgeDocumentStore) List(ctx context.Context) ([]*domain.KnowledgeDocument, error) {
	args := m.Called(ctx)
	if ds, ok := args.Get(0).([]*domain.KnowledgeDocument); ok {
		return ds, args.Error(1)
	}
	return nil, args.Error(1)
}

// UpdateStatus records the status at call time so that tests can assert the
// sequence of transitions on a shared document.
func (m *KnowledgeDocumentStore) UpdateStatus(ctx context.Context, doc *domain.KnowledgeDocument) error {
	return m.Called(ctx, doc.ID, doc.Status).Error(0)
}

func (m *KnowledgeDocumentStore) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *KnowledgeDocumentStore) WithTx(*sql.Tx) store.KnowledgeDocumentStore { return m }
