package mocks

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/rehabdesk/rehabdesk-api/internal/domain"
	"github.com/rehabdesk/rehabdesk-api/internal/store"
	"github.com/stretchr/testify/mock"
)

// TemplateStore mocks store.TemplateStore.
type TemplateStore struct {
	mock.Mock
}

var _ store.TemplateStore = (*TemplateStore)(nil)

func (m *TemplateStore) Create(ctx context.Context, template *domain.Template) error {
	return m.Called(ctx, template).Error(0)
}

func (m *TemplateStore) CreateMultiple(ctx context.Context, templates []*domain.Template) error {
	return m.Called(ctx, templates).Error(0)
}

func (m *TemplateStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Template, error) {
	args := m.Called(ctx, id)
	if tpl, ok := args.Get(0).(*domain.Template); ok {
		return tpl, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *TemplateStore) List(ctx context.Context, category string) ([]*domain.Template, error) {
	args := m.Called(ctx, category)
	if ts, ok := args.Get(0).([]*domain.Template); ok {
		return ts, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *TemplateStore) Update(ctx context.Context, template *domain.Template) error {
	return m.Called(ctx, template).Error(0)
}

func (m *TemplateStore) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *TemplateStore) IncrementUsage(ctx context.Context, id uuid.UUID) (int, error) {
	args := m.Called(ctx, id)
	return args.Int(0), args.Error(1)
}

func (m *TemplateStore) WithTx(*sql.Tx) store.TemplateStore { return m }
