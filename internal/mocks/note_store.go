package mocks

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/rehabdesk/rehabdesk-api/internal/domain"
	"github.com/rehabdesk/rehabdesk-api/internal/store"
	"github.com/stretchr/testify/mock"
)

// NoteStore mocks store.NoteStore.
type NoteStore struct {
	mock.Mock
}

var _ store.NoteStore = (*NoteStore)(nil)

func (m *NoteStore) Create(ctx context.Context, note *domain.ProgressNote) error {
	return m.Called(ctx, note).Error(0)
}

func (m *NoteStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.ProgressNote, error) {
	args := m.Called(ctx, id)
	if n, ok := args.Get(0).(*domain.ProgressNote); ok {
		return n, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *NoteStore) Update(ctx context.Context, note *domain.ProgressNote) error {
	return m.Called(ctx, note).Error(0)
}

func (m *NoteStore) ListByPatient(ctx context.Context, patientID uuid.UUID, limit int) ([]*domain.ProgressNote, error) {
	args := m.Called(ctx, patientID, limit)
	if ns, ok := args.Get(0).([]*domain.ProgressNote); ok {
		return ns, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *NoteStore) WithTx(*sql.Tx) store.NoteStore { return m }
