package mocks

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/rehabdesk/rehabdesk-api/internal/domain"
	"github.com/rehabdesk/rehabdesk-api/internal/store"
	"github.com/stretchr/testify/mock"
)

// RehabPlanStore mocks store.RehabPlanStore.
type RehabPlanStore struct {
	mock.Mock
}

var _ store.RehabPlanStore = (*RehabPlanStore)(nil)

func (m *RehabPlanStore) GetByPatient(ctx context.Context, patientID uuid.UUID) (*domain.RehabPlan, error) {
	args := m.Called(ctx, patientID)
	if p, ok := args.Get(0).(*domain.RehabPlan); ok {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *RehabPlanStore) Upsert(ctx context.Context, plan *domain.RehabPlan) error {
	return m.Called(ctx, plan).Error(0)
}

func (m *RehabPlanStore) AddProgress(ctx context.Context, progress *domain.RehabProgress) error {
	return m.Called(ctx, progress).Error(0)
}

func (m *RehabPlanStore) ListProgress(ctx context.Context, patientID uuid.UUID) ([]*domain.RehabProgress, error) {
	args := m.Called(ctx, patientID)
	if ps, ok := args.Get(0).([]*domain.RehabProgress); ok {
		return ps, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *RehabPlanStore) WithTx(*sql.Tx) store.RehabPlanStore { return m }
