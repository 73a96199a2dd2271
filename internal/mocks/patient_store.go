package mocks

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/rehabdesk/rehabdesk-api/internal/domain"
	"github.com/rehabdesk/rehabdesk-api/internal/store"
	"github.com/stretchr/testify/mock"
)

// PatientStore mocks store.PatientStore.
type PatientStore struct {
	mock.Mock
}

var _ store.PatientStore = (*PatientStore)(nil)

func (m *PatientStore) Create(ctx context.Context, patient *domain.Patient) error {
	return m.Called(ctx, patient).Error(0)
}

func (m *PatientStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Patient, error) {
	args := m.Called(ctx, id)
	if p, ok := args.Get(0).(*domain.Patient); ok {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *PatientStore) GetByHospitalNumber(ctx context.Context, hospitalNumber string) (*domain.Patient, error) {
	args := m.Called(ctx, hospitalNumber)
	if p, ok := args.Get(0).(*domain.Patient); ok {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *PatientStore) List(ctx context.Context, filter store.PatientFilter) ([]*domain.Patient, error) {
	args := m.Called(ctx, filter)
	if ps, ok := args.Get(0).([]*domain.Patient); ok {
		return ps, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *PatientStore) Update(ctx context.Context, patient *domain.Patient) error {
	return m.Called(ctx, patient).Error(0)
}

func (m *PatientStore) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *PatientStore) WithTx(*sql.Tx) store.PatientStore { return m }
