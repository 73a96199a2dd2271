package mocks

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/rehabdesk/rehabdesk-api/internal/domain"
	"github.com/rehabdesk/rehabdesk-api/internal/domain/schedule"
	"github.com/rehabdesk/rehabdesk-api/internal/store"
	"github.com/stretchr/testify/mock"
)

// ReminderStore mocks store.ReminderStore.
type ReminderStore struct {
	mock.Mock
}

var _ store.ReminderStore = (*ReminderStore)(nil)

func (m *ReminderStore) CreateMultiple(ctx context.Context, reminders []*domain.Reminder) error {
	return m.Called(ctx, reminders).Error(0)
}

func (m *ReminderStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Reminder, error) {
	args := m.Called(ctx, id)
	if r, ok := args.Get(0).(*domain.Reminder); ok {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ReminderStore) Update(ctx context.Context, reminder *domain.Reminder) error {
	return m.Called(ctx, reminder).Error(0)
}

func (m *ReminderStore) ListDue(
	ctx context.Context,
	day time.Time,
	priority schedule.Priority,
) ([]*domain.Reminder, error) {
	args := m.Called(ctx, day, priority)
	if rs, ok := args.Get(0).([]*domain.Reminder); ok {
		return rs, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ReminderStore) ListByPatient(
	ctx context.Context,
	patientID uuid.UUID,
	from *time.Time,
) ([]*domain.Reminder, error) {
	args := m.Called(ctx, patientID, from)
	if rs, ok := args.Get(0).([]*domain.Reminder); ok {
		return rs, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ReminderStore) CountByPatient(ctx context.Context, patientID uuid.UUID) (int, error) {
	args := m.Called(ctx, patientID)
	return args.Int(0), args.Error(1)
}

func (m *ReminderStore) DeletePendingScheduled(ctx context.Context, patientID uuid.UUID) (int64, error) {
	args := m.Called(ctx, patientID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *ReminderStore) WithTx(*sql.Tx) store.ReminderStore { return m }
