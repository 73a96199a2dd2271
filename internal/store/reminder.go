package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/rehabdesk/rehabdesk-api/internal/domain"
	"github.com/rehabdesk/rehabdesk-api/internal/domain/schedule"
)

// ReminderStore defines the interface for reminder persistence.
type ReminderStore interface {
	// CreateMultiple saves reminders. It should run inside a transaction
	// together with the write that caused them.
	CreateMultiple(ctx context.Context, reminders []*domain.Reminder) error

	// GetByID returns ErrReminderNotFound if the reminder does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Reminder, error)

	// Update persists the completion state of a reminder.
	// Returns ErrReminderNotFound if the reminder does not exist.
	Update(ctx context.Context, reminder *domain.Reminder) error

	// ListDue returns uncompleted reminders dated day. An empty priority
	// returns every priority.
	ListDue(ctx context.Context, day time.Time, priority schedule.Priority) ([]*domain.Reminder, error)

	// ListByPatient returns the patient's reminders ordered by date. A non-nil
	// from restricts the result to uncompleted reminders dated on or after it.
	ListByPatient(ctx context.Context, patientID uuid.UUID, from *time.Time) ([]*domain.Reminder, error)

	// CountByPatient counts all reminders of the patient.
	CountByPatient(ctx context.Context, patientID uuid.UUID) (int, error)

	// DeletePendingScheduled removes the patient's uncompleted reminders that
	// were materialized from the scheduler and returns how many were removed.
	DeletePendingScheduled(ctx context.Context, patientID uuid.UUID) (int64, error)

	WithTx(tx *sql.Tx) ReminderStore
}
