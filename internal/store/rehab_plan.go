package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/rehabdesk/rehabdesk-api/internal/domain"
)

// RehabPlanStore defines the interface for rehabilitation plan and progress
// persistence. A patient has at most one plan.
type RehabPlanStore interface {
	// GetByPatient returns ErrRehabPlanNotFound if the patient has no plan.
	GetByPatient(ctx context.Context, patientID uuid.UUID) (*domain.RehabPlan, error)

	// Upsert inserts the plan or replaces the patient's existing one.
	Upsert(ctx context.Context, plan *domain.RehabPlan) error

	AddProgress(ctx context.Context, progress *domain.RehabProgress) error

	// ListProgress returns progress entries, newest record date first.
	ListProgress(ctx context.Context, patientID uuid.UUID) ([]*domain.RehabProgress, error)

	WithTx(tx *sql.Tx) RehabPlanStore
}
