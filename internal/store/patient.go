package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/rehabdesk/rehabdesk-api/internal/domain"
)

// PatientFilter narrows PatientStore.List.
type PatientFilter struct {
	// IncludeDischarged also returns patients with a discharge date.
	IncludeDischarged bool
	// Search matches name, hospital number or diagnosis, case-insensitively.
	Search string
	Limit  int
	Offset int
}

// PatientStore defines the interface for patient persistence.
type PatientStore interface {
	// Create saves a new patient.
	// Returns ErrHospitalNumberExists if the hospital number is taken.
	Create(ctx context.Context, patient *domain.Patient) error

	// GetByID returns ErrPatientNotFound if the patient does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Patient, error)

	// GetByHospitalNumber returns ErrPatientNotFound if the patient does not exist.
	GetByHospitalNumber(ctx context.Context, hospitalNumber string) (*domain.Patient, error)

	// List returns patients ordered by admission date, newest first.
	List(ctx context.Context, filter PatientFilter) ([]*domain.Patient, error)

	// Update saves changes to an existing patient.
	// Returns ErrPatientNotFound if the patient does not exist.
	Update(ctx context.Context, patient *domain.Patient) error

	// Delete removes the patient. Notes, reminders, plans and progress
	// entries are removed by ON DELETE CASCADE.
	Delete(ctx context.Context, id uuid.UUID) error

	// WithTx returns a PatientStore bound to tx.
	WithTx(tx *sql.Tx) PatientStore
}
