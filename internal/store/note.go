package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/rehabdesk/rehabdesk-api/internal/domain"
)

// NoteStore defines the interface for progress note persistence.
type NoteStore interface {
	Create(ctx context.Context, note *domain.ProgressNote) error

	// GetByID returns ErrNoteNotFound if the note does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.ProgressNote, error)

	// Update persists generated content, condition and the edited flag.
	// Returns ErrNoteNotFound if the note does not exist.
	Update(ctx context.Context, note *domain.ProgressNote) error

	// ListByPatient returns at most limit notes, newest record date first.
	ListByPatient(ctx context.Context, patientID uuid.UUID, limit int) ([]*domain.ProgressNote, error)

	WithTx(tx *sql.Tx) NoteStore
}
