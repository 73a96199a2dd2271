package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/rehabdesk/rehabdesk-api/internal/domain"
	"github.com/rehabdesk/rehabdesk-api/internal/platform/logger"
	"github.com/rehabdesk/rehabdesk-api/internal/store"
)

const noteColumns = `id, patient_id, hospital_number, record_date, day_number, record_type,
	daily_condition, generated_content, is_edited, created_at, updated_at`

// PostgresNoteStore implements store.NoteStore.
type PostgresNoteStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresNoteStore creates a progress note store.
func NewPostgresNoteStore(db store.DBTX, logger *slog.Logger) *PostgresNoteStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresNoteStore{
		db:     db,
		logger: logger.With(slog.String("component", "note_store")),
	}
}

var _ store.NoteStore = (*PostgresNoteStore)(nil)

func (s *PostgresNoteStore) Create(ctx context.Context, n *domain.ProgressNote) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := n.Validate(); err != nil {
		log.Warn("note validation failed during create", slog.String("error", err.Error()))
		return err
	}

	query := `INSERT INTO progress_notes (` + noteColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := s.db.ExecContext(ctx, query,
		n.ID,
		n.PatientID,
		n.HospitalNumber,
		n.RecordDate,
		n.DayNumber,
		n.RecordType,
		n.DailyCondition,
		n.GeneratedContent,
		n.IsEdited,
		n.CreatedAt,
		n.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to create note",
			slog.String("error", err.Error()),
			slog.String("patient_id", n.PatientID.String()))
		return MapError(err)
	}

	return nil
}

// GetByID returns store.ErrNoteNotFound for an unknown id.
func (s *PostgresNoteStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.ProgressNote, error) {
	query := `SELECT ` + noteColumns + ` FROM progress_notes WHERE id = $1`

	n, err := scanNote(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNoteNotFound
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to get note",
			slog.String("error", err.Error()),
			slog.String("note_id", id.String()))
		return nil, MapError(err)
	}
	return n, nil
}

func (s *PostgresNoteStore) Update(ctx context.Context, n *domain.ProgressNote) error {
	if err := n.Validate(); err != nil {
		return err
	}
	n.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE progress_notes
		SET daily_condition = $1, generated_content = $2, is_edited = $3, updated_at = $4
		WHERE id = $5
	`
	result, err := s.db.ExecContext(ctx, query, n.DailyCondition, n.GeneratedContent, n.IsEdited, n.UpdatedAt, n.ID)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to update note",
			slog.String("error", err.Error()),
			slog.String("note_id", n.ID.String()))
		return MapError(err)
	}

	return CheckRowsAffected(result, store.ErrNoteNotFound)
}

// ListByPatient returns the newest notes first. A non-positive limit returns all.
func (s *PostgresNoteStore) ListByPatient(ctx context.Context, patientID uuid.UUID, limit int) ([]*domain.ProgressNote, error) {
	query := `SELECT ` + noteColumns + ` FROM progress_notes
		WHERE patient_id = $1
		ORDER BY record_date DESC, created_at DESC`
	args := []interface{}{patientID}
	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list notes",
			slog.String("error", err.Error()),
			slog.String("patient_id", patientID.String()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	notes := []*domain.ProgressNote{}
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan note row: %w", err)
		}
		notes = append(notes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating note rows: %w", err)
	}

	return notes, nil
}

func (s *PostgresNoteStore) WithTx(tx *sql.Tx) store.NoteStore {
	return &PostgresNoteStore{db: tx, logger: s.logger}
}

func scanNote(row rowScanner) (*domain.ProgressNote, error) {
	var n domain.ProgressNote
	err := row.Scan(
		&n.ID,
		&n.PatientID,
		&n.HospitalNumber,
		&n.RecordDate,
		&n.DayNumber,
		&n.RecordType,
		&n.DailyCondition,
		&n.GeneratedContent,
		&n.IsEdited,
		&n.CreatedAt,
		&n.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &n, nil
}
