package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rehabdesk/rehabdesk-api/internal/domain"
	"github.com/rehabdesk/rehabdesk-api/internal/domain/schedule"
	"github.com/rehabdesk/rehabdesk-api/internal/platform/logger"
	"github.com/rehabdesk/rehabdesk-api/internal/store"
)

const reminderColumns = `id, patient_id, hospital_number, reminder_type, event_type, reminder_date,
	day_number, description, priority, is_completed, completed_at, created_at`

const reminderColumnCount = 12

// priorityOrder sorts urgent reminders first.
const priorityOrder = `CASE priority WHEN 'urgent' THEN 0 WHEN 'high' THEN 1 WHEN 'medium' THEN 2 ELSE 3 END`

// PostgresReminderStore implements store.ReminderStore.
type PostgresReminderStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresReminderStore creates a reminder store.
func NewPostgresReminderStore(db store.DBTX, logger *slog.Logger) *PostgresReminderStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresReminderStore{
		db:     db,
		logger: logger.With(slog.String("component", "reminder_store")),
	}
}

var _ store.ReminderStore = (*PostgresReminderStore)(nil)

// CreateMultiple inserts all reminders in one statement. Nothing is written
// if any reminder fails validation.
func (s *PostgresReminderStore) CreateMultiple(ctx context.Context, reminders []*domain.Reminder) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if len(reminders) == 0 {
		return nil
	}

	values := make([]string, 0, len(reminders))
	args := make([]interface{}, 0, len(reminders)*reminderColumnCount)
	for i, r := range reminders {
		if err := r.Validate(); err != nil {
			log.Warn("reminder validation failed during batch create",
				slog.String("error", err.Error()),
				slog.Int("index", i))
			return err
		}

		placeholders := make([]string, reminderColumnCount)
		for j := range placeholders {
			placeholders[j] = fmt.Sprintf("$%d", i*reminderColumnCount+j+1)
		}
		values = append(values, "("+strings.Join(placeholders, ", ")+")")
		args = append(args,
			r.ID,
			r.PatientID,
			r.HospitalNumber,
			r.Type,
			string(r.EventType),
			r.Date,
			r.DayNumber,
			r.Description,
			string(r.Priority),
			r.IsCompleted,
			nullableTime(r.CompletedAt),
			r.CreatedAt,
		)
	}

	query := `INSERT INTO reminders (` + reminderColumns + `) VALUES ` + strings.Join(values, ", ")
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		log.Error("failed to create reminders",
			slog.String("error", err.Error()),
			slog.Int("count", len(reminders)))
		return MapError(err)
	}

	log.Debug("reminders created", slog.Int("count", len(reminders)))
	return nil
}

// GetByID returns store.ErrReminderNotFound for an unknown id.
func (s *PostgresReminderStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Reminder, error) {
	query := `SELECT ` + reminderColumns + ` FROM reminders WHERE id = $1`

	r, err := scanReminder(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrReminderNotFound
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to get reminder",
			slog.String("error", err.Error()),
			slog.String("reminder_id", id.String()))
		return nil, MapError(err)
	}
	return r, nil
}

// Update persists the completion state.
func (s *PostgresReminderStore) Update(ctx context.Context, r *domain.Reminder) error {
	query := `UPDATE reminders SET is_completed = $1, completed_at = $2 WHERE id = $3`

	result, err := s.db.ExecContext(ctx, query, r.IsCompleted, nullableTime(r.CompletedAt), r.ID)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to update reminder",
			slog.String("error", err.Error()),
			slog.String("reminder_id", r.ID.String()))
		return MapError(err)
	}

	return CheckRowsAffected(result, store.ErrReminderNotFound)
}

// ListDue returns the day's uncompleted reminders, most urgent first.
func (s *PostgresReminderStore) ListDue(
	ctx context.Context,
	day time.Time,
	priority schedule.Priority,
) ([]*domain.Reminder, error) {
	query := `SELECT ` + reminderColumns + ` FROM reminders
		WHERE reminder_date = $1 AND NOT is_completed`
	args := []interface{}{schedule.CalendarDay(day)}
	if priority != "" {
		query += ` AND priority = $2`
		args = append(args, string(priority))
	}
	query += ` ORDER BY ` + priorityOrder + `, created_at ASC`

	return s.list(ctx, query, args...)
}

// ListByPatient returns the patient's reminders by date. A non-nil from keeps
// only uncompleted reminders dated on or after it.
func (s *PostgresReminderStore) ListByPatient(
	ctx context.Context,
	patientID uuid.UUID,
	from *time.Time,
) ([]*domain.Reminder, error) {
	query := `SELECT ` + reminderColumns + ` FROM reminders WHERE patient_id = $1`
	args := []interface{}{patientID}
	if from != nil {
		query += ` AND NOT is_completed AND reminder_date >= $2`
		args = append(args, schedule.CalendarDay(*from))
	}
	query += ` ORDER BY reminder_date ASC, ` + priorityOrder + `, created_at ASC`

	return s.list(ctx, query, args...)
}

func (s *PostgresReminderStore) CountByPatient(ctx context.Context, patientID uuid.UUID) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM reminders WHERE patient_id = $1`, patientID).Scan(&n)
	if err != nil {
		return 0, MapError(err)
	}
	return n, nil
}

// DeletePendingScheduled removes uncompleted reminders created by the
// scheduler. Manually added reminders carry no event type and are kept.
func (s *PostgresReminderStore) DeletePendingScheduled(ctx context.Context, patientID uuid.UUID) (int64, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `DELETE FROM reminders WHERE patient_id = $1 AND NOT is_completed AND event_type <> ''`
	result, err := s.db.ExecContext(ctx, query, patientID)
	if err != nil {
		log.Error("failed to delete pending reminders",
			slog.String("error", err.Error()),
			slog.String("patient_id", patientID.String()))
		return 0, MapError(err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	log.Debug("pending scheduled reminders deleted",
		slog.String("patient_id", patientID.String()),
		slog.Int64("count", n))
	return n, nil
}

func (s *PostgresReminderStore) WithTx(tx *sql.Tx) store.ReminderStore {
	return &PostgresReminderStore{db: tx, logger: s.logger}
}

func (s *PostgresReminderStore) list(ctx context.Context, query string, args ...interface{}) ([]*domain.Reminder, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list reminders",
			slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	reminders := []*domain.Reminder{}
	for rows.Next() {
		r, err := scanReminder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan reminder row: %w", err)
		}
		reminders = append(reminders, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating reminder rows: %w", err)
	}

	return reminders, nil
}

func scanReminder(row rowScanner) (*domain.Reminder, error) {
	var r domain.Reminder
	var eventType, priority string
	var completedAt sql.NullTime

	err := row.Scan(
		&r.ID,
		&r.PatientID,
		&r.HospitalNumber,
		&r.Type,
		&eventType,
		&r.Date,
		&r.DayNumber,
		&r.Description,
		&priority,
		&r.IsCompleted,
		&completedAt,
		&r.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	r.EventType = schedule.EventType(eventType)
	r.Priority = schedule.Priority(priority)
	if completedAt.Valid {
		t := completedAt.Time
		r.CompletedAt = &t
	}
	return &r, nil
}
