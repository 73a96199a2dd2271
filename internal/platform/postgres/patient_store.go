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
	"github.com/rehabdesk/rehabdesk-api/internal/platform/logger"
	"github.com/rehabdesk/rehabdesk-api/internal/store"
)

const patientColumns = `id, hospital_number, name, gender, age, admission_date, discharge_date,
	chief_complaint, diagnosis, past_history, allergy_history, specialist_exam, initial_note,
	created_at, updated_at`

// PostgresPatientStore implements store.PatientStore.
type PostgresPatientStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresPatientStore creates a patient store. A nil logger uses slog.Default.
func NewPostgresPatientStore(db store.DBTX, logger *slog.Logger) *PostgresPatientStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresPatientStore{
		db:     db,
		logger: logger.With(slog.String("component", "patient_store")),
	}
}

var _ store.PatientStore = (*PostgresPatientStore)(nil)

// Create inserts a validated patient.
func (s *PostgresPatientStore) Create(ctx context.Context, p *domain.Patient) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := p.Validate(); err != nil {
		log.Warn("patient validation failed during create",
			slog.String("error", err.Error()),
			slog.String("hospital_number", p.HospitalNumber))
		return err
	}

	query := `INSERT INTO patients (` + patientColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`

	_, err := s.db.ExecContext(ctx, query,
		p.ID,
		p.HospitalNumber,
		p.Name,
		p.Gender,
		nullableInt(p.Age),
		p.AdmissionDate,
		nullableTime(p.DischargeDate),
		p.ChiefComplaint,
		p.Diagnosis,
		p.PastHistory,
		p.AllergyHistory,
		p.SpecialistExam,
		p.InitialNote,
		p.CreatedAt,
		p.UpdatedAt,
	)
	if err != nil {
		mapped := MapError(err)
		if errors.Is(mapped, store.ErrHospitalNumberExists) {
			log.Warn("hospital number already registered",
				slog.String("hospital_number", p.HospitalNumber))
			return store.ErrHospitalNumberExists
		}
		log.Error("failed to create patient",
			slog.String("error", err.Error()),
			slog.String("patient_id", p.ID.String()))
		return mapped
	}

	log.Info("patient created",
		slog.String("patient_id", p.ID.String()),
		slog.String("hospital_number", p.HospitalNumber))
	return nil
}

// GetByID returns store.ErrPatientNotFound for an unknown id.
func (s *PostgresPatientStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Patient, error) {
	query := `SELECT ` + patientColumns + ` FROM patients WHERE id = $1`
	return s.getOne(ctx, query, id)
}

// GetByHospitalNumber returns store.ErrPatientNotFound for an unknown number.
func (s *PostgresPatientStore) GetByHospitalNumber(ctx context.Context, hospitalNumber string) (*domain.Patient, error) {
	query := `SELECT ` + patientColumns + ` FROM patients WHERE hospital_number = $1`
	return s.getOne(ctx, query, strings.TrimSpace(hospitalNumber))
}

func (s *PostgresPatientStore) getOne(ctx context.Context, query string, arg interface{}) (*domain.Patient, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	p, err := scanPatient(s.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrPatientNotFound
		}
		log.Error("failed to get patient", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	return p, nil
}

// List returns patients newest admission first.
func (s *PostgresPatientStore) List(ctx context.Context, filter store.PatientFilter) ([]*domain.Patient, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var where []string
	var args []interface{}
	if !filter.IncludeDischarged {
		where = append(where, "discharge_date IS NULL")
	}
	if term := strings.TrimSpace(filter.Search); term != "" {
		args = append(args, "%"+term+"%")
		n := len(args)
		where = append(where, fmt.Sprintf(
			"(name ILIKE $%d OR hospital_number ILIKE $%d OR diagnosis ILIKE $%d)", n, n, n))
	}

	query := `SELECT ` + patientColumns + ` FROM patients`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY admission_date DESC, created_at DESC"
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to list patients", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	patients := []*domain.Patient{}
	for rows.Next() {
		p, err := scanPatient(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan patient row: %w", err)
		}
		patients = append(patients, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating patient rows: %w", err)
	}

	return patients, nil
}

// Update overwrites the mutable patient fields.
func (s *PostgresPatientStore) Update(ctx context.Context, p *domain.Patient) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := p.Validate(); err != nil {
		return err
	}
	p.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE patients
		SET hospital_number = $1, name = $2, gender = $3, age = $4, admission_date = $5,
			discharge_date = $6, chief_complaint = $7, diagnosis = $8, past_history = $9,
			allergy_history = $10, specialist_exam = $11, initial_note = $12, updated_at = $13
		WHERE id = $14
	`
	result, err := s.db.ExecContext(ctx, query,
		p.HospitalNumber,
		p.Name,
		p.Gender,
		nullableInt(p.Age),
		p.AdmissionDate,
		nullableTime(p.DischargeDate),
		p.ChiefComplaint,
		p.Diagnosis,
		p.PastHistory,
		p.AllergyHistory,
		p.SpecialistExam,
		p.InitialNote,
		p.UpdatedAt,
		p.ID,
	)
	if err != nil {
		log.Error("failed to update patient",
			slog.String("error", err.Error()),
			slog.String("patient_id", p.ID.String()))
		return MapError(err)
	}

	return CheckRowsAffected(result, store.ErrPatientNotFound)
}

// Delete removes the patient and, through cascades, everything recorded for it.
func (s *PostgresPatientStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM patients WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete patient",
			slog.String("error", err.Error()),
			slog.String("patient_id", id.String()))
		return MapError(err)
	}
	if err := CheckRowsAffected(result, store.ErrPatientNotFound); err != nil {
		return err
	}

	log.Info("patient deleted", slog.String("patient_id", id.String()))
	return nil
}

// WithTx returns a patient store bound to tx.
func (s *PostgresPatientStore) WithTx(tx *sql.Tx) store.PatientStore {
	return &PostgresPatientStore{db: tx, logger: s.logger}
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPatient(row rowScanner) (*domain.Patient, error) {
	var p domain.Patient
	var age sql.NullInt32
	var discharge sql.NullTime

	err := row.Scan(
		&p.ID,
		&p.HospitalNumber,
		&p.Name,
		&p.Gender,
		&age,
		&p.AdmissionDate,
		&discharge,
		&p.ChiefComplaint,
		&p.Diagnosis,
		&p.PastHistory,
		&p.AllergyHistory,
		&p.SpecialistExam,
		&p.InitialNote,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if age.Valid {
		v := int(age.Int32)
		p.Age = &v
	}
	if discharge.Valid {
		d := discharge.Time
		p.DischargeDate = &d
	}
	return &p, nil
}

func nullableInt(v *int) sql.NullInt32 {
	if v == nil {
		return sql.NullInt32{}
	}
	return sql.NullInt32{Int32: int32(*v), Valid: true}
}

func nullableTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
