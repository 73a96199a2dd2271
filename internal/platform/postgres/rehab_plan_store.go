package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/rehabdesk/rehabdesk-api/internal/domain"
	"github.com/rehabdesk/rehabdesk-api/internal/platform/logger"
	"github.com/rehabdesk/rehabdesk-api/internal/store"
)

// PostgresRehabPlanStore implements store.RehabPlanStore. Training plans are
// stored as JSONB.
type PostgresRehabPlanStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresRehabPlanStore creates a rehabilitation plan store.
func NewPostgresRehabPlanStore(db store.DBTX, logger *slog.Logger) *PostgresRehabPlanStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresRehabPlanStore{
		db:     db,
		logger: logger.With(slog.String("component", "rehab_plan_store")),
	}
}

var _ store.RehabPlanStore = (*PostgresRehabPlanStore)(nil)

// GetByPatient returns store.ErrRehabPlanNotFound when the patient has no plan.
func (s *PostgresRehabPlanStore) GetByPatient(ctx context.Context, patientID uuid.UUID) (*domain.RehabPlan, error) {
	query := `
		SELECT id, patient_id, hospital_number, short_term_goals, long_term_goals,
			training_plan, created_at, updated_at
		FROM rehab_plans
		WHERE patient_id = $1
	`

	var p domain.RehabPlan
	var items []byte
	err := s.db.QueryRowContext(ctx, query, patientID).Scan(
		&p.ID,
		&p.PatientID,
		&p.HospitalNumber,
		&p.ShortTermGoals,
		&p.LongTermGoals,
		&items,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrRehabPlanNotFound
		}
		return nil, MapError(err)
	}

	if err := json.Unmarshal(items, &p.TrainingPlan); err != nil {
		return nil, fmt.Errorf("failed to decode training plan: %w", err)
	}
	if p.TrainingPlan == nil {
		p.TrainingPlan = []domain.TrainingItem{}
	}
	return &p, nil
}

// Upsert writes the plan, replacing any existing plan of the same patient.
// The stored id and creation time are copied back into plan.
func (s *PostgresRehabPlanStore) Upsert(ctx context.Context, plan *domain.RehabPlan) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := plan.Validate(); err != nil {
		return err
	}

	items, err := json.Marshal(plan.TrainingPlan)
	if err != nil {
		return fmt.Errorf("failed to encode training plan: %w", err)
	}

	query := `
		INSERT INTO rehab_plans (id, patient_id, hospital_number, short_term_goals, long_term_goals,
			training_plan, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (patient_id) DO UPDATE
		SET short_term_goals = EXCLUDED.short_term_goals,
			long_term_goals = EXCLUDED.long_term_goals,
			training_plan = EXCLUDED.training_plan,
			updated_at = EXCLUDED.updated_at
		RETURNING id, created_at
	`
	err = s.db.QueryRowContext(ctx, query,
		plan.ID,
		plan.PatientID,
		plan.HospitalNumber,
		plan.ShortTermGoals,
		plan.LongTermGoals,
		items,
		plan.CreatedAt,
		plan.UpdatedAt,
	).Scan(&plan.ID, &plan.CreatedAt)
	if err != nil {
		log.Error("failed to upsert rehab plan",
			slog.String("error", err.Error()),
			slog.String("patient_id", plan.PatientID.String()))
		return MapError(err)
	}

	return nil
}

func (s *PostgresRehabPlanStore) AddProgress(ctx context.Context, p *domain.RehabProgress) error {
	if err := p.Validate(); err != nil {
		return err
	}

	query := `
		INSERT INTO rehab_progress (id, patient_id, hospital_number, record_date, content, score, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := s.db.ExecContext(ctx, query,
		p.ID,
		p.PatientID,
		p.HospitalNumber,
		p.RecordDate,
		p.Content,
		p.Score,
		p.CreatedAt,
	)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to add rehab progress",
			slog.String("error", err.Error()),
			slog.String("patient_id", p.PatientID.String()))
		return MapError(err)
	}
	return nil
}

// ListProgress returns entries newest record date first.
func (s *PostgresRehabPlanStore) ListProgress(ctx context.Context, patientID uuid.UUID) ([]*domain.RehabProgress, error) {
	query := `
		SELECT id, patient_id, hospital_number, record_date, content, score, created_at
		FROM rehab_progress
		WHERE patient_id = $1
		ORDER BY record_date DESC, created_at DESC
	`
	rows, err := s.db.QueryContext(ctx, query, patientID)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	entries := []*domain.RehabProgress{}
	for rows.Next() {
		var p domain.RehabProgress
		if err := rows.Scan(
			&p.ID,
			&p.PatientID,
			&p.HospitalNumber,
			&p.RecordDate,
			&p.Content,
			&p.Score,
			&p.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan progress row: %w", err)
		}
		entries = append(entries, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating progress rows: %w", err)
	}

	return entries, nil
}

func (s *PostgresRehabPlanStore) WithTx(tx *sql.Tx) store.RehabPlanStore {
	return &PostgresRehabPlanStore{db: tx, logger: s.logger}
}
