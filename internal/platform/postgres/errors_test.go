package postgres_test

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rehabdesk/rehabdesk-api/internal/platform/postgres"
	"github.com/rehabdesk/rehabdesk-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPgError(code, constraint string) *pgconn.PgError {
	return &pgconn.PgError{
		Code:           code,
		Message:        "error message",
		TableName:      "patients",
		ColumnName:     "hospital_number",
		ConstraintName: constraint,
	}
}

type fakeResult struct {
	rows int64
	err  error
}

func (r fakeResult) LastInsertId() (int64, error) { return 0, r.err }

func (r fakeResult) RowsAffected() (int64, error) { return r.rows, r.err }

func TestViolationPredicates(t *testing.T) {
	t.Parallel()

	wrapped := fmt.Errorf("insert: %w", newPgError("23514", "reminders_priority_check"))

	tests := []struct {
		name   string
		err    error
		unique bool
		fk     bool
		check  bool
		null   bool
	}{
		{name: "nil error"},
		{name: "plain error", err: errors.New("boom")},
		{name: "unique", err: newPgError("23505", "x"), unique: true},
		{name: "foreign key", err: newPgError("23503", "x"), fk: true},
		{name: "wrapped check", err: wrapped, check: true},
		{name: "not null", err: newPgError("23502", ""), null: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.unique, postgres.IsUniqueViolation(tt.err))
			assert.Equal(t, tt.fk, postgres.IsForeignKeyViolation(tt.err))
			assert.Equal(t, tt.check, postgres.IsCheckConstraintViolation(tt.err))
			assert.Equal(t, tt.null, postgres.IsNotNullViolation(tt.err))
		})
	}
}

func TestMapError(t *testing.T) {
	t.Parallel()

	plain := errors.New("connection reset")

	tests := []struct {
		name   string
		err    error
		target error
	}{
		{name: "no rows", err: sql.ErrNoRows, target: store.ErrNotFound},
		{
			name:   "hospital number taken",
			err:    newPgError("23505", "patients_hospital_number_key"),
			target: store.ErrHospitalNumberExists,
		},
		{name: "other unique", err: newPgError("23505", "rehab_plans_patient_id_key"), target: store.ErrDuplicate},
		{name: "foreign key", err: newPgError("23503", "reminders_patient_id_fkey"), target: store.ErrInvalidEntity},
		{name: "check", err: newPgError("23514", "patients_age_check"), target: store.ErrInvalidEntity},
		{name: "not null", err: newPgError("23502", ""), target: store.ErrInvalidEntity},
		{name: "unmapped", err: plain, target: plain},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := postgres.MapError(tt.err)
			assert.ErrorIs(t, got, tt.target)
		})
	}

	assert.NoError(t, postgres.MapError(nil))
}

func TestMapErrorHospitalNumberIsDuplicate(t *testing.T) {
	t.Parallel()

	err := postgres.MapError(newPgError("23505", "patients_hospital_number_key"))
	assert.True(t, store.IsDuplicateError(err))
}

func TestCheckRowsAffected(t *testing.T) {
	t.Parallel()

	t.Run("rows affected", func(t *testing.T) {
		t.Parallel()
		assert.NoError(t, postgres.CheckRowsAffected(fakeResult{rows: 1}, store.ErrPatientNotFound))
	})

	t.Run("no rows uses the given error", func(t *testing.T) {
		t.Parallel()
		err := postgres.CheckRowsAffected(fakeResult{}, store.ErrPatientNotFound)
		assert.ErrorIs(t, err, store.ErrPatientNotFound)
		assert.True(t, store.IsNotFoundError(err))
	})

	t.Run("no rows defaults to not found", func(t *testing.T) {
		t.Parallel()
		assert.ErrorIs(t, postgres.CheckRowsAffected(fakeResult{}, nil), store.ErrNotFound)
	})

	t.Run("driver error", func(t *testing.T) {
		t.Parallel()
		err := postgres.CheckRowsAffected(fakeResult{err: errors.New("driver")}, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "rows affected")
	})

	t.Run("nil result", func(t *testing.T) {
		t.Parallel()
		assert.Error(t, postgres.CheckRowsAffected(nil, nil))
	})
}
