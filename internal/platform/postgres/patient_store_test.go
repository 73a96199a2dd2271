package postgres_test

import (
	"context"
	"database/sql/driver"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rehabdesk/rehabdesk-api/internal/domain"
	"github.com/rehabdesk/rehabdesk-api/internal/platform/postgres"
	"github.com/rehabdesk/rehabdesk-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var patientRowColumns = []string{
	"id", "hospital_number", "name", "gender", "age", "admission_date", "discharge_date",
	"chief_complaint", "diagnosis", "past_history", "allergy_history", "specialist_exam", "initial_note",
	"created_at", "updated_at",
}

func TestPatientStoreCreate(t *testing.T) {
	t.Parallel()

	t.Run("inserts patient", func(t *testing.T) {
		t.Parallel()
		db, mock := newMockDB(t)
		p := newTestPatient(t, "ZY1001")

		mock.ExpectExec("INSERT INTO patients").
			WithArgs(p.ID, "ZY1001", "张三", domain.GenderMale, int64(67), p.AdmissionDate, nil,
				"", "", "", "", "", "", p.CreatedAt, p.UpdatedAt).
			WillReturnResult(sqlmock.NewResult(0, 1))

		s := postgres.NewPostgresPatientStore(db, nil)
		require.NoError(t, s.Create(context.Background(), p))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("duplicate hospital number", func(t *testing.T) {
		t.Parallel()
		db, mock := newMockDB(t)
		p := newTestPatient(t, "ZY1001")

		mock.ExpectExec("INSERT INTO patients").
			WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "patients_hospital_number_key"})

		err := postgres.NewPostgresPatientStore(db, nil).Create(context.Background(), p)
		assert.ErrorIs(t, err, store.ErrHospitalNumberExists)
	})

	t.Run("invalid patient never reaches the database", func(t *testing.T) {
		t.Parallel()
		db, mock := newMockDB(t)
		p := newTestPatient(t, "ZY1001")
		p.Gender = "unknown"

		err := postgres.NewPostgresPatientStore(db, nil).Create(context.Background(), p)
		assert.ErrorIs(t, err, domain.ErrInvalidGender)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPatientStoreGet(t *testing.T) {
	t.Parallel()

	t.Run("scans nullable columns", func(t *testing.T) {
		t.Parallel()
		db, mock := newMockDB(t)
		id := uuid.New()
		now := time.Now().UTC()
		discharge := day("2025-03-20")

		rows := sqlmock.NewRows(patientRowColumns).AddRow(
			id.String(), "ZY1002", "李四", "女", int64(54), day("2025-03-01"), discharge,
			"右侧肢体无力", "脑梗死", "", "", "", "", now, now)
		mock.ExpectQuery(regexp.QuoteMeta("FROM patients WHERE hospital_number = $1")).
			WithArgs("ZY1002").
			WillReturnRows(rows)

		p, err := postgres.NewPostgresPatientStore(db, nil).GetByHospitalNumber(context.Background(), " ZY1002 ")
		require.NoError(t, err)
		assert.Equal(t, id, p.ID)
		require.NotNil(t, p.Age)
		assert.Equal(t, 54, *p.Age)
		require.NotNil(t, p.DischargeDate)
		assert.True(t, p.IsDischarged())
		assert.Equal(t, "脑梗死", p.Diagnosis)
	})

	t.Run("null age and discharge", func(t *testing.T) {
		t.Parallel()
		db, mock := newMockDB(t)
		id := uuid.New()
		now := time.Now().UTC()

		rows := sqlmock.NewRows(patientRowColumns).AddRow(
			id.String(), "ZY1003", "", "", nil, day("2025-03-01"), nil,
			"", "", "", "", "", "", now, now)
		mock.ExpectQuery("FROM patients WHERE id").WithArgs(id).WillReturnRows(rows)

		p, err := postgres.NewPostgresPatientStore(db, nil).GetByID(context.Background(), id)
		require.NoError(t, err)
		assert.Nil(t, p.Age)
		assert.Nil(t, p.DischargeDate)
	})

	t.Run("not found", func(t *testing.T) {
		t.Parallel()
		db, mock := newMockDB(t)
		id := uuid.New()
		mock.ExpectQuery("FROM patients WHERE id").WithArgs(id).WillReturnRows(sqlmock.NewRows(patientRowColumns))

		_, err := postgres.NewPostgresPatientStore(db, nil).GetByID(context.Background(), id)
		assert.ErrorIs(t, err, store.ErrPatientNotFound)
		assert.True(t, store.IsNotFoundError(err))
	})
}

func TestPatientStoreList(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		filter store.PatientFilter
		query  string
		args   []driver.Value
	}{
		{
			name:  "active only",
			query: regexp.QuoteMeta("FROM patients WHERE discharge_date IS NULL ORDER BY admission_date DESC"),
		},
		{
			name:   "search with paging",
			filter: store.PatientFilter{IncludeDischarged: true, Search: "脑梗", Limit: 10, Offset: 20},
			query:  regexp.QuoteMeta("WHERE (name ILIKE $1 OR hospital_number ILIKE $1 OR diagnosis ILIKE $1)"),
			args:   []driver.Value{"%脑梗%", 10, 20},
		},
		{
			name:   "active search",
			filter: store.PatientFilter{Search: "ZY"},
			query:  regexp.QuoteMeta("WHERE discharge_date IS NULL AND (name ILIKE $1"),
			args:   []driver.Value{"%ZY%"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			db, mock := newMockDB(t)
			exp := mock.ExpectQuery(tt.query)
			if len(tt.args) > 0 {
				exp = exp.WithArgs(tt.args...)
			}
			exp.WillReturnRows(sqlmock.NewRows(patientRowColumns))

			patients, err := postgres.NewPostgresPatientStore(db, nil).List(context.Background(), tt.filter)
			require.NoError(t, err)
			assert.NotNil(t, patients)
			assert.Empty(t, patients)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestPatientStoreUpdateAndDelete(t *testing.T) {
	t.Parallel()

	t.Run("update missing patient", func(t *testing.T) {
		t.Parallel()
		db, mock := newMockDB(t)
		p := newTestPatient(t, "ZY1004")
		mock.ExpectExec("UPDATE patients").WillReturnResult(sqlmock.NewResult(0, 0))

		err := postgres.NewPostgresPatientStore(db, nil).Update(context.Background(), p)
		assert.ErrorIs(t, err, store.ErrPatientNotFound)
	})

	t.Run("update discharge date", func(t *testing.T) {
		t.Parallel()
		db, mock := newMockDB(t)
		p := newTestPatient(t, "ZY1004")
		require.NoError(t, p.Discharge(day("2025-03-18")))
		mock.ExpectExec("UPDATE patients").
			WithArgs("ZY1004", "张三", domain.GenderMale, int64(67), p.AdmissionDate, day("2025-03-18"),
				"", "", "", "", "", "", sqlmock.AnyArg(), p.ID).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, postgres.NewPostgresPatientStore(db, nil).Update(context.Background(), p))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("delete", func(t *testing.T) {
		t.Parallel()
		db, mock := newMockDB(t)
		id := uuid.New()
		mock.ExpectExec("DELETE FROM patients").WithArgs(id).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("DELETE FROM patients").WithArgs(id).WillReturnResult(sqlmock.NewResult(0, 0))

		s := postgres.NewPostgresPatientStore(db, nil)
		require.NoError(t, s.Delete(context.Background(), id))
		assert.ErrorIs(t, s.Delete(context.Background(), id), store.ErrPatientNotFound)
	})
}
