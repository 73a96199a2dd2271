package postgres_test

import (
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/rehabdesk/rehabdesk-api/internal/domain"
	"github.com/rehabdesk/rehabdesk-api/internal/domain/schedule"
	"github.com/stretchr/testify/require"
)

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

func day(s string) time.Time {
	d, err := schedule.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func newTestPatient(t *testing.T, hospitalNumber string) *domain.Patient {
	t.Helper()
	p, err := domain.NewPatient(hospitalNumber, day("2025-03-03"))
	require.NoError(t, err)
	p.Name = "张三"
	p.Gender = domain.GenderMale
	age := 67
	p.Age = &age
	return p
}
