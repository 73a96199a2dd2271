package service

import (
	"database/sql"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/rehabdesk/rehabdesk-api/internal/domain"
	"github.com/rehabdesk/rehabdesk-api/internal/domain/schedule"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTxDB returns a sqlmock database for code that runs store calls inside
// store.RunInTransaction. Callers declare ExpectBegin/ExpectCommit.
func newTxDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, m, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = db.Close()
	})
	return db, m
}

func day(s string) time.Time {
	d, err := schedule.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func testPatient(t *testing.T, admission time.Time) *domain.Patient {
	t.Helper()
	p, err := domain.NewPatient("ZY001", admission)
	require.NoError(t, err)
	p.Name = "张三"
	p.Diagnosis = "脑梗死恢复期"
	return p
}

type reminderCounter map[string]int

func (c reminderCounter) ObserveRemindersMaterialized(reminderType string, n int) {
	c[reminderType] += n
}

func eventTypes(reminders []*domain.Reminder) []schedule.EventType {
	out := make([]schedule.EventType, 0, len(reminders))
	for _, r := range reminders {
		out = append(out, r.EventType)
	}
	return out
}
