package store

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

func TestRunInTransaction(t *testing.T) {
	t.Parallel()

	t.Run("commits on success", func(t *testing.T) {
		t.Parallel()
		db, mock := newMockDB(t)
		mock.ExpectBegin()
		mock.ExpectExec("UPDATE reminders").WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := RunInTransaction(context.Background(), db, func(ctx context.Context, tx *sql.Tx) error {
			_, err := tx.ExecContext(ctx, "UPDATE reminders SET is_completed = TRUE")
			return err
		})
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls back on function error", func(t *testing.T) {
		t.Parallel()
		db, mock := newMockDB(t)
		mock.ExpectBegin()
		mock.ExpectRollback()

		fnErr := errors.New("patient write failed")
		err := RunInTransaction(context.Background(), db, func(context.Context, *sql.Tx) error {
			return fnErr
		})
		assert.ErrorIs(t, err, fnErr)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("begin failure", func(t *testing.T) {
		t.Parallel()
		db, mock := newMockDB(t)
		mock.ExpectBegin().WillReturnError(errors.New("connection refused"))

		called := false
		err := RunInTransaction(context.Background(), db, func(context.Context, *sql.Tx) error {
			called = true
			return nil
		})
		assert.ErrorIs(t, err, ErrTransactionFailed)
		assert.False(t, called)
	})

	t.Run("commit failure", func(t *testing.T) {
		t.Parallel()
		db, mock := newMockDB(t)
		mock.ExpectBegin()
		mock.ExpectCommit().WillReturnError(errors.New("serialization failure"))

		err := RunInTransaction(context.Background(), db, func(context.Context, *sql.Tx) error {
			return nil
		})
		assert.ErrorIs(t, err, ErrTransactionFailed)
	})

	t.Run("rollback failure keeps original error", func(t *testing.T) {
		t.Parallel()
		db, mock := newMockDB(t)
		mock.ExpectBegin()
		mock.ExpectRollback().WillReturnError(errors.New("conn closed"))

		fnErr := errors.New("insert failed")
		err := RunInTransaction(context.Background(), db, func(context.Context, *sql.Tx) error {
			return fnErr
		})
		assert.ErrorIs(t, err, fnErr)
		assert.Contains(t, err.Error(), "conn closed")
	})

	t.Run("panic rolls back and propagates", func(t *testing.T) {
		t.Parallel()
		db, mock := newMockDB(t)
		mock.ExpectBegin()
		mock.ExpectRollback()

		assert.PanicsWithValue(t, "boom", func() {
			_ = RunInTransaction(context.Background(), db, func(context.Context, *sql.Tx) error {
				panic("boom")
			})
		})
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
