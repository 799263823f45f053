package database

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithTx(t *testing.T) {
	t.Run("commits on success", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectExec("UPDATE tokens").WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err = NewTxManager(db).WithTx(context.Background(), func(ctx context.Context) error {
			assert.True(t, InTx(ctx))
			_, execErr := GetTx(ctx, db).ExecContext(ctx, "UPDATE tokens SET active = false")
			return execErr
		})

		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls back on error", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectRollback()

		failure := errors.New("boom")
		err = NewTxManager(db).WithTx(context.Background(), func(ctx context.Context) error {
			return failure
		})

		assert.ErrorIs(t, err, failure)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("joins rollback failure", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		rollbackErr := errors.New("connection lost")
		mock.ExpectBegin()
		mock.ExpectRollback().WillReturnError(rollbackErr)

		failure := errors.New("boom")
		err = NewTxManager(db).WithTx(context.Background(), func(ctx context.Context) error {
			return failure
		})

		assert.ErrorIs(t, err, failure)
		assert.ErrorIs(t, err, rollbackErr)
	})

	t.Run("begin failure", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		beginErr := errors.New("too many connections")
		mock.ExpectBegin().WillReturnError(beginErr)

		called := false
		err = NewTxManager(db).WithTx(context.Background(), func(ctx context.Context) error {
			called = true
			return nil
		})

		assert.ErrorIs(t, err, beginErr)
		assert.False(t, called)
	})

	t.Run("nested call joins outer transaction", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectCommit()

		manager := NewTxManager(db)
		err = manager.WithTx(context.Background(), func(ctx context.Context) error {
			return manager.WithTx(ctx, func(ctx context.Context) error {
				assert.True(t, InTx(ctx))
				return nil
			})
		})

		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGetTx_WithoutTransaction(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	assert.False(t, InTx(context.Background()))
	assert.Equal(t, db, GetTx(context.Background(), db))
}
