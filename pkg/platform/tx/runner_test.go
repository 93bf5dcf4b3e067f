package tx

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "rigcheck/pkg/domain-errors"
)

type counterStore struct{ n int }

func (c *counterStore) Snapshot() func() {
	saved := c.n
	return func() { c.n = saved }
}

func TestSQLRunner(t *testing.T) {
	t.Run("commits on success and exposes the tx", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectCommit()

		err = NewSQLRunner(db, time.Second).RunInTx(context.Background(), func(txCtx context.Context) error {
			_, ok := From(txCtx)
			assert.True(t, ok)
			return nil
		})
		require.NoError(t, err)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls back when fn fails", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectRollback()

		boom := errors.New("boom")
		err = NewSQLRunner(db, 0).RunInTx(context.Background(), func(context.Context) error { return boom })
		assert.ErrorIs(t, err, boom)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("cancelled context never begins", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		err = NewSQLRunner(db, 0).RunInTx(ctx, func(context.Context) error { return nil })
		assert.True(t, dErrors.HasCode(err, dErrors.CodeTimeout))
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestMemoryRunner(t *testing.T) {
	t.Run("restores stores when fn fails", func(t *testing.T) {
		store := &counterStore{n: 1}
		runner := NewMemoryRunner(store)

		err := runner.RunInTx(context.Background(), func(context.Context) error {
			store.n = 5
			return errors.New("fail")
		})
		require.Error(t, err)
		assert.Equal(t, 1, store.n)
	})

	t.Run("keeps writes on success", func(t *testing.T) {
		store := &counterStore{}
		runner := NewMemoryRunner(store)
		require.NoError(t, runner.RunInTx(context.Background(), func(context.Context) error {
			store.n = 2
			return nil
		}))
		assert.Equal(t, 2, store.n)
	})

	t.Run("nested calls join the outer transaction", func(t *testing.T) {
		runner := NewMemoryRunner()
		err := runner.RunInTx(context.Background(), func(txCtx context.Context) error {
			return runner.RunInTx(txCtx, func(context.Context) error { return nil })
		})
		require.NoError(t, err)
	})
}
