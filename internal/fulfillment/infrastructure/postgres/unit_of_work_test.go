package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTx struct {
	commits     int
	rollbacks   int
	commitErr   error
	rollbackErr error
}

func (f *fakeTx) Commit(ctx context.Context) error {
	f.commits++
	return f.commitErr
}

func (f *fakeTx) Rollback(ctx context.Context) error {
	f.rollbacks++
	return f.rollbackErr
}

func TestUnitCommitIsTerminal(t *testing.T) {
	tx := &fakeTx{}
	unit := newUnitOfWork(tx)

	require.NoError(t, unit.Commit(context.Background()))

	// The deferred rollback after a successful commit must not reach the
	// transaction.
	assert.ErrorIs(t, unit.Rollback(context.Background()), ErrUnitDone)
	assert.ErrorIs(t, unit.Commit(context.Background()), ErrUnitDone)
	assert.Equal(t, 1, tx.commits)
	assert.Equal(t, 0, tx.rollbacks)
}

func TestUnitRollbackIsTerminal(t *testing.T) {
	tx := &fakeTx{}
	unit := newUnitOfWork(tx)

	require.NoError(t, unit.Rollback(context.Background()))

	assert.ErrorIs(t, unit.Commit(context.Background()), ErrUnitDone)
	assert.ErrorIs(t, unit.Rollback(context.Background()), ErrUnitDone)
	assert.Equal(t, 0, tx.commits)
	assert.Equal(t, 1, tx.rollbacks)
}

func TestUnitFailedCommitCountsAsRolledBack(t *testing.T) {
	boom := errors.New("broken pipe")
	tx := &fakeTx{commitErr: boom}
	unit := newUnitOfWork(tx)

	require.ErrorIs(t, unit.Commit(context.Background()), boom)

	// No second attempt against the store once the unit is terminal.
	assert.ErrorIs(t, unit.Commit(context.Background()), ErrUnitDone)
	assert.Equal(t, 1, tx.commits)
}
