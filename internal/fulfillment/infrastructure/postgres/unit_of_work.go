package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrUnitDone is returned when Commit or Rollback is issued against a unit of
// work that already reached a terminal state.
var ErrUnitDone = errors.New("unit of work already finished")

type unitState int

const (
	unitInProgress unitState = iota
	unitCommitted
	unitRolledBack
)

type txHandle interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// unitOfWork tracks the InProgress -> {Committed, RolledBack} lifecycle of a
// single transaction. Terminal states accept no further operations, so a
// deferred Rollback after a successful Commit is a no-op (ErrUnitDone).
type unitOfWork struct {
	tx    txHandle
	state unitState
}

func newUnitOfWork(tx txHandle) *unitOfWork {
	return &unitOfWork{tx: tx, state: unitInProgress}
}

func beginUnit(ctx context.Context, pool *pgxpool.Pool) (*unitOfWork, pgx.Tx, error) {
	tx, err := pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, nil, err
	}
	return newUnitOfWork(tx), tx, nil
}

func (u *unitOfWork) Commit(ctx context.Context) error {
	if u.state != unitInProgress {
		return ErrUnitDone
	}
	if err := u.tx.Commit(ctx); err != nil {
		u.state = unitRolledBack
		return err
	}
	u.state = unitCommitted
	return nil
}

func (u *unitOfWork) Rollback(ctx context.Context) error {
	if u.state != unitInProgress {
		return ErrUnitDone
	}
	u.state = unitRolledBack
	return u.tx.Rollback(ctx)
}
