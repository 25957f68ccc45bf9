package postgres

import (
	"errors"
	"fmt"

	"github.com/aniruddhha/orderflow/internal/fulfillment/domain"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	codeForeignKeyViolation = "23503"
	codeCheckViolation      = "23514"
)

// mapPgError converts constraint violations into domain errors. Anything else
// (connection loss, syntax, serialization) passes through untouched; the
// caller has already arranged the rollback.
func mapPgError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case codeForeignKeyViolation:
		return fmt.Errorf("%w: %s", domain.ErrUnknownCustomer, pgErr.ConstraintName)
	case codeCheckViolation:
		return fmt.Errorf("%w: %s", domain.ErrInvalidQuantity, pgErr.ConstraintName)
	}
	return err
}
