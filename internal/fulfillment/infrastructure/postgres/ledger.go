package postgres

import (
	"context"
	"errors"

	"github.com/aniruddhha/orderflow/internal/fulfillment/domain"
	"github.com/jackc/pgx/v5"
)

// reserveLine decrements on_hand for sku by qty and returns the unit price in
// force at the moment of the decrement. The guard and the decrement are one
// conditional UPDATE, never a separate check followed by a write, so two
// concurrent reservations cannot both pass a stale stock check.
func reserveLine(ctx context.Context, tx pgx.Tx, sku string, qty int) (int64, error) {
	var priceCents int64
	err := tx.QueryRow(ctx, `
		UPDATE inventory
		   SET on_hand = on_hand - $2
		 WHERE sku = $1
		   AND on_hand >= $2
		RETURNING price_cents
	`, sku, qty).Scan(&priceCents)
	if errors.Is(err, pgx.ErrNoRows) {
		// No row matched: either the SKU is missing or stock ran short.
		// The probe is a pure read; the reservation above stays atomic.
		var exists bool
		if probeErr := tx.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM inventory WHERE sku = $1)`, sku,
		).Scan(&exists); probeErr != nil {
			return 0, probeErr
		}
		if !exists {
			return 0, domain.UnknownSKUError{SKU: sku}
		}
		return 0, domain.InsufficientStockError{SKU: sku}
	}
	if err != nil {
		return 0, mapPgError(err)
	}
	return priceCents, nil
}
