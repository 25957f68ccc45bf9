package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS customer (
		id   BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS inventory (
		sku         TEXT PRIMARY KEY,
		title       TEXT NOT NULL,
		price_cents BIGINT NOT NULL,
		on_hand     INT NOT NULL CHECK (on_hand >= 0)
	)`,
	`CREATE TABLE IF NOT EXISTS sales_order (
		id          BIGSERIAL PRIMARY KEY,
		customer_id BIGINT NOT NULL REFERENCES customer(id),
		created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS order_item (
		id               BIGSERIAL PRIMARY KEY,
		order_id         BIGINT NOT NULL REFERENCES sales_order(id) ON DELETE CASCADE,
		sku              TEXT NOT NULL REFERENCES inventory(sku),
		qty              INT NOT NULL CHECK (qty > 0),
		unit_price_cents BIGINT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS outbox (
		id             BIGSERIAL PRIMARY KEY,
		aggregate_type TEXT NOT NULL,
		aggregate_id   TEXT NOT NULL,
		type           TEXT NOT NULL,
		payload        BYTEA NOT NULL,
		headers        JSONB,
		traceparent    TEXT,
		status         TEXT NOT NULL DEFAULT 'pending',
		relay_id       TEXT,
		lease_until    TIMESTAMPTZ,
		retry_count    INT NOT NULL DEFAULT 0,
		last_error     TEXT,
		created_at     TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
}

// Migrate creates the fulfillment schema. Statements are idempotent.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range schemaStatements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// Seed upserts a demo customer and catalog. Safe to run repeatedly.
func Seed(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx,
		`INSERT INTO customer (id, name) VALUES (1, 'Samrudhi') ON CONFLICT (id) DO NOTHING`,
	); err != nil {
		return err
	}

	const upsert = `
		INSERT INTO inventory (sku, title, price_cents, on_hand)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (sku) DO UPDATE
		   SET title = EXCLUDED.title,
		       price_cents = EXCLUDED.price_cents,
		       on_hand = EXCLUDED.on_hand
	`
	seed := []struct {
		sku, title string
		priceCents int64
		onHand     int
	}{
		{"SKU-USB-C", "USB-C Cable (1m)", 399, 50},
		{"SKU-KBD-61", "Mechanical Keyboard (61 keys)", 4999, 10},
		{"SKU-IPHONE", "Smartphone X", 69900, 2},
	}
	for _, it := range seed {
		if _, err := pool.Exec(ctx, upsert, it.sku, it.title, it.priceCents, it.onHand); err != nil {
			return err
		}
	}
	return nil
}
