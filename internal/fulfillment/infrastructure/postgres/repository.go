package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strconv"

	"github.com/aniruddhha/orderflow/internal/fulfillment/domain"
	"github.com/aniruddhha/orderflow/pkg/tracing"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository struct {
	log  *slog.Logger
	pool *pgxpool.Pool
}

func NewRepository(log *slog.Logger, pool *pgxpool.Pool) *Repository {
	return &Repository{log: log, pool: pool}
}

// querier is satisfied by both pgx.Tx and *pgxpool.Pool, so the summary
// queries run either inside the fulfillment transaction or against committed
// state.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// CreateOrderWithItems is the fulfillment transaction. It inserts the order
// header, reserves stock and writes a priced line per request in input order,
// projects the summary from the still-open transaction, queues the
// OrderPlaced outbox row, and commits. The first failing line aborts the
// whole unit; nothing is retried and nothing partial ever becomes visible.
func (r *Repository) CreateOrderWithItems(ctx context.Context, customerID int64, lines []domain.NewOrderLine) (domain.OrderConfirmation, error) {
	unit, tx, err := beginUnit(ctx, r.pool)
	if err != nil {
		return domain.OrderConfirmation{}, err
	}
	defer func() {
		_ = unit.Rollback(ctx)
	}()

	var orderID int64
	err = tx.QueryRow(ctx,
		`INSERT INTO sales_order (customer_id) VALUES ($1) RETURNING id`,
		customerID,
	).Scan(&orderID)
	if err != nil {
		return domain.OrderConfirmation{}, mapPgError(err)
	}

	placed := make([]domain.OrderLine, 0, len(lines))
	for _, line := range lines {
		priceCents, err := reserveLine(ctx, tx, line.SKU, line.Qty)
		if err != nil {
			r.log.Warn("order aborted on line",
				"order_id", orderID, "sku", line.SKU, "qty", line.Qty, "err", err)
			return domain.OrderConfirmation{}, err
		}
		_, err = tx.Exec(ctx, `
			INSERT INTO order_item (order_id, sku, qty, unit_price_cents)
			VALUES ($1, $2, $3, $4)
		`, orderID, line.SKU, line.Qty, priceCents)
		if err != nil {
			return domain.OrderConfirmation{}, mapPgError(err)
		}
		placed = append(placed, domain.OrderLine{SKU: line.SKU, Qty: line.Qty, UnitPriceCents: priceCents})
	}

	summary, err := summarize(ctx, tx, orderID)
	if err != nil {
		return domain.OrderConfirmation{}, err
	}

	if err := queueOrderPlaced(ctx, tx, customerID, summary, placed); err != nil {
		return domain.OrderConfirmation{}, err
	}

	if err := unit.Commit(ctx); err != nil {
		return domain.OrderConfirmation{}, err
	}
	return domain.OrderConfirmation{OrderID: orderID, Summary: summary}, nil
}

// Summarize recomputes the summary of a committed order. Reading twice with
// no writes in between returns identical results.
func (r *Repository) Summarize(ctx context.Context, orderID int64) (domain.OrderSummary, error) {
	return summarize(ctx, r.pool, orderID)
}

func (r *Repository) GetOrder(ctx context.Context, orderID int64) (domain.SalesOrder, error) {
	var o domain.SalesOrder
	err := r.pool.QueryRow(ctx,
		`SELECT id, customer_id, created_at FROM sales_order WHERE id = $1`, orderID).
		Scan(&o.ID, &o.CustomerID, &o.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.SalesOrder{}, domain.ErrOrderNotFound
	}
	if err != nil {
		return domain.SalesOrder{}, err
	}
	return o, nil
}

func (r *Repository) GetCustomer(ctx context.Context, id int64) (domain.Customer, error) {
	var c domain.Customer
	err := r.pool.QueryRow(ctx, `SELECT id, name FROM customer WHERE id = $1`, id).
		Scan(&c.ID, &c.Name)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Customer{}, domain.ErrUnknownCustomer
	}
	if err != nil {
		return domain.Customer{}, err
	}
	return c, nil
}

func (r *Repository) ListInventory(ctx context.Context) ([]domain.InventoryItem, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT sku, title, price_cents, on_hand FROM inventory ORDER BY sku`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.InventoryItem
	for rows.Next() {
		var it domain.InventoryItem
		if err := rows.Scan(&it.SKU, &it.Title, &it.PriceCents, &it.OnHand); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// summarize builds the aggregate view: header total via a coalesced sum so a
// zero-line order reports 0, then line detail ordered by title with sku as
// tie-break. Pure read.
func summarize(ctx context.Context, q querier, orderID int64) (domain.OrderSummary, error) {
	var s domain.OrderSummary
	err := q.QueryRow(ctx, `
		SELECT so.id,
		       c.name,
		       COALESCE(SUM(oi.qty * oi.unit_price_cents), 0)
		  FROM sales_order so
		  JOIN customer c ON c.id = so.customer_id
		  LEFT JOIN order_item oi ON oi.order_id = so.id
		 WHERE so.id = $1
		 GROUP BY so.id, c.name
	`, orderID).Scan(&s.OrderID, &s.CustomerName, &s.TotalCents)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.OrderSummary{}, domain.ErrOrderNotFound
	}
	if err != nil {
		return domain.OrderSummary{}, err
	}

	rows, err := q.Query(ctx, `
		SELECT oi.sku,
		       i.title,
		       oi.qty,
		       oi.qty * oi.unit_price_cents
		  FROM order_item oi
		  JOIN inventory i ON i.sku = oi.sku
		 WHERE oi.order_id = $1
		 ORDER BY i.title, oi.sku
	`, orderID)
	if err != nil {
		return domain.OrderSummary{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var l domain.SummaryLine
		if err := rows.Scan(&l.SKU, &l.Title, &l.Qty, &l.LineCents); err != nil {
			return domain.OrderSummary{}, err
		}
		s.Lines = append(s.Lines, l)
	}
	return s, rows.Err()
}

func queueOrderPlaced(ctx context.Context, tx pgx.Tx, customerID int64, summary domain.OrderSummary, lines []domain.OrderLine) error {
	payload, err := json.Marshal(domain.OrderPlaced{
		EventID:    uuid.NewString(),
		OrderID:    summary.OrderID,
		CustomerID: customerID,
		TotalCents: summary.TotalCents,
		Lines:      lines,
	})
	if err != nil {
		return err
	}
	_, err = tx.Exec(ctx, `
		INSERT INTO outbox (aggregate_type, aggregate_id, type, payload, headers, traceparent, status)
		VALUES ($1, $2, $3, $4, $5, $6, 'pending')
	`, "sales_order", strconv.FormatInt(summary.OrderID, 10), "OrderPlaced",
		payload, map[string]string{}, tracing.Traceparent(ctx))
	return err
}
