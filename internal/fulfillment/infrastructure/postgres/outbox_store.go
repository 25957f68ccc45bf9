package postgres

import (
	"context"
	"log/slog"
	"time"

	"github.com/aniruddhha/orderflow/pkg/outbox"
	"github.com/jackc/pgx/v5/pgxpool"
)

// OutboxStore serves the relay: it leases pending events with row locks so
// concurrent relays never dispatch the same event twice.
type OutboxStore struct {
	log  *slog.Logger
	pool *pgxpool.Pool
}

func NewOutboxStore(log *slog.Logger, pool *pgxpool.Pool) *OutboxStore {
	return &OutboxStore{log: log, pool: pool}
}

func (s *OutboxStore) LockBatch(ctx context.Context, relayID string, batchSize int, lease time.Duration) ([]outbox.Event, error) {
	unit, tx, err := beginUnit(ctx, s.pool)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = unit.Rollback(ctx)
	}()

	rows, err := tx.Query(ctx, `
		SELECT id, aggregate_type, aggregate_id, type, payload, headers, traceparent, created_at
		  FROM outbox
		 WHERE status = 'pending'
		 ORDER BY id
		 FOR UPDATE SKIP LOCKED
		 LIMIT $1
	`, batchSize)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []outbox.Event
	for rows.Next() {
		var ev outbox.Event
		if err := rows.Scan(&ev.ID, &ev.AggregateType, &ev.AggregateID, &ev.Type,
			&ev.Payload, &ev.Headers, &ev.Traceparent, &ev.CreatedAt); err != nil {
			return nil, err
		}
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(events) == 0 {
		return nil, unit.Commit(ctx)
	}

	ids := make([]int64, 0, len(events))
	for _, ev := range events {
		ids = append(ids, ev.ID)
	}
	_, err = tx.Exec(ctx, `
		UPDATE outbox
		   SET status = 'in_progress', relay_id = $1, lease_until = now() + $2::interval
		 WHERE id = ANY($3)
	`, relayID, lease.String(), ids)
	if err != nil {
		return nil, err
	}
	if err := unit.Commit(ctx); err != nil {
		return nil, err
	}
	return events, nil
}

func (s *OutboxStore) MarkSent(ctx context.Context, ids []int64) error {
	_, err := s.pool.Exec(ctx, `UPDATE outbox SET status = 'sent' WHERE id = ANY($1)`, ids)
	return err
}

func (s *OutboxStore) MarkFailed(ctx context.Context, id int64, errMsg string) error {
	_, err := s.pool.Exec(ctx,
		`UPDATE outbox SET status = 'failed', last_error = $2, retry_count = retry_count + 1 WHERE id = $1`,
		id, errMsg)
	return err
}

func (s *OutboxStore) ExtendLease(ctx context.Context, relayID string, ids []int64, lease time.Duration) error {
	_, err := s.pool.Exec(ctx,
		`UPDATE outbox SET lease_until = now() + $1::interval WHERE id = ANY($2) AND relay_id = $3`,
		lease.String(), ids, relayID)
	return err
}
