package tracking

import (
	"context"
	"io"
	"log"

	"storefront-orders/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const insertEvent = `
INSERT INTO tracking_events (order_id, status, description, location, created_at)
VALUES ($1, $2, $3, $4, COALESCE($5, now()))
ON CONFLICT (order_id, status) DO NOTHING
`

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *log.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresRepo{pool: pool, logger: logger}
}

func (r *postgresRepo) Append(ctx context.Context, e domain.TrackingEvent) error {
	_, err := r.pool.Exec(ctx, insertEvent, e.OrderID, e.Status, e.Description, e.Location, nullableTime(e))
	if err != nil {
		r.logger.Printf("tracking repo: append order_id=%d status=%s error=%v", e.OrderID, e.Status, err)
		return err
	}
	return nil
}

func (r *postgresRepo) AppendAll(ctx context.Context, events []domain.TrackingEvent) error {
	if len(events) == 0 {
		return nil
	}
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, e := range events {
		if _, err := tx.Exec(ctx, insertEvent, e.OrderID, e.Status, e.Description, e.Location, nullableTime(e)); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

func (r *postgresRepo) ListByOrder(ctx context.Context, orderID int64) ([]domain.TrackingEvent, error) {
	const q = `
SELECT id, order_id, status, description, location, created_at
FROM tracking_events
WHERE order_id = $1
ORDER BY created_at ASC, id ASC
`
	rows, err := r.pool.Query(ctx, q, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.TrackingEvent
	for rows.Next() {
		var e domain.TrackingEvent
		if err := rows.Scan(&e.ID, &e.OrderID, &e.Status, &e.Description, &e.Location, &e.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func nullableTime(e domain.TrackingEvent) interface{} {
	if e.CreatedAt.IsZero() {
		return nil
	}
	return e.CreatedAt
}
