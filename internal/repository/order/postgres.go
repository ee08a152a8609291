package order

import (
	"context"
	"errors"
	"io"
	"log"

	"storefront-orders/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const orderColumns = `
id, session_id, idempotency_key, email, name, phone, address, city, region, postal_code, country,
subtotal_cents, tax_cents, shipping_cents, total_cents,
payment_status, order_status, carrier, shipping_method, tracking_number, estimated_delivery,
created_at, updated_at`

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

func (r *postgresRepo) Create(ctx context.Context, o domain.Order) (*domain.Order, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	const insertOrder = `
INSERT INTO orders (session_id, idempotency_key, email, name, phone, address, city, region, postal_code, country,
                    subtotal_cents, tax_cents, shipping_cents, total_cents, payment_status, order_status)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
RETURNING id, created_at, updated_at
`
	if err := tx.QueryRow(ctx, insertOrder,
		o.SessionID,
		o.IdempotencyKey,
		o.Email,
		o.Name,
		o.Phone,
		o.Address,
		o.City,
		o.Region,
		o.PostalCode,
		o.Country,
		o.Subtotal,
		o.Tax,
		o.Shipping,
		o.TotalAmount,
		string(o.PaymentStatus),
		string(o.OrderStatus),
	).Scan(&o.ID, &o.CreatedAt, &o.UpdatedAt); err != nil {
		return nil, err
	}

	const insertItem = `
INSERT INTO order_items (order_id, product_id, name, unit_price_cents, quantity, subtotal_cents, position)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING id
`
	for i := range o.Items {
		item := &o.Items[i]
		item.OrderID = o.ID
		if err := tx.QueryRow(ctx, insertItem,
			o.ID, item.ProductID, item.Name, item.UnitPriceCents, item.Quantity, item.SubtotalCents, i,
		).Scan(&item.ID); err != nil {
			return nil, err
		}
	}

	const insertPlaced = `
INSERT INTO tracking_events (order_id, status, description, created_at)
VALUES ($1, $2, $3, $4)
ON CONFLICT (order_id, status) DO NOTHING
`
	if _, err := tx.Exec(ctx, insertPlaced, o.ID, domain.EventOrderPlaced, "Order placed", o.CreatedAt); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	r.logger.Printf("order repo: created order id=%d total_cents=%d items=%d", o.ID, o.TotalAmount, len(o.Items))
	return &o, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	return r.fetchOrder(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id)
}

func (r *postgresRepo) GetByIDAndEmail(ctx context.Context, id int64, email string) (*domain.Order, error) {
	return r.fetchOrder(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1 AND lower(email) = lower($2)`, id, email)
}

func (r *postgresRepo) GetBySessionID(ctx context.Context, sessionID string) (*domain.Order, error) {
	return r.fetchOrder(ctx, `SELECT `+orderColumns+` FROM orders WHERE session_id = $1`, sessionID)
}

func (r *postgresRepo) AttachSession(ctx context.Context, id int64, sessionID string) error {
	cmd, err := r.pool.Exec(ctx, `
UPDATE orders
SET session_id = $1, updated_at = now()
WHERE id = $2
`, sessionID, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) SetPaymentStatus(ctx context.Context, id int64, from, to domain.PaymentStatus) error {
	cmd, err := r.pool.Exec(ctx, `
UPDATE orders
SET payment_status = $1, updated_at = now()
WHERE id = $2 AND payment_status = $3
`, string(to), id, string(from))
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return r.disambiguate(ctx, id)
	}
	r.logger.Printf("order repo: order id=%d payment %s -> %s", id, from, to)
	return nil
}

func (r *postgresRepo) SetOrderStatus(ctx context.Context, id int64, from, to domain.OrderStatus) error {
	cmd, err := r.pool.Exec(ctx, `
UPDATE orders
SET order_status = $1, updated_at = now()
WHERE id = $2 AND order_status = $3
`, string(to), id, string(from))
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return r.disambiguate(ctx, id)
	}
	r.logger.Printf("order repo: order id=%d status %s -> %s", id, from, to)
	return nil
}

func (r *postgresRepo) MarkShipped(ctx context.Context, in MarkShippedInput) (*domain.Order, error) {
	// Conditional update: both concurrent fulfillment calls can pass the
	// service-level guard, but only one lands here.
	const q = `
UPDATE orders
SET order_status = 'shipped',
    carrier = $1,
    shipping_method = $2,
    tracking_number = $3,
    estimated_delivery = $4,
    updated_at = now()
WHERE id = $5 AND order_status IN ('pending', 'processing')
RETURNING ` + orderColumns
	row := r.pool.QueryRow(ctx, q, in.Carrier, in.ShippingMethod, in.TrackingNumber, in.EstimatedDelivery, in.OrderID)
	o, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			exists, eerr := r.exists(ctx, in.OrderID)
			if eerr != nil {
				return nil, eerr
			}
			if !exists {
				return nil, domain.ErrNotFound
			}
			return nil, domain.ErrAlreadyFulfilled
		}
		return nil, err
	}
	if err := r.loadItems(ctx, o); err != nil {
		return nil, err
	}
	r.logger.Printf("order repo: order id=%d shipped carrier=%s tracking=%s", o.ID, in.Carrier, in.TrackingNumber)
	return o, nil
}

func (r *postgresRepo) ListRecent(ctx context.Context, limit int) ([]domain.Order, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.pool.Query(ctx, `SELECT `+orderColumns+` FROM orders ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// disambiguate turns a zero-row conditional update into ErrNotFound when the
// order does not exist, or ErrInvalidTransition when it exists but the stored
// status already moved on.
func (r *postgresRepo) disambiguate(ctx context.Context, id int64) error {
	exists, err := r.exists(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return domain.ErrNotFound
	}
	return domain.ErrInvalidTransition
}

func (r *postgresRepo) exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM orders WHERE id = $1)`, id).Scan(&exists)
	return exists, err
}

func (r *postgresRepo) fetchOrder(ctx context.Context, query string, args ...interface{}) (*domain.Order, error) {
	row := r.pool.QueryRow(ctx, query, args...)
	o, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if err := r.loadItems(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

func (r *postgresRepo) loadItems(ctx context.Context, o *domain.Order) error {
	const q = `
SELECT id, order_id, product_id, name, unit_price_cents, quantity, subtotal_cents
FROM order_items
WHERE order_id = $1
ORDER BY position ASC
`
	rows, err := r.pool.Query(ctx, q, o.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var item domain.OrderItem
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.Name, &item.UnitPriceCents, &item.Quantity, &item.SubtotalCents); err != nil {
			return err
		}
		o.Items = append(o.Items, item)
	}
	return rows.Err()
}

func scanOrder(row pgx.Row) (*domain.Order, error) {
	var o domain.Order
	var paymentStatus, orderStatus string
	if err := row.Scan(
		&o.ID,
		&o.SessionID,
		&o.IdempotencyKey,
		&o.Email,
		&o.Name,
		&o.Phone,
		&o.Address,
		&o.City,
		&o.Region,
		&o.PostalCode,
		&o.Country,
		&o.Subtotal,
		&o.Tax,
		&o.Shipping,
		&o.TotalAmount,
		&paymentStatus,
		&orderStatus,
		&o.Carrier,
		&o.ShippingMethod,
		&o.TrackingNumber,
		&o.EstimatedDelivery,
		&o.CreatedAt,
		&o.UpdatedAt,
	); err != nil {
		return nil, err
	}
	o.PaymentStatus = domain.PaymentStatus(paymentStatus)
	o.OrderStatus = domain.OrderStatus(orderStatus)
	return &o, nil
}
