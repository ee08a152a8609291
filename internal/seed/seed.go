package seed

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"storefront-orders/internal/domain"
)

type itemSeed struct {
	ProductID      string
	Name           string
	UnitPriceCents int64
	Quantity       int32
}

type eventSeed struct {
	Status      string
	Description string
	Location    string
	AgeDays     int
}

type orderSeed struct {
	IdempotencyKey string
	Email          string
	Name           string
	PaymentStatus  domain.PaymentStatus
	OrderStatus    domain.OrderStatus
	SubtotalCents  int64
	TaxCents       int64
	ShippingCents  int64
	Carrier        string
	ShippingMethod string
	TrackingNumber string
	Items          []itemSeed
	Events         []eventSeed
}

// Apply inserts demo orders covering the whole status spectrum for manual
// testing. It is idempotent: each order is keyed by a fixed idempotency key.
func Apply(ctx context.Context, pool *pgxpool.Pool) error {
	for _, o := range demoOrders() {
		if err := upsertOrder(ctx, pool, o); err != nil {
			return fmt.Errorf("seed order %s: %w", o.IdempotencyKey, err)
		}
	}
	return nil
}

func demoOrders() []orderSeed {
	return []orderSeed{
		{
			IdempotencyKey: "6f1f2d1e-0001-4a6b-9f00-000000000001",
			Email:          "alice@example.com",
			Name:           "Alice Demo",
			PaymentStatus:  domain.PaymentPending,
			OrderStatus:    domain.OrderPending,
			SubtotalCents:  4800, TaxCents: 384, ShippingCents: 1000,
			Items: []itemSeed{
				{ProductID: "demo-shirt", Name: "Demo T-Shirt", UnitPriceCents: 2400, Quantity: 2},
			},
			Events: []eventSeed{
				{Status: domain.EventOrderPlaced, Description: "Order placed", AgeDays: 0},
			},
		},
		{
			IdempotencyKey: "6f1f2d1e-0002-4a6b-9f00-000000000002",
			Email:          "bob@example.com",
			Name:           "Bob Demo",
			PaymentStatus:  domain.PaymentPaid,
			OrderStatus:    domain.OrderProcessing,
			SubtotalCents:  2598, TaxCents: 208, ShippingCents: 1000,
			Items: []itemSeed{
				{ProductID: "demo-mug", Name: "Demo Mug", UnitPriceCents: 1299, Quantity: 2},
			},
			Events: []eventSeed{
				{Status: domain.EventOrderPlaced, Description: "Order placed", AgeDays: 2},
				{Status: domain.EventProcessing, Description: "Payment confirmed, preparing shipment", AgeDays: 1},
			},
		},
		{
			IdempotencyKey: "6f1f2d1e-0003-4a6b-9f00-000000000003",
			Email:          "carol@example.com",
			Name:           "Carol Demo",
			PaymentStatus:  domain.PaymentPaid,
			OrderStatus:    domain.OrderShipped,
			SubtotalCents:  9600, TaxCents: 768, ShippingCents: 1000,
			Carrier:        "USPS", ShippingMethod: "Priority Mail",
			TrackingNumber: "94DEMO00000000SHIP1",
			Items: []itemSeed{
				{ProductID: "demo-shirt", Name: "Demo T-Shirt", UnitPriceCents: 2400, Quantity: 4},
			},
			Events: []eventSeed{
				{Status: domain.EventOrderPlaced, Description: "Order placed", AgeDays: 5},
				{Status: domain.EventProcessing, Description: "Payment confirmed, preparing shipment", AgeDays: 4},
				{Status: domain.EventShipped, Description: "Shipped via USPS Priority Mail", Location: "Distribution center", AgeDays: 2},
			},
		},
		{
			IdempotencyKey: "6f1f2d1e-0004-4a6b-9f00-000000000004",
			Email:          "dave@example.com",
			Name:           "Dave Demo",
			PaymentStatus:  domain.PaymentPaid,
			OrderStatus:    domain.OrderDelivered,
			SubtotalCents:  1299, TaxCents: 104, ShippingCents: 1000,
			Carrier:        "UPS", ShippingMethod: "Ground",
			TrackingNumber: "1ZDEMO00000000DLVR1",
			Items: []itemSeed{
				{ProductID: "demo-mug", Name: "Demo Mug", UnitPriceCents: 1299, Quantity: 1},
			},
			Events: []eventSeed{
				{Status: domain.EventOrderPlaced, Description: "Order placed", AgeDays: 10},
				{Status: domain.EventProcessing, Description: "Payment confirmed, preparing shipment", AgeDays: 9},
				{Status: domain.EventShipped, Description: "Shipped via UPS Ground", Location: "Distribution center", AgeDays: 7},
				{Status: domain.EventDelivered, Description: "Delivered", Location: "Front door", AgeDays: 3},
			},
		},
		{
			IdempotencyKey: "6f1f2d1e-0005-4a6b-9f00-000000000005",
			Email:          "erin@example.com",
			Name:           "Erin Demo",
			PaymentStatus:  domain.PaymentFailed,
			OrderStatus:    domain.OrderCancelled,
			SubtotalCents:  2400, TaxCents: 192, ShippingCents: 1000,
			Items: []itemSeed{
				{ProductID: "demo-shirt", Name: "Demo T-Shirt", UnitPriceCents: 2400, Quantity: 1},
			},
			Events: []eventSeed{
				{Status: domain.EventOrderPlaced, Description: "Order placed", AgeDays: 1},
			},
		},
	}
}

func upsertOrder(ctx context.Context, pool *pgxpool.Pool, o orderSeed) error {
	const insertOrder = `
INSERT INTO orders (
    idempotency_key, email, name, phone, address, city, region, postal_code, country,
    subtotal_cents, tax_cents, shipping_cents, total_cents,
    payment_status, order_status, carrier, shipping_method, tracking_number
)
VALUES ($1, $2, $3, '555-0100', '1 Demo Street', 'Demoville', 'CA', '94000', 'US',
        $4, $5, $6, $7, $8, $9, NULLIF($10, ''), NULLIF($11, ''), NULLIF($12, ''))
ON CONFLICT (idempotency_key) DO UPDATE SET email = EXCLUDED.email
RETURNING id
`
	total := o.SubtotalCents + o.TaxCents + o.ShippingCents
	var orderID int64
	err := pool.QueryRow(ctx, insertOrder,
		o.IdempotencyKey, o.Email, o.Name,
		o.SubtotalCents, o.TaxCents, o.ShippingCents, total,
		string(o.PaymentStatus), string(o.OrderStatus),
		o.Carrier, o.ShippingMethod, o.TrackingNumber,
	).Scan(&orderID)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	const insertItem = `
INSERT INTO order_items (order_id, product_id, name, unit_price_cents, quantity, subtotal_cents, position)
SELECT $1, $2, $3, $4, $5, $6, $7
WHERE NOT EXISTS (SELECT 1 FROM order_items WHERE order_id = $1 AND position = $7)
`
	for i, it := range o.Items {
		sub := it.UnitPriceCents * int64(it.Quantity)
		if _, err := pool.Exec(ctx, insertItem, orderID, it.ProductID, it.Name, it.UnitPriceCents, it.Quantity, sub, i); err != nil {
			return fmt.Errorf("insert item %d: %w", i, err)
		}
	}

	const insertEvent = `
INSERT INTO tracking_events (order_id, status, description, location, created_at)
VALUES ($1, $2, $3, NULLIF($4, ''), now() - make_interval(days => $5))
ON CONFLICT (order_id, status) DO NOTHING
`
	for _, ev := range o.Events {
		if _, err := pool.Exec(ctx, insertEvent, orderID, ev.Status, ev.Description, ev.Location, ev.AgeDays); err != nil {
			return fmt.Errorf("insert event %s: %w", ev.Status, err)
		}
	}

	return nil
}
