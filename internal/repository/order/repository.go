package order

import (
	"context"
	"time"

	"storefront-orders/internal/domain"
)

// MarkShippedInput carries the fulfillment fields that must land atomically.
// Carrier and tracking number always travel together; neither is ever set on
// its own.
type MarkShippedInput struct {
	OrderID           int64
	Carrier           string
	ShippingMethod    string
	TrackingNumber    string
	EstimatedDelivery time.Time
}

type Repository interface {
	// Create persists the order, its line items and the initial
	// order_placed tracking event in a single transaction.
	Create(ctx context.Context, o domain.Order) (*domain.Order, error)
	GetByID(ctx context.Context, id int64) (*domain.Order, error)
	// GetByIDAndEmail is the customer-facing lookup; both values must match.
	GetByIDAndEmail(ctx context.Context, id int64, email string) (*domain.Order, error)
	GetBySessionID(ctx context.Context, sessionID string) (*domain.Order, error)
	AttachSession(ctx context.Context, id int64, sessionID string) error
	// SetPaymentStatus applies the transition conditionally: the update only
	// lands if the stored status still equals from.
	SetPaymentStatus(ctx context.Context, id int64, from, to domain.PaymentStatus) error
	// SetOrderStatus applies the transition conditionally, like SetPaymentStatus.
	SetOrderStatus(ctx context.Context, id int64, from, to domain.OrderStatus) error
	// MarkShipped transitions to shipped and sets all fulfillment fields in
	// one conditional update. A zero-row update means the order was missing
	// or no longer fulfillable, reported as ErrNotFound or
	// ErrAlreadyFulfilled respectively.
	MarkShipped(ctx context.Context, in MarkShippedInput) (*domain.Order, error)
	ListRecent(ctx context.Context, limit int) ([]domain.Order, error)
}
