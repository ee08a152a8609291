package tracking

import (
	"context"

	"storefront-orders/internal/domain"
)

type Repository interface {
	// Append records one event. A zero CreatedAt is stamped with now() by
	// the database. Each (order, status) pair is recorded at most once; a
	// duplicate append is a silent no-op, which makes both the webhook
	// handler and timeline synthesis idempotent under races.
	Append(ctx context.Context, e domain.TrackingEvent) error
	// AppendAll records a batch of events in one transaction, with the same
	// per-event conflict behavior as Append.
	AppendAll(ctx context.Context, events []domain.TrackingEvent) error
	// ListByOrder returns the order's events ascending by creation time.
	ListByOrder(ctx context.Context, orderID int64) ([]domain.TrackingEvent, error)
}
