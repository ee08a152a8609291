package tracking

import (
	"context"
	"io"
	"log"
	"time"

	"storefront-orders/internal/domain"
)

type orderRepo interface {
	GetByID(ctx context.Context, id int64) (*domain.Order, error)
	GetByIDAndEmail(ctx context.Context, id int64, email string) (*domain.Order, error)
}

type eventRepo interface {
	AppendAll(ctx context.Context, events []domain.TrackingEvent) error
	ListByOrder(ctx context.Context, orderID int64) ([]domain.TrackingEvent, error)
}

// Service reconstructs the customer-facing timeline for an order. Events are
// normally written at the real moment of each transition; for orders that
// predate event writes the first lookup synthesizes a plausible history from
// the current status and persists it, so later lookups take the read-only
// path.
type Service struct {
	orders orderRepo
	events eventRepo
	now    func() time.Time
	logger *log.Logger
}

func New(orders orderRepo, events eventRepo, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{
		orders: orders,
		events: events,
		now:    time.Now,
		logger: logger,
	}
}

// WithClock overrides the time source, for tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Timeline returns the order's events ascending by time, synthesizing and
// persisting them first if none exist yet.
func (s *Service) Timeline(ctx context.Context, orderID int64) ([]domain.TrackingEvent, error) {
	events, err := s.events.ListByOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if len(events) > 0 {
		return events, nil
	}

	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	synth := Synthesize(order, s.now().UTC())
	// The (order_id, status) uniqueness constraint makes this safe against a
	// concurrent first lookup; both sides upsert the same rows.
	if err := s.events.AppendAll(ctx, synth); err != nil {
		return nil, err
	}
	s.logger.Printf("tracking: synthesized %d events for order id=%d status=%s", len(synth), orderID, order.OrderStatus)

	return s.events.ListByOrder(ctx, orderID)
}

// Lookup is the customer-facing read: order id and email must both match, so
// an id alone never exposes someone else's order.
func (s *Service) Lookup(ctx context.Context, orderID int64, email string) (*domain.Order, []domain.TrackingEvent, error) {
	order, err := s.orders.GetByIDAndEmail(ctx, orderID, email)
	if err != nil {
		return nil, nil, err
	}
	events, err := s.Timeline(ctx, orderID)
	if err != nil {
		return nil, nil, err
	}
	return order, events, nil
}

// Synthesize builds a display history from the order's current status. The
// back-dated timestamps are a display approximation, not audit times; they
// are clamped so nothing precedes the order_placed event.
func Synthesize(order *domain.Order, now time.Time) []domain.TrackingEvent {
	clamp := func(t time.Time) time.Time {
		if t.Before(order.CreatedAt) {
			return order.CreatedAt
		}
		return t
	}

	events := []domain.TrackingEvent{{
		OrderID:     order.ID,
		Status:      domain.EventOrderPlaced,
		Description: "Order placed",
		CreatedAt:   order.CreatedAt,
	}}

	status := order.OrderStatus
	if status == domain.OrderProcessing || status == domain.OrderShipped || status == domain.OrderDelivered {
		events = append(events, domain.TrackingEvent{
			OrderID:     order.ID,
			Status:      domain.EventProcessing,
			Description: "Payment confirmed, order is being prepared",
			CreatedAt:   clamp(now.AddDate(0, 0, -2)),
		})
	}
	if status == domain.OrderShipped || status == domain.OrderDelivered {
		description := "Package handed to carrier"
		if order.Carrier != nil {
			description = "Shipped via " + *order.Carrier
		}
		events = append(events, domain.TrackingEvent{
			OrderID:     order.ID,
			Status:      domain.EventShipped,
			Description: description,
			CreatedAt:   clamp(now.AddDate(0, 0, -1)),
		})
	}
	if status == domain.OrderDelivered {
		events = append(events, domain.TrackingEvent{
			OrderID:     order.ID,
			Status:      domain.EventDelivered,
			Description: "Package delivered",
			CreatedAt:   now,
		})
	}
	return events
}
