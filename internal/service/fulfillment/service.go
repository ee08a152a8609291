package fulfillment

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"storefront-orders/internal/carriers"
	"storefront-orders/internal/domain"
	orderrepo "storefront-orders/internal/repository/order"
)

type orderRepo interface {
	MarkShipped(ctx context.Context, in orderrepo.MarkShippedInput) (*domain.Order, error)
}

type eventRepo interface {
	Append(ctx context.Context, e domain.TrackingEvent) error
}

// Notifier receives the post-ship signals: the customer email and the label
// stub. Both are external collaborators; the default implementation just
// logs.
type Notifier interface {
	OrderShipped(ctx context.Context, o *domain.Order)
}

// LogNotifier is the stub Notifier used until a real mailer and label
// provider are wired in.
type LogNotifier struct {
	Logger *log.Logger
}

func (n LogNotifier) OrderShipped(_ context.Context, o *domain.Order) {
	if n.Logger == nil || o.TrackingNumber == nil {
		return
	}
	n.Logger.Printf("notify: shipment email queued order_id=%d email=%s tracking=%s", o.ID, o.Email, *o.TrackingNumber)
	n.Logger.Printf("notify: label generated order_id=%d carrier=%s", o.ID, *o.Carrier)
}

// Result is the per-order outcome of a bulk fulfillment. Callers retry only
// the entries that carry an error.
type Result struct {
	OrderID        int64
	TrackingNumber string
	Order          *domain.Order
	Err            error
}

// Service assigns carriers and tracking numbers and transitions orders to
// shipped.
type Service struct {
	orders orderRepo
	events eventRepo
	rates  *carriers.Table
	notify Notifier
	now    func() time.Time
	logger *log.Logger
}

func New(orders orderRepo, events eventRepo, rates *carriers.Table, notify Notifier, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	if notify == nil {
		notify = LogNotifier{Logger: logger}
	}
	return &Service{
		orders: orders,
		events: events,
		rates:  rates,
		notify: notify,
		now:    time.Now,
		logger: logger,
	}
}

// WithClock overrides the time source, for tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Fulfill ships a single order with the selected carrier rate. When no
// tracking number is supplied one is generated from the carrier's prefix.
// Orders already shipped, delivered or cancelled are rejected with
// ErrAlreadyFulfilled and left untouched; the guard is a conditional update,
// so two concurrent calls cannot both ship the same order.
func (s *Service) Fulfill(ctx context.Context, orderID int64, carrierID, trackingNumber string) (*domain.Order, error) {
	rate, err := s.rates.Get(carrierID)
	if err != nil {
		return nil, err
	}

	trackingNumber = strings.TrimSpace(trackingNumber)
	if trackingNumber == "" {
		trackingNumber, err = GenerateTrackingNumber(rate.TrackingPrefix)
		if err != nil {
			return nil, err
		}
	}

	now := s.now().UTC()
	order, err := s.orders.MarkShipped(ctx, orderrepo.MarkShippedInput{
		OrderID:           orderID,
		Carrier:           rate.Name,
		ShippingMethod:    rate.Service,
		TrackingNumber:    trackingNumber,
		EstimatedDelivery: now.AddDate(0, 0, rate.EstimatedDays),
	})
	if err != nil {
		return nil, err
	}

	event := domain.TrackingEvent{
		OrderID:     order.ID,
		Status:      domain.EventShipped,
		Description: fmt.Sprintf("Shipped via %s %s", rate.Name, rate.Service),
		CreatedAt:   now,
	}
	if err := s.events.Append(ctx, event); err != nil {
		// The order is shipped; a missing event only degrades the timeline.
		s.logger.Printf("fulfillment: append shipped event order_id=%d: %v", order.ID, err)
	}

	s.notify.OrderShipped(ctx, order)
	return order, nil
}

// FulfillBulk applies Fulfill to each order independently with one carrier
// rate, generating a distinct tracking number per order. There is no
// transactional envelope; the per-order results tell the caller exactly
// which orders shipped and which to retry.
func (s *Service) FulfillBulk(ctx context.Context, orderIDs []int64, carrierID string) []Result {
	results := make([]Result, 0, len(orderIDs))
	for _, id := range orderIDs {
		order, err := s.Fulfill(ctx, id, carrierID, "")
		res := Result{OrderID: id, Order: order, Err: err}
		if err == nil && order.TrackingNumber != nil {
			res.TrackingNumber = *order.TrackingNumber
		}
		if err != nil {
			s.logger.Printf("fulfillment: bulk order_id=%d carrier=%s: %v", id, carrierID, err)
		}
		results = append(results, res)
	}
	return results
}
