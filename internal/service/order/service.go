package order

import (
	"context"
	"errors"
	"io"
	"log"

	"storefront-orders/internal/domain"
)

type orderRepo interface {
	GetByID(ctx context.Context, id int64) (*domain.Order, error)
	GetBySessionID(ctx context.Context, sessionID string) (*domain.Order, error)
	SetPaymentStatus(ctx context.Context, id int64, from, to domain.PaymentStatus) error
	SetOrderStatus(ctx context.Context, id int64, from, to domain.OrderStatus) error
	ListRecent(ctx context.Context, limit int) ([]domain.Order, error)
}

type eventRepo interface {
	Append(ctx context.Context, e domain.TrackingEvent) error
}

// Service applies payment confirmations and admin status changes. Every
// mutation goes through the state machine; there is no path that writes a
// status the machine would reject.
type Service struct {
	orders orderRepo
	events eventRepo
	logger *log.Logger
}

func New(orders orderRepo, events eventRepo, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{orders: orders, events: events, logger: logger}
}

// Get returns one order by id.
func (s *Service) Get(ctx context.Context, id int64) (*domain.Order, error) {
	return s.orders.GetByID(ctx, id)
}

// ListRecent returns the latest orders for the admin view.
func (s *Service) ListRecent(ctx context.Context, limit int) ([]domain.Order, error) {
	return s.orders.ListRecent(ctx, limit)
}

// ConfirmPayment marks the order behind the session as paid and moves it to
// processing. Replayed confirmations for an already-paid order are a no-op,
// which makes webhook redelivery safe.
func (s *Service) ConfirmPayment(ctx context.Context, sessionID string) (*domain.Order, error) {
	o, err := s.orders.GetBySessionID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if o.PaymentStatus == domain.PaymentPaid {
		return o, nil
	}
	if err := o.PaymentStatus.Transition(domain.PaymentPaid); err != nil {
		return nil, err
	}
	if err := s.orders.SetPaymentStatus(ctx, o.ID, o.PaymentStatus, domain.PaymentPaid); err != nil {
		return nil, err
	}

	if o.OrderStatus == domain.OrderPending {
		if err := s.orders.SetOrderStatus(ctx, o.ID, domain.OrderPending, domain.OrderProcessing); err != nil {
			// A concurrent transition (cancel, fulfillment) already moved the
			// order on; the payment update above still stands.
			if !errors.Is(err, domain.ErrInvalidTransition) {
				return nil, err
			}
		} else if err := s.events.Append(ctx, domain.TrackingEvent{
			OrderID:     o.ID,
			Status:      domain.EventProcessing,
			Description: "Payment confirmed, order is being prepared",
		}); err != nil {
			s.logger.Printf("order: append processing event order_id=%d: %v", o.ID, err)
		}
	}

	s.logger.Printf("order: payment confirmed order_id=%d session=%s", o.ID, sessionID)
	return s.orders.GetByID(ctx, o.ID)
}

// FailPayment records a failed or expired payment session.
func (s *Service) FailPayment(ctx context.Context, sessionID string) (*domain.Order, error) {
	o, err := s.orders.GetBySessionID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if o.PaymentStatus == domain.PaymentFailed {
		return o, nil
	}
	if err := o.PaymentStatus.Transition(domain.PaymentFailed); err != nil {
		return nil, err
	}
	if err := s.orders.SetPaymentStatus(ctx, o.ID, o.PaymentStatus, domain.PaymentFailed); err != nil {
		return nil, err
	}
	s.logger.Printf("order: payment failed order_id=%d session=%s", o.ID, sessionID)
	return s.orders.GetByID(ctx, o.ID)
}

// SetOrderStatus applies an admin-requested order status change through the
// state machine. Entering shipped is refused here: carrier and tracking
// number must be set atomically with it, which only fulfillment does.
func (s *Service) SetOrderStatus(ctx context.Context, id int64, to domain.OrderStatus) (*domain.Order, error) {
	if to == domain.OrderShipped {
		return nil, errors.New("use fulfillment to ship an order")
	}
	o, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := o.OrderStatus.Transition(to); err != nil {
		return nil, err
	}
	if err := s.orders.SetOrderStatus(ctx, id, o.OrderStatus, to); err != nil {
		return nil, err
	}
	if to == domain.OrderDelivered {
		if err := s.events.Append(ctx, domain.TrackingEvent{
			OrderID:     id,
			Status:      domain.EventDelivered,
			Description: "Package delivered",
		}); err != nil {
			s.logger.Printf("order: append delivered event order_id=%d: %v", id, err)
		}
	}
	s.logger.Printf("order: status override order_id=%d %s -> %s", id, o.OrderStatus, to)
	return s.orders.GetByID(ctx, id)
}

// SetPaymentStatus applies an admin-requested payment status change (e.g.
// paid -> refunded) through the state machine.
func (s *Service) SetPaymentStatus(ctx context.Context, id int64, to domain.PaymentStatus) (*domain.Order, error) {
	o, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := o.PaymentStatus.Transition(to); err != nil {
		return nil, err
	}
	if err := s.orders.SetPaymentStatus(ctx, id, o.PaymentStatus, to); err != nil {
		return nil, err
	}
	s.logger.Printf("order: payment override order_id=%d %s -> %s", id, o.PaymentStatus, to)
	return s.orders.GetByID(ctx, id)
}

// Cancel cancels an order from pending or processing; anything later is
// rejected by the state machine.
func (s *Service) Cancel(ctx context.Context, id int64) (*domain.Order, error) {
	return s.SetOrderStatus(ctx, id, domain.OrderCancelled)
}
