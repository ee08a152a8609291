package order

import (
	"context"
	"errors"
	"testing"

	"storefront-orders/internal/domain"
)

type stubOrderRepo struct {
	orders map[int64]*domain.Order
	bySess map[string]int64
}

func newStubRepo(orders ...*domain.Order) *stubOrderRepo {
	r := &stubOrderRepo{orders: map[int64]*domain.Order{}, bySess: map[string]int64{}}
	for _, o := range orders {
		r.orders[o.ID] = o
		if o.SessionID != nil {
			r.bySess[*o.SessionID] = o.ID
		}
	}
	return r
}

func (r *stubOrderRepo) GetByID(_ context.Context, id int64) (*domain.Order, error) {
	o, ok := r.orders[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copy := *o
	return &copy, nil
}

func (r *stubOrderRepo) GetBySessionID(_ context.Context, sessionID string) (*domain.Order, error) {
	id, ok := r.bySess[sessionID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return r.GetByID(context.Background(), id)
}

func (r *stubOrderRepo) SetPaymentStatus(_ context.Context, id int64, from, to domain.PaymentStatus) error {
	o, ok := r.orders[id]
	if !ok {
		return domain.ErrNotFound
	}
	if o.PaymentStatus != from {
		return domain.ErrInvalidTransition
	}
	o.PaymentStatus = to
	return nil
}

func (r *stubOrderRepo) SetOrderStatus(_ context.Context, id int64, from, to domain.OrderStatus) error {
	o, ok := r.orders[id]
	if !ok {
		return domain.ErrNotFound
	}
	if o.OrderStatus != from {
		return domain.ErrInvalidTransition
	}
	o.OrderStatus = to
	return nil
}

func (r *stubOrderRepo) ListRecent(_ context.Context, _ int) ([]domain.Order, error) {
	var result []domain.Order
	for _, o := range r.orders {
		result = append(result, *o)
	}
	return result, nil
}

type stubEventRepo struct {
	appended []domain.TrackingEvent
}

func (s *stubEventRepo) Append(_ context.Context, e domain.TrackingEvent) error {
	s.appended = append(s.appended, e)
	return nil
}

func strPtr(v string) *string { return &v }

func pendingOrder(id int64, session string) *domain.Order {
	return &domain.Order{
		ID:            id,
		SessionID:     strPtr(session),
		PaymentStatus: domain.PaymentPending,
		OrderStatus:   domain.OrderPending,
	}
}

func TestConfirmPayment(t *testing.T) {
	repo := newStubRepo(pendingOrder(100, "cs_1"))
	events := &stubEventRepo{}
	svc := New(repo, events, nil)

	o, err := svc.ConfirmPayment(context.Background(), "cs_1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if o.PaymentStatus != domain.PaymentPaid || o.OrderStatus != domain.OrderProcessing {
		t.Fatalf("unexpected statuses: %s/%s", o.PaymentStatus, o.OrderStatus)
	}
	if len(events.appended) != 1 || events.appended[0].Status != domain.EventProcessing {
		t.Fatalf("expected a processing event, got %+v", events.appended)
	}
}

func TestConfirmPaymentReplayIsNoop(t *testing.T) {
	o := pendingOrder(100, "cs_1")
	o.PaymentStatus = domain.PaymentPaid
	o.OrderStatus = domain.OrderProcessing
	repo := newStubRepo(o)
	events := &stubEventRepo{}
	svc := New(repo, events, nil)

	got, err := svc.ConfirmPayment(context.Background(), "cs_1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.PaymentStatus != domain.PaymentPaid {
		t.Fatalf("unexpected status: %s", got.PaymentStatus)
	}
	if len(events.appended) != 0 {
		t.Fatal("replay must not append events")
	}
}

func TestConfirmPaymentUnknownSession(t *testing.T) {
	svc := New(newStubRepo(), &stubEventRepo{}, nil)
	if _, err := svc.ConfirmPayment(context.Background(), "cs_missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestFailPayment(t *testing.T) {
	repo := newStubRepo(pendingOrder(100, "cs_1"))
	svc := New(repo, &stubEventRepo{}, nil)

	o, err := svc.FailPayment(context.Background(), "cs_1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if o.PaymentStatus != domain.PaymentFailed {
		t.Fatalf("unexpected status: %s", o.PaymentStatus)
	}
	if o.OrderStatus != domain.OrderPending {
		t.Fatalf("order status should be untouched, got %s", o.OrderStatus)
	}
}

func TestFailPaymentAfterPaidRejected(t *testing.T) {
	o := pendingOrder(100, "cs_1")
	o.PaymentStatus = domain.PaymentPaid
	svc := New(newStubRepo(o), &stubEventRepo{}, nil)

	if _, err := svc.FailPayment(context.Background(), "cs_1"); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("paid -> failed must be rejected, got %v", err)
	}
}

func TestCancelFromTerminalRejected(t *testing.T) {
	for _, status := range []domain.OrderStatus{domain.OrderDelivered, domain.OrderCancelled, domain.OrderShipped} {
		o := pendingOrder(100, "cs_1")
		o.OrderStatus = status
		repo := newStubRepo(o)
		svc := New(repo, &stubEventRepo{}, nil)

		if _, err := svc.Cancel(context.Background(), 100); !errors.Is(err, domain.ErrInvalidTransition) {
			t.Errorf("cancel from %s must be rejected, got %v", status, err)
		}
		if repo.orders[100].OrderStatus != status {
			t.Errorf("cancel from %s mutated the order to %s", status, repo.orders[100].OrderStatus)
		}
	}
}

func TestCancelFromPendingAndProcessing(t *testing.T) {
	for _, status := range []domain.OrderStatus{domain.OrderPending, domain.OrderProcessing} {
		o := pendingOrder(100, "cs_1")
		o.OrderStatus = status
		svc := New(newStubRepo(o), &stubEventRepo{}, nil)

		got, err := svc.Cancel(context.Background(), 100)
		if err != nil {
			t.Errorf("cancel from %s: %v", status, err)
			continue
		}
		if got.OrderStatus != domain.OrderCancelled {
			t.Errorf("cancel from %s: got %s", status, got.OrderStatus)
		}
	}
}

func TestSetOrderStatusRefusesShipped(t *testing.T) {
	svc := New(newStubRepo(pendingOrder(100, "cs_1")), &stubEventRepo{}, nil)
	if _, err := svc.SetOrderStatus(context.Background(), 100, domain.OrderShipped); err == nil {
		t.Fatal("shipping without carrier and tracking number must be refused")
	}
}

func TestSetOrderStatusDelivered(t *testing.T) {
	o := pendingOrder(100, "cs_1")
	o.OrderStatus = domain.OrderShipped
	events := &stubEventRepo{}
	svc := New(newStubRepo(o), events, nil)

	got, err := svc.SetOrderStatus(context.Background(), 100, domain.OrderDelivered)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.OrderStatus != domain.OrderDelivered {
		t.Fatalf("unexpected status: %s", got.OrderStatus)
	}
	if len(events.appended) != 1 || events.appended[0].Status != domain.EventDelivered {
		t.Fatalf("expected a delivered event, got %+v", events.appended)
	}
}

func TestRefundPaidOrder(t *testing.T) {
	o := pendingOrder(100, "cs_1")
	o.PaymentStatus = domain.PaymentPaid
	svc := New(newStubRepo(o), &stubEventRepo{}, nil)

	got, err := svc.SetPaymentStatus(context.Background(), 100, domain.PaymentRefunded)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.PaymentStatus != domain.PaymentRefunded {
		t.Fatalf("unexpected status: %s", got.PaymentStatus)
	}
}
