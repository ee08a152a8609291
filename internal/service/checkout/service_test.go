package checkout

import (
	"context"
	"errors"
	"testing"

	"storefront-orders/internal/domain"
)

type stubOrderRepo struct {
	created      *domain.Order
	createErr    error
	attachErr    error
	lastAttachID int64
	lastSession  string
	statusCalls  []string
}

func (s *stubOrderRepo) Create(_ context.Context, o domain.Order) (*domain.Order, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	o.ID = 100
	s.created = &o
	return &o, nil
}

func (s *stubOrderRepo) AttachSession(_ context.Context, id int64, sessionID string) error {
	s.lastAttachID = id
	s.lastSession = sessionID
	return s.attachErr
}

func (s *stubOrderRepo) SetOrderStatus(_ context.Context, _ int64, from, to domain.OrderStatus) error {
	s.statusCalls = append(s.statusCalls, string(from)+"->"+string(to))
	return nil
}

type stubSessions struct {
	openErr     error
	expireErr   error
	lastRequest SessionRequest
	expired     []string
}

func (s *stubSessions) Open(_ context.Context, req SessionRequest) (Session, error) {
	s.lastRequest = req
	if s.openErr != nil {
		return Session{}, s.openErr
	}
	return Session{ID: "cs_test_123", URL: "https://pay.example/cs_test_123"}, nil
}

func (s *stubSessions) Expire(_ context.Context, id string) error {
	s.expired = append(s.expired, id)
	return s.expireErr
}

func validInput() Input {
	return Input{
		Items: []CartItem{{ID: "p1", Name: "Canvas Tote", Price: 48.00, Quantity: 2}},
		Buyer: Buyer{
			Email:      "jo@example.com",
			Name:       "Jo Doe",
			Phone:      "555-0100",
			Address:    "1 Main St",
			City:       "Springfield",
			Region:     "IL",
			PostalCode: "62701",
			Country:    "US",
		},
	}
}

func TestCheckoutComputesTotals(t *testing.T) {
	repo := &stubOrderRepo{}
	sessions := &stubSessions{}
	svc := New(repo, sessions, 0.08, 1000, nil)

	res, err := svc.Checkout(context.Background(), validInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	o := repo.created
	if o.Subtotal != 9600 || o.Tax != 768 || o.Shipping != 1000 || o.TotalAmount != 11368 {
		t.Fatalf("unexpected amounts: subtotal=%d tax=%d shipping=%d total=%d", o.Subtotal, o.Tax, o.Shipping, o.TotalAmount)
	}
	if o.PaymentStatus != domain.PaymentPending || o.OrderStatus != domain.OrderPending {
		t.Fatalf("unexpected statuses: %s/%s", o.PaymentStatus, o.OrderStatus)
	}
	if len(o.Items) != 1 || o.Items[0].UnitPriceCents != 4800 || o.Items[0].SubtotalCents != 9600 {
		t.Fatalf("unexpected items: %+v", o.Items)
	}
	if res.SessionURL != "https://pay.example/cs_test_123" {
		t.Fatalf("unexpected session url: %s", res.SessionURL)
	}
}

func TestCheckoutSessionAmountsMatchStoredOrder(t *testing.T) {
	repo := &stubOrderRepo{}
	sessions := &stubSessions{}
	svc := New(repo, sessions, 0.08, 1000, nil)

	if _, err := svc.Checkout(context.Background(), validInput()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	req := sessions.lastRequest
	o := repo.created
	if req.SubtotalCents != o.Subtotal || req.TaxCents != o.Tax || req.ShippingCents != o.Shipping {
		t.Fatalf("session amounts %d/%d/%d diverge from stored %d/%d/%d",
			req.SubtotalCents, req.TaxCents, req.ShippingCents, o.Subtotal, o.Tax, o.Shipping)
	}
	if req.OrderID != 100 || req.IdempotencyKey == "" {
		t.Fatalf("session request missing order reference: %+v", req)
	}
	if repo.lastAttachID != 100 || repo.lastSession != "cs_test_123" {
		t.Fatalf("session not attached to order: id=%d session=%s", repo.lastAttachID, repo.lastSession)
	}
}

func TestCheckoutValidation(t *testing.T) {
	svc := New(&stubOrderRepo{}, &stubSessions{}, 0.08, 1000, nil)

	cases := []struct {
		name   string
		mutate func(*Input)
		field  string
	}{
		{"empty cart", func(in *Input) { in.Items = nil }, "items"},
		{"zero price", func(in *Input) { in.Items[0].Price = 0 }, "items[0].price"},
		{"zero quantity", func(in *Input) { in.Items[0].Quantity = 0 }, "items[0].quantity"},
		{"missing email", func(in *Input) { in.Buyer.Email = " " }, "buyer.email"},
		{"missing country", func(in *Input) { in.Buyer.Country = "" }, "buyer.country"},
	}
	for _, tc := range cases {
		in := validInput()
		tc.mutate(&in)
		_, err := svc.Checkout(context.Background(), in)
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Errorf("%s: expected validation error, got %v", tc.name, err)
			continue
		}
		if verr.Field != tc.field {
			t.Errorf("%s: expected field %q, got %q", tc.name, tc.field, verr.Field)
		}
	}
}

func TestCheckoutSessionFailureCancelsOrder(t *testing.T) {
	repo := &stubOrderRepo{}
	sessions := &stubSessions{openErr: errors.New("provider down")}
	svc := New(repo, sessions, 0.08, 1000, nil)

	_, err := svc.Checkout(context.Background(), validInput())
	if !errors.Is(err, ErrPaymentSession) {
		t.Fatalf("expected payment session error, got %v", err)
	}
	if len(repo.statusCalls) != 1 || repo.statusCalls[0] != "pending->cancelled" {
		t.Fatalf("expected compensating cancellation, got %v", repo.statusCalls)
	}
}

func TestCheckoutAttachFailureExpiresSession(t *testing.T) {
	repo := &stubOrderRepo{attachErr: errors.New("db gone")}
	sessions := &stubSessions{}
	svc := New(repo, sessions, 0.08, 1000, nil)

	_, err := svc.Checkout(context.Background(), validInput())
	if err == nil {
		t.Fatal("expected error")
	}
	if len(sessions.expired) != 1 || sessions.expired[0] != "cs_test_123" {
		t.Fatalf("expected session to be expired, got %v", sessions.expired)
	}
	if len(repo.statusCalls) != 1 || repo.statusCalls[0] != "pending->cancelled" {
		t.Fatalf("expected compensating cancellation, got %v", repo.statusCalls)
	}
}

func TestCheckoutCreateFailureOpensNoSession(t *testing.T) {
	repo := &stubOrderRepo{createErr: errors.New("insert failed")}
	sessions := &stubSessions{}
	svc := New(repo, sessions, 0.08, 1000, nil)

	if _, err := svc.Checkout(context.Background(), validInput()); err == nil {
		t.Fatal("expected error")
	}
	if sessions.lastRequest.OrderID != 0 {
		t.Fatal("no session should be opened when the order cannot be persisted")
	}
}
