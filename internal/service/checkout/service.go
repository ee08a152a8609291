package checkout

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"math"
	"strings"

	"storefront-orders/internal/domain"
	"storefront-orders/internal/money"
	"github.com/google/uuid"
)

// ErrPaymentSession indicates the external payment provider could not open a
// checkout session. The order is compensated (cancelled) before this is
// returned, so no orphaned session or half-built order remains.
var ErrPaymentSession = errors.New("payment session failed")

// ValidationError reports a field-level input problem before anything is
// persisted.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// CartItem is one client-side cart line. Prices arrive in major units
// (dollars); this is the only place they cross into cents.
type CartItem struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

// Buyer carries the contact and shipping fields. Presence only; no format
// validation beyond that.
type Buyer struct {
	Email      string `json:"email"`
	Name       string `json:"name"`
	Phone      string `json:"phone"`
	Address    string `json:"address"`
	City       string `json:"city"`
	Region     string `json:"region"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
}

// Input is a checkout request: a non-empty cart plus buyer data.
type Input struct {
	Items []CartItem `json:"items"`
	Buyer Buyer      `json:"buyer"`
}

// Result is the successful outcome: the created order and the URL the
// customer is redirected to for payment.
type Result struct {
	Order      *domain.Order
	SessionURL string
}

// SessionRequest is what the payment provider needs to open a session. The
// three amounts become separate provider line items and must equal the
// persisted order amounts exactly.
type SessionRequest struct {
	OrderID        int64
	IdempotencyKey string
	Email          string
	SubtotalCents  int64
	TaxCents       int64
	ShippingCents  int64
}

// Session is an opened provider session.
type Session struct {
	ID  string
	URL string
}

type sessionOpener interface {
	Open(ctx context.Context, req SessionRequest) (Session, error)
	Expire(ctx context.Context, sessionID string) error
}

type orderRepo interface {
	Create(ctx context.Context, o domain.Order) (*domain.Order, error)
	AttachSession(ctx context.Context, id int64, sessionID string) error
	SetOrderStatus(ctx context.Context, id int64, from, to domain.OrderStatus) error
}

// Service computes totals, persists the order and opens the payment session.
type Service struct {
	repo        orderRepo
	sessions    sessionOpener
	taxRate     float64
	shippingFee int64
	logger      *log.Logger
}

func New(repo orderRepo, sessions sessionOpener, taxRate float64, shippingFeeCents int64, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{
		repo:        repo,
		sessions:    sessions,
		taxRate:     taxRate,
		shippingFee: shippingFeeCents,
		logger:      logger,
	}
}

// Checkout validates the request, persists the order in pending/pending with
// its line items and initial tracking event, then opens the payment session.
// The order is created first so its id doubles as the idempotency anchor; a
// session failure cancels the order rather than leaving an orphan.
func (s *Service) Checkout(ctx context.Context, in Input) (*Result, error) {
	if err := validate(in); err != nil {
		return nil, err
	}

	order := domain.Order{
		IdempotencyKey: uuid.NewString(),
		Email:          strings.TrimSpace(in.Buyer.Email),
		Name:           strings.TrimSpace(in.Buyer.Name),
		Phone:          strings.TrimSpace(in.Buyer.Phone),
		Address:        strings.TrimSpace(in.Buyer.Address),
		City:           strings.TrimSpace(in.Buyer.City),
		Region:         strings.TrimSpace(in.Buyer.Region),
		PostalCode:     strings.TrimSpace(in.Buyer.PostalCode),
		Country:        strings.TrimSpace(in.Buyer.Country),
		PaymentStatus:  domain.PaymentPending,
		OrderStatus:    domain.OrderPending,
	}

	var subtotal int64
	for _, item := range in.Items {
		unit := money.ToMinorUnits(item.Price)
		line := unit * int64(item.Quantity)
		subtotal += line
		order.Items = append(order.Items, domain.OrderItem{
			ProductID:      item.ID,
			Name:           item.Name,
			UnitPriceCents: unit,
			Quantity:       item.Quantity,
			SubtotalCents:  line,
		})
	}
	order.Subtotal = subtotal
	order.Tax = int64(math.Round(float64(subtotal) * s.taxRate))
	order.Shipping = s.shippingFee
	order.TotalAmount = order.Subtotal + order.Tax + order.Shipping

	created, err := s.repo.Create(ctx, order)
	if err != nil {
		return nil, err
	}

	sess, err := s.sessions.Open(ctx, SessionRequest{
		OrderID:        created.ID,
		IdempotencyKey: created.IdempotencyKey,
		Email:          created.Email,
		SubtotalCents:  created.Subtotal,
		TaxCents:       created.Tax,
		ShippingCents:  created.Shipping,
	})
	if err != nil {
		s.cancelOrder(ctx, created.ID)
		return nil, fmt.Errorf("%w: %v", ErrPaymentSession, err)
	}

	if err := s.repo.AttachSession(ctx, created.ID, sess.ID); err != nil {
		// The session would be orphaned otherwise; expire it best-effort.
		if expErr := s.sessions.Expire(ctx, sess.ID); expErr != nil {
			s.logger.Printf("checkout: expire session %s after attach failure: %v", sess.ID, expErr)
		}
		s.cancelOrder(ctx, created.ID)
		return nil, err
	}

	s.logger.Printf("checkout: order id=%d total_cents=%d session=%s", created.ID, created.TotalAmount, sess.ID)
	created.SessionID = &sess.ID
	return &Result{Order: created, SessionURL: sess.URL}, nil
}

func (s *Service) cancelOrder(ctx context.Context, id int64) {
	if err := s.repo.SetOrderStatus(ctx, id, domain.OrderPending, domain.OrderCancelled); err != nil {
		s.logger.Printf("checkout: compensate order id=%d: %v", id, err)
	}
}

func validate(in Input) error {
	if len(in.Items) == 0 {
		return &ValidationError{Field: "items", Reason: "cart is empty"}
	}
	for i, item := range in.Items {
		if strings.TrimSpace(item.Name) == "" {
			return &ValidationError{Field: fmt.Sprintf("items[%d].name", i), Reason: "required"}
		}
		if item.Price <= 0 {
			return &ValidationError{Field: fmt.Sprintf("items[%d].price", i), Reason: "must be positive"}
		}
		if item.Quantity <= 0 {
			return &ValidationError{Field: fmt.Sprintf("items[%d].quantity", i), Reason: "must be positive"}
		}
	}

	required := []struct{ field, value string }{
		{"buyer.email", in.Buyer.Email},
		{"buyer.name", in.Buyer.Name},
		{"buyer.phone", in.Buyer.Phone},
		{"buyer.address", in.Buyer.Address},
		{"buyer.city", in.Buyer.City},
		{"buyer.region", in.Buyer.Region},
		{"buyer.postalCode", in.Buyer.PostalCode},
		{"buyer.country", in.Buyer.Country},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			return &ValidationError{Field: f.field, Reason: "required"}
		}
	}
	return nil
}
