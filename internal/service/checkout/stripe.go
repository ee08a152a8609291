package checkout

import (
	"context"
	"strconv"

	"github.com/stripe/stripe-go/v80"
	"github.com/stripe/stripe-go/v80/checkout/session"
)

// StripeSessions opens Stripe Checkout sessions. Subtotal, tax and shipping
// are sent as three separate line items whose cent amounts equal the stored
// order amounts exactly.
type StripeSessions struct {
	successURL string
	cancelURL  string
	currency   string
}

func NewStripeSessions(secretKey, successURL, cancelURL string) *StripeSessions {
	stripe.Key = secretKey
	return &StripeSessions{
		successURL: successURL,
		cancelURL:  cancelURL,
		currency:   "usd",
	}
}

func (s *StripeSessions) Open(_ context.Context, req SessionRequest) (Session, error) {
	params := &stripe.CheckoutSessionParams{
		Mode:              stripe.String(string(stripe.CheckoutSessionModePayment)),
		CustomerEmail:     stripe.String(req.Email),
		ClientReferenceID: stripe.String(strconv.FormatInt(req.OrderID, 10)),
		SuccessURL:        stripe.String(s.successURL),
		CancelURL:         stripe.String(s.cancelURL),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			s.lineItem("Subtotal", req.SubtotalCents),
			s.lineItem("Tax", req.TaxCents),
			s.lineItem("Shipping", req.ShippingCents),
		},
	}
	params.AddMetadata("order_id", strconv.FormatInt(req.OrderID, 10))
	params.AddMetadata("idempotency_key", req.IdempotencyKey)
	params.SetIdempotencyKey(req.IdempotencyKey)

	sess, err := session.New(params)
	if err != nil {
		return Session{}, err
	}
	return Session{ID: sess.ID, URL: sess.URL}, nil
}

func (s *StripeSessions) Expire(_ context.Context, sessionID string) error {
	_, err := session.Expire(sessionID, &stripe.CheckoutSessionExpireParams{})
	return err
}

func (s *StripeSessions) lineItem(name string, amountCents int64) *stripe.CheckoutSessionLineItemParams {
	return &stripe.CheckoutSessionLineItemParams{
		Quantity: stripe.Int64(1),
		PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
			Currency:   stripe.String(s.currency),
			UnitAmount: stripe.Int64(amountCents),
			ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
				Name: stripe.String(name),
			},
		},
	}
}
