package domain

import (
	"fmt"
	"time"
)

// roundingToleranceCents absorbs the ±1 cent drift that independent rounding
// of subtotal, tax and shipping can introduce.
const roundingToleranceCents = 1

// Order is one purchase transaction. Monetary fields are integers in minor
// currency units (cents); decimals never reach the store.
type Order struct {
	ID                int64         `json:"id"`
	SessionID         *string       `json:"-"`
	IdempotencyKey    string        `json:"-"`
	Email             string        `json:"email"`
	Name              string        `json:"name"`
	Phone             string        `json:"phone"`
	Address           string        `json:"address"`
	City              string        `json:"city"`
	Region            string        `json:"region"`
	PostalCode        string        `json:"postalCode"`
	Country           string        `json:"country"`
	Subtotal          int64         `json:"subtotalCents"`
	Tax               int64         `json:"taxCents"`
	Shipping          int64         `json:"shippingCents"`
	TotalAmount       int64         `json:"totalCents"`
	PaymentStatus     PaymentStatus `json:"paymentStatus"`
	OrderStatus       OrderStatus   `json:"orderStatus"`
	Carrier           *string       `json:"carrier,omitempty"`
	ShippingMethod    *string       `json:"shippingMethod,omitempty"`
	TrackingNumber    *string       `json:"trackingNumber,omitempty"`
	EstimatedDelivery *time.Time    `json:"estimatedDelivery,omitempty"`
	Items             []OrderItem   `json:"items,omitempty"`
	CreatedAt         time.Time     `json:"createdAt"`
	UpdatedAt         time.Time     `json:"updatedAt"`
}

// OrderItem is one line of an order. Lines are immutable after creation.
type OrderItem struct {
	ID             int64  `json:"id"`
	OrderID        int64  `json:"orderId"`
	ProductID      string `json:"productId"`
	Name           string `json:"name"`
	UnitPriceCents int64  `json:"unitPriceCents"`
	Quantity       int    `json:"quantity"`
	SubtotalCents  int64  `json:"subtotalCents"`
}

// Validate checks the financial invariants before an order is persisted.
func (o Order) Validate() error {
	if o.Subtotal < 0 || o.Tax < 0 || o.Shipping < 0 || o.TotalAmount < 0 {
		return fmt.Errorf("order amounts must be non-negative")
	}
	diff := o.TotalAmount - (o.Subtotal + o.Tax + o.Shipping)
	if diff < -roundingToleranceCents || diff > roundingToleranceCents {
		return fmt.Errorf("total %d does not reconcile with subtotal %d + tax %d + shipping %d", o.TotalAmount, o.Subtotal, o.Tax, o.Shipping)
	}
	var lines int64
	for _, item := range o.Items {
		if item.Quantity <= 0 {
			return fmt.Errorf("item %q: quantity must be positive", item.Name)
		}
		if item.UnitPriceCents < 0 {
			return fmt.Errorf("item %q: unit price must be non-negative", item.Name)
		}
		if item.SubtotalCents != item.UnitPriceCents*int64(item.Quantity) {
			return fmt.Errorf("item %q: line subtotal does not match price*quantity", item.Name)
		}
		lines += item.SubtotalCents
	}
	if len(o.Items) > 0 && lines != o.Subtotal {
		return fmt.Errorf("line subtotals %d do not sum to order subtotal %d", lines, o.Subtotal)
	}
	return nil
}
