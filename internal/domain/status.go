package domain

import "fmt"

// PaymentStatus tracks the money side of an order.
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentFailed   PaymentStatus = "failed"
	PaymentRefunded PaymentStatus = "refunded"
)

// OrderStatus tracks the fulfillment side of an order.
type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderProcessing OrderStatus = "processing"
	OrderShipped    OrderStatus = "shipped"
	OrderDelivered  OrderStatus = "delivered"
	OrderCancelled  OrderStatus = "cancelled"
)

var paymentEdges = map[PaymentStatus][]PaymentStatus{
	PaymentPending:  {PaymentPaid, PaymentFailed},
	PaymentPaid:     {PaymentRefunded},
	PaymentFailed:   {},
	PaymentRefunded: {},
}

var orderEdges = map[OrderStatus][]OrderStatus{
	OrderPending:    {OrderProcessing, OrderCancelled},
	OrderProcessing: {OrderShipped, OrderCancelled},
	OrderShipped:    {OrderDelivered},
	OrderDelivered:  {},
	OrderCancelled:  {},
}

// Valid reports whether s is one of the known payment statuses.
func (s PaymentStatus) Valid() bool {
	_, ok := paymentEdges[s]
	return ok
}

// Terminal reports whether no further payment transitions are possible.
func (s PaymentStatus) Terminal() bool {
	return s.Valid() && len(paymentEdges[s]) == 0
}

// CanTransition reports whether the edge s -> to is legal.
func (s PaymentStatus) CanTransition(to PaymentStatus) bool {
	for _, next := range paymentEdges[s] {
		if next == to {
			return true
		}
	}
	return false
}

// Transition validates the edge s -> to, returning ErrInvalidTransition with
// the offending edge when it is not permitted.
func (s PaymentStatus) Transition(to PaymentStatus) error {
	if !to.Valid() {
		return fmt.Errorf("%w: unknown payment status %q", ErrInvalidTransition, to)
	}
	if !s.CanTransition(to) {
		return fmt.Errorf("%w: payment %s -> %s", ErrInvalidTransition, s, to)
	}
	return nil
}

// Valid reports whether s is one of the known order statuses.
func (s OrderStatus) Valid() bool {
	_, ok := orderEdges[s]
	return ok
}

// Terminal reports whether no further order transitions are possible.
func (s OrderStatus) Terminal() bool {
	return s.Valid() && len(orderEdges[s]) == 0
}

// CanTransition reports whether the edge s -> to is legal.
func (s OrderStatus) CanTransition(to OrderStatus) bool {
	for _, next := range orderEdges[s] {
		if next == to {
			return true
		}
	}
	return false
}

// Transition validates the edge s -> to.
func (s OrderStatus) Transition(to OrderStatus) error {
	if !to.Valid() {
		return fmt.Errorf("%w: unknown order status %q", ErrInvalidTransition, to)
	}
	if !s.CanTransition(to) {
		return fmt.Errorf("%w: order %s -> %s", ErrInvalidTransition, s, to)
	}
	return nil
}

// Fulfillable reports whether an order in this status may still be shipped.
func (s OrderStatus) Fulfillable() bool {
	return s == OrderPending || s == OrderProcessing
}
