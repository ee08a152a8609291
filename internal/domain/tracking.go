package domain

import "time"

// Tracking event status tags shown to customers. The first event for any
// order is always EventOrderPlaced, stamped with the order's creation time.
const (
	EventOrderPlaced = "order_placed"
	EventProcessing  = "processing"
	EventShipped     = "shipped"
	EventDelivered   = "delivered"
)

// TrackingEvent is one entry in an order's public, append-only history.
type TrackingEvent struct {
	ID          int64     `json:"id"`
	OrderID     int64     `json:"orderId"`
	Status      string    `json:"status"`
	Description string    `json:"description"`
	Location    *string   `json:"location,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}
