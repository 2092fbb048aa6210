package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Event is the base interface for all order events.
type Event interface {
	EventName() string
	OccurredAt() time.Time
}

// BaseEvent provides common event metadata.
type BaseEvent struct {
	Timestamp time.Time
}

// OccurredAt returns when the event occurred.
func (e BaseEvent) OccurredAt() time.Time {
	return e.Timestamp
}

// OrderPlaced is raised once a new order has been persisted.
type OrderPlaced struct {
	BaseEvent
	OrderID    OrderID
	CustomerID string
	ItemCount  int
	Subtotal   decimal.Decimal
	Total      decimal.Decimal
}

func (e OrderPlaced) EventName() string {
	return "orders.order.placed"
}

// OrderCancelled is raised on a pending -> cancelled transition. Idempotent
// re-cancellations do not raise it.
type OrderCancelled struct {
	BaseEvent
	OrderID    OrderID
	CustomerID string
}

func (e OrderCancelled) EventName() string {
	return "orders.order.cancelled"
}

// OrderShipped is raised when fulfillment reports a shipment for a pending order.
type OrderShipped struct {
	BaseEvent
	OrderID   OrderID
	ShippedAt time.Time
}

func (e OrderShipped) EventName() string {
	return "orders.order.shipped"
}
