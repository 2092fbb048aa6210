package domain

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Status enumerates order progression.
type Status string

const (
	StatusPending   Status = "pending"
	StatusShipped   Status = "shipped"
	StatusCancelled Status = "cancelled"
)

// ParseStatus accepts only the three known status values.
func ParseStatus(raw string) (Status, error) {
	status := Status(raw)
	switch status {
	case StatusPending, StatusShipped, StatusCancelled:
		return status, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidOrderStatus, raw)
	}
}

// OrderID identifies an order.
type OrderID struct {
	value string
}

// NewOrderID wraps a caller supplied identifier.
func NewOrderID(raw string) (OrderID, error) {
	if strings.TrimSpace(raw) == "" {
		return OrderID{}, ErrInvalidOrderID
	}
	return OrderID{value: raw}, nil
}

// GenerateOrderID returns a fresh random identifier.
func GenerateOrderID() OrderID {
	return OrderID{value: uuid.NewString()}
}

func (id OrderID) String() string            { return id.value }
func (id OrderID) IsZero() bool              { return id.value == "" }
func (id OrderID) Equals(other OrderID) bool { return id.value == other.value }

// Order is the aggregate root of the orders context. Values are immutable:
// every transition returns a new *Order and leaves the receiver untouched.
type Order struct {
	id         OrderID
	customerID string
	items      []OrderItem
	status     Status
	createdAt  time.Time
}

// NewOrder builds a pending order. customerID may be empty.
func NewOrder(id OrderID, customerID string, items []OrderItem, createdAt time.Time) (*Order, error) {
	if len(items) == 0 {
		return nil, ErrInvalidOrder
	}
	return Reconstitute(id, customerID, items, StatusPending, createdAt), nil
}

// Reconstitute rehydrates an order from trusted state without re-checking invariants.
func Reconstitute(id OrderID, customerID string, items []OrderItem, status Status, createdAt time.Time) *Order {
	return &Order{
		id:         id,
		customerID: customerID,
		items:      slices.Clone(items),
		status:     status,
		createdAt:  createdAt,
	}
}

func (o *Order) ID() OrderID          { return o.id }
func (o *Order) CustomerID() string   { return o.customerID }
func (o *Order) Status() Status       { return o.status }
func (o *Order) CreatedAt() time.Time { return o.createdAt }
func (o *Order) ItemCount() int       { return len(o.items) }

// Items returns a copy of the order lines in insertion order.
func (o *Order) Items() []OrderItem {
	return slices.Clone(o.items)
}

// Cancel moves a pending order to cancelled. Cancelling a cancelled order
// returns the receiver itself.
func (o *Order) Cancel() (*Order, error) {
	switch o.status {
	case StatusShipped:
		return nil, &CannotCancelShippedOrderError{OrderID: o.id}
	case StatusCancelled:
		return o, nil
	}
	cancelled := *o
	cancelled.status = StatusCancelled
	return &cancelled, nil
}

// Subtotal sums the line totals.
func (o *Order) Subtotal() decimal.Decimal {
	subtotal := decimal.Zero
	for _, item := range o.items {
		subtotal = subtotal.Add(item.Total())
	}
	return subtotal
}

// CalculateTotal prices the subtotal with the given strategy. A nil strategy charges the subtotal.
func (o *Order) CalculateTotal(strategy PricingStrategy) decimal.Decimal {
	if strategy == nil {
		strategy = StandardPricing{}
	}
	return strategy.CalculateFinalPrice(o.Subtotal())
}
