package ports

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Apurer/clean-orders/internal/domains/orders/domain"
)

// PlaceOrderItem is one requested order line.
type PlaceOrderItem struct {
	ProductID    string
	ProductName  string
	Quantity     int
	PricePerUnit decimal.Decimal
}

// PlaceOrderInput is the command accepted by PlaceOrder. An empty OrderID asks the service to generate one.
type PlaceOrderInput struct {
	OrderID        string
	CustomerID     string
	Items          []PlaceOrderItem
	IdempotencyKey string
}

// OrderView is an order priced with the service's configured strategy.
type OrderView struct {
	Order    *domain.Order
	Subtotal decimal.Decimal
	Total    decimal.Decimal
	// Replayed is set when the command found its outcome already in place and wrote nothing.
	Replayed bool
}

// Service exposes order use cases to adapters (inbound/driving port).
type Service interface {
	PlaceOrder(ctx context.Context, input PlaceOrderInput) (*OrderView, error)
	CancelOrder(ctx context.Context, id string) (*OrderView, error)
	GetOrder(ctx context.Context, id string) (*OrderView, error)
	ListOrders(ctx context.Context, filter ListFilter) ([]*OrderView, error)
	RecordShipment(ctx context.Context, id string, shippedAt time.Time) (*OrderView, error)
}

// WorkflowOrchestrator runs order placement, durably when a workflow engine is available.
type WorkflowOrchestrator interface {
	PlaceOrder(ctx context.Context, input PlaceOrderInput) (*OrderView, error)
}
