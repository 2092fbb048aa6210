package mapper

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Apurer/clean-orders/internal/domains/orders/ports"
)

// Money renders amounts as JSON numbers rounded half-to-even to cents.
type Money decimal.Decimal

func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(decimal.Decimal(m).StringFixedBank(2)), nil
}

// OrderItemRequest is one inbound order line.
type OrderItemRequest struct {
	ProductID    string           `json:"productId"`
	ProductName  string           `json:"productName"`
	Quantity     int              `json:"quantity"`
	PricePerUnit *decimal.Decimal `json:"pricePerUnit" binding:"required"`
}

// PlaceOrderRequest is the POST /orders payload. ID is optional.
type PlaceOrderRequest struct {
	ID         string             `json:"id,omitempty"`
	CustomerID string             `json:"customerId,omitempty"`
	Items      []OrderItemRequest `json:"items" binding:"required,dive"`
}

// OrderItem is the HTTP representation of an order line.
type OrderItem struct {
	ProductID    string `json:"productId"`
	ProductName  string `json:"productName"`
	Quantity     int    `json:"quantity"`
	PricePerUnit Money  `json:"pricePerUnit"`
	Total        Money  `json:"total"`
}

// Order is the HTTP representation of a priced order.
type Order struct {
	ID          string      `json:"id"`
	CustomerID  string      `json:"customerId,omitempty"`
	Items       []OrderItem `json:"items"`
	Status      string      `json:"status"`
	Subtotal    Money       `json:"subtotal"`
	TotalAmount Money       `json:"totalAmount"`
	CreatedAt   time.Time   `json:"createdAt"`
}

// ToPlaceOrderInput maps the request onto the application command.
func ToPlaceOrderInput(req PlaceOrderRequest, idempotencyKey string) ports.PlaceOrderInput {
	input := ports.PlaceOrderInput{
		OrderID:        req.ID,
		CustomerID:     req.CustomerID,
		Items:          make([]ports.PlaceOrderItem, 0, len(req.Items)),
		IdempotencyKey: idempotencyKey,
	}
	for _, item := range req.Items {
		var price decimal.Decimal
		if item.PricePerUnit != nil {
			price = *item.PricePerUnit
		}
		input.Items = append(input.Items, ports.PlaceOrderItem{
			ProductID:    item.ProductID,
			ProductName:  item.ProductName,
			Quantity:     item.Quantity,
			PricePerUnit: price,
		})
	}
	return input
}

// FromView converts a priced order to its transport shape.
func FromView(view *ports.OrderView) Order {
	if view == nil || view.Order == nil {
		return Order{}
	}
	order := view.Order
	items := order.Items()
	out := Order{
		ID:          order.ID().String(),
		CustomerID:  order.CustomerID(),
		Items:       make([]OrderItem, 0, len(items)),
		Status:      string(order.Status()),
		Subtotal:    Money(view.Subtotal),
		TotalAmount: Money(view.Total),
		CreatedAt:   order.CreatedAt().UTC(),
	}
	for _, item := range items {
		out.Items = append(out.Items, OrderItem{
			ProductID:    item.ProductID(),
			ProductName:  item.ProductName(),
			Quantity:     item.Quantity(),
			PricePerUnit: Money(item.PricePerUnit()),
			Total:        Money(item.Total()),
		})
	}
	return out
}

func FromViews(views []*ports.OrderView) []Order {
	out := make([]Order, 0, len(views))
	for _, view := range views {
		out = append(out, FromView(view))
	}
	return out
}
