package mapper

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/clean-orders/internal/domains/orders/domain"
	"github.com/Apurer/clean-orders/internal/domains/orders/ports"
)

func TestMoney_RoundsHalfEven(t *testing.T) {
	cases := map[string]string{
		"21":      "21.00",
		"140.225": "140.22",
		"140.235": "140.24",
		"0.005":   "0.00",
	}
	for in, want := range cases {
		raw, err := json.Marshal(Money(decimal.RequireFromString(in)))
		require.NoError(t, err)
		assert.Equal(t, want, string(raw), in)
	}
}

func TestFromView(t *testing.T) {
	id, err := domain.NewOrderID("order-123")
	require.NoError(t, err)
	item, err := domain.NewOrderItem("prod-1", "Widget", 2, decimal.RequireFromString("10.5"))
	require.NoError(t, err)
	createdAt := time.Date(2024, 6, 12, 10, 0, 0, 0, time.UTC)
	order, err := domain.NewOrder(id, "", []domain.OrderItem{item}, createdAt)
	require.NoError(t, err)

	out := FromView(&ports.OrderView{Order: order, Subtotal: order.Subtotal(), Total: order.Subtotal()})
	raw, err := json.Marshal(out)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"id": "order-123",
		"items": [{"productId": "prod-1", "productName": "Widget", "quantity": 2, "pricePerUnit": 10.50, "total": 21.00}],
		"status": "pending",
		"subtotal": 21.00,
		"totalAmount": 21.00,
		"createdAt": "2024-06-12T10:00:00Z"
	}`, string(raw))
}

func TestToPlaceOrderInput(t *testing.T) {
	var req PlaceOrderRequest
	require.NoError(t, json.Unmarshal([]byte(`{"customerId":"cust-1","items":[{"productId":"p","productName":"P","quantity":3,"pricePerUnit":1.25}]}`), &req))

	input := ToPlaceOrderInput(req, "key-1")
	assert.Equal(t, "cust-1", input.CustomerID)
	assert.Equal(t, "key-1", input.IdempotencyKey)
	require.Len(t, input.Items, 1)
	assert.True(t, input.Items[0].PricePerUnit.Equal(decimal.RequireFromString("1.25")))
}
