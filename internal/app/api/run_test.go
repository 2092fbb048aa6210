package api

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	customersports "github.com/Apurer/clean-orders/internal/domains/customers/ports"
	ordersapp "github.com/Apurer/clean-orders/internal/domains/orders/application"
	ordersports "github.com/Apurer/clean-orders/internal/domains/orders/ports"
	platformobservability "github.com/Apurer/clean-orders/internal/platform/observability"
)

func TestBuildServices_InMemoryWiring(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	repos, err := BuildRepositories(nil, logger)
	require.NoError(t, err)

	cfg := Config{Pricing: PricingConfig{Policy: "promotional", DiscountPercent: decimal.NewFromInt(10)}}
	services, err := BuildServices(cfg, repos, ordersports.NoopPublisher, &platformobservability.Instruments{Logger: logger})
	require.NoError(t, err)

	ctx := context.Background()
	_, err = services.Customers.RegisterCustomer(ctx, customersports.RegisterCustomerInput{ID: "cust-1", Name: "Ada", Email: "ada@example.com"})
	require.NoError(t, err)

	view, err := services.Orders.PlaceOrder(ctx, ordersports.PlaceOrderInput{
		CustomerID: "cust-1",
		Items: []ordersports.PlaceOrderItem{
			{ProductID: "sku-1", ProductName: "Widget", Quantity: 2, PricePerUnit: decimal.NewFromInt(50)},
		},
	})
	require.NoError(t, err)
	assert.True(t, view.Total.Equal(decimal.NewFromInt(90)), view.Total.String())

	_, err = services.Orders.PlaceOrder(ctx, ordersports.PlaceOrderInput{
		CustomerID: "ghost",
		Items: []ordersports.PlaceOrderItem{
			{ProductID: "sku-1", ProductName: "Widget", Quantity: 1, PricePerUnit: decimal.NewFromInt(1)},
		},
	})
	assert.ErrorIs(t, err, ordersapp.ErrInvalidInput)
}

func TestConnectTemporalClient_Disabled(t *testing.T) {
	_, err := ConnectTemporalClient(Config{TemporalDisabled: true}, nil)
	assert.Error(t, err)
}
