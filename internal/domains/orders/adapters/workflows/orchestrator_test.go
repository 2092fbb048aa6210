package workflows

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/temporal"

	ordersmemory "github.com/Apurer/clean-orders/internal/domains/orders/adapters/memory"
	"github.com/Apurer/clean-orders/internal/domains/orders/application"
	"github.com/Apurer/clean-orders/internal/domains/orders/ports"
	orderactivities "github.com/Apurer/clean-orders/internal/platform/temporal/activities/orders"
)

func TestBuildOrderPlacementWorkflowID(t *testing.T) {
	withKey := buildOrderPlacementWorkflowID(ports.PlaceOrderInput{IdempotencyKey: " key-1 "}, "trace")
	assert.Equal(t, withKey, buildOrderPlacementWorkflowID(ports.PlaceOrderInput{IdempotencyKey: "key-1"}, "other"))
	assert.True(t, strings.HasPrefix(withKey, "order-placement-idem-"))
	assert.Len(t, strings.TrimPrefix(withKey, "order-placement-idem-"), 16)

	assert.Equal(t, "order-placement-order-9-trace", buildOrderPlacementWorkflowID(ports.PlaceOrderInput{OrderID: "order-9"}, "trace"))
}

func TestTranslateWorkflowError(t *testing.T) {
	err := translateWorkflowError(temporal.NewApplicationError("items empty", orderactivities.ErrTypeInvalidInput))
	assert.ErrorIs(t, err, application.ErrInvalidInput)

	err = translateWorkflowError(temporal.NewApplicationError("already shipped", orderactivities.ErrTypeConflict))
	assert.ErrorIs(t, err, application.ErrConflict)

	err = translateWorkflowError(temporal.NewApplicationError("gone", orderactivities.ErrTypeNotFound))
	assert.ErrorIs(t, err, ports.ErrNotFound)

	plain := errors.New("timeout")
	assert.Same(t, plain, translateWorkflowError(plain))
}

func TestInlineOrderWorkflows_DelegatesToService(t *testing.T) {
	svc := application.NewService(ordersmemory.NewRepository())
	orchestrator := NewInlineOrderWorkflows(svc)

	view, err := orchestrator.PlaceOrder(context.Background(), ports.PlaceOrderInput{
		OrderID: "order-1",
		Items:   []ports.PlaceOrderItem{{ProductID: "p", ProductName: "P", Quantity: 1, PricePerUnit: decimal.NewFromInt(4)}},
	})
	require.NoError(t, err)
	assert.Equal(t, "order-1", view.Order.ID().String())

	var empty *InlineOrderWorkflows
	_, err = empty.PlaceOrder(context.Background(), ports.PlaceOrderInput{})
	assert.Error(t, err)
}
