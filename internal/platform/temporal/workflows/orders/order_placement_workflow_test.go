package orders

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/testsuite"

	ordersmemory "github.com/Apurer/clean-orders/internal/domains/orders/adapters/memory"
	"github.com/Apurer/clean-orders/internal/domains/orders/application"
	"github.com/Apurer/clean-orders/internal/domains/orders/ports"
	orderactivities "github.com/Apurer/clean-orders/internal/platform/temporal/activities/orders"
)

type staticCustomers map[string]bool

func (s staticCustomers) CustomerExists(_ context.Context, id string) (bool, error) {
	return s[id], nil
}

func newEnv(t *testing.T, svc ports.Service, customers ports.CustomerValidator) *testsuite.TestWorkflowEnvironment {
	t.Helper()
	var suite testsuite.WorkflowTestSuite
	env := suite.NewTestWorkflowEnvironment()
	acts := orderactivities.NewActivities(svc, customers)
	env.RegisterActivityWithOptions(acts.VerifyCustomer, activity.RegisterOptions{Name: orderactivities.VerifyCustomerActivityName})
	env.RegisterActivityWithOptions(acts.PersistOrder, activity.RegisterOptions{Name: orderactivities.PersistOrderActivityName})
	return env
}

func placeInput(customerID string, quantity int) ports.PlaceOrderInput {
	return ports.PlaceOrderInput{
		OrderID:    "order-1",
		CustomerID: customerID,
		Items:      []ports.PlaceOrderItem{{ProductID: "p", ProductName: "P", Quantity: quantity, PricePerUnit: decimal.RequireFromString("2.5")}},
	}
}

func TestOrderPlacementWorkflow_PersistsOrder(t *testing.T) {
	svc := application.NewService(ordersmemory.NewRepository())
	env := newEnv(t, svc, staticCustomers{"cust-1": true})

	env.ExecuteWorkflow(OrderPlacementWorkflow, OrderPlacementWorkflowInput{Command: placeInput("cust-1", 4)})
	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())

	var result orderactivities.PersistOrderResult
	require.NoError(t, env.GetWorkflowResult(&result))
	assert.Equal(t, "order-1", result.OrderID)

	view, err := svc.GetOrder(context.Background(), "order-1")
	require.NoError(t, err)
	assert.True(t, view.Subtotal.Equal(decimal.NewFromInt(10)))
}

func TestOrderPlacementWorkflow_UnknownCustomerIsNotRetried(t *testing.T) {
	svc := application.NewService(ordersmemory.NewRepository())
	env := newEnv(t, svc, staticCustomers{})

	env.ExecuteWorkflow(OrderPlacementWorkflow, OrderPlacementWorkflowInput{Command: placeInput("ghost", 1)})
	require.True(t, env.IsWorkflowCompleted())
	err := env.GetWorkflowError()
	require.Error(t, err)

	var appErr *temporal.ApplicationError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, orderactivities.ErrTypeInvalidInput, appErr.Type())

	_, getErr := svc.GetOrder(context.Background(), "order-1")
	assert.ErrorIs(t, getErr, ports.ErrNotFound)
}

func TestOrderPlacementWorkflow_InvalidItems(t *testing.T) {
	svc := application.NewService(ordersmemory.NewRepository())
	env := newEnv(t, svc, nil)

	env.ExecuteWorkflow(OrderPlacementWorkflow, OrderPlacementWorkflowInput{Command: placeInput("", 0)})
	require.True(t, env.IsWorkflowCompleted())

	var appErr *temporal.ApplicationError
	require.True(t, errors.As(env.GetWorkflowError(), &appErr))
	assert.Equal(t, orderactivities.ErrTypeInvalidInput, appErr.Type())
}
