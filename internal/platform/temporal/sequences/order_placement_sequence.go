package sequences

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/Apurer/clean-orders/internal/domains/orders/ports"
	orderactivities "github.com/Apurer/clean-orders/internal/platform/temporal/activities/orders"
)

// RunOrderPlacementSequence verifies the customer and then persists the order.
func RunOrderPlacementSequence(ctx workflow.Context, input ports.PlaceOrderInput) (*orderactivities.PersistOrderResult, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("order placement sequence started", "orderId", input.OrderID)
	verifyOptions := workflow.ActivityOptions{
		StartToCloseTimeout: 15 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    5 * time.Second,
			MaximumAttempts:    3,
		},
	}
	persistOptions := workflow.ActivityOptions{
		StartToCloseTimeout: time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    2 * time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    10 * time.Second,
			MaximumAttempts:    5,
		},
	}

	if input.CustomerID != "" {
		if err := workflow.ExecuteActivity(workflow.WithActivityOptions(ctx, verifyOptions), orderactivities.VerifyCustomerActivityName, input.CustomerID).Get(ctx, nil); err != nil {
			logger.Error("order placement sequence customer check failed", "customerId", input.CustomerID, "error", err)
			return nil, err
		}
	}

	var result orderactivities.PersistOrderResult
	if err := workflow.ExecuteActivity(workflow.WithActivityOptions(ctx, persistOptions), orderactivities.PersistOrderActivityName, input).Get(ctx, &result); err != nil {
		logger.Error("order placement sequence failed", "orderId", input.OrderID, "error", err)
		return nil, err
	}
	logger.Info("order placement sequence persisted", "orderId", result.OrderID)
	return &result, nil
}
