package orders

import (
	"context"
	"errors"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"

	"github.com/Apurer/clean-orders/internal/domains/orders/application"
	"github.com/Apurer/clean-orders/internal/domains/orders/ports"
)

const (
	// VerifyCustomerActivityName checks the referenced customer before anything is persisted.
	VerifyCustomerActivityName = "orders.activities.VerifyCustomer"
	// PersistOrderActivityName runs the PlaceOrder use case.
	PersistOrderActivityName = "orders.activities.PersistOrder"
)

// Application error types carried across the workflow boundary so callers can
// translate them back into the application sentinels.
const (
	ErrTypeInvalidInput = "orders.InvalidInput"
	ErrTypeConflict     = "orders.Conflict"
	ErrTypeNotFound     = "orders.NotFound"
)

// PersistOrderResult is the serializable outcome of PersistOrder.
type PersistOrderResult struct {
	OrderID string
}

// Activities groups activities that operate on the orders bounded context.
type Activities struct {
	service   ports.Service
	customers ports.CustomerValidator
}

// NewActivities wires the orders collaborators. customers may be nil when no registry is configured.
func NewActivities(service ports.Service, customers ports.CustomerValidator) *Activities {
	return &Activities{service: service, customers: customers}
}

// VerifyCustomer fails without retry when the customer is unknown; lookup errors are retried.
func (a *Activities) VerifyCustomer(ctx context.Context, customerID string) error {
	logger := activity.GetLogger(ctx)
	if customerID == "" || a == nil || a.customers == nil {
		return nil
	}
	exists, err := a.customers.CustomerExists(ctx, customerID)
	if err != nil {
		logger.Warn("VerifyCustomer lookup failed", "customerId", customerID, "error", err)
		return err
	}
	if !exists {
		logger.Info("VerifyCustomer rejected unknown customer", "customerId", customerID)
		return temporal.NewNonRetryableApplicationError(application.ErrUnknownCustomer.Error()+": "+customerID, ErrTypeInvalidInput, application.ErrUnknownCustomer)
	}
	return nil
}

// PersistOrder places the order and returns its identifier.
func (a *Activities) PersistOrder(ctx context.Context, input ports.PlaceOrderInput) (*PersistOrderResult, error) {
	logger := activity.GetLogger(ctx)
	if a == nil || a.service == nil {
		logger.Error("order persist activity not initialized", "orderId", input.OrderID)
		return nil, errors.New("order persist activity not initialized")
	}
	logger.Info("PersistOrder activity started", "orderId", input.OrderID)
	view, err := a.service.PlaceOrder(ctx, input)
	if errors.Is(err, application.ErrOrderExists) && activity.GetInfo(ctx).Attempt > 1 {
		// An earlier attempt persisted the order before its result was lost.
		logger.Info("PersistOrder found order from earlier attempt", "orderId", input.OrderID)
		return &PersistOrderResult{OrderID: input.OrderID}, nil
	}
	if err != nil {
		logger.Error("PersistOrder activity failed", "orderId", input.OrderID, "error", err)
		return nil, classify(err)
	}
	logger.Info("PersistOrder activity completed", "orderId", view.Order.ID().String())
	return &PersistOrderResult{OrderID: view.Order.ID().String()}, nil
}

func classify(err error) error {
	switch {
	case errors.Is(err, application.ErrInvalidInput):
		return temporal.NewNonRetryableApplicationError(err.Error(), ErrTypeInvalidInput, err)
	case errors.Is(err, application.ErrConflict):
		return temporal.NewNonRetryableApplicationError(err.Error(), ErrTypeConflict, err)
	case errors.Is(err, ports.ErrNotFound):
		return temporal.NewNonRetryableApplicationError(err.Error(), ErrTypeNotFound, err)
	default:
		return err
	}
}
