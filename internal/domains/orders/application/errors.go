package application

import (
	"errors"
	"fmt"

	"github.com/Apurer/clean-orders/internal/domains/orders/domain"
	"github.com/Apurer/clean-orders/internal/domains/orders/ports"
)

var (
	// ErrInvalidInput signals the request violated a domain invariant.
	ErrInvalidInput = errors.New("invalid order input")
	// ErrConflict signals the request is incompatible with the order's current state.
	ErrConflict = errors.New("order state conflict")
	// ErrUnknownCustomer is returned when the referenced customer does not exist.
	ErrUnknownCustomer = errors.New("customer does not exist")
	// ErrOrderNotShippable is returned when fulfillment reports a shipment for a cancelled order.
	ErrOrderNotShippable = errors.New("order cannot be shipped")
	// ErrOrderExists is returned when a caller-chosen order id is already taken.
	ErrOrderExists = errors.New("order already exists")
)

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrInvalidOrder) ||
		errors.Is(err, domain.ErrInvalidOrderItem) ||
		errors.Is(err, domain.ErrInvalidOrderID) ||
		errors.Is(err, domain.ErrInvalidOrderStatus) ||
		errors.Is(err, ErrUnknownCustomer) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	if errors.Is(err, domain.ErrCannotCancelShippedOrder) ||
		errors.Is(err, ErrOrderNotShippable) ||
		errors.Is(err, ErrOrderExists) ||
		errors.Is(err, ports.ErrIdempotencyConflict) {
		return fmt.Errorf("%w: %w", ErrConflict, err)
	}
	return err
}
