package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidOrder              = errors.New("order must contain at least one item")
	ErrInvalidOrderItem          = errors.New("order item is invalid")
	ErrInvalidOrderStatus        = errors.New("order status is invalid")
	ErrInvalidOrderID            = errors.New("order id must not be empty")
	ErrCannotCancelShippedOrder  = errors.New("shipped orders cannot be cancelled")
	ErrInvalidDiscountPercentage = errors.New("discount percentage must be between 0 and 100")
)

// CannotCancelShippedOrderError reports an attempt to cancel an order that already left the warehouse.
type CannotCancelShippedOrderError struct {
	OrderID OrderID
}

func (e *CannotCancelShippedOrderError) Error() string {
	return fmt.Sprintf("cannot cancel order %s: already shipped", e.OrderID)
}

// Is lets errors.Is match the sentinel without losing the order id.
func (e *CannotCancelShippedOrderError) Is(target error) bool {
	return target == ErrCannotCancelShippedOrder
}
