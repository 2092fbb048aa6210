// Package directory exposes the customer registry to other bounded contexts.
package directory

import (
	"context"

	customerports "github.com/Apurer/clean-orders/internal/domains/customers/ports"
	orderports "github.com/Apurer/clean-orders/internal/domains/orders/ports"
)

var _ orderports.CustomerValidator = (*Validator)(nil)

// Validator answers the orders context's customer checks from the registry.
type Validator struct {
	customers customerports.Service
}

func NewValidator(customers customerports.Service) *Validator {
	return &Validator{customers: customers}
}

func (v *Validator) CustomerExists(ctx context.Context, customerID string) (bool, error) {
	return v.customers.CustomerExists(ctx, customerID)
}
