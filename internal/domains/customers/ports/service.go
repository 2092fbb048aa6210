package ports

import (
	"context"

	"github.com/Apurer/clean-orders/internal/domains/customers/domain"
	"github.com/Apurer/clean-orders/internal/shared/projection"
)

// RegisterCustomerInput carries raw registration data. An empty ID asks the service to generate one.
type RegisterCustomerInput struct {
	ID    string
	Name  string
	Email string
}

// UpdateCustomerInput is a partial update. Nil fields are left unchanged.
type UpdateCustomerInput struct {
	Name  *string
	Email *string
}

// Service exposes customer use cases to adapters.
type Service interface {
	RegisterCustomer(ctx context.Context, input RegisterCustomerInput) (*projection.Projection[*domain.Customer], error)
	GetCustomer(ctx context.Context, id string) (*projection.Projection[*domain.Customer], error)
	RenameCustomer(ctx context.Context, id, name string) (*projection.Projection[*domain.Customer], error)
	ChangeEmail(ctx context.Context, id, email string) (*projection.Projection[*domain.Customer], error)
	UpdateCustomer(ctx context.Context, id string, input UpdateCustomerInput) (*projection.Projection[*domain.Customer], error)
	ListCustomers(ctx context.Context) ([]*projection.Projection[*domain.Customer], error)
	CustomerExists(ctx context.Context, id string) (bool, error)
}
