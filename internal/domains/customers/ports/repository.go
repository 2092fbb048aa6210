package ports

import (
	"context"
	"errors"

	"github.com/Apurer/clean-orders/internal/domains/customers/domain"
	"github.com/Apurer/clean-orders/internal/shared/projection"
)

var ErrNotFound = errors.New("customer not found")

// ErrDuplicateEmail is returned by repositories when the email index rejects a write.
var ErrDuplicateEmail = errors.New("customer email already registered")

// Repository persists customers and reports persistence metadata alongside them.
type Repository interface {
	Save(ctx context.Context, customer *domain.Customer) (*projection.Projection[*domain.Customer], error)
	GetByID(ctx context.Context, id domain.CustomerID) (*projection.Projection[*domain.Customer], error)
	GetByEmail(ctx context.Context, email domain.CustomerEmail) (*projection.Projection[*domain.Customer], error)
	List(ctx context.Context) ([]*projection.Projection[*domain.Customer], error)
}
