package ports

import (
	"context"
	"errors"

	"github.com/Apurer/clean-orders/internal/domains/orders/domain"
)

var ErrNotFound = errors.New("order not found")

// ListFilter narrows List results. Zero values match everything.
type ListFilter struct {
	Status     domain.Status
	CustomerID string
	ProductID  string
}

// Repository persists orders. Save is last-write-wins.
type Repository interface {
	Save(ctx context.Context, order *domain.Order) (*domain.Order, error)
	GetByID(ctx context.Context, id domain.OrderID) (*domain.Order, error)
	List(ctx context.Context, filter ListFilter) ([]*domain.Order, error)
}
