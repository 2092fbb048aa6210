package memory

import (
	"cmp"
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/Apurer/clean-orders/internal/domains/orders/domain"
	"github.com/Apurer/clean-orders/internal/domains/orders/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is an in-memory order persistence adapter. Orders are immutable
// values, so the stored pointers are handed out as is.
type Repository struct {
	mu     sync.RWMutex
	orders map[string]*domain.Order
}

func NewRepository() *Repository {
	return &Repository{orders: map[string]*domain.Order{}}
}

func (r *Repository) Save(_ context.Context, order *domain.Order) (*domain.Order, error) {
	if order == nil {
		return nil, errors.New("order is nil")
	}
	if order.ID().IsZero() {
		return nil, domain.ErrInvalidOrderID
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.orders[order.ID().String()] = order
	return order, nil
}

func (r *Repository) GetByID(_ context.Context, id domain.OrderID) (*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	order, ok := r.orders[id.String()]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return order, nil
}

func (r *Repository) List(_ context.Context, filter ports.ListFilter) ([]*domain.Order, error) {
	r.mu.RLock()
	list := make([]*domain.Order, 0, len(r.orders))
	for _, order := range r.orders {
		if matches(order, filter) {
			list = append(list, order)
		}
	}
	r.mu.RUnlock()
	slices.SortFunc(list, func(a, b *domain.Order) int {
		if c := a.CreatedAt().Compare(b.CreatedAt()); c != 0 {
			return c
		}
		return cmp.Compare(a.ID().String(), b.ID().String())
	})
	return list, nil
}

// Delete removes an order; used by test fixtures.
func (r *Repository) Delete(_ context.Context, id domain.OrderID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.orders[id.String()]; !ok {
		return ports.ErrNotFound
	}
	delete(r.orders, id.String())
	return nil
}

func matches(order *domain.Order, filter ports.ListFilter) bool {
	if filter.Status != "" && order.Status() != filter.Status {
		return false
	}
	if filter.CustomerID != "" && order.CustomerID() != filter.CustomerID {
		return false
	}
	if filter.ProductID == "" {
		return true
	}
	return slices.ContainsFunc(order.Items(), func(item domain.OrderItem) bool {
		return item.ProductID() == filter.ProductID
	})
}
