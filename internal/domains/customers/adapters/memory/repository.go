package memory

import (
	"context"
	"errors"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/Apurer/clean-orders/internal/domains/customers/domain"
	"github.com/Apurer/clean-orders/internal/domains/customers/ports"
	"github.com/Apurer/clean-orders/internal/shared/projection"
)

var _ ports.Repository = (*Repository)(nil)

type entry struct {
	customer *domain.Customer
	metadata projection.Metadata
}

// Repository keeps customers in process memory with a unique email index.
type Repository struct {
	mu      sync.RWMutex
	byID    map[string]entry
	byEmail map[string]string
	now     func() time.Time
}

func NewRepository() *Repository {
	return &Repository{
		byID:    map[string]entry{},
		byEmail: map[string]string{},
		now:     func() time.Time { return time.Now().UTC() },
	}
}

func (r *Repository) Save(_ context.Context, customer *domain.Customer) (*projection.Projection[*domain.Customer], error) {
	if customer == nil {
		return nil, errors.New("customer is nil")
	}
	id := customer.ID().String()
	email := customer.Email().String()

	r.mu.Lock()
	defer r.mu.Unlock()
	if owner, ok := r.byEmail[email]; ok && owner != id {
		return nil, ports.ErrDuplicateEmail
	}
	now := r.now()
	current, exists := r.byID[id]
	meta := projection.Metadata{CreatedAt: now, UpdatedAt: now}
	if exists {
		meta.CreatedAt = current.metadata.CreatedAt
		delete(r.byEmail, current.customer.Email().String())
	}
	r.byID[id] = entry{customer: customer, metadata: meta}
	r.byEmail[email] = id
	return toProjection(r.byID[id]), nil
}

func (r *Repository) GetByID(_ context.Context, id domain.CustomerID) (*projection.Projection[*domain.Customer], error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.byID[id.String()]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return toProjection(e), nil
}

func (r *Repository) GetByEmail(_ context.Context, email domain.CustomerEmail) (*projection.Projection[*domain.Customer], error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byEmail[email.String()]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return toProjection(r.byID[id]), nil
}

func (r *Repository) List(_ context.Context) ([]*projection.Projection[*domain.Customer], error) {
	r.mu.RLock()
	list := make([]*projection.Projection[*domain.Customer], 0, len(r.byID))
	for _, e := range r.byID {
		list = append(list, toProjection(e))
	}
	r.mu.RUnlock()
	slices.SortFunc(list, func(a, b *projection.Projection[*domain.Customer]) int {
		return strings.Compare(a.Entity.ID().String(), b.Entity.ID().String())
	})
	return list, nil
}

func toProjection(e entry) *projection.Projection[*domain.Customer] {
	return &projection.Projection[*domain.Customer]{Entity: e.customer, Metadata: e.metadata}
}
