package application

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/Apurer/clean-orders/internal/domains/customers/domain"
	"github.com/Apurer/clean-orders/internal/domains/customers/ports"
	"github.com/Apurer/clean-orders/internal/shared/projection"
)

// Service exposes customer registry use cases.
type Service struct {
	repo  ports.Repository
	newID func() string
}

// Option configures optional collaborators.
type Option func(*Service)

// WithIDGenerator overrides how ids are minted for registrations without one.
func WithIDGenerator(gen func() string) Option {
	return func(s *Service) {
		if gen != nil {
			s.newID = gen
		}
	}
}

func NewService(repo ports.Repository, opts ...Option) *Service {
	s := &Service{repo: repo, newID: uuid.NewString}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// RegisterCustomer validates and stores a new customer. Emails are unique.
func (s *Service) RegisterCustomer(ctx context.Context, input ports.RegisterCustomerInput) (*projection.Projection[*domain.Customer], error) {
	id := strings.TrimSpace(input.ID)
	if id == "" {
		id = s.newID()
	}
	customer, err := domain.NewCustomer(id, input.Name, input.Email)
	if err != nil {
		return nil, mapError(err)
	}
	if _, err := s.repo.GetByID(ctx, customer.ID()); err == nil {
		return nil, ErrAlreadyRegistered
	} else if !errors.Is(err, ports.ErrNotFound) {
		return nil, err
	}
	if err := s.ensureEmailFree(ctx, customer.Email(), customer.ID()); err != nil {
		return nil, err
	}
	saved, err := s.repo.Save(ctx, customer)
	if err != nil {
		return nil, mapError(err)
	}
	return saved, nil
}

func (s *Service) GetCustomer(ctx context.Context, id string) (*projection.Projection[*domain.Customer], error) {
	customerID, err := domain.NewCustomerID(id)
	if err != nil {
		return nil, mapError(err)
	}
	return s.repo.GetByID(ctx, customerID)
}

// RenameCustomer replaces the display name.
func (s *Service) RenameCustomer(ctx context.Context, id, name string) (*projection.Projection[*domain.Customer], error) {
	return s.UpdateCustomer(ctx, id, ports.UpdateCustomerInput{Name: &name})
}

// ChangeEmail moves the customer to a new, unused email.
func (s *Service) ChangeEmail(ctx context.Context, id, email string) (*projection.Projection[*domain.Customer], error) {
	return s.UpdateCustomer(ctx, id, ports.UpdateCustomerInput{Email: &email})
}

// UpdateCustomer applies every requested change to the loaded customer and
// saves once, so a rejected field leaves the stored customer untouched.
func (s *Service) UpdateCustomer(ctx context.Context, id string, input ports.UpdateCustomerInput) (*projection.Projection[*domain.Customer], error) {
	current, err := s.GetCustomer(ctx, id)
	if err != nil {
		return nil, err
	}
	updated := current.Entity
	if input.Name != nil {
		if updated, err = updated.UpdateName(*input.Name); err != nil {
			return nil, mapError(err)
		}
	}
	if input.Email != nil {
		if updated, err = updated.UpdateEmail(*input.Email); err != nil {
			return nil, mapError(err)
		}
		if updated.Email() != current.Entity.Email() {
			if err := s.ensureEmailFree(ctx, updated.Email(), updated.ID()); err != nil {
				return nil, err
			}
		}
	}
	if updated == current.Entity {
		return current, nil
	}
	saved, err := s.repo.Save(ctx, updated)
	if err != nil {
		return nil, mapError(err)
	}
	return saved, nil
}

func (s *Service) ListCustomers(ctx context.Context) ([]*projection.Projection[*domain.Customer], error) {
	return s.repo.List(ctx)
}

// CustomerExists reports whether the id resolves to a registered customer.
func (s *Service) CustomerExists(ctx context.Context, id string) (bool, error) {
	customerID, err := domain.NewCustomerID(id)
	if err != nil {
		return false, nil
	}
	_, err = s.repo.GetByID(ctx, customerID)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, ports.ErrNotFound):
		return false, nil
	default:
		return false, err
	}
}

func (s *Service) ensureEmailFree(ctx context.Context, email domain.CustomerEmail, owner domain.CustomerID) error {
	existing, err := s.repo.GetByEmail(ctx, email)
	if errors.Is(err, ports.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if existing.Entity.ID().Equals(owner) {
		return nil
	}
	return ErrEmailTaken
}

var _ ports.Service = (*Service)(nil)
