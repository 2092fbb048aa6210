package mapper

import (
	"time"

	"github.com/Apurer/clean-orders/internal/domains/customers/domain"
	"github.com/Apurer/clean-orders/internal/domains/customers/ports"
	"github.com/Apurer/clean-orders/internal/shared/projection"
)

// RegisterCustomerRequest is the POST /customers payload.
type RegisterCustomerRequest struct {
	ID    string `json:"id,omitempty"`
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required"`
}

// UpdateCustomerRequest carries optional profile changes; absent fields are untouched.
type UpdateCustomerRequest struct {
	Name  *string `json:"name,omitempty"`
	Email *string `json:"email,omitempty"`
}

// Customer is the HTTP representation of a registered customer.
type Customer struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
	UpdatedAt time.Time `json:"updatedAt,omitempty"`
}

func ToRegisterInput(req RegisterCustomerRequest) ports.RegisterCustomerInput {
	return ports.RegisterCustomerInput{ID: req.ID, Name: req.Name, Email: req.Email}
}

func FromProjection(p *projection.Projection[*domain.Customer]) Customer {
	if p == nil || p.Entity == nil {
		return Customer{}
	}
	return Customer{
		ID:        p.Entity.ID().String(),
		Name:      p.Entity.Name().String(),
		Email:     p.Entity.Email().String(),
		CreatedAt: p.Metadata.CreatedAt,
		UpdatedAt: p.Metadata.UpdatedAt,
	}
}

func FromProjectionList(list []*projection.Projection[*domain.Customer]) []Customer {
	out := make([]Customer, 0, len(list))
	for _, p := range list {
		out = append(out, FromProjection(p))
	}
	return out
}
