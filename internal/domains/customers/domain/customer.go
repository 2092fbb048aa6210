package domain

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	maxNameLength  = 200
	maxEmailLength = 320
)

var (
	ErrInvalidCustomerID    = errors.New("customer id is invalid")
	ErrInvalidCustomerName  = errors.New("customer name is invalid")
	ErrInvalidCustomerEmail = errors.New("customer email is invalid")
)

var emailPattern = regexp.MustCompile(
	`^[a-z0-9.!#$%&'*+/=?^_` + "`" + `{|}~-]+@[a-z0-9](?:[a-z0-9-]{0,61}[a-z0-9])?(?:\.[a-z0-9](?:[a-z0-9-]{0,61}[a-z0-9])?)+$`,
)

// CustomerID identifies a registered customer.
type CustomerID struct {
	value string
}

func NewCustomerID(raw string) (CustomerID, error) {
	if strings.TrimSpace(raw) == "" {
		return CustomerID{}, fmt.Errorf("%w: must not be empty", ErrInvalidCustomerID)
	}
	return CustomerID{value: raw}, nil
}

func (id CustomerID) String() string               { return id.value }
func (id CustomerID) Equals(other CustomerID) bool { return id.value == other.value }

// CustomerName is a trimmed display name.
type CustomerName struct {
	value string
}

func NewCustomerName(raw string) (CustomerName, error) {
	name := strings.TrimSpace(raw)
	if name == "" {
		return CustomerName{}, fmt.Errorf("%w: must not be empty", ErrInvalidCustomerName)
	}
	if utf8.RuneCountInString(name) > maxNameLength {
		return CustomerName{}, fmt.Errorf("%w: must be at most %d characters", ErrInvalidCustomerName, maxNameLength)
	}
	return CustomerName{value: name}, nil
}

func (n CustomerName) String() string { return n.value }

// CustomerEmail is stored trimmed and lower-cased.
type CustomerEmail struct {
	value string
}

func NewCustomerEmail(raw string) (CustomerEmail, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	if email == "" {
		return CustomerEmail{}, fmt.Errorf("%w: must not be empty", ErrInvalidCustomerEmail)
	}
	if len(email) > maxEmailLength {
		return CustomerEmail{}, fmt.Errorf("%w: must be at most %d characters", ErrInvalidCustomerEmail, maxEmailLength)
	}
	if !emailPattern.MatchString(email) {
		return CustomerEmail{}, fmt.Errorf("%w: %q is not a valid address", ErrInvalidCustomerEmail, email)
	}
	return CustomerEmail{value: email}, nil
}

func (e CustomerEmail) String() string { return e.value }

// Customer is the aggregate of the customers context. Updates return new values.
type Customer struct {
	id    CustomerID
	name  CustomerName
	email CustomerEmail
}

// NewCustomer validates raw input and builds a customer.
func NewCustomer(id, name, email string) (*Customer, error) {
	customerID, err := NewCustomerID(id)
	if err != nil {
		return nil, err
	}
	customerName, err := NewCustomerName(name)
	if err != nil {
		return nil, err
	}
	customerEmail, err := NewCustomerEmail(email)
	if err != nil {
		return nil, err
	}
	return &Customer{id: customerID, name: customerName, email: customerEmail}, nil
}

// ReconstituteCustomer rebuilds a customer from trusted storage.
func ReconstituteCustomer(id, name, email string) *Customer {
	return &Customer{
		id:    CustomerID{value: id},
		name:  CustomerName{value: name},
		email: CustomerEmail{value: email},
	}
}

func (c *Customer) ID() CustomerID       { return c.id }
func (c *Customer) Name() CustomerName   { return c.name }
func (c *Customer) Email() CustomerEmail { return c.email }

// UpdateName returns a copy carrying the new name.
func (c *Customer) UpdateName(raw string) (*Customer, error) {
	name, err := NewCustomerName(raw)
	if err != nil {
		return nil, err
	}
	updated := *c
	updated.name = name
	return &updated, nil
}

// UpdateEmail returns a copy carrying the new, normalized email.
func (c *Customer) UpdateEmail(raw string) (*Customer, error) {
	email, err := NewCustomerEmail(raw)
	if err != nil {
		return nil, err
	}
	updated := *c
	updated.email = email
	return &updated, nil
}
