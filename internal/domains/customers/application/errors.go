package application

import (
	"errors"
	"fmt"

	"github.com/Apurer/clean-orders/internal/domains/customers/domain"
	"github.com/Apurer/clean-orders/internal/domains/customers/ports"
)

var (
	// ErrInvalidInput signals the request violated a domain invariant.
	ErrInvalidInput = errors.New("invalid customer input")
	// ErrEmailTaken is returned when another customer already owns the email.
	ErrEmailTaken = errors.New("customer email already taken")
	// ErrAlreadyRegistered is returned when registering an id that is in use.
	ErrAlreadyRegistered = errors.New("customer already registered")
)

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrInvalidCustomerID) ||
		errors.Is(err, domain.ErrInvalidCustomerName) ||
		errors.Is(err, domain.ErrInvalidCustomerEmail) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	if errors.Is(err, ports.ErrDuplicateEmail) {
		return fmt.Errorf("%w: %w", ErrEmailTaken, err)
	}
	return err
}
