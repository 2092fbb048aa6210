package directory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	customersmemory "github.com/Apurer/clean-orders/internal/domains/customers/adapters/memory"
	customersapp "github.com/Apurer/clean-orders/internal/domains/customers/application"
	customerports "github.com/Apurer/clean-orders/internal/domains/customers/ports"
)

func TestValidator_DelegatesToRegistry(t *testing.T) {
	svc := customersapp.NewService(customersmemory.NewRepository())
	_, err := svc.RegisterCustomer(context.Background(), customerports.RegisterCustomerInput{
		ID: "cust-1", Name: "Ada", Email: "ada@example.com",
	})
	require.NoError(t, err)

	validator := NewValidator(svc)
	ok, err := validator.CustomerExists(context.Background(), "cust-1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = validator.CustomerExists(context.Background(), "cust-2")
	require.NoError(t, err)
	assert.False(t, ok)
}
