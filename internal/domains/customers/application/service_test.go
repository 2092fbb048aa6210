package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	customersmemory "github.com/Apurer/clean-orders/internal/domains/customers/adapters/memory"
	"github.com/Apurer/clean-orders/internal/domains/customers/domain"
	"github.com/Apurer/clean-orders/internal/domains/customers/ports"
)

func newTestService() *Service {
	return NewService(customersmemory.NewRepository(), WithIDGenerator(func() string { return "generated-id" }))
}

func TestRegisterCustomer(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	saved, err := svc.RegisterCustomer(ctx, ports.RegisterCustomerInput{Name: " Ada ", Email: "ADA@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "generated-id", saved.Entity.ID().String())
	assert.Equal(t, "Ada", saved.Entity.Name().String())
	assert.Equal(t, "ada@example.com", saved.Entity.Email().String())
	assert.False(t, saved.Metadata.CreatedAt.IsZero())

	_, err = svc.RegisterCustomer(ctx, ports.RegisterCustomerInput{ID: "cust-2", Name: "Imposter", Email: "ada@EXAMPLE.com"})
	require.ErrorIs(t, err, ErrEmailTaken)

	_, err = svc.RegisterCustomer(ctx, ports.RegisterCustomerInput{ID: "generated-id", Name: "Ada", Email: "other@example.com"})
	require.ErrorIs(t, err, ErrAlreadyRegistered)
}

func TestRegisterCustomer_InvalidInput(t *testing.T) {
	svc := newTestService()

	_, err := svc.RegisterCustomer(context.Background(), ports.RegisterCustomerInput{ID: "c", Name: "", Email: "ada@example.com"})
	require.ErrorIs(t, err, ErrInvalidInput)
	require.ErrorIs(t, err, domain.ErrInvalidCustomerName)

	_, err = svc.RegisterCustomer(context.Background(), ports.RegisterCustomerInput{ID: "c", Name: "Ada", Email: "nope"})
	require.ErrorIs(t, err, ErrInvalidInput)
	require.ErrorIs(t, err, domain.ErrInvalidCustomerEmail)
}

func TestRenameAndChangeEmail(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	_, err := svc.RegisterCustomer(ctx, ports.RegisterCustomerInput{ID: "cust-1", Name: "Ada", Email: "ada@example.com"})
	require.NoError(t, err)
	_, err = svc.RegisterCustomer(ctx, ports.RegisterCustomerInput{ID: "cust-2", Name: "Grace", Email: "grace@example.com"})
	require.NoError(t, err)

	renamed, err := svc.RenameCustomer(ctx, "cust-1", "Ada King")
	require.NoError(t, err)
	assert.Equal(t, "Ada King", renamed.Entity.Name().String())

	_, err = svc.RenameCustomer(ctx, "cust-1", "   ")
	require.ErrorIs(t, err, ErrInvalidInput)

	moved, err := svc.ChangeEmail(ctx, "cust-1", "Ada@King.org")
	require.NoError(t, err)
	assert.Equal(t, "ada@king.org", moved.Entity.Email().String())

	same, err := svc.ChangeEmail(ctx, "cust-1", "ada@king.org")
	require.NoError(t, err)
	assert.Equal(t, "ada@king.org", same.Entity.Email().String())

	_, err = svc.ChangeEmail(ctx, "cust-1", "grace@example.com")
	require.ErrorIs(t, err, ErrEmailTaken)

	_, err = svc.RenameCustomer(ctx, "missing", "Nobody")
	require.ErrorIs(t, err, ports.ErrNotFound)
}

func TestUpdateCustomer_RejectedFieldLeavesCustomerUnchanged(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	_, err := svc.RegisterCustomer(ctx, ports.RegisterCustomerInput{ID: "cust-1", Name: "Ada", Email: "ada@example.com"})
	require.NoError(t, err)
	_, err = svc.RegisterCustomer(ctx, ports.RegisterCustomerInput{ID: "cust-2", Name: "Grace", Email: "grace@example.com"})
	require.NoError(t, err)

	renamed, taken := "Renamed", "grace@example.com"
	_, err = svc.UpdateCustomer(ctx, "cust-1", ports.UpdateCustomerInput{Name: &renamed, Email: &taken})
	require.ErrorIs(t, err, ErrEmailTaken)

	other, bad := "Other", "bad"
	_, err = svc.UpdateCustomer(ctx, "cust-1", ports.UpdateCustomerInput{Name: &other, Email: &bad})
	require.ErrorIs(t, err, ErrInvalidInput)

	stored, err := svc.GetCustomer(ctx, "cust-1")
	require.NoError(t, err)
	assert.Equal(t, "Ada", stored.Entity.Name().String())
	assert.Equal(t, "ada@example.com", stored.Entity.Email().String())

	both, fresh := "Ada King", "ada@king.org"
	updated, err := svc.UpdateCustomer(ctx, "cust-1", ports.UpdateCustomerInput{Name: &both, Email: &fresh})
	require.NoError(t, err)
	assert.Equal(t, "Ada King", updated.Entity.Name().String())
	assert.Equal(t, "ada@king.org", updated.Entity.Email().String())
}

func TestCustomerExists(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	_, err := svc.RegisterCustomer(ctx, ports.RegisterCustomerInput{ID: "cust-1", Name: "Ada", Email: "ada@example.com"})
	require.NoError(t, err)

	exists, err := svc.CustomerExists(ctx, "cust-1")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = svc.CustomerExists(ctx, "cust-404")
	require.NoError(t, err)
	assert.False(t, exists)

	exists, err = svc.CustomerExists(ctx, "")
	require.NoError(t, err)
	assert.False(t, exists)

	list, err := svc.ListCustomers(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
