package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCustomer_NormalizesInput(t *testing.T) {
	customer, err := NewCustomer("cust-1", "  Ada Lovelace ", "  Ada.Lovelace@Example.COM ")
	require.NoError(t, err)

	assert.Equal(t, "cust-1", customer.ID().String())
	assert.Equal(t, "Ada Lovelace", customer.Name().String())
	assert.Equal(t, "ada.lovelace@example.com", customer.Email().String())
}

func TestNewCustomer_ErrorKinds(t *testing.T) {
	_, err := NewCustomer(" ", "Ada", "ada@example.com")
	assert.ErrorIs(t, err, ErrInvalidCustomerID)

	_, err = NewCustomer("cust-1", "", "ada@example.com")
	assert.ErrorIs(t, err, ErrInvalidCustomerName)

	_, err = NewCustomer("cust-1", strings.Repeat("a", 201), "ada@example.com")
	assert.ErrorIs(t, err, ErrInvalidCustomerName)

	_, err = NewCustomer("cust-1", "Ada", "")
	assert.ErrorIs(t, err, ErrInvalidCustomerEmail)
}

func TestNewCustomerName_Boundary(t *testing.T) {
	_, err := NewCustomerName(strings.Repeat("é", 200))
	require.NoError(t, err)

	_, err = NewCustomerName(strings.Repeat("é", 201))
	require.ErrorIs(t, err, ErrInvalidCustomerName)
}

func TestNewCustomerEmail_Pattern(t *testing.T) {
	valid := []string{"a@b.co", "first.last+tag@sub.example.org", "X_Y@Example-Host.io"}
	for _, raw := range valid {
		_, err := NewCustomerEmail(raw)
		assert.NoError(t, err, raw)
	}
	invalid := []string{"plain", "@example.com", "a@", "a@b", "a b@example.com", "a@-example.com"}
	for _, raw := range invalid {
		_, err := NewCustomerEmail(raw)
		assert.ErrorIs(t, err, ErrInvalidCustomerEmail, raw)
	}

	long := strings.Repeat("a", 310) + "@example.com"
	_, err := NewCustomerEmail(long)
	assert.ErrorIs(t, err, ErrInvalidCustomerEmail)
}

func TestCustomerUpdates_ReturnNewInstances(t *testing.T) {
	original, err := NewCustomer("cust-1", "Ada", "ada@example.com")
	require.NoError(t, err)

	renamed, err := original.UpdateName("Ada King")
	require.NoError(t, err)
	assert.NotSame(t, original, renamed)
	assert.Equal(t, "Ada", original.Name().String())
	assert.Equal(t, "Ada King", renamed.Name().String())
	assert.Equal(t, original.Email(), renamed.Email())

	moved, err := renamed.UpdateEmail("ADA@King.org")
	require.NoError(t, err)
	assert.Equal(t, "ada@king.org", moved.Email().String())
	assert.Equal(t, "ada@example.com", renamed.Email().String())

	_, err = original.UpdateEmail("not-an-email")
	require.ErrorIs(t, err, ErrInvalidCustomerEmail)
}

func TestReconstituteCustomer_TrustsInput(t *testing.T) {
	customer := ReconstituteCustomer("cust-9", "Grace", "grace@example.com")
	assert.True(t, customer.ID().Equals(CustomerID{value: "cust-9"}))
	assert.Equal(t, "Grace", customer.Name().String())
}
