package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// OrderItem is a line of an order. It has no identity of its own.
type OrderItem struct {
	productID    string
	productName  string
	quantity     int
	pricePerUnit decimal.Decimal
}

// NewOrderItem validates and builds a line item.
func NewOrderItem(productID, productName string, quantity int, pricePerUnit decimal.Decimal) (OrderItem, error) {
	if strings.TrimSpace(productID) == "" {
		return OrderItem{}, fmt.Errorf("%w: product id is required", ErrInvalidOrderItem)
	}
	if strings.TrimSpace(productName) == "" {
		return OrderItem{}, fmt.Errorf("%w: product name is required", ErrInvalidOrderItem)
	}
	if quantity <= 0 {
		return OrderItem{}, fmt.Errorf("%w: quantity must be greater than zero", ErrInvalidOrderItem)
	}
	if pricePerUnit.IsNegative() {
		return OrderItem{}, fmt.Errorf("%w: price per unit must not be negative", ErrInvalidOrderItem)
	}
	return ReconstituteOrderItem(productID, productName, quantity, pricePerUnit), nil
}

// ReconstituteOrderItem rebuilds a previously validated item.
func ReconstituteOrderItem(productID, productName string, quantity int, pricePerUnit decimal.Decimal) OrderItem {
	return OrderItem{
		productID:    productID,
		productName:  productName,
		quantity:     quantity,
		pricePerUnit: pricePerUnit,
	}
}

func (i OrderItem) ProductID() string             { return i.productID }
func (i OrderItem) ProductName() string           { return i.productName }
func (i OrderItem) Quantity() int                 { return i.quantity }
func (i OrderItem) PricePerUnit() decimal.Decimal { return i.pricePerUnit }

// Total is quantity * pricePerUnit.
func (i OrderItem) Total() decimal.Decimal {
	return i.pricePerUnit.Mul(decimal.NewFromInt(int64(i.quantity)))
}

// Equals compares items by value.
func (i OrderItem) Equals(other OrderItem) bool {
	return i.productID == other.productID &&
		i.productName == other.productName &&
		i.quantity == other.quantity &&
		i.pricePerUnit.Equal(other.pricePerUnit)
}
