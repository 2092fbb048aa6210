package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// PricingStrategy turns a subtotal into the amount charged.
type PricingStrategy interface {
	CalculateFinalPrice(subtotal decimal.Decimal) decimal.Decimal
}

// StandardPricing charges the subtotal as is.
type StandardPricing struct{}

func (StandardPricing) CalculateFinalPrice(subtotal decimal.Decimal) decimal.Decimal {
	return subtotal
}

// BulkDiscountPricing discounts subtotals at or above a threshold.
type BulkDiscountPricing struct {
	threshold  decimal.Decimal
	percentage decimal.Decimal
}

func NewBulkDiscountPricing(threshold, percentage decimal.Decimal) (BulkDiscountPricing, error) {
	if err := validatePercentage(percentage); err != nil {
		return BulkDiscountPricing{}, err
	}
	return BulkDiscountPricing{threshold: threshold, percentage: percentage}, nil
}

func (p BulkDiscountPricing) CalculateFinalPrice(subtotal decimal.Decimal) decimal.Decimal {
	if subtotal.LessThan(p.threshold) {
		return subtotal
	}
	return applyDiscount(subtotal, p.percentage)
}

// PromotionalPricing discounts every subtotal.
type PromotionalPricing struct {
	percentage decimal.Decimal
}

func NewPromotionalPricing(percentage decimal.Decimal) (PromotionalPricing, error) {
	if err := validatePercentage(percentage); err != nil {
		return PromotionalPricing{}, err
	}
	return PromotionalPricing{percentage: percentage}, nil
}

func (p PromotionalPricing) CalculateFinalPrice(subtotal decimal.Decimal) decimal.Decimal {
	return applyDiscount(subtotal, p.percentage)
}

func validatePercentage(percentage decimal.Decimal) error {
	if percentage.IsNegative() || percentage.GreaterThan(hundred) {
		return fmt.Errorf("%w: got %s", ErrInvalidDiscountPercentage, percentage)
	}
	return nil
}

// applyDiscount computes subtotal * (1 - percentage/100).
func applyDiscount(subtotal, percentage decimal.Decimal) decimal.Decimal {
	factor := decimal.NewFromInt(1).Sub(percentage.Div(hundred))
	return subtotal.Mul(factor)
}

var (
	_ PricingStrategy = StandardPricing{}
	_ PricingStrategy = BulkDiscountPricing{}
	_ PricingStrategy = PromotionalPricing{}
)
