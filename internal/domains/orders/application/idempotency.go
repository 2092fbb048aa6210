package application

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"github.com/Apurer/clean-orders/internal/domains/orders/ports"
)

type normalizedPlaceOrderInput struct {
	OrderID    string                     `json:"orderId"`
	CustomerID string                     `json:"customerId"`
	Items      []normalizedPlaceOrderItem `json:"items"`
}

type normalizedPlaceOrderItem struct {
	ProductID    string `json:"productId"`
	ProductName  string `json:"productName"`
	Quantity     int    `json:"quantity"`
	PricePerUnit string `json:"pricePerUnit"`
}

// FingerprintPlaceOrder builds a deterministic hash of the place-order payload (excluding the idempotency key).
// Item order is part of the fingerprint since it is preserved for display.
func FingerprintPlaceOrder(input ports.PlaceOrderInput) (string, error) {
	normalized := normalizedPlaceOrderInput{
		OrderID:    input.OrderID,
		CustomerID: input.CustomerID,
		Items:      make([]normalizedPlaceOrderItem, 0, len(input.Items)),
	}
	for _, item := range input.Items {
		normalized.Items = append(normalized.Items, normalizedPlaceOrderItem{
			ProductID:    item.ProductID,
			ProductName:  item.ProductName,
			Quantity:     item.Quantity,
			PricePerUnit: item.PricePerUnit.String(),
		})
	}
	payload, err := json.Marshal(normalized)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:]), nil
}
