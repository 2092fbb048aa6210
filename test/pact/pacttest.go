//go:build pact
// +build pact

package pacttest

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

const (
	ProviderName = "clean-orders-api"
	ConsumerName = "storefront"

	StateOrdersBaseline = "orders baseline"
	StateOrderExists    = "order ord-pact-1 exists"
	StateOrderMissing   = "no order with id ord-missing"
	StateOrderShipped   = "order ord-pact-2 has shipped"
)

const (
	ExistingOrderID = "ord-pact-1"
	ShippedOrderID  = "ord-pact-2"
	MissingOrderID  = "ord-missing"
)

const (
	exampleProductID   = "sku-pact-1"
	exampleProductName = "Pact Widget"
)

// PactDir returns the workspace-level directory for generated pact files.
func PactDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "pacts")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact dir: %v", err)
	}
	return dir
}

// PactFile returns the canonical pact file path for the storefront consumer.
func PactFile(t testing.TB) string {
	t.Helper()
	return filepath.Join(PactDir(t), ConsumerName+"-"+ProviderName+".json")
}

// LogDir returns the log output directory for pact-go.
func LogDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "bin", "pact-logs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact log dir: %v", err)
	}
	return dir
}

// ExampleItem is the single order line used across interactions.
type ExampleItem struct {
	ProductID    string
	ProductName  string
	Quantity     int
	PricePerUnit float64
}

// ExampleOrderItem provides stable test data for order interactions.
func ExampleOrderItem() ExampleItem {
	return ExampleItem{
		ProductID:    exampleProductID,
		ProductName:  exampleProductName,
		Quantity:     2,
		PricePerUnit: 12.5,
	}
}

// projectRoot walks up from this file to the workspace root.
func projectRoot(t testing.TB) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("cannot determine caller for pact paths")
	}
	return filepath.Clean(filepath.Join(filepath.Dir(file), "..", ".."))
}
