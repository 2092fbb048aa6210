package ports

import "context"

// CustomerValidator checks that a customer reference resolves in the customers context.
type CustomerValidator interface {
	CustomerExists(ctx context.Context, customerID string) (bool, error)
}
