package ports

import (
	"context"

	"github.com/Apurer/clean-orders/internal/domains/orders/domain"
)

// EventPublisher ships order events to interested contexts.
type EventPublisher interface {
	Publish(ctx context.Context, event domain.Event) error
}

// NoopPublisher drops every event.
var NoopPublisher EventPublisher = noopPublisher{}

type noopPublisher struct{}

func (noopPublisher) Publish(_ context.Context, _ domain.Event) error { return nil }
