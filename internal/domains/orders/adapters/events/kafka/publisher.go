// Package kafka publishes order events to, and consumes fulfillment events from, Kafka topics.
package kafka

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Apurer/clean-orders/internal/domains/orders/domain"
	"github.com/Apurer/clean-orders/internal/domains/orders/ports"
	platformkafka "github.com/Apurer/clean-orders/internal/platform/kafka"
)

var _ ports.EventPublisher = (*Publisher)(nil)

// Envelope is the wire shape of every order event.
type Envelope struct {
	EventID    string         `json:"event_id"`
	Type       string         `json:"type"`
	OrderID    string         `json:"order_id"`
	OccurredAt time.Time      `json:"occurred_at"`
	Payload    map[string]any `json:"payload"`
}

// Publisher writes order events keyed by order id.
type Publisher struct {
	writer platformkafka.MessageWriter
	newID  func() string
}

func NewPublisher(writer platformkafka.MessageWriter) *Publisher {
	return &Publisher{writer: writer, newID: uuid.NewString}
}

func (p *Publisher) Publish(ctx context.Context, event domain.Event) error {
	envelope, err := p.envelope(event)
	if err != nil {
		return err
	}
	return platformkafka.PublishJSON(ctx, p.writer, envelope.OrderID, envelope)
}

func (p *Publisher) envelope(event domain.Event) (Envelope, error) {
	env := Envelope{
		EventID:    p.newID(),
		Type:       event.EventName(),
		OccurredAt: event.OccurredAt().UTC(),
	}
	switch e := event.(type) {
	case domain.OrderPlaced:
		env.OrderID = e.OrderID.String()
		env.Payload = map[string]any{
			"customer_id": e.CustomerID,
			"item_count":  e.ItemCount,
			"subtotal":    e.Subtotal.String(),
			"total":       e.Total.String(),
		}
	case domain.OrderCancelled:
		env.OrderID = e.OrderID.String()
		env.Payload = map[string]any{"customer_id": e.CustomerID}
	case domain.OrderShipped:
		env.OrderID = e.OrderID.String()
		env.Payload = map[string]any{"shipped_at": e.ShippedAt.UTC()}
	default:
		return Envelope{}, fmt.Errorf("unsupported order event %T", event)
	}
	return env, nil
}
