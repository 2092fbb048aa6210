package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/segmentio/kafka-go"

	"github.com/Apurer/clean-orders/internal/domains/orders/application"
	"github.com/Apurer/clean-orders/internal/domains/orders/ports"
)

// ErrShipmentRejected marks a message that can never be applied: it does not
// decode, names no order, or the order refuses the shipment.
var ErrShipmentRejected = errors.New("shipment event rejected")

// ShipmentEvent is published by fulfillment when an order leaves the warehouse.
type ShipmentEvent struct {
	EventID   string    `json:"event_id"`
	OrderID   string    `json:"order_id"`
	ShippedAt time.Time `json:"shipped_at"`
}

// MessageReader is the subset of *kafka.Reader used by the consumer.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
}

// ShipmentConsumer applies fulfillment shipments to orders. A message is
// committed once applied or rejected. Transient failures are retried with
// exponential backoff; when the backoff gives up, Run returns and the
// uncommitted message is redelivered to the next consumer.
type ShipmentConsumer struct {
	reader     MessageReader
	service    ports.Service
	logger     *slog.Logger
	newBackOff func() backoff.BackOff
}

type ConsumerOption func(*ShipmentConsumer)

// WithBackOff sets the retry policy used for each fetch and each message.
func WithBackOff(newBackOff func() backoff.BackOff) ConsumerOption {
	return func(c *ShipmentConsumer) {
		if newBackOff != nil {
			c.newBackOff = newBackOff
		}
	}
}

func NewShipmentConsumer(reader MessageReader, service ports.Service, logger *slog.Logger, opts ...ConsumerOption) *ShipmentConsumer {
	if logger == nil {
		logger = slog.Default()
	}
	c := &ShipmentConsumer{reader: reader, service: service, logger: logger, newBackOff: defaultBackOff}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

func defaultBackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 500 * time.Millisecond
	b.MaxInterval = 30 * time.Second
	b.MaxElapsedTime = 10 * time.Minute
	return b
}

// Run consumes until ctx is cancelled or a retry budget is exhausted.
func (c *ShipmentConsumer) Run(ctx context.Context) error {
	for {
		msg, err := c.fetch(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("fetch shipment event: %w", err)
		}
		if err := c.apply(ctx, msg); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("apply shipment event at offset %d: %w", msg.Offset, err)
		}
		if err := c.reader.CommitMessages(ctx, msg); err != nil && ctx.Err() == nil {
			c.logger.LogAttrs(ctx, slog.LevelWarn, "kafka commit error", slog.String("error", err.Error()))
		}
	}
}

func (c *ShipmentConsumer) fetch(ctx context.Context) (kafka.Message, error) {
	var msg kafka.Message
	err := backoff.RetryNotify(func() error {
		var err error
		msg, err = c.reader.FetchMessage(ctx)
		if err != nil && ctx.Err() != nil {
			return backoff.Permanent(err)
		}
		return err
	}, backoff.WithContext(c.newBackOff(), ctx), func(err error, wait time.Duration) {
		c.logger.LogAttrs(ctx, slog.LevelWarn, "kafka read error, retrying",
			slog.Duration("wait", wait), slog.String("error", err.Error()))
	})
	return msg, err
}

// apply retries Handle until it succeeds or rejects the message. Rejections count as handled.
func (c *ShipmentConsumer) apply(ctx context.Context, msg kafka.Message) error {
	err := backoff.RetryNotify(func() error {
		err := c.Handle(ctx, msg)
		if errors.Is(err, ErrShipmentRejected) {
			return backoff.Permanent(err)
		}
		return err
	}, backoff.WithContext(c.newBackOff(), ctx), func(err error, wait time.Duration) {
		c.logger.LogAttrs(ctx, slog.LevelError, "shipment not applied, retrying",
			slog.Int64("offset", msg.Offset), slog.Duration("wait", wait), slog.String("error", err.Error()))
	})
	if errors.Is(err, ErrShipmentRejected) {
		c.logger.LogAttrs(ctx, slog.LevelWarn, "shipment event skipped",
			slog.Int64("offset", msg.Offset), slog.String("error", err.Error()))
		return nil
	}
	return err
}

// Handle applies a single message once. Messages that can never succeed are
// reported with ErrShipmentRejected; any other error is worth retrying.
func (c *ShipmentConsumer) Handle(ctx context.Context, msg kafka.Message) error {
	var evt ShipmentEvent
	if err := json.Unmarshal(msg.Value, &evt); err != nil {
		return fmt.Errorf("%w: decode: %w", ErrShipmentRejected, err)
	}
	if evt.OrderID == "" {
		return fmt.Errorf("%w: event %q has no order id", ErrShipmentRejected, evt.EventID)
	}
	_, err := c.service.RecordShipment(ctx, evt.OrderID, evt.ShippedAt)
	switch {
	case err == nil:
		c.logger.LogAttrs(ctx, slog.LevelInfo, "shipment recorded",
			slog.String("order.id", evt.OrderID), slog.String("event_id", evt.EventID))
		return nil
	case errors.Is(err, ports.ErrNotFound),
		errors.Is(err, application.ErrConflict),
		errors.Is(err, application.ErrInvalidInput):
		return fmt.Errorf("%w: order %s: %w", ErrShipmentRejected, evt.OrderID, err)
	default:
		return err
	}
}
