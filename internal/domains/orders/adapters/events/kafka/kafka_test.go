package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ordersmemory "github.com/Apurer/clean-orders/internal/domains/orders/adapters/memory"
	"github.com/Apurer/clean-orders/internal/domains/orders/application"
	"github.com/Apurer/clean-orders/internal/domains/orders/domain"
	"github.com/Apurer/clean-orders/internal/domains/orders/ports"
)

type captureWriter struct {
	msgs []kafka.Message
}

func (w *captureWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.msgs = append(w.msgs, msgs...)
	return nil
}

type scriptedReader struct {
	msgs      []kafka.Message
	committed []kafka.Message
	cancel    context.CancelFunc
}

func (r *scriptedReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	if len(r.msgs) == 0 {
		r.cancel()
		<-ctx.Done()
		return kafka.Message{}, ctx.Err()
	}
	msg := r.msgs[0]
	r.msgs = r.msgs[1:]
	return msg, nil
}

func (r *scriptedReader) CommitMessages(_ context.Context, msgs ...kafka.Message) error {
	r.committed = append(r.committed, msgs...)
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestPublisher_WritesEnvelopeKeyedByOrder(t *testing.T) {
	w := &captureWriter{}
	pub := NewPublisher(w)
	pub.newID = func() string { return "evt-1" }

	id, err := domain.NewOrderID("order-1")
	require.NoError(t, err)
	at := time.Date(2024, 6, 12, 10, 0, 0, 0, time.UTC)
	err = pub.Publish(context.Background(), domain.OrderPlaced{
		BaseEvent: domain.BaseEvent{Timestamp: at},
		OrderID:   id,
		ItemCount: 2,
		Subtotal:  decimal.RequireFromString("21"),
		Total:     decimal.RequireFromString("18.9"),
	})
	require.NoError(t, err)
	require.Len(t, w.msgs, 1)
	assert.Equal(t, "order-1", string(w.msgs[0].Key))

	var env Envelope
	require.NoError(t, json.Unmarshal(w.msgs[0].Value, &env))
	assert.Equal(t, "evt-1", env.EventID)
	assert.Equal(t, "orders.order.placed", env.Type)
	assert.Equal(t, "18.9", env.Payload["total"])
	assert.True(t, at.Equal(env.OccurredAt))
}

func newServiceWithOrder(t *testing.T, id string) ports.Service {
	t.Helper()
	svc := application.NewService(ordersmemory.NewRepository())
	_, err := svc.PlaceOrder(context.Background(), ports.PlaceOrderInput{
		OrderID: id,
		Items:   []ports.PlaceOrderItem{{ProductID: "p", ProductName: "P", Quantity: 1, PricePerUnit: decimal.NewFromInt(1)}},
	})
	require.NoError(t, err)
	return svc
}

func TestShipmentConsumer_AppliesAndCommits(t *testing.T) {
	svc := newServiceWithOrder(t, "order-1")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	shipped, _ := json.Marshal(ShipmentEvent{EventID: "e1", OrderID: "order-1", ShippedAt: time.Now().UTC()})
	unknown, _ := json.Marshal(ShipmentEvent{EventID: "e2", OrderID: "missing"})
	reader := &scriptedReader{
		msgs: []kafka.Message{
			{Offset: 1, Value: shipped},
			{Offset: 2, Value: []byte("not json")},
			{Offset: 3, Value: unknown},
		},
		cancel: cancel,
	}

	consumer := NewShipmentConsumer(reader, svc, discardLogger())
	require.NoError(t, consumer.Run(ctx))
	assert.Len(t, reader.committed, 3)

	view, err := svc.GetOrder(context.Background(), "order-1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusShipped, view.Order.Status())
}

type flakyService struct {
	ports.Service
	failures int
	calls    int
}

func (f *flakyService) RecordShipment(ctx context.Context, id string, at time.Time) (*ports.OrderView, error) {
	f.calls++
	if f.calls <= f.failures {
		return nil, errors.New("database unavailable")
	}
	return f.Service.RecordShipment(ctx, id, at)
}

func TestShipmentConsumer_RetriesTransientFailures(t *testing.T) {
	svc := &flakyService{Service: newServiceWithOrder(t, "order-1"), failures: 2}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	payload, _ := json.Marshal(ShipmentEvent{EventID: "e1", OrderID: "order-1"})
	reader := &scriptedReader{msgs: []kafka.Message{{Offset: 7, Value: payload}}, cancel: cancel}

	consumer := NewShipmentConsumer(reader, svc, discardLogger(), WithBackOff(func() backoff.BackOff {
		return backoff.NewConstantBackOff(time.Millisecond)
	}))
	require.NoError(t, consumer.Run(ctx))
	assert.Equal(t, 3, svc.calls)
	require.Len(t, reader.committed, 1)
	assert.Equal(t, int64(7), reader.committed[0].Offset)
}

func TestShipmentConsumer_GivesUpWithoutCommitting(t *testing.T) {
	svc := &flakyService{Service: newServiceWithOrder(t, "order-1"), failures: 100}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	payload, _ := json.Marshal(ShipmentEvent{EventID: "e1", OrderID: "order-1"})
	reader := &scriptedReader{msgs: []kafka.Message{{Offset: 9, Value: payload}}, cancel: cancel}

	consumer := NewShipmentConsumer(reader, svc, discardLogger(), WithBackOff(func() backoff.BackOff {
		return backoff.WithMaxRetries(backoff.NewConstantBackOff(time.Millisecond), 2)
	}))
	err := consumer.Run(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "offset 9")
	assert.Equal(t, 3, svc.calls)
	assert.Empty(t, reader.committed)
}

func TestShipmentConsumer_HandleReportsRejections(t *testing.T) {
	consumer := NewShipmentConsumer(nil, newServiceWithOrder(t, "order-1"), discardLogger())

	err := consumer.Handle(context.Background(), kafka.Message{Value: []byte("{")})
	assert.ErrorIs(t, err, ErrShipmentRejected)

	missing, _ := json.Marshal(ShipmentEvent{EventID: "e2", OrderID: "ghost"})
	err = consumer.Handle(context.Background(), kafka.Message{Value: missing})
	assert.ErrorIs(t, err, ErrShipmentRejected)
	assert.ErrorIs(t, err, ports.ErrNotFound)
}
