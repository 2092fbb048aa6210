package observability

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/Apurer/clean-orders/internal/domains/orders/ports"
)

const tracerName = "github.com/Apurer/clean-orders/internal/domains/orders/adapters/observability/service"

// Service decorates the orders service with tracing, logging, and metrics.
type Service struct {
	inner   ports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tr
	}
}

func WithMeter(m metric.Meter) Option {
	return func(s *Service) {
		s.metrics = newServiceMetrics(m)
	}
}

// New wraps the core orders service.
func New(inner ports.Service, opts ...Option) ports.Service {
	s := &Service{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		logger:  slog.Default(),
		metrics: newServiceMetrics(nil),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.tracer == nil {
		s.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	return s
}

func (s *Service) PlaceOrder(ctx context.Context, input ports.PlaceOrderInput) (*ports.OrderView, error) {
	ctx, span := s.tracer.Start(ctx, "OrdersService.PlaceOrder",
		trace.WithAttributes(
			attribute.String("order.id", input.OrderID),
			attribute.String("order.customer_id", input.CustomerID),
			attribute.Int("order.item_count", len(input.Items)),
			attribute.Bool("order.idempotent", input.IdempotencyKey != ""),
		))
	defer span.End()

	s.logInfo(ctx, "placing order", slog.String("order.id", input.OrderID), slog.Int("order.item_count", len(input.Items)))
	view, err := s.inner.PlaceOrder(ctx, input)
	if err != nil {
		s.metrics.recordRejected(ctx, "place")
		return nil, s.handleError(ctx, span, err, "failed to place order", slog.String("order.id", input.OrderID))
	}
	span.SetAttributes(attribute.String("order.id", view.Order.ID().String()), attribute.Bool("order.replayed", view.Replayed))
	if !view.Replayed {
		s.metrics.recordPlaced(ctx)
	}
	s.logInfo(ctx, "order placed",
		slog.String("order.id", view.Order.ID().String()),
		slog.String("order.total", view.Total.String()))
	return view, nil
}

func (s *Service) CancelOrder(ctx context.Context, id string) (*ports.OrderView, error) {
	ctx, span := s.tracer.Start(ctx, "OrdersService.CancelOrder", trace.WithAttributes(attribute.String("order.id", id)))
	defer span.End()

	s.logInfo(ctx, "cancelling order", slog.String("order.id", id))
	view, err := s.inner.CancelOrder(ctx, id)
	if err != nil {
		s.metrics.recordRejected(ctx, "cancel")
		return nil, s.handleError(ctx, span, err, "failed to cancel order", slog.String("order.id", id))
	}
	span.SetAttributes(attribute.Bool("order.replayed", view.Replayed))
	if !view.Replayed {
		s.metrics.recordCancelled(ctx)
	}
	s.logInfo(ctx, "order cancelled", slog.String("order.id", id), slog.Bool("order.replayed", view.Replayed))
	return view, nil
}

func (s *Service) GetOrder(ctx context.Context, id string) (*ports.OrderView, error) {
	ctx, span := s.tracer.Start(ctx, "OrdersService.GetOrder", trace.WithAttributes(attribute.String("order.id", id)))
	defer span.End()

	view, err := s.inner.GetOrder(ctx, id)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load order", slog.String("order.id", id))
	}
	span.SetAttributes(attribute.String("order.status", string(view.Order.Status())))
	return view, nil
}

func (s *Service) ListOrders(ctx context.Context, filter ports.ListFilter) ([]*ports.OrderView, error) {
	ctx, span := s.tracer.Start(ctx, "OrdersService.ListOrders",
		trace.WithAttributes(
			attribute.String("filter.status", string(filter.Status)),
			attribute.String("filter.customer_id", filter.CustomerID),
			attribute.String("filter.product_id", filter.ProductID),
		))
	defer span.End()

	views, err := s.inner.ListOrders(ctx, filter)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list orders")
	}
	span.SetAttributes(attribute.Int("orders.count", len(views)))
	return views, nil
}

func (s *Service) RecordShipment(ctx context.Context, id string, shippedAt time.Time) (*ports.OrderView, error) {
	ctx, span := s.tracer.Start(ctx, "OrdersService.RecordShipment", trace.WithAttributes(attribute.String("order.id", id)))
	defer span.End()

	s.logInfo(ctx, "recording shipment", slog.String("order.id", id), slog.Time("shipped_at", shippedAt))
	view, err := s.inner.RecordShipment(ctx, id, shippedAt)
	if err != nil {
		s.metrics.recordRejected(ctx, "ship")
		return nil, s.handleError(ctx, span, err, "failed to record shipment", slog.String("order.id", id))
	}
	span.SetAttributes(attribute.Bool("order.replayed", view.Replayed))
	if !view.Replayed {
		s.metrics.recordShipped(ctx)
	}
	return view, nil
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func (s *Service) logError(ctx context.Context, msg string, err error, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	s.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	s.logError(ctx, msg, err, attrs...)
	return err
}

type serviceMetrics struct {
	ordersPlaced    metric.Int64Counter
	ordersCancelled metric.Int64Counter
	ordersShipped   metric.Int64Counter
	ordersRejected  metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	placed, _ := m.Int64Counter("orders.service.orders_placed", metric.WithDescription("Number of orders placed"))
	cancelled, _ := m.Int64Counter("orders.service.orders_cancelled", metric.WithDescription("Number of orders cancelled"))
	shipped, _ := m.Int64Counter("orders.service.orders_shipped", metric.WithDescription("Number of shipments recorded"))
	rejected, _ := m.Int64Counter("orders.service.commands_rejected", metric.WithDescription("Number of order commands that failed"))
	return serviceMetrics{ordersPlaced: placed, ordersCancelled: cancelled, ordersShipped: shipped, ordersRejected: rejected}
}

func (m serviceMetrics) recordPlaced(ctx context.Context) {
	if m.ordersPlaced != nil {
		m.ordersPlaced.Add(ctx, 1)
	}
}

func (m serviceMetrics) recordCancelled(ctx context.Context) {
	if m.ordersCancelled != nil {
		m.ordersCancelled.Add(ctx, 1)
	}
}

func (m serviceMetrics) recordShipped(ctx context.Context) {
	if m.ordersShipped != nil {
		m.ordersShipped.Add(ctx, 1)
	}
}

func (m serviceMetrics) recordRejected(ctx context.Context, command string) {
	if m.ordersRejected != nil {
		m.ordersRejected.Add(ctx, 1, metric.WithAttributes(attribute.String("command", command)))
	}
}

var _ ports.Service = (*Service)(nil)
