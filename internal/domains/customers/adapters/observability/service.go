package observability

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/Apurer/clean-orders/internal/domains/customers/domain"
	"github.com/Apurer/clean-orders/internal/domains/customers/ports"
	"github.com/Apurer/clean-orders/internal/shared/projection"
)

const tracerName = "github.com/Apurer/clean-orders/internal/domains/customers/adapters/observability/service"

// Service decorates the customers service with tracing, logging, and metrics.
type Service struct {
	inner      ports.Service
	tracer     trace.Tracer
	logger     *slog.Logger
	registered metric.Int64Counter
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
		if m != nil {
			s.registered, _ = m.Int64Counter("customers.service.registered", metric.WithDescription("Number of customers registered"))
		}
	}
}

func New(inner ports.Service, opts ...Option) ports.Service {
	s := &Service{
		inner:  inner,
		tracer: nooptrace.NewTracerProvider().Tracer(tracerName),
		logger: slog.Default(),
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

func (s *Service) RegisterCustomer(ctx context.Context, input ports.RegisterCustomerInput) (*projection.Projection[*domain.Customer], error) {
	ctx, span := s.tracer.Start(ctx, "CustomersService.RegisterCustomer", trace.WithAttributes(attribute.String("customer.id", input.ID)))
	defer span.End()

	result, err := s.inner.RegisterCustomer(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to register customer", slog.String("customer.id", input.ID))
	}
	if s.registered != nil {
		s.registered.Add(ctx, 1)
	}
	s.logInfo(ctx, "customer registered", slog.String("customer.id", result.Entity.ID().String()))
	return result, nil
}

func (s *Service) GetCustomer(ctx context.Context, id string) (*projection.Projection[*domain.Customer], error) {
	ctx, span := s.tracer.Start(ctx, "CustomersService.GetCustomer", trace.WithAttributes(attribute.String("customer.id", id)))
	defer span.End()

	result, err := s.inner.GetCustomer(ctx, id)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load customer", slog.String("customer.id", id))
	}
	return result, nil
}

func (s *Service) RenameCustomer(ctx context.Context, id, name string) (*projection.Projection[*domain.Customer], error) {
	ctx, span := s.tracer.Start(ctx, "CustomersService.RenameCustomer", trace.WithAttributes(attribute.String("customer.id", id)))
	defer span.End()

	result, err := s.inner.RenameCustomer(ctx, id, name)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to rename customer", slog.String("customer.id", id))
	}
	s.logInfo(ctx, "customer renamed", slog.String("customer.id", id))
	return result, nil
}

func (s *Service) ChangeEmail(ctx context.Context, id, email string) (*projection.Projection[*domain.Customer], error) {
	ctx, span := s.tracer.Start(ctx, "CustomersService.ChangeEmail", trace.WithAttributes(attribute.String("customer.id", id)))
	defer span.End()

	result, err := s.inner.ChangeEmail(ctx, id, email)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to change customer email", slog.String("customer.id", id))
	}
	s.logInfo(ctx, "customer email changed", slog.String("customer.id", id))
	return result, nil
}

func (s *Service) UpdateCustomer(ctx context.Context, id string, input ports.UpdateCustomerInput) (*projection.Projection[*domain.Customer], error) {
	ctx, span := s.tracer.Start(ctx, "CustomersService.UpdateCustomer",
		trace.WithAttributes(
			attribute.String("customer.id", id),
			attribute.Bool("customer.update.name", input.Name != nil),
			attribute.Bool("customer.update.email", input.Email != nil),
		))
	defer span.End()

	result, err := s.inner.UpdateCustomer(ctx, id, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to update customer", slog.String("customer.id", id))
	}
	s.logInfo(ctx, "customer updated", slog.String("customer.id", id))
	return result, nil
}

func (s *Service) ListCustomers(ctx context.Context) ([]*projection.Projection[*domain.Customer], error) {
	ctx, span := s.tracer.Start(ctx, "CustomersService.ListCustomers")
	defer span.End()

	result, err := s.inner.ListCustomers(ctx)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list customers")
	}
	span.SetAttributes(attribute.Int("customers.count", len(result)))
	return result, nil
}

func (s *Service) CustomerExists(ctx context.Context, id string) (bool, error) {
	ctx, span := s.tracer.Start(ctx, "CustomersService.CustomerExists", trace.WithAttributes(attribute.String("customer.id", id)))
	defer span.End()

	ok, err := s.inner.CustomerExists(ctx, id)
	if err != nil {
		return false, s.handleError(ctx, span, err, "failed to check customer", slog.String("customer.id", id))
	}
	span.SetAttributes(attribute.Bool("customer.exists", ok))
	return ok, nil
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	if s.logger != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
		s.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
	}
	return err
}

var _ ports.Service = (*Service)(nil)
