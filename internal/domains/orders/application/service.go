package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Apurer/clean-orders/internal/domains/orders/domain"
	"github.com/Apurer/clean-orders/internal/domains/orders/ports"
)

// Service orchestrates the order use cases.
type Service struct {
	repo        ports.Repository
	customers   ports.CustomerValidator
	publisher   ports.EventPublisher
	idempotency ports.IdempotencyStore
	pricing     domain.PricingStrategy
	now         func() time.Time
	logger      *slog.Logger
}

// Option configures optional collaborators.
type Option func(*Service)

// WithCustomerValidator checks customer references before placing orders.
func WithCustomerValidator(v ports.CustomerValidator) Option {
	return func(s *Service) {
		s.customers = v
	}
}

func WithEventPublisher(p ports.EventPublisher) Option {
	return func(s *Service) {
		if p != nil {
			s.publisher = p
		}
	}
}

// WithIdempotencyStore enables Idempotency-Key replay for PlaceOrder.
func WithIdempotencyStore(store ports.IdempotencyStore) Option {
	return func(s *Service) {
		s.idempotency = store
	}
}

// WithPricing sets the strategy used to compute totals in returned views.
func WithPricing(strategy domain.PricingStrategy) Option {
	return func(s *Service) {
		if strategy != nil {
			s.pricing = strategy
		}
	}
}

// WithClock overrides the time source for deterministic testing.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewService wires the orders service with its dependencies.
func NewService(repo ports.Repository, opts ...Option) *Service {
	s := &Service{
		repo:      repo,
		publisher: ports.NoopPublisher,
		pricing:   domain.StandardPricing{},
		now:       func() time.Time { return time.Now().UTC() },
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// PlaceOrder validates the command, persists a new pending order and announces it.
func (s *Service) PlaceOrder(ctx context.Context, input ports.PlaceOrderInput) (*ports.OrderView, error) {
	key := strings.TrimSpace(input.IdempotencyKey)
	useIdempotency := key != "" && s.idempotency != nil
	var fingerprint string
	if useIdempotency {
		fp, err := FingerprintPlaceOrder(input)
		if err != nil {
			return nil, err
		}
		existing, err := s.idempotency.Get(ctx, key)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			if existing.RequestHash != fp {
				return nil, mapError(ports.ErrIdempotencyConflict)
			}
			return s.replayed(s.GetOrder(ctx, existing.OrderID))
		}
		fingerprint = fp
	}

	order, err := s.buildOrder(ctx, input)
	if err != nil {
		return nil, mapError(err)
	}
	saved, err := s.repo.Save(ctx, order)
	if err != nil {
		return nil, mapError(err)
	}

	if useIdempotency {
		record, err := s.idempotency.Save(ctx, ports.IdempotencyRecord{
			Key:         key,
			RequestHash: fingerprint,
			OrderID:     saved.ID().String(),
		})
		if err != nil {
			if errors.Is(err, ports.ErrIdempotencyConflict) && record != nil && record.RequestHash == fingerprint {
				return s.replayed(s.GetOrder(ctx, record.OrderID))
			}
			return nil, mapError(err)
		}
	}

	view := s.view(saved)
	s.publish(ctx, domain.OrderPlaced{
		BaseEvent:  domain.BaseEvent{Timestamp: s.now()},
		OrderID:    saved.ID(),
		CustomerID: saved.CustomerID(),
		ItemCount:  saved.ItemCount(),
		Subtotal:   view.Subtotal,
		Total:      view.Total,
	})
	return view, nil
}

// CancelOrder cancels a pending order. Cancelling an already cancelled order is a no-op.
func (s *Service) CancelOrder(ctx context.Context, id string) (*ports.OrderView, error) {
	order, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	cancelled, err := order.Cancel()
	if err != nil {
		return nil, mapError(err)
	}
	if cancelled == order {
		return s.replayed(s.view(order), nil)
	}
	saved, err := s.repo.Save(ctx, cancelled)
	if err != nil {
		return nil, mapError(err)
	}
	s.publish(ctx, domain.OrderCancelled{
		BaseEvent:  domain.BaseEvent{Timestamp: s.now()},
		OrderID:    saved.ID(),
		CustomerID: saved.CustomerID(),
	})
	return s.view(saved), nil
}

// GetOrder loads a single order.
func (s *Service) GetOrder(ctx context.Context, id string) (*ports.OrderView, error) {
	order, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.view(order), nil
}

// ListOrders returns the orders matching the filter.
func (s *Service) ListOrders(ctx context.Context, filter ports.ListFilter) ([]*ports.OrderView, error) {
	if filter.Status != "" {
		if _, err := domain.ParseStatus(string(filter.Status)); err != nil {
			return nil, mapError(err)
		}
	}
	orders, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, mapError(err)
	}
	views := make([]*ports.OrderView, 0, len(orders))
	for _, order := range orders {
		views = append(views, s.view(order))
	}
	return views, nil
}

// RecordShipment applies a shipment reported by the fulfillment context. The
// aggregate has no ship transition, so the shipped state is rehydrated from
// the fulfillment fact.
func (s *Service) RecordShipment(ctx context.Context, id string, shippedAt time.Time) (*ports.OrderView, error) {
	order, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	switch order.Status() {
	case domain.StatusShipped:
		return s.replayed(s.view(order), nil)
	case domain.StatusCancelled:
		return nil, mapError(fmt.Errorf("%w: order %s is cancelled", ErrOrderNotShippable, order.ID()))
	}
	shipped := domain.Reconstitute(order.ID(), order.CustomerID(), order.Items(), domain.StatusShipped, order.CreatedAt())
	saved, err := s.repo.Save(ctx, shipped)
	if err != nil {
		return nil, mapError(err)
	}
	if shippedAt.IsZero() {
		shippedAt = s.now()
	}
	s.publish(ctx, domain.OrderShipped{
		BaseEvent: domain.BaseEvent{Timestamp: s.now()},
		OrderID:   saved.ID(),
		ShippedAt: shippedAt,
	})
	return s.view(saved), nil
}

func (s *Service) buildOrder(ctx context.Context, input ports.PlaceOrderInput) (*domain.Order, error) {
	id := domain.GenerateOrderID()
	if input.OrderID != "" {
		parsed, err := domain.NewOrderID(input.OrderID)
		if err != nil {
			return nil, err
		}
		if _, err := s.repo.GetByID(ctx, parsed); err == nil {
			return nil, fmt.Errorf("%w: %s", ErrOrderExists, parsed)
		} else if !errors.Is(err, ports.ErrNotFound) {
			return nil, err
		}
		id = parsed
	}
	items := make([]domain.OrderItem, 0, len(input.Items))
	for i, raw := range input.Items {
		item, err := domain.NewOrderItem(raw.ProductID, raw.ProductName, raw.Quantity, raw.PricePerUnit)
		if err != nil {
			return nil, fmt.Errorf("items[%d]: %w", i, err)
		}
		items = append(items, item)
	}
	customerID := strings.TrimSpace(input.CustomerID)
	if customerID != "" && s.customers != nil {
		exists, err := s.customers.CustomerExists(ctx, customerID)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, fmt.Errorf("%w: %s", ErrUnknownCustomer, customerID)
		}
	}
	return domain.NewOrder(id, customerID, items, s.now())
}

func (s *Service) load(ctx context.Context, raw string) (*domain.Order, error) {
	id, err := domain.NewOrderID(raw)
	if err != nil {
		return nil, mapError(err)
	}
	order, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, mapError(err)
	}
	return order, nil
}

func (s *Service) view(order *domain.Order) *ports.OrderView {
	return &ports.OrderView{
		Order:    order,
		Subtotal: order.Subtotal(),
		Total:    order.CalculateTotal(s.pricing),
	}
}

func (s *Service) replayed(view *ports.OrderView, err error) (*ports.OrderView, error) {
	if view != nil {
		view.Replayed = true
	}
	return view, err
}

func (s *Service) publish(ctx context.Context, event domain.Event) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.LogAttrs(ctx, slog.LevelWarn, "failed to publish order event",
			slog.String("event", event.EventName()),
			slog.String("error", err.Error()))
	}
}

var _ ports.Service = (*Service)(nil)
