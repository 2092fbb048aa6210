package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	workerlog "go.temporal.io/sdk/log"
	"gorm.io/gorm"

	ordersserver "github.com/Apurer/clean-orders/go"

	"github.com/Apurer/clean-orders/internal/domains/customers/adapters/directory"
	customersmemory "github.com/Apurer/clean-orders/internal/domains/customers/adapters/memory"
	customersobs "github.com/Apurer/clean-orders/internal/domains/customers/adapters/observability"
	customerspostgres "github.com/Apurer/clean-orders/internal/domains/customers/adapters/persistence/postgres"
	customersapp "github.com/Apurer/clean-orders/internal/domains/customers/application"
	customersports "github.com/Apurer/clean-orders/internal/domains/customers/ports"
	orderskafka "github.com/Apurer/clean-orders/internal/domains/orders/adapters/events/kafka"
	ordersmemory "github.com/Apurer/clean-orders/internal/domains/orders/adapters/memory"
	ordersobs "github.com/Apurer/clean-orders/internal/domains/orders/adapters/observability"
	orderspostgres "github.com/Apurer/clean-orders/internal/domains/orders/adapters/persistence/postgres"
	ordersworkflows "github.com/Apurer/clean-orders/internal/domains/orders/adapters/workflows"
	ordersapp "github.com/Apurer/clean-orders/internal/domains/orders/application"
	ordersports "github.com/Apurer/clean-orders/internal/domains/orders/ports"
	platformkafka "github.com/Apurer/clean-orders/internal/platform/kafka"
	platformmetrics "github.com/Apurer/clean-orders/internal/platform/metrics"
	"github.com/Apurer/clean-orders/internal/platform/migrations"
	platformobservability "github.com/Apurer/clean-orders/internal/platform/observability"
	platformpostgres "github.com/Apurer/clean-orders/internal/platform/postgres"
)

const serviceName = "orders-api"

// Repositories bundles the persistence adapters chosen at startup.
type Repositories struct {
	Orders      ordersports.Repository
	Idempotency ordersports.IdempotencyStore
	Customers   customersports.Repository
}

// Services bundles the decorated application services shared by the API and worker processes.
type Services struct {
	Orders    ordersports.Service
	Customers customersports.Service
	Validator ordersports.CustomerValidator
}

// Run boots the orders HTTP API with observability, repositories, events, and workflows wired.
func Run(ctx context.Context) error {
	cfg, err := LoadConfig()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	db, cleanupDB := platformpostgres.ConnectOrFallback(ctx, cfg.PostgresDSN, logger)
	defer cleanupDB()
	repos, err := BuildRepositories(db, logger)
	if err != nil {
		return err
	}

	publisher, closePublisher := buildEventPublisher(cfg, logger)
	defer closePublisher()

	services, err := BuildServices(cfg, repos, publisher, instruments)
	if err != nil {
		return err
	}

	var orderWorkflows ordersports.WorkflowOrchestrator = ordersworkflows.NewInlineOrderWorkflows(services.Orders)
	if temporalClient, err := ConnectTemporalClient(cfg, instruments); err != nil {
		logger.Warn("Temporal workflows unavailable, placing orders inline", slog.String("error", err.Error()))
	} else {
		defer temporalClient.Close()
		orderWorkflows = ordersworkflows.NewTemporalOrderWorkflows(temporalClient, services.Orders)
		logger.Info("Temporal workflows enabled", slog.String("namespace", cfg.TemporalNamespace))
	}

	handlers := ordersserver.ApiHandleFunctions{
		OrderAPI:    ordersserver.NewOrderAPI(services.Orders, orderWorkflows),
		CustomerAPI: ordersserver.NewCustomerAPI(services.Customers),
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	httpMetrics := platformmetrics.NewServerMetrics("api", registry)

	router := gin.New()
	router.Use(gin.Recovery(), otelgin.Middleware(serviceName), httpMetrics.Middleware())
	ordersserver.NewRouterWithGinEngine(router, handlers)
	router.GET("/metrics", gin.WrapH(platformmetrics.HandlerFor(registry)))

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		logger.Info("orders API listening", slog.String("addr", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		logger.Error("orders API server exited", slog.String("addr", srv.Addr), slog.String("error", err.Error()))
		return err
	case <-ctx.Done():
		logger.Info("shutting down orders API")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// BuildRepositories migrates and returns PostgreSQL adapters when db is set,
// otherwise in-memory ones.
func BuildRepositories(db *gorm.DB, logger *slog.Logger) (Repositories, error) {
	if db == nil {
		return Repositories{
			Orders:      ordersmemory.NewRepository(),
			Idempotency: ordersmemory.NewIdempotencyStore(),
			Customers:   customersmemory.NewRepository(),
		}, nil
	}
	if err := migrations.Run(db); err != nil {
		return Repositories{}, fmt.Errorf("failed to migrate schema: %w", err)
	}
	logger.Info("repositories configured with postgres")
	return Repositories{
		Orders:      orderspostgres.NewRepository(db),
		Idempotency: orderspostgres.NewIdempotencyStore(db),
		Customers:   customerspostgres.NewRepository(db),
	}, nil
}

// BuildServices wires the customers and orders application services and
// decorates them with tracing, logging, and metrics.
func BuildServices(cfg Config, repos Repositories, publisher ordersports.EventPublisher, instruments *platformobservability.Instruments) (Services, error) {
	logger := effectiveLogger(instruments)
	pricing, err := cfg.Pricing.Strategy()
	if err != nil {
		return Services{}, err
	}

	customerService := customersobs.New(
		customersapp.NewService(repos.Customers),
		customersobs.WithLogger(logger),
		customersobs.WithTracer(instruments.Tracer("internal.customers.application")),
		customersobs.WithMeter(instruments.Meter("internal.customers.application")),
	)
	validator := directory.NewValidator(customerService)

	coreOrderService := ordersapp.NewService(
		repos.Orders,
		ordersapp.WithCustomerValidator(validator),
		ordersapp.WithEventPublisher(publisher),
		ordersapp.WithIdempotencyStore(repos.Idempotency),
		ordersapp.WithPricing(pricing),
		ordersapp.WithLogger(logger),
	)
	orderService := ordersobs.New(
		coreOrderService,
		ordersobs.WithLogger(logger),
		ordersobs.WithTracer(instruments.Tracer("internal.orders.application")),
		ordersobs.WithMeter(instruments.Meter("internal.orders.application")),
	)
	return Services{Orders: orderService, Customers: customerService, Validator: validator}, nil
}

func buildEventPublisher(cfg Config, logger *slog.Logger) (ordersports.EventPublisher, func()) {
	kafkaClient := platformkafka.NewClient(cfg.KafkaBrokers)
	if !kafkaClient.Enabled() {
		logger.Warn("KAFKA_BROKERS not set, order events will not be published")
		return ordersports.NoopPublisher, func() {}
	}
	writer := kafkaClient.NewWriter(cfg.OrderEventsTopic)
	logger.Info("order events published to kafka", slog.String("topic", cfg.OrderEventsTopic))
	return orderskafka.NewPublisher(writer), func() {
		if err := writer.Close(); err != nil {
			logger.Warn("failed to close kafka writer", slog.String("error", err.Error()))
		}
	}
}

// ConnectTemporalClient dials Temporal with tracing and structured logging, unless disabled.
func ConnectTemporalClient(cfg Config, instruments *platformobservability.Instruments) (client.Client, error) {
	if cfg.TemporalDisabled {
		return nil, errors.New("temporal disabled via TEMPORAL_DISABLED env")
	}
	tracerOptions := temporalotel.TracerOptions{}
	if instruments != nil {
		tracerOptions.Tracer = instruments.Tracer("temporal-client")
	}
	tracingInterceptor, err := temporalotel.NewTracingInterceptor(tracerOptions)
	if err != nil {
		return nil, err
	}
	options := client.Options{
		HostPort:  cfg.TemporalAddress,
		Namespace: cfg.TemporalNamespace,
		Logger:    workerlog.NewStructuredLogger(effectiveLogger(instruments)),
	}
	options.Interceptors = append(options.Interceptors, tracingInterceptor)
	return client.Dial(options)
}

func effectiveLogger(instruments *platformobservability.Instruments) *slog.Logger {
	if instruments != nil && instruments.Logger != nil {
		return instruments.Logger
	}
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}
