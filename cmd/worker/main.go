package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"time"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"

	"github.com/Apurer/clean-orders/internal/app/api"
	orderskafka "github.com/Apurer/clean-orders/internal/domains/orders/adapters/events/kafka"
	ordersports "github.com/Apurer/clean-orders/internal/domains/orders/ports"
	platformkafka "github.com/Apurer/clean-orders/internal/platform/kafka"
	platformobservability "github.com/Apurer/clean-orders/internal/platform/observability"
	platformpostgres "github.com/Apurer/clean-orders/internal/platform/postgres"
	orderactivities "github.com/Apurer/clean-orders/internal/platform/temporal/activities/orders"
	orderworkflows "github.com/Apurer/clean-orders/internal/platform/temporal/workflows/orders"
)

const serviceName = "orders-worker"

func main() {
	if err := run(context.Background()); err != nil {
		log.Fatalf("orders worker exited: %v", err)
	}
}

func run(ctx context.Context) error {
	cfg, err := api.LoadConfig()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		return fmt.Errorf("initialize observability: %w", err)
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
	repos, err := api.BuildRepositories(db, logger)
	if err != nil {
		return fmt.Errorf("build repositories: %w", err)
	}

	var publisher ordersports.EventPublisher = ordersports.NoopPublisher
	if kafkaClient := platformkafka.NewClient(cfg.KafkaBrokers); kafkaClient.Enabled() {
		writer := kafkaClient.NewWriter(cfg.OrderEventsTopic)
		defer writer.Close()
		publisher = orderskafka.NewPublisher(writer)
	}
	services, err := api.BuildServices(cfg, repos, publisher, instruments)
	if err != nil {
		return fmt.Errorf("build services: %w", err)
	}
	activities := orderactivities.NewActivities(services.Orders, services.Validator)

	temporalClient, err := api.ConnectTemporalClient(cfg, instruments)
	if err != nil {
		return fmt.Errorf("create Temporal client: %w", err)
	}
	defer temporalClient.Close()

	w := worker.New(temporalClient, orderworkflows.OrderPlacementTaskQueue, worker.Options{})
	w.RegisterWorkflowWithOptions(orderworkflows.OrderPlacementWorkflow, workflow.RegisterOptions{Name: orderworkflows.OrderPlacementWorkflowName})
	w.RegisterActivityWithOptions(activities.VerifyCustomer, activity.RegisterOptions{Name: orderactivities.VerifyCustomerActivityName})
	w.RegisterActivityWithOptions(activities.PersistOrder, activity.RegisterOptions{Name: orderactivities.PersistOrderActivityName})

	logger.Info("worker listening", slog.String("taskQueue", orderworkflows.OrderPlacementTaskQueue), slog.String("namespace", cfg.TemporalNamespace))
	if err := w.Run(worker.InterruptCh()); err != nil {
		return fmt.Errorf("temporal worker: %w", err)
	}
	logger.Info("Temporal worker stopped")
	return nil
}
