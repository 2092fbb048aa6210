package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Apurer/clean-orders/internal/app/api"
	orderskafka "github.com/Apurer/clean-orders/internal/domains/orders/adapters/events/kafka"
	platformkafka "github.com/Apurer/clean-orders/internal/platform/kafka"
	platformobservability "github.com/Apurer/clean-orders/internal/platform/observability"
	platformpostgres "github.com/Apurer/clean-orders/internal/platform/postgres"
)

const (
	serviceName   = "orders-fulfillment-listener"
	consumerGroup = "orders-fulfillment-listener"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx)
	stop()
	if err != nil {
		log.Fatalf("fulfillment listener exited: %v", err)
	}
}

// run owns every resource it opens so deferred cleanup happens on all exit paths.
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

	kafkaClient := platformkafka.NewClient(cfg.KafkaBrokers)
	if !kafkaClient.Enabled() {
		return errors.New("KAFKA_BROKERS not set; nothing to consume")
	}

	db, cleanupDB := platformpostgres.ConnectOrFallback(ctx, cfg.PostgresDSN, logger)
	defer cleanupDB()
	if db == nil {
		return errors.New("POSTGRES_DSN not set or connection failed; shipments cannot be recorded")
	}
	repos, err := api.BuildRepositories(db, logger)
	if err != nil {
		return fmt.Errorf("build repositories: %w", err)
	}

	writer := kafkaClient.NewWriter(cfg.OrderEventsTopic)
	defer writer.Close()
	services, err := api.BuildServices(cfg, repos, orderskafka.NewPublisher(writer), instruments)
	if err != nil {
		return fmt.Errorf("build services: %w", err)
	}

	reader := kafkaClient.NewReader(cfg.ShipmentEventsTopic, consumerGroup)
	defer reader.Close()
	consumer := orderskafka.NewShipmentConsumer(reader, services.Orders, logger)

	logger.Info("fulfillment listener consuming", slog.String("topic", cfg.ShipmentEventsTopic), slog.String("group", consumerGroup))
	if err := consumer.Run(ctx); err != nil && ctx.Err() == nil {
		return err
	}
	logger.Info("fulfillment listener stopped")
	return nil
}
