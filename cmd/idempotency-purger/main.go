package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/Apurer/clean-orders/internal/app/api"
	orderspostgres "github.com/Apurer/clean-orders/internal/domains/orders/adapters/persistence/postgres"
	platformpostgres "github.com/Apurer/clean-orders/internal/platform/postgres"
)

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	err := run(ctx, slog.New(slog.NewTextHandler(os.Stdout, nil)))
	cancel()
	if err != nil {
		log.Fatalf("idempotency purge failed: %v", err)
	}
}

func run(ctx context.Context, logger *slog.Logger) error {
	cfg, err := api.LoadConfig()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	db, cleanup := platformpostgres.ConnectOrFallback(ctx, cfg.PostgresDSN, logger)
	defer cleanup()
	if db == nil {
		return errors.New("POSTGRES_DSN not set or connection failed; cannot purge idempotency keys")
	}

	store := orderspostgres.NewIdempotencyStore(db)
	cutoff := time.Now().UTC().Add(-cfg.IdempotencyTTL)
	purged, err := store.PurgeOlderThan(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("purge idempotency keys: %w", err)
	}
	logger.Info("idempotency purge completed", slog.Int64("purged", purged), slog.Time("cutoff", cutoff))
	return nil
}
