package api

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.temporal.io/sdk/client"

	"github.com/Apurer/clean-orders/internal/domains/orders/domain"
)

const (
	defaultOrderEventsTopic    = "orders.events"
	defaultShipmentEventsTopic = "fulfillment.shipments"
	defaultIdempotencyTTL      = 24 * time.Hour
)

// Config carries environment-driven settings for the API process.
type Config struct {
	Port                string
	PostgresDSN         string
	KafkaBrokers        string
	OrderEventsTopic    string
	ShipmentEventsTopic string
	TemporalAddress     string
	TemporalNamespace   string
	TemporalDisabled    bool
	IdempotencyTTL      time.Duration
	Pricing             PricingConfig
}

// PricingConfig selects the strategy used to total orders.
type PricingConfig struct {
	Policy          string
	BulkThreshold   decimal.Decimal
	DiscountPercent decimal.Decimal
}

// LoadConfig reads environment variables, applies defaults, and validates basic constraints.
func LoadConfig() (Config, error) {
	cfg := Config{
		Port:                envDefault("PORT", "8080"),
		PostgresDSN:         strings.TrimSpace(os.Getenv("POSTGRES_DSN")),
		KafkaBrokers:        strings.TrimSpace(os.Getenv("KAFKA_BROKERS")),
		OrderEventsTopic:    envDefault("ORDER_EVENTS_TOPIC", defaultOrderEventsTopic),
		ShipmentEventsTopic: envDefault("SHIPMENT_EVENTS_TOPIC", defaultShipmentEventsTopic),
		TemporalAddress:     envDefault("TEMPORAL_ADDRESS", client.DefaultHostPort),
		TemporalNamespace:   envDefault("TEMPORAL_NAMESPACE", client.DefaultNamespace),
		TemporalDisabled:    isTruthy(os.Getenv("TEMPORAL_DISABLED")),
		IdempotencyTTL:      defaultIdempotencyTTL,
		Pricing: PricingConfig{
			Policy:          strings.ToLower(envDefault("PRICING_POLICY", "standard")),
			BulkThreshold:   decimal.NewFromInt(100),
			DiscountPercent: decimal.NewFromInt(10),
		},
	}
	if raw := strings.TrimSpace(os.Getenv("IDEMPOTENCY_TTL_HOURS")); raw != "" {
		hours, err := strconv.Atoi(raw)
		if err != nil || hours <= 0 {
			return Config{}, fmt.Errorf("IDEMPOTENCY_TTL_HOURS must be a positive integer")
		}
		cfg.IdempotencyTTL = time.Duration(hours) * time.Hour
	}
	if raw := strings.TrimSpace(os.Getenv("PRICING_BULK_THRESHOLD")); raw != "" {
		threshold, err := decimal.NewFromString(raw)
		if err != nil || threshold.IsNegative() {
			return Config{}, fmt.Errorf("PRICING_BULK_THRESHOLD must be a non-negative decimal")
		}
		cfg.Pricing.BulkThreshold = threshold
	}
	if raw := strings.TrimSpace(os.Getenv("PRICING_DISCOUNT_PERCENT")); raw != "" {
		pct, err := decimal.NewFromString(raw)
		if err != nil {
			return Config{}, fmt.Errorf("PRICING_DISCOUNT_PERCENT must be a decimal")
		}
		cfg.Pricing.DiscountPercent = pct
	}
	if _, err := cfg.Pricing.Strategy(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Strategy builds the configured pricing strategy.
func (p PricingConfig) Strategy() (domain.PricingStrategy, error) {
	switch p.Policy {
	case "", "standard":
		return domain.StandardPricing{}, nil
	case "bulk":
		strategy, err := domain.NewBulkDiscountPricing(p.BulkThreshold, p.DiscountPercent)
		if err != nil {
			return nil, fmt.Errorf("PRICING_DISCOUNT_PERCENT: %w", err)
		}
		return strategy, nil
	case "promotional":
		strategy, err := domain.NewPromotionalPricing(p.DiscountPercent)
		if err != nil {
			return nil, fmt.Errorf("PRICING_DISCOUNT_PERCENT: %w", err)
		}
		return strategy, nil
	default:
		return nil, fmt.Errorf("PRICING_POLICY %q is not one of standard, bulk, promotional", p.Policy)
	}
}

func envDefault(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}

func isTruthy(value string) bool {
	value = strings.TrimSpace(strings.ToLower(value))
	return value == "1" || value == "true" || value == "yes"
}
