//go:build integration

package postgres

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/Apurer/clean-orders/internal/domains/orders/domain"
	"github.com/Apurer/clean-orders/internal/domains/orders/ports"
	"github.com/Apurer/clean-orders/internal/platform/migrations"
)

func setupOrdersPostgresContainer(t *testing.T) (*gorm.DB, func()) {
	ctx := context.Background()

	pgContainer, err := tcpostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcpostgres.WithDatabase("orders_test"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	err = migrations.Run(db)
	require.NoError(t, err)

	cleanup := func() {
		sqlDB, _ := db.DB()
		if sqlDB != nil {
			sqlDB.Close()
		}
		pgContainer.Terminate(ctx)
	}

	return db, cleanup
}

func newPendingOrder(t *testing.T, id, customerID string, createdAt time.Time, productIDs ...string) *domain.Order {
	t.Helper()
	orderID, err := domain.NewOrderID(id)
	require.NoError(t, err)
	items := make([]domain.OrderItem, 0, len(productIDs))
	for _, productID := range productIDs {
		item, err := domain.NewOrderItem(productID, "Product "+productID, 2, decimal.RequireFromString("10.25"))
		require.NoError(t, err)
		items = append(items, item)
	}
	order, err := domain.NewOrder(orderID, customerID, items, createdAt)
	require.NoError(t, err)
	return order
}

func TestRepository_SaveAndGetByID(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupOrdersPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()
	createdAt := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	order := newPendingOrder(t, "order-1", "cust-1", createdAt, "prod-1", "prod-2")
	saved, err := repo.Save(ctx, order)
	require.NoError(t, err)
	assert.Equal(t, "order-1", saved.ID().String())
	assert.Equal(t, domain.StatusPending, saved.Status())

	fetched, err := repo.GetByID(ctx, order.ID())
	require.NoError(t, err)
	assert.Equal(t, "cust-1", fetched.CustomerID())
	assert.True(t, createdAt.Equal(fetched.CreatedAt()))
	require.Len(t, fetched.Items(), 2)
	assert.True(t, fetched.Items()[0].Equals(order.Items()[0]))
	assert.True(t, fetched.Subtotal().Equal(decimal.RequireFromString("41")))
}

func TestRepository_SaveOverwritesStatus(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupOrdersPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()

	order := newPendingOrder(t, "order-1", "", time.Now().UTC(), "prod-1")
	_, err := repo.Save(ctx, order)
	require.NoError(t, err)

	cancelled, err := order.Cancel()
	require.NoError(t, err)
	updated, err := repo.Save(ctx, cancelled)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, updated.Status())
}

func TestRepository_ListFilters(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupOrdersPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()
	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	_, err := repo.Save(ctx, newPendingOrder(t, "order-1", "cust-1", base, "prod-1"))
	require.NoError(t, err)
	_, err = repo.Save(ctx, newPendingOrder(t, "order-2", "cust-2", base.Add(time.Minute), "prod-2", "prod-3"))
	require.NoError(t, err)
	cancelled, err := newPendingOrder(t, "order-3", "cust-1", base.Add(2*time.Minute), "prod-3").Cancel()
	require.NoError(t, err)
	_, err = repo.Save(ctx, cancelled)
	require.NoError(t, err)

	all, err := repo.List(ctx, ports.ListFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "order-1", all[0].ID().String())

	byCustomer, err := repo.List(ctx, ports.ListFilter{CustomerID: "cust-1"})
	require.NoError(t, err)
	assert.Len(t, byCustomer, 2)

	byProduct, err := repo.List(ctx, ports.ListFilter{ProductID: "prod-3"})
	require.NoError(t, err)
	assert.Len(t, byProduct, 2)

	byStatus, err := repo.List(ctx, ports.ListFilter{Status: domain.StatusCancelled, ProductID: "prod-3"})
	require.NoError(t, err)
	require.Len(t, byStatus, 1)
	assert.Equal(t, "order-3", byStatus[0].ID().String())
}

func TestRepository_Delete(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupOrdersPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()

	order := newPendingOrder(t, "order-1", "", time.Now().UTC(), "prod-1")
	_, err := repo.Save(ctx, order)
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, order.ID()))
	_, err = repo.GetByID(ctx, order.ID())
	assert.ErrorIs(t, err, ports.ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, order.ID()), ports.ErrNotFound)
}

func TestIdempotencyStore_SaveConflictAndPurge(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupOrdersPostgresContainer(t)
	defer cleanup()

	store := NewIdempotencyStore(db)
	ctx := context.Background()
	old := time.Now().UTC().Add(-48 * time.Hour)

	saved, err := store.Save(ctx, ports.IdempotencyRecord{Key: "key-1", RequestHash: "hash", OrderID: "order-1", CreatedAt: old})
	require.NoError(t, err)
	assert.Equal(t, "order-1", saved.OrderID)

	replayed, err := store.Save(ctx, ports.IdempotencyRecord{Key: "key-1", RequestHash: "hash", OrderID: "order-1"})
	require.NoError(t, err)
	assert.Equal(t, "order-1", replayed.OrderID)

	existing, err := store.Save(ctx, ports.IdempotencyRecord{Key: "key-1", RequestHash: "other", OrderID: "order-2"})
	require.ErrorIs(t, err, ports.ErrIdempotencyConflict)
	assert.Equal(t, "order-1", existing.OrderID)

	_, err = store.Save(ctx, ports.IdempotencyRecord{Key: "key-2", RequestHash: "hash", OrderID: "order-2"})
	require.NoError(t, err)

	purged, err := store.PurgeOlderThan(ctx, time.Now().UTC().Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), purged)

	missing, err := store.Get(ctx, "key-1")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestRepository_LongIdentifiersRoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupOrdersPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	store := NewIdempotencyStore(db)
	ctx := context.Background()

	longID := "ord-" + strings.Repeat("x", 300)
	longCustomer := "cust-" + strings.Repeat("y", 300)
	order := newPendingOrder(t, longID, longCustomer, time.Now().UTC(), "prod-1")

	_, err := repo.Save(ctx, order)
	require.NoError(t, err)
	fetched, err := repo.GetByID(ctx, order.ID())
	require.NoError(t, err)
	assert.Equal(t, longID, fetched.ID().String())
	assert.Equal(t, longCustomer, fetched.CustomerID())

	longKey := strings.Repeat("k", 1024)
	saved, err := store.Save(ctx, ports.IdempotencyRecord{Key: longKey, RequestHash: "hash", OrderID: longID})
	require.NoError(t, err)
	assert.Equal(t, longID, saved.OrderID)
}
