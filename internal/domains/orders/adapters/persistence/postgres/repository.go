package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Apurer/clean-orders/internal/domains/orders/domain"
	"github.com/Apurer/clean-orders/internal/domains/orders/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists orders in PostgreSQL using GORM. Line items are kept in
// a JSON column; product ids are denormalized into a text[] column for filtering.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

type orderRecord struct {
	ID         string         `gorm:"primaryKey;column:id;type:text"`
	CustomerID string         `gorm:"column:customer_id;type:text;index"`
	Items      []itemRecord   `gorm:"column:items;serializer:json"`
	ProductIDs pq.StringArray `gorm:"column:product_ids;type:text[]"`
	Status     string         `gorm:"column:status;type:varchar(32);index"`
	CreatedAt  time.Time      `gorm:"column:created_at;index"`
	UpdatedAt  time.Time      `gorm:"column:updated_at"`
}

func (orderRecord) TableName() string { return "orders" }

type itemRecord struct {
	ProductID    string `json:"productId"`
	ProductName  string `json:"productName"`
	Quantity     int    `json:"quantity"`
	PricePerUnit string `json:"pricePerUnit"`
}

// Save inserts or replaces an order.
func (r *Repository) Save(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if order == nil {
		return nil, errors.New("order is nil")
	}
	record := toRecord(order)
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"customer_id": record.CustomerID,
				"items":       gorm.Expr("EXCLUDED.items"),
				"product_ids": record.ProductIDs,
				"status":      record.Status,
				"updated_at":  gorm.Expr("NOW()"),
			}),
		}).Create(&record).Error; err != nil {
		return nil, err
	}
	return r.GetByID(ctx, order.ID())
}

// GetByID fetches an order by identifier.
func (r *Repository) GetByID(ctx context.Context, id domain.OrderID) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record orderRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id.String()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain()
}

// List returns orders matching the filter, oldest first.
func (r *Repository) List(ctx context.Context, filter ports.ListFilter) ([]*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	query := r.db.WithContext(ctx).Model(&orderRecord{})
	if filter.Status != "" {
		query = query.Where("status = ?", string(filter.Status))
	}
	if filter.CustomerID != "" {
		query = query.Where("customer_id = ?", filter.CustomerID)
	}
	if filter.ProductID != "" {
		query = query.Where("? = ANY(product_ids)", filter.ProductID)
	}
	var records []orderRecord
	if err := query.Order("created_at ASC").Order("id ASC").Find(&records).Error; err != nil {
		return nil, err
	}
	orders := make([]*domain.Order, 0, len(records))
	for i := range records {
		order, err := records[i].toDomain()
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, nil
}

// Delete removes an order by identifier.
func (r *Repository) Delete(ctx context.Context, id domain.OrderID) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	result := r.db.WithContext(ctx).Delete(&orderRecord{}, "id = ?", id.String())
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres order repository not configured")
	}
	return nil
}

func toRecord(order *domain.Order) orderRecord {
	items := order.Items()
	rec := orderRecord{
		ID:         order.ID().String(),
		CustomerID: order.CustomerID(),
		Items:      make([]itemRecord, 0, len(items)),
		ProductIDs: make(pq.StringArray, 0, len(items)),
		Status:     string(order.Status()),
		CreatedAt:  order.CreatedAt(),
	}
	for _, item := range items {
		rec.Items = append(rec.Items, itemRecord{
			ProductID:    item.ProductID(),
			ProductName:  item.ProductName(),
			Quantity:     item.Quantity(),
			PricePerUnit: item.PricePerUnit().String(),
		})
		rec.ProductIDs = append(rec.ProductIDs, item.ProductID())
	}
	return rec
}

func (r orderRecord) toDomain() (*domain.Order, error) {
	status, err := domain.ParseStatus(r.Status)
	if err != nil {
		return nil, fmt.Errorf("order %s: %w", r.ID, err)
	}
	items := make([]domain.OrderItem, 0, len(r.Items))
	for _, it := range r.Items {
		price, err := decimal.NewFromString(it.PricePerUnit)
		if err != nil {
			return nil, fmt.Errorf("order %s: price of %s: %w", r.ID, it.ProductID, err)
		}
		items = append(items, domain.ReconstituteOrderItem(it.ProductID, it.ProductName, it.Quantity, price))
	}
	id, err := domain.NewOrderID(r.ID)
	if err != nil {
		return nil, err
	}
	return domain.Reconstitute(id, r.CustomerID, items, status, r.CreatedAt.UTC()), nil
}
