package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Apurer/clean-orders/internal/domains/customers/domain"
	"github.com/Apurer/clean-orders/internal/domains/customers/ports"
	"github.com/Apurer/clean-orders/internal/shared/projection"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists customers in PostgreSQL using GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

type customerRecord struct {
	ID        string    `gorm:"primaryKey;column:id;type:text"`
	Name      string    `gorm:"column:name;size:200"`
	Email     string    `gorm:"column:email;size:320;uniqueIndex"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (customerRecord) TableName() string { return "customers" }

// Save inserts or updates a customer keyed by id.
func (r *Repository) Save(ctx context.Context, customer *domain.Customer) (*projection.Projection[*domain.Customer], error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, errors.New("customer is nil")
	}
	record := customerRecord{
		ID:    customer.ID().String(),
		Name:  customer.Name().String(),
		Email: customer.Email().String(),
	}
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"name":       record.Name,
				"email":      record.Email,
				"updated_at": gorm.Expr("NOW()"),
			}),
		}).Create(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ports.ErrDuplicateEmail
		}
		return nil, err
	}
	return r.GetByID(ctx, customer.ID())
}

func (r *Repository) GetByID(ctx context.Context, id domain.CustomerID) (*projection.Projection[*domain.Customer], error) {
	return r.first(ctx, "id = ?", id.String())
}

func (r *Repository) GetByEmail(ctx context.Context, email domain.CustomerEmail) (*projection.Projection[*domain.Customer], error) {
	return r.first(ctx, "email = ?", email.String())
}

// List returns every customer ordered by id.
func (r *Repository) List(ctx context.Context) ([]*projection.Projection[*domain.Customer], error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []customerRecord
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&records).Error; err != nil {
		return nil, err
	}
	list := make([]*projection.Projection[*domain.Customer], 0, len(records))
	for i := range records {
		list = append(list, records[i].toProjection())
	}
	return list, nil
}

func (r *Repository) first(ctx context.Context, query string, arg string) (*projection.Projection[*domain.Customer], error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record customerRecord
	if err := r.db.WithContext(ctx).First(&record, query, arg).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toProjection(), nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres customer repository not configured")
	}
	return nil
}

func (r customerRecord) toProjection() *projection.Projection[*domain.Customer] {
	return &projection.Projection[*domain.Customer]{
		Entity:   domain.ReconstituteCustomer(r.ID, r.Name, r.Email),
		Metadata: projection.Metadata{CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt},
	}
}
