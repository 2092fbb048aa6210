package migrations

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Run applies the schema for the bounded contexts. Adapters never automigrate on their own.
func Run(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	return db.AutoMigrate(
		&orderRecord{},
		&orderIdempotencyRecord{},
		&customerRecord{},
	)
}

// Order schema mirrors the orders Postgres adapter. Items hold JSON-encoded lines.
type orderRecord struct {
	ID         string         `gorm:"primaryKey;column:id;type:text"`
	CustomerID string         `gorm:"column:customer_id;type:text;index"`
	Items      []byte         `gorm:"column:items;type:jsonb;not null"`
	ProductIDs pq.StringArray `gorm:"column:product_ids;type:text[];index:idx_orders_product_ids,type:gin"`
	Status     string         `gorm:"column:status;type:varchar(32);index"`
	CreatedAt  time.Time      `gorm:"column:created_at;index"`
	UpdatedAt  time.Time      `gorm:"column:updated_at"`
}

func (orderRecord) TableName() string { return "orders" }

type orderIdempotencyRecord struct {
	Key         string    `gorm:"primaryKey;column:key;type:text"`
	RequestHash string    `gorm:"column:request_hash;size:128"`
	OrderID     string    `gorm:"column:order_id;type:text"`
	CreatedAt   time.Time `gorm:"column:created_at;index"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (orderIdempotencyRecord) TableName() string { return "order_idempotency_keys" }

// Customer schema mirrors the customers Postgres adapter; email is unique.
type customerRecord struct {
	ID        string    `gorm:"primaryKey;column:id;type:text"`
	Name      string    `gorm:"column:name;size:200"`
	Email     string    `gorm:"column:email;size:320;uniqueIndex"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (customerRecord) TableName() string { return "customers" }
