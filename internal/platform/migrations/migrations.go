package migrations

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Run applies the schema for the catalog and orders contexts.
func Run(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	return db.AutoMigrate(
		&productRecord{},
		&orderRecord{},
		&orderItemRecord{},
	)
}

// Product schema mirrors the catalog Postgres adapter.
type productRecord struct {
	ID          int64           `gorm:"primaryKey;column:id"`
	Name        string          `gorm:"column:name;not null"`
	Description string          `gorm:"column:description"`
	Color       string          `gorm:"column:color"`
	Model       string          `gorm:"column:model;not null;uniqueIndex"`
	Code        string          `gorm:"column:code;type:varchar(8);not null;uniqueIndex"`
	Price       decimal.Decimal `gorm:"column:price;type:numeric(18,2)"`
	Weight      decimal.Decimal `gorm:"column:weight;type:numeric(18,2)"`
	Height      decimal.Decimal `gorm:"column:height;type:numeric(18,2)"`
	Width       decimal.Decimal `gorm:"column:width;type:numeric(18,2)"`
	Length      decimal.Decimal `gorm:"column:length;type:numeric(18,2)"`
	Diameter    decimal.Decimal `gorm:"column:diameter;type:numeric(18,2)"`
	URL         string          `gorm:"column:url;type:varchar(80)"`
	CreatedAt   time.Time       `gorm:"column:created_at"`
	UpdatedAt   time.Time       `gorm:"column:updated_at"`
}

func (productRecord) TableName() string { return "products" }

// Order schema mirrors the orders Postgres adapter.
type orderRecord struct {
	ID           int64             `gorm:"primaryKey;column:id"`
	Owner        string            `gorm:"column:username;not null;index"`
	CreatedAt    time.Time         `gorm:"column:created_at"`
	DeliveryDate *time.Time        `gorm:"column:delivery_date"`
	Status       string            `gorm:"column:status;type:varchar(10);not null"`
	TotalPrice   decimal.Decimal   `gorm:"column:total_price;type:numeric(18,2)"`
	TotalWeight  decimal.Decimal   `gorm:"column:total_weight;type:numeric(18,2)"`
	FreightPrice decimal.Decimal   `gorm:"column:freight_price;type:numeric(18,2)"`
	Version      int64             `gorm:"column:version;not null;default:1"`
	Items        []orderItemRecord `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

func (orderRecord) TableName() string { return "orders" }

type orderItemRecord struct {
	ID        int64 `gorm:"primaryKey;column:id"`
	OrderID   int64 `gorm:"column:order_id;not null;index"`
	ProductID int64 `gorm:"column:product_id;not null;index"`
	Quantity  int32 `gorm:"column:quantity;not null"`
}

func (orderItemRecord) TableName() string { return "order_items" }
