package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Apurer/product-order-api/internal/domains/orders/domain"
	"github.com/Apurer/product-order-api/internal/domains/orders/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists orders and their items in PostgreSQL using GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// orderRecord maps the order aggregate to the orders table. Items cascade on delete.
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

func (r *Repository) Find(ctx context.Context, id int64) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record orderRecord
	if err := r.db.WithContext(ctx).Preload("Items", orderItems).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

// Insert stores the order with its items in one transaction at version 1.
func (r *Repository) Insert(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if order == nil {
		return nil, errors.New("order is nil")
	}
	record := toRecord(order)
	record.ID = 0
	record.Version = 1
	for i := range record.Items {
		record.Items[i].ID = 0
		record.Items[i].OrderID = 0
	}
	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		return nil, err
	}
	return record.toDomain(), nil
}

// UpdateIfUnchanged writes the header columns guarded by the version. Items are not rewritten.
func (r *Repository) UpdateIfUnchanged(ctx context.Context, order *domain.Order, expectedVersion int64) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if order == nil {
		return nil, errors.New("order is nil")
	}
	record := toRecord(order)
	result := r.db.WithContext(ctx).Model(&orderRecord{}).
		Where("id = ? AND version = ?", record.ID, expectedVersion).
		Updates(map[string]any{
			"username":      record.Owner,
			"delivery_date": record.DeliveryDate,
			"status":        record.Status,
			"total_price":   record.TotalPrice,
			"total_weight":  record.TotalWeight,
			"freight_price": record.FreightPrice,
			"version":       gorm.Expr("version + 1"),
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := r.db.WithContext(ctx).Model(&orderRecord{}).Where("id = ?", record.ID).Count(&count).Error; err != nil {
			return nil, err
		}
		if count == 0 {
			return nil, ports.ErrNotFound
		}
		return nil, ports.ErrConcurrentModification
	}
	return r.Find(ctx, record.ID)
}

func (r *Repository) Delete(ctx context.Context, order *domain.Order) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	if order == nil {
		return errors.New("order is nil")
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", order.ID).Delete(&orderItemRecord{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&orderRecord{}, order.ID)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ports.ErrNotFound
		}
		return nil
	})
}

func (r *Repository) FindByOwner(ctx context.Context, owner string) ([]*domain.Order, error) {
	return r.find(ctx, func(db *gorm.DB) *gorm.DB {
		return db.Where("LOWER(username) = LOWER(?)", owner)
	})
}

func (r *Repository) List(ctx context.Context) ([]*domain.Order, error) {
	return r.find(ctx, func(db *gorm.DB) *gorm.DB { return db })
}

func (r *Repository) find(ctx context.Context, scope func(*gorm.DB) *gorm.DB) ([]*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []orderRecord
	if err := r.db.WithContext(ctx).Scopes(scope).Preload("Items", orderItems).Order("id").Find(&records).Error; err != nil {
		return nil, err
	}
	orders := make([]*domain.Order, 0, len(records))
	for i := range records {
		orders = append(orders, records[i].toDomain())
	}
	return orders, nil
}

func orderItems(db *gorm.DB) *gorm.DB {
	return db.Order("id")
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres order repository not configured")
	}
	return nil
}

func toRecord(order *domain.Order) orderRecord {
	rec := orderRecord{
		ID:           order.ID,
		Owner:        order.Owner,
		CreatedAt:    order.CreatedAt,
		DeliveryDate: order.DeliveryDate,
		Status:       string(order.Status),
		TotalPrice:   order.TotalPrice,
		TotalWeight:  order.TotalWeight,
		FreightPrice: order.FreightPrice,
		Version:      order.Version,
	}
	for _, item := range order.Items {
		rec.Items = append(rec.Items, orderItemRecord{
			ID:        item.ID,
			OrderID:   item.OrderID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		})
	}
	return rec
}

func (r orderRecord) toDomain() *domain.Order {
	order := &domain.Order{
		ID:           r.ID,
		Owner:        r.Owner,
		CreatedAt:    r.CreatedAt.UTC(),
		Status:       domain.Status(r.Status),
		TotalPrice:   r.TotalPrice,
		TotalWeight:  r.TotalWeight,
		FreightPrice: r.FreightPrice,
		Version:      r.Version,
		Items:        make([]domain.Item, 0, len(r.Items)),
	}
	if r.DeliveryDate != nil {
		delivery := r.DeliveryDate.UTC()
		order.DeliveryDate = &delivery
	}
	for _, item := range r.Items {
		order.Items = append(order.Items, domain.Item{
			ID:        item.ID,
			OrderID:   item.OrderID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		})
	}
	return order
}
