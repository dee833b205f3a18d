package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Apurer/product-order-api/internal/domains/catalog/domain"
	"github.com/Apurer/product-order-api/internal/domains/catalog/ports"
	"github.com/Apurer/product-order-api/internal/platform/postgres"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists products in PostgreSQL using GORM. Schema is owned by platform/migrations.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// productRecord maps the product to the products table.
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

func (r *Repository) Insert(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if product == nil {
		return nil, errors.New("product is nil")
	}
	record := toRecord(product)
	record.ID = 0
	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		return nil, translate(err)
	}
	return record.toDomain(), nil
}

// Update overwrites every attribute of an existing product.
func (r *Repository) Update(ctx context.Context, product *domain.Product) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	if product == nil {
		return errors.New("product is nil")
	}
	record := toRecord(product)
	result := r.db.WithContext(ctx).Model(&productRecord{}).
		Where("id = ?", record.ID).
		Updates(map[string]any{
			"name":        record.Name,
			"description": record.Description,
			"color":       record.Color,
			"model":       record.Model,
			"code":        record.Code,
			"price":       record.Price,
			"weight":      record.Weight,
			"height":      record.Height,
			"width":       record.Width,
			"length":      record.Length,
			"diameter":    record.Diameter,
			"url":         record.URL,
			"updated_at":  gorm.Expr("NOW()"),
		})
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

func (r *Repository) Get(ctx context.Context, id int64) (*domain.Product, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *Repository) GetByIDs(ctx context.Context, ids []int64) (map[int64]*domain.Product, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	found := make(map[int64]*domain.Product, len(ids))
	if len(ids) == 0 {
		return found, nil
	}
	var records []productRecord
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&records).Error; err != nil {
		return nil, err
	}
	for i := range records {
		found[records[i].ID] = records[i].toDomain()
	}
	return found, nil
}

func (r *Repository) FindByCode(ctx context.Context, code string) (*domain.Product, error) {
	return r.first(ctx, "code = ?", code)
}

func (r *Repository) FindByModel(ctx context.Context, model string) (*domain.Product, error) {
	return r.first(ctx, "model = ?", model)
}

func (r *Repository) Delete(ctx context.Context, id int64) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	result := r.db.WithContext(ctx).Delete(&productRecord{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

func (r *Repository) List(ctx context.Context) ([]*domain.Product, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []productRecord
	if err := r.db.WithContext(ctx).Order("id").Find(&records).Error; err != nil {
		return nil, err
	}
	products := make([]*domain.Product, 0, len(records))
	for i := range records {
		products = append(products, records[i].toDomain())
	}
	return products, nil
}

func (r *Repository) first(ctx context.Context, query string, arg any) (*domain.Product, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record productRecord
	if err := r.db.WithContext(ctx).Where(query, arg).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres product repository not configured")
	}
	return nil
}

func translate(err error) error {
	if postgres.IsUniqueViolation(err) {
		return ports.ErrUniqueViolation
	}
	return err
}

func toRecord(product *domain.Product) productRecord {
	return productRecord{
		ID:          product.ID,
		Name:        product.Name,
		Description: product.Description,
		Color:       product.Color,
		Model:       product.Model,
		Code:        product.Code,
		Price:       product.Price,
		Weight:      product.Weight,
		Height:      product.Height,
		Width:       product.Width,
		Length:      product.Length,
		Diameter:    product.Diameter,
		URL:         product.URL,
	}
}

func (r productRecord) toDomain() *domain.Product {
	return &domain.Product{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		Color:       r.Color,
		Model:       r.Model,
		Code:        r.Code,
		Price:       r.Price,
		Weight:      r.Weight,
		Height:      r.Height,
		Width:       r.Width,
		Length:      r.Length,
		Diameter:    r.Diameter,
		URL:         r.URL,
	}
}
