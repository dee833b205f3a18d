package ports

import (
	"context"
	"errors"

	"github.com/Apurer/product-order-api/internal/domains/catalog/domain"
)

var (
	ErrNotFound = errors.New("product not found")

	// ErrUniqueViolation is returned when the store rejects a duplicate code or model.
	ErrUniqueViolation = errors.New("product code or model already exists")
)

// Repository persists catalog products.
type Repository interface {
	Insert(ctx context.Context, product *domain.Product) (*domain.Product, error)
	Update(ctx context.Context, product *domain.Product) error
	Get(ctx context.Context, id int64) (*domain.Product, error)
	GetByIDs(ctx context.Context, ids []int64) (map[int64]*domain.Product, error)
	FindByCode(ctx context.Context, code string) (*domain.Product, error)
	FindByModel(ctx context.Context, model string) (*domain.Product, error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context) ([]*domain.Product, error)
}
