package ports

import (
	"context"

	"github.com/Apurer/product-order-api/internal/domains/catalog/domain"
	"github.com/Apurer/product-order-api/internal/shared/auth"
)

// Service exposes catalog use cases to adapters. Mutations are restricted to administrators.
type Service interface {
	ListProducts(ctx context.Context) ([]*domain.Product, error)
	GetProduct(ctx context.Context, id int64) (*domain.Product, error)
	CreateProduct(ctx context.Context, caller auth.Caller, product domain.Product) (*domain.Product, error)
	UpdateProduct(ctx context.Context, caller auth.Caller, id int64, product domain.Product) error
	DeleteProduct(ctx context.Context, caller auth.Caller, id int64) (*domain.Product, error)
}
