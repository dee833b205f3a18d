package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/Apurer/product-order-api/internal/domains/catalog/domain"
	"github.com/Apurer/product-order-api/internal/domains/catalog/ports"
)

// DemoProducts returns the starter catalog used for local environments.
func DemoProducts() []domain.Product {
	products := make([]domain.Product, 0, 3)
	for i := int64(1); i <= 3; i++ {
		measure := decimal.NewFromInt(10 * i)
		products = append(products, domain.Product{
			Name:        fmt.Sprintf("produto %d", i),
			Description: fmt.Sprintf("descrição %d", i),
			Color:       fmt.Sprintf("cor %d", i),
			Model:       fmt.Sprintf("MOD%d", i),
			Code:        fmt.Sprintf("COD%d", i),
			Price:       measure,
			Weight:      decimal.NewFromInt(i),
			Height:      measure,
			Width:       measure,
			Length:      measure,
			Diameter:    measure,
			URL:         fmt.Sprintf("www.site%d.com.br", i),
		})
	}
	return products
}

// SeedCatalog inserts each product whose code is not yet present and reports how many were added.
func SeedCatalog(ctx context.Context, repo ports.Repository, products []domain.Product) (int, error) {
	inserted := 0
	for i := range products {
		product := products[i]
		product.Normalize()
		if err := product.Validate(); err != nil {
			return inserted, fmt.Errorf("seed product %q: %w", product.Code, mapError(err))
		}
		_, err := repo.FindByCode(ctx, product.Code)
		if err == nil {
			continue
		}
		if !errors.Is(err, ports.ErrNotFound) {
			return inserted, err
		}
		if _, err := repo.Insert(ctx, &product); err != nil {
			return inserted, fmt.Errorf("seed product %q: %w", product.Code, mapError(err))
		}
		inserted++
	}
	return inserted, nil
}
