package application

import (
	"context"
	"errors"

	"github.com/Apurer/product-order-api/internal/domains/catalog/domain"
	"github.com/Apurer/product-order-api/internal/domains/catalog/ports"
	"github.com/Apurer/product-order-api/internal/shared/auth"
)

// Service orchestrates catalog use cases.
type Service struct {
	repo ports.Repository
}

func NewService(repo ports.Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) ListProducts(ctx context.Context) ([]*domain.Product, error) {
	return s.repo.List(ctx)
}

func (s *Service) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	return s.repo.Get(ctx, id)
}

// CreateProduct ignores any client supplied identifier; the store assigns one.
func (s *Service) CreateProduct(ctx context.Context, caller auth.Caller, product domain.Product) (*domain.Product, error) {
	if err := caller.RequireAdmin(); err != nil {
		return nil, err
	}
	product.ID = 0
	product.Normalize()
	if err := product.Validate(); err != nil {
		return nil, mapError(err)
	}
	if err := s.ensureUnique(ctx, &product); err != nil {
		return nil, err
	}
	created, err := s.repo.Insert(ctx, &product)
	if err != nil {
		return nil, mapError(err)
	}
	return created, nil
}

func (s *Service) UpdateProduct(ctx context.Context, caller auth.Caller, id int64, product domain.Product) error {
	if err := caller.RequireAdmin(); err != nil {
		return err
	}
	if product.ID != id {
		return ErrIDMismatch
	}
	if _, err := s.repo.Get(ctx, id); err != nil {
		return err
	}
	product.Normalize()
	if err := product.Validate(); err != nil {
		return mapError(err)
	}
	if err := s.ensureUnique(ctx, &product); err != nil {
		return err
	}
	return mapError(s.repo.Update(ctx, &product))
}

func (s *Service) DeleteProduct(ctx context.Context, caller auth.Caller, id int64) (*domain.Product, error) {
	if err := caller.RequireAdmin(); err != nil {
		return nil, err
	}
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return nil, err
	}
	return existing, nil
}

// ensureUnique collects both code and model conflicts before failing, skipping the product's own row.
func (s *Service) ensureUnique(ctx context.Context, product *domain.Product) error {
	dup := &DuplicateError{}
	byCode, err := s.repo.FindByCode(ctx, product.Code)
	switch {
	case err == nil:
		dup.CodeTaken = byCode.ID != product.ID
	case !errors.Is(err, ports.ErrNotFound):
		return err
	}
	byModel, err := s.repo.FindByModel(ctx, product.Model)
	switch {
	case err == nil:
		dup.ModelTaken = byModel.ID != product.ID
	case !errors.Is(err, ports.ErrNotFound):
		return err
	}
	if dup.CodeTaken || dup.ModelTaken {
		return dup
	}
	return nil
}

var _ ports.Service = (*Service)(nil)
