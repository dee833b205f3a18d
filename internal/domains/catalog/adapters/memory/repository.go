package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/Apurer/product-order-api/internal/domains/catalog/domain"
	"github.com/Apurer/product-order-api/internal/domains/catalog/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is an in-memory product persistence adapter. Code and model stay unique.
type Repository struct {
	mu       sync.RWMutex
	products map[int64]*domain.Product
	nextID   int64
}

func NewRepository() *Repository {
	return &Repository{products: map[int64]*domain.Product{}}
}

func (r *Repository) Insert(_ context.Context, product *domain.Product) (*domain.Product, error) {
	if product == nil {
		return nil, errors.New("product is nil")
	}
	clone := *product
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.conflictsLocked(&clone) {
		return nil, ports.ErrUniqueViolation
	}
	r.nextID++
	clone.ID = r.nextID
	r.products[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *Repository) Update(_ context.Context, product *domain.Product) error {
	if product == nil {
		return errors.New("product is nil")
	}
	clone := *product
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.products[clone.ID]; !ok {
		return ports.ErrNotFound
	}
	if r.conflictsLocked(&clone) {
		return ports.ErrUniqueViolation
	}
	r.products[clone.ID] = &clone
	return nil
}

func (r *Repository) Get(_ context.Context, id int64) (*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	product, ok := r.products[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	clone := *product
	return &clone, nil
}

func (r *Repository) GetByIDs(_ context.Context, ids []int64) (map[int64]*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	found := make(map[int64]*domain.Product, len(ids))
	for _, id := range ids {
		if product, ok := r.products[id]; ok {
			clone := *product
			found[id] = &clone
		}
	}
	return found, nil
}

func (r *Repository) FindByCode(_ context.Context, code string) (*domain.Product, error) {
	return r.findBy(func(p *domain.Product) bool { return p.Code == code })
}

func (r *Repository) FindByModel(_ context.Context, model string) (*domain.Product, error) {
	return r.findBy(func(p *domain.Product) bool { return p.Model == model })
}

func (r *Repository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.products[id]; !ok {
		return ports.ErrNotFound
	}
	delete(r.products, id)
	return nil
}

// List returns products ordered by identifier.
func (r *Repository) List(_ context.Context) ([]*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]*domain.Product, 0, len(r.products))
	for _, product := range r.products {
		clone := *product
		list = append(list, &clone)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

func (r *Repository) findBy(match func(*domain.Product) bool) (*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, product := range r.products {
		if match(product) {
			clone := *product
			return &clone, nil
		}
	}
	return nil, ports.ErrNotFound
}

func (r *Repository) conflictsLocked(candidate *domain.Product) bool {
	for id, existing := range r.products {
		if id == candidate.ID {
			continue
		}
		if existing.Code == candidate.Code || existing.Model == candidate.Model {
			return true
		}
	}
	return false
}
