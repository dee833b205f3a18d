package ports

import (
	"context"
	"errors"

	"github.com/Apurer/product-order-api/internal/domains/orders/domain"
)

var (
	ErrNotFound = errors.New("order not found")
	// ErrConcurrentModification means the stored version moved since the order was read.
	ErrConcurrentModification = errors.New("order was modified concurrently")
)

// Repository persists orders with their items. Updates are guarded by the order version.
type Repository interface {
	Find(ctx context.Context, id int64) (*domain.Order, error)
	Insert(ctx context.Context, order *domain.Order) (*domain.Order, error)
	// UpdateIfUnchanged writes order when the stored version equals expectedVersion and
	// returns it with the incremented version.
	UpdateIfUnchanged(ctx context.Context, order *domain.Order, expectedVersion int64) (*domain.Order, error)
	Delete(ctx context.Context, order *domain.Order) error
	FindByOwner(ctx context.Context, owner string) ([]*domain.Order, error)
	List(ctx context.Context) ([]*domain.Order, error)
}
