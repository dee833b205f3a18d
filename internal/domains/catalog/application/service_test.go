package application

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	catalogmemory "github.com/Apurer/product-order-api/internal/domains/catalog/adapters/memory"
	"github.com/Apurer/product-order-api/internal/domains/catalog/domain"
	"github.com/Apurer/product-order-api/internal/domains/catalog/ports"
	"github.com/Apurer/product-order-api/internal/shared/auth"
)

var (
	admin = auth.NewCaller("root", auth.RoleAdmin)
	buyer = auth.NewCaller("ana@example.com")
)

func newProduct(code, model string) domain.Product {
	return domain.Product{
		Name:     "Keyboard",
		Model:    model,
		Code:     code,
		Price:    decimal.RequireFromString("49.90"),
		Weight:   decimal.RequireFromString("0.8"),
		Height:   decimal.NewFromInt(10),
		Width:    decimal.NewFromInt(40),
		Length:   decimal.NewFromInt(15),
		Diameter: decimal.NewFromInt(10),
	}
}

func TestCreateProduct_AssignsID(t *testing.T) {
	svc := NewService(catalogmemory.NewRepository())
	input := newProduct("KB01", "K-1")
	input.ID = 99

	created, err := svc.CreateProduct(context.Background(), admin, input)
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.ID)
	assert.True(t, created.Price.Equal(decimal.RequireFromString("49.90")))
}

func TestCreateProduct_RequiresAdmin(t *testing.T) {
	svc := NewService(catalogmemory.NewRepository())

	_, err := svc.CreateProduct(context.Background(), buyer, newProduct("KB01", "K-1"))
	require.ErrorIs(t, err, auth.ErrForbidden)

	_, err = svc.CreateProduct(context.Background(), auth.Caller{}, newProduct("KB01", "K-1"))
	require.ErrorIs(t, err, auth.ErrUnauthenticated)
}

func TestCreateProduct_InvalidInput(t *testing.T) {
	svc := NewService(catalogmemory.NewRepository())
	input := newProduct("TOOLONGCODE", "K-1")

	_, err := svc.CreateProduct(context.Background(), admin, input)
	require.ErrorIs(t, err, ErrInvalidInput)
	require.ErrorIs(t, err, domain.ErrCodeTooLong)

	input = newProduct("KB01", "K-1")
	input.Weight = decimal.RequireFromString("0.125")
	_, err = svc.CreateProduct(context.Background(), admin, input)
	require.ErrorIs(t, err, ErrInvalidInput)
	require.ErrorIs(t, err, domain.ErrTooManyDecimals)
}

func TestCreateProduct_ReportsBothConflicts(t *testing.T) {
	ctx := context.Background()
	svc := NewService(catalogmemory.NewRepository())
	_, err := svc.CreateProduct(ctx, admin, newProduct("KB01", "K-1"))
	require.NoError(t, err)

	_, err = svc.CreateProduct(ctx, admin, newProduct("KB01", "K-1"))
	require.ErrorIs(t, err, ErrCodeTaken)
	require.ErrorIs(t, err, ErrModelTaken)
	require.ErrorIs(t, err, ErrDuplicate)

	_, err = svc.CreateProduct(ctx, admin, newProduct("KB02", "K-1"))
	require.ErrorIs(t, err, ErrModelTaken)
	require.NotErrorIs(t, err, ErrCodeTaken)
}

func TestUpdateProduct_IgnoresOwnValues(t *testing.T) {
	ctx := context.Background()
	svc := NewService(catalogmemory.NewRepository())
	created, err := svc.CreateProduct(ctx, admin, newProduct("KB01", "K-1"))
	require.NoError(t, err)

	update := *created
	update.Name = "Mechanical keyboard"
	require.NoError(t, svc.UpdateProduct(ctx, admin, created.ID, update))

	got, err := svc.GetProduct(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Mechanical keyboard", got.Name)
}

func TestUpdateProduct_Errors(t *testing.T) {
	ctx := context.Background()
	svc := NewService(catalogmemory.NewRepository())
	first, err := svc.CreateProduct(ctx, admin, newProduct("KB01", "K-1"))
	require.NoError(t, err)
	second, err := svc.CreateProduct(ctx, admin, newProduct("KB02", "K-2"))
	require.NoError(t, err)

	require.ErrorIs(t, svc.UpdateProduct(ctx, admin, first.ID, *second), ErrIDMismatch)

	missing := newProduct("KB03", "K-3")
	missing.ID = 42
	require.ErrorIs(t, svc.UpdateProduct(ctx, admin, 42, missing), ports.ErrNotFound)

	clash := *second
	clash.Code = first.Code
	require.ErrorIs(t, svc.UpdateProduct(ctx, admin, second.ID, clash), ErrCodeTaken)
}

func TestDeleteProduct_ReturnsDeleted(t *testing.T) {
	ctx := context.Background()
	svc := NewService(catalogmemory.NewRepository())
	created, err := svc.CreateProduct(ctx, admin, newProduct("KB01", "K-1"))
	require.NoError(t, err)

	deleted, err := svc.DeleteProduct(ctx, admin, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "KB01", deleted.Code)

	_, err = svc.GetProduct(ctx, created.ID)
	require.ErrorIs(t, err, ports.ErrNotFound)

	_, err = svc.DeleteProduct(ctx, admin, created.ID)
	require.ErrorIs(t, err, ports.ErrNotFound)
}

func TestSeedCatalog_IsIdempotent(t *testing.T) {
	ctx := context.Background()
	repo := catalogmemory.NewRepository()

	inserted, err := SeedCatalog(ctx, repo, DemoProducts())
	require.NoError(t, err)
	assert.Equal(t, 3, inserted)

	inserted, err = SeedCatalog(ctx, repo, DemoProducts())
	require.NoError(t, err)
	assert.Zero(t, inserted)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "COD1", list[0].Code)
}
