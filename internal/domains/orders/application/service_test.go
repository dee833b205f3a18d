package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	catalogmemory "github.com/Apurer/product-order-api/internal/domains/catalog/adapters/memory"
	catalogdomain "github.com/Apurer/product-order-api/internal/domains/catalog/domain"
	ordersmemory "github.com/Apurer/product-order-api/internal/domains/orders/adapters/memory"
	"github.com/Apurer/product-order-api/internal/domains/orders/domain"
	"github.com/Apurer/product-order-api/internal/domains/orders/ports"
	"github.com/Apurer/product-order-api/internal/shared/auth"
)

var (
	fixedNow = time.Date(2024, 5, 10, 9, 30, 0, 0, time.UTC)
	alice    = auth.NewCaller("alice")
	bob      = auth.NewCaller("bob")
	admin    = auth.NewCaller("root", auth.RoleAdmin)
)

type fakeDirectory struct {
	zips  map[string]string
	err   error
	calls []string
}

func (f *fakeDirectory) FindCustomer(_ context.Context, identity string) (*ports.Customer, error) {
	f.calls = append(f.calls, identity)
	if f.err != nil {
		return nil, f.err
	}
	zip, ok := f.zips[identity]
	if !ok {
		return nil, ports.ErrCustomerNotFound
	}
	return &ports.Customer{Email: identity, Zip: zip}, nil
}

type fakeQuoter struct {
	resp     *ports.QuoteResponse
	err      error
	requests []ports.QuoteRequest
	onQuote  func()
}

func (f *fakeQuoter) Quote(_ context.Context, req ports.QuoteRequest) (*ports.QuoteResponse, error) {
	f.requests = append(f.requests, req)
	if f.onQuote != nil {
		f.onQuote()
	}
	return f.resp, f.err
}

type countingRepo struct {
	ports.Repository
	updates int
}

func (r *countingRepo) UpdateIfUnchanged(ctx context.Context, order *domain.Order, expected int64) (*domain.Order, error) {
	r.updates++
	return r.Repository.UpdateIfUnchanged(ctx, order, expected)
}

func accepted(price, days string) *ports.QuoteResponse {
	return &ports.QuoteResponse{Services: []ports.QuoteServiceResult{{ServiceCode: "40010", ErrorCode: "0", Price: price, LeadTimeDays: days}}}
}

type fixture struct {
	svc       *Service
	repo      *countingRepo
	products  *catalogmemory.Repository
	directory *fakeDirectory
	quoter    *fakeQuoter
	order     *domain.Order
}

// newFixture stores one product (weight 2.00, price 20, all sides 10) and an order of three owned by alice.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	products := catalogmemory.NewRepository()
	product, err := products.Insert(ctx, &catalogdomain.Product{
		Name:     "Box",
		Model:    "B-1",
		Code:     "BOX1",
		Price:    decimal.NewFromInt(20),
		Weight:   decimal.RequireFromString("2.00"),
		Height:   decimal.NewFromInt(10),
		Width:    decimal.NewFromInt(10),
		Length:   decimal.NewFromInt(10),
		Diameter: decimal.NewFromInt(10),
	})
	require.NoError(t, err)

	repo := &countingRepo{Repository: ordersmemory.NewRepository()}
	order, err := domain.NewOrder("alice", []domain.Item{{ProductID: product.ID, Quantity: 3}}, fixedNow)
	require.NoError(t, err)
	order, err = repo.Insert(ctx, order)
	require.NoError(t, err)

	directory := &fakeDirectory{zips: map[string]string{"alice": "12345"}}
	quoter := &fakeQuoter{resp: accepted("15.50", "5")}
	svc := NewService(repo, products, directory, quoter, WithClock(func() time.Time { return fixedNow }))
	return &fixture{svc: svc, repo: repo, products: products, directory: directory, quoter: quoter, order: order}
}

func TestRequestQuoteAndClose_Success(t *testing.T) {
	f := newFixture(t)

	closed, err := f.svc.RequestQuoteAndClose(context.Background(), ports.CloseOrderInput{OrderID: f.order.ID, Caller: alice})
	require.NoError(t, err)

	assert.Equal(t, domain.StatusClosed, closed.Status)
	assert.True(t, closed.FreightPrice.Equal(decimal.RequireFromString("15.50")))
	assert.True(t, closed.TotalPrice.Equal(decimal.NewFromInt(60)))
	assert.Equal(t, "6.00", closed.TotalWeight.StringFixed(2))
	require.NotNil(t, closed.DeliveryDate)
	assert.Equal(t, fixedNow.AddDate(0, 0, 5), *closed.DeliveryDate)
	assert.Equal(t, f.order.Version+1, closed.Version)

	assert.Equal(t, []string{"alice"}, f.directory.calls)
	require.Len(t, f.quoter.requests, 1)
	req := f.quoter.requests[0]
	assert.Equal(t, DefaultOriginZip, req.OriginZip)
	assert.Equal(t, "12345", req.DestinationZip)
	assert.Equal(t, DefaultServiceCode, req.ServiceCode)
	assert.Equal(t, "6.00", req.WeightKg)
	assert.Equal(t, 1, req.PackageCount)
	assert.Equal(t, "10", req.Length)
	assert.Equal(t, "10", req.Width)
	assert.Equal(t, "30", req.Height)
	assert.Equal(t, "30", req.Diameter)
	assert.Equal(t, "60.00", req.DeclaredValue)
	assert.Equal(t, 1, f.repo.updates)

	stored, err := f.repo.Find(context.Background(), f.order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusClosed, stored.Status)
}

func TestRequestQuoteAndClose_RejectionLeavesOrderUntouched(t *testing.T) {
	f := newFixture(t)
	f.quoter.resp = &ports.QuoteResponse{Services: []ports.QuoteServiceResult{{ErrorCode: "8", ErrorMessage: "CEP inválido"}}}

	_, err := f.svc.RequestQuoteAndClose(context.Background(), ports.CloseOrderInput{OrderID: f.order.ID, Caller: alice})
	require.ErrorIs(t, err, ErrQuoteRejected)
	var rejected *QuoteRejectedError
	require.True(t, errors.As(err, &rejected))
	assert.Equal(t, "8", rejected.Code)
	assert.Equal(t, "CEP inválido", rejected.Message)

	stored, err := f.repo.Find(context.Background(), f.order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusNew, stored.Status)
	assert.True(t, stored.FreightPrice.IsZero())
	assert.True(t, stored.TotalPrice.IsZero())
	assert.True(t, stored.TotalWeight.IsZero())
	assert.Nil(t, stored.DeliveryDate)
	assert.Equal(t, f.order.Version, stored.Version)
	assert.Zero(t, f.repo.updates)
}

func TestRequestQuoteAndClose_SecondCallIsAlreadyClosed(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.svc.RequestQuoteAndClose(ctx, ports.CloseOrderInput{OrderID: f.order.ID, Caller: alice})
	require.NoError(t, err)

	_, err = f.svc.RequestQuoteAndClose(ctx, ports.CloseOrderInput{OrderID: f.order.ID, Caller: alice})
	require.ErrorIs(t, err, domain.ErrAlreadyClosed)
	assert.Len(t, f.directory.calls, 1)
	assert.Len(t, f.quoter.requests, 1)
	assert.Equal(t, 1, f.repo.updates)
}

func TestRequestQuoteAndClose_ForbiddenAndMissing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.RequestQuoteAndClose(ctx, ports.CloseOrderInput{OrderID: f.order.ID, Caller: bob})
	require.ErrorIs(t, err, auth.ErrForbidden)

	_, err = f.svc.RequestQuoteAndClose(ctx, ports.CloseOrderInput{OrderID: 999, Caller: alice})
	require.ErrorIs(t, err, ports.ErrNotFound)

	assert.Empty(t, f.directory.calls)
	assert.Empty(t, f.quoter.requests)
	assert.Zero(t, f.repo.updates)
}

func TestRequestQuoteAndClose_EmptyOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	empty, err := domain.NewOrder("alice", nil, fixedNow)
	require.NoError(t, err)
	empty, err = f.repo.Insert(ctx, empty)
	require.NoError(t, err)

	_, err = f.svc.RequestQuoteAndClose(ctx, ports.CloseOrderInput{OrderID: empty.ID, Caller: alice})
	require.ErrorIs(t, err, domain.ErrEmptyOrder)
	assert.Empty(t, f.directory.calls)
}

func TestRequestQuoteAndClose_DirectoryFailure(t *testing.T) {
	f := newFixture(t)
	f.directory.zips = map[string]string{}

	_, err := f.svc.RequestQuoteAndClose(context.Background(), ports.CloseOrderInput{OrderID: f.order.ID, Caller: alice})
	require.ErrorIs(t, err, ErrDirectoryLookupFailed)
	assert.Empty(t, f.quoter.requests)

	f.directory.err = errors.New("crm down")
	_, err = f.svc.RequestQuoteAndClose(context.Background(), ports.CloseOrderInput{OrderID: f.order.ID, Caller: alice})
	require.ErrorIs(t, err, ErrDirectoryLookupFailed)
}

func TestRequestQuoteAndClose_AdminUsesOwnerZip(t *testing.T) {
	f := newFixture(t)

	closed, err := f.svc.RequestQuoteAndClose(context.Background(), ports.CloseOrderInput{OrderID: f.order.ID, Caller: admin})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusClosed, closed.Status)
	assert.Equal(t, []string{"alice"}, f.directory.calls)
}

func TestRequestQuoteAndClose_ConcurrentModification(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.quoter.onQuote = func() {
		racer, err := f.repo.Repository.Find(ctx, f.order.ID)
		require.NoError(t, err)
		_, err = f.repo.Repository.UpdateIfUnchanged(ctx, racer, racer.Version)
		require.NoError(t, err)
	}

	_, err := f.svc.RequestQuoteAndClose(ctx, ports.CloseOrderInput{OrderID: f.order.ID, Caller: alice})
	require.ErrorIs(t, err, ports.ErrConcurrentModification)

	stored, err := f.repo.Find(ctx, f.order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusNew, stored.Status)
}

func TestRequestQuoteAndClose_IfMatch(t *testing.T) {
	f := newFixture(t)
	stale := f.order.Version + 3

	_, err := f.svc.RequestQuoteAndClose(context.Background(), ports.CloseOrderInput{OrderID: f.order.ID, Caller: alice, IfMatchVersion: &stale})
	require.ErrorIs(t, err, ErrPreconditionFailed)
	assert.Empty(t, f.directory.calls)

	current := f.order.Version
	_, err = f.svc.RequestQuoteAndClose(context.Background(), ports.CloseOrderInput{OrderID: f.order.ID, Caller: alice, IfMatchVersion: &current})
	require.NoError(t, err)
}

func TestRequestQuoteAndClose_ClosedOrderIgnoresIfMatch(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	readVersion := f.order.Version
	_, err := f.svc.RequestQuoteAndClose(ctx, ports.CloseOrderInput{OrderID: f.order.ID, Caller: alice})
	require.NoError(t, err)

	_, err = f.svc.RequestQuoteAndClose(ctx, ports.CloseOrderInput{OrderID: f.order.ID, Caller: alice, IfMatchVersion: &readVersion})
	require.ErrorIs(t, err, domain.ErrAlreadyClosed)
	require.NotErrorIs(t, err, ErrPreconditionFailed)
	assert.Equal(t, 1, f.repo.updates)
}

func TestRequestQuoteAndClose_UnusableCarrierAnswer(t *testing.T) {
	cases := map[string]*fakeQuoter{
		"transport":   {err: errors.New("connection reset")},
		"no services": {resp: &ports.QuoteResponse{}},
		"bad price":   {resp: accepted("abc", "5")},
		"bad days":    {resp: accepted("10.00", "soon")},
		"negative":    {resp: accepted("-1", "5")},
	}
	for name, quoter := range cases {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t)
			f.svc.quoter = quoter
			_, err := f.svc.RequestQuoteAndClose(context.Background(), ports.CloseOrderInput{OrderID: f.order.ID, Caller: alice})
			require.ErrorIs(t, err, ErrQuoteUnavailable)
			assert.Zero(t, f.repo.updates)
		})
	}
}

func TestRequestQuoteAndClose_ProductRemoved(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.products.Delete(context.Background(), f.order.Items[0].ProductID))

	_, err := f.svc.RequestQuoteAndClose(context.Background(), ports.CloseOrderInput{OrderID: f.order.ID, Caller: alice})
	require.ErrorIs(t, err, ErrPreconditionFailed)
	assert.Empty(t, f.quoter.requests)
}

func TestEstimateFreight_DoesNotWrite(t *testing.T) {
	f := newFixture(t)

	estimate, err := f.svc.EstimateFreight(context.Background(), alice, f.order.ID)
	require.NoError(t, err)
	assert.Equal(t, "12345", estimate.DestinationZip)
	assert.True(t, estimate.FreightPrice.Equal(decimal.RequireFromString("15.50")))
	assert.Equal(t, 5, estimate.LeadTimeDays)
	assert.Equal(t, fixedNow.AddDate(0, 0, 5), estimate.DeliveryDate)
	assert.Zero(t, f.repo.updates)
}

func TestCreateOrder_ForcesInitialState(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	productID := f.order.Items[0].ProductID
	input := ports.CreateOrderInput{Owner: "mallory", Items: []ports.ItemInput{{ProductID: productID, Quantity: 1}}}

	created, err := f.svc.CreateOrder(ctx, alice, input)
	require.NoError(t, err)
	assert.Equal(t, "alice", created.Owner)
	assert.Equal(t, domain.StatusNew, created.Status)
	assert.Equal(t, fixedNow, created.CreatedAt)
	assert.True(t, created.FreightPrice.IsZero())

	created, err = f.svc.CreateOrder(ctx, admin, input)
	require.NoError(t, err)
	assert.Equal(t, "mallory", created.Owner)
}

func TestCreateOrder_Invalid(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.CreateOrder(ctx, alice, ports.CreateOrderInput{Items: []ports.ItemInput{{ProductID: 404, Quantity: 1}}})
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.svc.CreateOrder(ctx, alice, ports.CreateOrderInput{Items: []ports.ItemInput{{ProductID: 1, Quantity: 0}}})
	require.ErrorIs(t, err, ErrInvalidInput)
	require.ErrorIs(t, err, domain.ErrInvalidQuantity)

	_, err = f.svc.CreateOrder(ctx, auth.Caller{}, ports.CreateOrderInput{})
	require.ErrorIs(t, err, auth.ErrUnauthenticated)
}

func TestOrderQueries_Authorization(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.GetOrder(ctx, bob, f.order.ID)
	require.ErrorIs(t, err, auth.ErrForbidden)
	got, err := f.svc.GetOrder(ctx, admin, f.order.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Owner)

	_, err = f.svc.ListOrders(ctx, alice)
	require.ErrorIs(t, err, auth.ErrForbidden)
	all, err := f.svc.ListOrders(ctx, admin)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	owned, err := f.svc.ListOrdersByOwner(ctx, alice, "")
	require.NoError(t, err)
	assert.Len(t, owned, 1)
	_, err = f.svc.ListOrdersByOwner(ctx, bob, "alice")
	require.ErrorIs(t, err, auth.ErrForbidden)

	_, err = f.svc.DeleteOrder(ctx, bob, f.order.ID)
	require.ErrorIs(t, err, auth.ErrForbidden)
	deleted, err := f.svc.DeleteOrder(ctx, alice, f.order.ID)
	require.NoError(t, err)
	assert.Equal(t, f.order.ID, deleted.ID)
	_, err = f.svc.GetOrder(ctx, alice, f.order.ID)
	require.ErrorIs(t, err, ports.ErrNotFound)
}

func TestResolveZip(t *testing.T) {
	f := newFixture(t)
	zip, err := f.svc.ResolveZip(context.Background(), alice)
	require.NoError(t, err)
	assert.Equal(t, "12345", zip)

	_, err = f.svc.ResolveZip(context.Background(), bob)
	require.ErrorIs(t, err, ErrDirectoryLookupFailed)
}

func TestErrorKinds_RoundTrip(t *testing.T) {
	for _, sentinel := range []error{
		ports.ErrNotFound, auth.ErrForbidden, domain.ErrAlreadyClosed, domain.ErrEmptyOrder,
		ErrPreconditionFailed, ErrDirectoryLookupFailed, ErrQuoteUnavailable, ports.ErrConcurrentModification,
	} {
		wrapped := errors.Join(errors.New("context"), sentinel)
		kind := KindOf(wrapped)
		require.NotEmpty(t, kind, sentinel.Error())
		restored := FromKind(kind, wrapped.Error())
		assert.ErrorIs(t, restored, sentinel)
		assert.Equal(t, wrapped.Error(), restored.Error())
	}
	assert.Empty(t, KindOf(errors.New("boom")))
	assert.Equal(t, KindQuoteRejected, KindOf(&QuoteRejectedError{Code: "8"}))
}
