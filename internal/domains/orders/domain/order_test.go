package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOrder_InitialState(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	order, err := NewOrder(" alice ", []Item{{ID: 9, OrderID: 4, ProductID: 1, Quantity: 2}}, now)
	require.NoError(t, err)
	assert.Equal(t, "alice", order.Owner)
	assert.Equal(t, StatusNew, order.Status)
	assert.Equal(t, now, order.CreatedAt)
	assert.True(t, order.FreightPrice.IsZero())
	assert.True(t, order.TotalPrice.IsZero())
	assert.True(t, order.TotalWeight.IsZero())
	assert.Nil(t, order.DeliveryDate)
	assert.Zero(t, order.Items[0].ID)
	assert.Zero(t, order.Items[0].OrderID)
}

func TestNewOrder_Invalid(t *testing.T) {
	_, err := NewOrder("", nil, time.Now())
	require.ErrorIs(t, err, ErrInvalidOwner)

	_, err = NewOrder("alice", []Item{{ProductID: 1, Quantity: 0}}, time.Now())
	require.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = NewOrder("alice", []Item{{ProductID: 0, Quantity: 1}}, time.Now())
	require.ErrorIs(t, err, ErrInvalidProductID)
}

func TestOrder_Close(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	order, err := NewOrder("alice", []Item{{ProductID: 1, Quantity: 3}}, now)
	require.NoError(t, err)

	shipment := ShipmentAggregate{TotalWeight: decimal.RequireFromString("6.00"), DeclaredValue: decimal.NewFromInt(60)}
	quote := Quote{Price: decimal.RequireFromString("15.50"), LeadTimeDays: 5}
	require.NoError(t, order.Close(quote, shipment, now))

	assert.Equal(t, StatusClosed, order.Status)
	assert.True(t, order.FreightPrice.Equal(decimal.RequireFromString("15.50")))
	assert.True(t, order.TotalPrice.Equal(decimal.NewFromInt(60)))
	require.NotNil(t, order.DeliveryDate)
	assert.Equal(t, now.AddDate(0, 0, 5), *order.DeliveryDate)

	require.ErrorIs(t, order.Close(quote, shipment, now), ErrAlreadyClosed)
}

func TestOrder_ClosePreconditions(t *testing.T) {
	order := &Order{Owner: "alice", Status: StatusNew}
	require.ErrorIs(t, order.EnsurePriceable(), ErrEmptyOrder)

	order.Items = []Item{{ProductID: 1, Quantity: 1}}
	err := order.Close(Quote{Price: decimal.NewFromInt(-1)}, ShipmentAggregate{}, time.Now())
	require.ErrorIs(t, err, ErrInvalidQuote)
	assert.Equal(t, StatusNew, order.Status)
	assert.True(t, order.FreightPrice.IsZero())
}

func TestOrder_CloneAndProductIDs(t *testing.T) {
	delivery := time.Now()
	order := &Order{
		Owner:        "alice",
		DeliveryDate: &delivery,
		Items:        []Item{{ProductID: 2, Quantity: 1}, {ProductID: 1, Quantity: 1}, {ProductID: 2, Quantity: 4}},
	}
	assert.Equal(t, []int64{2, 1}, order.ProductIDs())

	clone := order.Clone()
	clone.Items[0].Quantity = 99
	*clone.DeliveryDate = delivery.Add(time.Hour)
	assert.Equal(t, int32(1), order.Items[0].Quantity)
	assert.Equal(t, delivery, *order.DeliveryDate)
}
