package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	catalogdomain "github.com/Apurer/product-order-api/internal/domains/catalog/domain"
)

func product(price, weight, length, width, height, diameter string) catalogdomain.Product {
	return catalogdomain.Product{
		Price:    decimal.RequireFromString(price),
		Weight:   decimal.RequireFromString(weight),
		Length:   decimal.RequireFromString(length),
		Width:    decimal.RequireFromString(width),
		Height:   decimal.RequireFromString(height),
		Diameter: decimal.RequireFromString(diameter),
	}
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.Truef(t, decimal.RequireFromString(want).Equal(got), "want %s, got %s", want, got)
}

func TestAggregateShipment_SingleLine(t *testing.T) {
	agg, err := AggregateShipment([]ShipmentLine{
		{Product: product("20", "2.00", "10", "10", "10", "10"), Quantity: 3},
	})
	require.NoError(t, err)
	assert.Equal(t, "6.00", agg.WeightKg())
	assertDecimal(t, "60", agg.DeclaredValue)
	assertDecimal(t, "10", agg.Length)
	assertDecimal(t, "10", agg.Width)
	assertDecimal(t, "30", agg.Height)
	assertDecimal(t, "30", agg.Diameter)
}

func TestAggregateShipment_BoundsUseOwnAttribute(t *testing.T) {
	agg, err := AggregateShipment([]ShipmentLine{
		{Product: product("10", "0.5", "40", "12", "10", "10"), Quantity: 1},
		{Product: product("15.25", "1.25", "20", "35", "15", "11"), Quantity: 2},
	})
	require.NoError(t, err)
	assertDecimal(t, "40", agg.Length)
	assertDecimal(t, "35", agg.Width)
	assertDecimal(t, "40", agg.Height)
	assertDecimal(t, "32", agg.Diameter)
	assertDecimal(t, "40.5", agg.DeclaredValue)
	assert.Equal(t, "3.00", agg.WeightKg())
}

func TestAggregateShipment_OrderIndependent(t *testing.T) {
	a := ShipmentLine{Product: product("10.10", "0.33", "10", "20", "30", "40"), Quantity: 3}
	b := ShipmentLine{Product: product("99.99", "1.1", "50", "15", "12", "13"), Quantity: 7}

	forward, err := AggregateShipment([]ShipmentLine{a, b})
	require.NoError(t, err)
	backward, err := AggregateShipment([]ShipmentLine{b, a})
	require.NoError(t, err)

	assert.True(t, forward.TotalWeight.Equal(backward.TotalWeight))
	assert.True(t, forward.DeclaredValue.Equal(backward.DeclaredValue))
	assert.True(t, forward.Length.Equal(backward.Length))
	assert.True(t, forward.Width.Equal(backward.Width))
	assert.True(t, forward.Height.Equal(backward.Height))
	assert.True(t, forward.Diameter.Equal(backward.Diameter))
	assertDecimal(t, "730.23", forward.DeclaredValue)
}

func TestAggregateShipment_Empty(t *testing.T) {
	_, err := AggregateShipment(nil)
	require.ErrorIs(t, err, ErrEmptyShipment)
}

func TestWeightKg_RoundsToTwoDigits(t *testing.T) {
	agg := ShipmentAggregate{TotalWeight: decimal.RequireFromString("1.005")}
	assert.Equal(t, "1.01", agg.WeightKg())
	agg.TotalWeight = decimal.NewFromInt(2)
	assert.Equal(t, "2.00", agg.WeightKg())
}
