package domain

import (
	"errors"

	"github.com/shopspring/decimal"

	catalogdomain "github.com/Apurer/product-order-api/internal/domains/catalog/domain"
)

var ErrEmptyShipment = errors.New("shipment has no lines")

// ShipmentLine pairs a product with the ordered quantity.
type ShipmentLine struct {
	Product  catalogdomain.Product
	Quantity int32
}

// ShipmentAggregate is the package sent for a quote. Length and width are bounded by the
// largest item; height and diameter grow as items are stacked.
type ShipmentAggregate struct {
	TotalWeight   decimal.Decimal
	DeclaredValue decimal.Decimal
	Length        decimal.Decimal
	Width         decimal.Decimal
	Height        decimal.Decimal
	Diameter      decimal.Decimal
}

// AggregateShipment folds the lines into one package description.
func AggregateShipment(lines []ShipmentLine) (ShipmentAggregate, error) {
	if len(lines) == 0 {
		return ShipmentAggregate{}, ErrEmptyShipment
	}
	agg := ShipmentAggregate{
		TotalWeight:   decimal.Zero,
		DeclaredValue: decimal.Zero,
		Length:        lines[0].Product.Length,
		Width:         lines[0].Product.Width,
		Height:        decimal.Zero,
		Diameter:      decimal.Zero,
	}
	for _, line := range lines {
		qty := decimal.NewFromInt32(line.Quantity)
		agg.TotalWeight = agg.TotalWeight.Add(qty.Mul(line.Product.Weight))
		agg.DeclaredValue = agg.DeclaredValue.Add(qty.Mul(line.Product.Price))
		agg.Length = decimal.Max(agg.Length, line.Product.Length)
		agg.Width = decimal.Max(agg.Width, line.Product.Width)
		agg.Height = agg.Height.Add(qty.Mul(line.Product.Height))
		agg.Diameter = agg.Diameter.Add(qty.Mul(line.Product.Diameter))
	}
	return agg, nil
}

// WeightKg is the fixed two-digit weight string carriers expect.
func (a ShipmentAggregate) WeightKg() string {
	return a.TotalWeight.StringFixed(2)
}
