package domain

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func validProduct() Product {
	return Product{
		Name:     "Mouse",
		Model:    "M-100",
		Code:     "COD1",
		Price:    decimal.NewFromInt(10),
		Weight:   decimal.NewFromInt(1),
		Height:   decimal.NewFromInt(10),
		Width:    decimal.NewFromInt(10),
		Length:   decimal.NewFromInt(10),
		Diameter: decimal.NewFromInt(10),
	}
}

func TestProduct_ValidateBounds(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(p *Product)
		want   error
	}{
		{"valid", func(p *Product) {}, nil},
		{"missing name", func(p *Product) { p.Name = "" }, ErrNameRequired},
		{"missing model", func(p *Product) { p.Model = "" }, ErrModelRequired},
		{"missing code", func(p *Product) { p.Code = "" }, ErrCodeRequired},
		{"code too long", func(p *Product) { p.Code = "ABCDEFGHI" }, ErrCodeTooLong},
		{"url too long", func(p *Product) { p.URL = strings.Repeat("u", 81) }, ErrURLTooLong},
		{"price low", func(p *Product) { p.Price = decimal.RequireFromString("9.99") }, ErrPriceOutOfRange},
		{"price high", func(p *Product) { p.Price = decimal.NewFromInt(10000) }, ErrPriceOutOfRange},
		{"price max", func(p *Product) { p.Price = decimal.NewFromInt(9999) }, nil},
		{"weight low", func(p *Product) { p.Weight = decimal.RequireFromString("0.09") }, ErrWeightOutOfRange},
		{"weight min", func(p *Product) { p.Weight = decimal.RequireFromString("0.1") }, nil},
		{"height high", func(p *Product) { p.Height = decimal.NewFromInt(100) }, ErrDimensionOutOfRange},
		{"diameter low", func(p *Product) { p.Diameter = decimal.NewFromInt(9) }, ErrDimensionOutOfRange},
		{"weight in grams", func(p *Product) { p.Weight = decimal.RequireFromString("0.125") }, ErrTooManyDecimals},
		{"weight two places", func(p *Product) { p.Weight = decimal.RequireFromString("0.13") }, nil},
		{"trailing zeros", func(p *Product) { p.Weight = decimal.RequireFromString("1.500") }, nil},
		{"price fraction of a cent", func(p *Product) { p.Price = decimal.RequireFromString("10.005") }, ErrTooManyDecimals},
		{"length fraction", func(p *Product) { p.Length = decimal.RequireFromString("15.255") }, ErrTooManyDecimals},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := validProduct()
			tc.mutate(&p)
			err := p.Validate()
			if tc.want == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tc.want)
		})
	}
}

func TestProduct_Normalize(t *testing.T) {
	p := validProduct()
	p.Code = "  COD9 "
	p.Name = " Mouse\t"
	p.Normalize()
	require.Equal(t, "COD9", p.Code)
	require.Equal(t, "Mouse", p.Name)
}
