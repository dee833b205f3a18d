package domain

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

const (
	MaxCodeLength = 8
	MaxURLLength  = 80
)

// MeasureScale is the number of fractional digits stored for price, weight and dimensions.
const MeasureScale = 2

var (
	minPrice     = decimal.NewFromInt(10)
	maxPrice     = decimal.NewFromInt(9999)
	minWeight    = decimal.RequireFromString("0.1")
	maxWeight    = decimal.NewFromInt(10)
	minDimension = decimal.NewFromInt(10)
	maxDimension = decimal.NewFromInt(99)
)

var (
	ErrNameRequired        = errors.New("product name is required")
	ErrModelRequired       = errors.New("product model is required")
	ErrCodeRequired        = errors.New("product code is required")
	ErrCodeTooLong         = fmt.Errorf("product code must be at most %d characters", MaxCodeLength)
	ErrURLTooLong          = fmt.Errorf("product url must be at most %d characters", MaxURLLength)
	ErrPriceOutOfRange     = errors.New("product price must be between 10 and 9999")
	ErrWeightOutOfRange    = errors.New("product weight must be between 0.1 and 10")
	ErrDimensionOutOfRange = errors.New("product dimension must be between 10 and 99")
	ErrTooManyDecimals     = fmt.Errorf("product measures allow at most %d decimal places", MeasureScale)
)

// Product is a catalog entry. Measures are kilograms and centimetres.
type Product struct {
	ID          int64
	Name        string
	Description string
	Color       string
	Model       string
	Code        string
	Price       decimal.Decimal
	Weight      decimal.Decimal
	Height      decimal.Decimal
	Width       decimal.Decimal
	Length      decimal.Decimal
	Diameter    decimal.Decimal
	URL         string
}

// Normalize trims the textual attributes in place.
func (p *Product) Normalize() {
	p.Name = strings.TrimSpace(p.Name)
	p.Description = strings.TrimSpace(p.Description)
	p.Color = strings.TrimSpace(p.Color)
	p.Model = strings.TrimSpace(p.Model)
	p.Code = strings.TrimSpace(p.Code)
	p.URL = strings.TrimSpace(p.URL)
}

// Validate enforces the catalog invariants.
func (p *Product) Validate() error {
	if p.Name == "" {
		return ErrNameRequired
	}
	if p.Model == "" {
		return ErrModelRequired
	}
	if p.Code == "" {
		return ErrCodeRequired
	}
	if utf8.RuneCountInString(p.Code) > MaxCodeLength {
		return ErrCodeTooLong
	}
	if utf8.RuneCountInString(p.URL) > MaxURLLength {
		return ErrURLTooLong
	}
	if !between(p.Price, minPrice, maxPrice) {
		return ErrPriceOutOfRange
	}
	if !between(p.Weight, minWeight, maxWeight) {
		return ErrWeightOutOfRange
	}
	dims := []measure{
		{"height", p.Height},
		{"width", p.Width},
		{"length", p.Length},
		{"diameter", p.Diameter},
	}
	for _, dim := range dims {
		if !between(dim.value, minDimension, maxDimension) {
			return fmt.Errorf("%w: %s", ErrDimensionOutOfRange, dim.name)
		}
	}
	for _, m := range append([]measure{{"price", p.Price}, {"weight", p.Weight}}, dims...) {
		if !m.value.Equal(m.value.Truncate(MeasureScale)) {
			return fmt.Errorf("%w: %s", ErrTooManyDecimals, m.name)
		}
	}
	return nil
}

type measure struct {
	name  string
	value decimal.Decimal
}

func between(v, lo, hi decimal.Decimal) bool {
	return v.GreaterThanOrEqual(lo) && v.LessThanOrEqual(hi)
}
