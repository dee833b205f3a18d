package mapper

import (
	"github.com/shopspring/decimal"

	catalogdomain "github.com/Apurer/product-order-api/internal/domains/catalog/domain"
)

// Product is the JSON shape of a catalog entry. Decimals travel as strings.
type Product struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name" binding:"required"`
	Description string          `json:"description"`
	Color       string          `json:"color"`
	Model       string          `json:"model" binding:"required"`
	Code        string          `json:"code" binding:"required,max=8"`
	Price       decimal.Decimal `json:"price"`
	Weight      decimal.Decimal `json:"weight"`
	Height      decimal.Decimal `json:"height"`
	Width       decimal.Decimal `json:"width"`
	Length      decimal.Decimal `json:"length"`
	Diameter    decimal.Decimal `json:"diameter"`
	URL         string          `json:"url" binding:"omitempty,max=80"`
}

// ToDomainProduct converts a transport product into the catalog domain model.
func ToDomainProduct(product Product) catalogdomain.Product {
	return catalogdomain.Product{
		ID:          product.ID,
		Name:        product.Name,
		Description: product.Description,
		Color:       product.Color,
		Model:       product.Model,
		Code:        product.Code,
		Price:       product.Price,
		Weight:      product.Weight,
		Height:      product.Height,
		Width:       product.Width,
		Length:      product.Length,
		Diameter:    product.Diameter,
		URL:         product.URL,
	}
}

// FromDomainProduct converts a domain product to the transport representation.
func FromDomainProduct(product *catalogdomain.Product) Product {
	if product == nil {
		return Product{}
	}
	return Product{
		ID:          product.ID,
		Name:        product.Name,
		Description: product.Description,
		Color:       product.Color,
		Model:       product.Model,
		Code:        product.Code,
		Price:       product.Price,
		Weight:      product.Weight,
		Height:      product.Height,
		Width:       product.Width,
		Length:      product.Length,
		Diameter:    product.Diameter,
		URL:         product.URL,
	}
}

func FromDomainProducts(products []*catalogdomain.Product) []Product {
	out := make([]Product, 0, len(products))
	for _, product := range products {
		out = append(out, FromDomainProduct(product))
	}
	return out
}
