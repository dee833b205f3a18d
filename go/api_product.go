package orderserver

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	producthttpmapper "github.com/Apurer/product-order-api/internal/domains/catalog/adapters/http/mapper"
	catalogports "github.com/Apurer/product-order-api/internal/domains/catalog/ports"
)

// ProductAPI wires HTTP transport with the catalog service.
type ProductAPI struct {
	service catalogports.Service
}

// NewProductAPI creates a ProductAPI backed by the provided service.
func NewProductAPI(service catalogports.Service) ProductAPI {
	return ProductAPI{service: service}
}

// Get /api/products
func (api *ProductAPI) ListProducts(c *gin.Context) {
	products, err := api.service.ListProducts(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, producthttpmapper.FromDomainProducts(products))
}

// Get /api/products/:id
func (api *ProductAPI) GetProduct(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	product, err := api.service.GetProduct(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, producthttpmapper.FromDomainProduct(product))
}

// Post /api/products
// Adds a product to the catalog (administrators)
func (api *ProductAPI) CreateProduct(c *gin.Context) {
	var payload producthttpmapper.Product
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBindingError(c, err)
		return
	}
	created, err := api.service.CreateProduct(c.Request.Context(), callerFrom(c), producthttpmapper.ToDomainProduct(payload))
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Location", fmt.Sprintf("/api/products/%d", created.ID))
	c.JSON(http.StatusCreated, producthttpmapper.FromDomainProduct(created))
}

// Put /api/products/:id
// Replaces a product (administrators); the body id must match the path
func (api *ProductAPI) UpdateProduct(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var payload producthttpmapper.Product
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBindingError(c, err)
		return
	}
	if err := api.service.UpdateProduct(c.Request.Context(), callerFrom(c), id, producthttpmapper.ToDomainProduct(payload)); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Delete /api/products/:id
func (api *ProductAPI) DeleteProduct(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	deleted, err := api.service.DeleteProduct(c.Request.Context(), callerFrom(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, producthttpmapper.FromDomainProduct(deleted))
}
