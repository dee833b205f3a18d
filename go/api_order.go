package orderserver

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	orderhttpmapper "github.com/Apurer/product-order-api/internal/domains/orders/adapters/http/mapper"
	ordersdomain "github.com/Apurer/product-order-api/internal/domains/orders/domain"
	ordersports "github.com/Apurer/product-order-api/internal/domains/orders/ports"
	"github.com/Apurer/product-order-api/internal/shared/auth"
)

var errInvalidIfMatch = errors.New("if-match header must carry a positive order version")

// OrderAPI wires HTTP transport with the orders bounded context service and workflows.
type OrderAPI struct {
	service   ordersports.Service
	workflows ordersports.WorkflowOrchestrator
}

// NewOrderAPI creates an OrderAPI backed by the provided service. A nil orchestrator closes
// orders through the service directly.
func NewOrderAPI(service ordersports.Service, workflows ordersports.WorkflowOrchestrator) OrderAPI {
	return OrderAPI{service: service, workflows: workflows}
}

// Get /api/orders
// Lists every order (administrators)
func (api *OrderAPI) ListOrders(c *gin.Context) {
	orders, err := api.service.ListOrders(c.Request.Context(), callerFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orderhttpmapper.FromDomainOrders(orders))
}

// Get /api/orders/byusername
// Lists the orders of one owner, the caller by default
func (api *OrderAPI) ListOrdersByUsername(c *gin.Context) {
	orders, err := api.service.ListOrdersByOwner(c.Request.Context(), callerFrom(c), c.Query("username"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orderhttpmapper.FromDomainOrders(orders))
}

// Get /api/orders/zip
// Resolves the caller's postal code through the customer directory
func (api *OrderAPI) ResolveZip(c *gin.Context) {
	zip, err := api.service.ResolveZip(c.Request.Context(), callerFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orderhttpmapper.Zip{Zip: zip})
}

// Get /api/orders/:id
func (api *OrderAPI) GetOrder(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	order, err := api.service.GetOrder(c.Request.Context(), callerFrom(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	setVersionHeader(c, order)
	c.JSON(http.StatusOK, orderhttpmapper.FromDomainOrder(order))
}

// Post /api/orders
// Places a new order
func (api *OrderAPI) CreateOrder(c *gin.Context) {
	var payload orderhttpmapper.CreateOrderRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBindingError(c, err)
		return
	}
	order, err := api.service.CreateOrder(c.Request.Context(), callerFrom(c), orderhttpmapper.ToCreateOrderInput(payload))
	if err != nil {
		respondError(c, err)
		return
	}
	setVersionHeader(c, order)
	c.Header("Location", fmt.Sprintf("/api/orders/%d", order.ID))
	c.JSON(http.StatusCreated, orderhttpmapper.FromDomainOrder(order))
}

// Delete /api/orders/:id
// Deletes an order and its items, returning what was removed
func (api *OrderAPI) DeleteOrder(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	order, err := api.service.DeleteOrder(c.Request.Context(), callerFrom(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orderhttpmapper.FromDomainOrder(order))
}

// Get /api/orders/:id/freight
// Previews the freight of an open order without closing it
func (api *OrderAPI) EstimateFreight(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	estimate, err := api.service.EstimateFreight(c.Request.Context(), callerFrom(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orderhttpmapper.FromFreightEstimate(estimate))
}

// Post /api/orders/:id/close
// Requests a shipping quote and closes the order
func (api *OrderAPI) CloseOrder(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	expected, err := parseIfMatch(c.GetHeader("If-Match"))
	if err != nil {
		respondBindingError(c, err)
		return
	}
	input := ordersports.CloseOrderInput{OrderID: id, Caller: callerFrom(c), IfMatchVersion: expected}
	order, err := api.quoteAndClose(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	setVersionHeader(c, order)
	c.JSON(http.StatusOK, orderhttpmapper.FromDomainOrder(order))
}

func (api *OrderAPI) quoteAndClose(ctx context.Context, input ordersports.CloseOrderInput) (*ordersdomain.Order, error) {
	if api.workflows != nil {
		return api.workflows.QuoteAndClose(ctx, input)
	}
	return api.service.RequestQuoteAndClose(ctx, input)
}

// parseIfMatch accepts a bare, quoted or weak version tag. An absent header yields nil.
func parseIfMatch(header string) (*int64, error) {
	value := strings.TrimSpace(header)
	if value == "" || value == "*" {
		return nil, nil
	}
	value = strings.TrimPrefix(value, "W/")
	value = strings.Trim(value, `"`)
	version, err := strconv.ParseInt(value, 10, 64)
	if err != nil || version <= 0 {
		return nil, errInvalidIfMatch
	}
	return &version, nil
}

func setVersionHeader(c *gin.Context, order *ordersdomain.Order) {
	if order == nil {
		return
	}
	c.Header("ETag", strconv.Quote(strconv.FormatInt(order.Version, 10)))
}

func callerFrom(c *gin.Context) auth.Caller {
	caller, _ := auth.FromContext(c)
	return caller
}

func parseIDParam(c *gin.Context, name string) (int64, bool) {
	value := c.Param(name)
	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		respondBindingError(c, fmt.Errorf("invalid %s %q", name, value))
		return 0, false
	}
	return id, true
}
