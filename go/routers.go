package orderserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Apurer/product-order-api/internal/shared/auth"
)

// Route is the information for every URI.
type Route struct {
	// Name is the name of this Route.
	Name string
	// Method is the string for the HTTP method. ex) GET, POST etc..
	Method string
	// Pattern is the pattern of the URI.
	Pattern string
	// HandlerFunc is the handler function of this route.
	HandlerFunc gin.HandlerFunc
}

// NewRouter returns a new router.
func NewRouter(handleFunctions ApiHandleFunctions, middleware ...gin.HandlerFunc) *gin.Engine {
	return NewRouterWithGinEngine(gin.Default(), handleFunctions, middleware...)
}

// NewRouterWithGinEngine adds routes to an existing gin engine. Middleware is installed before
// any route so it applies to all of them; every route additionally requires an authenticated caller.
func NewRouterWithGinEngine(router *gin.Engine, handleFunctions ApiHandleFunctions, middleware ...gin.HandlerFunc) *gin.Engine {
	router.Use(middleware...)
	group := router.Group("", auth.Middleware())
	for _, route := range getRoutes(handleFunctions) {
		if route.HandlerFunc == nil {
			route.HandlerFunc = DefaultHandleFunc
		}
		switch route.Method {
		case http.MethodGet:
			group.GET(route.Pattern, route.HandlerFunc)
		case http.MethodPost:
			group.POST(route.Pattern, route.HandlerFunc)
		case http.MethodPut:
			group.PUT(route.Pattern, route.HandlerFunc)
		case http.MethodPatch:
			group.PATCH(route.Pattern, route.HandlerFunc)
		case http.MethodDelete:
			group.DELETE(route.Pattern, route.HandlerFunc)
		}
	}
	return router
}

// DefaultHandleFunc answers routes without a handler.
func DefaultHandleFunc(c *gin.Context) {
	c.String(http.StatusNotImplemented, "501 not implemented")
}

type ApiHandleFunctions struct {
	// Routes for the OrderAPI part of the API
	OrderAPI OrderAPI
	// Routes for the ProductAPI part of the API
	ProductAPI ProductAPI
}

func getRoutes(handleFunctions ApiHandleFunctions) []Route {
	return []Route{
		{
			"ListOrders",
			http.MethodGet,
			"/api/orders",
			handleFunctions.OrderAPI.ListOrders,
		},
		{
			"ListOrdersByUsername",
			http.MethodGet,
			"/api/orders/byusername",
			handleFunctions.OrderAPI.ListOrdersByUsername,
		},
		{
			"ResolveZip",
			http.MethodGet,
			"/api/orders/zip",
			handleFunctions.OrderAPI.ResolveZip,
		},
		{
			"GetOrder",
			http.MethodGet,
			"/api/orders/:id",
			handleFunctions.OrderAPI.GetOrder,
		},
		{
			"CreateOrder",
			http.MethodPost,
			"/api/orders",
			handleFunctions.OrderAPI.CreateOrder,
		},
		{
			"DeleteOrder",
			http.MethodDelete,
			"/api/orders/:id",
			handleFunctions.OrderAPI.DeleteOrder,
		},
		{
			"EstimateFreight",
			http.MethodGet,
			"/api/orders/:id/freight",
			handleFunctions.OrderAPI.EstimateFreight,
		},
		{
			"CloseOrder",
			http.MethodPost,
			"/api/orders/:id/close",
			handleFunctions.OrderAPI.CloseOrder,
		},
		{
			"ListProducts",
			http.MethodGet,
			"/api/products",
			handleFunctions.ProductAPI.ListProducts,
		},
		{
			"GetProduct",
			http.MethodGet,
			"/api/products/:id",
			handleFunctions.ProductAPI.GetProduct,
		},
		{
			"CreateProduct",
			http.MethodPost,
			"/api/products",
			handleFunctions.ProductAPI.CreateProduct,
		},
		{
			"UpdateProduct",
			http.MethodPut,
			"/api/products/:id",
			handleFunctions.ProductAPI.UpdateProduct,
		},
		{
			"DeleteProduct",
			http.MethodDelete,
			"/api/products/:id",
			handleFunctions.ProductAPI.DeleteProduct,
		},
	}
}
