package ports

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Apurer/product-order-api/internal/domains/orders/domain"
	"github.com/Apurer/product-order-api/internal/shared/auth"
)

// ItemInput is a requested order line.
type ItemInput struct {
	ProductID int64
	Quantity  int32
}

// CreateOrderInput carries a new order. Owner is honoured only for administrators.
type CreateOrderInput struct {
	Owner string
	Items []ItemInput
}

// CloseOrderInput identifies the order to price. IfMatchVersion, when set, must equal the stored version.
type CloseOrderInput struct {
	OrderID        int64
	Caller         auth.Caller
	IfMatchVersion *int64
}

// FreightEstimate is a quote preview that leaves the order untouched.
type FreightEstimate struct {
	OrderID        int64
	DestinationZip string
	Shipment       domain.ShipmentAggregate
	FreightPrice   decimal.Decimal
	LeadTimeDays   int
	DeliveryDate   time.Time
}

// Service exposes order use cases to adapters.
type Service interface {
	CreateOrder(ctx context.Context, caller auth.Caller, input CreateOrderInput) (*domain.Order, error)
	GetOrder(ctx context.Context, caller auth.Caller, id int64) (*domain.Order, error)
	ListOrders(ctx context.Context, caller auth.Caller) ([]*domain.Order, error)
	ListOrdersByOwner(ctx context.Context, caller auth.Caller, owner string) ([]*domain.Order, error)
	DeleteOrder(ctx context.Context, caller auth.Caller, id int64) (*domain.Order, error)
	EstimateFreight(ctx context.Context, caller auth.Caller, id int64) (*FreightEstimate, error)
	RequestQuoteAndClose(ctx context.Context, input CloseOrderInput) (*domain.Order, error)
	ResolveZip(ctx context.Context, caller auth.Caller) (string, error)
}
