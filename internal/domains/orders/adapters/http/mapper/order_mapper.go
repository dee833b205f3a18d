package mapper

import (
	"time"

	ordersdomain "github.com/Apurer/product-order-api/internal/domains/orders/domain"
	ordersports "github.com/Apurer/product-order-api/internal/domains/orders/ports"
)

// OrderItemRequest is one requested line.
type OrderItemRequest struct {
	ProductID int64 `json:"productId" binding:"required,gt=0"`
	Quantity  int32 `json:"quantity" binding:"required,gt=0"`
}

// CreateOrderRequest is the POST /api/orders body. Username is honoured for administrators only.
type CreateOrderRequest struct {
	Username string             `json:"username"`
	Items    []OrderItemRequest `json:"items" binding:"dive"`
}

type OrderItem struct {
	ID        int64 `json:"id"`
	OrderID   int64 `json:"orderId"`
	ProductID int64 `json:"productId"`
	Quantity  int32 `json:"quantity"`
}

// Order is the transport representation. Money and weight use two fractional digits.
type Order struct {
	ID           int64       `json:"id"`
	Username     string      `json:"username"`
	CreatedAt    time.Time   `json:"createdAt"`
	DeliveryDate *time.Time  `json:"deliveryDate"`
	Status       string      `json:"status"`
	TotalPrice   string      `json:"totalPrice"`
	TotalWeight  string      `json:"totalWeight"`
	FreightPrice string      `json:"freightPrice"`
	Items        []OrderItem `json:"items"`
	Version      int64       `json:"version"`
}

type Shipment struct {
	Weight        string `json:"weight"`
	DeclaredValue string `json:"declaredValue"`
	Length        string `json:"length"`
	Width         string `json:"width"`
	Height        string `json:"height"`
	Diameter      string `json:"diameter"`
}

type FreightEstimate struct {
	OrderID        int64     `json:"orderId"`
	DestinationZip string    `json:"destinationZip"`
	FreightPrice   string    `json:"freightPrice"`
	LeadTimeDays   int       `json:"leadTimeDays"`
	DeliveryDate   time.Time `json:"deliveryDate"`
	Shipment       Shipment  `json:"shipment"`
}

type Zip struct {
	Zip string `json:"zip"`
}

// ToCreateOrderInput converts the request body into the use-case input.
func ToCreateOrderInput(req CreateOrderRequest) ordersports.CreateOrderInput {
	input := ordersports.CreateOrderInput{Owner: req.Username, Items: make([]ordersports.ItemInput, 0, len(req.Items))}
	for _, item := range req.Items {
		input.Items = append(input.Items, ordersports.ItemInput{ProductID: item.ProductID, Quantity: item.Quantity})
	}
	return input
}

// FromDomainOrder converts a domain order to the transport representation.
func FromDomainOrder(order *ordersdomain.Order) Order {
	if order == nil {
		return Order{}
	}
	out := Order{
		ID:           order.ID,
		Username:     order.Owner,
		CreatedAt:    order.CreatedAt,
		DeliveryDate: order.DeliveryDate,
		Status:       string(order.Status),
		TotalPrice:   order.TotalPrice.StringFixed(2),
		TotalWeight:  order.TotalWeight.StringFixed(2),
		FreightPrice: order.FreightPrice.StringFixed(2),
		Items:        make([]OrderItem, 0, len(order.Items)),
		Version:      order.Version,
	}
	for _, item := range order.Items {
		out.Items = append(out.Items, OrderItem{
			ID:        item.ID,
			OrderID:   item.OrderID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		})
	}
	return out
}

func FromDomainOrders(orders []*ordersdomain.Order) []Order {
	out := make([]Order, 0, len(orders))
	for _, order := range orders {
		out = append(out, FromDomainOrder(order))
	}
	return out
}

func FromFreightEstimate(estimate *ordersports.FreightEstimate) FreightEstimate {
	if estimate == nil {
		return FreightEstimate{}
	}
	return FreightEstimate{
		OrderID:        estimate.OrderID,
		DestinationZip: estimate.DestinationZip,
		FreightPrice:   estimate.FreightPrice.StringFixed(2),
		LeadTimeDays:   estimate.LeadTimeDays,
		DeliveryDate:   estimate.DeliveryDate,
		Shipment: Shipment{
			Weight:        estimate.Shipment.WeightKg(),
			DeclaredValue: estimate.Shipment.DeclaredValue.StringFixed(2),
			Length:        estimate.Shipment.Length.String(),
			Width:         estimate.Shipment.Width.String(),
			Height:        estimate.Shipment.Height.String(),
			Diameter:      estimate.Shipment.Diameter.String(),
		},
	}
}
