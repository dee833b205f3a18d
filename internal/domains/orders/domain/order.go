package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Status enumerates order progression. StatusClosed is terminal.
type Status string

const (
	StatusNew    Status = "new"
	StatusClosed Status = "closed"
)

var (
	ErrInvalidOwner     = errors.New("order owner is required")
	ErrInvalidProductID = errors.New("product id must be greater than zero")
	ErrInvalidQuantity  = errors.New("quantity must be greater than zero")
	ErrAlreadyClosed    = errors.New("order is already closed")
	ErrEmptyOrder       = errors.New("order has no items")
	ErrInvalidQuote     = errors.New("quote price and lead time must not be negative")
)

// Item is one order line referencing a catalog product.
type Item struct {
	ID        int64
	OrderID   int64
	ProductID int64
	Quantity  int32
}

// Quote is an accepted carrier price with its lead time.
type Quote struct {
	Price        decimal.Decimal
	LeadTimeDays int
}

// Order models the customer order aggregate. Version is the optimistic concurrency token.
type Order struct {
	ID           int64
	Owner        string
	CreatedAt    time.Time
	DeliveryDate *time.Time
	Status       Status
	TotalPrice   decimal.Decimal
	TotalWeight  decimal.Decimal
	FreightPrice decimal.Decimal
	Items        []Item
	Version      int64
}

// NewOrder builds an order in its initial state: status new, zero totals, created at now.
func NewOrder(owner string, items []Item, now time.Time) (*Order, error) {
	order := &Order{
		Owner:        strings.TrimSpace(owner),
		CreatedAt:    now.UTC(),
		Status:       StatusNew,
		TotalPrice:   decimal.Zero,
		TotalWeight:  decimal.Zero,
		FreightPrice: decimal.Zero,
		Items:        append([]Item(nil), items...),
	}
	for i := range order.Items {
		order.Items[i].ID = 0
		order.Items[i].OrderID = 0
	}
	if err := order.Validate(); err != nil {
		return nil, err
	}
	return order, nil
}

// Validate enforces invariants on the aggregate.
func (o *Order) Validate() error {
	if o.Owner == "" {
		return ErrInvalidOwner
	}
	for _, item := range o.Items {
		if item.ProductID <= 0 {
			return ErrInvalidProductID
		}
		if item.Quantity <= 0 {
			return ErrInvalidQuantity
		}
	}
	return nil
}

// EnsurePriceable checks the order can be sent for a quote.
func (o *Order) EnsurePriceable() error {
	if o.Status != StatusNew {
		return ErrAlreadyClosed
	}
	if len(o.Items) == 0 {
		return ErrEmptyOrder
	}
	return nil
}

// Close applies an accepted quote and the shipment totals, moving the order to closed.
func (o *Order) Close(quote Quote, shipment ShipmentAggregate, now time.Time) error {
	if err := o.EnsurePriceable(); err != nil {
		return err
	}
	if quote.Price.IsNegative() || quote.LeadTimeDays < 0 {
		return ErrInvalidQuote
	}
	delivery := now.UTC().AddDate(0, 0, quote.LeadTimeDays)
	o.FreightPrice = quote.Price
	o.DeliveryDate = &delivery
	o.TotalWeight = shipment.TotalWeight
	o.TotalPrice = shipment.DeclaredValue
	o.Status = StatusClosed
	return nil
}

// ProductIDs lists distinct referenced products in item order.
func (o *Order) ProductIDs() []int64 {
	seen := make(map[int64]struct{}, len(o.Items))
	ids := make([]int64, 0, len(o.Items))
	for _, item := range o.Items {
		if _, ok := seen[item.ProductID]; ok {
			continue
		}
		seen[item.ProductID] = struct{}{}
		ids = append(ids, item.ProductID)
	}
	return ids
}

// Clone returns a deep copy.
func (o *Order) Clone() *Order {
	if o == nil {
		return nil
	}
	clone := *o
	clone.Items = append([]Item(nil), o.Items...)
	if o.DeliveryDate != nil {
		delivery := *o.DeliveryDate
		clone.DeliveryDate = &delivery
	}
	return &clone
}
