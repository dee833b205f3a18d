package application

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Apurer/product-order-api/internal/domains/orders/domain"
	"github.com/Apurer/product-order-api/internal/domains/orders/ports"
	"github.com/Apurer/product-order-api/internal/shared/auth"
)

// Service orchestrates order use cases, including the quote-and-close pricing workflow.
type Service struct {
	repo            ports.Repository
	catalog         ports.ProductCatalog
	directory       ports.CustomerDirectory
	quoter          ports.ShippingQuoter
	pricing         PricingConfig
	upstreamTimeout time.Duration
	now             func() time.Time
}

func NewService(repo ports.Repository, catalog ports.ProductCatalog, directory ports.CustomerDirectory, quoter ports.ShippingQuoter, opts ...Option) *Service {
	s := &Service{
		repo:            repo,
		catalog:         catalog,
		directory:       directory,
		quoter:          quoter,
		pricing:         DefaultPricing(),
		upstreamTimeout: DefaultUpstreamTimeout,
		now:             time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// CreateOrder stores a new order owned by the caller. Administrators may name another owner.
func (s *Service) CreateOrder(ctx context.Context, caller auth.Caller, input ports.CreateOrderInput) (*domain.Order, error) {
	if !caller.Authenticated() {
		return nil, auth.ErrUnauthenticated
	}
	owner := caller.Identity
	if requested := strings.TrimSpace(input.Owner); requested != "" && caller.IsAdmin() {
		owner = requested
	}
	items := make([]domain.Item, 0, len(input.Items))
	for _, item := range input.Items {
		items = append(items, domain.Item{ProductID: item.ProductID, Quantity: item.Quantity})
	}
	order, err := domain.NewOrder(owner, items, s.now())
	if err != nil {
		return nil, mapError(err)
	}
	if len(order.Items) > 0 {
		products, err := s.catalog.GetByIDs(ctx, order.ProductIDs())
		if err != nil {
			return nil, err
		}
		for _, id := range order.ProductIDs() {
			if _, ok := products[id]; !ok {
				return nil, fmt.Errorf("%w: product %d does not exist", ErrInvalidInput, id)
			}
		}
	}
	return s.repo.Insert(ctx, order)
}

func (s *Service) GetOrder(ctx context.Context, caller auth.Caller, id int64) (*domain.Order, error) {
	return s.loadAuthorized(ctx, caller, id)
}

// ListOrders returns every order and is restricted to administrators.
func (s *Service) ListOrders(ctx context.Context, caller auth.Caller) ([]*domain.Order, error) {
	if err := caller.RequireAdmin(); err != nil {
		return nil, err
	}
	return s.repo.List(ctx)
}

// ListOrdersByOwner defaults owner to the caller.
func (s *Service) ListOrdersByOwner(ctx context.Context, caller auth.Caller, owner string) ([]*domain.Order, error) {
	owner = strings.TrimSpace(owner)
	if owner == "" {
		owner = caller.Identity
	}
	if err := authorize(caller, owner); err != nil {
		return nil, err
	}
	return s.repo.FindByOwner(ctx, owner)
}

// DeleteOrder removes the order with its items and returns what was deleted.
func (s *Service) DeleteOrder(ctx context.Context, caller auth.Caller, id int64) (*domain.Order, error) {
	order, err := s.loadAuthorized(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Delete(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

// EstimateFreight runs the pricing steps without writing the order.
func (s *Service) EstimateFreight(ctx context.Context, caller auth.Caller, id int64) (*ports.FreightEstimate, error) {
	order, err := s.loadAuthorized(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	if err := order.EnsurePriceable(); err != nil {
		return nil, err
	}
	q, err := s.price(ctx, caller, order)
	if err != nil {
		return nil, err
	}
	return &ports.FreightEstimate{
		OrderID:        order.ID,
		DestinationZip: q.destinationZip,
		Shipment:       q.shipment,
		FreightPrice:   q.quote.Price,
		LeadTimeDays:   q.quote.LeadTimeDays,
		DeliveryDate:   s.now().UTC().AddDate(0, 0, q.quote.LeadTimeDays),
	}, nil
}

// RequestQuoteAndClose prices the order with the carrier and closes it. A carrier rejection leaves
// the order untouched; the write is conditioned on the version read at the start.
func (s *Service) RequestQuoteAndClose(ctx context.Context, input ports.CloseOrderInput) (*domain.Order, error) {
	order, err := s.loadAuthorized(ctx, input.Caller, input.OrderID)
	if err != nil {
		return nil, err
	}
	if err := order.EnsurePriceable(); err != nil {
		return nil, err
	}
	readVersion := order.Version
	if input.IfMatchVersion != nil && *input.IfMatchVersion != readVersion {
		return nil, fmt.Errorf("%w: order %d is at version %d, not %d", ErrPreconditionFailed, order.ID, readVersion, *input.IfMatchVersion)
	}
	q, err := s.price(ctx, input.Caller, order)
	if err != nil {
		return nil, err
	}
	if err := order.Close(q.quote, q.shipment, s.now()); err != nil {
		return nil, mapError(err)
	}
	return s.repo.UpdateIfUnchanged(ctx, order, readVersion)
}

// ResolveZip looks up the caller's own postal code.
func (s *Service) ResolveZip(ctx context.Context, caller auth.Caller) (string, error) {
	if !caller.Authenticated() {
		return "", auth.ErrUnauthenticated
	}
	return s.lookupZip(ctx, caller.Identity)
}

type quotation struct {
	destinationZip string
	shipment       domain.ShipmentAggregate
	quote          domain.Quote
}

// price resolves the destination, aggregates the items and consumes the first carrier result.
func (s *Service) price(ctx context.Context, caller auth.Caller, order *domain.Order) (quotation, error) {
	identity := caller.Identity
	if caller.IsAdmin() {
		identity = order.Owner
	}
	zip, err := s.lookupZip(ctx, identity)
	if err != nil {
		return quotation{}, err
	}
	shipment, err := s.aggregate(ctx, order)
	if err != nil {
		return quotation{}, err
	}
	req := s.quoteRequest(zip, shipment)

	callCtx, cancel := s.upstreamContext(ctx)
	defer cancel()
	resp, err := s.quoter.Quote(callCtx, req)
	if err != nil {
		return quotation{}, fmt.Errorf("%w: %w", ErrQuoteUnavailable, err)
	}
	if resp == nil || len(resp.Services) == 0 {
		return quotation{}, fmt.Errorf("%w: carrier returned no services", ErrQuoteUnavailable)
	}
	first := resp.Services[0]
	if strings.TrimSpace(first.ErrorCode) != ports.QuoteSuccessCode {
		return quotation{}, &QuoteRejectedError{Code: strings.TrimSpace(first.ErrorCode), Message: strings.TrimSpace(first.ErrorMessage)}
	}
	quote, err := parseQuote(first)
	if err != nil {
		return quotation{}, err
	}
	return quotation{destinationZip: zip, shipment: shipment, quote: quote}, nil
}

func (s *Service) lookupZip(ctx context.Context, identity string) (string, error) {
	callCtx, cancel := s.upstreamContext(ctx)
	defer cancel()
	customer, err := s.directory.FindCustomer(callCtx, identity)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrDirectoryLookupFailed, err)
	}
	if customer == nil || strings.TrimSpace(customer.Zip) == "" {
		return "", fmt.Errorf("%w: no postal code for %q", ErrDirectoryLookupFailed, identity)
	}
	return strings.TrimSpace(customer.Zip), nil
}

// aggregate fails with ErrPreconditionFailed when an item's product left the catalog.
func (s *Service) aggregate(ctx context.Context, order *domain.Order) (domain.ShipmentAggregate, error) {
	products, err := s.catalog.GetByIDs(ctx, order.ProductIDs())
	if err != nil {
		return domain.ShipmentAggregate{}, err
	}
	lines := make([]domain.ShipmentLine, 0, len(order.Items))
	for _, item := range order.Items {
		product, ok := products[item.ProductID]
		if !ok {
			return domain.ShipmentAggregate{}, fmt.Errorf("%w: product %d no longer exists", ErrPreconditionFailed, item.ProductID)
		}
		lines = append(lines, domain.ShipmentLine{Product: *product, Quantity: item.Quantity})
	}
	return domain.AggregateShipment(lines)
}

func (s *Service) quoteRequest(destinationZip string, shipment domain.ShipmentAggregate) ports.QuoteRequest {
	declared := "0"
	if s.pricing.Insured {
		declared = shipment.DeclaredValue.StringFixed(2)
	}
	return ports.QuoteRequest{
		OriginZip:      s.pricing.OriginZip,
		DestinationZip: destinationZip,
		ServiceCode:    s.pricing.ServiceCode,
		WeightKg:       shipment.WeightKg(),
		PackageCount:   1,
		Length:         shipment.Length.String(),
		Height:         shipment.Height.String(),
		Width:          shipment.Width.String(),
		Diameter:       shipment.Diameter.String(),
		DeclaredValue:  declared,
		OwnHands:       s.pricing.OwnHands,
		Insured:        s.pricing.Insured,
		ReceiptNotice:  s.pricing.ReceiptNotice,
	}
}

func (s *Service) upstreamContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.upstreamTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.upstreamTimeout)
}

func (s *Service) loadAuthorized(ctx context.Context, caller auth.Caller, id int64) (*domain.Order, error) {
	order, err := s.repo.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorize(caller, order.Owner); err != nil {
		return nil, err
	}
	return order, nil
}

func authorize(caller auth.Caller, owner string) error {
	if !caller.Authenticated() {
		return auth.ErrUnauthenticated
	}
	if !caller.CanAccess(owner) {
		return auth.ErrForbidden
	}
	return nil
}

func parseQuote(result ports.QuoteServiceResult) (domain.Quote, error) {
	price, err := decimal.NewFromString(strings.TrimSpace(result.Price))
	if err != nil {
		return domain.Quote{}, fmt.Errorf("%w: price %q: %w", ErrQuoteUnavailable, result.Price, err)
	}
	days, err := strconv.Atoi(strings.TrimSpace(result.LeadTimeDays))
	if err != nil {
		return domain.Quote{}, fmt.Errorf("%w: lead time %q: %w", ErrQuoteUnavailable, result.LeadTimeDays, err)
	}
	return domain.Quote{Price: price, LeadTimeDays: days}, nil
}

var _ ports.Service = (*Service)(nil)
