package observability

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	ordersapp "github.com/Apurer/product-order-api/internal/domains/orders/application"
	ordersdomain "github.com/Apurer/product-order-api/internal/domains/orders/domain"
	ordersports "github.com/Apurer/product-order-api/internal/domains/orders/ports"
	"github.com/Apurer/product-order-api/internal/shared/auth"
)

const tracerName = "github.com/Apurer/product-order-api/internal/domains/orders/adapters/observability/service"

// Service decorates the orders service with tracing, logging, and metrics.
type Service struct {
	inner   ordersports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tr
	}
}

func WithMeter(m metric.Meter) Option {
	return func(s *Service) {
		s.metrics = newServiceMetrics(m)
	}
}

// New wraps the core orders service.
func New(inner ordersports.Service, opts ...Option) ordersports.Service {
	s := &Service{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		metrics: newServiceMetrics(nil),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.tracer == nil {
		s.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	return s
}

func (s *Service) CreateOrder(ctx context.Context, caller auth.Caller, input ordersports.CreateOrderInput) (*ordersdomain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.CreateOrder",
		trace.WithAttributes(attribute.String("caller.identity", caller.Identity), attribute.Int("order.items", len(input.Items))))
	defer span.End()

	s.logInfo(ctx, "creating order", slog.String("caller.identity", caller.Identity), slog.Int("order.items", len(input.Items)))
	result, err := s.inner.CreateOrder(ctx, caller, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to create order", slog.String("caller.identity", caller.Identity))
	}
	s.metrics.recordCreated(ctx)
	s.logInfo(ctx, "order created", slog.Int64("order.id", result.ID), slog.String("order.owner", result.Owner))
	return result, nil
}

func (s *Service) GetOrder(ctx context.Context, caller auth.Caller, id int64) (*ordersdomain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.GetOrder", trace.WithAttributes(attribute.Int64("order.id", id)))
	defer span.End()

	result, err := s.inner.GetOrder(ctx, caller, id)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load order", slog.Int64("order.id", id))
	}
	span.SetAttributes(attribute.String("order.status", string(result.Status)))
	return result, nil
}

func (s *Service) ListOrders(ctx context.Context, caller auth.Caller) ([]*ordersdomain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.ListOrders")
	defer span.End()

	result, err := s.inner.ListOrders(ctx, caller)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list orders", slog.String("caller.identity", caller.Identity))
	}
	span.SetAttributes(attribute.Int("order.count", len(result)))
	return result, nil
}

func (s *Service) ListOrdersByOwner(ctx context.Context, caller auth.Caller, owner string) ([]*ordersdomain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.ListOrdersByOwner", trace.WithAttributes(attribute.String("order.owner", owner)))
	defer span.End()

	result, err := s.inner.ListOrdersByOwner(ctx, caller, owner)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list orders by owner", slog.String("order.owner", owner))
	}
	span.SetAttributes(attribute.Int("order.count", len(result)))
	return result, nil
}

func (s *Service) DeleteOrder(ctx context.Context, caller auth.Caller, id int64) (*ordersdomain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.DeleteOrder", trace.WithAttributes(attribute.Int64("order.id", id)))
	defer span.End()

	s.logInfo(ctx, "deleting order", slog.Int64("order.id", id), slog.String("caller.identity", caller.Identity))
	result, err := s.inner.DeleteOrder(ctx, caller, id)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to delete order", slog.Int64("order.id", id))
	}
	s.metrics.recordDeleted(ctx)
	s.logInfo(ctx, "order deleted", slog.Int64("order.id", id))
	return result, nil
}

func (s *Service) EstimateFreight(ctx context.Context, caller auth.Caller, id int64) (*ordersports.FreightEstimate, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.EstimateFreight", trace.WithAttributes(attribute.Int64("order.id", id)))
	defer span.End()

	result, err := s.inner.EstimateFreight(ctx, caller, id)
	if err != nil {
		s.recordRejection(ctx, err)
		return nil, s.handleError(ctx, span, err, "failed to estimate freight", slog.Int64("order.id", id))
	}
	s.logInfo(ctx, "freight estimated", slog.Int64("order.id", id),
		slog.String("freight.price", result.FreightPrice.StringFixed(2)), slog.Int("freight.lead_time_days", result.LeadTimeDays))
	return result, nil
}

func (s *Service) RequestQuoteAndClose(ctx context.Context, input ordersports.CloseOrderInput) (*ordersdomain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.RequestQuoteAndClose",
		trace.WithAttributes(attribute.Int64("order.id", input.OrderID), attribute.String("caller.identity", input.Caller.Identity)))
	defer span.End()

	s.logInfo(ctx, "requesting quote", slog.Int64("order.id", input.OrderID), slog.String("caller.identity", input.Caller.Identity))
	result, err := s.inner.RequestQuoteAndClose(ctx, input)
	if err != nil {
		s.recordRejection(ctx, err)
		return nil, s.handleError(ctx, span, err, "failed to close order", slog.Int64("order.id", input.OrderID),
			slog.String("error.kind", ordersapp.KindOf(err)))
	}
	s.metrics.recordClosed(ctx)
	span.SetAttributes(attribute.Int64("order.version", result.Version))
	s.logInfo(ctx, "order closed", slog.Int64("order.id", result.ID),
		slog.String("order.freight_price", result.FreightPrice.StringFixed(2)), slog.Int64("order.version", result.Version))
	return result, nil
}

func (s *Service) ResolveZip(ctx context.Context, caller auth.Caller) (string, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.ResolveZip")
	defer span.End()

	zip, err := s.inner.ResolveZip(ctx, caller)
	if err != nil {
		return "", s.handleError(ctx, span, err, "failed to resolve zip", slog.String("caller.identity", caller.Identity))
	}
	return zip, nil
}

func (s *Service) recordRejection(ctx context.Context, err error) {
	var rejected *ordersapp.QuoteRejectedError
	if errors.As(err, &rejected) {
		s.metrics.recordRejected(ctx, rejected.Code)
	}
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func (s *Service) logError(ctx context.Context, msg string, err error, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	s.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	s.logError(ctx, msg, err, attrs...)
	return err
}

type serviceMetrics struct {
	ordersCreated  metric.Int64Counter
	ordersClosed   metric.Int64Counter
	quotesRejected metric.Int64Counter
	ordersDeleted  metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	ordersCreated, _ := m.Int64Counter("orders.service.orders_created", metric.WithDescription("Number of orders created"))
	ordersClosed, _ := m.Int64Counter("orders.service.orders_closed", metric.WithDescription("Number of orders priced and closed"))
	quotesRejected, _ := m.Int64Counter("orders.service.quotes_rejected", metric.WithDescription("Number of carrier quote rejections"))
	ordersDeleted, _ := m.Int64Counter("orders.service.orders_deleted", metric.WithDescription("Number of orders deleted"))
	return serviceMetrics{
		ordersCreated:  ordersCreated,
		ordersClosed:   ordersClosed,
		quotesRejected: quotesRejected,
		ordersDeleted:  ordersDeleted,
	}
}

func (m serviceMetrics) recordCreated(ctx context.Context) {
	if m.ordersCreated != nil {
		m.ordersCreated.Add(ctx, 1)
	}
}

func (m serviceMetrics) recordClosed(ctx context.Context) {
	if m.ordersClosed != nil {
		m.ordersClosed.Add(ctx, 1)
	}
}

func (m serviceMetrics) recordRejected(ctx context.Context, code string) {
	if m.quotesRejected != nil {
		m.quotesRejected.Add(ctx, 1, metric.WithAttributes(attribute.String("carrier.error_code", code)))
	}
}

func (m serviceMetrics) recordDeleted(ctx context.Context) {
	if m.ordersDeleted != nil {
		m.ordersDeleted.Add(ctx, 1)
	}
}

var _ ordersports.Service = (*Service)(nil)
