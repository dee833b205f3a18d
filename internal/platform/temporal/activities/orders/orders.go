package orders

import (
	"context"
	"errors"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"

	ordersapp "github.com/Apurer/product-order-api/internal/domains/orders/application"
	ordersdomain "github.com/Apurer/product-order-api/internal/domains/orders/domain"
	ordersports "github.com/Apurer/product-order-api/internal/domains/orders/ports"
)

// QuoteAndCloseActivityName prices an order and closes it.
const QuoteAndCloseActivityName = "orders.activities.QuoteAndClose"

// FailureDetail travels with every application error returned by the activities so callers
// can rebuild the failure.
type FailureDetail struct {
	Message        string
	CarrierCode    string
	CarrierMessage string
}

// Activities groups activities that operate on the orders bounded context.
type Activities struct {
	service ordersports.Service
}

// NewActivities wires the orders service into the Temporal activities bundle.
func NewActivities(service ordersports.Service) *Activities {
	return &Activities{service: service}
}

// QuoteAndClose runs the pricing use case once. Known failures are returned as non-retryable
// application errors typed with their kind.
func (a *Activities) QuoteAndClose(ctx context.Context, input ordersports.CloseOrderInput) (*ordersdomain.Order, error) {
	logger := activity.GetLogger(ctx)
	if a == nil || a.service == nil {
		logger.Error("quote and close activity not initialized", "orderId", input.OrderID)
		return nil, errors.New("quote and close activity not initialized")
	}
	logger.Info("QuoteAndClose activity started", "orderId", input.OrderID)
	order, err := a.service.RequestQuoteAndClose(ctx, input)
	if err != nil {
		logger.Error("QuoteAndClose activity failed", "orderId", input.OrderID, "error", err)
		return nil, toApplicationError(err)
	}
	logger.Info("QuoteAndClose activity completed", "orderId", order.ID, "version", order.Version)
	return order, nil
}

func toApplicationError(err error) error {
	kind := ordersapp.KindOf(err)
	if kind == "" {
		return err
	}
	detail := FailureDetail{Message: err.Error()}
	var rejected *ordersapp.QuoteRejectedError
	if errors.As(err, &rejected) {
		detail.CarrierCode = rejected.Code
		detail.CarrierMessage = rejected.Message
	}
	return temporal.NewNonRetryableApplicationError(err.Error(), kind, err, detail)
}

// FromApplicationError rebuilds the use-case error carried by a failed activity or workflow.
// Errors without a known kind are returned unchanged.
func FromApplicationError(err error) error {
	var appErr *temporal.ApplicationError
	if !errors.As(err, &appErr) {
		return err
	}
	kind := appErr.Type()
	var detail FailureDetail
	if appErr.HasDetails() {
		if derr := appErr.Details(&detail); derr != nil {
			return err
		}
	}
	if kind == ordersapp.KindQuoteRejected {
		return &ordersapp.QuoteRejectedError{Code: detail.CarrierCode, Message: detail.CarrierMessage}
	}
	if ordersapp.KindOf(ordersapp.FromKind(kind, "")) == "" {
		return err
	}
	message := detail.Message
	if message == "" {
		message = err.Error()
	}
	return ordersapp.FromKind(kind, message)
}
