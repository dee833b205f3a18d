package orders

import (
	"go.temporal.io/sdk/workflow"

	ordersdomain "github.com/Apurer/product-order-api/internal/domains/orders/domain"
	ordersports "github.com/Apurer/product-order-api/internal/domains/orders/ports"
	"github.com/Apurer/product-order-api/internal/platform/temporal/sequences"
)

const (
	// QuoteAndCloseWorkflowName is the public identifier for registering the workflow.
	QuoteAndCloseWorkflowName = "orders.workflows.QuoteAndClose"
	// OrderPricingTaskQueue is the queue consumed by the worker processing order workflows.
	OrderPricingTaskQueue = "ORDER_PRICING"
)

// QuoteAndCloseWorkflowInput captures the order to price and the caller asking for it.
type QuoteAndCloseWorkflowInput struct {
	Command ordersports.CloseOrderInput
	TraceID string
}

// QuoteAndCloseWorkflow prices an order with the carrier and closes it.
func QuoteAndCloseWorkflow(ctx workflow.Context, input QuoteAndCloseWorkflowInput) (*ordersdomain.Order, error) {
	logger := workflow.GetLogger(ctx)
	orderID := input.Command.OrderID
	logger.Info("QuoteAndCloseWorkflow started", withTraceID(input.TraceID, "orderId", orderID)...)
	order, err := sequences.RunQuoteAndCloseSequence(ctx, input.Command)
	if err != nil {
		logger.Error("QuoteAndCloseWorkflow failed", withTraceID(input.TraceID, "orderId", orderID, "error", err)...)
		return nil, err
	}
	logger.Info("QuoteAndCloseWorkflow completed", withTraceID(input.TraceID, "orderId", order.ID, "status", string(order.Status))...)
	return order, nil
}

func withTraceID(traceID string, keyvals ...interface{}) []interface{} {
	if traceID == "" {
		return keyvals
	}
	return append(keyvals, "traceId", traceID)
}
