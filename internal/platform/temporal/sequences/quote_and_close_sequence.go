package sequences

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	ordersdomain "github.com/Apurer/product-order-api/internal/domains/orders/domain"
	ordersports "github.com/Apurer/product-order-api/internal/domains/orders/ports"
	orderactivities "github.com/Apurer/product-order-api/internal/platform/temporal/activities/orders"
)

// QuoteAndCloseActivityOptions allows a single attempt: the directory and quote calls are
// not repeated and a version conflict surfaces to the caller.
var QuoteAndCloseActivityOptions = workflow.ActivityOptions{
	StartToCloseTimeout: 30 * time.Second,
	RetryPolicy: &temporal.RetryPolicy{
		MaximumAttempts: 1,
	},
}

// RunQuoteAndCloseSequence executes the pricing activity and returns the closed order.
func RunQuoteAndCloseSequence(ctx workflow.Context, input ordersports.CloseOrderInput) (*ordersdomain.Order, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("quote and close sequence started", "orderId", input.OrderID)

	var order ordersdomain.Order
	err := workflow.ExecuteActivity(
		workflow.WithActivityOptions(ctx, QuoteAndCloseActivityOptions),
		orderactivities.QuoteAndCloseActivityName,
		input,
	).Get(ctx, &order)
	if err != nil {
		logger.Error("quote and close sequence failed", "orderId", input.OrderID, "error", err)
		return nil, err
	}
	logger.Info("quote and close sequence closed order", "orderId", order.ID, "version", order.Version)
	return &order, nil
}
