package ports

import (
	"context"

	"github.com/Apurer/product-order-api/internal/domains/orders/domain"
)

// WorkflowOrchestrator runs the quote-and-close use case, durably or inline.
type WorkflowOrchestrator interface {
	QuoteAndClose(ctx context.Context, input CloseOrderInput) (*domain.Order, error)
}
