package ports

import (
	"context"
	"errors"

	catalogdomain "github.com/Apurer/product-order-api/internal/domains/catalog/domain"
)

// ErrCustomerNotFound is returned by a CustomerDirectory that has no record for the identity.
var ErrCustomerNotFound = errors.New("customer not found")

// ProductCatalog resolves the products referenced by order items. Missing ids are absent from the map.
type ProductCatalog interface {
	GetByIDs(ctx context.Context, ids []int64) (map[int64]*catalogdomain.Product, error)
}

// Customer is the CRM view needed for shipping.
type Customer struct {
	Email string
	Name  string
	Zip   string
}

// CustomerDirectory looks up customers by e-mail or username.
type CustomerDirectory interface {
	FindCustomer(ctx context.Context, emailOrUsername string) (*Customer, error)
}

// QuoteSuccessCode marks a service result the carrier accepted.
const QuoteSuccessCode = "0"

// QuoteRequest describes one package between two ZIP codes.
type QuoteRequest struct {
	OriginZip      string
	DestinationZip string
	ServiceCode    string
	WeightKg       string
	PackageCount   int
	Length         string
	Height         string
	Width          string
	Diameter       string
	DeclaredValue  string
	OwnHands       bool
	Insured        bool
	ReceiptNotice  bool
}

// QuoteServiceResult is one per-service entry of a carrier response. Numbers stay as sent.
type QuoteServiceResult struct {
	ServiceCode  string
	ErrorCode    string
	ErrorMessage string
	Price        string
	LeadTimeDays string
}

type QuoteResponse struct {
	Services []QuoteServiceResult
}

// ShippingQuoter asks a carrier for price and lead time.
type ShippingQuoter interface {
	Quote(ctx context.Context, req QuoteRequest) (*QuoteResponse, error)
}
