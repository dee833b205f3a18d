package correios

import (
	"context"
	"errors"

	correiosclient "github.com/Apurer/product-order-api/internal/clients/http/correios"
	"github.com/Apurer/product-order-api/internal/domains/orders/ports"
)

// Credentials are the optional contract code and password of the shipper.
type Credentials struct {
	CompanyCode string
	Password    string
}

// Quoter implements the shipping quote port with Correios.
type Quoter struct {
	client      *correiosclient.Client
	credentials Credentials
}

func NewQuoter(client *correiosclient.Client, credentials Credentials) *Quoter {
	return &Quoter{client: client, credentials: credentials}
}

// Quote keeps the carrier's result order and rewrites decimal commas.
func (q *Quoter) Quote(ctx context.Context, req ports.QuoteRequest) (*ports.QuoteResponse, error) {
	if q == nil || q.client == nil {
		return nil, errors.New("correios quoter not configured")
	}
	resp, err := q.client.CalcPrecoPrazo(ctx, toRequest(req, q.credentials))
	if err != nil {
		return nil, err
	}
	out := &ports.QuoteResponse{Services: make([]ports.QuoteServiceResult, 0, len(resp.Services))}
	for _, svc := range resp.Services {
		out.Services = append(out.Services, ports.QuoteServiceResult{
			ServiceCode:  svc.Code,
			ErrorCode:    svc.ErrorCode,
			ErrorMessage: svc.ErrorMessage,
			Price:        correiosclient.NormalizeDecimal(svc.Price),
			LeadTimeDays: svc.LeadTimeDays,
		})
	}
	return out, nil
}

func toRequest(req ports.QuoteRequest, credentials Credentials) correiosclient.Request {
	return correiosclient.Request{
		CompanyCode:    credentials.CompanyCode,
		Password:       credentials.Password,
		ServiceCode:    req.ServiceCode,
		OriginZip:      req.OriginZip,
		DestinationZip: req.DestinationZip,
		WeightKg:       req.WeightKg,
		Format:         correiosclient.FormatBox,
		Length:         req.Length,
		Height:         req.Height,
		Width:          req.Width,
		Diameter:       req.Diameter,
		OwnHands:       req.OwnHands,
		DeclaredValue:  req.DeclaredValue,
		ReceiptNotice:  req.ReceiptNotice,
	}
}

var _ ports.ShippingQuoter = (*Quoter)(nil)
