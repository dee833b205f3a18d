package crm

import (
	"context"
	"errors"

	crmclient "github.com/Apurer/product-order-api/internal/clients/http/crm"
	"github.com/Apurer/product-order-api/internal/domains/orders/ports"
)

// Directory implements the customer directory port over the CRM API.
type Directory struct {
	client *crmclient.Client
}

// NewDirectory wires a CRM HTTP client into a directory adapter.
func NewDirectory(client *crmclient.Client) *Directory {
	return &Directory{client: client}
}

// FindCustomer resolves an identity, which is the customer's e-mail, to its CRM record.
func (d *Directory) FindCustomer(ctx context.Context, emailOrUsername string) (*ports.Customer, error) {
	if d == nil || d.client == nil {
		return nil, errors.New("crm directory not configured")
	}
	customer, err := d.client.GetCustomerByEmail(ctx, emailOrUsername)
	if err != nil {
		if errors.Is(err, crmclient.ErrCustomerNotFound) {
			return nil, ports.ErrCustomerNotFound
		}
		return nil, err
	}
	return &ports.Customer{Email: customer.Email, Name: customer.Name, Zip: customer.Zip}, nil
}

var _ ports.CustomerDirectory = (*Directory)(nil)
