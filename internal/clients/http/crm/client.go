// Package crm is the HTTP client for the customer relationship service.
package crm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ErrCustomerNotFound is returned when the CRM answers 404.
var ErrCustomerNotFound = errors.New("crm customer not found")

// Customer is the CRM customer resource.
type Customer struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
	Zip     string `json:"zip"`
}

// Client exposes the customer lookups used by the order service.
type Client struct {
	api *api
}

// NewClient instantiates the CRM client. A nil httpClient gets a 5s timeout.
func NewClient(baseURL string, httpClient *http.Client, opts ...ClientOption) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("crm base URL is required")
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 5 * time.Second}
	}
	api, err := newAPI(baseURL, append([]ClientOption{WithHTTPClient(httpClient)}, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("build crm client: %w", err)
	}
	return &Client{api: api}, nil
}

// GetCustomerByEmail fetches a customer by e-mail address.
func (c *Client) GetCustomerByEmail(ctx context.Context, email string) (*Customer, error) {
	if c == nil || c.api == nil {
		return nil, errors.New("crm client not configured")
	}
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, errors.New("crm email is required")
	}
	resp, err := c.api.getCustomerByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("call crm API: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		var customer Customer
		if err := json.NewDecoder(resp.Body).Decode(&customer); err != nil {
			return nil, fmt.Errorf("decode crm customer: %w", err)
		}
		return &customer, nil
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrCustomerNotFound
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("crm API unexpected status %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}
}
