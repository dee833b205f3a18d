package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/Apurer/product-order-api/internal/domains/orders/ports"
)

var _ ports.CustomerDirectory = (*StaticDirectory)(nil)

// StaticDirectory answers ZIP lookups from a fixed table, for local runs without a CRM.
type StaticDirectory struct {
	mu   sync.RWMutex
	zips map[string]string
}

func NewStaticDirectory(zips map[string]string) *StaticDirectory {
	d := &StaticDirectory{zips: map[string]string{}}
	for identity, zip := range zips {
		d.Set(identity, zip)
	}
	return d
}

// ParseStaticZips reads "user=zip,other=zip" pairs.
func ParseStaticZips(raw string) (map[string]string, error) {
	zips := map[string]string{}
	for _, pair := range strings.Split(raw, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		identity, zip, ok := strings.Cut(pair, "=")
		identity, zip = strings.TrimSpace(identity), strings.TrimSpace(zip)
		if !ok || identity == "" || zip == "" {
			return nil, fmt.Errorf("invalid static zip entry %q", pair)
		}
		zips[strings.ToLower(identity)] = zip
	}
	return zips, nil
}

func (d *StaticDirectory) Set(identity, zip string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.zips[strings.ToLower(strings.TrimSpace(identity))] = strings.TrimSpace(zip)
}

func (d *StaticDirectory) FindCustomer(_ context.Context, emailOrUsername string) (*ports.Customer, error) {
	key := strings.ToLower(strings.TrimSpace(emailOrUsername))
	d.mu.RLock()
	defer d.mu.RUnlock()
	zip, ok := d.zips[key]
	if !ok {
		return nil, ports.ErrCustomerNotFound
	}
	return &ports.Customer{Email: key, Zip: zip}, nil
}
