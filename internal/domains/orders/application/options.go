package application

import "time"

const (
	DefaultOriginZip       = "37540000"
	DefaultServiceCode     = "40010"
	DefaultUpstreamTimeout = 5 * time.Second
)

// PricingConfig holds the fixed parameters of every quote request.
type PricingConfig struct {
	OriginZip     string
	ServiceCode   string
	OwnHands      bool
	Insured       bool
	ReceiptNotice bool
}

// DefaultPricing ships from the warehouse ZIP with declared value and a delivery receipt.
func DefaultPricing() PricingConfig {
	return PricingConfig{
		OriginZip:     DefaultOriginZip,
		ServiceCode:   DefaultServiceCode,
		Insured:       true,
		ReceiptNotice: true,
	}
}

type Option func(*Service)

// WithClock overrides the time source used for creation and delivery dates.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

func WithPricing(cfg PricingConfig) Option {
	return func(s *Service) {
		if cfg.OriginZip != "" {
			s.pricing.OriginZip = cfg.OriginZip
		}
		if cfg.ServiceCode != "" {
			s.pricing.ServiceCode = cfg.ServiceCode
		}
		s.pricing.OwnHands = cfg.OwnHands
		s.pricing.Insured = cfg.Insured
		s.pricing.ReceiptNotice = cfg.ReceiptNotice
	}
}

// WithUpstreamTimeout bounds each directory and carrier call. Zero disables the bound.
func WithUpstreamTimeout(timeout time.Duration) Option {
	return func(s *Service) {
		s.upstreamTimeout = timeout
	}
}
