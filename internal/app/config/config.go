// Package config loads process settings from the environment.
package config

import (
	"fmt"
	"regexp"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
	"go.temporal.io/sdk/client"
)

// DefaultCorreiosBaseURL is the public CalcPrecoPrazo endpoint.
const DefaultCorreiosBaseURL = "http://ws.correios.com.br/calculador/CalcPrecoPrazo.aspx"

var zipPattern = regexp.MustCompile(`^\d{5}-?\d{3}$`)

// Config carries environment-driven settings shared by the api, worker and seed processes.
type Config struct {
	Port                string        `mapstructure:"port"                  validate:"required,numeric"`
	PostgresDSN         string        `mapstructure:"postgres_dsn"`
	PostgresDriver      string        `mapstructure:"postgres_driver"       validate:"required,oneof=pgx postgres"`
	TemporalAddress     string        `mapstructure:"temporal_address"      validate:"required"`
	TemporalNamespace   string        `mapstructure:"temporal_namespace"    validate:"required"`
	TemporalDisabled    bool          `mapstructure:"temporal_disabled"`
	CRMBaseURL          string        `mapstructure:"crm_base_url"          validate:"omitempty,url"`
	CRMStaticZips       string        `mapstructure:"crm_static_zips"`
	CorreiosBaseURL     string        `mapstructure:"correios_base_url"     validate:"required,url"`
	CorreiosCompanyCode string        `mapstructure:"correios_company_code"`
	CorreiosPassword    string        `mapstructure:"correios_password"`
	ShippingOriginZip   string        `mapstructure:"shipping_origin_zip"   validate:"required,zip"`
	ShippingServiceCode string        `mapstructure:"shipping_service_code" validate:"required,numeric"`
	UpstreamTimeout     time.Duration `mapstructure:"upstream_timeout"      validate:"gt=0"`
	SeedCatalog         bool          `mapstructure:"seed_catalog"`
}

// UsePostgres reports whether repositories should be backed by Postgres.
func (c Config) UsePostgres() bool {
	return c.PostgresDSN != ""
}

// Load reads the environment, applies defaults and validates the result.
func Load() (Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("port", "8080")
	v.SetDefault("postgres_dsn", "")
	v.SetDefault("postgres_driver", "pgx")
	v.SetDefault("temporal_address", client.DefaultHostPort)
	v.SetDefault("temporal_namespace", client.DefaultNamespace)
	v.SetDefault("temporal_disabled", false)
	v.SetDefault("crm_base_url", "")
	v.SetDefault("crm_static_zips", "")
	v.SetDefault("correios_base_url", DefaultCorreiosBaseURL)
	v.SetDefault("correios_company_code", "")
	v.SetDefault("correios_password", "")
	v.SetDefault("shipping_origin_zip", "37540000")
	v.SetDefault("shipping_service_code", "40010")
	v.SetDefault("upstream_timeout", 5*time.Second)
	v.SetDefault("seed_catalog", false)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal error: %w", err)
	}

	validate := validator.New()
	if err := validate.RegisterValidation("zip", func(fl validator.FieldLevel) bool {
		return zipPattern.MatchString(fl.Field().String())
	}); err != nil {
		return Config{}, err
	}
	if err := validate.Struct(&cfg); err != nil {
		return Config{}, fmt.Errorf("validation failed: %w", err)
	}
	return cfg, nil
}
