// Package wiring assembles repositories, upstream clients and services from configuration.
package wiring

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"go.temporal.io/sdk/client"
	"gorm.io/gorm"

	"github.com/Apurer/product-order-api/internal/app/config"
	correiosclient "github.com/Apurer/product-order-api/internal/clients/http/correios"
	crmclient "github.com/Apurer/product-order-api/internal/clients/http/crm"
	catalogmemory "github.com/Apurer/product-order-api/internal/domains/catalog/adapters/memory"
	catalogobs "github.com/Apurer/product-order-api/internal/domains/catalog/adapters/observability"
	catalogpostgres "github.com/Apurer/product-order-api/internal/domains/catalog/adapters/persistence/postgres"
	catalogapp "github.com/Apurer/product-order-api/internal/domains/catalog/application"
	catalogports "github.com/Apurer/product-order-api/internal/domains/catalog/ports"
	correiosquoter "github.com/Apurer/product-order-api/internal/domains/orders/adapters/external/correios"
	crmdirectory "github.com/Apurer/product-order-api/internal/domains/orders/adapters/external/crm"
	ordersmemory "github.com/Apurer/product-order-api/internal/domains/orders/adapters/memory"
	ordersobs "github.com/Apurer/product-order-api/internal/domains/orders/adapters/observability"
	orderspostgres "github.com/Apurer/product-order-api/internal/domains/orders/adapters/persistence/postgres"
	ordersworkflows "github.com/Apurer/product-order-api/internal/domains/orders/adapters/workflows"
	ordersapp "github.com/Apurer/product-order-api/internal/domains/orders/application"
	ordersports "github.com/Apurer/product-order-api/internal/domains/orders/ports"
	"github.com/Apurer/product-order-api/internal/platform/migrations"
	platformobservability "github.com/Apurer/product-order-api/internal/platform/observability"
	platformpostgres "github.com/Apurer/product-order-api/internal/platform/postgres"
)

// Repositories bundles the persistence adapters of both bounded contexts.
type Repositories struct {
	Products catalogports.Repository
	Orders   ordersports.Repository
	durable  bool
	close    func()
}

// Durable reports whether the repositories are shared through Postgres. In-memory stores are
// private to one process.
func (r *Repositories) Durable() bool {
	return r != nil && r.durable
}

// Close releases the database connection, if any.
func (r *Repositories) Close() {
	if r != nil && r.close != nil {
		r.close()
	}
}

// BuildRepositories connects to Postgres and migrates the schema when a DSN is configured.
// Connection failures fall back to in-memory repositories.
func BuildRepositories(ctx context.Context, cfg config.Config, logger *slog.Logger) *Repositories {
	if !cfg.UsePostgres() {
		logger.Warn("POSTGRES_DSN not set, falling back to in-memory repositories")
		return memoryRepositories()
	}
	repos, err := ConnectRepositories(ctx, cfg)
	if err != nil {
		logger.Warn("failed to prepare postgres, falling back to memory", slog.String("error", err.Error()))
		return memoryRepositories()
	}
	logger.Info("repositories configured with postgres", slog.String("driver", cfg.PostgresDriver))
	return repos
}

// ConnectRepositories opens Postgres and migrates the schema, failing instead of falling back.
func ConnectRepositories(ctx context.Context, cfg config.Config) (*Repositories, error) {
	db, err := platformpostgres.Connect(ctx, cfg.PostgresDSN, cfg.PostgresDriver)
	if err != nil {
		return nil, err
	}
	if err := migrations.Run(db); err != nil {
		closeDB(db)
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Repositories{
		Products: catalogpostgres.NewRepository(db),
		Orders:   orderspostgres.NewRepository(db),
		durable:  true,
		close:    func() { closeDB(db) },
	}, nil
}

func memoryRepositories() *Repositories {
	return &Repositories{Products: catalogmemory.NewRepository(), Orders: ordersmemory.NewRepository()}
}

func closeDB(db *gorm.DB) {
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

// BuildDirectory returns the CRM-backed directory, or a static table when no CRM is configured.
func BuildDirectory(cfg config.Config, logger *slog.Logger) (ordersports.CustomerDirectory, error) {
	if cfg.CRMBaseURL == "" {
		zips, err := ordersmemory.ParseStaticZips(cfg.CRMStaticZips)
		if err != nil {
			return nil, err
		}
		logger.Warn("CRM_BASE_URL not set, using static customer directory", slog.Int("entries", len(zips)))
		return ordersmemory.NewStaticDirectory(zips), nil
	}
	client, err := crmclient.NewClient(cfg.CRMBaseURL, &http.Client{Timeout: cfg.UpstreamTimeout})
	if err != nil {
		return nil, fmt.Errorf("crm client: %w", err)
	}
	return crmdirectory.NewDirectory(client), nil
}

// BuildQuoter returns the carrier quote adapter.
func BuildQuoter(cfg config.Config) (ordersports.ShippingQuoter, error) {
	client, err := correiosclient.NewClient(cfg.CorreiosBaseURL, &http.Client{Timeout: cfg.UpstreamTimeout})
	if err != nil {
		return nil, fmt.Errorf("correios client: %w", err)
	}
	return correiosquoter.NewQuoter(client, correiosquoter.Credentials{
		CompanyCode: cfg.CorreiosCompanyCode,
		Password:    cfg.CorreiosPassword,
	}), nil
}

// Services holds the decorated use cases.
type Services struct {
	Catalog catalogports.Service
	Orders  ordersports.Service
}

// BuildServices wires the application services behind their observability decorators.
func BuildServices(cfg config.Config, repos *Repositories, instruments *platformobservability.Instruments) (*Services, error) {
	if repos == nil {
		return nil, errors.New("repositories are required")
	}
	logger := instruments.EffectiveLogger()
	directory, err := BuildDirectory(cfg, logger)
	if err != nil {
		return nil, err
	}
	quoter, err := BuildQuoter(cfg)
	if err != nil {
		return nil, err
	}

	pricing := ordersapp.DefaultPricing()
	pricing.OriginZip = cfg.ShippingOriginZip
	pricing.ServiceCode = cfg.ShippingServiceCode
	coreOrders := ordersapp.NewService(
		repos.Orders,
		repos.Products,
		directory,
		quoter,
		ordersapp.WithPricing(pricing),
		ordersapp.WithUpstreamTimeout(cfg.UpstreamTimeout),
	)
	return &Services{
		Catalog: catalogobs.New(
			catalogapp.NewService(repos.Products),
			catalogobs.WithLogger(logger),
			catalogobs.WithTracer(instruments.Tracer("internal.catalog.application")),
			catalogobs.WithMeter(instruments.Meter("internal.catalog.application")),
		),
		Orders: ordersobs.New(
			coreOrders,
			ordersobs.WithLogger(logger),
			ordersobs.WithTracer(instruments.Tracer("internal.orders.application")),
			ordersobs.WithMeter(instruments.Meter("internal.orders.application")),
		),
	}, nil
}

// SeedCatalog inserts the demo products that are not stored yet.
func SeedCatalog(ctx context.Context, repos *Repositories, logger *slog.Logger) error {
	inserted, err := catalogapp.SeedCatalog(ctx, repos.Products, catalogapp.DemoProducts())
	if err != nil {
		return fmt.Errorf("seed catalog: %w", err)
	}
	logger.Info("catalog seeded", slog.Int("inserted", inserted))
	return nil
}

// BuildOrderWorkflows picks the orchestrator for closing orders. The Temporal worker runs in
// another process, so durable orchestration needs shared repositories; otherwise orders are
// closed inline. The returned func releases the Temporal client.
func BuildOrderWorkflows(repos *Repositories, service ordersports.Service, dial func() (client.Client, error), logger *slog.Logger) (ordersports.WorkflowOrchestrator, func()) {
	inline := ordersworkflows.NewInlineOrderWorkflows(service)
	if !repos.Durable() {
		logger.Warn("repositories are process-local, closing orders inline")
		return inline, func() {}
	}
	temporalClient, err := dial()
	if err != nil {
		logger.Warn("Temporal workflows unavailable, closing orders inline", slog.String("error", err.Error()))
		return inline, func() {}
	}
	logger.Info("Temporal workflows enabled")
	return ordersworkflows.NewTemporalOrderWorkflows(temporalClient), temporalClient.Close
}
