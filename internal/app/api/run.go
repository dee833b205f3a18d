package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.temporal.io/sdk/client"
	"golang.org/x/sync/errgroup"

	orderserver "github.com/Apurer/product-order-api/go"
	"github.com/Apurer/product-order-api/internal/app/config"
	"github.com/Apurer/product-order-api/internal/app/wiring"
	platformobservability "github.com/Apurer/product-order-api/internal/platform/observability"
	platformtemporal "github.com/Apurer/product-order-api/internal/platform/temporal"
)

const (
	serviceName     = "product-order-api"
	shutdownTimeout = 10 * time.Second
)

// Run boots the product and order HTTP API and serves until ctx is cancelled.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	repos := wiring.BuildRepositories(ctx, cfg, logger)
	defer repos.Close()
	if cfg.SeedCatalog {
		if err := wiring.SeedCatalog(ctx, repos, logger); err != nil {
			return err
		}
	}
	services, err := wiring.BuildServices(cfg, repos, instruments)
	if err != nil {
		return err
	}

	orderWorkflows, closeWorkflows := wiring.BuildOrderWorkflows(repos, services.Orders, func() (client.Client, error) {
		return dialTemporal(cfg, instruments)
	}, logger)
	defer closeWorkflows()

	handlers := orderserver.ApiHandleFunctions{
		OrderAPI:   orderserver.NewOrderAPI(services.Orders, orderWorkflows),
		ProductAPI: orderserver.NewProductAPI(services.Catalog),
	}
	router := orderserver.NewRouterWithGinEngine(gin.New(), handlers, gin.Recovery(), otelgin.Middleware(serviceName))
	return serve(ctx, logger, ":"+cfg.Port, router)
}

func dialTemporal(cfg config.Config, instruments *platformobservability.Instruments) (client.Client, error) {
	if cfg.TemporalDisabled {
		return nil, errors.New("temporal disabled via TEMPORAL_DISABLED env")
	}
	return platformtemporal.Dial(cfg.TemporalAddress, cfg.TemporalNamespace, instruments, "temporal-client")
}

// serve runs the HTTP server until ctx ends, then drains in-flight requests.
func serve(ctx context.Context, logger *slog.Logger, addr string, handler http.Handler) error {
	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("product order API listening", slog.String("addr", addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("product order API server exited", slog.String("addr", addr), slog.String("error", err.Error()))
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		logger.Info("product order API shutting down")
		return server.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
