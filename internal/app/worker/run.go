package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"

	"github.com/Apurer/product-order-api/internal/app/config"
	"github.com/Apurer/product-order-api/internal/app/wiring"
	platformobservability "github.com/Apurer/product-order-api/internal/platform/observability"
	platformtemporal "github.com/Apurer/product-order-api/internal/platform/temporal"
	orderactivities "github.com/Apurer/product-order-api/internal/platform/temporal/activities/orders"
	orderworkflows "github.com/Apurer/product-order-api/internal/platform/temporal/workflows/orders"
)

const serviceName = "product-order-worker"

// Run hosts the order pricing workflow and activity until ctx is cancelled.
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

	if !cfg.UsePostgres() {
		return errors.New("worker requires POSTGRES_DSN: activities must share the API's order store")
	}
	repos, err := wiring.ConnectRepositories(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to connect repositories: %w", err)
	}
	defer repos.Close()
	services, err := wiring.BuildServices(cfg, repos, instruments)
	if err != nil {
		return err
	}

	temporalClient, err := platformtemporal.Dial(cfg.TemporalAddress, cfg.TemporalNamespace, instruments, "temporal-worker")
	if err != nil {
		return fmt.Errorf("failed to create Temporal client: %w", err)
	}
	defer temporalClient.Close()

	w := worker.New(temporalClient, orderworkflows.OrderPricingTaskQueue, worker.Options{})
	Register(w, orderactivities.NewActivities(services.Orders))

	logger.Info("worker listening", slog.String("taskQueue", orderworkflows.OrderPricingTaskQueue), slog.String("namespace", cfg.TemporalNamespace))
	stop := make(chan interface{})
	go func() {
		<-ctx.Done()
		close(stop)
	}()
	if err := w.Run(stop); err != nil {
		logger.Error("Temporal worker exited with error", slog.String("error", err.Error()))
		return err
	}
	logger.Info("Temporal worker stopped")
	return nil
}

// Register adds the pricing workflow and activity to a worker under their public names.
func Register(w worker.Registry, activities *orderactivities.Activities) {
	w.RegisterWorkflowWithOptions(orderworkflows.QuoteAndCloseWorkflow, workflow.RegisterOptions{Name: orderworkflows.QuoteAndCloseWorkflowName})
	w.RegisterActivityWithOptions(activities.QuoteAndClose, activity.RegisterOptions{Name: orderactivities.QuoteAndCloseActivityName})
}
