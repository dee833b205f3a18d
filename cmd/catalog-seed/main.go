package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/Apurer/product-order-api/internal/app/config"
	"github.com/Apurer/product-order-api/internal/app/wiring"
)

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if !cfg.UsePostgres() {
		log.Fatal("POSTGRES_DSN not set; nothing to seed")
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	repos, err := wiring.ConnectRepositories(ctx, cfg)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer repos.Close()
	if err := wiring.SeedCatalog(ctx, repos, logger); err != nil {
		log.Fatalf("failed to seed catalog: %v", err)
	}
	log.Printf("catalog seed completed")
}
