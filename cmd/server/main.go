package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"

	"github.com/rod/jackpot-ingest/internal/api"
	"github.com/rod/jackpot-ingest/internal/config"
	"github.com/rod/jackpot-ingest/internal/db"
	"github.com/rod/jackpot-ingest/internal/ingest"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	ctx := context.Background()
	pool, err := db.ConnectURL(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	if err := db.ApplyMigrations(ctx, pool); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	store := db.NewStore(pool)

	reg, err := ingest.LoadRegistry("internal/ingest/config/sources.yaml")
	if err != nil {
		log.Fatalf("Failed to load source registry: %v", err)
	}
	scrapers, err := ingest.BuildScrapers(reg, ingest.ScraperDefaults{
		UserAgent: cfg.UserAgent,
		Timeout:   cfg.RequestTimeout,
	})
	if err != nil {
		log.Fatalf("Failed to build scrapers: %v", err)
	}

	orch := &ingest.Orchestrator{
		Store:    store,
		Scrapers: scrapers,
		Workers:  cfg.IngestWorkers,
	}

	srv := api.NewServer(store, orch.Run, cfg.AdminSecret)
	log.Printf("Server starting on port %s...", cfg.Port)
	if err := srv.Start(cfg.Port); err != nil {
		log.Fatal(err)
	}
}
