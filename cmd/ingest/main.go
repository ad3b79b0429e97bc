// Command ingest runs one full ingestion synchronously. Designed for
// cron: it prints a per-source summary and exits non-zero only when the
// run itself failed, not when individual scrapers did.
package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/joho/godotenv"

	"github.com/rod/jackpot-ingest/internal/config"
	"github.com/rod/jackpot-ingest/internal/db"
	"github.com/rod/jackpot-ingest/internal/ingest"
)

func main() {
	casino := flag.String("casino", "", "Only run scrapers for this casino (e.g. Foxwoods)")
	flag.Parse()

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

	if *casino != "" {
		var filtered []ingest.Scraper
		for _, s := range scrapers {
			if s.Source().Casino == *casino {
				filtered = append(filtered, s)
			}
		}
		if len(filtered) == 0 {
			log.Fatalf("No active scraper for casino %q", *casino)
		}
		scrapers = filtered
	}

	orch := &ingest.Orchestrator{
		Store:    db.NewStore(pool),
		Scrapers: scrapers,
		Workers:  cfg.IngestWorkers,
	}

	result, runErr := orch.Run(ctx)
	printSummary(result)

	if runErr != nil {
		log.Fatalf("Run %d failed: %v", result.RunID, runErr)
	}
	log.Printf("Run %d finished: %d new jackpots", result.RunID, result.Inserted)
}

func printSummary(result ingest.RunResult) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Casino", "Property", "Status", "Found", "Inserted", "Error"})

	for _, src := range result.Sources {
		errMsg := ""
		if src.Error != nil {
			errMsg = *src.Error
		}
		t.AppendRow(table.Row{src.Casino, src.Property, src.Status, src.RecordsFound, src.RecordsInserted, errMsg})
	}
	t.AppendFooter(table.Row{"Run", result.RunID, result.Status, "", result.Inserted, ""})
	t.Render()
}
