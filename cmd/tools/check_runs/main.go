// Command check_runs prints the most recent ingest runs and their
// per-source outcomes.
package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/joho/godotenv"

	"github.com/rod/jackpot-ingest/internal/config"
	"github.com/rod/jackpot-ingest/internal/db"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	ctx := context.Background()
	pool, err := db.ConnectURL(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer pool.Close()

	store := db.NewStore(pool)
	runs, err := store.RecentRuns(ctx, 10)
	if err != nil {
		log.Fatal(err)
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Run", "Status", "Casino", "Found", "Inserted", "Duration", "Started At"})

	for _, run := range runs {
		duration := "Running..."
		if run.FinishedAt != nil {
			duration = run.FinishedAt.Sub(run.StartedAt).Round(time.Second).String()
		}
		if len(run.Sources) == 0 {
			t.AppendRow(table.Row{run.ID, run.Status, "-", "-", "-", duration, run.StartedAt.Format("Jan 02 15:04:05")})
			continue
		}
		for i, src := range run.Sources {
			runCol := any("")
			statusCol := any("")
			durCol := ""
			startCol := ""
			if i == 0 {
				runCol = run.ID
				statusCol = run.Status
				durCol = duration
				startCol = run.StartedAt.Format("Jan 02 15:04:05")
			}
			t.AppendRow(table.Row{runCol, statusCol, src.Casino, src.RecordsFound, src.RecordsInserted, durCol, startCol})
		}
	}
	t.Render()
}
