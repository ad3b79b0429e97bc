package ingest

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/alitto/pond/v2"

	"github.com/rod/jackpot-ingest/internal/models"
)

// Store is the persistence surface the orchestrator needs. *db.Store
// satisfies it; tests substitute an in-memory implementation.
type Store interface {
	CreateRun(ctx context.Context) (int64, error)
	FinishRun(ctx context.Context, runID int64, status, errMsg string) error
	UpsertSource(ctx context.Context, casino, property, baseURL string) (int64, error)
	InsertJackpots(ctx context.Context, rows []models.NewJackpot) (int, error)
	RecordSourceOutcome(ctx context.Context, outcome models.SourceOutcome) error
}

// RunResult summarizes one completed ingestion run.
type RunResult struct {
	RunID    int64
	Status   string
	Inserted int
	Sources  []models.SourceOutcome
}

// Orchestrator drives one ingestion run: every scraper fetches, its
// records are fingerprinted and upserted, and the per-source outcome is
// recorded against the run. Scraper failures are isolated; only storage
// failures fail the run.
type Orchestrator struct {
	Store    Store
	Scrapers []Scraper
	// Workers bounds scraper concurrency. Values below 1 run serially.
	Workers int
}

func (o *Orchestrator) Run(ctx context.Context) (RunResult, error) {
	runID, err := o.Store.CreateRun(ctx)
	if err != nil {
		return RunResult{}, fmt.Errorf("failed to open ingest run: %w", err)
	}
	result := RunResult{RunID: runID, Status: models.RunOK}

	workers := o.Workers
	if workers < 1 {
		workers = 1
	}

	var (
		mu       sync.Mutex
		fatalErr error
	)
	outcomes := make([]models.SourceOutcome, len(o.Scrapers))

	pool := pond.NewPool(workers)
	for i, scraper := range o.Scrapers {
		pool.Submit(func() {
			outcome, err := o.ingestSource(ctx, runID, scraper)
			mu.Lock()
			outcomes[i] = outcome
			if err != nil && fatalErr == nil {
				fatalErr = err
			}
			mu.Unlock()
		})
	}
	pool.StopAndWait()

	for _, outcome := range outcomes {
		result.Sources = append(result.Sources, outcome)
		result.Inserted += outcome.RecordsInserted
	}

	status, errMsg := models.RunOK, ""
	if fatalErr != nil {
		status, errMsg = models.RunError, fatalErr.Error()
	}
	result.Status = status

	if err := o.Store.FinishRun(ctx, runID, status, errMsg); err != nil {
		return result, fmt.Errorf("failed to close ingest run %d: %w", runID, err)
	}
	if fatalErr != nil {
		return result, fatalErr
	}
	return result, nil
}

// ingestSource handles one scraper end to end. The returned error is
// fatal for the whole run (storage trouble); scraper trouble lands in
// the outcome instead.
func (o *Orchestrator) ingestSource(ctx context.Context, runID int64, scraper Scraper) (models.SourceOutcome, error) {
	src := scraper.Source()
	outcome := models.SourceOutcome{
		RunID:    runID,
		Casino:   src.Casino,
		Property: src.Property,
		Status:   models.RunOK,
	}

	sourceID, err := o.Store.UpsertSource(ctx, src.Casino, src.Property, src.BaseURL)
	if err != nil {
		return outcome, fmt.Errorf("[%s] failed to upsert source: %w", src.ID, err)
	}
	outcome.SourceID = sourceID

	records, err := scraper.Fetch(ctx)
	if err != nil {
		log.Printf("[%s] scrape failed: %v", src.ID, err)
		msg := err.Error()
		outcome.Status = models.RunError
		outcome.Error = &msg
		o.recordOutcome(ctx, src.ID, outcome)
		return outcome, nil
	}
	outcome.RecordsFound = len(records)

	rows := make([]models.NewJackpot, 0, len(records))
	for _, rec := range records {
		sourceURL := rec.SourceURL
		if sourceURL == "" {
			sourceURL = src.BaseURL
		}
		var dateText *string
		if rec.PostedDate != nil {
			iso := rec.PostedDate.Format("2006-01-02")
			dateText = &iso
		}
		rows = append(rows, models.NewJackpot{
			Fingerprint: Fingerprint(sourceURL, rec.PostedDate, rec.Amount, rec.WinnerName, rec.Game),
			Casino:      src.Casino,
			MachineName: rec.Game,
			Amount:      rec.Amount,
			DateText:    dateText,
			SourceURL:   sourceURL,
			SourceID:    sourceID,
		})
	}

	inserted, err := o.Store.InsertJackpots(ctx, rows)
	if err != nil {
		msg := err.Error()
		outcome.Status = models.RunError
		outcome.Error = &msg
		o.recordOutcome(ctx, src.ID, outcome)
		return outcome, fmt.Errorf("[%s] failed to insert jackpots: %w", src.ID, err)
	}
	outcome.RecordsInserted = inserted

	log.Printf("[%s] found %d records, inserted %d new", src.ID, outcome.RecordsFound, inserted)
	o.recordOutcome(ctx, src.ID, outcome)
	return outcome, nil
}

func (o *Orchestrator) recordOutcome(ctx context.Context, sourceID string, outcome models.SourceOutcome) {
	if err := o.Store.RecordSourceOutcome(ctx, outcome); err != nil {
		log.Printf("[%s] failed to record source outcome: %v", sourceID, err)
	}
}
