package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/rod/jackpot-ingest/internal/models"
)

type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// UpsertSource creates or refreshes a scraping target row and returns its id.
// Unique on (casino, property, base_url); the conflict update keeps the row
// usable as a stable foreign key anchor.
func (s *Store) UpsertSource(ctx context.Context, casino, property, baseURL string) (int64, error) {
	var id int64
	err := s.pool.QueryRow(ctx, `
		INSERT INTO sources (casino, property, base_url)
		VALUES ($1, $2, $3)
		ON CONFLICT (casino, property, base_url) DO UPDATE SET base_url = EXCLUDED.base_url
		RETURNING id
	`, casino, property, baseURL).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("upsert source %s/%s: %w", casino, property, err)
	}
	return id, nil
}

func (s *Store) CreateRun(ctx context.Context) (int64, error) {
	var id int64
	err := s.pool.QueryRow(ctx, `INSERT INTO ingest_runs DEFAULT VALUES RETURNING id`).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("create ingest run: %w", err)
	}
	return id, nil
}

func (s *Store) FinishRun(ctx context.Context, runID int64, status, errMsg string) error {
	_, err := s.pool.Exec(ctx, `
		UPDATE ingest_runs SET status = $1, error = NULLIF($2, ''), finished_at = NOW()
		WHERE id = $3
	`, status, errMsg, runID)
	if err != nil {
		return fmt.Errorf("finish ingest run %d: %w", runID, err)
	}
	return nil
}

func (s *Store) RecordSourceOutcome(ctx context.Context, o models.SourceOutcome) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO ingest_run_sources
			(run_id, source_id, casino, property, status, error, records_found, records_inserted)
		VALUES ($1, NULLIF($2, 0), $3, $4, $5, $6, $7, $8)
	`, o.RunID, o.SourceID, o.Casino, o.Property, o.Status, o.Error, o.RecordsFound, o.RecordsInserted)
	if err != nil {
		return fmt.Errorf("record source outcome for run %d: %w", o.RunID, err)
	}
	return nil
}

// InsertJackpots performs insert-or-skip for one scraper's batch inside a
// single transaction, so a source's writes are atomic. A fingerprint
// conflict is the dedupe contract, not a failure: the row is skipped and
// does not count toward the returned insert total.
func (s *Store) InsertJackpots(ctx context.Context, rows []models.NewJackpot) (int, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin jackpot batch: %w", err)
	}
	defer tx.Rollback(ctx)

	inserted := 0
	for _, row := range rows {
		machine := row.MachineName
		if machine == "" {
			machine = "Unknown"
		}
		tag, err := tx.Exec(ctx, `
			INSERT INTO multi_casino_jackpots
				(fingerprint, casino, machine_name, amount, date_text, source_url, source_id)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (fingerprint) DO NOTHING
		`, row.Fingerprint, row.Casino, machine, row.Amount, row.DateText, row.SourceURL, row.SourceID)
		if err != nil {
			return 0, fmt.Errorf("insert jackpot %s: %w", row.SourceURL, err)
		}
		inserted += int(tag.RowsAffected())
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit jackpot batch: %w", err)
	}
	return inserted, nil
}

const latestJackpotsSQL = `
	SELECT id, scraped_at, casino, machine_name, amount, date_text, source_url
	FROM multi_casino_jackpots
	ORDER BY scraped_at DESC
	LIMIT $1`

func (s *Store) LatestJackpots(ctx context.Context, limit int) ([]models.StoredJackpot, error) {
	rows, err := s.pool.Query(ctx, latestJackpotsSQL, limit)
	if err != nil {
		return nil, fmt.Errorf("latest jackpots query: %w", err)
	}
	defer rows.Close()

	var out []models.StoredJackpot
	for rows.Next() {
		var j models.StoredJackpot
		var amount *decimal.Decimal
		if err := rows.Scan(&j.ID, &j.ScrapedAt, &j.Casino, &j.MachineName, &amount, &j.PostedDate, &j.SourceURL); err != nil {
			return nil, fmt.Errorf("latest jackpots scan: %w", err)
		}
		if amount != nil {
			f := amount.InexactFloat64()
			j.Amount = &f
		}
		out = append(out, j)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("latest jackpots iteration: %w", err)
	}
	if out == nil {
		out = []models.StoredJackpot{}
	}
	return out, nil
}

const statsByCasinoSQL = `
	SELECT
		casino,
		COUNT(*) AS total_jackpots,
		COALESCE(SUM(amount), 0)::float8 AS total_amount,
		COALESCE(AVG(amount), 0)::float8 AS avg_amount,
		COALESCE(MAX(amount), 0)::float8 AS max_amount
	FROM multi_casino_jackpots
	GROUP BY casino
	ORDER BY total_amount DESC`

func (s *Store) StatsByCasino(ctx context.Context) ([]models.CasinoStats, error) {
	rows, err := s.pool.Query(ctx, statsByCasinoSQL)
	if err != nil {
		return nil, fmt.Errorf("stats query: %w", err)
	}
	defer rows.Close()

	var out []models.CasinoStats
	for rows.Next() {
		var cs models.CasinoStats
		if err := rows.Scan(&cs.Casino, &cs.TotalJackpots, &cs.TotalAmount, &cs.AvgAmount, &cs.MaxAmount); err != nil {
			return nil, fmt.Errorf("stats scan: %w", err)
		}
		out = append(out, cs)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("stats iteration: %w", err)
	}
	if out == nil {
		out = []models.CasinoStats{}
	}
	return out, nil
}

func (s *Store) RecentRuns(ctx context.Context, limit int) ([]models.IngestRun, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, status, error, started_at, finished_at
		FROM ingest_runs
		ORDER BY started_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("recent runs query: %w", err)
	}
	defer rows.Close()

	var runs []models.IngestRun
	for rows.Next() {
		var r models.IngestRun
		if err := rows.Scan(&r.ID, &r.Status, &r.Error, &r.StartedAt, &r.FinishedAt); err != nil {
			return nil, fmt.Errorf("recent runs scan: %w", err)
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("recent runs iteration: %w", err)
	}

	for i := range runs {
		outcomes, err := s.runSourceOutcomes(ctx, runs[i].ID)
		if err != nil {
			return nil, err
		}
		runs[i].Sources = outcomes
	}

	if runs == nil {
		runs = []models.IngestRun{}
	}
	return runs, nil
}

func (s *Store) runSourceOutcomes(ctx context.Context, runID int64) ([]models.SourceOutcome, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT COALESCE(source_id, 0), casino, property, status, error, records_found, records_inserted
		FROM ingest_run_sources
		WHERE run_id = $1
		ORDER BY id
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("run %d source outcomes query: %w", runID, err)
	}
	defer rows.Close()

	var out []models.SourceOutcome
	for rows.Next() {
		o := models.SourceOutcome{RunID: runID}
		if err := rows.Scan(&o.SourceID, &o.Casino, &o.Property, &o.Status, &o.Error, &o.RecordsFound, &o.RecordsInserted); err != nil {
			return nil, fmt.Errorf("run %d source outcomes scan: %w", runID, err)
		}
		out = append(out, o)
	}
	return out, rows.Err()
}
