package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// StoredJackpot is one deduplicated row from multi_casino_jackpots.
// Amount and PostedDate are nullable: not every source page carries them.
type StoredJackpot struct {
	ID          int64     `json:"-"`
	ScrapedAt   time.Time `json:"scraped_at"`
	Casino      string    `json:"casino"`
	MachineName string    `json:"game"`
	Amount      *float64  `json:"amount"`
	PostedDate  *string   `json:"posted_date"`
	SourceURL   string    `json:"source_url"`
}

// NewJackpot is the repository input for a single insert-or-skip attempt.
type NewJackpot struct {
	Fingerprint string
	Casino      string
	MachineName string
	Amount      *decimal.Decimal
	DateText    *string
	SourceURL   string
	SourceID    int64
}

// CasinoStats aggregates payout amounts for one casino.
type CasinoStats struct {
	Casino        string  `json:"casino"`
	TotalJackpots int     `json:"total_jackpots"`
	TotalAmount   float64 `json:"total_amount"`
	AvgAmount     float64 `json:"avg_amount"`
	MaxAmount     float64 `json:"max_amount"`
}

// Run statuses. A run is "ok" even when individual sources failed; only an
// orchestrator-level failure (storage unreachable) marks it "error".
const (
	RunPending = "pending"
	RunOK      = "ok"
	RunError   = "error"
)

// IngestRun is one orchestrator invocation.
type IngestRun struct {
	ID         int64           `json:"id"`
	Status     string          `json:"status"`
	Error      *string         `json:"error,omitempty"`
	StartedAt  time.Time       `json:"started_at"`
	FinishedAt *time.Time      `json:"finished_at,omitempty"`
	Sources    []SourceOutcome `json:"sources,omitempty"`
}

// SourceOutcome records how a single scraper fared within a run.
type SourceOutcome struct {
	RunID           int64   `json:"-"`
	SourceID        int64   `json:"source_id"`
	Casino          string  `json:"casino"`
	Property        string  `json:"property"`
	Status          string  `json:"status"`
	Error           *string `json:"error,omitempty"`
	RecordsFound    int     `json:"records_found"`
	RecordsInserted int     `json:"records_inserted"`
}
