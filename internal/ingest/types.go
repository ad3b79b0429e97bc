package ingest

import (
	"context"
	"io"
	"time"

	"github.com/shopspring/decimal"
)

// Source identifies a scraping target: one casino property and the page
// the scraper starts from.
type Source struct {
	ID       string
	Casino   string
	Property string
	BaseURL  string
}

// JackpotRecord is the loosely-typed output of one scraper hit. Every
// field except SourceURL is optional; downstream code must treat them as
// nullable. Records are transient: fingerprinted, persisted (or skipped),
// then discarded.
type JackpotRecord struct {
	PostedDate *time.Time
	Amount     *decimal.Decimal
	WinnerName string
	Game       string
	SourceURL  string
}

// Scraper fetches one casino's page(s) and yields jackpot records.
// Implementations are self-contained and failure-isolated: a transient
// fetch failure or a malformed page yields a partial or empty slice, not
// an error. The error return is reserved for genuinely unexpected
// conditions; the orchestrator tolerates it either way.
type Scraper interface {
	Source() Source
	Fetch(ctx context.Context) ([]JackpotRecord, error)
}

// FetchedDocument is the raw result of a single page fetch.
type FetchedDocument struct {
	URL        string
	StatusCode int
	Body       io.ReadCloser
	FetchedAt  time.Time
}

// Fetcher retrieves raw content from a URL.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*FetchedDocument, error)
}
