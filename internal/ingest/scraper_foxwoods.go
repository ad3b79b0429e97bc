package ingest

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/shopspring/decimal"
)

const foxwoodsBaseURL = "https://foxwoods.com/game/slots"

// Foxwoods scrapes the slots page, which renders recent winners as
// repeating text triples: a short date line ("Nov 30"), a dollar line
// ("$25,533"), then "Winner Name • Game Title". It is the only source
// that exposes winner and game, so it gets its own line-scanning parser
// instead of the newsroom crawl.
type Foxwoods struct {
	fetcher Fetcher
	baseURL string
	// now is swapped in tests to pin the inferred year
	now func() time.Time
}

func NewFoxwoods(fetcher Fetcher, baseURL string) *Foxwoods {
	if baseURL == "" {
		baseURL = foxwoodsBaseURL
	}
	return &Foxwoods{fetcher: fetcher, baseURL: baseURL, now: time.Now}
}

func (s *Foxwoods) Source() Source {
	return Source{
		ID:       "foxwoods",
		Casino:   "Foxwoods",
		Property: "Foxwoods Resort Casino",
		BaseURL:  s.baseURL,
	}
}

var (
	foxwoodsDateRe   = regexp.MustCompile(`^[A-Z][a-z]{2}\s+\d{1,2}$`)
	foxwoodsAmountRe = regexp.MustCompile(`^\$[\d,]+`)
)

func (s *Foxwoods) Fetch(ctx context.Context) ([]JackpotRecord, error) {
	doc, err := s.fetcher.Fetch(ctx, s.baseURL)
	if err != nil {
		log.Printf("[foxwoods] fetch failed: %v", err)
		return nil, nil
	}
	defer doc.Body.Close()

	parsed, err := goquery.NewDocumentFromReader(doc.Body)
	if err != nil {
		log.Printf("[foxwoods] parse failed: %v", err)
		return nil, nil
	}

	return s.parseLines(textLines(parsed)), nil
}

// parseLines scans for the date/amount/winner triple, advancing three
// lines on a hit and one line otherwise.
func (s *Foxwoods) parseLines(lines []string) []JackpotRecord {
	var out []JackpotRecord
	year := s.now().Year()

	i := 0
	for i < len(lines)-2 {
		if !foxwoodsDateRe.MatchString(lines[i]) || !foxwoodsAmountRe.MatchString(lines[i+1]) {
			i++
			continue
		}

		// The page omits the year; assume the current one.
		posted, err := time.Parse("Jan 2 2006", fmt.Sprintf("%s %d", collapseSpaces(lines[i]), year))
		if err != nil {
			i++
			continue
		}

		raw := strings.ReplaceAll(strings.TrimPrefix(lines[i+1], "$"), ",", "")
		amount, err := decimal.NewFromString(raw)
		if err != nil {
			i++
			continue
		}

		winner, game := splitWinnerGame(lines[i+2])

		out = append(out, JackpotRecord{
			PostedDate: &posted,
			Amount:     &amount,
			WinnerName: winner,
			Game:       game,
			SourceURL:  s.baseURL,
		})
		i += 3
	}
	return out
}

// splitWinnerGame splits "Jane D. • Wheel of Fortune" into its parts. A
// line without the separator is all game title.
func splitWinnerGame(line string) (winner, game string) {
	if name, title, ok := strings.Cut(line, "•"); ok {
		return strings.TrimSpace(name), strings.TrimSpace(title)
	}
	return "", strings.TrimSpace(line)
}

// textLines flattens the document into trimmed non-empty text lines.
func textLines(doc *goquery.Document) []string {
	var lines []string
	for _, ln := range strings.Split(doc.Text(), "\n") {
		ln = strings.TrimSpace(ln)
		if ln != "" {
			lines = append(lines, ln)
		}
	}
	return lines
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
