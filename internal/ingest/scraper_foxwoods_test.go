package ingest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

const foxwoodsPage = `<!DOCTYPE html>
<html><body>
<div>Recent Jackpot Winners</div>
<div>
Nov 30
</div>
<div>
$25,533
</div>
<div>
Jane D. &#8226; Wheel of Fortune
</div>
<div>
Dec 1
</div>
<div>
$1,200
</div>
<div>
Buffalo Gold
</div>
<div>Some unrelated footer text</div>
</body></html>`

func TestFoxwoods_ParsesWinnerTriples(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(foxwoodsPage))
	}))
	defer srv.Close()

	s := NewFoxwoods(NewHTTPFetcher("test-agent", 5*time.Second), srv.URL)
	s.now = func() time.Time { return time.Date(2024, 12, 15, 0, 0, 0, 0, time.UTC) }

	records, err := s.Fetch(context.Background())
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}

	first := records[0]
	if first.WinnerName != "Jane D." {
		t.Errorf("winner %q, want %q", first.WinnerName, "Jane D.")
	}
	if first.Game != "Wheel of Fortune" {
		t.Errorf("game %q, want %q", first.Game, "Wheel of Fortune")
	}
	if first.Amount == nil || first.Amount.String() != "25533" {
		t.Errorf("amount %v, want 25533", first.Amount)
	}
	if first.PostedDate == nil || first.PostedDate.Format("2006-01-02") != "2024-11-30" {
		t.Errorf("posted date %v, want 2024-11-30", first.PostedDate)
	}
	if first.SourceURL != srv.URL {
		t.Errorf("source URL %q, want %q", first.SourceURL, srv.URL)
	}

	second := records[1]
	if second.WinnerName != "" {
		t.Errorf("separator-less line should have no winner, got %q", second.WinnerName)
	}
	if second.Game != "Buffalo Gold" {
		t.Errorf("game %q, want %q", second.Game, "Buffalo Gold")
	}
}

func TestFoxwoods_FetchFailureYieldsEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	s := NewFoxwoods(NewHTTPFetcher("test-agent", 5*time.Second), srv.URL)
	records, err := s.Fetch(context.Background())
	if err != nil {
		t.Fatalf("transient failure should not return an error, got: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("got %d records, want 0", len(records))
	}
}

func TestFoxwoods_IgnoresMalformedTriples(t *testing.T) {
	s := NewFoxwoods(nil, "")
	s.now = func() time.Time { return time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC) }

	lines := []string{
		"Nov 30",
		"not a dollar line",
		"Jane D. • Wheel of Fortune",
		"Dec 2",
		"$500",
		"Al • Triple Stars",
	}
	records := s.parseLines(lines)
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	if records[0].WinnerName != "Al" {
		t.Errorf("winner %q, want %q", records[0].WinnerName, "Al")
	}
}
