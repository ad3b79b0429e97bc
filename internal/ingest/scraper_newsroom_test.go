package ingest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newsroomTestConfig() CrawlConfig {
	return CrawlConfig{
		UserAgent:   "test-agent",
		Timeout:     5 * time.Second,
		Delay:       time.Millisecond,
		MaxArticles: 50,
	}
}

func TestMohegan_CrawlsDatedArticles(t *testing.T) {
	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	defer srv.Close()

	mux.HandleFunc("/category/jackpots/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body>
			<article><a href="/2024/03/15/wheel-win/">Wheel win</a></article>
			<article><a href="/2024/03/15/wheel-win/">Wheel win again</a></article>
			<article><a href="/2024/03/10/dragon-win/">Dragon win</a></article>
			<article><a href="/about/">About</a></article>
			<a href="https://elsewhere.example.com/2024/03/01/offsite/">Offsite</a>
		</body></html>`))
	})
	mux.HandleFunc("/2024/03/15/wheel-win/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body>
			<h1>Guest hits Wheel of Fortune</h1>
			<time datetime="2024-03-15T10:30:00-04:00">March 15</time>
			<p>A lucky guest took home $1,234,567.89 last night.</p>
		</body></html>`))
	})
	mux.HandleFunc("/2024/03/10/dragon-win/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body>
			<h1>Dragon Link pays out</h1>
			<p>No figure disclosed for this one.</p>
		</body></html>`))
	})

	s := NewMohegan(newsroomTestConfig(), srv.URL+"/category/jackpots/")
	records, err := s.Fetch(context.Background())
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}

	// The article with no dollar amount contributes nothing.
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	rec := records[0]
	if rec.Amount == nil || rec.Amount.String() != "1234567.89" {
		t.Errorf("amount %v, want 1234567.89", rec.Amount)
	}
	if rec.PostedDate == nil || rec.PostedDate.Format("2006-01-02") != "2024-03-15" {
		t.Errorf("posted date %v, want 2024-03-15", rec.PostedDate)
	}
	if rec.SourceURL != srv.URL+"/2024/03/15/wheel-win/" {
		t.Errorf("source URL %q, want the article permalink", rec.SourceURL)
	}
	if rec.WinnerName != "" || rec.Game != "" {
		t.Error("newsroom articles carry no winner or game")
	}
}

func TestChoctaw_FiltersArticlesByTitle(t *testing.T) {
	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	defer srv.Close()

	mux.HandleFunc("/newsroom/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body>
			<a href="/newsroom/grand-jackpot-hits/">Read more</a>
			<a href="/newsroom/new-buffet-menu/">Read more</a>
		</body></html>`))
	})
	mux.HandleFunc("/newsroom/grand-jackpot-hits/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body>
			<h1>Guest wins grand jackpot</h1>
			<time datetime="2024-02-01">Feb 1</time>
			<p>The machine paid $88,000.</p>
		</body></html>`))
	})
	mux.HandleFunc("/newsroom/new-buffet-menu/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body>
			<h1>New buffet menu announced</h1>
			<p>Dinner now starts at $39.99 per guest.</p>
		</body></html>`))
	})

	s := NewChoctaw(newsroomTestConfig(), srv.URL+"/newsroom/")
	records, err := s.Fetch(context.Background())
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1 (buffet article should be filtered)", len(records))
	}
	if records[0].Amount.String() != "88000" {
		t.Errorf("amount %s, want 88000", records[0].Amount)
	}
}

func TestNewsroomCrawler_CapsArticleCount(t *testing.T) {
	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	defer srv.Close()

	mux.HandleFunc("/newsroom/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body>
			<a href="/newsroom/win-one/">one</a>
			<a href="/newsroom/win-two/">two</a>
			<a href="/newsroom/win-three/">three</a>
		</body></html>`))
	})
	article := func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body><h1>Win</h1><p>$100</p></body></html>`))
	}
	mux.HandleFunc("/newsroom/win-one/", article)
	mux.HandleFunc("/newsroom/win-two/", article)
	mux.HandleFunc("/newsroom/win-three/", article)

	cfg := newsroomTestConfig()
	cfg.MaxArticles = 2
	s := NewPechanga(cfg, srv.URL+"/newsroom/")

	records, err := s.Fetch(context.Background())
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2 (crawl is capped)", len(records))
	}
}

func TestNewsroomCrawler_IndexFailureReturnsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	s := NewMohegan(newsroomTestConfig(), srv.URL+"/category/jackpots/")
	if _, err := s.Fetch(context.Background()); err == nil {
		t.Fatal("unreachable index page should surface an error")
	}
}
