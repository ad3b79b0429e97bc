package ingest

import (
	"testing"
	"time"
)

func TestLoadRegistry_EmbeddedSources(t *testing.T) {
	reg, err := LoadRegistry("")
	if err != nil {
		t.Fatalf("failed to load embedded registry: %v", err)
	}
	if len(reg.Sources) == 0 {
		t.Fatal("registry has no sources")
	}

	byID := make(map[string]SourceConfig)
	for _, src := range reg.Sources {
		byID[src.ID] = src
	}

	fox, ok := byID["foxwoods"]
	if !ok {
		t.Fatal("foxwoods source missing from registry")
	}
	if !fox.Active {
		t.Error("foxwoods should be active")
	}
	if fox.BaseURL == "" {
		t.Error("foxwoods base_url is empty")
	}

	winstar, ok := byID["winstar"]
	if !ok {
		t.Fatal("winstar source missing from registry")
	}
	if winstar.Active {
		t.Error("winstar has no parseable page and should stay inactive")
	}

	pechanga := byID["pechanga"]
	if pechanga.Fetch.MaxArticles != 20 {
		t.Errorf("pechanga max_articles = %d, want 20", pechanga.Fetch.MaxArticles)
	}
}

func TestBuildScrapers_ActiveSourcesOnly(t *testing.T) {
	reg, err := LoadRegistry("")
	if err != nil {
		t.Fatalf("failed to load embedded registry: %v", err)
	}

	scrapers, err := BuildScrapers(reg, ScraperDefaults{UserAgent: "test-agent", Timeout: 10 * time.Second})
	if err != nil {
		t.Fatalf("failed to build scrapers: %v", err)
	}

	active := 0
	for _, src := range reg.Sources {
		if src.Active {
			active++
		}
	}
	if len(scrapers) != active {
		t.Fatalf("built %d scrapers for %d active sources", len(scrapers), active)
	}

	for _, s := range scrapers {
		src := s.Source()
		if src.ID == "" || src.Casino == "" || src.BaseURL == "" {
			t.Errorf("scraper has incomplete source: %+v", src)
		}
	}
}

func TestBuildScrapers_UnknownSourceErrors(t *testing.T) {
	reg := &Registry{Sources: []SourceConfig{{ID: "bellagio", Active: true}}}
	if _, err := BuildScrapers(reg, ScraperDefaults{}); err == nil {
		t.Fatal("unknown source ID should be rejected")
	}
}
