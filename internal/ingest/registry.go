package ingest

import (
	"embed"
	"fmt"
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed config/sources.yaml
var sourcesYAML embed.FS

// Registry holds the configuration for all scraping sources.
type Registry struct {
	Sources []SourceConfig `yaml:"sources"`
}

// FetchConfig defines per-source HTTP fetching overrides.
type FetchConfig struct {
	TimeoutSeconds int     `yaml:"timeout_seconds,omitempty"`
	RateLimitRPS   float64 `yaml:"rate_limit_rps,omitempty"`
	MaxArticles    int     `yaml:"max_articles,omitempty"`
}

// SourceConfig defines a single casino source.
type SourceConfig struct {
	ID       string      `yaml:"id"`
	Casino   string      `yaml:"casino"`
	Property string      `yaml:"property"`
	BaseURL  string      `yaml:"base_url,omitempty"`
	Active   bool        `yaml:"active"`
	Fetch    FetchConfig `yaml:"fetch,omitempty"`
}

// LoadRegistry reads the embedded sources.yaml and returns a Registry.
// The path parameter is a filesystem fallback for local development.
func LoadRegistry(path string) (*Registry, error) {
	data, err := sourcesYAML.ReadFile("config/sources.yaml")
	if err != nil {
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, err
		}
	}

	var reg Registry
	if err := yaml.Unmarshal(data, &reg); err != nil {
		return nil, err
	}
	return &reg, nil
}

// ScraperDefaults carries the process-wide fetch settings that a
// source's FetchConfig may override.
type ScraperDefaults struct {
	UserAgent string
	Timeout   time.Duration
}

// BuildScrapers instantiates a scraper for every active source in
// registry order. Unknown source IDs are an error: the registry and the
// scraper set must stay in sync.
func BuildScrapers(reg *Registry, defaults ScraperDefaults) ([]Scraper, error) {
	var scrapers []Scraper
	for _, src := range reg.Sources {
		if !src.Active {
			log.Printf("[%s] source inactive, skipping", src.ID)
			continue
		}

		cfg := CrawlConfig{
			UserAgent:   defaults.UserAgent,
			Timeout:     defaults.Timeout,
			Delay:       500 * time.Millisecond,
			MaxArticles: src.Fetch.MaxArticles,
		}
		if src.Fetch.TimeoutSeconds > 0 {
			cfg.Timeout = time.Duration(src.Fetch.TimeoutSeconds) * time.Second
		}
		if src.Fetch.RateLimitRPS > 0 {
			cfg.Delay = time.Duration(float64(time.Second) / src.Fetch.RateLimitRPS)
		}

		switch src.ID {
		case "foxwoods":
			fetcher := NewHTTPFetcher(defaults.UserAgent, cfg.Timeout)
			scrapers = append(scrapers, NewFoxwoods(fetcher, src.BaseURL))
		case "mohegan":
			scrapers = append(scrapers, NewMohegan(cfg, src.BaseURL))
		case "hardrock_tampa":
			scrapers = append(scrapers, NewHardRockTampa(cfg, src.BaseURL))
		case "choctaw":
			scrapers = append(scrapers, NewChoctaw(cfg, src.BaseURL))
		case "pechanga":
			scrapers = append(scrapers, NewPechanga(cfg, src.BaseURL))
		default:
			return nil, fmt.Errorf("no scraper registered for source %q", src.ID)
		}
	}
	return scrapers, nil
}
