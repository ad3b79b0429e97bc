package ingest

import (
	"net/url"
	"strings"
)

const pechangaBaseURL = "https://blogs.pechanga.com/newsroom/tag/jackpot/"

const pechangaMaxArticles = 20

// Pechanga's jackpot tag feed is small; the crawl is capped tighter than
// the other newsrooms.
func NewPechanga(cfg CrawlConfig, baseURL string) Scraper {
	if baseURL == "" {
		baseURL = pechangaBaseURL
	}
	if cfg.MaxArticles <= 0 || cfg.MaxArticles > pechangaMaxArticles {
		cfg.MaxArticles = pechangaMaxArticles
	}
	return &newsroomScraper{
		source: Source{
			ID:       "pechanga",
			Casino:   "Pechanga",
			Property: "Pechanga Resort Casino",
			BaseURL:  baseURL,
		},
		crawler: newNewsroomCrawler(cfg),
		keepLink: func(index, link *url.URL) bool {
			return hostMatches(index, link) && strings.Contains(strings.ToLower(link.Path), "/newsroom/")
		},
	}
}
