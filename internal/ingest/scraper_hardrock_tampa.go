package ingest

import (
	"net/url"
	"strings"
)

const hardRockTampaBaseURL = "https://casino.hardrock.com/tampa/newsroom"

// Hard Rock Tampa mixes jackpot announcements into a general newsroom,
// so links are filtered down to those that mention jackpots at all.
func NewHardRockTampa(cfg CrawlConfig, baseURL string) Scraper {
	if baseURL == "" {
		baseURL = hardRockTampaBaseURL
	}
	return &newsroomScraper{
		source: Source{
			ID:       "hardrock_tampa",
			Casino:   "Seminole Hard Rock",
			Property: "Tampa",
			BaseURL:  baseURL,
		},
		crawler: newNewsroomCrawler(cfg),
		keepLink: func(index, link *url.URL) bool {
			if !hostMatches(index, link) {
				return false
			}
			path := strings.ToLower(link.Path)
			return strings.Contains(path, "/newsroom/") && strings.Contains(path, "jackpot")
		},
	}
}
