package ingest

import (
	"net/url"
	"strings"
)

const choctawBaseURL = "https://www.choctawcasinos.com/newsroom/"

// choctawTitleKeywords marks a Choctaw newsroom article as
// jackpot-related. The newsroom carries plenty of unrelated press
// releases, and the link structure alone cannot tell them apart.
var choctawTitleKeywords = []string{"jackpot", "winner", "wins", "million", "grand"}

func NewChoctaw(cfg CrawlConfig, baseURL string) Scraper {
	if baseURL == "" {
		baseURL = choctawBaseURL
	}
	return &newsroomScraper{
		source: Source{
			ID:       "choctaw",
			Casino:   "Choctaw",
			Property: "Durant",
			BaseURL:  baseURL,
		},
		crawler: newNewsroomCrawler(cfg),
		keepLink: func(index, link *url.URL) bool {
			if !hostMatches(index, link) {
				return false
			}
			path := strings.ToLower(link.Path)
			if !strings.Contains(path, "/newsroom/") {
				return false
			}
			// Individual articles sit at least one level below the
			// newsroom index.
			return strings.Count(strings.Trim(path, "/"), "/") >= 1
		},
		keepTitle: func(title string) bool {
			for _, kw := range choctawTitleKeywords {
				if strings.Contains(title, kw) {
					return true
				}
			}
			return false
		},
	}
}
