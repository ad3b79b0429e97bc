package ingest

import (
	"net/url"
	"regexp"
)

const moheganBaseURL = "https://newsroom.mohegansun.com/category/jackpots/"

// Mohegan Sun publishes each jackpot as a dated newsroom post; article
// permalinks embed the publish date as /YYYY/MM/DD/.
var moheganDatePathRe = regexp.MustCompile(`/\d{4}/\d{2}/\d{2}/`)

func NewMohegan(cfg CrawlConfig, baseURL string) Scraper {
	if baseURL == "" {
		baseURL = moheganBaseURL
	}
	return &newsroomScraper{
		source: Source{
			ID:       "mohegan",
			Casino:   "Mohegan Sun",
			Property: "Mohegan Sun (CT)",
			BaseURL:  baseURL,
		},
		crawler: newNewsroomCrawler(cfg),
		keepLink: func(index, link *url.URL) bool {
			return hostMatches(index, link) && moheganDatePathRe.MatchString(link.Path)
		},
	}
}
