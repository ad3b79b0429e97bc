package ingest

import (
	"context"
	"net/url"
	"strings"
)

// newsroomScraper is the common shape of every index-then-detail
// scraper: crawl the newsroom index, follow the links keepLink accepts,
// keep the articles keepTitle accepts (nil means keep all), and turn
// each article that carried a dollar amount into a record.
type newsroomScraper struct {
	source    Source
	crawler   *newsroomCrawler
	keepLink  func(index, link *url.URL) bool
	keepTitle func(title string) bool
}

func (s *newsroomScraper) Source() Source { return s.source }

func (s *newsroomScraper) Fetch(ctx context.Context) ([]JackpotRecord, error) {
	index, err := url.Parse(s.source.BaseURL)
	if err != nil {
		return nil, err
	}

	pages, err := s.crawler.crawl(ctx, s.source.BaseURL, func(link *url.URL) bool {
		return s.keepLink(index, link)
	})
	if err != nil {
		return nil, err
	}

	records := make([]JackpotRecord, 0, len(pages))
	for _, page := range pages {
		if s.keepTitle != nil && !s.keepTitle(strings.ToLower(page.Title)) {
			continue
		}
		if page.Amount == nil {
			continue
		}
		records = append(records, JackpotRecord{
			PostedDate: page.PostedDate,
			Amount:     page.Amount,
			SourceURL:  page.URL,
		})
	}
	return records, nil
}

func hostMatches(index, link *url.URL) bool {
	return sameHost(strings.ToLower(link.Hostname()), strings.ToLower(index.Hostname()))
}
