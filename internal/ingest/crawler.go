package ingest

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"
	"github.com/shopspring/decimal"
)

// CrawlConfig carries the knobs shared by every index-then-detail
// newsroom crawl.
type CrawlConfig struct {
	UserAgent   string
	Timeout     time.Duration
	Delay       time.Duration
	MaxArticles int
}

const defaultMaxArticles = 200

// articlePage is what a single crawled article boils down to.
type articlePage struct {
	URL        string
	Title      string
	PostedDate *time.Time
	Amount     *decimal.Decimal
}

// newsroomCrawler visits a casino newsroom index page, follows the
// article links the caller's filter accepts, and extracts a title, a
// posted date from the first <time datetime> element, and the first
// dollar amount in the article body. Articles with no dollar amount are
// dropped entirely.
type newsroomCrawler struct {
	cfg CrawlConfig
}

func newNewsroomCrawler(cfg CrawlConfig) *newsroomCrawler {
	if cfg.UserAgent == "" {
		cfg.UserAgent = "jackpot-ingest/1.0"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 20 * time.Second
	}
	if cfg.MaxArticles <= 0 {
		cfg.MaxArticles = defaultMaxArticles
	}
	return &newsroomCrawler{cfg: cfg}
}

func (nc *newsroomCrawler) buildCollector(indexHost, indexHostname string) *colly.Collector {
	c := colly.NewCollector(
		colly.AllowedDomains(indexHost, indexHostname),
		colly.UserAgent(nc.cfg.UserAgent),
		colly.DetectCharset(),
	)
	c.Limit(&colly.LimitRule{
		DomainGlob:  "*",
		Parallelism: 1,
		Delay:       nc.cfg.Delay,
		RandomDelay: nc.cfg.Delay / 2,
	})
	c.SetRequestTimeout(nc.cfg.Timeout)
	return c
}

// crawl fetches the index page, collects article links accepted by
// keepLink, and visits each. keepLink receives the absolute URL of a
// candidate link. Returned pages preserve link order from the index.
func (nc *newsroomCrawler) crawl(ctx context.Context, indexURL string, keepLink func(link *url.URL) bool) ([]articlePage, error) {
	parsed, err := url.Parse(indexURL)
	if err != nil {
		return nil, fmt.Errorf("invalid index URL: %w", err)
	}

	collector := nc.buildCollector(parsed.Host, parsed.Hostname())
	detailCollector := collector.Clone()

	var links []string
	seen := make(map[string]bool)

	collector.OnHTML("a[href]", func(e *colly.HTMLElement) {
		abs := e.Request.AbsoluteURL(e.Attr("href"))
		if abs == "" || seen[abs] {
			return
		}
		u, err := url.Parse(abs)
		if err != nil {
			return
		}
		if !keepLink(u) {
			return
		}
		seen[abs] = true
		links = append(links, abs)
	})

	var indexErr error
	collector.OnError(func(r *colly.Response, err error) {
		indexErr = err
	})

	if err := collector.Visit(indexURL); err != nil {
		return nil, fmt.Errorf("failed to fetch index %s: %w", indexURL, err)
	}
	collector.Wait()
	if indexErr != nil {
		return nil, fmt.Errorf("failed to fetch index %s: %w", indexURL, indexErr)
	}

	if len(links) > nc.cfg.MaxArticles {
		links = links[:nc.cfg.MaxArticles]
	}

	var mu sync.Mutex
	pages := make(map[string]articlePage, len(links))

	detailCollector.OnResponse(func(r *colly.Response) {
		doc, err := goquery.NewDocumentFromReader(bytes.NewReader(r.Body))
		if err != nil {
			return
		}
		page := parseArticle(r.Request.URL.String(), doc)
		mu.Lock()
		pages[page.URL] = page
		mu.Unlock()
	})

	detailCollector.OnError(func(r *colly.Response, err error) {
		log.Printf("article fetch failed for %s: %v", r.Request.URL, err)
	})

	for _, link := range links {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if err := detailCollector.Visit(link); err != nil {
			log.Printf("article fetch failed for %s: %v", link, err)
		}
	}
	detailCollector.Wait()

	out := make([]articlePage, 0, len(links))
	for _, link := range links {
		page, ok := pages[link]
		if !ok {
			continue
		}
		out = append(out, page)
	}
	return out, nil
}

// parseArticle pulls the extractable fields out of one article document.
func parseArticle(pageURL string, doc *goquery.Document) articlePage {
	page := articlePage{URL: pageURL}

	title := strings.TrimSpace(doc.Find("h1").First().Text())
	if title == "" {
		title = strings.TrimSpace(doc.Find("title").First().Text())
	}
	page.Title = title

	if attr, ok := doc.Find("time[datetime]").First().Attr("datetime"); ok {
		page.PostedDate = parseTimeAttr(attr)
	}

	page.Amount = parseMoney(doc.Text())
	return page
}
