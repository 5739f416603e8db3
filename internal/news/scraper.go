package news

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/gocolly/colly/v2"

	"fundamental-scanner/internal/logger"
	"fundamental-scanner/internal/types"
)

// Scraper collects recent headlines for a ticker from financial news
// sites.
type Scraper struct {
	sources []Source
	timeout time.Duration
}

// Source defines a news source configuration.
type Source struct {
	Name       string
	BaseURL    string
	SearchPath string // "{symbol}" is replaced with the ticker
	Selectors  HeadlineSelectors
	RateLimit  time.Duration
}

// HeadlineSelectors defines CSS selectors for extracting headline data.
type HeadlineSelectors struct {
	Container string
	Title     string
	URL       string
	Published string
}

// NewScraper creates a scraper with the default source list.
func NewScraper(timeout time.Duration) *Scraper {
	return &Scraper{
		sources: defaultSources(),
		timeout: timeout,
	}
}

func defaultSources() []Source {
	return []Source{
		{
			Name:       "YahooFinance",
			BaseURL:    "https://finance.yahoo.com",
			SearchPath: "/quote/{symbol}/news",
			Selectors: HeadlineSelectors{
				Container: "li.stream-item",
				Title:     "h3",
				URL:       "a",
				Published: "time",
			},
			RateLimit: 2 * time.Second,
		},
		{
			Name:       "Finviz",
			BaseURL:    "https://finviz.com",
			SearchPath: "/quote.ashx?t={symbol}",
			Selectors: HeadlineSelectors{
				Container: "tr.news-table-row",
				Title:     "a.tab-link-news",
				URL:       "a.tab-link-news",
				Published: "td",
			},
			RateLimit: 2 * time.Second,
		},
	}
}

// Headlines fetches up to max headlines for a symbol across all sources.
// A source that fails is skipped, not fatal.
func (s *Scraper) Headlines(ctx context.Context, symbol string, max int) ([]types.Headline, error) {
	perSource := max / len(s.sources)
	if perSource < 1 {
		perSource = 1
	}

	var all []types.Headline
	for _, source := range s.sources {
		headlines, err := s.scrapeSource(ctx, source, symbol, perSource)
		if err != nil {
			logger.Warn(ctx, "Failed to scrape news source", "source", source.Name, "symbol", symbol, "error", err)
			continue
		}
		all = append(all, headlines...)
		time.Sleep(source.RateLimit)
	}
	logger.Info(ctx, "News scraping completed", "symbol", symbol, "headlines", len(all))
	return all, nil
}

func (s *Scraper) scrapeSource(ctx context.Context, source Source, symbol string, max int) ([]types.Headline, error) {
	var headlines []types.Headline

	c := colly.NewCollector(
		colly.AllowedDomains(hostOf(source.BaseURL)),
		colly.MaxDepth(1),
		colly.Async(false),
	)
	c.SetRequestTimeout(s.timeout)

	c.OnRequest(func(r *colly.Request) {
		r.Headers.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	})

	c.OnHTML(source.Selectors.Container, func(e *colly.HTMLElement) {
		if len(headlines) >= max {
			return
		}
		title := strings.TrimSpace(e.ChildText(source.Selectors.Title))
		if title == "" {
			return
		}
		href := e.ChildAttr(source.Selectors.URL, "href")
		if href != "" && !strings.HasPrefix(href, "http") {
			href = source.BaseURL + href
		}
		headlines = append(headlines, types.Headline{
			Title:       title,
			URL:         href,
			Source:      source.Name,
			PublishedAt: strings.TrimSpace(e.ChildText(source.Selectors.Published)),
			Symbol:      symbol,
		})
	})

	c.OnError(func(r *colly.Response, err error) {
		logger.Debug(ctx, "Scraping error", "source", source.Name, "url", r.Request.URL.String(), "error", err)
	})

	pageURL := source.BaseURL + strings.ReplaceAll(source.SearchPath, "{symbol}", strings.ToUpper(symbol))
	if err := c.Visit(pageURL); err != nil {
		return nil, fmt.Errorf("failed to visit %s: %w", pageURL, err)
	}
	c.Wait()

	return headlines, nil
}

func hostOf(baseURL string) string {
	u, err := url.Parse(baseURL)
	if err != nil {
		return baseURL
	}
	return u.Host
}
