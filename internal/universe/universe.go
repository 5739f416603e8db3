package universe

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"fundamental-scanner/internal/logger"
)

// groupURLs maps preset index groups to the Wikipedia pages listing
// their constituents.
var groupURLs = map[string]string{
	"S&P 500":    "https://en.wikipedia.org/wiki/List_of_S%26P_500_companies",
	"NASDAQ-100": "https://en.wikipedia.org/wiki/Nasdaq-100",
	"Dow 30":     "https://en.wikipedia.org/wiki/Dow_Jones_Industrial_Average",
}

// Groups returns the supported preset group names.
func Groups() []string {
	names := make([]string, 0, len(groupURLs))
	for name := range groupURLs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// FetchGroup scrapes the constituent tickers of a preset index group.
func FetchGroup(ctx context.Context, name string) ([]string, error) {
	pageURL, ok := groupURLs[name]
	if !ok {
		return nil, fmt.Errorf("unknown group %q, supported: %s", name, strings.Join(Groups(), ", "))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, err
	}
	client := &http.Client{Timeout: 20 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s constituents: %w", name, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("HTTP %d fetching %s constituents", resp.StatusCode, name)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, err
	}

	tickers := extractTickers(doc)
	if len(tickers) == 0 {
		return nil, fmt.Errorf("no ticker column found for %s", name)
	}
	logger.Info(ctx, "Fetched group constituents", "group", name, "count", len(tickers))
	return tickers, nil
}

// extractTickers scans wikitable headers for a symbol/ticker column and
// collects that column from the first table that has one.
func extractTickers(doc *goquery.Document) []string {
	var tickers []string
	doc.Find("table.wikitable").EachWithBreak(func(_ int, table *goquery.Selection) bool {
		col := -1
		table.Find("tr").First().Find("th").EachWithBreak(func(i int, th *goquery.Selection) bool {
			head := strings.ToLower(strings.TrimSpace(th.Text()))
			if strings.Contains(head, "symbol") || strings.Contains(head, "ticker") {
				col = i
				return false
			}
			return true
		})
		if col < 0 {
			return true
		}
		table.Find("tr").Each(func(i int, tr *goquery.Selection) {
			if i == 0 {
				return
			}
			cell := tr.Find("td").Eq(col)
			sym := normalizeSymbol(cell.Text())
			if sym != "" {
				tickers = append(tickers, sym)
			}
		})
		return len(tickers) == 0
	})
	return dedupe(tickers)
}

// LoadFile reads tickers from a file, one per line or as the first CSV
// column. Blank lines and lines starting with # are skipped.
func LoadFile(path string) ([]string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var tickers []string
	for _, line := range strings.Split(string(b), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if i := strings.IndexByte(line, ','); i >= 0 {
			line = line[:i]
		}
		if sym := normalizeSymbol(line); sym != "" {
			tickers = append(tickers, sym)
		}
	}
	return dedupe(tickers), nil
}

// normalizeSymbol uppercases and maps share-class dots to the dash form
// the quote API expects (BRK.B -> BRK-B).
func normalizeSymbol(s string) string {
	s = strings.ToUpper(strings.TrimSpace(s))
	return strings.ReplaceAll(s, ".", "-")
}

func dedupe(tickers []string) []string {
	seen := make(map[string]struct{}, len(tickers))
	out := tickers[:0]
	for _, t := range tickers {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
