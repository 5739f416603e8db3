package scan

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"fundamental-scanner/internal/history"
	"fundamental-scanner/internal/interfaces"
	"fundamental-scanner/internal/logger"
	"fundamental-scanner/internal/news"
	"fundamental-scanner/internal/trace"
	"fundamental-scanner/internal/types"
)

// Options configures a batch scan.
type Options struct {
	Workers       int
	TickerTimeout time.Duration
	// Sectors maps ticker -> sector name; SectorMedians maps sector
	// name -> reference values. Both optional.
	Sectors       map[string]string
	SectorMedians map[string]types.SectorMedian
	// History, when set, receives every result.
	History *history.Log
	// NewsScraper, when set, attaches headline sentiment to results.
	NewsScraper  *news.Scraper
	MaxHeadlines int
}

// Runner scans a list of tickers with a bounded worker pool. Provider
// failures for a ticker degrade to missing data, never abort the batch.
type Runner struct {
	provider interfaces.Provider
	analyzer interfaces.Analyzer
	opts     Options
}

func NewRunner(provider interfaces.Provider, analyzer interfaces.Analyzer, opts Options) *Runner {
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	if opts.TickerTimeout <= 0 {
		opts.TickerTimeout = 30 * time.Second
	}
	return &Runner{provider: provider, analyzer: analyzer, opts: opts}
}

// Run scans every ticker and returns the results ordered by score,
// best first. Cancelling the context stops new tickers from starting;
// in-flight tickers finish.
func (r *Runner) Run(ctx context.Context, tickers []string) []*types.ScanResult {
	ctx, span := trace.StartSpan(ctx, "scan.Run")
	defer span.End()

	start := time.Now()
	logger.Info(ctx, "Starting scan", "tickers", len(tickers), "workers", r.opts.Workers)

	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		results []*types.ScanResult
	)
	sem := make(chan struct{}, r.opts.Workers)

	for _, ticker := range tickers {
		if ctx.Err() != nil {
			logger.Warn(ctx, "Scan cancelled", "total", len(tickers))
			break
		}
		select {
		case <-ctx.Done():
			logger.Warn(ctx, "Scan cancelled", "total", len(tickers))
		case sem <- struct{}{}:
		}
		if ctx.Err() != nil {
			break
		}

		wg.Add(1)
		go func(ticker string) {
			defer wg.Done()
			defer func() { <-sem }()

			result := r.scanOne(ctx, ticker)
			mu.Lock()
			results = append(results, result)
			mu.Unlock()
		}(ticker)
	}
	wg.Wait()

	logger.Info(ctx, "Scan completed",
		"tickers", len(tickers),
		"duration_ms", time.Since(start).Milliseconds())
	return sorted(results)
}

func (r *Runner) scanOne(ctx context.Context, ticker string) *types.ScanResult {
	raw := r.fetch(ctx, ticker)
	result := r.analyzer.Analyze(ctx, ticker, raw, r.sectorMedian(ticker))

	if r.opts.NewsScraper != nil {
		headlines, err := r.opts.NewsScraper.Headlines(ctx, ticker, r.opts.MaxHeadlines)
		if err == nil && len(headlines) > 0 {
			sentiment := news.Analyze(ticker, headlines)
			result.Sentiment = &sentiment
		}
	}

	if r.opts.History != nil {
		if err := r.opts.History.Append(result); err != nil {
			logger.Warn(ctx, "Failed to persist scan result", "ticker", ticker, "error", err)
		}
	}
	return result
}

// fetch gathers the raw bundle under a per-ticker deadline. Any failed
// or timed-out part stays empty and scores neutral downstream.
func (r *Runner) fetch(ctx context.Context, ticker string) types.RawTickerData {
	tctx, cancel := context.WithTimeout(ctx, r.opts.TickerTimeout)
	defer cancel()

	var raw types.RawTickerData
	if snap, err := r.provider.Snapshot(tctx, ticker); err != nil {
		logger.Warn(ctx, "Snapshot unavailable", "ticker", ticker, "error", err)
	} else {
		raw.Snapshot = snap
	}
	if st, err := r.provider.Statements(tctx, ticker); err != nil {
		logger.Warn(ctx, "Statements unavailable", "ticker", ticker, "error", err)
	} else {
		raw.Financial = st
	}
	if bars, err := r.provider.History(tctx, ticker); err != nil {
		logger.Warn(ctx, "Price history unavailable", "ticker", ticker, "error", err)
	} else {
		raw.History = bars
	}
	return raw
}

func (r *Runner) sectorMedian(ticker string) types.SectorMedian {
	sector, ok := r.opts.Sectors[strings.ToUpper(ticker)]
	if !ok {
		return nil
	}
	return r.opts.SectorMedians[sector]
}

func sorted(results []*types.ScanResult) []*types.ScanResult {
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].ScorePct > results[j].ScorePct
	})
	return results
}
