package main

import (
	"context"
	"errors"
	"io/fs"
	"strings"
	"time"

	"fundamental-scanner/internal/history"
	"fundamental-scanner/internal/logger"
	"fundamental-scanner/internal/news"
	"fundamental-scanner/internal/provider"
	"fundamental-scanner/internal/scan"
	"fundamental-scanner/internal/scanner"
	"fundamental-scanner/internal/scanner/scannerobs"
	"fundamental-scanner/internal/store"
	"fundamental-scanner/internal/trace"
	"fundamental-scanner/internal/types"
	"fundamental-scanner/internal/universe"
	"fundamental-scanner/internal/watchlist"
)

// initializeSystem brings up logging and tracing before anything else
// runs.
func initializeSystem() error {
	if err := logger.Init(); err != nil {
		return err
	}
	return trace.Init()
}

// loadConfig reads the config file, falling back to built-in defaults
// when the default path does not exist. An explicit but missing path is
// still an error.
func loadConfig(ctx context.Context, path string) (*store.Config, error) {
	cfg, err := store.LoadConfig(path)
	if errors.Is(err, fs.ErrNotExist) && path == "config.yaml" {
		logger.Info(ctx, "No config file found, using defaults")
		return store.DefaultConfig(), nil
	}
	if err != nil {
		return nil, err
	}
	logger.Info(ctx, "Config loaded", "path", path)
	return cfg, nil
}

// resolveUniverse picks the tickers to scan. Precedence: -tickers flag,
// -file flag, -group flag, then the config universe (static, file,
// group in that order), then the watchlist.
func resolveUniverse(ctx context.Context, cfg *store.Config, tickersFlag, groupFlag, fileFlag string, wl *watchlist.Store) ([]string, error) {
	switch {
	case tickersFlag != "":
		return splitTickers(tickersFlag), nil
	case fileFlag != "":
		return universe.LoadFile(fileFlag)
	case groupFlag != "":
		return universe.FetchGroup(ctx, groupFlag)
	case len(cfg.Universe.Static) > 0:
		return splitTickers(strings.Join(cfg.Universe.Static, ",")), nil
	case cfg.Universe.File != "":
		return universe.LoadFile(cfg.Universe.File)
	case cfg.Universe.Group != "":
		return universe.FetchGroup(ctx, cfg.Universe.Group)
	}
	return wl.List()
}

func splitTickers(s string) []string {
	var tickers []string
	seen := make(map[string]struct{})
	for _, part := range strings.Split(s, ",") {
		t := strings.ToUpper(strings.TrimSpace(part))
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		tickers = append(tickers, t)
	}
	return tickers
}

// buildRunner wires the provider, analyzer and batch options from
// config.
func buildRunner(cfg *store.Config, hist *history.Log) (*scan.Runner, error) {
	analyzer, err := scanner.New(scanner.Config{
		Weights: cfg.Weights,
		Indicators: scanner.IndicatorParams{
			RSIPeriod: cfg.Indicators.RSIPeriod,
			MAShort:   cfg.Indicators.MAShort,
			MALong:    cfg.Indicators.MALong,
		},
	})
	if err != nil {
		return nil, err
	}

	yahoo := provider.NewYahoo(provider.Options{
		RequestsPerSecond: cfg.Provider.RequestsPerSecond,
		CacheDir:          cfg.Provider.CacheDir,
		CacheTTL:          time.Duration(cfg.Provider.CacheTTLMinutes) * time.Minute,
	})

	opts := scan.Options{
		Workers:       cfg.Scan.Workers,
		TickerTimeout: time.Duration(cfg.Scan.TickerTimeoutSeconds) * time.Second,
		Sectors:       cfg.Sectors,
		SectorMedians: sectorMedians(cfg.SectorMedians),
		History:       hist,
	}
	if cfg.News.Enabled {
		opts.NewsScraper = news.NewScraper(15 * time.Second)
		opts.MaxHeadlines = cfg.News.MaxHeadlines
	}

	return scan.NewRunner(yahoo, scannerobs.Wrap(analyzer), opts), nil
}

func sectorMedians(raw map[string]map[string]float64) map[string]types.SectorMedian {
	if len(raw) == 0 {
		return nil
	}
	medians := make(map[string]types.SectorMedian, len(raw))
	for sector, values := range raw {
		medians[sector] = types.SectorMedian(values)
	}
	return medians
}
