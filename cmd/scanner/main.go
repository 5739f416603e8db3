package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fundamental-scanner/internal/history"
	"fundamental-scanner/internal/logger"
	"fundamental-scanner/internal/trace"
	"fundamental-scanner/internal/types"
	"fundamental-scanner/internal/watchlist"

	"github.com/joho/godotenv"
)

func must(err error) {
	if err != nil {
		log.Fatal(err)
	}
}

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	tickersFlag := flag.String("tickers", "", "comma-separated tickers to scan (overrides config universe)")
	groupFlag := flag.String("group", "", "preset index group to scan (S&P 500, NASDAQ-100, Dow 30)")
	fileFlag := flag.String("file", "", "ticker file to scan, one symbol per line")
	addFlag := flag.String("add", "", "comma-separated tickers to add to the watchlist, then exit")
	removeFlag := flag.String("remove", "", "ticker to remove from the watchlist, then exit")
	listFlag := flag.Bool("list", false, "print the watchlist, then exit")
	recentFlag := flag.Int("recent", 0, "print the N most recent scan results, then exit")
	csvFlag := flag.String("csv", "", "write scan results to this CSV file")
	watchFlag := flag.Bool("watch", false, "keep rescanning every scan.interval_hours")
	flag.Parse()

	_ = godotenv.Load()
	must(initializeSystem())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	defer trace.Shutdown(context.Background())

	cfg, err := loadConfig(ctx, *configPath)
	must(err)

	wl := watchlist.New(cfg.Watchlist.Path)
	hist := history.New(cfg.History.Dir)
	if cfg.History.RetentionDays > 0 {
		if err := hist.CompressOlder(cfg.History.RetentionDays); err != nil {
			logger.Warn(ctx, "Failed to compress old history", "error", err)
		}
	}

	switch {
	case *addFlag != "":
		must(wl.Add(splitTickers(*addFlag)...))
		return
	case *removeFlag != "":
		must(wl.Remove(*removeFlag))
		return
	case *listFlag:
		tickers, err := wl.List()
		must(err)
		for _, t := range tickers {
			fmt.Println(t)
		}
		return
	case *recentFlag > 0:
		results, err := hist.Recent(*recentFlag)
		must(err)
		for _, r := range results {
			printResult(&r)
		}
		return
	}

	tickers, err := resolveUniverse(ctx, cfg, *tickersFlag, *groupFlag, *fileFlag, wl)
	must(err)
	if len(tickers) == 0 {
		log.Fatal("nothing to scan: supply -tickers, -group, -file, a config universe, or a watchlist")
	}

	runner, err := buildRunner(cfg, hist)
	must(err)

	runScan := func() {
		results := runner.Run(ctx, tickers)
		for _, r := range results {
			printResult(r)
		}
		if *csvFlag != "" {
			if err := history.ExportCSV(results, *csvFlag); err != nil {
				logger.ErrorWithErr(ctx, "CSV export failed", err, "path", *csvFlag)
			} else {
				logger.Info(ctx, "CSV written", "path", *csvFlag, "rows", len(results))
			}
		}
	}

	runScan()
	if !*watchFlag {
		return
	}

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)

	interval := time.Duration(cfg.Scan.IntervalHours) * time.Hour
	tick := time.NewTicker(interval)
	defer tick.Stop()

	logger.Info(ctx, "Scanner running", "interval_hours", cfg.Scan.IntervalHours, "tickers", len(tickers))
	for {
		select {
		case <-tick.C:
			runScan()
		case <-sigc:
			logger.Info(ctx, "Shutting down")
			return
		case <-ctx.Done():
			return
		}
	}
}

func printResult(r *types.ScanResult) {
	b, _ := json.Marshal(r)
	fmt.Println(string(b))
}
