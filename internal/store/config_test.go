package store

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	path := writeConfig(t, "universe:\n  static: [AAPL, MSFT]\n")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if len(cfg.Universe.Static) != 2 {
		t.Errorf("Expected 2 static tickers, got %d", len(cfg.Universe.Static))
	}
	if cfg.Indicators.RSIPeriod != 14 {
		t.Errorf("Expected default RSI period 14, got %d", cfg.Indicators.RSIPeriod)
	}
	if cfg.Indicators.MAShort != 20 || cfg.Indicators.MALong != 50 {
		t.Errorf("Expected default MA windows 20/50, got %d/%d", cfg.Indicators.MAShort, cfg.Indicators.MALong)
	}
	if cfg.Scan.Workers != 4 {
		t.Errorf("Expected default 4 workers, got %d", cfg.Scan.Workers)
	}
	if cfg.Scan.IntervalHours != 24 {
		t.Errorf("Expected default 24h interval, got %d", cfg.Scan.IntervalHours)
	}
	if cfg.Provider.RequestsPerSecond != 2 {
		t.Errorf("Expected default 2 rps, got %d", cfg.Provider.RequestsPerSecond)
	}
	if cfg.History.Dir != "data/history" {
		t.Errorf("Expected default history dir, got %s", cfg.History.Dir)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	path := writeConfig(t, `
indicators:
  rsi_period: 7
  ma_short: 10
  ma_long: 30
weights:
  roe: 0.2
  tech: 0.1
sectors:
  AAPL: Technology
sector_medians:
  Technology:
    fcf_yield_pct: 3.5
`)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.Indicators.RSIPeriod != 7 {
		t.Errorf("Expected RSI period 7, got %d", cfg.Indicators.RSIPeriod)
	}
	if cfg.Weights["roe"] != 0.2 {
		t.Errorf("Expected roe weight 0.2, got %v", cfg.Weights["roe"])
	}
	if cfg.Sectors["AAPL"] != "Technology" {
		t.Errorf("Expected AAPL mapped to Technology, got %s", cfg.Sectors["AAPL"])
	}
	if cfg.SectorMedians["Technology"]["fcf_yield_pct"] != 3.5 {
		t.Error("Expected the Technology median to survive loading")
	}
}

func TestLoadConfigRejectsNegativeWeight(t *testing.T) {
	path := writeConfig(t, "weights:\n  roe: -0.5\n")
	if _, err := LoadConfig(path); err == nil {
		t.Error("Expected a negative weight to fail validation")
	}
}

func TestLoadConfigRejectsBadIndicators(t *testing.T) {
	path := writeConfig(t, "indicators:\n  rsi_period: -3\n")
	if _, err := LoadConfig(path); err == nil {
		t.Error("Expected a negative RSI period to fail validation")
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("Expected an error for a missing file")
	}
}

func TestDefaultConfigValidates(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Errorf("Expected the default config to validate, got %v", err)
	}
	if cfg.Watchlist.Path == "" {
		t.Error("Expected a default watchlist path")
	}
	if cfg.News.MaxHeadlines != 10 {
		t.Errorf("Expected default 10 headlines, got %d", cfg.News.MaxHeadlines)
	}
}
