package store

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Universe struct {
		Static []string `yaml:"static"`
		Group  string   `yaml:"group"` // "S&P 500", "NASDAQ-100", "Dow 30"
		File   string   `yaml:"file"`  // ticker file, one symbol per line
	} `yaml:"universe"`

	// Weights keyed by scored metric name. Empty means the built-in
	// defaults.
	Weights map[string]float64 `yaml:"weights"`

	Indicators struct {
		RSIPeriod int `yaml:"rsi_period"`
		MAShort   int `yaml:"ma_short"`
		MALong    int `yaml:"ma_long"`
	} `yaml:"indicators"`

	Scan struct {
		Workers              int `yaml:"workers"`
		TickerTimeoutSeconds int `yaml:"ticker_timeout_seconds"`
		IntervalHours        int `yaml:"interval_hours"`
	} `yaml:"scan"`

	Provider struct {
		RequestsPerSecond int    `yaml:"requests_per_second"`
		CacheDir          string `yaml:"cache_dir"`
		CacheTTLMinutes   int    `yaml:"cache_ttl_minutes"`
	} `yaml:"provider"`

	News struct {
		Enabled      bool `yaml:"enabled"`
		MaxHeadlines int  `yaml:"max_headlines"`
	} `yaml:"news"`

	History struct {
		Dir           string `yaml:"dir"`
		RetentionDays int    `yaml:"retention_days"`
	} `yaml:"history"`

	Watchlist struct {
		Path string `yaml:"path"`
	} `yaml:"watchlist"`

	// Optional sector-relative scoring inputs: ticker -> sector name,
	// sector name -> median metric values (at least fcf_yield_pct).
	Sectors       map[string]string             `yaml:"sectors"`
	SectorMedians map[string]map[string]float64 `yaml:"sector_medians"`
}

func (c *Config) Validate() error {
	for name, w := range c.Weights {
		if w < 0 {
			return fmt.Errorf("weights.%s must be non-negative, got %v", name, w)
		}
	}
	if c.Indicators.RSIPeriod < 1 {
		return fmt.Errorf("indicators.rsi_period must be >= 1, got %d", c.Indicators.RSIPeriod)
	}
	if c.Indicators.MAShort < 1 || c.Indicators.MALong < 1 {
		return fmt.Errorf("indicators.ma windows must be >= 1, got short=%d long=%d",
			c.Indicators.MAShort, c.Indicators.MALong)
	}
	if c.Scan.Workers < 1 {
		return fmt.Errorf("scan.workers must be >= 1, got %d", c.Scan.Workers)
	}
	if c.Scan.TickerTimeoutSeconds < 1 {
		return fmt.Errorf("scan.ticker_timeout_seconds must be >= 1, got %d", c.Scan.TickerTimeoutSeconds)
	}
	if c.Scan.IntervalHours < 1 {
		return fmt.Errorf("scan.interval_hours must be >= 1, got %d", c.Scan.IntervalHours)
	}
	return nil
}

func LoadConfig(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}
	c.applyDefaults()

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &c, nil
}

// DefaultConfig returns a usable config without a file on disk.
func DefaultConfig() *Config {
	var c Config
	c.applyDefaults()
	return &c
}

func (c *Config) applyDefaults() {
	if c.Indicators.RSIPeriod == 0 {
		c.Indicators.RSIPeriod = 14
	}
	if c.Indicators.MAShort == 0 {
		c.Indicators.MAShort = 20
	}
	if c.Indicators.MALong == 0 {
		c.Indicators.MALong = 50
	}
	if c.Scan.Workers == 0 {
		c.Scan.Workers = 4
	}
	if c.Scan.TickerTimeoutSeconds == 0 {
		c.Scan.TickerTimeoutSeconds = 30
	}
	if c.Scan.IntervalHours == 0 {
		c.Scan.IntervalHours = 24
	}
	if c.Provider.RequestsPerSecond == 0 {
		c.Provider.RequestsPerSecond = 2
	}
	if c.Provider.CacheDir == "" {
		c.Provider.CacheDir = "cache/provider"
	}
	if c.Provider.CacheTTLMinutes == 0 {
		c.Provider.CacheTTLMinutes = 60
	}
	if c.News.MaxHeadlines == 0 {
		c.News.MaxHeadlines = 10
	}
	if c.History.Dir == "" {
		c.History.Dir = "data/history"
	}
	if c.Watchlist.Path == "" {
		c.Watchlist.Path = "data/watchlist.json"
	}
}
