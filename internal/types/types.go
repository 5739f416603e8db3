package types

import (
	"math"
	"time"
)

type Bar struct {
	Ts                          int64
	Open, High, Low, Close, Vol float64
}

// Period maps a statement line item to its reported value for one fiscal
// period. Absent keys mean the provider did not report the item.
type Period map[string]float64

// Statements holds the three financial statements, each ordered most
// recent period first. Any of them may be empty.
type Statements struct {
	Income   []Period
	Balance  []Period
	CashFlow []Period
}

// Snapshot maps named quote/info fields (pe, marketCap, beta, ...) to
// values. Absent keys mean the field is unavailable for the ticker.
type Snapshot map[string]float64

// RawTickerData is the best-effort bundle a provider returns for one
// ticker. Every part may be missing or partial.
type RawTickerData struct {
	Snapshot  Snapshot
	Financial Statements
	History   []Bar // ascending by date
}

// Get returns the snapshot field or NaN when absent.
func (s Snapshot) Get(key string) float64 {
	if v, ok := s[key]; ok {
		return v
	}
	return math.NaN()
}

// SectorMedian carries per-sector reference values (at minimum
// "fcf_yield_pct") used for the optional relative adjustment.
type SectorMedian map[string]float64

type Recommendation string

const (
	RecommendBuy  Recommendation = "BUY"
	RecommendHold Recommendation = "HOLD"
	RecommendSell Recommendation = "SELL"
)

// ScanResult is the final per-ticker record of one scan. Metrics holds
// only derived values that were actually computable; no-value metrics
// are omitted so the record marshals cleanly.
type ScanResult struct {
	Ticker         string             `json:"ticker"`
	Timestamp      time.Time          `json:"timestamp"`
	Price          float64            `json:"price,omitempty"`
	Metrics        map[string]float64 `json:"metrics"`
	Scores         map[string]int     `json:"metric_scores"`
	RawWeighted    float64            `json:"raw_weighted"`
	ScorePct       float64            `json:"score_pct"`
	Recommendation Recommendation     `json:"recommendation"`
	SectorAdjusted bool               `json:"sector_adjusted"`
	Sentiment      *NewsSentiment     `json:"sentiment,omitempty"`
}

// Metric returns a derived metric from the result or NaN when it was
// not computable for this ticker.
func (r *ScanResult) Metric(name string) float64 {
	if v, ok := r.Metrics[name]; ok {
		return v
	}
	return math.NaN()
}

type Headline struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Source      string `json:"source"`
	PublishedAt string `json:"published_at,omitempty"`
	Symbol      string `json:"symbol"`
}

// NewsSentiment is the bag-of-words polarity summary over recent
// headlines for one symbol.
type NewsSentiment struct {
	Symbol        string  `json:"symbol"`
	Label         string  `json:"label"` // POSITIVE, NEUTRAL, NEGATIVE
	Score         float64 `json:"score"` // -1..1
	PositiveHits  int     `json:"positive_hits"`
	NegativeHits  int     `json:"negative_hits"`
	HeadlineCount int     `json:"headline_count"`
	Timestamp     int64   `json:"timestamp"`
}
