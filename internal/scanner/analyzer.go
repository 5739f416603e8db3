package scanner

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"fundamental-scanner/internal/types"
)

// Config holds everything the analyzer needs. Zero-value indicator
// fields are invalid; the config layer fills defaults before this point.
type Config struct {
	Weights    WeightConfig
	Thresholds map[string]Threshold // nil means the default table
	Indicators IndicatorParams
}

// Analyzer turns one ticker's raw data into a ScanResult. It holds no
// mutable state and is safe for concurrent use.
type Analyzer struct {
	weights    WeightConfig
	thresholds map[string]Threshold
	params     IndicatorParams
}

// New validates the config and builds an analyzer. Negative weights and
// non-positive indicator windows are rejected here, not absorbed.
func New(cfg Config) (*Analyzer, error) {
	weights := cfg.Weights
	if weights == nil {
		weights = DefaultWeights()
	}
	if err := weights.Validate(); err != nil {
		return nil, err
	}
	if cfg.Indicators.RSIPeriod < 1 {
		return nil, fmt.Errorf("rsi period must be >= 1, got %d", cfg.Indicators.RSIPeriod)
	}
	if cfg.Indicators.MAShort < 1 || cfg.Indicators.MALong < 1 {
		return nil, fmt.Errorf("ma windows must be >= 1, got short=%d long=%d",
			cfg.Indicators.MAShort, cfg.Indicators.MALong)
	}
	return &Analyzer{
		weights:    weights,
		thresholds: cfg.Thresholds,
		params:     cfg.Indicators,
	}, nil
}

// Analyze runs extraction, scoring, aggregation and classification for
// one ticker. sector may be nil. Missing or partial raw data flows
// through as neutral signals; with everything absent the result is a
// well-formed 50/HOLD.
func (a *Analyzer) Analyze(ctx context.Context, ticker string, raw types.RawTickerData, sector types.SectorMedian) *types.ScanResult {
	metrics := Derive(raw, a.params)
	scores := ScoreAll(metrics, a.thresholds)
	weightedSum, totalWeight := Aggregate(scores, a.weights)
	scorePct := ScorePercent(weightedSum, totalWeight)

	sectorAdjusted := false
	if sector != nil {
		sectorAdjusted = true
		med, ok := sector[MetricFCFYieldPct]
		fcfYield := metricValue(metrics, MetricFCFYieldPct)
		if ok && !math.IsNaN(med) && !math.IsNaN(fcfYield) && fcfYield < med {
			scorePct = ScorePercent(weightedSum-sectorPenaltyFactor*totalWeight, totalWeight)
		}
	}

	rec := Classify(scorePct)

	result := &types.ScanResult{
		Ticker:         strings.ToUpper(ticker),
		Timestamp:      time.Now().UTC(),
		Metrics:        presentOnly(metrics),
		Scores:         scores,
		RawWeighted:    weightedSum,
		ScorePct:       round2(scorePct),
		Recommendation: rec,
		SectorAdjusted: sectorAdjusted,
	}
	if price := metricValue(metrics, MetricPrice); !math.IsNaN(price) {
		result.Price = price
	}
	return result
}

// presentOnly drops no-value metrics so the result serializes cleanly.
func presentOnly(metrics map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(metrics))
	for name, v := range metrics {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		out[name] = v
	}
	return out
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
