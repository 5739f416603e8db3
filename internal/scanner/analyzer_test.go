package scanner

import (
	"context"
	"math"
	"testing"

	"fundamental-scanner/internal/types"
)

func newTestAnalyzer(t *testing.T) *Analyzer {
	t.Helper()
	a, err := New(Config{Indicators: testParams})
	if err != nil {
		t.Fatalf("Failed to build analyzer: %v", err)
	}
	return a
}

// solidCompany is a ticker that scores well on nearly everything except
// free cash flow yield.
func solidCompany() types.RawTickerData {
	return types.RawTickerData{
		Snapshot: types.Snapshot{
			"price":      150.0,
			"market_cap": 1000.0,
			"pe":         18.0,
			"peg":        1.2,
			"p_s":        2.0,
			"ebitda":     20.0,
		},
		Financial: types.Statements{
			Income: []types.Period{
				{"Total Revenue": 100.0, "Net Income": 10.0, "Operating Income": 15.0, "Gross Profit": 40.0},
				{"Total Revenue": 80.0, "Net Income": 5.0, "Operating Income": 10.0, "Gross Profit": 30.0},
			},
			Balance: []types.Period{
				{"Total Stockholder Equity": 50.0, "Total Debt": 20.0, "Cash": 30.0},
			},
			CashFlow: []types.Period{
				{"Total Cash From Operating Activities": 12.0, "Capital Expenditures": -3.0},
			},
		},
	}
}

func TestAnalyzeEndToEnd(t *testing.T) {
	a := newTestAnalyzer(t)
	result := a.Analyze(context.Background(), "aapl", solidCompany(), nil)

	if result.Ticker != "AAPL" {
		t.Errorf("Expected ticker to be uppercased, got %s", result.Ticker)
	}
	if result.Price != 150.0 {
		t.Errorf("Expected price 150, got %f", result.Price)
	}

	// Spot-check the derived metrics.
	metricChecks := map[string]float64{
		"revenue_yoy_pct": 25.0,
		"netinc_yoy_pct":  100.0,
		"fcf":             9.0,
		"fcf_yield_pct":   0.9,
		"debt_equity":     0.4,
		"net_debt":        -10.0,
		"roe_pct":         20.0,
		"op_margin_pct":   15.0,
	}
	for name, want := range metricChecks {
		got, ok := result.Metrics[name]
		if !ok {
			t.Errorf("Expected metric %s to be present", name)
			continue
		}
		if math.Abs(got-want) > 1e-9 {
			t.Errorf("Metric %s: expected %v, got %v", name, want, got)
		}
	}

	// Spot-check the ordinal scores.
	scoreChecks := map[string]int{
		ScoreValuationPE:   0,  // P/E 18 between 15 and 25
		ScorePEG:           1,  // 1.2 <= 1.5
		ScoreFCFYield:      -1, // 0.9% < 2.5%
		ScoreRevenueGrowth: 1,  // 25% >= 10%
		ScoreROE:           1,  // 20% >= 15%
		ScoreDebtEquity:    1,  // 0.4 <= 1.0
		ScoreInterestCov:   0,  // no interest expense reported
		ScoreTechnical:     0,  // no price history
	}
	for name, want := range scoreChecks {
		if got := result.Scores[name]; got != want {
			t.Errorf("Score %s: expected %d, got %d", name, want, got)
		}
	}

	// Nine +1s and one -1 under the default weights:
	// (0.43 + 0.80) / 1.60 * 100 = 76.875.
	if math.Abs(result.ScorePct-76.88) > 0.01 {
		t.Errorf("Expected score near 76.88, got %f", result.ScorePct)
	}
	if result.Recommendation != types.RecommendBuy {
		t.Errorf("Expected BUY, got %s", result.Recommendation)
	}
	if result.SectorAdjusted {
		t.Error("Expected no sector adjustment without a median")
	}
}

func TestAnalyzeAllMissing(t *testing.T) {
	a := newTestAnalyzer(t)
	result := a.Analyze(context.Background(), "XYZ", types.RawTickerData{}, nil)

	if result.ScorePct != 50.0 {
		t.Errorf("Expected 50 with no data at all, got %f", result.ScorePct)
	}
	if result.Recommendation != types.RecommendHold {
		t.Errorf("Expected HOLD with no data, got %s", result.Recommendation)
	}
	for name, s := range result.Scores {
		if s != 0 {
			t.Errorf("Expected %s to score 0, got %d", name, s)
		}
	}
	// NaN metrics never reach the serialized map; the zero-defaulted
	// dividend yield does.
	for name, v := range result.Metrics {
		if math.IsNaN(v) {
			t.Errorf("Expected no NaN in serialized metrics, found %s", name)
		}
	}
}

func TestAnalyzeSectorPenalty(t *testing.T) {
	a := newTestAnalyzer(t)
	raw := solidCompany()

	base := a.Analyze(context.Background(), "AAPL", raw, nil)

	// FCF yield 0.9% trails a 2.0% sector median: penalized.
	penalized := a.Analyze(context.Background(), "AAPL", raw, types.SectorMedian{"fcf_yield_pct": 2.0})
	if !penalized.SectorAdjusted {
		t.Error("Expected the sector-adjusted flag when a median is supplied")
	}
	if penalized.ScorePct >= base.ScorePct {
		t.Errorf("Expected a lower score under the sector penalty, got %f vs base %f",
			penalized.ScorePct, base.ScorePct)
	}
	// Penalty is 0.02 * totalWeight off the weighted sum: exactly one
	// point on the 0-100 scale.
	if math.Abs((base.ScorePct-penalized.ScorePct)-1.0) > 0.01 {
		t.Errorf("Expected a 1.0 point penalty, got %f", base.ScorePct-penalized.ScorePct)
	}

	// Yield above the median: flagged as adjusted but not penalized.
	ahead := a.Analyze(context.Background(), "AAPL", raw, types.SectorMedian{"fcf_yield_pct": 0.5})
	if !ahead.SectorAdjusted {
		t.Error("Expected the sector-adjusted flag even when ahead of the median")
	}
	if ahead.ScorePct != base.ScorePct {
		t.Errorf("Expected no penalty when ahead of the median, got %f vs %f",
			ahead.ScorePct, base.ScorePct)
	}
}

func TestNewRejectsBadConfig(t *testing.T) {
	if _, err := New(Config{
		Weights:    WeightConfig{"roe": -1.0},
		Indicators: testParams,
	}); err == nil {
		t.Error("Expected a negative weight to be rejected")
	}

	if _, err := New(Config{Indicators: IndicatorParams{RSIPeriod: 0, MAShort: 20, MALong: 50}}); err == nil {
		t.Error("Expected a zero RSI period to be rejected")
	}

	if _, err := New(Config{Indicators: IndicatorParams{RSIPeriod: 14, MAShort: 0, MALong: 50}}); err == nil {
		t.Error("Expected a zero MA window to be rejected")
	}
}

func TestAnalyzeZeroWeights(t *testing.T) {
	a, err := New(Config{
		Weights:    WeightConfig{ScoreROE: 0.0},
		Indicators: testParams,
	})
	if err != nil {
		t.Fatalf("Failed to build analyzer: %v", err)
	}
	result := a.Analyze(context.Background(), "AAPL", solidCompany(), nil)
	if result.ScorePct != 50.0 {
		t.Errorf("Expected 50 when total weight is zero, got %f", result.ScorePct)
	}
	if result.Recommendation != types.RecommendHold {
		t.Errorf("Expected HOLD when total weight is zero, got %s", result.Recommendation)
	}
}
