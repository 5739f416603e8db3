package scanner

import "math"

// Direction states which way a raw metric is good. Lower-is-better
// metrics (P/E, leverage ratios) are negated together with their cutoffs
// inside Score so every comparison runs higher-is-better.
type Direction int

const (
	HigherIsBetter Direction = iota
	LowerIsBetter
)

// Threshold is a two-cutoff scoring rule: value >= Good is +1,
// value >= Neutral is 0, anything below is -1.
type Threshold struct {
	Good      float64
	Neutral   float64
	Direction Direction
}

// Scored metric names, the keys of the weight config.
const (
	ScoreValuationPE     = "valuation_pe"
	ScorePEG             = "peg"
	ScorePriceToSales    = "p_s"
	ScoreFCFYield        = "fcf_yield"
	ScoreRevenueGrowth   = "revenue_growth"
	ScoreNetIncGrowth    = "netinc_growth"
	ScoreOpMargin        = "op_margin"
	ScoreNetMargin       = "net_margin"
	ScoreROE             = "roe"
	ScoreDebtEquity      = "debt_eq"
	ScoreNetDebtEBITDA   = "net_debt_ebitda"
	ScoreInterestCov     = "interest_cov"
	ScoreCurrentRatio    = "current_ratio"
	ScoreTechnical       = "tech"
)

// defaultThresholds is the stock rule table. Lower-is-better rows keep
// their cutoffs in raw units; negation happens at scoring time.
var defaultThresholds = map[string]Threshold{
	ScoreValuationPE:   {Good: 15, Neutral: 25, Direction: LowerIsBetter},
	ScorePEG:           {Good: 1.5, Neutral: 2.5, Direction: LowerIsBetter},
	ScorePriceToSales:  {Good: 3, Neutral: 5, Direction: LowerIsBetter},
	ScoreFCFYield:      {Good: 5.0, Neutral: 2.5},
	ScoreRevenueGrowth: {Good: 10.0, Neutral: 3.0},
	ScoreNetIncGrowth:  {Good: 10.0, Neutral: 0.0},
	ScoreOpMargin:      {Good: 15.0, Neutral: 5.0},
	ScoreNetMargin:     {Good: 10.0, Neutral: 3.0},
	ScoreROE:           {Good: 15.0, Neutral: 8.0},
	ScoreDebtEquity:    {Good: 1.0, Neutral: 2.0, Direction: LowerIsBetter},
	ScoreNetDebtEBITDA: {Good: 3.0, Neutral: 4.0, Direction: LowerIsBetter},
	ScoreInterestCov:   {Good: 5.0, Neutral: 2.0},
	ScoreCurrentRatio:  {Good: 1.5, Neutral: 1.0},
}

// scoreInputs maps each scored metric to the derived metric it reads.
var scoreInputs = map[string]string{
	ScoreValuationPE:   MetricPE,
	ScorePEG:           MetricPEG,
	ScorePriceToSales:  MetricPriceToSales,
	ScoreFCFYield:      MetricFCFYieldPct,
	ScoreRevenueGrowth: MetricRevenueYoYPct,
	ScoreNetIncGrowth:  MetricNetIncYoYPct,
	ScoreOpMargin:      MetricOpMarginPct,
	ScoreNetMargin:     MetricNetMarginPct,
	ScoreROE:           MetricROEPct,
	ScoreDebtEquity:    MetricDebtEquity,
	ScoreNetDebtEBITDA: MetricNetDebtEBITDA,
	ScoreInterestCov:   MetricInterestCoverage,
	ScoreCurrentRatio:  MetricCurrentRatio,
}

// DefaultThresholds returns a copy of the stock rule table, safe for the
// caller to tweak.
func DefaultThresholds() map[string]Threshold {
	out := make(map[string]Threshold, len(defaultThresholds))
	for k, v := range defaultThresholds {
		out[k] = v
	}
	return out
}

// ScoreMetric maps a value to an ordinal signal against two cutoffs.
// Missing data (NaN) is neutral, never a penalty. Both boundaries are
// inclusive on the better side.
func ScoreMetric(value, good, neutral float64) int {
	if math.IsNaN(value) {
		return 0
	}
	if value >= good {
		return 1
	}
	if value >= neutral {
		return 0
	}
	return -1
}

// Score applies the threshold to a raw metric value, negating value and
// cutoffs for lower-is-better metrics.
func (t Threshold) Score(value float64) int {
	if t.Direction == LowerIsBetter {
		return ScoreMetric(-value, -t.Good, -t.Neutral)
	}
	return ScoreMetric(value, t.Good, t.Neutral)
}

// TechnicalScore folds the RSI band and the moving-average relationship
// into one ordinal signal. RSI in [30,60] is favorable, oversold (<30)
// stays neutral, above 60 counts against. Short MA above long MA is a
// positive crossover. The sum collapses back to its sign.
func TechnicalScore(rsi, maShort, maLong float64) int {
	score := 0
	if !math.IsNaN(rsi) {
		switch {
		case rsi >= 30 && rsi <= 60:
			score++
		case rsi < 30:
			// oversold is ambiguous, leave neutral
		default:
			score--
		}
	}
	if !math.IsNaN(maShort) && !math.IsNaN(maLong) {
		if maShort > maLong {
			score++
		} else {
			score--
		}
	}
	return sign(score)
}

// ScoreAll scores every metric in the rule table plus the technical
// composite. Metrics whose derived value is missing score 0.
func ScoreAll(metrics map[string]float64, thresholds map[string]Threshold) map[string]int {
	if thresholds == nil {
		thresholds = defaultThresholds
	}
	scores := make(map[string]int, len(scoreInputs)+1)
	for key, input := range scoreInputs {
		th, ok := thresholds[key]
		if !ok {
			th = defaultThresholds[key]
		}
		scores[key] = th.Score(metricValue(metrics, input))
	}
	scores[ScoreTechnical] = TechnicalScore(
		metricValue(metrics, MetricRSI),
		metricValue(metrics, MetricMAShort),
		metricValue(metrics, MetricMALong),
	)
	return scores
}

func metricValue(metrics map[string]float64, name string) float64 {
	if v, ok := metrics[name]; ok {
		return v
	}
	return math.NaN()
}

func sign(n int) int {
	switch {
	case n > 0:
		return 1
	case n < 0:
		return -1
	default:
		return 0
	}
}
