package scanner

import (
	"fmt"

	"fundamental-scanner/internal/types"
)

// WeightConfig maps scored metric names to non-negative weights. Weights
// need not sum to 1; the aggregator normalizes by the total.
type WeightConfig map[string]float64

// defaultWeights mirrors the stock weighting of the scan. Never mutated;
// DefaultWeights hands out copies.
var defaultWeights = WeightConfig{
	ScoreValuationPE:   0.08,
	ScorePEG:           0.06,
	ScorePriceToSales:  0.04,
	ScoreFCFYield:      0.08,
	ScoreRevenueGrowth: 0.08,
	ScoreNetIncGrowth:  0.06,
	ScoreOpMargin:      0.06,
	ScoreNetMargin:     0.05,
	ScoreROE:           0.06,
	ScoreDebtEquity:    0.05,
	ScoreNetDebtEBITDA: 0.05,
	ScoreInterestCov:   0.04,
	ScoreCurrentRatio:  0.03,
	ScoreTechnical:     0.06,
}

// DefaultWeights returns a fresh copy of the default weight config.
func DefaultWeights() WeightConfig {
	out := make(WeightConfig, len(defaultWeights))
	for k, v := range defaultWeights {
		out[k] = v
	}
	return out
}

func (w WeightConfig) Validate() error {
	for name, weight := range w {
		if weight < 0 {
			return fmt.Errorf("weight for %q must be non-negative, got %v", name, weight)
		}
	}
	return nil
}

// Aggregate combines ordinal scores with weights. Metrics present in the
// weight config but unscored contribute 0.
func Aggregate(scores map[string]int, weights WeightConfig) (weightedSum, totalWeight float64) {
	for name, weight := range weights {
		totalWeight += weight
		weightedSum += float64(scores[name]) * weight
	}
	return weightedSum, totalWeight
}

// ScorePercent remaps the signed range [-totalWeight, +totalWeight]
// linearly onto [0,100]: all-neutral lands at 50, all-max at 100,
// all-min at 0. A non-positive total weight cannot be normalized and
// pins the score at 50.
func ScorePercent(weightedSum, totalWeight float64) float64 {
	if totalWeight <= 0 {
		return 50.0
	}
	normalized := (weightedSum + totalWeight) / (2 * totalWeight)
	return clamp(normalized*100.0, 0, 100)
}

// sectorPenaltyFactor scales the weighted-sum deduction applied when a
// ticker's FCF yield trails its sector median.
const sectorPenaltyFactor = 0.02

// Classify maps a conviction score to the recommendation band. Fixed
// cutoffs, no hysteresis.
func Classify(scorePct float64) types.Recommendation {
	switch {
	case scorePct >= 65:
		return types.RecommendBuy
	case scorePct >= 45:
		return types.RecommendHold
	default:
		return types.RecommendSell
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
