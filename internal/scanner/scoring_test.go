package scanner

import (
	"math"
	"testing"
)

func TestScoreMetricBoundaries(t *testing.T) {
	// Both cutoffs are inclusive on the better side.
	if got := ScoreMetric(10.0, 10.0, 5.0); got != 1 {
		t.Errorf("Expected +1 at value == good, got %d", got)
	}
	if got := ScoreMetric(5.0, 10.0, 5.0); got != 0 {
		t.Errorf("Expected 0 at value == neutral, got %d", got)
	}
	if got := ScoreMetric(4.999, 10.0, 5.0); got != -1 {
		t.Errorf("Expected -1 just below neutral, got %d", got)
	}
	if got := ScoreMetric(math.NaN(), 10.0, 5.0); got != 0 {
		t.Errorf("Expected missing data to score neutral, got %d", got)
	}
}

func TestThresholdLowerIsBetter(t *testing.T) {
	th := Threshold{Good: 15, Neutral: 25, Direction: LowerIsBetter}

	if got := th.Score(12.0); got != 1 {
		t.Errorf("Expected +1 for P/E 12 under a good cutoff of 15, got %d", got)
	}
	if got := th.Score(15.0); got != 1 {
		t.Errorf("Expected +1 at the good cutoff itself, got %d", got)
	}
	if got := th.Score(20.0); got != 0 {
		t.Errorf("Expected 0 between cutoffs, got %d", got)
	}
	if got := th.Score(25.0); got != 0 {
		t.Errorf("Expected 0 at the neutral cutoff itself, got %d", got)
	}
	if got := th.Score(30.0); got != -1 {
		t.Errorf("Expected -1 for P/E 30 past the neutral cutoff, got %d", got)
	}
	if got := th.Score(math.NaN()); got != 0 {
		t.Errorf("Expected missing data to score neutral, got %d", got)
	}
}

func TestTechnicalScore(t *testing.T) {
	nan := math.NaN()

	if got := TechnicalScore(45, 110, 100); got != 1 {
		t.Errorf("Expected +1 for favorable RSI and positive crossover, got %d", got)
	}
	if got := TechnicalScore(75, 90, 100); got != -1 {
		t.Errorf("Expected -1 for overbought RSI and negative crossover, got %d", got)
	}
	// Opposing signals cancel back to neutral.
	if got := TechnicalScore(75, 110, 100); got != 0 {
		t.Errorf("Expected 0 when RSI and crossover disagree, got %d", got)
	}
	// Oversold leaves the RSI contribution at zero.
	if got := TechnicalScore(20, 90, 100); got != -1 {
		t.Errorf("Expected -1 from the crossover alone when oversold, got %d", got)
	}
	if got := TechnicalScore(20, nan, nan); got != 0 {
		t.Errorf("Expected 0 when oversold with no MAs, got %d", got)
	}
	// Equal MAs count as a negative crossover.
	if got := TechnicalScore(nan, 100, 100); got != -1 {
		t.Errorf("Expected -1 for short MA not above long MA, got %d", got)
	}
	if got := TechnicalScore(nan, nan, nan); got != 0 {
		t.Errorf("Expected 0 with no technical inputs at all, got %d", got)
	}
}

func TestScoreAllMissingMetrics(t *testing.T) {
	scores := ScoreAll(map[string]float64{}, nil)

	if len(scores) != len(scoreInputs)+1 {
		t.Fatalf("Expected %d scores, got %d", len(scoreInputs)+1, len(scores))
	}
	for name, s := range scores {
		if s != 0 {
			t.Errorf("Expected %s to score 0 with no data, got %d", name, s)
		}
	}
}

func TestScoreAllCustomThreshold(t *testing.T) {
	metrics := map[string]float64{
		MetricROEPct: 12.0,
	}

	// Default table: 12 sits between neutral 8 and good 15.
	scores := ScoreAll(metrics, nil)
	if scores[ScoreROE] != 0 {
		t.Errorf("Expected ROE 12%% to score 0 under defaults, got %d", scores[ScoreROE])
	}

	custom := DefaultThresholds()
	custom[ScoreROE] = Threshold{Good: 10.0, Neutral: 5.0}
	scores = ScoreAll(metrics, custom)
	if scores[ScoreROE] != 1 {
		t.Errorf("Expected ROE 12%% to score +1 under a lowered cutoff, got %d", scores[ScoreROE])
	}
}

func TestDefaultThresholdsIsACopy(t *testing.T) {
	th := DefaultThresholds()
	th[ScoreROE] = Threshold{Good: 1, Neutral: 0}

	if defaultThresholds[ScoreROE].Good != 15.0 {
		t.Error("Expected mutating the copy to leave the stock table untouched")
	}
}
