package ta

import "math"

// SMA returns the simple moving average of the last n closes. When fewer
// than n bars exist the average covers whatever is available (min periods
// of 1), matching a rolling window that has not filled yet.
func SMA(closes []float64, n int) float64 {
	if len(closes) == 0 || n <= 0 {
		return math.NaN()
	}
	if n > len(closes) {
		n = len(closes)
	}
	sum := 0.0
	for i := len(closes) - n; i < len(closes); i++ {
		sum += closes[i]
	}
	return sum / float64(n)
}

// RSI computes the Wilder relative strength index via exponential
// smoothing of gains and losses with alpha = 1/period. A window with no
// losses saturates to 100.
func RSI(closes []float64, period int) float64 {
	if len(closes) < 2 || period <= 0 {
		return math.NaN()
	}
	alpha := 1.0 / float64(period)
	var avgGain, avgLoss float64
	for i := 1; i < len(closes); i++ {
		d := closes[i] - closes[i-1]
		gain, loss := 0.0, 0.0
		if d > 0 {
			gain = d
		} else {
			loss = -d
		}
		if i == 1 {
			avgGain, avgLoss = gain, loss
			continue
		}
		avgGain = avgGain*(1-alpha) + gain*alpha
		avgLoss = avgLoss*(1-alpha) + loss*alpha
	}
	if avgLoss == 0 {
		return 100.0
	}
	rs := avgGain / avgLoss
	return 100.0 - (100.0 / (1.0 + rs))
}

func StdDev(vals []float64, n int) float64 {
	if len(vals) < n || n <= 0 {
		return math.NaN()
	}
	m := SMA(vals, n)
	s := 0.0
	for i := len(vals) - n; i < len(vals); i++ {
		d := vals[i] - m
		s += d * d
	}
	return math.Sqrt(s / float64(n))
}
