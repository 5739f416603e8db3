package scannerobs

import (
	"context"
	"time"

	"fundamental-scanner/internal/interfaces"
	"fundamental-scanner/internal/logger"
	"fundamental-scanner/internal/trace"
	"fundamental-scanner/internal/types"
)

type observableAnalyzer struct {
	analyzer interfaces.Analyzer
}

var _ interfaces.Analyzer = (*observableAnalyzer)(nil)

// Wrap adds span and log instrumentation around an analyzer.
func Wrap(a interfaces.Analyzer) interfaces.Analyzer {
	return &observableAnalyzer{
		analyzer: a,
	}
}

func (oa *observableAnalyzer) Analyze(ctx context.Context, ticker string, raw types.RawTickerData, sector types.SectorMedian) *types.ScanResult {
	ctx, span := trace.StartSpan(ctx, "scanner.Analyze")
	defer span.End()

	start := time.Now()

	result := oa.analyzer.Analyze(ctx, ticker, raw, sector)

	logger.Recommendation(ctx, result.Ticker, string(result.Recommendation), result.ScorePct,
		"sector_adjusted", result.SectorAdjusted,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return result
}
