package interfaces

import (
	"context"

	"fundamental-scanner/internal/types"
)

type Analyzer interface {
	Analyze(ctx context.Context, ticker string, raw types.RawTickerData, sector types.SectorMedian) *types.ScanResult
}
