package interfaces

import (
	"context"

	"fundamental-scanner/internal/types"
)

// Provider is the market data source. Every method is best-effort: a
// ticker with no data returns empty results, not partial panics.
type Provider interface {
	Snapshot(ctx context.Context, ticker string) (types.Snapshot, error)
	Statements(ctx context.Context, ticker string) (types.Statements, error)
	History(ctx context.Context, ticker string) ([]types.Bar, error)
}
