package repository

import (
	"context"

	"StratScan/internal/domain/models"
)

// CandleSource provides read-only access to OHLCV bars.
// Implementations must return bars deduplicated by timestamp and sorted ascending,
// and must fail with an error on transport problems.
type CandleSource interface {
	FetchCandles(ctx context.Context, marketID int, tf models.Timeframe, countBack int) ([]models.Candle, error)
}

// MarketDirectory lists the markets available on the venue.
type MarketDirectory interface {
	ListMarkets(ctx context.Context) ([]models.Market, error)
}
