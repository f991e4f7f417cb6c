package repository

import (
	"context"

	"StratScan/internal/domain/models"
)

// SignalSink receives the result of every scan cycle.
type SignalSink interface {
	Name() string
	Publish(ctx context.Context, res *models.ScanResult) error
	Close() error
}

type Metrics interface {
	RecordMessageSent(backend, key string)
	RecordError(kind string)
	RecordLatency(op string, seconds float64)
	RecordFetch(tf models.Timeframe, ok bool)
	RecordCacheLookup(tf models.Timeframe, result string)
	RecordLimiter(stats models.LimiterStats)
	RecordSignals(signals, nearMisses int)
}

// Cache lookup results reported through Metrics.RecordCacheLookup.
const (
	CacheHit   = "hit"
	CacheStale = "stale"
	CacheMiss  = "miss"
)
