package models

import "time"

// MultiTimeframeAnalysis is the per-market FTC view: one state per timeframe plus confluence.
// Note: no transport (http/ws/kafka) concerns here.
type MultiTimeframeAnalysis struct {
	MarketID      int                          `json:"marketId"`
	Symbol        string                       `json:"symbol"`
	Timeframes    map[Timeframe]TimeframeState `json:"timeframes"`
	Confluence    Confluence                   `json:"confluence"`
	LastUpdatedAt int64                        `json:"lastUpdated"`
}

// LimiterStats is a point-in-time view of the fetch concurrency limiter.
type LimiterStats struct {
	CurrentlyRunning int `json:"currentlyRunning"`
	QueueLength      int `json:"queueLength"`
	MaxConcurrent    int `json:"maxConcurrent"`
}

// ScanResult is the outcome of one scheduled signal scan cycle.
type ScanResult struct {
	ID        string         `json:"id"`
	Timestamp time.Time      `json:"timestamp"`
	Markets   int            `json:"markets"`
	Response  SignalResponse `json:"response"`
	Limiter   LimiterStats   `json:"limiter"`
	Errors    []string       `json:"errors,omitempty"`
}
