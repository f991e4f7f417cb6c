package repository

import (
	"fmt"
	"time"

	"StratScan/internal/domain/models"
)

var defaultTTL = map[models.Timeframe]time.Duration{
	models.TF1m:  30 * time.Second,
	models.TF5m:  2 * time.Minute,
	models.TF15m: 5 * time.Minute,
	models.TF30m: 10 * time.Minute,
	models.TF1h:  15 * time.Minute,
	models.TF4h:  30 * time.Minute,
	models.TF12h: 2 * time.Hour,
	models.TF1d:  4 * time.Hour,
	models.TF1w:  8 * time.Hour,
}

// IsValidTimeframe returns true if tf is a supported timeframe.
func IsValidTimeframe(tf models.Timeframe) bool {
	_, ok := defaultTTL[tf]
	return ok
}

// DefaultTimeframe returns the default timeframe.
func DefaultTimeframe() models.Timeframe { return models.TF1h }

// NormalizeTimeframe converts raw string to a valid timeframe (or default).
func NormalizeTimeframe(s string) models.Timeframe {
	if s == "" {
		return DefaultTimeframe()
	}
	tf := models.Timeframe(s)
	if IsValidTimeframe(tf) {
		return tf
	}
	return DefaultTimeframe()
}

// ParseTimeframe is the strict variant of NormalizeTimeframe.
func ParseTimeframe(s string) (models.Timeframe, error) {
	tf := models.Timeframe(s)
	if !IsValidTimeframe(tf) {
		return "", fmt.Errorf("unsupported timeframe: %q", s)
	}
	return tf, nil
}

// DefaultTTL is the cache lifetime of a timeframe state. Shorter bars refresh faster.
func DefaultTTL(tf models.Timeframe) time.Duration {
	if d, ok := defaultTTL[tf]; ok {
		return d
	}
	return time.Minute
}
