package usecase

import "StratScan/internal/domain/models"

type nopMetrics struct{}

func (nopMetrics) RecordMessageSent(string, string) {}
func (nopMetrics) RecordError(string) {}
func (nopMetrics) RecordLatency(string, float64) {}
func (nopMetrics) RecordFetch(models.Timeframe, bool) {}
func (nopMetrics) RecordCacheLookup(models.Timeframe, string) {}
func (nopMetrics) RecordLimiter(models.LimiterStats) {}
func (nopMetrics) RecordSignals(int, int) {}
