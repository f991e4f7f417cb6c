package usecase

import (
	"context"
	"fmt"

	"StratScan/internal/domain/models"
	domrepo "StratScan/internal/domain/repository"
	domsvc "StratScan/internal/domain/service"
	"StratScan/internal/service/ratelimit"
)

const (
	defaultChartCandles = 100
	maxChartCandles     = 500
)

// CandleAnalysisUseCase runs the Strat analysis of one market on one timeframe.
type CandleAnalysisUseCase struct {
	source   domrepo.CandleSource
	analyzer domsvc.CandleAnalyzer
	limiter  *ratelimit.ConcurrencyLimiter
}

func NewCandleAnalysisUseCase(source domrepo.CandleSource, analyzer domsvc.CandleAnalyzer, limiter *ratelimit.ConcurrencyLimiter) *CandleAnalysisUseCase {
	return &CandleAnalysisUseCase{source: source, analyzer: analyzer, limiter: limiter}
}

type AnalyzeCandlesParams struct {
	MarketID  int
	Timeframe models.Timeframe
	N         int
}

func (uc *CandleAnalysisUseCase) Analyze(ctx context.Context, p AnalyzeCandlesParams) (*models.StratAnalysis, error) {
	if p.MarketID < 0 {
		return nil, fmt.Errorf("market id must be non-negative")
	}
	if !domrepo.IsValidTimeframe(p.Timeframe) {
		return nil, fmt.Errorf("unsupported timeframe %q", p.Timeframe)
	}
	if p.N <= 0 {
		p.N = defaultChartCandles
	}
	if p.N > maxChartCandles {
		p.N = maxChartCandles
	}

	raw, err := ratelimit.Execute(ctx, uc.limiter, func(ctx context.Context) ([]models.Candle, error) {
		return uc.source.FetchCandles(ctx, p.MarketID, p.Timeframe, p.N)
	})
	if err != nil {
		return nil, fmt.Errorf("fetch candles: %w", err)
	}
	analysis, err := uc.analyzer.Analyze(raw)
	if err != nil {
		return nil, fmt.Errorf("analyze: %w", err)
	}
	return &analysis, nil
}
