package usecase

import (
	"context"
	"fmt"
	"time"

	"StratScan/internal/domain/models"
	domrepo "StratScan/internal/domain/repository"
	domsvc "StratScan/internal/domain/service"
	applogger "StratScan/pkg/logger"
)

// SignalScanUseCase produces the multi-timeframe view and the scored signals
// for a set of markets.
type SignalScanUseCase struct {
	states     *TimeframeStateCache
	engine     domsvc.SignalEngine
	metrics    domrepo.Metrics
	logger     *applogger.Logger
	ftcEnabled bool
}

func NewSignalScanUseCase(states *TimeframeStateCache, engine domsvc.SignalEngine, metrics domrepo.Metrics, logger *applogger.Logger, ftcEnabled bool) *SignalScanUseCase {
	if metrics == nil {
		metrics = nopMetrics{}
	}
	if logger == nil {
		logger = applogger.Nop()
	}
	return &SignalScanUseCase{
		states:     states,
		engine:     engine,
		metrics:    metrics,
		logger:     logger.With(applogger.String("component", "signal_scan")),
		ftcEnabled: ftcEnabled,
	}
}

// FTCEnabled reports whether multi-timeframe scanning is switched on.
func (uc *SignalScanUseCase) FTCEnabled() bool { return uc.ftcEnabled }

// LimiterStats returns the shared fetch limiter state.
func (uc *SignalScanUseCase) LimiterStats() models.LimiterStats {
	return uc.states.Limiter().Stats()
}

// MultiTimeframe returns one FTC view per market, or an empty list when FTC is disabled.
func (uc *SignalScanUseCase) MultiTimeframe(ctx context.Context, markets []models.Market, candleCount int) (out []models.MultiTimeframeAnalysis) {
	if !uc.ftcEnabled {
		uc.logger.Warn("ftc disabled, returning empty matrix")
		return []models.MultiTimeframeAnalysis{}
	}
	defer func() {
		if r := recover(); r != nil {
			uc.metrics.RecordError("ftc")
			uc.logger.Error("ftc matrix failed", applogger.Any("panic", r))
			out = []models.MultiTimeframeAnalysis{}
		}
	}()
	return uc.states.GetMultiTimeframeState(ctx, markets, candleCount)
}

// Scan builds the signal response for markets. It never fails: a broken scan
// comes back as an empty response.
func (uc *SignalScanUseCase) Scan(ctx context.Context, markets []models.Market, candleCount int) (resp models.SignalResponse) {
	if !uc.ftcEnabled {
		return models.EmptySignalResponse()
	}
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			uc.metrics.RecordError("scan")
			uc.logger.Error("signal scan failed", applogger.Error(fmt.Errorf("panic: %v", r)))
			resp = models.EmptySignalResponse()
		}
	}()

	analyses := uc.states.GetMultiTimeframeState(ctx, markets, candleCount)
	resp = uc.engine.BuildResponse(analyses)
	uc.metrics.RecordSignals(len(resp.Signals), len(resp.NearMisses))
	uc.metrics.RecordLatency("signal_scan", time.Since(start).Seconds())
	uc.logger.Info("signal scan complete",
		applogger.Int("markets", len(markets)),
		applogger.Int("signals", len(resp.Signals)),
		applogger.Int("near_misses", len(resp.NearMisses)),
		applogger.Duration("took", time.Since(start)),
	)
	return resp
}
