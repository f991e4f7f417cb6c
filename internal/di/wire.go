//go:build wireinject
// +build wireinject

package di

import (
	domsvc "StratScan/internal/domain/service"
	"StratScan/internal/services/signals"
	"StratScan/internal/services/strat"
	"StratScan/internal/usecase"
	"StratScan/pkg/config"
	"StratScan/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, func(), error) {
	wire.Build(
		ProvideLogger,
		ProvideMetrics,

		// Upstream and storage
		ProvideLighterClient,
		ProvideMarketDirectory,
		ProvideCandleSource,
		ProvideStateStore,
		ProvideConcurrencyLimiter,
		ProvideThrottle,

		// Strat engine
		strat.NewAnalyzer,
		wire.Bind(new(domsvc.CandleAnalyzer), new(*strat.Analyzer)),
		wire.Bind(new(domsvc.SetupIdentifier), new(*strat.Analyzer)),
		signals.NewEngine,
		wire.Bind(new(domsvc.SignalEngine), new(*signals.Engine)),

		// Use cases
		ProvideTimeframeStateCache,
		ProvideMarketsUseCase,
		usecase.NewCandleAnalysisUseCase,
		ProvideMarketBoardUseCase,
		ProvideSignalScanUseCase,

		// Outputs
		ProvideSignalHub,
		ProvideSignalSinks,
		ProvideSignalScanner,
		ProvideStratHandler,
		ProvideHTTPServer,

		ProvideApp,
	)
	return nil, nil, nil
}
