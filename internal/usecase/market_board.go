package usecase

import (
	"context"
	"sync"
	"time"

	"StratScan/internal/domain/models"
	domrepo "StratScan/internal/domain/repository"
	domsvc "StratScan/internal/domain/service"
	"StratScan/internal/service/ratelimit"
	"StratScan/internal/services/strat"
	applogger "StratScan/pkg/logger"
)

const boardHistory = 10

// MarketBoardUseCase analyses many markets on one timeframe using closed-bar setups.
type MarketBoardUseCase struct {
	source  domrepo.CandleSource
	setups  domsvc.SetupIdentifier
	limiter *ratelimit.ConcurrencyLimiter
	logger  *applogger.Logger
	now     func() time.Time
}

func NewMarketBoardUseCase(source domrepo.CandleSource, setups domsvc.SetupIdentifier, limiter *ratelimit.ConcurrencyLimiter, logger *applogger.Logger) *MarketBoardUseCase {
	if logger == nil {
		logger = applogger.Nop()
	}
	return &MarketBoardUseCase{source: source, setups: setups, limiter: limiter, logger: logger, now: time.Now}
}

// Board analyses every market concurrently. A failing market yields an empty
// analysis and never affects the others. Results keep the order of markets.
func (uc *MarketBoardUseCase) Board(ctx context.Context, markets []models.Market, tf models.Timeframe, n int) []models.MarketAnalysis {
	out := make([]models.MarketAnalysis, len(markets))
	var wg sync.WaitGroup
	for i, m := range markets {
		wg.Add(1)
		go func(i int, m models.Market) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					uc.logger.Error("board analysis panicked",
						applogger.String("symbol", m.Symbol),
						applogger.String("tf", string(tf)),
						applogger.Any("panic", r),
					)
					out[i] = uc.emptyAnalysis(m, tf)
				}
			}()
			out[i] = uc.analyzeMarket(ctx, m, tf, n)
		}(i, m)
	}
	wg.Wait()
	return out
}

func (uc *MarketBoardUseCase) emptyAnalysis(m models.Market, tf models.Timeframe) models.MarketAnalysis {
	return models.MarketAnalysis{
		Market:          m,
		Timeframe:       tf,
		PreviousCandles: []models.ClassifiedCandle{},
		LastUpdatedAt:   uc.now().UnixMilli(),
	}
}

func (uc *MarketBoardUseCase) analyzeMarket(ctx context.Context, m models.Market, tf models.Timeframe, n int) models.MarketAnalysis {
	res := uc.emptyAnalysis(m, tf)

	raw, err := ratelimit.Execute(ctx, uc.limiter, func(ctx context.Context) ([]models.Candle, error) {
		return uc.source.FetchCandles(ctx, m.MarketID, tf, n)
	})
	if err == nil {
		err = strat.ValidateOrder(raw)
	}
	if err != nil {
		uc.logger.Warn("board analysis failed",
			applogger.String("symbol", m.Symbol),
			applogger.String("tf", string(tf)),
			applogger.Error(err),
		)
		return res
	}

	classified := strat.ClassifyCandles(raw)
	if len(classified) == 0 {
		return res
	}
	current := classified[len(classified)-1]
	res.CurrentCandle = &current
	res.PreviousCandles = classified[max(0, len(classified)-boardHistory):]
	res.PatternSequence = strat.PatternSequence(classified, strat.SequenceLength)
	res.ActionableSetup = uc.setups.IdentifyClosedSetup(classified)
	return res
}
