package usecase

import (
	"context"
	"strings"

	"StratScan/internal/domain/models"
	domrepo "StratScan/internal/domain/repository"
	applogger "StratScan/pkg/logger"
)

// MarketsUseCase lists venue markets and resolves the tracked set.
type MarketsUseCase struct {
	dir     domrepo.MarketDirectory
	tracked []string
	logger  *applogger.Logger
}

// NewMarketsUseCase tracks the given symbols; none means the default market list.
func NewMarketsUseCase(dir domrepo.MarketDirectory, tracked []string, logger *applogger.Logger) *MarketsUseCase {
	if logger == nil {
		logger = applogger.Nop()
	}
	return &MarketsUseCase{dir: dir, tracked: tracked, logger: logger}
}

// ListMarkets returns the active venue markets, or the default list when the
// directory is unavailable or empty.
func (uc *MarketsUseCase) ListMarkets(ctx context.Context) []models.Market {
	if uc.dir != nil {
		markets, err := uc.dir.ListMarkets(ctx)
		if err == nil && len(markets) > 0 {
			return markets
		}
		if err != nil {
			uc.logger.Warn("market directory unavailable, serving defaults", applogger.Error(err))
		}
	}
	out := make([]models.Market, len(models.DefaultMarkets))
	copy(out, models.DefaultMarkets)
	return out
}

// Tracked returns the markets scanned by the board, FTC and signal endpoints.
// Configured symbols are matched case-insensitively; unknown symbols are skipped.
func (uc *MarketsUseCase) Tracked(ctx context.Context) []models.Market {
	if len(uc.tracked) == 0 {
		out := make([]models.Market, len(models.DefaultMarkets))
		copy(out, models.DefaultMarkets)
		return out
	}

	bySymbol := make(map[string]models.Market)
	for _, m := range uc.ListMarkets(ctx) {
		bySymbol[strings.ToUpper(m.Symbol)] = m
	}
	out := make([]models.Market, 0, len(uc.tracked))
	for _, s := range uc.tracked {
		m, ok := bySymbol[strings.ToUpper(strings.TrimSpace(s))]
		if !ok {
			uc.logger.Warn("tracked symbol not listed", applogger.String("symbol", s))
			continue
		}
		out = append(out, m)
	}
	return out
}
