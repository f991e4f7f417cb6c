package api

import (
	"errors"
	"time"

	"github.com/labstack/echo/v4"

	"StratScan/internal/domain/models"
	domrepo "StratScan/internal/domain/repository"
	"StratScan/internal/service/lighter"
	"StratScan/internal/service/metrics"
	"StratScan/internal/service/ratelimit"
	"StratScan/internal/services/strat"
	"StratScan/internal/usecase"
	"StratScan/pkg/config"
	xhttp "StratScan/pkg/http"
	applogger "StratScan/pkg/logger"
)

// StratEchoHandler serves the market, chart, board, FTC and signal endpoints.
type StratEchoHandler struct {
	logger   *applogger.Logger
	markets  *usecase.MarketsUseCase
	candles  *usecase.CandleAnalysisUseCase
	board    *usecase.MarketBoardUseCase
	scan     *usecase.SignalScanUseCase
	throttle *ratelimit.Limiter
	capacity float64
	refill   float64
}

func NewStratEchoHandler(
	logger *applogger.Logger,
	markets *usecase.MarketsUseCase,
	candles *usecase.CandleAnalysisUseCase,
	board *usecase.MarketBoardUseCase,
	scan *usecase.SignalScanUseCase,
	throttle *ratelimit.Limiter,
	cfg config.APIConfig,
) *StratEchoHandler {
	metrics.Register()
	if logger == nil {
		logger = applogger.Nop()
	}
	if throttle == nil {
		throttle = ratelimit.New()
	}
	return &StratEchoHandler{
		logger:   logger,
		markets:  markets,
		candles:  candles,
		board:    board,
		scan:     scan,
		throttle: throttle,
		capacity: cfg.ThrottleCapacity,
		refill:   cfg.ThrottleRefill,
	}
}

func (h *StratEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/markets", h.Markets)
	g.GET("/patterns", h.Patterns)
	g.GET("/candles", h.Candles)
	g.GET("/board", h.Board)
	g.GET("/ftc", h.FTC, h.throttled("ftc"))
	g.GET("/signals", h.Signals, h.throttled("signals"))
	g.GET("/limiter", h.Limiter)
}

// throttled rejects clients that exhaust their token bucket for endpoint.
func (h *StratEchoHandler) throttled(endpoint string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if h.capacity > 0 && !h.throttle.Allow(endpoint+"|"+c.RealIP(), h.capacity, h.refill) {
				metrics.APIThrottled.WithLabelValues(endpoint).Inc()
				return xhttp.AppErrorResponse(c, xhttp.TooManyRequestsError("rate limit exceeded").WithParam("endpoint", endpoint))
			}
			return next(c)
		}
	}
}

func observe(endpoint string, start time.Time) {
	metrics.APILatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
}

func (h *StratEchoHandler) Markets(c echo.Context) error {
	defer observe("markets", time.Now())
	return xhttp.SuccessResponse(c, h.markets.ListMarkets(c.Request().Context()))
}

func (h *StratEchoHandler) Patterns(c echo.Context) error {
	out := make(map[string]models.PatternInfo, len(models.PatternDescriptions))
	for p, info := range models.PatternDescriptions {
		out[p.String()] = info
	}
	c.Response().Header().Set(echo.HeaderCacheControl, "public, max-age=3600")
	return xhttp.SuccessResponse(c, out)
}

func (h *StratEchoHandler) Candles(c echo.Context) error {
	defer observe("candles", time.Now())
	req := &models.CandlesRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.candles.Analyze(c.Request().Context(), usecase.AnalyzeCandlesParams{
		MarketID:  req.MarketID,
		Timeframe: domrepo.NormalizeTimeframe(req.TF),
		N:         req.N,
	})
	if err != nil {
		metrics.APIErrors.WithLabelValues("candles").Inc()
		h.logger.Error("candles usecase error",
			applogger.Int("market_id", req.MarketID),
			applogger.String("tf", req.TF),
			applogger.Error(err),
		)
		return xhttp.AppErrorResponse(c, candlesError(err, req.MarketID))
	}
	return xhttp.SuccessResponse(c, res)
}

func candlesError(err error, marketID int) error {
	switch {
	case errors.Is(err, lighter.ErrNoCandles):
		return xhttp.NotFoundErrorf("no candles for market %d", marketID).WithError(err)
	case errors.Is(err, strat.ErrUnorderedCandles):
		return xhttp.BadGatewayErrorf("upstream returned unordered candles").WithError(err)
	default:
		return xhttp.BadGatewayErrorf("candle source unavailable").WithError(err)
	}
}

func (h *StratEchoHandler) Board(c echo.Context) error {
	defer observe("board", time.Now())
	req := &models.BoardRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	ctx := c.Request().Context()
	res := h.board.Board(ctx, h.markets.Tracked(ctx), domrepo.NormalizeTimeframe(req.TF), req.N)
	return xhttp.SuccessResponse(c, res)
}

func (h *StratEchoHandler) FTC(c echo.Context) error {
	defer observe("ftc", time.Now())
	req := &models.FTCRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	ctx := c.Request().Context()
	return xhttp.SuccessResponse(c, h.scan.MultiTimeframe(ctx, h.markets.Tracked(ctx), req.N))
}

func (h *StratEchoHandler) Signals(c echo.Context) error {
	defer observe("signals", time.Now())
	req := &models.FTCRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	ctx := c.Request().Context()
	c.Response().Header().Set(echo.HeaderCacheControl, "no-store")
	return xhttp.SuccessResponse(c, h.scan.Scan(ctx, h.markets.Tracked(ctx), req.N))
}

func (h *StratEchoHandler) Limiter(c echo.Context) error {
	return xhttp.SuccessResponse(c, h.scan.LimiterStats())
}
