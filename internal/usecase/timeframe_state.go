package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"StratScan/internal/domain/models"
	domrepo "StratScan/internal/domain/repository"
	domsvc "StratScan/internal/domain/service"
	icache "StratScan/internal/service/cache"
	"StratScan/internal/service/ratelimit"
	applogger "StratScan/pkg/logger"
)

// staleFraction of the TTL after which a cached state is flagged stale.
const staleFraction = 0.8

// TimeframeStateCache serves per-(market, timeframe) Strat states from a TTL cache
// and refreshes expired entries through the shared fetch limiter.
type TimeframeStateCache struct {
	source   domrepo.CandleSource
	analyzer domsvc.CandleAnalyzer
	store    icache.StateStore
	limiter  *ratelimit.ConcurrencyLimiter
	metrics  domrepo.Metrics
	logger   *applogger.Logger
	ttl      map[models.Timeframe]time.Duration
	now      func() time.Time
}

// StateCacheOption customises a TimeframeStateCache.
type StateCacheOption func(*TimeframeStateCache)

// WithTTLOverrides replaces the default TTL of the listed timeframes.
func WithTTLOverrides(overrides map[string]time.Duration) StateCacheOption {
	return func(c *TimeframeStateCache) {
		for k, d := range overrides {
			if tf, err := domrepo.ParseTimeframe(k); err == nil && d > 0 {
				c.ttl[tf] = d
			}
		}
	}
}

// WithStateClock replaces the time source. Intended for tests.
func WithStateClock(now func() time.Time) StateCacheOption {
	return func(c *TimeframeStateCache) { c.now = now }
}

// WithStateMetrics reports lookups and fetch outcomes to m.
func WithStateMetrics(m domrepo.Metrics) StateCacheOption {
	return func(c *TimeframeStateCache) { c.metrics = m }
}

func NewTimeframeStateCache(
	source domrepo.CandleSource,
	analyzer domsvc.CandleAnalyzer,
	store icache.StateStore,
	limiter *ratelimit.ConcurrencyLimiter,
	logger *applogger.Logger,
	opts ...StateCacheOption,
) *TimeframeStateCache {
	if logger == nil {
		logger = applogger.Nop()
	}
	c := &TimeframeStateCache{
		source:   source,
		analyzer: analyzer,
		store:    store,
		limiter:  limiter,
		metrics:  nopMetrics{},
		logger:   logger.With(applogger.String("component", "state_cache")),
		ttl:      make(map[models.Timeframe]time.Duration, len(models.Timeframes)),
		now:      time.Now,
	}
	for _, tf := range models.Timeframes {
		c.ttl[tf] = domrepo.DefaultTTL(tf)
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// TTL returns the cache lifetime in effect for tf.
func (c *TimeframeStateCache) TTL(tf models.Timeframe) time.Duration {
	if d, ok := c.ttl[tf]; ok {
		return d
	}
	return domrepo.DefaultTTL(tf)
}

// Limiter exposes the shared fetch limiter for stats reporting.
func (c *TimeframeStateCache) Limiter() *ratelimit.ConcurrencyLimiter { return c.limiter }

// GetState returns the state of one market on one timeframe. It never fails:
// refresh problems come back as an error state, which is not cached.
func (c *TimeframeStateCache) GetState(ctx context.Context, marketID int, tf models.Timeframe, candleCount int) models.TimeframeState {
	key := icache.StateKey(marketID, tf)
	now := c.now()
	ttl := c.TTL(tf)

	entry, ok, err := c.store.Load(ctx, key)
	if err != nil {
		c.logger.Warn("state cache load failed", applogger.String("key", key), applogger.Error(err))
	}
	if ok && entry.Expiry > now.UnixMilli() {
		st := entry.State
		age := now.UnixMilli() - st.LastUpdatedAt
		st.Stale = float64(age) >= staleFraction*float64(ttl.Milliseconds())
		result := domrepo.CacheHit
		if st.Stale {
			result = domrepo.CacheStale
		}
		c.metrics.RecordCacheLookup(tf, result)
		c.logger.Debug("state cache hit", applogger.String("key", key), applogger.Bool("stale", st.Stale))
		return st
	}
	c.metrics.RecordCacheLookup(tf, domrepo.CacheMiss)

	// The refresh outlives the caller so an abandoned request still fills the cache.
	type result struct {
		st  models.TimeframeState
		err error
	}
	done := make(chan result, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				c.metrics.RecordError("refresh")
				done <- result{err: fmt.Errorf("refresh panic: %v", r)}
			}
		}()
		st, err := c.refresh(context.WithoutCancel(ctx), key, marketID, tf, candleCount)
		done <- result{st, err}
	}()

	var res result
	select {
	case res = <-done:
	case <-ctx.Done():
		res.err = ctx.Err()
	}
	if res.err != nil {
		c.logger.Warn("timeframe refresh failed",
			applogger.Int("market_id", marketID),
			applogger.String("tf", string(tf)),
			applogger.Error(res.err),
		)
		return errorState(res.err, c.now())
	}
	return res.st
}

func (c *TimeframeStateCache) refresh(ctx context.Context, key string, marketID int, tf models.Timeframe, candleCount int) (models.TimeframeState, error) {
	start := c.now()
	raw, err := ratelimit.Execute(ctx, c.limiter, func(ctx context.Context) ([]models.Candle, error) {
		return c.source.FetchCandles(ctx, marketID, tf, candleCount)
	})
	c.metrics.RecordLimiter(c.limiter.Stats())
	c.metrics.RecordFetch(tf, err == nil)
	if err != nil {
		return models.TimeframeState{}, err
	}

	analysis, err := c.analyzer.Analyze(raw)
	if err != nil {
		return models.TimeframeState{}, fmt.Errorf("analyze: %w", err)
	}
	if len(analysis.Candles) == 0 {
		return models.TimeframeState{}, fmt.Errorf("no candles for market %d on %s", marketID, tf)
	}

	now := c.now()
	st := models.TimeframeState{
		Pattern:       "No Setup",
		Direction:     models.DirectionNeutral,
		PatternType:   analysis.Candles[len(analysis.Candles)-1].PatternType,
		LastUpdatedAt: now.UnixMilli(),
	}
	if s := analysis.ActionableSetup; s != nil {
		st.Pattern = s.Pattern
		st.Direction = s.Direction
	}

	entry := models.CacheEntry{State: st, Expiry: now.Add(c.TTL(tf)).UnixMilli()}
	if err := c.store.Save(ctx, key, entry); err != nil {
		// serve the fresh state anyway
		c.logger.Warn("state cache save failed", applogger.String("key", key), applogger.Error(err))
	}
	c.metrics.RecordLatency("refresh_"+string(tf), now.Sub(start).Seconds())
	return st, nil
}

func errorState(err error, now time.Time) models.TimeframeState {
	return models.TimeframeState{
		Pattern:       "Error",
		Direction:     models.DirectionNeutral,
		PatternType:   models.PatternNone,
		LastUpdatedAt: now.UnixMilli(),
		Stale:         true,
		Error:         err.Error(),
	}
}

// GetMultiTimeframeState fans out every (market, FTC timeframe) pair at once; the
// limiter is the only throttle. Results keep the order of markets.
func (c *TimeframeStateCache) GetMultiTimeframeState(ctx context.Context, markets []models.Market, candleCount int) []models.MultiTimeframeAnalysis {
	tfs := models.FTCTimeframes
	states := make([][]models.TimeframeState, len(markets))
	var wg sync.WaitGroup
	for i, m := range markets {
		states[i] = make([]models.TimeframeState, len(tfs))
		for j, tf := range tfs {
			wg.Add(1)
			go func(i, j int, marketID int, tf models.Timeframe) {
				defer wg.Done()
				states[i][j] = c.GetState(ctx, marketID, tf, candleCount)
			}(i, j, m.MarketID, tf)
		}
	}
	wg.Wait()

	out := make([]models.MultiTimeframeAnalysis, len(markets))
	for i, m := range markets {
		byTF := make(map[models.Timeframe]models.TimeframeState, len(tfs))
		var last int64
		for j, tf := range tfs {
			byTF[tf] = states[i][j]
			if states[i][j].LastUpdatedAt > last {
				last = states[i][j].LastUpdatedAt
			}
		}
		out[i] = models.MultiTimeframeAnalysis{
			MarketID:      m.MarketID,
			Symbol:        m.Symbol,
			Timeframes:    byTF,
			Confluence:    CalculateConfluence(byTF),
			LastUpdatedAt: last,
		}
	}
	return out
}

// CalculateConfluence counts usable timeframes in canonical order and lists the
// 2U and 2D ones. Missing and errored timeframes are skipped.
func CalculateConfluence(states map[models.Timeframe]models.TimeframeState) models.Confluence {
	conf := models.Confluence{
		BullishTimeframes: []models.Timeframe{},
		BearishTimeframes: []models.Timeframe{},
	}
	for _, tf := range models.FTCTimeframes {
		st, ok := states[tf]
		if !ok || st.HasError() {
			continue
		}
		conf.TotalTimeframes++
		switch st.PatternType {
		case models.PatternDirectionalUp:
			conf.BullishTimeframes = append(conf.BullishTimeframes, tf)
		case models.PatternDirectionalDown:
			conf.BearishTimeframes = append(conf.BearishTimeframes, tf)
		}
	}
	return conf
}
