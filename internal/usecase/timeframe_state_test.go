package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"StratScan/internal/domain/models"
	icache "StratScan/internal/service/cache"
	"StratScan/internal/service/ratelimit"
	"StratScan/internal/services/strat"
)

func newStateCache(src *fakeSource, store icache.StateStore, clk *fakeClock, opts ...StateCacheOption) *TimeframeStateCache {
	opts = append([]StateCacheOption{WithStateClock(clk.Now)}, opts...)
	return NewTimeframeStateCache(src, strat.NewAnalyzer(), store, ratelimit.NewConcurrencyLimiter(2), nil, opts...)
}

func TestGetStateMissThenHit(t *testing.T) {
	src := newFakeSource()
	clk := &fakeClock{t: time.UnixMilli(1_700_000_000_000)}
	c := newStateCache(src, icache.NewMemoryStateStore(), clk)

	st := c.GetState(context.Background(), 1, models.TF1h, 20)
	if st.HasError() || st.Stale {
		t.Fatalf("unexpected state %+v", st)
	}
	if st.PatternType != models.PatternDirectionalUp || st.LastUpdatedAt != clk.Now().UnixMilli() {
		t.Fatalf("state %+v", st)
	}

	clk.Advance(time.Minute)
	again := c.GetState(context.Background(), 1, models.TF1h, 20)
	if src.Calls(1, models.TF1h) != 1 {
		t.Fatalf("expected cached state, source called %d times", src.Calls(1, models.TF1h))
	}
	if again.PatternType != st.PatternType || again.LastUpdatedAt != st.LastUpdatedAt {
		t.Fatalf("cached state differs: %+v vs %+v", again, st)
	}
}

func TestGetStateStaleness(t *testing.T) {
	// 1h TTL is 15m; stale from 12m, expired at 15m.
	tests := []struct {
		name      string
		age       time.Duration
		wantStale bool
		wantCalls int
	}{
		{"fresh", 11 * time.Minute, false, 1},
		{"stale at eighty percent", 12 * time.Minute, true, 1},
		{"stale near expiry", 14*time.Minute + 59*time.Second, true, 1},
		{"expired refetches", 15 * time.Minute, false, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := newFakeSource()
			clk := &fakeClock{t: time.UnixMilli(1_700_000_000_000)}
			c := newStateCache(src, icache.NewMemoryStateStore(), clk)

			c.GetState(context.Background(), 0, models.TF1h, 20)
			clk.Advance(tt.age)
			st := c.GetState(context.Background(), 0, models.TF1h, 20)
			if st.Stale != tt.wantStale {
				t.Fatalf("stale=%v want %v", st.Stale, tt.wantStale)
			}
			if got := src.Calls(0, models.TF1h); got != tt.wantCalls {
				t.Fatalf("calls=%d want %d", got, tt.wantCalls)
			}
		})
	}
}

func TestGetStateErrorIsNotCached(t *testing.T) {
	tests := []struct {
		name      string
		setup     func(*fakeSource)
		wantError string
	}{
		{
			name:      "upstream failure",
			setup:     func(s *fakeSource) { s.fail[srcKey(2, models.TF5m)] = errUpstream },
			wantError: errUpstream.Error(),
		},
		{
			name:      "zero candles",
			setup:     func(s *fakeSource) { s.empty[srcKey(2, models.TF5m)] = true },
			wantError: "no candles for market 2 on 5m",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := newFakeSource()
			tt.setup(src)
			clk := &fakeClock{t: time.UnixMilli(1_700_000_000_000)}
			store := icache.NewMemoryStateStore()
			c := newStateCache(src, store, clk)

			for i := 0; i < 2; i++ {
				st := c.GetState(context.Background(), 2, models.TF5m, 20)
				if !st.HasError() || !st.Stale || st.PatternType != models.PatternNone {
					t.Fatalf("expected error state, got %+v", st)
				}
				if st.Pattern != "Error" || st.Direction != models.DirectionNeutral || st.Error != tt.wantError {
					t.Fatalf("error state %+v", st)
				}
			}
			if src.Calls(2, models.TF5m) != 2 {
				t.Fatalf("error state must not be cached, calls=%d", src.Calls(2, models.TF5m))
			}
			if store.Len() != 0 {
				t.Fatalf("store has %d entries", store.Len())
			}
		})
	}
}

func TestGetStateRecoversAnalyzerPanic(t *testing.T) {
	src := newFakeSource()
	store := icache.NewMemoryStateStore()
	m := &fakeMetrics{}
	c := NewTimeframeStateCache(src, explodingAnalyzer{}, store, ratelimit.NewConcurrencyLimiter(2), nil, WithStateMetrics(m))

	st := c.GetState(context.Background(), 1, models.TF1h, 20)
	if !st.HasError() || !st.Stale || st.PatternType != models.PatternNone {
		t.Fatalf("expected error state, got %+v", st)
	}
	if st.Error != "refresh panic: analyzer exploded" {
		t.Fatalf("error %q", st.Error)
	}
	if store.Len() != 0 {
		t.Fatalf("store has %d entries", store.Len())
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.errors) != 1 || m.errors[0] != "refresh" {
		t.Fatalf("recorded errors %v", m.errors)
	}
}

func TestGetStateCallerCancelStillFillsCache(t *testing.T) {
	src := newFakeSource()
	src.started = make(chan struct{}, 1)
	src.release = make(chan struct{})
	clk := &fakeClock{t: time.UnixMilli(1_700_000_000_000)}
	store := icache.NewMemoryStateStore()
	c := newStateCache(src, store, clk)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-src.started
		cancel()
	}()
	st := c.GetState(ctx, 3, models.TF4h, 20)
	if !st.HasError() || st.Error != context.Canceled.Error() {
		t.Fatalf("expected cancelled error state, got %+v", st)
	}

	src.mu.Lock()
	release := src.release
	src.started, src.release = nil, nil
	src.mu.Unlock()
	close(release)

	deadline := time.Now().Add(2 * time.Second)
	for store.Len() == 0 {
		if time.Now().After(deadline) {
			t.Fatalf("detached refresh never stored its result")
		}
		time.Sleep(5 * time.Millisecond)
	}
	got := c.GetState(context.Background(), 3, models.TF4h, 20)
	if got.HasError() || got.PatternType != models.PatternDirectionalUp {
		t.Fatalf("state %+v", got)
	}
	if src.Calls(3, models.TF4h) != 1 {
		t.Fatalf("calls=%d want 1", src.Calls(3, models.TF4h))
	}
}

func TestTTLOverrides(t *testing.T) {
	c := newStateCache(newFakeSource(), icache.NewMemoryStateStore(), &fakeClock{},
		WithTTLOverrides(map[string]time.Duration{"1h": time.Minute, "2h": time.Hour, "4h": 0}))
	if c.TTL(models.TF1h) != time.Minute {
		t.Fatalf("1h ttl %v", c.TTL(models.TF1h))
	}
	if c.TTL(models.TF4h) != 30*time.Minute {
		t.Fatalf("non-positive override must be ignored, got %v", c.TTL(models.TF4h))
	}
	if c.TTL(models.TF1w) != 8*time.Hour {
		t.Fatalf("1w ttl %v", c.TTL(models.TF1w))
	}
}

func TestGetMultiTimeframeState(t *testing.T) {
	src := newFakeSource()
	src.fail[srcKey(0, models.TF1m)] = errors.New("timeout")
	clk := &fakeClock{t: time.UnixMilli(1_700_000_000_000)}
	c := newStateCache(src, icache.NewMemoryStateStore(), clk)

	markets := []models.Market{{Symbol: "ETH", MarketID: 0}, {Symbol: "BTC", MarketIndex: 1, MarketID: 1}}
	out := c.GetMultiTimeframeState(context.Background(), markets, 20)
	if len(out) != 2 || out[0].Symbol != "ETH" || out[1].Symbol != "BTC" {
		t.Fatalf("order not preserved: %+v", out)
	}
	for _, a := range out {
		if len(a.Timeframes) != len(models.FTCTimeframes) {
			t.Fatalf("%s has %d timeframes", a.Symbol, len(a.Timeframes))
		}
	}
	if !out[0].Timeframes[models.TF1m].HasError() {
		t.Fatalf("expected 1m error for ETH")
	}
	if out[0].Confluence.TotalTimeframes != 7 || len(out[0].Confluence.BullishTimeframes) != 7 {
		t.Fatalf("ETH confluence %+v", out[0].Confluence)
	}
	if out[0].Confluence.BullishTimeframes[0] != models.TF5m {
		t.Fatalf("confluence not in canonical order: %v", out[0].Confluence.BullishTimeframes)
	}
	if out[1].Confluence.TotalTimeframes != 8 {
		t.Fatalf("BTC confluence %+v", out[1].Confluence)
	}
}

func TestCalculateConfluence(t *testing.T) {
	got := CalculateConfluence(map[models.Timeframe]models.TimeframeState{
		models.TF1m:  {PatternType: models.PatternNone, Stale: true, Error: "boom"},
		models.TF1h:  {PatternType: models.PatternDirectionalUp},
		models.TF4h:  {PatternType: models.PatternDirectionalDown},
		models.TF1d:  {PatternType: models.PatternInside},
		models.TF15m: {PatternType: models.PatternDirectionalUp, Stale: true},
	})
	if got.TotalTimeframes != 4 {
		t.Fatalf("total %d", got.TotalTimeframes)
	}
	if len(got.BullishTimeframes) != 2 || got.BullishTimeframes[0] != models.TF15m || got.BullishTimeframes[1] != models.TF1h {
		t.Fatalf("bullish %v", got.BullishTimeframes)
	}
	if len(got.BearishTimeframes) != 1 || got.BearishTimeframes[0] != models.TF4h {
		t.Fatalf("bearish %v", got.BearishTimeframes)
	}

	empty := CalculateConfluence(nil)
	if empty.BullishTimeframes == nil || empty.BearishTimeframes == nil || empty.TotalTimeframes != 0 {
		t.Fatalf("empty confluence %+v", empty)
	}
}
