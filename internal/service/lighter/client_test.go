package lighter

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"StratScan/internal/domain/models"
	"StratScan/pkg/config"
)

var fixedNow = time.UnixMilli(1_700_000_000_000)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(config.LighterConfig{
		BaseURL:      srv.URL,
		APIVersion:   "v1",
		Timeout:      2 * time.Second,
		MaxRetries:   2,
		RetryBackoff: time.Millisecond,
	}, nil, WithClock(func() time.Time { return fixedNow }))
}

func TestFetchCandlesShortShape(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/candles" {
			t.Errorf("path %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("market_id") != "1" || q.Get("resolution") != "4h" || q.Get("count_back") != "3" {
			t.Errorf("query %v", q)
		}
		// out of order, one duplicate (last wins), one flat placeholder, one far-future bar
		_, _ = w.Write([]byte(`{"code":200,"r":"4h","c":[
			{"t":3000,"o":10,"h":12,"l":9,"c":11,"v":5,"V":55},
			{"t":1000,"o":10,"h":11,"l":9,"c":10,"v":1},
			{"t":2000,"o":1,"h":1,"l":1,"c":1,"v":1},
			{"t":2000,"o":10,"h":13,"l":8,"c":12,"v":2},
			{"t":4000,"o":7,"h":7,"l":7,"c":7,"v":0},
			{"t":1800000000000,"o":1,"h":2,"l":0,"c":1,"v":1}
		]}`))
	})

	got, err := c.FetchCandles(context.Background(), 1, models.TF4h, 3)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d candles: %+v", len(got), got)
	}
	for i, ts := range []int64{1000, 2000, 3000} {
		if got[i].Timestamp != ts {
			t.Fatalf("candle %d ts %d want %d", i, got[i].Timestamp, ts)
		}
	}
	if got[1].High != 13 {
		t.Fatalf("duplicate should keep last occurrence, got %+v", got[1])
	}
	if got[2].Volume != 5 {
		t.Fatalf("quote volume leaked into volume: %+v", got[2])
	}
}

func TestFetchCandlesLegacyShapeAndCountBack(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"code":200,"candlesticks":[
			{"timestamp":1000,"open":1,"high":2,"low":0.5,"close":1.5,"volume0":3},
			{"timestamp":2000,"open":1.5,"high":2.5,"low":1,"close":2,"volume0":4},
			{"timestamp":3000,"open":2,"high":3,"low":1.5,"close":2.5,"volume0":5}
		]}`))
	})
	got, err := c.FetchCandles(context.Background(), 0, models.TF1m, 2)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(got) != 2 || got[0].Timestamp != 2000 || got[1].Close != 2.5 {
		t.Fatalf("expected the two most recent bars, got %+v", got)
	}
}

func TestFetchCandlesEmpty(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"code":200,"c":[]}`))
	})
	if _, err := c.FetchCandles(context.Background(), 0, models.TF1h, 20); !errors.Is(err, ErrNoCandles) {
		t.Fatalf("expected ErrNoCandles, got %v", err)
	}
}

func TestFetchCandlesRetriesServerErrors(t *testing.T) {
	var calls int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{"c":[{"t":1000,"o":1,"h":2,"l":0,"c":1,"v":1}]}`))
	})
	if _, err := c.FetchCandles(context.Background(), 0, models.TF1h, 20); err != nil {
		t.Fatalf("expected success after retries: %v", err)
	}
	if calls != 3 {
		t.Fatalf("calls %d want 3", calls)
	}
}

func TestFetchCandlesDoesNotRetryClientErrors(t *testing.T) {
	var calls int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadRequest)
	})
	if _, err := c.FetchCandles(context.Background(), 0, models.TF1h, 20); err == nil {
		t.Fatalf("expected error")
	}
	if calls != 1 {
		t.Fatalf("calls %d want 1", calls)
	}
}

func TestListMarketsFiltersInactive(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/orderBooks" {
			t.Errorf("path %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"order_books":[
			{"market_id":0,"symbol":"ETH","status":"active"},
			{"market_id":7,"symbol":"OLD","status":"inactive"},
			{"market_id":1,"symbol":"BTC","status":"active"}
		]}`))
	})
	got, err := c.ListMarkets(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	want := []models.Market{
		{Symbol: "ETH", MarketIndex: 0, MarketID: 0},
		{Symbol: "BTC", MarketIndex: 1, MarketID: 1},
	}
	if len(got) != len(want) {
		t.Fatalf("got %+v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("market %d: got %+v want %+v", i, got[i], want[i])
		}
	}
}
