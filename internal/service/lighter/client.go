package lighter

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"StratScan/internal/domain/models"
	"StratScan/pkg/config"
	xhttp "StratScan/pkg/http"
	applogger "StratScan/pkg/logger"
)

// ErrNoCandles is returned when the venue answers with no usable bars.
var ErrNoCandles = errors.New("lighter: no candles returned")

const futureTolerance = 7 * 24 * time.Hour

// Client reads candles and order books from the Lighter REST API.
// It implements repository.CandleSource and repository.MarketDirectory.
type Client struct {
	baseURL  string
	lookback time.Duration
	http     *xhttp.Client
	logger   *applogger.Logger
	now      func() time.Time
}

// Option customises a Client.
type Option func(*Client)

// WithClock replaces the time source used for the request window and future filtering.
func WithClock(now func() time.Time) Option {
	return func(c *Client) { c.now = now }
}

// WithHTTPClient replaces the transport client.
func WithHTTPClient(h *xhttp.Client) Option {
	return func(c *Client) { c.http = h }
}

func NewClient(cfg config.LighterConfig, logger *applogger.Logger, opts ...Option) *Client {
	if logger == nil {
		logger = applogger.Nop()
	}
	lookback := cfg.LookbackDays
	if lookback <= 0 {
		lookback = 30
	}
	version := cfg.APIVersion
	if version == "" {
		version = "v1"
	}
	c := &Client{
		baseURL:  strings.TrimRight(cfg.BaseURL, "/") + "/api/" + version,
		lookback: time.Duration(lookback) * 24 * time.Hour,
		http: xhttp.NewClient(
			xhttp.WithTimeout(cfg.Timeout),
			xhttp.WithRetry(cfg.MaxRetries, cfg.RetryBackoff),
			xhttp.WithHeader("User-Agent", "stratscan/1"),
		),
		logger: logger,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchCandles returns up to countBack bars for marketID, ascending, unique by timestamp.
func (c *Client) FetchCandles(ctx context.Context, marketID int, tf models.Timeframe, countBack int) ([]models.Candle, error) {
	now := c.now()
	q := url.Values{}
	q.Set("market_id", strconv.Itoa(marketID))
	q.Set("resolution", string(tf))
	q.Set("count_back", strconv.Itoa(countBack))
	q.Set("start_timestamp", strconv.FormatInt(now.Add(-c.lookback).Unix(), 10))
	q.Set("end_timestamp", strconv.FormatInt(now.Add(24*time.Hour).Unix(), 10))

	var resp candlesResponse
	if err := c.http.GetJSON(ctx, c.baseURL+"/candles", q, &resp); err != nil {
		return nil, fmt.Errorf("fetch candles market=%d tf=%s: %w", marketID, tf, err)
	}

	candles := normalize(resp.bars(), now)
	if len(candles) == 0 {
		return nil, fmt.Errorf("market=%d tf=%s: %w", marketID, tf, ErrNoCandles)
	}
	if countBack > 0 && len(candles) > countBack {
		candles = candles[len(candles)-countBack:]
	}
	c.logger.Debug("candles fetched",
		applogger.Int("market_id", marketID),
		applogger.String("tf", string(tf)),
		applogger.Int("count", len(candles)),
	)
	return candles, nil
}

// normalize deduplicates by timestamp keeping the last occurrence, sorts ascending,
// and drops flat zero-volume placeholders and bars stamped more than a week ahead.
func normalize(raw []rawCandle, now time.Time) []models.Candle {
	byTS := make(map[int64]models.Candle, len(raw))
	for _, r := range raw {
		k := r.toCandle()
		byTS[k.Timestamp] = k
	}

	limit := now.Add(futureTolerance).UnixMilli()
	out := make([]models.Candle, 0, len(byTS))
	for _, k := range byTS {
		placeholder := k.Volume == 0 && k.Open == k.High && k.High == k.Low && k.Low == k.Close
		if placeholder || k.Timestamp > limit {
			continue
		}
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp < out[j].Timestamp })
	return out
}

// ListMarkets returns the active order books. MarketIndex is the position in the
// filtered list.
func (c *Client) ListMarkets(ctx context.Context) ([]models.Market, error) {
	var resp orderBooksResponse
	if err := c.http.GetJSON(ctx, c.baseURL+"/orderBooks", nil, &resp); err != nil {
		return nil, fmt.Errorf("fetch order books: %w", err)
	}

	markets := make([]models.Market, 0, len(resp.OrderBooks))
	for _, ob := range resp.OrderBooks {
		if ob.Status != "active" {
			continue
		}
		markets = append(markets, models.Market{
			Symbol:      ob.Symbol,
			MarketIndex: len(markets),
			MarketID:    ob.MarketID,
		})
	}
	return markets, nil
}
