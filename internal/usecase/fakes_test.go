package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"StratScan/internal/domain/models"
)

// risingSeries returns n bars where every bar after the first breaks the prior high only.
func risingSeries(n int) []models.Candle {
	out := make([]models.Candle, n)
	for i := range out {
		f := float64(i)
		out[i] = models.Candle{
			Timestamp: int64(i+1) * 60_000,
			Open:      6 + f,
			High:      10 + f,
			Low:       5 + f,
			Close:     9 + f,
			Volume:    1,
		}
	}
	return out
}

type fakeSource struct {
	mu      sync.Mutex
	calls   map[string]int
	fail    map[string]error
	empty   map[string]bool
	started chan struct{}
	release chan struct{}
}

func newFakeSource() *fakeSource {
	return &fakeSource{calls: map[string]int{}, fail: map[string]error{}, empty: map[string]bool{}}
}

func srcKey(marketID int, tf models.Timeframe) string { return fmt.Sprintf("%d:%s", marketID, tf) }

func (f *fakeSource) FetchCandles(ctx context.Context, marketID int, tf models.Timeframe, countBack int) ([]models.Candle, error) {
	k := srcKey(marketID, tf)
	f.mu.Lock()
	f.calls[k]++
	err := f.fail[k]
	empty := f.empty[k]
	started, release := f.started, f.release
	f.mu.Unlock()

	if started != nil {
		select {
		case started <- struct{}{}:
		default:
		}
	}
	if release != nil {
		<-release
	}
	if err != nil {
		return nil, err
	}
	if empty {
		return []models.Candle{}, nil
	}
	return risingSeries(max(countBack, 3)), nil
}

func (f *fakeSource) Calls(marketID int, tf models.Timeframe) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[srcKey(marketID, tf)]
}

func (f *fakeSource) Total() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		n += c
	}
	return n
}

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

type fakeMetrics struct {
	nopMetrics
	mu         sync.Mutex
	errors     []string
	sent       []string
	signals    int
	nearMisses int
}

func (m *fakeMetrics) RecordError(kind string) {
	m.mu.Lock()
	m.errors = append(m.errors, kind)
	m.mu.Unlock()
}

func (m *fakeMetrics) RecordMessageSent(backend, _ string) {
	m.mu.Lock()
	m.sent = append(m.sent, backend)
	m.mu.Unlock()
}

func (m *fakeMetrics) RecordSignals(signals, nearMisses int) {
	m.mu.Lock()
	m.signals, m.nearMisses = signals, nearMisses
	m.mu.Unlock()
}

type fakeDirectory struct {
	markets []models.Market
	err     error
}

func (d fakeDirectory) ListMarkets(context.Context) ([]models.Market, error) {
	return d.markets, d.err
}

type fakeSink struct {
	name   string
	err    error
	mu     sync.Mutex
	got    []*models.ScanResult
	closed bool
}

func (s *fakeSink) Name() string { return s.name }

func (s *fakeSink) Publish(_ context.Context, res *models.ScanResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.got = append(s.got, res)
	return s.err
}

func (s *fakeSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func (s *fakeSink) Published() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.got)
}

var errUpstream = errors.New("upstream down")

// explodingAnalyzer panics on every call.
type explodingAnalyzer struct{}

func (explodingAnalyzer) Analyze([]models.Candle) (models.StratAnalysis, error) {
	panic("analyzer exploded")
}

func (explodingAnalyzer) IdentifyClosedSetup([]models.ClassifiedCandle) *models.ActionableSetup {
	panic("setup identifier exploded")
}
