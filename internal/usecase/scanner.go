package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"StratScan/internal/domain/models"
	domrepo "StratScan/internal/domain/repository"
	applogger "StratScan/pkg/logger"
)

// SignalScanner runs SignalScanUseCase on a fixed interval and hands every
// result to the registered sinks.
type SignalScanner struct {
	scan        *SignalScanUseCase
	markets     *MarketsUseCase
	sinks       []domrepo.SignalSink
	metrics     domrepo.Metrics
	logger      *applogger.Logger
	interval    time.Duration
	candleCount int

	mu     sync.Mutex
	last   *models.ScanResult
	cancel context.CancelFunc
	done   chan struct{}
}

func NewSignalScanner(scan *SignalScanUseCase, markets *MarketsUseCase, sinks []domrepo.SignalSink, metrics domrepo.Metrics, logger *applogger.Logger, interval time.Duration, candleCount int) *SignalScanner {
	if metrics == nil {
		metrics = nopMetrics{}
	}
	if logger == nil {
		logger = applogger.Nop()
	}
	if interval <= 0 {
		interval = time.Minute
	}
	return &SignalScanner{
		scan:        scan,
		markets:     markets,
		sinks:       sinks,
		metrics:     metrics,
		logger:      logger.With(applogger.String("component", "scanner")),
		interval:    interval,
		candleCount: candleCount,
	}
}

// Start runs a first cycle immediately, then one per interval until Stop or ctx ends.
func (s *SignalScanner) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return nil
	}
	ctx, s.cancel = context.WithCancel(ctx)
	s.done = make(chan struct{})
	go s.loop(ctx, s.done)
	s.logger.Info("scanner started", applogger.Duration("interval", s.interval), applogger.Int("sinks", len(s.sinks)))
	return nil
}

func (s *SignalScanner) loop(ctx context.Context, done chan struct{}) {
	defer close(done)
	t := time.NewTicker(s.interval)
	defer t.Stop()
	for {
		s.RunOnce(ctx)
		select {
		case <-ctx.Done():
			return
		case <-t.C:
		}
	}
}

// RunOnce performs one scan cycle and publishes the result.
func (s *SignalScanner) RunOnce(ctx context.Context) *models.ScanResult {
	markets := s.markets.Tracked(ctx)
	res := &models.ScanResult{
		ID:        uuid.NewString(),
		Timestamp: time.Now().UTC(),
		Markets:   len(markets),
		Response:  s.scan.Scan(ctx, markets, s.candleCount),
		Limiter:   s.scan.LimiterStats(),
	}

	for _, sink := range s.sinks {
		if err := sink.Publish(ctx, res); err != nil {
			s.metrics.RecordError("sink_" + sink.Name())
			s.logger.Error("publish scan result failed",
				applogger.String("sink", sink.Name()),
				applogger.String("scan_id", res.ID),
				applogger.Error(err),
			)
			res.Errors = append(res.Errors, sink.Name()+": "+err.Error())
			continue
		}
		s.metrics.RecordMessageSent(sink.Name(), res.ID)
	}

	s.mu.Lock()
	s.last = res
	s.mu.Unlock()
	return res
}

// Last returns the most recent scan result, nil before the first cycle.
func (s *SignalScanner) Last() *models.ScanResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

// Shutdown stops the loop and closes every sink.
func (s *SignalScanner) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel = nil
	s.mu.Unlock()

	if cancel != nil {
		cancel()
		select {
		case <-done:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	var firstErr error
	for _, sink := range s.sinks {
		if err := sink.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
