package di

import (
	"context"
	"fmt"
	"time"

	"StratScan/internal/domain/repository"
	domsvc "StratScan/internal/domain/service"
	"StratScan/internal/handler/api"
	"StratScan/internal/handler/ws"
	internalrepo "StratScan/internal/repository"
	icache "StratScan/internal/service/cache"
	"StratScan/internal/service/lighter"
	"StratScan/internal/service/ratelimit"
	"StratScan/internal/usecase"
	pcache "StratScan/pkg/cache"
	pkgch "StratScan/pkg/clickhouse"
	"StratScan/pkg/config"
	xhttp "StratScan/pkg/http"
	pkgkafka "StratScan/pkg/kafka"
	applogger "StratScan/pkg/logger"
	"StratScan/pkg/metrics"
	"StratScan/pkg/server"
)

// ProvideLogger builds the application logger from the log section.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	l, err := applogger.New(&applogger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l.With(applogger.String("env", cfg.Environment)), nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

func ProvideLighterClient(cfg *config.Config, l *applogger.Logger) *lighter.Client {
	return lighter.NewClient(cfg.Lighter, l.With(applogger.String("component", "lighter")))
}

// ProvideMarketDirectory always reads markets from Lighter, whatever the candle source.
func ProvideMarketDirectory(c *lighter.Client) repository.MarketDirectory { return c }

// ProvideCandleSource selects Lighter or the ClickHouse candle table.
func ProvideCandleSource(cfg *config.Config, lc *lighter.Client, l *applogger.Logger) (repository.CandleSource, func(), error) {
	if cfg.Source.Type != "clickhouse" {
		return lc, func() {}, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	ch, err := pkgch.NewClient(ctx,
		pkgch.WithAddress(cfg.ClickHouse.Host, cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("clickhouse client: %w", err)
	}
	cleanup := func() {
		if err := ch.Close(); err != nil {
			l.Warn("clickhouse close error", applogger.Error(err))
		}
	}
	if err := ch.InitSchema(ctx, internalrepo.CandleSchema(cfg.ClickHouse.Database)); err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("clickhouse schema: %w", err)
	}
	store, err := internalrepo.NewCHCandleStore(ch, cfg.ClickHouse.Database)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	store.SetLogger(l.With(applogger.String("component", "ch_candles")))
	return store, cleanup, nil
}

func ProvideConcurrencyLimiter(cfg *config.Config) *ratelimit.ConcurrencyLimiter {
	return ratelimit.NewConcurrencyLimiter(cfg.Scanner.MaxConcurrent)
}

func ProvideThrottle() *ratelimit.Limiter { return ratelimit.New() }

// ProvideStateStore picks the timeframe state backend: process memory, Redis, or
// Redis fronted by a short-lived in-process L1.
func ProvideStateStore(cfg *config.Config) (icache.StateStore, func(), error) {
	if cfg.Cache.Backend == "memory" || cfg.Cache.Backend == "" {
		return icache.NewMemoryStateStore(), func() {}, nil
	}

	rc, err := pcache.NewRedisCache(
		pcache.WithRedisAddr(cfg.Redis.Host, cfg.Redis.Port),
		pcache.WithRedisAuth(cfg.Redis.Password, cfg.Redis.DB),
		pcache.WithRedisPool(cfg.Redis.PoolSize, 2, 4*time.Second),
		pcache.WithRedisPrefix(cfg.Redis.Prefix),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("redis cache: %w", err)
	}
	var svc pcache.Service = rc
	if cfg.Cache.Backend == "layered" {
		svc = pcache.NewLayeredCache(rc, cfg.Cache.L1Size, cfg.Cache.L1TTL)
	}
	return icache.NewSharedStateStore(svc, cfg.Cache.Retention), func() { _ = svc.Close() }, nil
}

func ProvideTimeframeStateCache(
	source repository.CandleSource,
	analyzer domsvc.CandleAnalyzer,
	store icache.StateStore,
	limiter *ratelimit.ConcurrencyLimiter,
	m repository.Metrics,
	l *applogger.Logger,
	cfg *config.Config,
) *usecase.TimeframeStateCache {
	return usecase.NewTimeframeStateCache(source, analyzer, store, limiter, l,
		usecase.WithTTLOverrides(cfg.Cache.TTL),
		usecase.WithStateMetrics(m),
	)
}

func ProvideMarketsUseCase(dir repository.MarketDirectory, cfg *config.Config, l *applogger.Logger) *usecase.MarketsUseCase {
	return usecase.NewMarketsUseCase(dir, cfg.Scanner.Markets, l)
}

func ProvideMarketBoardUseCase(source repository.CandleSource, setups domsvc.SetupIdentifier, limiter *ratelimit.ConcurrencyLimiter, l *applogger.Logger) *usecase.MarketBoardUseCase {
	return usecase.NewMarketBoardUseCase(source, setups, limiter, l)
}

func ProvideSignalScanUseCase(states *usecase.TimeframeStateCache, engine domsvc.SignalEngine, m repository.Metrics, l *applogger.Logger, cfg *config.Config) *usecase.SignalScanUseCase {
	return usecase.NewSignalScanUseCase(states, engine, m, l, cfg.Scanner.FTCEnabled)
}

func ProvideSignalHub(cfg *config.Config, l *applogger.Logger) *ws.SignalHub {
	return ws.NewSignalHub(cfg.WebSocket, l)
}

// ProvideSignalSinks lists the scanner outputs. The scanner owns and closes them.
func ProvideSignalSinks(cfg *config.Config, hub *ws.SignalHub) ([]repository.SignalSink, error) {
	var sinks []repository.SignalSink
	if cfg.WebSocket.Enabled {
		sinks = append(sinks, hub)
	}
	if cfg.Kafka.Enabled {
		producer, err := pkgkafka.NewProducer(
			pkgkafka.WithBrokers(cfg.Kafka.Brokers),
			pkgkafka.WithCompression(cfg.Kafka.Compression),
			pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
			pkgkafka.WithBatching(cfg.Kafka.Producer.BatchSize, cfg.Kafka.Producer.BatchBytes, cfg.Kafka.Producer.Linger),
			pkgkafka.WithWriteTimeout(cfg.Kafka.Producer.WriteTimeout),
			pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
			pkgkafka.WithAsync(cfg.Kafka.Producer.Async),
			pkgkafka.WithHashByKey(true),
		)
		if err != nil {
			return nil, fmt.Errorf("kafka producer: %w", err)
		}
		sinks = append(sinks, internalrepo.NewKafkaSignalSink(producer, cfg.Kafka.Topic))
	}
	return sinks, nil
}

func ProvideSignalScanner(
	scan *usecase.SignalScanUseCase,
	markets *usecase.MarketsUseCase,
	sinks []repository.SignalSink,
	m repository.Metrics,
	l *applogger.Logger,
	cfg *config.Config,
) *usecase.SignalScanner {
	return usecase.NewSignalScanner(scan, markets, sinks, m, l, cfg.Scanner.Interval, cfg.Scanner.CandleCount)
}

func ProvideStratHandler(
	l *applogger.Logger,
	markets *usecase.MarketsUseCase,
	candles *usecase.CandleAnalysisUseCase,
	board *usecase.MarketBoardUseCase,
	scan *usecase.SignalScanUseCase,
	throttle *ratelimit.Limiter,
	cfg *config.Config,
) *api.StratEchoHandler {
	return api.NewStratEchoHandler(l, markets, candles, board, scan, throttle, cfg.API)
}

// ProvideHTTPServer registers the REST API and, when enabled, the websocket stream.
func ProvideHTTPServer(cfg *config.Config, l *applogger.Logger, h *api.StratEchoHandler, hub *ws.SignalHub) *xhttp.Server {
	handlers := []xhttp.Handler{h}
	if cfg.WebSocket.Enabled {
		handlers = append(handlers, hub)
	}
	return xhttp.NewServer(l, handlers,
		xhttp.WithAddr(cfg.Server.Host, cfg.Server.Port),
		xhttp.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.ShutdownTimeout),
		xhttp.WithSlowThreshold(cfg.Server.SlowThreshold),
		xhttp.WithCORS(cfg.Server.CORS),
	)
}

func ProvideApp(cfg *config.Config, l *applogger.Logger, srv *xhttp.Server, scanner *usecase.SignalScanner) *server.App {
	return server.New(cfg, l, srv, scanner)
}
