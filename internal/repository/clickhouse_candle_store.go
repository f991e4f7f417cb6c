package repository

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"time"

	"StratScan/internal/domain/models"
	domrepo "StratScan/internal/domain/repository"
	pkgch "StratScan/pkg/clickhouse"
	applogger "StratScan/pkg/logger"
)

const candleTable = "strat_candles"

var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// CandleSchema creates the candle table read by CHCandleStore.
func CandleSchema(database string) []string {
	return []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s.%s (
            market_id UInt32,
            timeframe LowCardinality(String),
            ts        Int64,
            open      Float64,
            high      Float64,
            low       Float64,
            close     Float64,
            volume    Float64,
            inserted  DateTime DEFAULT now()
        ) ENGINE = ReplacingMergeTree(inserted)
        ORDER BY (market_id, timeframe, ts)`, database, candleTable),
	}
}

// CHCandleStore implements CandleSource backed by ClickHouse.
type CHCandleStore struct {
	db    *sql.DB
	table string
	l     *applogger.Logger
}

var _ domrepo.CandleSource = (*CHCandleStore)(nil)

func NewCHCandleStore(ch *pkgch.Client, database string) (*CHCandleStore, error) {
	if !identRe.MatchString(database) {
		return nil, fmt.Errorf("invalid clickhouse database name %q", database)
	}
	return &CHCandleStore{db: ch.DB(), table: database + "." + candleTable, l: applogger.Nop()}, nil
}

// SetLogger injects a structured logger.
func (s *CHCandleStore) SetLogger(l *applogger.Logger) {
	if l != nil {
		s.l = l
	}
}

func latestCandlesQuery(table string) string {
	// ReplacingMergeTree collapses duplicates only on merge, so LIMIT 1 BY keeps
	// the newest row per bar at read time.
	return fmt.Sprintf(`
        SELECT ts, open, high, low, close, volume
        FROM (
            SELECT ts, open, high, low, close, volume
            FROM %s
            WHERE market_id = ? AND timeframe = ?
            ORDER BY ts DESC, inserted DESC
            LIMIT 1 BY ts
            LIMIT ?
        )
        ORDER BY ts ASC
    `, table)
}

// FetchCandles returns the latest countBack bars, ascending and unique by timestamp.
func (s *CHCandleStore) FetchCandles(ctx context.Context, marketID int, tf models.Timeframe, countBack int) ([]models.Candle, error) {
	if countBack <= 0 {
		countBack = 100
	}
	start := time.Now()
	rows, err := s.db.QueryContext(ctx, latestCandlesQuery(s.table), marketID, string(tf), countBack)
	if err != nil {
		s.l.Error("clickhouse latest_candles query error",
			applogger.String("table", s.table),
			applogger.Int("market_id", marketID),
			applogger.String("tf", string(tf)),
			applogger.Error(err),
		)
		return nil, fmt.Errorf("query candles: %w", err)
	}
	defer rows.Close()

	out := make([]models.Candle, 0, countBack)
	for rows.Next() {
		var c models.Candle
		if err := rows.Scan(&c.Timestamp, &c.Open, &c.High, &c.Low, &c.Close, &c.Volume); err != nil {
			return nil, fmt.Errorf("scan candle: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no candles stored for market %d on %s", marketID, tf)
	}
	s.l.Debug("clickhouse latest_candles ok",
		applogger.Int("market_id", marketID),
		applogger.String("tf", string(tf)),
		applogger.Int("rows", len(out)),
		applogger.Duration("duration_ms", time.Since(start)),
	)
	return out, nil
}
