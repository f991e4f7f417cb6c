package models

// Timeframe represents candle resolution buckets.
type Timeframe string

const (
	TF1m  Timeframe = "1m"
	TF5m  Timeframe = "5m"
	TF15m Timeframe = "15m"
	TF30m Timeframe = "30m"
	TF1h  Timeframe = "1h"
	TF4h  Timeframe = "4h"
	TF12h Timeframe = "12h"
	TF1d  Timeframe = "1d"
	TF1w  Timeframe = "1w"
)

// Timeframes lists every supported timeframe in canonical (ascending) order.
var Timeframes = []Timeframe{TF1m, TF5m, TF15m, TF30m, TF1h, TF4h, TF12h, TF1d, TF1w}

// FTCTimeframes are the timeframes that take part in multi-timeframe continuity, in canonical order.
var FTCTimeframes = []Timeframe{TF1m, TF5m, TF15m, TF30m, TF1h, TF4h, TF12h, TF1d}

// HTFTimeframes and LTFTimeframes split FTCTimeframes into the two voting groups.
var (
	HTFTimeframes = []Timeframe{TF1h, TF4h, TF12h, TF1d}
	LTFTimeframes = []Timeframe{TF1m, TF5m, TF15m, TF30m}
)
