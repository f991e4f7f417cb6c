package lighter

import "StratScan/internal/domain/models"

// rawCandle accepts both wire shapes: short keys (t,o,h,l,c,v) and the legacy
// long keys. The quote volume V is declared so it is not folded into v by the
// case-insensitive JSON matcher.
type rawCandle struct {
	T           *int64   `json:"t"`
	O           *float64 `json:"o"`
	H           *float64 `json:"h"`
	L           *float64 `json:"l"`
	C           *float64 `json:"c"`
	V           *float64 `json:"v"`
	QuoteVolume *float64 `json:"V"`

	Timestamp *int64   `json:"timestamp"`
	Open      *float64 `json:"open"`
	High      *float64 `json:"high"`
	Low       *float64 `json:"low"`
	Close     *float64 `json:"close"`
	Volume0   *float64 `json:"volume0"`
	Volume1   *float64 `json:"volume1"`
}

func pick[T int64 | float64](short, long *T) T {
	if short != nil {
		return *short
	}
	if long != nil {
		return *long
	}
	return 0
}

func (r rawCandle) toCandle() models.Candle {
	return models.Candle{
		Timestamp: pick(r.T, r.Timestamp),
		Open:      pick(r.O, r.Open),
		High:      pick(r.H, r.High),
		Low:       pick(r.L, r.Low),
		Close:     pick(r.C, r.Close),
		Volume:    pick(r.V, r.Volume0),
	}
}

type candlesResponse struct {
	Code         int         `json:"code"`
	Resolution   string      `json:"r"`
	Short        []rawCandle `json:"c"`
	Candles      []rawCandle `json:"candles"`
	Candlesticks []rawCandle `json:"candlesticks"`
}

func (r candlesResponse) bars() []rawCandle {
	switch {
	case len(r.Short) > 0:
		return r.Short
	case len(r.Candles) > 0:
		return r.Candles
	default:
		return r.Candlesticks
	}
}

type orderBook struct {
	MarketID   int    `json:"market_id"`
	Symbol     string `json:"symbol"`
	BaseAsset  string `json:"base_asset"`
	QuoteAsset string `json:"quote_asset"`
	Status     string `json:"status"`
}

type orderBooksResponse struct {
	OrderBooks []orderBook `json:"order_books"`
}
