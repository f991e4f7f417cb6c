package models

// Requests for strat HTTP endpoints. Defined in domain for consistency and reuse.

type CandlesRequest struct {
	MarketID int    `query:"market_id" json:"marketId" validate:"gte=0"`
	TF       string `query:"tf" json:"tf" default:"1h" validate:"oneof=1m 5m 15m 30m 1h 4h 12h 1d 1w"`
	N        int    `query:"n" json:"n" default:"100" validate:"gte=5,lte=500"`
}

type BoardRequest struct {
	TF string `query:"tf" json:"tf" default:"1h" validate:"oneof=1m 5m 15m 30m 1h 4h 12h 1d 1w"`
	N  int    `query:"n" json:"n" default:"20" validate:"gte=5,lte=100"`
}

type FTCRequest struct {
	N int `query:"n" json:"n" default:"20" validate:"gte=5,lte=100"`
}
