package models

// Market identifies a tradable Lighter order book.
type Market struct {
	Symbol      string `json:"symbol" validate:"required"`
	MarketIndex int    `json:"marketIndex" validate:"gte=0"`
	MarketID    int    `json:"marketId" validate:"gte=0"`
}

// DefaultMarkets is served when the order book directory is unavailable.
var DefaultMarkets = []Market{
	{Symbol: "BTC", MarketIndex: 1, MarketID: 1},
	{Symbol: "ETH", MarketIndex: 0, MarketID: 0},
	{Symbol: "SOL", MarketIndex: 2, MarketID: 2},
	{Symbol: "DOGE", MarketIndex: 3, MarketID: 3},
	{Symbol: "1000PEPE", MarketIndex: 4, MarketID: 4},
	{Symbol: "WIF", MarketIndex: 5, MarketID: 5},
	{Symbol: "WLD", MarketIndex: 6, MarketID: 6},
	{Symbol: "XRP", MarketIndex: 7, MarketID: 7},
	{Symbol: "LINK", MarketIndex: 8, MarketID: 8},
	{Symbol: "AVAX", MarketIndex: 9, MarketID: 9},
}

// TimeframeState is the cached Strat reading of one market on one timeframe.
type TimeframeState struct {
	Pattern       string      `json:"pattern"`
	Direction     Direction   `json:"direction"`
	PatternType   PatternType `json:"patternType"`
	LastUpdatedAt int64       `json:"lastUpdated"`
	Stale         bool        `json:"stale"`
	Error         string      `json:"error,omitempty"`
}

// HasError reports whether the state records a failed refresh.
func (s TimeframeState) HasError() bool { return s.Error != "" }

// CacheEntry is a TimeframeState with its absolute expiry in unix milliseconds.
type CacheEntry struct {
	State  TimeframeState `json:"state"`
	Expiry int64          `json:"expiry"`
}

// Confluence summarises directional agreement across timeframes.
type Confluence struct {
	BullishTimeframes []Timeframe `json:"bullishTimeframes"`
	BearishTimeframes []Timeframe `json:"bearishTimeframes"`
	TotalTimeframes   int         `json:"totalTimeframes"`
}

// MarketAnalysis is one market's closed-bar reading on a single timeframe.
type MarketAnalysis struct {
	Market          Market             `json:"market"`
	Timeframe       Timeframe          `json:"timeframe"`
	CurrentCandle   *ClassifiedCandle  `json:"currentCandle"`
	PreviousCandles []ClassifiedCandle `json:"previousCandles"`
	PatternSequence string             `json:"patternSequence"`
	ActionableSetup *ActionableSetup   `json:"actionableSetup"`
	LastUpdatedAt   int64              `json:"lastUpdated"`
}
