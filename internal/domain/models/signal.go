package models

// Bias is the directional majority of a timeframe group.
type Bias string

const (
	BiasUp    Bias = "2U"
	BiasDown  Bias = "2D"
	BiasMixed Bias = "mixed"
)

type SignalDirection string

const (
	SignalLong    SignalDirection = "LONG"
	SignalShort   SignalDirection = "SHORT"
	SignalNeutral SignalDirection = "NEUTRAL"
)

type SignalID string

const (
	SignalChopAvoidance       SignalID = "CA"
	SignalHTFBiasConfirmation SignalID = "HTFBC"
	SignalInsideCompression   SignalID = "IC"
)

// Name returns the human readable signal name.
func (id SignalID) Name() string {
	switch id {
	case SignalHTFBiasConfirmation:
		return "HTF Bias Confirmation"
	case SignalInsideCompression:
		return "Inside Compression - Early Breakout"
	case SignalChopAvoidance:
		return "Chop Avoidance"
	default:
		return string(id)
	}
}

// SignalReasons carries the counts a signal was derived from.
type SignalReasons struct {
	HTFBullish   int  `json:"htfBullish"`
	HTFBearish   int  `json:"htfBearish"`
	LTFBullish   int  `json:"ltfBullish"`
	LTFBearish   int  `json:"ltfBearish"`
	HTFInside    int  `json:"htfInside"`
	HTFOutside   int  `json:"htfOutside"`
	LTFInside    int  `json:"ltfInside"`
	LTFOutside   int  `json:"ltfOutside"`
	StaleCount   int  `json:"staleCount"`
	ErrorCount   int  `json:"errorCount"`
	MissingCount int  `json:"missingCount"`
	HTFBias      Bias `json:"htfBias"`
	LTFBias      Bias `json:"ltfBias"`
}

// Signal is a scored trade idea for one market.
type Signal struct {
	ID               SignalID        `json:"id"`
	Name             string          `json:"name"`
	Symbol           string          `json:"symbol"`
	MarketID         int             `json:"marketId"`
	Direction        SignalDirection `json:"direction"`
	Conviction       int             `json:"conviction"`
	Reasons          SignalReasons   `json:"reasons"`
	SuppressedByChop bool            `json:"suppressedByChop"`
}

// SignalResponse partitions signals by conviction.
type SignalResponse struct {
	Signals    []Signal `json:"signals"`
	NearMisses []Signal `json:"nearMisses"`
}

// EmptySignalResponse returns a response with non-nil empty lists.
func EmptySignalResponse() SignalResponse {
	return SignalResponse{Signals: []Signal{}, NearMisses: []Signal{}}
}
