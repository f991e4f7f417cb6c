package models

// Direction is the directional lean of a setup or timeframe state.
type Direction string

const (
	DirectionBullish Direction = "bullish"
	DirectionBearish Direction = "bearish"
	DirectionNeutral Direction = "neutral"
)

// DirectionOf returns bullish when the bar closed above its open, bearish otherwise.
func DirectionOf(c Candle) Direction {
	if c.Bullish() {
		return DirectionBullish
	}
	return DirectionBearish
}

type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// SetupKind groups closed-bar setups; predictive setups leave it empty.
type SetupKind string

const (
	SetupContinuation SetupKind = "continuation"
	SetupReversal     SetupKind = "reversal"
	SetupBreakout     SetupKind = "breakout"
)

// ActionableSetup is a tradable pattern derived from the most recent bars.
type ActionableSetup struct {
	Pattern      string     `json:"pattern"`
	Kind         SetupKind  `json:"type,omitempty"`
	Direction    Direction  `json:"direction"`
	Description  string     `json:"description"`
	Confidence   Confidence `json:"confidence,omitempty"`
	TriggerPrice *float64   `json:"triggerPrice,omitempty"`
}
