package models

import (
	"encoding/json"
	"fmt"
)

// Candle is one OHLCV bar. Timestamp is the bar open time in unix milliseconds.
type Candle struct {
	Timestamp int64   `json:"timestamp"`
	Open      float64 `json:"open"`
	High      float64 `json:"high"`
	Low       float64 `json:"low"`
	Close     float64 `json:"close"`
	Volume    float64 `json:"volume"`
}

// Bullish reports whether the bar closed above its open.
func (c Candle) Bullish() bool { return c.Close > c.Open }

// PatternType is the Strat classification of a bar relative to its predecessor.
type PatternType uint8

const (
	// PatternNone marks a bar without a predecessor (first bar of a series).
	PatternNone PatternType = iota
	PatternInside
	PatternDirectionalUp
	PatternDirectionalDown
	PatternOutside
)

var patternLabels = map[PatternType]string{
	PatternInside:          "1",
	PatternDirectionalUp:   "2U",
	PatternDirectionalDown: "2D",
	PatternOutside:         "3",
}

// String returns the Strat label ("1", "2U", "2D", "3") or "" for PatternNone.
func (p PatternType) String() string { return patternLabels[p] }

// IsDirectional reports 2U or 2D.
func (p PatternType) IsDirectional() bool {
	return p == PatternDirectionalUp || p == PatternDirectionalDown
}

// ParsePatternType maps a Strat label back to its PatternType.
func ParsePatternType(s string) (PatternType, error) {
	switch s {
	case "":
		return PatternNone, nil
	case "1":
		return PatternInside, nil
	case "2U":
		return PatternDirectionalUp, nil
	case "2D":
		return PatternDirectionalDown, nil
	case "3":
		return PatternOutside, nil
	default:
		return PatternNone, fmt.Errorf("unknown pattern type %q", s)
	}
}

func (p PatternType) MarshalJSON() ([]byte, error) {
	if p == PatternNone {
		return []byte("null"), nil
	}
	return json.Marshal(p.String())
}

func (p *PatternType) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*p = PatternNone
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	v, err := ParsePatternType(s)
	if err != nil {
		return err
	}
	*p = v
	return nil
}

// ClassifiedCandle is a Candle with its Strat pattern.
type ClassifiedCandle struct {
	Candle
	PatternType PatternType `json:"patternType"`
}

// PatternInfo is the display name and meaning of a pattern type.
type PatternInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// PatternDescriptions documents each classified pattern type.
var PatternDescriptions = map[PatternType]PatternInfo{
	PatternInside:          {Name: "Inside Bar", Description: "Consolidation - High lower than previous, Low higher than previous"},
	PatternDirectionalUp:   {Name: "Directional Up", Description: "Bullish - Breaks previous high, holds previous low"},
	PatternDirectionalDown: {Name: "Directional Down", Description: "Bearish - Breaks previous low, holds previous high"},
	PatternOutside:         {Name: "Outside Bar", Description: "Volatility - Breaks both previous high and low"},
}

// StratAnalysis is the classified view of a candle series.
type StratAnalysis struct {
	Candles         []ClassifiedCandle `json:"candles"`
	PatternSequence string             `json:"patternSequence"`
	ActionableSetup *ActionableSetup   `json:"actionableSetup"`
}
