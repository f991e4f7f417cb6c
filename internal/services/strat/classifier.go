package strat

import (
	"errors"
	"fmt"
	"strings"

	"StratScan/internal/domain/models"
)

// SequenceLength is the number of bars rendered by Analyze into the pattern sequence.
const SequenceLength = 5

// ErrUnorderedCandles is returned when candles are not strictly ascending by timestamp.
var ErrUnorderedCandles = errors.New("candles must be strictly ascending by timestamp")

// Classify returns the Strat pattern of current relative to previous.
// Outside is checked first so a bar breaking both sides is never directional.
// Touching a prior extreme without breaking it counts as inside.
func Classify(current, previous models.Candle) models.PatternType {
	breaksHigh := current.High > previous.High
	breaksLow := current.Low < previous.Low

	switch {
	case breaksHigh && breaksLow:
		return models.PatternOutside
	case breaksHigh:
		return models.PatternDirectionalUp
	case breaksLow:
		return models.PatternDirectionalDown
	default:
		return models.PatternInside
	}
}

// ClassifyCandles classifies every bar against its predecessor.
// The first bar has no predecessor and keeps PatternNone.
func ClassifyCandles(candles []models.Candle) []models.ClassifiedCandle {
	out := make([]models.ClassifiedCandle, len(candles))
	for i, c := range candles {
		out[i].Candle = c
		if i > 0 {
			out[i].PatternType = Classify(c, candles[i-1])
		}
	}
	return out
}

// PatternSequence joins the labels of the last n bars with "-", using "?" for unclassified bars.
func PatternSequence(candles []models.ClassifiedCandle, n int) string {
	if n <= 0 || len(candles) == 0 {
		return ""
	}
	if len(candles) > n {
		candles = candles[len(candles)-n:]
	}
	parts := make([]string, len(candles))
	for i, c := range candles {
		if c.PatternType == models.PatternNone {
			parts[i] = "?"
			continue
		}
		parts[i] = c.PatternType.String()
	}
	return strings.Join(parts, "-")
}

// ValidateOrder checks the ascending, unique timestamp precondition of a series.
func ValidateOrder(candles []models.Candle) error {
	for i := 1; i < len(candles); i++ {
		if candles[i].Timestamp <= candles[i-1].Timestamp {
			return fmt.Errorf("%w: index %d (%d after %d)", ErrUnorderedCandles, i, candles[i].Timestamp, candles[i-1].Timestamp)
		}
	}
	return nil
}

// Analyze classifies raw candles and predicts the setup forming on the last bar.
func Analyze(raw []models.Candle) (models.StratAnalysis, error) {
	if err := ValidateOrder(raw); err != nil {
		return models.StratAnalysis{}, err
	}
	candles := ClassifyCandles(raw)
	return models.StratAnalysis{
		Candles:         candles,
		PatternSequence: PatternSequence(candles, SequenceLength),
		ActionableSetup: PredictSetup(candles),
	}, nil
}

// Analyzer exposes the package functions behind the domain service interfaces.
type Analyzer struct{}

func NewAnalyzer() *Analyzer { return &Analyzer{} }

func (Analyzer) Analyze(raw []models.Candle) (models.StratAnalysis, error) { return Analyze(raw) }

func (Analyzer) IdentifyClosedSetup(candles []models.ClassifiedCandle) *models.ActionableSetup {
	return IdentifyClosedSetup(candles)
}
