package strat

import (
	"testing"

	"StratScan/internal/domain/models"
)

// bars builds a classified series from labels; open/close follow the bull flags.
func bars(labels []string, bull []bool) []models.ClassifiedCandle {
	out := make([]models.ClassifiedCandle, len(labels))
	for i, l := range labels {
		p, err := models.ParsePatternType(l)
		if err != nil {
			panic(err)
		}
		c := models.Candle{Timestamp: int64(i + 1), Open: 100, Close: 99, High: 110 + float64(i), Low: 90 - float64(i)}
		if bull != nil && bull[i] {
			c.Close = 101
		}
		out[i] = models.ClassifiedCandle{Candle: c, PatternType: p}
	}
	return out
}

func TestPredictSetupInsufficientHistory(t *testing.T) {
	if s := PredictSetup(bars([]string{"", "2U"}, nil)); s != nil {
		t.Fatalf("expected nil for two bars, got %+v", s)
	}
	if s := PredictSetup(nil); s != nil {
		t.Fatalf("expected nil for empty input")
	}
}

func TestPredictSetup(t *testing.T) {
	cases := []struct {
		name       string
		labels     []string
		bull       []bool
		pattern    string
		direction  models.Direction
		confidence models.Confidence
	}{
		{"inside after 2U", []string{"", "2U", "1"}, nil, "2U-1 Setup", models.DirectionBullish, models.ConfidenceHigh},
		{"two insides after 2U", []string{"", "2U", "1", "1"}, nil, "2U-11 Setup", models.DirectionBullish, models.ConfidenceHigh},
		{"label capped at three", []string{"", "2D", "1", "1", "1", "1"}, nil, "2D-111 Setup", models.DirectionBearish, models.ConfidenceHigh},
		{"inside after bullish outside", []string{"", "3", "1", "1"}, []bool{false, true, false, false}, "3-11 Setup", models.DirectionBullish, models.ConfidenceHigh},
		{"inside after bearish outside", []string{"", "3", "1"}, nil, "3-1 Setup", models.DirectionBearish, models.ConfidenceHigh},
		{"inside without trigger", []string{"", "1", "1"}, []bool{false, false, true}, "Inside Bar", models.DirectionBullish, models.ConfidenceLow},
		{"2D-1-2U reversal", []string{"", "2D", "1", "2U"}, nil, "2D-1-2U Reversal", models.DirectionBullish, models.ConfidenceHigh},
		{"2U-1-2U continuation", []string{"", "2U", "1", "1", "2U"}, nil, "2U-1-2U Continuation", models.DirectionBullish, models.ConfidenceHigh},
		{"3-1-2U breakout", []string{"", "3", "1", "2U"}, nil, "3-1-2U Breakout", models.DirectionBullish, models.ConfidenceHigh},
		{"2U-1-2D reversal", []string{"", "2U", "1", "2D"}, nil, "2U-1-2D Reversal", models.DirectionBearish, models.ConfidenceHigh},
		{"2D-1-2D continuation", []string{"", "2D", "1", "2D"}, nil, "2D-1-2D Continuation", models.DirectionBearish, models.ConfidenceHigh},
		{"3-1-2D breakdown", []string{"", "3", "1", "2D"}, nil, "3-1-2D Breakdown", models.DirectionBearish, models.ConfidenceHigh},
		{"2-2 bullish reversal", []string{"", "2D", "2U"}, nil, "2-2 Reversal", models.DirectionBullish, models.ConfidenceHigh},
		{"2-2 bearish reversal", []string{"", "2U", "2D"}, nil, "2-2 Reversal", models.DirectionBearish, models.ConfidenceHigh},
		{"bullish momentum", []string{"", "2U", "2U"}, nil, "Bullish Momentum", models.DirectionBullish, models.ConfidenceMedium},
		{"bearish momentum", []string{"", "2D", "2D"}, nil, "Bearish Momentum", models.DirectionBearish, models.ConfidenceMedium},
		{"2U after outside", []string{"", "1", "3", "2U"}, nil, "2U Active", models.DirectionBullish, models.ConfidenceLow},
		{"2D after insides without trigger", []string{"", "1", "1", "2D"}, nil, "2D Active", models.DirectionBearish, models.ConfidenceLow},
		{"bullish outside bar", []string{"", "2D", "3"}, []bool{false, false, true}, "Outside Bar", models.DirectionBullish, models.ConfidenceMedium},
		{"bearish outside bar", []string{"", "2U", "3"}, nil, "Outside Bar", models.DirectionBearish, models.ConfidenceMedium},
	}
	for _, tc := range cases {
		s := PredictSetup(bars(tc.labels, tc.bull))
		if s == nil {
			t.Fatalf("%s: expected setup, got nil", tc.name)
		}
		if s.Pattern != tc.pattern || s.Direction != tc.direction || s.Confidence != tc.confidence {
			t.Fatalf("%s: got %q/%s/%s want %q/%s/%s", tc.name, s.Pattern, s.Direction, s.Confidence, tc.pattern, tc.direction, tc.confidence)
		}
	}
}

func TestPredictSetupTriggerPrices(t *testing.T) {
	series := bars([]string{"", "2U", "1"}, nil)
	s := PredictSetup(series)
	if s.TriggerPrice == nil || *s.TriggerPrice != series[1].High {
		t.Fatalf("inside setup should trigger at the 2U high, got %v", s.TriggerPrice)
	}

	series = bars([]string{"", "2U", "1", "2D"}, nil)
	s = PredictSetup(series)
	if s.TriggerPrice == nil || *s.TriggerPrice != series[2].Low {
		t.Fatalf("triggered reversal should report the broken inside low, got %v", s.TriggerPrice)
	}

	if s = PredictSetup(bars([]string{"", "2U", "2U"}, nil)); s.TriggerPrice != nil {
		t.Fatalf("momentum has no trigger level")
	}
}
