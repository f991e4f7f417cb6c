package strat

import (
	"testing"

	"StratScan/internal/domain/models"
)

func TestIdentifyClosedSetup(t *testing.T) {
	cases := []struct {
		labels    []string
		pattern   string
		kind      models.SetupKind
		direction models.Direction
	}{
		{[]string{"2U", "1", "2U"}, "2-1-2U", models.SetupContinuation, models.DirectionBullish},
		{[]string{"2D", "1", "2D"}, "2-1-2D", models.SetupContinuation, models.DirectionBearish},
		{[]string{"2D", "1", "2U"}, "2-1-2U Rev", models.SetupReversal, models.DirectionBullish},
		{[]string{"2U", "1", "2D"}, "2-1-2D Rev", models.SetupReversal, models.DirectionBearish},
		{[]string{"3", "1", "2U"}, "3-1-2U", models.SetupBreakout, models.DirectionBullish},
		{[]string{"3", "1", "2D"}, "3-1-2D", models.SetupBreakout, models.DirectionBearish},
		{[]string{"1", "2U", "2U"}, "1-2-2U", models.SetupContinuation, models.DirectionBullish},
		{[]string{"1", "2D", "2D"}, "1-2-2D", models.SetupContinuation, models.DirectionBearish},
	}
	for _, tc := range cases {
		series := bars(append([]string{"", "2U"}, tc.labels...), nil)
		s := IdentifyClosedSetup(series)
		if s == nil {
			t.Fatalf("%v: expected setup", tc.labels)
		}
		if s.Pattern != tc.pattern || s.Kind != tc.kind || s.Direction != tc.direction {
			t.Fatalf("%v: got %q/%s/%s", tc.labels, s.Pattern, s.Kind, s.Direction)
		}
		third := series[len(series)-1]
		want := third.Low
		if tc.direction == models.DirectionBullish {
			want = third.High
		}
		if s.TriggerPrice == nil || *s.TriggerPrice != want {
			t.Fatalf("%v: trigger %v want %v", tc.labels, s.TriggerPrice, want)
		}
	}
}

func TestIdentifyClosedSetupNoMatch(t *testing.T) {
	for _, labels := range [][]string{
		{"", "1", "2U"},
		{"1", "1", "1"},
		{"2U", "2D", "2U"},
		{"3", "3", "3"},
	} {
		if s := IdentifyClosedSetup(bars(labels, nil)); s != nil {
			t.Fatalf("%v: expected nil, got %q", labels, s.Pattern)
		}
	}
	if s := IdentifyClosedSetup(bars([]string{"2U", "1"}, nil)); s != nil {
		t.Fatalf("expected nil for two bars")
	}
}
