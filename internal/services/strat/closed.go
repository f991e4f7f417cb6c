package strat

import "StratScan/internal/domain/models"

type closedSetup struct {
	kind        models.SetupKind
	pattern     string
	direction   models.Direction
	description string
}

// closedSetups are the three-bar sequences recognised on closed bars, keyed by their labels.
var closedSetups = map[[3]models.PatternType]closedSetup{
	{models.PatternDirectionalUp, models.PatternInside, models.PatternDirectionalUp}: {
		models.SetupContinuation, "2-1-2U", models.DirectionBullish,
		"Bullish continuation: Upward move, consolidation, another upward break",
	},
	{models.PatternDirectionalDown, models.PatternInside, models.PatternDirectionalDown}: {
		models.SetupContinuation, "2-1-2D", models.DirectionBearish,
		"Bearish continuation: Downward move, consolidation, another downward break",
	},
	{models.PatternDirectionalDown, models.PatternInside, models.PatternDirectionalUp}: {
		models.SetupReversal, "2-1-2U Rev", models.DirectionBullish,
		"Bullish reversal: Downward move, consolidation, upward break",
	},
	{models.PatternDirectionalUp, models.PatternInside, models.PatternDirectionalDown}: {
		models.SetupReversal, "2-1-2D Rev", models.DirectionBearish,
		"Bearish reversal: Upward move, consolidation, downward break",
	},
	{models.PatternOutside, models.PatternInside, models.PatternDirectionalUp}: {
		models.SetupBreakout, "3-1-2U", models.DirectionBullish,
		"Bullish breakout: Volatility expansion, consolidation, upward resolution",
	},
	{models.PatternOutside, models.PatternInside, models.PatternDirectionalDown}: {
		models.SetupBreakout, "3-1-2D", models.DirectionBearish,
		"Bearish breakout: Volatility expansion, consolidation, downward resolution",
	},
	{models.PatternInside, models.PatternDirectionalUp, models.PatternDirectionalUp}: {
		models.SetupContinuation, "1-2-2U", models.DirectionBullish,
		"Strong bullish momentum: Consolidation breakout with follow-through",
	},
	{models.PatternInside, models.PatternDirectionalDown, models.PatternDirectionalDown}: {
		models.SetupContinuation, "1-2-2D", models.DirectionBearish,
		"Strong bearish momentum: Consolidation breakdown with follow-through",
	},
}

// IdentifyClosedSetup matches the last three closed bars against the fixed setup table.
// Unlike PredictSetup it never reads past a closed three-bar window and returns nil for anything else.
func IdentifyClosedSetup(candles []models.ClassifiedCandle) *models.ActionableSetup {
	if len(candles) < 3 {
		return nil
	}
	last := candles[len(candles)-3:]
	key := [3]models.PatternType{last[0].PatternType, last[1].PatternType, last[2].PatternType}
	cs, ok := closedSetups[key]
	if !ok {
		return nil
	}
	third := last[2]
	trigger := third.Low
	if cs.direction == models.DirectionBullish {
		trigger = third.High
	}
	return &models.ActionableSetup{
		Pattern:      cs.pattern,
		Kind:         cs.kind,
		Direction:    cs.direction,
		Description:  cs.description,
		TriggerPrice: price(trigger),
	}
}
