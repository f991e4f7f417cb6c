package strat

import (
	"fmt"
	"strings"

	"StratScan/internal/domain/models"
)

// minPredictiveBars is the shortest series PredictSetup will read.
const minPredictiveBars = 3

// trigger is the last non-inside bar before a run of inside bars.
type trigger struct {
	bar         models.ClassifiedCandle
	found       bool
	insideCount int
}

// findTrigger walks backward from start, counting inside bars, until it meets a 2U, 2D or 3 bar.
// It never reads before index 0.
func findTrigger(candles []models.ClassifiedCandle, start int) trigger {
	var t trigger
	for i := start; i >= 0; i-- {
		switch p := candles[i].PatternType; {
		case p == models.PatternInside:
			t.insideCount++
		case p.IsDirectional() || p == models.PatternOutside:
			t.bar = candles[i]
			t.found = true
			return t
		}
	}
	return t
}

func price(v float64) *float64 { return &v }

// PredictSetup reads the forming (last) bar against the bars before it and returns the
// setup it belongs to, or nil when fewer than three bars are available.
func PredictSetup(candles []models.ClassifiedCandle) *models.ActionableSetup {
	if len(candles) < minPredictiveBars {
		return nil
	}
	current := candles[len(candles)-1]
	lastCompleted := candles[len(candles)-2]

	switch current.PatternType {
	case models.PatternInside:
		return predictInside(candles, current)
	case models.PatternDirectionalUp, models.PatternDirectionalDown:
		return predictDirectional(candles, current, lastCompleted)
	case models.PatternOutside:
		dir := models.DirectionOf(current.Candle)
		desc := "Range expansion with bearish close - weakness signal"
		if dir == models.DirectionBullish {
			desc = "Range expansion with bullish close - strength signal"
		}
		return &models.ActionableSetup{
			Pattern:     "Outside Bar",
			Direction:   dir,
			Description: desc,
			Confidence:  models.ConfidenceMedium,
		}
	default:
		return nil
	}
}

func predictInside(candles []models.ClassifiedCandle, current models.ClassifiedCandle) *models.ActionableSetup {
	t := findTrigger(candles, len(candles)-2)
	if t.found {
		ones := strings.Repeat("1", min(t.insideCount+1, 3))
		switch t.bar.PatternType {
		case models.PatternDirectionalUp:
			return &models.ActionableSetup{
				Pattern:      fmt.Sprintf("2U-%s Setup", ones),
				Direction:    models.DirectionBullish,
				Description:  fmt.Sprintf("Inside bar(s) forming after bullish move. Break above %.2f = bullish continuation", t.bar.High),
				Confidence:   models.ConfidenceHigh,
				TriggerPrice: price(t.bar.High),
			}
		case models.PatternDirectionalDown:
			return &models.ActionableSetup{
				Pattern:      fmt.Sprintf("2D-%s Setup", ones),
				Direction:    models.DirectionBearish,
				Description:  fmt.Sprintf("Inside bar(s) forming after bearish move. Break below %.2f = bearish continuation", t.bar.Low),
				Confidence:   models.ConfidenceHigh,
				TriggerPrice: price(t.bar.Low),
			}
		case models.PatternOutside:
			dir := models.DirectionOf(t.bar.Candle)
			level := t.bar.Low
			if dir == models.DirectionBullish {
				level = t.bar.High
			}
			return &models.ActionableSetup{
				Pattern:      fmt.Sprintf("3-%s Setup", ones),
				Direction:    dir,
				Description:  "Consolidation after range expansion. Breakout imminent",
				Confidence:   models.ConfidenceHigh,
				TriggerPrice: price(level),
			}
		}
	}
	return &models.ActionableSetup{
		Pattern:     "Inside Bar",
		Direction:   models.DirectionOf(current.Candle),
		Description: "Consolidation - watching for directional break",
		Confidence:  models.ConfidenceLow,
	}
}

// wording holds the text that differs between a 2U and a 2D forming bar.
type wording struct {
	label, opposite models.PatternType
	dir             models.Direction
	word, against   string
	momentum, trend string
	breakout, verb  string
	reversal, moved string
}

var (
	upWording = wording{
		label:    models.PatternDirectionalUp,
		opposite: models.PatternDirectionalDown,
		dir:      models.DirectionBullish,
		word:     "Bullish",
		against:  "Bearish",
		momentum: "Bullish Momentum",
		trend:    "Strong uptrend: consecutive higher highs",
		breakout: "3-1-2U Breakout",
		verb:     "breakout",
		reversal: "2D-1-2U Reversal",
		moved:    "broke up",
	}
	downWording = wording{
		label:    models.PatternDirectionalDown,
		opposite: models.PatternDirectionalUp,
		dir:      models.DirectionBearish,
		word:     "Bearish",
		against:  "Bullish",
		momentum: "Bearish Momentum",
		trend:    "Strong downtrend: consecutive lower lows",
		breakout: "3-1-2D Breakdown",
		verb:     "breakdown",
		reversal: "2U-1-2D Reversal",
		moved:    "broke down",
	}
)

func predictDirectional(candles []models.ClassifiedCandle, current, lastCompleted models.ClassifiedCandle) *models.ActionableSetup {
	w := upWording
	if current.PatternType == models.PatternDirectionalDown {
		w = downWording
	}

	if lastCompleted.PatternType == models.PatternInside {
		t := findTrigger(candles, len(candles)-2)
		broken := price(lastCompleted.High)
		if w.dir == models.DirectionBearish {
			broken = price(lastCompleted.Low)
		}
		if t.found {
			switch t.bar.PatternType {
			case w.opposite:
				return &models.ActionableSetup{
					Pattern:      w.reversal,
					Direction:    w.dir,
					Description:  fmt.Sprintf("%s reversal TRIGGERED! %s momentum reversed after inside bar", w.word, w.against),
					Confidence:   models.ConfidenceHigh,
					TriggerPrice: broken,
				}
			case w.label:
				return &models.ActionableSetup{
					Pattern:      fmt.Sprintf("%s-1-%s Continuation", w.label, w.label),
					Direction:    w.dir,
					Description:  fmt.Sprintf("%s continuation TRIGGERED! %d inside bar(s) %s", w.word, t.insideCount, w.moved),
					Confidence:   models.ConfidenceHigh,
					TriggerPrice: broken,
				}
			case models.PatternOutside:
				return &models.ActionableSetup{
					Pattern:      w.breakout,
					Direction:    w.dir,
					Description:  fmt.Sprintf("%s %s TRIGGERED from range expansion + consolidation", w.word, w.verb),
					Confidence:   models.ConfidenceHigh,
					TriggerPrice: broken,
				}
			}
		}
	}

	switch lastCompleted.PatternType {
	case w.opposite:
		return &models.ActionableSetup{
			Pattern:     "2-2 Reversal",
			Direction:   w.dir,
			Description: fmt.Sprintf("%s reversal ACTIVE! %s→%s momentum shift", w.word, w.against, w.word),
			Confidence:  models.ConfidenceHigh,
		}
	case w.label:
		return &models.ActionableSetup{
			Pattern:     w.momentum,
			Direction:   w.dir,
			Description: w.trend,
			Confidence:  models.ConfidenceMedium,
		}
	}
	return &models.ActionableSetup{
		Pattern:     fmt.Sprintf("%s Active", w.label),
		Direction:   w.dir,
		Description: fmt.Sprintf("%s bar, watching for continuation", w.word),
		Confidence:  models.ConfidenceLow,
	}
}
