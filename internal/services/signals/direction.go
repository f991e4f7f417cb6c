package signals

import "StratScan/internal/domain/models"

// Scope selects which timeframe group a count runs over.
type Scope int

const (
	ScopeHTF Scope = iota
	ScopeLTF
	ScopeAll
)

func (s Scope) timeframes() []models.Timeframe {
	switch s {
	case ScopeHTF:
		return models.HTFTimeframes
	case ScopeLTF:
		return models.LTFTimeframes
	default:
		return models.FTCTimeframes
	}
}

// Timeframes is one market's per-timeframe states. Absent keys are missing data.
type Timeframes map[models.Timeframe]models.TimeframeState

// CountPattern counts timeframes in scope whose last bar has the given pattern.
func CountPattern(tfs Timeframes, p models.PatternType, scope Scope) int {
	n := 0
	for _, tf := range scope.timeframes() {
		if st, ok := tfs[tf]; ok && st.PatternType == p {
			n++
		}
	}
	return n
}

// CountMissing counts timeframes that are absent or carry no pattern without being errors.
func CountMissing(tfs Timeframes, scope Scope) int {
	n := 0
	for _, tf := range scope.timeframes() {
		st, ok := tfs[tf]
		if !ok || (!st.HasError() && st.PatternType == models.PatternNone) {
			n++
		}
	}
	return n
}

func CountStale(tfs Timeframes, scope Scope) int {
	n := 0
	for _, tf := range scope.timeframes() {
		if st, ok := tfs[tf]; ok && st.Stale {
			n++
		}
	}
	return n
}

func CountError(tfs Timeframes, scope Scope) int {
	n := 0
	for _, tf := range scope.timeframes() {
		if st, ok := tfs[tf]; ok && st.HasError() {
			n++
		}
	}
	return n
}

// ComputeBias is 2U when 2U bars outnumber 2D bars in scope, 2D for the reverse, mixed on a tie.
func ComputeBias(tfs Timeframes, scope Scope) models.Bias {
	up := CountPattern(tfs, models.PatternDirectionalUp, scope)
	down := CountPattern(tfs, models.PatternDirectionalDown, scope)
	switch {
	case up > down:
		return models.BiasUp
	case down > up:
		return models.BiasDown
	default:
		return models.BiasMixed
	}
}

func ComputeHTFBias(tfs Timeframes) models.Bias { return ComputeBias(tfs, ScopeHTF) }

func ComputeLTFBias(tfs Timeframes) models.Bias { return ComputeBias(tfs, ScopeLTF) }

func biasPattern(b models.Bias) models.PatternType {
	switch b {
	case models.BiasUp:
		return models.PatternDirectionalUp
	case models.BiasDown:
		return models.PatternDirectionalDown
	default:
		return models.PatternNone
	}
}
