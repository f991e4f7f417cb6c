package signals

import (
	"sort"

	"StratScan/internal/domain/models"
)

// Conviction thresholds for the response partitions.
const (
	SignalThreshold   = 40
	NearMissThreshold = 25
)

// GenerateSignal runs HTF bias confirmation and, only when it does not fire, inside compression.
// At most one signal is produced per market. The chop flag is informational.
func GenerateSignal(a models.MultiTimeframeAnalysis) *models.Signal {
	c := NewContext(a.Symbol, a.MarketID, a.Timeframes)
	chop := DetectChopAvoidance(c)

	if DetectHTFBiasConfirmation(c) {
		return newSignal(c, models.SignalHTFBiasConfirmation, directionFromBias(c.HTFBias), ScoreSignal(c), chop)
	}
	if ok, dir := DetectInsideCompression(c); ok {
		return newSignal(c, models.SignalInsideCompression, dir, ScoreInsideCompression(c), chop)
	}
	return nil
}

func newSignal(c Context, id models.SignalID, dir models.SignalDirection, conviction int, chop bool) *models.Signal {
	return &models.Signal{
		ID:               id,
		Name:             id.Name(),
		Symbol:           c.Symbol,
		MarketID:         c.MarketID,
		Direction:        dir,
		Conviction:       conviction,
		Reasons:          c.Reasons,
		SuppressedByChop: chop,
	}
}

// BuildResponse generates signals for every market and partitions them by conviction:
// at least 40 goes to Signals, 25 up to 40 to NearMisses, anything lower is dropped.
// Both lists are sorted by conviction, highest first, keeping input order on ties.
func BuildResponse(analyses []models.MultiTimeframeAnalysis) models.SignalResponse {
	res := models.EmptySignalResponse()
	for _, a := range analyses {
		s := GenerateSignal(a)
		if s == nil {
			continue
		}
		switch {
		case s.Conviction >= SignalThreshold:
			res.Signals = append(res.Signals, *s)
		case s.Conviction >= NearMissThreshold:
			res.NearMisses = append(res.NearMisses, *s)
		}
	}
	byConviction(res.Signals)
	byConviction(res.NearMisses)
	return res
}

func byConviction(s []models.Signal) {
	sort.SliceStable(s, func(i, j int) bool { return s[i].Conviction > s[j].Conviction })
}

// Engine exposes BuildResponse behind the domain SignalEngine interface.
type Engine struct{}

func NewEngine() *Engine { return &Engine{} }

func (Engine) BuildResponse(analyses []models.MultiTimeframeAnalysis) models.SignalResponse {
	return BuildResponse(analyses)
}
