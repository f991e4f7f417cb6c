package signals

import "StratScan/internal/domain/models"

// Context is everything the detectors and scorers read for one market.
type Context struct {
	Symbol     string
	MarketID   int
	Timeframes Timeframes
	HTFBias    models.Bias
	LTFBias    models.Bias
	Reasons    models.SignalReasons
}

// NewContext computes biases and reason counts for one market's timeframe states.
func NewContext(symbol string, marketID int, tfs Timeframes) Context {
	htf := ComputeHTFBias(tfs)
	ltf := ComputeLTFBias(tfs)
	return Context{
		Symbol:     symbol,
		MarketID:   marketID,
		Timeframes: tfs,
		HTFBias:    htf,
		LTFBias:    ltf,
		Reasons: models.SignalReasons{
			HTFBullish:   CountPattern(tfs, models.PatternDirectionalUp, ScopeHTF),
			HTFBearish:   CountPattern(tfs, models.PatternDirectionalDown, ScopeHTF),
			LTFBullish:   CountPattern(tfs, models.PatternDirectionalUp, ScopeLTF),
			LTFBearish:   CountPattern(tfs, models.PatternDirectionalDown, ScopeLTF),
			HTFInside:    CountPattern(tfs, models.PatternInside, ScopeHTF),
			HTFOutside:   CountPattern(tfs, models.PatternOutside, ScopeHTF),
			LTFInside:    CountPattern(tfs, models.PatternInside, ScopeLTF),
			LTFOutside:   CountPattern(tfs, models.PatternOutside, ScopeLTF),
			StaleCount:   CountStale(tfs, ScopeAll),
			ErrorCount:   CountError(tfs, ScopeAll),
			MissingCount: CountMissing(tfs, ScopeAll),
			HTFBias:      htf,
			LTFBias:      ltf,
		},
	}
}

// choppy: a 2/2 directional split, or at least two inside/outside bars.
func choppy(up, down, inside, outside int) bool {
	return (up == 2 && down == 2) || inside+outside >= 2
}

// DetectChopAvoidance reports whether both timeframe groups lack direction.
func DetectChopAvoidance(c Context) bool {
	r := c.Reasons
	return choppy(r.HTFBullish, r.HTFBearish, r.HTFInside, r.HTFOutside) &&
		choppy(r.LTFBullish, r.LTFBearish, r.LTFInside, r.LTFOutside)
}

// DetectHTFBiasConfirmation fires when at least 3 of 4 HTF and 3 of 4 LTF bars agree
// on the HTF bias and no HTF state is stale.
func DetectHTFBiasConfirmation(c Context) bool {
	if c.HTFBias == models.BiasMixed {
		return false
	}
	p := biasPattern(c.HTFBias)
	if CountPattern(c.Timeframes, p, ScopeHTF) < 3 {
		return false
	}
	if CountPattern(c.Timeframes, p, ScopeLTF) < 3 {
		return false
	}
	return CountStale(c.Timeframes, ScopeHTF) == 0
}

// DetectInsideCompression looks for HTF inside-bar compression with a strong,
// unopposed LTF push. It returns the breakout direction when detected.
func DetectInsideCompression(c Context) (bool, models.SignalDirection) {
	r := c.Reasons
	if r.HTFInside < 2 {
		return false, models.SignalNeutral
	}
	if c.HTFBias != models.BiasMixed && (r.HTFBullish >= 3 || r.HTFBearish >= 3) {
		return false, models.SignalNeutral
	}
	switch {
	case r.LTFBullish >= 3 && r.HTFBearish == 0:
		return true, models.SignalLong
	case r.LTFBearish >= 3 && r.HTFBullish == 0:
		return true, models.SignalShort
	default:
		return false, models.SignalNeutral
	}
}

// directionFromBias maps the HTF bias to a trade direction.
func directionFromBias(b models.Bias) models.SignalDirection {
	switch b {
	case models.BiasUp:
		return models.SignalLong
	case models.BiasDown:
		return models.SignalShort
	default:
		return models.SignalNeutral
	}
}
