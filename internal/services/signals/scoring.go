package signals

import (
	"math"

	"StratScan/internal/domain/models"
)

const (
	htfWeight       = 10.0
	ltfWeight       = 7.5
	alignmentBonus  = 15.0
	htfConflict     = 8.0
	ltfConflict     = 7.0
	qualityPenalty  = 5.0
	icBase          = 20.0
	icPerLTF        = 5.0
	icCleanHTFBonus = 5.0
	icErrorPenalty  = 10.0

	// IC conviction is pinned to the near-miss band.
	icMinConviction = 25
	icMaxConviction = 39
)

func clamp(v float64, lo, hi int) int {
	r := int(math.Round(v))
	if r < lo {
		return lo
	}
	if r > hi {
		return hi
	}
	return r
}

// ScoreSignal rates an HTF bias confirmation on a 0–100 scale.
// Perfect 4/4 HTF and 4/4 LTF alignment with no data problems scores 85.
func ScoreSignal(c Context) int {
	r := c.Reasons
	score := htfWeight*float64(max(r.HTFBullish, r.HTFBearish)) +
		ltfWeight*float64(max(r.LTFBullish, r.LTFBearish))

	if c.HTFBias != models.BiasMixed && c.HTFBias == c.LTFBias {
		score += alignmentBonus
	}
	if r.HTFBullish == 2 && r.HTFBearish == 2 {
		score -= htfConflict
	}
	if r.LTFBullish == 2 && r.LTFBearish == 2 {
		score -= ltfConflict
	}
	score -= qualityPenalty * float64(r.StaleCount+r.ErrorCount+r.MissingCount)
	return clamp(score, 0, 100)
}

// ScoreInsideCompression rates an inside-compression candidate. The result always lies in [25,39].
func ScoreInsideCompression(c Context) int {
	r := c.Reasons
	aligned, opposing := r.LTFBearish, r.HTFBullish
	if c.LTFBias == models.BiasUp {
		aligned, opposing = r.LTFBullish, r.HTFBearish
	}

	score := icBase + icPerLTF*float64(aligned)
	if opposing == 0 {
		score += icCleanHTFBonus
	}
	score -= qualityPenalty * float64(r.StaleCount)
	score -= icErrorPenalty * float64(r.ErrorCount)
	score -= qualityPenalty * float64(r.MissingCount)
	return clamp(score, icMinConviction, icMaxConviction)
}
