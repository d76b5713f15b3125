package market

import (
	"github.com/hectorportal/auction/valuation"
)

// Tier buckets items by quality score for cap purposes.
type Tier int

const (
	TierLow Tier = iota
	TierMid
	TierElite
)

func (t Tier) String() string {
	switch t {
	case TierElite:
		return "elite"
	case TierMid:
		return "mid"
	default:
		return "low"
	}
}

const (
	EliteScore = 90
	MidScore   = 70

	eliteCohort = 5
	midCohort   = 15
)

// TierFor returns the cap tier of a quality score.
func TierFor(score float64) Tier {
	switch {
	case score >= EliteScore:
		return TierElite
	case score >= MidScore:
		return TierMid
	default:
		return TierLow
	}
}

// PositionWeights scales the market ceiling by position so relievers never cap at
// starter money.
var PositionWeights = map[string]float64{
	"SP": 1.00,
	"SS": 1.00,
	"CF": 1.00,
	"C":  0.95,
	"3B": 0.90,
	"2B": 0.90,
	"LF": 0.85,
	"RF": 0.85,
	"1B": 0.80,
	"DH": 0.75,
	"RP": 0.50,
	"CL": 0.60,
	"MR": 0.50,
	"SU": 0.55,
}

const defaultPositionWeight = 0.85

// PositionWeight returns the cap weight for a position; multi-position players take the max.
func PositionWeight(position string) float64 {
	best := 0.0
	for _, p := range valuation.SplitPositions(position) {
		w, ok := PositionWeights[p]
		if !ok {
			w = defaultPositionWeight
		}
		best = max(best, w)
	}
	if best == 0 {
		return defaultPositionWeight
	}
	return best
}
