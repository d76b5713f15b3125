package market

import (
	"sort"

	"github.com/samber/lo"

	"github.com/hectorportal/auction/core"
)

// TopTierSize is the number of richest bidders counted as top-tier liquidity.
const TopTierSize = 10

// Liquidity aggregates real buying power across the league. It is read-only input
// to the scarcity caps.
type Liquidity struct {
	Total       float64       `json:"total"`
	TopTier     float64       `json:"top_tier"`
	Competitive float64       `json:"competitive"`
	Ranked      []BuyingPower `json:"ranked"` // descending by real buying power
}

// AssessBidders computes buying power for every bidder. available returns the
// bidder's uncommitted capital.
func AssessBidders(bidders []core.Bidder, available func(core.Bidder) float64) []BuyingPower {
	return lo.Map(bidders, func(b core.Bidder, _ int) BuyingPower {
		return AssessBidder(b, available(b))
	})
}

// NewLiquidity ranks buying powers and computes the league subtotals.
func NewLiquidity(powers []BuyingPower) Liquidity {
	ranked := make([]BuyingPower, len(powers))
	copy(ranked, powers)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Real > ranked[j].Real
	})

	competitive := lo.Filter(ranked, func(p BuyingPower, _ int) bool {
		return p.Archetype != Rebuild
	})

	return Liquidity{
		Total:       core.AddMoney(lo.Map(ranked, realPower)...),
		TopTier:     core.AddMoney(lo.Map(top(ranked, TopTierSize), realPower)...),
		Competitive: core.AddMoney(lo.Map(competitive, realPower)...),
		Ranked:      ranked,
	}
}

// TopAverage returns the average real buying power of the n richest bidders, and
// false when there are no bidders to average.
func (l Liquidity) TopAverage(n int) (float64, bool) {
	cohort := top(l.Ranked, n)
	if len(cohort) == 0 {
		return 0, false
	}
	total := core.AddMoney(lo.Map(cohort, realPower)...)
	return core.ScaleMoney(total, 1/float64(len(cohort))), true
}

func top(ranked []BuyingPower, n int) []BuyingPower {
	if n <= 0 {
		return nil
	}
	return ranked[:min(n, len(ranked))]
}

func realPower(p BuyingPower, _ int) float64 {
	return p.Real
}
