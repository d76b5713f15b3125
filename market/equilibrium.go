// Package market adjusts reference prices for league-wide liquidity, owner sentiment,
// positional scarcity and demand decay.
package market

import (
	"time"

	"github.com/hectorportal/auction/core"
	"github.com/hectorportal/auction/valuation"
)

const decayCohort = 3

// Equilibrium composes the scarcity cap and decay into a single price adjustment.
// It implements valuation.PriceAdjuster.
type Equilibrium struct {
	liquidity Liquidity
	decay     Decay
}

var _ valuation.PriceAdjuster = (*Equilibrium)(nil)

// NewEquilibrium builds an adjuster over a liquidity snapshot.
func NewEquilibrium(liquidity Liquidity, decay Decay) *Equilibrium {
	return &Equilibrium{liquidity: liquidity, decay: decay}
}

// Liquidity returns the snapshot the adjuster caps against.
func (e *Equilibrium) Liquidity() Liquidity {
	return e.liquidity
}

// Adjustment explains one price adjustment.
type Adjustment struct {
	Tier       Tier    `json:"tier"`
	Cap        float64 `json:"cap"`
	Capped     bool    `json:"capped"`
	Demand     float64 `json:"demand"`
	DecayPct   float64 `json:"decay_pct"`
	DecayFloor float64 `json:"decay_floor"` // ceiling demand is compared against
	Price      float64 `json:"price"`
}

// Cap returns the position-weighted ceiling for a score tier, and false when the
// tier is uncapped or there is no liquidity to cap against.
func (e *Equilibrium) Cap(position string, score float64) (float64, bool) {
	var cohort int
	switch TierFor(score) {
	case TierElite:
		cohort = eliteCohort
	case TierMid:
		cohort = midCohort
	default:
		return 0, false
	}
	avg, ok := e.liquidity.TopAverage(cohort)
	if !ok {
		return 0, false
	}
	return core.ScaleMoney(avg, PositionWeight(position)), true
}

// Explain computes decay(min(reference, cap)) and reports every intermediate value.
func (e *Equilibrium) Explain(item core.Item, reference, score float64, asOf time.Time) Adjustment {
	adj := Adjustment{Tier: TierFor(score), Price: reference}

	limit, capped := e.Cap(item.Position, score)
	if capped {
		adj.Cap = limit
		if !core.AmountAtMost(reference, limit) {
			adj.Capped = true
			adj.Price = limit
		}
	}

	adj.Demand = item.Demand
	if adj.Demand <= 0 {
		adj.Demand = reference
	}

	ceiling, ok := limit, capped
	if !capped {
		ceiling, ok = e.decayCeiling()
	}
	if !ok {
		return adj
	}
	adj.DecayFloor = ceiling
	if !core.AmountAtMost(adj.Demand, ceiling) {
		adj.DecayPct = e.decay.Percentage(asOf)
		adj.Price = e.decay.Apply(adj.Price, adj.Demand, ceiling, asOf)
	}
	return adj
}

// decayCeiling is the average buying power of the three richest bidders, used for
// uncapped tiers. Markets with fewer than three bidders never decay.
func (e *Equilibrium) decayCeiling() (float64, bool) {
	if len(e.liquidity.Ranked) < decayCohort {
		return 0, false
	}
	return e.liquidity.TopAverage(decayCohort)
}

// Adjust implements valuation.PriceAdjuster.
func (e *Equilibrium) Adjust(item core.Item, reference, score float64, asOf time.Time) float64 {
	return e.Explain(item, reference, score, asOf).Price
}
