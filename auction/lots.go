package auction

import (
	"github.com/samber/lo"

	"github.com/hectorportal/auction/core"
	"github.com/hectorportal/auction/ledger"
	"github.com/hectorportal/auction/market"
	"github.com/hectorportal/auction/valuation"
)

// Lot is a queued item with its valuation.
type Lot struct {
	Item      core.Item           `json:"item"`
	Valuation valuation.Valuation `json:"valuation"`
}

// PriceLots values every item under ctx, keeping input order.
func PriceLots(items []core.Item, ctx valuation.LeagueContext) []Lot {
	return lo.Map(items, func(item core.Item, _ int) Lot {
		return Lot{Item: item, Valuation: valuation.Value(item, ctx)}
	})
}

// MarketContext returns a copy of base that adjusts prices for the buying power
// of the ledger's bidders.
func MarketContext(base valuation.LeagueContext, l *ledger.Ledger, decay market.Decay) valuation.LeagueContext {
	powers := market.AssessBidders(l.Bidders(), func(b core.Bidder) float64 {
		return l.Remaining(b.ID)
	})
	return base.WithAdjuster(market.NewEquilibrium(market.NewLiquidity(powers), decay))
}

// orderLots sorts lots by descending quality score; equal scores keep input order.
func orderLots(lots []Lot) []Lot {
	scores := lo.Map(lots, func(l Lot, _ int) float64 { return l.Valuation.QualityScore })
	return lo.Map(core.OrderByScore(scores), func(i int, _ int) Lot { return lots[i] })
}
