// Package valuation turns player attributes into a quality score and suggested prices.
package valuation

import (
	"github.com/hectorportal/auction/core"
)

// Valuation is the priced view of one item.
type Valuation struct {
	ItemID         string  `json:"item_id"`
	QualityScore   float64 `json:"quality_score"`   // 0-100
	ReferencePrice float64 `json:"reference_price"` // $M, before market adjustment
	AdjustedPrice  float64 `json:"adjusted_price"`  // $M, what agents bid against
	MaxPrice       float64 `json:"max_price"`
	StartingPrice  float64 `json:"starting_price"`
}

// QualityScore blends quality and potential onto one 0-100 score:
//
//	score = (1-w)*quality + w*max(quality, potential)
//
// Potential only ever lifts the score, so a missing potential rating is neutral.
func QualityScore(item core.Item, ctx LeagueContext) float64 {
	quality := ParseRating(item.Quality)
	potential := ParseRating(item.Potential)
	upside := max(quality, potential)

	w := ctx.PotentialWeight
	score := core.AddMoney(core.ScaleMoney(quality, 1-w), core.ScaleMoney(upside, w))
	return clampRating(score)
}

// ReferencePrice computes the unadjusted suggested price for a scored item.
func ReferencePrice(item core.Item, score float64, ctx LeagueContext) float64 {
	price := core.ScaleMoney(ctx.BudgetReferenceUnit(),
		score/maxRating,
		ctx.TopTierFraction,
		ScarcityFor(item.Position),
		AgeMultiplierFor(item.Age),
	)
	return applyFloors(price, score, ctx)
}

// applyFloors enforces the minimum price and the low-quality hard cap. The cap wins
// over every multiplier so marginal players never price above LowQualityMaxPrice.
func applyFloors(price, score float64, ctx LeagueContext) float64 {
	if !core.AmountAtLeast(price, ctx.MinPrice) {
		price = ctx.MinPrice
	}
	if score < ctx.MinQualityThreshold {
		price = core.MinMoney(price, ctx.LowQualityMaxPrice)
	}
	return core.RoundMoney(price)
}

// Value prices an item under ctx. It is pure: identical arguments give identical results.
func Value(item core.Item, ctx LeagueContext) Valuation {
	score := QualityScore(item, ctx)
	reference := ReferencePrice(item, score, ctx)

	adjusted := reference
	if adjuster := ctx.Adjuster(); adjuster != nil {
		adjusted = applyFloors(core.MinMoney(adjuster.Adjust(item, reference, score, ctx.AsOf), reference), score, ctx)
	}

	starting := core.ScaleMoney(adjusted, ctx.StartingPriceFraction)
	if !core.AmountAtLeast(starting, ctx.MinPrice) {
		starting = ctx.MinPrice
	}

	return Valuation{
		ItemID:         item.ID,
		QualityScore:   score,
		ReferencePrice: reference,
		AdjustedPrice:  adjusted,
		MaxPrice:       core.ScaleMoney(reference, ctx.MaxPriceFactor),
		StartingPrice:  starting,
	}
}
