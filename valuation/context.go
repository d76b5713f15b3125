package valuation

import (
	"errors"
	"fmt"
	"time"

	"github.com/hectorportal/auction/core"
)

// ErrInvalidContext is returned when a league context cannot produce prices.
var ErrInvalidContext = errors.New("invalid league context")

// PriceAdjuster adjusts a raw reference price for league-wide market conditions.
// Implementations must be pure: the same arguments always return the same price.
type PriceAdjuster interface {
	Adjust(item core.Item, reference, score float64, asOf time.Time) float64
}

// LeagueContext carries every weight the valuation model reads. It is a value:
// changing a weight means building a new context, never mutating a shared one.
type LeagueContext struct {
	ReferenceBudget         float64 // representative team budget, $M
	BudgetReferenceFraction float64 // share of ReferenceBudget a top player commands
	TopTierFraction         float64
	PotentialWeight         float64

	MinPrice            float64 // $M
	MinQualityThreshold float64 // scores below this are capped at LowQualityMaxPrice
	LowQualityMaxPrice  float64 // $M

	MaxPriceFactor        float64 // MaxPrice = reference x factor
	StartingPriceFraction float64 // opening price = adjusted price x fraction

	AsOf time.Time // valuation date passed to the adjuster

	adjuster PriceAdjuster
}

// DefaultLeagueContext returns the league defaults.
func DefaultLeagueContext() LeagueContext {
	return LeagueContext{
		ReferenceBudget:         100.0,
		BudgetReferenceFraction: 0.20,
		TopTierFraction:         1.0,
		PotentialWeight:         0.2,
		MinPrice:                0.5,
		MinQualityThreshold:     40,
		LowQualityMaxPrice:      2.0,
		MaxPriceFactor:          1.2,
		StartingPriceFraction:   0.35,
	}
}

// WithAdjuster returns a copy of the context that applies adjuster to every price.
func (c LeagueContext) WithAdjuster(adjuster PriceAdjuster) LeagueContext {
	c.adjuster = adjuster
	return c
}

// WithAsOf returns a copy of the context valued at asOf.
func (c LeagueContext) WithAsOf(asOf time.Time) LeagueContext {
	c.AsOf = asOf
	return c
}

// Adjuster returns the market adjuster, or nil when prices are unadjusted.
func (c LeagueContext) Adjuster() PriceAdjuster {
	return c.adjuster
}

// BudgetReferenceUnit is the price of a perfect-score player before multipliers.
func (c LeagueContext) BudgetReferenceUnit() float64 {
	return core.ScaleMoney(c.ReferenceBudget, c.BudgetReferenceFraction)
}

// Validate checks that the context can produce positive prices.
func (c LeagueContext) Validate() error {
	if c.ReferenceBudget <= 0 {
		return fmt.Errorf("%w: reference budget must be positive, got %.2f", ErrInvalidContext, c.ReferenceBudget)
	}
	if c.BudgetReferenceFraction <= 0 || c.BudgetReferenceFraction > 1 {
		return fmt.Errorf("%w: budget reference fraction must be in (0, 1], got %.2f", ErrInvalidContext, c.BudgetReferenceFraction)
	}
	if c.TopTierFraction <= 0 {
		return fmt.Errorf("%w: top tier fraction must be positive, got %.2f", ErrInvalidContext, c.TopTierFraction)
	}
	if c.PotentialWeight < 0 || c.PotentialWeight > 1 {
		return fmt.Errorf("%w: potential weight must be in [0, 1], got %.2f", ErrInvalidContext, c.PotentialWeight)
	}
	if c.MinPrice < 0 || c.LowQualityMaxPrice < c.MinPrice {
		return fmt.Errorf("%w: price floor %.2f must not exceed low-quality cap %.2f", ErrInvalidContext, c.MinPrice, c.LowQualityMaxPrice)
	}
	if c.MaxPriceFactor < 1 {
		return fmt.Errorf("%w: max price factor must be at least 1, got %.2f", ErrInvalidContext, c.MaxPriceFactor)
	}
	if c.StartingPriceFraction <= 0 || c.StartingPriceFraction > 1 {
		return fmt.Errorf("%w: starting price fraction must be in (0, 1], got %.2f", ErrInvalidContext, c.StartingPriceFraction)
	}
	return nil
}
