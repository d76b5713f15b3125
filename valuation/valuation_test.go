package valuation

import (
	"errors"
	"testing"
	"time"

	"github.com/hectorportal/auction/core"
	"github.com/peterldowns/testy/assert"
	"github.com/peterldowns/testy/check"
)

type scaleAdjuster struct {
	factor float64
	calls  int
}

func (s *scaleAdjuster) Adjust(_ core.Item, reference, _ float64, _ time.Time) float64 {
	s.calls++
	return reference * s.factor
}

func TestQualityScore(t *testing.T) {
	ctx := DefaultLeagueContext()

	tests := []struct {
		name      string
		quality   string
		potential string
		expected  float64
	}{
		{"potential lifts score", "80", "90", 82},
		{"missing potential is neutral", "70", "", 70},
		{"lower potential is neutral", "70", "50", 70},
		{"star ratings", "3 Stars", "4 Stars", 64},
		{"malformed quality", "??", "50", 10},
		{"both missing", "", "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := core.Item{ID: "p", Quality: tt.quality, Potential: tt.potential}
			check.Equal(t, tt.expected, QualityScore(item, ctx))
		})
	}
}

func TestValue_ReferencePrice(t *testing.T) {
	item := core.Item{ID: "p1", Position: "SS", Age: 24, Quality: "80", Potential: "90"}

	v := Value(item, DefaultLeagueContext())

	// 20 x 0.82 x 1.0 x 1.12 x 1.15
	check.Equal(t, "p1", v.ItemID)
	check.Equal(t, 82.0, v.QualityScore)
	check.Equal(t, 21.1232, v.ReferencePrice)
	check.Equal(t, 21.1232, v.AdjustedPrice)
	check.Equal(t, 25.3478, v.MaxPrice)
	check.Equal(t, 7.3931, v.StartingPrice)
}

func TestValue_LowQualityCap(t *testing.T) {
	// Young shortstop multipliers would price this at $8.7M without the hard cap
	item := core.Item{ID: "p2", Position: "SS", Age: 22, Quality: "30"}

	v := Value(item, DefaultLeagueContext())

	check.Equal(t, 30.0, v.QualityScore)
	check.Equal(t, 2.0, v.ReferencePrice)
	check.Equal(t, 2.4, v.MaxPrice)
	check.Equal(t, 0.7, v.StartingPrice)
}

func TestValue_MinimumPrice(t *testing.T) {
	item := core.Item{ID: "p3", Position: "MR", Age: 36, Quality: "10"}

	v := Value(item, DefaultLeagueContext())

	check.Equal(t, 0.5, v.ReferencePrice)
	check.Equal(t, 0.5, v.StartingPrice)
}

func TestValue_Deterministic(t *testing.T) {
	ctx := DefaultLeagueContext().WithAdjuster(&scaleAdjuster{factor: 0.9})
	item := core.Item{ID: "p4", Position: "2B/SS", Age: 27, Quality: "4.5 Stars", Potential: "5 Stars"}

	first := Value(item, ctx)
	second := Value(item, ctx)

	check.Equal(t, first, second)
}

func TestValue_AdjusterLowersPrice(t *testing.T) {
	adjuster := &scaleAdjuster{factor: 0.5}
	ctx := DefaultLeagueContext().WithAdjuster(adjuster)
	item := core.Item{ID: "p1", Position: "SS", Age: 24, Quality: "80", Potential: "90"}

	v := Value(item, ctx)

	check.Equal(t, 1, adjuster.calls)
	check.Equal(t, 21.1232, v.ReferencePrice)
	check.Equal(t, 10.5616, v.AdjustedPrice)
	check.Equal(t, 25.3478, v.MaxPrice)
	check.Equal(t, 3.6966, v.StartingPrice)
}

func TestValue_AdjusterNeverRaisesAboveReference(t *testing.T) {
	ctx := DefaultLeagueContext().WithAdjuster(&scaleAdjuster{factor: 3})
	item := core.Item{ID: "p1", Position: "SS", Age: 24, Quality: "80", Potential: "90"}

	v := Value(item, ctx)

	check.Equal(t, v.ReferencePrice, v.AdjustedPrice)
}

func TestValue_AdjusterRespectsFloor(t *testing.T) {
	ctx := DefaultLeagueContext().WithAdjuster(&scaleAdjuster{factor: 0})
	item := core.Item{ID: "p1", Position: "SS", Age: 24, Quality: "80"}

	v := Value(item, ctx)

	check.Equal(t, 0.5, v.AdjustedPrice)
}

func TestLeagueContext_WithAdjusterCopies(t *testing.T) {
	base := DefaultLeagueContext()
	adjusted := base.WithAdjuster(&scaleAdjuster{factor: 0.5})

	check.Nil(t, base.Adjuster())
	check.NotNil(t, adjusted.Adjuster())

	asOf := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	dated := base.WithAsOf(asOf)
	check.True(t, base.AsOf.IsZero())
	check.Equal(t, asOf, dated.AsOf)
}

func TestLeagueContext_Validate(t *testing.T) {
	assert.NoError(t, DefaultLeagueContext().Validate())

	tests := []struct {
		name   string
		mutate func(*LeagueContext)
	}{
		{"zero budget", func(c *LeagueContext) { c.ReferenceBudget = 0 }},
		{"fraction above one", func(c *LeagueContext) { c.BudgetReferenceFraction = 1.5 }},
		{"zero top tier", func(c *LeagueContext) { c.TopTierFraction = 0 }},
		{"negative potential weight", func(c *LeagueContext) { c.PotentialWeight = -0.1 }},
		{"floor above cap", func(c *LeagueContext) { c.MinPrice = 3 }},
		{"max factor below one", func(c *LeagueContext) { c.MaxPriceFactor = 0.8 }},
		{"zero starting fraction", func(c *LeagueContext) { c.StartingPriceFraction = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := DefaultLeagueContext()
			tt.mutate(&ctx)
			err := ctx.Validate()
			check.Error(t, err)
			check.True(t, errors.Is(err, ErrInvalidContext))
		})
	}
}
