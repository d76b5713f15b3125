package market

import (
	"time"

	"github.com/hectorportal/auction/core"
)

// Decay lowers unrealistic demands linearly once the market start date has passed.
type Decay struct {
	Start      time.Time
	RatePerDay float64
	MaxDecay   float64
}

// DefaultDecay returns the 2%-per-day, 50%-max decay starting at start.
func DefaultDecay(start time.Time) Decay {
	return Decay{Start: start, RatePerDay: 0.02, MaxDecay: 0.50}
}

// DaysPast returns the number of whole days asOf is past Start.
func (d Decay) DaysPast(asOf time.Time) int {
	if d.Start.IsZero() || !asOf.After(d.Start) {
		return 0
	}
	return int(asOf.Sub(d.Start) / (24 * time.Hour))
}

// Percentage returns the total decay fraction at asOf, bounded by MaxDecay.
// It is non-decreasing in asOf.
func (d Decay) Percentage(asOf time.Time) float64 {
	days := d.DaysPast(asOf)
	if days == 0 {
		return 0
	}
	return core.MinMoney(core.ScaleMoney(float64(days), d.RatePerDay), d.MaxDecay)
}

// Apply reduces price by the decay percentage when demand exceeds ceiling.
// Otherwise price is returned unchanged.
func (d Decay) Apply(price, demand, ceiling float64, asOf time.Time) float64 {
	if core.AmountAtMost(demand, ceiling) {
		return price
	}
	return core.ScaleMoney(price, 1-d.Percentage(asOf))
}
