package market

import (
	"strings"

	"github.com/hectorportal/auction/core"
)

// Archetype classifies how an owner approaches free agency.
type Archetype string

const (
	Rebuild     Archetype = "Rebuild"
	Competitive Archetype = "Competitive"
	WinNow      Archetype = "Win Now"
	Dynasty     Archetype = "Dynasty"
)

// SentimentRange is the spend-willingness band of an archetype.
type SentimentRange struct {
	Min float64
	Max float64
}

// SentimentRanges maps each archetype to its multiplier band.
var SentimentRanges = map[Archetype]SentimentRange{
	Rebuild:     {Min: 0.10, Max: 0.25},
	Competitive: {Min: 0.26, Max: 0.55},
	WinNow:      {Min: 0.56, Max: 0.95},
	Dynasty:     {Min: 1.00, Max: 2.00},
}

const (
	OverBudgetMultiplier = 0.05
	MinSentiment         = 0.05
	MaxSentiment         = 2.0

	TopPerformerWinPct = 0.617
	TopPerformerBonus  = 1.25

	defaultWinPct = 0.500

	// Win percentage breakpoints used to classify and interpolate.
	rebuildWinPct    = 0.432
	contenderWinPct  = 0.506
	eliteWinPct      = 0.580
	rebuildFloorPct  = 0.400
	rebuildAnchorPct = 0.350

	dynastyFanInterest = 80
)

// Mode returns the owner's declared mode, falling back to the agent strategy tag
// when the mode is missing.
func Mode(bidder core.Bidder) string {
	if mode := strings.TrimSpace(bidder.Market.Mode); mode != "" {
		return strings.ToLower(mode)
	}
	switch bidder.Strategy {
	case core.StrategyAggressive:
		return "win now"
	case core.StrategyConservative:
		return "rebuild"
	default:
		return "neutral"
	}
}

func winPct(signals core.MarketSignals) float64 {
	if signals.WinPct <= 0 {
		return defaultWinPct
	}
	return signals.WinPct
}

// Classify determines a bidder's archetype. A negative budgetSpace (over budget)
// always classifies as Rebuild.
func Classify(bidder core.Bidder, budgetSpace float64) Archetype {
	if budgetSpace < 0 {
		return Rebuild
	}

	pct := winPct(bidder.Market)
	mode := Mode(bidder)

	switch {
	case pct > eliteWinPct && strings.Contains(mode, "dynasty") && bidder.Market.FanInterest > dynastyFanInterest:
		return Dynasty
	case pct > contenderWinPct && (strings.Contains(mode, "win now") || pct > eliteWinPct):
		return WinNow
	case pct < rebuildWinPct || strings.Contains(mode, "rebuild"):
		return Rebuild
	default:
		return Competitive
	}
}

// SentimentMultiplier maps an archetype to a spend-willingness multiplier. The
// position inside the archetype's band follows win percentage, or fan interest
// for dynasties. Over-budget owners get OverBudgetMultiplier; recent top performers
// get TopPerformerBonus. The result is clamped to [MinSentiment, MaxSentiment].
func SentimentMultiplier(archetype Archetype, bidder core.Bidder, budgetSpace float64) float64 {
	if budgetSpace < 0 {
		return OverBudgetMultiplier
	}

	band, ok := SentimentRanges[archetype]
	if !ok {
		band = SentimentRanges[Competitive]
	}
	pct := winPct(bidder.Market)

	var multiplier float64
	switch archetype {
	case Rebuild:
		if pct < rebuildFloorPct {
			multiplier = band.Min
		} else {
			multiplier = interpolate(band, pct, rebuildAnchorPct, rebuildWinPct)
		}
	case WinNow:
		multiplier = interpolate(band, pct, contenderWinPct, TopPerformerWinPct)
	case Dynasty:
		boost := 0.0
		switch {
		case bidder.Market.FanInterest > 90:
			boost = 0.4
		case bidder.Market.FanInterest > 85:
			boost = 0.2
		}
		multiplier = min(band.Max, (band.Min+band.Max)/2+boost)
	default:
		multiplier = interpolate(band, pct, rebuildWinPct, eliteWinPct)
	}

	if pct > TopPerformerWinPct && (archetype == WinNow || archetype == Dynasty) {
		multiplier *= TopPerformerBonus
	}
	return clampSentiment(core.RoundMoney(multiplier))
}

func interpolate(band SentimentRange, value, low, high float64) float64 {
	frac := (value - low) / (high - low)
	frac = min(1.0, max(0.0, frac))
	return band.Min + (band.Max-band.Min)*frac
}

func clampSentiment(m float64) float64 {
	return min(MaxSentiment, max(MinSentiment, m))
}

// BuyingPower is what a bidder will actually spend in the current market.
type BuyingPower struct {
	BidderID     string    `json:"bidder_id"`
	Available    float64   `json:"available"`
	Archetype    Archetype `json:"archetype"`
	Multiplier   float64   `json:"multiplier"`
	Real         float64   `json:"real"`
	TopPerformer bool      `json:"top_performer"`
}

// AssessBidder computes real buying power: available capital times sentiment.
// available is the uncommitted budget; budgetSpace below zero marks an over-budget owner.
func AssessBidder(bidder core.Bidder, available float64) BuyingPower {
	archetype := Classify(bidder, available)
	multiplier := SentimentMultiplier(archetype, bidder, available)
	return BuyingPower{
		BidderID:     bidder.ID,
		Available:    available,
		Archetype:    archetype,
		Multiplier:   multiplier,
		Real:         core.ScaleMoney(max(available, 0), multiplier),
		TopPerformer: winPct(bidder.Market) > TopPerformerWinPct && (archetype == WinNow || archetype == Dynasty),
	}
}
