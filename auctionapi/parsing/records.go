package parsing

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/hectorportal/auction/auctionapi"
	"github.com/hectorportal/auction/core"
)

// League defaults applied to bidder records that leave a field unset.
const (
	DefaultBudget           = 100.0
	DefaultRosterMin        = 18
	DefaultRosterMax        = 25
	DefaultMinSpendFraction = 0.75
)

var (
	ErrMissingID   = errors.New("record has no id")
	ErrDuplicateID = errors.New("duplicate record id")
	ErrControlMode = errors.New("unknown control mode")
)

// ParseAge reads an age like "27", "27.5" or "27 years". Anything unreadable, and
// non-positive ages, give auctionapi.DefaultAge.
func ParseAge(raw string) int {
	fields := strings.Fields(raw)
	if len(fields) == 0 {
		return auctionapi.DefaultAge
	}
	value, err := strconv.ParseFloat(fields[0], 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) || value < 1 {
		return auctionapi.DefaultAge
	}
	return int(value)
}

// ParseAmount reads a $M amount like "12.5", "$12.5M" or "1,250". Malformed input gives 0.
func ParseAmount(raw string) float64 {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "$")
	s = strings.TrimSuffix(strings.TrimSuffix(s, "M"), "m")
	s = strings.ReplaceAll(s, ",", "")
	value, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) || value < 0 {
		return 0
	}
	return value
}

// ItemFromRecord converts an ingestion record. Rating text is carried through untouched;
// the valuation model scores it and treats malformed ratings as zero.
func ItemFromRecord(rec auctionapi.ItemRecord) (core.Item, error) {
	id := strings.TrimSpace(rec.ID)
	if id == "" {
		return core.Item{}, fmt.Errorf("item %q: %w", rec.Name, ErrMissingID)
	}
	name := strings.TrimSpace(rec.Name)
	if name == "" {
		name = id
	}
	return core.Item{
		ID:        id,
		Name:      name,
		Position:  strings.ToUpper(strings.TrimSpace(rec.Position)),
		Age:       ParseAge(rec.Age),
		Quality:   rec.Quality,
		Potential: rec.Potential,
		Demand:    ParseAmount(rec.Demand),
		Stats:     rec.Stats,
	}, nil
}

// Items converts a batch of item records, rejecting missing and duplicate IDs.
func Items(records []auctionapi.ItemRecord) ([]core.Item, error) {
	seen := make(map[string]bool, len(records))
	items := make([]core.Item, 0, len(records))
	for _, rec := range records {
		item, err := ItemFromRecord(rec)
		if err != nil {
			return nil, err
		}
		if seen[item.ID] {
			return nil, fmt.Errorf("item %s: %w", item.ID, ErrDuplicateID)
		}
		seen[item.ID] = true
		items = append(items, item)
	}
	return items, nil
}

// BidderFromRecord converts a league configuration entry, filling unset fields with the
// league defaults. Budgets that are explicitly set are passed through as given so the
// ledger can reject non-positive ones at setup.
func BidderFromRecord(rec auctionapi.BidderRecord) (core.Bidder, error) {
	id := strings.TrimSpace(rec.ID)
	if id == "" {
		return core.Bidder{}, fmt.Errorf("bidder %q: %w", rec.Name, ErrMissingID)
	}

	control, err := parseControl(rec.Control)
	if err != nil {
		return core.Bidder{}, fmt.Errorf("bidder %s: %w", id, err)
	}

	b := core.Bidder{
		ID:               id,
		Name:             strings.TrimSpace(rec.Name),
		Budget:           DefaultBudget,
		RosterMin:        DefaultRosterMin,
		RosterMax:        DefaultRosterMax,
		MinSpendFraction: DefaultMinSpendFraction,
		Control:          control,
		Market: core.MarketSignals{
			WinPct:      rec.WinPct,
			Mode:        rec.Mode,
			FanInterest: rec.FanInterest,
		},
	}
	if b.Name == "" {
		b.Name = id
	}
	if rec.Budget != nil {
		b.Budget = *rec.Budget
	}
	if rec.RosterMin > 0 {
		b.RosterMin = rec.RosterMin
	}
	if rec.RosterMax > 0 {
		b.RosterMax = rec.RosterMax
	}
	if rec.MinSpendFraction > 0 {
		b.MinSpendFraction = rec.MinSpendFraction
	}
	if control == core.ControlAgent {
		b.Strategy = core.StrategyBalanced
		if s := strings.ToLower(strings.TrimSpace(rec.Strategy)); s != "" {
			b.Strategy = core.StrategyTag(s)
		}
	}
	return b, nil
}

// Bidders converts a batch of bidder records, rejecting missing and duplicate IDs.
func Bidders(records []auctionapi.BidderRecord) ([]core.Bidder, error) {
	seen := make(map[string]bool, len(records))
	bidders := make([]core.Bidder, 0, len(records))
	for _, rec := range records {
		b, err := BidderFromRecord(rec)
		if err != nil {
			return nil, err
		}
		if seen[b.ID] {
			return nil, fmt.Errorf("bidder %s: %w", b.ID, ErrDuplicateID)
		}
		seen[b.ID] = true
		bidders = append(bidders, b)
	}
	return bidders, nil
}

func parseControl(raw string) (core.ControlMode, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", string(core.ControlAgent), "ai", "cpu":
		return core.ControlAgent, nil
	case string(core.ControlHuman), "user":
		return core.ControlHuman, nil
	default:
		return "", fmt.Errorf("%w %q", ErrControlMode, raw)
	}
}
