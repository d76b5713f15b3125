package agent

import (
	"errors"
	"testing"

	"github.com/hectorportal/auction/core"
	"github.com/hectorportal/auction/ledger"
	"github.com/hectorportal/auction/valuation"
	"github.com/peterldowns/testy/check"
)

// mockRandSource provides a deterministic random source for testing
type mockRandSource struct {
	sequence []int
	index    int
}

func (m *mockRandSource) Intn(n int) int {
	if m.index >= len(m.sequence) {
		return n - 1
	}
	val := m.sequence[m.index] % n
	m.index++
	return val
}

// neverSitsOut draws 99 for every participation roll.
func neverSitsOut() *mockRandSource {
	return &mockRandSource{}
}

func agentBidder(id string, strategy core.StrategyTag) core.Bidder {
	return core.Bidder{
		ID:        id,
		Budget:    100,
		RosterMin: 0,
		RosterMax: 25,
		Control:   core.ControlAgent,
		Strategy:  strategy,
	}
}

func testOffer(position string, score, price, minNext float64) Offer {
	return Offer{
		Item:       core.Item{ID: "p1", Position: position},
		Valuation:  valuation.Valuation{ItemID: "p1", QualityScore: score, ReferencePrice: price, AdjustedPrice: price},
		TopBid:     core.TopBid{Amount: minNext - 0.5, Bidder: "BOS"},
		MinNextBid: minNext,
		Sequence:   3,
	}
}

func openState() ledger.AccountState {
	return ledger.AccountState{
		BidderID:      "NYY",
		Budget:        100,
		Remaining:     100,
		MaxAffordable: 95,
		RosterMin:     5,
		RosterMax:     25,
	}
}

func TestStrategyRecords(t *testing.T) {
	tests := []struct {
		tag     core.StrategyTag
		floor   float64
		ceiling float64
	}{
		{core.StrategyAggressive, 55, 1.10},
		{core.StrategyBalanced, 45, 0.95},
		{core.StrategyConservative, 40, 0.85},
	}

	for _, tt := range tests {
		s, err := StrategyFor(tt.tag)
		check.NoError(t, err)
		check.Equal(t, tt.floor, s.QualityFloor)
		check.Equal(t, tt.ceiling, s.CeilingPct)
		check.Equal(t, 0.40, s.ItemBudgetPct)
		check.Equal(t, 0.10, s.PassProbability)
	}

	_, err := StrategyFor("reckless")
	check.True(t, errors.Is(err, ErrInvalidStrategy))
}

func TestDecide(t *testing.T) {
	filledShortstop := openState()
	filledShortstop.Acquisitions = []ledger.Acquisition{{ItemID: "x", Position: "SS", Price: 5}}

	fullRoster := openState()
	fullRoster.RosterSize = 25

	shortOnCash := openState()
	shortOnCash.Remaining = 30
	shortOnCash.MaxAffordable = 25

	reserveBound := openState()
	reserveBound.MaxAffordable = 8

	tests := []struct {
		name     string
		strategy core.StrategyTag
		offer    Offer
		state    ledger.AccountState
		expected Decision
	}{
		{"raises to minimum next bid", core.StrategyAggressive, testOffer("SS", 85, 20, 10.5), openState(), RaiseTo(10.5)},
		{"aggressive ceiling is 110%", core.StrategyAggressive, testOffer("SS", 85, 20, 22), openState(), RaiseTo(22)},
		{"above aggressive ceiling", core.StrategyAggressive, testOffer("SS", 85, 20, 22.5), openState(), Pass(PassOverCeiling)},
		{"balanced ceiling is 95%", core.StrategyBalanced, testOffer("SS", 85, 20, 19.5), openState(), Pass(PassOverCeiling)},
		{"conservative ceiling is 85%", core.StrategyConservative, testOffer("SS", 85, 20, 17), openState(), RaiseTo(17)},
		{"per-item budget cap", core.StrategyAggressive, testOffer("SS", 85, 20, 12.5), shortOnCash, Pass(PassOverCeiling)},
		{"ledger reserve is tighter", core.StrategyAggressive, testOffer("SS", 85, 20, 8.5), reserveBound, Pass(PassOverCeiling)},
		{"below aggressive floor", core.StrategyAggressive, testOffer("SS", 50, 20, 5), openState(), Pass(PassBelowFloor)},
		{"balanced bids above its floor", core.StrategyBalanced, testOffer("SS", 50, 20, 5), openState(), RaiseTo(5)},
		{"need filled", core.StrategyAggressive, testOffer("SS", 75, 20, 5), filledShortstop, Pass(PassNeedFilled)},
		{"exceptional override", core.StrategyAggressive, testOffer("SS", 85, 20, 5), filledShortstop, RaiseTo(5)},
		{"multi-position need still open", core.StrategyAggressive, testOffer("2B/SS", 75, 20, 5), filledShortstop, RaiseTo(5)},
		{"roster full", core.StrategyAggressive, testOffer("SS", 95, 20, 5), fullRoster, Pass(PassRosterFull)},
		{"no offer price", core.StrategyAggressive, testOffer("SS", 95, 20, 0), openState(), Pass(PassInvalidOffer)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := New(agentBidder("NYY", tt.strategy), neverSitsOut())
			check.Equal(t, tt.expected, a.Decide(tt.offer, tt.state))
		})
	}
}

func TestDecide_NeverRaisesOwnTopBid(t *testing.T) {
	a := New(agentBidder("NYY", core.StrategyAggressive), neverSitsOut())
	offer := testOffer("SS", 95, 20, 5)
	offer.TopBid.Bidder = "NYY"

	check.Equal(t, Pass(PassHoldsTopBid), a.Decide(offer, openState()))
}

func TestDecide_RandomPass(t *testing.T) {
	rng := &mockRandSource{sequence: []int{5, 10, 9}}
	a := New(agentBidder("NYY", core.StrategyAggressive), rng)
	offer := testOffer("SS", 85, 20, 10)

	check.Equal(t, Pass(PassSatOut), a.Decide(offer, openState()))
	check.Equal(t, RaiseTo(10), a.Decide(offer, openState()))
	check.Equal(t, Pass(PassSatOut), a.Decide(offer, openState()))
}

func TestDecide_NoDrawWhenPassingForOtherReasons(t *testing.T) {
	rng := &mockRandSource{sequence: []int{5}}
	a := New(agentBidder("NYY", core.StrategyAggressive), rng)

	a.Decide(testOffer("SS", 30, 20, 5), openState())

	check.Equal(t, 0, rng.index)
}

func TestDecide_UnknownStrategyAlwaysPasses(t *testing.T) {
	a := New(agentBidder("NYY", "reckless"), neverSitsOut())

	check.Error(t, a.Err())
	check.Equal(t, Pass(PassNoStrategy), a.Decide(testOffer("SS", 99, 50, 1), openState()))
}

func TestNewWithStrategy_InvalidRecordPasses(t *testing.T) {
	a := NewWithStrategy(agentBidder("NYY", "custom"), Strategy{Tag: "custom", QualityFloor: 10, CeilingPct: 0, ItemBudgetPct: 0.4}, neverSitsOut())

	check.True(t, errors.Is(a.Err(), ErrInvalidStrategy))
	check.False(t, a.Decide(testOffer("SS", 99, 50, 1), openState()).Raises())
}

// A quality-30 player is below every built-in floor.
func TestDecide_LowQualityItem(t *testing.T) {
	aggressive := New(agentBidder("NYY", core.StrategyAggressive), neverSitsOut())
	conservative := New(agentBidder("TB", core.StrategyConservative), neverSitsOut())
	offer := testOffer("1B", 30, 2, 1.0)

	check.Equal(t, Pass(PassBelowFloor), aggressive.Decide(offer, openState()))
	check.Equal(t, Pass(PassBelowFloor), conservative.Decide(offer, openState()))
}

func TestCeiling(t *testing.T) {
	a := New(agentBidder("NYY", core.StrategyBalanced), neverSitsOut())
	state := openState()
	state.Remaining = 50

	// min(20 x 0.95, 50 x 0.40, 95)
	check.Equal(t, 19.0, a.Ceiling(testOffer("SS", 85, 20, 1), state))

	state.Remaining = 40
	check.Equal(t, 16.0, a.Ceiling(testOffer("SS", 85, 20, 1), state))
}
