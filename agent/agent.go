// Package agent implements rule-based bidders. An agent never mutates the ledger;
// it only proposes raises for the engine to validate.
package agent

import (
	"github.com/hectorportal/auction/core"
	"github.com/hectorportal/auction/ledger"
	"github.com/hectorportal/auction/valuation"
)

// ExceptionalScore lets an agent bid on a position it has already filled.
const ExceptionalScore = 80

// Offer is what an agent sees of the open item.
type Offer struct {
	Item       core.Item
	Valuation  valuation.Valuation
	TopBid     core.TopBid
	MinNextBid float64
	Sequence   int // bid sequence the offer was built from
}

// Action is the outcome of a decision.
type Action int

const (
	ActionPass Action = iota
	ActionRaise
)

// PassReason explains why an agent passed.
type PassReason string

const (
	PassNoStrategy   PassReason = "no_strategy"
	PassHoldsTopBid  PassReason = "holds_top_bid"
	PassRosterFull   PassReason = "roster_full"
	PassBelowFloor   PassReason = "below_quality_floor"
	PassNeedFilled   PassReason = "need_filled"
	PassOverCeiling  PassReason = "over_ceiling"
	PassSatOut       PassReason = "sat_out"
	PassInvalidOffer PassReason = "invalid_offer"
)

// Decision is an agent's answer to an offer.
type Decision struct {
	Action Action
	Amount float64
	Reason PassReason
}

// Pass returns a pass decision.
func Pass(reason PassReason) Decision {
	return Decision{Action: ActionPass, Reason: reason}
}

// RaiseTo returns a raise decision.
func RaiseTo(amount float64) Decision {
	return Decision{Action: ActionRaise, Amount: amount}
}

// Raises reports whether the decision is a raise.
func (d Decision) Raises() bool {
	return d.Action == ActionRaise
}

// Agent bids on behalf of one agent-controlled bidder.
type Agent struct {
	bidder     core.Bidder
	strategy   Strategy
	err        error
	randSource core.RandSource
}

// New builds an agent. A bidder with an unknown or invalid strategy still gets an
// agent, one that always passes; Err reports why.
func New(bidder core.Bidder, randSource core.RandSource) *Agent {
	if randSource == nil {
		randSource = core.DefaultRandSource()
	}
	strategy, err := StrategyFor(bidder.Strategy)
	return &Agent{bidder: bidder, strategy: strategy, err: err, randSource: randSource}
}

// NewWithStrategy builds an agent around a custom strategy record.
func NewWithStrategy(bidder core.Bidder, strategy Strategy, randSource core.RandSource) *Agent {
	if randSource == nil {
		randSource = core.DefaultRandSource()
	}
	return &Agent{bidder: bidder, strategy: strategy, err: strategy.Validate(), randSource: randSource}
}

// ID returns the bidder id the agent acts for.
func (a *Agent) ID() string {
	return a.bidder.ID
}

// Strategy returns the agent's strategy record.
func (a *Agent) Strategy() Strategy {
	return a.strategy
}

// Err returns the configuration error that degraded the agent to always-pass.
func (a *Agent) Err() error {
	return a.err
}

// Ceiling returns the most the agent will pay for the offered item: the tightest of
// the strategy's price ceiling, its per-item share of remaining budget, and the
// ledger's affordable maximum.
func (a *Agent) Ceiling(offer Offer, state ledger.AccountState) float64 {
	byPrice := core.ScaleMoney(offer.Valuation.AdjustedPrice, a.strategy.CeilingPct)
	byBudget := core.ScaleMoney(state.Remaining, a.strategy.ItemBudgetPct)
	return core.MinMoney(core.MinMoney(byPrice, byBudget), state.MaxAffordable)
}

// Decide returns a pass or a raise to exactly offer.MinNextBid.
func (a *Agent) Decide(offer Offer, state ledger.AccountState) Decision {
	if a.err != nil {
		return Pass(PassNoStrategy)
	}
	if offer.MinNextBid <= 0 {
		return Pass(PassInvalidOffer)
	}
	if offer.TopBid.Bidder == a.bidder.ID {
		return Pass(PassHoldsTopBid)
	}
	if state.RosterFull() {
		return Pass(PassRosterFull)
	}

	score := offer.Valuation.QualityScore
	if score < a.strategy.QualityFloor {
		return Pass(PassBelowFloor)
	}
	if score < ExceptionalScore && NeedFilled(offer.Item.Position, state.Acquisitions) {
		return Pass(PassNeedFilled)
	}
	if !core.AmountAtMost(offer.MinNextBid, a.Ceiling(offer, state)) {
		return Pass(PassOverCeiling)
	}
	if a.sitsOut() {
		return Pass(PassSatOut)
	}
	return RaiseTo(offer.MinNextBid)
}

// sitsOut draws the random participation pass.
func (a *Agent) sitsOut() bool {
	threshold := int(a.strategy.PassProbability * 100)
	if threshold <= 0 {
		return false
	}
	return a.randSource.Intn(100) < threshold
}
