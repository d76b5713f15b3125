package auction

import (
	"math"
	"time"

	"github.com/hectorportal/auction/agent"
	"github.com/hectorportal/auction/core"
)

// BidOutcome is the answer to PlaceBid. Rejections are outcomes, never errors.
type BidOutcome struct {
	Accepted   bool              `json:"accepted"`
	Reason     core.RejectReason `json:"reason,omitempty"`
	BidID      string            `json:"bid_id,omitempty"`
	Amount     float64           `json:"amount"`
	MinNextBid float64           `json:"min_next_bid"`
}

func rejected(reason core.RejectReason, minNext float64) BidOutcome {
	return BidOutcome{Reason: reason, MinNextBid: minNext}
}

// anySequence skips the stale-state check for externally submitted bids.
const anySequence = -1

// increment returns the minimum raise over top.
func (e *Engine) increment(top float64) float64 {
	if e.cfg.IncrementPercent > 0 {
		return core.ScaleMoney(top, e.cfg.IncrementPercent/100)
	}
	return e.cfg.MinIncrement
}

func (e *Engine) minNextBidLocked() float64 {
	if e.item == nil {
		return 0
	}
	return core.AddMoney(e.item.top.Amount, e.increment(e.item.top.Amount))
}

// MinNextBid returns the smallest acceptable bid on the open item, or 0.
func (e *Engine) MinNextBid() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.minNextBidLocked()
}

// PlaceBid submits a human bid on the open item.
func (e *Engine) PlaceBid(bidderID string, amount float64, at time.Time) BidOutcome {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.placeBidLocked(bidderID, amount, at, core.SourceHuman, anySequence)
}

func (e *Engine) placeBidLocked(bidderID string, amount float64, at time.Time, source core.BidSource, sequence int) BidOutcome {
	outcome := e.validateBidLocked(bidderID, amount, at, sequence)
	if !outcome.Accepted {
		itemID := ""
		if e.item != nil {
			itemID = e.item.lot.Item.ID
		}
		e.log.Debug("bid rejected", "item", itemID, "bidder", bidderID, "amount", amount,
			"source", source, "reason", outcome.Reason)
		e.observer.BidRejected(itemID, source, outcome.Reason)
		return outcome
	}

	bid := core.Bid{
		ID:        e.newID(),
		Bidder:    bidderID,
		Amount:    core.RoundMoney(amount),
		Source:    source,
		Timestamp: at,
	}
	e.item.history = append(e.item.history, bid)
	e.item.top = core.TopBid{Amount: bid.Amount, Bidder: bidderID}
	e.item.sequence++

	minNext := e.minNextBidLocked()
	e.log.Info("bid accepted", "item", e.item.lot.Item.ID, "bidder", bidderID,
		"amount", bid.Amount, "source", source, "min_next", minNext)
	e.observer.BidAccepted(e.item.lot.Item.ID, bid)

	return BidOutcome{Accepted: true, BidID: bid.ID, Amount: bid.Amount, MinNextBid: minNext}
}

func (e *Engine) validateBidLocked(bidderID string, amount float64, at time.Time, sequence int) BidOutcome {
	if e.state != StateInProgress {
		return rejected(core.ReasonNotInProgress, 0)
	}
	if e.item == nil {
		return rejected(core.ReasonNoOpenItem, 0)
	}
	// The countdown has run out; the item resolves on the next tick.
	if !e.item.deadline.IsZero() && !at.Before(e.item.deadline) {
		return rejected(core.ReasonNoOpenItem, 0)
	}

	minNext := e.minNextBidLocked()
	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount <= 0 {
		return rejected(core.ReasonMalformedAmount, minNext)
	}
	if _, ok := e.ledger.Bidder(bidderID); !ok {
		return rejected(core.ReasonUnknownBidder, minNext)
	}
	if sequence != anySequence && sequence != e.item.sequence {
		return rejected(core.ReasonStale, minNext)
	}
	if !core.AmountAtLeast(amount, minNext) {
		return rejected(core.ReasonBelowMinimum, minNext)
	}
	if reason := e.ledger.CheckBid(bidderID, amount); reason != core.ReasonNone {
		return rejected(reason, minNext)
	}
	return BidOutcome{Accepted: true}
}

func (e *Engine) offerLocked() agent.Offer {
	return agent.Offer{
		Item:       e.item.lot.Item,
		Valuation:  e.item.lot.Valuation,
		TopBid:     e.item.top,
		MinNextBid: e.minNextBidLocked(),
		Sequence:   e.item.sequence,
	}
}

// TriggerAgents runs one agent round on the open item and returns the number of
// accepted agent bids. It is the only way agents bid when the timer is disabled.
func (e *Engine) TriggerAgents(now time.Time) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != StateInProgress {
		return 0, ErrInvalidState
	}
	if e.item == nil {
		return 0, ErrNoOpenItem
	}
	return e.agentRoundLocked(now), nil
}

// agentRoundLocked collects intents from every agent and serializes them through
// the bid critical section. An intent computed against an older sequence is
// rejected as stale and its agent gets one retry against the current state.
func (e *Engine) agentRoundLocked(now time.Time) int {
	itemID := e.item.lot.Item.ID
	intents := e.pool.Collect(e.offerLocked(), e.ledger.State)

	accepted := 0
	for _, in := range intents {
		outcome := e.placeBidLocked(in.BidderID, in.Amount, now, core.SourceAgent, in.Sequence)
		if outcome.Reason == core.ReasonStale {
			outcome = e.retryLocked(in.BidderID, now)
		}
		if outcome.Accepted {
			accepted++
		}
	}

	if len(intents) > 0 {
		e.log.Debug("agent round", "item", itemID, "intents", len(intents), "accepted", accepted)
	}
	e.observer.AgentRound(itemID, len(intents), accepted)
	return accepted
}

func (e *Engine) retryLocked(bidderID string, now time.Time) BidOutcome {
	a, ok := e.pool.Agent(bidderID)
	if !ok {
		return rejected(core.ReasonUnknownBidder, e.minNextBidLocked())
	}
	state, ok := e.ledger.State(bidderID)
	if !ok {
		return rejected(core.ReasonUnknownBidder, e.minNextBidLocked())
	}
	offer := e.offerLocked()
	d := a.Decide(offer, state)
	if !d.Raises() {
		return BidOutcome{MinNextBid: offer.MinNextBid}
	}
	return e.placeBidLocked(bidderID, d.Amount, now, core.SourceAgent, offer.Sequence)
}
