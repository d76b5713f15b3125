package ledger

import (
	"github.com/hectorportal/auction/core"
)

// AccountState is a read-only copy of one account. Agents decide against it; it is
// never written back.
type AccountState struct {
	BidderID      string        `json:"bidder_id"`
	Budget        float64       `json:"budget"`
	Spent         float64       `json:"spent"`
	Remaining     float64       `json:"remaining"`
	Reserve       float64       `json:"reserve"`
	MaxAffordable float64       `json:"max_affordable"`
	RosterSize    int           `json:"roster_size"`
	RosterMin     int           `json:"roster_min"`
	RosterMax     int           `json:"roster_max"`
	Acquisitions  []Acquisition `json:"acquisitions"`
}

// RosterFull reports whether the bidder is at maximum roster size.
func (s AccountState) RosterFull() bool {
	return s.RosterSize >= s.RosterMax
}

// SlotsLeft returns the remaining roster capacity.
func (s AccountState) SlotsLeft() int {
	return max(0, s.RosterMax-s.RosterSize)
}

// State returns a snapshot of a bidder's account.
func (l *Ledger) State(id string) (AccountState, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	a, ok := l.accounts[id]
	if !ok {
		return AccountState{}, false
	}
	return l.stateOf(a), true
}

func (l *Ledger) stateOf(a *account) AccountState {
	acquisitions := make([]Acquisition, len(a.acquisitions))
	copy(acquisitions, a.acquisitions)
	return AccountState{
		BidderID:      a.bidder.ID,
		Budget:        a.bidder.Budget,
		Spent:         a.spent,
		Remaining:     core.SubMoney(a.bidder.Budget, a.spent),
		Reserve:       l.reserve(a),
		MaxAffordable: l.maxAffordable(a),
		RosterSize:    a.rosterSize(),
		RosterMin:     a.bidder.RosterMin,
		RosterMax:     a.bidder.RosterMax,
		Acquisitions:  acquisitions,
	}
}

// States returns snapshots of every account in registration order.
func (l *Ledger) States() []AccountState {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]AccountState, 0, len(l.order))
	for _, id := range l.order {
		out = append(out, l.stateOf(l.accounts[id]))
	}
	return out
}
