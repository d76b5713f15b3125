package agent

import (
	"sort"

	"github.com/samber/lo"

	"github.com/hectorportal/auction/core"
	"github.com/hectorportal/auction/ledger"
)

// Intent is a proposed raise. Sequence ties it to the state it was computed from
// so the engine can reject it if the top bid moved meanwhile.
type Intent struct {
	BidderID string
	Amount   float64
	Sequence int
}

// StateFunc returns a bidder's current account view.
type StateFunc func(bidderID string) (ledger.AccountState, bool)

// Pool holds the agents of one auction run.
type Pool struct {
	agents     []*Agent
	byID       map[string]*Agent
	randSource core.RandSource
}

// NewPool creates an agent for every agent-controlled bidder, in bidder order.
func NewPool(bidders []core.Bidder, randSource core.RandSource) *Pool {
	if randSource == nil {
		randSource = core.DefaultRandSource()
	}
	agents := lo.FilterMap(bidders, func(b core.Bidder, _ int) (*Agent, bool) {
		if !b.IsAgent() {
			return nil, false
		}
		return New(b, randSource), true
	})
	return &Pool{
		agents:     agents,
		byID:       lo.KeyBy(agents, func(a *Agent) string { return a.ID() }),
		randSource: randSource,
	}
}

// Agents returns the pool's agents.
func (p *Pool) Agents() []*Agent {
	return p.agents
}

// Agent looks up an agent by bidder id.
func (p *Pool) Agent(bidderID string) (*Agent, bool) {
	a, ok := p.byID[bidderID]
	return a, ok
}

// Collect asks every agent about the offer and returns the raises, highest amount
// first with equal amounts in random order.
func (p *Pool) Collect(offer Offer, states StateFunc) []Intent {
	intents := lo.FilterMap(p.agents, func(a *Agent, _ int) (Intent, bool) {
		state, ok := states(a.ID())
		if !ok {
			return Intent{}, false
		}
		d := a.Decide(offer, state)
		if !d.Raises() {
			return Intent{}, false
		}
		return Intent{BidderID: a.ID(), Amount: d.Amount, Sequence: offer.Sequence}, true
	})

	sort.SliceStable(intents, func(i, j int) bool {
		return intents[i].Amount > intents[j].Amount
	})
	core.ShuffleTies(intents, func(in Intent) float64 { return in.Amount }, p.randSource)
	return intents
}
