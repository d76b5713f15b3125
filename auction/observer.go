package auction

import "github.com/hectorportal/auction/core"

// Observer receives engine events. Calls happen inside the engine's critical
// section, so implementations must not block or call back into the engine.
type Observer interface {
	ItemOpened(lot Lot)
	BidAccepted(itemID string, bid core.Bid)
	BidRejected(itemID string, source core.BidSource, reason core.RejectReason)
	AgentRound(itemID string, intents, accepted int)
	ItemResolved(result core.Result)
	Completed(summary Summary)
}

// NopObserver ignores every event.
type NopObserver struct{}

func (NopObserver) ItemOpened(Lot) {}
func (NopObserver) BidAccepted(string, core.Bid) {}
func (NopObserver) BidRejected(string, core.BidSource, core.RejectReason) {}
func (NopObserver) AgentRound(string, int, int) {}
func (NopObserver) ItemResolved(core.Result) {}
func (NopObserver) Completed(Summary) {}

type multiObserver []Observer

// Observers fans events out to each observer in order.
func Observers(observers ...Observer) Observer {
	return multiObserver(observers)
}

func (m multiObserver) ItemOpened(lot Lot) {
	for _, o := range m {
		o.ItemOpened(lot)
	}
}

func (m multiObserver) BidAccepted(itemID string, bid core.Bid) {
	for _, o := range m {
		o.BidAccepted(itemID, bid)
	}
}

func (m multiObserver) BidRejected(itemID string, source core.BidSource, reason core.RejectReason) {
	for _, o := range m {
		o.BidRejected(itemID, source, reason)
	}
}

func (m multiObserver) AgentRound(itemID string, intents, accepted int) {
	for _, o := range m {
		o.AgentRound(itemID, intents, accepted)
	}
}

func (m multiObserver) ItemResolved(result core.Result) {
	for _, o := range m {
		o.ItemResolved(result)
	}
}

func (m multiObserver) Completed(summary Summary) {
	for _, o := range m {
		o.Completed(summary)
	}
}
