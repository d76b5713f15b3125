package store

import (
	"sync"

	"github.com/hectorportal/auction/auction"
	"github.com/hectorportal/auction/core"
)

// ItemBid is an accepted bid tagged with the item it was placed on.
type ItemBid struct {
	ItemID string
	Bid    core.Bid
}

// BidLog is an engine observer that buffers accepted bids in memory so they can be
// saved with the run. It never touches the database from inside the engine.
type BidLog struct {
	auction.NopObserver

	mu   sync.Mutex
	bids []ItemBid
}

// NewBidLog returns an empty log.
func NewBidLog() *BidLog {
	return &BidLog{}
}

func (l *BidLog) BidAccepted(itemID string, bid core.Bid) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.bids = append(l.bids, ItemBid{ItemID: itemID, Bid: bid})
}

// Bids returns a copy of the buffered bids in acceptance order.
func (l *BidLog) Bids() []ItemBid {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]ItemBid, len(l.bids))
	copy(out, l.bids)
	return out
}
