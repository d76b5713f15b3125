package core

import "time"

// Unsold is the winner identity recorded for items that closed without a sale.
const Unsold = "unsold"

// ControlMode says who decides a bidder's bids.
type ControlMode string

const (
	ControlHuman ControlMode = "human"
	ControlAgent ControlMode = "agent"
)

// StrategyTag names an agent bidding strategy.
type StrategyTag string

const (
	StrategyAggressive   StrategyTag = "aggressive"
	StrategyBalanced     StrategyTag = "balanced"
	StrategyConservative StrategyTag = "conservative"
)

// Item is a single auctionable player record. Quality and Potential keep the raw
// rating text ("65", "3.5 Stars") so the valuation model owns the scale conversion.
type Item struct {
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	Position  string            `json:"position"`
	Age       int               `json:"age"`
	Quality   string            `json:"quality"`
	Potential string            `json:"potential,omitempty"`
	Demand    float64           `json:"demand,omitempty"` // asking price in $M, 0 when unknown
	Stats     map[string]string `json:"stats,omitempty"`  // display only
}

// MarketSignals are the performance signals used to classify an owner's spending sentiment.
type MarketSignals struct {
	WinPct      float64 `json:"win_pct"`
	Mode        string  `json:"mode,omitempty"`
	FanInterest float64 `json:"fan_interest"`
}

// Bidder is a team participating in the auction.
type Bidder struct {
	ID               string        `json:"id"`
	Name             string        `json:"name"`
	Budget           float64       `json:"budget"`
	RosterMin        int           `json:"roster_min"`
	RosterMax        int           `json:"roster_max"`
	MinSpendFraction float64       `json:"min_spend_fraction"`
	Control          ControlMode   `json:"control"`
	Strategy         StrategyTag   `json:"strategy,omitempty"`
	Market           MarketSignals `json:"market"`
}

// IsAgent reports whether the bidder is controlled by a bidding agent.
func (b Bidder) IsAgent() bool {
	return b.Control == ControlAgent
}

// Bid is one accepted bid in an item's history.
type Bid struct {
	ID        string    `json:"id"`
	Bidder    string    `json:"bidder"`
	Amount    float64   `json:"amount"`
	Source    BidSource `json:"source"`
	Timestamp time.Time `json:"timestamp"`
}

// BidSource distinguishes externally submitted bids from agent bids.
type BidSource string

const (
	SourceHuman BidSource = "human"
	SourceAgent BidSource = "agent"
)

// TopBid is the current best bid on the open item. Bidder is empty until the first
// accepted bid, in which case Amount holds the opening price.
type TopBid struct {
	Amount float64 `json:"amount"`
	Bidder string  `json:"bidder,omitempty"`
}

// HasBidder reports whether any bid has been accepted.
func (t TopBid) HasBidder() bool {
	return t.Bidder != ""
}

// Result is the append-only record produced once per item.
type Result struct {
	ItemID        string  `json:"item_id"`
	ItemName      string  `json:"item_name"`
	Winner        string  `json:"winner"`
	Price         float64 `json:"price"`
	ContractYears int     `json:"contract_years"`
	BidCount      int     `json:"bid_count"`
	HistoryHash   string  `json:"history_hash"`
}

// Sold reports whether the result records a sale.
func (r Result) Sold() bool {
	return r.Winner != Unsold
}

// RejectReason is a typed validation rejection. Rejections never halt the auction.
type RejectReason string

const (
	ReasonNone             RejectReason = ""
	ReasonNotInProgress    RejectReason = "auction_not_in_progress"
	ReasonNoOpenItem       RejectReason = "no_open_item"
	ReasonUnknownBidder    RejectReason = "unknown_bidder"
	ReasonMalformedAmount  RejectReason = "malformed_amount"
	ReasonBelowMinimum     RejectReason = "below_minimum_increment"
	ReasonInsufficientFund RejectReason = "insufficient_funds"
	ReasonRosterFull       RejectReason = "roster_full"
	ReasonStale            RejectReason = "stale_state"
)
