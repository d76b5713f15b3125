// Package ledger keeps each bidder's budget and roster account. Commit is the only
// operation that changes an account.
package ledger

import (
	"fmt"
	"sync"

	"github.com/hectorportal/auction/core"
)

// Config holds ledger-wide rules.
type Config struct {
	// ReservePerSlot is held back from affordability for every unfilled required
	// roster slot, in $M.
	ReservePerSlot float64
}

// DefaultConfig returns the default $1M-per-slot reserve.
func DefaultConfig() Config {
	return Config{ReservePerSlot: 1.0}
}

// Acquisition is one committed purchase.
type Acquisition struct {
	ItemID   string  `json:"item_id"`
	ItemName string  `json:"item_name"`
	Position string  `json:"position"`
	Age      int     `json:"age"`
	Price    float64 `json:"price"`
}

type account struct {
	bidder       core.Bidder
	spent        float64
	acquisitions []Acquisition
}

func (a *account) rosterSize() int {
	return len(a.acquisitions)
}

// Ledger tracks committed spend and roster occupancy per bidder.
type Ledger struct {
	mu        sync.RWMutex
	cfg       Config
	accounts  map[string]*account
	order     []string
	committed map[string]string // item id -> bidder id
}

// New opens an account for every bidder. Budgets must be positive and roster bounds
// consistent; violations are configuration errors.
func New(bidders []core.Bidder, cfg Config) (*Ledger, error) {
	if cfg.ReservePerSlot < 0 {
		return nil, fmt.Errorf("%w: reserve per slot must not be negative, got %.2f", ErrInvalidAmount, cfg.ReservePerSlot)
	}

	l := &Ledger{
		cfg:       cfg,
		accounts:  make(map[string]*account, len(bidders)),
		order:     make([]string, 0, len(bidders)),
		committed: make(map[string]string),
	}
	for _, b := range bidders {
		if err := validateBidder(b); err != nil {
			return nil, err
		}
		if _, exists := l.accounts[b.ID]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateBidder, b.ID)
		}
		l.accounts[b.ID] = &account{bidder: b}
		l.order = append(l.order, b.ID)
	}
	return l, nil
}

func validateBidder(b core.Bidder) error {
	if b.ID == "" {
		return fmt.Errorf("%w: bidder id is empty", ErrUnknownBidder)
	}
	if b.Budget <= 0 {
		return fmt.Errorf("%w: bidder %s budget must be positive, got %.2f", ErrInvalidBudget, b.ID, b.Budget)
	}
	if b.RosterMin < 0 || b.RosterMax <= 0 || b.RosterMin > b.RosterMax {
		return fmt.Errorf("%w: bidder %s has min %d, max %d", ErrInvalidRoster, b.ID, b.RosterMin, b.RosterMax)
	}
	if b.MinSpendFraction < 0 || b.MinSpendFraction > 1 {
		return fmt.Errorf("%w: bidder %s min spend fraction must be in [0, 1], got %.2f", ErrInvalidBudget, b.ID, b.MinSpendFraction)
	}
	return nil
}

// Bidders returns the registered bidders in registration order.
func (l *Ledger) Bidders() []core.Bidder {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]core.Bidder, 0, len(l.order))
	for _, id := range l.order {
		out = append(out, l.accounts[id].bidder)
	}
	return out
}

// Bidder looks up a registered bidder.
func (l *Ledger) Bidder(id string) (core.Bidder, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	a, ok := l.accounts[id]
	if !ok {
		return core.Bidder{}, false
	}
	return a.bidder, true
}

// Remaining returns the uncommitted budget, or 0 for unknown bidders.
func (l *Ledger) Remaining(id string) float64 {
	l.mu.RLock()
	defer l.mu.RUnlock()

	a, ok := l.accounts[id]
	if !ok {
		return 0
	}
	return core.SubMoney(a.bidder.Budget, a.spent)
}

// RosterSlotsLeft returns how many more players the bidder may sign.
func (l *Ledger) RosterSlotsLeft(id string) int {
	l.mu.RLock()
	defer l.mu.RUnlock()

	a, ok := l.accounts[id]
	if !ok {
		return 0
	}
	return max(0, a.bidder.RosterMax-a.rosterSize())
}

func (l *Ledger) reserve(a *account) float64 {
	unfilled := max(0, a.bidder.RosterMin-a.rosterSize())
	return core.ScaleMoney(l.cfg.ReservePerSlot, float64(unfilled))
}

func (l *Ledger) maxAffordable(a *account) float64 {
	return core.SubMoney(core.SubMoney(a.bidder.Budget, a.spent), l.reserve(a))
}

// CanAfford reports whether amount fits within remaining budget after holding back
// the reserve for unfilled required roster slots.
func (l *Ledger) CanAfford(id string, amount float64) bool {
	return l.CheckBid(id, amount) == core.ReasonNone
}

// CheckBid validates a bid amount against the bidder's account and returns the
// rejection reason, or core.ReasonNone.
func (l *Ledger) CheckBid(id string, amount float64) core.RejectReason {
	l.mu.RLock()
	defer l.mu.RUnlock()

	a, ok := l.accounts[id]
	if !ok {
		return core.ReasonUnknownBidder
	}
	if a.rosterSize() >= a.bidder.RosterMax {
		return core.ReasonRosterFull
	}
	if !core.AmountAtMost(amount, l.maxAffordable(a)) {
		return core.ReasonInsufficientFund
	}
	return core.ReasonNone
}

// Commit records a sale. It is the only mutation of account state and applies
// fully or not at all.
func (l *Ledger) Commit(id string, item core.Item, amount float64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	a, ok := l.accounts[id]
	if !ok {
		return fmt.Errorf("commit %s: %w: %s", item.ID, ErrUnknownBidder, id)
	}
	if amount <= 0 {
		return fmt.Errorf("commit %s: %w: %.4f", item.ID, ErrInvalidAmount, amount)
	}
	if owner, done := l.committed[item.ID]; done {
		return fmt.Errorf("commit %s: %w to %s", item.ID, ErrAlreadyCommitted, owner)
	}
	if a.rosterSize() >= a.bidder.RosterMax {
		return fmt.Errorf("commit %s: %w: %s has %d/%d", item.ID, ErrRosterFull, id, a.rosterSize(), a.bidder.RosterMax)
	}
	remaining := core.SubMoney(a.bidder.Budget, a.spent)
	if !core.AmountAtMost(amount, remaining) {
		return fmt.Errorf("commit %s: %w: %s bid %.4f with %.4f remaining", item.ID, ErrExceedsBudget, id, amount, remaining)
	}

	prevSpent := a.spent
	a.spent = core.AddMoney(a.spent, amount)
	a.acquisitions = append(a.acquisitions, Acquisition{
		ItemID:   item.ID,
		ItemName: item.Name,
		Position: item.Position,
		Age:      item.Age,
		Price:    amount,
	})
	l.committed[item.ID] = id

	if err := l.verify(a); err != nil {
		a.spent = prevSpent
		a.acquisitions = a.acquisitions[:len(a.acquisitions)-1]
		delete(l.committed, item.ID)
		return fmt.Errorf("commit %s: %w", item.ID, err)
	}
	return nil
}

// verify checks the account invariants after a mutation.
func (l *Ledger) verify(a *account) error {
	if !core.AmountAtMost(a.spent, a.bidder.Budget) {
		return fmt.Errorf("%w: %s spent %.4f of %.4f", ErrInvariantViolation, a.bidder.ID, a.spent, a.bidder.Budget)
	}
	if a.rosterSize() > a.bidder.RosterMax {
		return fmt.Errorf("%w: %s roster %d exceeds max %d", ErrInvariantViolation, a.bidder.ID, a.rosterSize(), a.bidder.RosterMax)
	}
	return nil
}

// Owner returns the bidder an item was committed to.
func (l *Ledger) Owner(itemID string) (string, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	owner, ok := l.committed[itemID]
	return owner, ok
}
