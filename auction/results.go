package auction

import (
	"fmt"
	"time"

	"github.com/hectorportal/auction/core"
	"github.com/hectorportal/auction/ledger"
)

type resolution int

const (
	resolveTimer resolution = iota
	resolveSell
	resolvePass
)

func (r resolution) String() string {
	switch r {
	case resolveSell:
		return "sell"
	case resolvePass:
		return "pass"
	default:
		return "timer"
	}
}

// Sell closes the open item now, selling it to the top bidder if there is one.
func (e *Engine) Sell(now time.Time) (core.Result, error) {
	return e.closeItem(now, resolveSell)
}

// Pass closes the open item unsold regardless of bids.
func (e *Engine) Pass(now time.Time) (core.Result, error) {
	return e.closeItem(now, resolvePass)
}

func (e *Engine) closeItem(now time.Time, how resolution) (core.Result, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != StateInProgress {
		return core.Result{}, fmt.Errorf("%s in state %s: %w", how, e.state, ErrInvalidState)
	}
	if e.item == nil {
		return core.Result{}, fmt.Errorf("%s: %w", how, ErrNoOpenItem)
	}

	err := e.resolveLocked(now, how)
	return e.results[len(e.results)-1], err
}

// resolveLocked appends the item's result, commits a sale to the ledger, and
// advances the queue. Timer resolutions open the next item after the
// auto-advance delay; explicit sell and pass open it immediately.
//
// A failed commit means the ledger rejected a bid it had already validated. The
// item is recorded unsold and the error is returned wrapped in
// ledger.ErrInvariantViolation.
func (e *Engine) resolveLocked(now time.Time, how resolution) error {
	it := e.item
	result := core.Result{
		ItemID:      it.lot.Item.ID,
		ItemName:    it.lot.Item.Name,
		Winner:      core.Unsold,
		BidCount:    len(it.history),
		HistoryHash: core.ComputeHistoryHash(it.lot.Item.ID, it.history),
	}

	var err error
	if it.top.HasBidder() && how != resolvePass {
		if commitErr := e.ledger.Commit(it.top.Bidder, it.lot.Item, it.top.Amount); commitErr != nil {
			err = fmt.Errorf("resolve %s: %w: %w", it.lot.Item.ID, ledger.ErrInvariantViolation, commitErr)
			e.log.Error("commit failed at resolution", "item", it.lot.Item.ID,
				"bidder", it.top.Bidder, "amount", it.top.Amount, "err", commitErr)
		} else {
			result.Winner = it.top.Bidder
			result.Price = it.top.Amount
			result.ContractYears = core.ContractYears(it.lot.Item.Age, it.top.Amount)
		}
	}

	e.results = append(e.results, result)
	e.item = nil
	e.index++

	if result.Sold() {
		e.log.Info("item sold", "item", result.ItemID, "winner", result.Winner,
			"price", result.Price, "years", result.ContractYears, "bids", result.BidCount, "by", how)
	} else {
		e.log.Info("item unsold", "item", result.ItemID, "bids", result.BidCount, "by", how)
	}
	e.observer.ItemResolved(result)

	if e.index >= len(e.queue) {
		e.state = StateCompleted
		summary := e.summaryLocked()
		e.log.Info("auction completed", "sold", summary.Sold, "unsold", summary.Unsold,
			"total_spend", summary.TotalSpend, "average_price", summary.AveragePrice)
		e.observer.Completed(summary)
		return err
	}

	if how == resolveTimer && e.cfg.AutoAdvanceDelay > 0 {
		e.nextOpenAt = now.Add(e.cfg.AutoAdvanceDelay)
	} else {
		e.openLocked(now)
	}
	return err
}

// Summary aggregates the results so far.
type Summary struct {
	RunID        string  `json:"run_id"`
	Items        int     `json:"items"`
	Resolved     int     `json:"resolved"`
	Sold         int     `json:"sold"`
	Unsold       int     `json:"unsold"`
	TotalSpend   float64 `json:"total_spend"`
	AveragePrice float64 `json:"average_price"`
	Completed    bool    `json:"completed"`
	ResultsHash  string  `json:"results_hash"`
}

// Results returns a copy of the append-only result sequence. Results of a run that
// was abandoned midway remain valid.
func (e *Engine) Results() []core.Result {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]core.Result, len(e.results))
	copy(out, e.results)
	return out
}

// Summary returns aggregates over the results so far.
func (e *Engine) Summary() Summary {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.summaryLocked()
}

func (e *Engine) summaryLocked() Summary {
	s := Summary{
		RunID:       e.runID,
		Items:       len(e.queue),
		Resolved:    len(e.results),
		Completed:   e.state == StateCompleted,
		ResultsHash: core.ComputeResultsHash(e.runID, e.results),
	}
	var prices []float64
	for _, r := range e.results {
		if r.Sold() {
			s.Sold++
			prices = append(prices, r.Price)
		} else {
			s.Unsold++
		}
	}
	s.TotalSpend = core.AddMoney(prices...)
	if s.Sold > 0 {
		s.AveragePrice = core.ScaleMoney(s.TotalSpend, 1/float64(s.Sold))
	}
	return s
}
