package auction

import (
	"time"

	"github.com/hectorportal/auction/core"
	"github.com/hectorportal/auction/valuation"
)

// TimerState is the countdown view of the open item.
type TimerState struct {
	Enabled   bool          `json:"enabled"`
	Duration  time.Duration `json:"duration"`
	Remaining time.Duration `json:"remaining"`
	Paused    bool          `json:"paused"`
}

// Progress counts items through the queue.
type Progress struct {
	Index     int `json:"index"` // 1-based position of the open or next item
	Total     int `json:"total"`
	Sold      int `json:"sold"`
	Unsold    int `json:"unsold"`
	Remaining int `json:"remaining"`
}

// Snapshot is a read-only copy of the auction state.
type Snapshot struct {
	RunID      string               `json:"run_id"`
	State      State                `json:"state"`
	Item       *core.Item           `json:"item,omitempty"`
	Valuation  *valuation.Valuation `json:"valuation,omitempty"`
	TopBid     core.TopBid          `json:"top_bid"`
	MinNextBid float64              `json:"min_next_bid"`
	History    []core.Bid           `json:"history"`
	Timer      TimerState           `json:"timer"`
	NextItemIn time.Duration        `json:"next_item_in"`
	Progress   Progress             `json:"progress"`
}

// Snapshot returns the state as of now.
func (e *Engine) Snapshot(now time.Time) Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	snap := Snapshot{
		RunID: e.runID,
		State: e.state,
		Timer: TimerState{
			Enabled:   e.cfg.TimerEnabled,
			Duration:  e.cfg.TimerDuration,
			Remaining: e.remainingLocked(now),
			Paused:    e.state == StatePaused,
		},
		Progress: e.progressLocked(),
	}

	if e.item != nil {
		item := e.item.lot.Item
		v := e.item.lot.Valuation
		snap.Item = &item
		snap.Valuation = &v
		snap.TopBid = e.item.top
		snap.MinNextBid = e.minNextBidLocked()
		snap.History = make([]core.Bid, len(e.item.history))
		copy(snap.History, e.item.history)
	} else if !e.nextOpenAt.IsZero() {
		at := now
		if e.state == StatePaused {
			at = e.pausedAt
		}
		if wait := e.nextOpenAt.Sub(at); wait > 0 {
			snap.NextItemIn = wait
		}
	}
	return snap
}

func (e *Engine) progressLocked() Progress {
	p := Progress{Total: len(e.queue)}
	for _, r := range e.results {
		if r.Sold() {
			p.Sold++
		} else {
			p.Unsold++
		}
	}
	p.Remaining = p.Total - len(e.results)
	if p.Remaining > 0 {
		p.Index = e.index + 1
	}
	return p
}
