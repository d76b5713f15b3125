package auction

import (
	"time"
)

// Tick advances the run to now. Remaining time is always recomputed from stored
// deadlines, so irregular or missed ticks never drift the countdown, and a tick
// with a timestamp at or before the previous one changes nothing.
//
// Tick is a no-op unless the run is in progress with the timer enabled. The
// returned error is non-nil only for ledger invariant violations during resolution.
func (e *Engine) Tick(now time.Time) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != StateInProgress || !e.cfg.TimerEnabled {
		return nil
	}
	if !now.After(e.lastTick) {
		return nil
	}
	e.lastTick = now

	var firstErr error
	for e.state == StateInProgress {
		if e.item == nil {
			if e.nextOpenAt.IsZero() || now.Before(e.nextOpenAt) {
				break
			}
			e.openLocked(e.nextOpenAt)
			continue
		}

		if now.Before(e.item.deadline) {
			if !now.Before(e.item.nextAgentRound) {
				e.agentRoundLocked(now)
				for !e.item.nextAgentRound.After(now) {
					e.item.nextAgentRound = e.item.nextAgentRound.Add(e.cfg.AgentCadence)
				}
			}
			break
		}

		// Resolve at the deadline itself so a late tick does not shift later items.
		if err := e.resolveLocked(e.item.deadline, resolveTimer); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Remaining returns the time left on the open item. It is zero when no item is
// open or the timer is disabled, and frozen while paused.
func (e *Engine) Remaining(now time.Time) time.Duration {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.remainingLocked(now)
}

func (e *Engine) remainingLocked(now time.Time) time.Duration {
	if e.item == nil || e.item.deadline.IsZero() {
		return 0
	}
	if e.state == StatePaused {
		now = e.pausedAt
	}
	if left := e.item.deadline.Sub(now); left > 0 {
		return left
	}
	return 0
}
