package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hectorportal/auction/auction"
	"github.com/hectorportal/auction/ledger"
)

// simClock maps wall-clock time onto simulated time running speed times faster.
type simClock struct {
	origin time.Time
	speed  float64
	since  func(time.Time) time.Duration
}

func newSimClock(origin time.Time, speed float64) *simClock {
	return &simClock{origin: origin, speed: speed, since: time.Since}
}

func (c *simClock) Now() time.Time {
	return c.origin.Add(time.Duration(float64(c.since(c.origin)) * c.speed))
}

type clock interface {
	Now() time.Time
}

// driveTimed starts the run and ticks it until it completes or ctx is done.
// Invariant violations are logged and the run continues with the next item.
func driveTimed(ctx context.Context, engine *auction.Engine, clk clock, interval time.Duration, log *slog.Logger) error {
	if err := engine.Start(clk.Now()); err != nil {
		return fmt.Errorf("engine.Start: %w", err)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for engine.State() != auction.StateCompleted {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
		if err := engine.Tick(clk.Now()); err != nil {
			if !errors.Is(err, ledger.ErrInvariantViolation) {
				return fmt.Errorf("engine.Tick: %w", err)
			}
			log.Error("item resolved unsold after ledger failure", "err", err)
		}
	}
	return nil
}

// driveManual runs a timerless auction: agents are triggered until nobody raises,
// then the item is sold to the top bidder. Simulated time advances by one agent
// cadence per round.
func driveManual(ctx context.Context, engine *auction.Engine, clk clock, cadence time.Duration) error {
	now := clk.Now()
	if err := engine.Start(now); err != nil {
		return fmt.Errorf("engine.Start: %w", err)
	}

	for engine.State() != auction.StateCompleted {
		if err := ctx.Err(); err != nil {
			return err
		}

		accepted, err := engine.TriggerAgents(now)
		if err != nil {
			return fmt.Errorf("engine.TriggerAgents: %w", err)
		}
		now = now.Add(cadence)
		if accepted > 0 {
			continue
		}

		if _, err := engine.Sell(now); err != nil && !errors.Is(err, ledger.ErrInvariantViolation) {
			return fmt.Errorf("engine.Sell: %w", err)
		}
	}
	return nil
}
