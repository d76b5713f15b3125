package auction

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrInvalidConfig = errors.New("invalid auction config")
	ErrEmptyQueue    = errors.New("empty item queue")
	ErrInvalidState  = errors.New("operation not valid in current state")
	ErrNoOpenItem    = errors.New("no open item")
)

const (
	MinTimerDuration = 30 * time.Second
	MaxTimerDuration = 120 * time.Second
)

// Config holds the run settings fixed at Setup.
type Config struct {
	TimerEnabled  bool
	TimerDuration time.Duration

	// MinIncrement is the fixed raise in $M. When IncrementPercent is positive it
	// takes precedence and the raise is that percentage of the top bid.
	MinIncrement     float64
	IncrementPercent float64

	AutoAdvanceDelay time.Duration
	AgentCadence     time.Duration
}

// DefaultConfig returns a timed auction with 60s per item.
func DefaultConfig() Config {
	return Config{
		TimerEnabled:     true,
		TimerDuration:    60 * time.Second,
		MinIncrement:     0.5,
		AutoAdvanceDelay: 3 * time.Second,
		AgentCadence:     2500 * time.Millisecond,
	}
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if c.TimerDuration < MinTimerDuration || c.TimerDuration > MaxTimerDuration {
		return fmt.Errorf("%w: timer duration %s outside [%s, %s]", ErrInvalidConfig, c.TimerDuration, MinTimerDuration, MaxTimerDuration)
	}
	if c.IncrementPercent < 0 {
		return fmt.Errorf("%w: increment percent must not be negative, got %.2f", ErrInvalidConfig, c.IncrementPercent)
	}
	if c.IncrementPercent == 0 && c.MinIncrement <= 0 {
		return fmt.Errorf("%w: min increment must be positive, got %.2f", ErrInvalidConfig, c.MinIncrement)
	}
	if c.AutoAdvanceDelay < 0 {
		return fmt.Errorf("%w: auto-advance delay must not be negative, got %s", ErrInvalidConfig, c.AutoAdvanceDelay)
	}
	if c.AgentCadence <= 0 {
		return fmt.Errorf("%w: agent cadence must be positive, got %s", ErrInvalidConfig, c.AgentCadence)
	}
	return nil
}
