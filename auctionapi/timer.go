package auctionapi

import "time"

// TimerBand is the urgency band a UI colors the countdown with.
type TimerBand string

const (
	BandCalm    TimerBand = "green"  // more than 30s left
	BandWarning TimerBand = "yellow" // 15s to 30s
	BandUrgent  TimerBand = "red"    // under 15s
)

const (
	calmAbove   = 30 * time.Second
	urgentBelow = 15 * time.Second
)

// TimerBandFor maps remaining time to its display band.
func TimerBandFor(remaining time.Duration) TimerBand {
	switch {
	case remaining > calmAbove:
		return BandCalm
	case remaining >= urgentBelow:
		return BandWarning
	default:
		return BandUrgent
	}
}
