package valuation

import "strings"

// PositionScarcity upweights scarce premium positions and downweights relief roles.
var PositionScarcity = map[string]float64{
	"C":  1.15,
	"SS": 1.12,
	"CF": 1.10,
	"SP": 1.08,
	"2B": 1.05,
	"3B": 1.05,
	"LF": 0.95,
	"RF": 0.95,
	"1B": 0.90,
	"DH": 0.85,
	"RP": 0.55,
	"CL": 0.60,
	"SU": 0.55,
	"MR": 0.50,
}

const defaultScarcity = 1.0

// AgeBracket is one row of the age multiplier table.
type AgeBracket struct {
	MaxAge     int
	Multiplier float64
}

// AgeMultipliers rewards youth and penalizes advanced age. Ages above the last
// bracket use olderAgeMultiplier.
var AgeMultipliers = []AgeBracket{
	{MaxAge: 23, Multiplier: 1.3},
	{MaxAge: 25, Multiplier: 1.15},
	{MaxAge: 27, Multiplier: 1.0},
	{MaxAge: 29, Multiplier: 0.85},
	{MaxAge: 32, Multiplier: 0.6},
}

const olderAgeMultiplier = 0.4

// SplitPositions splits a multi-position label such as "2B/SS" into normalized codes.
func SplitPositions(position string) []string {
	fields := strings.FieldsFunc(strings.ToUpper(position), func(r rune) bool {
		return r == '/' || r == ',' || r == ' '
	})
	return fields
}

// ScarcityFor returns the scarcity multiplier for a position. Multi-position players
// take the highest multiplier of their positions; unknown positions get 1.0.
func ScarcityFor(position string) float64 {
	best := 0.0
	for _, p := range SplitPositions(position) {
		m, ok := PositionScarcity[p]
		if !ok {
			m = defaultScarcity
		}
		if m > best {
			best = m
		}
	}
	if best == 0 {
		return defaultScarcity
	}
	return best
}

// AgeMultiplierFor returns the age multiplier for a player.
func AgeMultiplierFor(age int) float64 {
	for _, b := range AgeMultipliers {
		if age <= b.MaxAge {
			return b.Multiplier
		}
	}
	return olderAgeMultiplier
}
