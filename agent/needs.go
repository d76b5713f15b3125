package agent

import (
	"github.com/hectorportal/auction/ledger"
	"github.com/hectorportal/auction/valuation"
)

// PositionNeeds is how many players of each position a roster wants.
var PositionNeeds = map[string]int{
	"SP": 5,
	"RP": 7,
	"C":  2,
	"1B": 1,
	"2B": 1,
	"3B": 1,
	"SS": 1,
	"LF": 1,
	"CF": 1,
	"RF": 1,
	"DH": 1,
}

// needPosition folds relief roles into RP.
func needPosition(position string) string {
	switch position {
	case "CL", "SU", "MR":
		return "RP"
	}
	return position
}

func primaryPosition(position string) string {
	positions := valuation.SplitPositions(position)
	if len(positions) == 0 {
		return ""
	}
	return needPosition(positions[0])
}

// Filled counts acquisitions per need position. Each acquisition counts toward
// its primary position only.
func Filled(acquisitions []ledger.Acquisition) map[string]int {
	filled := make(map[string]int)
	for _, a := range acquisitions {
		if p := primaryPosition(a.Position); p != "" {
			filled[p]++
		}
	}
	return filled
}

// NeedFilled reports whether every position an item can play is already filled.
// Positions without a configured need are never filled.
func NeedFilled(position string, acquisitions []ledger.Acquisition) bool {
	positions := valuation.SplitPositions(position)
	if len(positions) == 0 {
		return false
	}
	filled := Filled(acquisitions)
	for _, p := range positions {
		p = needPosition(p)
		want, ok := PositionNeeds[p]
		if !ok || filled[p] < want {
			return false
		}
	}
	return true
}
