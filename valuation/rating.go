package valuation

import (
	"math"
	"strconv"
	"strings"
)

const (
	starScale     = 20.0
	maxStarRating = 5.0
	maxRating     = 100.0
)

// ParseRating converts a raw rating onto the 0-100 scale.
//
// Accepted forms:
//   - "65" or "65.5": numeric rating on the 0-100 scale
//   - "3.5 Stars", "3.5Stars", "4": values in [0, 5] are stars, multiplied by 20
//   - "60 Stars": a suffixed value above 5 is already on the 0-100 scale
//
// Malformed or missing ratings return 0 rather than an error so one bad field
// never rejects a record.
func ParseRating(raw string) float64 {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0
	}

	lower := strings.ToLower(s)
	if strings.HasSuffix(lower, "stars") {
		s = strings.TrimSpace(s[:len(s)-len("stars")])
	} else if strings.HasSuffix(lower, "star") {
		s = strings.TrimSpace(s[:len(s)-len("star")])
	}

	value, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return 0
	}

	if value >= 0 && value <= maxStarRating {
		value *= starScale
	}
	return clampRating(value)
}

func clampRating(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > maxRating {
		return maxRating
	}
	return v
}
