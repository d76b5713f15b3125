package valuation

import (
	"testing"

	"github.com/peterldowns/testy/check"
)

func TestParseRating(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected float64
	}{
		{"numeric rating", "65", 65},
		{"numeric with decimals", "72.5", 72.5},
		{"star rating with suffix", "3.5 Stars", 70},
		{"star rating without space", "4Stars", 80},
		{"singular star", "1 Star", 20},
		{"lowercase suffix", "2.5 stars", 50},
		{"bare number in star range", "4", 80},
		{"five stars", "5", 100},
		{"zero", "0", 0},
		{"above scale clamps", "120", 100},
		{"suffixed rating above star scale", "60 Stars", 60},
		{"suffixed rating near top", "90 Stars", 90},
		{"suffixed rating just above star scale", "6 Stars", 6},
		{"negative clamps", "-10", 0},
		{"surrounding whitespace", "  55 ", 55},
		{"empty", "", 0},
		{"malformed", "N/A", 0},
		{"suffix only", "Stars", 0},
		{"nan", "NaN", 0},
		{"infinity", "Inf", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			check.Equal(t, tt.expected, ParseRating(tt.raw))
		})
	}
}

func TestScarcityFor(t *testing.T) {
	check.Equal(t, 1.15, ScarcityFor("C"))
	check.Equal(t, 0.55, ScarcityFor("RP"))
	check.Equal(t, 0.60, ScarcityFor("cl"))
	check.Equal(t, 1.12, ScarcityFor("2B/SS"))
	check.Equal(t, 1.05, ScarcityFor("1B, 3B"))
	check.Equal(t, 1.0, ScarcityFor("UT"))
	check.Equal(t, 1.0, ScarcityFor(""))
}

func TestAgeMultiplierFor(t *testing.T) {
	tests := []struct {
		age      int
		expected float64
	}{
		{21, 1.3},
		{23, 1.3},
		{24, 1.15},
		{25, 1.15},
		{27, 1.0},
		{29, 0.85},
		{32, 0.6},
		{33, 0.4},
		{40, 0.4},
	}

	for _, tt := range tests {
		check.Equal(t, tt.expected, AgeMultiplierFor(tt.age))
	}
}
