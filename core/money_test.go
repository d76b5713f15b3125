package core

import (
	"testing"

	"github.com/peterldowns/testy/check"
)

func TestAmountAtLeast(t *testing.T) {
	tests := []struct {
		name     string
		amount   float64
		minimum  float64
		expected bool
	}{
		{"amount above minimum", 3.0, 2.5, true},
		{"amount at minimum", 2.5, 2.5, true},
		{"amount below minimum", 2.0, 2.5, false},
		{"zero minimum", 0.0, 0.0, true},
		{"negative amount", -1.0, 0.0, false},
		{"decimal precision edge case - passes", 2.499999999, 2.5, true},
		{"decimal precision edge case - fails", 2.4999, 2.5, false},
		{"float drift after repeated increments", 0.1 + 0.2, 0.3, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			check.Equal(t, tt.expected, AmountAtLeast(tt.amount, tt.minimum))
		})
	}
}

func TestAmountAtMost(t *testing.T) {
	check.True(t, AmountAtMost(7.0, 7.0))
	check.True(t, AmountAtMost(6.0, 7.0))
	check.False(t, AmountAtMost(8.0, 7.0))
	check.True(t, AmountAtMost(7.00000001, 7.0))
}

func TestMoneyArithmetic(t *testing.T) {
	check.Equal(t, 0.3, AddMoney(0.1, 0.2))
	check.Equal(t, 12.5, AddMoney(10, 2.5))
	check.Equal(t, 0.0, AddMoney())
	check.Equal(t, 7.0, SubMoney(10, 3))
	check.Equal(t, -0.5, SubMoney(1, 1.5))
	check.Equal(t, 22.0, ScaleMoney(20, 1.1))
	check.Equal(t, 2.4, ScaleMoney(2, 1.2, 1.0))
	check.Equal(t, 5.0, ScaleMoney(5))
	check.Equal(t, 2.0, MinMoney(2, 3))
	check.Equal(t, 2.0, MinMoney(3, 2))
}

func TestRoundPrice(t *testing.T) {
	check.Equal(t, 1.23, RoundPrice(1.234))
	check.Equal(t, 1.24, RoundPrice(1.235))
	check.Equal(t, 0.5, RoundPrice(0.5))
}
