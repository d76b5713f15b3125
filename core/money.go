package core

import (
	"github.com/shopspring/decimal"
)

const monetaryPrecision int32 = 4 // 4 decimal places of $M (0.0001M = $100)

func money(amount float64) decimal.Decimal {
	return decimal.NewFromFloat(amount).Round(monetaryPrecision)
}

// RoundMoney rounds an amount to monetaryPrecision using decimal arithmetic.
func RoundMoney(amount float64) float64 {
	result, _ := money(amount).Float64()
	return result
}

// RoundPrice rounds a displayed price to cents of a million (two decimal places).
func RoundPrice(amount float64) float64 {
	result, _ := decimal.NewFromFloat(amount).Round(2).Float64()
	return result
}

// AmountAtLeast returns true if amount meets or exceeds the minimum.
// Uses decimal arithmetic with monetaryPrecision to avoid floating-point errors.
func AmountAtLeast(amount, minimum float64) bool {
	return money(amount).GreaterThanOrEqual(money(minimum))
}

// AmountAtMost returns true if amount does not exceed the ceiling.
func AmountAtMost(amount, ceiling float64) bool {
	return money(amount).LessThanOrEqual(money(ceiling))
}

// AddMoney sums amounts with decimal arithmetic.
func AddMoney(amounts ...float64) float64 {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(money(a))
	}
	result, _ := total.Float64()
	return result
}

// SubMoney returns a - b with decimal arithmetic.
func SubMoney(a, b float64) float64 {
	result, _ := money(a).Sub(money(b)).Float64()
	return result
}

// ScaleMoney multiplies an amount by each factor in turn, rounding once at the end.
func ScaleMoney(amount float64, factors ...float64) float64 {
	value := decimal.NewFromFloat(amount)
	for _, f := range factors {
		value = value.Mul(decimal.NewFromFloat(f))
	}
	result, _ := value.Round(monetaryPrecision).Float64()
	return result
}

// MinMoney returns the smaller of two amounts.
func MinMoney(a, b float64) float64 {
	if AmountAtMost(a, b) {
		return a
	}
	return b
}
