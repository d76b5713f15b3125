package core

import (
	"testing"

	"github.com/peterldowns/testy/check"
)

// mockRandSource provides a deterministic random source for testing
type mockRandSource struct {
	sequence []int
	index    int
}

func (m *mockRandSource) Intn(n int) int {
	if m.index >= len(m.sequence) {
		return 0
	}
	val := m.sequence[m.index] % n
	m.index++
	return val
}

func TestOrderByScore_Descending(t *testing.T) {
	order := OrderByScore([]float64{30, 90, 60})

	check.Equal(t, []int{1, 2, 0}, order)
}

func TestOrderByScore_StableTies(t *testing.T) {
	order := OrderByScore([]float64{50, 75, 50, 75, 50})

	// Equal scores keep their original relative order
	check.Equal(t, []int{1, 3, 0, 2, 4}, order)
}

func TestOrderByScore_Empty(t *testing.T) {
	order := OrderByScore(nil)

	check.Equal(t, 0, len(order))
}

func TestShuffleTies_OnlyShufflesEqualRuns(t *testing.T) {
	type entry struct {
		name  string
		price float64
	}
	entries := []entry{
		{"a", 3.0},
		{"b", 2.0},
		{"c", 2.0},
		{"d", 1.0},
	}

	// Fisher-Yates over [b, c]: m=2 picks index 1 + Intn(2) -> 1 + 0 = 1, swap c<->b
	ShuffleTies(entries, func(e entry) float64 { return e.price }, &mockRandSource{sequence: []int{0}})

	check.Equal(t, "a", entries[0].name)
	check.Equal(t, "c", entries[1].name)
	check.Equal(t, "b", entries[2].name)
	check.Equal(t, "d", entries[3].name)
}

func TestShuffleTies_NoTies(t *testing.T) {
	values := []float64{3, 2, 1}
	mock := &mockRandSource{sequence: []int{1, 1, 1}}

	ShuffleTies(values, func(v float64) float64 { return v }, mock)

	check.Equal(t, []float64{3, 2, 1}, values)
	check.Equal(t, 0, mock.index)
}

func TestSeededRandSource_Reproducible(t *testing.T) {
	a := NewSeededRandSource(42)
	b := NewSeededRandSource(42)

	for i := 0; i < 20; i++ {
		check.Equal(t, a.Intn(100), b.Intn(100))
	}
}

func TestDefaultRandSource_InRange(t *testing.T) {
	source := DefaultRandSource()
	for i := 0; i < 50; i++ {
		v := source.Intn(10)
		check.True(t, v >= 0 && v < 10)
	}
}
