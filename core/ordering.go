package core

import (
	"crypto/rand"
	"fmt"
	"math/big"
	mrand "math/rand/v2"
	"sort"
)

// RandSource provides random number generation for agent participation and tie-breaking.
// This interface enables dependency injection for deterministic testing.
type RandSource interface {
	// Intn returns a random integer in [0, n). Panics if n <= 0.
	Intn(n int) int
}

// cryptoRandSource wraps crypto/rand for production use
type cryptoRandSource struct{}

// Intn returns a cryptographically secure random integer in [0, n).
// Panics if n <= 0 (programmer error).
func (cryptoRandSource) Intn(n int) int {
	if n <= 0 {
		panic(fmt.Sprintf("cryptoRandSource.Intn: n must be positive, got %d", n))
	}
	// rand.Int does not error when using rand.Reader
	// https://pkg.go.dev/crypto/rand#Int
	nBig, _ := rand.Int(rand.Reader, big.NewInt(int64(n)))
	return int(nBig.Int64())
}

// DefaultRandSource returns the cryptographically secure source used outside test mode.
func DefaultRandSource() RandSource {
	return cryptoRandSource{}
}

type seededRandSource struct {
	r *mrand.Rand
}

func (s seededRandSource) Intn(n int) int {
	if n <= 0 {
		panic(fmt.Sprintf("seededRandSource.Intn: n must be positive, got %d", n))
	}
	return s.r.IntN(n)
}

// NewSeededRandSource returns a reproducible source. Two sources built with the same
// seed produce the same sequence.
func NewSeededRandSource(seed uint64) RandSource {
	return seededRandSource{r: mrand.New(mrand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// OrderByScore returns the indexes of scores sorted by descending score.
// Ties keep their original relative order.
func OrderByScore(scores []float64) []int {
	order := make([]int, len(scores))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return scores[order[i]] > scores[order[j]]
	})
	return order
}

// ShuffleTies shuffles each run of equal keys in an already-sorted slice using Fisher-Yates,
// so equal-priority entries are served in random order.
func ShuffleTies[T any](entries []T, key func(T) float64, randSource RandSource) {
	if randSource == nil {
		randSource = DefaultRandSource()
	}

	i := 0
	for i < len(entries) {
		k := key(entries[i])
		j := i + 1
		for j < len(entries) && key(entries[j]) == k {
			j++
		}

		if j-i > 1 {
			for m := j - 1; m > i; m-- {
				randIdx := i + randSource.Intn(m-i+1)
				entries[m], entries[randIdx] = entries[randIdx], entries[m]
			}
		}

		i = j
	}
}
