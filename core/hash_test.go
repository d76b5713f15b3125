package core

import (
	"crypto/sha256"
	"fmt"
	"testing"
	"time"

	"github.com/peterldowns/testy/check"
)

func TestComputeBidHash(t *testing.T) {
	hash := ComputeBidHash("bid_123", "NYY", 2.50)

	// SHA256 hex encoding
	check.Equal(t, 64, len(hash))
	for _, c := range hash {
		check.True(t, (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f'))
	}

	// Deterministic
	check.Equal(t, hash, ComputeBidHash("bid_123", "NYY", 2.50))

	// Different inputs produce different hashes
	check.NotEqual(t, hash, ComputeBidHash("bid_123", "NYY", 3.50))
	check.NotEqual(t, hash, ComputeBidHash("bid_123", "BOS", 2.50))

	expectedData := fmt.Sprintf("%s|%s|%.6f", "bid_123", "NYY", 2.50)
	check.Equal(t, fmt.Sprintf("%x", sha256.Sum256([]byte(expectedData))), hash)
}

func TestComputeBidHash_AmountFormatting(t *testing.T) {
	// 2.5 and 2.500000 format identically
	check.Equal(t, ComputeBidHash("b", "x", 2.5), ComputeBidHash("b", "x", 2.500000))
	// Differences below 6 decimal places are ignored
	check.Equal(t, ComputeBidHash("b", "x", 2.5), ComputeBidHash("b", "x", 2.5000001))
}

func TestComputeHistoryHash(t *testing.T) {
	at := time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)
	bids := []Bid{
		{ID: "b1", Bidder: "NYY", Amount: 2.0, Timestamp: at},
		{ID: "b2", Bidder: "BOS", Amount: 2.5, Timestamp: at.Add(time.Second)},
	}

	hash := ComputeHistoryHash("player-1", bids)
	check.Equal(t, 64, len(hash))
	check.Equal(t, hash, ComputeHistoryHash("player-1", bids))

	// Timestamps are not part of the seal
	moved := []Bid{bids[0], bids[1]}
	moved[1].Timestamp = at.Add(time.Hour)
	check.Equal(t, hash, ComputeHistoryHash("player-1", moved))

	// Reordering changes the hash
	reordered := []Bid{bids[1], bids[0]}
	check.NotEqual(t, hash, ComputeHistoryHash("player-1", reordered))

	// Item identity is part of the seal
	check.NotEqual(t, hash, ComputeHistoryHash("player-2", bids))

	// Empty history still hashes the item identity
	check.NotEqual(t, ComputeHistoryHash("player-1", nil), ComputeHistoryHash("player-2", nil))
}

func TestComputeResultsHash(t *testing.T) {
	results := []Result{
		{ItemID: "p1", Winner: "NYY", Price: 12.5, ContractYears: 6, HistoryHash: "abc"},
		{ItemID: "p2", Winner: Unsold, Price: 0, ContractYears: 0, HistoryHash: "def"},
	}

	hash := ComputeResultsHash("run-1", results)
	check.Equal(t, 64, len(hash))
	check.Equal(t, hash, ComputeResultsHash("run-1", results))
	check.NotEqual(t, hash, ComputeResultsHash("run-2", results))

	changed := []Result{results[0], results[1]}
	changed[0].Price = 13.0
	check.NotEqual(t, hash, ComputeResultsHash("run-1", changed))
}
