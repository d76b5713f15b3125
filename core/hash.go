package core

import (
	"crypto/sha256"
	"fmt"
	"strings"
)

// ComputeBidHash computes the hash of a single accepted bid.
//
// Formula: SHA256(bid_id + "|" + bidder + "|" + sprintf("%.6f", amount))
//
// The amount is formatted to exactly 6 decimal places to ensure consistent hashing
// regardless of how the float is represented in memory.
func ComputeBidHash(bidID, bidder string, amount float64) string {
	data := fmt.Sprintf("%s|%s|%.6f", bidID, bidder, amount)
	hash := sha256.Sum256([]byte(data))
	return fmt.Sprintf("%x", hash)
}

// ComputeHistoryHash seals the bid history of a closed item.
//
// Formula: SHA256(item_id + "|" + bid_hash_1 + "|" + bid_hash_2 + ...)
//
// Bids are hashed in acceptance order, so any reordering or edit of a closed history
// changes the hash.
func ComputeHistoryHash(itemID string, bids []Bid) string {
	var b strings.Builder
	b.WriteString(itemID)
	for _, bid := range bids {
		b.WriteString("|")
		b.WriteString(ComputeBidHash(bid.ID, bid.Bidder, bid.Amount))
	}
	hash := sha256.Sum256([]byte(b.String()))
	return fmt.Sprintf("%x", hash)
}

// ComputeResultsHash computes a digest over a result sequence.
//
// Formula: SHA256(run_id + "|" + item:winner:price:years:history_hash + "|" + ...)
func ComputeResultsHash(runID string, results []Result) string {
	var b strings.Builder
	b.WriteString(runID)
	for _, r := range results {
		fmt.Fprintf(&b, "|%s:%s:%.6f:%d:%s", r.ItemID, r.Winner, r.Price, r.ContractYears, r.HistoryHash)
	}
	hash := sha256.Sum256([]byte(b.String()))
	return fmt.Sprintf("%x", hash)
}
