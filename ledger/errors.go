package ledger

import "errors"

var (
	ErrUnknownBidder      = errors.New("unknown bidder")
	ErrDuplicateBidder    = errors.New("duplicate bidder")
	ErrInvalidBudget      = errors.New("invalid budget")
	ErrInvalidRoster      = errors.New("invalid roster bounds")
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrRosterFull         = errors.New("roster full")
	ErrExceedsBudget      = errors.New("amount exceeds remaining budget")
	ErrAlreadyCommitted   = errors.New("item already committed")
	ErrInvariantViolation = errors.New("ledger invariant violation")
)
