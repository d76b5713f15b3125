package ledger

import (
	"fmt"

	"github.com/samber/lo"

	"github.com/hectorportal/auction/core"
)

// IssueKind names a non-fatal end-of-run finding.
type IssueKind string

const (
	IssueBelowMinSpend  IssueKind = "below_min_spend"
	IssueBelowMinRoster IssueKind = "below_min_roster"
)

// Issue is one report entry. Issues never fail a run.
type Issue struct {
	BidderID string    `json:"bidder_id"`
	Kind     IssueKind `json:"kind"`
	Detail   string    `json:"detail"`
}

// TeamSummary is the end-of-run view of one bidder.
type TeamSummary struct {
	BidderID       string        `json:"bidder_id"`
	Name           string        `json:"name"`
	Budget         float64       `json:"budget"`
	Spent          float64       `json:"spent"`
	Remaining      float64       `json:"remaining"`
	RosterSize     int           `json:"roster_size"`
	MinSpend       float64       `json:"min_spend"`
	MeetsMinSpend  bool          `json:"meets_min_spend"`
	MeetsMinRoster bool          `json:"meets_min_roster"`
	Acquisitions   []Acquisition `json:"acquisitions"`
}

// Report summarizes every account and lists constraint shortfalls.
type Report struct {
	Teams  []TeamSummary `json:"teams"`
	Issues []Issue       `json:"issues"`
}

// Report builds the end-of-run report.
func (l *Ledger) Report() Report {
	l.mu.RLock()
	defer l.mu.RUnlock()

	teams := lo.Map(l.order, func(id string, _ int) TeamSummary {
		a := l.accounts[id]
		minSpend := core.ScaleMoney(a.bidder.Budget, a.bidder.MinSpendFraction)
		state := l.stateOf(a)
		return TeamSummary{
			BidderID:       id,
			Name:           a.bidder.Name,
			Budget:         a.bidder.Budget,
			Spent:          a.spent,
			Remaining:      state.Remaining,
			RosterSize:     state.RosterSize,
			MinSpend:       minSpend,
			MeetsMinSpend:  core.AmountAtLeast(a.spent, minSpend),
			MeetsMinRoster: state.RosterSize >= a.bidder.RosterMin,
			Acquisitions:   state.Acquisitions,
		}
	})

	issues := lo.FlatMap(teams, func(t TeamSummary, _ int) []Issue {
		var out []Issue
		if !t.MeetsMinSpend {
			out = append(out, Issue{
				BidderID: t.BidderID,
				Kind:     IssueBelowMinSpend,
				Detail:   fmt.Sprintf("spent $%.2fM of required $%.2fM", t.Spent, t.MinSpend),
			})
		}
		if !t.MeetsMinRoster {
			bidder := l.accounts[t.BidderID].bidder
			out = append(out, Issue{
				BidderID: t.BidderID,
				Kind:     IssueBelowMinRoster,
				Detail:   fmt.Sprintf("roster %d below minimum %d", t.RosterSize, bidder.RosterMin),
			})
		}
		return out
	})

	return Report{Teams: teams, Issues: issues}
}
