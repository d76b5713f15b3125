package auction

import (
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/hectorportal/auction/agent"
	"github.com/hectorportal/auction/core"
	"github.com/hectorportal/auction/ledger"
	"github.com/hectorportal/auction/valuation"
	"github.com/peterldowns/testy/assert"
)

var t0 = time.Date(2026, 4, 1, 19, 0, 0, 0, time.UTC)

func at(d time.Duration) time.Time {
	return t0.Add(d)
}

// fixedRandSource always returns n-1: agents never sit out and ties keep order.
type fixedRandSource struct{}

func (fixedRandSource) Intn(n int) int { return n - 1 }

func human(id string, budget float64, rosterMin int) core.Bidder {
	return core.Bidder{
		ID:        id,
		Name:      id,
		Budget:    budget,
		RosterMin: rosterMin,
		RosterMax: 25,
		Control:   core.ControlHuman,
	}
}

func bot(id string, strategy core.StrategyTag) core.Bidder {
	b := human(id, 100, 0)
	b.Control = core.ControlAgent
	b.Strategy = strategy
	return b
}

func lot(id string, score, price, opening float64) Lot {
	return Lot{
		Item: core.Item{ID: id, Name: "Player " + id, Position: "SS", Age: 27},
		Valuation: valuation.Valuation{
			ItemID:         id,
			QualityScore:   score,
			ReferencePrice: price,
			AdjustedPrice:  price,
			MaxPrice:       price * 1.2,
			StartingPrice:  opening,
		},
	}
}

type recorder struct {
	opened    []string
	accepted  []core.Bid
	rejected  []core.RejectReason
	rounds    int
	resolved  []core.Result
	completed *Summary
}

func (r *recorder) ItemOpened(l Lot) { r.opened = append(r.opened, l.Item.ID) }
func (r *recorder) BidAccepted(_ string, b core.Bid) {
	r.accepted = append(r.accepted, b)
}
func (r *recorder) BidRejected(_ string, _ core.BidSource, reason core.RejectReason) {
	r.rejected = append(r.rejected, reason)
}
func (r *recorder) AgentRound(string, int, int) { r.rounds++ }
func (r *recorder) ItemResolved(res core.Result) { r.resolved = append(r.resolved, res) }
func (r *recorder) Completed(s Summary) { r.completed = &s }

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("bid-%03d", n)
	}
}

type fixture struct {
	engine   *Engine
	ledger   *ledger.Ledger
	recorder *recorder
}

func newFixture(t *testing.T, cfg Config, bidders []core.Bidder, lots []Lot) fixture {
	t.Helper()
	l, err := ledger.New(bidders, ledger.DefaultConfig())
	assert.NoError(t, err)

	rec := &recorder{}
	e := New(cfg, l, agent.NewPool(bidders, fixedRandSource{}),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithObserver(rec),
		WithIDGenerator(sequentialIDs()),
		WithRunID("run-test"),
	)
	assert.NoError(t, e.Setup(lots))
	return fixture{engine: e, ledger: l, recorder: rec}
}

func manualConfig() Config {
	cfg := DefaultConfig()
	cfg.TimerEnabled = false
	return cfg
}
