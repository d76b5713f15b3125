// Package auction runs the item-by-item auction state machine. The engine never
// reads the wall clock or starts goroutines: callers drive it with timestamps.
package auction

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hectorportal/auction/agent"
	"github.com/hectorportal/auction/core"
	"github.com/hectorportal/auction/ledger"
)

// State is the run state.
type State int

const (
	StateSetup State = iota
	StateInProgress
	StatePaused
	StateCompleted
)

func (s State) String() string {
	switch s {
	case StateSetup:
		return "setup"
	case StateInProgress:
		return "in_progress"
	case StatePaused:
		return "paused"
	case StateCompleted:
		return "completed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// openItem is the bidding state of the item currently on the block.
type openItem struct {
	lot            Lot
	top            core.TopBid
	history        []core.Bid
	sequence       int // number of accepted bids
	openedAt       time.Time
	deadline       time.Time
	nextAgentRound time.Time
}

// Engine is one auction run. All methods are safe for concurrent use; every
// mutation runs under a single mutex.
type Engine struct {
	mu sync.Mutex

	cfg      Config
	ledger   *ledger.Ledger
	pool     *agent.Pool
	log      *slog.Logger
	observer Observer
	newID    func() string
	runID    string

	state      State
	queue      []Lot
	index      int
	item       *openItem
	nextOpenAt time.Time // pending auto-advance while item is nil
	pausedAt   time.Time
	lastTick   time.Time
	results    []core.Result
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine logger.
func WithLogger(log *slog.Logger) Option {
	return func(e *Engine) { e.log = log }
}

// WithObserver registers an event observer.
func WithObserver(o Observer) Option {
	return func(e *Engine) { e.observer = o }
}

// WithIDGenerator replaces the uuid generator used for bid ids.
func WithIDGenerator(newID func() string) Option {
	return func(e *Engine) { e.newID = newID }
}

// WithRunID sets the run identifier.
func WithRunID(id string) Option {
	return func(e *Engine) { e.runID = id }
}

// New creates an engine in the Setup state. A nil pool means no agent bidders.
func New(cfg Config, l *ledger.Ledger, pool *agent.Pool, opts ...Option) *Engine {
	e := &Engine{
		cfg:      cfg,
		ledger:   l,
		pool:     pool,
		log:      slog.Default(),
		observer: NopObserver{},
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.pool == nil {
		e.pool = agent.NewPool(nil, nil)
	}
	if e.runID == "" {
		e.runID = uuid.NewString()
	}
	e.log = e.log.With("run", e.runID)
	return e
}

// RunID returns the run identifier.
func (e *Engine) RunID() string {
	return e.runID
}

// Ledger returns the engine's ledger.
func (e *Engine) Ledger() *ledger.Ledger {
	return e.ledger
}

// State returns the current run state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Setup validates the configuration and queues lots by descending quality score.
// Configuration errors are returned here, before the run can start.
func (e *Engine) Setup(lots []Lot) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != StateSetup {
		return fmt.Errorf("setup in state %s: %w", e.state, ErrInvalidState)
	}
	if err := e.cfg.Validate(); err != nil {
		return err
	}
	if e.ledger == nil {
		return fmt.Errorf("%w: ledger is required", ErrInvalidConfig)
	}
	if len(lots) == 0 {
		return ErrEmptyQueue
	}

	e.queue = orderLots(lots)
	e.log.Info("auction set up", "items", len(e.queue), "bidders", len(e.ledger.Bidders()),
		"agents", len(e.pool.Agents()), "timer", e.cfg.TimerEnabled, "duration", e.cfg.TimerDuration)
	for _, a := range e.pool.Agents() {
		if err := a.Err(); err != nil {
			e.log.Warn("agent will always pass", "bidder", a.ID(), "err", err)
		}
	}
	return nil
}

// Queue returns the lots in auction order.
func (e *Engine) Queue() []Lot {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]Lot, len(e.queue))
	copy(out, e.queue)
	return out
}

// Start opens the first item.
func (e *Engine) Start(now time.Time) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != StateSetup {
		return fmt.Errorf("start in state %s: %w", e.state, ErrInvalidState)
	}
	if len(e.queue) == 0 {
		return ErrEmptyQueue
	}

	e.state = StateInProgress
	e.lastTick = now
	e.openLocked(now)
	return nil
}

func (e *Engine) openLocked(now time.Time) {
	lot := e.queue[e.index]
	e.item = &openItem{
		lot:            lot,
		top:            core.TopBid{Amount: lot.Valuation.StartingPrice},
		openedAt:       now,
		nextAgentRound: now.Add(e.cfg.AgentCadence),
	}
	if e.cfg.TimerEnabled {
		e.item.deadline = now.Add(e.cfg.TimerDuration)
	}
	e.nextOpenAt = time.Time{}

	e.log.Info("item opened", "item", lot.Item.ID, "name", lot.Item.Name,
		"index", e.index+1, "of", len(e.queue),
		"score", lot.Valuation.QualityScore, "price", lot.Valuation.AdjustedPrice,
		"opening", lot.Valuation.StartingPrice)
	e.observer.ItemOpened(lot)
}

// Pause freezes the timer. Bids are rejected while paused.
func (e *Engine) Pause(now time.Time) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != StateInProgress {
		return fmt.Errorf("pause in state %s: %w", e.state, ErrInvalidState)
	}
	e.state = StatePaused
	e.pausedAt = now
	e.log.Info("auction paused", "remaining", e.remainingLocked(now))
	return nil
}

// Resume continues from the frozen remaining time.
func (e *Engine) Resume(now time.Time) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != StatePaused {
		return fmt.Errorf("resume in state %s: %w", e.state, ErrInvalidState)
	}

	frozen := now.Sub(e.pausedAt)
	if frozen < 0 {
		frozen = 0
	}
	if e.item != nil {
		if !e.item.deadline.IsZero() {
			e.item.deadline = e.item.deadline.Add(frozen)
		}
		e.item.nextAgentRound = e.item.nextAgentRound.Add(frozen)
	} else if !e.nextOpenAt.IsZero() {
		e.nextOpenAt = e.nextOpenAt.Add(frozen)
	}
	e.state = StateInProgress
	e.pausedAt = time.Time{}
	e.log.Info("auction resumed", "paused_for", frozen)
	return nil
}
