// Package store provides SQLite-based persistence for auction runs.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/hectorportal/auction/auction"
	"github.com/hectorportal/auction/core"
)

var ErrRunNotFound = errors.New("run not found")

// DB wraps a SQLite connection for run persistence.
type DB struct {
	conn *sqlx.DB
}

// Open opens or creates a SQLite database at the given path. Use ":memory:" in tests.
func Open(path string) (*DB, error) {
	dsn := path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	if path == ":memory:" {
		dsn = path
	}
	conn, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if path == ":memory:" {
		// each pooled connection would otherwise get its own empty database
		conn.SetMaxOpenConns(1)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		started_at TIMESTAMP NOT NULL,
		finished_at TIMESTAMP NOT NULL,
		items INTEGER NOT NULL,
		sold INTEGER NOT NULL,
		unsold INTEGER NOT NULL,
		total_spend REAL NOT NULL,
		average_price REAL NOT NULL,
		completed INTEGER NOT NULL,
		results_hash TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS results (
		run_id TEXT NOT NULL REFERENCES runs(id),
		seq INTEGER NOT NULL,
		item_id TEXT NOT NULL,
		item_name TEXT NOT NULL,
		winner TEXT NOT NULL,
		price REAL NOT NULL,
		contract_years INTEGER NOT NULL,
		bid_count INTEGER NOT NULL,
		history_hash TEXT NOT NULL,
		PRIMARY KEY (run_id, seq)
	);

	CREATE TABLE IF NOT EXISTS bids (
		run_id TEXT NOT NULL REFERENCES runs(id),
		id TEXT NOT NULL,
		item_id TEXT NOT NULL,
		bidder TEXT NOT NULL,
		amount REAL NOT NULL,
		source TEXT NOT NULL,
		placed_at TIMESTAMP NOT NULL,
		PRIMARY KEY (run_id, id)
	);

	CREATE UNIQUE INDEX IF NOT EXISTS idx_results_item ON results(run_id, item_id);
	CREATE INDEX IF NOT EXISTS idx_bids_item ON bids(run_id, item_id);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// Run is the stored header of one auction run.
type Run struct {
	ID           string    `db:"id"`
	StartedAt    time.Time `db:"started_at"`
	FinishedAt   time.Time `db:"finished_at"`
	Items        int       `db:"items"`
	Sold         int       `db:"sold"`
	Unsold       int       `db:"unsold"`
	TotalSpend   float64   `db:"total_spend"`
	AveragePrice float64   `db:"average_price"`
	Completed    bool      `db:"completed"`
	ResultsHash  string    `db:"results_hash"`
}

// NewRun builds a run header from an engine summary.
func NewRun(summary auction.Summary, startedAt, finishedAt time.Time) Run {
	return Run{
		ID:           summary.RunID,
		StartedAt:    startedAt.UTC(),
		FinishedAt:   finishedAt.UTC(),
		Items:        summary.Items,
		Sold:         summary.Sold,
		Unsold:       summary.Unsold,
		TotalSpend:   summary.TotalSpend,
		AveragePrice: summary.AveragePrice,
		Completed:    summary.Completed,
		ResultsHash:  summary.ResultsHash,
	}
}

type resultRow struct {
	RunID         string  `db:"run_id"`
	Seq           int     `db:"seq"`
	ItemID        string  `db:"item_id"`
	ItemName      string  `db:"item_name"`
	Winner        string  `db:"winner"`
	Price         float64 `db:"price"`
	ContractYears int     `db:"contract_years"`
	BidCount      int     `db:"bid_count"`
	HistoryHash   string  `db:"history_hash"`
}

type bidRow struct {
	RunID    string    `db:"run_id"`
	ID       string    `db:"id"`
	ItemID   string    `db:"item_id"`
	Bidder   string    `db:"bidder"`
	Amount   float64   `db:"amount"`
	Source   string    `db:"source"`
	PlacedAt time.Time `db:"placed_at"`
}

// SaveRun writes a run with its results and accepted bids in one transaction. Saving
// the same run again replaces it.
func (db *DB) SaveRun(ctx context.Context, run Run, results []core.Result, bids []ItemBid) error {
	tx, err := db.conn.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"bids", "results"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table+" WHERE run_id = ?", run.ID); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM runs WHERE id = ?", run.ID); err != nil {
		return fmt.Errorf("clear run: %w", err)
	}

	if _, err := tx.NamedExecContext(ctx, `INSERT INTO runs
		(id, started_at, finished_at, items, sold, unsold, total_spend, average_price, completed, results_hash)
		VALUES (:id, :started_at, :finished_at, :items, :sold, :unsold, :total_spend, :average_price, :completed, :results_hash)`,
		run); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	for i, r := range results {
		row := resultRow{
			RunID:         run.ID,
			Seq:           i,
			ItemID:        r.ItemID,
			ItemName:      r.ItemName,
			Winner:        r.Winner,
			Price:         r.Price,
			ContractYears: r.ContractYears,
			BidCount:      r.BidCount,
			HistoryHash:   r.HistoryHash,
		}
		if _, err := tx.NamedExecContext(ctx, `INSERT INTO results
			(run_id, seq, item_id, item_name, winner, price, contract_years, bid_count, history_hash)
			VALUES (:run_id, :seq, :item_id, :item_name, :winner, :price, :contract_years, :bid_count, :history_hash)`,
			row); err != nil {
			return fmt.Errorf("insert result %s: %w", r.ItemID, err)
		}
	}

	for _, b := range bids {
		row := bidRow{
			RunID:    run.ID,
			ID:       b.Bid.ID,
			ItemID:   b.ItemID,
			Bidder:   b.Bid.Bidder,
			Amount:   b.Bid.Amount,
			Source:   string(b.Bid.Source),
			PlacedAt: b.Bid.Timestamp.UTC(),
		}
		if _, err := tx.NamedExecContext(ctx, `INSERT INTO bids
			(run_id, id, item_id, bidder, amount, source, placed_at)
			VALUES (:run_id, :id, :item_id, :bidder, :amount, :source, :placed_at)`,
			row); err != nil {
			return fmt.Errorf("insert bid %s: %w", b.Bid.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// Run loads a run header.
func (db *DB) Run(ctx context.Context, id string) (Run, error) {
	var runs []Run
	if err := db.conn.SelectContext(ctx, &runs, "SELECT * FROM runs WHERE id = ?", id); err != nil {
		return Run{}, fmt.Errorf("select run: %w", err)
	}
	if len(runs) == 0 {
		return Run{}, fmt.Errorf("%s: %w", id, ErrRunNotFound)
	}
	return runs[0], nil
}

// Runs lists stored runs, most recent first.
func (db *DB) Runs(ctx context.Context) ([]Run, error) {
	var runs []Run
	if err := db.conn.SelectContext(ctx, &runs, "SELECT * FROM runs ORDER BY started_at DESC"); err != nil {
		return nil, fmt.Errorf("select runs: %w", err)
	}
	return runs, nil
}

// Results loads a run's results in resolution order.
func (db *DB) Results(ctx context.Context, runID string) ([]core.Result, error) {
	var rows []resultRow
	if err := db.conn.SelectContext(ctx, &rows, "SELECT * FROM results WHERE run_id = ? ORDER BY seq", runID); err != nil {
		return nil, fmt.Errorf("select results: %w", err)
	}
	results := make([]core.Result, 0, len(rows))
	for _, r := range rows {
		results = append(results, core.Result{
			ItemID:        r.ItemID,
			ItemName:      r.ItemName,
			Winner:        r.Winner,
			Price:         r.Price,
			ContractYears: r.ContractYears,
			BidCount:      r.BidCount,
			HistoryHash:   r.HistoryHash,
		})
	}
	return results, nil
}

// History loads the accepted bids of one item in acceptance order.
func (db *DB) History(ctx context.Context, runID, itemID string) ([]core.Bid, error) {
	var rows []bidRow
	if err := db.conn.SelectContext(ctx, &rows,
		"SELECT * FROM bids WHERE run_id = ? AND item_id = ? ORDER BY rowid", runID, itemID); err != nil {
		return nil, fmt.Errorf("select bids: %w", err)
	}
	bids := make([]core.Bid, 0, len(rows))
	for _, r := range rows {
		bids = append(bids, core.Bid{
			ID:        r.ID,
			Bidder:    r.Bidder,
			Amount:    r.Amount,
			Source:    core.BidSource(r.Source),
			Timestamp: r.PlacedAt,
		})
	}
	return bids, nil
}
