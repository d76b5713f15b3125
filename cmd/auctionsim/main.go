package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/lmittmann/tint"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	"github.com/hectorportal/auction/agent"
	"github.com/hectorportal/auction/attest"
	"github.com/hectorportal/auction/auction"
	"github.com/hectorportal/auction/auctionapi"
	"github.com/hectorportal/auction/auctionapi/parsing"
	"github.com/hectorportal/auction/config"
	"github.com/hectorportal/auction/core"
	"github.com/hectorportal/auction/ledger"
	"github.com/hectorportal/auction/metrics"
	"github.com/hectorportal/auction/store"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load: %v\n", err)
		os.Exit(2)
	}

	flag.StringVar(&cfg.Run.ItemsFile, "items", cfg.Run.ItemsFile, "JSON file of item records")
	flag.StringVar(&cfg.Run.BiddersFile, "bidders", cfg.Run.BiddersFile, "JSON file of bidder records")
	flag.Uint64Var(&cfg.Run.Seed, "seed", cfg.Run.Seed, "seed for agent tie shuffles (0 for crypto/rand)")
	flag.Float64Var(&cfg.Run.Speed, "speed", cfg.Run.Speed, "simulated seconds per wall-clock second")
	flag.Parse()

	log := slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      cfg.LogLevel(),
		TimeFormat: time.Kitchen,
	}))
	slog.SetDefault(log)

	if err := run(ctx, log, cfg); err != nil {
		log.Error("auction run failed", tint.Err(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, log *slog.Logger, cfg config.Config) error {
	if cfg.Run.ItemsFile == "" || cfg.Run.BiddersFile == "" {
		return errors.New("both --items and --bidders (or RUN_ITEMS_FILE and RUN_BIDDERS_FILE) are required")
	}
	if cfg.Run.Speed <= 0 {
		return fmt.Errorf("speed must be positive, got %v", cfg.Run.Speed)
	}

	var itemRecords []auctionapi.ItemRecord
	if err := readJSON(cfg.Run.ItemsFile, &itemRecords); err != nil {
		return err
	}
	items, err := parsing.Items(itemRecords)
	if err != nil {
		return fmt.Errorf("parse items: %w", err)
	}

	var bidderRecords []auctionapi.BidderRecord
	if err := readJSON(cfg.Run.BiddersFile, &bidderRecords); err != nil {
		return err
	}
	bidders, err := parsing.Bidders(bidderRecords)
	if err != nil {
		return fmt.Errorf("parse bidders: %w", err)
	}

	l, err := ledger.New(bidders, cfg.LedgerConfig())
	if err != nil {
		return fmt.Errorf("ledger.New: %w", err)
	}

	randSource := core.DefaultRandSource()
	if cfg.Run.Seed > 0 {
		randSource = core.NewSeededRandSource(cfg.Run.Seed)
	}

	clock := newSimClock(time.Now(), cfg.Run.Speed)
	startedAt := clock.Now()

	league := cfg.LeagueContext(startedAt)
	if cfg.Market.Enabled {
		league = auction.MarketContext(league, l, cfg.Decay(league.AsOf))
	}
	lots := auction.PriceLots(items, league)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	engineMetrics, err := metrics.NewEngineObserver(reg)
	if err != nil {
		return fmt.Errorf("metrics.NewEngineObserver: %w", err)
	}
	bidLog := store.NewBidLog()

	engine := auction.New(cfg.AuctionConfig(), l, agent.NewPool(bidders, randSource),
		auction.WithLogger(log),
		auction.WithObserver(auction.Observers(engineMetrics, bidLog)),
	)
	if err := engine.Setup(lots); err != nil {
		return fmt.Errorf("engine.Setup: %w", err)
	}

	log.Info("auction starting", "run", engine.RunID(), "items", len(lots), "bidders", len(bidders),
		"timer", cfg.Auction.TimerEnabled, "speed", cfg.Run.Speed)

	simCtx, stopSim := context.WithCancel(ctx)
	defer stopSim()

	g, gCtx := errgroup.WithContext(simCtx)
	if cfg.Run.MetricsAddress != "" {
		server := metrics.NewPrometheusServer(cfg.Run.MetricsAddress, reg, log)
		g.Go(func() error {
			return server.Run(gCtx)
		})
	}
	g.Go(func() error {
		defer stopSim()
		if cfg.Auction.TimerEnabled {
			return driveTimed(gCtx, engine, clock, cfg.Run.TickInterval, log)
		}
		return driveManual(gCtx, engine, clock, cfg.Auction.AgentCadence)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	finishedAt := clock.Now()
	summary := engine.Summary()
	if !summary.Completed {
		log.Warn("auction interrupted", "resolved", summary.Resolved, "of", summary.Items)
	}

	return persist(context.WithoutCancel(ctx), log, cfg.Run, engine, items, bidLog, startedAt, finishedAt)
}

// persist saves the run to the database and writes the plain and signed exports.
func persist(
	ctx context.Context,
	log *slog.Logger,
	cfg config.Run,
	engine *auction.Engine,
	items []core.Item,
	bidLog *store.BidLog,
	startedAt, finishedAt time.Time,
) error {
	summary := engine.Summary()
	results := engine.Results()

	db, err := store.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("store.Open: %w", err)
	}
	defer db.Close()

	if err := db.SaveRun(ctx, store.NewRun(summary, startedAt, finishedAt), results, bidLog.Bids()); err != nil {
		return fmt.Errorf("db.SaveRun: %w", err)
	}

	export := auctionapi.NewResultExport(summary.RunID, results, items, engine.Ledger().Bidders(), finishedAt)
	exportJSON, err := export.EncodeJSON()
	if err != nil {
		return fmt.Errorf("export.EncodeJSON: %w", err)
	}

	km, err := attest.LoadOrCreateKeyManager(cfg.SigningKeyPath)
	if err != nil {
		return fmt.Errorf("attest.LoadOrCreateKeyManager: %w", err)
	}
	signed, err := km.SignExport(export)
	if err != nil {
		return fmt.Errorf("km.SignExport: %w", err)
	}
	publicKeyPEM, err := km.PublicKeyPEM()
	if err != nil {
		return fmt.Errorf("km.PublicKeyPEM: %w", err)
	}

	if err := os.MkdirAll(cfg.ExportDir, 0o755); err != nil {
		return fmt.Errorf("create export dir: %w", err)
	}
	outputs := map[string][]byte{
		"results.json":    exportJSON,
		"results.cose":    signed,
		"signing.pub.pem": []byte(publicKeyPEM),
	}
	for name, data := range outputs {
		if err := os.WriteFile(filepath.Join(cfg.ExportDir, name), data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", name, err)
		}
	}

	report := engine.Ledger().Report()
	for _, team := range report.Teams {
		log.Info("team", "bidder", team.BidderID, "spent", team.Spent, "remaining", team.Remaining,
			"roster", team.RosterSize)
	}
	for _, issue := range report.Issues {
		log.Warn("constraint shortfall", "bidder", issue.BidderID, "kind", issue.Kind, "detail", issue.Detail)
	}

	log.Info("auction saved", "run", summary.RunID, "sold", summary.Sold, "unsold", summary.Unsold,
		"spend", summary.TotalSpend, "db", cfg.DBPath, "exports", cfg.ExportDir)
	return nil
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}
