package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"github.com/hectorportal/auction/auction"
	"github.com/hectorportal/auction/ledger"
	"github.com/hectorportal/auction/market"
	"github.com/hectorportal/auction/valuation"
)

const dateLayout = "2006-01-02"

type Config struct {
	Auction Auction
	League  League
	Market  Market
	Run     Run
	Log     Log
}

type Auction struct {
	TimerEnabled     bool          `env:"AUCTION_TIMER_ENABLED" envDefault:"true"`
	TimerDuration    time.Duration `env:"AUCTION_TIMER_DURATION" envDefault:"60s" validate:"min=30s,max=120s"`
	MinIncrement     float64       `env:"AUCTION_MIN_INCREMENT" envDefault:"0.5" validate:"gte=0"`
	IncrementPercent float64       `env:"AUCTION_INCREMENT_PERCENT" envDefault:"0" validate:"gte=0,lte=100"`
	AutoAdvanceDelay time.Duration `env:"AUCTION_AUTO_ADVANCE_DELAY" envDefault:"3s" validate:"gte=0"`
	AgentCadence     time.Duration `env:"AUCTION_AGENT_CADENCE" envDefault:"2500ms" validate:"min=100ms"`
}

type League struct {
	ReferenceBudget         float64 `env:"LEAGUE_REFERENCE_BUDGET" envDefault:"100" validate:"gt=0"`
	BudgetReferenceFraction float64 `env:"LEAGUE_BUDGET_REFERENCE_FRACTION" envDefault:"0.20" validate:"gt=0,lte=1"`
	MinPrice                float64 `env:"LEAGUE_MIN_PRICE" envDefault:"0.5" validate:"gt=0"`
	StartingPriceFraction   float64 `env:"LEAGUE_STARTING_PRICE_FRACTION" envDefault:"0.35" validate:"gt=0,lte=1"`
	ValuationDate           string  `env:"LEAGUE_VALUATION_DATE" validate:"omitempty,datetime=2006-01-02"`
	ReservePerSlot          float64 `env:"LEDGER_RESERVE_PER_SLOT" envDefault:"1.0" validate:"gte=0"`
}

type Market struct {
	Enabled    bool    `env:"MARKET_ENABLED" envDefault:"true"`
	DecayStart string  `env:"MARKET_DECAY_START" validate:"omitempty,datetime=2006-01-02"`
	DecayRate  float64 `env:"MARKET_DECAY_RATE" envDefault:"0.02" validate:"gte=0,lte=1"`
	MaxDecay   float64 `env:"MARKET_MAX_DECAY" envDefault:"0.50" validate:"gte=0,lte=1"`
}

type Run struct {
	ItemsFile      string        `env:"RUN_ITEMS_FILE"`
	BiddersFile    string        `env:"RUN_BIDDERS_FILE"`
	Seed           uint64        `env:"RUN_SEED"` // 0 uses crypto/rand
	Speed          float64       `env:"RUN_SPEED" envDefault:"1" validate:"gt=0,lte=1000"`
	TickInterval   time.Duration `env:"RUN_TICK_INTERVAL" envDefault:"100ms" validate:"min=10ms"`
	DBPath         string        `env:"RUN_DB_PATH" envDefault:"auction.db"`
	ExportDir      string        `env:"RUN_EXPORT_DIR" envDefault:"."`
	SigningKeyPath string        `env:"RUN_SIGNING_KEY" envDefault:"signing.pem"`
	MetricsAddress string        `env:"METRICS_ADDRESS"`
}

type Log struct {
	Level string `env:"LOG_LEVEL" envDefault:"info" validate:"oneof=debug info warn error"`
}

var validate = validator.New(validator.WithRequiredStructEnabled()) //nolint:gochecknoglobals

// Load reads an optional .env file, then the environment, and validates the result.
func Load() (Config, error) {
	_ = godotenv.Load()
	return Parse()
}

// Parse reads the process environment without touching .env.
func Parse() (Config, error) {
	var config Config

	if err := env.Parse(&config); err != nil {
		return Config{}, fmt.Errorf("env.Parse: %w", err)
	}

	config.Log.Level = strings.ToLower(config.Log.Level)
	if err := validate.Struct(config); err != nil {
		return Config{}, fmt.Errorf("validate config: %w", err)
	}

	return config, nil
}

// AuctionConfig converts the engine settings.
func (c Config) AuctionConfig() auction.Config {
	return auction.Config{
		TimerEnabled:     c.Auction.TimerEnabled,
		TimerDuration:    c.Auction.TimerDuration,
		MinIncrement:     c.Auction.MinIncrement,
		IncrementPercent: c.Auction.IncrementPercent,
		AutoAdvanceDelay: c.Auction.AutoAdvanceDelay,
		AgentCadence:     c.Auction.AgentCadence,
	}
}

// LedgerConfig converts the ledger settings.
func (c Config) LedgerConfig() ledger.Config {
	return ledger.Config{ReservePerSlot: c.League.ReservePerSlot}
}

// LeagueContext returns the default league context with the configured overrides,
// valued at the configured date or at fallback when none is set.
func (c Config) LeagueContext(fallback time.Time) valuation.LeagueContext {
	ctx := valuation.DefaultLeagueContext()
	ctx.ReferenceBudget = c.League.ReferenceBudget
	ctx.BudgetReferenceFraction = c.League.BudgetReferenceFraction
	ctx.MinPrice = c.League.MinPrice
	ctx.StartingPriceFraction = c.League.StartingPriceFraction
	return ctx.WithAsOf(parseDate(c.League.ValuationDate, fallback))
}

// Decay returns the desperation decay schedule. Without a configured start date the
// decay starts on January 15 of the valuation year.
func (c Config) Decay(asOf time.Time) market.Decay {
	return market.Decay{
		Start:      parseDate(c.Market.DecayStart, defaultDecayStart(asOf)),
		RatePerDay: c.Market.DecayRate,
		MaxDecay:   c.Market.MaxDecay,
	}
}

// LogLevel maps LOG_LEVEL onto slog.
func (c Config) LogLevel() slog.Level {
	switch c.Log.Level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func defaultDecayStart(asOf time.Time) time.Time {
	return time.Date(asOf.Year(), time.January, 15, 0, 0, 0, 0, time.UTC)
}

func parseDate(s string, fallback time.Time) time.Time {
	if s == "" {
		return fallback
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return fallback
	}
	return t
}
