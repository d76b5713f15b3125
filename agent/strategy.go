package agent

import (
	"errors"
	"fmt"

	"github.com/hectorportal/auction/core"
)

// ErrInvalidStrategy is returned for strategy records that cannot drive decisions.
var ErrInvalidStrategy = errors.New("invalid strategy")

// Strategy is a bidding parameter record. Every agent runs the same decision
// function; strategies differ only in these numbers.
type Strategy struct {
	Tag             core.StrategyTag
	QualityFloor    float64 // always pass below this quality score
	CeilingPct      float64 // max bid as a fraction of the market-adjusted price
	ItemBudgetPct   float64 // max bid as a fraction of remaining budget
	PassProbability float64 // chance of sitting out an otherwise attractive raise
}

// Strategies are the built-in strategy records.
var Strategies = map[core.StrategyTag]Strategy{
	core.StrategyAggressive: {
		Tag:             core.StrategyAggressive,
		QualityFloor:    55,
		CeilingPct:      1.10,
		ItemBudgetPct:   0.40,
		PassProbability: 0.10,
	},
	core.StrategyBalanced: {
		Tag:             core.StrategyBalanced,
		QualityFloor:    45,
		CeilingPct:      0.95,
		ItemBudgetPct:   0.40,
		PassProbability: 0.10,
	},
	core.StrategyConservative: {
		Tag:             core.StrategyConservative,
		QualityFloor:    40,
		CeilingPct:      0.85,
		ItemBudgetPct:   0.40,
		PassProbability: 0.10,
	},
}

// StrategyFor looks up a built-in strategy.
func StrategyFor(tag core.StrategyTag) (Strategy, error) {
	s, ok := Strategies[tag]
	if !ok {
		return Strategy{}, fmt.Errorf("%w: unknown strategy %q", ErrInvalidStrategy, tag)
	}
	return s, s.Validate()
}

// Validate checks that every parameter is in range.
func (s Strategy) Validate() error {
	switch {
	case s.QualityFloor < 0 || s.QualityFloor > 100:
		return fmt.Errorf("%w: %s quality floor %.1f out of range", ErrInvalidStrategy, s.Tag, s.QualityFloor)
	case s.CeilingPct <= 0:
		return fmt.Errorf("%w: %s ceiling must be positive", ErrInvalidStrategy, s.Tag)
	case s.ItemBudgetPct <= 0 || s.ItemBudgetPct > 1:
		return fmt.Errorf("%w: %s item budget share must be in (0, 1]", ErrInvalidStrategy, s.Tag)
	case s.PassProbability < 0 || s.PassProbability >= 1:
		return fmt.Errorf("%w: %s pass probability must be in [0, 1)", ErrInvalidStrategy, s.Tag)
	}
	return nil
}
