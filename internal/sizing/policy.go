// Package sizing implements the bet-sizing policies used by the backtest
// engine. Policies are pure: they map (bankroll, confidence, odds, win
// probability) to a stake and never touch ledger state. The caller applies
// the hard bankroll-fraction cap after sizing.
package sizing

import (
	"fmt"
)

// Strategy identifies a sizing policy.
type Strategy string

const (
	StrategyFixedAmount     Strategy = "fixed_amount"
	StrategyPercentage      Strategy = "percentage"
	StrategyKellyCriterion  Strategy = "kelly_criterion"
	StrategyConfidenceBased Strategy = "confidence_based"
)

// Strategies lists every known sizing policy identifier.
func Strategies() []Strategy {
	return []Strategy{
		StrategyFixedAmount,
		StrategyPercentage,
		StrategyKellyCriterion,
		StrategyConfidenceBased,
	}
}

// IsValid reports whether s names a known policy.
func (s Strategy) IsValid() bool {
	switch s {
	case StrategyFixedAmount, StrategyPercentage, StrategyKellyCriterion, StrategyConfidenceBased:
		return true
	}
	return false
}

// Params carries the configuration slice the policies need.
type Params struct {
	// BetAmount is a dollar amount for fixed_amount and a percent-of-bankroll
	// value for percentage and confidence_based.
	BetAmount float64
	// MaxBetFraction is the hard cap on stake as a fraction of bankroll. The
	// Kelly policy also clamps its raw fraction to this value.
	MaxBetFraction float64
	// KellyMultiplier scales the raw Kelly fraction (e.g. 0.5 for half
	// Kelly). Values <= 0 mean full Kelly.
	KellyMultiplier float64
}

// Policy sizes a single bet. Size returns a non-negative stake before
// commission and before the caller applies the hard bankroll cap.
type Policy interface {
	Name() Strategy
	Size(bankroll, confidence, decimalOdds, winProbability float64) float64
}

// New builds the policy selected by strategy.
func New(strategy Strategy, params Params) (Policy, error) {
	switch strategy {
	case StrategyFixedAmount:
		return &FixedAmount{params: params}, nil
	case StrategyPercentage:
		return &Percentage{params: params}, nil
	case StrategyKellyCriterion:
		return &KellyCriterion{params: params}, nil
	case StrategyConfidenceBased:
		return &ConfidenceBased{params: params}, nil
	default:
		return nil, fmt.Errorf("unknown betting strategy %q", strategy)
	}
}
