package backtest

import (
	"errors"
	"fmt"
	"time"

	"github.com/yourusername/betsim/internal/config"
	"github.com/yourusername/betsim/internal/sizing"
)

// DefaultMaxSpanDays bounds the simulated window when the config does not
// set its own limit.
const DefaultMaxSpanDays = 1830

// Configuration errors. All of them are fatal and surface before any
// simulation work starts.
var (
	ErrInvalidDateRange  = errors.New("start date must be before end date")
	ErrRangeTooLarge     = errors.New("date range exceeds maximum span")
	ErrInvalidBankroll   = errors.New("initial bankroll must be positive")
	ErrInvalidBetAmount  = errors.New("bet amount must be positive")
	ErrInvalidConfidence = errors.New("min confidence must be between 0 and 1")
	ErrInvalidBetCap     = errors.New("max bet percentage must be in (0, 1]")
	ErrInvalidCommission = errors.New("commission rate must be between 0 and 0.1")
)

// Config is the immutable configuration for one backtest run. Build it with
// NewConfig or FromAppConfig; both reject invalid combinations up front so
// the simulation loop never has to re-check.
type Config struct {
	StartDate       time.Time
	EndDate         time.Time
	InitialBankroll float64
	Strategy        sizing.Strategy
	BetAmount       float64
	MinConfidence   float64
	// MaxBetFraction is the hard cap on stake as a fraction of the current
	// bankroll, applied after the sizing policy runs.
	MaxBetFraction float64
	CommissionRate float64
	MaxSpanDays    int
	KellyMultiplier float64

	MonteCarloIterations int
}

// NewConfig validates and returns an immutable run configuration.
func NewConfig(cfg Config) (Config, error) {
	if cfg.MaxSpanDays <= 0 {
		cfg.MaxSpanDays = DefaultMaxSpanDays
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// FromAppConfig converts the application-level backtest section into a run
// configuration.
func FromAppConfig(cfg *config.BacktestConfig) (Config, error) {
	if cfg == nil {
		return Config{}, fmt.Errorf("backtest config is required")
	}
	start, err := time.Parse("2006-01-02", cfg.StartDate)
	if err != nil {
		return Config{}, fmt.Errorf("invalid start date: %w", err)
	}
	end, err := time.Parse("2006-01-02", cfg.EndDate)
	if err != nil {
		return Config{}, fmt.Errorf("invalid end date: %w", err)
	}

	return NewConfig(Config{
		StartDate:            start,
		EndDate:              end,
		InitialBankroll:      cfg.InitialBankroll,
		Strategy:             sizing.Strategy(cfg.Strategy),
		BetAmount:            cfg.BetAmount,
		MinConfidence:        cfg.MinConfidence,
		MaxBetFraction:       cfg.MaxBetPercentage,
		CommissionRate:       cfg.CommissionRate,
		MaxSpanDays:          cfg.MaxSpanDays,
		KellyMultiplier:      cfg.KellyMultiplier,
		MonteCarloIterations: cfg.MonteCarloIterations,
	})
}

// Validate checks the configuration invariants.
func (c Config) Validate() error {
	if !c.StartDate.Before(c.EndDate) {
		return ErrInvalidDateRange
	}
	maxSpan := c.MaxSpanDays
	if maxSpan <= 0 {
		maxSpan = DefaultMaxSpanDays
	}
	if c.EndDate.Sub(c.StartDate) > time.Duration(maxSpan)*24*time.Hour {
		return fmt.Errorf("%w: %d days maximum", ErrRangeTooLarge, maxSpan)
	}
	if c.InitialBankroll <= 0 {
		return ErrInvalidBankroll
	}
	if !c.Strategy.IsValid() {
		return fmt.Errorf("unknown betting strategy %q", c.Strategy)
	}
	if c.BetAmount <= 0 && c.Strategy != sizing.StrategyKellyCriterion {
		return ErrInvalidBetAmount
	}
	if c.MinConfidence < 0 || c.MinConfidence > 1 {
		return ErrInvalidConfidence
	}
	if c.MaxBetFraction <= 0 || c.MaxBetFraction > 1 {
		return ErrInvalidBetCap
	}
	if c.CommissionRate < 0 || c.CommissionRate > 0.1 {
		return ErrInvalidCommission
	}
	return nil
}

// SizingParams extracts the slice of configuration the sizing policies need.
func (c Config) SizingParams() sizing.Params {
	return sizing.Params{
		BetAmount:       c.BetAmount,
		MaxBetFraction:  c.MaxBetFraction,
		KellyMultiplier: c.KellyMultiplier,
	}
}

// WithStrategy returns a copy of the configuration with a different sizing
// policy, everything else held fixed.
func (c Config) WithStrategy(strategy sizing.Strategy) Config {
	c.Strategy = strategy
	return c
}
