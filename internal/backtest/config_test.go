package backtest

import (
	"errors"
	"testing"
	"time"

	"github.com/yourusername/betsim/internal/config"
	"github.com/yourusername/betsim/internal/sizing"
)

func baseConfig() Config {
	return Config{
		StartDate:       time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:         time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		InitialBankroll: 1000,
		Strategy:        sizing.StrategyFixedAmount,
		BetAmount:       100,
		MinConfidence:   0.6,
		MaxBetFraction:  0.25,
		CommissionRate:  0.05,
	}
}

func TestConfigValidate(t *testing.T) {
	if err := baseConfig().Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{
			name:    "start equals end",
			mutate:  func(c *Config) { c.EndDate = c.StartDate },
			wantErr: ErrInvalidDateRange,
		},
		{
			name:    "start after end",
			mutate:  func(c *Config) { c.StartDate = c.EndDate.Add(24 * time.Hour) },
			wantErr: ErrInvalidDateRange,
		},
		{
			name: "range exceeds span",
			mutate: func(c *Config) {
				c.MaxSpanDays = 30
				c.EndDate = c.StartDate.Add(31 * 24 * time.Hour)
			},
			wantErr: ErrRangeTooLarge,
		},
		{
			name:    "zero bankroll",
			mutate:  func(c *Config) { c.InitialBankroll = 0 },
			wantErr: ErrInvalidBankroll,
		},
		{
			name:    "negative bankroll",
			mutate:  func(c *Config) { c.InitialBankroll = -100 },
			wantErr: ErrInvalidBankroll,
		},
		{
			name:    "zero bet amount for fixed strategy",
			mutate:  func(c *Config) { c.BetAmount = 0 },
			wantErr: ErrInvalidBetAmount,
		},
		{
			name:    "confidence above one",
			mutate:  func(c *Config) { c.MinConfidence = 1.5 },
			wantErr: ErrInvalidConfidence,
		},
		{
			name:    "negative confidence",
			mutate:  func(c *Config) { c.MinConfidence = -0.1 },
			wantErr: ErrInvalidConfidence,
		},
		{
			name:    "zero bet cap",
			mutate:  func(c *Config) { c.MaxBetFraction = 0 },
			wantErr: ErrInvalidBetCap,
		},
		{
			name:    "bet cap above one",
			mutate:  func(c *Config) { c.MaxBetFraction = 1.01 },
			wantErr: ErrInvalidBetCap,
		},
		{
			name:    "commission above cap",
			mutate:  func(c *Config) { c.CommissionRate = 0.2 },
			wantErr: ErrInvalidCommission,
		},
		{
			name:    "negative commission",
			mutate:  func(c *Config) { c.CommissionRate = -0.01 },
			wantErr: ErrInvalidCommission,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := baseConfig()
			tt.mutate(&cfg)
			if err := cfg.Validate(); !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfigValidateUnknownStrategy(t *testing.T) {
	cfg := baseConfig()
	cfg.Strategy = "martingale"
	if err := cfg.Validate(); err == nil {
		t.Fatal("unknown strategy must be rejected")
	}
}

func TestConfigValidateKellyWithoutBetAmount(t *testing.T) {
	cfg := baseConfig()
	cfg.Strategy = sizing.StrategyKellyCriterion
	cfg.BetAmount = 0
	if err := cfg.Validate(); err != nil {
		t.Fatalf("kelly does not need a bet amount: %v", err)
	}
}

func TestNewConfigAppliesDefaultSpan(t *testing.T) {
	cfg, err := NewConfig(baseConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.MaxSpanDays != DefaultMaxSpanDays {
		t.Errorf("max span = %d, want default %d", cfg.MaxSpanDays, DefaultMaxSpanDays)
	}
}

func TestFromAppConfig(t *testing.T) {
	appCfg := &config.BacktestConfig{
		StartDate:        "2024-01-01",
		EndDate:          "2024-03-01",
		InitialBankroll:  5000,
		Strategy:         "percentage",
		BetAmount:        2,
		MinConfidence:    0.65,
		MaxBetPercentage: 0.1,
		CommissionRate:   0.02,
	}

	cfg, err := FromAppConfig(appCfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Strategy != sizing.StrategyPercentage {
		t.Errorf("strategy = %v, want percentage", cfg.Strategy)
	}
	if cfg.InitialBankroll != 5000 {
		t.Errorf("bankroll = %v, want 5000", cfg.InitialBankroll)
	}
	if !cfg.StartDate.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("start date = %v", cfg.StartDate)
	}
}

func TestFromAppConfigBadDates(t *testing.T) {
	appCfg := &config.BacktestConfig{
		StartDate:        "01/01/2024",
		EndDate:          "2024-03-01",
		InitialBankroll:  1000,
		Strategy:         "fixed_amount",
		BetAmount:        100,
		MaxBetPercentage: 0.25,
	}
	if _, err := FromAppConfig(appCfg); err == nil {
		t.Fatal("expected error for unparseable start date")
	}

	if _, err := FromAppConfig(nil); err == nil {
		t.Fatal("expected error for nil app config")
	}
}

func TestConfigWithStrategy(t *testing.T) {
	cfg := baseConfig()
	derived := cfg.WithStrategy(sizing.StrategyKellyCriterion)
	if derived.Strategy != sizing.StrategyKellyCriterion {
		t.Errorf("derived strategy = %v", derived.Strategy)
	}
	if cfg.Strategy != sizing.StrategyFixedAmount {
		t.Error("WithStrategy must not mutate the receiver")
	}
	if derived.InitialBankroll != cfg.InitialBankroll {
		t.Error("WithStrategy must keep other fields")
	}
}
