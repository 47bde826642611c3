package backtest

import (
	"context"
	"math"
	"math/rand"
	"sort"
	"time"

	"github.com/yourusername/betsim/internal/models"
)

// MonteCarloConfig configures bootstrap resampling of a realized bet history.
type MonteCarloConfig struct {
	Iterations      int
	Seed            int64
	InitialBankroll float64
}

// MonteCarloResult summarizes the resampled bankroll distribution.
type MonteCarloResult struct {
	Iterations          int     `json:"iterations"`
	MeanReturn          float64 `json:"mean_return"`
	StdReturn           float64 `json:"std_return"`
	VaR95               float64 `json:"var_95"`
	VaR99               float64 `json:"var_99"`
	ProbabilityOfProfit float64 `json:"probability_of_profit"`
	ProbabilityOfRuin   float64 `json:"probability_of_ruin"`
}

// RunMonteCarlo reshuffles the realized per-bet results (sampling with
// replacement) to estimate how sensitive the run's outcome is to ordering
// and luck. An empty bet history returns a zero result.
func RunMonteCarlo(ctx context.Context, bets []*models.BetRecord, cfg MonteCarloConfig) (MonteCarloResult, error) {
	_ = ctx
	if cfg.Iterations <= 0 {
		cfg.Iterations = 1000
	}
	if len(bets) == 0 || cfg.InitialBankroll <= 0 {
		return MonteCarloResult{Iterations: cfg.Iterations}, nil
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	outcomes := make([]float64, len(bets))
	for i, bet := range bets {
		outcomes[i] = bet.ProfitLoss
	}

	distribution := make([]float64, cfg.Iterations)
	for i := 0; i < cfg.Iterations; i++ {
		bankroll := cfg.InitialBankroll
		for range outcomes {
			bankroll += outcomes[rng.Intn(len(outcomes))]
			if bankroll <= 0 {
				bankroll = 0
				break
			}
		}
		distribution[i] = bankroll
	}

	mean, std := meanStd(distribution)
	return MonteCarloResult{
		Iterations:          cfg.Iterations,
		MeanReturn:          (mean - cfg.InitialBankroll) / cfg.InitialBankroll,
		StdReturn:           std / cfg.InitialBankroll,
		VaR95:               (percentile(distribution, 0.05) - cfg.InitialBankroll) / cfg.InitialBankroll,
		VaR99:               (percentile(distribution, 0.01) - cfg.InitialBankroll) / cfg.InitialBankroll,
		ProbabilityOfProfit: probabilityAbove(distribution, cfg.InitialBankroll),
		ProbabilityOfRuin:   probabilityAtOrBelow(distribution, 0),
	}, nil
}

func meanStd(values []float64) (float64, float64) {
	if len(values) == 0 {
		return 0, 0
	}
	mean := average(values)
	variance := 0.0
	for _, v := range values {
		diff := v - mean
		variance += diff * diff
	}
	variance /= float64(len(values))
	return mean, math.Sqrt(variance)
}

func percentile(values []float64, p float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := append([]float64{}, values...)
	sort.Float64s(sorted)
	idx := int(math.Floor(p * float64(len(sorted)-1)))
	if idx < 0 {
		idx = 0
	}
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}

func probabilityAbove(values []float64, threshold float64) float64 {
	if len(values) == 0 {
		return 0
	}
	count := 0
	for _, v := range values {
		if v > threshold {
			count++
		}
	}
	return float64(count) / float64(len(values))
}

func probabilityAtOrBelow(values []float64, threshold float64) float64 {
	if len(values) == 0 {
		return 0
	}
	count := 0
	for _, v := range values {
		if v <= threshold {
			count++
		}
	}
	return float64(count) / float64(len(values))
}
