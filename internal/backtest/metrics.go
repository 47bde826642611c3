package backtest

import (
	"math"
	"time"

	"github.com/yourusername/betsim/internal/models"
	"github.com/yourusername/betsim/internal/sizing"
)

// annualizationFactor scales per-bet return statistics to an annual horizon,
// treating each settled bet as one trading period.
const annualizationFactor = 252

// Result is the aggregate output of one backtest run. Constructed once when
// the run finishes; immutable afterwards.
type Result struct {
	Strategy  sizing.Strategy `json:"strategy"`
	StartDate time.Time       `json:"start_date"`
	EndDate   time.Time       `json:"end_date"`

	InitialBankroll float64 `json:"initial_bankroll"`
	FinalBankroll   float64 `json:"final_bankroll"`
	TotalProfitLoss float64 `json:"total_profit_loss"`
	TotalWagered    float64 `json:"total_wagered"`
	TotalCommission float64 `json:"total_commission"`

	TotalBets    int `json:"total_bets"`
	WinningBets  int `json:"winning_bets"`
	LosingBets   int `json:"losing_bets"`
	PushBets     int `json:"push_bets"`
	SkippedGames int `json:"skipped_games"`

	SkipReasons map[string]int `json:"skip_reasons,omitempty"`

	WinRate       float64 `json:"win_rate"`
	ROIPercentage float64 `json:"roi_percentage"`
	AverageWin    float64 `json:"average_win"`
	AverageLoss   float64 `json:"average_loss"`
	LargestWin    float64 `json:"largest_win"`
	LargestLoss   float64 `json:"largest_loss"`
	Expectancy    float64 `json:"expectancy"`

	SharpeRatio  float64 `json:"sharpe_ratio"`
	SortinoRatio Ratio   `json:"sortino_ratio"`
	CalmarRatio  float64 `json:"calmar_ratio"`
	ProfitFactor Ratio   `json:"profit_factor"`

	MaxDrawdown         float64       `json:"max_drawdown"`
	MaxDrawdownPct      float64       `json:"max_drawdown_percentage"`
	MaxDrawdownDuration time.Duration `json:"max_drawdown_duration"`

	LongestWinStreak  int `json:"longest_win_streak"`
	LongestLossStreak int `json:"longest_loss_streak"`

	Bets        []*models.BetRecord `json:"bets"`
	EquityCurve EquityCurve         `json:"equity_curve"`
}

// buildResult assembles the final report from a finished ledger.
func buildResult(ledger *Ledger, cfg Config, skipped map[string]int) *Result {
	result := &Result{
		Strategy:        cfg.Strategy,
		StartDate:       cfg.StartDate,
		EndDate:         cfg.EndDate,
		InitialBankroll: ledger.InitialBankroll,
		FinalBankroll:   ledger.CurrentBankroll,
		TotalProfitLoss: ledger.CurrentBankroll - ledger.InitialBankroll,
		TotalWagered:    ledger.TotalWagered,
		TotalCommission: ledger.TotalCommission,

		TotalBets:   len(ledger.Bets),
		WinningBets: len(ledger.Wins),
		LosingBets:  len(ledger.Losses),
		PushBets:    ledger.Pushes,

		MaxDrawdown:         ledger.MaxDrawdown,
		MaxDrawdownPct:      ledger.MaxDrawdownPct,
		MaxDrawdownDuration: ledger.MaxDrawdownDuration,
		LongestWinStreak:    ledger.LongestWinStreak,
		LongestLossStreak:   ledger.LongestLossStreak,

		Bets:        ledger.Bets,
		EquityCurve: ledger.Curve,
	}

	if len(skipped) > 0 {
		result.SkipReasons = skipped
		for _, n := range skipped {
			result.SkippedGames += n
		}
	}

	result.WinRate = winRate(result.WinningBets, result.TotalBets)
	if ledger.InitialBankroll > 0 {
		result.ROIPercentage = result.TotalProfitLoss / ledger.InitialBankroll * 100
	}

	result.AverageWin = average(ledger.Wins)
	result.AverageLoss = average(ledger.Losses)
	result.LargestWin = maxValue(ledger.Wins)
	result.LargestLoss = maxValue(ledger.Losses)
	if result.TotalBets > 0 {
		net := 0.0
		for _, bet := range ledger.Bets {
			net += bet.ProfitLoss
		}
		result.Expectancy = net / float64(result.TotalBets)
	}

	returns := ledger.Curve.Returns()
	result.SharpeRatio = sharpeRatio(returns)
	result.SortinoRatio = sortinoRatio(returns)
	result.CalmarRatio = calmarRatio(result.ROIPercentage, result.MaxDrawdownPct)
	result.ProfitFactor = profitFactor(ledger.Wins, ledger.Losses)

	return result
}

// sharpeRatio is mean(returns)/std(returns) * sqrt(252). Empty series or
// zero volatility yield 0, never NaN.
func sharpeRatio(returns []float64) float64 {
	if len(returns) == 0 {
		return 0
	}
	mean := average(returns)
	std := stddev(returns)
	if std == 0 {
		return 0
	}
	return mean / std * math.Sqrt(annualizationFactor)
}

// sortinoRatio penalizes only downside volatility. With no negative returns
// the ratio is unbounded when the mean is positive and 0 otherwise.
func sortinoRatio(returns []float64) Ratio {
	if len(returns) == 0 {
		return UndefinedRatio()
	}
	mean := average(returns)
	downside := downsideStddev(returns)
	if downside == 0 {
		if mean > 0 {
			return UnboundedRatio()
		}
		return RatioOf(0)
	}
	return RatioOf(mean / downside * math.Sqrt(annualizationFactor))
}

// calmarRatio relates period return to the maximum drawdown suffered to
// earn it. Zero drawdown yields 0.
func calmarRatio(roiPct, maxDrawdownPct float64) float64 {
	if maxDrawdownPct <= 0 {
		return 0
	}
	return roiPct / maxDrawdownPct
}

// profitFactor is gross winnings over gross losses.
func profitFactor(wins, losses []float64) Ratio {
	grossProfit := sum(wins)
	grossLoss := sum(losses)
	if grossLoss == 0 {
		if grossProfit > 0 {
			return UnboundedRatio()
		}
		return RatioOf(0)
	}
	return RatioOf(grossProfit / grossLoss)
}

func winRate(wins, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(wins) / float64(total)
}

func average(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return sum(values) / float64(len(values))
}

func sum(values []float64) float64 {
	total := 0.0
	for _, v := range values {
		total += v
	}
	return total
}

func maxValue(values []float64) float64 {
	highest := 0.0
	for _, v := range values {
		if v > highest {
			highest = v
		}
	}
	return highest
}

func stddev(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	mean := average(values)
	variance := 0.0
	for _, v := range values {
		diff := v - mean
		variance += diff * diff
	}
	variance /= float64(len(values))
	return math.Sqrt(variance)
}

func downsideStddev(values []float64) float64 {
	negatives := make([]float64, 0)
	for _, v := range values {
		if v < 0 {
			negatives = append(negatives, v)
		}
	}
	return stddev(negatives)
}
