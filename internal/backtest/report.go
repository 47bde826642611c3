package backtest

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// RatioJSON is the serialized form of a Ratio. Unbounded ratios are capped so
// downstream JSON consumers never see Inf.
type RatioJSON struct {
	Value float64 `json:"value"`
	State string  `json:"state"`
}

// ResultReport is the presentation view of a Result: monetary amounts rounded
// to 2 decimal places and ratios to 3. Rounding happens only here so internal
// math stays at full precision.
type ResultReport struct {
	Strategy  string `json:"strategy"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`

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

	SharpeRatio  float64   `json:"sharpe_ratio"`
	SortinoRatio RatioJSON `json:"sortino_ratio"`
	CalmarRatio  float64   `json:"calmar_ratio"`
	ProfitFactor RatioJSON `json:"profit_factor"`

	MaxDrawdown         float64 `json:"max_drawdown"`
	MaxDrawdownPct      float64 `json:"max_drawdown_percentage"`
	MaxDrawdownDuration string  `json:"max_drawdown_duration"`

	LongestWinStreak  int `json:"longest_win_streak"`
	LongestLossStreak int `json:"longest_loss_streak"`
}

const (
	moneyPlaces = 2
	ratioPlaces = 3
)

func roundTo(v float64, places int32) float64 {
	f, _ := decimal.NewFromFloat(v).Round(places).Float64()
	return f
}

func ratioJSON(r Ratio) RatioJSON {
	return RatioJSON{
		Value: roundTo(r.Float64(), ratioPlaces),
		State: string(r.State),
	}
}

// Report converts a Result into its rounded presentation form.
func (r *Result) Report() ResultReport {
	return ResultReport{
		Strategy:  string(r.Strategy),
		StartDate: r.StartDate.Format("2006-01-02"),
		EndDate:   r.EndDate.Format("2006-01-02"),

		InitialBankroll: roundTo(r.InitialBankroll, moneyPlaces),
		FinalBankroll:   roundTo(r.FinalBankroll, moneyPlaces),
		TotalProfitLoss: roundTo(r.TotalProfitLoss, moneyPlaces),
		TotalWagered:    roundTo(r.TotalWagered, moneyPlaces),
		TotalCommission: roundTo(r.TotalCommission, moneyPlaces),

		TotalBets:    r.TotalBets,
		WinningBets:  r.WinningBets,
		LosingBets:   r.LosingBets,
		PushBets:     r.PushBets,
		SkippedGames: r.SkippedGames,
		SkipReasons:  r.SkipReasons,

		WinRate:       roundTo(r.WinRate, ratioPlaces),
		ROIPercentage: roundTo(r.ROIPercentage, moneyPlaces),
		AverageWin:    roundTo(r.AverageWin, moneyPlaces),
		AverageLoss:   roundTo(r.AverageLoss, moneyPlaces),
		LargestWin:    roundTo(r.LargestWin, moneyPlaces),
		LargestLoss:   roundTo(r.LargestLoss, moneyPlaces),
		Expectancy:    roundTo(r.Expectancy, moneyPlaces),

		SharpeRatio:  roundTo(r.SharpeRatio, ratioPlaces),
		SortinoRatio: ratioJSON(r.SortinoRatio),
		CalmarRatio:  roundTo(r.CalmarRatio, ratioPlaces),
		ProfitFactor: ratioJSON(r.ProfitFactor),

		MaxDrawdown:         roundTo(r.MaxDrawdown, moneyPlaces),
		MaxDrawdownPct:      roundTo(r.MaxDrawdownPct, moneyPlaces),
		MaxDrawdownDuration: r.MaxDrawdownDuration.String(),

		LongestWinStreak:  r.LongestWinStreak,
		LongestLossStreak: r.LongestLossStreak,
	}
}

// ConsoleReport renders a human-readable summary for CLI output.
func (r *Result) ConsoleReport() string {
	rep := r.Report()
	var b strings.Builder

	fmt.Fprintf(&b, "=== Backtest Results: %s ===\n", rep.Strategy)
	fmt.Fprintf(&b, "Period:           %s to %s\n", rep.StartDate, rep.EndDate)
	fmt.Fprintf(&b, "Initial Bankroll: %.2f\n", rep.InitialBankroll)
	fmt.Fprintf(&b, "Final Bankroll:   %.2f\n", rep.FinalBankroll)
	fmt.Fprintf(&b, "Profit/Loss:      %.2f (%.2f%%)\n", rep.TotalProfitLoss, rep.ROIPercentage)
	fmt.Fprintf(&b, "Total Wagered:    %.2f\n", rep.TotalWagered)
	fmt.Fprintf(&b, "Commission Paid:  %.2f\n", rep.TotalCommission)
	fmt.Fprintf(&b, "Bets:             %d (W %d / L %d / P %d, skipped %d)\n",
		rep.TotalBets, rep.WinningBets, rep.LosingBets, rep.PushBets, rep.SkippedGames)
	fmt.Fprintf(&b, "Win Rate:         %.1f%%\n", rep.WinRate*100)
	fmt.Fprintf(&b, "Expectancy:       %.2f per bet\n", rep.Expectancy)
	fmt.Fprintf(&b, "Sharpe:           %.3f\n", rep.SharpeRatio)
	fmt.Fprintf(&b, "Sortino:          %s\n", formatRatio(rep.SortinoRatio))
	fmt.Fprintf(&b, "Calmar:           %.3f\n", rep.CalmarRatio)
	fmt.Fprintf(&b, "Profit Factor:    %s\n", formatRatio(rep.ProfitFactor))
	fmt.Fprintf(&b, "Max Drawdown:     %.2f (%.2f%%) over %s\n",
		rep.MaxDrawdown, rep.MaxDrawdownPct, rep.MaxDrawdownDuration)
	fmt.Fprintf(&b, "Streaks:          %d wins / %d losses\n",
		rep.LongestWinStreak, rep.LongestLossStreak)

	return b.String()
}

func formatRatio(r RatioJSON) string {
	switch RatioState(r.State) {
	case RatioStateUndefined:
		return "n/a"
	case RatioStateUnbounded:
		return fmt.Sprintf(">%.0f", r.Value)
	default:
		return fmt.Sprintf("%.3f", r.Value)
	}
}
