package backtest

import (
	"math"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/yourusername/betsim/internal/models"
)

func intPtr(v int) *int { return &v }

func testGame(start time.Time, homeScore, awayScore int) *models.GameRecord {
	return &models.GameRecord{
		ID:             uuid.New(),
		ScheduledStart: start,
		League:         "NBA",
		HomeTeam:       "Home",
		AwayTeam:       "Away",
		HomeScore:      intPtr(homeScore),
		AwayScore:      intPtr(awayScore),
	}
}

func testPrediction(game *models.GameRecord, side models.Side) *models.PredictionResult {
	return &models.PredictionResult{
		GameID:         game.ID,
		Side:           side,
		WinProbability: 0.6,
		Confidence:     0.7,
	}
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestLedgerWinLossSequence(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	ledger := NewLedger(1000, start)

	outcomes := []models.Outcome{models.OutcomeWon, models.OutcomeLost, models.OutcomeWon}
	wantBankrolls := []float64{1100, 1000, 1100}

	for i, outcome := range outcomes {
		game := testGame(start.Add(time.Duration(i)*24*time.Hour), 100, 90)
		ledger.Apply(game, testPrediction(game, models.SideHome), outcome, 100, 2.0, 0)
		if !almostEqual(ledger.CurrentBankroll, wantBankrolls[i]) {
			t.Errorf("bet %d: bankroll = %v, want %v", i+1, ledger.CurrentBankroll, wantBankrolls[i])
		}
	}

	if len(ledger.Bets) != 3 {
		t.Fatalf("expected 3 bet records, got %d", len(ledger.Bets))
	}
	if !almostEqual(ledger.TotalWagered, 300) {
		t.Errorf("total wagered = %v, want 300", ledger.TotalWagered)
	}
	if ledger.Bets[1].BankrollAfter != 1000 {
		t.Errorf("second bet bankroll snapshot = %v, want 1000", ledger.Bets[1].BankrollAfter)
	}
}

func TestLedgerCommissionOnWin(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	ledger := NewLedger(1000, start)
	game := testGame(start, 100, 90)

	record := ledger.Apply(game, testPrediction(game, models.SideHome), models.OutcomeWon, 100, 2.0, 0.05)

	// net stake 95 at odds 2.0 pays 190 against 100 risked
	if !almostEqual(record.ProfitLoss, 90) {
		t.Errorf("profit = %v, want 90", record.ProfitLoss)
	}
	if !almostEqual(record.Commission, 5) {
		t.Errorf("commission = %v, want 5", record.Commission)
	}
	if !almostEqual(ledger.CurrentBankroll, 1090) {
		t.Errorf("bankroll = %v, want 1090", ledger.CurrentBankroll)
	}
	if !almostEqual(ledger.TotalCommission, 5) {
		t.Errorf("total commission = %v, want 5", ledger.TotalCommission)
	}
}

func TestLedgerCommissionOnLoss(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	ledger := NewLedger(1000, start)
	game := testGame(start, 90, 100)

	record := ledger.Apply(game, testPrediction(game, models.SideHome), models.OutcomeLost, 100, 2.0, 0.05)

	if !almostEqual(record.ProfitLoss, -100) {
		t.Errorf("profit = %v, want -100", record.ProfitLoss)
	}
	if !almostEqual(record.Commission, 5) {
		t.Errorf("commission = %v, want 5", record.Commission)
	}
	if !almostEqual(ledger.CurrentBankroll, 900) {
		t.Errorf("bankroll = %v, want 900", ledger.CurrentBankroll)
	}
}

func TestLedgerDrawdownAndStreaks(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	ledger := NewLedger(1000, start)

	for i := 0; i < 5; i++ {
		game := testGame(start.Add(time.Duration(i)*24*time.Hour), 90, 100)
		ledger.Apply(game, testPrediction(game, models.SideHome), models.OutcomeLost, 50, 2.0, 0)
	}

	if !almostEqual(ledger.CurrentBankroll, 750) {
		t.Errorf("bankroll = %v, want 750", ledger.CurrentBankroll)
	}
	if !almostEqual(ledger.MaxDrawdown, 250) {
		t.Errorf("max drawdown = %v, want 250", ledger.MaxDrawdown)
	}
	if !almostEqual(ledger.MaxDrawdownPct, 25) {
		t.Errorf("max drawdown pct = %v, want 25", ledger.MaxDrawdownPct)
	}
	if ledger.LongestLossStreak != 5 {
		t.Errorf("longest loss streak = %d, want 5", ledger.LongestLossStreak)
	}
	if ledger.LongestWinStreak != 0 {
		t.Errorf("longest win streak = %d, want 0", ledger.LongestWinStreak)
	}
}

func TestLedgerPushRefundsStake(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	ledger := NewLedger(1000, start)
	game := testGame(start, 100, 100)

	record := ledger.Apply(game, testPrediction(game, models.SideHome), models.OutcomePush, 100, 2.0, 0.05)

	if !almostEqual(record.ProfitLoss, 0) {
		t.Errorf("push profit = %v, want 0", record.ProfitLoss)
	}
	if !almostEqual(record.Commission, 0) {
		t.Errorf("push commission = %v, want 0", record.Commission)
	}
	if !almostEqual(ledger.CurrentBankroll, 1000) {
		t.Errorf("bankroll = %v, want 1000", ledger.CurrentBankroll)
	}
	if ledger.Pushes != 1 {
		t.Errorf("pushes = %d, want 1", ledger.Pushes)
	}
	if !almostEqual(ledger.TotalWagered, 100) {
		t.Errorf("total wagered = %v, want 100", ledger.TotalWagered)
	}
	if ledger.CurrentStreak != 0 {
		t.Errorf("push must not move the streak, got %d", ledger.CurrentStreak)
	}
}

func TestLedgerPeakTracksRecovery(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	ledger := NewLedger(1000, start)

	seq := []struct {
		outcome models.Outcome
		stake   float64
	}{
		{models.OutcomeWon, 100},  // 1100, new peak
		{models.OutcomeLost, 200}, // 900, drawdown 200
		{models.OutcomeWon, 100},  // 1000, still below peak
		{models.OutcomeWon, 200},  // 1200, new peak
	}
	for i, s := range seq {
		homeScore, awayScore := 100, 90
		if s.outcome == models.OutcomeLost {
			homeScore, awayScore = 90, 100
		}
		game := testGame(start.Add(time.Duration(i)*24*time.Hour), homeScore, awayScore)
		ledger.Apply(game, testPrediction(game, models.SideHome), s.outcome, s.stake, 2.0, 0)
	}

	if !almostEqual(ledger.PeakBankroll, 1200) {
		t.Errorf("peak = %v, want 1200", ledger.PeakBankroll)
	}
	if !almostEqual(ledger.MaxDrawdown, 200) {
		t.Errorf("max drawdown = %v, want 200", ledger.MaxDrawdown)
	}
	if ledger.MaxDrawdownDuration <= 0 {
		t.Errorf("drawdown duration should be positive, got %v", ledger.MaxDrawdownDuration)
	}
	if !almostEqual(ledger.CurrentDrawdown(), 0) {
		t.Errorf("current drawdown after recovery = %v, want 0", ledger.CurrentDrawdown())
	}
}

func TestLedgerCanAfford(t *testing.T) {
	ledger := NewLedger(100, time.Now())
	if !ledger.CanAfford(100) {
		t.Error("stake equal to bankroll should be affordable")
	}
	if ledger.CanAfford(100.01) {
		t.Error("stake above bankroll should not be affordable")
	}
}

func TestLedgerEquityCurve(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	ledger := NewLedger(1000, start)
	game := testGame(start.Add(24*time.Hour), 100, 90)
	ledger.Apply(game, testPrediction(game, models.SideHome), models.OutcomeWon, 100, 2.0, 0)

	if len(ledger.Curve) != 2 {
		t.Fatalf("expected 2 equity points, got %d", len(ledger.Curve))
	}
	if !almostEqual(ledger.Curve[0].Value, 1000) || !almostEqual(ledger.Curve[1].Value, 1100) {
		t.Errorf("curve values = %v, %v; want 1000, 1100", ledger.Curve[0].Value, ledger.Curve[1].Value)
	}

	returns := ledger.Curve.Returns()
	if len(returns) != 1 || !almostEqual(returns[0], 0.1) {
		t.Errorf("returns = %v, want [0.1]", returns)
	}
}
