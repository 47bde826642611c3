package backtest

import (
	"time"

	"github.com/google/uuid"
	"github.com/yourusername/betsim/internal/models"
)

// Ledger is the sequential bankroll state machine. Apply must be called
// exactly once per qualifying game, strictly in chronological order: streak
// and drawdown tracking depend on it. A ledger is owned by exactly one
// backtest run and is never shared.
type Ledger struct {
	InitialBankroll float64
	CurrentBankroll float64
	PeakBankroll    float64

	MaxDrawdown         float64
	MaxDrawdownPct      float64
	MaxDrawdownDuration time.Duration

	CurrentStreak     int // positive while winning, negative while losing
	LongestWinStreak  int
	LongestLossStreak int

	Wins   []float64 // per-bet profits
	Losses []float64 // per-bet losses, absolute values
	Pushes int

	TotalWagered    float64
	TotalCommission float64

	Bets  []*models.BetRecord
	Curve EquityCurve

	peakTime time.Time
}

// NewLedger initializes a ledger at the starting bankroll.
func NewLedger(initialBankroll float64, start time.Time) *Ledger {
	l := &Ledger{
		InitialBankroll: initialBankroll,
		CurrentBankroll: initialBankroll,
		PeakBankroll:    initialBankroll,
		peakTime:        start,
	}
	l.Curve = append(l.Curve, EquityPoint{Time: start, Value: initialBankroll})
	return l
}

// Apply settles one bet against the running bankroll and emits the
// append-only BetRecord snapshot.
//
// Commission comes off the stake before payout: on a win the net stake earns
// the payout odds while the full stake is still risked. A push refunds the
// stake in full with no commission and no streak impact.
func (l *Ledger) Apply(game *models.GameRecord, prediction *models.PredictionResult, outcome models.Outcome, stake, payoutOdds, commissionRate float64) *models.BetRecord {
	var commission, profit float64
	switch outcome {
	case models.OutcomeWon:
		commission = stake * commissionRate
		netStake := stake - commission
		profit = netStake*payoutOdds - stake
	case models.OutcomeLost:
		commission = stake * commissionRate
		profit = -stake
	case models.OutcomePush:
		// stake returned untouched
	}

	l.CurrentBankroll += profit
	l.TotalWagered += stake
	l.TotalCommission += commission

	betTime := game.ScheduledStart
	l.updateDrawdown(betTime)
	l.updateStreaks(outcome, profit)

	record := &models.BetRecord{
		ID:             uuid.New(),
		GameID:         game.ID,
		Side:           prediction.Side,
		Stake:          stake,
		Odds:           payoutOdds,
		Confidence:     prediction.Confidence,
		WinProbability: prediction.WinProbability,
		Outcome:        outcome,
		ProfitLoss:     profit,
		Commission:     commission,
		BankrollAfter:  l.CurrentBankroll,
		PlacedAt:       betTime,
	}
	l.Bets = append(l.Bets, record)
	l.recordEquityPoint(betTime)
	return record
}

func (l *Ledger) updateDrawdown(now time.Time) {
	if l.CurrentBankroll > l.PeakBankroll {
		l.PeakBankroll = l.CurrentBankroll
		l.peakTime = now
		return
	}

	drawdown := l.PeakBankroll - l.CurrentBankroll
	if drawdown > l.MaxDrawdown {
		l.MaxDrawdown = drawdown
		if l.PeakBankroll > 0 {
			l.MaxDrawdownPct = drawdown / l.PeakBankroll * 100
		}
	}
	if duration := now.Sub(l.peakTime); duration > l.MaxDrawdownDuration {
		l.MaxDrawdownDuration = duration
	}
}

func (l *Ledger) updateStreaks(outcome models.Outcome, profit float64) {
	switch outcome {
	case models.OutcomeWon:
		if l.CurrentStreak > 0 {
			l.CurrentStreak++
		} else {
			l.CurrentStreak = 1
		}
		if l.CurrentStreak > l.LongestWinStreak {
			l.LongestWinStreak = l.CurrentStreak
		}
		l.Wins = append(l.Wins, profit)
	case models.OutcomeLost:
		if l.CurrentStreak < 0 {
			l.CurrentStreak--
		} else {
			l.CurrentStreak = -1
		}
		if -l.CurrentStreak > l.LongestLossStreak {
			l.LongestLossStreak = -l.CurrentStreak
		}
		l.Losses = append(l.Losses, -profit)
	case models.OutcomePush:
		l.Pushes++
	}
}

func (l *Ledger) recordEquityPoint(t time.Time) {
	drawdown := 0.0
	if l.PeakBankroll > 0 && l.CurrentBankroll < l.PeakBankroll {
		drawdown = (l.PeakBankroll - l.CurrentBankroll) / l.PeakBankroll
	}
	l.Curve = append(l.Curve, EquityPoint{
		Time:     t,
		Value:    l.CurrentBankroll,
		Drawdown: drawdown,
	})
}

// CurrentDrawdown returns the live peak-to-trough drawdown as a fraction of
// the running peak.
func (l *Ledger) CurrentDrawdown() float64 {
	if l.PeakBankroll == 0 {
		return 0
	}
	drawdown := (l.PeakBankroll - l.CurrentBankroll) / l.PeakBankroll
	if drawdown < 0 {
		return 0
	}
	return drawdown
}

// CanAfford reports whether stake fits inside the current bankroll.
func (l *Ledger) CanAfford(stake float64) bool {
	return stake > 0 && stake <= l.CurrentBankroll
}
