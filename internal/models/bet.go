package models

import (
	"time"

	"github.com/google/uuid"
)

// Outcome represents how a resolved wager settled.
type Outcome string

const (
	OutcomeWon  Outcome = "won"
	OutcomeLost Outcome = "lost"
	// OutcomePush is a tie: the stake is refunded and no profit or loss is
	// realized. Pushes do not count toward win/loss streaks.
	OutcomePush Outcome = "push"
)

// BetRecord is one resolved simulated wager. Append-only: once created it is
// never mutated, and records are collected in chronological order.
type BetRecord struct {
	ID             uuid.UUID `db:"id" json:"id"`
	GameID         uuid.UUID `db:"game_id" json:"game_id" validate:"required,uuid4"`
	Side           Side      `db:"side" json:"side" validate:"required,oneof=home away"`
	Stake          float64   `db:"stake" json:"stake" validate:"required,gt=0"`
	Odds           float64   `db:"odds" json:"odds" validate:"required,gt=1"`
	Confidence     float64   `db:"confidence" json:"confidence"`
	WinProbability float64   `db:"win_probability" json:"win_probability"`
	Outcome        Outcome   `db:"outcome" json:"outcome" validate:"required,oneof=won lost push"`
	ProfitLoss     float64   `db:"profit_loss" json:"profit_loss"`
	Commission     float64   `db:"commission" json:"commission"`
	BankrollAfter  float64   `db:"bankroll_after" json:"bankroll_after"`
	PlacedAt       time.Time `db:"placed_at" json:"placed_at"`
}

// Won reports whether the bet settled as a win.
func (b *BetRecord) Won() bool {
	return b.Outcome == OutcomeWon
}

// ROI returns the return on investment percentage for this bet.
func (b *BetRecord) ROI() float64 {
	if b.Stake == 0 {
		return 0
	}
	return (b.ProfitLoss / b.Stake) * 100
}
