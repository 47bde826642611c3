package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// BacktestResultRow represents a persisted backtest run summary. The full
// result report is stored as JSON alongside the headline figures used for
// querying and ranking.
type BacktestResultRow struct {
	ID              uuid.UUID       `db:"id" json:"id"`
	Strategy        string          `db:"strategy" json:"strategy"`
	RunDate         time.Time       `db:"run_date" json:"run_date"`
	StartDate       time.Time       `db:"start_date" json:"start_date"`
	EndDate         time.Time       `db:"end_date" json:"end_date"`
	InitialBankroll float64         `db:"initial_bankroll" json:"initial_bankroll"`
	FinalBankroll   float64         `db:"final_bankroll" json:"final_bankroll"`
	TotalBets       int             `db:"total_bets" json:"total_bets"`
	WinRate         float64         `db:"win_rate" json:"win_rate"`
	ROI             float64         `db:"roi" json:"roi"`
	SharpeRatio     float64         `db:"sharpe_ratio" json:"sharpe_ratio"`
	MaxDrawdown     float64         `db:"max_drawdown" json:"max_drawdown"`
	FullResults     json.RawMessage `db:"full_results" json:"full_results"`
	CreatedAt       time.Time       `db:"created_at" json:"created_at"`
}
