package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/yourusername/betsim/internal/database"
	"github.com/yourusername/betsim/internal/models"
)

const resultColumns = `id, strategy, run_date, start_date, end_date, initial_bankroll, final_bankroll,
	total_bets, win_rate, roi, sharpe_ratio, max_drawdown, full_results, created_at`

// PostgresBacktestResultRepository implements BacktestResultRepository for PostgreSQL
type PostgresBacktestResultRepository struct {
	db *database.DB
}

// NewPostgresBacktestResultRepository creates a new backtest result repository
func NewPostgresBacktestResultRepository(db *database.DB) BacktestResultRepository {
	return &PostgresBacktestResultRepository{db: db}
}

// Create persists a run summary
func (r *PostgresBacktestResultRepository) Create(ctx context.Context, row *models.BacktestResultRow) error {
	query := `
		INSERT INTO backtest_results (id, strategy, run_date, start_date, end_date, initial_bankroll,
			final_bankroll, total_bets, win_rate, roi, sharpe_ratio, max_drawdown, full_results)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	_, err := r.db.GetPool().Exec(ctx, query,
		row.ID, row.Strategy, row.RunDate, row.StartDate, row.EndDate, row.InitialBankroll,
		row.FinalBankroll, row.TotalBets, row.WinRate, row.ROI, row.SharpeRatio,
		row.MaxDrawdown, row.FullResults,
	)
	if err != nil {
		return fmt.Errorf("failed to create backtest result: %w", err)
	}

	return nil
}

// GetByID retrieves a run summary by ID
func (r *PostgresBacktestResultRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.BacktestResultRow, error) {
	query := `SELECT ` + resultColumns + ` FROM backtest_results WHERE id = $1`

	row := &models.BacktestResultRow{}
	err := r.db.GetPool().QueryRow(ctx, query, id).Scan(
		&row.ID, &row.Strategy, &row.RunDate, &row.StartDate, &row.EndDate,
		&row.InitialBankroll, &row.FinalBankroll, &row.TotalBets, &row.WinRate,
		&row.ROI, &row.SharpeRatio, &row.MaxDrawdown, &row.FullResults, &row.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get backtest result: %w", err)
	}

	return row, nil
}

// GetRecent retrieves the most recent run summaries
func (r *PostgresBacktestResultRepository) GetRecent(ctx context.Context, limit int) ([]*models.BacktestResultRow, error) {
	query := `SELECT ` + resultColumns + ` FROM backtest_results ORDER BY run_date DESC LIMIT $1`

	rows, err := r.db.GetPool().Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent backtest results: %w", err)
	}
	defer rows.Close()

	return scanResultRows(rows)
}

// GetByStrategy retrieves run summaries for one strategy, newest first
func (r *PostgresBacktestResultRepository) GetByStrategy(ctx context.Context, strategy string, limit int) ([]*models.BacktestResultRow, error) {
	query := `SELECT ` + resultColumns + ` FROM backtest_results WHERE strategy = $1 ORDER BY run_date DESC LIMIT $2`

	rows, err := r.db.GetPool().Query(ctx, query, strategy, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query backtest results by strategy: %w", err)
	}
	defer rows.Close()

	return scanResultRows(rows)
}

func scanResultRows(rows pgx.Rows) ([]*models.BacktestResultRow, error) {
	var results []*models.BacktestResultRow
	for rows.Next() {
		row := &models.BacktestResultRow{}
		err := rows.Scan(
			&row.ID, &row.Strategy, &row.RunDate, &row.StartDate, &row.EndDate,
			&row.InitialBankroll, &row.FinalBankroll, &row.TotalBets, &row.WinRate,
			&row.ROI, &row.SharpeRatio, &row.MaxDrawdown, &row.FullResults, &row.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan backtest result: %w", err)
		}
		results = append(results, row)
	}
	return results, rows.Err()
}
