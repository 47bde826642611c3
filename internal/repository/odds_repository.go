package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/yourusername/betsim/internal/database"
	"github.com/yourusername/betsim/internal/models"
)

const oddsColumns = `game_id, home_odds, away_odds, total_line, bookmaker, recorded_at`

// PostgresOddsRepository implements OddsRepository for PostgreSQL
type PostgresOddsRepository struct {
	db *database.DB
}

// NewPostgresOddsRepository creates a new odds repository
func NewPostgresOddsRepository(db *database.DB) OddsRepository {
	return &PostgresOddsRepository{db: db}
}

// Insert stores an odds quote
func (r *PostgresOddsRepository) Insert(ctx context.Context, quote *models.OddsQuote) error {
	query := `
		INSERT INTO odds_quotes (game_id, home_odds, away_odds, total_line, bookmaker, recorded_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (game_id) DO UPDATE
		SET home_odds = EXCLUDED.home_odds, away_odds = EXCLUDED.away_odds,
		    total_line = EXCLUDED.total_line, bookmaker = EXCLUDED.bookmaker,
		    recorded_at = EXCLUDED.recorded_at
	`

	_, err := r.db.GetPool().Exec(ctx, query,
		quote.GameID, quote.HomeOdds, quote.AwayOdds, quote.TotalLine,
		quote.Bookmaker, quote.RecordedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert odds quote: %w", err)
	}

	return nil
}

// InsertBatch stores odds quotes within a single transaction
func (r *PostgresOddsRepository) InsertBatch(ctx context.Context, quotes []*models.OddsQuote) error {
	if len(quotes) == 0 {
		return nil
	}

	return r.db.WithTransaction(ctx, func(txCtx context.Context) error {
		for _, quote := range quotes {
			if err := r.Insert(txCtx, quote); err != nil {
				return err
			}
		}
		return nil
	})
}

// GetByGameID retrieves the odds quote for one game
func (r *PostgresOddsRepository) GetByGameID(ctx context.Context, gameID uuid.UUID) (*models.OddsQuote, error) {
	query := `SELECT ` + oddsColumns + ` FROM odds_quotes WHERE game_id = $1`

	quote := &models.OddsQuote{}
	err := r.db.GetPool().QueryRow(ctx, query, gameID).Scan(
		&quote.GameID, &quote.HomeOdds, &quote.AwayOdds, &quote.TotalLine,
		&quote.Bookmaker, &quote.RecordedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get odds quote: %w", err)
	}

	return quote, nil
}

// GetForGames retrieves quotes for a set of games. Games without a quote are
// simply absent from the result.
func (r *PostgresOddsRepository) GetForGames(ctx context.Context, gameIDs []uuid.UUID) ([]*models.OddsQuote, error) {
	if len(gameIDs) == 0 {
		return nil, nil
	}

	query := `SELECT ` + oddsColumns + ` FROM odds_quotes WHERE game_id = ANY($1)`

	rows, err := r.db.GetPool().Query(ctx, query, gameIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query odds quotes: %w", err)
	}
	defer rows.Close()

	var quotes []*models.OddsQuote
	for rows.Next() {
		quote := &models.OddsQuote{}
		err := rows.Scan(
			&quote.GameID, &quote.HomeOdds, &quote.AwayOdds, &quote.TotalLine,
			&quote.Bookmaker, &quote.RecordedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan odds quote: %w", err)
		}
		quotes = append(quotes, quote)
	}
	return quotes, rows.Err()
}
