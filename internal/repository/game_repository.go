package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/yourusername/betsim/internal/database"
	"github.com/yourusername/betsim/internal/models"
)

const errScanGame = "failed to scan game: %w"

const gameColumns = `id, scheduled_start, league, home_team, away_team, home_score, away_score, features, created_at`

// PostgresGameRepository implements GameRepository for PostgreSQL
type PostgresGameRepository struct {
	db *database.DB
}

// NewPostgresGameRepository creates a new game repository
func NewPostgresGameRepository(db *database.DB) GameRepository {
	return &PostgresGameRepository{db: db}
}

// Create inserts a new game record
func (r *PostgresGameRepository) Create(ctx context.Context, game *models.GameRecord) error {
	query := `
		INSERT INTO games (id, scheduled_start, league, home_team, away_team, home_score, away_score, features)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.GetPool().Exec(ctx, query,
		game.ID, game.ScheduledStart, game.League, game.HomeTeam, game.AwayTeam,
		game.HomeScore, game.AwayScore, game.Features,
	)
	if err != nil {
		return fmt.Errorf("failed to create game: %w", err)
	}

	return nil
}

// CreateBatch inserts game records within a single transaction
func (r *PostgresGameRepository) CreateBatch(ctx context.Context, games []*models.GameRecord) error {
	if len(games) == 0 {
		return nil
	}

	return r.db.WithTransaction(ctx, func(txCtx context.Context) error {
		for _, game := range games {
			if err := r.Create(txCtx, game); err != nil {
				return err
			}
		}
		return nil
	})
}

// GetByID retrieves a game by ID
func (r *PostgresGameRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.GameRecord, error) {
	query := `SELECT ` + gameColumns + ` FROM games WHERE id = $1`

	game := &models.GameRecord{}
	err := r.db.GetPool().QueryRow(ctx, query, id).Scan(
		&game.ID, &game.ScheduledStart, &game.League, &game.HomeTeam, &game.AwayTeam,
		&game.HomeScore, &game.AwayScore, &game.Features, &game.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}

	return game, nil
}

// GetByDateRange retrieves games scheduled within a date range, ascending
func (r *PostgresGameRepository) GetByDateRange(ctx context.Context, start, end time.Time) ([]*models.GameRecord, error) {
	query := `
		SELECT ` + gameColumns + `
		FROM games
		WHERE scheduled_start >= $1 AND scheduled_start <= $2
		ORDER BY scheduled_start ASC
	`

	rows, err := r.db.GetPool().Query(ctx, query, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query games by date range: %w", err)
	}
	defer rows.Close()

	return scanGames(rows)
}

// GetByLeague retrieves games for one league within a date range
func (r *PostgresGameRepository) GetByLeague(ctx context.Context, league string, start, end time.Time) ([]*models.GameRecord, error) {
	query := `
		SELECT ` + gameColumns + `
		FROM games
		WHERE league = $1 AND scheduled_start >= $2 AND scheduled_start <= $3
		ORDER BY scheduled_start ASC
	`

	rows, err := r.db.GetPool().Query(ctx, query, league, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query games by league: %w", err)
	}
	defer rows.Close()

	return scanGames(rows)
}

// Update updates a game record (typically to fill in final scores)
func (r *PostgresGameRepository) Update(ctx context.Context, game *models.GameRecord) error {
	query := `
		UPDATE games
		SET scheduled_start = $2, league = $3, home_team = $4, away_team = $5,
		    home_score = $6, away_score = $7, features = $8
		WHERE id = $1
	`

	tag, err := r.db.GetPool().Exec(ctx, query,
		game.ID, game.ScheduledStart, game.League, game.HomeTeam, game.AwayTeam,
		game.HomeScore, game.AwayScore, game.Features,
	)
	if err != nil {
		return fmt.Errorf("failed to update game: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}

	return nil
}

// Delete removes a game record
func (r *PostgresGameRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.GetPool().Exec(ctx, `DELETE FROM games WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete game: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}

	return nil
}

func scanGames(rows pgx.Rows) ([]*models.GameRecord, error) {
	var games []*models.GameRecord
	for rows.Next() {
		game := &models.GameRecord{}
		err := rows.Scan(
			&game.ID, &game.ScheduledStart, &game.League, &game.HomeTeam, &game.AwayTeam,
			&game.HomeScore, &game.AwayScore, &game.Features, &game.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf(errScanGame, err)
		}
		games = append(games, game)
	}
	return games, rows.Err()
}
