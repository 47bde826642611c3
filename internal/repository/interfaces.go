package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/yourusername/betsim/internal/models"
)

// GameRepository defines the interface for historical game data access
type GameRepository interface {
	Create(ctx context.Context, game *models.GameRecord) error
	CreateBatch(ctx context.Context, games []*models.GameRecord) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.GameRecord, error)
	GetByDateRange(ctx context.Context, start, end time.Time) ([]*models.GameRecord, error)
	GetByLeague(ctx context.Context, league string, start, end time.Time) ([]*models.GameRecord, error)
	Update(ctx context.Context, game *models.GameRecord) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// OddsRepository defines the interface for odds quote data access
type OddsRepository interface {
	Insert(ctx context.Context, quote *models.OddsQuote) error
	InsertBatch(ctx context.Context, quotes []*models.OddsQuote) error
	GetByGameID(ctx context.Context, gameID uuid.UUID) (*models.OddsQuote, error)
	GetForGames(ctx context.Context, gameIDs []uuid.UUID) ([]*models.OddsQuote, error)
}

// BacktestResultRepository defines the interface for persisted run summaries
type BacktestResultRepository interface {
	Create(ctx context.Context, row *models.BacktestResultRow) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.BacktestResultRow, error)
	GetRecent(ctx context.Context, limit int) ([]*models.BacktestResultRow, error)
	GetByStrategy(ctx context.Context, strategy string, limit int) ([]*models.BacktestResultRow, error)
}

// Repositories holds all repository implementations
type Repositories struct {
	Game           GameRepository
	Odds           OddsRepository
	BacktestResult BacktestResultRepository
}
