package repository

import (
	"fmt"

	"github.com/yourusername/betsim/internal/database"
)

// NewRepositories creates and returns all PostgreSQL repository implementations
func NewRepositories(db *database.DB) (*Repositories, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is required")
	}

	return &Repositories{
		Game:           NewPostgresGameRepository(db),
		Odds:           NewPostgresOddsRepository(db),
		BacktestResult: NewPostgresBacktestResultRepository(db),
	}, nil
}

// NewMemoryRepositories creates in-memory repositories for development and
// tests where no database is available.
func NewMemoryRepositories() *Repositories {
	return &Repositories{
		Game:           NewMemoryGameRepository(),
		Odds:           NewMemoryOddsRepository(),
		BacktestResult: NewMemoryBacktestResultRepository(),
	}
}
