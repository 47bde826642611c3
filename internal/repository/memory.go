package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/yourusername/betsim/internal/models"
)

// MemoryGameRepository is an in-memory GameRepository for development and tests.
type MemoryGameRepository struct {
	mu    sync.RWMutex
	games map[uuid.UUID]*models.GameRecord
}

// NewMemoryGameRepository creates an empty in-memory game repository
func NewMemoryGameRepository() *MemoryGameRepository {
	return &MemoryGameRepository{games: make(map[uuid.UUID]*models.GameRecord)}
}

func (r *MemoryGameRepository) Create(_ context.Context, game *models.GameRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.games[game.ID] = game
	return nil
}

func (r *MemoryGameRepository) CreateBatch(ctx context.Context, games []*models.GameRecord) error {
	for _, game := range games {
		if err := r.Create(ctx, game); err != nil {
			return err
		}
	}
	return nil
}

func (r *MemoryGameRepository) GetByID(_ context.Context, id uuid.UUID) (*models.GameRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	game, ok := r.games[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return game, nil
}

func (r *MemoryGameRepository) GetByDateRange(_ context.Context, start, end time.Time) ([]*models.GameRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var games []*models.GameRecord
	for _, game := range r.games {
		if game.ScheduledStart.Before(start) || game.ScheduledStart.After(end) {
			continue
		}
		games = append(games, game)
	}
	sort.Slice(games, func(i, j int) bool {
		return games[i].ScheduledStart.Before(games[j].ScheduledStart)
	})
	return games, nil
}

func (r *MemoryGameRepository) GetByLeague(ctx context.Context, league string, start, end time.Time) ([]*models.GameRecord, error) {
	all, err := r.GetByDateRange(ctx, start, end)
	if err != nil {
		return nil, err
	}
	var games []*models.GameRecord
	for _, game := range all {
		if game.League == league {
			games = append(games, game)
		}
	}
	return games, nil
}

func (r *MemoryGameRepository) Update(_ context.Context, game *models.GameRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.games[game.ID]; !ok {
		return models.ErrNotFound
	}
	r.games[game.ID] = game
	return nil
}

func (r *MemoryGameRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.games[id]; !ok {
		return models.ErrNotFound
	}
	delete(r.games, id)
	return nil
}

// MemoryOddsRepository is an in-memory OddsRepository.
type MemoryOddsRepository struct {
	mu     sync.RWMutex
	quotes map[uuid.UUID]*models.OddsQuote
}

// NewMemoryOddsRepository creates an empty in-memory odds repository
func NewMemoryOddsRepository() *MemoryOddsRepository {
	return &MemoryOddsRepository{quotes: make(map[uuid.UUID]*models.OddsQuote)}
}

func (r *MemoryOddsRepository) Insert(_ context.Context, quote *models.OddsQuote) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.quotes[quote.GameID] = quote
	return nil
}

func (r *MemoryOddsRepository) InsertBatch(ctx context.Context, quotes []*models.OddsQuote) error {
	for _, quote := range quotes {
		if err := r.Insert(ctx, quote); err != nil {
			return err
		}
	}
	return nil
}

func (r *MemoryOddsRepository) GetByGameID(_ context.Context, gameID uuid.UUID) (*models.OddsQuote, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	quote, ok := r.quotes[gameID]
	if !ok {
		return nil, models.ErrNotFound
	}
	return quote, nil
}

func (r *MemoryOddsRepository) GetForGames(_ context.Context, gameIDs []uuid.UUID) ([]*models.OddsQuote, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var quotes []*models.OddsQuote
	for _, id := range gameIDs {
		if quote, ok := r.quotes[id]; ok {
			quotes = append(quotes, quote)
		}
	}
	return quotes, nil
}

// MemoryBacktestResultRepository is an in-memory BacktestResultRepository.
type MemoryBacktestResultRepository struct {
	mu   sync.RWMutex
	rows []*models.BacktestResultRow
}

// NewMemoryBacktestResultRepository creates an empty in-memory result repository
func NewMemoryBacktestResultRepository() *MemoryBacktestResultRepository {
	return &MemoryBacktestResultRepository{}
}

func (r *MemoryBacktestResultRepository) Create(_ context.Context, row *models.BacktestResultRow) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows = append(r.rows, row)
	return nil
}

func (r *MemoryBacktestResultRepository) GetByID(_ context.Context, id uuid.UUID) (*models.BacktestResultRow, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, row := range r.rows {
		if row.ID == id {
			return row, nil
		}
	}
	return nil, models.ErrNotFound
}

func (r *MemoryBacktestResultRepository) GetRecent(_ context.Context, limit int) ([]*models.BacktestResultRow, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rows := append([]*models.BacktestResultRow{}, r.rows...)
	sort.Slice(rows, func(i, j int) bool {
		return rows[i].RunDate.After(rows[j].RunDate)
	})
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, nil
}

func (r *MemoryBacktestResultRepository) GetByStrategy(ctx context.Context, strategy string, limit int) ([]*models.BacktestResultRow, error) {
	all, err := r.GetRecent(ctx, 0)
	if err != nil {
		return nil, err
	}
	var rows []*models.BacktestResultRow
	for _, row := range all {
		if row.Strategy == strategy {
			rows = append(rows, row)
		}
	}
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, nil
}
