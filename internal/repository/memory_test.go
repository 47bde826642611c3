package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/betsim/internal/models"
)

func intPtr(v int) *int { return &v }

func sampleGame(start time.Time, league string) *models.GameRecord {
	return &models.GameRecord{
		ID:             uuid.New(),
		ScheduledStart: start,
		League:         league,
		HomeTeam:       "Home",
		AwayTeam:       "Away",
		HomeScore:      intPtr(100),
		AwayScore:      intPtr(95),
	}
}

func TestMemoryGameRepositoryCRUD(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryGameRepository()
	start := time.Date(2024, 1, 15, 19, 0, 0, 0, time.UTC)

	game := sampleGame(start, "NBA")
	require.NoError(t, repo.Create(ctx, game))

	got, err := repo.GetByID(ctx, game.ID)
	require.NoError(t, err)
	assert.Equal(t, game.ID, got.ID)

	game.HomeScore = intPtr(120)
	require.NoError(t, repo.Update(ctx, game))
	got, err = repo.GetByID(ctx, game.ID)
	require.NoError(t, err)
	assert.Equal(t, 120, *got.HomeScore)

	require.NoError(t, repo.Delete(ctx, game.ID))
	_, err = repo.GetByID(ctx, game.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestMemoryGameRepositoryNotFound(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryGameRepository()

	_, err := repo.GetByID(ctx, uuid.New())
	assert.ErrorIs(t, err, models.ErrNotFound)
	assert.ErrorIs(t, repo.Update(ctx, sampleGame(time.Now(), "NBA")), models.ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, uuid.New()), models.ErrNotFound)
}

func TestMemoryGameRepositoryDateRange(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryGameRepository()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	// Insert out of order to check ordering.
	later := sampleGame(base.Add(72*time.Hour), "NBA")
	earlier := sampleGame(base.Add(24*time.Hour), "NBA")
	outside := sampleGame(base.Add(30*24*time.Hour), "NBA")
	require.NoError(t, repo.CreateBatch(ctx, []*models.GameRecord{later, earlier, outside}))

	games, err := repo.GetByDateRange(ctx, base, base.Add(7*24*time.Hour))
	require.NoError(t, err)
	require.Len(t, games, 2)
	assert.Equal(t, earlier.ID, games[0].ID)
	assert.Equal(t, later.ID, games[1].ID)
}

func TestMemoryGameRepositoryByLeague(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryGameRepository()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	nba := sampleGame(base.Add(24*time.Hour), "NBA")
	nfl := sampleGame(base.Add(48*time.Hour), "NFL")
	require.NoError(t, repo.CreateBatch(ctx, []*models.GameRecord{nba, nfl}))

	games, err := repo.GetByLeague(ctx, "NFL", base, base.Add(7*24*time.Hour))
	require.NoError(t, err)
	require.Len(t, games, 1)
	assert.Equal(t, nfl.ID, games[0].ID)
}

func TestMemoryOddsRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryOddsRepository()

	gameID := uuid.New()
	quote := &models.OddsQuote{GameID: gameID, HomeOdds: 1.9, AwayOdds: 2.0, RecordedAt: time.Now()}
	require.NoError(t, repo.Insert(ctx, quote))

	got, err := repo.GetByGameID(ctx, gameID)
	require.NoError(t, err)
	assert.Equal(t, 1.9, got.HomeOdds)

	_, err = repo.GetByGameID(ctx, uuid.New())
	assert.ErrorIs(t, err, models.ErrNotFound)

	quotes, err := repo.GetForGames(ctx, []uuid.UUID{gameID, uuid.New()})
	require.NoError(t, err)
	assert.Len(t, quotes, 1)
}

func TestMemoryBacktestResultRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryBacktestResultRepository()
	base := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	older := &models.BacktestResultRow{ID: uuid.New(), Strategy: "fixed_amount", RunDate: base}
	newer := &models.BacktestResultRow{ID: uuid.New(), Strategy: "kelly_criterion", RunDate: base.Add(24 * time.Hour)}
	require.NoError(t, repo.Create(ctx, older))
	require.NoError(t, repo.Create(ctx, newer))

	got, err := repo.GetByID(ctx, older.ID)
	require.NoError(t, err)
	assert.Equal(t, "fixed_amount", got.Strategy)

	recent, err := repo.GetRecent(ctx, 1)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, newer.ID, recent[0].ID)

	byStrategy, err := repo.GetByStrategy(ctx, "fixed_amount", 10)
	require.NoError(t, err)
	require.Len(t, byStrategy, 1)
	assert.Equal(t, older.ID, byStrategy[0].ID)
}
