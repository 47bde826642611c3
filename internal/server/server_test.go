package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/betsim/internal/backtest"
	"github.com/yourusername/betsim/internal/config"
	"github.com/yourusername/betsim/internal/models"
	"github.com/yourusername/betsim/internal/repository"
	"github.com/yourusername/betsim/internal/service"
)

type stubPredictor struct{}

func (stubPredictor) Predict(_ context.Context, game *models.GameRecord) (*models.PredictionResult, error) {
	return &models.PredictionResult{
		GameID:         game.ID,
		Side:           models.SideHome,
		WinProbability: 0.6,
		Confidence:     0.7,
		PredictedAt:    time.Now(),
	}, nil
}

type failingPinger struct{}

func (failingPinger) Ping(context.Context) error { return context.DeadlineExceeded }

func intPtr(v int) *int { return &v }

func testServer(t *testing.T) (*Server, *repository.Repositories) {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)

	repos := repository.NewMemoryRepositories()
	engine, err := backtest.NewEngine(stubPredictor{}, log)
	require.NoError(t, err)
	svc, err := service.NewBacktestService(repos, engine, log)
	require.NoError(t, err)

	srv, err := NewServer(svc, nil, config.ServerConfig{
		Port:                   8080,
		ReadTimeoutSeconds:     5,
		WriteTimeoutSeconds:    30,
		ShutdownTimeoutSeconds: 5,
	}, log)
	require.NoError(t, err)
	return srv, repos
}

func seedGames(t *testing.T, repos *repository.Repositories, start time.Time, n int) {
	t.Helper()
	ctx := context.Background()
	for i := 0; i < n; i++ {
		game := &models.GameRecord{
			ID:             uuid.New(),
			ScheduledStart: start.Add(time.Duration(i+1) * 24 * time.Hour),
			League:         "NBA",
			HomeTeam:       "Home",
			AwayTeam:       "Away",
			HomeScore:      intPtr(100),
			AwayScore:      intPtr(90),
		}
		require.NoError(t, repos.Game.Create(ctx, game))
		require.NoError(t, repos.Odds.Insert(ctx, &models.OddsQuote{
			GameID:     game.ID,
			HomeOdds:   2.0,
			AwayOdds:   2.0,
			RecordedAt: start,
		}))
	}
}

func requestBody(t *testing.T, payload any) *bytes.Reader {
	t.Helper()
	raw, err := json.Marshal(payload)
	require.NoError(t, err)
	return bytes.NewReader(raw)
}

func TestHandleBacktest(t *testing.T) {
	srv, repos := testServer(t)
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	seedGames(t, repos, start, 3)

	body := requestBody(t, map[string]any{
		"start_date":       "2024-01-01",
		"end_date":         "2024-02-01",
		"strategy":         "fixed_amount",
		"initial_bankroll": 1000,
		"bet_amount":       100,
		"min_confidence":   0.6,
		"max_bet_fraction": 0.5,
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/backtest", body)
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var report backtest.ResultReport
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&report))
	assert.Equal(t, "fixed_amount", report.Strategy)
	assert.Equal(t, 3, report.TotalBets)
	assert.InDelta(t, 1300, report.FinalBankroll, 0.01)
}

func TestHandleBacktestBadDate(t *testing.T) {
	srv, _ := testServer(t)

	body := requestBody(t, map[string]any{
		"start_date":       "January 1st",
		"end_date":         "2024-02-01",
		"initial_bankroll": 1000,
		"bet_amount":       100,
		"max_bet_fraction": 0.5,
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/backtest", body)
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleBacktestInvalidRange(t *testing.T) {
	srv, _ := testServer(t)

	body := requestBody(t, map[string]any{
		"start_date":       "2024-02-01",
		"end_date":         "2024-02-01",
		"initial_bankroll": 1000,
		"bet_amount":       100,
		"max_bet_fraction": 0.5,
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/backtest", body)
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleBacktestMethodNotAllowed(t *testing.T) {
	srv, _ := testServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/backtest", nil)
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHandleCompare(t *testing.T) {
	srv, repos := testServer(t)
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	seedGames(t, repos, start, 2)

	body := requestBody(t, map[string]any{
		"start_date":       "2024-01-01",
		"end_date":         "2024-02-01",
		"initial_bankroll": 1000,
		"bet_amount":       100,
		"min_confidence":   0.6,
		"max_bet_fraction": 0.5,
		"strategies":       []string{"fixed_amount", "percentage"},
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/backtest/compare", body)
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var reports map[string]backtest.ResultReport
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&reports))
	assert.Len(t, reports, 2)
	assert.Contains(t, reports, "fixed_amount")
	assert.Contains(t, reports, "percentage")
}

func TestHandleResults(t *testing.T) {
	srv, repos := testServer(t)
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	seedGames(t, repos, start, 1)

	body := requestBody(t, map[string]any{
		"start_date":       "2024-01-01",
		"end_date":         "2024-02-01",
		"initial_bankroll": 1000,
		"bet_amount":       100,
		"min_confidence":   0.6,
		"max_bet_fraction": 0.5,
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/backtest", body)
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/results?limit=5", nil)
	rec = httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var rows []*models.BacktestResultRow
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&rows))
	assert.Len(t, rows, 1)
}

func TestHandleResultsBadLimit(t *testing.T) {
	srv, _ := testServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/results?limit=abc", nil)
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealthz(t *testing.T) {
	srv, _ := testServer(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp healthResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "ok", resp.Status)
}

func TestReadyzReflectsReadiness(t *testing.T) {
	srv, _ := testServer(t)

	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	srv.SetReady(true)
	rec = httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestReadyzDatabaseFailure(t *testing.T) {
	srv, _ := testServer(t)
	srv.db = failingPinger{}
	srv.SetReady(true)

	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, req)

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var resp readyResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.False(t, resp.Ready)
	assert.Contains(t, resp.Checks, "database")
}
