package predictor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/betsim/internal/config"
	"github.com/yourusername/betsim/internal/metrics"
	"github.com/yourusername/betsim/internal/models"
)

// Client calls the prediction model service over HTTP. It satisfies the
// backtest engine's Predictor interface.
type Client struct {
	http    *RateLimitedHTTPClient
	baseURL string
	apiKey  string
	logger  *logrus.Logger
}

// predictRequest is the wire request for a single game prediction
type predictRequest struct {
	GameID         uuid.UUID       `json:"game_id"`
	League         string          `json:"league"`
	HomeTeam       string          `json:"home_team"`
	AwayTeam       string          `json:"away_team"`
	ScheduledStart time.Time       `json:"scheduled_start"`
	Features       json.RawMessage `json:"features,omitempty"`
}

// predictResponse is the wire response for a single game prediction
type predictResponse struct {
	Side           string  `json:"side"`
	WinProbability float64 `json:"win_probability"`
	Confidence     float64 `json:"confidence"`
	ModelVersion   string  `json:"model_version"`
}

// NewClient creates a prediction service client from configuration
func NewClient(cfg *config.ModelServiceConfig, logger *logrus.Logger) *Client {
	httpCfg := DefaultHTTPClientConfig()
	if cfg.RequestTimeoutSeconds > 0 {
		httpCfg.Timeout = time.Duration(cfg.RequestTimeoutSeconds) * time.Second
	}
	if cfg.RetryAttempts > 0 {
		httpCfg.MaxRetries = cfg.RetryAttempts
	}
	if cfg.RateLimitPerSecond > 0 {
		httpCfg.RateLimit = float64(cfg.RateLimitPerSecond)
	}
	if cfg.CircuitBreakerMax > 0 {
		httpCfg.CircuitBreakerMax = cfg.CircuitBreakerMax
	}

	return &Client{
		http:    NewRateLimitedHTTPClient(httpCfg, logger),
		baseURL: cfg.URL,
		apiKey:  cfg.APIKey,
		logger:  logger,
	}
}

// Predict asks the model service which side to back for one game.
func (c *Client) Predict(ctx context.Context, game *models.GameRecord) (*models.PredictionResult, error) {
	start := time.Now()

	body, err := json.Marshal(predictRequest{
		GameID:         game.ID,
		League:         game.League,
		HomeTeam:       game.HomeTeam,
		AwayTeam:       game.AwayTeam,
		ScheduledStart: game.ScheduledStart,
		Features:       game.Features,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal prediction request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/v1/predict", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		metrics.RecordPredictionRequest("error", time.Since(start).Seconds())
		return nil, fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		metrics.RecordPredictionRequest("error", time.Since(start).Seconds())
		return nil, fmt.Errorf("%w: status %d: %s", ErrInvalidPrediction, resp.StatusCode, string(raw))
	}

	var payload predictResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		metrics.RecordPredictionRequest("error", time.Since(start).Seconds())
		return nil, fmt.Errorf("%w: %v", ErrInvalidPrediction, err)
	}

	side := models.Side(payload.Side)
	if side != models.SideHome && side != models.SideAway {
		metrics.RecordPredictionRequest("error", time.Since(start).Seconds())
		return nil, fmt.Errorf("%w: unknown side %q", ErrInvalidPrediction, payload.Side)
	}
	if payload.WinProbability < 0 || payload.WinProbability > 1 || payload.Confidence < 0 || payload.Confidence > 1 {
		metrics.RecordPredictionRequest("error", time.Since(start).Seconds())
		return nil, fmt.Errorf("%w: probability or confidence out of range", ErrInvalidPrediction)
	}

	metrics.RecordPredictionRequest("success", time.Since(start).Seconds())

	return &models.PredictionResult{
		GameID:         game.ID,
		Side:           side,
		WinProbability: payload.WinProbability,
		Confidence:     payload.Confidence,
		ModelVersion:   payload.ModelVersion,
		PredictedAt:    time.Now(),
	}, nil
}

// Close releases the underlying HTTP resources.
func (c *Client) Close() error {
	return c.http.Close()
}
