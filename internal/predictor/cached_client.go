package predictor

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/betsim/internal/backtest"
	"github.com/yourusername/betsim/internal/config"
	"github.com/yourusername/betsim/internal/metrics"
	"github.com/yourusername/betsim/internal/models"
)

// CachedClient wraps a Predictor with prediction caching. Comparison runs
// replay the same games once per strategy; only the first pass hits the
// model service.
type CachedClient struct {
	inner        backtest.Predictor
	cache        *PredictionCache
	modelVersion string
	logger       *logrus.Logger
}

// NewCachedClient creates a caching wrapper around the given predictor.
func NewCachedClient(inner backtest.Predictor, cfg *config.ModelServiceConfig, logger *logrus.Logger) *CachedClient {
	ttl := time.Duration(cfg.CacheTTLSeconds) * time.Second
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}

	return &CachedClient{
		inner:        inner,
		cache:        NewPredictionCache(ttl),
		modelVersion: "latest",
		logger:       logger,
	}
}

// Predict returns a cached prediction when available, otherwise delegates.
func (c *CachedClient) Predict(ctx context.Context, game *models.GameRecord) (*models.PredictionResult, error) {
	if cached := c.cache.Get(game.ID, c.modelVersion); cached != nil {
		metrics.RecordPredictionCacheHit()
		c.logger.WithField("game_id", game.ID).Debug("Prediction cache hit")
		return cached, nil
	}

	result, err := c.inner.Predict(ctx, game)
	if err != nil {
		return nil, err
	}

	c.cache.Set(game.ID, c.modelVersion, result)
	return result, nil
}

// Clear flushes the prediction cache.
func (c *CachedClient) Clear() {
	c.cache.Clear()
}
