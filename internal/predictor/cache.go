package predictor

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	cache "github.com/patrickmn/go-cache"

	"github.com/yourusername/betsim/internal/models"
)

// cacheKey builds the cache key for one game and model version. Backtests
// replay the same games under several strategies, so predictions are reused
// aggressively.
func cacheKey(gameID uuid.UUID, modelVersion string) string {
	return fmt.Sprintf("%s:%s", gameID, modelVersion)
}

// PredictionCache provides in-memory caching for model predictions
type PredictionCache struct {
	cache *cache.Cache
	ttl   time.Duration
}

// NewPredictionCache creates a new prediction cache
func NewPredictionCache(ttl time.Duration) *PredictionCache {
	return &PredictionCache{
		cache: cache.New(ttl, ttl*2),
		ttl:   ttl,
	}
}

// Get retrieves a cached prediction, or nil
func (pc *PredictionCache) Get(gameID uuid.UUID, modelVersion string) *models.PredictionResult {
	if result, found := pc.cache.Get(cacheKey(gameID, modelVersion)); found {
		if pred, ok := result.(*models.PredictionResult); ok {
			return pred
		}
	}
	return nil
}

// Set stores a prediction under the requested model version, which may
// differ from the version the response reports (e.g. "latest").
func (pc *PredictionCache) Set(gameID uuid.UUID, modelVersion string, prediction *models.PredictionResult) {
	pc.cache.Set(cacheKey(gameID, modelVersion), prediction, pc.ttl)
}

// Clear flushes the entire cache
func (pc *PredictionCache) Clear() {
	pc.cache.Flush()
}

// ItemCount returns the number of cached predictions
func (pc *PredictionCache) ItemCount() int {
	return pc.cache.ItemCount()
}
