package models

import (
	"time"

	"github.com/google/uuid"
)

// PredictionResult is the output of an external model for one game: a
// predicted side, the estimated win probability for that side, and a scalar
// confidence. The simulation core consumes these; it never produces them.
type PredictionResult struct {
	GameID         uuid.UUID `db:"game_id" json:"game_id" validate:"required,uuid4"`
	Side           Side      `db:"side" json:"side" validate:"required,oneof=home away"`
	WinProbability float64   `db:"win_probability" json:"win_probability" validate:"gte=0,lte=1"`
	Confidence     float64   `db:"confidence" json:"confidence" validate:"gte=0,lte=1"`
	ModelVersion   string    `db:"model_version" json:"model_version"`
	PredictedAt    time.Time `db:"predicted_at" json:"predicted_at"`
}

// MeetsThreshold checks if the confidence meets the given threshold.
func (p *PredictionResult) MeetsThreshold(threshold float64) bool {
	return p.Confidence >= threshold
}
