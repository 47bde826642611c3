package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Side identifies which side of a game a quote or prediction refers to.
type Side string

const (
	SideHome Side = "home"
	SideAway Side = "away"
)

// GameRecord represents one historical contest. Records are immutable once
// loaded; scores are nil until the game has been played.
type GameRecord struct {
	ID             uuid.UUID       `db:"id" json:"id" validate:"required,uuid4"`
	ScheduledStart time.Time       `db:"scheduled_start" json:"scheduled_start" validate:"required"`
	League         string          `db:"league" json:"league"`
	HomeTeam       string          `db:"home_team" json:"home_team" validate:"required"`
	AwayTeam       string          `db:"away_team" json:"away_team" validate:"required"`
	HomeScore      *int            `db:"home_score" json:"home_score"`
	AwayScore      *int            `db:"away_score" json:"away_score"`
	Features       json.RawMessage `db:"features" json:"features"`
	CreatedAt      time.Time       `db:"created_at" json:"created_at"`
}

// IsCompleted reports whether both final scores are populated.
func (g *GameRecord) IsCompleted() bool {
	return g.HomeScore != nil && g.AwayScore != nil
}

// Winner returns the winning side of a completed game. The second return is
// false when the game is not completed or ended level.
func (g *GameRecord) Winner() (Side, bool) {
	if !g.IsCompleted() {
		return "", false
	}
	switch {
	case *g.HomeScore > *g.AwayScore:
		return SideHome, true
	case *g.AwayScore > *g.HomeScore:
		return SideAway, true
	default:
		return "", false
	}
}

// IsTie reports whether a completed game ended level.
func (g *GameRecord) IsTie() bool {
	return g.IsCompleted() && *g.HomeScore == *g.AwayScore
}

// GetFeature retrieves a feature value from the Features JSON.
func (g *GameRecord) GetFeature(name string) (interface{}, error) {
	if g.Features == nil {
		return nil, nil
	}

	var features map[string]interface{}
	if err := json.Unmarshal(g.Features, &features); err != nil {
		return nil, err
	}

	return features[name], nil
}
