package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OddsQuote represents the offered decimal prices for both sides of a single
// game. American quotes are normalized to decimal at ingestion. Immutable.
type OddsQuote struct {
	GameID     uuid.UUID `db:"game_id" json:"game_id" validate:"required,uuid4"`
	HomeOdds   float64   `db:"home_odds" json:"home_odds" validate:"required,gt=1"`
	AwayOdds   float64   `db:"away_odds" json:"away_odds" validate:"required,gt=1"`
	TotalLine  *float64  `db:"total_line" json:"total_line"`
	Bookmaker  string    `db:"bookmaker" json:"bookmaker"`
	RecordedAt time.Time `db:"recorded_at" json:"recorded_at"`
}

// ForSide returns the decimal price for the given side. The second return is
// false when the quote has no usable entry for that side.
func (o *OddsQuote) ForSide(side Side) (float64, bool) {
	switch side {
	case SideHome:
		return o.HomeOdds, o.HomeOdds > 1
	case SideAway:
		return o.AwayOdds, o.AwayOdds > 1
	default:
		return 0, false
	}
}

// ImpliedProbability returns the implied win probability for a side.
func (o *OddsQuote) ImpliedProbability(side Side) float64 {
	odds, ok := o.ForSide(side)
	if !ok {
		return 0
	}
	return 1.0 / odds
}

// DecimalFromAmerican converts an American moneyline price to decimal odds.
// +150 -> 2.50, -200 -> 1.50. Zero is not a valid American price.
func DecimalFromAmerican(american int) float64 {
	if american == 0 {
		return 0
	}
	hundred := decimal.NewFromInt(100)
	line := decimal.NewFromInt(int64(american))
	one := decimal.NewFromInt(1)

	var dec decimal.Decimal
	if american > 0 {
		dec = one.Add(line.Div(hundred))
	} else {
		dec = one.Add(hundred.Div(line.Abs()))
	}
	return dec.InexactFloat64()
}
