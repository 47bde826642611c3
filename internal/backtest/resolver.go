package backtest

import (
	"github.com/yourusername/betsim/internal/models"
)

// ResolveOutcome settles a predicted side against a completed game and
// selects the payout odds from the quote. Level scores resolve to a push:
// the stake is refunded rather than treated as a loss.
//
// Returns a MissingDataError when the game has no final score or the quote
// carries no usable price for the predicted side.
func ResolveOutcome(game *models.GameRecord, prediction *models.PredictionResult, quote *models.OddsQuote) (models.Outcome, float64, error) {
	if !game.IsCompleted() {
		return "", 0, models.NewMissingDataError(game.ID, "game not completed", models.ErrGameNotFinal)
	}

	payoutOdds, ok := quote.ForSide(prediction.Side)
	if !ok {
		return "", 0, models.NewMissingDataError(game.ID, "no odds for predicted side", models.ErrNoQuoteForSide)
	}

	if game.IsTie() {
		return models.OutcomePush, payoutOdds, nil
	}

	winner, _ := game.Winner()
	if winner == prediction.Side {
		return models.OutcomeWon, payoutOdds, nil
	}
	return models.OutcomeLost, payoutOdds, nil
}
