package backtest

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/yourusername/betsim/internal/models"
)

func testQuote(gameID uuid.UUID, home, away float64) *models.OddsQuote {
	return &models.OddsQuote{
		GameID:   gameID,
		HomeOdds: home,
		AwayOdds: away,
	}
}

func TestResolveOutcomeWinner(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	game := testGame(start, 110, 95)
	quote := testQuote(game.ID, 1.8, 2.1)

	outcome, odds, err := ResolveOutcome(game, testPrediction(game, models.SideHome), quote)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome != models.OutcomeWon {
		t.Errorf("outcome = %v, want won", outcome)
	}
	if odds != 1.8 {
		t.Errorf("payout odds = %v, want home side 1.8", odds)
	}

	outcome, odds, err = ResolveOutcome(game, testPrediction(game, models.SideAway), quote)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome != models.OutcomeLost {
		t.Errorf("outcome = %v, want lost", outcome)
	}
	if odds != 2.1 {
		t.Errorf("payout odds = %v, want away side 2.1", odds)
	}
}

func TestResolveOutcomeTieIsPush(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	game := testGame(start, 100, 100)
	quote := testQuote(game.ID, 1.9, 1.9)

	outcome, _, err := ResolveOutcome(game, testPrediction(game, models.SideHome), quote)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome != models.OutcomePush {
		t.Errorf("outcome = %v, want push", outcome)
	}
}

func TestResolveOutcomeIncompleteGame(t *testing.T) {
	game := &models.GameRecord{
		ID:             uuid.New(),
		ScheduledStart: time.Now(),
		HomeTeam:       "Home",
		AwayTeam:       "Away",
	}
	quote := testQuote(game.ID, 1.9, 1.9)

	_, _, err := ResolveOutcome(game, testPrediction(game, models.SideHome), quote)
	if err == nil {
		t.Fatal("expected error for incomplete game")
	}
	if !models.IsMissingData(err) {
		t.Errorf("expected missing data error, got %v", err)
	}
	if !errors.Is(err, models.ErrGameNotFinal) {
		t.Errorf("expected ErrGameNotFinal, got %v", err)
	}
}

func TestResolveOutcomeUnusableOdds(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	game := testGame(start, 100, 90)
	quote := testQuote(game.ID, 1.0, 0)

	_, _, err := ResolveOutcome(game, testPrediction(game, models.SideHome), quote)
	if err == nil {
		t.Fatal("expected error for odds at or below 1.0")
	}
	if !errors.Is(err, models.ErrNoQuoteForSide) {
		t.Errorf("expected ErrNoQuoteForSide, got %v", err)
	}
}
