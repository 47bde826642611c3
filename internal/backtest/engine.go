package backtest

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/yourusername/betsim/internal/metrics"
	"github.com/yourusername/betsim/internal/models"
	"github.com/yourusername/betsim/internal/sizing"
)

// Predictor supplies model output for a single game. Implementations may
// fail per game; the engine treats any error as a skip, never a retry and
// never an abort.
type Predictor interface {
	Predict(ctx context.Context, game *models.GameRecord) (*models.PredictionResult, error)
}

// OddsTable maps game ids to their odds quote. Callers (the data pipeline)
// build it before the run starts; the engine only reads it.
type OddsTable map[uuid.UUID]*models.OddsQuote

// Quote returns the odds for a game, if present.
func (t OddsTable) Quote(gameID uuid.UUID) (*models.OddsQuote, bool) {
	quote, ok := t[gameID]
	return quote, ok
}

// Skip reasons recorded in the result's diagnostics tally.
const (
	SkipMissingOdds          = "missing_odds"
	SkipPredictionError      = "prediction_error"
	SkipLowConfidence        = "low_confidence"
	SkipZeroStake            = "zero_stake"
	SkipInsufficientBankroll = "insufficient_bankroll"
	SkipMissingData          = "missing_data"
)

// Engine replays historical games against a prediction model and simulates
// bankroll evolution under a sizing policy. The engine itself is stateless:
// every Run call receives its data and configuration explicitly and owns a
// fresh ledger, so independent runs may execute concurrently.
type Engine struct {
	predictor Predictor
	logger    *logrus.Logger
}

// NewEngine creates a backtest engine.
func NewEngine(predictor Predictor, logger *logrus.Logger) (*Engine, error) {
	if predictor == nil {
		return nil, fmt.Errorf("predictor is required")
	}
	if logger == nil {
		logger = logrus.New()
	}
	return &Engine{predictor: predictor, logger: logger}, nil
}

// Run simulates one backtest over the given games. Games outside the config
// window are ignored; the rest are replayed in ascending date order. A
// configuration error aborts before any simulation work; per-game data gaps
// are logged, tallied, and skipped.
func (e *Engine) Run(ctx context.Context, games []*models.GameRecord, odds OddsTable, cfg Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	policy, err := sizing.New(cfg.Strategy, cfg.SizingParams())
	if err != nil {
		return nil, err
	}

	window := filterByDate(games, cfg.StartDate, cfg.EndDate)
	sort.Slice(window, func(i, j int) bool {
		return window[i].ScheduledStart.Before(window[j].ScheduledStart)
	})

	e.logger.WithFields(logrus.Fields{
		"strategy": cfg.Strategy,
		"start":    cfg.StartDate.Format("2006-01-02"),
		"end":      cfg.EndDate.Format("2006-01-02"),
		"games":    len(window),
	}).Info("Starting backtest run")

	started := time.Now()
	ledger := NewLedger(cfg.InitialBankroll, cfg.StartDate)
	skipped := make(map[string]int)

	for _, game := range window {
		reason := e.processGame(ctx, game, odds, policy, ledger, cfg)
		if reason != "" {
			skipped[reason]++
			metrics.RecordGameSkipped(reason)
		}
	}

	result := buildResult(ledger, cfg, skipped)
	metrics.RecordBacktestRun(string(cfg.Strategy), "success", time.Since(started).Seconds())
	metrics.UpdateFinalBankroll(string(cfg.Strategy), result.FinalBankroll)

	e.logger.WithFields(logrus.Fields{
		"strategy":       cfg.Strategy,
		"total_bets":     result.TotalBets,
		"skipped_games":  result.SkippedGames,
		"final_bankroll": result.FinalBankroll,
	}).Info("Backtest run completed")

	return result, nil
}

// processGame runs one iteration of the simulation loop. It returns the
// skip reason, or an empty string when a bet was applied.
func (e *Engine) processGame(ctx context.Context, game *models.GameRecord, odds OddsTable, policy sizing.Policy, ledger *Ledger, cfg Config) string {
	quote, ok := odds.Quote(game.ID)
	if !ok {
		e.logger.WithField("game_id", game.ID).Debug("No odds quote, skipping game")
		return SkipMissingOdds
	}

	prediction, err := e.predictor.Predict(ctx, game)
	if err != nil {
		e.logger.WithError(err).WithField("game_id", game.ID).Warn("Prediction failed, skipping game")
		return SkipPredictionError
	}

	if !prediction.MeetsThreshold(cfg.MinConfidence) {
		return SkipLowConfidence
	}

	payoutOdds, _ := quote.ForSide(prediction.Side)
	stake := policy.Size(ledger.CurrentBankroll, prediction.Confidence, payoutOdds, prediction.WinProbability)

	// Hard cap, independent of whatever the policy computed.
	if maxStake := ledger.CurrentBankroll * cfg.MaxBetFraction; stake > maxStake {
		stake = maxStake
	}
	if stake <= 0 {
		return SkipZeroStake
	}
	if !ledger.CanAfford(stake) {
		return SkipInsufficientBankroll
	}

	outcome, payoutOdds, err := ResolveOutcome(game, prediction, quote)
	if err != nil {
		e.logger.WithError(err).WithField("game_id", game.ID).Debug("Unresolvable game, skipping")
		return SkipMissingData
	}

	ledger.Apply(game, prediction, outcome, stake, payoutOdds, cfg.CommissionRate)
	metrics.RecordBetSimulated()
	return ""
}

func filterByDate(games []*models.GameRecord, start, end time.Time) []*models.GameRecord {
	filtered := make([]*models.GameRecord, 0, len(games))
	for _, game := range games {
		if game.ScheduledStart.Before(start) || game.ScheduledStart.After(end) {
			continue
		}
		filtered = append(filtered, game)
	}
	return filtered
}
