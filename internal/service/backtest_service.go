// Package service orchestrates data loading, simulation, and persistence for
// backtest runs.
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/betsim/internal/backtest"
	"github.com/yourusername/betsim/internal/logger"
	"github.com/yourusername/betsim/internal/models"
	"github.com/yourusername/betsim/internal/repository"
	"github.com/yourusername/betsim/internal/sizing"
)

// BacktestService loads historical data, runs the simulation engine, and
// persists run summaries.
type BacktestService struct {
	repos     *repository.Repositories
	engine    *backtest.Engine
	runLogger *logger.RunLogger
	log       *logrus.Logger
}

// NewBacktestService creates a backtest service.
func NewBacktestService(repos *repository.Repositories, engine *backtest.Engine, log *logrus.Logger) (*BacktestService, error) {
	if repos == nil {
		return nil, fmt.Errorf("repositories are required")
	}
	if engine == nil {
		return nil, fmt.Errorf("engine is required")
	}
	if log == nil {
		log = logrus.New()
	}

	return &BacktestService{
		repos:     repos,
		engine:    engine,
		runLogger: logger.NewRunLogger(log),
		log:       log,
	}, nil
}

// loadWindow fetches the games and odds covering the configured date range.
func (s *BacktestService) loadWindow(ctx context.Context, cfg backtest.Config) ([]*models.GameRecord, backtest.OddsTable, error) {
	games, err := s.repos.Game.GetByDateRange(ctx, cfg.StartDate, cfg.EndDate)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load games: %w", err)
	}

	ids := make([]uuid.UUID, len(games))
	for i, game := range games {
		ids[i] = game.ID
	}

	quotes, err := s.repos.Odds.GetForGames(ctx, ids)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load odds: %w", err)
	}

	odds := make(backtest.OddsTable, len(quotes))
	for _, quote := range quotes {
		odds[quote.GameID] = quote
	}

	return games, odds, nil
}

// RunBacktest executes one backtest over the stored history and persists the
// run summary.
func (s *BacktestService) RunBacktest(ctx context.Context, cfg backtest.Config) (*backtest.Result, error) {
	runID := uuid.New()

	games, odds, err := s.loadWindow(ctx, cfg)
	if err != nil {
		return nil, err
	}

	s.runLogger.LogRunStarted(runID.String(), string(cfg.Strategy), cfg.StartDate, cfg.EndDate, cfg.InitialBankroll, len(games))

	started := time.Now()
	result, err := s.engine.Run(ctx, games, odds, cfg)
	if err != nil {
		s.runLogger.LogRunFailed(runID.String(), string(cfg.Strategy), err)
		return nil, err
	}

	if err := s.persistResult(ctx, runID, result); err != nil {
		// The run itself succeeded; persistence failure is reported but not fatal.
		s.log.WithError(err).Warn("Failed to persist backtest result")
	}

	s.runLogger.LogRunCompleted(runID.String(), string(cfg.Strategy), result.TotalBets,
		result.SkippedGames, result.FinalBankroll, result.ROIPercentage, time.Since(started))

	return result, nil
}

// CompareStrategies runs the same window under several sizing policies and
// persists one summary per strategy.
func (s *BacktestService) CompareStrategies(ctx context.Context, cfg backtest.Config, strategies []sizing.Strategy) (map[sizing.Strategy]*backtest.Result, error) {
	runID := uuid.New()

	games, odds, err := s.loadWindow(ctx, cfg)
	if err != nil {
		return nil, err
	}

	results, err := s.engine.CompareStrategies(ctx, games, odds, cfg, strategies)
	if err != nil {
		s.runLogger.LogRunFailed(runID.String(), "comparison", err)
		return nil, err
	}

	names := make([]string, 0, len(results))
	var best sizing.Strategy
	bestBankroll := 0.0
	for strategy, result := range results {
		names = append(names, string(strategy))
		if result.FinalBankroll > bestBankroll {
			best = strategy
			bestBankroll = result.FinalBankroll
		}
		if err := s.persistResult(ctx, uuid.New(), result); err != nil {
			s.log.WithError(err).WithField("strategy", strategy).Warn("Failed to persist comparison result")
		}
	}

	s.runLogger.LogComparison(runID.String(), names, string(best), bestBankroll)

	return results, nil
}

// RunMonteCarlo bootstraps the realized bet history of a finished run.
func (s *BacktestService) RunMonteCarlo(ctx context.Context, result *backtest.Result, iterations int) (backtest.MonteCarloResult, error) {
	return backtest.RunMonteCarlo(ctx, result.Bets, backtest.MonteCarloConfig{
		Iterations:      iterations,
		InitialBankroll: result.InitialBankroll,
	})
}

// RecentResults returns the latest persisted run summaries.
func (s *BacktestService) RecentResults(ctx context.Context, limit int) ([]*models.BacktestResultRow, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.repos.BacktestResult.GetRecent(ctx, limit)
}

func (s *BacktestService) persistResult(ctx context.Context, runID uuid.UUID, result *backtest.Result) error {
	full, err := json.Marshal(result.Report())
	if err != nil {
		return fmt.Errorf("failed to marshal result report: %w", err)
	}

	row := &models.BacktestResultRow{
		ID:              runID,
		Strategy:        string(result.Strategy),
		RunDate:         time.Now().UTC(),
		StartDate:       result.StartDate,
		EndDate:         result.EndDate,
		InitialBankroll: result.InitialBankroll,
		FinalBankroll:   result.FinalBankroll,
		TotalBets:       result.TotalBets,
		WinRate:         result.WinRate,
		ROI:             result.ROIPercentage,
		SharpeRatio:     result.SharpeRatio,
		MaxDrawdown:     result.MaxDrawdown,
		FullResults:     full,
	}

	return s.repos.BacktestResult.Create(ctx, row)
}
