// Package logger provides backtest run logging.
package logger

import (
	"time"

	"github.com/sirupsen/logrus"
)

// RunLogger provides dedicated structured logging for backtest runs.
type RunLogger struct {
	*logrus.Entry
}

// NewRunLogger creates a new run logger.
func NewRunLogger(baseLogger *logrus.Logger) *RunLogger {
	return &RunLogger{
		Entry: baseLogger.WithField("component", "backtest"),
	}
}

// LogRunStarted logs the start of a backtest run.
func (rl *RunLogger) LogRunStarted(runID, strategy string, startDate, endDate time.Time, initialBankroll float64, games int) {
	rl.WithFields(logrus.Fields{
		"run_id":           runID,
		"strategy":         strategy,
		"start_date":       startDate.Format("2006-01-02"),
		"end_date":         endDate.Format("2006-01-02"),
		"initial_bankroll": initialBankroll,
		"games":            games,
	}).Info("Backtest run started")
}

// LogRunCompleted logs the completion of a backtest run.
func (rl *RunLogger) LogRunCompleted(runID, strategy string, totalBets, skippedGames int, finalBankroll, roiPct float64, elapsed time.Duration) {
	rl.WithFields(logrus.Fields{
		"run_id":         runID,
		"strategy":       strategy,
		"total_bets":     totalBets,
		"skipped_games":  skippedGames,
		"final_bankroll": finalBankroll,
		"roi_pct":        roiPct,
		"elapsed_ms":     elapsed.Milliseconds(),
	}).Info("Backtest run completed")
}

// LogRunFailed logs an aborted backtest run.
func (rl *RunLogger) LogRunFailed(runID, strategy string, err error) {
	rl.WithFields(logrus.Fields{
		"run_id":   runID,
		"strategy": strategy,
	}).WithError(err).Error("Backtest run failed")
}

// LogComparison logs a strategy comparison summary.
func (rl *RunLogger) LogComparison(runID string, strategies []string, bestStrategy string, bestFinalBankroll float64) {
	rl.WithFields(logrus.Fields{
		"run_id":              runID,
		"strategies":          strategies,
		"best_strategy":       bestStrategy,
		"best_final_bankroll": bestFinalBankroll,
	}).Info("Strategy comparison completed")
}
