package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/betsim/internal/backtest"
	"github.com/yourusername/betsim/internal/service"
)

// Scheduler runs recurring backtest jobs, typically a nightly re-run over a
// rolling window so strategy metrics stay current as new results land.
type Scheduler struct {
	cron        *cron.Cron
	backtestSvc *service.BacktestService
	logger      *logrus.Logger

	mu        sync.RWMutex
	isRunning bool
	jobIDs    []cron.EntryID
}

// NewScheduler creates a scheduler. All jobs run in UTC.
func NewScheduler(backtestSvc *service.BacktestService, logger *logrus.Logger) (*Scheduler, error) {
	if backtestSvc == nil {
		return nil, fmt.Errorf("backtest service is required")
	}
	if logger == nil {
		logger = logrus.New()
	}
	return &Scheduler{
		cron:        cron.New(cron.WithLocation(time.UTC)),
		backtestSvc: backtestSvc,
		logger:      logger,
		jobIDs:      make([]cron.EntryID, 0),
	}, nil
}

// ScheduleNightlyComparison schedules a recurring comparison of every sizing
// strategy. The window is re-anchored on each run: the end date rolls forward
// to the current day and the start date keeps the configured span, so the job
// always simulates the freshest slice of history.
func (s *Scheduler) ScheduleNightlyComparison(cronExpression string, baseCfg backtest.Config) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("cannot schedule job while scheduler is running")
	}

	span := baseCfg.EndDate.Sub(baseCfg.StartDate)

	jobFunc := func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Hour)
		defer cancel()

		cfg := baseCfg
		cfg.EndDate = time.Now().UTC().Truncate(24 * time.Hour)
		cfg.StartDate = cfg.EndDate.Add(-span)

		s.logger.WithFields(logrus.Fields{
			"start_date": cfg.StartDate.Format("2006-01-02"),
			"end_date":   cfg.EndDate.Format("2006-01-02"),
		}).Info("starting scheduled strategy comparison")

		results, err := s.backtestSvc.CompareStrategies(ctx, cfg, nil)
		if err != nil {
			s.logger.WithError(err).Error("scheduled strategy comparison failed")
			return
		}
		s.logger.WithField("strategies", len(results)).Info("scheduled strategy comparison completed")
	}

	entryID, err := s.cron.AddFunc(cronExpression, jobFunc)
	if err != nil {
		return fmt.Errorf("failed to add job: %w", err)
	}

	s.jobIDs = append(s.jobIDs, entryID)
	s.logger.WithField("schedule", cronExpression).Info("scheduled nightly strategy comparison")

	return nil
}

// Start starts the scheduler.
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("scheduler is already running")
	}
	if len(s.jobIDs) == 0 {
		return fmt.Errorf("no jobs scheduled")
	}

	s.cron.Start()
	s.isRunning = true
	s.logger.WithField("jobs", len(s.jobIDs)).Info("scheduler started")

	return nil
}

// Stop gracefully stops the scheduler, waiting for any in-flight job.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return nil
	}

	<-s.cron.Stop().Done()
	s.isRunning = false
	s.logger.Info("scheduler stopped")

	return nil
}

// IsRunning returns whether the scheduler is currently running.
func (s *Scheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// NextRun returns the time of the earliest upcoming job, or the zero time
// when nothing is scheduled.
func (s *Scheduler) NextRun() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return time.Time{}
	}

	nextRun := time.Time{}
	for _, jobID := range s.jobIDs {
		entry := s.cron.Entry(jobID)
		if entry.Valid() && (nextRun.IsZero() || entry.Next.Before(nextRun)) {
			nextRun = entry.Next
		}
	}
	return nextRun
}
