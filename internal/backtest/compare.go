package backtest

import (
	"context"
	"fmt"
	"sync"

	"github.com/yourusername/betsim/internal/models"
	"github.com/yourusername/betsim/internal/sizing"
)

// CompareStrategies runs the same historical window once per sizing policy,
// all other configuration held fixed. Every run starts from the initial
// bankroll with its own ledger, so the runs are independent and execute
// concurrently. Total bet counts may legitimately differ between policies
// (Kelly skips negative-edge games a fixed stake would still bet).
//
// The base configuration is validated once up front; an invalid strategy in
// the list fails the whole comparison before any simulation starts.
func (e *Engine) CompareStrategies(ctx context.Context, games []*models.GameRecord, odds OddsTable, cfg Config, strategies []sizing.Strategy) (map[sizing.Strategy]*Result, error) {
	if len(strategies) == 0 {
		strategies = sizing.Strategies()
	}
	for _, strategy := range strategies {
		if !strategy.IsValid() {
			return nil, fmt.Errorf("unknown betting strategy %q", strategy)
		}
		if err := cfg.WithStrategy(strategy).Validate(); err != nil {
			return nil, fmt.Errorf("strategy %s: %w", strategy, err)
		}
	}

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		results = make(map[sizing.Strategy]*Result, len(strategies))
		firstErr error
	)

	for _, strategy := range strategies {
		wg.Add(1)
		go func(strategy sizing.Strategy) {
			defer wg.Done()
			result, err := e.Run(ctx, games, odds, cfg.WithStrategy(strategy))

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if firstErr == nil {
					firstErr = fmt.Errorf("strategy %s: %w", strategy, err)
				}
				return
			}
			results[strategy] = result
		}(strategy)
	}
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	return results, nil
}
