// Package metrics provides the centralized Prometheus metrics registry for
// the backtest service.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	BetsSimulatedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "betsim",
		Name:      "bets_simulated_total",
		Help:      "Total number of bets simulated across all backtest runs",
	})
	GamesSkippedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "betsim",
		Name:      "games_skipped_total",
		Help:      "Total number of games skipped during backtests by reason",
	}, []string{"reason"})
	BacktestRunsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "betsim",
		Name:      "backtest_runs_total",
		Help:      "Total number of backtest runs by strategy and status",
	}, []string{"strategy", "status"})
	PredictionRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "betsim",
		Name:      "prediction_requests_total",
		Help:      "Total number of prediction service requests by status",
	}, []string{"status"})
	PredictionCacheHitsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "betsim",
		Name:      "prediction_cache_hits_total",
		Help:      "Total number of prediction cache hits",
	})
	CircuitBreakerTripsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "betsim",
		Name:      "circuit_breaker_trips_total",
		Help:      "Total number of prediction client circuit breaker trips",
	})
)

// Gauge metrics
var (
	FinalBankroll = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "betsim",
		Name:      "final_bankroll",
		Help:      "Final bankroll of the most recent backtest run per strategy",
	}, []string{"strategy"})
)

// Histogram metrics
var (
	BacktestDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "betsim",
		Name:      "backtest_duration_seconds",
		Help:      "Duration of backtest runs in seconds",
		Buckets:   []float64{0.1, 0.5, 1, 5, 10, 30, 60, 300},
	})
	PredictionLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "betsim",
		Name:      "prediction_latency_seconds",
		Help:      "Latency of prediction service requests in seconds",
		Buckets:   prometheus.DefBuckets,
	})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		registry.MustRegister(BetsSimulatedTotal)
		registry.MustRegister(GamesSkippedTotal)
		registry.MustRegister(BacktestRunsTotal)
		registry.MustRegister(PredictionRequestsTotal)
		registry.MustRegister(PredictionCacheHitsTotal)
		registry.MustRegister(CircuitBreakerTripsTotal)

		registry.MustRegister(FinalBankroll)

		registry.MustRegister(BacktestDuration)
		registry.MustRegister(PredictionLatency)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	if registry == nil {
		return InitRegistry()
	}
	return registry
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}

// RecordBetSimulated records a simulated bet placement.
func RecordBetSimulated() {
	BetsSimulatedTotal.Inc()
}

// RecordGameSkipped records a skipped game by reason.
func RecordGameSkipped(reason string) {
	GamesSkippedTotal.WithLabelValues(reason).Inc()
}

// RecordBacktestRun records a completed backtest run.
// status should be one of: "success", "failure"
func RecordBacktestRun(strategy, status string, durationSeconds float64) {
	BacktestRunsTotal.WithLabelValues(strategy, status).Inc()
	BacktestDuration.Observe(durationSeconds)
}

// UpdateFinalBankroll updates the final bankroll gauge for a strategy.
func UpdateFinalBankroll(strategy string, amount float64) {
	FinalBankroll.WithLabelValues(strategy).Set(amount)
}

// RecordPredictionRequest records a prediction service request outcome.
func RecordPredictionRequest(status string, latencySeconds float64) {
	PredictionRequestsTotal.WithLabelValues(status).Inc()
	PredictionLatency.Observe(latencySeconds)
}

// RecordPredictionCacheHit records a prediction cache hit.
func RecordPredictionCacheHit() {
	PredictionCacheHitsTotal.Inc()
}

// RecordCircuitBreakerTrip records a circuit breaker trip.
func RecordCircuitBreakerTrip() {
	CircuitBreakerTripsTotal.Inc()
}
