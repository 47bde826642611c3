package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
)

func TestMetricsRegistry(t *testing.T) {
	InitRegistry()
	registry := GetRegistry()

	assert.NotNil(t, registry)
	assert.IsType(t, &prometheus.Registry{}, registry)
}

func TestHandler(t *testing.T) {
	assert.NotNil(t, Handler())
}

func TestRecordBetSimulated(t *testing.T) {
	InitRegistry()

	assert.NotPanics(t, func() {
		RecordBetSimulated()
	})
}

func TestRecordGameSkipped(t *testing.T) {
	InitRegistry()

	assert.NotPanics(t, func() {
		RecordGameSkipped("missing_odds")
		RecordGameSkipped("low_confidence")
	})
}

func TestRecordBacktestRun(t *testing.T) {
	InitRegistry()

	assert.NotPanics(t, func() {
		RecordBacktestRun("kelly_criterion", "success", 1.25)
		RecordBacktestRun("fixed_amount", "failure", 0.1)
	})
}

func TestUpdateFinalBankroll(t *testing.T) {
	InitRegistry()

	tests := []struct {
		name   string
		amount float64
	}{
		{name: "positive bankroll", amount: 10000},
		{name: "zero bankroll", amount: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotPanics(t, func() {
				UpdateFinalBankroll("percentage", tt.amount)
			})
		})
	}
}

func TestRecordPredictionRequest(t *testing.T) {
	InitRegistry()

	assert.NotPanics(t, func() {
		RecordPredictionRequest("success", 0.05)
		RecordPredictionRequest("error", 1.5)
		RecordPredictionCacheHit()
		RecordCircuitBreakerTrip()
	})
}
