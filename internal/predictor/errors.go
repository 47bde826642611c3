// Package predictor provides clients for the prediction model service.
package predictor

import "errors"

var (
	// ErrServiceUnavailable indicates the prediction service is unreachable
	ErrServiceUnavailable = errors.New("prediction service unavailable")

	// ErrInvalidPrediction indicates the prediction response is invalid
	ErrInvalidPrediction = errors.New("invalid prediction response")

	// ErrCircuitOpen indicates the circuit breaker has tripped
	ErrCircuitOpen = errors.New("circuit breaker open")
)
