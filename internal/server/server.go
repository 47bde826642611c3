package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/betsim/internal/backtest"
	"github.com/yourusername/betsim/internal/config"
	"github.com/yourusername/betsim/internal/metrics"
	"github.com/yourusername/betsim/internal/service"
	"github.com/yourusername/betsim/internal/sizing"
)

// DatabasePinger reports whether the backing store is reachable.
type DatabasePinger interface {
	Ping(ctx context.Context) error
}

// Server exposes the backtest API together with health and metrics endpoints.
type Server struct {
	svc    *service.BacktestService
	db     DatabasePinger
	logger *logrus.Logger
	cfg    config.ServerConfig

	httpServer *http.Server

	mu    sync.RWMutex
	ready bool
}

// NewServer creates an HTTP server for the given service. db may be nil when
// running against in-memory repositories.
func NewServer(svc *service.BacktestService, db DatabasePinger, cfg config.ServerConfig, log *logrus.Logger) (*Server, error) {
	if svc == nil {
		return nil, fmt.Errorf("backtest service is required")
	}
	if log == nil {
		log = logrus.New()
	}
	return &Server{
		svc:    svc,
		db:     db,
		logger: log,
		cfg:    cfg,
	}, nil
}

// SetReady marks the server as ready to serve traffic.
func (s *Server) SetReady(ready bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ready = ready
}

// IsReady returns the current readiness state.
func (s *Server) IsReady() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ready
}

// Routes builds the request multiplexer. Exposed for tests.
func (s *Server) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/readyz", s.handleReady)
	mux.Handle("/metrics", metrics.Handler())
	mux.HandleFunc("/api/v1/backtest", s.handleBacktest)
	mux.HandleFunc("/api/v1/backtest/compare", s.handleCompare)
	mux.HandleFunc("/api/v1/results", s.handleResults)
	return mux
}

// Start begins serving in the background and blocks until ctx is cancelled,
// then drains connections within the configured shutdown timeout.
func (s *Server) Start(ctx context.Context) error {
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", s.cfg.Port),
		Handler:      s.Routes(),
		ReadTimeout:  time.Duration(s.cfg.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(s.cfg.WriteTimeoutSeconds) * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.WithField("addr", s.httpServer.Addr).Info("HTTP server listening")
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	s.SetReady(true)

	select {
	case err := <-errCh:
		return fmt.Errorf("http server failed: %w", err)
	case <-ctx.Done():
	}

	s.SetReady(false)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(s.cfg.ShutdownTimeoutSeconds)*time.Second)
	defer cancel()

	s.logger.Info("shutting down HTTP server")
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}
	return nil
}

type healthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

type readyResponse struct {
	Ready    bool              `json:"ready"`
	Checks   map[string]string `json:"checks"`
	Duration string            `json:"duration"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Timestamp: time.Now().UTC()})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	start := time.Now()
	resp := readyResponse{Ready: s.IsReady(), Checks: map[string]string{}}

	if !resp.Ready {
		resp.Checks["server"] = "not ready"
	}
	if s.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.db.Ping(ctx); err != nil {
			resp.Ready = false
			resp.Checks["database"] = err.Error()
		} else {
			resp.Checks["database"] = "ok"
		}
	}
	resp.Duration = time.Since(start).String()

	status := http.StatusOK
	if !resp.Ready {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, resp)
}

// backtestRequest is the wire form of a simulation request. Dates use
// YYYY-MM-DD, the end date is exclusive.
type backtestRequest struct {
	StartDate       string   `json:"start_date"`
	EndDate         string   `json:"end_date"`
	Strategy        string   `json:"strategy"`
	InitialBankroll float64  `json:"initial_bankroll"`
	BetAmount       float64  `json:"bet_amount"`
	MinConfidence   float64  `json:"min_confidence"`
	MaxBetFraction  float64  `json:"max_bet_fraction"`
	CommissionRate  float64  `json:"commission_rate"`
	KellyMultiplier float64  `json:"kelly_multiplier"`
	Strategies      []string `json:"strategies,omitempty"`
}

func (req *backtestRequest) toConfig() (backtest.Config, error) {
	start, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return backtest.Config{}, fmt.Errorf("invalid start_date: %w", err)
	}
	end, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		return backtest.Config{}, fmt.Errorf("invalid end_date: %w", err)
	}

	strategy := sizing.Strategy(req.Strategy)
	if req.Strategy == "" {
		strategy = sizing.StrategyFixedAmount
	}
	kelly := req.KellyMultiplier
	if kelly == 0 {
		kelly = 1
	}

	return backtest.NewConfig(backtest.Config{
		StartDate:       start,
		EndDate:         end,
		InitialBankroll: req.InitialBankroll,
		Strategy:        strategy,
		BetAmount:       req.BetAmount,
		MinConfidence:   req.MinConfidence,
		MaxBetFraction:  req.MaxBetFraction,
		CommissionRate:  req.CommissionRate,
		KellyMultiplier: kelly,
	})
}

func (s *Server) handleBacktest(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req backtestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}

	cfg, err := req.toConfig()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := s.svc.RunBacktest(r.Context(), cfg)
	if err != nil {
		s.logger.WithError(err).Error("backtest run failed")
		writeError(w, statusForError(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, result.Report())
}

func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req backtestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}

	cfg, err := req.toConfig()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	strategies := make([]sizing.Strategy, 0, len(req.Strategies))
	for _, name := range req.Strategies {
		strategies = append(strategies, sizing.Strategy(name))
	}

	results, err := s.svc.CompareStrategies(r.Context(), cfg, strategies)
	if err != nil {
		s.logger.WithError(err).Error("strategy comparison failed")
		writeError(w, statusForError(err), err.Error())
		return
	}

	reports := make(map[string]backtest.ResultReport, len(results))
	for strategy, result := range results {
		reports[string(strategy)] = result.Report()
	}
	writeJSON(w, http.StatusOK, reports)
}

func (s *Server) handleResults(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			writeError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = parsed
	}

	rows, err := s.svc.RecentResults(r.Context(), limit)
	if err != nil {
		s.logger.WithError(err).Error("failed to load recent results")
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

// statusForError maps configuration validation failures to 400 and everything
// else to 500.
func statusForError(err error) int {
	switch {
	case errors.Is(err, backtest.ErrInvalidDateRange),
		errors.Is(err, backtest.ErrRangeTooLarge),
		errors.Is(err, backtest.ErrInvalidBankroll),
		errors.Is(err, backtest.ErrInvalidBetAmount),
		errors.Is(err, backtest.ErrInvalidConfidence),
		errors.Is(err, backtest.ErrInvalidBetCap),
		errors.Is(err, backtest.ErrInvalidCommission):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
