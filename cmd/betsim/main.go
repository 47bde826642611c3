// Package main provides the betsim CLI: run backtests, compare sizing
// strategies, and serve the HTTP API.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/betsim/internal/backtest"
	"github.com/yourusername/betsim/internal/config"
	"github.com/yourusername/betsim/internal/database"
	appLogger "github.com/yourusername/betsim/internal/logger"
	"github.com/yourusername/betsim/internal/predictor"
	"github.com/yourusername/betsim/internal/repository"
	"github.com/yourusername/betsim/internal/scheduler"
	"github.com/yourusername/betsim/internal/server"
	"github.com/yourusername/betsim/internal/service"
	"github.com/yourusername/betsim/internal/sizing"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var (
	configFile string
	inMemory   bool

	startDateOverride string
	endDateOverride   string
	strategyOverride  string
	monteCarlo        bool

	logger *logrus.Logger
	cfg    *config.Config
	db     *database.DB
	repos  *repository.Repositories
	svc    *service.BacktestService
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
	rootCmd.PersistentFlags().BoolVar(&inMemory, "in-memory", false, "Use in-memory repositories instead of PostgreSQL")

	backtestCmd.Flags().StringVar(&startDateOverride, "start-date", "", "Override start date (YYYY-MM-DD)")
	backtestCmd.Flags().StringVar(&endDateOverride, "end-date", "", "Override end date (YYYY-MM-DD)")
	backtestCmd.Flags().StringVar(&strategyOverride, "strategy", "", "Override sizing strategy")
	backtestCmd.Flags().BoolVar(&monteCarlo, "monte-carlo", false, "Run Monte Carlo resampling after the replay")

	compareCmd.Flags().StringVar(&startDateOverride, "start-date", "", "Override start date (YYYY-MM-DD)")
	compareCmd.Flags().StringVar(&endDateOverride, "end-date", "", "Override end date (YYYY-MM-DD)")

	rootCmd.AddCommand(backtestCmd)
	rootCmd.AddCommand(compareCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}

var rootCmd = &cobra.Command{
	Use:   "betsim",
	Short: "Historical betting strategy simulator",
	Long:  `Replays historical games through a prediction model and simulates bet sizing strategies against recorded odds.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "version" {
			return nil
		}
		if err := loadConfig(); err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		if err := setupDependencies(cmd.Context()); err != nil {
			return fmt.Errorf("failed to setup dependencies: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if db != nil {
			db.Close()
		}
	},
}

var backtestCmd = &cobra.Command{
	Use:   "backtest",
	Short: "Run a backtest with the configured sizing strategy",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBacktest(cmd.Context())
	},
}

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Run the same backtest under every sizing strategy",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCompare(cmd.Context())
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the backtest HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print build information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("betsim %s (commit %s, built %s)\n", Version, GitCommit, BuildDate)
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func loadConfig() error {
	var err error
	cfg, err = config.LoadWithDefaults(configFile)
	if err != nil {
		return err
	}

	if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
		region := os.Getenv("AWS_REGION")
		secretName := os.Getenv("AWS_SECRET_NAME")
		if region == "" || secretName == "" {
			return fmt.Errorf("AWS_REGION and AWS_SECRET_NAME must be set when AWS_SECRETS_ENABLED is true")
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := config.LoadSecretsFromAWS(ctx, cfg, region, secretName); err != nil {
			return fmt.Errorf("failed to load secrets: %w", err)
		}
	}

	return config.Validate(cfg)
}

func setupDependencies(ctx context.Context) error {
	logger = appLogger.NewLogger(cfg.App.LogLevel)

	if inMemory {
		repos = repository.NewMemoryRepositories()
		logger.Warn("using in-memory repositories, nothing will be persisted")
	} else {
		var err error
		db, err = database.Initialize(ctx, cfg)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		repos, err = repository.NewRepositories(db)
		if err != nil {
			return fmt.Errorf("failed to initialize repositories: %w", err)
		}
	}

	client := predictor.NewClient(&cfg.ModelService, logger)
	cached := predictor.NewCachedClient(client, &cfg.ModelService, logger)

	engine, err := backtest.NewEngine(cached, logger)
	if err != nil {
		return fmt.Errorf("failed to create engine: %w", err)
	}
	svc, err = service.NewBacktestService(repos, engine, logger)
	if err != nil {
		return fmt.Errorf("failed to create backtest service: %w", err)
	}
	return nil
}

func runConfig() (backtest.Config, error) {
	runCfg, err := backtest.FromAppConfig(&cfg.Backtest)
	if err != nil {
		return backtest.Config{}, err
	}
	if startDateOverride != "" {
		parsed, err := time.Parse("2006-01-02", startDateOverride)
		if err != nil {
			return backtest.Config{}, fmt.Errorf("invalid start date: %w", err)
		}
		runCfg.StartDate = parsed
	}
	if endDateOverride != "" {
		parsed, err := time.Parse("2006-01-02", endDateOverride)
		if err != nil {
			return backtest.Config{}, fmt.Errorf("invalid end date: %w", err)
		}
		runCfg.EndDate = parsed
	}
	if strategyOverride != "" {
		runCfg = runCfg.WithStrategy(sizing.Strategy(strategyOverride))
	}
	if err := runCfg.Validate(); err != nil {
		return backtest.Config{}, err
	}
	return runCfg, nil
}

func runBacktest(ctx context.Context) error {
	runCfg, err := runConfig()
	if err != nil {
		return err
	}

	result, err := svc.RunBacktest(ctx, runCfg)
	if err != nil {
		return err
	}
	fmt.Print(result.ConsoleReport())

	if monteCarlo {
		mc, err := svc.RunMonteCarlo(ctx, result, runCfg.MonteCarloIterations)
		if err != nil {
			return err
		}
		fmt.Printf("\n=== Monte Carlo (%d iterations) ===\n", mc.Iterations)
		fmt.Printf("Mean Return:       %.2f\n", mc.MeanReturn)
		fmt.Printf("Std Return:        %.2f\n", mc.StdReturn)
		fmt.Printf("VaR 95%%:           %.2f\n", mc.VaR95)
		fmt.Printf("VaR 99%%:           %.2f\n", mc.VaR99)
		fmt.Printf("P(profit):         %.1f%%\n", mc.ProbabilityOfProfit*100)
		fmt.Printf("P(ruin):           %.1f%%\n", mc.ProbabilityOfRuin*100)
	}
	return nil
}

func runCompare(ctx context.Context) error {
	runCfg, err := runConfig()
	if err != nil {
		return err
	}

	results, err := svc.CompareStrategies(ctx, runCfg, nil)
	if err != nil {
		return err
	}
	for _, strategy := range sizing.Strategies() {
		if result, ok := results[strategy]; ok {
			fmt.Print(result.ConsoleReport())
			fmt.Println()
		}
	}
	return nil
}

func runServe() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		logger.WithField("signal", sig.String()).Info("shutdown signal received")
		cancel()
	}()

	var pinger server.DatabasePinger
	if db != nil {
		pinger = db
	}
	srv, err := server.NewServer(svc, pinger, cfg.Server, logger)
	if err != nil {
		return err
	}

	if cfg.Scheduler.Enabled {
		runCfg, err := backtest.FromAppConfig(&cfg.Backtest)
		if err != nil {
			return fmt.Errorf("scheduler needs a valid backtest config: %w", err)
		}
		sched, err := scheduler.NewScheduler(svc, logger)
		if err != nil {
			return err
		}
		if err := sched.ScheduleNightlyComparison(cfg.Scheduler.Schedule, runCfg); err != nil {
			return err
		}
		if err := sched.Start(); err != nil {
			return err
		}
		defer func() {
			if err := sched.Stop(); err != nil {
				logger.WithError(err).Error("failed to stop scheduler")
			}
		}()
	}

	return srv.Start(ctx)
}
