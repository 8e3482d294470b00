package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/marketlens/backend/internal/analyze"
	"github.com/marketlens/backend/internal/api"
	"github.com/marketlens/backend/internal/api/handlers"
	"github.com/marketlens/backend/internal/competitors"
	"github.com/marketlens/backend/internal/contracts"
	"github.com/marketlens/backend/internal/external/alphavantage"
	"github.com/marketlens/backend/internal/external/gemini"
	"github.com/marketlens/backend/internal/external/wikipedia"
	"github.com/marketlens/backend/internal/external/yahoo"
	"github.com/marketlens/backend/internal/history"
	"github.com/marketlens/backend/internal/marketdata"
	"github.com/marketlens/backend/internal/scheduler"
	"github.com/marketlens/backend/internal/scheduler/jobs"
	"github.com/marketlens/backend/internal/ticker"
	"github.com/marketlens/backend/pkg/config"
	"github.com/marketlens/backend/pkg/database"
	"github.com/marketlens/backend/pkg/httputil"
	"github.com/marketlens/backend/pkg/logger"
	"github.com/marketlens/backend/pkg/redis"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Start the API server",
	Long: `Starts the REST API server.

Endpoints:
  GET /health              - Health check
  GET /api/analyze         - Run a company analysis
  GET /api/analyze/stream  - Analysis with websocket progress
  GET /api/history         - Recent analyses (when HISTORY_ENABLED)

Example:
  go run ./cmd/marketlens api
  go run ./cmd/marketlens api --port 8080`,
	RunE: runAPIServer,
}

var apiPort string

func init() {
	rootCmd.AddCommand(apiCmd)

	apiCmd.Flags().StringVar(&apiPort, "port", "", "API server port (overrides PORT)")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if apiPort != "" {
		cfg.Port = apiPort
	}

	// 2. Initialize logger
	log := logger.New(cfg)

	log.WithFields(map[string]interface{}{
		"port": cfg.Port,
		"env":  cfg.Env,
	}).Info("Initializing API server")

	// 3. Redis (optional cache + shared rate limits)
	rdb, err := redis.New(cfg)
	if err != nil {
		return fmt.Errorf("connect to redis: %w", err)
	}
	defer rdb.Close()

	cache := redis.NewCache(rdb, "marketlens")
	limiter := redis.NewRateLimiter(rdb, "marketlens")

	// 4. HTTP clients. Alpha Vantage gets its own client with a short
	// timeout so a slow symbol search cannot stall the pipeline.
	httpClient := httputil.New(cfg, log)
	searchClient := httputil.NewWithTimeout(cfg, log, cfg.AlphaVantage.Timeout).
		WithRateLimiter(limiter, redis.AlphaVantageRateLimit)

	// 5. External API clients
	avClient := alphavantage.NewClient(cfg.AlphaVantage, searchClient, log)
	yahooClient := yahoo.NewClient(cfg.Yahoo, httpClient, log)
	wikiClient := wikipedia.NewClient(cfg.Wikipedia, httpClient, log)
	geminiClient := gemini.NewClient(cmd.Context(), cfg.Gemini, log)

	// 6. Ticker resolution
	tickerCache := ticker.NewCache()
	resolver := ticker.NewResolver(tickerCache, avClient, cfg.AlphaVantage.Timeout, log)

	// 7. Price history, cached when Redis is on
	var prices contracts.PriceHistoryProvider = yahooClient
	if rdb.Enabled() {
		prices = marketdata.NewCachedPriceProvider(yahooClient, cache, log)
	}

	// 8. Competitor pipeline
	agg := competitors.NewAggregator(resolver, yahooClient, prices, log)

	// 9. History audit log (optional)
	var recorder contracts.HistoryRecorder
	var historyHandler *handlers.HistoryHandler
	if cfg.HistoryEnabled {
		db, err := database.New(cfg)
		if err != nil {
			return fmt.Errorf("connect to database: %w", err)
		}
		defer db.Close()

		repo := history.NewRepository(db.Pool)
		if err := repo.EnsureSchema(cmd.Context()); err != nil {
			return fmt.Errorf("ensure history schema: %w", err)
		}
		recorder = repo
		historyHandler = handlers.NewHistoryHandler(repo, log)

		log.Info("History audit log enabled")
	}

	// 10. Analysis service
	service := analyze.NewService(wikiClient, resolver, prices, geminiClient, agg, recorder, log)

	// 11. Handlers and router
	analyzeHandler := handlers.NewAnalyzeHandler(service, log)
	streamHandler := handlers.NewStreamHandler(service, log)
	router := api.NewRouter(analyzeHandler, streamHandler, historyHandler, log)

	// 12. Scheduler (optional cache warming)
	if cfg.SchedulerEnabled {
		sched := scheduler.New(log)
		warmJob := jobs.NewCacheWarmJob(tickerCache.Symbols, prices, cfg.CacheWarmSpec, log)
		if err := sched.AddJob(warmJob); err != nil {
			return fmt.Errorf("add cache warm job: %w", err)
		}
		sched.Start()
		defer sched.Stop()
	}

	// 13. Start server with graceful shutdown
	server := api.New(cfg, log, router)

	go func() {
		if err := server.Start(); err != nil {
			log.WithError(err).Fatal("Failed to start server")
		}
	}()

	log.Info("API server started successfully")
	fmt.Printf("Server running on http://localhost:%s\n", cfg.Port)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Info("Server stopped")
	return nil
}
