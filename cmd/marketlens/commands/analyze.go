package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/marketlens/backend/internal/analyze"
	"github.com/marketlens/backend/internal/competitors"
	"github.com/marketlens/backend/internal/external/alphavantage"
	"github.com/marketlens/backend/internal/external/gemini"
	"github.com/marketlens/backend/internal/external/wikipedia"
	"github.com/marketlens/backend/internal/external/yahoo"
	"github.com/marketlens/backend/internal/ticker"
	"github.com/marketlens/backend/pkg/config"
	"github.com/marketlens/backend/pkg/httputil"
	"github.com/marketlens/backend/pkg/logger"
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze [company name]",
	Short: "Run a one-shot company analysis",
	Long: `Runs the full analysis pipeline for one company and prints the
report as JSON. Uses the same pipeline as the API server, without
Redis, the scheduler, or the history log.

Example:
  go run ./cmd/marketlens analyze "Apple"
  go run ./cmd/marketlens analyze "JPMorgan Chase" --progress`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAnalyze,
}

var showProgress bool

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().BoolVar(&showProgress, "progress", false, "print pipeline stages to stderr")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	companyName := args[0]

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := logger.New(cfg)

	httpClient := httputil.New(cfg, log)
	searchClient := httputil.NewWithTimeout(cfg, log, cfg.AlphaVantage.Timeout)

	avClient := alphavantage.NewClient(cfg.AlphaVantage, searchClient, log)
	yahooClient := yahoo.NewClient(cfg.Yahoo, httpClient, log)
	wikiClient := wikipedia.NewClient(cfg.Wikipedia, httpClient, log)
	geminiClient := gemini.NewClient(cmd.Context(), cfg.Gemini, log)

	resolver := ticker.NewResolver(ticker.NewCache(), avClient, cfg.AlphaVantage.Timeout, log)
	agg := competitors.NewAggregator(resolver, yahooClient, yahooClient, log)

	service := analyze.NewService(wikiClient, resolver, yahooClient, geminiClient, agg, nil, log)

	var progress analyze.Progress
	if showProgress {
		progress = func(stage, message string) {
			fmt.Fprintf(os.Stderr, "[%s] %s\n", stage, message)
		}
	}

	report, err := service.Analyze(cmd.Context(), companyName, progress)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}
