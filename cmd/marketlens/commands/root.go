package commands

import (
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "marketlens",
	Short: "MarketLens - company analysis backend",
	Long: `MarketLens CLI

Company analysis backend: looks up a company description, resolves its
ticker, fetches price history, and ranks its competitors by market cap.

Usage:
  go run ./cmd/marketlens [command]

Examples:
  go run ./cmd/marketlens api
  go run ./cmd/marketlens analyze "Apple"`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}
