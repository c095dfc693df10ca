package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	configFile string
	env        string
	verbose    bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "vega",
	Short: "Vega - 옵션 가격결정/리스크 엔진",
	Long: `Vega Unified CLI

Black-Scholes 기반 옵션 가격결정, Greeks, 시나리오/리스크 엔진.

Usage:
  go run ./cmd/vega [command]

Examples:
  go run ./cmd/vega api
  go run ./cmd/vega price --type call --strike 180 --expiry 2026-06-19 --spot 185 --vol 0.25
  go run ./cmd/vega monte-carlo --type call --strike 180 --expiry 2026-06-19 --spot 185 --vol 0.25 --horizon 30`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default is .env)")
	rootCmd.PersistentFlags().StringVar(&env, "env", "development", "environment (development|staging|production)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
