// Package main provides the userform CLI: it serves the user form and runs
// test matrices against it in real browser sessions.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/user-form-poc/internal/config"
	"github.com/jonathan/user-form-poc/internal/observability"
)

var (
	configPath string
	verbose    bool

	// Resolved in PersistentPreRunE before any subcommand runs.
	cfg    config.Config
	logger = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "userform",
	Short: "User form server and browser test harness",
	Long: `userform serves the user registration form and drives it end to end with headless
Chrome, comparing the message the page displays against the expected outcome.

Configuration is resolved from defaults, an optional JSON file (--config) and then the
environment. Command-line flags override the resolved values.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		loaded, err := config.Load(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if cmd.Flags().Changed("verbose") {
			loaded.Verbose = verbose
		}
		cfg = loaded

		l, err := observability.NewLogger(cfg.Verbose)
		if err != nil {
			return err
		}
		logger = l
		return nil
	},
	PersistentPostRun: func(_ *cobra.Command, _ []string) {
		_ = logger.Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config.json file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
