package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/user-form-poc/internal/browser"
	"github.com/jonathan/user-form-poc/internal/fixtures"
	"github.com/jonathan/user-form-poc/internal/harness"
	"github.com/jonathan/user-form-poc/internal/observability"
	"github.com/jonathan/user-form-poc/internal/server"
	"github.com/jonathan/user-form-poc/internal/types"
)

// Built-in matrices accepted by --matrix.
const (
	matrixScenarios = "scenarios"
	matrixRules     = "rules"
	matrixAll       = "all"
)

var runCommand = &cobra.Command{
	Use:   "run",
	Short: "Run a test matrix against the form in real browser sessions",
	Long: `Runs every case of a matrix in its own headless browser session: navigate, fill the
form, submit and compare the displayed message with the expected one.

--matrix accepts "scenarios" (the five reference scenarios), "rules" (one case per
validation rule plus precedence cases), "all", or the path of a YAML matrix file.
With --serve the form is served in-process on a random local port.`,
	RunE: runMatrixCmd,
}

var (
	runMatrix        string
	runSeed          uint64
	runServeLocal    bool
	runSkipPreflight bool
	runBaseURL       string
	runBrowser       string
	runParallelism   int
	runRetries       int
	runSettleMS      int
)

func init() {
	runCommand.Flags().StringVarP(&runMatrix, "matrix", "m", matrixScenarios, "Matrix to run: scenarios, rules, all, or a YAML file path")
	runCommand.Flags().Uint64Var(&runSeed, "seed", 0, "Seed for generated users (0 picks one from the clock)")
	runCommand.Flags().BoolVar(&runServeLocal, "serve", false, "Serve the form in-process and test against it")
	runCommand.Flags().BoolVar(&runSkipPreflight, "skip-preflight", false, "Do not check the page for every control before running")
	runCommand.Flags().StringVar(&runBaseURL, "base-url", "", "Form URL (defaults to config base_url)")
	runCommand.Flags().StringVar(&runBrowser, "browser", "", "Browser engine: chromium, firefox or webkit")
	runCommand.Flags().IntVarP(&runParallelism, "parallelism", "p", 0, "Cases to run concurrently")
	runCommand.Flags().IntVar(&runRetries, "retries", 0, "Retries per case for infrastructure failures")
	runCommand.Flags().IntVar(&runSettleMS, "settle-ms", 0, "Wait after each interaction in milliseconds")
	rootCmd.AddCommand(runCommand)
}

func runMatrixCmd(cmd *cobra.Command, _ []string) error {
	flags := cmd.Flags()
	if flags.Changed("base-url") {
		cfg.BaseURL = runBaseURL
	}
	if flags.Changed("browser") {
		cfg.Browser = runBrowser
	}
	if flags.Changed("parallelism") {
		cfg.Parallelism = runParallelism
	}
	if flags.Changed("retries") {
		cfg.Retries = runRetries
	}
	if flags.Changed("settle-ms") {
		cfg.SettleMS = runSettleMS
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	seed := runSeed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	cases, err := loadCases(runMatrix, fixtures.NewGenerator(seed))
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if runServeLocal {
		baseURL, shutdown, err := serveLocal(ctx)
		if err != nil {
			return err
		}
		defer shutdown()
		cfg.BaseURL = baseURL
	}

	if !runSkipPreflight {
		if err := harness.Preflight(ctx, cfg.BaseURL, nil); err != nil {
			return err
		}
	}

	launcher := browser.NewChromeLauncher(harness.LaunchOptionsFromConfig(cfg), logger)
	runner, err := harness.NewRunner(harness.OptionsFromConfig(cfg, launcher, logger))
	if err != nil {
		return err
	}

	logger.Info("running matrix",
		zap.String("matrix", runMatrix),
		zap.Int("cases", len(cases)),
		zap.Uint64("seed", seed),
		zap.String("base_url", cfg.BaseURL),
		zap.Int("parallelism", cfg.Parallelism))

	start := time.Now()
	results, runErr := runner.Run(ctx, cases)
	summary := harness.Summarize(results)

	printer := observability.NewPrinter(cmd.OutOrStdout())
	printer.PrintRunReport(summary, time.Since(start))
	printer.PrintFailures(failedOnly(summary))

	if runErr != nil {
		return runErr
	}
	if !harness.AllPassed(results) {
		return fmt.Errorf("%d of %d cases failed (seed %d)", len(failedOnly(summary)), len(summary), seed)
	}
	return nil
}

// loadCases resolves --matrix to a list of cases.
func loadCases(matrix string, gen *fixtures.Generator) ([]harness.Case, error) {
	switch matrix {
	case matrixScenarios:
		return harness.Scenarios(gen), nil
	case matrixRules:
		return harness.RuleMatrix(gen), nil
	case matrixAll:
		return append(harness.Scenarios(gen), harness.RuleMatrix(gen)...), nil
	default:
		return harness.LoadMatrix(matrix, gen)
	}
}

// serveLocal starts the form server on a random loopback port.
func serveLocal(ctx context.Context) (string, func(), error) {
	srv, err := server.New(serverConfig())
	if err != nil {
		return "", nil, fmt.Errorf("failed to create server: %w", err)
	}
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return "", nil, fmt.Errorf("failed to listen: %w", err)
	}

	serveCtx, cancel := context.WithCancel(ctx)
	done := make(chan error, 1)
	go func() { done <- srv.Serve(serveCtx, ln) }()

	shutdown := func() {
		cancel()
		if err := <-done; err != nil {
			logger.Warn("in-process server stopped with error", zap.Error(err))
		}
	}
	return "http://" + ln.Addr().String() + "/", shutdown, nil
}

func failedOnly(results []types.CaseResult) []types.CaseResult {
	var out []types.CaseResult
	for _, r := range results {
		if !r.Passed() {
			out = append(out, r)
		}
	}
	return out
}
