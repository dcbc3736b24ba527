package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/user-form-poc/internal/server"
	"github.com/jonathan/user-form-poc/internal/submission"
)

var (
	servePort       int
	serveBackendURL string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the user form",
	Long: `Start an HTTP server that renders the user form, validates submissions and forwards
accepted ones to the user API. Without --backend-url the server answers through an
in-process mock with the configured latency.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (defaults to config port)")
	serveCmd.Flags().StringVar(&serveBackendURL, "backend-url", "", "Base URL of the user API (defaults to the in-process mock)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	if cmd.Flags().Changed("port") {
		cfg.Port = servePort
	}
	if cmd.Flags().Changed("backend-url") {
		cfg.BackendURL = serveBackendURL
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	srv, err := server.New(serverConfig())
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}
	return srv.Start()
}

// serverConfig maps the resolved configuration onto the form server.
func serverConfig() server.Config {
	sc := server.Config{
		Port:        cfg.Port,
		MockLatency: cfg.MockLatency(),
		Logger:      logger,
	}
	if cfg.BackendURL != "" {
		sc.Backend = submission.NewHTTPBackend(cfg.BackendURL, cfg.ActionTimeout())
	}
	return sc
}
