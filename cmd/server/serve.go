package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/sakif/promptlab/internal/config"
	"github.com/sakif/promptlab/internal/server"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Start the promptlab HTTP server.

The server blocks until SIGINT or SIGTERM, then drains in-flight requests
for up to SHUTDOWN_TIMEOUT before exiting.

Examples:
  promptlab serve                       # Start on PORT (default 8000)
  promptlab serve --port 3000           # Override the port
  promptlab serve --env-file prod.env   # Load settings from a file`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(envFile)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("port") {
			cfg.Port = servePort
			if err := cfg.Validate(); err != nil {
				return err
			}
		}

		logger := cfg.NewLogger(os.Stdout)
		slog.SetDefault(logger)

		srv, err := server.New(*cfg, logger, version)
		if err != nil {
			logger.Error("failed to create server", slog.String("error", err.Error()))
			return err
		}

		// Start() blocks until the server is shut down (via Ctrl+C or SIGTERM)
		if err := srv.Start(); err != nil {
			logger.Error("server error", slog.String("error", err.Error()))
			return err
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 8000, "port to listen on (overrides PORT)")
}
