package main

import (
	"github.com/spf13/cobra"
)

// Set at build time:
//
//	go build -ldflags "-X main.version=1.2.3 -X main.commit=$(git rev-parse --short HEAD)"
var (
	version = "dev"
	commit  = "none"
)

var envFile string

var rootCmd = &cobra.Command{
	Use:   "promptlab",
	Short: "HTTP API for managing AI prompt templates",
	Long: `promptlab stores prompt templates, groups them into collections and
labels them with tags. All state is held in memory (or an in-memory SQLite
database) and is lost when the process exits.

Configuration comes from the environment (PORT, LOG_LEVEL, LOG_FORMAT,
STORE_BACKEND, SQLITE_DSN, CORS_ALLOWED_ORIGINS, METRICS_ENABLED,
SHUTDOWN_TIMEOUT), optionally seeded from a .env file.`,
	Version:      version,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&envFile, "env-file", "", "load environment from this file (default: ./.env if present)",
	)

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}
