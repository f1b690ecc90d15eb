package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/alert-router/internal/config"
	"github.com/oshokin/alert-router/internal/service/router"
	"github.com/oshokin/alert-router/internal/version"
)

var (
	// configPath to the configuration YAML file.
	configPath string
	// logLevel overrides log_level from the configuration file.
	logLevel string

	// rootCmd represents the base command for running the edge router.
	rootCmd = &cobra.Command{
		Use:   "alert-router",
		Short: "Route emergency alert triggers to every other room of a building.",
		Long: `Runs the edge alert router.

The router subscribes to alert triggers on the MQTT broker, rate-limits them per device
and per tenant, validates, de-duplicates and persists them, and publishes one play
command per target room. The room the alert came from is never alerted.

Building topology is read from Postgres or the cloud backend and falls back to a
static table when neither answers, so the edge keeps working offline.
Prometheus metrics and /health are served on metrics_addr; operator diagnostics
are served over gRPC on diagnostics_addr.`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			return router.Run(ctx, &router.Options{
				ConfigPath: configPath,
				LogLevel:   logLevel,
			})
		},
	}
)

// Execute runs the alert-router CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.Flags().StringVarP(&configPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
	rootCmd.Flags().StringVarP(&logLevel, "log-level", "l", "", "log level override (debug, info, warn, error)")
}
