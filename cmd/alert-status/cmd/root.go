package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/alert-router/internal/service/status"
	"github.com/oshokin/alert-router/internal/version"
)

var (
	// options is shared by every subcommand.
	options status.Options

	// rootCmd represents the base command for operator diagnostics.
	rootCmd = &cobra.Command{
		Use:   "alert-status",
		Short: "Inspect a running alert router.",
		Long: `Talks to the diagnostics endpoint of a running alert router.

The endpoint is taken from --address, otherwise from diagnostics_addr in the
configuration file given with --config, otherwise the default port on localhost.`,
	}

	rateLimitCmd = &cobra.Command{
		Use:   "ratelimit <device|tenant> <id>",
		Short: "Show the token bucket of a device or tenant.",
		Args:  cobra.ExactArgs(2), //nolint:mnd // scope and id.
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithSignals(cmd, func(ctx context.Context) error {
				return status.RateLimit(ctx, &options, args[0], args[1])
			})
		},
	}

	resetCmd = &cobra.Command{
		Use:   "reset <device|tenant> <id>",
		Short: "Clear the token bucket of a device or tenant (operator override).",
		Args:  cobra.ExactArgs(2), //nolint:mnd // scope and id.
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithSignals(cmd, func(ctx context.Context) error {
				return status.Reset(ctx, &options, args[0], args[1])
			})
		},
	}

	statsCmd = &cobra.Command{
		Use:   "stats",
		Short: "Show alert counts and PA delivery counters.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runWithSignals(cmd, func(ctx context.Context) error {
				return status.Stats(ctx, &options)
			})
		},
	}

	alertCmd = &cobra.Command{
		Use:   "alert <alertId>",
		Short: "Show one persisted alert record.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithSignals(cmd, func(ctx context.Context) error {
				return status.Alert(ctx, &options, args[0])
			})
		},
	}
)

// runWithSignals cancels the call on SIGTERM or SIGINT and writes to the command output.
func runWithSignals(cmd *cobra.Command, fn func(ctx context.Context) error) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	options.Out = cmd.OutOrStdout()

	return fn(ctx)
}

// Execute runs the alert-status CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&options.ConfigPath, "config", "c", "", "path to the router configuration file")
	flags.StringVarP(&options.Address, "address", "a", "", "diagnostics address (host:port)")
	flags.DurationVar(&options.Timeout, "timeout", 0, "per-call timeout")

	rootCmd.AddCommand(rateLimitCmd, resetCmd, statsCmd, alertCmd)
}
