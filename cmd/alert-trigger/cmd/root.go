package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/alert-router/internal/config"
	"github.com/oshokin/alert-router/internal/service/trigger"
	"github.com/oshokin/alert-router/internal/version"
)

var (
	// options collects the flag values.
	options trigger.Options

	// rootCmd represents the base command for raising an alert.
	rootCmd = &cobra.Command{
		Use:   "alert-trigger",
		Short: "Raise an emergency alert from a room.",
		Long: `Publishes one alert trigger to the broker, exactly as a wall button would.

The alert id and causal chain id are generated unless provided; pass the same
--alert-id twice to exercise redelivery handling. Broker settings are read from
the router configuration file.`,
		Example: `  alert-trigger --tenant tenant-1 --building building-a --room room-2
  alert-trigger -t tenant-1 -b building-a -r room-2 --mode lockdown --device esp32-7`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			return trigger.Run(ctx, &options)
		},
	}
)

// Execute runs the alert-trigger CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	flags := rootCmd.Flags()
	flags.StringVarP(&options.ConfigPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
	flags.StringVarP(&options.TenantID, "tenant", "t", "", "tenant id")
	flags.StringVarP(&options.BuildingID, "building", "b", "", "building id")
	flags.StringVarP(&options.RoomID, "room", "r", "", "source room id (never alerted)")
	flags.StringVarP(&options.DeviceID, "device", "d", "", "source device id (defaults to this host)")
	flags.StringVarP(&options.Mode, "mode", "m", "AUDIBLE", "SILENT, AUDIBLE, LOCKDOWN or EVACUATION")
	flags.StringVar(&options.Origin, "origin", "API", "BUTTON, MOBILE, WEB or API")
	flags.StringVar(&options.AlertID, "alert-id", "", "alert id (generated when empty)")
	flags.StringVar(&options.CausalChainID, "causal-chain-id", "", "causal chain id (generated when empty)")

	for _, name := range []string{"tenant", "building", "room"} {
		_ = rootCmd.MarkFlagRequired(name)
	}
}
