package status

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/oshokin/alert-router/internal/api/grpc/diagnostics"
	"github.com/oshokin/alert-router/internal/config"
	"github.com/oshokin/alert-router/internal/domain/alert"
	"github.com/oshokin/alert-router/internal/logger"
	"github.com/oshokin/alert-router/internal/service/common"
)

// Options controls how the router is reached and where output goes.
type Options struct {
	// ConfigPath to the router settings; diagnostics_addr is read from it when set.
	ConfigPath string
	// Address overrides the diagnostics address.
	Address string
	// Timeout bounds every call.
	Timeout time.Duration
	// Out receives the report; defaults to stdout.
	Out io.Writer
}

// RateLimit prints the state of one token bucket.
func RateLimit(ctx context.Context, opts *Options, scope, id string) error {
	parsed, err := alert.ParseScope(scope)
	if err != nil {
		return err
	}

	return withClient(opts, func(client *diagnostics.Client) error {
		bucket, err := client.RateLimitStatus(ctx, parsed, id)
		if err != nil {
			return err
		}

		cooldown := "-"
		if bucket.CooldownUntil != nil {
			cooldown = bucket.CooldownUntil.Format(time.RFC3339)
		}

		w := tabwriter.NewWriter(output(opts), 0, 0, 2, ' ', 0)
		_, _ = fmt.Fprintf(w, "scope:\t%s\n", bucket.Scope)
		_, _ = fmt.Fprintf(w, "id:\t%s\n", bucket.Identifier)
		_, _ = fmt.Fprintf(w, "tokens:\t%.2f / %d\n", bucket.TokensRemaining, bucket.Capacity)
		_, _ = fmt.Fprintf(w, "limited:\t%s\n", yesNo(bucket.IsLimited))
		_, _ = fmt.Fprintf(w, "cooldown until:\t%s\n", cooldown)

		return w.Flush()
	})
}

// Reset clears one token bucket. The operator is recorded in the log.
func Reset(ctx context.Context, opts *Options, scope, id string) error {
	ctx = logger.WithName(ctx, "alert-status")

	parsed, err := alert.ParseScope(scope)
	if err != nil {
		return err
	}

	actor, err := common.DetectActor()
	if err != nil {
		return err
	}

	return withClient(opts, func(client *diagnostics.Client) error {
		if err := client.ResetRateLimit(ctx, parsed, id); err != nil {
			return err
		}

		logger.InfoKV(ctx, "Rate limit reset", "scope", parsed, "id", id, "actor", actor.String())

		_, err := fmt.Fprintf(output(opts), "%s bucket %s reset\n", parsed, id)

		return err
	})
}

// Stats prints alert counts and PA delivery counters.
func Stats(ctx context.Context, opts *Options) error {
	return withClient(opts, func(client *diagnostics.Client) error {
		alerts, err := client.Stats(ctx)
		if err != nil {
			return err
		}

		delivery, err := client.DeliveryStats(ctx)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(output(opts), 0, 0, 2, ' ', 0)
		_, _ = fmt.Fprintf(w, "alerts:\ttotal %d\tpending %d\tcompleted %d\tfailed %d\n",
			alerts.Total, alerts.Pending, alerts.Completed, alerts.Failed)
		_, _ = fmt.Fprintf(w, "pa commands:\tsent %d\tpublish errors %d\n",
			delivery.CommandsSent, delivery.PublishErrors)
		_, _ = fmt.Fprintf(w, "playback:\tsuccesses %d\tfailures %d\tratio %.1f%%\n",
			delivery.Successes, delivery.Failures, delivery.SuccessRatio*100)

		return w.Flush()
	})
}

// Alert prints one persisted alert record.
func Alert(ctx context.Context, opts *Options, alertID string) error {
	return withClient(opts, func(client *diagnostics.Client) error {
		record, err := client.GetAlert(ctx, alertID)
		if err != nil {
			return err
		}

		processedAt := "-"
		if record.ProcessedAt != nil {
			processedAt = record.ProcessedAt.Format(time.RFC3339Nano)
		}

		w := tabwriter.NewWriter(output(opts), 0, 0, 2, ' ', 0)
		_, _ = fmt.Fprintf(w, "alert:\t%s\n", record.AlertID)
		_, _ = fmt.Fprintf(w, "status:\t%s\n", record.Status)
		_, _ = fmt.Fprintf(w, "tenant:\t%s\n", record.TenantID)
		_, _ = fmt.Fprintf(w, "building:\t%s\n", record.BuildingID)
		_, _ = fmt.Fprintf(w, "source room:\t%s\n", record.SourceRoomID)
		_, _ = fmt.Fprintf(w, "device:\t%s\n", record.SourceDeviceID)
		_, _ = fmt.Fprintf(w, "mode:\t%s\n", record.Mode)
		_, _ = fmt.Fprintf(w, "causal chain:\t%s\n", record.CausalChainID)
		_, _ = fmt.Fprintf(w, "created at:\t%s\n", record.CreatedAt.Format(time.RFC3339Nano))
		_, _ = fmt.Fprintf(w, "processed at:\t%s\n", processedAt)
		_, _ = fmt.Fprintf(w, "target rooms:\t%d\n", record.TargetRoomCount)

		if record.ErrorMessage != "" {
			_, _ = fmt.Fprintf(w, "error:\t%s\n", record.ErrorMessage)
		}

		return w.Flush()
	})
}

// withClient dials the diagnostics endpoint, runs fn and closes the connection.
func withClient(opts *Options, fn func(client *diagnostics.Client) error) error {
	address, err := resolveAddress(opts)
	if err != nil {
		return err
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = diagnostics.DefaultCallTimeout
	}

	client, err := diagnostics.Dial(address, diagnostics.WithCallTimeout(timeout))
	if err != nil {
		return err
	}

	defer func() {
		_ = client.Close()
	}()

	return fn(client)
}

// resolveAddress prefers the explicit address, then the settings file, then the default port.
func resolveAddress(opts *Options) (string, error) {
	if opts.Address != "" {
		return opts.Address, nil
	}

	listenAddress := config.DefaultDiagnosticsAddress

	if opts.ConfigPath != "" {
		cfg, err := config.Load(opts.ConfigPath)
		if err != nil {
			return "", fmt.Errorf("load settings: %w", err)
		}

		listenAddress = cfg.DiagnosticsAddress
	}

	return common.DialAddress(listenAddress, "")
}

func output(opts *Options) io.Writer {
	if opts.Out != nil {
		return opts.Out
	}

	return os.Stdout
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}

	return "no"
}
