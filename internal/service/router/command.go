package router

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"google.golang.org/grpc"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/oshokin/alert-router/internal/api/grpc/diagnostics"
	"github.com/oshokin/alert-router/internal/bus/mqtt"
	"github.com/oshokin/alert-router/internal/config"
	"github.com/oshokin/alert-router/internal/dedup"
	"github.com/oshokin/alert-router/internal/logger"
	"github.com/oshokin/alert-router/internal/metrics"
	"github.com/oshokin/alert-router/internal/pipeline"
	"github.com/oshokin/alert-router/internal/ratelimit"
	alertrepo "github.com/oshokin/alert-router/internal/repository/alert"
	msgrouter "github.com/oshokin/alert-router/internal/router"
)

// shutdownTimeout bounds the graceful stop of the listeners.
const shutdownTimeout = 10 * time.Second

// Options controls the alert-router process.
type Options struct {
	// ConfigPath specifies the path to the settings YAML file.
	ConfigPath string
	// LogLevel overrides the level from the settings file when set.
	LogLevel string
}

// Run starts the daemon and blocks until ctx is canceled or a listener fails.
//
//nolint:funlen // Sequential wiring reads best in one place.
func Run(ctx context.Context, opts *Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	level := cfg.LogLevel
	if opts.LogLevel != "" {
		level = opts.LogLevel
	}

	if err = logger.Setup(level, cfg.LogFormat); err != nil {
		return fmt.Errorf("setup logger: %w", err)
	}

	if err = logger.SetComponentLevels(cfg.LogLevels); err != nil {
		return fmt.Errorf("setup logger: %w", err)
	}

	// Set context with logger name for tracking.
	ctx = logger.WithName(ctx, "alert-router")

	ctx, cancelRun := context.WithCancel(ctx)
	defer cancelRun()

	if err = metrics.Register(prometheus.DefaultRegisterer); err != nil {
		return fmt.Errorf("register metrics: %w", err)
	}

	deps, err := buildComponents(ctx, cfg)
	if err != nil {
		return fmt.Errorf("initialise components: %w", err)
	}

	defer deps.close(ctx)

	var background sync.WaitGroup

	deduplicator := dedup.New(cfg.Dedup.Window, dedup.WithSweepInterval(cfg.Dedup.SweepInterval))
	background.Go(func() { deduplicator.Run(ctx) })

	retention := alertrepo.NewRetention(deps.store, cfg.AlertStore.Retention, cfg.AlertStore.PruneInterval)
	background.Go(func() { retention.Run(logger.WithName(ctx, "retention")) })

	limiter := ratelimit.New(cfg.RateLimit)
	background.Go(func() { limiter.Run(ctx) })

	alertPipeline := pipeline.New(cfg.Pipeline, deps.store, deduplicator, deps.resolver)

	session, err := mqtt.NewSession(ctx, cfg.Broker)
	if err != nil {
		return fmt.Errorf("create broker session: %w", err)
	}

	messageRouter := msgrouter.New(cfg.Router, session, limiter, alertPipeline)
	if err = messageRouter.Start(ctx); err != nil {
		return fmt.Errorf("start router: %w", err)
	}

	session.Subscribe(messageRouter.Subscriptions()...)

	// Setup TCP listener for the diagnostics gRPC server.
	lc := net.ListenConfig{}

	lis, err := lc.Listen(ctx, "tcp", cfg.DiagnosticsAddress)
	if err != nil {
		messageRouter.Stop()

		return fmt.Errorf("listen on %s: %w", cfg.DiagnosticsAddress, err)
	}

	grpcServer, healthServer := diagnostics.NewGRPCServer(diagnostics.NewServer(limiter, messageRouter, deps.store))
	httpServer := newHTTPServer(cfg.MetricsAddress, session)

	serveErrors := make(chan error, 2)

	go func() {
		if serveErr := grpcServer.Serve(lis); serveErr != nil && !errors.Is(serveErr, grpc.ErrServerStopped) {
			serveErrors <- fmt.Errorf("serve diagnostics: %w", serveErr)
		}
	}()

	go func() {
		if serveErr := httpServer.ListenAndServe(); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			serveErrors <- fmt.Errorf("serve metrics: %w", serveErr)
		}
	}()

	// The first connection may take a while; routing starts as soon as it is up
	// and the fallback table keeps the edge working without the cloud.
	background.Go(func() {
		if connectErr := session.Connect(ctx); connectErr != nil && ctx.Err() == nil {
			logger.ErrorKV(ctx, "Broker connection failed", "error", connectErr)
		}
	})

	logger.InfoKV(ctx, "Alert router started",
		"broker", cfg.Broker.URL,
		"topology_source", cfg.Topology.Source,
		"alert_store", cfg.AlertStore.Backend,
		"metrics_address", cfg.MetricsAddress,
		"diagnostics_address", lis.Addr().String())

	var runErr error

	select {
	case <-ctx.Done():
		logger.Info(ctx, "Shutting down alert router")
	case runErr = <-serveErrors:
		logger.ErrorKV(ctx, "Listener failed, shutting down", "error", runErr)
	}

	// Queued triggers are published before the bus goes away.
	healthServer.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	messageRouter.Stop()
	session.Disconnect()
	cancelRun()

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()

	stopGRPC(shutdownCtx, grpcServer)

	if err = httpServer.Shutdown(shutdownCtx); err != nil {
		logger.WarnKV(ctx, "Metrics server shutdown failed", "error", err)
	}

	background.Wait()

	stats := messageRouter.DeliveryStats()
	logger.InfoKV(ctx, "Alert router stopped",
		"commands_sent", stats.CommandsSent,
		"publish_errors", stats.PublishErrors)

	return runErr
}

// stopGRPC attempts a graceful stop and falls back to Stop when ctx expires.
func stopGRPC(ctx context.Context, server *grpc.Server) {
	stopped := make(chan struct{})

	go func() {
		server.GracefulStop()
		close(stopped)
	}()

	select {
	case <-ctx.Done():
		server.Stop()
	case <-stopped:
	}
}
