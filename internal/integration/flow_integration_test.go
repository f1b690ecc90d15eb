package integration

import (
	"context"
	"net"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/oshokin/alert-router/internal/api/grpc/diagnostics"
	"github.com/oshokin/alert-router/internal/dedup"
	"github.com/oshokin/alert-router/internal/domain/alert"
	"github.com/oshokin/alert-router/internal/pipeline"
	"github.com/oshokin/alert-router/internal/ratelimit"
	alertrepo "github.com/oshokin/alert-router/internal/repository/alert"
	"github.com/oshokin/alert-router/internal/router"
	"github.com/oshokin/alert-router/internal/topology"
)

// TestAlertFlow_EndToEnd routes button presses through the real pipeline with an
// on-disk store and inspects the outcome over the diagnostics API.
func TestAlertFlow_EndToEnd(t *testing.T) {
	ctx := context.Background()
	storePath := filepath.Join(t.TempDir(), "alerts.json")

	store, err := alertrepo.NewFileStore(storePath)
	require.NoError(t, err)

	limiter := ratelimit.New(ratelimit.DefaultConfig())
	resolver := topology.NewResolver(nil, topology.NewStaticTable(topology.DefaultBuildings()))
	alertPipeline := pipeline.New(pipeline.Config{}, store, dedup.New(dedup.DefaultWindow), resolver)

	bus := newRecordingBus()
	r := router.New(router.Config{
		Clips: map[alert.Mode]string{alert.ModeLockdown: "LOCKDOWN_ALERT"},
	}, bus, limiter, alertPipeline)

	// Start the diagnostics server on an ephemeral port.
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	grpcServer, _ := diagnostics.NewGRPCServer(diagnostics.NewServer(limiter, r, store))

	go func() { _ = grpcServer.Serve(lis) }()

	t.Cleanup(grpcServer.Stop)

	client, err := diagnostics.Dial(lis.Addr().String(), diagnostics.WithCallTimeout(5*time.Second))
	require.NoError(t, err)

	t.Cleanup(func() { _ = client.Close() })

	// Press the button in room-2, then again within the dedup window.
	r.HandleTrigger(ctx, router.TriggerTopic("tenant-1", "building-a", "room-2"),
		buttonPress(t, "alert-1", "room-2", "lockdown"), time.Now().UTC())
	r.HandleTrigger(ctx, router.TriggerTopic("tenant-1", "building-a", "room-2"),
		buttonPress(t, "alert-2", "room-2", "lockdown"), time.Now().UTC())

	commands := bus.snapshot()
	require.Len(t, commands, 3)
	require.NotContains(t, commands, router.CommandTopic("room-2"))

	for _, room := range []string{"room-1", "room-3", "room-4"} {
		command, ok := commands[router.CommandTopic(room)]
		require.True(t, ok, room)
		require.Equal(t, "alert-1", command.AlertID)
		require.Equal(t, "LOCKDOWN_ALERT", command.ClipRef)
		require.Equal(t, alert.ModeLockdown, command.Mode)
		require.Equal(t, "chain-alert-1", command.CausalChainID)
	}

	// The PA service acknowledges two rooms and reports one failure.
	r.HandleStatus(ctx, "pa/room-1/status", playbackAck(t, "alert-1", "room-1", alert.PlaybackCompleted))
	r.HandleStatus(ctx, "pa/room-3/status", playbackAck(t, "alert-1", "room-3", alert.PlaybackOK))
	r.HandleStatus(ctx, "pa/room-4/status", playbackAck(t, "alert-1", "room-4", alert.PlaybackError))

	t.Run("records", func(t *testing.T) {
		first, err := client.GetAlert(ctx, "alert-1")
		require.NoError(t, err)
		require.Equal(t, alert.StatusCompleted, first.Status)
		require.Equal(t, 3, first.TargetRoomCount)
		require.Equal(t, "room-2", first.SourceRoomID)
		require.NotNil(t, first.ProcessedAt)

		second, err := client.GetAlert(ctx, "alert-2")
		require.NoError(t, err)
		require.Equal(t, alert.StatusFailed, second.Status)
		require.Equal(t, alert.ReasonDuplicate.Message(), second.ErrorMessage)

		_, err = client.GetAlert(ctx, "missing")
		require.Equal(t, codes.NotFound, status.Code(err))

		stats, err := client.Stats(ctx)
		require.NoError(t, err)
		require.Equal(t, alert.Stats{Total: 2, Completed: 1, Failed: 1}, *stats)
	})

	t.Run("delivery", func(t *testing.T) {
		stats, err := client.DeliveryStats(ctx)
		require.NoError(t, err)
		require.Equal(t, int64(3), stats.CommandsSent)
		require.Equal(t, int64(2), stats.Successes)
		require.Equal(t, int64(1), stats.Failures)
		require.Zero(t, stats.PublishErrors)
		require.InDelta(t, 2.0/3.0, stats.SuccessRatio, 1e-9)
	})

	t.Run("rate limit", func(t *testing.T) {
		// Both presses were admitted before the duplicate was detected.
		bucket, err := client.RateLimitStatus(ctx, alert.ScopeDevice, "esp32-room-2")
		require.NoError(t, err)
		require.Equal(t, 10, bucket.Capacity)
		require.InDelta(t, 8, bucket.TokensRemaining, 0.5)
		require.False(t, bucket.IsLimited)

		require.NoError(t, client.ResetRateLimit(ctx, alert.ScopeDevice, "esp32-room-2"))

		bucket, err = client.RateLimitStatus(ctx, alert.ScopeDevice, "esp32-room-2")
		require.NoError(t, err)
		require.InDelta(t, 10, bucket.TokensRemaining, 1e-9)
	})

	t.Run("persisted", func(t *testing.T) {
		reopened, err := alertrepo.NewFileStore(storePath)
		require.NoError(t, err)

		record, err := reopened.Get(ctx, "alert-1")
		require.NoError(t, err)
		require.Equal(t, alert.StatusCompleted, record.Status)
		require.Equal(t, 3, record.TargetRoomCount)
	})
}

// TestAlertFlow_RateLimitedDevice blocks a chattering button before it reaches the store.
func TestAlertFlow_RateLimitedDevice(t *testing.T) {
	ctx := context.Background()
	store := alertrepo.NewMemoryStore()

	limiter := ratelimit.New(ratelimit.Config{
		Device: ratelimit.BucketConfig{Capacity: 2, RefillPerSecond: 0.001, Cooldown: time.Minute},
		Tenant: ratelimit.DefaultConfig().Tenant,
	})
	resolver := topology.NewResolver(nil, topology.NewStaticTable(topology.DefaultBuildings()))
	alertPipeline := pipeline.New(pipeline.Config{}, store, dedup.New(dedup.DefaultWindow), resolver)

	bus := newRecordingBus()
	r := router.New(router.Config{}, bus, limiter, alertPipeline)

	// Different modes avoid the deduplicator so only the limiter can stop them.
	modes := []string{"audible", "lockdown", "evacuation"}
	for i, mode := range modes {
		r.HandleTrigger(ctx, router.TriggerTopic("tenant-1", "building-a", "room-1"),
			buttonPress(t, "burst-"+string(rune('a'+i)), "room-1", mode), time.Now().UTC())
	}

	stats, err := store.Stats(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, stats.Total)
	require.Equal(t, 2, stats.Completed)

	_, err = store.Get(ctx, "burst-c")
	require.ErrorIs(t, err, alert.ErrNotFound)

	bucket, err := limiter.Status(alert.ScopeDevice, "esp32-room-1")
	require.NoError(t, err)
	require.True(t, bucket.IsLimited)
	require.NotNil(t, bucket.CooldownUntil)

	// Both admitted alerts reached rooms 2 to 4 with the default clip.
	commands := bus.snapshot()
	require.Len(t, commands, 3)

	for _, command := range commands {
		require.NotEqual(t, "room-1", command.RoomID)
		require.Equal(t, router.DefaultClip, command.ClipRef)
	}

	require.Equal(t, int64(6), r.DeliveryStats().CommandsSent)
}
