package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/alert-router/internal/domain/alert"
	"github.com/oshokin/alert-router/internal/ratelimit"
	"github.com/oshokin/alert-router/internal/topology"
)

func writeSettings(t *testing.T, contents string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), DefaultFilePermissions))

	return path
}

// TestDefault_Validates checks that an empty file yields a runnable configuration.
func TestDefault_Validates(t *testing.T) {
	t.Parallel()

	cfg := Default()
	require.NoError(t, Validate(cfg))

	require.Equal(t, 500*time.Millisecond, cfg.Dedup.Window)
	require.Equal(t, time.Second, cfg.Dedup.SweepInterval)
	require.Equal(t, ratelimit.DefaultConfig(), cfg.RateLimit)
	require.Equal(t, 30*time.Second, cfg.Pipeline.AntiReplayWindow)
	require.Equal(t, topology.DefaultBuildings(), cfg.Topology.Fallback)
	require.Equal(t, DefaultClips(), cfg.Router.Clips)
	require.Equal(t, StoreMemory, cfg.AlertStore.Backend)
	require.Equal(t, DefaultAlertRetention, cfg.AlertStore.Retention)
	require.Equal(t, time.Hour, cfg.AlertStore.PruneInterval)
	require.Equal(t, 2*time.Second, cfg.Topology.LookupTimeout)
	require.False(t, cfg.UsesPostgres())
}

// TestValidate checks required fields and cross-component rules.
func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(cfg *Config)
		wantErr error
	}{
		{
			name:    "dedup window too short",
			mutate:  func(cfg *Config) { cfg.Dedup.Window = 299 * time.Millisecond },
			wantErr: ErrDedupWindowOutOfRange,
		},
		{
			name:    "dedup window too long",
			mutate:  func(cfg *Config) { cfg.Dedup.Window = 801 * time.Millisecond },
			wantErr: ErrDedupWindowOutOfRange,
		},
		{
			name:    "device bucket without capacity",
			mutate:  func(cfg *Config) { cfg.RateLimit.Device.Capacity = 0 },
			wantErr: errInvalidBucket,
		},
		{
			name:    "tenant bucket without refill",
			mutate:  func(cfg *Config) { cfg.RateLimit.Tenant.RefillPerSecond = 0 },
			wantErr: errInvalidBucket,
		},
		{
			name:    "missing broker url",
			mutate:  func(cfg *Config) { cfg.Broker.URL = "" },
			wantErr: errBrokerURLRequired,
		},
		{
			name:    "unknown topology source",
			mutate:  func(cfg *Config) { cfg.Topology.Source = "ldap" },
			wantErr: ErrUnknownTopologySource,
		},
		{
			name:    "postgres topology without dsn",
			mutate:  func(cfg *Config) { cfg.Topology.Source = TopologyPostgres },
			wantErr: errDSNRequired,
		},
		{
			name:    "postgres store without dsn",
			mutate:  func(cfg *Config) { cfg.AlertStore.Backend = StorePostgres },
			wantErr: errDSNRequired,
		},
		{
			name:    "cloud topology without url",
			mutate:  func(cfg *Config) { cfg.Topology.Source = TopologyCloud },
			wantErr: errCloudURLRequired,
		},
		{
			name: "cache without address",
			mutate: func(cfg *Config) {
				cfg.Topology.Cache.Enabled = true
			},
			wantErr: errCacheAddressRequired,
		},
		{
			name:    "unknown store backend",
			mutate:  func(cfg *Config) { cfg.AlertStore.Backend = "sqlite" },
			wantErr: ErrUnknownStoreBackend,
		},
		{
			name:    "negative alert retention",
			mutate:  func(cfg *Config) { cfg.AlertStore.Retention = -time.Hour },
			wantErr: errNegativeRetention,
		},
		{
			name:    "clip for unknown mode",
			mutate:  func(cfg *Config) { cfg.Router.Clips = map[alert.Mode]string{"PARTY": "DISCO"} },
			wantErr: alert.ErrUnknownMode,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := Default()
			tt.mutate(cfg)

			require.ErrorIs(t, Validate(cfg), tt.wantErr)
		})
	}

	require.ErrorIs(t, Validate(nil), errConfigIsNotSet)

	badLevel := Default()
	badLevel.LogLevel = "loud"
	require.Error(t, Validate(badLevel))

	badComponent := Default()
	badComponent.LogLevels = map[string]string{"mqtt": "chatty"}
	require.Error(t, Validate(badComponent))

	badAddress := Default()
	badAddress.MetricsAddress = "bad:address"
	require.Error(t, Validate(badAddress))
}

// TestLoad_MergesWithDefaults ensures absent keys keep their defaults.
func TestLoad_MergesWithDefaults(t *testing.T) {
	t.Parallel()

	path := writeSettings(t, `
log_level: debug
log_levels:
  mqtt: warn
dedup:
  window: 300ms
rate_limit:
  device:
    capacity: 5
router:
  clips:
    lockdown: LOCKDOWN_V2
topology:
  source: postgres
  fallback:
    hq: [lobby, kitchen]
database:
  dsn: postgres://router@localhost/alerts?sslmode=disable
alert_store:
  backend: file
  retention: 72h
  prune_interval: 0s
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	require.Equal(t, "debug", cfg.LogLevel)
	require.Equal(t, map[string]string{"mqtt": "warn"}, cfg.LogLevels)
	require.Equal(t, 300*time.Millisecond, cfg.Dedup.Window)
	require.Equal(t, 5, cfg.RateLimit.Device.Capacity)
	require.InDelta(t, 0.0167, cfg.RateLimit.Device.RefillPerSecond, 1e-9)
	require.Equal(t, ratelimit.DefaultConfig().Tenant, cfg.RateLimit.Tenant)
	require.Equal(t, map[alert.Mode]string{alert.ModeLockdown: "LOCKDOWN_V2"}, cfg.Router.Clips)
	require.Equal(t, map[string][]string{"hq": {"lobby", "kitchen"}}, cfg.Topology.Fallback)
	require.Equal(t, DefaultAlertsFilename, cfg.AlertStore.File)
	require.Equal(t, 72*time.Hour, cfg.AlertStore.Retention)
	require.Equal(t, time.Hour, cfg.AlertStore.PruneInterval)
	require.Equal(t, 2*time.Second, cfg.Topology.LookupTimeout)
	require.Equal(t, DefaultBrokerURL, cfg.Broker.URL)
	require.True(t, cfg.UsesPostgres())
}

// TestLoad_EnvOverrides replaces secrets from the environment.
func TestLoad_EnvOverrides(t *testing.T) {
	path := writeSettings(t, `
broker:
  password: from-file
cloud:
  base_url: https://cloud.local
topology:
  source: cloud
`)

	t.Setenv(EnvDatabaseDSN, "postgres://env")
	t.Setenv(EnvBrokerPassword, "from-env")
	t.Setenv(EnvCloudToken, "token-env")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "postgres://env", cfg.Database.DSN)
	require.Equal(t, "from-env", cfg.Broker.Password)
	require.Equal(t, "token-env", cfg.Cloud.Token)
	require.Equal(t, DefaultTimeout, cfg.Cloud.Timeout)
}

func TestLoad_Errors(t *testing.T) {
	t.Parallel()

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	_, err = Load(writeSettings(t, "dedup: [not, a, map]"))
	require.Error(t, err)

	_, err = Load(writeSettings(t, "dedup:\n  window: 2s\n"))
	require.ErrorIs(t, err, ErrDedupWindowOutOfRange)
}

// TestSaveLoadRoundtrip ensures settings are persisted and loaded back correctly.
func TestSaveLoadRoundtrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "settings.yaml")

	settings := Default()
	settings.Broker.URL = "ssl://broker.local:8883"
	settings.Dedup.Window = 700 * time.Millisecond
	settings.Topology.Fallback = map[string][]string{"building-z": {"room-9"}}

	require.NoError(t, Save(path, settings))

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(DefaultFilePermissions), info.Mode().Perm())

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, settings.Broker.URL, loaded.Broker.URL)
	require.Equal(t, settings.Dedup.Window, loaded.Dedup.Window)
	require.Equal(t, settings.Topology.Fallback, loaded.Topology.Fallback)
	require.Equal(t, settings.Router.Clips, loaded.Router.Clips)

	require.ErrorIs(t, Save(path, nil), errConfigIsNotSet)
}
