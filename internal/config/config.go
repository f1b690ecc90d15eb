package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/oshokin/alert-router/internal/bus/mqtt"
	"github.com/oshokin/alert-router/internal/database"
	"github.com/oshokin/alert-router/internal/dedup"
	"github.com/oshokin/alert-router/internal/domain/alert"
	"github.com/oshokin/alert-router/internal/logger"
	"github.com/oshokin/alert-router/internal/pipeline"
	"github.com/oshokin/alert-router/internal/ratelimit"
	alertrepo "github.com/oshokin/alert-router/internal/repository/alert"
	"github.com/oshokin/alert-router/internal/router"
	"github.com/oshokin/alert-router/internal/topology"
)

// Config holds every setting of the alert router daemon.
type Config struct {
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`
	// LogFormat is console or json.
	LogFormat string `yaml:"log_format"`
	// LogLevels overrides the level per component name, e.g. mqtt or router.
	LogLevels map[string]string `yaml:"log_levels"`
	// Dedup configures the trigger deduplicator.
	Dedup DedupConfig `yaml:"dedup"`
	// RateLimit configures the device and tenant token buckets.
	RateLimit ratelimit.Config `yaml:"rate_limit"`
	// Pipeline configures the alert state machine.
	Pipeline pipeline.Config `yaml:"pipeline"`
	// Broker is the MQTT connection.
	Broker mqtt.Config `yaml:"broker"`
	// Router configures topics, workers and clip selection.
	Router router.Config `yaml:"router"`
	// Topology selects where building rooms come from.
	Topology TopologyConfig `yaml:"topology"`
	// Database is the Postgres pool shared by postgres backends.
	Database database.Config `yaml:"database"`
	// AlertStore selects where alert records are persisted.
	AlertStore AlertStoreConfig `yaml:"alert_store"`
	// Cloud is the cloud backend used by the cloud topology source.
	Cloud topology.CloudConfig `yaml:"cloud"`
	// MetricsAddress serves /metrics and /health.
	MetricsAddress string `yaml:"metrics_addr"`
	// DiagnosticsAddress serves the diagnostics gRPC API.
	DiagnosticsAddress string `yaml:"diagnostics_addr"`
}

// DedupConfig configures the deduplicator.
type DedupConfig struct {
	Window        time.Duration `yaml:"window"`
	SweepInterval time.Duration `yaml:"sweep_interval"`
}

// TopologyConfig selects the live topology source and the fallback table.
type TopologyConfig struct {
	// Source is static, postgres or cloud.
	Source string `yaml:"source"`
	// Fallback maps building ids to room ids.
	Fallback map[string][]string `yaml:"fallback"`
	// FallbackFile, when set, replaces Fallback and is reloaded on change.
	FallbackFile string `yaml:"fallback_file"`
	// Cache puts Redis in front of the live source.
	Cache CacheConfig `yaml:"cache"`
	// LookupTimeout bounds one live lookup; slower answers fall back to the table.
	LookupTimeout time.Duration `yaml:"lookup_timeout"`
}

// CacheConfig is the Redis topology cache.
type CacheConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Address  string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"`
}

// AlertStoreConfig selects the alert record backend.
type AlertStoreConfig struct {
	// Backend is memory, file or postgres.
	Backend string `yaml:"backend"`
	// File is the JSON snapshot used by the file backend.
	File string `yaml:"file"`
	// Retention is how long finalised records are kept. Zero keeps them forever.
	Retention time.Duration `yaml:"retention"`
	// PruneInterval is how often expired records are deleted.
	PruneInterval time.Duration `yaml:"prune_interval"`
}

// Topology sources.
const (
	TopologyStatic   = "static"
	TopologyPostgres = "postgres"
	TopologyCloud    = "cloud"
)

// Alert store backends.
const (
	StoreMemory   = "memory"
	StoreFile     = "file"
	StorePostgres = "postgres"
)

// Environment variables that override secrets from the file.
const (
	EnvDatabaseDSN    = "ALERT_ROUTER_DB_DSN"
	EnvBrokerPassword = "ALERT_ROUTER_BROKER_PASSWORD"
	EnvCloudToken     = "ALERT_ROUTER_CLOUD_TOKEN"
)

const (
	// DefaultConfigFilename is the default filename for router settings.
	DefaultConfigFilename = "alert-router.yaml"

	// DefaultAlertsFilename is the default snapshot of the file alert store.
	DefaultAlertsFilename = "alert-router-alerts.json"

	// DefaultTimeout is the default duration for network operations.
	DefaultTimeout = 5 * time.Second

	// DefaultFilePermissions is the default file permission for files written by the router.
	DefaultFilePermissions = 0o600

	// DefaultMetricsAddress serves Prometheus metrics.
	DefaultMetricsAddress = ":9100"

	// DefaultAlertRetention is how long finalised alert records are kept.
	DefaultAlertRetention = 30 * 24 * time.Hour

	// DefaultDiagnosticsAddress serves the diagnostics gRPC API.
	DefaultDiagnosticsAddress = ":50061"

	// DefaultBrokerURL is the edge broker.
	DefaultBrokerURL = "ssl://emqx:8883"

	// DefaultClientID is the MQTT client id prefix of the router.
	DefaultClientID = "policy-service"

	// MinDedupWindow and MaxDedupWindow bound the deduplication window.
	MinDedupWindow = 300 * time.Millisecond
	MaxDedupWindow = 800 * time.Millisecond

	defaultCloudRetries = 2
)

var (
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
	// errBrokerURLRequired is returned when the broker url is missing.
	errBrokerURLRequired = errors.New("broker url must be provided")
	// errDSNRequired is returned when a postgres backend has no DSN.
	errDSNRequired = errors.New("database dsn must be provided for postgres backends")
	// errCloudURLRequired is returned when the cloud topology source has no base url.
	errCloudURLRequired = errors.New("cloud base url must be provided for the cloud topology source")
	// errCacheAddressRequired is returned when the cache is enabled without an address.
	errCacheAddressRequired = errors.New("cache address must be provided when the cache is enabled")
	// errNegativeRetention is returned for a negative alert retention.
	errNegativeRetention = errors.New("alert retention must not be negative")
	// errInvalidBucket is returned for a bucket that can never admit or refill.
	errInvalidBucket = errors.New("bucket capacity and refill rate must be positive")
	// ErrDedupWindowOutOfRange is returned for a dedup window outside the supported range.
	ErrDedupWindowOutOfRange = errors.New("dedup window is out of range")
	// ErrUnknownTopologySource is returned for an unsupported topology source.
	ErrUnknownTopologySource = errors.New("unknown topology source")
	// ErrUnknownStoreBackend is returned for an unsupported alert store backend.
	ErrUnknownStoreBackend = errors.New("unknown alert store backend")
)

// Default returns the settings used when a key is absent from the file.
func Default() *Config {
	return &Config{
		LogLevel:  "info",
		LogFormat: logger.FormatConsole,
		Dedup: DedupConfig{
			Window:        dedup.DefaultWindow,
			SweepInterval: dedup.DefaultSweepInterval,
		},
		RateLimit: ratelimit.DefaultConfig(),
		Pipeline: pipeline.Config{
			AntiReplayWindow: pipeline.DefaultAntiReplayWindow,
		},
		Broker: mqtt.Config{
			URL:      DefaultBrokerURL,
			ClientID: DefaultClientID,
		},
		Router: router.Config{
			TriggerTopic: router.DefaultTriggerTopic,
			StatusTopic:  router.DefaultStatusTopic,
			DefaultClip:  router.DefaultClip,
		},
		Topology: TopologyConfig{
			Source:        TopologyStatic,
			LookupTimeout: topology.DefaultLookupTimeout,
		},
		AlertStore: AlertStoreConfig{
			Backend:       StoreMemory,
			Retention:     DefaultAlertRetention,
			PruneInterval: alertrepo.DefaultPruneInterval,
		},
		Cloud: topology.CloudConfig{
			Timeout: DefaultTimeout,
			Retries: defaultCloudRetries,
		},
		MetricsAddress:     DefaultMetricsAddress,
		DiagnosticsAddress: DefaultDiagnosticsAddress,
	}
}

// DefaultClips maps every mode to its announcement clip.
func DefaultClips() map[alert.Mode]string {
	return map[alert.Mode]string{
		alert.ModeSilent:     "SILENT_ALERT",
		alert.ModeAudible:    router.DefaultClip,
		alert.ModeLockdown:   "LOCKDOWN_ALERT",
		alert.ModeEvacuation: "EVACUATION_ALERT",
	}
}

// Load reads configuration from the provided path, applies environment
// overrides and validates the result.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigFilename
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}

	cfg := Default()
	if err = yaml.Unmarshal(contents, cfg); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	applyEnv(cfg)

	if err = Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes settings to the provided path.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	// Restrict permissions: the file may hold broker and database credentials.
	if err := os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate checks the settings and fills the defaults that depend on other keys.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if _, ok := logger.ParseLogLevel(cfg.LogLevel); !ok && strings.TrimSpace(cfg.LogLevel) != "" {
		return fmt.Errorf("unknown log level %q", cfg.LogLevel)
	}

	for component, level := range cfg.LogLevels {
		if _, ok := logger.ParseLogLevel(level); !ok {
			return fmt.Errorf("unknown log level %q for %s", level, component)
		}
	}

	if err := validateDedup(&cfg.Dedup); err != nil {
		return err
	}

	if err := validateBucket("device", cfg.RateLimit.Device); err != nil {
		return err
	}

	if err := validateBucket("tenant", cfg.RateLimit.Tenant); err != nil {
		return err
	}

	if cfg.Pipeline.AntiReplayWindow <= 0 {
		cfg.Pipeline.AntiReplayWindow = pipeline.DefaultAntiReplayWindow
	}

	if err := validateBroker(&cfg.Broker); err != nil {
		return err
	}

	if err := normalizeClips(&cfg.Router); err != nil {
		return err
	}

	if err := validateTopology(cfg); err != nil {
		return err
	}

	if err := validateAlertStore(cfg); err != nil {
		return err
	}

	if cfg.MetricsAddress == "" {
		cfg.MetricsAddress = DefaultMetricsAddress
	}

	if _, err := net.ResolveTCPAddr("tcp", cfg.MetricsAddress); err != nil {
		return fmt.Errorf("invalid metrics address: %w", err)
	}

	if cfg.DiagnosticsAddress == "" {
		cfg.DiagnosticsAddress = DefaultDiagnosticsAddress
	}

	if _, err := net.ResolveTCPAddr("tcp", cfg.DiagnosticsAddress); err != nil {
		return fmt.Errorf("invalid diagnostics address: %w", err)
	}

	return nil
}

// UsesPostgres reports whether any backend needs the database pool.
func (c *Config) UsesPostgres() bool {
	return c.Topology.Source == TopologyPostgres || c.AlertStore.Backend == StorePostgres
}

func applyEnv(cfg *Config) {
	if dsn := os.Getenv(EnvDatabaseDSN); dsn != "" {
		cfg.Database.DSN = dsn
	}

	if password := os.Getenv(EnvBrokerPassword); password != "" {
		cfg.Broker.Password = password
	}

	if token := os.Getenv(EnvCloudToken); token != "" {
		cfg.Cloud.Token = token
	}
}

func validateDedup(d *DedupConfig) error {
	if d.Window == 0 {
		d.Window = dedup.DefaultWindow
	}

	if d.Window < MinDedupWindow || d.Window > MaxDedupWindow {
		return fmt.Errorf("%w: %s not in [%s, %s]", ErrDedupWindowOutOfRange, d.Window, MinDedupWindow, MaxDedupWindow)
	}

	if d.SweepInterval <= 0 {
		d.SweepInterval = dedup.DefaultSweepInterval
	}

	return nil
}

func validateBucket(name string, b ratelimit.BucketConfig) error {
	if b.Capacity <= 0 || b.RefillPerSecond <= 0 || b.Cooldown < 0 {
		return fmt.Errorf("%s bucket: %w", name, errInvalidBucket)
	}

	return nil
}

func validateBroker(b *mqtt.Config) error {
	if b.URL == "" {
		return errBrokerURLRequired
	}

	if _, err := url.Parse(b.URL); err != nil {
		return fmt.Errorf("invalid broker url: %w", err)
	}

	if b.ClientID == "" {
		b.ClientID = DefaultClientID
	}

	return nil
}

// normalizeClips accepts mode keys in any case and rejects unknown modes.
func normalizeClips(r *router.Config) error {
	if r.Clips == nil {
		r.Clips = DefaultClips()

		return nil
	}

	clips := make(map[alert.Mode]string, len(r.Clips))

	for mode, clip := range r.Clips {
		parsed, err := alert.ParseMode(string(mode))
		if err != nil || mode == "" {
			return fmt.Errorf("clip for mode %q: %w", mode, alert.ErrUnknownMode)
		}

		clips[parsed] = clip
	}

	r.Clips = clips

	return nil
}

func validateTopology(cfg *Config) error {
	t := &cfg.Topology

	switch t.Source {
	case "":
		t.Source = TopologyStatic
	case TopologyStatic, TopologyPostgres:
	case TopologyCloud:
		if cfg.Cloud.BaseURL == "" {
			return errCloudURLRequired
		}

		if _, err := url.ParseRequestURI(cfg.Cloud.BaseURL); err != nil {
			return fmt.Errorf("invalid cloud base url: %w", err)
		}

		if cfg.Cloud.Timeout <= 0 {
			cfg.Cloud.Timeout = DefaultTimeout
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownTopologySource, t.Source)
	}

	if len(t.Fallback) == 0 && t.FallbackFile == "" {
		t.Fallback = topology.DefaultBuildings()
	}

	if t.LookupTimeout <= 0 {
		t.LookupTimeout = topology.DefaultLookupTimeout
	}

	if t.Cache.Enabled && t.Cache.Address == "" {
		return errCacheAddressRequired
	}

	if t.Source == TopologyPostgres && cfg.Database.DSN == "" {
		return errDSNRequired
	}

	return nil
}

func validateAlertStore(cfg *Config) error {
	s := &cfg.AlertStore

	switch s.Backend {
	case "":
		s.Backend = StoreMemory
	case StoreMemory:
	case StoreFile:
		if s.File == "" {
			s.File = DefaultAlertsFilename
		}
	case StorePostgres:
		if cfg.Database.DSN == "" {
			return errDSNRequired
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownStoreBackend, s.Backend)
	}

	if s.Retention < 0 {
		return errNegativeRetention
	}

	if s.PruneInterval <= 0 {
		s.PruneInterval = alertrepo.DefaultPruneInterval
	}

	return nil
}
