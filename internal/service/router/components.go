package router

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-redis/redis/v8"

	"github.com/oshokin/alert-router/internal/config"
	"github.com/oshokin/alert-router/internal/database"
	"github.com/oshokin/alert-router/internal/logger"
	alertrepo "github.com/oshokin/alert-router/internal/repository/alert"
	"github.com/oshokin/alert-router/internal/topology"
	"github.com/oshokin/alert-router/internal/version"
)

// binaryName is reported in the cloud client user agent.
const binaryName = "router"

// components are the long-lived dependencies built from configuration.
type components struct {
	// db is shared by the postgres backends; nil when none is configured.
	db *sql.DB
	// cache is the Redis client of the topology cache; nil when disabled.
	cache *redis.Client
	// store persists alert records.
	store alertrepo.Store
	// resolver answers building topology queries.
	resolver *topology.Resolver
}

// buildComponents opens the configured backends. On error everything opened so far is closed.
func buildComponents(ctx context.Context, cfg *config.Config) (*components, error) {
	c := new(components)

	if cfg.UsesPostgres() {
		db, err := database.Open(ctx, cfg.Database)
		if err != nil {
			return nil, err
		}

		c.db = db
	}

	store, err := newAlertStore(ctx, cfg, c.db)
	if err != nil {
		c.close(ctx)

		return nil, err
	}

	c.store = store

	resolver, cache, err := newResolver(ctx, cfg, c.db)
	if err != nil {
		c.close(ctx)

		return nil, err
	}

	c.resolver = resolver
	c.cache = cache

	return c, nil
}

// close releases the database pool and the cache client.
func (c *components) close(ctx context.Context) {
	if c.cache != nil {
		if err := c.cache.Close(); err != nil {
			logger.WarnKV(ctx, "Failed to close topology cache", "error", err)
		}
	}

	if c.db != nil {
		if err := c.db.Close(); err != nil {
			logger.WarnKV(ctx, "Failed to close database", "error", err)
		}
	}
}

// newAlertStore creates the configured alert store. Postgres tables are created if missing.
func newAlertStore(ctx context.Context, cfg *config.Config, db *sql.DB) (alertrepo.Store, error) {
	switch cfg.AlertStore.Backend {
	case config.StoreMemory, "":
		return alertrepo.NewMemoryStore(), nil
	case config.StoreFile:
		store, err := alertrepo.NewFileStore(cfg.AlertStore.File)
		if err != nil {
			return nil, fmt.Errorf("open alert store: %w", err)
		}

		return store, nil
	case config.StorePostgres:
		if db == nil {
			return nil, database.ErrEmptyDSN
		}

		store := alertrepo.NewPostgresStore(db)
		if err := store.EnsureSchema(ctx); err != nil {
			return nil, fmt.Errorf("prepare alert store: %w", err)
		}

		return store, nil
	default:
		return nil, fmt.Errorf("%w: %q", config.ErrUnknownStoreBackend, cfg.AlertStore.Backend)
	}
}

// newResolver builds the live topology source, the optional Redis cache in front
// of it and the fallback table. A fallback file is watched for changes until ctx is done.
func newResolver(ctx context.Context, cfg *config.Config, db *sql.DB) (*topology.Resolver, *redis.Client, error) {
	fallback, err := newFallbackTable(ctx, cfg.Topology)
	if err != nil {
		return nil, nil, err
	}

	lookupTimeout := topology.WithLookupTimeout(cfg.Topology.LookupTimeout)

	var live topology.Store

	switch cfg.Topology.Source {
	case config.TopologyStatic, "":
		return topology.NewResolver(nil, fallback), nil, nil
	case config.TopologyPostgres:
		if db == nil {
			return nil, nil, database.ErrEmptyDSN
		}

		live = topology.NewPostgresStore(db)
	case config.TopologyCloud:
		cloud := cfg.Cloud
		cloud.UserAgent = version.UserAgent(binaryName)
		live = topology.NewCloudStore(cloud)
	default:
		return nil, nil, fmt.Errorf("%w: %q", config.ErrUnknownTopologySource, cfg.Topology.Source)
	}

	if !cfg.Topology.Cache.Enabled {
		return topology.NewResolver(live, fallback, lookupTimeout), nil, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Topology.Cache.Address,
		Password: cfg.Topology.Cache.Password,
		DB:       cfg.Topology.Cache.DB,
	})

	// The cache is optional: an unreachable Redis only costs a warning per lookup.
	if pingErr := client.Ping(ctx).Err(); pingErr != nil {
		logger.WarnKV(ctx, "Topology cache is unreachable", "addr", cfg.Topology.Cache.Address, "error", pingErr)
	}

	cached := topology.NewCachedStore(live, client, cfg.Topology.Cache.TTL)

	return topology.NewResolver(cached, fallback, lookupTimeout), client, nil
}

// newFallbackTable loads the fallback table from the file when configured, otherwise
// from the inline map.
func newFallbackTable(ctx context.Context, cfg config.TopologyConfig) (*topology.StaticTable, error) {
	if cfg.FallbackFile == "" {
		return topology.NewStaticTable(cfg.Fallback), nil
	}

	buildings, err := topology.LoadTableFile(cfg.FallbackFile)

	switch {
	case err == nil:
	case errors.Is(err, topology.ErrEmptyTable) && len(cfg.Fallback) > 0:
		logger.WarnKV(ctx, "Fallback topology file is empty, using inline table", "file", cfg.FallbackFile)

		buildings = cfg.Fallback
	default:
		return nil, fmt.Errorf("load fallback topology: %w", err)
	}

	table := topology.NewStaticTable(buildings)

	if err = topology.WatchTableFile(ctx, cfg.FallbackFile, table); err != nil {
		return nil, err
	}

	logger.InfoKV(ctx, "Fallback topology loaded", "file", cfg.FallbackFile, "buildings", len(table.Buildings()))

	return table, nil
}
