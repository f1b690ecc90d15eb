package topology

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/oshokin/alert-router/internal/logger"
)

const (
	defaultCacheTTL = 30 * time.Second
	cacheKeyPrefix  = "alert-router:topology:"
	cacheKeySuffix  = ":rooms"
)

// CachedStore is a read-through Redis cache in front of another Store.
// Cache failures are logged and the wrapped store is asked directly.
type CachedStore struct {
	next   Store
	client *redis.Client
	ttl    time.Duration
}

// NewCachedStore caches non-empty answers of next for ttl.
func NewCachedStore(next Store, client *redis.Client, ttl time.Duration) *CachedStore {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}

	return &CachedStore{
		next:   next,
		client: client,
		ttl:    ttl,
	}
}

// RoomsForBuilding serves from Redis when possible.
func (s *CachedStore) RoomsForBuilding(ctx context.Context, buildingID string) ([]string, error) {
	key := cacheKey(buildingID)

	cached, err := s.client.Get(ctx, key).Bytes()

	switch {
	case err == nil:
		var rooms []string
		if err = json.Unmarshal(cached, &rooms); err == nil && len(rooms) > 0 {
			return rooms, nil
		}

		logger.WarnKV(ctx, "Ignoring corrupt topology cache entry", "building_id", buildingID, "error", err)
	case !errors.Is(err, redis.Nil):
		logger.WarnKV(ctx, "Topology cache unavailable", "building_id", buildingID, "error", err)
	}

	rooms, err := s.next.RoomsForBuilding(ctx, buildingID)
	if err != nil || len(rooms) == 0 {
		return rooms, err
	}

	payload, err := json.Marshal(rooms)
	if err != nil {
		return rooms, nil
	}

	if err = s.client.Set(ctx, key, payload, s.ttl).Err(); err != nil {
		logger.WarnKV(ctx, "Failed to cache topology", "building_id", buildingID, "error", err)
	}

	return rooms, nil
}

// Invalidate drops the cached rooms of a building.
func (s *CachedStore) Invalidate(ctx context.Context, buildingID string) error {
	return s.client.Del(ctx, cacheKey(buildingID)).Err()
}

func cacheKey(buildingID string) string {
	return cacheKeyPrefix + buildingID + cacheKeySuffix
}
