package dedup

import (
	"context"
	"hash/fnv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/oshokin/alert-router/internal/logger"
	"github.com/oshokin/alert-router/internal/metrics"
)

const (
	// DefaultWindow is the nominal deduplication window.
	DefaultWindow = 500 * time.Millisecond
	// DefaultSweepInterval is how often expired entries are evicted.
	DefaultSweepInterval = time.Second

	// retentionFactor keeps entries for twice the window before eviction.
	retentionFactor = 2
	// shardCount spreads keys over independent locks.
	shardCount = 32
	// keySeparator cannot appear in identifiers received as JSON strings from devices.
	keySeparator = "\x00"
)

// Deduplicator remembers the last time each trigger key passed.
type Deduplicator struct {
	// window is the period during which an identical trigger is a duplicate.
	window time.Duration
	// sweepInterval is the period of the eviction loop.
	sweepInterval time.Duration
	// now returns the current time; replaced in tests.
	now func() time.Time
	// shards hold the entries; each shard guards its own map.
	shards [shardCount]*shard
	// size is the total number of entries across shards.
	size atomic.Int64
}

// shard is one lock domain of the cache.
type shard struct {
	mu      sync.Mutex
	entries map[string]time.Time
}

// Option configures a Deduplicator.
type Option func(*Deduplicator)

// WithSweepInterval overrides the eviction period.
func WithSweepInterval(interval time.Duration) Option {
	return func(d *Deduplicator) {
		if interval > 0 {
			d.sweepInterval = interval
		}
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(d *Deduplicator) {
		if now != nil {
			d.now = now
		}
	}
}

// New creates an empty deduplicator. A non-positive window falls back to DefaultWindow.
func New(window time.Duration, opts ...Option) *Deduplicator {
	if window <= 0 {
		window = DefaultWindow
	}

	d := &Deduplicator{
		window:        window,
		sweepInterval: DefaultSweepInterval,
		now:           time.Now,
	}

	for i := range d.shards {
		d.shards[i] = &shard{entries: make(map[string]time.Time)}
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

// Window returns the configured deduplication window.
func (d *Deduplicator) Window() time.Duration {
	return d.window
}

// IsDuplicate reports whether an identical trigger passed less than one window ago.
// When it is not a duplicate the current time is stored for the key. The lookup and
// the store happen under one lock, so concurrent identical triggers let exactly one through.
func (d *Deduplicator) IsDuplicate(tenantID, buildingID, sourceRoomID, mode string) bool {
	key := makeKey(tenantID, buildingID, sourceRoomID, mode)
	s := d.shardFor(key)
	now := d.now()

	s.mu.Lock()

	lastSeen, found := s.entries[key]
	if found {
		if gap := now.Sub(lastSeen); gap < d.window {
			s.mu.Unlock()

			metrics.DedupHit(gap)

			return true
		}
	}

	s.entries[key] = now
	s.mu.Unlock()

	if !found {
		metrics.SetDedupCacheSize(int(d.size.Add(1)))
	}

	return false
}

// Sweep removes entries strictly older than twice the window and returns how many were removed.
func (d *Deduplicator) Sweep() int {
	var (
		now     = d.now()
		maxAge  = d.window * retentionFactor
		removed int
	)

	for _, s := range d.shards {
		s.mu.Lock()

		for key, lastSeen := range s.entries {
			if now.Sub(lastSeen) > maxAge {
				delete(s.entries, key)
				removed++
			}
		}

		s.mu.Unlock()
	}

	if removed > 0 {
		metrics.SetDedupCacheSize(int(d.size.Add(-int64(removed))))
	}

	return removed
}

// Run evicts expired entries every sweep interval until ctx is canceled.
func (d *Deduplicator) Run(ctx context.Context) {
	ticker := time.NewTicker(d.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := d.Sweep(); removed > 0 {
				logger.DebugKV(ctx, "Evicted expired dedup entries", "count", removed, "remaining", d.Len())
			}
		}
	}
}

// Len returns the number of remembered keys.
func (d *Deduplicator) Len() int {
	return int(d.size.Load())
}

func (d *Deduplicator) shardFor(key string) *shard {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))

	return d.shards[h.Sum32()%shardCount]
}

func makeKey(tenantID, buildingID, sourceRoomID, mode string) string {
	return strings.Join([]string{tenantID, buildingID, sourceRoomID, strings.ToUpper(mode)}, keySeparator)
}
