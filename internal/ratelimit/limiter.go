package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/oshokin/alert-router/internal/domain/alert"
	"github.com/oshokin/alert-router/internal/logger"
	"github.com/oshokin/alert-router/internal/metrics"
)

// DefaultRefreshInterval is how often Run republishes the cooldown gauges.
const DefaultRefreshInterval = 5 * time.Second

const (
	resultAllowed = "allowed"
	resultBlocked = "blocked"
	scopeCombined = "combined"
)

// Config holds the device and tenant bucket settings.
type Config struct {
	Device BucketConfig `yaml:"device"`
	Tenant BucketConfig `yaml:"tenant"`
}

// DefaultConfig returns roughly one trigger per minute per device with a burst of ten,
// and ten per minute per tenant with a burst of a hundred.
func DefaultConfig() Config {
	return Config{
		Device: BucketConfig{
			Capacity:        10,
			RefillPerSecond: 0.0167,
			Cooldown:        300 * time.Second,
		},
		Tenant: BucketConfig{
			Capacity:        100,
			RefillPerSecond: 0.167,
			Cooldown:        300 * time.Second,
		},
	}
}

// Limiter admits triggers against a device bucket and then a tenant bucket.
type Limiter struct {
	now             func() time.Time
	refreshInterval time.Duration
	device          *bucketSet
	tenant          *bucketSet
}

// Option configures a Limiter.
type Option func(*Limiter)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(l *Limiter) {
		if now != nil {
			l.now = now
		}
	}
}

// WithRefreshInterval overrides DefaultRefreshInterval. Non-positive values are ignored.
func WithRefreshInterval(interval time.Duration) Option {
	return func(l *Limiter) {
		if interval > 0 {
			l.refreshInterval = interval
		}
	}
}

// New creates a limiter with no buckets. Buckets are created full on first use.
func New(cfg Config, opts ...Option) *Limiter {
	l := &Limiter{
		now:             time.Now,
		refreshInterval: DefaultRefreshInterval,
		device:          newBucketSet(alert.ScopeDevice, cfg.Device),
		tenant:          newBucketSet(alert.ScopeTenant, cfg.Tenant),
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// Admit consumes one device token and one tenant token.
// When the tenant refuses, the device token is refunded before returning.
func (l *Limiter) Admit(ctx context.Context, deviceID, tenantID string) bool {
	now := l.now()

	deviceBucket := l.device.getOrCreate(deviceID, now)
	if !deviceBucket.TryConsume(now) {
		tokens, _ := deviceBucket.Snapshot(now)
		logger.WarnKV(ctx, "Device rate limit exceeded",
			"device_id", deviceID,
			"tokens", tokens,
			"capacity", l.device.cfg.Capacity)

		metrics.RateLimitCheck(string(alert.ScopeDevice), resultBlocked)
		l.device.publishLimited(now)

		return false
	}

	tenantBucket := l.tenant.getOrCreate(tenantID, now)
	if !tenantBucket.TryConsume(now) {
		deviceBucket.Refund()

		tokens, _ := tenantBucket.Snapshot(now)
		logger.WarnKV(ctx, "Tenant rate limit exceeded",
			"tenant_id", tenantID,
			"device_id", deviceID,
			"tokens", tokens,
			"capacity", l.tenant.cfg.Capacity)

		metrics.RateLimitCheck(string(alert.ScopeTenant), resultBlocked)
		l.tenant.publishLimited(now)

		return false
	}

	metrics.RateLimitCheck(scopeCombined, resultAllowed)

	return true
}

// Status reports a bucket without consuming from it. Unknown identifiers report a full bucket
// and no bucket is created for them.
func (l *Limiter) Status(scope alert.Scope, id string) (*alert.RateLimitStatus, error) {
	set, err := l.set(scope)
	if err != nil {
		return nil, err
	}

	status := &alert.RateLimitStatus{
		Scope:           scope,
		Identifier:      id,
		TokensRemaining: float64(set.cfg.Capacity),
		Capacity:        set.cfg.Capacity,
	}

	now := l.now()
	set.publishLimited(now)

	bucket := set.get(id)
	if bucket == nil {
		return status, nil
	}

	tokens, cooldownUntil := bucket.Snapshot(now)
	status.TokensRemaining = tokens

	if !cooldownUntil.IsZero() {
		until := cooldownUntil.UTC()
		status.IsLimited = true
		status.CooldownUntil = &until
	}

	return status, nil
}

// Reset forgets a bucket entirely. The next request starts from a full bucket.
func (l *Limiter) Reset(ctx context.Context, scope alert.Scope, id string) error {
	set, err := l.set(scope)
	if err != nil {
		return err
	}

	set.remove(id)
	set.publishLimited(l.now())

	logger.InfoKV(ctx, "Rate limit reset", "scope", scope, "id", id)

	return nil
}

// Limited returns how many buckets of the scope are cooling down.
func (l *Limiter) Limited(scope alert.Scope) (int, error) {
	set, err := l.set(scope)
	if err != nil {
		return 0, err
	}

	limited := set.countLimited(l.now())
	metrics.SetRateLimited(string(set.scope), limited)

	return limited, nil
}

// Run republishes the cooldown gauges on every tick until ctx is done,
// so expired cooldowns stop being reported without any further traffic.
func (l *Limiter) Run(ctx context.Context) {
	ticker := time.NewTicker(l.refreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			now := l.now()
			l.device.publishLimited(now)
			l.tenant.publishLimited(now)
		}
	}
}

func (l *Limiter) set(scope alert.Scope) (*bucketSet, error) {
	switch scope {
	case alert.ScopeDevice:
		return l.device, nil
	case alert.ScopeTenant:
		return l.tenant, nil
	default:
		return nil, fmt.Errorf("%w: %q", alert.ErrUnknownScope, scope)
	}
}

// bucketSet is the buckets of one scope keyed by identifier.
type bucketSet struct {
	scope   alert.Scope
	cfg     BucketConfig
	mu      sync.RWMutex
	buckets map[string]*TokenBucket
}

func newBucketSet(scope alert.Scope, cfg BucketConfig) *bucketSet {
	return &bucketSet{
		scope:   scope,
		cfg:     cfg,
		buckets: make(map[string]*TokenBucket),
	}
}

func (s *bucketSet) get(id string) *TokenBucket {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.buckets[id]
}

func (s *bucketSet) getOrCreate(id string, now time.Time) *TokenBucket {
	if bucket := s.get(id); bucket != nil {
		return bucket
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	bucket, ok := s.buckets[id]
	if !ok {
		bucket = NewTokenBucket(s.cfg, now)
		s.buckets[id] = bucket
	}

	return bucket
}

func (s *bucketSet) remove(id string) {
	s.mu.Lock()
	delete(s.buckets, id)
	s.mu.Unlock()
}

func (s *bucketSet) countLimited(now time.Time) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var limited int

	for _, bucket := range s.buckets {
		if bucket.Limited(now) {
			limited++
		}
	}

	return limited
}

func (s *bucketSet) publishLimited(now time.Time) {
	metrics.SetRateLimited(string(s.scope), s.countLimited(now))
}
