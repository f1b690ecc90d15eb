package ratelimit

import (
	"math"
	"sync"
	"time"
)

// BucketConfig describes one class of token buckets.
type BucketConfig struct {
	// Capacity is the burst size and the starting token count.
	Capacity int `yaml:"capacity"`
	// RefillPerSecond is the sustained rate in tokens per second.
	RefillPerSecond float64 `yaml:"refill_per_second"`
	// Cooldown is how long an exhausted bucket refuses every request.
	Cooldown time.Duration `yaml:"cooldown"`
}

// TokenBucket is a token bucket with a hard cooldown once it runs dry.
// After the cooldown expires the bucket is full again.
type TokenBucket struct {
	mu            sync.Mutex
	cfg           BucketConfig
	tokens        float64
	lastRefill    time.Time
	cooldownUntil time.Time
}

// NewTokenBucket creates a full bucket.
func NewTokenBucket(cfg BucketConfig, now time.Time) *TokenBucket {
	return &TokenBucket{
		cfg:        cfg,
		tokens:     float64(cfg.Capacity),
		lastRefill: now,
	}
}

// TryConsume takes one token. An empty bucket enters cooldown and refuses.
func (b *TokenBucket) TryConsume(now time.Time) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.refill(now)

	if b.inCooldown(now) {
		return false
	}

	if b.tokens >= 1 {
		b.tokens--

		return true
	}

	b.cooldownUntil = now.Add(b.cfg.Cooldown)

	return false
}

// Refund returns one token, never exceeding capacity.
func (b *TokenBucket) Refund() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.tokens = math.Min(b.tokens+1, float64(b.cfg.Capacity))
}

// Snapshot refills the bucket and reports its tokens and cooldown deadline.
// A zero deadline means the bucket is not cooling down.
func (b *TokenBucket) Snapshot(now time.Time) (float64, time.Time) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.refill(now)

	if !b.inCooldown(now) {
		return b.tokens, time.Time{}
	}

	return b.tokens, b.cooldownUntil
}

// Limited reports whether the bucket is cooling down at now.
func (b *TokenBucket) Limited(now time.Time) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.inCooldown(now)
}

func (b *TokenBucket) inCooldown(now time.Time) bool {
	return !b.cooldownUntil.IsZero() && now.Before(b.cooldownUntil)
}

// refill must be called with the lock held.
func (b *TokenBucket) refill(now time.Time) {
	capacity := float64(b.cfg.Capacity)

	if elapsed := now.Sub(b.lastRefill).Seconds(); elapsed > 0 {
		b.tokens = math.Min(b.tokens+elapsed*b.cfg.RefillPerSecond, capacity)
		b.lastRefill = now
	}

	if !b.cooldownUntil.IsZero() && !now.Before(b.cooldownUntil) {
		b.cooldownUntil = time.Time{}
		b.tokens = capacity
	}
}
