// Package ratelimit implements per-device and per-tenant token buckets with cooldown.
package ratelimit
