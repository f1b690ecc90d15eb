// Package alert contains the core domain types for emergency alert routing.
//
// It defines the inbound Trigger, the persisted Record with its lifecycle
// Status, the derived Event produced by the pipeline, the PA PlayCommand and
// PlaybackStatus wire messages, and the RateLimitStatus diagnostics projection.
// Enumerations are string-typed so they round-trip through JSON and SQL as-is.
package alert
