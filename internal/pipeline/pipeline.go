package pipeline

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/oshokin/alert-router/internal/domain/alert"
	"github.com/oshokin/alert-router/internal/logger"
	"github.com/oshokin/alert-router/internal/metrics"
	"github.com/oshokin/alert-router/internal/topology"
)

// DefaultAntiReplayWindow is the maximum accepted skew between the trigger timestamp and now.
const DefaultAntiReplayWindow = 30 * time.Second

// Store is the part of the alert store the pipeline writes to.
type Store interface {
	Insert(ctx context.Context, record *alert.Record) error
	UpdateStatus(ctx context.Context, update alert.StatusUpdate) error
}

// Deduplicator reports repeated triggers.
type Deduplicator interface {
	IsDuplicate(tenantID, buildingID, sourceRoomID, mode string) bool
}

// Resolver returns the rooms of a building.
type Resolver interface {
	Resolve(ctx context.Context, buildingID string) ([]string, topology.Source)
}

// Config holds the pipeline tunables.
type Config struct {
	// AntiReplayWindow bounds |now - trigger timestamp|. The bound itself is accepted.
	AntiReplayWindow time.Duration `yaml:"anti_replay_window"`
}

// Pipeline is the alert state machine. It is safe for concurrent use.
type Pipeline struct {
	cfg      Config
	store    Store
	dedup    Deduplicator
	resolver Resolver
	now      func() time.Time
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithClock overrides the time source used for anti-replay and processedAt.
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) {
		if now != nil {
			p.now = now
		}
	}
}

// New creates a pipeline.
func New(cfg Config, store Store, dedup Deduplicator, resolver Resolver, opts ...Option) *Pipeline {
	if cfg.AntiReplayWindow <= 0 {
		cfg.AntiReplayWindow = DefaultAntiReplayWindow
	}

	p := &Pipeline{
		cfg:      cfg,
		store:    store,
		dedup:    dedup,
		resolver: resolver,
		now:      time.Now,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Process runs one trigger through the state machine.
func (p *Pipeline) Process(ctx context.Context, trigger *alert.Trigger, receivedAt time.Time) Result {
	ctx = logger.WithKV(ctx,
		"alert_id", trigger.AlertID,
		"tenant_id", trigger.TenantID,
		"building_id", trigger.BuildingID,
		"source_room_id", trigger.SourceRoomID,
		"causal_chain_id", trigger.CausalChainID)

	receivedAt = receivedAt.UTC()

	metrics.TriggerStage(metrics.StageReceived)
	logger.DebugKV(ctx, "Alert state changed", "state", alert.StateReceived)

	// Without an id there is no key to record the trigger under.
	if strings.TrimSpace(trigger.AlertID) == "" {
		logger.Warn(ctx, "Validation failed: alert id is empty")

		return p.reject(ctx, nil, alert.ReasonValidation)
	}

	record := alert.NewPendingRecord(trigger, p.now())
	if err := p.store.Insert(ctx, record); err != nil {
		if errors.Is(err, alert.ErrAlreadyExists) {
			// A redelivered message: the first delivery owns the record.
			logger.InfoKV(ctx, "Alert id already recorded, dropping redelivery")

			return p.reject(ctx, nil, alert.ReasonDuplicate)
		}

		return p.fail(ctx, alert.ReasonNone, fmt.Errorf("%w: insert: %w", ErrPersistence, err))
	}

	mode, timestamp, ok := p.validate(ctx, trigger)
	if !ok {
		return p.reject(ctx, trigger, alert.ReasonValidation)
	}

	metrics.TriggerStage(metrics.StageValidated)
	logger.DebugKV(ctx, "Alert state changed", "state", alert.StateValidated)

	if delta := p.now().Sub(timestamp).Abs(); delta > p.cfg.AntiReplayWindow {
		logger.WarnKV(ctx, "Anti-replay: timestamp outside window",
			"delta", delta,
			"window", p.cfg.AntiReplayWindow)

		return p.reject(ctx, trigger, alert.ReasonReplay)
	}

	logger.DebugKV(ctx, "Alert state changed", "state", alert.StateReplayChecked)

	if p.dedup.IsDuplicate(trigger.TenantID, trigger.BuildingID, trigger.SourceRoomID, string(mode)) {
		logger.Info(ctx, "Duplicate trigger suppressed")

		return p.reject(ctx, trigger, alert.ReasonDuplicate)
	}

	logger.DebugKV(ctx, "Alert state changed", "state", alert.StateDedupChecked)

	targetRooms := p.evaluatePolicy(ctx, trigger)
	if len(targetRooms) == 0 {
		return p.reject(ctx, trigger, alert.ReasonNoTargets)
	}

	logger.DebugKV(ctx, "Alert state changed", "state", alert.StatePolicyEvaluated)

	processedAt := p.now().UTC()

	err := p.store.UpdateStatus(ctx, alert.StatusUpdate{
		AlertID:         trigger.AlertID,
		Status:          alert.StatusCompleted,
		ProcessedAt:     processedAt,
		TargetRoomCount: len(targetRooms),
	})
	if err != nil {
		return p.fail(ctx, alert.ReasonNone, fmt.Errorf("%w: finalize: %w", ErrPersistence, err))
	}

	event := &alert.Event{
		AlertID:       trigger.AlertID,
		TenantID:      trigger.TenantID,
		BuildingID:    trigger.BuildingID,
		SourceRoomID:  trigger.SourceRoomID,
		CausalChainID: trigger.CausalChainID,
		Mode:          mode,
		TargetRooms:   targetRooms,
		ReceivedAt:    receivedAt,
		ProcessedAt:   processedAt,
		Metadata: map[string]string{
			"origin":         originOf(trigger),
			"sourceDeviceId": trigger.Device(),
		},
	}

	metrics.TriggerStage(metrics.StageProcessed)
	metrics.ObservePipelineLatency(event.Latency())

	logger.InfoKV(ctx, "Alert processed",
		"state", alert.StateCompleted,
		"target_rooms", len(targetRooms),
		"latency", event.Latency())

	return completed(event)
}

// validate checks the required fields, the mode and the timestamp.
func (p *Pipeline) validate(ctx context.Context, trigger *alert.Trigger) (alert.Mode, time.Time, bool) {
	if strings.TrimSpace(trigger.TenantID) == "" ||
		strings.TrimSpace(trigger.BuildingID) == "" ||
		strings.TrimSpace(trigger.SourceRoomID) == "" {
		logger.Warn(ctx, "Validation failed: missing required fields")

		return "", time.Time{}, false
	}

	mode, err := alert.ParseMode(trigger.Mode)
	if err != nil {
		logger.WarnKV(ctx, "Validation failed: unknown mode", "error", err)

		return "", time.Time{}, false
	}

	timestamp, err := ParseTimestamp(trigger.Timestamp)
	if err != nil {
		logger.WarnKV(ctx, "Validation failed: invalid timestamp", "error", err)

		return "", time.Time{}, false
	}

	return mode, timestamp, true
}

// evaluatePolicy returns every room of the building except the source room.
func (p *Pipeline) evaluatePolicy(ctx context.Context, trigger *alert.Trigger) []string {
	allRooms, source := p.resolver.Resolve(ctx, trigger.BuildingID)
	if len(allRooms) == 0 {
		logger.Warn(ctx, "Building not found in topology")

		return nil
	}

	targetRooms := slices.DeleteFunc(slices.Clone(allRooms), func(room string) bool {
		return room == trigger.SourceRoomID
	})

	logger.InfoKV(ctx, "Policy evaluated",
		"topology_source", source,
		"total_rooms", len(allRooms),
		"target_rooms", len(targetRooms))

	if len(targetRooms) < len(allRooms) {
		logger.Info(ctx, "Source room excluded from targets")
	}

	return targetRooms
}

// reject finalises the record as FAILED with the reason text. A nil trigger means
// there is no record of this delivery to finalise.
func (p *Pipeline) reject(ctx context.Context, trigger *alert.Trigger, reason alert.RejectReason) Result {
	if trigger != nil {
		err := p.store.UpdateStatus(ctx, alert.StatusUpdate{
			AlertID:      trigger.AlertID,
			Status:       alert.StatusFailed,
			ProcessedAt:  p.now().UTC(),
			ErrorMessage: reason.Message(),
		})
		if err != nil {
			return p.fail(ctx, reason, fmt.Errorf("%w: record rejection: %w", ErrPersistence, err))
		}
	}

	metrics.TriggerRejected(string(reason))
	logger.InfoKV(ctx, "Alert rejected", "state", alert.StateFailed, "reason", reason.Message())

	return rejected(reason)
}

func (p *Pipeline) fail(ctx context.Context, reason alert.RejectReason, err error) Result {
	metrics.TriggerFatal()
	logger.ErrorKV(ctx, "Alert could not be persisted", "state", alert.StateFailed, "error", err)

	return fatal(reason, err)
}

func originOf(trigger *alert.Trigger) string {
	origin, err := alert.ParseOrigin(trigger.Origin)
	if err != nil {
		return trigger.Origin
	}

	return string(origin)
}
