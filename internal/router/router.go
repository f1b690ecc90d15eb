package router

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/oshokin/alert-router/internal/bus/mqtt"
	"github.com/oshokin/alert-router/internal/domain/alert"
	"github.com/oshokin/alert-router/internal/logger"
	"github.com/oshokin/alert-router/internal/metrics"
	"github.com/oshokin/alert-router/internal/pipeline"
)

// Topic defaults. Command topics are built per room.
const (
	DefaultTriggerTopic = "tenant/+/building/+/room/+/alert"
	DefaultStatusTopic  = "pa/+/status"
	DefaultClip         = "EMERGENCY_ALERT"

	defaultWorkers    = 8
	defaultQueueDepth = 1024
)

// ErrRouterStopped is returned by Start after Stop.
var ErrRouterStopped = errors.New("router is stopped")

// Publisher sends one message to the bus.
type Publisher interface {
	Publish(ctx context.Context, topic string, qos byte, retained bool, payload []byte) error
}

// Admitter is the rate limiter.
type Admitter interface {
	Admit(ctx context.Context, deviceID, tenantID string) bool
}

// Processor is the alert pipeline.
type Processor interface {
	Process(ctx context.Context, trigger *alert.Trigger, receivedAt time.Time) pipeline.Result
}

// Config holds the router settings.
type Config struct {
	TriggerTopic string `yaml:"trigger_topic"`
	StatusTopic  string `yaml:"status_topic"`
	Workers      int    `yaml:"workers"`
	QueueDepth   int    `yaml:"queue_depth"`
	// Clips maps an alert mode to the clip the PA service plays.
	Clips map[alert.Mode]string `yaml:"clips"`
	// DefaultClip is played for modes without an entry in Clips.
	DefaultClip string `yaml:"default_clip"`
}

// DeliveryStats are cumulative PA delivery counters.
type DeliveryStats struct {
	CommandsSent  int64
	PublishErrors int64
	Successes     int64
	Failures      int64
	SuccessRatio  float64
}

// triggerJob is one inbound trigger waiting for a worker.
type triggerJob struct {
	topic      string
	payload    []byte
	receivedAt time.Time
}

// Router decodes triggers, admits them, runs the pipeline and fans out play commands.
type Router struct {
	cfg       Config
	publisher Publisher
	limiter   Admitter
	pipeline  Processor
	now       func() time.Time

	mu   sync.Mutex
	pool *workerPool[triggerJob]

	commandsSent  atomic.Int64
	publishErrors atomic.Int64
	successes     atomic.Int64
	failures      atomic.Int64
}

// Option configures a Router.
type Option func(*Router)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(r *Router) {
		if now != nil {
			r.now = now
		}
	}
}

// New creates a router. Start must be called before messages are accepted.
func New(cfg Config, publisher Publisher, limiter Admitter, processor Processor, opts ...Option) *Router {
	applyDefaults(&cfg)

	r := &Router{
		cfg:       cfg,
		publisher: publisher,
		limiter:   limiter,
		pipeline:  processor,
		now:       time.Now,
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Start launches the worker pool. Workers keep running on a context detached from
// ctx's cancellation so queued triggers can still be published during shutdown.
func (r *Router) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.pool != nil {
		if r.pool.isClosed() {
			return ErrRouterStopped
		}

		return nil
	}

	workerCtx := logger.WithName(context.WithoutCancel(ctx), "router")
	r.pool = newWorkerPool(workerCtx, r.cfg.Workers, r.cfg.QueueDepth, func(ctx context.Context, job triggerJob) {
		r.HandleTrigger(ctx, job.topic, job.payload, job.receivedAt)
	})

	logger.InfoKV(ctx, "Router started", "workers", r.cfg.Workers, "queue_depth", r.cfg.QueueDepth)

	return nil
}

// Stop refuses new triggers and waits for the queued ones to finish.
func (r *Router) Stop() {
	r.mu.Lock()
	pool := r.pool
	r.mu.Unlock()

	if pool != nil {
		pool.Drain()
	}
}

// Subscriptions returns the topics the bus session must subscribe to.
// Triggers are at-least-once; acknowledgements are best effort.
func (r *Router) Subscriptions() []mqtt.Subscription {
	return []mqtt.Subscription{
		{Topic: r.cfg.TriggerTopic, QoS: mqtt.AtLeastOnce, Handler: r.EnqueueTrigger},
		{Topic: r.cfg.StatusTopic, QoS: mqtt.AtMostOnce, Handler: r.HandleStatus},
	}
}

// EnqueueTrigger hands an inbound trigger to the worker pool without blocking.
// A full queue drops the trigger; the sender owns re-publication.
func (r *Router) EnqueueTrigger(ctx context.Context, topic string, payload []byte) {
	r.mu.Lock()
	pool := r.pool
	r.mu.Unlock()

	job := triggerJob{
		topic:      topic,
		payload:    payload,
		receivedAt: r.now().UTC(),
	}

	if pool == nil || !pool.Submit(job) {
		metrics.Message(metrics.TypeAlert, metrics.StatusQueueFull)
		logger.WarnKV(ctx, "Trigger queue unavailable, dropping message", "topic", topic)
	}
}

// HandleTrigger processes one trigger message synchronously.
func (r *Router) HandleTrigger(ctx context.Context, topic string, payload []byte, receivedAt time.Time) {
	var trigger alert.Trigger
	if err := json.Unmarshal(payload, &trigger); err != nil {
		metrics.Message(metrics.TypeAlert, metrics.StatusParseError)
		logger.WarnKV(ctx, "Failed to decode alert trigger", "topic", topic, "error", err)

		return
	}

	metrics.Message(metrics.TypeAlert, metrics.StatusReceived)
	fillFromTopic(&trigger, topic)

	ctx = logger.WithKV(ctx, "alert_id", trigger.AlertID, "causal_chain_id", trigger.CausalChainID)
	logger.InfoKV(ctx, "Alert trigger received",
		"tenant_id", trigger.TenantID,
		"building_id", trigger.BuildingID,
		"source_room_id", trigger.SourceRoomID,
		"origin", trigger.Origin,
		"device_id", trigger.Device())

	if !r.limiter.Admit(ctx, trigger.Device(), trigger.TenantID) {
		metrics.Message(metrics.TypeAlert, metrics.StatusRateLimited)
		logger.WarnKV(ctx, "Rate limit exceeded, alert blocked",
			"device_id", trigger.Device(),
			"tenant_id", trigger.TenantID)

		return
	}

	result := r.pipeline.Process(ctx, &trigger, receivedAt)

	switch result.Outcome {
	case pipeline.OutcomeCompleted:
		r.fanOut(ctx, result.Event)
		metrics.Message(metrics.TypeAlert, metrics.StatusProcessed)
		metrics.ObserveTriggerLatency(r.now().Sub(receivedAt))
	case pipeline.OutcomeRejected:
		metrics.Message(metrics.TypeAlert, metrics.StatusRejected)
	case pipeline.OutcomeFatal:
		metrics.Message(metrics.TypeAlert, metrics.StatusFatal)
	}
}

// HandleStatus updates the delivery counters from one PA acknowledgement.
func (r *Router) HandleStatus(ctx context.Context, topic string, payload []byte) {
	var status alert.PlaybackStatus
	if err := json.Unmarshal(payload, &status); err != nil {
		metrics.Message(metrics.TypePAStatus, metrics.StatusParseError)
		logger.WarnKV(ctx, "Failed to decode PA status", "topic", topic, "error", err)

		return
	}

	switch {
	case status.IsSuccess():
		r.successes.Add(1)
	case status.IsFailure():
		r.failures.Add(1)
		logger.WarnKV(ctx, "PA playback failed",
			"alert_id", status.AlertID,
			"room_id", status.RoomID,
			"error", status.ErrorMessage)
	}

	metrics.Message(metrics.TypePAStatus, metrics.StatusReceived)

	if stats := r.DeliveryStats(); stats.CommandsSent > 0 {
		metrics.SetPlaybackSuccessRatio(stats.SuccessRatio)
	}

	logger.DebugKV(ctx, "PA status received",
		"alert_id", status.AlertID,
		"room_id", status.RoomID,
		"status", status.Status)
}

// DeliveryStats returns the cumulative delivery counters.
func (r *Router) DeliveryStats() DeliveryStats {
	stats := DeliveryStats{
		CommandsSent:  r.commandsSent.Load(),
		PublishErrors: r.publishErrors.Load(),
		Successes:     r.successes.Load(),
		Failures:      r.failures.Load(),
	}

	if stats.CommandsSent > 0 {
		stats.SuccessRatio = float64(stats.Successes) / float64(stats.CommandsSent)
	}

	return stats
}

// ClipFor returns the clip played for a mode.
func (r *Router) ClipFor(mode alert.Mode) string {
	if clip, ok := r.cfg.Clips[mode]; ok && clip != "" {
		return clip
	}

	return r.cfg.DefaultClip
}

// fanOut publishes one play command per target room concurrently.
func (r *Router) fanOut(ctx context.Context, event *alert.Event) {
	logger.InfoKV(ctx, "Fanning out PA commands", "target_rooms", len(event.TargetRooms))

	clip := r.ClipFor(event.Mode)

	var wg sync.WaitGroup

	for _, roomID := range event.TargetRooms {
		wg.Go(func() {
			r.publishCommand(ctx, event, roomID, clip)
		})
	}

	wg.Wait()
}

func (r *Router) publishCommand(ctx context.Context, event *alert.Event, roomID, clip string) {
	command := alert.PlayCommand{
		AlertID:       event.AlertID,
		RoomID:        roomID,
		ClipRef:       clip,
		Mode:          event.Mode,
		Timestamp:     r.now().UTC().Format(time.RFC3339Nano),
		CausalChainID: event.CausalChainID,
	}

	payload, err := json.Marshal(command)
	if err != nil {
		r.publishErrors.Add(1)
		metrics.Message(metrics.TypePACommand, metrics.StatusError)
		logger.ErrorKV(ctx, "Failed to encode PA command", "room_id", roomID, "error", err)

		return
	}

	topic := CommandTopic(roomID)

	if err = r.publisher.Publish(ctx, topic, mqtt.AtLeastOnce, false, payload); err != nil {
		r.publishErrors.Add(1)
		metrics.Message(metrics.TypePACommand, metrics.StatusError)
		logger.ErrorKV(ctx, "Failed to publish PA command", "room_id", roomID, "topic", topic, "error", err)

		return
	}

	r.commandsSent.Add(1)
	metrics.Message(metrics.TypePACommand, metrics.StatusSent)
	logger.InfoKV(ctx, "PA command sent", "room_id", roomID, "topic", topic)
}

// TriggerTopic is the topic a device in a room publishes triggers to.
func TriggerTopic(tenantID, buildingID, roomID string) string {
	return "tenant/" + tenantID + "/building/" + buildingID + "/room/" + roomID + "/alert"
}

// CommandTopic is the play topic of a room.
func CommandTopic(roomID string) string {
	return "pa/" + roomID + "/play"
}

// fillFromTopic completes missing identifiers from tenant/{t}/building/{b}/room/{r}/alert.
func fillFromTopic(trigger *alert.Trigger, topic string) {
	parts := strings.Split(topic, "/")
	if len(parts) != 7 || parts[0] != "tenant" || parts[2] != "building" || parts[4] != "room" {
		return
	}

	if trigger.TenantID == "" {
		trigger.TenantID = parts[1]
	}

	if trigger.BuildingID == "" {
		trigger.BuildingID = parts[3]
	}

	if trigger.SourceRoomID == "" {
		trigger.SourceRoomID = parts[5]
	}
}

func applyDefaults(cfg *Config) {
	if cfg.TriggerTopic == "" {
		cfg.TriggerTopic = DefaultTriggerTopic
	}

	if cfg.StatusTopic == "" {
		cfg.StatusTopic = DefaultStatusTopic
	}

	if cfg.Workers <= 0 {
		cfg.Workers = defaultWorkers
	}

	if cfg.QueueDepth <= 0 {
		cfg.QueueDepth = defaultQueueDepth
	}

	if cfg.DefaultClip == "" {
		cfg.DefaultClip = DefaultClip
	}
}
