// Package metrics holds the Prometheus collectors exported by the alert router.
package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "alert_router"

// Message types and statuses used as labels on MessagesTotal.
const (
	TypeAlert     = "alert"
	TypePACommand = "pa_command"
	TypePAStatus  = "pa_status"

	StatusReceived    = "received"
	StatusParseError  = "parse_error"
	StatusRateLimited = "rate_limited"
	StatusRejected    = "rejected"
	StatusFatal       = "fatal"
	StatusProcessed   = "processed"
	StatusQueueFull   = "queue_full"
	StatusSent        = "sent"
	StatusError       = "error"
)

// Pipeline stages used as labels on TriggersTotal.
const (
	StageReceived  = "received"
	StageValidated = "validated"
	StageProcessed = "processed"
)

var (
	triggersTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "triggers_total",
			Help:      "Alert triggers that reached a pipeline stage.",
		},
		[]string{"stage"},
	)

	triggersRejectedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "triggers_rejected_total",
			Help:      "Alert triggers rejected by the pipeline, partitioned by reason.",
		},
		[]string{"reason"},
	)

	triggersFatalTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "triggers_fatal_total",
			Help:      "Alert triggers abandoned because their record could not be persisted.",
		},
	)

	rateLimitChecksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rate_limit_checks_total",
			Help:      "Rate limit checks, partitioned by scope and result.",
		},
		[]string{"scope", "result"},
	)

	rateLimitedActive = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "rate_limited_active",
			Help:      "Buckets currently in cooldown, partitioned by scope.",
		},
		[]string{"scope"},
	)

	messagesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "mqtt_messages_total",
			Help:      "Bus messages handled, partitioned by type and status.",
		},
		[]string{"type", "status"},
	)

	triggerLatencySeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "trigger_latency_seconds",
			Help:      "Time from trigger receipt to the last PA command published.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 12),
		},
	)

	pipelineLatencySeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "pipeline_latency_seconds",
			Help:      "Time from trigger receipt to the routing decision.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12),
		},
	)

	dedupHitsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dedup_hits_total",
			Help:      "Triggers collapsed by the deduplicator.",
		},
	)

	dedupCacheSize = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "dedup_cache_size",
			Help:      "Entries currently held by the deduplicator.",
		},
	)

	dedupIntervalSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "dedup_interval_seconds",
			Help:      "Gap between a duplicate trigger and the trigger it collapsed into.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.8},
		},
	)

	topologyLookupsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "topology_lookups_total",
			Help:      "Topology lookups, partitioned by the source that answered.",
		},
		[]string{"source"},
	)

	playbackSuccessRatio = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "pa_playback_success_ratio",
			Help:      "Successful PA acknowledgements divided by PA commands sent.",
		},
	)

	brokerConnected = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "broker_connected",
			Help:      "1 while the MQTT session is up.",
		},
	)
)

// Register attaches alert router collectors to the supplied Prometheus registerer.
func Register(reg prometheus.Registerer) error {
	collectors := []prometheus.Collector{
		triggersTotal,
		triggersRejectedTotal,
		triggersFatalTotal,
		rateLimitChecksTotal,
		rateLimitedActive,
		messagesTotal,
		triggerLatencySeconds,
		pipelineLatencySeconds,
		dedupHitsTotal,
		dedupCacheSize,
		dedupIntervalSeconds,
		topologyLookupsTotal,
		playbackSuccessRatio,
		brokerConnected,
	}

	for _, collector := range collectors {
		if err := reg.Register(collector); err != nil {
			var already prometheus.AlreadyRegisteredError
			if errors.As(err, &already) {
				continue
			}

			return err
		}
	}

	return nil
}

// TriggerStage counts a trigger reaching a pipeline stage.
func TriggerStage(stage string) {
	triggersTotal.WithLabelValues(stage).Inc()
}

// TriggerRejected counts a pipeline rejection.
func TriggerRejected(reason string) {
	triggersRejectedTotal.WithLabelValues(reason).Inc()
}

// TriggerFatal counts a trigger abandoned on a persistence failure.
func TriggerFatal() {
	triggersFatalTotal.Inc()
}

// RateLimitCheck counts one admission decision.
func RateLimitCheck(scope, result string) {
	rateLimitChecksTotal.WithLabelValues(scope, result).Inc()
}

// SetRateLimited publishes the number of buckets in cooldown for a scope.
func SetRateLimited(scope string, n int) {
	rateLimitedActive.WithLabelValues(scope).Set(float64(n))
}

// Message counts one bus message.
func Message(msgType, status string) {
	messagesTotal.WithLabelValues(msgType, status).Inc()
}

// ObserveTriggerLatency records the receipt-to-publish latency.
func ObserveTriggerLatency(d time.Duration) {
	triggerLatencySeconds.Observe(nonNegative(d).Seconds())
}

// ObservePipelineLatency records the receipt-to-decision latency.
func ObservePipelineLatency(d time.Duration) {
	pipelineLatencySeconds.Observe(nonNegative(d).Seconds())
}

// DedupHit counts a collapsed trigger and the gap to its original.
func DedupHit(gap time.Duration) {
	dedupHitsTotal.Inc()
	dedupIntervalSeconds.Observe(nonNegative(gap).Seconds())
}

// SetDedupCacheSize publishes the deduplicator size.
func SetDedupCacheSize(n int) {
	dedupCacheSize.Set(float64(n))
}

// TopologyLookup counts which topology source answered.
func TopologyLookup(source string) {
	topologyLookupsTotal.WithLabelValues(source).Inc()
}

// SetPlaybackSuccessRatio publishes the cumulative PA success ratio.
func SetPlaybackSuccessRatio(ratio float64) {
	playbackSuccessRatio.Set(ratio)
}

// SetBrokerConnected flips the broker connectivity gauge.
func SetBrokerConnected(connected bool) {
	if connected {
		brokerConnected.Set(1)
		return
	}

	brokerConnected.Set(0)
}

func nonNegative(d time.Duration) time.Duration {
	if d < 0 {
		return 0
	}

	return d
}
