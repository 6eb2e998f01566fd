// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Processing stages used as error-counter labels.
const (
	StageDecode  = "process"
	StageClaim   = "claim"
	StageProject = "project"
	StageFetch   = "fetch"
)

// Metrics holds all Prometheus metrics for the indexer.
type Metrics struct {
	// Projection metrics
	EventsProcessed    *prometheus.CounterVec
	EventsSkipped      *prometheus.CounterVec
	UnknownEvents      *prometheus.CounterVec
	ProcessingDuration *prometheus.HistogramVec
	ProcessingErrors   *prometheus.CounterVec

	// Consumer metrics
	MessagesFetched   prometheus.Counter
	MessagesAcked     prometheus.Counter
	LastFetchUnixtime prometheus.Gauge
	ConsumerRecreated prometheus.Counter
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "vault_indexer"
	}

	return &Metrics{
		EventsProcessed: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "projection",
			Name:      "events_processed_total",
			Help:      "Total number of events projected, by event type and network",
		}, []string{"event_type", "network"}),
		EventsSkipped: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "projection",
			Name:      "events_skipped_total",
			Help:      "Total number of redelivered events skipped by the idempotency marker",
		}, []string{"network"}),
		UnknownEvents: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "projection",
			Name:      "unknown_events_total",
			Help:      "Total number of events with an unrecognized type, audit-logged only",
		}, []string{"network"}),
		ProcessingDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "projection",
			Name:      "processing_duration_seconds",
			Help:      "Per-message processing latency in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"event_type"}),
		ProcessingErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "projection",
			Name:      "errors_total",
			Help:      "Total number of processing errors by stage and reason",
		}, []string{"stage", "reason"}),

		MessagesFetched: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "consumer",
			Name:      "messages_fetched_total",
			Help:      "Total number of messages fetched from the stream",
		}),
		MessagesAcked: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "consumer",
			Name:      "messages_acked_total",
			Help:      "Total number of messages acknowledged",
		}),
		LastFetchUnixtime: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "consumer",
			Name:      "last_fetch_timestamp",
			Help:      "Unix timestamp of the last successful batch fetch",
		}),
		ConsumerRecreated: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "consumer",
			Name:      "recreated_total",
			Help:      "Times the durable consumer was deleted and recreated on filter mismatch",
		}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("")

// RecordEventProcessed increments the processed counter for one event.
func RecordEventProcessed(eventType, network string) {
	DefaultMetrics.EventsProcessed.WithLabelValues(eventType, network).Inc()
}

// RecordEventSkipped increments the skipped counter for a redelivered event.
func RecordEventSkipped(network string) {
	DefaultMetrics.EventsSkipped.WithLabelValues(network).Inc()
}

// RecordUnknownEvent increments the unknown-type counter.
func RecordUnknownEvent(network string) {
	DefaultMetrics.UnknownEvents.WithLabelValues(network).Inc()
}

// RecordProcessingDuration records one message's processing latency.
func RecordProcessingDuration(eventType string, seconds float64) {
	DefaultMetrics.ProcessingDuration.WithLabelValues(eventType).Observe(seconds)
}

// RecordError records a processing error by stage and reason.
func RecordError(stage, reason string) {
	DefaultMetrics.ProcessingErrors.WithLabelValues(stage, reason).Inc()
}

// RecordFetch records a successful batch fetch of n messages.
func RecordFetch(n int, unixtime int64) {
	DefaultMetrics.MessagesFetched.Add(float64(n))
	DefaultMetrics.LastFetchUnixtime.Set(float64(unixtime))
}

// RecordAck increments the acknowledged-message counter.
func RecordAck() {
	DefaultMetrics.MessagesAcked.Inc()
}

// RecordConsumerRecreated counts a delete-and-recreate of the durable consumer.
func RecordConsumerRecreated() {
	DefaultMetrics.ConsumerRecreated.Inc()
}
