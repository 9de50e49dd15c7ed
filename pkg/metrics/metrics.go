package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the concierge's Prometheus collectors. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	WebhookRequestsTotal   *prometheus.CounterVec
	WebhookDurationSeconds prometheus.Histogram

	TransportRequestsTotal *prometheus.CounterVec

	CacheHitsTotal   *prometheus.CounterVec
	CacheMissesTotal *prometheus.CounterVec

	DispatchRunsTotal       *prometheus.CounterVec
	DispatchDeliveriesTotal *prometheus.CounterVec
}

func New(registry *prometheus.Registry) *Metrics {
	return &Metrics{
		WebhookRequestsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "concierge_webhook_events_total",
				Help: "Inbound chat events by terminal state",
			},
			[]string{"state"}, // done, rejected_no_greeting, rejected_not_found, failed
		),

		WebhookDurationSeconds: promauto.With(registry).NewHistogram(
			prometheus.HistogramOpts{
				Name:    "concierge_webhook_duration_seconds",
				Help:    "Time spent processing one inbound event",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
			},
		),

		TransportRequestsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "concierge_transport_requests_total",
				Help: "Messaging provider calls by message kind and status",
			},
			[]string{"kind", "status"}, // status: sent, submitted, scheduled, error
		),

		CacheHitsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "concierge_cache_hits_total",
				Help: "Cache hits by module",
			},
			[]string{"module"},
		),

		CacheMissesTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "concierge_cache_misses_total",
				Help: "Cache misses by module",
			},
			[]string{"module"},
		),

		DispatchRunsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "concierge_dispatch_runs_total",
				Help: "Outbox dispatcher runs by outcome",
			},
			[]string{"outcome"}, // idle, ok, partial, all_failed, error
		),

		DispatchDeliveriesTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "concierge_dispatch_deliveries_total",
				Help: "Outbox deliveries processed by status",
			},
			[]string{"status"},
		),
	}
}

func (m *Metrics) RecordWebhook(state string, duration float64) {
	if m == nil {
		return
	}
	m.WebhookRequestsTotal.WithLabelValues(state).Inc()
	m.WebhookDurationSeconds.Observe(duration)
}

func (m *Metrics) RecordTransport(kind, status string) {
	if m == nil {
		return
	}
	m.TransportRequestsTotal.WithLabelValues(kind, status).Inc()
}

func (m *Metrics) RecordCacheHit(module string) {
	if m == nil {
		return
	}
	m.CacheHitsTotal.WithLabelValues(module).Inc()
}

func (m *Metrics) RecordCacheMiss(module string) {
	if m == nil {
		return
	}
	m.CacheMissesTotal.WithLabelValues(module).Inc()
}

func (m *Metrics) RecordDispatch(outcome string, sent, failed int) {
	if m == nil {
		return
	}
	m.DispatchRunsTotal.WithLabelValues(outcome).Inc()
	m.DispatchDeliveriesTotal.WithLabelValues("sent").Add(float64(sent))
	m.DispatchDeliveriesTotal.WithLabelValues("failed").Add(float64(failed))
}
