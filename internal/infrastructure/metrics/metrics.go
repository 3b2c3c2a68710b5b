package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// CoreMetrics covers the client core: realtime session traffic, state
// machine activity and reconciliation fetches. Constructed once in the
// host binary; a nil *CoreMetrics is a no-op everywhere so tests and
// embedders can skip it.
type CoreMetrics struct {
	// Realtime session
	SocketEventsTotal   prometheus.CounterVec
	SocketEmitsTotal    prometheus.CounterVec
	EmitsDroppedTotal   prometheus.Counter
	SessionsOpenedTotal prometheus.Counter

	// Order state machine
	TransitionsAppliedTotal  prometheus.CounterVec
	TransitionsRejectedTotal prometheus.CounterVec
	AutoCompletesFiredTotal  prometheus.Counter
	ConflictResyncsTotal     prometheus.Counter

	// Reconciliation
	RefetchesTotal     prometheus.CounterVec
	APIRequestDuration prometheus.HistogramVec

	// Notifications
	NotificationsDedupedTotal prometheus.Counter
}

func NewCoreMetrics() *CoreMetrics {
	return &CoreMetrics{
		SocketEventsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "socket_events_received_total",
				Help: "Inbound realtime events by event name",
			},
			[]string{"event"},
		),
		SocketEmitsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "socket_emits_total",
				Help: "Outbound realtime emits by event name",
			},
			[]string{"event"},
		),
		EmitsDroppedTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "socket_emits_dropped_total",
				Help: "Emits dropped because the session was disconnected",
			},
		),
		SessionsOpenedTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "socket_sessions_opened_total",
				Help: "Realtime sessions established",
			},
		),
		TransitionsAppliedTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "order_transitions_applied_total",
				Help: "Order lifecycle transitions applied, by target status",
			},
			[]string{"to"},
		),
		TransitionsRejectedTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "order_transitions_rejected_total",
				Help: "Order lifecycle transitions rejected, by target status",
			},
			[]string{"to"},
		),
		AutoCompletesFiredTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "order_auto_completes_fired_total",
				Help: "Orders auto-completed after the grace window",
			},
		),
		ConflictResyncsTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "order_conflict_resyncs_total",
				Help: "Resyncs forced by server-side conflicts",
			},
		),
		RefetchesTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "refetches_total",
				Help: "Full refetches triggered for reconciliation, by resource",
			},
			[]string{"resource"},
		),
		APIRequestDuration: *promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "api_request_duration_seconds",
				Help:    "REST collaborator request latency",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		NotificationsDedupedTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "notifications_deduped_total",
				Help: "Duplicate notification events suppressed within a session",
			},
		),
	}
}

func (m *CoreMetrics) SocketEvent(event string) {
	if m == nil {
		return
	}
	m.SocketEventsTotal.WithLabelValues(event).Inc()
}

func (m *CoreMetrics) SocketEmit(event string) {
	if m == nil {
		return
	}
	m.SocketEmitsTotal.WithLabelValues(event).Inc()
}

func (m *CoreMetrics) EmitDropped() {
	if m == nil {
		return
	}
	m.EmitsDroppedTotal.Inc()
}

func (m *CoreMetrics) SessionOpened() {
	if m == nil {
		return
	}
	m.SessionsOpenedTotal.Inc()
}

func (m *CoreMetrics) TransitionApplied(to string) {
	if m == nil {
		return
	}
	m.TransitionsAppliedTotal.WithLabelValues(to).Inc()
}

func (m *CoreMetrics) TransitionRejected(to string) {
	if m == nil {
		return
	}
	m.TransitionsRejectedTotal.WithLabelValues(to).Inc()
}

func (m *CoreMetrics) AutoCompleteFired() {
	if m == nil {
		return
	}
	m.AutoCompletesFiredTotal.Inc()
}

func (m *CoreMetrics) ConflictResync() {
	if m == nil {
		return
	}
	m.ConflictResyncsTotal.Inc()
}

func (m *CoreMetrics) Refetch(resource string) {
	if m == nil {
		return
	}
	m.RefetchesTotal.WithLabelValues(resource).Inc()
}

func (m *CoreMetrics) ObserveAPIRequest(method, path string, seconds float64) {
	if m == nil {
		return
	}
	m.APIRequestDuration.WithLabelValues(method, path).Observe(seconds)
}

func (m *CoreMetrics) NotificationDeduped() {
	if m == nil {
		return
	}
	m.NotificationsDedupedTotal.Inc()
}
