package metrics

import "github.com/prometheus/client_golang/prometheus"

// UpstreamMetrics exposes counters/histograms for calls against the agenda
// backend and for the per-entity response caches.
type UpstreamMetrics struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	cacheEvents     *prometheus.CounterVec
}

func NewUpstreamMetrics(reg prometheus.Registerer) *UpstreamMetrics {
	m := &UpstreamMetrics{
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "agenda",
			Subsystem: "upstream",
			Name:      "requests_total",
			Help:      "Total requests issued to the agenda backend",
		}, []string{"entity", "outcome"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "agenda",
			Subsystem: "upstream",
			Name:      "request_duration_seconds",
			Help:      "Latency of agenda backend requests",
			Buckets:   prometheus.DefBuckets,
		}, []string{"entity"}),
		cacheEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "agenda",
			Subsystem: "cache",
			Name:      "events_total",
			Help:      "Per-entity response cache hits, misses and invalidations",
		}, []string{"entity", "event"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.requestsTotal, m.requestDuration, m.cacheEvents)
	return m
}

func (m *UpstreamMetrics) ObserveRequest(entity, outcome string, seconds float64) {
	if m == nil {
		return
	}
	m.requestsTotal.WithLabelValues(entity, outcome).Inc()
	m.requestDuration.WithLabelValues(entity).Observe(seconds)
}

func (m *UpstreamMetrics) ObserveCache(entity, event string) {
	if m == nil {
		return
	}
	m.cacheEvents.WithLabelValues(entity, event).Inc()
}
