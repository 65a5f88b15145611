// Package metrics exposes engine and HTTP counters to Prometheus.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/dgallion1/freewrite/internal/editor"
)

const namespace = "freewrite"

// Metrics implements editor.Recorder.
type Metrics struct {
	staged        *prometheus.CounterVec
	dropped       *prometheus.CounterVec
	resolved      *prometheus.CounterVec
	stageDuration *prometheus.HistogramVec
	requests      *prometheus.CounterVec
	reqDuration   *prometheus.HistogramVec
}

// New registers the collectors on reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		staged: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "suggestions_staged_total",
			Help:      "Suggestions staged in the document, by kind",
		}, []string{"kind"}),
		dropped: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "suggestions_dropped_total",
			Help:      "Suggestions dropped before staging, by kind and reason",
		}, []string{"kind", "reason"}),
		resolved: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "edits_resolved_total",
			Help:      "Staged edits accepted or declined",
		}, []string{"action"}),
		stageDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "stage_duration_seconds",
			Help:      "Time to walk one edit from located to staged",
			Buckets:   []float64{0.01, 0.1, 0.5, 1, 2, 5, 10},
		}, []string{"kind"}),
		requests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by route and status",
		}, []string{"method", "route", "status"}),
		reqDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by route",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
}

func (m *Metrics) SuggestionStaged(kind editor.Kind) {
	m.staged.WithLabelValues(string(kind)).Inc()
}

func (m *Metrics) SuggestionDropped(kind editor.Kind, reason string) {
	m.dropped.WithLabelValues(string(kind), reason).Inc()
}

func (m *Metrics) EditsResolved(action string, n int) {
	m.resolved.WithLabelValues(action).Add(float64(n))
}

func (m *Metrics) StageDuration(kind editor.Kind, d time.Duration) {
	m.stageDuration.WithLabelValues(string(kind)).Observe(d.Seconds())
}

// ObserveRequest records one HTTP request.
func (m *Metrics) ObserveRequest(method, route string, status int, d time.Duration) {
	m.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.reqDuration.WithLabelValues(method, route).Observe(d.Seconds())
}
