// Package metrics exposes Prometheus instrumentation for reorders and the
// HTTP surface.
package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "laneboard"

// Reorder outcomes.
const (
	OutcomeMoved    = "moved"
	OutcomeNoop     = "noop"
	OutcomeNotFound = "not_found"
	OutcomeError    = "error"
)

// Registry holds every laneboard collector. It is separate from the global
// default registry so tests can gather it in isolation.
var Registry = prometheus.NewRegistry()

var (
	reorderCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ranking",
			Name:      "reorders_total",
			Help:      "Count of reorder requests by outcome.",
		},
		[]string{"outcome"},
	)
	reorderDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "ranking",
			Name:      "reorder_duration_seconds",
			Help:      "Time spent applying a reorder, including the snapshot read.",
			Buckets:   []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
		[]string{"outcome"},
	)
	rejectedInputCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ranking",
			Name:      "rejected_inputs_total",
			Help:      "Count of reorder inputs ignored because they failed validation.",
		},
		[]string{"kind"},
	)
	httpRequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Count of HTTP requests by route and status code.",
		},
		[]string{"route", "code"},
	)
	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"route"},
	)
	laneSizeGauge = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "clients",
			Name:      "lane_size",
			Help:      "Number of clients in each lane as of the last snapshot.",
		},
		[]string{"lane"},
	)
)

var registerMetrics sync.Once

// Register all metrics.
func Register() {
	registerMetrics.Do(func() {
		Registry.MustRegister(reorderCounter)
		Registry.MustRegister(reorderDuration)
		Registry.MustRegister(rejectedInputCounter)
		Registry.MustRegister(httpRequestCounter)
		Registry.MustRegister(httpRequestDuration)
		Registry.MustRegister(laneSizeGauge)
		Registry.MustRegister(collectors.NewGoCollector())
		Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	})
}

// Handler serves the registry in the Prometheus exposition format.
func Handler() http.Handler {
	Register()
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// RecordReorder records one reorder attempt and its latency.
func RecordReorder(outcome string, elapsed time.Duration) {
	reorderCounter.WithLabelValues(outcome).Inc()
	reorderDuration.WithLabelValues(outcome).Observe(elapsed.Seconds())
}

// RecordRejectedInput records a reorder input that was ignored.
func RecordRejectedInput(kind string) {
	rejectedInputCounter.WithLabelValues(kind).Inc()
}

// RecordHTTPRequest records a served request.
func RecordHTTPRequest(route string, code int, elapsed time.Duration) {
	httpRequestCounter.WithLabelValues(route, statusLabel(code)).Inc()
	httpRequestDuration.WithLabelValues(route).Observe(elapsed.Seconds())
}

// SetLaneSizes publishes the member count of every lane.
func SetLaneSizes(sizes map[string]int) {
	for lane, size := range sizes {
		laneSizeGauge.WithLabelValues(lane).Set(float64(size))
	}
}

func statusLabel(code int) string {
	if code <= 0 {
		code = http.StatusOK
	}
	return strconv.Itoa(code)
}
