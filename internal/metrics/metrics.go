// Package metrics holds the Prometheus instrument set for the atlas.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const namespace = "atlas"

// Metrics bundles every instrument the service records, on its own registry
// so tests can create isolated sets.
type Metrics struct {
	Registry *prometheus.Registry

	FetchTotal     *prometheus.CounterVec
	FetchDuration  *prometheus.HistogramVec
	FeaturesLoaded *prometheus.GaugeVec
	RecomputeTime  prometheus.Histogram
	HTTPRequests   *prometheus.CounterVec
	HTTPDuration   *prometheus.HistogramVec
}

// New creates a registry with the atlas instrument set plus the standard
// Go and process collectors.
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		FetchTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fetch_total",
			Help:      "Dataset fetch attempts by source and outcome.",
		}, []string{"source", "outcome"}),
		FetchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "fetch_duration_seconds",
			Help:      "Dataset fetch duration by source.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"source"}),
		FeaturesLoaded: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "features_loaded",
			Help:      "Features currently loaded per source.",
		}, []string{"source"}),
		RecomputeTime: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "recompute_duration_seconds",
			Help:      "Filter/statistics/render-plan recompute duration.",
			Buckets:   []float64{.0005, .001, .005, .01, .05, .1, .5},
		}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, path, and status.",
		}, []string{"method", "path", "status"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration by path.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"path"}),
	}

	m.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.FetchTotal, m.FetchDuration, m.FeaturesLoaded,
		m.RecomputeTime, m.HTTPRequests, m.HTTPDuration,
	)
	return m
}
