package metrics

import (
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// ReportMetrics instruments the reporting engine.
type ReportMetrics struct {
	requests      *prometheus.CounterVec
	buildDuration *prometheus.HistogramVec
	cacheHits     *prometheus.CounterVec
	cacheMisses   *prometheus.CounterVec
}

// NewReportMetrics registers the reporting instruments on the given registerer.
func NewReportMetrics(reg prometheus.Registerer) *ReportMetrics {
	m := &ReportMetrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ledgerline_report_requests_total",
			Help: "Report requests by kind and HTTP status.",
		}, []string{"kind", "status"}),
		buildDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "ledgerline_report_build_seconds",
			Help:    "Wall time spent building a report, cache misses only.",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 12),
		}, []string{"kind"}),
		cacheHits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ledgerline_report_cache_hits_total",
			Help: "Report cache hits by kind.",
		}, []string{"kind"}),
		cacheMisses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ledgerline_report_cache_misses_total",
			Help: "Report cache misses by kind.",
		}, []string{"kind"}),
	}
	reg.MustRegister(m.requests, m.buildDuration, m.cacheHits, m.cacheMisses)
	return m
}

func (m *ReportMetrics) IncRequest(kind string, status int) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(normalize(kind), strconv.Itoa(status)).Inc()
}

func (m *ReportMetrics) ObserveBuild(kind string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.buildDuration.WithLabelValues(normalize(kind)).Observe(elapsed.Seconds())
}

func (m *ReportMetrics) IncCacheHit(kind string) {
	if m == nil {
		return
	}
	m.cacheHits.WithLabelValues(normalize(kind)).Inc()
}

func (m *ReportMetrics) IncCacheMiss(kind string) {
	if m == nil {
		return
	}
	m.cacheMisses.WithLabelValues(normalize(kind)).Inc()
}

func normalize(kind string) string {
	kind = strings.ToLower(strings.TrimSpace(kind))
	if kind == "" {
		return "unknown"
	}
	return kind
}
