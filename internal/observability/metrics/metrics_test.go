package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestReportMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewReportMetrics(reg)

	m.IncRequest("recoverability", 200)
	m.IncRequest("recoverability", 200)
	m.IncRequest("Profitability", 400)
	m.IncCacheHit("recoverability")
	m.IncCacheMiss("recoverability")
	m.ObserveBuild("recoverability", 50*time.Millisecond)

	assert.Equal(t, float64(2), testutil.ToFloat64(m.requests.WithLabelValues("recoverability", "200")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.requests.WithLabelValues("profitability", "400")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.cacheHits.WithLabelValues("recoverability")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.cacheMisses.WithLabelValues("recoverability")))
}

func TestReportMetricsNilSafe(t *testing.T) {
	var m *ReportMetrics
	m.IncRequest("recoverability", 200)
	m.IncCacheHit("recoverability")
	m.IncCacheMiss("recoverability")
	m.ObserveBuild("recoverability", time.Millisecond)
}
