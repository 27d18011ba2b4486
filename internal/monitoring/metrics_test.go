package monitoring

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsCounters(t *testing.T) {
	m := NewMetrics()

	m.IncrementRequest()
	m.IncrementRequest()
	m.IncrementError()
	m.IncrementCacheHit()
	m.IncrementCacheMiss()
	m.IncrementScoring()
	m.IncrementScoringFailure()
	m.IncrementAlert()

	stats := m.GetStats()
	assert.Equal(t, int64(2), stats["total_requests"])
	assert.Equal(t, int64(1), stats["error_count"])
	assert.Equal(t, int64(1), stats["scoring_count"])
	assert.Equal(t, int64(1), stats["scoring_failures"])
	assert.Equal(t, int64(1), stats["alert_count"])
}

func TestMetricsPercentiles(t *testing.T) {
	m := NewMetrics()

	for i := 1; i <= 100; i++ {
		m.RecordResponseTime(time.Duration(i) * time.Millisecond)
	}

	p50 := m.GetPercentileResponseTime(50)
	p99 := m.GetPercentileResponseTime(99)
	assert.Greater(t, p99, p50)
	assert.InDelta(t, float64(50*time.Millisecond), float64(p50), float64(5*time.Millisecond))
}

func TestMetricsStatusCodeDistribution(t *testing.T) {
	m := NewMetrics()

	m.RecordRequestByStatus(200)
	m.RecordRequestByStatus(200)
	m.RecordRequestByStatus(404)

	dist := m.GetStatusCodeDistribution()
	assert.Equal(t, int64(2), dist[200])
	assert.Equal(t, int64(1), dist[404])
}

func TestMetricsRateLimitStats(t *testing.T) {
	m := NewMetrics()

	m.IncrementRateLimitIPBlock()
	m.IncrementRateLimitUserBlock()
	m.IncrementRateLimitFallback()
	m.IncrementRateLimitEndpoint("/api/risk/predict")

	rl := m.GetRateLimitStats()
	assert.Equal(t, int64(1), rl["ip_blocks"])
	assert.Equal(t, int64(1), rl["user_blocks"])
	assert.Equal(t, int64(1), rl["fallback_count"])

	stats := m.GetStats()
	require.Contains(t, stats, "rate_limit_stats")
}

func TestMetricsReset(t *testing.T) {
	m := NewMetrics()

	m.IncrementRequest()
	m.RecordResponseTime(10 * time.Millisecond)
	m.Reset()

	stats := m.GetStats()
	assert.Equal(t, int64(0), stats["total_requests"])
	assert.Equal(t, time.Duration(0), m.GetPercentileResponseTime(50))
}
