package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.Request("now_playing", "found")
	m.Request("now_playing", "found")
	m.Request("on_demand", "not_found")
	m.FetchFailed("status")
	m.DurationFallback()
	m.ObserveFetch(120 * time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.requests.WithLabelValues("now_playing", "found")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("on_demand", "not_found")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.feedFailures.WithLabelValues("status")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.durationFallbacks))

	rr := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, strings.Contains(rr.Body.String(), "audioreader_feed_fetch_seconds_count 1"))
}

func TestMetrics_Nil(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.Request("x", "y")
		m.ObserveFetch(time.Second)
		m.FetchFailed("x")
		m.DurationFallback()
	})
}
