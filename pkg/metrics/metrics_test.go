package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Observe(t *testing.T) {
	m := New("test", func() int { return 3 })

	m.ObserveRequest(http.MethodGet, "/api/v1/members/:memberId", 200, 10*time.Millisecond)
	m.ObserveToggle(true)
	m.ObserveToggle(true)
	m.ObserveToggle(false)
	m.ObserveInvalidation(time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "/api/v1/members/:memberId", "200")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.FollowTogglesTotal.WithLabelValues("followed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.FollowTogglesTotal.WithLabelValues("unfollowed")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.InvalidationQueue))
}

func TestMetrics_Handler(t *testing.T) {
	m := New("test", nil)
	m.ObserveToggle(true)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `test_follow_toggles_total{result="followed"} 1`)
	assert.Contains(t, rec.Body.String(), "test_stats_invalidation_queue_length 0")
}
