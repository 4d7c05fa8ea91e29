package metrics

import (
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveRebuild(t *testing.T) {
	m := New()
	m.ObserveRebuild("forced", 2*time.Second, nil, 42)
	m.ObserveRebuild("forced", time.Second, errors.New("disk full"), 42)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Rebuilds.WithLabelValues("forced", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Rebuilds.WithLabelValues("forced", "error")))
	assert.Equal(t, 42.0, testutil.ToFloat64(m.AppsIndexed))
}

func TestObserveLaunch(t *testing.T) {
	m := New()
	m.ObserveLaunch(nil)
	m.ObserveLaunch(nil)
	m.ObserveLaunch(errors.New("not found"))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Launches.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Launches.WithLabelValues("error")))
}

func TestIndependentRegistries(t *testing.T) {
	a, b := New(), New()
	a.Searches.Inc()
	assert.Equal(t, 1.0, testutil.ToFloat64(a.Searches))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.Searches))
}

func TestHandler(t *testing.T) {
	m := New()
	m.DroppedRequests.Inc()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(body), "appdex_refresh_requests_dropped_total 1"), string(body))
}
