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

func TestProvider_Counters(t *testing.T) {
	p := NewProvider(func() float64 { return 3 })

	p.ObserveFetch("ok", 120*time.Millisecond)
	p.ObserveFetch("ok", 80*time.Millisecond)
	p.ObserveFetch("transport", time.Second)
	p.IncCacheHits()
	p.IncCacheMisses()
	p.IncCacheMisses()
	p.IncFavouriteOp("add", true)
	p.IncFavouriteOp("add", false)
	p.IncRequestsTotal("/api/apod", 200)
	p.IncRequestsTotal("/api/apod", 503)
	p.ObserveRequestDuration("/api/apod", 10*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(p.fetchTotal.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(p.fetchTotal.WithLabelValues("transport")))
	assert.Equal(t, 1.0, testutil.ToFloat64(p.cacheHits))
	assert.Equal(t, 2.0, testutil.ToFloat64(p.cacheMisses))
	assert.Equal(t, 1.0, testutil.ToFloat64(p.favouriteOps.WithLabelValues("add", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(p.favouriteOps.WithLabelValues("add", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(p.requestsTotal.WithLabelValues("/api/apod", "2xx")))
	assert.Equal(t, 1.0, testutil.ToFloat64(p.requestsTotal.WithLabelValues("/api/apod", "5xx")))
}

func TestProvider_Handler(t *testing.T) {
	p := NewProvider(func() float64 { return 7 })
	p.IncCacheHits()

	w := httptest.NewRecorder()
	p.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "stargazer_cache_hits_total 1")
	assert.Contains(t, w.Body.String(), "stargazer_favourites 7")
}

func TestProvider_IndependentRegistries(t *testing.T) {
	assert.NotPanics(t, func() {
		NewProvider(nil)
		NewProvider(nil)
	})
}

func TestHTTPStatusBucket(t *testing.T) {
	assert.Equal(t, "1xx", httpStatusBucket(101))
	assert.Equal(t, "2xx", httpStatusBucket(201))
	assert.Equal(t, "3xx", httpStatusBucket(304))
	assert.Equal(t, "4xx", httpStatusBucket(404))
	assert.Equal(t, "5xx", httpStatusBucket(502))
}

func TestNoop(t *testing.T) {
	var r Recorder = Noop{}
	assert.NotPanics(t, func() {
		r.ObserveFetch("ok", time.Second)
		r.IncCacheHits()
		r.IncCacheMisses()
		r.IncFavouriteOp("remove", true)
		r.IncRequestsTotal("/", 200)
		r.ObserveRequestDuration("/", time.Second)
	})
}
