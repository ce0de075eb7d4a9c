// Package metrics exposes Prometheus counters for fetches, cache use,
// favourites operations and HTTP requests.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Recorder interface {
	ObserveFetch(outcome string, duration time.Duration)
	IncCacheHits()
	IncCacheMisses()
	IncFavouriteOp(op string, ok bool)
	IncRequestsTotal(endpoint string, status int)
	ObserveRequestDuration(endpoint string, duration time.Duration)
}

type Provider struct {
	registry        *prometheus.Registry
	fetchTotal      *prometheus.CounterVec
	fetchDuration   prometheus.Histogram
	cacheHits       prometheus.Counter
	cacheMisses     prometheus.Counter
	favouriteOps    *prometheus.CounterVec
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

// NewProvider registers all collectors on a fresh registry. favourites,
// when non-nil, backs a gauge with the current number of favourites.
func NewProvider(favourites func() float64) *Provider {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	p := &Provider{
		registry: reg,
		fetchTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "stargazer_apod_fetch_total",
			Help: "APOD fetches by outcome",
		}, []string{"outcome"}),

		fetchDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "stargazer_apod_fetch_duration_seconds",
			Help:    "Duration of APOD fetches in seconds",
			Buckets: prometheus.DefBuckets,
		}),

		cacheHits: factory.NewCounter(prometheus.CounterOpts{
			Name: "stargazer_cache_hits_total",
			Help: "Total number of picture cache hits",
		}),

		cacheMisses: factory.NewCounter(prometheus.CounterOpts{
			Name: "stargazer_cache_misses_total",
			Help: "Total number of picture cache misses",
		}),

		favouriteOps: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "stargazer_favourite_operations_total",
			Help: "Favourites store operations by type and result",
		}, []string{"op", "result"}),

		requestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "stargazer_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"endpoint", "status"}),

		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "stargazer_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),
	}

	if favourites != nil {
		factory.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "stargazer_favourites",
			Help: "Number of stored favourites",
		}, favourites)
	}

	return p
}

func (p *Provider) ObserveFetch(outcome string, duration time.Duration) {
	p.fetchTotal.WithLabelValues(outcome).Inc()
	p.fetchDuration.Observe(duration.Seconds())
}

func (p *Provider) IncCacheHits() {
	p.cacheHits.Inc()
}

func (p *Provider) IncCacheMisses() {
	p.cacheMisses.Inc()
}

func (p *Provider) IncFavouriteOp(op string, ok bool) {
	result := "ok"
	if !ok {
		result = "error"
	}
	p.favouriteOps.WithLabelValues(op, result).Inc()
}

func (p *Provider) IncRequestsTotal(endpoint string, status int) {
	p.requestsTotal.WithLabelValues(endpoint, httpStatusBucket(status)).Inc()
}

func (p *Provider) ObserveRequestDuration(endpoint string, duration time.Duration) {
	p.requestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

// Handler serves the registry in the Prometheus exposition format.
func (p *Provider) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{})
}

func (p *Provider) Registry() *prometheus.Registry {
	return p.registry
}

func httpStatusBucket(code int) string {
	switch {
	case code < 200:
		return "1xx"
	case code < 300:
		return "2xx"
	case code < 400:
		return "3xx"
	case code < 500:
		return "4xx"
	default:
		return "5xx"
	}
}

// Noop is used when metrics are disabled.
type Noop struct{}

func (Noop) ObserveFetch(_ string, _ time.Duration)           {}
func (Noop) IncCacheHits()                                    {}
func (Noop) IncCacheMisses()                                  {}
func (Noop) IncFavouriteOp(_ string, _ bool)                  {}
func (Noop) IncRequestsTotal(_ string, _ int)                 {}
func (Noop) ObserveRequestDuration(_ string, _ time.Duration) {}
