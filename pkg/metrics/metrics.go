package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector owns a private registry so tests and the serve command never collide with the
// global default registry. All methods are safe to call on a nil *Collector.
type Collector struct {
	reg *prometheus.Registry

	APIRequests *prometheus.CounterVec   // endpoint, outcome: ok|network|status|decode
	APILatency  *prometheus.HistogramVec // endpoint

	SearchCache *prometheus.CounterVec // result: hit|miss

	Superseded prometheus.Counter

	LocateResults *prometheus.CounterVec // provider, outcome

	HTTPRequests *prometheus.CounterVec // route, code
}

func NewCollector() *Collector {
	reg := prometheus.NewRegistry()

	c := &Collector{
		reg: reg,
		APIRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "nextup_transit_requests_total",
			Help: "Transit API requests by endpoint and outcome.",
		}, []string{"endpoint", "outcome"}),
		APILatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "nextup_transit_request_duration_seconds",
			Help:    "Transit API request latency.",
			Buckets: prometheus.ExponentialBuckets(0.025, 2, 10),
		}, []string{"endpoint"}),
		SearchCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "nextup_search_cache_total",
			Help: "Station search cache lookups by result.",
		}, []string{"result"}),
		Superseded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "nextup_superseded_tasks_total",
			Help: "Fetches cancelled because newer input arrived.",
		}),
		LocateResults: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "nextup_locate_total",
			Help: "Location lookups by provider and outcome.",
		}, []string{"provider", "outcome"}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "nextup_http_requests_total",
			Help: "Companion API requests by route and status code.",
		}, []string{"route", "code"}),
	}

	reg.MustRegister(
		c.APIRequests, c.APILatency,
		c.SearchCache, c.Superseded,
		c.LocateResults, c.HTTPRequests,
	)

	return c
}

// Registry exposes the underlying registry, mostly for tests
func (c *Collector) Registry() *prometheus.Registry {
	if c == nil {
		return nil
	}
	return c.reg
}

func (c *Collector) Handler() http.Handler {
	if c == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(c.reg, promhttp.HandlerOpts{})
}

func (c *Collector) ObserveAPI(endpoint, outcome string, took time.Duration) {
	if c == nil {
		return
	}
	c.APIRequests.WithLabelValues(endpoint, outcome).Inc()
	c.APILatency.WithLabelValues(endpoint).Observe(took.Seconds())
}

func (c *Collector) CacheLookup(hit bool) {
	if c == nil {
		return
	}
	if hit {
		c.SearchCache.WithLabelValues("hit").Inc()
	} else {
		c.SearchCache.WithLabelValues("miss").Inc()
	}
}

func (c *Collector) TaskSuperseded() {
	if c == nil {
		return
	}
	c.Superseded.Inc()
}

func (c *Collector) ObserveLocate(provider, outcome string) {
	if c == nil {
		return
	}
	c.LocateResults.WithLabelValues(provider, outcome).Inc()
}

func (c *Collector) ObserveHTTP(route string, code int) {
	if c == nil {
		return
	}
	c.HTTPRequests.WithLabelValues(route, http.StatusText(code)).Inc()
}
