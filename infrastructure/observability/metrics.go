package observability

import (
	"net/http"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector holds all Prometheus metrics for the application. Besides the
// fixed HTTP metrics it creates a counter or histogram the first time a name
// is used; the label set of that first use is kept for the name.
type Collector struct {
	namespace string
	registry  *prometheus.Registry

	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	mu         sync.Mutex
	counters   map[string]*dynamicVec[*prometheus.CounterVec]
	histograms map[string]*dynamicVec[*prometheus.HistogramVec]
}

type dynamicVec[T any] struct {
	vec    T
	labels []string
}

// NewCollector creates a collector with its own registry
func NewCollector(namespace string) *Collector {
	registry := prometheus.NewRegistry()

	httpRequests := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)
	httpDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
	registry.MustRegister(httpRequests, httpDuration)

	return &Collector{
		namespace:    namespace,
		registry:     registry,
		HTTPRequests: httpRequests,
		HTTPDuration: httpDuration,
		counters:     make(map[string]*dynamicVec[*prometheus.CounterVec]),
		histograms:   make(map[string]*dynamicVec[*prometheus.HistogramVec]),
	}
}

// IncrementCounter increments the counter name by 1
func (c *Collector) IncrementCounter(name string, tags map[string]string) {
	c.mu.Lock()
	dv, ok := c.counters[name]
	if !ok {
		labels := labelNames(tags)
		vec := prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: c.namespace,
			Name:      name,
			Help:      name,
		}, labels)
		if err := c.registry.Register(vec); err != nil {
			c.mu.Unlock()
			return
		}
		dv = &dynamicVec[*prometheus.CounterVec]{vec: vec, labels: labels}
		c.counters[name] = dv
	}
	c.mu.Unlock()

	if counter, err := dv.vec.GetMetricWith(labelValues(dv.labels, tags)); err == nil {
		counter.Inc()
	}
}

// RecordDuration observes seconds in the histogram name
func (c *Collector) RecordDuration(name string, seconds float64, tags map[string]string) {
	c.mu.Lock()
	dv, ok := c.histograms[name]
	if !ok {
		labels := labelNames(tags)
		vec := prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: c.namespace,
			Name:      name,
			Help:      name,
			Buckets:   prometheus.DefBuckets,
		}, labels)
		if err := c.registry.Register(vec); err != nil {
			c.mu.Unlock()
			return
		}
		dv = &dynamicVec[*prometheus.HistogramVec]{vec: vec, labels: labels}
		c.histograms[name] = dv
	}
	c.mu.Unlock()

	if observer, err := dv.vec.GetMetricWith(labelValues(dv.labels, tags)); err == nil {
		observer.Observe(seconds)
	}
}

// Registry returns the Prometheus registry for this collector
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the registry in the Prometheus exposition format
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

func labelNames(tags map[string]string) []string {
	names := make([]string, 0, len(tags))
	for k := range tags {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// labelValues returns nil when tags do not carry exactly the expected labels
func labelValues(names []string, tags map[string]string) prometheus.Labels {
	if len(names) != len(tags) {
		return nil
	}
	labels := make(prometheus.Labels, len(names))
	for _, n := range names {
		v, ok := tags[n]
		if !ok {
			return nil
		}
		labels[n] = v
	}
	return labels
}

// MetricsMiddleware records request counts and latencies by chi route pattern
func MetricsMiddleware(collector *Collector) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			routePattern := "unknown"
			if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
				routePattern = rctx.RoutePattern()
			}
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}

			collector.HTTPRequests.WithLabelValues(r.Method, routePattern, strconv.Itoa(status)).Inc()
			collector.HTTPDuration.WithLabelValues(r.Method, routePattern).Observe(time.Since(start).Seconds())
		})
	}
}
