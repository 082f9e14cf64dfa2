package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "cfpanel",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total HTTP requests served by the panel",
	}, []string{"method", "path", "code"})

	httpDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "cfpanel",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request duration",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "path"})

	providerCalls = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "cfpanel",
		Subsystem: "provider",
		Name:      "calls_total",
		Help:      "Outbound provider API calls by endpoint and outcome",
	}, []string{"endpoint", "outcome"})

	providerDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "cfpanel",
		Subsystem: "provider",
		Name:      "call_duration_seconds",
		Help:      "Outbound provider API call duration",
		Buckets:   prometheus.DefBuckets,
	}, []string{"endpoint"})
)

func init() {
	// Ignore AlreadyRegistered so tests can import this package repeatedly.
	_ = prometheus.Register(collectors.NewGoCollector())
	_ = prometheus.Register(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	_ = prometheus.Register(httpRequests)
	_ = prometheus.Register(httpDuration)
	_ = prometheus.Register(providerCalls)
	_ = prometheus.Register(providerDuration)
}

// ObserveProviderCall records one outbound provider API call.
func ObserveProviderCall(endpoint, outcome string, elapsed time.Duration) {
	providerCalls.WithLabelValues(endpoint, outcome).Inc()
	providerDuration.WithLabelValues(endpoint).Observe(elapsed.Seconds())
}

type statusWriter struct {
	http.ResponseWriter
	code int
}

func (w *statusWriter) WriteHeader(statusCode int) {
	w.code = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}

// Instrument wraps a handler with request counting and timing.
func Instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sw := &statusWriter{ResponseWriter: w, code: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(sw, r)
		httpRequests.WithLabelValues(r.Method, r.URL.Path, strconv.Itoa(sw.code)).Inc()
		httpDuration.WithLabelValues(r.Method, r.URL.Path).Observe(time.Since(start).Seconds())
	})
}

var promHandler = promhttp.Handler()

func Handler() http.Handler { return promHandler }
