package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "storefront"

var (
	registry = prometheus.NewRegistry()

	backendRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "backend_requests_total",
		Help:      "Backend API calls by endpoint and outcome.",
	}, []string{"endpoint", "outcome"})

	backendDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "backend_request_duration_seconds",
		Help:      "Backend API call latency.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"endpoint"})

	reconcileLines = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cart_reconcile_lines_total",
		Help:      "Anonymous cart lines migrated at login, by result.",
	}, []string{"result"})

	ordersPlaced = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "checkout_orders_placed_total",
		Help:      "Orders placed through checkout, by payment method.",
	}, []string{"method"})
)

func init() {
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		backendRequests,
		backendDuration,
		reconcileLines,
		ordersPlaced,
	)
}

// Handler exposes the storefront registry.
func Handler() http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}

func ObserveBackendCall(endpoint string, err error, d time.Duration) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	backendRequests.WithLabelValues(endpoint, outcome).Inc()
	backendDuration.WithLabelValues(endpoint).Observe(d.Seconds())
}

func ReconcileLine(migrated bool) {
	if migrated {
		reconcileLines.WithLabelValues("migrated").Inc()
		return
	}
	reconcileLines.WithLabelValues("failed").Inc()
}

func OrderPlaced(method string) {
	ordersPlaced.WithLabelValues(method).Inc()
}

type Timer struct {
	start time.Time
}

func StartTimer() *Timer {
	return &Timer{start: time.Now()}
}

func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}
