// Package metrics holds the Prometheus collectors of the storefront.
// Everything registers on Registry, which the BFF serves on /metrics.
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
	CheckoutTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "storefront",
			Name:      "checkout_transitions_total",
			Help:      "Checkout state machine transitions.",
		},
		[]string{"from", "to"},
	)

	// CheckoutOutcomes counts finished checkouts:
	// "complete" | "payment_failed" | "post_payment_failed" | "abandoned".
	CheckoutOutcomes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "storefront",
			Name:      "checkout_outcomes_total",
			Help:      "Finished checkouts by outcome.",
		},
		[]string{"outcome"},
	)

	ReconcilerDegraded = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "storefront",
			Name:      "reconciler_degraded_total",
			Help:      "Fetches that failed and degraded to an empty view.",
		},
		[]string{"component"},
	)

	UpstreamDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "storefront",
			Name:      "upstream_request_duration_seconds",
			Help:      "Duration of backend requests in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "method", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "storefront",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of BFF requests in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)
)

var Registry = prometheus.NewRegistry()

func init() {
	Registry.MustRegister(collectors.NewGoCollector())
	Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	Registry.MustRegister(
		CheckoutTransitions,
		CheckoutOutcomes,
		ReconcilerDegraded,
		UpstreamDuration,
		HTTPRequestDuration,
	)
}

func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// ObserveUpstream records one backend call. status is 0 for transport errors.
func ObserveUpstream(service, method string, status int, started time.Time) {
	label := "error"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	UpstreamDuration.WithLabelValues(service, method, label).Observe(time.Since(started).Seconds())
}

func Degraded(component string) {
	ReconcilerDegraded.WithLabelValues(component).Inc()
}
