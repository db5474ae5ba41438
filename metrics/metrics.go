// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

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
	registry = prometheus.NewRegistry()

	requestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "alertrip",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by route and status.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route", "status"})

	candleDeltas = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "alertrip",
		Name:      "candle_deltas_total",
		Help:      "Accepted candle deltas by direction and caller class.",
	}, []string{"direction", "privileged"})

	listRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "alertrip",
		Name:      "list_requests_total",
		Help:      "Paginated list requests by kind and whether a search term was given.",
	}, []string{"kind", "search"})
)

func init() {
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		requestDuration,
		candleDeltas,
		listRequests,
	)
}

// Handler serves the registry in the Prometheus exposition format
func Handler() http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}

// ObserveRequest records one served request
func ObserveRequest(method, route string, status int, elapsed time.Duration) {
	requestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(elapsed.Seconds())
}

// CandleApplied records an accepted tribute delta
func CandleApplied(delta int, privileged bool) {
	direction := "lit"
	if delta < 0 {
		direction = "blown_out"
	}
	candleDeltas.WithLabelValues(direction, strconv.FormatBool(privileged)).Inc()
}

// ListServed records a list request
func ListServed(kind string, search string) {
	listRequests.WithLabelValues(kind, strconv.FormatBool(search != "")).Inc()
}
