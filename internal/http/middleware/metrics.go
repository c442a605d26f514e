package middleware

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Rate limiter scopes
const (
	scopeAPI   = "api"
	scopeWrite = "write"
)

var (
	RLRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "taskboard",
			Name:      "ratelimit_allowed_total",
			Help:      "Requests let through by a rate limiter",
		},
		[]string{"scope", "route"},
	)
	RLBlocked = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "taskboard",
			Name:      "ratelimit_blocked_total",
			Help:      "Requests rejected with 429 by a rate limiter",
		},
		[]string{"scope", "route"},
	)
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "taskboard",
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status",
		},
		[]string{"method", "route", "status"},
	)
	HTTPDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "taskboard",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"method", "route"},
	)
)

func init() {
	prometheus.MustRegister(RLRequests, RLBlocked, HTTPRequests, HTTPDuration)
}
