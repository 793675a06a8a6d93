package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	BookingsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: "carpool", Name: "bookings_total", Help: "Booking attempts by outcome"},
		[]string{"outcome"},
	)
	BookingLatency = promauto.NewHistogram(
		prometheus.HistogramOpts{Namespace: "carpool", Name: "booking_latency_seconds", Help: "Booking workflow latency"},
	)

	GeocodeRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: "carpool", Name: "geocode_requests_total", Help: "Geocode calls by result"},
		[]string{"result"},
	)
	RouteFallbacks = promauto.NewCounter(
		prometheus.CounterOpts{Namespace: "carpool", Name: "route_fallback_total", Help: "Routes served by the straight-line fallback"},
	)

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: "carpool", Name: "http_requests_total", Help: "Total HTTP requests handled"},
		[]string{"method", "path", "status"},
	)
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "carpool",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency distribution",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)
