package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "maintenance_http_requests_total",
		Help: "Total number of HTTP requests.",
	},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "maintenance_http_request_duration_seconds",
		Help:    "HTTP request duration in seconds.",
		Buckets: prometheus.DefBuckets,
	},
		[]string{"method", "route"},
	)

	OrdersCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "maintenance_orders_created_total",
		Help: "Total number of work orders successfully created.",
	})

	OrderTransitionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "maintenance_order_transitions_total",
		Help: "Total number of work order status transitions, by target status.",
	},
		[]string{"to"},
	)

	ReportsGeneratedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "maintenance_reports_generated_total",
		Help: "Total number of productivity reports generated.",
	})

	LoginFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "maintenance_login_failures_total",
		Help: "Total number of rejected login attempts.",
	})
)
