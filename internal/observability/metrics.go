package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	BillsGenerated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "aquabill_bills_generated_total",
		Help: "Bills created through the billing ledger.",
	})

	BillsPaid = promauto.NewCounter(prometheus.CounterOpts{
		Name: "aquabill_bills_paid_total",
		Help: "Bills transitioned to paid.",
	})

	BillsOverdue = promauto.NewCounter(prometheus.CounterOpts{
		Name: "aquabill_bills_overdue_total",
		Help: "Bills transitioned to overdue by the overdue sweep.",
	})

	ReadingsRecorded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "aquabill_readings_recorded_total",
		Help: "Meter readings appended to the ledger.",
	})

	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "aquabill_http_requests_total",
		Help: "HTTP requests by method, route and status.",
	}, []string{"method", "route", "status"})

	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "aquabill_http_request_duration_seconds",
		Help:    "HTTP request latency by route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route"})
)
