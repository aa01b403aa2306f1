package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "involinks_http_requests_total",
			Help: "Total HTTP requests by method, path and status code",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "involinks_http_request_duration_seconds",
			Help:    "HTTP request latency by method and path",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	InvoicesIssuedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "involinks_invoices_issued_total",
			Help: "Invoices issued by classification (full, simplified, standard)",
		},
		[]string{"type"},
	)

	PeppolTransmissionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "involinks_peppol_transmissions_total",
			Help: "PEPPOL transmissions by provider and outcome",
		},
		[]string{"provider", "status"},
	)
)
