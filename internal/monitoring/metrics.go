package monitoring

import (
	"rental-portal-backend/internal/logger"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	ApplicationsDecided = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "applications_decided_total",
			Help: "Total number of rental applications decided, by resulting status",
		},
		[]string{"status"},
	)
	LeasesCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "leases_created_total",
			Help: "Total number of leases created from approved applications",
		},
	)
	PaymentsScheduled = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "payments_scheduled_total",
			Help: "Total number of monthly payments generated",
		},
	)
	LateFeesApplied = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "late_fees_applied_total",
			Help: "Total number of payments that received a late fee",
		},
	)
	PaymentsMarkedPaid = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payments_marked_paid_total",
			Help: "Total number of payments marked paid, by method",
		},
		[]string{"method"},
	)
	OverdueSweepDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "overdue_sweep_duration_seconds",
			Help:    "Duration of the scheduled overdue payment sweep in seconds",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 12),
		},
	)
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests by route, method and status code",
		},
		[]string{"route", "method", "code"},
	)
)

// InitMetrics registers every collector with the default registry. A
// collector that is already registered is logged and skipped.
func InitMetrics() {
	collectors := map[string]prometheus.Collector{
		"ApplicationsDecided":  ApplicationsDecided,
		"LeasesCreated":        LeasesCreated,
		"PaymentsScheduled":    PaymentsScheduled,
		"LateFeesApplied":      LateFeesApplied,
		"PaymentsMarkedPaid":   PaymentsMarkedPaid,
		"OverdueSweepDuration": OverdueSweepDuration,
		"HTTPRequests":         HTTPRequests,
	}
	for name, c := range collectors {
		if err := prometheus.Register(c); err != nil {
			logger.Error("Failed to register metric", "metric", name, "error", err)
		}
	}
}
