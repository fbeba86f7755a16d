package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// AuthorizationDecisions counts delegation authorization outcomes.
	AuthorizationDecisions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "zonewarden_authorization_decisions_total",
		Help: "Total number of delegation authorization decisions",
	}, []string{"resource", "outcome"})

	// ReconcileDuration tracks reconciliation time per resource kind.
	ReconcileDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "zonewarden_reconcile_duration_seconds",
		Help:    "Histogram of resource reconciliation duration",
		Buckets: prometheus.DefBuckets,
	}, []string{"resource"})

	// CacheOperations tracks resource cache hits and misses.
	CacheOperations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "zonewarden_cache_operations_total",
		Help: "Total number of resource cache hits and misses",
	}, []string{"result"})

	// DBConnectionsActive tracks open database connections.
	DBConnectionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "zonewarden_db_connections_active",
		Help: "Number of active database connections",
	})
)
