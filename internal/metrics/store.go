package metrics

import (
	"errors"
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Store and validation Prometheus metrics.
var (
	StoreOperationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "entdoc",
			Name:      "store_operations_total",
			Help:      "Total number of document store operations",
		},
		[]string{"collection", "op", "status"},
	)

	StoreOperationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "entdoc",
			Name:      "store_operation_duration_seconds",
			Help:      "Document store operation duration in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"collection", "op"},
	)

	ValidationFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "entdoc",
			Name:      "validation_failures_total",
			Help:      "Field validation failures that blocked a write",
		},
		[]string{"collection", "code"},
	)
)

var registerStoreOnce sync.Once

// RegisterStoreMetrics registers store and validation metrics on the default
// registry. Safe to call more than once.
func RegisterStoreMetrics() {
	registerStoreOnce.Do(func() {
		prometheus.MustRegister(StoreOperationsTotal)
		prometheus.MustRegister(StoreOperationDuration)
		prometheus.MustRegister(ValidationFailuresTotal)
	})
}

// RegisterStoreMetricsOn registers store and validation metrics on reg.
// Collectors already registered there are accepted.
func RegisterStoreMetricsOn(reg prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{StoreOperationsTotal, StoreOperationDuration, ValidationFailuresTotal} {
		if err := reg.Register(c); err != nil {
			var are prometheus.AlreadyRegisteredError
			if errors.As(err, &are) {
				continue
			}
			return fmt.Errorf("register metric: %w", err)
		}
	}
	return nil
}
