// Package metrics provides centralized Prometheus metrics for the application.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Record metrics track hydration and validation of records
var (
	// HydrationsTotal counts Init calls by model
	HydrationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ddata_hydrations_total",
			Help: "Total number of record hydrations",
		},
		[]string{"model"},
	)

	// ValidationsTotal counts validation runs by model and result
	ValidationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ddata_validations_total",
			Help: "Total number of record validations",
		},
		[]string{"model", "result"}, // result: valid, invalid
	)

	// ValidationFieldFailures counts failing fields by model and field
	ValidationFieldFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ddata_validation_field_failures_total",
			Help: "Total number of fields that failed validation",
		},
		[]string{"model", "field"},
	)
)

// Store metrics track the local payload stores
var (
	// StoreOperationsTotal counts store calls by driver, operation and status
	StoreOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ddata_store_operations_total",
			Help: "Total number of payload store operations",
		},
		[]string{"driver", "operation", "status"},
	)

	// StoreOperationDuration measures store call duration
	StoreOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ddata_store_operation_duration_seconds",
			Help:    "Payload store operation duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 10),
		},
		[]string{"driver", "operation"},
	)
)

// Transport metrics track calls to the REST API
var (
	// TransportRequestsTotal counts REST calls by method, endpoint and status
	TransportRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ddata_transport_requests_total",
			Help: "Total number of REST API requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	// TransportRequestDuration measures REST call duration
	TransportRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ddata_transport_request_duration_seconds",
			Help:    "REST API request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	// TransportResponseSize measures REST response body size in bytes
	TransportResponseSize = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ddata_transport_response_size_bytes",
			Help:    "REST API response size in bytes",
			Buckets: prometheus.ExponentialBuckets(100, 10, 8),
		},
		[]string{"endpoint"},
	)
)

// RecordHydration counts one hydration of model.
func RecordHydration(model string) {
	HydrationsTotal.WithLabelValues(model).Inc()
}

// RecordValidation records a validation result together with its failing fields.
func RecordValidation(model string, failedFields []string) {
	result := "valid"
	if len(failedFields) > 0 {
		result = "invalid"
	}
	ValidationsTotal.WithLabelValues(model, result).Inc()
	for _, f := range failedFields {
		ValidationFieldFailures.WithLabelValues(model, f).Inc()
	}
}

// RecordStoreOperation records one payload store call.
func RecordStoreOperation(driver, operation string, duration time.Duration, err error) {
	StoreOperationsTotal.WithLabelValues(driver, operation, status(err)).Inc()
	StoreOperationDuration.WithLabelValues(driver, operation).Observe(duration.Seconds())
}

// RecordTransportRequest records one REST API call. status is the HTTP status
// code as text, or "error" when no response was received.
func RecordTransportRequest(method, endpoint, status string, duration time.Duration, responseSize int) {
	TransportRequestsTotal.WithLabelValues(method, endpoint, status).Inc()
	TransportRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
	if responseSize > 0 {
		TransportResponseSize.WithLabelValues(endpoint).Observe(float64(responseSize))
	}
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
