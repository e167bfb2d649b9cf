// Package metrics provides Prometheus metrics registry and recording utilities.
//
// All metrics are registered with the Prometheus default registry:
//   - record metrics (hydrations, validation results, failing fields)
//   - payload store metrics (operations, duration) labelled by driver
//   - REST transport metrics (requests, duration, response size)
//
// Example usage:
//
//	start := time.Now()
//	err := repo.Put(ctx, endpoint, id, payload)
//	metrics.RecordStoreOperation("sqlite", "put", time.Since(start), err)
package metrics
