// Package observability groups the logging and metrics helpers used by the
// record service, the payload stores and the REST client.
//
// Subpackages:
//   - logging: slog logger construction and context propagation
//   - metrics: Prometheus collectors for hydration, validation, store and
//     transport calls
package observability
