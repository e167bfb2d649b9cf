// Package logging provides structured logging utilities with context propagation.
//
// This package wraps the standard library's log/slog package with helper functions
// for the logging patterns used by the CLI and the record service.
//
// Example usage:
//
//	logger := logging.New(logging.Options{Format: "text", Level: "debug"})
//	ctx := logging.WithLogger(ctx, logging.WithRecord(logger, folder))
//	logging.FromContext(ctx).Info("folder saved")
package logging
