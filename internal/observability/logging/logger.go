package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/google/uuid"

	"github.com/Online-Ugyvitel/ddata-core/internal/domain/model"
)

// Options configures New. Zero values mean JSON output at info level on stdout.
type Options struct {
	Format string // "json" or "text"
	Level  string // debug, info, warn, error
	Writer io.Writer
}

// New creates a structured logger. Source locations are added at debug level.
func New(opts Options) *slog.Logger {
	w := opts.Writer
	if w == nil {
		w = os.Stdout
	}
	level := ParseLevel(opts.Level)
	hopts := &slog.HandlerOptions{
		Level:     level,
		AddSource: level <= slog.LevelDebug,
	}

	var handler slog.Handler
	if strings.EqualFold(opts.Format, "text") {
		handler = slog.NewTextHandler(w, hopts)
	} else {
		handler = slog.NewJSONHandler(w, hopts)
	}
	return slog.New(handler)
}

// NewLogger creates a JSON logger whose level comes from LOG_LEVEL.
func NewLogger() *slog.Logger {
	return New(Options{Format: "json", Level: os.Getenv("LOG_LEVEL")})
}

// NewTextLogger creates a human-readable logger whose level comes from LOG_LEVEL.
func NewTextLogger() *slog.Logger {
	return New(Options{Format: "text", Level: os.Getenv("LOG_LEVEL")})
}

// ParseLevel maps a level name to a slog.Level. Unknown names mean info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// WithRecord returns a logger annotated with the model name and endpoint of r.
func WithRecord(logger *slog.Logger, r model.Record) *slog.Logger {
	return logger.With(
		slog.String("model", r.ModelName()),
		slog.String("endpoint", r.APIEndpoint()),
	)
}

// WithFields returns a new logger with additional structured fields.
func WithFields(logger *slog.Logger, fields map[string]any) *slog.Logger {
	args := make([]any, 0, len(fields)*2)
	for k, v := range fields {
		args = append(args, k, v)
	}
	return logger.With(args...)
}

// WithOperationID stores an operation id in ctx, generating one when id is empty.
// Loggers obtained through FromContext carry it as "operation_id".
func WithOperationID(ctx context.Context, id string) context.Context {
	if id == "" {
		id = uuid.NewString()
	}
	return context.WithValue(ctx, operationIDKey, id)
}

// OperationID returns the operation id stored in ctx, or "".
func OperationID(ctx context.Context) string {
	id, _ := ctx.Value(operationIDKey).(string)
	return id
}

// FromContext retrieves the logger from the context, or the default logger.
func FromContext(ctx context.Context) *slog.Logger {
	logger, ok := ctx.Value(loggerContextKey).(*slog.Logger)
	if !ok {
		logger = slog.Default()
	}
	if id := OperationID(ctx); id != "" {
		logger = logger.With(slog.String("operation_id", id))
	}
	return logger
}

// WithLogger adds a logger to the context.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerContextKey, logger)
}

type contextKey string

const (
	loggerContextKey contextKey = "logger"
	operationIDKey   contextKey = "operation_id"
)
