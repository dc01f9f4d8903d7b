package monitoring

import (
	"log/slog"
	"os"
	"time"
)

// Logger provides structured logging with domain helpers.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a JSON logger writing to stdout.
func NewLogger() *Logger {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				return slog.Attr{
					Key:   "timestamp",
					Value: slog.StringValue(a.Value.Time().Format(time.RFC3339)),
				}
			}
			return a
		},
	})

	return &Logger{Logger: slog.New(handler)}
}

// RequestLogger logs HTTP request details.
func (l *Logger) RequestLogger(method, path, ip string, statusCode int, duration time.Duration) {
	l.Info("HTTP Request",
		"method", method,
		"path", path,
		"ip", ip,
		"status_code", statusCode,
		"duration_ms", duration.Milliseconds(),
	)
}

// ResearchLogger logs one completed orchestrator run.
func (l *Logger) ResearchLogger(subject, mode string, subQueries, cached, failed int, duration time.Duration) {
	l.Info("Research Run Completed",
		"subject", subject,
		"mode", mode,
		"sub_queries", subQueries,
		"cached", cached,
		"failed", failed,
		"duration_ms", duration.Milliseconds(),
	)
}

// ReasoningLogger logs one reasoning-service call outcome.
func (l *Logger) ReasoningLogger(query, mode string, success bool, duration time.Duration) {
	l.Info("Reasoning Call",
		"query", query,
		"mode", mode,
		"success", success,
		"duration_ms", duration.Milliseconds(),
	)
}

// APIErrorLogger logs API errors with request context.
func (l *Logger) APIErrorLogger(err error, method, path, ip string, statusCode int) {
	l.Error("API Error",
		"error", err.Error(),
		"method", method,
		"path", path,
		"ip", ip,
		"status_code", statusCode,
	)
}
