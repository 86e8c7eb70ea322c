package monitoring

import (
	"context"
	"io"
	"log/slog"
	"os"
	"runtime"
	"strconv"
	"time"

	"github.com/lmittmann/tint"
)

// Log output formats
const (
	FormatJSON = "json"
	FormatText = "text"
)

// Logger provides structured logging with helpers for the review service
type Logger struct {
	*slog.Logger
}

// NewLogger creates a logger writing to stdout in the given format
func NewLogger(format string, level slog.Level) *Logger {
	return NewLoggerWithWriter(os.Stdout, format, level)
}

// NewLoggerWithWriter creates a logger writing to w. Text output uses tint for
// local development, anything else is JSON with an RFC3339 timestamp key.
func NewLoggerWithWriter(w io.Writer, format string, level slog.Level) *Logger {
	var handler slog.Handler

	if format == FormatText {
		handler = tint.NewHandler(w, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
			AddSource:  true,
		})
	} else {
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level:     level,
			AddSource: true,
			ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
				if a.Key == slog.TimeKey && len(groups) == 0 {
					return slog.Attr{
						Key:   "timestamp",
						Value: slog.StringValue(a.Value.Time().Format(time.RFC3339)),
					}
				}
				return a
			},
		})
	}

	return &Logger{
		Logger: slog.New(handler),
	}
}

// RequestLogger logs HTTP request details
func (l *Logger) RequestLogger(requestID, method, path, ip string, statusCode int, duration time.Duration) {
	level := slog.LevelInfo
	if statusCode >= 500 {
		level = slog.LevelWarn
	}

	l.Log(context.Background(), level, "HTTP Request",
		"request_id", requestID,
		"method", method,
		"path", path,
		"ip", ip,
		"status_code", statusCode,
		"duration_ms", duration.Milliseconds(),
	)
}

// SubmissionLogger logs the outcome of one review submission. The review text
// itself is never logged.
func (l *Logger) SubmissionLogger(reviewLength int, variant, outcome, sentiment string, duration time.Duration) {
	l.Info("Review Submitted",
		"review_length", reviewLength,
		"api_variant", variant,
		"outcome", outcome,
		"sentiment", sentiment,
		"duration_ms", duration.Milliseconds(),
	)
}

// APIErrorLogger logs API errors with context
func (l *Logger) APIErrorLogger(err error, method, path, ip string, statusCode int) {
	_, file, line, ok := runtime.Caller(2)
	caller := "unknown"
	if ok {
		caller = file + ":" + strconv.Itoa(line)
	}

	l.Error("API Error",
		"error", err.Error(),
		"method", method,
		"path", path,
		"ip", ip,
		"status_code", statusCode,
		"caller", caller,
	)
}

// ExternalAPILogger logs calls to the inference service
func (l *Logger) ExternalAPILogger(apiName, method, endpoint string, statusCode int, duration time.Duration, success bool) {
	level := slog.LevelInfo
	if !success {
		level = slog.LevelWarn
	}

	l.Log(context.Background(), level, "External API Call",
		"api_name", apiName,
		"method", method,
		"endpoint", endpoint,
		"status_code", statusCode,
		"duration_ms", duration.Milliseconds(),
		"success", success,
	)
}

// SystemLogger logs system-level events
func (l *Logger) SystemLogger(event, details string) {
	l.Info("System Event",
		"event", event,
		"details", details,
		"uptime", time.Since(startTime).String(),
	)
}

var startTime = time.Now()
