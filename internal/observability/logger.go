// Package observability provides structured logging with redaction,
// request IDs and OpenTelemetry tracing.
package observability

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"

	llmerrors "github.com/aimichat/llmrouter/pkg/errors"
)

// Logger wraps slog.Logger with redaction and request ID support.
type Logger struct {
	*slog.Logger
	redactor *Redactor
	verbose  bool
}

// LoggerConfig contains configuration for the logger.
type LoggerConfig struct {
	Level      slog.Level
	Output     io.Writer
	AddSource  bool
	JSONFormat bool
	// Verbose enables raw provider payloads in attempt logs.
	Verbose bool
}

// NewLogger creates a new logger with redaction support.
func NewLogger(cfg LoggerConfig, redactor *Redactor) *Logger {
	if cfg.Output == nil {
		cfg.Output = os.Stderr
	}
	opts := &slog.HandlerOptions{
		Level:     cfg.Level,
		AddSource: cfg.AddSource,
	}

	var handler slog.Handler
	if cfg.JSONFormat {
		handler = slog.NewJSONHandler(cfg.Output, opts)
	} else {
		handler = slog.NewTextHandler(cfg.Output, opts)
	}

	return &Logger{
		Logger:   slog.New(handler),
		redactor: redactor,
		verbose:  cfg.Verbose,
	}
}

// ConfigFor returns the logger settings for a deployment mode: development
// logs text at debug level with raw payloads, production logs JSON at info
// level with identifiers only.
func ConfigFor(development bool, out io.Writer) LoggerConfig {
	if development {
		return LoggerConfig{Level: slog.LevelDebug, Output: out, Verbose: true}
	}
	return LoggerConfig{Level: slog.LevelInfo, Output: out, JSONFormat: true}
}

// Discard returns a logger that drops everything.
func Discard() *Logger {
	return NewLogger(LoggerConfig{Output: io.Discard}, nil)
}

// Verbose reports whether raw payloads may be logged.
func (l *Logger) Verbose() bool {
	return l.verbose
}

// WithRequestID returns a logger with the request ID from context.
func (l *Logger) WithRequestID(ctx context.Context) *Logger {
	requestID := RequestIDFromContext(ctx)
	if requestID == "" {
		return l
	}
	return l.WithFields("request_id", requestID)
}

// WithFields returns a logger with additional fields.
func (l *Logger) WithFields(args ...any) *Logger {
	return &Logger{
		Logger:   l.Logger.With(args...),
		redactor: l.redactor,
		verbose:  l.verbose,
	}
}

// AttemptFailed logs a failed provider attempt. Production logs name the
// provider only; the model and the error text, which may echo the vendor's
// response body, are included in verbose mode.
func (l *Logger) AttemptFailed(ctx context.Context, provider, model string, attempt int, err error, retriable bool) {
	args := []any{
		"provider", provider,
		"attempt", attempt,
		"retriable", retriable,
	}
	if l.verbose {
		args = append(args, "model", model, "error", err)
		var llmErr *llmerrors.LLMError
		if errors.As(err, &llmErr) && llmErr.Body != "" {
			args = append(args, "payload", llmErr.Body)
		}
	}
	l.WithRequestID(ctx).RedactedWarn("llm attempt failed", args...)
}

// RedactedInfo logs at INFO level with redacted message.
func (l *Logger) RedactedInfo(msg string, args ...any) {
	msg, args = l.redact(msg, args)
	l.Logger.Info(msg, args...)
}

// RedactedError logs at ERROR level with redacted message.
func (l *Logger) RedactedError(msg string, args ...any) {
	msg, args = l.redact(msg, args)
	l.Logger.Error(msg, args...)
}

// RedactedDebug logs at DEBUG level with redacted message.
func (l *Logger) RedactedDebug(msg string, args ...any) {
	msg, args = l.redact(msg, args)
	l.Logger.Debug(msg, args...)
}

// RedactedWarn logs at WARN level with redacted message.
func (l *Logger) RedactedWarn(msg string, args ...any) {
	msg, args = l.redact(msg, args)
	l.Logger.Warn(msg, args...)
}

func (l *Logger) redact(msg string, args []any) (string, []any) {
	if l.redactor == nil {
		return msg, args
	}
	result := make([]any, len(args))
	for i, arg := range args {
		switch v := arg.(type) {
		case string:
			result[i] = l.redactor.Redact(v)
		case error:
			result[i] = l.redactor.Redact(v.Error())
		default:
			result[i] = arg
		}
	}
	return l.redactor.Redact(msg), result
}

// Slog returns the underlying slog.Logger.
func (l *Logger) Slog() *slog.Logger {
	return l.Logger
}
