package logging

import (
	"context"
	"io"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

type requestIDKey struct{}

// base is swapped whole by Setup and SetOutput so readers never see a partially written logger.
var base atomic.Pointer[zerolog.Logger]

func init() {
	store(zerolog.New(os.Stdout).With().Timestamp().Logger())
}

func store(l zerolog.Logger) { base.Store(&l) }

// Setup configures the process-wide logger. Development mode writes human-readable lines.
func Setup(level, environment string) {
	var w io.Writer = os.Stdout
	if environment != "production" {
		w = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	}

	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	store(zerolog.New(w).Level(lvl).With().Timestamp().Logger())
}

// SetOutput redirects the process-wide logger, used by tests to capture log lines.
func SetOutput(w io.Writer) {
	store(zerolog.New(w).With().Timestamp().Logger())
}

// Base returns the current process-wide logger. Later calls to Setup or SetOutput do not affect it.
func Base() *zerolog.Logger {
	return base.Load()
}

func WithRequestID(ctx context.Context, rid string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, rid)
}

// RequestID extracts the request ID stored by the request-id middleware.
func RequestID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if rid, ok := ctx.Value(requestIDKey{}).(string); ok {
		return rid
	}
	return ""
}

// Logger provides structured logging for services
type Logger struct {
	log zerolog.Logger
}

// NewLogger creates a logger with request context
func NewLogger(ctx context.Context) *Logger {
	requestID := RequestID(ctx)
	if requestID == "" {
		requestID = "unknown"
	}
	return &Logger{log: base.Load().With().Str("request_id", requestID).Logger()}
}

// LogError logs an error with context
func (l *Logger) LogError(operation string, err error) {
	l.log.Error().Str("operation", operation).Err(err).Send()
}

// LogErrorf logs a formatted error with context
func (l *Logger) LogErrorf(operation string, format string, args ...interface{}) {
	l.log.Error().Str("operation", operation).Msgf(format, args...)
}

// LogInfo logs an info message with context
func (l *Logger) LogInfo(operation string, message string) {
	l.log.Info().Str("operation", operation).Msg(message)
}

// LogInfof logs a formatted info message with context
func (l *Logger) LogInfof(operation string, format string, args ...interface{}) {
	l.log.Info().Str("operation", operation).Msgf(format, args...)
}

// LogWarn logs a warning with context
func (l *Logger) LogWarn(operation string, message string) {
	l.log.Warn().Str("operation", operation).Msg(message)
}

// LogWarnf logs a formatted warning with context
func (l *Logger) LogWarnf(operation string, format string, args ...interface{}) {
	l.log.Warn().Str("operation", operation).Msgf(format, args...)
}
