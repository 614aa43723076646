// Package logger provides a structured, module-aware logging system built on log/slog.
//
// Loggers are scoped by module ("catalog", "imageprovider", "http.access")
// and carry typed fields:
//
//	centralLogger, err := logger.NewCentralLogger(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer centralLogger.Close()
//
//	log := centralLogger.Module("catalog")
//	log.Info("Products fetched",
//	    logger.String("category_id", "sofas"),
//	    logger.Int("count", 12))
//
// Console output is text, file output is JSON. File outputs (the main log
// and per-module files) are rotated by lumberjack according to FileOutput.
//
// Components receive the Logger interface, never *CentralLogger. Tests use
// NewSlogLogger with io.Discard or a buffer:
//
//	testLogger := logger.NewSlogLogger(io.Discard, logger.LogLevelError, time.UTC)
package logger

import (
	"context"
	"time"
	"unique"
)

// LogLevel represents log severity levels
type LogLevel string

const (
	LogLevelTrace LogLevel = "trace"
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

// Field represents a structured log field.
// Keys are interned with unique.Make so repeated keys share one allocation.
type Field struct {
	Key   string
	Value any
}

func internKey(key string) string {
	return unique.Make(key).Value()
}

var errorKey = internKey("error")

// Logger is the centralized logging interface for dependency injection
type Logger interface {
	// Module returns a logger scoped to a specific module
	Module(name string) Logger

	Trace(msg string, fields ...Field)
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)

	// With returns a logger that adds fields to every entry
	With(fields ...Field) Logger
	// WithContext returns a logger carrying the context's trace ID, if any
	WithContext(ctx context.Context) Logger

	Log(level LogLevel, msg string, fields ...Field)

	// Flush ensures all buffered logs are written
	Flush() error
}

// String creates a string field.
func String(key, value string) Field {
	return Field{Key: internKey(key), Value: value}
}

// Int creates an integer field.
func Int(key string, value int) Field {
	return Field{Key: internKey(key), Value: value}
}

// Int64 creates a 64-bit integer field.
func Int64(key string, value int64) Field {
	return Field{Key: internKey(key), Value: value}
}

// Float64 creates a float field. Values are rounded to 3 decimals on output.
func Float64(key string, value float64) Field {
	return Field{Key: internKey(key), Value: value}
}

// Bool creates a boolean field.
func Bool(key string, value bool) Field {
	return Field{Key: internKey(key), Value: value}
}

// Error creates an error field. The key is always "error"; a nil error
// yields a nil value.
//
//	if err := client.Providers(ctx); err != nil {
//	    log.Error("Failed to fetch providers", logger.Error(err))
//	}
func Error(err error) Field {
	if err == nil {
		return Field{Key: errorKey, Value: nil}
	}
	return Field{Key: errorKey, Value: err.Error()}
}

// Duration creates a duration field rendered as a string ("1.5s", "200ms").
func Duration(key string, value time.Duration) Field {
	return Field{Key: internKey(key), Value: value}
}

// Time creates a time field.
func Time(key string, value time.Time) Field {
	return Field{Key: internKey(key), Value: value}
}

// Any creates a field with any JSON-serializable value.
func Any(key string, value any) Field {
	return Field{Key: internKey(key), Value: value}
}
