package logger

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"
)

// replaceLevel renders the custom trace level as "TRACE" instead of "DEBUG-4"
func replaceLevel(a slog.Attr) slog.Attr {
	if a.Key != slog.LevelKey {
		return a
	}
	if level, ok := a.Value.Any().(slog.Level); ok && level == traceLevelValue {
		return slog.String(slog.LevelKey, "TRACE")
	}
	return a
}

// newTextHandler returns the console handler. Timestamps are dropped.
func newTextHandler(w io.Writer, level slog.Level, _ *time.Location) slog.Handler {
	return slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if len(groups) == 0 && a.Key == slog.TimeKey {
				return slog.Attr{}
			}
			return replaceLevel(a)
		},
	})
}

// newJSONHandler returns the file handler with RFC3339 timestamps in tz.
func newJSONHandler(w io.Writer, level slog.Level, tz *time.Location) slog.Handler {
	return slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if len(groups) == 0 && a.Key == slog.TimeKey && tz != nil {
				return slog.String(slog.TimeKey, a.Value.Time().In(tz).Format(time.RFC3339))
			}
			return replaceLevel(a)
		},
	})
}

// NewSlogLogger returns a JSON Logger writing to w. Intended for tests and
// tools that need a logger without a CentralLogger.
func NewSlogLogger(w io.Writer, level LogLevel, tz *time.Location) Logger {
	slogLevel := parseLogLevel(string(level))
	return &moduleLogger{
		logger:   slog.New(newJSONHandler(w, slogLevel, tz)),
		level:    slogLevel,
		timezone: tz,
	}
}

// multiWriterHandler fans a record out to several handlers
type multiWriterHandler struct {
	handlers []slog.Handler
}

func newMultiWriterHandler(handlers ...slog.Handler) slog.Handler {
	return &multiWriterHandler{handlers: handlers}
}

func (h *multiWriterHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, handler := range h.handlers {
		if handler.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

//nolint:gocritic // slog.Handler interface requires record by value
func (h *multiWriterHandler) Handle(ctx context.Context, record slog.Record) error {
	var errs []error
	for _, handler := range h.handlers {
		if !handler.Enabled(ctx, record.Level) {
			continue
		}
		if err := handler.Handle(ctx, record.Clone()); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (h *multiWriterHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := make([]slog.Handler, len(h.handlers))
	for i, handler := range h.handlers {
		next[i] = handler.WithAttrs(attrs)
	}
	return &multiWriterHandler{handlers: next}
}

func (h *multiWriterHandler) WithGroup(name string) slog.Handler {
	next := make([]slog.Handler, len(h.handlers))
	for i, handler := range h.handlers {
		next[i] = handler.WithGroup(name)
	}
	return &multiWriterHandler{handlers: next}
}
