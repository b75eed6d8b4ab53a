// Copyright 2026 © The Council Authors
// SPDX-License-Identifier: Apache-2.0

package telemetry

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel/trace"
)

var logLevels = map[string]slog.Level{
	"debug":   slog.LevelDebug,
	"info":    slog.LevelInfo,
	"warn":    slog.LevelWarn,
	"warning": slog.LevelWarn,
	"error":   slog.LevelError,
}

// ConfigureSlog installs a process-wide slog logger writing to output.
// Records logged with a span in their context carry trace_id and span_id
// attributes so log lines can be correlated with traces. Format is "json"
// or "text"; unknown levels fall back to info.
func ConfigureSlog(output io.Writer, level, format string) *slog.Logger {
	lvl, ok := logLevels[strings.ToLower(strings.TrimSpace(level))]
	if !ok {
		lvl = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: lvl}

	var inner slog.Handler
	if strings.EqualFold(strings.TrimSpace(format), "json") {
		inner = slog.NewJSONHandler(output, opts)
	} else {
		inner = slog.NewTextHandler(output, opts)
	}

	logger := slog.New(spanHandler{inner})
	slog.SetDefault(logger)
	return logger
}

// spanHandler decorates records with the identifiers of the active span.
// Attributes already present on the record win over the context.
type spanHandler struct {
	inner slog.Handler
}

func (h spanHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

func (h spanHandler) Handle(ctx context.Context, record slog.Record) error {
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		var hasTrace, hasSpan bool
		record.Attrs(func(attr slog.Attr) bool {
			switch attr.Key {
			case "trace_id":
				hasTrace = true
			case "span_id":
				hasSpan = true
			}
			return !(hasTrace && hasSpan)
		})
		if !hasTrace {
			record.AddAttrs(slog.String("trace_id", sc.TraceID().String()))
		}
		if !hasSpan {
			record.AddAttrs(slog.String("span_id", sc.SpanID().String()))
		}
	}
	return h.inner.Handle(ctx, record)
}

func (h spanHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return spanHandler{h.inner.WithAttrs(attrs)}
}

func (h spanHandler) WithGroup(name string) slog.Handler {
	return spanHandler{h.inner.WithGroup(name)}
}
