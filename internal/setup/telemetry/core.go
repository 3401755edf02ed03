package telemetry

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap/zapcore"
)

// Core implements zapcore.Core and records error entries as spans.
// Without a configured tracer provider the spans are dropped by the global no-op tracer.
type Core struct {
	zapcore.LevelEnabler
	tracer trace.Tracer
	fields []zapcore.Field
}

// NewCore creates a core forwarding error entries to OpenTelemetry.
func NewCore(enab zapcore.LevelEnabler) zapcore.Core {
	return &Core{
		LevelEnabler: enab,
		tracer:       otel.Tracer("github.com/robalyx/vouchbot/logs"),
	}
}

func (c *Core) With(fields []zapcore.Field) zapcore.Core {
	return &Core{
		LevelEnabler: c.LevelEnabler,
		tracer:       c.tracer,
		fields:       append(append([]zapcore.Field(nil), c.fields...), fields...),
	}
}

func (c *Core) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(ent.Level) && ent.Level >= zapcore.ErrorLevel {
		return ce.AddCore(ent, c)
	}
	return ce
}

func (c *Core) Write(ent zapcore.Entry, fields []zapcore.Field) error {
	_, span := c.tracer.Start(context.Background(), "error."+errorCategory(ent))
	defer span.End()

	enc := zapcore.NewMapObjectEncoder()
	for _, field := range c.fields {
		field.AddTo(enc)
	}
	for _, field := range fields {
		field.AddTo(enc)
	}

	attrs := []attribute.KeyValue{
		attribute.String("log.message", ent.Message),
		attribute.String("log.level", ent.Level.String()),
		attribute.String("log.caller", ent.Caller.String()),
		attribute.String("log.logger", ent.LoggerName),
	}
	for key, value := range enc.Fields {
		if s, ok := value.(string); ok {
			attrs = append(attrs, attribute.String(key, s))
		}
	}

	span.SetAttributes(attrs...)
	span.SetStatus(codes.Error, ent.Message)

	return nil
}

func (c *Core) Sync() error {
	return nil
}

// errorCategory derives a span name suffix from the logger name.
func errorCategory(ent zapcore.Entry) string {
	switch {
	case strings.Contains(ent.LoggerName, "storage"):
		return "storage"
	case strings.Contains(ent.LoggerName, "ledger"), strings.Contains(ent.LoggerName, "vouch"):
		return "ledger"
	case strings.Contains(ent.LoggerName, "bot"):
		return "bot"
	case strings.Contains(ent.LoggerName, "status"):
		return "status"
	default:
		return "application"
	}
}
