package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "plankamcp/server"

var (
	tracer = otel.Tracer(instrumentationName)

	toolCalls    metric.Int64Counter
	toolDuration metric.Float64Histogram
)

// Instruments are created against the global provider, which delegates once
// an SDK is installed. Without one they are no-ops.
func init() {
	meter := otel.Meter(instrumentationName)

	var err error
	toolCalls, err = meter.Int64Counter("mcp.tool.calls",
		metric.WithDescription("Tool calls by tool, action and outcome"),
	)
	if err != nil {
		otel.Handle(err)
	}
	toolDuration, err = meter.Float64Histogram("mcp.tool.duration",
		metric.WithDescription("Tool call latency"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		otel.Handle(err)
	}
}

// StartToolSpan opens the span covering one tool call.
func StartToolSpan(ctx context.Context, tool, action string) (context.Context, trace.Span) {
	return tracer.Start(ctx, "mcp.tool "+tool,
		trace.WithSpanKind(trace.SpanKindServer),
		trace.WithAttributes(
			attribute.String("mcp.tool", tool),
			attribute.String("mcp.action", action),
		),
	)
}

// EndToolSpan marks the span failed. The caller still ends it.
func EndToolSpan(span trace.Span, err error) {
	if err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

// RecordToolCall adds one call to the counter and histogram.
func RecordToolCall(ctx context.Context, tool, action, outcome string, d time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String("tool", tool),
		attribute.String("action", action),
		attribute.String("outcome", outcome),
	)
	if toolCalls != nil {
		toolCalls.Add(ctx, 1, attrs)
	}
	if toolDuration != nil {
		toolDuration.Record(ctx, float64(d.Microseconds())/1000, attrs)
	}
}
