package httpapi

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

const tracerName = "parlaywatch/internal/interfaces/httpapi"

var apiTracer = otel.Tracer(tracerName)

// startHandlerSpan opens a child of the otelhttp request span. Requests the
// tracing middleware filtered out (health, metrics) get a no-op span so no
// orphan root spans are exported.
func startHandlerSpan(ctx context.Context, operation, route string) (context.Context, trace.Span) {
	if !trace.SpanContextFromContext(ctx).IsValid() {
		return ctx, noop.Span{}
	}
	return apiTracer.Start(ctx, "httpapi.Handler."+operation,
		trace.WithAttributes(attribute.String("http.route", route)),
	)
}
