package httpapi

import (
	"context"
	"testing"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func useRecordingTracer(t *testing.T) (*tracetest.SpanRecorder, *sdktrace.TracerProvider) {
	t.Helper()

	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	previous := apiTracer
	apiTracer = provider.Tracer(tracerName)
	t.Cleanup(func() {
		apiTracer = previous
		_ = provider.Shutdown(context.Background())
	})
	return recorder, provider
}

func TestStartHandlerSpan_ChildOfRequestSpan(t *testing.T) {
	recorder, provider := useRecordingTracer(t)

	ctx, parent := provider.Tracer("test").Start(context.Background(), "GET /api/live-matches")
	_, span := startHandlerSpan(ctx, "ListLiveMatches", "/api/live-matches")
	span.End()
	parent.End()

	ended := recorder.Ended()
	if len(ended) != 2 {
		t.Fatalf("expected handler and request spans, got %d", len(ended))
	}
	handlerSpan := ended[0]
	if handlerSpan.Name() != "httpapi.Handler.ListLiveMatches" {
		t.Fatalf("unexpected span name %q", handlerSpan.Name())
	}
	if handlerSpan.Parent().SpanID() != parent.SpanContext().SpanID() {
		t.Fatalf("handler span is not a child of the request span")
	}
	found := false
	for _, attr := range handlerSpan.Attributes() {
		if attr.Key == "http.route" && attr.Value.AsString() == "/api/live-matches" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected http.route attribute, got %v", handlerSpan.Attributes())
	}
}

func TestStartHandlerSpan_NoParentIsNoop(t *testing.T) {
	recorder, _ := useRecordingTracer(t)

	ctx := context.Background()
	gotCtx, span := startHandlerSpan(ctx, "Healthz", "/healthz")
	span.End()

	if gotCtx != ctx {
		t.Fatalf("expected context to pass through unchanged")
	}
	if span.SpanContext().IsValid() {
		t.Fatalf("expected a no-op span")
	}
	if n := len(recorder.Ended()); n != 0 {
		t.Fatalf("expected no recorded spans, got %d", n)
	}
}
