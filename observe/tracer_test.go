package observe

import (
	"context"
	"errors"
	"testing"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
)

// TestRequestMeta_SpanNameWithService verifies span name includes the service.
func TestRequestMeta_SpanNameWithService(t *testing.T) {
	meta := RequestMeta{
		Service: "weather",
		Method:  "GET",
	}

	expected := "api.request.weather.GET"
	if got := meta.SpanName(); got != expected {
		t.Errorf("expected %q, got %q", expected, got)
	}
}

// TestRequestMeta_SpanNameWithoutService verifies span name without a service.
func TestRequestMeta_SpanNameWithoutService(t *testing.T) {
	meta := RequestMeta{Method: "POST"}

	expected := "api.request.POST"
	if got := meta.SpanName(); got != expected {
		t.Errorf("expected %q, got %q", expected, got)
	}
}

// TestTracer_SpanAttributes verifies all request attributes are present on the span.
func TestTracer_SpanAttributes(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	tracer := tp.Tracer("test")

	tr := NewTracer(tracer)
	meta := RequestMeta{
		Service:  "fieldops",
		Method:   "POST",
		Endpoint: "/v1/fields",
	}

	ctx, span := tr.StartSpan(context.Background(), meta)
	_ = ctx
	tr.EndSpan(span, nil)

	spans := recorder.Ended()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}

	got := spans[0]
	if got.Name() != "api.request.fieldops.POST" {
		t.Errorf("expected span name 'api.request.fieldops.POST', got %q", got.Name())
	}
	if got.SpanKind() != trace.SpanKindClient {
		t.Errorf("expected SpanKindClient, got %v", got.SpanKind())
	}

	attrs := map[attribute.Key]attribute.Value{}
	for _, kv := range got.Attributes() {
		attrs[kv.Key] = kv.Value
	}
	if v := attrs["api.service"].AsString(); v != "fieldops" {
		t.Errorf("expected api.service='fieldops', got %q", v)
	}
	if v := attrs["http.method"].AsString(); v != "POST" {
		t.Errorf("expected http.method='POST', got %q", v)
	}
	if v := attrs["api.endpoint"].AsString(); v != "/v1/fields" {
		t.Errorf("expected api.endpoint='/v1/fields', got %q", v)
	}
}

// TestTracer_RecordAttempt verifies attempts are recorded as span events.
func TestTracer_RecordAttempt(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	tracer := tp.Tracer("test")

	tr := NewTracer(tracer)
	_, span := tr.StartSpan(context.Background(), RequestMeta{Method: "GET"})

	tr.RecordAttempt(span, 1, 503, nil)
	tr.RecordAttempt(span, 2, 0, errors.New("dial tcp: connection refused"))
	tr.EndSpan(span, nil)

	spans := recorder.Ended()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}

	events := spans[0].Events()
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if events[0].Name != "api.attempt.1" {
		t.Errorf("expected event 'api.attempt.1', got %q", events[0].Name)
	}
	if events[1].Name != "api.attempt.2" {
		t.Errorf("expected event 'api.attempt.2', got %q", events[1].Name)
	}

	first := map[attribute.Key]attribute.Value{}
	for _, kv := range events[0].Attributes {
		first[kv.Key] = kv.Value
	}
	if v := first["http.status_code"].AsInt64(); v != 503 {
		t.Errorf("expected http.status_code=503, got %d", v)
	}

	second := map[attribute.Key]attribute.Value{}
	for _, kv := range events[1].Attributes {
		second[kv.Key] = kv.Value
	}
	if v := second["api.attempt_error"].AsString(); v == "" {
		t.Error("expected api.attempt_error to be set on failed attempt")
	}
}

// TestTracer_EndSpanWithError verifies error status and attribute on failure.
func TestTracer_EndSpanWithError(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	tracer := tp.Tracer("test")

	tr := NewTracer(tracer)
	_, span := tr.StartSpan(context.Background(), RequestMeta{Method: "GET"})
	tr.EndSpan(span, errors.New("Server error: 500"))

	spans := recorder.Ended()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}

	got := spans[0]
	if got.Status().Code != codes.Error {
		t.Errorf("expected status Error, got %v", got.Status().Code)
	}

	var errAttr bool
	for _, kv := range got.Attributes() {
		if kv.Key == "api.error" && kv.Value.AsBool() {
			errAttr = true
		}
	}
	if !errAttr {
		t.Error("expected api.error=true attribute")
	}
	if len(got.Events()) == 0 {
		t.Error("expected RecordError event on span")
	}
}

// TestTracer_EndSpanSuccess verifies Ok status on success.
func TestTracer_EndSpanSuccess(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	tracer := tp.Tracer("test")

	tr := NewTracer(tracer)
	_, span := tr.StartSpan(context.Background(), RequestMeta{Method: "GET"})
	tr.EndSpan(span, nil)

	spans := recorder.Ended()
	if spans[0].Status().Code != codes.Ok {
		t.Errorf("expected status Ok, got %v", spans[0].Status().Code)
	}
}

// TestNoopTracer verifies the noop tracer is safe to use.
func TestNoopTracer(t *testing.T) {
	tr := NewNoopTracer()
	_, span := tr.StartSpan(context.Background(), RequestMeta{Method: "GET"})
	tr.RecordAttempt(span, 1, 200, nil)
	tr.EndSpan(span, nil)
}
