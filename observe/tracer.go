package observe

import (
	"context"
	"strconv"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

// RequestMeta identifies one logical API call for telemetry purposes.
type RequestMeta struct {
	Service  string // Logical backend service name (e.g. "weather")
	Method   string // HTTP method
	Endpoint string // Relative endpoint path
}

// SpanName returns the deterministic span name for this request.
// Format: api.request.<service>.<method> or api.request.<method>
func (m RequestMeta) SpanName() string {
	if m.Service != "" {
		return "api.request." + m.Service + "." + m.Method
	}
	return "api.request." + m.Method
}

// Tracer wraps OpenTelemetry tracing with request-scoped span management.
//
// One span covers one logical call; retry attempts are recorded as span
// events rather than child spans.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: EndSpan and RecordAttempt must be best-effort and must not panic.
type Tracer interface {
	// StartSpan starts a new span for a logical API call.
	StartSpan(ctx context.Context, meta RequestMeta) (context.Context, trace.Span)

	// RecordAttempt records one transport attempt on the span.
	RecordAttempt(span trace.Span, attempt int, status int, err error)

	// EndSpan ends the span, recording any terminal error.
	EndSpan(span trace.Span, err error)
}

// tracerImpl is the concrete implementation of Tracer.
type tracerImpl struct {
	tracer trace.Tracer
}

// NewTracer creates a Tracer wrapping the given OpenTelemetry tracer.
func NewTracer(t trace.Tracer) Tracer {
	return &tracerImpl{tracer: t}
}

// StartSpan starts a new span with request metadata as attributes.
func (t *tracerImpl) StartSpan(ctx context.Context, meta RequestMeta) (context.Context, trace.Span) {
	attrs := []attribute.KeyValue{
		attribute.String("api.service", meta.Service),
		attribute.String("http.method", meta.Method),
		attribute.String("api.endpoint", meta.Endpoint),
	}

	ctx, span := t.tracer.Start(ctx, meta.SpanName(),
		trace.WithAttributes(attrs...),
		trace.WithSpanKind(trace.SpanKindClient),
	)

	return ctx, span
}

// RecordAttempt adds a span event for one transport attempt.
func (t *tracerImpl) RecordAttempt(span trace.Span, attempt int, status int, err error) {
	attrs := []attribute.KeyValue{
		attribute.Int("api.attempt", attempt),
	}
	if status > 0 {
		attrs = append(attrs, attribute.Int("http.status_code", status))
	}
	if err != nil {
		attrs = append(attrs, attribute.String("api.attempt_error", err.Error()))
	}
	span.AddEvent("api.attempt."+strconv.Itoa(attempt), trace.WithAttributes(attrs...))
}

// EndSpan ends the span and records the error status if present.
func (t *tracerImpl) EndSpan(span trace.Span, err error) {
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		span.SetAttributes(attribute.Bool("api.error", true))
		span.RecordError(err)
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// noopTracer is a tracer that does nothing.
type noopTracer struct {
	noop trace.Tracer
}

// NewNoopTracer creates a no-op tracer.
func NewNoopTracer() Tracer {
	return &noopTracer{
		noop: tracenoop.NewTracerProvider().Tracer("noop"),
	}
}

func (t *noopTracer) StartSpan(ctx context.Context, meta RequestMeta) (context.Context, trace.Span) {
	return t.noop.Start(ctx, meta.SpanName())
}

func (t *noopTracer) RecordAttempt(span trace.Span, attempt int, status int, err error) {}

func (t *noopTracer) EndSpan(span trace.Span, err error) {
	span.End()
}
