package observe

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// RequestStats summarizes one completed logical API call.
type RequestStats struct {
	// Status is the final HTTP status code, 0 if no response was received.
	Status int

	// Attempts is the number of transport attempts made (>= 1).
	Attempts int

	// Duration is the total wall-clock time of the call, retries included.
	Duration time.Duration
}

// Metrics records API request metrics.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: implementations must not panic.
type Metrics interface {
	// RecordRequest records a completed logical call with its final outcome.
	RecordRequest(ctx context.Context, meta RequestMeta, stats RequestStats, err error)
}

// metricsImpl is the concrete implementation of Metrics.
type metricsImpl struct {
	meter        metric.Meter
	totalCount   metric.Int64Counter
	errorCount   metric.Int64Counter
	retryCount   metric.Int64Counter
	durationHist metric.Float64Histogram
}

// NewMetrics creates a Metrics instance with the given meter.
func NewMetrics(meter metric.Meter) (Metrics, error) {
	totalCount, err := meter.Int64Counter(
		"api.request.total",
		metric.WithDescription("Total number of logical API calls"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return nil, err
	}

	errorCount, err := meter.Int64Counter(
		"api.request.errors",
		metric.WithDescription("Total number of failed API calls"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, err
	}

	retryCount, err := meter.Int64Counter(
		"api.request.retries",
		metric.WithDescription("Total number of retried transport attempts"),
		metric.WithUnit("{attempt}"),
	)
	if err != nil {
		return nil, err
	}

	durationHist, err := meter.Float64Histogram(
		"api.request.duration_ms",
		metric.WithDescription("API call duration in milliseconds, retries included"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	return &metricsImpl{
		meter:        meter,
		totalCount:   totalCount,
		errorCount:   errorCount,
		retryCount:   retryCount,
		durationHist: durationHist,
	}, nil
}

// RecordRequest records metrics for a completed logical call.
func (m *metricsImpl) RecordRequest(ctx context.Context, meta RequestMeta, stats RequestStats, err error) {
	attrs := []attribute.KeyValue{
		attribute.String("api.service", meta.Service),
		attribute.String("http.method", meta.Method),
	}
	if stats.Status > 0 {
		attrs = append(attrs, attribute.Int("http.status_code", stats.Status))
	}

	opt := metric.WithAttributes(attrs...)

	// Always increment total counter
	m.totalCount.Add(ctx, 1, opt)

	// Increment error counter on failure
	if err != nil {
		m.errorCount.Add(ctx, 1, opt)
	}

	// Attempts beyond the first are retries
	if stats.Attempts > 1 {
		m.retryCount.Add(ctx, int64(stats.Attempts-1), opt)
	}

	m.durationHist.Record(ctx, float64(stats.Duration.Milliseconds()), opt)
}

// noopMetrics is a metrics implementation that does nothing.
type noopMetrics struct{}

// NewNoopMetrics creates a Metrics that discards everything.
func NewNoopMetrics() Metrics { return &noopMetrics{} }

func (m *noopMetrics) RecordRequest(ctx context.Context, meta RequestMeta, stats RequestStats, err error) {
}
