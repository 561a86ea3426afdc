// Package observe provides telemetry for API clients: tracing, metrics, and
// structured logging built on OpenTelemetry.
//
// # Components
//
//   - Observer: bundles a tracer, meter, and logger behind one lifecycle,
//     configured from a single Config and shut down together.
//
//   - Tracer: one span per logical API call (SpanKindClient), with retry
//     attempts recorded as span events instead of child spans.
//
//   - Metrics: request totals, failures, retry counts, and a duration
//     histogram keyed by service, method, and final status code.
//
//   - Logger: JSON structured logging with level filtering and automatic
//     redaction of credential-bearing fields.
//
// # Usage
//
//	obs, err := observe.NewObserver(ctx, observe.Config{
//	    ServiceName: "agrikit",
//	    Version:     "1.4.0",
//	    Tracing:     observe.TracingConfig{Enabled: true, Exporter: "otlp", SamplePct: 0.1},
//	    Metrics:     observe.MetricsConfig{Enabled: true, Exporter: "prometheus"},
//	    Logging:     observe.LoggingConfig{Enabled: true, Level: "info"},
//	})
//	if err != nil {
//	    return err
//	}
//	defer obs.Shutdown(ctx)
//
// Exporters are selected by name (otlp, jaeger, prometheus, stdout, none)
// through the exporters subpackage; OTLP endpoints come from the standard
// OTEL_EXPORTER_* environment variables.
package observe
