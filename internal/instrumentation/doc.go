// Package instrumentation provides opt-in OpenTelemetry metrics for
// kube-assistant: model request counts, tool execution counts and
// durations, and reasoning run outcomes.
//
// Instrumentation is disabled by default for zero overhead. Set
// INSTRUMENTATION_ENABLED=true to activate it; METRICS_EXPORTER selects
// between the stdout exporter (default) and an OTLP HTTP collector
// configured via OTEL_EXPORTER_OTLP_ENDPOINT.
package instrumentation
