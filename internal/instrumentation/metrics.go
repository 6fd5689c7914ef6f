package instrumentation

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metric attribute keys - using constants for consistency.
const (
	attrTool    = "tool"
	attrResult  = "result"
	attrOutcome = "outcome"
)

// Metrics provides methods for recording observability metrics. A nil
// *Metrics is valid and records nothing, so callers never need to guard.
type Metrics struct {
	modelRequestsTotal    metric.Int64Counter
	toolExecutionsTotal   metric.Int64Counter
	toolExecutionDuration metric.Float64Histogram
	reasoningRunsTotal    metric.Int64Counter
	reasoningSteps        metric.Int64Histogram
}

// NewMetrics creates a Metrics instance with all instruments initialized.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{}

	var err error

	m.modelRequestsTotal, err = meter.Int64Counter(
		"model_requests_total",
		metric.WithDescription("Total number of model completion requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create model_requests_total counter: %w", err)
	}

	m.toolExecutionsTotal, err = meter.Int64Counter(
		"tool_executions_total",
		metric.WithDescription("Total number of cluster inspection commands executed"),
		metric.WithUnit("{execution}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create tool_executions_total counter: %w", err)
	}

	m.toolExecutionDuration, err = meter.Float64Histogram(
		"tool_execution_duration_seconds",
		metric.WithDescription("Inspection command duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.01, 0.1, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create tool_execution_duration_seconds histogram: %w", err)
	}

	m.reasoningRunsTotal, err = meter.Int64Counter(
		"reasoning_runs_total",
		metric.WithDescription("Total number of reasoning loop runs"),
		metric.WithUnit("{run}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create reasoning_runs_total counter: %w", err)
	}

	m.reasoningSteps, err = meter.Int64Histogram(
		"reasoning_run_steps",
		metric.WithDescription("Steps taken per reasoning loop run"),
		metric.WithUnit("{step}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create reasoning_run_steps histogram: %w", err)
	}

	return m, nil
}

// RecordModelRequest records one model completion attempt.
func (m *Metrics) RecordModelRequest(ctx context.Context, success bool) {
	if m == nil || m.modelRequestsTotal == nil {
		return
	}
	result := "success"
	if !success {
		result = "error"
	}
	m.modelRequestsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String(attrResult, result),
	))
}

// RecordToolExecution records one inspection command execution.
func (m *Metrics) RecordToolExecution(ctx context.Context, tool string, exitCode int, elapsed time.Duration) {
	if m == nil || m.toolExecutionsTotal == nil {
		return
	}
	result := "success"
	if exitCode != 0 {
		result = "error"
	}
	attrs := metric.WithAttributes(
		attribute.String(attrTool, tool),
		attribute.String(attrResult, result),
	)
	m.toolExecutionsTotal.Add(ctx, 1, attrs)
	m.toolExecutionDuration.Record(ctx, elapsed.Seconds(), attrs)
}

// RecordReasoningRun records a finished reasoning loop run.
func (m *Metrics) RecordReasoningRun(ctx context.Context, steps int, outcome string) {
	if m == nil || m.reasoningRunsTotal == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String(attrOutcome, outcome))
	m.reasoningRunsTotal.Add(ctx, 1, attrs)
	m.reasoningSteps.Record(ctx, int64(steps), attrs)
}
