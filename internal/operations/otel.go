package operations

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/xopraneet789/cycling-performance-analysis/internal/infrastructure"
)

const (
	TracerName = "cyclingstats.operation"
)

// OperationTracer provides OpenTelemetry instrumentation for pipeline runs
type OperationTracer struct {
	tracer  trace.Tracer
	metrics *infrastructure.RunMetrics
}

// NewOperationTracer creates a tracer on the given providers. Nil providers
// give a tracer that records nothing.
func NewOperationTracer(providers *infrastructure.OTelProviders) (*OperationTracer, error) {
	if providers == nil {
		return &OperationTracer{tracer: noop.NewTracerProvider().Tracer(TracerName)}, nil
	}

	metrics, err := infrastructure.CreateRunMetrics(providers.Meter)
	if err != nil {
		return nil, fmt.Errorf("failed to create run metrics: %w", err)
	}

	tracer := providers.Tracer
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer(TracerName)
	}

	return &OperationTracer{tracer: tracer, metrics: metrics}, nil
}

// Metrics returns the run metrics, nil when telemetry is disabled
func (pt *OperationTracer) Metrics() *infrastructure.RunMetrics {
	return pt.metrics
}

// TracePipeline creates a span for a whole pipeline run
func (pt *OperationTracer) TracePipeline(ctx context.Context, operationID, pipeline string) (context.Context, trace.Span) {
	return pt.tracer.Start(ctx, "pipeline."+pipeline,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("operation.id", operationID),
			attribute.String("operation.pipeline", pipeline),
		),
	)
}

// TraceStep creates a span for one Step
func (pt *OperationTracer) TraceStep(ctx context.Context, operationID, pipeline, stepID string) (context.Context, trace.Span) {
	return pt.tracer.Start(ctx, "step."+stepID,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("operation.id", operationID),
			attribute.String("operation.pipeline", pipeline),
			attribute.String("step.id", stepID),
		),
	)
}

// RecordStepCompletion records Step metrics and closes out its span status
func (pt *OperationTracer) RecordStepCompletion(ctx context.Context, span trace.Span, pipeline, stepID string, duration time.Duration, err error) {
	span.SetAttributes(attribute.Float64("step.duration_seconds", duration.Seconds()))
	infrastructure.RecordStepMetrics(ctx, pt.metrics, pipeline, stepID, duration, err)

	if err != nil {
		infrastructure.RecordError(ctx, err)
		return
	}
	span.SetStatus(codes.Ok, "step completed")
}

// RecordPipelineCompletion sets the final pipeline span status
func (pt *OperationTracer) RecordPipelineCompletion(span trace.Span, status OperationStatus, duration time.Duration) {
	span.SetAttributes(
		attribute.String("operation.status", string(status)),
		attribute.Float64("operation.duration_seconds", duration.Seconds()),
	)
	if status == OperationStatusCompleted {
		span.SetStatus(codes.Ok, "pipeline completed")
		return
	}
	span.SetStatus(codes.Error, fmt.Sprintf("pipeline %s", status))
}
