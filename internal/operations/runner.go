package operations

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/xopraneet789/cycling-performance-analysis/internal/infrastructure"
)

// Runner executes the steps of one pipeline strictly in order. The first
// failure stops the run and every later Step is marked skipped.
type Runner struct {
	pipeline string
	registry *Registry
	tracer   *OperationTracer
	logger   *slog.Logger
}

// NewRunner creates a runner over the registered steps
func NewRunner(pipeline string, registry *Registry, tracer *OperationTracer, logger *slog.Logger) *Runner {
	if tracer == nil {
		tracer, _ = NewOperationTracer(nil)
	}
	if logger == nil {
		logger = infrastructure.GetLogger()
	}
	return &Runner{
		pipeline: pipeline,
		registry: registry,
		tracer:   tracer,
		logger:   logger.With(slog.String("pipeline", pipeline)),
	}
}

// Run executes every Step with a fresh state. The returned state is always
// non-nil and records the status of each Step.
func (r *Runner) Run(ctx context.Context) (*OperationState, error) {
	ctx = infrastructure.EnsureTraceID(ctx)
	state := NewOperationState(infrastructure.GetTraceID(ctx), r.pipeline)
	return state, r.run(ctx, state)
}

func (r *Runner) run(ctx context.Context, state *OperationState) error {
	steps := r.registry.List()
	for _, s := range steps {
		state.AddStage(NewStepState(s.ID(), s.Name()))
	}

	ctx, span := r.tracer.TracePipeline(ctx, state.ID, r.pipeline)
	defer span.End()

	state.Start()
	r.logger.InfoContext(ctx, "Pipeline started", slog.Int("step_count", len(steps)))

	for i, s := range steps {
		if err := ctx.Err(); err != nil {
			cancelErr := NewCancellationError(s.ID(), err)
			r.skipRemaining(state, steps[i:], "operation cancelled")
			state.Cancel(cancelErr)
			r.tracer.RecordPipelineCompletion(span, OperationStatusCancelled, state.Duration())
			r.logger.WarnContext(ctx, "Pipeline cancelled", slog.String("step", s.ID()))
			return cancelErr
		}

		if err := r.executeStep(ctx, state, s, i+1, len(steps)); err != nil {
			r.skipRemaining(state, steps[i+1:], fmt.Sprintf("previous step %s failed", s.ID()))
			state.Fail(err)
			r.tracer.RecordPipelineCompletion(span, OperationStatusFailed, state.Duration())
			return err
		}
	}

	state.Complete()
	r.tracer.RecordPipelineCompletion(span, OperationStatusCompleted, state.Duration())
	r.logger.InfoContext(ctx, "Pipeline completed",
		slog.Int("step_count", len(steps)),
		slog.Duration("duration", state.Duration()))
	return nil
}

// executeStep runs one Step inside its own span
func (r *Runner) executeStep(ctx context.Context, state *OperationState, s Step, n, total int) error {
	stepState := state.GetStage(s.ID())

	ctx, span := r.tracer.TraceStep(ctx, state.ID, r.pipeline, s.ID())
	defer span.End()

	r.logger.InfoContext(ctx, "Executing step",
		slog.String("step", s.ID()),
		slog.Int("step_number", n),
		slog.Int("total_steps", total))

	stepState.Start()
	start := time.Now()
	err := s.Execute(ctx, state)
	duration := time.Since(start)
	r.tracer.RecordStepCompletion(ctx, span, r.pipeline, s.ID(), duration, err)

	if err != nil {
		stepState.Fail(err)
		r.logger.ErrorContext(ctx, "Step failed",
			slog.String("step", s.ID()),
			slog.Duration("duration", duration),
			slog.String("error", err.Error()))
		return NewExecutionError(s.ID(), err)
	}

	stepState.Complete()
	r.logger.DebugContext(ctx, "Step completed",
		slog.String("step", s.ID()),
		slog.Duration("duration", duration))
	return nil
}

func (r *Runner) skipRemaining(state *OperationState, steps []Step, reason string) {
	for _, s := range steps {
		if st := state.GetStage(s.ID()); st != nil && st.GetStatus() == StepStatusPending {
			st.Skip(reason)
		}
	}
}
