package operations

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStepStateTransitions(t *testing.T) {
	s := NewStepState("load", "Load dataset")
	assert.Equal(t, StepStatusPending, s.GetStatus())
	assert.Zero(t, s.Duration())

	s.Start()
	assert.Equal(t, StepStatusActive, s.GetStatus())
	assert.NotNil(t, s.StartTime)

	time.Sleep(time.Millisecond)
	s.Complete()
	assert.Equal(t, StepStatusCompleted, s.GetStatus())
	assert.Greater(t, s.Duration(), time.Duration(0))

	s.SetMetadata("rows", 12)
	assert.Equal(t, 12, s.Metadata["rows"])

	failed := NewStepState("tukey_hsd", "Tukey HSD")
	failed.Start()
	failed.Fail(errors.New("no variance"))
	assert.Equal(t, StepStatusFailed, failed.GetStatus())
	assert.EqualError(t, failed.Error, "no variance")

	skipped := NewStepState("summary", "Test summary")
	skipped.Skip("previous step failed")
	assert.Equal(t, StepStatusSkipped, skipped.GetStatus())
	assert.Equal(t, "previous step failed", skipped.Message)
}

func TestOperationState(t *testing.T) {
	state := NewOperationState("run-1", "statistics")
	assert.Equal(t, OperationStatusPending, state.Status)

	state.AddStage(NewStepState("load", "Load dataset"))
	state.AddStage(NewStepState("describe", "Descriptive statistics"))
	assert.NotNil(t, state.GetStage("describe"))
	assert.Nil(t, state.GetStage("missing"))

	state.SetContext("key", 42)
	v, ok := state.GetContext("key")
	assert.True(t, ok)
	assert.Equal(t, 42, v)
	_, ok = state.GetContext("other")
	assert.False(t, ok)

	state.Start()
	assert.Equal(t, OperationStatusRunning, state.Status)
	state.Complete()
	assert.Equal(t, OperationStatusCompleted, state.Status)
	assert.NotNil(t, state.EndTime)

	cancelled := NewOperationState("run-2", "visualization")
	err := errors.New("stop")
	cancelled.Cancel(err)
	assert.Equal(t, OperationStatusCancelled, cancelled.Status)
	assert.Equal(t, err, cancelled.Error)
}

func TestOperationError(t *testing.T) {
	cause := errors.New("zero residual sum of squares")
	err := NewExecutionError("two_way_anova", cause)

	assert.Equal(t, "[execution] two_way_anova: step failed: zero residual sum of squares", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "two_way_anova", FailedStep(err))
	assert.False(t, IsCancellation(err))

	v := NewValidationError("summary", "no results")
	assert.Equal(t, "[validation] summary: no results", v.Error())
	assert.Nil(t, v.Unwrap())

	var nilErr *OperationError
	assert.Equal(t, "unknown operation error", nilErr.Error())
	assert.Equal(t, "", FailedStep(errors.New("plain")))
}
