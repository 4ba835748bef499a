package workflow

import (
	"github.com/summeets/engine/domain/model"
	pkgerrors "github.com/summeets/engine/pkg/errors"
	"github.com/summeets/engine/pkg/cancel"
)

// Executor runs an already-filtered step list sequentially, emitting
// progress and wrapping any step failure in a WorkflowError carrying the
// failing step's name. It never catches CancelledError or Interrupted —
// those propagate straight through to the caller, matching the source's
// "cancellation is not a failure" distinction.
type Executor struct{}

// NewExecutor builds an Executor. It is stateless; Engine holds it as a
// concrete *Executor field.
func NewExecutor() *Executor { return &Executor{} }

// Run executes steps in order, checking token at each stage boundary.
// On success it returns the accumulated result map keyed by step name;
// on step failure it returns the partial map and a *WorkflowError.
func (e *Executor) Run(token *cancel.Token, steps []model.WorkflowStep, progress model.ProgressFunc) (map[model.StepName]model.StageResult, error) {
	results := make(map[model.StepName]model.StageResult, len(steps))
	total := len(steps)

	for i, step := range steps {
		if err := token.Check(); err != nil {
			return results, err
		}

		emit(progress, i+1, total, string(step.Name), "Executing "+string(step.Name)+"...")

		result, err := step.Run(step.Settings)
		if err != nil {
			if isCancellationLike(err) {
				return results, err
			}
			return results, pkgerrors.NewWorkflowError(string(step.Name), err)
		}
		results[step.Name] = result
	}

	emit(progress, total, total, "complete", "Workflow completed successfully")
	return results, nil
}

func emit(progress model.ProgressFunc, stepIndex, total int, name, message string) {
	if progress == nil {
		return
	}
	progress(stepIndex, total, name, message)
}

func isCancellationLike(err error) bool {
	if _, ok := err.(*cancel.CancelledError); ok {
		return true
	}
	if _, ok := pkgerrors.As[*pkgerrors.CancelledError](err); ok {
		return true
	}
	if _, ok := pkgerrors.As[*pkgerrors.Interrupted](err); ok {
		return true
	}
	return false
}
