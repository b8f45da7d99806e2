// Package saga runs an ordered sequence of forward actions, each paired with
// a compensating action, to approximate atomicity across independent writes.
package saga

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"fleamarket/pkg/log"
)

// Step is one unit of a saga. Compensate must be safe to call even when Run
// applied only partially: it undoes whatever effects Run may have had.
type Step struct {
	// Name identifies the step in logs and errors
	Name string

	// Run performs the forward action
	Run func(ctx context.Context) error

	// Compensate undoes the forward action. May be nil when there is
	// nothing to undo (e.g. the final step of the sequence).
	Compensate func(ctx context.Context) error

	// BestEffort marks a step whose failure never aborts the saga and
	// which is never compensated (fire-and-forget side effects).
	BestEffort bool
}

// ExecutionError reports a failed saga run: which step failed, why, and
// which compensations (if any) failed afterwards.
type ExecutionError struct {
	ExecutionID      string
	FailedStep       string
	Cause            error
	CompensationErrs map[string]error
}

// Error implement error interface
func (e *ExecutionError) Error() string {
	return fmt.Sprintf("saga step %q failed: %v", e.FailedStep, e.Cause)
}

// Unwrap implement errors.Unwrap interface
func (e *ExecutionError) Unwrap() error {
	return e.Cause
}

// FullyCompensated reports whether every attempted compensation succeeded
func (e *ExecutionError) FullyCompensated() bool {
	return len(e.CompensationErrs) == 0
}

// Saga an ordered list of steps
type Saga struct {
	name  string
	steps []Step
}

// New creates a saga with the given name
func New(name string) *Saga {
	return &Saga{name: name}
}

// AddStep appends a step and returns the saga for chaining
func (s *Saga) AddStep(step Step) *Saga {
	s.steps = append(s.steps, step)
	return s
}

// Execute runs the steps in order. On the first failing transactional step it
// compensates every transactional step executed so far, in reverse order,
// including the failed step itself (its forward action may have partially
// applied). Best-effort step failures are logged and ignored. Compensation is
// itself best-effort: failures are collected, not retried.
func (s *Saga) Execute(ctx context.Context) error {
	executionID := uuid.NewString()

	for i, step := range s.steps {
		err := step.Run(ctx)
		if err == nil {
			continue
		}

		if step.BestEffort {
			log.WithFields(map[string]interface{}{
				"saga":         s.name,
				"execution_id": executionID,
				"step":         step.Name,
				"error":        err.Error(),
			}).Warn("Best-effort saga step failed, continuing")
			continue
		}

		log.WithFields(map[string]interface{}{
			"saga":         s.name,
			"execution_id": executionID,
			"step":         step.Name,
			"error":        err.Error(),
		}).Error("Saga step failed, compensating")

		execErr := &ExecutionError{
			ExecutionID:      executionID,
			FailedStep:       step.Name,
			Cause:            err,
			CompensationErrs: map[string]error{},
		}
		s.compensate(ctx, executionID, i, execErr)

		if len(execErr.CompensationErrs) == 0 {
			execErr.CompensationErrs = nil
		}
		return execErr
	}

	return nil
}

// compensate undoes steps [0, failedIdx] in reverse order
func (s *Saga) compensate(ctx context.Context, executionID string, failedIdx int, execErr *ExecutionError) {
	for i := failedIdx; i >= 0; i-- {
		step := s.steps[i]
		if step.BestEffort || step.Compensate == nil {
			continue
		}

		if err := step.Compensate(ctx); err != nil {
			execErr.CompensationErrs[step.Name] = err
			log.WithFields(map[string]interface{}{
				"saga":         s.name,
				"execution_id": executionID,
				"step":         step.Name,
				"error":        err.Error(),
			}).Error("Saga compensation failed, manual reconciliation required")
		}
	}
}
