package saga

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecuteAllStepsSucceed(t *testing.T) {
	var order []string

	s := New("place-order").
		AddStep(Step{
			Name: "first",
			Run: func(ctx context.Context) error {
				order = append(order, "first")
				return nil
			},
			Compensate: func(ctx context.Context) error {
				order = append(order, "undo-first")
				return nil
			},
		}).
		AddStep(Step{
			Name: "second",
			Run: func(ctx context.Context) error {
				order = append(order, "second")
				return nil
			},
		})

	err := s.Execute(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, []string{"first", "second"}, order)
}

func TestExecuteCompensatesInReverseOrder(t *testing.T) {
	var order []string
	boom := errors.New("insert failed")

	s := New("place-order").
		AddStep(Step{
			Name: "first",
			Run: func(ctx context.Context) error {
				order = append(order, "first")
				return nil
			},
			Compensate: func(ctx context.Context) error {
				order = append(order, "undo-first")
				return nil
			},
		}).
		AddStep(Step{
			Name: "second",
			Run: func(ctx context.Context) error {
				order = append(order, "second")
				return nil
			},
			Compensate: func(ctx context.Context) error {
				order = append(order, "undo-second")
				return nil
			},
		}).
		AddStep(Step{
			Name: "third",
			Run: func(ctx context.Context) error {
				return boom
			},
			Compensate: func(ctx context.Context) error {
				order = append(order, "undo-third")
				return nil
			},
		})

	err := s.Execute(context.Background())
	require.Error(t, err)

	var execErr *ExecutionError
	require.ErrorAs(t, err, &execErr)
	assert.Equal(t, "third", execErr.FailedStep)
	assert.ErrorIs(t, err, boom)
	assert.True(t, execErr.FullyCompensated())
	assert.NotEmpty(t, execErr.ExecutionID)

	// failed step compensated first, then prior steps in reverse
	assert.Equal(t, []string{"first", "second", "undo-third", "undo-second", "undo-first"}, order)
}

func TestExecuteBestEffortFailureIgnored(t *testing.T) {
	var order []string

	s := New("place-order").
		AddStep(Step{
			Name: "transactional",
			Run: func(ctx context.Context) error {
				order = append(order, "transactional")
				return nil
			},
			Compensate: func(ctx context.Context) error {
				order = append(order, "undo-transactional")
				return nil
			},
		}).
		AddStep(Step{
			Name:       "notify",
			BestEffort: true,
			Run: func(ctx context.Context) error {
				return errors.New("notifier down")
			},
		}).
		AddStep(Step{
			Name: "final",
			Run: func(ctx context.Context) error {
				order = append(order, "final")
				return nil
			},
		})

	err := s.Execute(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, []string{"transactional", "final"}, order)
}

func TestExecuteBestEffortNeverCompensated(t *testing.T) {
	compensated := false

	s := New("place-order").
		AddStep(Step{
			Name:       "notify",
			BestEffort: true,
			Run:        func(ctx context.Context) error { return nil },
			Compensate: func(ctx context.Context) error {
				compensated = true
				return nil
			},
		}).
		AddStep(Step{
			Name: "failing",
			Run:  func(ctx context.Context) error { return errors.New("nope") },
		})

	err := s.Execute(context.Background())
	require.Error(t, err)
	assert.False(t, compensated)
}

func TestExecuteCollectsCompensationFailures(t *testing.T) {
	undoErr := errors.New("revert failed")

	s := New("place-order").
		AddStep(Step{
			Name: "first",
			Run:  func(ctx context.Context) error { return nil },
			Compensate: func(ctx context.Context) error {
				return undoErr
			},
		}).
		AddStep(Step{
			Name: "second",
			Run:  func(ctx context.Context) error { return errors.New("boom") },
		})

	err := s.Execute(context.Background())
	require.Error(t, err)

	var execErr *ExecutionError
	require.ErrorAs(t, err, &execErr)
	assert.False(t, execErr.FullyCompensated())
	assert.ErrorIs(t, execErr.CompensationErrs["first"], undoErr)
}
