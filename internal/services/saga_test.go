package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunSaga(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("boom")

	t.Run("all steps succeed", func(t *testing.T) {
		var calls []string
		step := func(name string) sagaStep {
			return sagaStep{
				name:       name,
				apply:      func(context.Context) error { calls = append(calls, "apply "+name); return nil },
				compensate: func(context.Context) error { calls = append(calls, "undo "+name); return nil },
			}
		}

		require.NoError(t, runSaga(ctx, "op", []sagaStep{step("a"), step("b")}))
		assert.Equal(t, []string{"apply a", "apply b"}, calls)
	})

	t.Run("failure compensates in reverse", func(t *testing.T) {
		var calls []string
		steps := []sagaStep{
			{
				name:       "a",
				apply:      func(context.Context) error { calls = append(calls, "apply a"); return nil },
				compensate: func(context.Context) error { calls = append(calls, "undo a"); return nil },
			},
			{
				name:  "b",
				apply: func(context.Context) error { calls = append(calls, "apply b"); return nil },
			},
			{
				name:       "c",
				apply:      func(context.Context) error { calls = append(calls, "apply c"); return nil },
				compensate: func(context.Context) error { calls = append(calls, "undo c"); return nil },
			},
			{
				name:       "d",
				apply:      func(context.Context) error { return boom },
				compensate: func(context.Context) error { calls = append(calls, "undo d"); return nil },
			},
		}

		err := runSaga(ctx, "op", steps)
		require.ErrorIs(t, err, ErrSettlementFailed)
		assert.ErrorIs(t, err, boom)

		var stepErr *StepError
		require.ErrorAs(t, err, &stepErr)
		assert.Equal(t, "d", stepErr.Step)
		assert.Equal(t, []string{"apply a", "apply b", "apply c", "undo c", "undo a"}, calls)
	})

	t.Run("failed compensation is an inconsistency", func(t *testing.T) {
		undone := false
		steps := []sagaStep{
			{
				name:       "a",
				apply:      func(context.Context) error { return nil },
				compensate: func(context.Context) error { undone = true; return nil },
			},
			{
				name:       "b",
				apply:      func(context.Context) error { return nil },
				compensate: func(context.Context) error { return errors.New("undo refused") },
			},
			{
				name:  "c",
				apply: func(context.Context) error { return boom },
			},
		}

		err := runSaga(ctx, "op", steps)
		require.ErrorIs(t, err, ErrSettlementInconsistency)
		assert.False(t, errors.Is(err, ErrSettlementFailed))
		assert.False(t, undone, "compensation must stop at the first failure")
	})

	t.Run("compensations ignore caller cancellation", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		var compensateErr error
		steps := []sagaStep{
			{
				name:       "a",
				apply:      func(context.Context) error { return nil },
				compensate: func(ctx context.Context) error { compensateErr = ctx.Err(); return nil },
			},
			{
				name:  "b",
				apply: func(context.Context) error { cancel(); return context.Canceled },
			},
		}

		err := runSaga(cctx, "op", steps)
		require.ErrorIs(t, err, ErrSettlementFailed)
		assert.NoError(t, compensateErr)
	})
}
