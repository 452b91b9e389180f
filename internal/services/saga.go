package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/sbilibin2017/gw-escrow-settlement/internal/logger"
)

// sagaStep is one mutation of a multi-document operation with its inverse.
// compensate may be nil for steps that need no undo.
type sagaStep struct {
	name       string
	apply      func(ctx context.Context) error
	compensate func(ctx context.Context) error
}

// runSaga applies steps in order. When a step fails the compensations of
// every earlier step run in reverse order. The returned error wraps
// ErrSettlementFailed when every compensation succeeded and
// ErrSettlementInconsistency when one of them failed. Compensation stops at
// the first failing inverse so later ones never run against a state that is
// already inconsistent.
func runSaga(ctx context.Context, op string, steps []sagaStep) error {
	for i, step := range steps {
		err := step.apply(ctx)
		if err == nil {
			continue
		}

		logger.Log.Warnw("saga step failed, compensating",
			"operation", op, "step", step.name, "error", err)

		// compensations run to completion even when the caller gave up
		cctx := context.WithoutCancel(ctx)
		for j := i - 1; j >= 0; j-- {
			if steps[j].compensate == nil {
				continue
			}
			if cerr := steps[j].compensate(cctx); cerr != nil {
				logger.Log.DPanicw("saga compensation failed",
					"operation", op, "failed_step", step.name, "compensation", steps[j].name,
					"error", err, "compensation_error", cerr)
				if errors.Is(cerr, ErrSettlementInconsistency) {
					return cerr
				}
				return fmt.Errorf("%w: %s: compensating %s: %v", ErrSettlementInconsistency, op, steps[j].name, cerr)
			}
		}
		return &StepError{Op: op, Step: step.name, Err: err}
	}
	return nil
}

// StepError reports the step that made a saga fail after it was fully compensated.
type StepError struct {
	Op   string
	Step string
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("%s: step %s: %v", e.Op, e.Step, e.Err)
}

// Is makes every StepError match ErrSettlementFailed.
func (e *StepError) Is(target error) bool {
	return target == ErrSettlementFailed
}

func (e *StepError) Unwrap() error {
	return e.Err
}
