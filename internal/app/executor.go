package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jsamuelsen/quotesync/internal/platform/logging"
)

// Mutate-then-persist: Validate → Perform → Verify → Archive → Commit
//
// Every change to durable state runs through these steps in order:
//  1. VALIDATE - reject bad input before anything is computed
//  2. PERFORM  - compute the candidate state from the current one
//  3. VERIFY   - check the candidate before it can reach storage
//  4. ARCHIVE  - write the candidate to the persistent store
//  5. COMMIT   - publish the candidate in memory and build the result
//
// A failure at any step stops the run, so memory is only ever replaced by a
// state that the store has already accepted.

// ExecutionStep names a step of an Operation.
type ExecutionStep string

const (
	StepValidate ExecutionStep = "validate"
	StepPerform  ExecutionStep = "perform"
	StepVerify   ExecutionStep = "verify"
	StepArchive  ExecutionStep = "archive"
	StepCommit   ExecutionStep = "commit"
)

// ExecutionError records the operation and step where a run stopped.
// The domain error that caused it stays reachable through errors.Is/As.
type ExecutionError struct {
	Operation string
	Step      ExecutionStep
	Cause     error
}

// Error implements the error interface.
func (e *ExecutionError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("%s: %s failed", e.Operation, e.Step)
	}

	return fmt.Sprintf("%s: %v", e.Operation, e.Cause)
}

// Unwrap returns the underlying cause.
func (e *ExecutionError) Unwrap() error {
	return e.Cause
}

// Executor runs operations and logs each step.
type Executor struct {
	logger *slog.Logger
	now    func() time.Time
}

// NewExecutor creates a new executor with the given logger.
func NewExecutor(logger *slog.Logger) *Executor {
	if logger == nil {
		logger = slog.Default()
	}

	return &Executor{logger: logger, now: time.Now}
}

// Operation is one mutate-then-persist transaction.
// I is the input, C the candidate state, O the result handed back to the caller.
// Nil steps are skipped, except Perform which is required.
type Operation[I, C, O any] struct {
	// Name identifies the operation in logs and errors.
	Name string

	Validate func(ctx context.Context, input I) error

	Perform func(ctx context.Context, input I) (C, error)

	Verify func(ctx context.Context, input I, candidate C) error

	// Archive persists the candidate. Only called after Verify passed.
	Archive func(ctx context.Context, input I, candidate C) error

	// Commit applies the archived candidate in memory.
	Commit func(ctx context.Context, input I, candidate C) (O, error)
}

type run[I, C, O any] struct {
	logger *slog.Logger
	op     Operation[I, C, O]
	input  I
}

func (r *run[I, C, O]) fail(ctx context.Context, step ExecutionStep, err error) error {
	level := slog.LevelError
	if step == StepValidate {
		level = slog.LevelWarn
	}

	r.logger.Log(ctx, level, "step failed",
		slog.String("step", string(step)),
		slog.Any("error", err),
	)

	return &ExecutionError{Operation: r.op.Name, Step: step, Cause: err}
}

func (r *run[I, C, O]) trace(ctx context.Context, step ExecutionStep) {
	r.logger.Log(ctx, logging.LevelTrace, "step", slog.String("step", string(step)))
}

// Execute runs op for input through every step.
func Execute[I, C, O any](ctx context.Context, exec *Executor, op Operation[I, C, O], input I) (O, error) {
	var zero O

	if op.Perform == nil {
		return zero, &ExecutionError{Operation: op.Name, Step: StepPerform, Cause: errors.New("no perform step")}
	}

	logger := logging.FromContextOr(ctx, exec.logger)

	r := &run[I, C, O]{
		logger: logger.With(slog.String("operation", op.Name)),
		op:     op,
		input:  input,
	}
	start := exec.now()

	if op.Validate != nil {
		r.trace(ctx, StepValidate)

		if err := op.Validate(ctx, input); err != nil {
			return zero, r.fail(ctx, StepValidate, err)
		}
	}

	r.trace(ctx, StepPerform)

	candidate, err := op.Perform(ctx, input)
	if err != nil {
		return zero, r.fail(ctx, StepPerform, err)
	}

	if op.Verify != nil {
		r.trace(ctx, StepVerify)

		if err := op.Verify(ctx, input, candidate); err != nil {
			return zero, r.fail(ctx, StepVerify, err)
		}
	}

	if op.Archive != nil {
		r.trace(ctx, StepArchive)

		if err := op.Archive(ctx, input, candidate); err != nil {
			return zero, r.fail(ctx, StepArchive, err)
		}
	}

	result := zero

	if op.Commit != nil {
		r.trace(ctx, StepCommit)

		result, err = op.Commit(ctx, input, candidate)
		if err != nil {
			return zero, r.fail(ctx, StepCommit, err)
		}
	}

	r.logger.DebugContext(ctx, "operation completed",
		slog.Duration("duration", exec.now().Sub(start)),
	)

	return result, nil
}

// IsExecutionError checks if an error came out of Execute.
func IsExecutionError(err error) bool {
	var execErr *ExecutionError

	return errors.As(err, &execErr)
}

// GetExecutionStep extracts the step from an execution error.
func GetExecutionStep(err error) (ExecutionStep, bool) {
	var execErr *ExecutionError
	if errors.As(err, &execErr) {
		return execErr.Step, true
	}

	return "", false
}
