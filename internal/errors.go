package internal

import (
	"fmt"
	"runtime/debug"
)

// DefinitionError wraps a failure raised by a Cell's definition during
// evaluation. It is cached on the Cell and re-raised on every subsequent
// read until the definition is reassigned.
type DefinitionError struct {
	Cell       *Cell
	Cause      error
	StackTrace []byte
}

func (e *DefinitionError) Error() string {
	return fmt.Sprintf("reactive: definition failed: %v", e.Cause)
}

func (e *DefinitionError) Unwrap() error {
	return e.Cause
}

func newDefinitionError(cell *Cell, cause error) *DefinitionError {
	return &DefinitionError{
		Cell:       cell,
		Cause:      cause,
		StackTrace: debug.Stack(),
	}
}

// SelfReferenceError is reported when a Cell's own evaluation reads itself,
// directly or transitively, before the evaluation has produced a value.
type SelfReferenceError struct {
	Cell       *Cell
	StackTrace []byte
}

func (e *SelfReferenceError) Error() string {
	return "reactive: self-reference detected while evaluating cell"
}

func newSelfReferenceError(cell *Cell) *SelfReferenceError {
	return &SelfReferenceError{
		Cell:       cell,
		StackTrace: debug.Stack(),
	}
}

// CrossGoroutineError is reported when reactive runtime state (the tracker
// or scheduler) is touched from a goroutine other than the one currently
// holding it. The runtime is cooperative and single-threaded by contract;
// this is the guard that catches a violation instead of corrupting state.
type CrossGoroutineError struct {
	Expected int64
	Actual   int64
}

func (e *CrossGoroutineError) Error() string {
	return fmt.Sprintf("reactive: runtime entered from goroutine %d while owned by goroutine %d", e.Actual, e.Expected)
}
