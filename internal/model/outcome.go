package model

import (
	"errors"
	"fmt"
)

// ErrInvalidState is returned when a caller extracts the wrong case from an
// Outcome: a value from a Failure, or a failure detail from a Success.
// It always indicates a programming error in the caller.
var ErrInvalidState = errors.New("invalid outcome state")

// outcomeKind records which case of an Outcome is populated. The zero value
// means neither, which is how a malformed Outcome is recognized.
type outcomeKind uint8

const (
	kindNone outcomeKind = iota
	kindSuccess
	kindFailure
)

// Outcome is the two-case result every command returns: either a success
// carrying a value, or a failure carrying a FailureDetail.
//
// Outcomes are immutable. Construct them only with Succeed or Fail; the
// zero value populates neither case and is rejected as malformed by
// the chain executor.
type Outcome[T any] struct {
	kind   outcomeKind
	value  T
	detail FailureDetail
}

// Succeed constructs a Success outcome holding v.
func Succeed[T any](v T) Outcome[T] {
	return Outcome[T]{kind: kindSuccess, value: v}
}

// Fail constructs a Failure outcome holding detail.
func Fail[T any](detail FailureDetail) Outcome[T] {
	return Outcome[T]{kind: kindFailure, detail: detail}
}

// IsSuccess reports whether the outcome is a Success.
func (o Outcome[T]) IsSuccess() bool {
	return o.kind == kindSuccess
}

// IsFailure reports whether the outcome is a Failure.
func (o Outcome[T]) IsFailure() bool {
	return o.kind == kindFailure
}

// IsValid reports whether exactly one case is populated, i.e. the outcome
// was built by Succeed or Fail.
func (o Outcome[T]) IsValid() bool {
	return o.kind == kindSuccess || o.kind == kindFailure
}

// Value returns the success value. It returns ErrInvalidState when the
// outcome is not a Success.
func (o Outcome[T]) Value() (T, error) {
	if o.kind != kindSuccess {
		var zero T
		return zero, fmt.Errorf("value requested from %s outcome: %w", o.kindName(), ErrInvalidState)
	}
	return o.value, nil
}

// Failure returns the failure detail. It returns ErrInvalidState when the
// outcome is not a Failure.
func (o Outcome[T]) Failure() (FailureDetail, error) {
	if o.kind != kindFailure {
		return FailureDetail{}, fmt.Errorf("failure requested from %s outcome: %w", o.kindName(), ErrInvalidState)
	}
	return o.detail, nil
}

func (o Outcome[T]) kindName() string {
	switch o.kind {
	case kindSuccess:
		return "success"
	case kindFailure:
		return "failure"
	default:
		return "empty"
	}
}
