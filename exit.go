// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package rts

// exitKind tags the three ways a fiber can terminate.
type exitKind uint8

const (
	exitCompleted exitKind = iota
	exitFailed
	exitInterrupted
)

// ExitResult is the three-way outcome of a fiber: Completed(a), Failed(e),
// or Interrupted(cause). It is the currency of fiber completion, join
// propagation, and async resumption.
//
// A defect (an unrecovered panic inside Sync, or Terminate) is carried as
// Interrupted with a cause of the internal defectCause type; run unwraps
// it and re-raises the original value unchanged, but a joiner that only
// inspects Interrupted's cause generically still observes termination.
type ExitResult[E, A any] struct {
	kind  exitKind
	value A
	err   E
	cause any
}

// Completed constructs a successful ExitResult.
func Completed[E, A any](a A) ExitResult[E, A] {
	return ExitResult[E, A]{kind: exitCompleted, value: a}
}

// Failed constructs a typed-failure ExitResult.
func Failed[E, A any](e E) ExitResult[E, A] {
	return ExitResult[E, A]{kind: exitFailed, err: e}
}

// Interrupted constructs an interrupted ExitResult carrying cause.
func Interrupted[E, A any](cause any) ExitResult[E, A] {
	return ExitResult[E, A]{kind: exitInterrupted, cause: cause}
}

// IsCompleted reports whether the exit is a success.
func (x ExitResult[E, A]) IsCompleted() bool { return x.kind == exitCompleted }

// IsFailed reports whether the exit is a typed failure.
func (x ExitResult[E, A]) IsFailed() bool { return x.kind == exitFailed }

// IsInterrupted reports whether the exit is an interruption (including
// a defect, which is represented as an interruption with a defectCause).
func (x ExitResult[E, A]) IsInterrupted() bool { return x.kind == exitInterrupted }

// IsDefect reports whether this interruption is actually a surfaced defect.
func (x ExitResult[E, A]) IsDefect() bool {
	if x.kind != exitInterrupted {
		return false
	}
	_, ok := x.cause.(defectCause)
	return ok
}

// Value returns the completed value and true, or zero and false.
func (x ExitResult[E, A]) Value() (A, bool) {
	if x.kind == exitCompleted {
		return x.value, true
	}
	var zero A
	return zero, false
}

// Err returns the typed failure and true, or zero and false.
func (x ExitResult[E, A]) Err() (E, bool) {
	if x.kind == exitFailed {
		return x.err, true
	}
	var zero E
	return zero, false
}

// Cause returns the interruption/defect cause and true, or nil and false.
func (x ExitResult[E, A]) Cause() (any, bool) {
	if x.kind == exitInterrupted {
		return x.cause, true
	}
	return nil, false
}

// defectCause wraps a recovered panic value or a Terminate payload so it
// can travel through the Interrupted channel of ExitResult while still
// being distinguishable from an externally requested interruption.
type defectCause struct {
	value any
}

// MapExitResult transforms the success value of a completed exit.
func MapExitResult[E, A, B any](x ExitResult[E, A], f func(A) B) ExitResult[E, B] {
	switch x.kind {
	case exitCompleted:
		return Completed[E, B](f(x.value))
	case exitFailed:
		return Failed[E, B](x.err)
	default:
		return Interrupted[E, B](x.cause)
	}
}

// toOutcome erases an ExitResult into the interpreter's internal outcome
// record, restoring the distinction between a true interruption and a
// defect that was smuggled through the Interrupted channel.
func toOutcome[E, A any](x ExitResult[E, A]) outcome {
	switch x.kind {
	case exitCompleted:
		return valueOutcome(x.value)
	case exitFailed:
		return failOutcome(x.err)
	default:
		if dc, ok := x.cause.(defectCause); ok {
			return defectOutcome(dc.value)
		}
		return interruptOutcome(x.cause)
	}
}
