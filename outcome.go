// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package rts

// outcomeKind tags the way an erased computation concluded.
type outcomeKind uint8

const (
	outcomeValue outcomeKind = iota
	outcomeFail
	outcomeDefect
	outcomeInterrupt
)

// outcome is the erased record threaded through the unwind phase of the
// interpreter. It is the type-erased counterpart of ExitResult[E,A]:
// exactly one of value, errVal, defect, or cause is meaningful,
// selected by kind.
type outcome struct {
	kind   outcomeKind
	value  any // outcomeValue
	errVal any // outcomeFail: the typed E, erased
	defect any // outcomeDefect: recovered panic value or Terminate payload
	cause  any // outcomeInterrupt: interruption cause
}

func valueOutcome(v any) outcome { return outcome{kind: outcomeValue, value: v} }
func failOutcome(e any) outcome  { return outcome{kind: outcomeFail, errVal: e} }
func defectOutcome(d any) outcome {
	return outcome{kind: outcomeDefect, defect: d}
}
func interruptOutcome(cause any) outcome {
	return outcome{kind: outcomeInterrupt, cause: cause}
}

func (o outcome) isValue() bool     { return o.kind == outcomeValue }
func (o outcome) isFail() bool      { return o.kind == outcomeFail }
func (o outcome) isDefect() bool    { return o.kind == outcomeDefect }
func (o outcome) isInterrupt() bool { return o.kind == outcomeInterrupt }

// toExit converts an erased outcome into a typed ExitResult, recovering
// the concrete E and A types via type assertion at the boundary.
func toExit[E, A any](o outcome) ExitResult[E, A] {
	switch o.kind {
	case outcomeValue:
		a, _ := o.value.(A)
		return Completed[E, A](a)
	case outcomeFail:
		e, _ := o.errVal.(E)
		return Failed[E, A](e)
	case outcomeDefect:
		return Interrupted[E, A](defectCause{value: o.defect})
	default:
		return Interrupted[E, A](o.cause)
	}
}
