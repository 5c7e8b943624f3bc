// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package rts

import "time"

// node is the type-erased representation of an effect tree. Effect[E,A]
// is a thin typed wrapper around node; the interpreter walks node values
// directly, recovering concrete types via assertion at the boundaries
// where a node closes over a typed function (flatMapNode.k, attemptNode's
// converters, and so on).
//
// The set of variants is closed by design — see Effect constructors
// below and the combinators in combinators.go, async.go, fiber.go, and
// rts.go.
type node interface {
	isNode()
}

// Effect is a pure, lazy description of a computation. E is the declared
// error kind, A the success kind. Constructing an Effect never runs it;
// only the interpreter (via Run, or a fiber's trampoline) evaluates it.
type Effect[E, A any] struct {
	n node
}

func wrap[E, A any](n node) Effect[E, A] { return Effect[E, A]{n: n} }

// --- leaf node variants ---

type nowNode struct{ value any }

func (nowNode) isNode() {}

type pointNode struct{ thunk func() any }

func (pointNode) isNode() {}

type syncNode struct{ thunk func() any }

func (syncNode) isNode() {}

// syncThrowableNode's thunk panics like syncNode's, but the interpreter
// recovers the panic here and converts it to a typed failure instead of
// a defect.
type syncThrowableNode struct{ thunk func() any }

func (syncThrowableNode) isNode() {}

type suspendNode struct{ thunk func() node }

func (suspendNode) isNode() {}

type failNode struct{ errVal any }

func (failNode) isNode() {}

type terminateNode struct{ defect any }

func (terminateNode) isNode() {}

// neverNode suspends forever; it is resolved only by external
// interruption, never by a resume.
type neverNode struct{}

func (neverNode) isNode() {}

// --- structural node variants (combinators.go builds Effect wrappers
// around these; they live here because they are part of the closed
// effect-value set) ---

type flatMapNode struct {
	child node
	k     func(any) node
}

func (flatMapNode) isNode() {}

type attemptNode struct {
	child   node
	toRight func(any) any // A -> Either[E,A] boxed as Right
	toLeft  func(any) any // E -> Either[E,A] boxed as Left
}

func (attemptNode) isNode() {}

type absolveNode struct {
	child node
	// unwrap projects the child's produced Either[E,A] (boxed any) into
	// either (rightValue, true) or (leftErr, false).
	unwrap func(any) (any, bool)
}

func (absolveNode) isNode() {}

type ensuringNode struct {
	child     node
	finalizer node
}

func (ensuringNode) isNode() {}

type onErrorNode struct {
	child   node
	handler func(hasErr bool, errVal any) node
}

func (onErrorNode) isNode() {}

// --- async / fiber / scheduler node variants ---

type asyncNode struct {
	register func(resume func(outcome)) (cancel func())
}

func (asyncNode) isNode() {}

// asyncPureNode's register returns an effect whose execution performs the
// registration side effect; its own produced value is discarded.
type asyncPureNode struct {
	register func(resume func(outcome)) node
}

func (asyncPureNode) isNode() {}

type forkNode struct {
	child   node
	handler func(outcome)
}

func (forkNode) isNode() {}

type joinNode struct {
	target *fiberState
}

func (joinNode) isNode() {}

type interruptNode struct {
	target *fiberState
	cause  any
}

func (interruptNode) isNode() {}

type sleepNode struct {
	d time.Duration
}

func (sleepNode) isNode() {}

// --- constructors ---

// Now builds an eager value. Constructing it evaluates a immediately;
// a panic here is not deferred to interpretation.
func Now[E, A any](a A) Effect[E, A] {
	return wrap[E, A](nowNode{value: a})
}

// Point defers evaluation of a pure thunk until the effect is
// interpreted. A thunk that panics is converted into a defect at that
// point, never at construction.
func Point[E, A any](thunk func() A) Effect[E, A] {
	return wrap[E, A](pointNode{thunk: func() any { return thunk() }})
}

// Sync defers evaluation of an effectful thunk. A panic raised while
// evaluating it surfaces as a defect (see Terminate, and the error
// channel discussion in errors.go).
func Sync[E, A any](thunk func() A) Effect[E, A] {
	return wrap[E, A](syncNode{thunk: func() any { return thunk() }})
}

// SyncThrowable is like Sync, but a panic raised while evaluating thunk
// is recovered and converted into a typed failure of kind E rather than
// a defect. The recovered value must be assignable to E, or the
// conversion itself becomes a defect.
func SyncThrowable[E, A any](thunk func() A) Effect[E, A] {
	return wrap[E, A](syncThrowableNode{thunk: func() any { return thunk() }})
}

// Suspend lazily wraps the production of another effect; neither the
// inner effect's construction nor any panic inside it occurs until
// interpretation, and it is evaluated exactly once.
func Suspend[E, A any](thunk func() Effect[E, A]) Effect[E, A] {
	return wrap[E, A](suspendNode{thunk: func() node { return thunk().n }})
}

// Fail builds a typed failure carrying e.
func Fail[E, A any](e E) Effect[E, A] {
	return wrap[E, A](failNode{errVal: e})
}

// Terminate builds an untyped defect. Defects are not recoverable by
// Attempt or Absolve; they surface from Run unchanged.
func Terminate[E, A any](t any) Effect[E, A] {
	return wrap[E, A](terminateNode{defect: t})
}

// Never builds an effect that suspends forever, resolved only by
// external interruption.
func Never[E, A any]() Effect[E, A] {
	return wrap[E, A](neverNode{})
}

// WidenError witnesses that an effect declared with a more specific
// error kind E also fits a wider kind E2. Purely structural: no
// interpretation step is added.
func WidenError[E2, E, A any](e Effect[E, A]) Effect[E2, A] {
	return wrap[E2, A](e.n)
}
