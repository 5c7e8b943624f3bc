// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package rts

// Async suspends the fiber and invokes register(resume) to start an
// asynchronous operation. resume must be invoked at most once with the
// operation's ExitResult; register may return a canceler, invoked if
// the fiber is interrupted while suspended.
//
// The resume closure handed to register is already guarded by Affine
// (see affine.go) — extra invocations are silently discarded, exactly
// the single-fire guarantee described in the design notes.
func Async[E, A any](register func(resume func(ExitResult[E, A])) func()) Effect[E, A] {
	return wrap[E, A](asyncNode{
		register: func(resume func(outcome)) func() {
			return register(func(x ExitResult[E, A]) { resume(toOutcome(x)) })
		},
	})
}

// AsyncPure is like Async, but register itself is an effect, executed
// to perform the registration side effect. Its produced value is
// discarded; only the resume invocation matters.
func AsyncPure[E, A any](register func(resume func(ExitResult[E, A])) Effect[E, struct{}]) Effect[E, A] {
	return wrap[E, A](asyncPureNode{
		register: func(resume func(outcome)) node {
			return register(func(x ExitResult[E, A]) { resume(toOutcome(x)) }).n
		},
	})
}
